// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schema

import (
	"errors"
	"fmt"

	goerrors "github.com/agilira/go-errors"
)

// Error codes carried by DefinitionError.
const (
	ErrCodeMalformed     = "SIGIL_MALFORMED_DEFINITION"
	ErrCodeMissingName   = "SIGIL_MISSING_NAME"
	ErrCodeDuplicateName = "SIGIL_DUPLICATE_NAME"
	ErrCodeBadPositional = "SIGIL_BAD_POSITIONAL"
)

// ErrDefinition is the kind shared by every schema compilation failure.
// Use errors.Is(err, ErrDefinition) to tell misconfiguration apart from
// other errors.
var ErrDefinition = errors.New("definition error")

// DefinitionError reports a flag or parameter definition that cannot be
// compiled. It is returned when the definition is declared, never while
// binding. The coded *goerrors.Error it wraps carries the definition as
// context.
type DefinitionError struct {
	Definition string // The offending definition, colour codes removed
	Msg        string
	err        *goerrors.Error
}

func (e *DefinitionError) Error() string {
	if e.Definition == "" {
		return fmt.Sprintf("%v: %s", ErrDefinition, e.Msg)
	}
	return fmt.Sprintf("%v: %s in %q", ErrDefinition, e.Msg, e.Definition)
}

func (e *DefinitionError) Unwrap() []error {
	return []error{ErrDefinition, e.err}
}

// Code returns one of the ErrCode constants.
func (e *DefinitionError) Code() string {
	return string(e.err.ErrorCode())
}

// HasCode reports whether err carries a definition error with the given
// code.
func HasCode(err error, code string) bool {
	var defErr *DefinitionError
	if !errors.As(err, &defErr) {
		return false
	}
	return defErr.Code() == code
}

func newDefinitionError(def, msg string, err *goerrors.Error) *DefinitionError {
	return &DefinitionError{
		Definition: def,
		Msg:        msg,
		err:        err.WithContext("definition", def),
	}
}

func malformed(def, format string, args ...any) *DefinitionError {
	msg := fmt.Sprintf(format, args...)
	return newDefinitionError(def, msg, goerrors.New(ErrCodeMalformed, msg))
}

func missingName(def string) *DefinitionError {
	const msg = "missing name"
	return newDefinitionError(def, msg, goerrors.New(ErrCodeMissingName, msg))
}

func duplicateName(def, name string) *DefinitionError {
	msg := fmt.Sprintf("name %q is already defined", name)
	return newDefinitionError(def, msg, goerrors.New(ErrCodeDuplicateName, msg))
}

func badPositional(def, format string, args ...any) *DefinitionError {
	msg := fmt.Sprintf(format, args...)
	return newDefinitionError(def, msg, goerrors.New(ErrCodeBadPositional, msg))
}
