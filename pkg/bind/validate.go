// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bind

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yeetrun/sigil/pkg/schema"
)

// ErrMissingRequired is the kind of every MissingRequiredError.
var ErrMissingRequired = errors.New("missing required arguments")

// MissingRequiredError lists the required flags and parameters that were
// not bound. It is a validation result, not a definition error.
type MissingRequiredError struct {
	Flags  []string // canonical flag names
	Params []string // positional parameter names
}

func (e *MissingRequiredError) Error() string {
	var parts []string
	for _, f := range e.Flags {
		parts = append(parts, "--"+f)
	}
	for _, p := range e.Params {
		parts = append(parts, "<"+p+">")
	}
	return fmt.Sprintf("%v: %s", ErrMissingRequired, strings.Join(parts, ", "))
}

func (e *MissingRequiredError) Unwrap() error {
	return ErrMissingRequired
}

// Names returns every missing name, flags first.
func (e *MissingRequiredError) Names() []string {
	return append(append([]string{}, e.Flags...), e.Params...)
}

// Validate reports the required names of s and p that r leaves unbound. It
// returns nil or a *MissingRequiredError naming all of them at once.
func Validate(s *schema.Schema, p *schema.Positionals, r *Result) error {
	var missing MissingRequiredError
	if s != nil {
		for _, name := range s.Required {
			if !r.Flags.Has(name) {
				missing.Flags = append(missing.Flags, name)
			}
		}
	}
	if p != nil {
		for _, name := range p.Required {
			if !r.Params.Has(name) {
				missing.Params = append(missing.Params, name)
			}
		}
	}
	if len(missing.Flags)+len(missing.Params) == 0 {
		return nil
	}
	return &missing
}
