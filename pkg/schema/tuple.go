// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schema

import "fmt"

// EntryFromTuple converts the loose [flags, description, default] form into
// an Entry. The description and default are optional. Flags must be a
// string; anything else is a malformed definition.
func EntryFromTuple(t []any) (Entry, error) {
	switch {
	case len(t) == 0:
		return Entry{}, missingName("")
	case len(t) > 3:
		return Entry{}, malformed(fmt.Sprint(t[0]), "tuple has %d elements, want at most 3", len(t))
	}
	flags, ok := t[0].(string)
	if !ok {
		return Entry{}, malformed(fmt.Sprint(t[0]), "flags must be a string, got %T", t[0])
	}
	e := Entry{Flags: flags}
	if len(t) > 1 && t[1] != nil {
		desc, ok := t[1].(string)
		if !ok {
			return Entry{}, malformed(flags, "description must be a string, got %T", t[1])
		}
		e.Description = desc
	}
	if len(t) > 2 {
		e.Default = t[2]
	}
	return e, nil
}

// AddTuple is Add for the tuple form.
func (s *Schema) AddTuple(t []any) error {
	e, err := EntryFromTuple(t)
	if err != nil {
		return err
	}
	return s.Add(e)
}

// CompileTuples builds a schema from tuples, stopping at the first bad one.
func CompileTuples(tuples [][]any) (*Schema, error) {
	s := New()
	for _, t := range tuples {
		if err := s.AddTuple(t); err != nil {
			return nil, err
		}
	}
	return s, nil
}
