// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package schema compiles compact flag definitions into an option schema.
//
// A definition lists aliases first and the canonical flag last:
//
//	"r,!recursive"          boolean "recursive", alias "r"
//	"n,-retries<count>"     number "retries", alias "n", hint "count"
//	"t,tags|array"          array "tags", alias "t"
//	"o,out!<file>"          required string "out", alias "o"
//
// Default-command parameters use a bracketed list, see CompilePositionals.
// Compilation fails with a *DefinitionError as soon as a definition is
// declared.
package schema

import (
	"slices"
	"strings"

	"github.com/yeetrun/sigil/pkg/ansi"
	"github.com/yeetrun/sigil/pkg/grammar"
)

// Descriptor describes one option or positional parameter.
type Descriptor struct {
	Name        string
	Aliases     []string
	Type        grammar.Type
	Required    bool
	Default     any
	HasDefault  bool
	Description string
	Hint        string
	Variadic    bool
	// Display is the definition as written, colour codes included.
	Display string
}

// Entry is a single option definition.
type Entry struct {
	Flags       string
	Description string
	// Default is applied when the option is not given. nil means no default.
	Default any
}

// Schema groups compiled options by type and indexes their aliases,
// descriptions, hints and defaults by canonical name.
type Schema struct {
	StringNames  []string
	BooleanNames []string
	NumberNames  []string
	ArrayNames   []string

	Aliases      map[string]string // alias -> canonical name
	Descriptions map[string]string
	Hints        map[string]string
	Defaults     map[string]any
	Required     []string

	descriptors []Descriptor
	index       map[string]int // canonical name -> descriptors index
}

// New returns an empty schema.
func New() *Schema {
	return &Schema{
		Aliases:      make(map[string]string),
		Descriptions: make(map[string]string),
		Hints:        make(map[string]string),
		Defaults:     make(map[string]any),
		index:        make(map[string]int),
	}
}

// Compile builds a schema from entries, stopping at the first bad one.
func Compile(entries ...Entry) (*Schema, error) {
	s := New()
	for _, e := range entries {
		if err := s.Add(e); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Add compiles e and registers it. On error the schema is left unchanged.
func (s *Schema) Add(e Entry) error {
	flags := strings.TrimSpace(ansi.Strip(e.Flags))
	if flags == "" {
		return missingName(e.Flags)
	}
	segs, err := splitSegments(flags)
	if err != nil {
		return err
	}

	last := segs[len(segs)-1]
	if last == "" {
		return missingName(flags)
	}
	seg, err := parseSegment(last, flags)
	if err != nil {
		return err
	}
	if s.taken(seg.name) {
		return duplicateName(flags, seg.name)
	}

	var aliases []string
	for _, raw := range segs[:len(segs)-1] {
		alias := grammar.CleanName(raw)
		if alias == "" || alias == seg.name || slices.Contains(aliases, alias) {
			continue
		}
		if !validName(alias) {
			return malformed(flags, "invalid alias %q", alias)
		}
		if s.taken(alias) {
			return duplicateName(flags, alias)
		}
		aliases = append(aliases, alias)
	}

	s.register(Descriptor{
		Name:        seg.name,
		Aliases:     aliases,
		Type:        seg.typ,
		Required:    seg.required,
		Default:     e.Default,
		HasDefault:  e.Default != nil,
		Description: e.Description,
		Hint:        seg.hint,
		Variadic:    seg.variadic,
		Display:     e.Flags,
	})
	return nil
}

// taken reports whether name is already a canonical name or an alias.
func (s *Schema) taken(name string) bool {
	if _, ok := s.index[name]; ok {
		return true
	}
	_, ok := s.Aliases[name]
	return ok
}

func (s *Schema) register(d Descriptor) {
	switch d.Type {
	case grammar.Boolean:
		s.BooleanNames = append(s.BooleanNames, d.Name)
	case grammar.Number:
		s.NumberNames = append(s.NumberNames, d.Name)
	case grammar.Array:
		s.ArrayNames = append(s.ArrayNames, d.Name)
	default:
		s.StringNames = append(s.StringNames, d.Name)
	}
	for _, a := range d.Aliases {
		s.Aliases[a] = d.Name
	}
	s.Descriptions[d.Name] = d.Description
	s.Hints[d.Name] = d.Hint
	if d.HasDefault {
		s.Defaults[d.Name] = d.Default
	}
	if d.Required {
		s.Required = append(s.Required, d.Name)
	}
	s.index[d.Name] = len(s.descriptors)
	s.descriptors = append(s.descriptors, d)
}

// Canonical resolves an alias or canonical name to the canonical name.
func (s *Schema) Canonical(name string) (string, bool) {
	if s == nil {
		return "", false
	}
	if _, ok := s.index[name]; ok {
		return name, true
	}
	canon, ok := s.Aliases[name]
	return canon, ok
}

// Lookup returns the descriptor for an alias or canonical name.
func (s *Schema) Lookup(name string) (Descriptor, bool) {
	canon, ok := s.Canonical(name)
	if !ok {
		return Descriptor{}, false
	}
	return s.descriptors[s.index[canon]], true
}

// Descriptors returns the compiled options in declaration order.
func (s *Schema) Descriptors() []Descriptor {
	if s == nil {
		return nil
	}
	return slices.Clone(s.descriptors)
}

// Len returns the number of canonical options.
func (s *Schema) Len() int {
	if s == nil {
		return 0
	}
	return len(s.descriptors)
}

// Names returns the canonical names of the given type.
func (s *Schema) Names(t grammar.Type) []string {
	if s == nil {
		return nil
	}
	switch t {
	case grammar.Boolean:
		return s.BooleanNames
	case grammar.Number:
		return s.NumberNames
	case grammar.Array:
		return s.ArrayNames
	}
	return s.StringNames
}

// Extend returns a new schema holding s plus the options of parent that do
// not collide with it. Names and aliases declared in s win; a colliding
// parent alias is dropped while the rest of its option is kept.
func (s *Schema) Extend(parent *Schema) *Schema {
	out := New()
	for _, d := range s.Descriptors() {
		out.register(d)
	}
	for _, d := range parent.Descriptors() {
		if out.taken(d.Name) {
			continue
		}
		aliases := make([]string, 0, len(d.Aliases))
		for _, a := range d.Aliases {
			if !out.taken(a) && a != d.Name {
				aliases = append(aliases, a)
			}
		}
		d.Aliases = aliases
		out.register(d)
	}
	return out
}
