// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schema

import (
	"slices"
	"strings"

	"github.com/yeetrun/sigil/pkg/ansi"
)

// CompileName parses a command definition such as "i,in,install". The last
// name is canonical and the others are aliases. Sigils are not allowed.
func CompileName(def string) (name string, aliases []string, err error) {
	s := strings.TrimSpace(ansi.Strip(def))
	if s == "" {
		return "", nil, missingName(def)
	}
	segs, err := splitSegments(s)
	if err != nil {
		return "", nil, err
	}
	name = segs[len(segs)-1]
	if name == "" {
		return "", nil, missingName(s)
	}
	if !validName(name) {
		return "", nil, malformed(s, "invalid command name %q", name)
	}
	for _, a := range segs[:len(segs)-1] {
		if a == "" || a == name || slices.Contains(aliases, a) {
			continue
		}
		if !validName(a) {
			return "", nil, malformed(s, "invalid command alias %q", a)
		}
		aliases = append(aliases, a)
	}
	return name, aliases, nil
}

// CheckParams returns a duplicate-name error for the first parameter of p
// whose name is an option name or alias in s. def names the definition
// being added.
func CheckParams(def string, s *Schema, p *Positionals) error {
	if s == nil || p == nil {
		return nil
	}
	for _, d := range p.Params {
		if s.taken(d.Name) {
			return duplicateName(def, d.Name)
		}
	}
	return nil
}

// WithDefaults returns a copy of s whose defaults are replaced by the
// matching entries of defaults, which may be keyed by canonical name or
// alias. Keys that match no option are returned as unknown.
func (s *Schema) WithDefaults(defaults map[string]any) (out *Schema, unknown []string) {
	byName := make(map[string]any, len(defaults))
	for k, v := range defaults {
		canon, ok := s.Canonical(k)
		if !ok {
			unknown = append(unknown, k)
			continue
		}
		byName[canon] = v
	}
	slices.Sort(unknown)

	out = New()
	for _, d := range s.Descriptors() {
		if v, ok := byName[d.Name]; ok && v != nil {
			d.Default, d.HasDefault = v, true
		}
		out.register(d)
	}
	return out, unknown
}

// WithDefaults returns a copy of p whose parameters take their defaults from
// the matching entries of defaults.
func (p *Positionals) WithDefaults(defaults map[string]any) *Positionals {
	if p == nil {
		return nil
	}
	out := &Positionals{
		Params:   slices.Clone(p.Params),
		Required: p.Required,
		Display:  p.Display,
	}
	for i, d := range out.Params {
		if v, ok := defaults[d.Name]; ok && v != nil {
			out.Params[i].Default, out.Params[i].HasDefault = v, true
		}
	}
	return out
}
