// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schema

import (
	"strings"

	"github.com/yeetrun/sigil/pkg/ansi"
	"github.com/yeetrun/sigil/pkg/grammar"
	"tailscale.com/util/set"
)

// Positionals is the ordered parameter list of a default command.
type Positionals struct {
	Params   []Descriptor
	Required []string
	// Display is the list as written, colour codes included.
	Display string
}

// CompilePositionals compiles a bracketed parameter list such as
// "[pkg!, ...files]". The outer brackets are optional. Each entry follows
// the flag segment grammar without aliases. At most one entry may be
// variadic and it must be the last one.
func CompilePositionals(def string) (*Positionals, error) {
	p := &Positionals{Display: def}
	list := strings.TrimSpace(ansi.Strip(def))
	if strings.HasPrefix(list, "[") {
		if !strings.HasSuffix(list, "]") {
			return nil, malformed(list, "unterminated %q group", "[")
		}
		list = strings.TrimSpace(list[1 : len(list)-1])
	}
	if list == "" {
		return p, nil
	}

	segs, err := splitSegments(list)
	if err != nil {
		return nil, err
	}
	seen := make(set.Set[string])
	variadic := ""
	for _, raw := range segs {
		if raw == "" {
			return nil, missingName(list)
		}
		seg, err := parseSegment(raw, list)
		if err != nil {
			return nil, err
		}
		if variadic != "" {
			return nil, badPositional(list, "parameter %q follows variadic parameter %q", seg.name, variadic)
		}
		if seen.Contains(seg.name) {
			return nil, duplicateName(list, seg.name)
		}
		seen.Add(seg.name)

		d := Descriptor{
			Name:     seg.name,
			Type:     seg.typ,
			Required: seg.required,
			Hint:     seg.hint,
			Variadic: seg.typ == grammar.Array,
			Display:  raw,
		}
		if d.Variadic {
			variadic = d.Name
		}
		if d.Required {
			p.Required = append(p.Required, d.Name)
		}
		p.Params = append(p.Params, d)
	}
	return p, nil
}

// Len returns the number of declared parameters.
func (p *Positionals) Len() int {
	if p == nil {
		return 0
	}
	return len(p.Params)
}

// Variadic returns the trailing variadic parameter, if any.
func (p *Positionals) Variadic() (Descriptor, bool) {
	if p.Len() == 0 {
		return Descriptor{}, false
	}
	last := p.Params[len(p.Params)-1]
	return last, last.Variadic
}

// Names returns the parameter names in declaration order.
func (p *Positionals) Names() []string {
	if p == nil {
		return nil
	}
	names := make([]string, len(p.Params))
	for i, d := range p.Params {
		names[i] = d.Name
	}
	return names
}
