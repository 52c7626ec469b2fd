// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schema

import (
	"strings"

	"github.com/yeetrun/sigil/pkg/grammar"
)

type lexState int

const (
	stateOutside lexState = iota
	stateAngle            // inside a <hint>
	stateSquare           // inside a [group], which may nest
)

func (s lexState) String() string {
	switch s {
	case stateAngle:
		return "<"
	case stateSquare:
		return "["
	}
	return ""
}

// splitSegments splits a definition on the commas that sit outside any
// <...> or [...] group. Segments are trimmed but empty ones are kept so the
// caller can tell "a,,b" from "a,b".
func splitSegments(def string) ([]string, error) {
	var (
		segs  []string
		state = stateOutside
		depth int
		start int
	)
	for i := 0; i < len(def); i++ {
		c := def[i]
		switch state {
		case stateOutside:
			switch c {
			case '<':
				state = stateAngle
			case '[':
				state, depth = stateSquare, 1
			case ',':
				segs = append(segs, strings.TrimSpace(def[start:i]))
				start = i + 1
			}
		case stateAngle:
			if c == '>' {
				state = stateOutside
			}
		case stateSquare:
			switch c {
			case '[':
				depth++
			case ']':
				depth--
				if depth == 0 {
					state = stateOutside
				}
			}
		}
	}
	if state != stateOutside {
		return nil, malformed(def, "unterminated %q group", state.String())
	}
	return append(segs, strings.TrimSpace(def[start:])), nil
}

// segment is one parsed "[sigil]name[!][<hint>][|type]" unit.
type segment struct {
	name     string
	hint     string
	typ      grammar.Type
	explicit bool // typ came from a |type suffix
	required bool
	variadic bool
}

// parseSegment scans a single definition segment. A "|" only starts the type
// suffix outside of <...> and [...]; the first [...] group doubles as the
// hint when no <...> hint is present. def is the whole definition, used in
// errors.
func parseSegment(raw, def string) (segment, error) {
	var (
		body, hint, group, typ strings.Builder

		state  = stateOutside
		depth  int
		inType bool
	)
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		switch state {
		case stateOutside:
			switch {
			case c == '<':
				state = stateAngle
			case c == '[':
				state, depth = stateSquare, 1
			case c == '|' && !inType:
				inType = true
			case inType:
				typ.WriteByte(c)
			default:
				body.WriteByte(c)
			}
		case stateAngle:
			if c == '>' {
				state = stateOutside
				continue
			}
			hint.WriteByte(c)
		case stateSquare:
			switch c {
			case '[':
				depth++
			case ']':
				depth--
				if depth == 0 {
					state = stateOutside
					continue
				}
			}
			group.WriteByte(c)
		}
	}
	if state != stateOutside {
		return segment{}, malformed(def, "unterminated %q group", state.String())
	}

	text := strings.TrimSpace(body.String())
	seg := segment{
		typ:      grammar.SigilType(text),
		variadic: strings.HasPrefix(text, "..."),
		hint:     strings.TrimSpace(hint.String()),
	}
	if seg.hint == "" {
		seg.hint = strings.TrimSpace(group.String())
	}
	if t := strings.TrimSpace(typ.String()); t != "" {
		parsed, ok := grammar.ParseType(t)
		if !ok {
			return segment{}, malformed(def, "unknown type %q", t)
		}
		seg.typ, seg.explicit = parsed, true
	}

	name := strings.TrimSpace(grammar.StripSigil(text))
	if strings.HasSuffix(name, "!") {
		seg.required = true
		name = strings.TrimSpace(strings.TrimSuffix(name, "!"))
	}
	if name == "" {
		return segment{}, missingName(def)
	}
	if !validName(name) {
		return segment{}, malformed(def, "invalid name %q", name)
	}
	seg.name = name
	return seg, nil
}

func validName(name string) bool {
	return name != "" && !strings.ContainsAny(name, " \t=!<>[]|,") && name[0] != '-'
}
