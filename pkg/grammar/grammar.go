// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package grammar recognizes the compact flag syntax used by sigil
// definitions and command-line tokens.
//
// A definition segment looks like
//
//	[sigil]name[!][<hint>][|type]
//
// where the sigil is one of "!" (boolean), "-" (number) or "..." (array).
// Everything here is a pure function over strings.
package grammar

import (
	"strings"
)

// Type is the value type of an option or positional parameter.
type Type int

const (
	String Type = iota
	Boolean
	Number
	Array
)

func (t Type) String() string {
	switch t {
	case Boolean:
		return "boolean"
	case Number:
		return "number"
	case Array:
		return "array"
	default:
		return "string"
	}
}

// ParseType maps the name used in a "|type" suffix to a Type.
func ParseType(name string) (Type, bool) {
	switch strings.TrimSpace(name) {
	case "string":
		return String, true
	case "boolean", "bool":
		return Boolean, true
	case "number":
		return Number, true
	case "array":
		return Array, true
	}
	return String, false
}

// IsFlag reports whether s starts with "-".
func IsFlag(s string) bool {
	return strings.HasPrefix(s, "-")
}

// IsShortFlag reports whether s is a flag whose second character is not "-".
// A lone "-" is not a short flag.
func IsShortFlag(s string) bool {
	return len(s) > 1 && s[0] == '-' && s[1] != '-'
}

// IsLongFlag reports whether s starts with "--".
func IsLongFlag(s string) bool {
	return len(s) > 1 && s[0] == '-' && s[1] == '-'
}

// Between returns the text strictly between the first open symbol and the
// next close symbol after it, or "" when either is missing.
func Between(s, open, close string) string {
	start := strings.Index(s, open)
	if start < 0 {
		return ""
	}
	start += len(open)
	end := strings.Index(s[start:], close)
	if end < 0 {
		return ""
	}
	return s[start : start+end]
}

// Hint returns the angle-bracketed hint of a definition segment.
func Hint(s string) string {
	return Between(s, "<", ">")
}

// StripHint removes the first "<...>" group from s. An unterminated "<"
// cuts the rest of the string.
func StripHint(s string) string {
	start := strings.IndexByte(s, '<')
	if start < 0 {
		return s
	}
	end := strings.IndexByte(s[start:], '>')
	if end < 0 {
		return s[:start]
	}
	return s[:start] + s[start+end+1:]
}

// SplitType splits s at the first "|" that is not inside a "<...>" or
// "[...]" group. typ is "" when there is no separator.
func SplitType(s string) (head, typ string) {
	angle, square := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<':
			angle++
		case '>':
			if angle > 0 {
				angle--
			}
		case '[':
			square++
		case ']':
			if square > 0 {
				square--
			}
		case '|':
			if angle == 0 && square == 0 {
				return s[:i], s[i+1:]
			}
		}
	}
	return s, ""
}

// SigilType returns the type encoded by the leading sigil of s, once any
// angle-bracketed hint has been removed.
func SigilType(s string) Type {
	s = strings.TrimSpace(StripHint(s))
	if s == "" {
		return String
	}
	switch s[0] {
	case '-':
		return Number
	case '!':
		return Boolean
	case '.':
		return Array
	}
	return String
}

// StripSigil removes a leading "..." run or a single "!" or "-".
func StripSigil(s string) string {
	if strings.HasPrefix(s, ".") {
		return strings.TrimLeft(s, ".")
	}
	if strings.HasPrefix(s, "!") || strings.HasPrefix(s, "-") {
		return s[1:]
	}
	return s
}

// CleanName reduces a raw definition segment to its bare name. The hint is
// removed before the type suffix because hints may contain "|".
func CleanName(raw string) string {
	s := StripHint(raw)
	s, _ = SplitType(s)
	s = strings.TrimSpace(s)
	s = StripSigil(s)
	return strings.TrimSpace(s)
}
