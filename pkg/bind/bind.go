// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package bind maps raw command-line tokens onto a compiled schema.
//
// Binding never fails. Unknown flags, values that do not parse and flags
// missing their value all degrade to best-effort results; only Validate
// reports problems, and only for required names.
package bind

import (
	"maps"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/yeetrun/sigil/pkg/grammar"
	"github.com/yeetrun/sigil/pkg/schema"
)

// Values maps canonical names to coerced values: string, bool, float64 or
// []string. A number or boolean that failed to parse keeps its raw string.
type Values map[string]any

// Result is the outcome of a Bind call.
type Result struct {
	Flags  Values // keyed by canonical flag name
	Params Values // keyed by positional parameter name

	Args    []string // leftover positional tokens, "_"
	Rest    []string // tokens after a literal "--"
	Unknown []string // unrecognised flag tokens, also present in Args
}

// Map returns the result as a single mapping with the reserved keys "_" and
// "--" alongside the bound names.
func (r *Result) Map() map[string]any {
	m := make(map[string]any, len(r.Flags)+len(r.Params)+2)
	maps.Copy(m, r.Flags)
	maps.Copy(m, r.Params)
	m["_"] = append([]string{}, r.Args...)
	m["--"] = append([]string{}, r.Rest...)
	return m
}

type binder struct {
	s      *schema.Schema
	p      *schema.Positionals
	tokens []string
	pos    int // cursor into tokens
	param  int // next positional parameter
	res    *Result
}

// Bind binds tokens against s and p. Either may be nil. The same inputs
// always produce structurally identical results.
func Bind(s *schema.Schema, p *schema.Positionals, tokens []string) *Result {
	b := &binder{
		s:      s,
		p:      p,
		tokens: tokens,
		res: &Result{
			Flags:  Values{},
			Params: Values{},
		},
	}
	b.run()
	b.applyDefaults()
	return b.res
}

func (b *binder) run() {
	for b.pos < len(b.tokens) {
		tok := b.tokens[b.pos]
		b.pos++
		switch {
		case tok == "--":
			b.res.Rest = append(b.res.Rest, b.tokens[b.pos:]...)
			return
		case grammar.IsLongFlag(tok):
			b.long(tok)
		case grammar.IsShortFlag(tok) && !b.negativeNumber(tok):
			b.short(tok)
		default:
			b.positional(tok)
		}
	}
}

func (b *binder) long(tok string) {
	name, val, hasVal := strings.Cut(tok[2:], "=")
	d, ok := b.s.Lookup(name)
	if !ok {
		b.unknown(tok)
		return
	}
	b.assign(d, val, hasVal)
}

// short handles "-x", "-abc", "-n5" and "-n=5". A token whose body is a
// declared alias as a whole is treated like the long form.
func (b *binder) short(tok string) {
	body := tok[1:]
	name, val, hasVal := strings.Cut(body, "=")
	if utf8.RuneCountInString(name) > 1 {
		if d, ok := b.s.Lookup(name); ok {
			b.assign(d, val, hasVal)
			return
		}
	}

	for i, r := range body {
		name := string(r)
		rest := body[i+len(name):]
		d, ok := b.s.Lookup(name)
		if !ok {
			b.unknown("-" + name)
			if strings.HasPrefix(rest, "=") {
				return
			}
			continue
		}
		if d.Type == grammar.Boolean {
			switch {
			case strings.HasPrefix(rest, "="):
				b.assign(d, rest[1:], true)
				return
			case rest == "":
				b.assign(d, "", false)
			default:
				b.set(d, true)
			}
			continue
		}
		if rest == "" {
			b.assign(d, "", false)
		} else {
			b.store(d, strings.TrimPrefix(rest, "="))
		}
		return
	}
}

// assign binds a flag whose inline value, if any, has been split off.
func (b *binder) assign(d schema.Descriptor, val string, hasVal bool) {
	if d.Type == grammar.Boolean {
		if hasVal {
			b.set(d, Coerce(grammar.Boolean, val))
			return
		}
		if next, ok := b.peek(); ok && (next == "true" || next == "false") {
			b.pos++
			b.set(d, next == "true")
			return
		}
		b.set(d, true)
		return
	}
	if hasVal {
		b.store(d, val)
		return
	}
	next, ok := b.peek()
	if !ok || next == "--" || (grammar.IsFlag(next) && next != "-" && !looksNumeric(next)) {
		// No value: leave unset so the default, if any, applies.
		return
	}
	b.pos++
	b.store(d, next)
}

func (b *binder) peek() (string, bool) {
	if b.pos >= len(b.tokens) {
		return "", false
	}
	return b.tokens[b.pos], true
}

// store records a raw value for a non-boolean flag. Arrays accumulate;
// other types keep the last value.
func (b *binder) store(d schema.Descriptor, raw string) {
	if d.Type == grammar.Array {
		prev, _ := b.res.Flags[d.Name].([]string)
		b.res.Flags[d.Name] = append(prev, raw)
		return
	}
	b.set(d, Coerce(d.Type, raw))
}

func (b *binder) set(d schema.Descriptor, v any) {
	b.res.Flags[d.Name] = v
}

func (b *binder) unknown(tok string) {
	b.res.Unknown = append(b.res.Unknown, tok)
	b.res.Args = append(b.res.Args, tok)
}

func (b *binder) positional(tok string) {
	if b.param >= b.p.Len() {
		b.res.Args = append(b.res.Args, tok)
		return
	}
	d := b.p.Params[b.param]
	if d.Variadic {
		prev, _ := b.res.Params[d.Name].([]string)
		b.res.Params[d.Name] = append(prev, tok)
		return
	}
	b.res.Params[d.Name] = Coerce(d.Type, tok)
	b.param++
}

// negativeNumber reports whether tok is a negative number rather than a
// bundle of short flags. A declared alias for the first digit wins.
func (b *binder) negativeNumber(tok string) bool {
	if !looksNumeric(tok) {
		return false
	}
	_, ok := b.s.Canonical(tok[1:2])
	return !ok
}

func (b *binder) applyDefaults() {
	for _, d := range b.s.Descriptors() {
		if _, ok := b.res.Flags[d.Name]; !ok && d.HasDefault {
			b.res.Flags[d.Name] = CoerceValue(d.Type, d.Default)
		}
	}
	if b.p == nil {
		return
	}
	for _, d := range b.p.Params {
		if _, ok := b.res.Params[d.Name]; !ok && d.HasDefault {
			b.res.Params[d.Name] = CoerceValue(d.Type, d.Default)
		}
	}
}

// Clone returns a deep copy of v.
func (v Values) Clone() Values {
	if v == nil {
		return nil
	}
	out := make(Values, len(v))
	for k, val := range v {
		if s, ok := val.([]string); ok {
			val = slices.Clone(s)
		}
		out[k] = val
	}
	return out
}

// String returns the value of name as a string.
func (v Values) String(name string) string {
	switch x := v[name].(type) {
	case string:
		return x
	case []string:
		if len(x) > 0 {
			return x[len(x)-1]
		}
	case nil:
	default:
		return formatScalar(x)
	}
	return ""
}

// Bool reports whether name is bound to true.
func (v Values) Bool(name string) bool {
	b, _ := v[name].(bool)
	return b
}

// Float returns the numeric value of name and whether it is a number.
func (v Values) Float(name string) (float64, bool) {
	f, ok := v[name].(float64)
	return f, ok
}

// Strings returns the value of name as a list.
func (v Values) Strings(name string) []string {
	switch x := v[name].(type) {
	case []string:
		return x
	case nil:
		return nil
	case string:
		return []string{x}
	default:
		return []string{formatScalar(x)}
	}
}

// Has reports whether name is bound.
func (v Values) Has(name string) bool {
	_, ok := v[name]
	return ok
}
