// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schema

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	goerrors "github.com/agilira/go-errors"
	"github.com/google/go-cmp/cmp"
	"github.com/yeetrun/sigil/pkg/grammar"
)

func TestCompileRecursive(t *testing.T) {
	s, err := Compile(Entry{Flags: "r,!recursive", Description: "Recurse into directories"})
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	if want := []string{"recursive"}; !reflect.DeepEqual(s.BooleanNames, want) {
		t.Errorf("BooleanNames = %v, want %v", s.BooleanNames, want)
	}
	if len(s.StringNames)+len(s.NumberNames)+len(s.ArrayNames) != 0 {
		t.Errorf("unexpected names in other buckets: %v %v %v", s.StringNames, s.NumberNames, s.ArrayNames)
	}
	if want := map[string]string{"r": "recursive"}; !reflect.DeepEqual(s.Aliases, want) {
		t.Errorf("Aliases = %v, want %v", s.Aliases, want)
	}
	if got := s.Descriptions["recursive"]; got != "Recurse into directories" {
		t.Errorf("Descriptions[recursive] = %q", got)
	}
	if _, ok := s.Defaults["recursive"]; ok {
		t.Errorf("Defaults[recursive] set without a default")
	}
}

func TestCompileDescriptors(t *testing.T) {
	tests := []struct {
		flags    string
		name     string
		aliases  []string
		typ      grammar.Type
		required bool
		hint     string
		variadic bool
	}{
		{flags: "v,verbose", name: "verbose", aliases: []string{"v"}, typ: grammar.String},
		{flags: "n,-retries<count>", name: "retries", aliases: []string{"n"}, typ: grammar.Number, hint: "count"},
		{flags: "t,tags|array", name: "tags", aliases: []string{"t"}, typ: grammar.Array},
		{flags: "o,out!<file>", name: "out", aliases: []string{"o"}, typ: grammar.String, required: true, hint: "file"},
		{flags: "f,format<json, yaml>", name: "format", aliases: []string{"f"}, typ: grammar.String, hint: "json, yaml"},
		{flags: "m,mode[fast|slow]|string", name: "mode", aliases: []string{"m"}, typ: grammar.String, hint: "fast|slow"},
		{flags: "c,!count|number", name: "count", aliases: []string{"c"}, typ: grammar.Number},
		{flags: "i,include,...paths", name: "paths", aliases: []string{"i", "include"}, typ: grammar.Array, variadic: true},
		{flags: "!force!", name: "force", typ: grammar.Boolean, required: true},
		{flags: "  q , quiet ", name: "quiet", aliases: []string{"q"}, typ: grammar.String},
		{flags: "-n,-n,num", name: "num", aliases: []string{"n"}, typ: grammar.String},
		{flags: "\x1b[36mv\x1b[0m,!verbose", name: "verbose", aliases: []string{"v"}, typ: grammar.Boolean},
	}
	for _, tt := range tests {
		t.Run(tt.flags, func(t *testing.T) {
			s, err := Compile(Entry{Flags: tt.flags})
			if err != nil {
				t.Fatalf("Compile(%q) failed: %v", tt.flags, err)
			}
			d, ok := s.Lookup(tt.name)
			if !ok {
				t.Fatalf("Lookup(%q) not found", tt.name)
			}
			if d.Name != tt.name {
				t.Errorf("Name = %q, want %q", d.Name, tt.name)
			}
			if !reflect.DeepEqual(d.Aliases, tt.aliases) {
				t.Errorf("Aliases = %#v, want %#v", d.Aliases, tt.aliases)
			}
			if d.Type != tt.typ {
				t.Errorf("Type = %v, want %v", d.Type, tt.typ)
			}
			if d.Required != tt.required {
				t.Errorf("Required = %v, want %v", d.Required, tt.required)
			}
			if d.Hint != tt.hint {
				t.Errorf("Hint = %q, want %q", d.Hint, tt.hint)
			}
			if d.Variadic != tt.variadic {
				t.Errorf("Variadic = %v, want %v", d.Variadic, tt.variadic)
			}
			if d.Display != tt.flags {
				t.Errorf("Display = %q, want %q", d.Display, tt.flags)
			}
			for _, a := range tt.aliases {
				if got, _ := s.Canonical(a); got != tt.name {
					t.Errorf("Canonical(%q) = %q, want %q", a, got, tt.name)
				}
			}
			if got := s.Names(tt.typ); !reflect.DeepEqual(got, []string{tt.name}) {
				t.Errorf("Names(%v) = %v, want [%s]", tt.typ, got, tt.name)
			}
			if tt.required && !reflect.DeepEqual(s.Required, []string{tt.name}) {
				t.Errorf("Required = %v, want [%s]", s.Required, tt.name)
			}
		})
	}
}

func TestCompileDefinitionErrors(t *testing.T) {
	tests := []struct {
		flags string
		code  string
	}{
		{"", ErrCodeMissingName},
		{"   ", ErrCodeMissingName},
		{"a,", ErrCodeMissingName},
		{"a,<hint>", ErrCodeMissingName},
		{"!", ErrCodeMissingName},
		{"name<unterminated", ErrCodeMalformed},
		{"name[open", ErrCodeMalformed},
		{"name|bogus", ErrCodeMalformed},
		{"a,--b,c", ErrCodeMalformed},
		{"bad name", ErrCodeMalformed},
	}
	for _, tt := range tests {
		t.Run(tt.flags, func(t *testing.T) {
			s := New()
			err := s.Add(Entry{Flags: tt.flags})
			if err == nil {
				t.Fatalf("Add(%q) succeeded, want error", tt.flags)
			}
			if !errors.Is(err, ErrDefinition) {
				t.Errorf("errors.Is(%v, ErrDefinition) = false", err)
			}
			if !HasCode(err, tt.code) {
				t.Errorf("HasCode(%v, %s) = false", err, tt.code)
			}
			if s.Len() != 0 {
				t.Errorf("Len = %d after failed Add, want 0", s.Len())
			}
		})
	}
}

func TestDefinitionErrorCode(t *testing.T) {
	_, err := Compile(Entry{Flags: "v,verbose"}, Entry{Flags: "v,version"})
	if err == nil {
		t.Fatal("Compile succeeded, want duplicate name error")
	}

	var coded *goerrors.Error
	if !errors.As(err, &coded) {
		t.Fatalf("errors.As(%T, *goerrors.Error) failed", err)
	}
	if got := string(coded.ErrorCode()); got != ErrCodeDuplicateName {
		t.Errorf("ErrorCode = %s, want %s", got, ErrCodeDuplicateName)
	}
	if got := coded.Context["definition"]; got != "v,version" {
		t.Errorf("Context[definition] = %v, want %q", got, "v,version")
	}

	var defErr *DefinitionError
	if !errors.As(err, &defErr) {
		t.Fatalf("errors.As(%T, *DefinitionError) failed", err)
	}
	if got := defErr.Code(); got != ErrCodeDuplicateName {
		t.Errorf("Code = %s, want %s", got, ErrCodeDuplicateName)
	}
	if HasCode(err, ErrCodeMalformed) {
		t.Errorf("HasCode(%v, %s) = true", err, ErrCodeMalformed)
	}
}

func TestCompileDuplicateNames(t *testing.T) {
	tests := []struct {
		name    string
		entries []Entry
	}{
		{"canonical", []Entry{{Flags: "verbose"}, {Flags: "!verbose"}}},
		{"alias", []Entry{{Flags: "v,verbose"}, {Flags: "v,version"}}},
		{"canonical shadows alias", []Entry{{Flags: "v,verbose"}, {Flags: "v"}}},
		{"alias shadows canonical", []Entry{{Flags: "version"}, {Flags: "version,verbose"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile(tt.entries...)
			if !HasCode(err, ErrCodeDuplicateName) {
				t.Fatalf("Compile err = %v, want %s", err, ErrCodeDuplicateName)
			}
			var defErr *DefinitionError
			if !errors.As(err, &defErr) {
				t.Fatalf("errors.As(%T) failed", err)
			}
			if defErr.Definition != tt.entries[1].Flags {
				t.Errorf("Definition = %q, want %q", defErr.Definition, tt.entries[1].Flags)
			}
			if !strings.Contains(err.Error(), tt.entries[1].Flags) {
				t.Errorf("Error() = %q, want it to name %q", err.Error(), tt.entries[1].Flags)
			}
		})
	}
}

func TestCompileTuples(t *testing.T) {
	s, err := CompileTuples([][]any{
		{"r,!recursive", "Recurse"},
		{"n,-retries", "Retry count", 3},
		{"t,tags|array", nil, []string{"a"}},
		{"name"},
	})
	if err != nil {
		t.Fatalf("CompileTuples failed: %v", err)
	}
	want := map[string]any{"retries": 3, "tags": []string{"a"}}
	if diff := cmp.Diff(want, s.Defaults); diff != "" {
		t.Errorf("Defaults mismatch (-want +got):\n%s", diff)
	}
	if got := s.Descriptions["retries"]; got != "Retry count" {
		t.Errorf("Descriptions[retries] = %q, want %q", got, "Retry count")
	}
	if got := s.Descriptions["tags"]; got != "" {
		t.Errorf("Descriptions[tags] = %q, want empty", got)
	}
}

func TestCompileTuplesNotString(t *testing.T) {
	tests := []struct {
		name  string
		tuple []any
		code  string
	}{
		{"number flags", []any{42, "answer"}, ErrCodeMalformed},
		{"nil flags", []any{nil}, ErrCodeMalformed},
		{"slice flags", []any{[]string{"a"}, "list"}, ErrCodeMalformed},
		{"bad description", []any{"v,verbose", 7}, ErrCodeMalformed},
		{"too long", []any{"v", "d", 1, 2}, ErrCodeMalformed},
		{"empty", []any{}, ErrCodeMissingName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := CompileTuples([][]any{tt.tuple})
			if s != nil {
				t.Errorf("CompileTuples returned a schema on error")
			}
			if !errors.Is(err, ErrDefinition) {
				t.Fatalf("err = %v, want ErrDefinition", err)
			}
			if !HasCode(err, tt.code) {
				t.Errorf("HasCode(%v, %s) = false", err, tt.code)
			}
		})
	}
}

func TestCompilePositionals(t *testing.T) {
	for _, def := range []string{"[pkg!, ...files]", "pkg!,...files", "\x1b[1m[pkg!, ...files]\x1b[0m"} {
		p, err := CompilePositionals(def)
		if err != nil {
			t.Fatalf("CompilePositionals(%q) failed: %v", def, err)
		}
		if got, want := p.Names(), []string{"pkg", "files"}; !reflect.DeepEqual(got, want) {
			t.Errorf("%q: Names = %v, want %v", def, got, want)
		}
		if want := []string{"pkg"}; !reflect.DeepEqual(p.Required, want) {
			t.Errorf("%q: Required = %v, want %v", def, p.Required, want)
		}
		v, ok := p.Variadic()
		if !ok || v.Name != "files" || v.Type != grammar.Array {
			t.Errorf("%q: Variadic = %+v, %v; want files array", def, v, ok)
		}
		if p.Display != def {
			t.Errorf("Display = %q, want %q", p.Display, def)
		}
	}
}

func TestCompilePositionalsTypes(t *testing.T) {
	p, err := CompilePositionals("[key!<name>, -count, !force, mode[a|b]]")
	if err != nil {
		t.Fatalf("CompilePositionals failed: %v", err)
	}
	want := []struct {
		name string
		typ  grammar.Type
		hint string
	}{
		{"key", grammar.String, "name"},
		{"count", grammar.Number, ""},
		{"force", grammar.Boolean, ""},
		{"mode", grammar.String, "a|b"},
	}
	if p.Len() != len(want) {
		t.Fatalf("Len = %d, want %d", p.Len(), len(want))
	}
	for i, w := range want {
		d := p.Params[i]
		if d.Name != w.name || d.Type != w.typ || d.Hint != w.hint {
			t.Errorf("Params[%d] = %s %v %q, want %s %v %q", i, d.Name, d.Type, d.Hint, w.name, w.typ, w.hint)
		}
	}
	if _, ok := p.Variadic(); ok {
		t.Errorf("Variadic reported without a variadic parameter")
	}
}

func TestCompilePositionalsEmpty(t *testing.T) {
	for _, def := range []string{"", "[]", "[ ]"} {
		p, err := CompilePositionals(def)
		if err != nil {
			t.Fatalf("CompilePositionals(%q) failed: %v", def, err)
		}
		if p.Len() != 0 {
			t.Errorf("CompilePositionals(%q).Len = %d, want 0", def, p.Len())
		}
	}
	var nilP *Positionals
	if nilP.Len() != 0 || nilP.Names() != nil {
		t.Errorf("nil Positionals not empty")
	}
}

func TestCompilePositionalsErrors(t *testing.T) {
	tests := []struct {
		def  string
		code string
	}{
		{"[...files, pkg]", ErrCodeBadPositional},
		{"[...a, ...b]", ErrCodeBadPositional},
		{"[a, a]", ErrCodeDuplicateName},
		{"[pkg", ErrCodeMalformed},
		{"[a,,b]", ErrCodeMissingName},
		{"[a|nope]", ErrCodeMalformed},
	}
	for _, tt := range tests {
		t.Run(tt.def, func(t *testing.T) {
			_, err := CompilePositionals(tt.def)
			if !errors.Is(err, ErrDefinition) {
				t.Fatalf("err = %v, want ErrDefinition", err)
			}
			if !HasCode(err, tt.code) {
				t.Errorf("HasCode(%v, %s) = false", err, tt.code)
			}
		})
	}
}

func TestExtend(t *testing.T) {
	child, err := Compile(Entry{Flags: "v,verbose"})
	if err != nil {
		t.Fatal(err)
	}
	parent, err := Compile(
		Entry{Flags: "v,version"},
		Entry{Flags: "d,!debug", Default: false},
		Entry{Flags: "!verbose"},
	)
	if err != nil {
		t.Fatal(err)
	}

	got := child.Extend(parent)
	var names []string
	for _, d := range got.Descriptors() {
		names = append(names, d.Name)
	}
	if want := []string{"verbose", "version", "debug"}; !reflect.DeepEqual(names, want) {
		t.Errorf("names = %v, want %v", names, want)
	}
	if c, _ := got.Canonical("v"); c != "verbose" {
		t.Errorf("Canonical(v) = %q, want verbose", c)
	}
	if c, _ := got.Canonical("d"); c != "debug" {
		t.Errorf("Canonical(d) = %q, want debug", c)
	}
	if d, _ := got.Lookup("verbose"); d.Type != grammar.String {
		t.Errorf("verbose type = %v, want string", d.Type)
	}
	if want := map[string]any{"debug": false}; !reflect.DeepEqual(got.Defaults, want) {
		t.Errorf("Defaults = %v, want %v", got.Defaults, want)
	}
	if child.Len() != 1 || parent.Len() != 3 {
		t.Errorf("Extend modified its inputs: child %d, parent %d", child.Len(), parent.Len())
	}
}

func TestNilSchema(t *testing.T) {
	var s *Schema
	if _, ok := s.Canonical("x"); ok {
		t.Error("nil schema resolved a name")
	}
	if _, ok := s.Lookup("x"); ok {
		t.Error("nil schema looked up a name")
	}
	if s.Len() != 0 || s.Descriptors() != nil || s.Names(grammar.String) != nil {
		t.Error("nil schema not empty")
	}
	if got := New().Extend(s); got.Len() != 0 {
		t.Errorf("Extend(nil).Len = %d, want 0", got.Len())
	}
}

func TestCompileName(t *testing.T) {
	tests := []struct {
		def     string
		name    string
		aliases []string
		code    string
	}{
		{def: "install", name: "install"},
		{def: "i,in,install", name: "install", aliases: []string{"i", "in"}},
		{def: "i, i ,install", name: "install", aliases: []string{"i"}},
		{def: "\x1b[32mrm\x1b[0m,remove", name: "remove", aliases: []string{"rm"}},
		{def: "", code: ErrCodeMissingName},
		{def: "i,", code: ErrCodeMissingName},
		{def: "-x,install", code: ErrCodeMalformed},
		{def: "in stall", code: ErrCodeMalformed},
	}
	for _, tt := range tests {
		t.Run(tt.def, func(t *testing.T) {
			name, aliases, err := CompileName(tt.def)
			if tt.code != "" {
				if !HasCode(err, tt.code) {
					t.Fatalf("CompileName(%q) err = %v, want %s", tt.def, err, tt.code)
				}
				return
			}
			if err != nil {
				t.Fatalf("CompileName(%q) failed: %v", tt.def, err)
			}
			if name != tt.name {
				t.Errorf("name = %q, want %q", name, tt.name)
			}
			if !reflect.DeepEqual(aliases, tt.aliases) {
				t.Errorf("aliases = %#v, want %#v", aliases, tt.aliases)
			}
		})
	}
}

func TestWithDefaults(t *testing.T) {
	s, err := Compile(
		Entry{Flags: "n,-retries", Default: 1},
		Entry{Flags: "l,level"},
	)
	if err != nil {
		t.Fatal(err)
	}
	got, unknown := s.WithDefaults(map[string]any{"n": 5, "level": "warn", "nope": true, "zzz": 1})
	if want := map[string]any{"retries": 5, "level": "warn"}; !reflect.DeepEqual(got.Defaults, want) {
		t.Errorf("Defaults = %v, want %v", got.Defaults, want)
	}
	if want := []string{"nope", "zzz"}; !reflect.DeepEqual(unknown, want) {
		t.Errorf("unknown = %v, want %v", unknown, want)
	}
	if want := map[string]any{"retries": 1}; !reflect.DeepEqual(s.Defaults, want) {
		t.Errorf("original Defaults = %v, want %v", s.Defaults, want)
	}

	p, err := CompilePositionals("[pkg, ...files]")
	if err != nil {
		t.Fatal(err)
	}
	pd := p.WithDefaults(map[string]any{"pkg": "react"})
	if !pd.Params[0].HasDefault || pd.Params[0].Default != "react" {
		t.Errorf("pkg default = %v, %v", pd.Params[0].Default, pd.Params[0].HasDefault)
	}
	if p.Params[0].HasDefault {
		t.Errorf("WithDefaults modified the original list")
	}
}
