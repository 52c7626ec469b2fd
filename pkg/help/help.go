// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package help renders help text for a command tree.
package help

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"
	"github.com/yeetrun/sigil/pkg/ansi"
	"github.com/yeetrun/sigil/pkg/command"
	"github.com/yeetrun/sigil/pkg/grammar"
	"github.com/yeetrun/sigil/pkg/schema"
)

const (
	flagColumn = 28
	nameColumn = 12
)

type styles struct {
	c       ansi.Colorizer
	heading *color.Color
	name    *color.Color
	hint    *color.Color
	note    *color.Color
}

func newStyles(c ansi.Colorizer) styles {
	s := styles{
		c:       c,
		heading: color.New(color.Bold),
		name:    color.New(color.FgCyan),
		hint:    color.New(color.FgYellow),
		note:    color.New(color.FgHiBlack),
	}
	for _, col := range []*color.Color{s.heading, s.name, s.hint, s.note} {
		if c.Enabled {
			col.EnableColor()
		} else {
			col.DisableColor()
		}
	}
	return s
}

// Printer returns a command.HelpFunc that renders USAGE, COMMANDS,
// ARGUMENTS, OPTIONS and GLOBAL OPTIONS sections, coloured when c is
// enabled. Commands and options declared with colour codes keep their
// colour.
func Printer(c ansi.Colorizer) command.HelpFunc {
	st := newStyles(c)
	return func(w io.Writer, n *command.Node) error {
		_, err := io.WriteString(w, render(st, n))
		return err
	}
}

// Render returns the uncoloured help text for n.
func Render(n *command.Node) string {
	return render(newStyles(ansi.Colorizer{}), n)
}

func render(st styles, n *command.Node) string {
	var b strings.Builder
	root := n.Root().Name()
	full := strings.Join(append([]string{root}, n.Path()...), " ")

	if n.Parent() == nil {
		b.WriteString(st.name.Sprint(root))
		if d := n.Description(); d != "" {
			b.WriteString(" - " + d)
		}
		b.WriteString("\n\n")
	} else if d := n.Description(); d != "" {
		b.WriteString(d + "\n\n")
	}

	if aliases := n.Aliases(); len(aliases) > 0 {
		b.WriteString(st.heading.Sprint("ALIASES:") + "\n")
		fmt.Fprintf(&b, "    %s\n\n", strings.Join(aliases, ", "))
	}

	children := visibleChildren(n)
	b.WriteString(st.heading.Sprint("USAGE:") + "\n")
	usage := "    " + full
	if len(children) > 0 {
		usage += " COMMAND"
	}
	usage += " [OPTIONS]"
	if p := n.Params(); p.Len() > 0 {
		usage += " " + argsUsage(p)
	}
	b.WriteString(usage + "\n\n")

	if len(children) > 0 {
		b.WriteString(st.heading.Sprint("COMMANDS:") + "\n")
		for _, c := range children {
			name := c.Name()
			fmt.Fprintf(&b, "    %s%s %s\n", st.styled(c.Display(), name), pad(name, nameColumn), describeWithAliases(c.Description(), c.Aliases()))
		}
		b.WriteString("\n")
	}

	if p := n.Params(); p.Len() > 0 {
		b.WriteString(st.heading.Sprint("ARGUMENTS:") + "\n")
		for _, d := range p.Params {
			arg := argName(d)
			line := "    " + st.name.Sprint(arg)
			var notes []string
			if d.Hint != "" {
				notes = append(notes, d.Hint)
			}
			if d.Type != grammar.String && !d.Variadic {
				notes = append(notes, d.Type.String())
			}
			if len(notes) > 0 {
				line += pad(arg, 20) + " " + st.note.Sprint(strings.Join(notes, ", "))
			}
			b.WriteString(line + "\n")
		}
		b.WriteString("\n")
	}

	own, eff := n.Schema(), n.EffectiveSchema()
	b.WriteString(st.heading.Sprint("OPTIONS:") + "\n")
	for _, d := range own.Descriptors() {
		b.WriteString(optionLine(st, d))
	}
	if flags := helpFlags(eff); flags != "" {
		fmt.Fprintf(&b, "    %s%s %s\n", st.name.Sprint(flags), pad(flags, flagColumn-4), "Show help")
	}
	b.WriteString("\n")

	var globals []schema.Descriptor
	for _, d := range eff.Descriptors() {
		if _, ok := own.Lookup(d.Name); !ok {
			globals = append(globals, d)
		}
	}
	if len(globals) > 0 {
		b.WriteString(st.heading.Sprint("GLOBAL OPTIONS:") + "\n")
		for _, d := range globals {
			b.WriteString(optionLine(st, d))
		}
		b.WriteString("\n")
	}

	if examples := n.Examples(); len(examples) > 0 {
		b.WriteString(st.heading.Sprint("EXAMPLES:") + "\n")
		for _, ex := range examples {
			fmt.Fprintf(&b, "    %s\n", ex)
		}
		b.WriteString("\n")
	}

	if len(children) > 0 {
		fmt.Fprintf(&b, "Run '%s COMMAND --help' for more information on a specific command.\n", full)
	}
	return b.String()
}

func visibleChildren(n *command.Node) []*command.Node {
	var out []*command.Node
	for _, c := range n.Children() {
		if !c.Hidden() {
			out = append(out, c)
		}
	}
	return out
}

// optionLine renders one option padded to the description column.
func optionLine(st styles, d schema.Descriptor) string {
	var names []string
	for _, a := range d.Aliases {
		names = append(names, dashed(a))
	}
	names = append(names, dashed(d.Name))
	flags := strings.Join(names, ", ")

	plain := flags
	styled := st.styled(d.Display, flags)
	if v := valueHint(d); v != "" {
		plain += " " + v
		styled += " " + st.hint.Sprint(v)
	}

	desc := d.Description
	if d.Required {
		desc = strings.TrimSpace(desc + " " + st.note.Sprint("(required)"))
	}
	if d.HasDefault {
		desc = strings.TrimSpace(desc + " " + st.note.Sprintf("(default: %s)", formatDefault(d.Default)))
	}
	if desc == "" {
		return "    " + styled + "\n"
	}
	return "    " + styled + pad(plain, flagColumn-4) + " " + desc + "\n"
}

// styled renders text in the colour of the definition it was declared
// with, falling back to the name style.
func (st styles) styled(display, text string) string {
	if code := ansi.Style(display); code != "" {
		return st.c.Wrap(code, text)
	}
	return st.name.Sprint(text)
}

// helpFlags returns the help flags s leaves free, "-h, --help" when it
// declares neither.
func helpFlags(s *schema.Schema) string {
	var names []string
	if _, ok := s.Canonical("h"); !ok {
		names = append(names, "-h")
	}
	if _, ok := s.Canonical("help"); !ok {
		names = append(names, "--help")
	}
	return strings.Join(names, ", ")
}

func dashed(name string) string {
	if utf8.RuneCountInString(name) == 1 {
		return "-" + name
	}
	return "--" + name
}

func valueHint(d schema.Descriptor) string {
	if d.Type == grammar.Boolean {
		return ""
	}
	hint := d.Hint
	if hint == "" {
		hint = d.Type.String()
	}
	if d.Type == grammar.Array {
		return "<" + hint + ">..."
	}
	return "<" + hint + ">"
}

func argName(d schema.Descriptor) string {
	name := strings.ToUpper(d.Name)
	switch {
	case d.Variadic && d.Required:
		return "<" + name + "...>"
	case d.Variadic:
		return "[" + name + "...]"
	case d.Required:
		return "<" + name + ">"
	}
	return "[" + name + "]"
}

func argsUsage(p *schema.Positionals) string {
	parts := make([]string, len(p.Params))
	for i, d := range p.Params {
		parts[i] = argName(d)
	}
	return strings.Join(parts, " ")
}

func formatDefault(v any) string {
	if list, ok := v.([]string); ok {
		return strings.Join(list, ",")
	}
	return fmt.Sprint(v)
}

func aliasSuffix(aliases []string) string {
	if len(aliases) == 0 {
		return ""
	}
	if len(aliases) == 1 {
		return fmt.Sprintf(" (alias: %s)", aliases[0])
	}
	return fmt.Sprintf(" (aliases: %s)", strings.Join(aliases, ", "))
}

func describeWithAliases(desc string, aliases []string) string {
	suffix := aliasSuffix(aliases)
	if desc == "" {
		return strings.TrimSpace(suffix)
	}
	return desc + suffix
}

// pad returns the spaces needed to extend s to width, at least one.
func pad(s string, width int) string {
	n := width - utf8.RuneCountInString(s)
	if n < 1 {
		n = 1
	}
	return strings.Repeat(" ", n)
}
