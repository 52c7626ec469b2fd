// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package command builds command trees from compact definitions and
// dispatches invocations to them.
//
//	app := command.New("pkgx")
//	app.Option("v,!verbose", "Verbose output")
//	app.Command("i,in,install [pkg!, ...files]", "Install a package").
//		Option("D,!dev", "Save as a dev dependency").
//		Action(func(ctx context.Context, r *bind.Result) error {
//			fmt.Println(r.Params.String("pkg"), r.Flags.Bool("dev"))
//			return nil
//		})
//	err := app.Run(ctx, os.Args[1:])
//
// The tree is built before Run and must not change while Run executes.
package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/yeetrun/sigil/pkg/bind"
	"github.com/yeetrun/sigil/pkg/config"
	"github.com/yeetrun/sigil/pkg/grammar"
	"github.com/yeetrun/sigil/pkg/schema"
	"tailscale.com/types/logger"
	"tailscale.com/util/mak"
)

const (
	helpFlag    = "help"
	helpShort   = 'h'
	helpCommand = "help"
	versionFlag = "version"
)

// HelpFunc writes help for n to w.
type HelpFunc func(w io.Writer, n *Node) error

// App is the root of a command tree plus the collaborators used to run it.
type App struct {
	*Node

	out     io.Writer
	errOut  io.Writer
	logf    logger.Logf
	help    HelpFunc
	strict  bool
	version string

	// overlay holds config file defaults per command.
	overlay map[*Node]map[string]any
}

type Option func(*App)

// WithOutput sets where help, version and action output go.
func WithOutput(w io.Writer) Option {
	return func(a *App) { a.out = w }
}

// WithErrOutput sets where warnings go.
func WithErrOutput(w io.Writer) Option {
	return func(a *App) { a.errOut = w }
}

// WithLogf sets the debug logger.
func WithLogf(logf logger.Logf) Option {
	return func(a *App) { a.logf = logger.WithPrefix(logf, "sigil: ") }
}

// WithHelp sets the help renderer.
func WithHelp(h HelpFunc) Option {
	return func(a *App) { a.help = h }
}

// WithStrictRequired makes Run fail with a *bind.MissingRequiredError
// instead of warning when required options or parameters are missing.
func WithStrictRequired() Option {
	return func(a *App) { a.strict = true }
}

// WithVersion enables --version on the root command.
func WithVersion(v string) Option {
	return func(a *App) { a.version = v }
}

// New returns an App whose root command is called name.
func New(name string, opts ...Option) *App {
	a := &App{
		Node:   newNode(name, nil, name, "", nil),
		out:    os.Stdout,
		errOut: os.Stderr,
		logf:   logger.Discard,
		help:   plainHelp,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *App) Out() io.Writer    { return a.out }
func (a *App) ErrOut() io.Writer { return a.errOut }
func (a *App) Version() string   { return a.version }

// ErrUnknownCommand is the kind of every UnknownCommandError.
var ErrUnknownCommand = errors.New("unknown command")

// UnknownCommandError is returned when a word names no sub-command of a
// command that cannot run by itself.
type UnknownCommandError struct {
	Name    string   // the unmatched token
	Command []string // root name and path of the command it was given to
}

func (e *UnknownCommandError) Error() string {
	cmd := strings.Join(e.Command, " ")
	return fmt.Sprintf("%v: %s\nRun '%s --help' for usage", ErrUnknownCommand, e.Name, cmd)
}

func (e *UnknownCommandError) Unwrap() error {
	return ErrUnknownCommand
}

// Run resolves args to a command, binds the rest against its options and
// parameters and calls its action. Help is printed for -h (also inside a
// bundle such as -vh), --help or --help=true unless the command declares
// that name itself, and for a command without an action. Missing required
// values produce a warning unless the App was built WithStrictRequired.
func (a *App) Run(ctx context.Context, args []string) error {
	res := a.Resolve(args)
	n := res.Target
	a.logf("resolved %q to %q, args %q", args, res.Path, res.Args)

	opts := n.EffectiveSchema()
	flags, _ := splitArgsAtDoubleDash(res.Args)
	switch {
	case wantsFlag(opts, flags, helpFlag, helpShort):
		return a.help(a.out, n)
	case n == a.Node && a.version != "" && wantsFlag(opts, flags, versionFlag, 0):
		_, err := fmt.Fprintf(a.out, "%s %s\n", a.Name(), a.version)
		return err
	case res.Miss && res.Args[0] == helpCommand:
		target := n.Lookup(res.Args[1:]...)
		if target == nil {
			target = n
		}
		return a.help(a.out, target)
	}

	if n.action == nil {
		if res.Miss {
			return &UnknownCommandError{
				Name:    res.Args[0],
				Command: append([]string{a.Name()}, res.Path...),
			}
		}
		return a.help(a.out, n)
	}

	defaults := a.defaultsFor(n)
	opts, unknown := opts.WithDefaults(defaults)
	params := n.params.WithDefaults(defaults)
	for _, k := range unknown {
		if !slices.Contains(params.Names(), k) {
			a.logf("config default %q matches nothing in %q", k, res.Path)
		}
	}

	r := bind.Bind(opts, params, res.Args)
	if len(r.Unknown) > 0 {
		a.logf("unknown flags %q passed through", r.Unknown)
	}
	if err := bind.Validate(opts, params, r); err != nil {
		if a.strict {
			return err
		}
		a.logf("%v", err)
		fmt.Fprintf(a.errOut, "warning: %v\n", err)
	}
	return n.action(ctx, r)
}

// ApplyConfig adds the options and defaults of f to the tree. Option
// tuples are compiled immediately, so a bad one fails here with a schema
// definition error. Sections naming no command are skipped.
func (a *App) ApplyConfig(f *config.File) error {
	for _, key := range f.Paths() {
		n := a.Lookup(strings.Fields(key)...)
		if n == nil {
			a.logf("config section %q names no command", key)
			continue
		}
		for _, t := range f.Options[key] {
			e, err := schema.EntryFromTuple(t)
			if err == nil {
				err = n.AddOption(e)
			}
			if err != nil {
				return fmt.Errorf("config options for %q: %w", key, err)
			}
		}
		if d := f.Defaults[key]; len(d) > 0 {
			m := maps.Clone(a.overlay[n])
			if m == nil {
				m = make(map[string]any, len(d))
			}
			maps.Copy(m, d)
			mak.Set(&a.overlay, n, m)
		}
	}
	return nil
}

// defaultsFor merges the config defaults of n and its ancestors, the
// nearest command winning.
func (a *App) defaultsFor(n *Node) map[string]any {
	var chain []*Node
	for c := n; c != nil; c = c.parent {
		chain = append(chain, c)
	}
	merged := make(map[string]any)
	for _, c := range slices.Backward(chain) {
		maps.Copy(merged, a.overlay[c])
	}
	return merged
}

// wantsFlag reports whether tokens ask for the undeclared flag long, as
// "--long" or "--long=true", or for its short letter when short is not zero.
// The letter also counts inside a bundle such as "-vh", up to the first
// declared non-boolean letter, which takes the rest of the token as its
// value.
func wantsFlag(s *schema.Schema, tokens []string, long string, short rune) bool {
	_, longDeclared := s.Canonical(long)
	for _, tok := range tokens {
		switch {
		case grammar.IsLongFlag(tok):
			name, val, hasVal := strings.Cut(tok[2:], "=")
			if name != long || longDeclared {
				continue
			}
			if !hasVal {
				return true
			}
			if b, err := strconv.ParseBool(val); err == nil && b {
				return true
			}
		case short != 0 && grammar.IsShortFlag(tok):
			if bundleWants(s, tok[1:], short) {
				return true
			}
		}
	}
	return false
}

func bundleWants(s *schema.Schema, body string, short rune) bool {
	if utf8.RuneCountInString(body) > 1 {
		if _, ok := s.Canonical(body); ok {
			return false
		}
	}
	for _, r := range body {
		if r == '=' {
			return false
		}
		d, ok := s.Lookup(string(r))
		switch {
		case !ok && r == short:
			return true
		case ok && d.Type != grammar.Boolean:
			return false
		}
	}
	return false
}

func splitArgsAtDoubleDash(args []string) ([]string, []string) {
	for i, arg := range args {
		if arg == "--" {
			if i+1 < len(args) {
				return args[:i], args[i+1:]
			}
			return args[:i], nil
		}
	}
	return args, nil
}

// plainHelp is the fallback HelpFunc.
func plainHelp(w io.Writer, n *Node) error {
	var b strings.Builder
	usage := strings.Join(append([]string{n.Root().Name()}, n.Path()...), " ")
	if n.description != "" {
		fmt.Fprintf(&b, "%s\n\n", n.description)
	}
	fmt.Fprintf(&b, "USAGE:\n    %s", usage)
	if len(n.children) > 0 {
		b.WriteString(" COMMAND")
	}
	b.WriteString(" [OPTIONS]")
	if n.params.Len() > 0 {
		fmt.Fprintf(&b, " %s", n.params.Display)
	}
	b.WriteString("\n")
	for _, c := range n.children {
		if !c.hidden {
			fmt.Fprintf(&b, "    %s %-12s %s\n", usage, c.name, c.description)
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}
