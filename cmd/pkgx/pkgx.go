// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/yeetrun/sigil/pkg/ansi"
	"github.com/yeetrun/sigil/pkg/bind"
	"github.com/yeetrun/sigil/pkg/cmdutil"
	"github.com/yeetrun/sigil/pkg/command"
	"github.com/yeetrun/sigil/pkg/config"
)

const defaultRegistry = "https://registry.npmjs.org"

type pkgx struct {
	app     *command.App
	stdin   io.Reader
	cfgPath string
	cfg     *config.File
}

// newApp declares the command tree. Definition panics are returned as
// errors.
func (p *pkgx) newApp(opts ...command.Option) (app *command.App, err error) {
	defer func() {
		if r := recover(); r != nil {
			e, ok := r.(error)
			if !ok {
				panic(r)
			}
			app, err = nil, fmt.Errorf("defining commands: %w", e)
		}
	}()

	app = command.New("pkgx", opts...)
	app.Describe("A tiny package manager")
	app.Option("v,!verbose", "Print every step")

	app.Command("i,in,install [pkg!, ...files]", "Install a package").
		Option("D,!dev", "Save as a dev dependency").
		Option("r,registry<url>", "Registry to install from", defaultRegistry).
		Option("-retries", "Download attempts", 3).
		Option("t,tag|array", "Extra tags to record").
		Example("pkgx install left-pad", "pkgx i -D jest ./local.tgz").
		Action(p.install)

	app.Command("rm,remove [...pkgs]", "Remove packages").
		Option(ansi.ColorRed+"f,!force"+ansi.ColorReset, "Remove even if other packages depend on it").
		Action(p.remove)

	cfg := app.Command("config", "Read and write config defaults")
	cfg.Command("get [key!]", "Print a default, for example install.registry").
		Action(p.configGet)
	cfg.Command("set [key!, value!]", "Record a default").
		Action(p.configSet)
	cfg.Command("unset [key!]", "Remove a default").
		Option("y,!yes", "Do not ask for confirmation").
		Action(p.configUnset)

	p.app = app
	return app, nil
}

func (p *pkgx) install(ctx context.Context, r *bind.Result) error {
	out := p.app.Out()
	pkg := r.Params.String("pkg")
	retries, _ := r.Flags.Float("retries")
	if r.Flags.Bool("verbose") {
		fmt.Fprintf(out, "registry %s, %d attempts\n", r.Flags.String("registry"), int(retries))
	}
	kind := "dependency"
	if r.Flags.Bool("dev") {
		kind = "dev dependency"
	}
	fmt.Fprintf(out, "installed %s as %s\n", pkg, kind)
	for _, f := range r.Params.Strings("files") {
		fmt.Fprintf(out, "installed %s from file\n", f)
	}
	if tags := r.Flags.Strings("tag"); len(tags) > 0 {
		fmt.Fprintf(out, "tagged %s\n", strings.Join(tags, ", "))
	}
	return nil
}

func (p *pkgx) remove(ctx context.Context, r *bind.Result) error {
	pkgs := r.Params.Strings("pkgs")
	if len(pkgs) == 0 {
		return fmt.Errorf("nothing to remove")
	}
	for _, pkg := range pkgs {
		fmt.Fprintf(p.app.Out(), "removed %s\n", pkg)
	}
	return nil
}

func (p *pkgx) configGet(ctx context.Context, r *bind.Result) error {
	key := r.Params.String("key")
	path, name := cmdutil.SplitKey(key)
	v, ok := p.cfg.Get(path, name)
	if !ok {
		return fmt.Errorf("%s is not set", key)
	}
	_, err := fmt.Fprintln(p.app.Out(), formatValue(v))
	return err
}

func (p *pkgx) configSet(ctx context.Context, r *bind.Result) error {
	key := r.Params.String("key")
	path, name := cmdutil.SplitKey(key)
	if p.app.Lookup(path...) == nil {
		return fmt.Errorf("%s: no command %q", key, config.Key(path))
	}
	p.cfg.Set(path, name, parseValue(r.Params.String("value")))
	if err := config.Save(p.cfgPath, p.cfg); err != nil {
		return fmt.Errorf("failed to save %s: %w", p.cfgPath, err)
	}
	fmt.Fprintf(p.app.Out(), "%s = %s\n", key, r.Params.String("value"))
	return nil
}

func (p *pkgx) configUnset(ctx context.Context, r *bind.Result) error {
	key := r.Params.String("key")
	path, name := cmdutil.SplitKey(key)
	if _, ok := p.cfg.Get(path, name); !ok {
		return fmt.Errorf("%s is not set", key)
	}
	if !r.Flags.Bool("yes") {
		ok, err := cmdutil.Confirm(p.stdin, p.app.Out(), "unset %s?", key)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
	}
	p.cfg.Unset(path, name)
	return config.Save(p.cfgPath, p.cfg)
}

// parseValue stores booleans and numbers typed so TOML and YAML keep them
// unquoted.
func parseValue(s string) any {
	switch s {
	case "true":
		return true
	case "false":
		return false
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

func formatValue(v any) string {
	switch v := v.(type) {
	case []any:
		parts := make([]string, len(v))
		for i, e := range v {
			parts[i] = fmt.Sprint(e)
		}
		return strings.Join(parts, ",")
	case []string:
		return strings.Join(v, ",")
	}
	return fmt.Sprint(v)
}
