// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command pkgx is a toy package manager built on the sigil command tree.
//
//	pkgx install left-pad
//	pkgx i -D jest --registry https://registry.example.com
//	pkgx config set install.registry https://registry.example.com
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/Masterminds/semver/v3"
	"github.com/shayne/yargs"
	"github.com/yeetrun/sigil/pkg/ansi"
	"github.com/yeetrun/sigil/pkg/command"
	"github.com/yeetrun/sigil/pkg/config"
	"github.com/yeetrun/sigil/pkg/help"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "0.1.0"

type globalFlagsParsed struct {
	Config  string `flag:"config" help:"Path to a .sigil.toml or .sigil.yaml file"`
	NoColor bool   `flag:"no-color" help:"Disable colour output"`
	Debug   bool   `flag:"debug" help:"Log command resolution to stderr"`
}

func parseGlobalFlags(args []string) (globalFlagsParsed, []string, error) {
	result, err := yargs.ParseKnownFlags[globalFlagsParsed](args, yargs.KnownFlagsOptions{})
	if err != nil {
		return globalFlagsParsed{}, nil, err
	}
	return result.Flags, result.RemainingArgs, nil
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	os.Exit(run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	flags, rest, err := parseGlobalFlags(args)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 2
	}

	v, err := semver.NewVersion(version)
	if err != nil {
		fmt.Fprintf(stderr, "error: invalid build version %q: %v\n", version, err)
		return 1
	}

	cfgPath, cfg, err := loadConfig(flags.Config)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	opts := []command.Option{
		command.WithOutput(stdout),
		command.WithErrOutput(stderr),
		command.WithHelp(help.Printer(ansi.ForWriter(stdout, !flags.NoColor))),
		command.WithVersion(v.String()),
	}
	if flags.Debug {
		logger := log.New(stderr, "", log.LstdFlags)
		opts = append(opts, command.WithLogf(logger.Printf))
	}

	p := &pkgx{
		stdin:   stdin,
		cfgPath: cfgPath,
		cfg:     cfg,
	}
	app, err := p.newApp(opts...)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	if err := app.ApplyConfig(cfg); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	if err := app.Run(ctx, rest); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		var unknown *command.UnknownCommandError
		if errors.As(err, &unknown) {
			return 2
		}
		return 1
	}
	return 0
}

// loadConfig returns the config file to use and where changes are saved.
// An explicit path that does not exist yet yields an empty file.
func loadConfig(explicit string) (string, *config.File, error) {
	if explicit != "" {
		f, err := config.Load(explicit)
		if errors.Is(err, os.ErrNotExist) {
			return explicit, &config.File{}, nil
		}
		return explicit, f, err
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", nil, err
	}
	loc, err := config.LoadFromDir(wd)
	if err != nil {
		return "", nil, err
	}
	if loc == nil {
		return filepath.Join(wd, config.Names[0]), &config.File{}, nil
	}
	return loc.Path, loc.File, nil
}
