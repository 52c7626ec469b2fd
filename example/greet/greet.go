// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/yeetrun/sigil/pkg/ansi"
	"github.com/yeetrun/sigil/pkg/bind"
	"github.com/yeetrun/sigil/pkg/command"
	"github.com/yeetrun/sigil/pkg/help"
)

func main() {
	app := command.New("greet",
		command.WithHelp(help.Printer(ansi.ForWriter(os.Stdout, true))),
	)
	app.Describe("Say hello")
	app.Command(ansi.ColorCyan+"hi,hello"+ansi.ColorReset+" [name, ...more]", "Greet someone").
		Option(ansi.ColorYellow+"s,!shout"+ansi.ColorReset, "Print in capitals").
		Option("n,-times", "How many times", 1).
		Action(func(ctx context.Context, r *bind.Result) error {
			names := append([]string{r.Params.String("name")}, r.Params.Strings("more")...)
			if names[0] == "" {
				names[0] = "World"
			}
			msg := fmt.Sprintf("Hello, %s!", strings.Join(names, " and "))
			if r.Flags.Bool("shout") {
				msg = strings.ToUpper(msg)
			}
			times, _ := r.Flags.Float("times")
			for range int(times) {
				fmt.Fprintln(app.Out(), msg)
			}
			return nil
		})

	if err := app.Run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
