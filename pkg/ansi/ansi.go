// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ansi strips and applies terminal colour codes.
//
// Definition strings may carry colour codes for display. Parsing always works
// on the stripped form; the styled form is kept for help output.
package ansi

import (
	"io"
	"os"
	"regexp"

	"golang.org/x/term"
)

const (
	ColorReset  = "\x1b[0m"
	ColorRed    = "\x1b[31m"
	ColorYellow = "\x1b[33m"
	ColorCyan   = "\x1b[36m"
)

// escapeRE matches CSI sequences (colours, cursor movement) and OSC
// sequences terminated by BEL or ST.
var escapeRE = regexp.MustCompile(`\x1b\[[0-9;?]*[ -/]*[@-~]|\x1b\][^\x07\x1b]*(?:\x07|\x1b\\)`)

// Strip returns s with every escape sequence removed.
func Strip(s string) string {
	if !hasEscape(s) {
		return s
	}
	return escapeRE.ReplaceAllString(s, "")
}

var (
	leadingSGR = regexp.MustCompile(`^(?:\x1b\[[0-9;]*m)+`)
	anySGR     = regexp.MustCompile(`\x1b\[[0-9;]*m`)
)

// Style returns the colour codes s starts with, or else the first one it
// contains. Plain text has no style.
func Style(s string) string {
	if !hasEscape(s) {
		return ""
	}
	if m := leadingSGR.FindString(s); m != "" {
		return m
	}
	return anySGR.FindString(s)
}

func hasEscape(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] == 0x1b {
			return true
		}
	}
	return false
}

// Colorizer wraps text in colour codes when enabled.
type Colorizer struct {
	Enabled bool
}

// NewColorizer returns an enabled Colorizer only when enabled is true and the
// environment does not opt out via NO_COLOR or a dumb TERM.
func NewColorizer(enabled bool) Colorizer {
	if !enabled {
		return Colorizer{}
	}
	if os.Getenv("NO_COLOR") != "" {
		return Colorizer{}
	}
	termName := os.Getenv("TERM")
	if termName == "" || termName == "dumb" {
		return Colorizer{}
	}
	return Colorizer{Enabled: true}
}

// ForWriter is NewColorizer(enabled) further restricted to writers that are
// terminals.
func ForWriter(w io.Writer, enabled bool) Colorizer {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return Colorizer{}
	}
	return NewColorizer(enabled)
}

// Wrap returns text between code and a reset when c is enabled.
func (c Colorizer) Wrap(code, text string) string {
	if !c.Enabled || code == "" {
		return text
	}
	return code + text + ColorReset
}
