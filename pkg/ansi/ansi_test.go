// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ansi

import (
	"bytes"
	"testing"
)

func TestStrip(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain", "plain"},
		{"\x1b[36minstall\x1b[0m", "install"},
		{"\x1b[1;31mr\x1b[0m,!recursive", "r,!recursive"},
		{"\x1b]8;;https://example.com\x07link\x1b]8;;\x07", "link"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Strip(tt.in); got != tt.want {
			t.Errorf("Strip(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestStyle(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain", ""},
		{ColorCyan + "install" + ColorReset, ColorCyan},
		{"\x1b[1m\x1b[31mf,!force\x1b[0m", "\x1b[1m\x1b[31m"},
		{"i," + ColorYellow + "install" + ColorReset, ColorYellow},
		{"\x1b]8;;https://example.com\x07link", ""},
	}
	for _, tt := range tests {
		if got := Style(tt.in); got != tt.want {
			t.Errorf("Style(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestColorizerWrap(t *testing.T) {
	on := Colorizer{Enabled: true}
	if got, want := on.Wrap(ColorRed, "x"), ColorRed+"x"+ColorReset; got != want {
		t.Errorf("Wrap = %q, want %q", got, want)
	}
	if got := on.Wrap("", "x"); got != "x" {
		t.Errorf("Wrap with empty code = %q, want %q", got, "x")
	}
	var off Colorizer
	if got := off.Wrap(ColorRed, "x"); got != "x" {
		t.Errorf("disabled Wrap = %q, want %q", got, "x")
	}
	if got := Strip(on.Wrap(ColorCyan, "install")); got != "install" {
		t.Errorf("Strip(Wrap) = %q, want %q", got, "install")
	}
}

func TestNewColorizerRespectsEnv(t *testing.T) {
	t.Setenv("TERM", "xterm-256color")
	t.Setenv("NO_COLOR", "1")
	if NewColorizer(true).Enabled {
		t.Error("NO_COLOR set, colorizer enabled")
	}
	t.Setenv("NO_COLOR", "")
	if !NewColorizer(true).Enabled {
		t.Error("colorizer disabled with TERM set and NO_COLOR empty")
	}
	t.Setenv("TERM", "dumb")
	if NewColorizer(true).Enabled {
		t.Error("TERM=dumb, colorizer enabled")
	}
	if NewColorizer(false).Enabled {
		t.Error("NewColorizer(false) enabled")
	}
}

func TestForWriterNonTerminal(t *testing.T) {
	t.Setenv("TERM", "xterm")
	t.Setenv("NO_COLOR", "")
	if ForWriter(&bytes.Buffer{}, true).Enabled {
		t.Error("ForWriter(buffer) enabled, want disabled")
	}
}
