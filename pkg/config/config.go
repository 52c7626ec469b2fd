// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config loads per-project defaults and extra options for a command
// tree from a .sigil.toml or .sigil.yaml file.
//
// Both sections are keyed by the space-joined command path, "" being the
// root command:
//
//	[defaults.install]
//	registry = "https://registry.example.com"
//
//	[options]
//	install = [["f,!force", "Reinstall even if present", false]]
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/yeetrun/sigil/pkg/fileutil"
	"gopkg.in/yaml.v3"
	"tailscale.com/util/mak"
)

const fileVersion = 1

// Names lists the file names Find looks for, in order of preference.
var Names = []string{".sigil.toml", ".sigil.yaml", ".sigil.yml"}

type File struct {
	Version  int                       `toml:"version,omitempty" yaml:"version,omitempty"`
	Defaults map[string]map[string]any `toml:"defaults,omitempty" yaml:"defaults,omitempty"`
	Options  map[string][][]any        `toml:"options,omitempty" yaml:"options,omitempty"`
}

// Location is a loaded file and where it came from.
type Location struct {
	Path string
	Dir  string
	File *File
}

// Key returns the section key of a command path.
func Key(path []string) string {
	return strings.Join(path, " ")
}

// Find walks up from startDir and returns the first config file found. It
// returns an error satisfying errors.Is(err, os.ErrNotExist) when there is
// none.
func Find(startDir string) (string, error) {
	dir := filepath.Clean(startDir)
	for {
		for _, name := range Names {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path, nil
			} else if !os.IsNotExist(err) {
				return "", err
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", os.ErrNotExist
}

// LoadFromDir finds and loads the config file for startDir. It returns nil
// and no error when there is none.
func LoadFromDir(startDir string) (*Location, error) {
	path, err := Find(startDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	f, err := Load(path)
	if err != nil {
		return nil, err
	}
	return &Location{Path: path, Dir: filepath.Dir(path), File: f}, nil
}

// Load decodes the file at path, choosing the format by extension.
func Load(path string) (*File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f File
	switch ext := filepath.Ext(path); ext {
	case ".toml":
		if _, err := toml.Decode(string(raw), &f); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(raw, &f); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q", ext)
	}
	if f.Version == 0 {
		f.Version = fileVersion
	}
	return &f, nil
}

// Save writes f to path, choosing the format by extension.
func Save(path string, f *File) error {
	if f == nil {
		return nil
	}
	if f.Version == 0 {
		f.Version = fileVersion
	}
	var buf bytes.Buffer
	switch ext := filepath.Ext(path); ext {
	case ".toml":
		if err := toml.NewEncoder(&buf).Encode(f); err != nil {
			return err
		}
	case ".yaml", ".yml":
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(f); err != nil {
			return err
		}
		if err := enc.Close(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported config format %q", ext)
	}
	return fileutil.WriteFile(path, buf.Bytes(), 0o644)
}

// DefaultsFor returns the defaults recorded for a command path.
func (f *File) DefaultsFor(path []string) map[string]any {
	if f == nil {
		return nil
	}
	return f.Defaults[Key(path)]
}

// OptionsFor returns the extra option tuples recorded for a command path.
func (f *File) OptionsFor(path []string) [][]any {
	if f == nil {
		return nil
	}
	return f.Options[Key(path)]
}

// Get returns the default recorded for key under a command path.
func (f *File) Get(path []string, key string) (any, bool) {
	v, ok := f.DefaultsFor(path)[key]
	return v, ok
}

// Set records a default for key under a command path.
func (f *File) Set(path []string, key string, value any) {
	k := Key(path)
	m := f.Defaults[k]
	mak.Set(&m, key, value)
	mak.Set(&f.Defaults, k, m)
}

// Unset removes a default and reports whether it was present.
func (f *File) Unset(path []string, key string) bool {
	k := Key(path)
	m, ok := f.Defaults[k]
	if !ok {
		return false
	}
	if _, ok := m[key]; !ok {
		return false
	}
	delete(m, key)
	if len(m) == 0 {
		delete(f.Defaults, k)
	}
	return true
}

// Paths returns every command path mentioned in f, sorted.
func (f *File) Paths() []string {
	if f == nil {
		return nil
	}
	var keys []string
	for k := range f.Defaults {
		keys = append(keys, k)
	}
	for k := range f.Options {
		if !slices.Contains(keys, k) {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	return keys
}
