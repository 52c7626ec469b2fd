// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cmdutil holds small helpers shared by command actions.
package cmdutil

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Confirm writes a yes/no prompt to w and reads the answer from r. Only
// "y" or "yes" confirm; an empty answer or EOF declines.
func Confirm(r io.Reader, w io.Writer, format string, args ...any) (bool, error) {
	fmt.Fprintf(w, format+" [y/N]: ", args...)

	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("failed to read confirmation: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

// SplitKey splits a dotted config key such as "install.registry" into the
// command path and the option name. A key without a dot belongs to the root.
func SplitKey(key string) (path []string, name string) {
	i := strings.LastIndexByte(key, '.')
	if i < 0 {
		return nil, key
	}
	return strings.Split(key[:i], "."), key[i+1:]
}
