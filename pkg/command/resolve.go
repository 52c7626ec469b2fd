// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package command

import "github.com/yeetrun/sigil/pkg/grammar"

// Resolution is the outcome of walking the tree for a token sequence.
type Resolution struct {
	Target *Node
	Path   []string // canonical names of the matched commands
	Args   []string // tokens left for Target to bind
	// Miss is set when the first remaining token is a word that names
	// none of Target's sub-commands.
	Miss bool
}

// Resolve matches leading tokens against sub-command names and aliases.
// The first declared child that matches wins. When a token matches nothing,
// n is the target and every remaining token is left for its own schema.
func (n *Node) Resolve(tokens []string) Resolution {
	if len(tokens) == 0 {
		return Resolution{Target: n}
	}
	c := n.child(tokens[0])
	if c == nil {
		return Resolution{
			Target: n,
			Args:   tokens,
			Miss:   len(n.children) > 0 && !grammar.IsFlag(tokens[0]),
		}
	}
	sub := c.Resolve(tokens[1:])
	sub.Path = append([]string{c.name}, sub.Path...)
	return sub
}
