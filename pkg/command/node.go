// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package command

import (
	"context"
	"slices"
	"strings"

	"github.com/yeetrun/sigil/pkg/ansi"
	"github.com/yeetrun/sigil/pkg/bind"
	"github.com/yeetrun/sigil/pkg/schema"
)

// Action runs a resolved command. r.Flags holds the bound options and
// r.Params the bound default-command parameters.
type Action func(ctx context.Context, r *bind.Result) error

// Node is one command in the tree. The tree is owned top-down; parent is a
// back-link used only to walk towards the root.
type Node struct {
	name        string
	aliases     []string
	display     string
	description string
	examples    []string
	hidden      bool

	parent   *Node
	children []*Node

	schema *schema.Schema
	params *schema.Positionals
	action Action
}

func newNode(name string, aliases []string, display, description string, parent *Node) *Node {
	return &Node{
		name:        name,
		aliases:     aliases,
		display:     display,
		description: description,
		parent:      parent,
		schema:      schema.New(),
	}
}

// AddCommand declares a sub-command. def lists aliases before the canonical
// name and may end with a bracketed parameter list:
//
//	"i,in,install [pkg!, ...files]"
func (n *Node) AddCommand(def, description string) (*Node, error) {
	names, params := splitCommandDef(def)
	name, aliases, err := schema.CompileName(names)
	if err != nil {
		return nil, err
	}
	child := newNode(name, aliases, strings.TrimSpace(names), description, n)
	if params != "" {
		if err := child.SetDefault(params); err != nil {
			return nil, err
		}
	}
	n.children = append(n.children, child)
	return child, nil
}

// Command is AddCommand for declaration code. It panics on a malformed
// definition.
func (n *Node) Command(def, description string) *Node {
	child, err := n.AddCommand(def, description)
	if err != nil {
		panic(err)
	}
	return child
}

// splitCommandDef splits "i,install [pkg]" into its names and parameter
// list. Colour codes before the bracket are kept with the names.
func splitCommandDef(def string) (names, params string) {
	plain := ansi.Strip(def)
	i := strings.IndexByte(plain, '[')
	if i < 0 {
		return def, ""
	}
	if j := strings.Index(def, plain[i:]); j >= 0 {
		return def[:j], def[j:]
	}
	return plain[:i], plain[i:]
}

// AddOption compiles e into the node's schema. An option may not share a
// name or alias with a parameter of the node or of any command below it,
// since both end up under the same key of a bound result.
func (n *Node) AddOption(e schema.Entry) error {
	single, err := schema.Compile(e)
	if err != nil {
		return err
	}
	def := strings.TrimSpace(ansi.Strip(e.Flags))
	var clash error
	n.walk(func(c *Node) {
		if clash == nil {
			clash = schema.CheckParams(def, single, c.params)
		}
	})
	if clash != nil {
		return clash
	}
	return n.schema.Add(e)
}

// Option declares an option on the node. An optional third argument is the
// default value. It panics on a malformed definition.
func (n *Node) Option(flags, description string, def ...any) *Node {
	e := schema.Entry{Flags: flags, Description: description}
	if len(def) > 0 {
		e.Default = def[0]
	}
	if err := n.AddOption(e); err != nil {
		panic(err)
	}
	return n
}

// SetDefault compiles the node's default-command parameter list.
func (n *Node) SetDefault(list string) error {
	p, err := schema.CompilePositionals(list)
	if err != nil {
		return err
	}
	def := strings.TrimSpace(ansi.Strip(list))
	if err := schema.CheckParams(def, n.EffectiveSchema(), p); err != nil {
		return err
	}
	n.params = p
	return nil
}

// Default is SetDefault for declaration code. It panics on a malformed list.
func (n *Node) Default(list string) *Node {
	if err := n.SetDefault(list); err != nil {
		panic(err)
	}
	return n
}

// Action sets the function run when the node is resolved.
func (n *Node) Action(fn Action) *Node {
	n.action = fn
	return n
}

// Describe replaces the node's description.
func (n *Node) Describe(description string) *Node {
	n.description = description
	return n
}

// Example adds usage examples shown in help.
func (n *Node) Example(examples ...string) *Node {
	n.examples = append(n.examples, examples...)
	return n
}

// Hide keeps the node out of help listings. It still resolves.
func (n *Node) Hide() *Node {
	n.hidden = true
	return n
}

func (n *Node) Name() string                { return n.name }
func (n *Node) Aliases() []string           { return slices.Clone(n.aliases) }
func (n *Node) Description() string         { return n.description }
func (n *Node) Examples() []string          { return slices.Clone(n.examples) }
func (n *Node) Hidden() bool                { return n.hidden }
func (n *Node) Parent() *Node               { return n.parent }
func (n *Node) Children() []*Node           { return slices.Clone(n.children) }
func (n *Node) Schema() *schema.Schema      { return n.schema }
func (n *Node) Params() *schema.Positionals { return n.params }
func (n *Node) Runnable() bool              { return n.action != nil }

// Display returns the names as declared, colour codes included.
func (n *Node) Display() string {
	if n.display == "" {
		return n.name
	}
	return n.display
}

// Root returns the top of the tree.
func (n *Node) Root() *Node {
	for n.parent != nil {
		n = n.parent
	}
	return n
}

// Path returns the canonical names from below the root down to n. The root
// itself has an empty path.
func (n *Node) Path() []string {
	var path []string
	for c := n; c.parent != nil; c = c.parent {
		path = append(path, c.name)
	}
	slices.Reverse(path)
	return path
}

// Matches reports whether token names n, after colour codes are removed.
// Matching is case-sensitive.
func (n *Node) Matches(token string) bool {
	t := ansi.Strip(token)
	return t == n.name || slices.Contains(n.aliases, t)
}

// Lookup follows names, or aliases, down the tree. It returns nil when a
// name has no match.
func (n *Node) Lookup(path ...string) *Node {
	cur := n
	for _, name := range path {
		cur = cur.child(name)
		if cur == nil {
			return nil
		}
	}
	return cur
}

// walk calls fn for n and every command below it.
func (n *Node) walk(fn func(*Node)) {
	fn(n)
	for _, c := range n.children {
		c.walk(fn)
	}
}

// child returns the first declared child matching token.
func (n *Node) child(token string) *Node {
	for _, c := range n.children {
		if c.Matches(token) {
			return c
		}
	}
	return nil
}

// EffectiveSchema returns the node's options plus those of its ancestors.
// Options declared closer to n win on a name clash.
func (n *Node) EffectiveSchema() *schema.Schema {
	if n.parent == nil {
		return n.schema
	}
	return n.schema.Extend(n.parent.EffectiveSchema())
}
