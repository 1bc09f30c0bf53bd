// Package transform executes a handler program over a parse tree,
// bottom-up, producing an arbitrary value.
//
// A Program maps rule and terminal names to handlers. Rule handlers see
// their children's already-transformed values; token handlers see the
// token. Nodes without a handler pass through: tokens become their text,
// rule nodes become a generic Node container. Each handler decides one of
// three outcomes for its node: keep a value, drop the node from its
// parent, or fall back to the passthrough behavior.
package transform

import (
	"fmt"

	"grammarlab/tree"
)

type resultKind int

const (
	keepResult resultKind = iota
	dropResult
	passResult
)

// Result is the tri-state outcome of a handler.
type Result struct {
	kind  resultKind
	value Value
}

// Keep replaces the node with v.
func Keep(v Value) Result { return Result{kind: keepResult, value: v} }

var (
	// Drop removes the node from its parent's child list entirely.
	Drop = Result{kind: dropResult}
	// Pass defers to the default passthrough behavior.
	Pass = Result{kind: passResult}
)

// RuleHandler transforms a rule node from its transformed children.
type RuleHandler func(node *tree.Tree, children []Value) (Result, error)

// TokenHandler transforms a terminal leaf.
type TokenHandler func(tok *tree.Token) (Result, error)

// TreeHandler runs top-down: it sees the raw subtree before any child is
// transformed. A Pass result falls through to the bottom-up path.
type TreeHandler func(node *tree.Tree) (Result, error)

// Program is a set of handlers keyed by rule/terminal name. Programs are
// built fresh by the host for each run; the engine never caches them.
type Program struct {
	rules  map[string]RuleHandler
	tokens map[string]TokenHandler
	trees  map[string]TreeHandler
	err    error
}

func NewProgram() *Program {
	return &Program{
		rules:  make(map[string]RuleHandler),
		tokens: make(map[string]TokenHandler),
		trees:  make(map[string]TreeHandler),
	}
}

// OnRule registers a bottom-up handler for a rule name.
func (p *Program) OnRule(name string, h RuleHandler) *Program {
	if _, ok := p.rules[name]; ok {
		p.fail("rule handler %q registered twice", name)
	}
	p.rules[name] = h
	return p
}

// OnToken registers a handler for a terminal name.
func (p *Program) OnToken(name string, h TokenHandler) *Program {
	if _, ok := p.tokens[name]; ok {
		p.fail("token handler %q registered twice", name)
	}
	p.tokens[name] = h
	return p
}

// OnTree registers a top-down handler for a rule name.
func (p *Program) OnTree(name string, h TreeHandler) *Program {
	if _, ok := p.trees[name]; ok {
		p.fail("tree handler %q registered twice", name)
	}
	p.trees[name] = h
	return p
}

// DropTokens registers Drop handlers for each terminal name, a shorthand
// for discarding punctuation.
func (p *Program) DropTokens(names ...string) *Program {
	for _, name := range names {
		p.OnToken(name, func(*tree.Token) (Result, error) { return Drop, nil })
	}
	return p
}

func (p *Program) fail(format string, args ...any) {
	if p.err == nil {
		p.err = &Error{Kind: BadProgram, Cause: fmt.Errorf(format, args...)}
	}
}

// Apply transforms the tree bottom-up. A nil program is the identity
// transform. A Drop outcome at the root yields a nil value.
func Apply(root tree.Node, p *Program) (Value, error) {
	if p == nil {
		p = NewProgram()
	}
	if p.err != nil {
		return nil, p.err
	}
	v, _, err := apply(root, p)
	return v, err
}

func apply(n tree.Node, p *Program) (Value, bool, error) {
	switch n := n.(type) {
	case *tree.Token:
		if h, ok := p.tokens[n.Terminal]; ok {
			res, err := h(n)
			if err != nil {
				return nil, false, &Error{Kind: HandlerFailed, Node: n.Terminal, Pos: n.Pos, Cause: err}
			}
			switch res.kind {
			case keepResult:
				return res.value, true, nil
			case dropResult:
				return nil, false, nil
			}
		}
		return n.Text, true, nil

	case *tree.Tree:
		if h, ok := p.trees[n.Rule]; ok {
			res, err := h(n)
			if err != nil {
				return nil, false, &Error{Kind: HandlerFailed, Node: n.Rule, Pos: n.Pos, Cause: err}
			}
			switch res.kind {
			case keepResult:
				return res.value, true, nil
			case dropResult:
				return nil, false, nil
			}
		}

		children := make([]Value, 0, len(n.Children))
		for _, c := range n.Children {
			v, kept, err := apply(c, p)
			if err != nil {
				return nil, false, err
			}
			if kept {
				children = append(children, v)
			}
		}

		if h, ok := p.rules[n.Rule]; ok {
			res, err := h(n, children)
			if err != nil {
				return nil, false, &Error{Kind: HandlerFailed, Node: n.Rule, Pos: n.Pos, Cause: err}
			}
			switch res.kind {
			case keepResult:
				return res.value, true, nil
			case dropResult:
				return nil, false, nil
			}
		}
		return &Node{Name: n.Rule, Children: children}, true, nil

	default:
		return nil, false, &Error{Kind: BadProgram, Cause: fmt.Errorf("unknown node type %T", n)}
	}
}
