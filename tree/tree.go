// Package tree defines the parse tree produced by the parser engine:
// rule nodes with ordered children and token leaves carrying the matched
// text and its source span.
package tree

import (
	"fmt"
	"strings"
)

// Position is a location in the input text. Line and Column are 1-based,
// Offset is a 0-based byte offset.
type Position struct {
	Line   int
	Column int
	Offset int
}

func (p Position) String() string {
	return fmt.Sprintf("line %d, column %d", p.Line, p.Column)
}

// Span covers a half-open region of the input: Start is the first byte,
// End is one past the last byte.
type Span struct {
	Start Position
	End   Position
}

// Node is either a *Tree (rule node) or a *Token (terminal leaf).
type Node interface {
	// Name returns the rule name for rule nodes and the terminal name
	// for tokens.
	Name() string

	// Span returns the input region this node derives from.
	Span() Span
}

// Tree is a rule node: the rule name and its ordered children.
type Tree struct {
	Rule     string
	Children []Node
	Pos      Span
}

func (t *Tree) Name() string { return t.Rule }
func (t *Tree) Span() Span   { return t.Pos }

// Token is a terminal leaf: the terminal name, the matched text, and the
// span of that text in the input.
type Token struct {
	Terminal string
	Text     string
	Pos      Span
}

func (t *Token) Name() string { return t.Terminal }
func (t *Token) Span() Span   { return t.Pos }

func (t *Token) String() string {
	return fmt.Sprintf("%s %q", t.Terminal, t.Text)
}

// Walk visits n and its descendants in pre-order, children in document
// order. Walking stops early if fn returns false.
func Walk(n Node, fn func(Node) bool) bool {
	if !fn(n) {
		return false
	}
	if t, ok := n.(*Tree); ok {
		for _, c := range t.Children {
			if !Walk(c, fn) {
				return false
			}
		}
	}
	return true
}

// Tokens returns every token under n in document order.
func Tokens(n Node) []*Token {
	var toks []*Token
	Walk(n, func(n Node) bool {
		if tok, ok := n.(*Token); ok {
			toks = append(toks, tok)
		}
		return true
	})
	return toks
}

// Text reconstructs the input region covered by n by concatenating its
// token texts in document order.
func Text(n Node) string {
	var b strings.Builder
	for _, tok := range Tokens(n) {
		b.WriteString(tok.Text)
	}
	return b.String()
}
