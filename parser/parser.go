// Package parser turns input text into a parse tree under a compiled
// grammar. Three algorithms share the grammar representation: General
// (Earley chart parsing, tolerant of ambiguity), Deterministic (LL(1)
// table-driven, rejects conflicted grammars), and ExhaustiveQuadratic
// (CYK over an internal binarized form, a correctness baseline for
// test-scale inputs).
package parser

import (
	"sort"

	"grammarlab/grammar"
	"grammarlab/tree"
)

// Algorithm selects the parsing strategy.
type Algorithm int

const (
	General Algorithm = iota
	Deterministic
	ExhaustiveQuadratic
)

func (a Algorithm) String() string {
	switch a {
	case General:
		return "general"
	case Deterministic:
		return "deterministic"
	case ExhaustiveQuadratic:
		return "exhaustive-quadratic"
	default:
		return "unknown"
	}
}

// Parse tokenizes text and derives it from the start rule. Each call is
// independent; no state survives between calls. On failure the error
// reports the furthest position any derivation reached.
func Parse(g *grammar.Grammar, start string, alg Algorithm, text string) (*tree.Tree, error) {
	startRule := g.Rule(start)
	if startRule == nil {
		return nil, &grammar.Error{
			Kind:    grammar.UndefinedSymbol,
			Symbol:  start,
			Message: "start rule " + start + " is not defined",
		}
	}

	tk, err := newTokenizer(g)
	if err != nil {
		return nil, err
	}
	toks, terr := tk.tokens(text)
	if terr != nil {
		return nil, terr
	}

	switch alg {
	case General:
		return parseEarley(g, startRule, toks, endPosition(text))
	case Deterministic:
		return parseLL1(g, startRule, toks, endPosition(text))
	case ExhaustiveQuadratic:
		return parseCYK(g, startRule, toks, endPosition(text))
	default:
		return nil, &Error{Kind: GrammarConflict, Message: "unknown algorithm"}
	}
}

func endPosition(text string) tree.Position {
	return advance(tree.Position{Line: 1, Column: 1}, text)
}

// appendChild adds a child to a rule node, splicing the children of inline
// rules into the parent.
func appendChild(g *grammar.Grammar, parent *tree.Tree, child tree.Node) {
	if t, ok := child.(*tree.Tree); ok {
		if r := g.Rule(t.Rule); r != nil && r.Inline {
			parent.Children = append(parent.Children, t.Children...)
			return
		}
	}
	parent.Children = append(parent.Children, child)
}

// finishSpan sets a node's span from its children, or to the empty span at
// at for childless nodes.
func finishSpan(t *tree.Tree, at tree.Position) {
	if len(t.Children) == 0 {
		t.Pos = tree.Span{Start: at, End: at}
		return
	}
	t.Pos = tree.Span{
		Start: t.Children[0].Span().Start,
		End:   t.Children[len(t.Children)-1].Span().End,
	}
}

func sortedNames(set map[string]bool) []string {
	names := make([]string, 0, len(set))
	for n := range set {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// tokenPos returns the position of token i, or end for one past the last.
func tokenPos(toks []*tree.Token, i int, end tree.Position) tree.Position {
	if i < len(toks) {
		return toks[i].Pos.Start
	}
	return end
}
