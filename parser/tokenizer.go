package parser

import (
	"fmt"
	"regexp"
	"sort"
	"unicode/utf8"

	"grammarlab/grammar"
	"grammarlab/tree"
)

type termPattern struct {
	name     string
	re       *regexp.Regexp
	literal  bool
	priority int
	index    int
}

// tokenizer matches terminals against the input, longest match first.
// Ties go to the higher explicit priority, then to literal terminals over
// patterns, then to declaration order.
type tokenizer struct {
	g     *grammar.Grammar
	terms []termPattern
}

func newTokenizer(g *grammar.Grammar) (*tokenizer, error) {
	t := &tokenizer{g: g}
	for i, term := range g.Terminals {
		if term.Declared {
			continue
		}
		re, err := regexp.Compile("^(?:" + term.Pattern + ")")
		if err != nil {
			return nil, &Error{
				Kind:    GrammarConflict,
				Message: fmt.Sprintf("terminal %s: %v", term.Name, err),
			}
		}
		t.terms = append(t.terms, termPattern{
			name:     term.Name,
			re:       re,
			literal:  term.Literal,
			priority: term.Priority,
			index:    i,
		})
	}
	return t, nil
}

// tokens scans the whole input. Token spans partition the input exactly;
// ignored terminals are matched and dropped. An unmatchable position fails
// with a positioned syntax error listing the terminal names in play.
func (t *tokenizer) tokens(text string) ([]*tree.Token, *Error) {
	var toks []*tree.Token
	pos := tree.Position{Line: 1, Column: 1}

	for pos.Offset < len(text) {
		best, length := t.match(text[pos.Offset:])
		if best == nil {
			r, _ := utf8.DecodeRuneInString(text[pos.Offset:])
			return nil, &Error{
				Kind:     SyntaxError,
				Pos:      pos,
				Token:    string(r),
				Expected: t.names(),
				Message:  fmt.Sprintf("no terminal matches %q", r),
			}
		}

		lexeme := text[pos.Offset : pos.Offset+length]
		end := advance(pos, lexeme)
		if !t.g.Ignored(best.name) {
			toks = append(toks, &tree.Token{
				Terminal: best.name,
				Text:     lexeme,
				Pos:      tree.Span{Start: pos, End: end},
			})
		}
		pos = end
	}
	return toks, nil
}

func (t *tokenizer) match(rest string) (*termPattern, int) {
	var best *termPattern
	bestLen := 0
	for i := range t.terms {
		tp := &t.terms[i]
		loc := tp.re.FindStringIndex(rest)
		if loc == nil || loc[1] == 0 {
			continue
		}
		if best == nil || better(tp, loc[1], best, bestLen) {
			best = tp
			bestLen = loc[1]
		}
	}
	return best, bestLen
}

func better(a *termPattern, aLen int, b *termPattern, bLen int) bool {
	if a.priority != b.priority {
		return a.priority > b.priority
	}
	if aLen != bLen {
		return aLen > bLen
	}
	if a.literal != b.literal {
		return a.literal
	}
	return a.index < b.index
}

func (t *tokenizer) names() []string {
	names := make([]string, 0, len(t.terms))
	for _, tp := range t.terms {
		if !t.g.Ignored(tp.name) {
			names = append(names, tp.name)
		}
	}
	sort.Strings(names)
	return names
}

func advance(pos tree.Position, lexeme string) tree.Position {
	for _, r := range lexeme {
		if r == '\n' {
			pos.Line++
			pos.Column = 1
		} else {
			pos.Column++
		}
	}
	pos.Offset += len(lexeme)
	return pos
}
