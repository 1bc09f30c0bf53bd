package parser

import (
	"fmt"

	"grammarlab/grammar"
	"grammarlab/tree"
)

// LL(1) table-driven parser. The grammar must be conflict-free under
// one-token lookahead; a conflicted table fails with GrammarConflict
// before any input is consumed.

// endMark stands for end of input in FOLLOW sets and table columns.
const endMark = "$"

type ll1 struct {
	g        *grammar.Grammar
	start    *grammar.Rule
	toks     []*tree.Token
	end      tree.Position
	nullable map[string]bool
	table    map[string]map[string]int
	pos      int
}

func parseLL1(g *grammar.Grammar, start *grammar.Rule, toks []*tree.Token, end tree.Position) (*tree.Tree, error) {
	p := &ll1{
		g:        g,
		start:    start,
		toks:     toks,
		end:      end,
		nullable: nullableRules(g),
	}
	if err := p.buildTable(); err != nil {
		return nil, err
	}

	root, err := p.parseRule(p.start)
	if err != nil {
		return nil, err
	}
	if p.pos < len(p.toks) {
		tok := p.toks[p.pos]
		return nil, &Error{
			Kind:    UnexpectedToken,
			Pos:     tok.Pos.Start,
			Token:   tok.Text,
			Message: "input continues after the start rule is complete",
		}
	}
	return root, nil
}

func (p *ll1) buildTable() *Error {
	first := p.firstSets()
	follow := p.followSets(first)

	p.table = make(map[string]map[string]int)
	for _, r := range p.g.Rules {
		row := make(map[string]int)
		p.table[r.Name] = row
		for a, alt := range r.Alts {
			terms, empty := p.firstOfSeq(alt, first)
			for t := range terms {
				if err := setCell(row, r, t, a); err != nil {
					return err
				}
			}
			if empty {
				for t := range follow[r.Name] {
					if err := setCell(row, r, t, a); err != nil {
						return err
					}
				}
			}
		}
	}
	return nil
}

func setCell(row map[string]int, r *grammar.Rule, term string, alt int) *Error {
	if prev, ok := row[term]; ok && prev != alt {
		return &Error{
			Kind:    GrammarConflict,
			Message: fmt.Sprintf("rule %q is not LL(1): alternatives %d and %d both accept %s", r.Name, prev+1, alt+1, term),
		}
	}
	row[term] = alt
	return nil
}

func (p *ll1) firstSets() map[string]map[string]bool {
	first := make(map[string]map[string]bool)
	for _, r := range p.g.Rules {
		first[r.Name] = make(map[string]bool)
	}
	for changed := true; changed; {
		changed = false
		for _, r := range p.g.Rules {
			for _, alt := range r.Alts {
				terms, _ := p.firstOfSeq(alt, first)
				for t := range terms {
					if !first[r.Name][t] {
						first[r.Name][t] = true
						changed = true
					}
				}
			}
		}
	}
	return first
}

// firstOfSeq returns the terminals that can begin a symbol sequence and
// whether the whole sequence can be empty.
func (p *ll1) firstOfSeq(seq []grammar.Symbol, first map[string]map[string]bool) (map[string]bool, bool) {
	terms := make(map[string]bool)
	for _, sym := range seq {
		if sym.Terminal {
			terms[sym.Name] = true
			return terms, false
		}
		for t := range first[sym.Name] {
			terms[t] = true
		}
		if !p.nullable[sym.Name] {
			return terms, false
		}
	}
	return terms, true
}

func (p *ll1) followSets(first map[string]map[string]bool) map[string]map[string]bool {
	follow := make(map[string]map[string]bool)
	for _, r := range p.g.Rules {
		follow[r.Name] = make(map[string]bool)
	}
	follow[p.start.Name][endMark] = true

	for changed := true; changed; {
		changed = false
		for _, r := range p.g.Rules {
			for _, alt := range r.Alts {
				for i, sym := range alt {
					if sym.Terminal {
						continue
					}
					rest, empty := p.firstOfSeq(alt[i+1:], first)
					for t := range rest {
						if !follow[sym.Name][t] {
							follow[sym.Name][t] = true
							changed = true
						}
					}
					if empty {
						for t := range follow[r.Name] {
							if !follow[sym.Name][t] {
								follow[sym.Name][t] = true
								changed = true
							}
						}
					}
				}
			}
		}
	}
	return follow
}

func (p *ll1) lookahead() string {
	if p.pos < len(p.toks) {
		return p.toks[p.pos].Terminal
	}
	return endMark
}

func (p *ll1) parseRule(r *grammar.Rule) (*tree.Tree, *Error) {
	row := p.table[r.Name]
	alt, ok := row[p.lookahead()]
	if !ok {
		return nil, p.mismatch(rowTerminals(row))
	}

	node := &tree.Tree{Rule: r.Name}
	at := tokenPos(p.toks, p.pos, p.end)
	for _, sym := range r.Alts[alt] {
		if sym.Terminal {
			tok, err := p.expect(sym.Name)
			if err != nil {
				return nil, err
			}
			node.Children = append(node.Children, tok)
			continue
		}
		child, err := p.parseRule(p.g.Rule(sym.Name))
		if err != nil {
			return nil, err
		}
		appendChild(p.g, node, child)
	}
	finishSpan(node, at)
	return node, nil
}

func (p *ll1) expect(term string) (*tree.Token, *Error) {
	if p.pos < len(p.toks) && p.toks[p.pos].Terminal == term {
		tok := p.toks[p.pos]
		p.pos++
		return tok, nil
	}
	return nil, p.mismatch([]string{term})
}

func (p *ll1) mismatch(expected []string) *Error {
	if p.pos >= len(p.toks) {
		return &Error{Kind: UnexpectedEOF, Pos: p.end, Expected: expected}
	}
	tok := p.toks[p.pos]
	return &Error{
		Kind:     UnexpectedToken,
		Pos:      tok.Pos.Start,
		Token:    tok.Text,
		Expected: expected,
	}
}

func rowTerminals(row map[string]int) []string {
	set := make(map[string]bool, len(row))
	for t := range row {
		if t != endMark {
			set[t] = true
		}
	}
	return sortedNames(set)
}
