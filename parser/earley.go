package parser

import (
	"grammarlab/grammar"
	"grammarlab/tree"
)

// Earley chart parser. Handles arbitrary context-free grammars including
// ambiguous ones; ambiguity is resolved deterministically by preferring
// the alternative declared first, then the derivation discovered first in
// chart order. Nullable rules are handled by advancing over predicted
// nullable non-terminals immediately (the Aycock-Horspool fix).

type eItem struct {
	rule   *grammar.Rule
	alt    int
	dot    int
	origin int
}

const (
	childNone = iota
	childToken
	childEntry
	childNull
)

type eEntry struct {
	item eItem

	// Derivation backpointers: prev locates the entry for the same item
	// with the dot one symbol earlier, child the subtree matched by that
	// symbol. Only the first derivation found is kept.
	prevSet, prevIdx   int
	childKind          int
	childTok           int
	childSet, childIdx int
	childRule          *grammar.Rule
}

type eSet struct {
	entries []eEntry
	index   map[eItem]int
}

func (s *eSet) add(e eEntry) {
	if _, ok := s.index[e.item]; ok {
		return
	}
	s.index[e.item] = len(s.entries)
	s.entries = append(s.entries, e)
}

type earley struct {
	g        *grammar.Grammar
	start    *grammar.Rule
	toks     []*tree.Token
	end      tree.Position
	sets     []*eSet
	nullable map[string]bool
}

func parseEarley(g *grammar.Grammar, start *grammar.Rule, toks []*tree.Token, end tree.Position) (*tree.Tree, error) {
	p := &earley{
		g:        g,
		start:    start,
		toks:     toks,
		end:      end,
		nullable: nullableRules(g),
	}
	return p.run()
}

func (p *earley) run() (*tree.Tree, error) {
	n := len(p.toks)
	p.sets = make([]*eSet, n+1)
	for i := range p.sets {
		p.sets[i] = &eSet{index: make(map[eItem]int)}
	}

	for alt := range p.start.Alts {
		p.sets[0].add(eEntry{item: eItem{rule: p.start, alt: alt}, prevSet: -1})
	}

	for k := 0; k <= n; k++ {
		p.process(k)
		if k == n {
			break
		}
		p.scan(k)
		if len(p.sets[k+1].entries) == 0 {
			return nil, p.fail(k)
		}
	}

	root := p.complete(n)
	if root < 0 {
		return nil, p.fail(n)
	}
	t := p.build(n, root)
	return t, nil
}

// process closes set k under prediction and completion. Entries appended
// during the loop are processed in turn.
func (p *earley) process(k int) {
	set := p.sets[k]
	for i := 0; i < len(set.entries); i++ {
		e := set.entries[i]
		alt := e.item.rule.Alts[e.item.alt]

		if e.item.dot < len(alt) {
			sym := alt[e.item.dot]
			if sym.Terminal {
				continue
			}
			next := p.g.Rule(sym.Name)
			for a := range next.Alts {
				set.add(eEntry{item: eItem{rule: next, alt: a, origin: k}, prevSet: -1})
			}
			if p.nullable[next.Name] {
				adv := e.item
				adv.dot++
				set.add(eEntry{
					item:    adv,
					prevSet: k, prevIdx: i,
					childKind: childNull,
					childRule: next,
				})
			}
			continue
		}

		// Completed item: advance every parent in the origin set that is
		// waiting for this non-terminal.
		origin := p.sets[e.item.origin]
		for j := 0; j < len(origin.entries); j++ {
			parent := origin.entries[j]
			palt := parent.item.rule.Alts[parent.item.alt]
			if parent.item.dot >= len(palt) {
				continue
			}
			sym := palt[parent.item.dot]
			if sym.Terminal || sym.Name != e.item.rule.Name {
				continue
			}
			adv := parent.item
			adv.dot++
			set.add(eEntry{
				item:    adv,
				prevSet: e.item.origin, prevIdx: j,
				childKind: childEntry,
				childSet:  k, childIdx: i,
			})
		}
	}
}

func (p *earley) scan(k int) {
	tok := p.toks[k]
	set := p.sets[k]
	for i, e := range set.entries {
		alt := e.item.rule.Alts[e.item.alt]
		if e.item.dot >= len(alt) {
			continue
		}
		sym := alt[e.item.dot]
		if !sym.Terminal || sym.Name != tok.Terminal {
			continue
		}
		adv := e.item
		adv.dot++
		p.sets[k+1].add(eEntry{
			item:    adv,
			prevSet: k, prevIdx: i,
			childKind: childToken,
			childTok:  k,
		})
	}
}

// complete returns the entry index in the final set for the start rule
// spanning the whole input, preferring the alternative declared first.
func (p *earley) complete(n int) int {
	best := -1
	bestAlt := 0
	for i, e := range p.sets[n].entries {
		if e.item.rule != p.start || e.item.origin != 0 {
			continue
		}
		if e.item.dot != len(e.item.rule.Alts[e.item.alt]) {
			continue
		}
		if best < 0 || e.item.alt < bestAlt {
			best = i
			bestAlt = e.item.alt
		}
	}
	return best
}

func (p *earley) fail(k int) *Error {
	expected := make(map[string]bool)
	for _, e := range p.sets[k].entries {
		alt := e.item.rule.Alts[e.item.alt]
		if e.item.dot < len(alt) && alt[e.item.dot].Terminal {
			expected[alt[e.item.dot].Name] = true
		}
	}

	if k >= len(p.toks) {
		return &Error{
			Kind:     UnexpectedEOF,
			Pos:      p.end,
			Expected: sortedNames(expected),
		}
	}
	tok := p.toks[k]
	return &Error{
		Kind:     UnexpectedToken,
		Pos:      tok.Pos.Start,
		Token:    tok.Text,
		Expected: sortedNames(expected),
	}
}

// build reconstructs the chosen derivation for a completed entry.
func (p *earley) build(set, idx int) *tree.Tree {
	e := p.sets[set].entries[idx]
	node := &tree.Tree{Rule: e.item.rule.Name}

	var children []tree.Node
	s, i := set, idx
	for {
		cur := p.sets[s].entries[i]
		if cur.item.dot == 0 {
			break
		}
		switch cur.childKind {
		case childToken:
			children = append(children, p.toks[cur.childTok])
		case childEntry:
			children = append(children, p.build(cur.childSet, cur.childIdx))
		case childNull:
			children = append(children, p.nullTree(cur.childRule, tokenPos(p.toks, s, p.end)))
		}
		s, i = cur.prevSet, cur.prevIdx
	}

	for j := len(children) - 1; j >= 0; j-- {
		appendChild(p.g, node, children[j])
	}
	finishSpan(node, tokenPos(p.toks, e.item.origin, p.end))
	return node
}

// nullTree builds the minimal empty derivation of a nullable rule,
// preferring the alternative declared first.
func (p *earley) nullTree(r *grammar.Rule, at tree.Position) *tree.Tree {
	return p.buildNull(r, at, make(map[string]bool))
}

// buildNull walks nullable alternatives. path holds the rules on the
// current derivation branch; alternatives that revisit one are skipped so
// cyclic nullable rules (a: a |) terminate at their empty alternative.
func (p *earley) buildNull(r *grammar.Rule, at tree.Position, path map[string]bool) *tree.Tree {
	node := &tree.Tree{Rule: r.Name, Pos: tree.Span{Start: at, End: at}}
	path[r.Name] = true
	defer delete(path, r.Name)

	for _, alt := range r.Alts {
		if len(alt) == 0 {
			return node
		}
		ok := true
		for _, sym := range alt {
			if sym.Terminal || !p.nullable[sym.Name] || path[sym.Name] {
				ok = false
				break
			}
		}
		if ok {
			for _, sym := range alt {
				appendChild(p.g, node, p.buildNull(p.g.Rule(sym.Name), at, path))
			}
			return node
		}
	}
	return node
}

// nullableRules computes the set of rule names that can derive the empty
// string.
func nullableRules(g *grammar.Grammar) map[string]bool {
	nullable := make(map[string]bool)
	for changed := true; changed; {
		changed = false
		for _, r := range g.Rules {
			if nullable[r.Name] {
				continue
			}
			for _, alt := range r.Alts {
				ok := true
				for _, sym := range alt {
					if sym.Terminal || !nullable[sym.Name] {
						ok = false
						break
					}
				}
				if ok {
					nullable[r.Name] = true
					changed = true
					break
				}
			}
		}
	}
	return nullable
}
