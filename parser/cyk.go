package parser

import (
	"fmt"

	"grammarlab/grammar"
	"grammarlab/tree"
)

// CYK recognizer over an internal Chomsky-style form: terminals are
// wrapped, long alternatives binarized, and unit chains pre-expanded. The
// original tree shape is rebuilt from provenance carried on each internal
// production. Cubic in input length; it exists as a correctness baseline
// for test-scale inputs. Nullable rules are rejected up front, matching
// the usual restriction of CYK backends.

type unitLink struct {
	rule *grammar.Rule
	alt  int
}

type cnfProd struct {
	head string

	// Exactly one of term or left/right is set.
	term        string
	left, right string

	// Originating rule and alternative, nil for binarization helpers.
	rule *grammar.Rule
	alt  int

	// Unit-chain provenance, outermost rule first. The rebuilt node for
	// this production is wrapped in one node per link.
	chain []unitLink
}

type cykBack struct {
	prod  *cnfProd
	split int
}

type cyk struct {
	g     *grammar.Grammar
	start *grammar.Rule
	toks  []*tree.Token
	end   tree.Position

	prods   []*cnfProd
	helpers int

	// cells[i][l] maps a head to its first derivation of toks[i:i+l].
	cells [][]map[string]cykBack
}

func parseCYK(g *grammar.Grammar, start *grammar.Rule, toks []*tree.Token, end tree.Position) (*tree.Tree, error) {
	nullable := nullableRules(g)
	for _, r := range g.Rules {
		if nullable[r.Name] {
			return nil, &Error{
				Kind:    GrammarConflict,
				Message: fmt.Sprintf("rule %q can match empty input; the exhaustive-quadratic algorithm requires non-empty rules", r.Name),
			}
		}
	}

	p := &cyk{g: g, start: start, toks: toks, end: end}
	p.buildProds()
	return p.run()
}

func termWrapper(name string) string { return "#t:" + name }

func (p *cyk) helperName() string {
	p.helpers++
	return fmt.Sprintf("#b:%d", p.helpers)
}

func (p *cyk) buildProds() {
	wrapped := make(map[string]bool)
	wrap := func(name string) string {
		w := termWrapper(name)
		if !wrapped[name] {
			wrapped[name] = true
			p.prods = append(p.prods, &cnfProd{head: w, term: name})
		}
		return w
	}

	// units[rule] lists (alt, target) pairs for single-nonterminal
	// alternatives, in declaration order.
	type unitProd struct {
		alt    int
		target string
	}
	units := make(map[string][]unitProd)
	direct := make(map[string][]*cnfProd)

	add := func(pr *cnfProd) {
		p.prods = append(p.prods, pr)
		direct[pr.head] = append(direct[pr.head], pr)
	}

	for _, r := range p.g.Rules {
		for a, alt := range r.Alts {
			switch {
			case len(alt) == 1 && alt[0].Terminal:
				add(&cnfProd{head: r.Name, term: alt[0].Name, rule: r, alt: a})
			case len(alt) == 1:
				units[r.Name] = append(units[r.Name], unitProd{alt: a, target: alt[0].Name})
			default:
				// Binarize left to right; only the top production carries
				// the rule provenance.
				syms := make([]string, len(alt))
				for i, sym := range alt {
					if sym.Terminal {
						syms[i] = wrap(sym.Name)
					} else {
						syms[i] = sym.Name
					}
				}
				head := r.Name
				pr := &cnfProd{head: head, rule: r, alt: a}
				for len(syms) > 2 {
					h := p.helperName()
					pr.left = syms[0]
					pr.right = h
					add(pr)
					pr = &cnfProd{head: h}
					syms = syms[1:]
				}
				pr.left = syms[0]
				pr.right = syms[1]
				add(pr)
			}
		}
	}

	// Expand unit chains: every production reachable from a rule through
	// single-nonterminal alternatives is copied onto that rule with the
	// chain recorded for rebuilding. Breadth-first in declaration order
	// keeps the expansion deterministic.
	for _, r := range p.g.Rules {
		type visit struct {
			name  string
			chain []unitLink
		}
		seen := map[string]bool{r.Name: true}
		queue := []visit{}
		for _, u := range units[r.Name] {
			queue = append(queue, visit{u.target, []unitLink{{rule: r, alt: u.alt}}})
		}
		for len(queue) > 0 {
			v := queue[0]
			queue = queue[1:]
			if seen[v.name] {
				continue
			}
			seen[v.name] = true
			for _, base := range direct[v.name] {
				cp := *base
				cp.head = r.Name
				cp.chain = v.chain
				p.prods = append(p.prods, &cp)
			}
			for _, u := range units[v.name] {
				chain := append(append([]unitLink{}, v.chain...), unitLink{rule: p.g.Rule(v.name), alt: u.alt})
				queue = append(queue, visit{u.target, chain})
			}
		}
	}
}

func (p *cyk) run() (*tree.Tree, error) {
	n := len(p.toks)
	if n == 0 {
		return nil, &Error{
			Kind:    UnexpectedEOF,
			Pos:     p.end,
			Message: fmt.Sprintf("empty input cannot derive rule %q", p.start.Name),
		}
	}

	p.cells = make([][]map[string]cykBack, n)
	for i := range p.cells {
		p.cells[i] = make([]map[string]cykBack, n+1)
		for l := 1; l+i <= n; l++ {
			p.cells[i][l] = make(map[string]cykBack)
		}
	}

	for i, tok := range p.toks {
		for _, pr := range p.prods {
			if pr.term != tok.Terminal {
				continue
			}
			if _, ok := p.cells[i][1][pr.head]; !ok {
				p.cells[i][1][pr.head] = cykBack{prod: pr}
			}
		}
	}

	for l := 2; l <= n; l++ {
		for i := 0; i+l <= n; i++ {
			cell := p.cells[i][l]
			for _, pr := range p.prods {
				if pr.term != "" {
					continue
				}
				if _, ok := cell[pr.head]; ok {
					continue
				}
				for s := 1; s < l; s++ {
					if _, ok := p.cells[i][s][pr.left]; !ok {
						continue
					}
					if _, ok := p.cells[i+s][l-s][pr.right]; !ok {
						continue
					}
					cell[pr.head] = cykBack{prod: pr, split: s}
					break
				}
			}
		}
	}

	if _, ok := p.cells[0][n][p.start.Name]; !ok {
		return nil, p.fail(n)
	}
	node := p.rebuildNode(p.start.Name, 0, n)
	return node, nil
}

// fail reports the longest input prefix any symbol derives.
func (p *cyk) fail(n int) *Error {
	furthest := 0
	for l := n; l >= 1; l-- {
		if len(p.cells[0][l]) > 0 {
			furthest = l
			break
		}
	}
	if furthest >= n {
		return &Error{
			Kind:    UnexpectedEOF,
			Pos:     p.end,
			Message: fmt.Sprintf("input does not derive rule %q", p.start.Name),
		}
	}
	tok := p.toks[furthest]
	return &Error{
		Kind:  UnexpectedToken,
		Pos:   tok.Pos.Start,
		Token: tok.Text,
	}
}

// rebuildNode reconstructs the tree for a real rule head over toks[i:i+l].
func (p *cyk) rebuildNode(head string, i, l int) *tree.Tree {
	back := p.cells[i][l][head]
	pr := back.prod

	node := &tree.Tree{Rule: pr.rule.Name}
	if pr.term != "" {
		node.Children = append(node.Children, p.toks[i])
	} else {
		for _, c := range p.rebuildSeq(pr, i, l) {
			appendChild(p.g, node, c)
		}
	}
	finishSpan(node, p.toks[i].Pos.Start)

	// Wrap the innermost node in the unit-chain rules, outermost last.
	for j := len(pr.chain) - 1; j >= 0; j-- {
		wrapper := &tree.Tree{Rule: pr.chain[j].rule.Name}
		appendChild(p.g, wrapper, node)
		finishSpan(wrapper, p.toks[i].Pos.Start)
		node = wrapper
	}
	return node
}

// rebuildSeq flattens a binary production into the original child list,
// expanding binarization helpers and unwrapping wrapped terminals.
func (p *cyk) rebuildSeq(pr *cnfProd, i, l int) []tree.Node {
	s := p.cells[i][l][pr.head].split
	left := p.rebuildPart(pr.left, i, s)
	right := p.rebuildPart(pr.right, i+s, l-s)
	return append(left, right...)
}

func (p *cyk) rebuildPart(head string, i, l int) []tree.Node {
	if len(head) > 3 && head[:3] == "#t:" {
		return []tree.Node{p.toks[i]}
	}
	if len(head) > 3 && head[:3] == "#b:" {
		back := p.cells[i][l][head]
		return p.rebuildSeq(back.prod, i, l)
	}
	return []tree.Node{p.rebuildNode(head, i, l)}
}
