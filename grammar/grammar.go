// Package grammar compiles grammar text into the compiled representation
// consumed by the parser engine.
//
// The grammar language is line-comment `//`, rule definitions
// `name: alternative | alternative` (lowercase names), terminal definitions
// `NAME: pattern` (uppercase names, optional `NAME.2:` priority), and
// `%`-directives (`%ignore`, `%import common.NAME`, `%declare`). Rule bodies
// may use string literals, /regexps/, groups and `* + ?` repetition; the
// EBNF sugar is lowered to plain alternatives over synthesized inline rules.
package grammar

// Symbol is one element of an alternative: a reference to a rule or to a
// terminal.
type Symbol struct {
	Name     string
	Terminal bool
}

// Rule is a named non-terminal: an ordered list of alternatives, each an
// ordered symbol sequence. Alternative order is significant; it breaks
// ambiguity ties in the general parser.
type Rule struct {
	Name string
	Alts [][]Symbol

	// Inline rules do not produce tree nodes of their own; their children
	// are spliced into the parent. Rules whose name begins with "_" are
	// inline, which covers the synthesized repetition/group rules.
	Inline bool
}

// Nullable reports whether the rule has an explicitly empty alternative.
func (r *Rule) Nullable() bool {
	for _, alt := range r.Alts {
		if len(alt) == 0 {
			return true
		}
	}
	return false
}

// Terminal is a named token type. Pattern is regular-expression source;
// literal terminals hold their text pre-quoted. Declared terminals come
// from %declare and have no pattern.
type Terminal struct {
	Name     string
	Pattern  string
	Literal  bool
	Priority int
	Declared bool
}

// Grammar is the compiled form: rules and terminals in source order, the
// ignored terminal names, and the record of imports. It is immutable after
// Compile returns.
type Grammar struct {
	Rules     []*Rule
	Terminals []*Terminal
	Ignore    []string
	Imports   []string

	rules map[string]*Rule
	terms map[string]*Terminal
}

// Rule returns the named rule, or nil.
func (g *Grammar) Rule(name string) *Rule { return g.rules[name] }

// Terminal returns the named terminal, or nil.
func (g *Grammar) Terminal(name string) *Terminal { return g.terms[name] }

// Ignored reports whether the named terminal is dropped during tokenization.
func (g *Grammar) Ignored(name string) bool {
	for _, n := range g.Ignore {
		if n == name {
			return true
		}
	}
	return false
}
