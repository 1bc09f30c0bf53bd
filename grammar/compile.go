package grammar

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"grammarlab/tree"
)

// Names for anonymous single-character literal terminals.
var punctNames = map[rune]string{
	'.': "DOT", ',': "COMMA", ';': "SEMICOLON", ':': "COLON",
	'(': "LPAR", ')': "RPAR", '[': "LSQB", ']': "RSQB",
	'{': "LBRACE", '}': "RBRACE", '|': "VBAR", '+': "PLUS",
	'-': "MINUS", '*': "STAR", '/': "SLASH", '\\': "BACKSLASH",
	'?': "QMARK", '!': "BANG", '<': "LESSTHAN", '>': "MORETHAN",
	'=': "EQUAL", '%': "PERCENT", '&': "AMPERSAND", '^': "CIRCUMFLEX",
	'~': "TILDE", '@': "AT", '"': "DBLQUOTE", '\'': "QUOTE",
	'`': "BACKQUOTE", '$': "DOLLAR", '_': "UNDERSCORE", '#': "HASH",
}

var wordRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

type symbolRef struct {
	name     string
	terminal bool
	pos      lexer.Position
}

type compiler struct {
	g         *Grammar
	termBody  map[string]*termDef
	resolved  map[string]string
	resolving map[string]bool
	byPattern map[string]string // literal/regexp pattern -> terminal name
	refs      []symbolRef
	synth     int
	anon      int
}

// Compile parses grammar text and lowers it into a Grammar. It is a pure
// function of the text: compiling the same text twice yields structurally
// identical grammars, with rule, alternative and terminal order preserved
// from the source.
func Compile(text string) (*Grammar, error) {
	file, err := grammarParser.ParseString("", text)
	if err != nil {
		return nil, syntaxError(err)
	}

	c := &compiler{
		g: &Grammar{
			rules: make(map[string]*Rule),
			terms: make(map[string]*Terminal),
		},
		termBody:  make(map[string]*termDef),
		resolved:  make(map[string]string),
		resolving: make(map[string]bool),
		byPattern: make(map[string]string),
	}

	if err := c.collect(file); err != nil {
		return nil, err
	}
	// Defined terminals resolve before rule lowering so literals in rule
	// bodies can reuse a terminal defined with the same text.
	if err := c.resolveDefined(); err != nil {
		return nil, err
	}
	if err := c.lowerRules(file); err != nil {
		return nil, err
	}
	if err := c.checkPatterns(); err != nil {
		return nil, err
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c.g, nil
}

func syntaxError(err error) *Error {
	var perr participle.Error
	if errors.As(err, &perr) {
		p := perr.Position()
		return errorf(SyntaxError, "", position(p), "%s", perr.Message())
	}
	return errorf(SyntaxError, "", tree.Position{}, "%s", err)
}

func position(p lexer.Position) tree.Position {
	return tree.Position{Line: p.Line, Column: p.Column, Offset: p.Offset}
}

// collect registers definitions and directives in source order. Rule bodies
// are lowered afterwards so forward references work.
func (c *compiler) collect(file *grammarFile) error {
	for _, st := range file.Statements {
		switch {
		case st.Rule != nil:
			if c.g.rules[st.Rule.Name] != nil {
				return errorf(DuplicateSymbol, st.Rule.Name, position(st.Rule.Pos), "rule %q already defined", st.Rule.Name)
			}
			c.addRule(&Rule{Name: st.Rule.Name, Inline: strings.HasPrefix(st.Rule.Name, "_")})

		case st.Term != nil:
			t := &Terminal{Name: st.Term.Name}
			if st.Term.Priority != nil {
				t.Priority = *st.Term.Priority
			}
			if err := c.addTerminal(t, position(st.Term.Pos)); err != nil {
				return err
			}
			c.termBody[t.Name] = st.Term

		case st.Declare != nil:
			for _, name := range st.Declare.Names {
				if err := c.addTerminal(&Terminal{Name: name, Declared: true}, position(st.Declare.Pos)); err != nil {
					return err
				}
			}

		case st.Import != nil:
			if st.Import.Module != "common" {
				return errorf(BadDirective, st.Import.Name, position(st.Import.Pos), "unknown import module %q", st.Import.Module)
			}
			pattern, ok := commonTerminals[st.Import.Name]
			if !ok {
				return errorf(BadDirective, st.Import.Name, position(st.Import.Pos), "no %q terminal in module common", st.Import.Name)
			}
			if err := c.addTerminal(&Terminal{Name: st.Import.Name, Pattern: pattern}, position(st.Import.Pos)); err != nil {
				return err
			}
			c.g.Imports = append(c.g.Imports, "common."+st.Import.Name)

		case st.Ignore != nil:
			name, err := c.ignoreName(st.Ignore)
			if err != nil {
				return err
			}
			c.g.Ignore = append(c.g.Ignore, name)
		}
	}
	return nil
}

func (c *compiler) addRule(r *Rule) {
	c.g.Rules = append(c.g.Rules, r)
	c.g.rules[r.Name] = r
}

func (c *compiler) addTerminal(t *Terminal, pos tree.Position) error {
	if c.g.terms[t.Name] != nil {
		return errorf(DuplicateSymbol, t.Name, pos, "terminal %q already defined", t.Name)
	}
	c.g.Terminals = append(c.g.Terminals, t)
	c.g.terms[t.Name] = t
	return nil
}

func (c *compiler) ignoreName(dir *ignoreDirective) (string, error) {
	a := dir.Atom
	switch {
	case a.Term != nil:
		c.refs = append(c.refs, symbolRef{name: *a.Term, terminal: true, pos: a.Pos})
		return *a.Term, nil
	case a.Str != nil:
		return c.literalTerminal(unquote(*a.Str)), nil
	case a.Regex != nil:
		return c.regexpTerminal(regexpSource(*a.Regex)), nil
	default:
		return "", errorf(BadDirective, "", position(dir.Pos), "%%ignore needs a terminal, literal, or pattern")
	}
}

// lowerRules expands every rule body, turning EBNF sugar into synthesized
// inline rules and literal/regexp atoms into anonymous terminals.
func (c *compiler) lowerRules(file *grammarFile) error {
	for _, st := range file.Statements {
		if st.Rule == nil {
			continue
		}
		r := c.g.rules[st.Rule.Name]
		alts, err := c.lowerExpansions(st.Rule.Body)
		if err != nil {
			return err
		}
		r.Alts = alts
	}
	return nil
}

func (c *compiler) lowerExpansions(e *expansions) ([][]Symbol, error) {
	alts := make([][]Symbol, 0, len(e.Alts))
	for _, alt := range e.Alts {
		symbols := []Symbol{}
		for _, it := range alt.Items {
			lowered, err := c.lowerItem(it)
			if err != nil {
				return nil, err
			}
			symbols = append(symbols, lowered...)
		}
		alts = append(alts, symbols)
	}
	return alts, nil
}

func (c *compiler) lowerItem(it *item) ([]Symbol, error) {
	sym, err := c.lowerAtom(it.Atom)
	if err != nil {
		return nil, err
	}

	switch it.Repeat {
	case "":
		return []Symbol{sym}, nil
	case "*":
		return []Symbol{c.starRule(sym)}, nil
	case "+":
		// x+ is x followed by x*
		return []Symbol{sym, c.starRule(sym)}, nil
	case "?":
		opt := c.synthRule("opt", [][]Symbol{{sym}, {}})
		return []Symbol{opt}, nil
	default:
		return nil, errorf(SyntaxError, "", position(it.Atom.Pos), "unknown repetition %q", it.Repeat)
	}
}

func (c *compiler) lowerAtom(a *atom) (Symbol, error) {
	switch {
	case a.Rule != nil:
		c.refs = append(c.refs, symbolRef{name: *a.Rule, pos: a.Pos})
		return Symbol{Name: *a.Rule}, nil
	case a.Term != nil:
		c.refs = append(c.refs, symbolRef{name: *a.Term, terminal: true, pos: a.Pos})
		return Symbol{Name: *a.Term, Terminal: true}, nil
	case a.Str != nil:
		return Symbol{Name: c.literalTerminal(unquote(*a.Str)), Terminal: true}, nil
	case a.Regex != nil:
		return Symbol{Name: c.regexpTerminal(regexpSource(*a.Regex)), Terminal: true}, nil
	case a.Group != nil:
		alts, err := c.lowerExpansions(a.Group)
		if err != nil {
			return Symbol{}, err
		}
		return c.synthRule("grp", alts), nil
	default:
		return Symbol{}, errorf(SyntaxError, "", position(a.Pos), "empty atom")
	}
}

// starRule synthesizes the right-recursive rule for sym*.
func (c *compiler) starRule(sym Symbol) Symbol {
	name := c.synthName("star")
	r := &Rule{Name: name, Inline: true}
	c.addRule(r)
	r.Alts = [][]Symbol{{sym, {Name: name}}, {}}
	return Symbol{Name: name}
}

func (c *compiler) synthRule(kind string, alts [][]Symbol) Symbol {
	name := c.synthName(kind)
	c.addRule(&Rule{Name: name, Alts: alts, Inline: true})
	return Symbol{Name: name}
}

func (c *compiler) synthName(kind string) string {
	for {
		name := fmt.Sprintf("__%s_%d", kind, c.synth)
		c.synth++
		if c.g.rules[name] == nil {
			return name
		}
	}
}

// literalTerminal returns the terminal for a literal used inside a rule
// body, creating an anonymous one on first use. Word-like literals take
// their uppercased text as name, single punctuation characters use a fixed
// name table, anything else gets an __ANON name.
func (c *compiler) literalTerminal(text string) string {
	pattern := regexp.QuoteMeta(text)
	if name, ok := c.byPattern[pattern]; ok {
		return name
	}
	if t := c.findLiteral(text); t != nil {
		c.byPattern[pattern] = t.Name
		return t.Name
	}

	name := ""
	if wordRe.MatchString(text) {
		name = strings.ToUpper(text)
	} else if runes := []rune(text); len(runes) == 1 {
		name = punctNames[runes[0]]
	}
	if name == "" || c.g.terms[name] != nil || c.g.rules[name] != nil {
		name = c.anonName()
	}

	c.g.Terminals = append(c.g.Terminals, &Terminal{Name: name, Pattern: pattern, Literal: true})
	c.g.terms[name] = c.g.Terminals[len(c.g.Terminals)-1]
	c.byPattern[pattern] = name
	return name
}

// findLiteral reuses a user-defined literal terminal with the same text.
func (c *compiler) findLiteral(text string) *Terminal {
	pattern := regexp.QuoteMeta(text)
	for _, t := range c.g.Terminals {
		if t.Literal && t.Pattern == pattern {
			return t
		}
	}
	return nil
}

func (c *compiler) regexpTerminal(pattern string) string {
	if name, ok := c.byPattern[pattern]; ok {
		return name
	}
	name := c.anonName()
	c.g.Terminals = append(c.g.Terminals, &Terminal{Name: name, Pattern: pattern})
	c.g.terms[name] = c.g.Terminals[len(c.g.Terminals)-1]
	c.byPattern[pattern] = name
	return name
}

func (c *compiler) anonName() string {
	for {
		name := fmt.Sprintf("__ANON_%d", c.anon)
		c.anon++
		if c.g.terms[name] == nil {
			return name
		}
	}
}

// resolveDefined builds the regexp pattern of every defined terminal,
// substituting referenced terminal patterns.
func (c *compiler) resolveDefined() error {
	for _, t := range c.g.Terminals {
		def, ok := c.termBody[t.Name]
		if !ok {
			continue
		}
		if _, err := c.resolvePattern(t.Name, def.Pos); err != nil {
			return err
		}
	}
	return nil
}

// checkPatterns verifies that every terminal pattern, including the
// anonymous ones minted during lowering, compiles as a regexp.
func (c *compiler) checkPatterns() error {
	for _, t := range c.g.Terminals {
		if t.Declared {
			continue
		}
		if _, err := regexp.Compile("^(?:" + t.Pattern + ")"); err != nil {
			return errorf(BadPattern, t.Name, tree.Position{}, "terminal %s: %v", t.Name, err)
		}
	}
	return nil
}

func (c *compiler) resolvePattern(name string, pos lexer.Position) (string, error) {
	if p, ok := c.resolved[name]; ok {
		return p, nil
	}
	def, ok := c.termBody[name]
	if !ok {
		t := c.g.terms[name]
		if t == nil {
			return "", errorf(UndefinedSymbol, name, position(pos), "undefined terminal %q", name)
		}
		if t.Declared {
			return "", errorf(BadPattern, name, position(pos), "declared terminal %q has no pattern", name)
		}
		return t.Pattern, nil
	}
	if c.resolving[name] {
		return "", errorf(BadPattern, name, position(def.Pos), "terminal %q is defined in terms of itself", name)
	}
	c.resolving[name] = true
	defer delete(c.resolving, name)

	pattern, literal, err := c.expansionsPattern(def.Body)
	if err != nil {
		return "", err
	}
	t := c.g.terms[name]
	t.Pattern = pattern
	t.Literal = literal
	c.resolved[name] = pattern
	return pattern, nil
}

func (c *compiler) expansionsPattern(e *expansions) (string, bool, error) {
	parts := make([]string, 0, len(e.Alts))
	for _, alt := range e.Alts {
		var b strings.Builder
		for _, it := range alt.Items {
			p, err := c.atomPattern(it.Atom)
			if err != nil {
				return "", false, err
			}
			if it.Repeat != "" {
				p = "(?:" + p + ")" + it.Repeat
			}
			b.WriteString(p)
		}
		parts = append(parts, b.String())
	}

	literal := len(e.Alts) == 1 && len(e.Alts[0].Items) == 1 &&
		e.Alts[0].Items[0].Repeat == "" && e.Alts[0].Items[0].Atom.Str != nil
	if len(parts) == 1 {
		return parts[0], literal, nil
	}
	return "(?:" + strings.Join(parts, "|") + ")", false, nil
}

func (c *compiler) atomPattern(a *atom) (string, error) {
	switch {
	case a.Str != nil:
		return regexp.QuoteMeta(unquote(*a.Str)), nil
	case a.Regex != nil:
		return "(?:" + regexpSource(*a.Regex) + ")", nil
	case a.Term != nil:
		p, err := c.resolvePattern(*a.Term, a.Pos)
		if err != nil {
			return "", err
		}
		return "(?:" + p + ")", nil
	case a.Rule != nil:
		return "", errorf(BadPattern, *a.Rule, position(a.Pos), "terminal pattern cannot reference rule %q", *a.Rule)
	case a.Group != nil:
		p, _, err := c.expansionsPattern(a.Group)
		if err != nil {
			return "", err
		}
		return "(?:" + p + ")", nil
	default:
		return "", errorf(SyntaxError, "", position(a.Pos), "empty atom")
	}
}

// validate checks every symbol reference against the collected definitions.
func (c *compiler) validate() error {
	for _, ref := range c.refs {
		if ref.terminal {
			if c.g.terms[ref.name] == nil {
				return errorf(UndefinedSymbol, ref.name, position(ref.pos), "undefined terminal %q", ref.name)
			}
		} else if c.g.rules[ref.name] == nil {
			return errorf(UndefinedSymbol, ref.name, position(ref.pos), "undefined rule %q", ref.name)
		}
	}
	return nil
}

func unquote(s string) string {
	if u, err := strconv.Unquote(s); err == nil {
		return u
	}
	// Fall back to plain escape stripping for sequences strconv rejects.
	s = strings.TrimPrefix(s, `"`)
	s = strings.TrimSuffix(s, `"`)
	var b strings.Builder
	escaped := false
	for _, r := range s {
		if escaped {
			switch r {
			case 'n':
				b.WriteRune('\n')
			case 't':
				b.WriteRune('\t')
			default:
				b.WriteRune(r)
			}
			escaped = false
		} else if r == '\\' {
			escaped = true
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func regexpSource(s string) string {
	s = strings.TrimPrefix(s, "/")
	s = strings.TrimSuffix(s, "/")
	return strings.ReplaceAll(s, `\/`, `/`)
}
