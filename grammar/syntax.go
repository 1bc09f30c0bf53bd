package grammar

import (
	"fmt"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Surface syntax of the grammar language, captured by participle before
// lowering into the compiled Grammar.

type grammarFile struct {
	Statements []*statement `parser:"@@*"`
}

type statement struct {
	Ignore  *ignoreDirective  `parser:"  @@"`
	Import  *importDirective  `parser:"| @@"`
	Declare *declareDirective `parser:"| @@"`
	Term    *termDef          `parser:"| @@"`
	Rule    *ruleDef          `parser:"| @@"`
}

type ignoreDirective struct {
	Pos  lexer.Position
	Atom *atom `parser:"\"%ignore\" @@"`
}

type importDirective struct {
	Pos    lexer.Position
	Module string `parser:"\"%import\" @RuleName"`
	Name   string `parser:"\".\" @TermName"`
}

type declareDirective struct {
	Pos   lexer.Position
	Names []string `parser:"\"%declare\" @TermName+"`
}

type termDef struct {
	Pos      lexer.Position
	Name     string      `parser:"@TermName"`
	Priority *int        `parser:"(\".\" @Number)?"`
	Body     *expansions `parser:"\":\" @@"`
}

type ruleDef struct {
	Pos  lexer.Position
	Name string      `parser:"@RuleName"`
	Body *expansions `parser:"\":\" @@"`
}

type expansions struct {
	Alts []*alternative `parser:"@@ (\"|\" @@)*"`
}

type alternative struct {
	Items []*item `parser:"@@*"`
}

type item struct {
	Atom   *atom  `parser:"@@"`
	Repeat string `parser:"@(\"*\" | \"+\" | \"?\")?"`
}

// An atom is a literal, a regexp, a symbol reference, or a group. A name
// followed by a colon starts the next definition, so references exclude it
// via lookahead.
type atom struct {
	Pos   lexer.Position
	Str   *string     `parser:"  @String"`
	Regex *string     `parser:"| @Regexp"`
	Rule  *string     `parser:"| @RuleName (?! \":\")"`
	Term  *string     `parser:"| @TermName (?! \":\" | \".\" Number \":\")"`
	Group *expansions `parser:"| \"(\" @@ \")\""`
}

var grammarParser = buildGrammarParser()

func buildGrammarParser() *participle.Parser[grammarFile] {
	p, err := participle.Build[grammarFile](
		participle.Lexer(grammarLexer),
		participle.Elide("Whitespace", "Comment"),
		participle.UseLookahead(2),
	)
	if err != nil {
		panic(fmt.Errorf("failed to build grammar parser: %w", err))
	}

	return p
}
