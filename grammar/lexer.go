package grammar

import (
	"github.com/alecthomas/participle/v2/lexer"
)

var grammarLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		// Comments
		{Name: "Comment", Pattern: `//[^\n]*`, Action: nil},

		// Directives such as %ignore, %import, %declare
		{Name: "Directive", Pattern: `%[a-z]+`, Action: nil},

		// Terminal names are uppercase, rule names lowercase (order matters)
		{Name: "TermName", Pattern: `[A-Z][A-Z0-9_]*`, Action: nil},
		{Name: "RuleName", Pattern: `[a-z_][a-z0-9_]*`, Action: nil},

		// Literals and patterns
		{Name: "String", Pattern: `"(\\.|[^"\\])*"`, Action: nil},
		{Name: "Regexp", Pattern: `/(\\.|[^/\\])+/`, Action: nil},
		{Name: "Number", Pattern: `[0-9]+`, Action: nil},

		// Punctuation
		{Name: "Punct", Pattern: `[:|()*+?.]`, Action: nil},

		// Whitespace
		{Name: "Whitespace", Pattern: `[ \t\r\n]+`, Action: nil},
	},
})
