package parser

import (
	"fmt"
	"strings"

	"grammarlab/tree"
)

// ErrorKind identifies the class of a parse failure.
type ErrorKind int

const (
	// SyntaxError means the input could not be tokenized at the reported
	// position.
	SyntaxError ErrorKind = iota
	// UnexpectedToken means tokenization succeeded but no derivation
	// accepts the token at the reported position.
	UnexpectedToken
	// UnexpectedEOF means the input ended while a derivation was still
	// incomplete.
	UnexpectedEOF
	// GrammarConflict means the grammar cannot be handled by the selected
	// algorithm, such as an LL(1) table conflict or a nullable rule under
	// the quadratic recognizer.
	GrammarConflict
	// Ambiguous is reserved for strategies that require external
	// disambiguation. The shipped algorithms always resolve ambiguity by
	// declaration order and do not return it.
	Ambiguous
)

func (k ErrorKind) String() string {
	switch k {
	case SyntaxError:
		return "syntax error"
	case UnexpectedToken:
		return "unexpected token"
	case UnexpectedEOF:
		return "unexpected end of input"
	case GrammarConflict:
		return "grammar conflict"
	case Ambiguous:
		return "ambiguous parse"
	default:
		return "parse error"
	}
}

// Error is a parse failure at the furthest position any derivation
// reached, with the set of terminals that would have been accepted there.
type Error struct {
	Kind     ErrorKind
	Pos      tree.Position
	Token    string // offending token text, when any
	Expected []string
	Message  string
}

func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "parse: %s at %s", e.Kind, e.Pos)
	if e.Message != "" {
		fmt.Fprintf(&b, ": %s", e.Message)
	} else if e.Token != "" {
		fmt.Fprintf(&b, ": %q", e.Token)
	}
	if len(e.Expected) > 0 {
		fmt.Fprintf(&b, " (expected %s)", strings.Join(e.Expected, ", "))
	}
	return b.String()
}
