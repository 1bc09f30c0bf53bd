package grammar

import (
	"fmt"

	"grammarlab/tree"
)

// ErrorKind identifies the class of a grammar compilation failure.
type ErrorKind int

const (
	// SyntaxError means the grammar text itself is malformed.
	SyntaxError ErrorKind = iota
	// UndefinedSymbol means a rule body references a name that is never
	// defined as a rule or terminal.
	UndefinedSymbol
	// DuplicateSymbol means a rule or terminal name is defined twice.
	DuplicateSymbol
	// BadPattern means a terminal pattern does not compile as a regular
	// expression, or terminal references form a cycle.
	BadPattern
	// BadDirective means a directive is well-formed but unusable, such as
	// an import from an unknown module.
	BadDirective
)

func (k ErrorKind) String() string {
	switch k {
	case SyntaxError:
		return "syntax error"
	case UndefinedSymbol:
		return "undefined symbol"
	case DuplicateSymbol:
		return "duplicate symbol"
	case BadPattern:
		return "bad pattern"
	case BadDirective:
		return "bad directive"
	default:
		return "grammar error"
	}
}

// Error is a grammar compilation failure with enough structure for the
// host to render a positioned report.
type Error struct {
	Kind    ErrorKind
	Symbol  string // offending rule/terminal name, when known
	Message string
	Pos     tree.Position
}

func (e *Error) Error() string {
	if e.Pos.Line > 0 {
		return fmt.Sprintf("grammar: %s at %s: %s", e.Kind, e.Pos, e.Message)
	}
	return fmt.Sprintf("grammar: %s: %s", e.Kind, e.Message)
}

func errorf(kind ErrorKind, symbol string, pos tree.Position, format string, args ...any) *Error {
	return &Error{
		Kind:    kind,
		Symbol:  symbol,
		Message: fmt.Sprintf(format, args...),
		Pos:     pos,
	}
}
