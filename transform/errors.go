package transform

import (
	"fmt"

	"grammarlab/tree"
)

// ErrorKind identifies the class of a transformation failure.
type ErrorKind int

const (
	// HandlerFailed means a handler returned an error; the whole
	// transform aborts.
	HandlerFailed ErrorKind = iota
	// BadProgram means the program itself is malformed, such as a name
	// registered twice.
	BadProgram
)

func (k ErrorKind) String() string {
	switch k {
	case HandlerFailed:
		return "handler failed"
	case BadProgram:
		return "bad program"
	default:
		return "transform error"
	}
}

// Error is a transformation failure carrying the triggering node's name
// and source span.
type Error struct {
	Kind  ErrorKind
	Node  string
	Pos   tree.Span
	Cause error
}

func (e *Error) Error() string {
	switch e.Kind {
	case HandlerFailed:
		return fmt.Sprintf("transform: handler for %q at %s: %v", e.Node, e.Pos.Start, e.Cause)
	default:
		return fmt.Sprintf("transform: %s: %v", e.Kind, e.Cause)
	}
}

func (e *Error) Unwrap() error { return e.Cause }
