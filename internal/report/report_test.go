package report

import (
	"errors"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grammarlab/grammar"
	"grammarlab/parser"
	"grammarlab/transform"
	"grammarlab/tree"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	m.Run()
}

func TestRenderParserError(t *testing.T) {
	source := "a c"
	err := &parser.Error{
		Kind:     parser.UnexpectedToken,
		Pos:      tree.Position{Line: 1, Column: 3, Offset: 2},
		Token:    "c",
		Expected: []string{"B"},
	}

	out := Render("input.txt", source, err)
	assert.Contains(t, out, "unexpected token")
	assert.Contains(t, out, `unexpected "c" (expected B)`)
	assert.Contains(t, out, "--> input.txt:1:3")
	assert.Contains(t, out, "| a c")
	assert.Contains(t, out, "|   ^", "The caret should sit under column 3")
}

func TestRenderGrammarError(t *testing.T) {
	source := "start: missing"
	err := &grammar.Error{
		Kind:    grammar.UndefinedSymbol,
		Symbol:  "missing",
		Message: `undefined rule "missing"`,
		Pos:     tree.Position{Line: 1, Column: 8, Offset: 7},
	}

	out := Render("lang.g", source, err)
	assert.Contains(t, out, "grammar undefined symbol")
	assert.Contains(t, out, "--> lang.g:1:8")
	assert.Contains(t, out, "| start: missing")
}

func TestRenderTransformError(t *testing.T) {
	source := "12"
	err := &transform.Error{
		Kind: transform.HandlerFailed,
		Node: "num",
		Pos: tree.Span{
			Start: tree.Position{Line: 1, Column: 1},
			End:   tree.Position{Line: 1, Column: 3, Offset: 2},
		},
		Cause: errors.New("out of range"),
	}

	out := Render("input.txt", source, err)
	assert.Contains(t, out, "handler failed")
	assert.Contains(t, out, `handler for "num": out of range`)
	assert.Contains(t, out, "^^", "The marker should cover the node span")
}

func TestRenderErrorWithoutPosition(t *testing.T) {
	err := &parser.Error{
		Kind:    parser.GrammarConflict,
		Message: `rule "start" is not LL(1)`,
	}

	out := Render("input.txt", "whatever", err)
	assert.Contains(t, out, "grammar conflict")
	assert.NotContains(t, out, "-->", "No location line when the error has no position")
}

func TestRenderPlainError(t *testing.T) {
	out := Render("input.txt", "x", errors.New("something broke"))
	require.Contains(t, out, "error: something broke")
}

func TestRenderMultilineSource(t *testing.T) {
	source := "line one\nline two\nline three"
	err := &parser.Error{
		Kind:  parser.UnexpectedToken,
		Pos:   tree.Position{Line: 2, Column: 6, Offset: 14},
		Token: "two",
	}

	out := Render("input.txt", source, err)
	assert.Contains(t, out, "| line two")
	assert.NotContains(t, out, "line one", "Only the offending line renders")
}
