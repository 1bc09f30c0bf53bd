package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grammarlab/tree"
)

func TestLL1Sequence(t *testing.T) {
	g := mustGrammar(t, `start: "a" "b"`)
	root := mustParse(t, g, "start", Deterministic, "ab")

	require.Len(t, root.Children, 2)
	assert.Equal(t, "a", root.Children[0].(*tree.Token).Text)
	assert.Equal(t, "b", root.Children[1].(*tree.Token).Text)
}

func TestLL1MismatchAfterPrefix(t *testing.T) {
	// Tokenization fails before parsing: "c" matches no terminal.
	g := mustGrammar(t, `start: "a" "b"`)
	_, err := Parse(g, "start", Deterministic, "ac")
	require.Error(t, err)

	var perr *Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, SyntaxError, perr.Kind)
	assert.Equal(t, 1, perr.Pos.Offset)
	assert.Contains(t, perr.Expected, "B")
}

func TestLL1AlternativesByLookahead(t *testing.T) {
	g := mustGrammar(t, `start: "a" tail
tail: "b" | "c"`)

	root := mustParse(t, g, "start", Deterministic, "ac")
	tail := root.Children[1].(*tree.Tree)
	assert.Equal(t, "c", tail.Children[0].(*tree.Token).Text)
}

func TestLL1NullableAlternative(t *testing.T) {
	g := mustGrammar(t, `start: mid "b"
mid: "a" |`)

	root := mustParse(t, g, "start", Deterministic, "b")
	mid := root.Children[0].(*tree.Tree)
	assert.Empty(t, mid.Children, "Lookahead in FOLLOW should select the empty alternative")

	root = mustParse(t, g, "start", Deterministic, "ab")
	mid = root.Children[0].(*tree.Tree)
	assert.Len(t, mid.Children, 1)
}

func TestLL1Repetition(t *testing.T) {
	g := mustGrammar(t, `list: item ("," item)*
item: WORD
%import common.WORD
%import common.WS
%ignore WS`)

	root := mustParse(t, g, "list", Deterministic, "x, y , z")
	require.Len(t, root.Children, 5, "Three items and two separators")
	assert.Equal(t, "item", root.Children[0].(*tree.Tree).Rule)
	assert.Equal(t, ",", root.Children[1].(*tree.Token).Text)
	assert.Equal(t, "item", root.Children[4].(*tree.Tree).Rule)
}

func TestLL1GrammarConflict(t *testing.T) {
	g := mustGrammar(t, `start: first | second
first: X
second: X
X: "x"`)
	_, err := Parse(g, "start", Deterministic, "x")
	require.Error(t, err)

	var perr *Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, GrammarConflict, perr.Kind)
	assert.Contains(t, perr.Message, "not LL(1)")
	assert.Contains(t, perr.Message, `"start"`)
}

func TestLL1ConflictReportedBeforeInput(t *testing.T) {
	g := mustGrammar(t, `start: first | second
first: X
second: X
X: "x"`)

	// The conflict is a property of the grammar, not of the input.
	_, err := Parse(g, "start", Deterministic, "")
	require.Error(t, err)

	var perr *Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, GrammarConflict, perr.Kind)
}

func TestLL1TrailingInput(t *testing.T) {
	g := mustGrammar(t, `start: "a"`)
	_, err := Parse(g, "start", Deterministic, "aa")
	require.Error(t, err)

	var perr *Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, UnexpectedToken, perr.Kind)
	assert.Equal(t, 1, perr.Pos.Offset)
	assert.Contains(t, perr.Message, "input continues")
}

func TestLL1UnexpectedEOF(t *testing.T) {
	g := mustGrammar(t, `start: "a" "b"`)
	_, err := Parse(g, "start", Deterministic, "a")
	require.Error(t, err)

	var perr *Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, UnexpectedEOF, perr.Kind)
	assert.Equal(t, []string{"B"}, perr.Expected)
}
