package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grammarlab/tree"
)

func TestEarleySequence(t *testing.T) {
	g := mustGrammar(t, `start: "a" "b"`)
	root := mustParse(t, g, "start", General, "ab")

	assert.Equal(t, "start", root.Rule)
	require.Len(t, root.Children, 2)
	assert.Equal(t, "a", root.Children[0].(*tree.Token).Text)
	assert.Equal(t, "b", root.Children[1].(*tree.Token).Text)
}

func TestEarleyLeftRecursion(t *testing.T) {
	g := mustGrammar(t, `expr: expr "+" term | term
term: NUM
NUM: /[0-9]+/`)
	root := mustParse(t, g, "expr", General, "1+2+3")

	// Left recursion associates to the left: ((1+2)+3).
	require.Len(t, root.Children, 3)
	inner := root.Children[0].(*tree.Tree)
	assert.Equal(t, "expr", inner.Rule)
	require.Len(t, inner.Children, 3)
}

func TestEarleyAmbiguityPrefersFirstAlternative(t *testing.T) {
	g := mustGrammar(t, `start: first | second
first: X
second: X
X: "x"`)
	root := mustParse(t, g, "start", General, "x")

	require.Len(t, root.Children, 1)
	child := root.Children[0].(*tree.Tree)
	assert.Equal(t, "first", child.Rule, "Ambiguity should resolve to the alternative declared first")
}

func TestEarleyNullableRule(t *testing.T) {
	g := mustGrammar(t, `start: mid "b"
mid: "a" |`)

	root := mustParse(t, g, "start", General, "b")
	require.Len(t, root.Children, 2)
	mid := root.Children[0].(*tree.Tree)
	assert.Equal(t, "mid", mid.Rule, "Empty derivation should still produce the rule node")
	assert.Empty(t, mid.Children)
	assert.Equal(t, mid.Pos.Start, mid.Pos.End, "Empty node has an empty span")

	root = mustParse(t, g, "start", General, "ab")
	mid = root.Children[0].(*tree.Tree)
	require.Len(t, mid.Children, 1)
	assert.Equal(t, "a", mid.Children[0].(*tree.Token).Text)
}

func TestEarleyCyclicNullableRule(t *testing.T) {
	g := mustGrammar(t, `a: a |`)

	root := mustParse(t, g, "a", General, "")
	assert.Equal(t, "a", root.Rule, "A self-referential nullable rule should still derive empty input")
	assert.Empty(t, tree.Tokens(root))
}

func TestEarleyMutuallyCyclicNullableRules(t *testing.T) {
	g := mustGrammar(t, `x: y |
y: x |`)

	root := mustParse(t, g, "x", General, "")
	assert.Equal(t, "x", root.Rule)
	assert.Empty(t, tree.Tokens(root))
}

func TestEarleyCyclicNullableBeforeToken(t *testing.T) {
	g := mustGrammar(t, `start: a "b"
a: a |`)

	root := mustParse(t, g, "start", General, "b")
	require.Len(t, root.Children, 2)
	a := root.Children[0].(*tree.Tree)
	assert.Equal(t, "a", a.Rule)
	assert.Empty(t, tree.Tokens(a), "The cyclic nullable rule derives empty before the token")
	assert.Equal(t, "b", root.Children[1].(*tree.Token).Text)
}

func TestEarleyStarRepetition(t *testing.T) {
	g := mustGrammar(t, `start: "a"*`)

	root := mustParse(t, g, "start", General, "")
	assert.Empty(t, root.Children, "Star accepts the empty input")

	root = mustParse(t, g, "start", General, "aaa")
	assert.Len(t, root.Children, 3, "Star children splice into the parent")
}

func TestEarleyUnexpectedToken(t *testing.T) {
	g := mustGrammar(t, `start: "a" "b"`)
	_, err := Parse(g, "start", General, "aa")
	require.Error(t, err)

	var perr *Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, UnexpectedToken, perr.Kind)
	assert.Equal(t, 1, perr.Pos.Offset, "Error should report the furthest position reached")
	assert.Equal(t, "a", perr.Token)
	assert.Equal(t, []string{"B"}, perr.Expected)
}

func TestEarleyUnexpectedEOF(t *testing.T) {
	g := mustGrammar(t, `start: "a" "b"`)
	_, err := Parse(g, "start", General, "a")
	require.Error(t, err)

	var perr *Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, UnexpectedEOF, perr.Kind)
	assert.Equal(t, 1, perr.Pos.Offset, "EOF error should point past the last token")
	assert.Equal(t, []string{"B"}, perr.Expected)
}
