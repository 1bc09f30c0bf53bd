package transform

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grammarlab/tree"
)

func token(term, text string) *tree.Token {
	return &tree.Token{Terminal: term, Text: text}
}

func rule(name string, children ...tree.Node) *tree.Tree {
	return &tree.Tree{Rule: name, Children: children}
}

// start(item("x"), comment("note"), item("y"))
func sampleTree() *tree.Tree {
	return rule("start",
		rule("item", token("WORD", "x")),
		rule("comment", token("TEXT", "note")),
		rule("item", token("WORD", "y")),
	)
}

func TestApplyIdentity(t *testing.T) {
	v, err := Apply(sampleTree(), nil)
	require.NoError(t, err, "A nil program is the identity transform")

	root, ok := v.(*Node)
	require.True(t, ok, "Unhandled rule nodes become generic containers")
	assert.Equal(t, "start", root.Name)
	require.Len(t, root.Children, 3, "Identity output is isomorphic to the tree")

	item := root.Children[0].(*Node)
	assert.Equal(t, "item", item.Name)
	assert.Equal(t, "x", item.Children[0], "Unhandled tokens become their text")
}

func TestApplyRuleHandler(t *testing.T) {
	p := NewProgram().
		OnRule("item", func(_ *tree.Tree, children []Value) (Result, error) {
			return Keep(children[0]), nil
		}).
		OnRule("start", func(_ *tree.Tree, children []Value) (Result, error) {
			return Keep(children), nil
		}).
		OnRule("comment", func(*tree.Tree, []Value) (Result, error) {
			return Drop, nil
		})

	v, err := Apply(sampleTree(), p)
	require.NoError(t, err)
	assert.Equal(t, []Value{"x", "y"}, v, "Handlers see already-transformed children")
}

func TestApplyDropAtAnyDepth(t *testing.T) {
	root := rule("start",
		rule("block",
			rule("comment", token("TEXT", "inner")),
			token("WORD", "kept"),
		),
		rule("comment", token("TEXT", "outer")),
	)

	p := NewProgram().OnRule("comment", func(*tree.Tree, []Value) (Result, error) {
		return Drop, nil
	})

	v, err := Apply(root, p)
	require.NoError(t, err)

	start := v.(*Node)
	require.Len(t, start.Children, 1, "Dropped nodes vanish from their parent at any depth")
	block := start.Children[0].(*Node)
	assert.Equal(t, []Value{"kept"}, block.Children)
}

func TestApplyDropAtRoot(t *testing.T) {
	p := NewProgram().OnRule("start", func(*tree.Tree, []Value) (Result, error) {
		return Drop, nil
	})

	v, err := Apply(sampleTree(), p)
	require.NoError(t, err)
	assert.Nil(t, v, "Dropping the root yields no value")
}

func TestApplyPassFallsThrough(t *testing.T) {
	p := NewProgram().OnRule("item", func(*tree.Tree, []Value) (Result, error) {
		return Pass, nil
	})

	v, err := Apply(sampleTree(), p)
	require.NoError(t, err)

	item := v.(*Node).Children[0].(*Node)
	assert.Equal(t, "item", item.Name, "Pass uses the default container")
}

func TestApplyTokenHandler(t *testing.T) {
	p := NewProgram().OnToken("WORD", func(tok *tree.Token) (Result, error) {
		return Keep(len(tok.Text)), nil
	})

	v, err := Apply(rule("start", token("WORD", "abc")), p)
	require.NoError(t, err)
	assert.Equal(t, []Value{3}, v.(*Node).Children)
}

func TestApplyDropTokens(t *testing.T) {
	root := rule("start",
		token("LPAR", "("),
		token("WORD", "x"),
		token("RPAR", ")"),
	)
	p := NewProgram().DropTokens("LPAR", "RPAR")

	v, err := Apply(root, p)
	require.NoError(t, err)
	assert.Equal(t, []Value{"x"}, v.(*Node).Children)
}

func TestApplyHandlerFailure(t *testing.T) {
	boom := errors.New("bad number")
	root := rule("start", rule("num", token("INT", "12")))
	root.Children[0].(*tree.Tree).Pos = tree.Span{
		Start: tree.Position{Line: 1, Column: 1},
		End:   tree.Position{Line: 1, Column: 3, Offset: 2},
	}

	p := NewProgram().OnRule("num", func(*tree.Tree, []Value) (Result, error) {
		return Result{}, boom
	})

	_, err := Apply(root, p)
	require.Error(t, err)

	var terr *Error
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, HandlerFailed, terr.Kind)
	assert.Equal(t, "num", terr.Node, "The failing error names the node")
	assert.Equal(t, 1, terr.Pos.Start.Line)
	assert.ErrorIs(t, err, boom, "The handler's error should be wrapped, not replaced")
}

func TestApplyTokenHandlerFailure(t *testing.T) {
	p := NewProgram().OnToken("INT", func(*tree.Token) (Result, error) {
		return Result{}, errors.New("overflow")
	})

	_, err := Apply(rule("start", token("INT", "999")), p)
	require.Error(t, err)

	var terr *Error
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, HandlerFailed, terr.Kind)
	assert.Equal(t, "INT", terr.Node)
}

func TestApplyTreeHandlerRunsTopDown(t *testing.T) {
	p := NewProgram().
		OnTree("item", func(n *tree.Tree) (Result, error) {
			return Keep(tree.Text(n)), nil
		}).
		OnToken("WORD", func(*tree.Token) (Result, error) {
			return Result{}, errors.New("should not be reached")
		})

	v, err := Apply(sampleTree(), p)
	require.NoError(t, err, "A Keep from a tree handler short-circuits the children")

	start := v.(*Node)
	assert.Equal(t, "x", start.Children[0])
}

func TestApplyTreeHandlerPass(t *testing.T) {
	p := NewProgram().
		OnTree("item", func(*tree.Tree) (Result, error) { return Pass, nil }).
		OnRule("item", func(_ *tree.Tree, children []Value) (Result, error) {
			return Keep(children[0]), nil
		})

	v, err := Apply(sampleTree(), p)
	require.NoError(t, err)
	assert.Equal(t, "x", v.(*Node).Children[0], "Pass falls through to the bottom-up handler")
}

func TestProgramDuplicateHandler(t *testing.T) {
	h := func(*tree.Tree, []Value) (Result, error) { return Pass, nil }
	p := NewProgram().OnRule("item", h).OnRule("item", h)

	_, err := Apply(sampleTree(), p)
	require.Error(t, err)

	var terr *Error
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, BadProgram, terr.Kind)
}

func TestMapKeepsInsertionOrder(t *testing.T) {
	m := NewMap().Set("b", 1).Set("a", 2).Set("b", 3)

	assert.Equal(t, []string{"b", "a"}, m.Keys(), "Replacing a key keeps its position")
	v, ok := m.Get("b")
	require.True(t, ok)
	assert.Equal(t, 3, v)
	assert.Equal(t, 2, m.Len())
}
