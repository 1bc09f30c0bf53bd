package format

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"grammarlab/transform"
	"grammarlab/tree"
)

func TestTreeRendering(t *testing.T) {
	root := &tree.Tree{
		Rule: "pair",
		Children: []tree.Node{
			&tree.Token{Terminal: "WORD", Text: "key"},
			&tree.Tree{
				Rule: "value",
				Children: []tree.Node{
					&tree.Token{Terminal: "NUMBER", Text: "42"},
				},
			},
		},
	}

	expected := "pair\n" +
		"  WORD \"key\"\n" +
		"  value\n" +
		"    NUMBER \"42\""
	assert.Equal(t, expected, Tree(root))
}

func TestTreeRendersEmptyNode(t *testing.T) {
	root := &tree.Tree{
		Rule: "start",
		Children: []tree.Node{
			&tree.Tree{Rule: "mid"},
			&tree.Token{Terminal: "B", Text: "b"},
		},
	}

	assert.Equal(t, "start\n  mid\n  B \"b\"", Tree(root))
}

func TestValueScalar(t *testing.T) {
	assert.Equal(t, "42", Value(42))
	assert.Equal(t, "3.5", Value(3.5))
	assert.Equal(t, "hello", Value("hello"))
	assert.Equal(t, "true", Value(true))
	assert.Equal(t, "<nil>", Value(nil))
}

func TestValueSequence(t *testing.T) {
	v := []transform.Value{"x", "y", "z"}
	assert.Equal(t, "x\ny\nz", Value(v))
}

func TestValueMap(t *testing.T) {
	m := transform.NewMap().
		Set("name", "lab").
		Set("sizes", []transform.Value{1, 2})

	assert.Equal(t, "name: lab\nsizes:\n  1\n  2", Value(m),
		"Keys render in insertion order; nested composites indent")
}

func TestValueNode(t *testing.T) {
	n := &transform.Node{Name: "item", Children: []transform.Value{"x", "y"}}
	assert.Equal(t, "item\n  x\n  y", Value(n))
}

func TestValueNestedNode(t *testing.T) {
	n := &transform.Node{
		Name: "start",
		Children: []transform.Value{
			&transform.Node{Name: "item", Children: []transform.Value{"x"}},
		},
	}
	assert.Equal(t, "start\n  item\n    x", Value(n))
}
