// Package format renders parse trees and transformed values as text.
// Purely presentational; traversal is pre-order with children in
// declaration order.
package format

import (
	"fmt"
	"strings"

	"grammarlab/transform"
	"grammarlab/tree"
)

const indentStep = "  "

// Tree renders a parse tree one node per line: rule names introduce an
// indented block of children, tokens appear as NAME "text".
func Tree(n tree.Node) string {
	var b strings.Builder
	writeNode(&b, n, 0)
	return strings.TrimSuffix(b.String(), "\n")
}

func writeNode(b *strings.Builder, n tree.Node, depth int) {
	b.WriteString(strings.Repeat(indentStep, depth))
	switch n := n.(type) {
	case *tree.Tree:
		b.WriteString(n.Rule)
		b.WriteString("\n")
		for _, c := range n.Children {
			writeNode(b, c, depth+1)
		}
	case *tree.Token:
		fmt.Fprintf(b, "%s %q\n", n.Terminal, n.Text)
	}
}

// Value renders a transformed value: scalars through their default
// textual representation, sequences as newline-joined elements, mappings
// as `key: value` lines in insertion order. Nested composites indent.
func Value(v transform.Value) string {
	var b strings.Builder
	writeValue(&b, v, 0)
	return strings.TrimSuffix(b.String(), "\n")
}

func writeValue(b *strings.Builder, v transform.Value, depth int) {
	indent := strings.Repeat(indentStep, depth)
	switch v := v.(type) {
	case nil:
		b.WriteString(indent + "<nil>\n")
	case []transform.Value:
		for _, el := range v {
			writeValue(b, el, depth)
		}
	case *transform.Map:
		for _, key := range v.Keys() {
			val, _ := v.Get(key)
			if scalar(val) {
				fmt.Fprintf(b, "%s%s: %v\n", indent, key, val)
			} else {
				fmt.Fprintf(b, "%s%s:\n", indent, key)
				writeValue(b, val, depth+1)
			}
		}
	case *transform.Node:
		b.WriteString(indent + v.Name + "\n")
		for _, c := range v.Children {
			writeValue(b, c, depth+1)
		}
	default:
		fmt.Fprintf(b, "%s%v\n", indent, v)
	}
}

func scalar(v transform.Value) bool {
	switch v.(type) {
	case nil, []transform.Value, *transform.Map, *transform.Node:
		return false
	default:
		return true
	}
}
