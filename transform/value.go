package transform

// Value is the output of a transformation: a scalar, a []Value sequence,
// a *Map, or a *Node container for untransformed rule nodes.
type Value = any

// Node is the generic container produced for rule nodes with no handler:
// the rule name over the transformed children. A tree transformed by an
// empty program is a Node/string structure isomorphic to the parse tree.
type Node struct {
	Name     string
	Children []Value
}

// Map is a key-ordered mapping. Keys iterate in insertion order.
type Map struct {
	keys   []string
	values map[string]Value
}

func NewMap() *Map {
	return &Map{values: make(map[string]Value)}
}

// Set adds or replaces a key. A replaced key keeps its original position.
func (m *Map) Set(key string, v Value) *Map {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = v
	return m
}

func (m *Map) Get(key string) (Value, bool) {
	v, ok := m.values[key]
	return v, ok
}

func (m *Map) Len() int { return len(m.keys) }

// Keys returns the keys in insertion order. The caller must not modify
// the returned slice.
func (m *Map) Keys() []string { return m.keys }
