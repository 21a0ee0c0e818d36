package tree

// Iterator walks a tree depth-first in pre-order using its own stack
type Iterator struct {
	stack []item
	cur   item
}

type item struct {
	node  *Node
	depth int
}

// Walk returns an iterator positioned before the root
func (t *Tree) Walk() *Iterator {
	it := &Iterator{}
	if t.root != nil {
		it.stack = append(it.stack, item{node: t.root})
	}
	return it
}

// Next advances to the next node and reports whether there is one
func (it *Iterator) Next() bool {
	if len(it.stack) == 0 {
		it.cur = item{}
		return false
	}
	it.cur = it.stack[len(it.stack)-1]
	it.stack = it.stack[:len(it.stack)-1]
	// Push in reverse so the first child comes out next
	children := it.cur.node.Children
	for i := len(children) - 1; i >= 0; i-- {
		it.stack = append(it.stack, item{node: children[i], depth: it.cur.depth + 1})
	}
	return true
}

// Node returns the current node
func (it *Iterator) Node() *Node {
	return it.cur.node
}

// Depth returns the current node's distance from the root
func (it *Iterator) Depth() int {
	return it.cur.depth
}

// SkipChildren drops the current node's descendants from the walk
func (it *Iterator) SkipChildren() {
	if it.cur.node == nil {
		return
	}
	it.stack = it.stack[:len(it.stack)-len(it.cur.node.Children)]
}
