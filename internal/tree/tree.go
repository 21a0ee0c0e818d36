// Package tree holds the in-memory library hierarchy shown by the browser.
// A node's path is its identity; routes are child-index sequences from the
// root and are only valid until the next structural change.
package tree

import (
	"errors"
	"path/filepath"

	"github.com/justyntemme/crate/internal/fs"
)

var ErrNotFound = errors.New("node not found")

// Node is one file or directory in the tree
type Node struct {
	Path     string
	Name     string
	IsDir    bool
	Loading  bool // a scan for this node is in flight
	Children []*Node
}

// Route is the sequence of child indices leading from the root to a node
type Route []int

// Tree owns exactly one root node
type Tree struct {
	root *Node
}

func New(root *Node) *Tree {
	return &Tree{root: root}
}

// Placeholder returns a tree whose root is a single text node,
// shown until the first scan of a library root completes.
func Placeholder(text string) *Tree {
	return New(&Node{Name: text})
}

func (t *Tree) Root() *Node {
	return t.root
}

// ReplaceRoot swaps the whole tree
func (t *Tree) ReplaceRoot(n *Node) {
	t.root = n
}

// RouteTo finds the route to path. The root itself has the empty route.
// Paths outside the root report false.
func (t *Tree) RouteTo(path string) (Route, bool) {
	if t.root == nil {
		return nil, false
	}
	if t.root.Path == path {
		return Route{}, true
	}
	if !fs.Within(t.root.Path, path) {
		return nil, false
	}

	type frame struct {
		node  *Node
		route Route
	}
	stack := []frame{{node: t.root, route: Route{}}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for i, c := range f.node.Children {
			if c.Path == path {
				return append(append(Route{}, f.route...), i), true
			}
			// Only descend into the branch that can contain path
			if len(c.Children) > 0 && fs.Within(c.Path, path) {
				stack = append(stack, frame{node: c, route: append(append(Route{}, f.route...), i)})
			}
		}
	}
	return nil, false
}

// NodeByRoute resolves a route from the root
func (t *Tree) NodeByRoute(r Route) (*Node, bool) {
	n := t.root
	if n == nil {
		return nil, false
	}
	for _, idx := range r {
		if idx < 0 || idx >= len(n.Children) {
			return nil, false
		}
		n = n.Children[idx]
	}
	return n, true
}

// Find returns the node at path
func (t *Tree) Find(path string) (*Node, bool) {
	r, ok := t.RouteTo(path)
	if !ok {
		return nil, false
	}
	return t.NodeByRoute(r)
}

// Parent returns the parent node of path, which must be in the tree
func (t *Tree) Parent(path string) (*Node, int, bool) {
	r, ok := t.RouteTo(path)
	if !ok || len(r) == 0 {
		return nil, 0, false
	}
	p, ok := t.NodeByRoute(r[:len(r)-1])
	return p, r[len(r)-1], ok
}

// SpliceSubtree replaces the children of the node at parentPath.
// The parent node itself and everything outside its child list keep
// their identity.
func (t *Tree) SpliceSubtree(parentPath string, children []*Node) error {
	p, ok := t.Find(parentPath)
	if !ok {
		return ErrNotFound
	}
	p.Children = children
	p.Loading = false
	return nil
}

// ReplaceNode swaps the node at path for n, at the same index
// in its parent's child list.
func (t *Tree) ReplaceNode(path string, n *Node) error {
	if t.root != nil && t.root.Path == path {
		t.root = n
		return nil
	}
	p, idx, ok := t.Parent(path)
	if !ok {
		return ErrNotFound
	}
	children := make([]*Node, len(p.Children))
	copy(children, p.Children)
	children[idx] = n
	p.Children = children
	return nil
}

// FromScan converts a scan result into fresh nodes
func FromScan(r fs.ScanResult) *Node {
	root := &Node{Path: r.ID, Name: r.Value, IsDir: r.IsDir}
	type pair struct {
		node *Node
		scan *fs.ScanResult
	}
	stack := []pair{{node: root, scan: &r}}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if len(p.scan.Children) == 0 {
			continue
		}
		p.node.Children = make([]*Node, len(p.scan.Children))
		for i := range p.scan.Children {
			sc := &p.scan.Children[i]
			c := &Node{Path: sc.ID, Name: sc.Value, IsDir: sc.IsDir}
			p.node.Children[i] = c
			stack = append(stack, pair{node: c, scan: sc})
		}
	}
	return root
}

// Depth returns the number of path components between base and path,
// or -1 if path is not within base.
func Depth(base, path string) int {
	if !fs.Within(base, path) {
		return -1
	}
	rel, err := filepath.Rel(base, path)
	if err != nil || rel == "." {
		return 0
	}
	n := 1
	for _, c := range rel {
		if c == filepath.Separator {
			n++
		}
	}
	return n
}
