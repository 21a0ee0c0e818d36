package library

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/justyntemme/crate/internal/debug"
	"github.com/justyntemme/crate/internal/fs"
	"github.com/justyntemme/crate/internal/tree"
)

// ErrOutsideRoot means a path is not below the current library root
var ErrOutsideRoot = errors.New("path is outside the library root")

// Outcome describes what Apply did to the tree
type Outcome int

const (
	Unchanged Outcome = iota
	ReplacedRoot
	ReplacedNode
	Spliced
	Removed
)

func (o Outcome) String() string {
	switch o {
	case ReplacedRoot:
		return "replaced-root"
	case ReplacedNode:
		return "replaced-node"
	case Spliced:
		return "spliced"
	case Removed:
		return "removed"
	}
	return "unchanged"
}

// Apply merges a finished scan into t. A result for the root replaces the
// whole tree; a result for a known node replaces that node in place;
// anything else is spliced under its nearest loaded ancestor. Nodes outside
// the touched subtree keep their identity.
func Apply(t *tree.Tree, r fs.ScanResult) (Outcome, error) {
	root := t.Root()
	if root == nil || r.ID == root.Path {
		t.ReplaceRoot(tree.FromScan(r))
		debug.Log(debug.TREE, "apply %q: %s", r.ID, ReplacedRoot)
		return ReplacedRoot, nil
	}
	if !fs.Within(root.Path, r.ID) {
		return Unchanged, fmt.Errorf("apply %q: %w", r.ID, ErrOutsideRoot)
	}

	if _, ok := t.Find(r.ID); ok {
		if r.Missing {
			return removeNode(t, r.ID)
		}
		if err := t.ReplaceNode(r.ID, tree.FromScan(r)); err != nil {
			return Unchanged, fmt.Errorf("apply %q: %w", r.ID, err)
		}
		debug.Log(debug.TREE, "apply %q: %s", r.ID, ReplacedNode)
		return ReplacedNode, nil
	}

	if r.Missing {
		// Already absent from the tree
		return Unchanged, nil
	}

	anc, ok := nearestAncestor(t, r.ID)
	if !ok {
		return Unchanged, fmt.Errorf("apply %q: %w", r.ID, ErrOutsideRoot)
	}

	// Wrap the result in the directories between it and the ancestor
	branch := tree.FromScan(r)
	for p := filepath.Dir(r.ID); p != anc.Path; p = filepath.Dir(p) {
		branch = &tree.Node{Path: p, Name: filepath.Base(p), IsDir: true, Children: []*tree.Node{branch}}
	}

	children := make([]*tree.Node, 0, len(anc.Children)+1)
	inserted := false
	for _, c := range anc.Children {
		if !inserted && fs.Compare(branch.Name, c.Name) < 0 {
			children = append(children, branch)
			inserted = true
		}
		children = append(children, c)
	}
	if !inserted {
		children = append(children, branch)
	}

	if err := t.SpliceSubtree(anc.Path, children); err != nil {
		return Unchanged, fmt.Errorf("apply %q: %w", r.ID, err)
	}
	debug.Log(debug.TREE, "apply %q: %s under %q", r.ID, Spliced, anc.Path)
	return Spliced, nil
}

func removeNode(t *tree.Tree, path string) (Outcome, error) {
	parent, idx, ok := t.Parent(path)
	if !ok {
		return Unchanged, fmt.Errorf("remove %q: %w", path, tree.ErrNotFound)
	}
	children := make([]*tree.Node, 0, len(parent.Children)-1)
	children = append(children, parent.Children[:idx]...)
	children = append(children, parent.Children[idx+1:]...)
	if err := t.SpliceSubtree(parent.Path, children); err != nil {
		return Unchanged, err
	}
	debug.Log(debug.TREE, "apply %q: %s", path, Removed)
	return Removed, nil
}

// nearestAncestor walks path upward until a node in t is found
func nearestAncestor(t *tree.Tree, path string) (*tree.Node, bool) {
	root := t.Root().Path
	for p := filepath.Dir(path); fs.Within(root, p); {
		if n, ok := t.Find(p); ok {
			return n, true
		}
		parent := filepath.Dir(p)
		if parent == p {
			break
		}
		p = parent
	}
	return nil, false
}
