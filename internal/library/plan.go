package library

import (
	"fmt"

	"github.com/justyntemme/crate/internal/debug"
	"github.com/justyntemme/crate/internal/fs"
	"github.com/justyntemme/crate/internal/tree"
)

// PlanReload picks the smallest scan that brings target into the tree.
// The scan is rooted at the loaded node sharing the most leading path
// components with target, deep enough to reach it, and at least one level.
// Among equally deep candidates the first in pre-order wins; since paths
// are unique within a tree this only matters for malformed trees.
// The chosen node is marked as loading.
func PlanReload(t *tree.Tree, target string) (fs.Request, error) {
	root := t.Root()
	if root == nil || !fs.Within(root.Path, target) {
		return fs.Request{}, fmt.Errorf("plan %q: %w", target, ErrOutsideRoot)
	}
	total := tree.Depth(root.Path, target)

	best, matched := root, 0
	it := t.Walk()
	for it.Next() {
		n := it.Node()
		if !fs.Within(n.Path, target) {
			it.SkipChildren()
			continue
		}
		if n.Path == target {
			best, matched = n, total
			break
		}
		if d := tree.Depth(root.Path, n.Path); d > matched {
			best, matched = n, d
		}
	}

	depth := fs.Depth(total - matched)
	if depth < 1 {
		depth = 1
	}
	best.Loading = true

	debug.Log(debug.TREE, "plan %q: scan %q depth=%d (matched %d/%d)", target, best.Path, depth, matched, total)
	return fs.Request{Path: best.Path, Depth: depth, Sub: true}, nil
}

// PlanReloadPath turns a ReloadPath message into a scan request
func PlanReloadPath(t *tree.Tree, msg ReloadPath) (fs.Request, error) {
	req, err := PlanReload(t, msg.Path)
	if err != nil {
		return req, err
	}
	if msg.Depth > 0 {
		if need := fs.Depth(tree.Depth(req.Path, msg.Path)) + msg.Depth; need > req.Depth {
			req.Depth = need
		}
	}
	if msg.ChangeFocus {
		req.Focus = msg.Focus
		if req.Focus == "" {
			req.Focus = msg.Path
		}
	}
	return req, nil
}
