package library

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/justyntemme/crate/internal/debug"
	"github.com/justyntemme/crate/internal/fs"
	"github.com/justyntemme/crate/internal/trash"
	"github.com/justyntemme/crate/internal/tree"
)

var (
	ErrNothingYanked     = errors.New("nothing yanked")
	ErrDestinationExists = errors.New("destination already exists")
	ErrAlreadyHere       = errors.New("already in this directory")
	ErrDeleteRoot        = errors.New("cannot delete the library root")
)

// Coordinator carries out moves and deletes and works out which parts
// of the tree have to be rescanned afterwards.
type Coordinator struct {
	yanked   string
	UseTrash bool
}

// Yank remembers path as the source of the next Paste
func (c *Coordinator) Yank(path string) {
	debug.Log(debug.APP, "yank %q", path)
	c.yanked = path
}

// Yanked returns the pending move source, if any
func (c *Coordinator) Yanked() string {
	return c.yanked
}

// PasteResult describes a completed move
type PasteResult struct {
	From    string
	To      string
	Reloads []ReloadPath
}

// Paste moves the yanked path into selected, or next to it when selected
// is a file. The yank is used up even when the move fails.
func (c *Coordinator) Paste(selected string) (PasteResult, error) {
	if c.yanked == "" {
		return PasteResult{}, ErrNothingYanked
	}
	oldPath := c.yanked
	c.yanked = ""

	destDir := selected
	if info, err := os.Stat(selected); err != nil || !info.IsDir() {
		destDir = filepath.Dir(selected)
	}
	newPath := filepath.Join(destDir, filepath.Base(oldPath))

	if newPath == oldPath {
		return PasteResult{}, fmt.Errorf("paste %s: %w", oldPath, ErrAlreadyHere)
	}
	if pathExists(newPath) {
		return PasteResult{}, fmt.Errorf("paste %s: %w: %s", oldPath, ErrDestinationExists, newPath)
	}
	if err := os.Rename(oldPath, newPath); err != nil {
		return PasteResult{}, fmt.Errorf("paste %s: %w", oldPath, err)
	}
	debug.Log(debug.APP, "moved %q to %q", oldPath, newPath)

	return PasteResult{From: oldPath, To: newPath, Reloads: pasteReloads(oldPath, newPath)}, nil
}

// pasteReloads picks the rescans needed after moving oldPath to newPath
func pasteReloads(oldPath, newPath string) []ReloadPath {
	oldParent := filepath.Dir(oldPath)
	newParent := filepath.Dir(newPath)

	switch {
	case fs.Within(oldParent, newPath):
		// Moved deeper inside its own directory. Both scans carry the focus
		// since either may land last.
		return []ReloadPath{
			{Path: newPath, ChangeFocus: true},
			{Path: oldParent, ChangeFocus: true, Focus: newPath, Depth: fs.Depth(tree.Depth(oldParent, newPath))},
		}
	case fs.Within(newParent, oldParent):
		// The destination contains the old location, one scan covers both
		return []ReloadPath{
			{Path: newParent, ChangeFocus: true, Focus: newPath, Depth: fs.Depth(tree.Depth(newParent, oldParent) + 1)},
		}
	default:
		return []ReloadPath{
			{Path: newPath, ChangeFocus: true},
			{Path: oldParent},
		}
	}
}

// DeleteFocus works out where the cursor should go once path is deleted:
// the next sibling, else the previous one, else the parent.
func DeleteFocus(t *tree.Tree, path string) (string, error) {
	route, ok := t.RouteTo(path)
	if !ok {
		return "", fmt.Errorf("delete %q: %w", path, tree.ErrNotFound)
	}
	if len(route) == 0 {
		return "", ErrDeleteRoot
	}

	next := append(tree.Route{}, route...)
	next[len(next)-1]++
	if n, ok := t.NodeByRoute(next); ok {
		return n.Path, nil
	}
	if idx := route[len(route)-1]; idx > 0 {
		prev := append(tree.Route{}, route...)
		prev[len(prev)-1] = idx - 1
		if n, ok := t.NodeByRoute(prev); ok {
			return n.Path, nil
		}
	}
	parent, _ := t.NodeByRoute(route[:len(route)-1])
	return parent.Path, nil
}

// PrepareDelete builds the confirmation request for deleting path
func (c *Coordinator) PrepareDelete(t *tree.Tree, path string) (DeleteConfirm, error) {
	focus, err := DeleteFocus(t, path)
	if err != nil {
		return DeleteConfirm{}, err
	}
	n, _ := t.Find(path)
	return DeleteConfirm{Path: path, Focus: focus, IsDir: n.IsDir, Trash: c.trashes(path)}, nil
}

// Delete removes path, through the trash when enabled and the trash can
// take it, and returns the rescan of its parent that puts the cursor on focus.
// Paths on another device than the trash are deleted permanently.
func (c *Coordinator) Delete(path, focus string) (ReloadPath, error) {
	if !pathExists(path) {
		return ReloadPath{}, fmt.Errorf("delete %s: %w", path, os.ErrNotExist)
	}

	var err error
	toTrash := c.trashes(path)
	if toTrash {
		err = trash.MoveToTrash(path)
	} else {
		err = trash.PermanentDelete(path)
	}
	if err != nil {
		return ReloadPath{}, fmt.Errorf("delete %s: %w", path, err)
	}
	debug.Log(debug.APP, "deleted %q (trash=%v)", path, toTrash)

	reload := ReloadPath{Path: filepath.Dir(path)}
	if focus != "" {
		reload.ChangeFocus = true
		reload.Focus = focus
	}
	return reload, nil
}

func (c *Coordinator) trashes(path string) bool {
	return c.UseTrash && trash.CanTrash(path)
}

func pathExists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}
