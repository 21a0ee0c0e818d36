package library

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/justyntemme/crate/internal/fs"
	"github.com/justyntemme/crate/internal/tree"
)

func leaf(path string) fs.ScanResult {
	return fs.ScanResult{ID: path, Value: filepath.Base(path)}
}

func dir(path string, children ...fs.ScanResult) fs.ScanResult {
	return fs.ScanResult{ID: path, Value: filepath.Base(path), IsDir: true, Children: children}
}

// musicTree is:
//
//	/music
//	  A/ one.mp3 two.mp3
//	  B/ x/ deep.mp3
//	  rock/            (loaded, children not yet scanned)
//	  c.mp3
func musicTree() *tree.Tree {
	return tree.New(tree.FromScan(dir("/music",
		dir("/music/A", leaf("/music/A/one.mp3"), leaf("/music/A/two.mp3")),
		dir("/music/B", dir("/music/B/x", leaf("/music/B/x/deep.mp3"))),
		dir("/music/rock"),
		leaf("/music/c.mp3"),
	)))
}

// sameShape compares two node trees by path, name and child order
func sameShape(a, b *tree.Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Path != b.Path || a.Name != b.Name || a.IsDir != b.IsDir || len(a.Children) != len(b.Children) {
		return false
	}
	for i := range a.Children {
		if !sameShape(a.Children[i], b.Children[i]) {
			return false
		}
	}
	return true
}

func mkfiles(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, f := range files {
		p := filepath.Join(root, f)
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", f, err)
		}
		if filepath.Ext(f) == "" {
			if err := os.MkdirAll(p, 0o755); err != nil {
				t.Fatalf("mkdir %s: %v", f, err)
			}
			continue
		}
		if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
			t.Fatalf("write %s: %v", f, err)
		}
	}
}

func newTreeFromScan(r fs.ScanResult) *tree.Tree {
	return tree.New(tree.FromScan(r))
}
