package library

import (
	"errors"
	"fmt"
	"testing"

	"github.com/justyntemme/crate/internal/fs"
	"github.com/justyntemme/crate/internal/tree"
	"github.com/justyntemme/crate/internal/widget"
)

// countingCursor records how many commands reach the widget
type countingCursor struct {
	*widget.TreeView
	steps int
}

func (c *countingCursor) Perform(cmd widget.Command) {
	c.steps++
	c.TreeView.Perform(cmd)
}

// stuckCursor ignores every command
type stuckCursor struct {
	path string
	ok   bool
}

func (c *stuckCursor) CurrentSelection() (string, bool) { return c.path, c.ok }
func (c *stuckCursor) Perform(widget.Command)            {}

func newCursor(t *tree.Tree) *countingCursor {
	v := widget.NewTreeView(widget.DefaultStyles())
	v.SetSize(80, 20)
	v.SetTree(t.Root())
	return &countingCursor{TreeView: v}
}

// wideTree builds a tree with fanout children per directory, depth levels
// deep, and returns every path in it
func wideTree(fanout, depth int) (*tree.Tree, []string) {
	var paths []string
	var build func(path string, level int) fs.ScanResult
	build = func(path string, level int) fs.ScanResult {
		if level == depth {
			paths = append(paths, path+".mp3")
			return leaf(path + ".mp3")
		}
		paths = append(paths, path)
		r := dir(path)
		for i := 0; i < fanout; i++ {
			r.Children = append(r.Children, build(fmt.Sprintf("%s/d%d", path, i), level+1))
		}
		return r
	}
	return tree.New(tree.FromScan(build("/music", 0))), paths
}

func TestMoveTo_ReachesNestedTarget(t *testing.T) {
	tr := musicTree()
	c := newCursor(tr)
	nav := Navigator{}

	testCases := []string{
		"/music/B/x/deep.mp3",
		"/music/A/one.mp3",
		"/music/c.mp3",
		"/music/A/two.mp3",
		"/music",
		"/music/B/x",
	}
	for _, target := range testCases {
		if err := nav.MoveTo(c, tr, target); err != nil {
			t.Fatalf("MoveTo(%q): %v", target, err)
		}
		if got, _ := c.CurrentSelection(); got != target {
			t.Errorf("MoveTo(%q) selected %q", target, got)
		}
	}
	if !c.IsOpen("/music/B/x") {
		t.Error("target directory should be opened")
	}
}

func TestMoveTo_BoundedSteps(t *testing.T) {
	tr, paths := wideTree(4, 3)
	c := newCursor(tr)
	// The widget only moves one visible row at a time, so a trip between
	// two nodes costs at least the rows in between. With every node opened
	// the rows are the nodes, which makes the bound linear in node count
	// rather than in tree depth.
	bound := 2*len(paths) + 8
	nav := Navigator{MaxSteps: bound}

	// Jump back and forth across the tree
	for i := range paths {
		target := paths[(i*7)%len(paths)]
		c.steps = 0
		if err := nav.MoveTo(c, tr, target); err != nil {
			t.Fatalf("MoveTo(%q): %v", target, err)
		}
		if got, _ := c.CurrentSelection(); got != target {
			t.Fatalf("MoveTo(%q) selected %q", target, got)
		}
		if c.steps > bound {
			t.Errorf("MoveTo(%q) took %d steps, bound %d", target, c.steps, bound)
		}
	}
}

func TestMoveTo_AfterStructuralChange(t *testing.T) {
	tr := musicTree()
	c := newCursor(tr)
	nav := Navigator{}
	if err := nav.MoveTo(c, tr, "/music/c.mp3"); err != nil {
		t.Fatal(err)
	}

	if _, err := Apply(tr, dir("/music/rock/90s", leaf("/music/rock/90s/song.mp3"))); err != nil {
		t.Fatal(err)
	}
	c.SetTree(tr.Root())
	if err := nav.MoveTo(c, tr, "/music/rock/90s/song.mp3"); err != nil {
		t.Fatal(err)
	}
	if got, _ := c.CurrentSelection(); got != "/music/rock/90s/song.mp3" {
		t.Errorf("selected %q", got)
	}
}

func TestMoveTo_NotInTree(t *testing.T) {
	tr := musicTree()
	c := newCursor(tr)
	err := Navigator{}.MoveTo(c, tr, "/music/nope.mp3")
	if !errors.Is(err, ErrNotInTree) {
		t.Errorf("expected ErrNotInTree, got %v", err)
	}
	if c.steps != 0 {
		t.Errorf("no commands expected, got %d", c.steps)
	}
}

func TestMoveTo_NoConvergence(t *testing.T) {
	tr := musicTree()

	testCases := []struct {
		name   string
		cursor *stuckCursor
	}{
		{"ignores commands", &stuckCursor{path: "/music/c.mp3", ok: true}},
		{"no selection", &stuckCursor{}},
		{"selection outside tree", &stuckCursor{path: "/elsewhere", ok: true}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := Navigator{MaxSteps: 50}.MoveTo(tc.cursor, tr, "/music/A/one.mp3")
			if !errors.Is(err, ErrNoConvergence) {
				t.Errorf("expected ErrNoConvergence, got %v", err)
			}
		})
	}
}

func TestCompareRoutes(t *testing.T) {
	testCases := []struct {
		a, b tree.Route
		want int
	}{
		{tree.Route{}, tree.Route{0}, -1},
		{tree.Route{0, 3}, tree.Route{1}, -1},
		{tree.Route{1}, tree.Route{0, 5}, 1},
		{tree.Route{2, 1}, tree.Route{2, 1}, 0},
		{tree.Route{2, 1, 0}, tree.Route{2, 1}, 1},
	}
	for _, tc := range testCases {
		if got := compareRoutes(tc.a, tc.b); got != tc.want {
			t.Errorf("compareRoutes(%v, %v) = %d, want %d", tc.a, tc.b, got, tc.want)
		}
	}
}
