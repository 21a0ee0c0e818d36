package widget

import (
	"strings"
	"testing"

	"github.com/justyntemme/crate/internal/fs"
	"github.com/justyntemme/crate/internal/tree"
)

func sampleTree() *tree.Tree {
	return tree.New(tree.FromScan(fs.ScanResult{
		ID: "/music", Value: "music", IsDir: true,
		Children: []fs.ScanResult{
			{ID: "/music/A", Value: "A", IsDir: true, Children: []fs.ScanResult{
				{ID: "/music/A/one.mp3", Value: "one.mp3"},
				{ID: "/music/A/two.mp3", Value: "two.mp3"},
			}},
			{ID: "/music/B", Value: "B", IsDir: true, Children: []fs.ScanResult{
				{ID: "/music/B/x.mp3", Value: "x.mp3"},
			}},
		},
	}))
}

func selection(t *testing.T, v *TreeView) string {
	t.Helper()
	p, ok := v.CurrentSelection()
	if !ok {
		t.Fatal("expected a selection")
	}
	return p
}

func TestTreeView_RootOpenedOnSetTree(t *testing.T) {
	v := NewTreeView(DefaultStyles())
	v.SetTree(sampleTree().Root())

	if got := v.Rows(); got != 3 {
		t.Errorf("expected root plus two children visible, got %d rows", got)
	}
	if got := selection(t, v); got != "/music" {
		t.Errorf("expected root selected, got %q", got)
	}
}

func TestTreeView_Commands(t *testing.T) {
	v := NewTreeView(DefaultStyles())
	v.SetTree(sampleTree().Root())

	steps := []struct {
		cmd      Command
		expected string
	}{
		{MoveDown, "/music/A"},
		{Open, "/music/A"},
		{MoveDown, "/music/A/one.mp3"},
		{MoveDown, "/music/A/two.mp3"},
		{MoveDown, "/music/B"},
		{MoveUp, "/music/A/two.mp3"},
		{MoveUp, "/music/A/one.mp3"},
		// First child moves up onto its parent
		{MoveUp, "/music/A"},
		{GotoEnd, "/music/B"},
		{GotoBegin, "/music"},
		{MoveUp, "/music"},
	}

	for i, s := range steps {
		v.Perform(s.cmd)
		if got := selection(t, v); got != s.expected {
			t.Fatalf("step %d (%s): expected %q, got %q", i, s.cmd, s.expected, got)
		}
	}
}

func TestTreeView_SelectParentAndClose(t *testing.T) {
	v := NewTreeView(DefaultStyles())
	v.SetTree(sampleTree().Root())
	v.Perform(MoveDown)
	v.Perform(Open)
	v.Perform(MoveDown)

	v.Perform(SelectParent)
	if got := selection(t, v); got != "/music/A" {
		t.Fatalf("expected parent selected, got %q", got)
	}
	if !v.IsOpen("/music/A") {
		t.Fatal("expected /music/A open")
	}
	v.Perform(Close)
	if v.IsOpen("/music/A") || v.Rows() != 3 {
		t.Errorf("expected /music/A closed with 3 rows, got open=%v rows=%d", v.IsOpen("/music/A"), v.Rows())
	}
}

func TestTreeView_OpenStateSurvivesSplice(t *testing.T) {
	tr := sampleTree()
	v := NewTreeView(DefaultStyles())
	v.SetTree(tr.Root())
	v.Perform(MoveDown)
	v.Perform(Open) // open A

	fresh := []*tree.Node{{Path: "/music/B/y.mp3", Name: "y.mp3"}}
	if err := tr.SpliceSubtree("/music/B", fresh); err != nil {
		t.Fatal(err)
	}
	v.SetTree(tr.Root())

	if !v.IsOpen("/music/A") {
		t.Error("open state of an untouched node was lost")
	}
	if got := selection(t, v); got != "/music/A" {
		t.Errorf("selection moved to %q", got)
	}
}

func TestTreeView_NewRootDropsState(t *testing.T) {
	v := NewTreeView(DefaultStyles())
	v.SetTree(sampleTree().Root())
	v.Perform(MoveDown)
	v.Perform(Open)

	v.SetTree(sampleTree().Root())
	if v.IsOpen("/music/A") {
		t.Error("a new root should start with only the root open")
	}
	if got := selection(t, v); got != "/music/A" {
		t.Errorf("selection should follow the path, got %q", got)
	}
}

func TestTreeView_SelectionFallsBackToAncestor(t *testing.T) {
	tr := sampleTree()
	v := NewTreeView(DefaultStyles())
	v.SetTree(tr.Root())
	v.Perform(MoveDown)
	v.Perform(Open)
	v.Perform(MoveDown) // one.mp3

	if err := tr.SpliceSubtree("/music/A", nil); err != nil {
		t.Fatal(err)
	}
	v.SetTree(tr.Root())
	if got := selection(t, v); got != "/music/A" {
		t.Errorf("expected selection on the surviving parent, got %q", got)
	}
}

func TestTreeView_Placeholder(t *testing.T) {
	v := NewTreeView(DefaultStyles())
	v.SetTree(tree.Placeholder("Loading...").Root())
	if _, ok := v.CurrentSelection(); ok {
		t.Error("placeholder should not report a selection")
	}
	if !strings.Contains(v.View(), "Loading...") {
		t.Errorf("placeholder not rendered: %q", v.View())
	}
}

func TestTreeView_View(t *testing.T) {
	tr := sampleTree()
	tr.Root().Children[1].Loading = true
	v := NewTreeView(DefaultStyles())
	v.SetSize(80, 10)
	v.SetTree(tr.Root())

	out := v.View()
	for _, want := range []string{"music", "A", "B", "loading"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q:\n%s", want, out)
		}
	}
	if lines := strings.Count(out, "\n") + 1; lines != 3 {
		t.Errorf("expected 3 lines, got %d", lines)
	}
}
