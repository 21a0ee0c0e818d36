package fs

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// makeLibrary creates:
//
//	root/
//	  .cache/x.mp3
//	  Rock/
//	    90s/song.mp3
//	    track 10.mp3
//	    track 2.mp3
//	  jazz/
//	  a.mp3
func makeLibrary(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	for _, d := range []string{".cache", "Rock/90s", "jazz"} {
		if err := os.MkdirAll(filepath.Join(root, d), 0755); err != nil {
			t.Fatalf("failed to create dir %s: %v", d, err)
		}
	}
	for _, f := range []string{".cache/x.mp3", "Rock/90s/song.mp3", "Rock/track 10.mp3", "Rock/track 2.mp3", "a.mp3"} {
		if err := os.WriteFile(filepath.Join(root, f), []byte("x"), 0644); err != nil {
			t.Fatalf("failed to create file %s: %v", f, err)
		}
	}
	return root
}

func childNames(r ScanResult) []string {
	var names []string
	for _, c := range r.Children {
		names = append(names, c.Value)
	}
	return names
}

func equalNames(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestScan_DepthAndHidden(t *testing.T) {
	root := makeLibrary(t)
	s := NewScanner(nil)

	r := s.Scan(root, 1)
	if !r.IsDir || r.ID != root {
		t.Fatalf("unexpected root result: %+v", r)
	}
	if got, want := childNames(r), []string{"a.mp3", "jazz", "Rock"}; !equalNames(got, want) {
		t.Errorf("depth 1 children: expected %v, got %v", want, got)
	}
	for _, c := range r.Children {
		if len(c.Children) != 0 {
			t.Errorf("depth 1 scan should not descend into %q", c.Value)
		}
	}

	r = s.Scan(root, 2)
	rock := r.Children[2]
	if got, want := childNames(rock), []string{"90s", "track 2.mp3", "track 10.mp3"}; !equalNames(got, want) {
		t.Errorf("Rock children: expected %v, got %v", want, got)
	}
	if len(rock.Children[0].Children) != 0 {
		t.Error("90s should be a leaf at depth 2")
	}
	if !rock.Children[0].IsDir {
		t.Error("90s should still be marked as a directory")
	}

	r = s.Scan(root, Unlimited)
	if got := r.Children[2].Children[0].Children; len(got) != 1 || got[0].Value != "song.mp3" {
		t.Errorf("unlimited scan should reach song.mp3, got %+v", got)
	}
}

func TestScan_ZeroDepthIsLeaf(t *testing.T) {
	root := makeLibrary(t)
	r := NewScanner(nil).Scan(root, 0)
	if !r.IsDir {
		t.Error("root should be a directory")
	}
	if len(r.Children) != 0 {
		t.Errorf("depth 0 should yield no children, got %d", len(r.Children))
	}
}

func TestScan_MissingAndFile(t *testing.T) {
	root := makeLibrary(t)
	s := NewScanner(nil)

	missing := s.Scan(filepath.Join(root, "gone"), 2)
	if !missing.Missing || len(missing.Children) != 0 {
		t.Errorf("expected missing leaf, got %+v", missing)
	}

	file := s.Scan(filepath.Join(root, "a.mp3"), 2)
	if file.IsDir || file.Missing || file.Value != "a.mp3" {
		t.Errorf("expected file leaf, got %+v", file)
	}
}

func TestScan_TrackerReleased(t *testing.T) {
	root := makeLibrary(t)
	s := NewScanner(nil)
	s.Scan(root, 2)
	if s.Tracker.Len() != 0 {
		t.Errorf("tracker should be empty after a scan, got %v", s.Tracker.Visible())
	}
}

func TestScanAsync(t *testing.T) {
	root := makeLibrary(t)
	s := NewScanner(nil)

	done := make(chan ScanResult, 1)
	s.ScanAsync(root, 1, func(r ScanResult) { done <- r })

	select {
	case r := <-done:
		if r.ID != root {
			t.Errorf("expected result for %q, got %q", root, r.ID)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for async scan")
	}
}

func TestScanAndNotify(t *testing.T) {
	root := makeLibrary(t)
	s := NewScanner(nil)
	sink := make(chan Ready, 1)

	rock := filepath.Join(root, "Rock")
	s.ScanAndNotify(Request{Path: rock, Depth: 1, Focus: filepath.Join(rock, "90s"), Sub: true}, sink)

	select {
	case ready := <-sink:
		if ready.Result.ID != rock || !ready.Sub || ready.Focus != filepath.Join(rock, "90s") {
			t.Errorf("unexpected ready message: %+v", ready)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for scan notification")
	}
}
