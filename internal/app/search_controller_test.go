package app

import (
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/justyntemme/crate/internal/config"
	"github.com/justyntemme/crate/internal/library"
)

func TestSearchController(t *testing.T) {
	root := t.TempDir()
	for _, f := range []string{"Kinks/Sunny Afternoon.mp3", "Beatles/Sun King.flac", "Beatles/Help.mp3"} {
		p := filepath.Join(root, f)
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	keys := config.DefaultKeyMap()
	s := NewSearchController(50)
	s.Open(root)

	s.input.SetValue("sun")
	msg := s.run()()
	res, ok := msg.(searchResults)
	if !ok || len(res.paths) != 2 {
		t.Fatalf("unexpected results %#v", msg)
	}

	// A newer search makes older results stale
	s.input.SetValue("sun king")
	next := s.run()
	s.Update(res, keys)
	if len(s.results) != 0 {
		t.Fatalf("stale results applied: %v", s.results)
	}
	s.Update(next(), keys)
	if len(s.results) != 1 {
		t.Fatalf("results = %v", s.results)
	}

	cmd := s.Update(tea.KeyMsg{Type: tea.KeyEnter}, keys)
	if s.Active() || cmd == nil {
		t.Fatal("enter should close the search and refocus")
	}
	want := library.ReloadPath{Path: filepath.Join(root, "Beatles", "Sun King.flac"), ChangeFocus: true}
	if got := cmd(); got != want {
		t.Errorf("got %#v, want %#v", got, want)
	}
}

func TestSearchController_Escape(t *testing.T) {
	s := NewSearchController(10)
	s.Open(t.TempDir())
	gen := s.gen
	s.Update(tea.KeyMsg{Type: tea.KeyEsc}, config.DefaultKeyMap())
	if s.Active() {
		t.Error("esc should close the search")
	}
	s.Update(searchResults{gen: gen, paths: []string{"/x"}}, config.DefaultKeyMap())
	if len(s.results) != 0 {
		t.Error("results arriving after close must be dropped")
	}
}
