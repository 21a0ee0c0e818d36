package app

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/justyntemme/crate/internal/config"
	"github.com/justyntemme/crate/internal/library"
)

func newTestOrchestrator(t *testing.T, roots ...string) *Orchestrator {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Library.MusicDirs = roots
	cfg.Library.IndexOnStart = false
	cfg.Behavior.UseTrash = false
	data, err := json.Marshal(cfg)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	m := config.NewManager()
	if err := m.LoadFrom(path); err != nil {
		t.Fatal(err)
	}
	o := NewOrchestrator(Options{Config: m})
	o.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return o
}

func update(o *Orchestrator, msg tea.Msg) tea.Cmd {
	_, cmd := o.Update(msg)
	return cmd
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestOrchestrator_StartRoot(t *testing.T) {
	a, b := t.TempDir(), t.TempDir()
	o := newTestOrchestrator(t, a, b)
	if o.root != a {
		t.Errorf("start root = %q, want first configured %q", o.root, a)
	}
	if got := o.startRoot(b, true); got != b {
		t.Errorf("explicit root ignored: %q", got)
	}
}

func TestOrchestrator_DeleteConfirmation(t *testing.T) {
	o := newTestOrchestrator(t, t.TempDir())
	req := library.DeleteConfirm{Path: "/m/A/one.mp3", Focus: "/m/A/two.mp3"}

	update(o, req)
	if !o.popup.active() {
		t.Fatal("expected a confirmation popup")
	}
	if !strings.Contains(o.View(), "one.mp3") {
		t.Error("popup should name the file")
	}
	update(o, keyRunes("n"))
	if o.popup.active() {
		t.Fatal("cancel should close the popup")
	}

	update(o, req)
	cmd := update(o, tea.KeyMsg{Type: tea.KeyEnter})
	if o.popup.active() || cmd == nil {
		t.Fatal("confirm should close the popup and return a command")
	}
	got, ok := cmd().(library.DeleteConfirmed)
	if !ok || got.Path != req.Path || got.Focus != req.Focus {
		t.Errorf("expected DeleteConfirmed for %q, got %#v", req.Path, got)
	}
}

func TestOrchestrator_ErrorPopup(t *testing.T) {
	o := newTestOrchestrator(t, t.TempDir())
	update(o, library.PasteFailed{Reason: "destination already exists"})
	if o.popup.kind != popupError {
		t.Fatal("expected an error popup")
	}
	if !strings.Contains(o.View(), "destination already exists") {
		t.Error("reason not shown")
	}
	update(o, keyRunes("x"))
	if o.popup.active() {
		t.Error("any key should dismiss the error")
	}
}

func TestOrchestrator_Roots(t *testing.T) {
	a, b, c := t.TempDir(), t.TempDir(), t.TempDir()
	o := newTestOrchestrator(t, a, b)

	update(o, library.SwitchRoot{From: a})
	if o.pane.Root() != b {
		t.Errorf("switch from %q: root = %q, want %q", a, o.pane.Root(), b)
	}
	update(o, library.SwitchRoot{From: b})
	if o.pane.Root() != a {
		t.Errorf("switch should wrap around, root = %q", o.pane.Root())
	}

	update(o, library.AddRoot{Path: c})
	if roots := o.cfg.Roots(); len(roots) != 3 || roots[2] != c {
		t.Errorf("roots after add = %v", roots)
	}
	update(o, library.AddRoot{Path: c})
	if !strings.Contains(o.message, "already") {
		t.Errorf("adding twice should report it, message %q", o.message)
	}

	update(o, library.RemoveRoot{Path: a})
	if roots := o.cfg.Roots(); len(roots) != 2 || roots[0] != b {
		t.Errorf("roots after remove = %v", roots)
	}
	if o.pane.Root() != b {
		t.Errorf("removing the current root should switch to %q, got %q", b, o.pane.Root())
	}
}

func TestOrchestrator_Playlist(t *testing.T) {
	dir := t.TempDir()
	a, b := filepath.Join(dir, "a.mp3"), filepath.Join(dir, "b.mp3")
	for _, p := range []string{a, b} {
		if err := os.WriteFile(p, nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	o := newTestOrchestrator(t, dir)

	update(o, library.PlaylistAddAll{Paths: []string{a, b}})
	update(o, library.PlaylistAdd{Path: a})
	if o.playlist.Len() != 3 {
		t.Fatalf("playlist len %d, want 3", o.playlist.Len())
	}

	if err := os.Remove(a); err != nil {
		t.Fatal(err)
	}
	update(o, library.PlaylistRunDelete{})
	if o.playlist.Len() != 1 || o.playlist.Tracks()[0] != b {
		t.Errorf("playlist after delete = %v", o.playlist.Tracks())
	}

	// Keys go to the playlist once it has focus
	update(o, tea.KeyMsg{Type: tea.KeyTab})
	update(o, keyRunes("d"))
	if o.playlist.Len() != 0 {
		t.Errorf("delete on the playlist should drop the entry, len %d", o.playlist.Len())
	}
	if _, err := os.Stat(b); err != nil {
		t.Error("removing a playlist entry must not touch the file")
	}
}

func TestOrchestrator_Quit(t *testing.T) {
	o := newTestOrchestrator(t, t.TempDir())
	cmd := update(o, keyRunes("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestConfirmDeletePopup_Wording(t *testing.T) {
	testCases := []struct {
		name string
		req  library.DeleteConfirm
		want string
	}{
		{"trash", library.DeleteConfirm{Path: "/m/one.mp3", Trash: true}, "to the Trash"},
		{"permanent", library.DeleteConfirm{Path: "/m/one.mp3"}, "cannot be undone"},
		{"directory", library.DeleteConfirm{Path: "/m/A", IsDir: true}, "directory"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p := confirmDeletePopup(tc.req)
			if !strings.Contains(p.body, tc.want) {
				t.Errorf("body %q does not mention %q", p.body, tc.want)
			}
		})
	}
}
