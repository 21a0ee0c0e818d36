package library

import (
	"errors"
	"log"
	"path/filepath"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/justyntemme/crate/internal/config"
	"github.com/justyntemme/crate/internal/debug"
	"github.com/justyntemme/crate/internal/fs"
	"github.com/justyntemme/crate/internal/tree"
	"github.com/justyntemme/crate/internal/widget"
)

const loadingText = "Loading..."

// Indexer refreshes the library index below a path
type Indexer interface {
	IndexPath(root, path string) (int, error)
}

// Options configures a Pane
type Options struct {
	StartDepth    fs.Depth
	AudioExts     []string
	UseTrash      bool
	ConfirmDelete bool
	MaxNavSteps   int
	Styles        widget.Styles
	Keys          config.KeyMap
	Index         Indexer         // optional
	Roots         func() []string // configured music roots; only paths inside them are indexed
	Tracker       *fs.Tracker
}

// Pane is the music library browser. All of its state is touched only
// from Update; scans run in the background and come back through results.
type Pane struct {
	tree    *tree.Tree
	view    *widget.TreeView
	scanner *fs.Scanner
	results chan fs.Ready
	nav     Navigator
	coord   *Coordinator
	keys    config.KeyMap
	index   Indexer
	roots   func() []string

	root          string // root being shown or loaded
	loaded        string // root of the last full scan applied
	startDepth    fs.Depth
	exts          []string
	confirmDelete bool
}

func NewPane(opts Options) *Pane {
	if opts.StartDepth == 0 {
		opts.StartDepth = fs.StartDepth
	}
	p := &Pane{
		tree:          tree.Placeholder(loadingText),
		view:          widget.NewTreeView(opts.Styles),
		scanner:       fs.NewScanner(opts.Tracker),
		results:       make(chan fs.Ready, 16),
		nav:           Navigator{MaxSteps: opts.MaxNavSteps},
		coord:         &Coordinator{UseTrash: opts.UseTrash},
		keys:          opts.Keys,
		index:         opts.Index,
		roots:         opts.Roots,
		startDepth:    opts.StartDepth,
		exts:          opts.AudioExts,
		confirmDelete: opts.ConfirmDelete,
	}
	p.view.SetTree(p.tree.Root())
	return p
}

// Init starts loading root and listening for scan results
func (p *Pane) Init(root string) tea.Cmd {
	return tea.Batch(p.waitForScan(), p.handleReload(Reload{Root: root}))
}

// Root returns the library root being browsed
func (p *Pane) Root() string {
	return p.root
}

// Tracker exposes the in-flight scan counts
func (p *Pane) Tracker() *fs.Tracker {
	return p.scanner.Tracker
}

// Tree returns the current tree
func (p *Pane) Tree() *tree.Tree {
	return p.tree
}

// Selected returns the node under the cursor
func (p *Pane) Selected() (*tree.Node, bool) {
	path, ok := p.view.CurrentSelection()
	if !ok {
		return nil, false
	}
	return p.tree.Find(path)
}

// Yanked returns the pending move source
func (p *Pane) Yanked() string {
	return p.coord.Yanked()
}

// SetSize sets the area the tree is drawn in
func (p *Pane) SetSize(width, height int) {
	p.view.SetSize(width, height)
}

func (p *Pane) View() string {
	return p.view.View()
}

// Update handles keys, inbound library messages and finished scans
func (p *Pane) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return p.handleKey(msg)
	case Reload:
		return p.handleReload(msg)
	case ReloadPath:
		return p.handleReloadPath(msg)
	case TreeReady:
		return p.handleReady(msg)
	case TreeReadySub:
		return p.handleReadySub(msg)
	case DeleteConfirmed:
		return p.handleDelete(msg.Path, msg.Focus)
	case scanDone:
		var cmd tea.Cmd
		if msg.ready.Sub {
			cmd = p.handleReadySub(TreeReadySub{Result: msg.ready.Result, Focus: msg.ready.Focus})
		} else {
			cmd = p.handleReady(TreeReady{Result: msg.ready.Result, Focus: msg.ready.Focus})
		}
		return tea.Batch(cmd, p.waitForScan())
	}
	return nil
}

func (p *Pane) waitForScan() tea.Cmd {
	return func() tea.Msg {
		return scanDone{ready: <-p.results}
	}
}

func emit(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

var redraw = emit(Redraw{})

func (p *Pane) handleReload(msg Reload) tea.Cmd {
	root := msg.Root
	if root == "" {
		root = p.root
	}
	if root == "" {
		return nil
	}
	root = filepath.Clean(root)

	if root != p.tree.Root().Path {
		debug.Log(debug.APP, "switching root %q -> %q", p.root, root)
		p.tree.ReplaceRoot(&tree.Node{Name: loadingText})
		p.view.SetTree(p.tree.Root())
	}
	p.root = root
	p.scanner.ScanAndNotify(fs.Request{Path: root, Depth: p.startDepth, Focus: msg.Focus}, p.results)

	return tea.Batch(redraw, p.indexCmd(root))
}

func (p *Pane) handleReloadPath(msg ReloadPath) tea.Cmd {
	req, err := PlanReloadPath(p.tree, msg)
	if err != nil {
		log.Printf("library: reload %s: %v", msg.Path, err)
		return nil
	}
	p.scanner.ScanAndNotify(req, p.results)
	return tea.Batch(redraw, p.indexCmd(req.Path))
}

func (p *Pane) handleReady(msg TreeReady) tea.Cmd {
	if msg.Result.ID != p.root {
		debug.Log(debug.APP, "dropping stale root scan %q (root is %q)", msg.Result.ID, p.root)
		return nil
	}

	prev, hadPrev := p.view.CurrentSelection()
	changed := p.loaded != msg.Result.ID

	p.tree.ReplaceRoot(tree.FromScan(msg.Result))
	p.loaded = msg.Result.ID
	p.view.SetTree(p.tree.Root())

	switch {
	case msg.Focus != "":
		p.focus(msg.Focus)
	case hadPrev && fs.Within(p.root, prev):
		p.focus(prev)
	default:
		p.view.Perform(widget.GotoBegin)
		p.view.Perform(widget.Open)
	}

	if changed {
		return tea.Batch(redraw, emit(RootChanged{Root: p.root}))
	}
	return redraw
}

func (p *Pane) handleReadySub(msg TreeReadySub) tea.Cmd {
	outcome, err := Apply(p.tree, msg.Result)
	if err != nil {
		log.Printf("library: reconcile miss: %v", err)
		return nil
	}
	debug.Log(debug.TREE, "subtree %q applied: %s", msg.Result.ID, outcome)

	p.view.SetTree(p.tree.Root())
	if msg.Focus != "" {
		p.focus(msg.Focus)
	}
	return redraw
}

func (p *Pane) focus(path string) {
	err := p.nav.MoveTo(p.view, p.tree, path)
	if err != nil && !errors.Is(err, ErrNotInTree) {
		debug.Log(debug.NAV, "focus %q: %v", path, err)
	}
}

func (p *Pane) handleDelete(path, focus string) tea.Cmd {
	reload, err := p.coord.Delete(path, focus)
	if err != nil {
		log.Printf("library: %v", err)
		return emit(DeleteFailed{Reason: err.Error()})
	}
	return tea.Batch(p.handleReloadPath(reload), emit(PlaylistRunDelete{}))
}

func (p *Pane) handlePaste(selected string) tea.Cmd {
	res, err := p.coord.Paste(selected)
	if errors.Is(err, ErrNothingYanked) {
		return nil
	}
	if err != nil {
		log.Printf("library: %v", err)
		return emit(PasteFailed{Reason: err.Error()})
	}

	cmds := make([]tea.Cmd, 0, len(res.Reloads)+1)
	for _, r := range res.Reloads {
		cmds = append(cmds, p.handleReloadPath(r))
	}
	cmds = append(cmds, emit(PlaylistRunDelete{}))
	return tea.Batch(cmds...)
}

// indexCmd refreshes the index below path when it lies inside a
// configured music root. Rows are recorded against that root.
func (p *Pane) indexCmd(path string) tea.Cmd {
	if p.index == nil || p.roots == nil {
		return nil
	}
	root, ok := ContainingRoot(p.roots(), path)
	if !ok {
		debug.Log(debug.STORE, "not indexing %q: outside the music directories", path)
		return nil
	}
	idx := p.index
	return func() tea.Msg {
		n, err := idx.IndexPath(root, path)
		if err != nil {
			log.Printf("library: index %s: %v", path, err)
		}
		return IndexDone{Root: root, Path: path, Count: n, Err: err}
	}
}

func (p *Pane) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, p.keys.Up):
		p.view.Perform(widget.MoveUp)
		return nil
	case key.Matches(msg, p.keys.Down):
		p.view.Perform(widget.MoveDown)
		return nil
	case key.Matches(msg, p.keys.PageUp):
		p.view.Perform(widget.PageUp)
		return nil
	case key.Matches(msg, p.keys.PageDown):
		p.view.Perform(widget.PageDown)
		return nil
	case key.Matches(msg, p.keys.Top):
		p.view.Perform(widget.GotoBegin)
		return nil
	case key.Matches(msg, p.keys.Bottom):
		p.view.Perform(widget.GotoEnd)
		return nil
	case key.Matches(msg, p.keys.StepOut):
		if parent, ok := StepOut(p.root); ok {
			return p.handleReload(Reload{Root: parent, Focus: p.root})
		}
		return nil
	case key.Matches(msg, p.keys.CycleRoot):
		return emit(SwitchRoot{From: p.root})
	case key.Matches(msg, p.keys.RemoveRoot):
		return emit(RemoveRoot{Path: p.root})
	case key.Matches(msg, p.keys.Search):
		return emit(SearchRequest{Root: p.root})
	case key.Matches(msg, p.keys.Reload):
		return p.handleReload(Reload{})
	}

	n, ok := p.Selected()
	if !ok {
		return nil
	}

	switch {
	case key.Matches(msg, p.keys.Left):
		if n.IsDir && p.view.IsOpen(n.Path) {
			p.view.Perform(widget.Close)
		} else {
			p.view.Perform(widget.SelectParent)
		}
		return redraw
	case key.Matches(msg, p.keys.Right):
		switch {
		case !n.IsDir:
			return emit(PlaylistAdd{Path: n.Path})
		case len(n.Children) > 0:
			p.view.Perform(widget.Open)
			return redraw
		case !n.Loading:
			return p.handleReloadPath(ReloadPath{Path: n.Path, ChangeFocus: true})
		}
		return nil
	case key.Matches(msg, p.keys.StepInto):
		if n.IsDir {
			return p.handleReload(Reload{Root: n.Path})
		}
		return emit(PlaylistAdd{Path: n.Path})
	case key.Matches(msg, p.keys.LoadTrack):
		if !n.IsDir {
			return emit(PlaylistAdd{Path: n.Path})
		}
		return nil
	case key.Matches(msg, p.keys.LoadDir):
		dir := n.Path
		if !n.IsDir {
			dir = filepath.Dir(n.Path)
		}
		files, err := fs.AudioFiles(dir, p.exts)
		if err != nil {
			log.Printf("library: list %s: %v", dir, err)
			return nil
		}
		paths := make([]string, len(files))
		for i, f := range files {
			paths[i] = f.Path
		}
		return emit(PlaylistAddAll{Paths: paths})
	case key.Matches(msg, p.keys.Delete):
		confirm, err := p.coord.PrepareDelete(p.tree, n.Path)
		if err != nil {
			return emit(DeleteFailed{Reason: err.Error()})
		}
		if p.confirmDelete {
			return emit(confirm)
		}
		return p.handleDelete(confirm.Path, confirm.Focus)
	case key.Matches(msg, p.keys.Yank):
		p.coord.Yank(n.Path)
		return redraw
	case key.Matches(msg, p.keys.Paste):
		return p.handlePaste(n.Path)
	case key.Matches(msg, p.keys.AddRoot):
		dir := n.Path
		if !n.IsDir {
			dir = filepath.Dir(n.Path)
		}
		return emit(AddRoot{Path: dir})
	case key.Matches(msg, p.keys.CopyPath):
		return emit(CopyPath{Path: n.Path})
	}
	return nil
}
