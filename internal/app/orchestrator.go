package app

import (
	"errors"
	"log"
	"os"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/justyntemme/crate/internal/config"
	"github.com/justyntemme/crate/internal/debug"
	"github.com/justyntemme/crate/internal/fs"
	"github.com/justyntemme/crate/internal/library"
	"github.com/justyntemme/crate/internal/store"
)

type focusArea int

const (
	focusLibrary focusArea = iota
	focusPlaylist
)

// storeResponse wraps a reply from the index worker
type storeResponse struct {
	resp store.Response
}

// Options configures an Orchestrator
type Options struct {
	Config *config.Manager
	Store  *store.DB // optional
	Root   string    // overrides the configured and remembered roots
	Depth  fs.Depth  // overrides the configured start depth
}

// Orchestrator is the top level bubbletea model. It owns the library pane,
// the playlist and the popups, and talks to the index worker.
type Orchestrator struct {
	cfg      *config.Manager
	store    *store.DB
	pane     *library.Pane
	playlist *Playlist
	search   *SearchController
	spinner  spinner.Model
	keys     config.KeyMap
	theme    theme
	popup    popup

	focus    focusArea
	root     string
	stats    libraryStats
	message  string
	indexAll bool
	width    int
	height   int
}

func NewOrchestrator(opts Options) *Orchestrator {
	cfg := opts.Config.Get()
	keys := config.NewKeyMap(cfg.Keys)
	th := newTheme(cfg.UI)

	depth := fs.Depth(cfg.Library.StartDepth)
	if opts.Depth != 0 {
		depth = opts.Depth
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = th.accent

	o := &Orchestrator{
		cfg:      opts.Config,
		store:    opts.Store,
		playlist: &Playlist{},
		search:   NewSearchController(cfg.Search.MaxResults),
		spinner:  sp,
		keys:     keys,
		theme:    th,
		indexAll: cfg.Library.IndexOnStart,
	}

	var indexer library.Indexer
	if opts.Store != nil {
		indexer = opts.Store
	}
	o.pane = library.NewPane(library.Options{
		StartDepth:    depth,
		AudioExts:     cfg.Library.AudioExtensions,
		UseTrash:      cfg.Behavior.UseTrash,
		ConfirmDelete: cfg.Behavior.ConfirmDelete,
		Styles:        th.tree,
		Keys:          keys,
		Index:         indexer,
		Roots:         opts.Config.Roots,
	})

	o.root = o.startRoot(opts.Root, cfg.Behavior.RestoreLastRoot)
	return o
}

// startRoot picks the first root to show: the explicit one, the one browsed
// last time, or the first configured music directory
func (o *Orchestrator) startRoot(explicit string, restore bool) string {
	if explicit != "" {
		return explicit
	}
	if restore && o.store != nil {
		if last, ok := o.store.Setting(store.SettingLastRoot); ok {
			if info, err := os.Stat(last); err == nil && info.IsDir() {
				return last
			}
		}
	}
	if roots := o.cfg.Roots(); len(roots) > 0 {
		return roots[0]
	}
	home, _ := os.UserHomeDir()
	return home
}

// Run starts the index worker and the terminal program and blocks until quit
func (o *Orchestrator) Run() error {
	if o.store != nil {
		go o.store.Start()
	}
	_, err := tea.NewProgram(o, tea.WithAltScreen()).Run()
	return err
}

func (o *Orchestrator) Init() tea.Cmd {
	debug.Log(debug.APP, "starting at %q", o.root)
	cmds := []tea.Cmd{o.pane.Init(o.root), o.spinner.Tick, o.waitForStore()}
	if o.indexAll {
		for _, r := range o.cfg.Roots() {
			cmds = append(cmds, o.storeRequest(store.Request{Op: store.IndexRoot, Root: r}))
		}
	}
	return tea.Batch(cmds...)
}

func (o *Orchestrator) waitForStore() tea.Cmd {
	if o.store == nil {
		return nil
	}
	ch := o.store.ResponseChan
	return func() tea.Msg {
		resp, ok := <-ch
		if !ok {
			return nil
		}
		return storeResponse{resp: resp}
	}
}

// storeRequest hands req to the index worker off the event loop
func (o *Orchestrator) storeRequest(req store.Request) tea.Cmd {
	if o.store == nil {
		return nil
	}
	ch := o.store.RequestChan
	return func() tea.Msg {
		ch <- req
		return nil
	}
}

func (o *Orchestrator) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		o.resize(msg.Width, msg.Height)
		return o, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		o.spinner, cmd = o.spinner.Update(msg)
		return o, cmd

	case tea.KeyMsg:
		return o, o.handleKey(msg)

	case searchResults:
		return o, o.search.Update(msg, o.keys)

	case storeResponse:
		o.handleStore(msg.resp)
		return o, o.waitForStore()

	case library.Redraw:
		return o, nil

	case library.PlaylistAdd:
		o.playlist.Add(msg.Path)
		o.message = "added " + msg.Path
		return o, nil

	case library.PlaylistAddAll:
		o.playlist.Add(msg.Paths...)
		o.message = pluralize(len(msg.Paths), "track") + " added"
		return o, nil

	case library.PlaylistRunDelete:
		if n := o.playlist.Prune(); n > 0 {
			o.message = pluralize(n, "missing track") + " removed from playlist"
		}
		return o, nil

	case library.DeleteConfirm:
		o.popup = confirmDeletePopup(msg)
		return o, nil

	case library.PasteFailed:
		o.popup = errorPopup("Paste failed", msg.Reason)
		return o, nil

	case library.DeleteFailed:
		o.popup = errorPopup("Delete failed", msg.Reason)
		return o, nil

	case library.RootChanged:
		o.root = msg.Root
		save := o.storeRequest(store.Request{Op: store.SaveSetting, Key: store.SettingLastRoot, Value: msg.Root})
		musicRoot, ok := library.ContainingRoot(o.cfg.Roots(), msg.Root)
		if !ok {
			o.stats = libraryStats{}
			return o, save
		}
		return o, tea.Batch(save, o.storeRequest(store.Request{Op: store.FetchStats, Root: musicRoot}))

	case library.IndexDone:
		if msg.Err == nil {
			return o, o.storeRequest(store.Request{Op: store.FetchStats, Root: msg.Root})
		}
		return o, nil

	case library.SwitchRoot:
		next := library.NextRoot(o.cfg.Roots(), msg.From)
		if next == "" {
			return o, nil
		}
		return o, o.pane.Update(library.Reload{Root: next})

	case library.AddRoot:
		if err := o.cfg.AddRoot(msg.Path); err != nil {
			o.message = err.Error()
			return o, nil
		}
		o.message = "added music directory " + msg.Path
		return o, o.storeRequest(store.Request{Op: store.IndexRoot, Root: msg.Path})

	case library.RemoveRoot:
		if err := o.cfg.RemoveRoot(msg.Path); err != nil {
			if errors.Is(err, config.ErrRootNotFound) {
				o.message = msg.Path + " is not a configured music directory"
			} else {
				o.message = err.Error()
			}
			return o, nil
		}
		o.message = "removed music directory " + msg.Path
		return o, o.pane.Update(library.Reload{Root: library.NextRoot(o.cfg.Roots(), msg.Path)})

	case library.SearchRequest:
		return o, o.search.Open(msg.Root)

	case library.CopyPath:
		if err := clipboard.WriteAll(msg.Path); err != nil {
			log.Printf("app: copy to clipboard: %v", err)
			o.message = "clipboard unavailable"
			return o, nil
		}
		o.message = "copied " + msg.Path
		return o, nil
	}

	// Scan results and library requests
	return o, o.pane.Update(msg)
}

func (o *Orchestrator) handleKey(msg tea.KeyMsg) tea.Cmd {
	if o.popup.active() {
		var cmd tea.Cmd
		o.popup, cmd = o.popup.update(msg, o.keys)
		return cmd
	}
	if o.search.Active() {
		return o.search.Update(msg, o.keys)
	}

	o.message = ""
	switch {
	case key.Matches(msg, o.keys.Quit):
		return tea.Quit
	case key.Matches(msg, o.keys.SwitchPane):
		if o.focus == focusLibrary {
			o.focus = focusPlaylist
		} else {
			o.focus = focusLibrary
		}
		return nil
	}

	if o.focus == focusPlaylist {
		switch {
		case key.Matches(msg, o.keys.Up):
			o.playlist.Move(-1)
		case key.Matches(msg, o.keys.Down):
			o.playlist.Move(1)
		case key.Matches(msg, o.keys.Top):
			o.playlist.Move(-o.playlist.Len())
		case key.Matches(msg, o.keys.Bottom):
			o.playlist.Move(o.playlist.Len())
		case key.Matches(msg, o.keys.Delete):
			o.playlist.RemoveCurrent()
		}
		return nil
	}
	return o.pane.Update(msg)
}

func (o *Orchestrator) handleStore(resp store.Response) {
	if resp.Err != nil {
		log.Printf("app: index: %v", resp.Err)
		return
	}
	if resp.Op == store.FetchStats {
		o.stats = libraryStats{root: resp.Root, tracks: resp.Count, lastIndexed: resp.LastIndexed}
	}
}

// layout returns the widths of the library and playlist panes
func (o *Orchestrator) layout() (int, int) {
	pct := o.cfg.Get().UI.PlaylistWidth
	if pct <= 0 || pct >= 90 {
		pct = 40
	}
	right := o.width * pct / 100
	return o.width - right, right
}

func (o *Orchestrator) resize(width, height int) {
	o.width, o.height = width, height
	left, _ := o.layout()
	// Borders take two rows and columns, status and help a row each
	inner := max(1, height-4)
	o.pane.SetSize(max(1, left-2), inner)
	o.playlist.SetHeight(inner)
}

func (o *Orchestrator) View() string {
	if o.width == 0 {
		return ""
	}
	bodyHeight := max(1, o.height-2)

	var body string
	switch {
	case o.popup.active():
		body = o.popup.view(o.theme, o.width, bodyHeight)
	case o.search.Active():
		w := min(o.width-2, 100)
		box := o.theme.popup.Width(w).Render(o.search.view(o.theme, w-6, bodyHeight-6))
		body = lipgloss.Place(o.width, bodyHeight, lipgloss.Center, lipgloss.Top, box)
	default:
		left, right := o.layout()
		libStyle, plStyle := o.theme.focused, o.theme.border
		if o.focus == focusPlaylist {
			libStyle, plStyle = o.theme.border, o.theme.focused
		}
		lib := libStyle.Width(max(1, left-2)).Height(bodyHeight - 2).Render(o.pane.View())
		pl := plStyle.Width(max(1, right-2)).Height(bodyHeight - 2).
			Render(o.playlist.view(o.theme, max(1, right-2), o.focus == focusPlaylist))
		body = lipgloss.JoinHorizontal(lipgloss.Top, lib, pl)
	}

	return lipgloss.JoinVertical(lipgloss.Left, body, o.statusLine(o.width), o.helpLine(o.width))
}

func pluralize(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return humanize.Comma(int64(n)) + " " + noun + "s"
}
