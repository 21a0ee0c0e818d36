package app

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/justyntemme/crate/internal/config"
	"github.com/justyntemme/crate/internal/debug"
	"github.com/justyntemme/crate/internal/library"
	"github.com/justyntemme/crate/internal/search"
)

// searchResults carries the hits of one search generation
type searchResults struct {
	gen   int64
	paths []string
	err   error
}

// SearchController runs search-as-you-type below a library root and
// turns the chosen hit into a refocus of the tree.
type SearchController struct {
	input      textinput.Model
	root       string
	results    []string
	cursor     int
	gen        int64
	err        error
	active     bool
	maxResults int
	cancel     context.CancelFunc
}

func NewSearchController(maxResults int) *SearchController {
	ti := textinput.New()
	ti.Placeholder = "name, ext:flac, size:>10MB, is:dir ..."
	ti.Prompt = "/ "
	return &SearchController{input: ti, maxResults: maxResults}
}

// Open starts a new search below root
func (s *SearchController) Open(root string) tea.Cmd {
	s.root = root
	s.active = true
	s.results = nil
	s.cursor = 0
	s.err = nil
	s.input.SetValue("")
	return s.input.Focus()
}

func (s *SearchController) Close() {
	s.active = false
	s.input.Blur()
	s.stop()
	// Invalidate anything still in flight
	s.gen++
}

func (s *SearchController) Active() bool {
	return s.active
}

func (s *SearchController) stop() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// Update handles keys while the search popup is open and results coming back
func (s *SearchController) Update(msg tea.Msg, keys config.KeyMap) tea.Cmd {
	switch msg := msg.(type) {
	case searchResults:
		if msg.gen != s.gen {
			debug.Log(debug.SEARCH, "dropping stale results gen=%d (current %d)", msg.gen, s.gen)
			return nil
		}
		s.results, s.err = msg.paths, msg.err
		s.cursor = 0
		return nil

	case tea.KeyMsg:
		switch {
		case msg.Type == tea.KeyEsc:
			s.Close()
			return nil
		case msg.Type == tea.KeyEnter:
			if len(s.results) == 0 {
				return nil
			}
			hit := s.results[s.cursor]
			s.Close()
			return func() tea.Msg {
				return library.ReloadPath{Path: hit, ChangeFocus: true}
			}
		case msg.Type == tea.KeyUp, msg.Type == tea.KeyCtrlP:
			if s.cursor > 0 {
				s.cursor--
			}
			return nil
		case msg.Type == tea.KeyDown, msg.Type == tea.KeyCtrlN:
			if s.cursor < len(s.results)-1 {
				s.cursor++
			}
			return nil
		case key.Matches(msg, keys.Quit) && msg.Type != tea.KeyRunes:
			s.Close()
			return nil
		}

		before := s.input.Value()
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		if s.input.Value() != before {
			return tea.Batch(cmd, s.run())
		}
		return cmd
	}
	return nil
}

// run starts a search for the current input, cancelling the previous one
func (s *SearchController) run() tea.Cmd {
	s.stop()
	s.gen++
	gen, root, input, limit := s.gen, s.root, s.input.Value(), s.maxResults
	if strings.TrimSpace(input) == "" {
		s.results = nil
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	return func() tea.Msg {
		paths, err := search.Search(ctx, root, input, limit)
		return searchResults{gen: gen, paths: paths, err: err}
	}
}

func (s *SearchController) view(t theme, width, height int) string {
	var b strings.Builder
	b.WriteString(t.title.Render("Search " + s.root))
	b.WriteString("\n")
	b.WriteString(s.input.View())
	b.WriteString("\n\n")

	switch {
	case s.err != nil:
		b.WriteString(t.errorText.Render(s.err.Error()))
	case len(s.results) == 0:
		b.WriteString(t.muted.Render("no matches"))
	default:
		rows := height - 4
		if rows < 1 {
			rows = 1
		}
		start := 0
		if s.cursor >= rows {
			start = s.cursor - rows + 1
		}
		end := min(start+rows, len(s.results))
		for i := start; i < end; i++ {
			rel, err := filepath.Rel(s.root, s.results[i])
			if err != nil {
				rel = s.results[i]
			}
			line := ansi.Truncate(rel, width, "…")
			if i == s.cursor {
				line = t.selected.Render(line)
			}
			b.WriteString(line)
			if i < end-1 {
				b.WriteByte('\n')
			}
		}
	}
	return b.String()
}
