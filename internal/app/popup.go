package app

import (
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/justyntemme/crate/internal/config"
	"github.com/justyntemme/crate/internal/library"
	"github.com/justyntemme/crate/internal/trash"
)

type popupKind int

const (
	popupNone popupKind = iota
	popupConfirmDelete
	popupError
)

// popup is the modal shown over the panes
type popup struct {
	kind    popupKind
	title   string
	body    string
	confirm library.DeleteConfirm
}

func confirmDeletePopup(req library.DeleteConfirm) popup {
	what := "file"
	if req.IsDir {
		what = "directory"
	}
	body := fmt.Sprintf("Delete %s %q?", what, filepath.Base(req.Path))
	if req.Trash {
		body = fmt.Sprintf("Move %s %q to the %s?", what, filepath.Base(req.Path), trash.DisplayName())
	} else {
		body += "\nThis cannot be undone."
	}
	return popup{kind: popupConfirmDelete, title: "Delete", body: body, confirm: req}
}

func errorPopup(title, reason string) popup {
	return popup{kind: popupError, title: title, body: reason}
}

func (p popup) active() bool {
	return p.kind != popupNone
}

// update handles a key while the popup is open. It returns the popup to
// show next and the command to run.
func (p popup) update(msg tea.KeyMsg, keys config.KeyMap) (popup, tea.Cmd) {
	switch p.kind {
	case popupConfirmDelete:
		switch {
		case key.Matches(msg, keys.Confirm):
			req := p.confirm
			return popup{}, func() tea.Msg {
				return library.DeleteConfirmed{Path: req.Path, Focus: req.Focus}
			}
		case key.Matches(msg, keys.Cancel), key.Matches(msg, keys.Quit):
			return popup{}, nil
		}
	case popupError:
		// Any key dismisses
		return popup{}, nil
	}
	return p, nil
}

func (p popup) view(t theme, width, height int) string {
	var hint string
	switch p.kind {
	case popupConfirmDelete:
		hint = "enter/y: delete   esc/n: cancel"
	case popupError:
		hint = "press any key"
	}
	title := t.title.Render(p.title)
	if p.kind == popupError {
		title = t.errorText.Render(p.title)
	}

	boxWidth := min(60, max(20, width-4))
	content := lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		lipgloss.NewStyle().Width(boxWidth-6).Render(p.body),
		"",
		t.muted.Render(hint),
	)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, t.popup.Width(boxWidth).Render(content))
}
