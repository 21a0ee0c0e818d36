package app

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/justyntemme/crate/internal/config"
	"github.com/justyntemme/crate/internal/widget"
)

// theme holds every style the app draws with
type theme struct {
	tree      widget.Styles
	border    lipgloss.Style
	focused   lipgloss.Style
	title     lipgloss.Style
	status    lipgloss.Style
	muted     lipgloss.Style
	accent    lipgloss.Style
	errorText lipgloss.Style
	selected  lipgloss.Style
	popup     lipgloss.Style
}

func newTheme(ui config.UIConfig) theme {
	c := ui.Theme
	tree := widget.DefaultStyles()
	tree.Dir = tree.Dir.Foreground(lipgloss.Color(c.Directory))
	tree.File = tree.File.Foreground(lipgloss.Color(c.File))
	tree.Branch = tree.Branch.Foreground(lipgloss.Color(c.Branch))
	tree.Selected = lipgloss.NewStyle().Foreground(lipgloss.Color(c.Selected)).Bold(true).Reverse(true)
	if ui.HighlightSymbol != "" {
		tree.Highlight = ui.HighlightSymbol
	}

	border := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color(c.Branch))
	return theme{
		tree:      tree,
		border:    border,
		focused:   border.BorderForeground(lipgloss.Color(c.Accent)),
		title:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(c.Accent)),
		status:    lipgloss.NewStyle().Padding(0, 1),
		muted:     lipgloss.NewStyle().Foreground(lipgloss.Color(c.Branch)),
		accent:    lipgloss.NewStyle().Foreground(lipgloss.Color(c.Accent)),
		errorText: lipgloss.NewStyle().Foreground(lipgloss.Color(c.Error)).Bold(true),
		selected:  lipgloss.NewStyle().Foreground(lipgloss.Color(c.Selected)).Reverse(true),
		popup: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(c.Accent)).
			Padding(1, 2),
	}
}
