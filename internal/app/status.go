package app

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"
	"github.com/justyntemme/crate/internal/fs"
)

// libraryStats is what the status line knows about the index of a root
type libraryStats struct {
	root        string
	tracks      int
	lastIndexed time.Time
}

// statusLine renders the bottom line: scan activity, root, index stats,
// the selected entry and the last message.
func (o *Orchestrator) statusLine(width int) string {
	var parts []string

	if n := o.pane.Tracker().Len(); n > 0 {
		parts = append(parts, fmt.Sprintf("%s scanning %d", o.spinner.View(), n))
	}
	if root := o.pane.Root(); root != "" {
		parts = append(parts, o.theme.accent.Render(root))
	}
	if o.stats.root != "" && fs.Within(o.stats.root, o.pane.Root()) && !o.stats.lastIndexed.IsZero() {
		parts = append(parts, fmt.Sprintf("%s tracks, indexed %s",
			humanize.Comma(int64(o.stats.tracks)), humanize.Time(o.stats.lastIndexed)))
	}
	if n, ok := o.pane.Selected(); ok && !n.IsDir {
		if info, err := os.Stat(n.Path); err == nil {
			parts = append(parts, humanize.Bytes(uint64(info.Size())))
		}
	}
	if y := o.pane.Yanked(); y != "" {
		parts = append(parts, "yanked "+ansi.Truncate(y, 30, "…"))
	}
	if o.message != "" {
		parts = append(parts, o.message)
	}

	line := strings.Join(parts, o.theme.muted.Render(" │ "))
	return o.theme.status.Render(ansi.Truncate(line, max(0, width-2), "…"))
}

// helpLine lists the main key bindings
func (o *Orchestrator) helpLine(width int) string {
	var parts []string
	for _, b := range o.keys.ShortHelp() {
		h := b.Help()
		parts = append(parts, h.Key+" "+o.theme.muted.Render(h.Desc))
	}
	return o.theme.status.Render(ansi.Truncate(strings.Join(parts, "  "), max(0, width-2), "…"))
}
