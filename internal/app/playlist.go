package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Playlist is the queue of tracks picked from the library. It only
// records paths; nothing is played.
type Playlist struct {
	tracks []string
	cursor int
	offset int
	height int
}

func (p *Playlist) Add(paths ...string) {
	p.tracks = append(p.tracks, paths...)
}

func (p *Playlist) Tracks() []string {
	return p.tracks
}

func (p *Playlist) Len() int {
	return len(p.tracks)
}

// Move shifts the cursor by delta, clamped to the list
func (p *Playlist) Move(delta int) {
	p.cursor += delta
	p.clamp()
}

// RemoveCurrent drops the track under the cursor
func (p *Playlist) RemoveCurrent() {
	if len(p.tracks) == 0 {
		return
	}
	p.tracks = append(p.tracks[:p.cursor], p.tracks[p.cursor+1:]...)
	p.clamp()
}

// Prune drops tracks whose files no longer exist and returns how many went
func (p *Playlist) Prune() int {
	kept := p.tracks[:0]
	for _, t := range p.tracks {
		if _, err := os.Lstat(t); err == nil {
			kept = append(kept, t)
		}
	}
	removed := len(p.tracks) - len(kept)
	p.tracks = kept
	p.clamp()
	return removed
}

func (p *Playlist) clamp() {
	if p.cursor >= len(p.tracks) {
		p.cursor = len(p.tracks) - 1
	}
	if p.cursor < 0 {
		p.cursor = 0
	}
	if p.height > 0 {
		if p.cursor < p.offset {
			p.offset = p.cursor
		}
		if p.cursor >= p.offset+p.height {
			p.offset = p.cursor - p.height + 1
		}
	}
}

func (p *Playlist) SetHeight(h int) {
	p.height = h
	p.clamp()
}

func (p *Playlist) view(t theme, width int, focused bool) string {
	if len(p.tracks) == 0 {
		return t.muted.Render("empty playlist")
	}
	end := len(p.tracks)
	if p.height > 0 && p.offset+p.height < end {
		end = p.offset + p.height
	}

	var b strings.Builder
	for i := p.offset; i < end; i++ {
		line := ansi.Truncate(fmt.Sprintf("%3d %s", i+1, filepath.Base(p.tracks[i])), width, "…")
		if focused && i == p.cursor {
			line = t.selected.Render(line)
		}
		b.WriteString(line)
		if i < end-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
