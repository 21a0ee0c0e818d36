package fs

import (
	"sort"
	"strings"
	"sync"

	"github.com/justyntemme/crate/internal/debug"
)

// Tracker counts in-flight scans per path. It is a busy signal for the
// status line, not a lock: duplicate scans of one path are allowed to race.
type Tracker struct {
	mu     sync.Mutex
	counts map[string]int
}

func NewTracker() *Tracker {
	return &Tracker{counts: make(map[string]int)}
}

// Increase records the start of a scan
func (t *Tracker) Increase(path string) {
	t.mu.Lock()
	t.counts[path]++
	n := t.counts[path]
	t.mu.Unlock()
	debug.Log(debug.FS, "tracker: +%q (%d)", path, n)
}

// Decrease records the end of a scan. Counts never go below zero.
func (t *Tracker) Decrease(path string) {
	t.mu.Lock()
	n := t.counts[path] - 1
	if n <= 0 {
		delete(t.counts, path)
		n = 0
	} else {
		t.counts[path] = n
	}
	t.mu.Unlock()
	debug.Log(debug.FS, "tracker: -%q (%d)", path, n)
}

// Count returns the number of scans running for exactly path
func (t *Tracker) Count(path string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.counts[path]
}

// Busy reports whether any scan is running at or below prefix
func (t *Tracker) Busy(prefix string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	for p := range t.counts {
		if Within(prefix, p) {
			return true
		}
	}
	return false
}

// Len returns the number of distinct paths being scanned
func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.counts)
}

// Visible returns a sorted snapshot of the paths being scanned
func (t *Tracker) Visible() []string {
	t.mu.Lock()
	paths := make([]string, 0, len(t.counts))
	for p := range t.counts {
		paths = append(paths, p)
	}
	t.mu.Unlock()
	sort.Strings(paths)
	return paths
}

// Within reports whether path equals base or lies below it
func Within(base, path string) bool {
	if path == base {
		return true
	}
	if base == "" {
		return false
	}
	if !strings.HasPrefix(path, base) {
		return false
	}
	if strings.HasSuffix(base, "/") || strings.HasSuffix(base, `\`) {
		return true
	}
	sep := path[len(base)]
	return sep == '/' || sep == '\\'
}
