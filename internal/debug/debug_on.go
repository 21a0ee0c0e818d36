//go:build debug

// Package debug provides categorized debug logging.
// Build with -tags debug to enable it; release builds compile the no-op twin.
package debug

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
)

// Enabled reports whether debug logging is compiled in
const Enabled = true

// Category names a debug logging channel
type Category string

const (
	APP    Category = "APP"    // Pane lifecycle, message routing, roots
	FS     Category = "FS"     // Scans and the download tracker
	TREE   Category = "TREE"   // Reconciliation and reload planning
	NAV    Category = "NAV"    // Focus navigation steps
	STORE  Category = "STORE"  // Library index
	SEARCH Category = "SEARCH" // Library search
	UI     Category = "UI"     // Widget commands, popups, rendering

	// Verbose, off unless asked for
	FS_ENTRY Category = "FS_ENTRY" // One line per scanned entry
	NAV_STEP Category = "NAV_STEP" // One line per navigator command
)

var (
	enabled = map[Category]bool{
		APP:      true,
		FS:       true,
		TREE:     true,
		NAV:      true,
		STORE:    true,
		SEARCH:   true,
		UI:       true,
		FS_ENTRY: false,
		NAV_STEP: false,
	}
	mu sync.RWMutex

	logger = log.New(os.Stderr, "", log.Ltime|log.Lmicroseconds)
)

func init() {
	// CRATE_DEBUG=all, CRATE_DEBUG=none or CRATE_DEBUG=FS,TREE
	env := strings.ToUpper(strings.TrimSpace(os.Getenv("CRATE_DEBUG")))
	if env == "" {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	switch env {
	case "ALL":
		for cat := range enabled {
			enabled[cat] = true
		}
	case "NONE":
		for cat := range enabled {
			enabled[cat] = false
		}
	default:
		for cat := range enabled {
			enabled[cat] = false
		}
		for _, cat := range strings.Split(env, ",") {
			enabled[Category(strings.TrimSpace(cat))] = true
		}
	}
}

// Log writes a message if cat is enabled
func Log(cat Category, format string, args ...interface{}) {
	mu.RLock()
	on := enabled[cat]
	out := logger
	mu.RUnlock()
	if !on {
		return
	}
	out.Printf("[%s] %s", cat, fmt.Sprintf(format, args...))
}

// SetOutput redirects debug output. The TUI owns stderr while running,
// so main points this at the log file.
func SetOutput(w io.Writer) {
	mu.Lock()
	logger = log.New(w, "", log.Ltime|log.Lmicroseconds)
	mu.Unlock()
}

// Enable turns a category on
func Enable(cat Category) {
	mu.Lock()
	enabled[cat] = true
	mu.Unlock()
}

// Disable turns a category off
func Disable(cat Category) {
	mu.Lock()
	enabled[cat] = false
	mu.Unlock()
}

// IsEnabled reports whether cat is on
func IsEnabled(cat Category) bool {
	mu.RLock()
	defer mu.RUnlock()
	return enabled[cat]
}

// EnableAll turns every category on, verbose ones included
func EnableAll() {
	mu.Lock()
	for cat := range enabled {
		enabled[cat] = true
	}
	mu.Unlock()
}
