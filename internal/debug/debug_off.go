//go:build !debug

// Package debug provides categorized debug logging.
// This is the no-op version for release builds.
package debug

import "io"

// Enabled reports whether debug logging is compiled in
const Enabled = false

// Category names a debug logging channel
type Category string

const (
	APP      Category = "APP"
	FS       Category = "FS"
	TREE     Category = "TREE"
	NAV      Category = "NAV"
	STORE    Category = "STORE"
	SEARCH   Category = "SEARCH"
	UI       Category = "UI"
	FS_ENTRY Category = "FS_ENTRY"
	NAV_STEP Category = "NAV_STEP"
)

// Log is a no-op in release builds
func Log(cat Category, format string, args ...interface{}) {}

// SetOutput is a no-op in release builds
func SetOutput(w io.Writer) {}

// Enable is a no-op in release builds
func Enable(cat Category) {}

// Disable is a no-op in release builds
func Disable(cat Category) {}

// IsEnabled always returns false in release builds
func IsEnabled(cat Category) bool { return false }

// EnableAll is a no-op in release builds
func EnableAll() {}
