package library

import (
	"path/filepath"

	"github.com/justyntemme/crate/internal/fs"
)

// NextRoot returns the configured root after current, wrapping around.
// When current is not configured the first root is returned.
func NextRoot(roots []string, current string) string {
	if len(roots) == 0 {
		return ""
	}
	current = filepath.Clean(current)
	for i, r := range roots {
		if filepath.Clean(r) == current {
			return roots[(i+1)%len(roots)]
		}
	}
	return roots[0]
}

// StepOut returns the directory above root and whether there is one
func StepOut(root string) (string, bool) {
	parent := filepath.Dir(root)
	if parent == root || root == "" {
		return "", false
	}
	return parent, true
}

// ContainingRoot returns the innermost configured root that path lies in
func ContainingRoot(roots []string, path string) (string, bool) {
	path = filepath.Clean(path)
	best := ""
	for _, r := range roots {
		r = filepath.Clean(r)
		if fs.Within(r, path) && len(r) > len(best) {
			best = r
		}
	}
	return best, best != ""
}
