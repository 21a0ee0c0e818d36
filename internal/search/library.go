package search

import (
	"context"
	iofs "io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/charlievieth/fastwalk"
	"github.com/justyntemme/crate/internal/debug"
	"github.com/justyntemme/crate/internal/fs"
)

// DefaultMaxResults caps a search when the caller gives no limit
const DefaultMaxResults = 500

// Search walks root and returns the paths matching input in library
// order. Hidden entries are never returned. An empty query matches nothing.
func Search(ctx context.Context, root, input string, limit int) ([]string, error) {
	q := Parse(input)
	if q.IsEmpty() {
		return nil, nil
	}
	if limit <= 0 {
		limit = DefaultMaxResults
	}
	m := NewMatcher(q)
	needInfo := q.NeedsInfo()
	start := time.Now()

	var (
		mu      sync.Mutex
		results []string
	)
	conf := &fastwalk.Config{Follow: true}
	err := fastwalk.Walk(conf, root, func(path string, e iofs.DirEntry, err error) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil || path == root {
			return nil
		}
		if shouldSkipPath(e) {
			if e.IsDir() {
				return fastwalk.SkipDir
			}
			return nil
		}

		var info os.FileInfo = entryInfo{e}
		if needInfo {
			if info, err = fastwalk.StatDirEntry(path, e); err != nil {
				return nil
			}
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		if m.Match(rel, info) {
			mu.Lock()
			results = append(results, path)
			mu.Unlock()
		}
		return nil
	})
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if err != nil {
		return nil, err
	}

	slices.SortFunc(results, comparePaths)
	if len(results) > limit {
		results = results[:limit]
	}
	debug.Log(debug.SEARCH, "search %q under %q: %d hits in %v", input, root, len(results), time.Since(start))
	return results, nil
}

func shouldSkipPath(e iofs.DirEntry) bool {
	return fs.IsHidden(e.Name())
}

// comparePaths orders paths component by component in display order,
// so a directory comes right before its contents
func comparePaths(a, b string) int {
	ca := strings.Split(a, string(filepath.Separator))
	cb := strings.Split(b, string(filepath.Separator))
	for i := 0; i < len(ca) && i < len(cb); i++ {
		if c := fs.Compare(ca[i], cb[i]); c != 0 {
			return c
		}
	}
	return len(ca) - len(cb)
}

// entryInfo answers the name-only parts of os.FileInfo from a DirEntry
type entryInfo struct {
	iofs.DirEntry
}

func (e entryInfo) Size() int64 { return 0 }
func (e entryInfo) Mode() iofs.FileMode { return e.Type() }
func (e entryInfo) ModTime() time.Time { return time.Time{} }
func (e entryInfo) Sys() any { return nil }
