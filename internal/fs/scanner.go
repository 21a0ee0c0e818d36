package fs

import (
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/charlievieth/fastwalk"
	"github.com/justyntemme/crate/internal/debug"
)

// Depth bounds how far a scan descends below its root.
// Zero yields a leaf; Unlimited is clamped to MaxDepth.
type Depth int

const (
	Unlimited Depth = -1
	MaxDepth  Depth = 1024

	// StartDepth is used when a library root is first loaded
	StartDepth Depth = 2
)

func (d Depth) bound() int {
	if d < 0 || d > MaxDepth {
		return int(MaxDepth)
	}
	return int(d)
}

// ScanResult is the immutable outcome of a scan. ID is the absolute path,
// Value the display name.
type ScanResult struct {
	ID       string
	Value    string
	IsDir    bool
	Missing  bool // path did not exist when scanned
	Children []ScanResult
}

// Request describes one scan to run in the background
type Request struct {
	Path  string
	Depth Depth
	Focus string // optional path to select once the result is applied
	Sub   bool   // result is a subtree, not a new root
}

// Ready is delivered on the sink passed to ScanAndNotify
type Ready struct {
	Result ScanResult
	Focus  string
	Sub    bool
}

// Scanner walks directories into ScanResults. Every scan is recorded
// in the tracker for as long as it runs.
type Scanner struct {
	Tracker *Tracker
}

func NewScanner(tracker *Tracker) *Scanner {
	if tracker == nil {
		tracker = NewTracker()
	}
	return &Scanner{Tracker: tracker}
}

// Scan walks path to the given depth and blocks until done.
// Hidden entries are skipped. Unreadable directories yield no children.
func (s *Scanner) Scan(path string, depth Depth) ScanResult {
	s.Tracker.Increase(path)
	defer s.Tracker.Decrease(path)
	return walk(path, depth)
}

// ScanAsync runs Scan on its own goroutine and hands the result to cb.
// The tracker counts the scan from before this returns until cb returns.
func (s *Scanner) ScanAsync(path string, depth Depth, cb func(ScanResult)) {
	s.Tracker.Increase(path)
	go func() {
		defer s.Tracker.Decrease(path)
		cb(walk(path, depth))
	}()
}

// ScanAndNotify runs req in the background and sends the result to sink
func (s *Scanner) ScanAndNotify(req Request, sink chan<- Ready) {
	debug.Log(debug.FS, "scan queued: path=%q depth=%d focus=%q sub=%v", req.Path, req.Depth, req.Focus, req.Sub)
	s.ScanAsync(req.Path, req.Depth, func(r ScanResult) {
		sink <- Ready{Result: r, Focus: req.Focus, Sub: req.Sub}
	})
}

// IsHidden reports whether a file name is hidden
func IsHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

type walkEntry struct {
	path  string
	name  string
	isDir bool
}

func walk(path string, depth Depth) ScanResult {
	root := ScanResult{ID: path, Value: displayName(path)}

	info, err := os.Stat(path)
	if err != nil {
		debug.Log(debug.FS, "scan: stat %q: %v", path, err)
		root.Missing = os.IsNotExist(err)
		return root
	}
	root.IsDir = info.IsDir()
	maxDepth := depth.bound()
	if !root.IsDir || maxDepth == 0 {
		return root
	}

	var mu sync.Mutex
	byParent := make(map[string][]walkEntry)

	conf := &fastwalk.Config{
		Follow: true,
	}
	err = fastwalk.Walk(conf, path, func(fullPath string, d fs.DirEntry, err error) error {
		if err != nil {
			debug.Log(debug.FS_ENTRY, "scan: walk error at %q: %v", fullPath, err)
			return nil
		}
		if fullPath == path {
			return nil
		}

		if IsHidden(d.Name()) {
			if d.IsDir() {
				return fastwalk.SkipDir
			}
			return nil
		}

		entryDepth := fastwalk.DirEntryDepth(d)
		if entryDepth > maxDepth {
			if d.IsDir() {
				return fastwalk.SkipDir
			}
			return nil
		}

		isDir := d.IsDir()
		if d.Type()&os.ModeSymlink != 0 {
			info, err := fastwalk.StatDirEntry(fullPath, d)
			if err != nil {
				debug.Log(debug.FS_ENTRY, "scan: skipping %q: %v", fullPath, err)
				return nil
			}
			isDir = info.IsDir()
		}

		mu.Lock()
		parent := filepath.Dir(fullPath)
		byParent[parent] = append(byParent[parent], walkEntry{path: fullPath, name: d.Name(), isDir: isDir})
		mu.Unlock()

		if isDir && entryDepth == maxDepth && d.IsDir() {
			return fastwalk.SkipDir
		}
		return nil
	})
	if err != nil {
		debug.Log(debug.FS, "scan: walk %q: %v", path, err)
	}

	build(&root, byParent)
	debug.Log(debug.FS, "scan done: path=%q depth=%d dirs=%d", path, maxDepth, len(byParent))
	return root
}

// build attaches collected entries below root. It works from an explicit
// stack so that deep trees do not grow the goroutine stack.
func build(root *ScanResult, byParent map[string][]walkEntry) {
	stack := []*ScanResult{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		entries := byParent[n.ID]
		if len(entries) == 0 {
			continue
		}
		sortWalkEntries(entries)
		n.Children = make([]ScanResult, len(entries))
		for i, e := range entries {
			n.Children[i] = ScanResult{ID: e.path, Value: e.name, IsDir: e.isDir}
			if e.isDir {
				stack = append(stack, &n.Children[i])
			}
		}
	}
}

func sortWalkEntries(entries []walkEntry) {
	keys := make(map[string]string, len(entries))
	for _, e := range entries {
		keys[e.name] = SortKey(e.name)
	}
	slices.SortStableFunc(entries, func(a, b walkEntry) int {
		return compareKeys(keys[a.name], keys[b.name], a.name, b.name)
	})
}

func displayName(path string) string {
	name := filepath.Base(path)
	if name == "." || name == string(filepath.Separator) {
		return path
	}
	return name
}
