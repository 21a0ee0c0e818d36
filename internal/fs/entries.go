package fs

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charlievieth/fastwalk"
	"github.com/justyntemme/crate/internal/debug"
)

// Entry is a single directory listing item with stat details
type Entry struct {
	Name    string
	Path    string
	IsDir   bool
	Size    int64
	ModTime time.Time
}

// ReadDir lists the visible direct children of path, ordered by name.
// Symlinks are followed; broken ones fall back to lstat.
func ReadDir(path string) ([]Entry, error) {
	debug.Log(debug.FS, "readDir: %q", path)
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}

	var result []Entry
	var mu sync.Mutex

	conf := &fastwalk.Config{
		Follow: true,
	}
	err := fastwalk.Walk(conf, path, func(fullPath string, d fs.DirEntry, err error) error {
		if err != nil {
			debug.Log(debug.FS_ENTRY, "readDir: walk error at %q: %v", fullPath, err)
			return nil
		}
		if fullPath == path {
			return nil
		}
		if fastwalk.DirEntryDepth(d) > 1 {
			if d.IsDir() {
				return fastwalk.SkipDir
			}
			return nil
		}
		if IsHidden(d.Name()) {
			if d.IsDir() {
				return fastwalk.SkipDir
			}
			return nil
		}

		info, err := fastwalk.StatDirEntry(fullPath, d)
		if err != nil {
			info, err = os.Lstat(fullPath)
			if err != nil {
				debug.Log(debug.FS_ENTRY, "readDir: skipping %q: %v", d.Name(), err)
				return nil
			}
		}

		mu.Lock()
		result = append(result, Entry{
			Name:    d.Name(),
			Path:    fullPath,
			IsDir:   info.IsDir(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
		mu.Unlock()

		if d.IsDir() {
			return fastwalk.SkipDir
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	SortEntries(result)
	return result, nil
}

// IsAudio reports whether name carries one of the given extensions.
// Extensions are compared without case and may omit the leading dot.
func IsAudio(name string, exts []string) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
	if ext == "" {
		return false
	}
	for _, e := range exts {
		if strings.TrimPrefix(strings.ToLower(e), ".") == ext {
			return true
		}
	}
	return false
}

// AudioFiles returns the audio files directly inside dir, in display order
func AudioFiles(dir string, exts []string) ([]Entry, error) {
	entries, err := ReadDir(dir)
	if err != nil {
		return nil, err
	}
	files := entries[:0]
	for _, e := range entries {
		if !e.IsDir && IsAudio(e.Name, exts) {
			files = append(files, e)
		}
	}
	return files, nil
}
