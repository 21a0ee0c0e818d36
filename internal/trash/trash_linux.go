//go:build linux

package trash

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/justyntemme/crate/internal/debug"
)

// Freedesktop trash: $XDG_DATA_HOME/Trash/{files,info}, one
// name.trashinfo per trashed entry.

func trashDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "Trash")
}

func isAvailable() bool {
	dir := trashDir()
	if dir == "" {
		return false
	}
	for _, sub := range []string{"files", "info"} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0o700); err != nil {
			return false
		}
	}
	return true
}

// sameDevice reports whether path sits on the filesystem holding the trash
func sameDevice(path string) bool {
	var src, dst syscall.Stat_t
	if err := syscall.Lstat(path, &src); err != nil {
		return false
	}
	if err := syscall.Stat(filepath.Join(trashDir(), "files"), &dst); err != nil {
		return false
	}
	return src.Dev == dst.Dev
}

func moveToTrash(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	files := filepath.Join(trashDir(), "files")
	info := filepath.Join(trashDir(), "info")

	name := uniqueName(files, filepath.Base(abs))
	infoPath := filepath.Join(info, name+".trashinfo")
	content := fmt.Sprintf("[Trash Info]\nPath=%s\nDeletionDate=%s\n",
		(&url.URL{Path: abs}).EscapedPath(), time.Now().Format("2006-01-02T15:04:05"))
	if err := os.WriteFile(infoPath, []byte(content), 0o600); err != nil {
		return fmt.Errorf("write trashinfo: %w", err)
	}

	if err := os.Rename(abs, filepath.Join(files, name)); err != nil {
		os.Remove(infoPath)
		return fmt.Errorf("move to trash: %w", err)
	}
	debug.Log(debug.FS, "trashed %q as %q", abs, name)
	return nil
}

// uniqueName appends a counter before the extension until name is free in dir
func uniqueName(dir, name string) string {
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	candidate := name
	for i := 1; ; i++ {
		if _, err := os.Lstat(filepath.Join(dir, candidate)); os.IsNotExist(err) {
			return candidate
		}
		candidate = fmt.Sprintf("%s.%d%s", stem, i, ext)
	}
}

func displayName() string {
	return "Trash"
}
