// Package trash moves deleted library entries to the desktop trash where
// the platform has one, and deletes them outright otherwise.
package trash

import (
	"fmt"
	"os"
)

// MoveToTrash moves a file or directory to the trash
func MoveToTrash(path string) error {
	if !isAvailable() {
		return fmt.Errorf("trash %s: %s is not available", path, displayName())
	}
	return moveToTrash(path)
}

// IsAvailable reports whether MoveToTrash can work on this system
func IsAvailable() bool {
	return isAvailable()
}

// PermanentDelete removes path without going through the trash
func PermanentDelete(path string) error {
	info, err := os.Lstat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return os.RemoveAll(path)
	}
	return os.Remove(path)
}

// CanTrash reports whether MoveToTrash can take path. The trash lives on
// a single filesystem; entries on other devices can only be deleted.
func CanTrash(path string) bool {
	return isAvailable() && sameDevice(path)
}

// DisplayName is the user facing name of the trash
func DisplayName() string {
	return displayName()
}
