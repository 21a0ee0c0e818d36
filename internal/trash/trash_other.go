//go:build !linux

package trash

import "errors"

func isAvailable() bool {
	return false
}

func sameDevice(string) bool {
	return false
}

func moveToTrash(string) error {
	return errors.New("trash is not supported on this platform")
}

func displayName() string {
	return "Trash"
}
