package library

import "github.com/justyntemme/crate/internal/fs"

// Inbound messages

// Reload rescans a library root. An empty Root reloads the current one;
// a different Root switches the pane to it.
type Reload struct {
	Root  string
	Focus string
}

// ReloadPath rescans the part of the tree that covers Path.
// With ChangeFocus the cursor moves to Focus, or to Path when Focus is empty.
// Depth asks for at least that many levels below Path to be scanned.
type ReloadPath struct {
	Path        string
	ChangeFocus bool
	Focus       string
	Depth       fs.Depth
}

// TreeReady carries the scan of a whole library root
type TreeReady struct {
	Result fs.ScanResult
	Focus  string
}

// TreeReadySub carries the scan of a subtree of the current root
type TreeReadySub struct {
	Result fs.ScanResult
	Focus  string
}

// DeleteConfirmed asks the pane to carry out a delete it requested
type DeleteConfirmed struct {
	Path  string
	Focus string
}

// Outbound messages

// Redraw asks the host to repaint
type Redraw struct{}

// PlaylistAdd asks for a track to be appended to the playlist
type PlaylistAdd struct {
	Path string
}

// PlaylistAddAll asks for several tracks to be appended, in order
type PlaylistAddAll struct {
	Paths []string
}

// PlaylistRunDelete asks the playlist to drop entries whose files are gone
type PlaylistRunDelete struct{}

// DeleteConfirm asks the user to confirm a delete. Focus is where the
// cursor goes once the delete is done. Trash is false when the delete
// will be permanent.
type DeleteConfirm struct {
	Path  string
	Focus string
	IsDir bool
	Trash bool
}

// PasteFailed reports a move that could not be done
type PasteFailed struct {
	Reason string
}

// DeleteFailed reports a delete that could not be done
type DeleteFailed struct {
	Reason string
}

// RootChanged reports that a new library root finished loading
type RootChanged struct {
	Root string
}

// SwitchRoot asks for the next configured library root after From
type SwitchRoot struct {
	From string
}

// AddRoot asks for Path to be added to the configured library roots
type AddRoot struct {
	Path string
}

// RemoveRoot asks for Path to be removed from the configured library roots
type RemoveRoot struct {
	Path string
}

// SearchRequest asks the host to open library search below Root
type SearchRequest struct {
	Root string
}

// CopyPath asks the host to put Path on the clipboard
type CopyPath struct {
	Path string
}

// IndexDone reports the end of a library index refresh
type IndexDone struct {
	Root  string
	Path  string
	Count int
	Err   error
}

// scanDone wraps a finished background scan read from the results channel
type scanDone struct {
	ready fs.Ready
}
