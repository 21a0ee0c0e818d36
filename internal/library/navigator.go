package library

import (
	"errors"
	"fmt"
	"log"

	"github.com/justyntemme/crate/internal/debug"
	"github.com/justyntemme/crate/internal/tree"
	"github.com/justyntemme/crate/internal/widget"
)

var (
	ErrNotInTree     = errors.New("focus target not in tree")
	ErrNoConvergence = errors.New("focus did not converge")
)

// DefaultMaxSteps bounds a single MoveTo
const DefaultMaxSteps = 10000

// Cursor is the view of the tree widget the navigator works through:
// the selection can be read but only moved by commands.
type Cursor interface {
	CurrentSelection() (string, bool)
	Perform(cmd widget.Command)
}

// Navigator steers a Cursor onto a path
type Navigator struct {
	MaxSteps int
}

// MoveTo issues commands until the cursor selects target, then opens it.
// Routes are compared in pre-order: an ancestor of the target is opened and
// entered, a row before the target moves down and a row after it moves up.
// Failures leave the cursor wherever it stopped.
func (n Navigator) MoveTo(c Cursor, t *tree.Tree, target string) error {
	targetRoute, ok := t.RouteTo(target)
	if !ok {
		debug.Log(debug.NAV, "moveTo %q: not in tree", target)
		return fmt.Errorf("move to %q: %w", target, ErrNotInTree)
	}

	limit := n.MaxSteps
	if limit <= 0 {
		limit = DefaultMaxSteps
	}

	steps := 0
	perform := func(cmd widget.Command) {
		debug.Log(debug.NAV_STEP, "moveTo %q: %s", target, cmd)
		c.Perform(cmd)
		steps++
	}

	lost := false
	for steps < limit {
		cur, ok := c.CurrentSelection()
		if ok && cur == target {
			c.Perform(widget.Open)
			debug.Log(debug.NAV, "moveTo %q: done in %d steps", target, steps)
			return nil
		}

		var route tree.Route
		if ok {
			route, ok = t.RouteTo(cur)
		}
		if !ok {
			// Nothing to compare against; restart from the top once
			if lost {
				break
			}
			lost = true
			perform(widget.GotoBegin)
			continue
		}
		lost = false

		switch {
		case isPrefix(route, targetRoute):
			perform(widget.Open)
			perform(widget.MoveDown)
		case compareRoutes(route, targetRoute) < 0:
			perform(widget.MoveDown)
		default:
			perform(widget.MoveUp)
		}
	}

	log.Printf("library: focus on %q gave up after %d steps", target, steps)
	return fmt.Errorf("move to %q: %w", target, ErrNoConvergence)
}

// isPrefix reports whether a is a proper prefix of b
func isPrefix(a, b tree.Route) bool {
	if len(a) >= len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// compareRoutes orders routes in pre-order: by index at the first
// difference, and a prefix before its extensions.
func compareRoutes(a, b tree.Route) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	}
	return 0
}
