// Package widget implements the terminal tree view the library pane draws.
// Callers can only replace the whole tree and send discrete commands; the
// cursor and the open/closed flags are owned here.
package widget

import (
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/justyntemme/crate/internal/debug"
	"github.com/justyntemme/crate/internal/tree"
)

// Command is a discrete cursor or expansion action
type Command int

const (
	MoveUp Command = iota
	MoveDown
	Open
	Close
	GotoBegin
	GotoEnd
	SelectParent
	PageUp
	PageDown
)

func (c Command) String() string {
	switch c {
	case MoveUp:
		return "MoveUp"
	case MoveDown:
		return "MoveDown"
	case Open:
		return "Open"
	case Close:
		return "Close"
	case GotoBegin:
		return "GotoBegin"
	case GotoEnd:
		return "GotoEnd"
	case SelectParent:
		return "SelectParent"
	case PageUp:
		return "PageUp"
	case PageDown:
		return "PageDown"
	}
	return "Unknown"
}

// Styles controls how rows are drawn
type Styles struct {
	Branch    lipgloss.Style
	Dir       lipgloss.Style
	File      lipgloss.Style
	Selected  lipgloss.Style
	Loading   lipgloss.Style
	Highlight string // prefix of the selected row
}

func DefaultStyles() Styles {
	return Styles{
		Branch:    lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Dir:       lipgloss.NewStyle().Foreground(lipgloss.Color("4")).Bold(true),
		File:      lipgloss.NewStyle(),
		Selected:  lipgloss.NewStyle().Reverse(true),
		Loading:   lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Italic(true),
		Highlight: "▶ ",
	}
}

type row struct {
	node   *tree.Node
	parent *tree.Node
	branch string
}

// TreeView renders a tree as a flat list of visible rows.
// Open state is keyed by node identity, so a node replaced by a rescan
// starts closed while untouched nodes keep their state.
type TreeView struct {
	root     *tree.Node
	open     map[*tree.Node]bool
	rows     []row
	cursor   int
	selected string
	offset   int
	width    int
	height   int
	styles   Styles
}

func NewTreeView(styles Styles) *TreeView {
	return &TreeView{
		open:   make(map[*tree.Node]bool),
		styles: styles,
	}
}

// SetSize sets the area available for rendering
func (v *TreeView) SetSize(width, height int) {
	v.width, v.height = width, height
	v.scrollToCursor()
}

// SetTree installs root as the tree to display. A different root drops all
// open state; the same root keeps it for every node still reachable.
func (v *TreeView) SetTree(root *tree.Node) {
	if root != v.root {
		v.open = make(map[*tree.Node]bool)
		if root != nil {
			v.open[root] = true
		}
		v.root = root
	} else {
		live := make(map[*tree.Node]bool, len(v.open))
		it := tree.New(root).Walk()
		for it.Next() {
			if v.open[it.Node()] {
				live[it.Node()] = true
			}
		}
		v.open = live
	}
	v.rebuild()
}

// CurrentSelection returns the path under the cursor
func (v *TreeView) CurrentSelection() (string, bool) {
	if v.cursor < 0 || v.cursor >= len(v.rows) {
		return "", false
	}
	p := v.rows[v.cursor].node.Path
	return p, p != ""
}

// IsOpen reports whether the node at path is expanded
func (v *TreeView) IsOpen(path string) bool {
	for _, r := range v.rows {
		if r.node.Path == path {
			return v.open[r.node]
		}
	}
	return false
}

// Rows returns the number of visible rows
func (v *TreeView) Rows() int {
	return len(v.rows)
}

// Perform applies one command
func (v *TreeView) Perform(cmd Command) {
	debug.Log(debug.UI, "treeview: %s at %d/%d", cmd, v.cursor, len(v.rows))
	if len(v.rows) == 0 {
		return
	}
	cur := v.rows[v.cursor]

	switch cmd {
	case MoveUp:
		if v.cursor > 0 {
			v.cursor--
		}
	case MoveDown:
		if v.cursor < len(v.rows)-1 {
			v.cursor++
		}
	case Open:
		if cur.node.IsDir || len(cur.node.Children) > 0 {
			v.open[cur.node] = true
			v.rebuild()
		}
	case Close:
		if v.open[cur.node] {
			delete(v.open, cur.node)
			v.rebuild()
		}
	case GotoBegin:
		v.cursor = 0
	case GotoEnd:
		v.cursor = len(v.rows) - 1
	case SelectParent:
		for i, r := range v.rows {
			if cur.parent != nil && r.node == cur.parent {
				v.cursor = i
				break
			}
		}
	case PageUp:
		v.cursor -= v.page()
		if v.cursor < 0 {
			v.cursor = 0
		}
	case PageDown:
		v.cursor += v.page()
		if v.cursor >= len(v.rows) {
			v.cursor = len(v.rows) - 1
		}
	}

	v.selected = v.rows[v.cursor].node.Path
	v.scrollToCursor()
}

func (v *TreeView) page() int {
	if n := v.height / 2; n > 0 {
		return n
	}
	return 5
}

// rebuild flattens the visible rows, keeping the cursor on the same path
func (v *TreeView) rebuild() {
	v.rows = v.rows[:0]
	if v.root == nil {
		v.cursor = 0
		return
	}

	type frame struct {
		node   *tree.Node
		parent *tree.Node
		branch string
		indent string
	}
	stack := []frame{{node: v.root}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		v.rows = append(v.rows, row{node: f.node, parent: f.parent, branch: f.branch})

		if !v.open[f.node] {
			continue
		}
		children := f.node.Children
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, frame{
				node:   children[i],
				parent: f.node,
				branch: f.indent + branchOf(i, len(children)),
				indent: f.indent + indentOf(i, len(children)),
			})
		}
	}
	v.reselect()
}

func branchOf(i, n int) string {
	if i == n-1 {
		return "└── "
	}
	return "├── "
}

func indentOf(i, n int) string {
	if i == n-1 {
		return "    "
	}
	return "│   "
}

// reselect puts the cursor back on the selected path, or on its nearest
// visible ancestor when the path is gone or hidden.
func (v *TreeView) reselect() {
	if len(v.rows) == 0 {
		v.cursor = 0
		return
	}
	for p := v.selected; p != ""; {
		for i, r := range v.rows {
			if r.node.Path == p {
				v.cursor = i
				v.selected = p
				v.scrollToCursor()
				return
			}
		}
		parent := filepath.Dir(p)
		if parent == p {
			break
		}
		p = parent
	}
	v.cursor = 0
	v.selected = v.rows[0].node.Path
	v.scrollToCursor()
}

func (v *TreeView) scrollToCursor() {
	if v.height <= 0 {
		v.offset = 0
		return
	}
	if v.cursor < v.offset {
		v.offset = v.cursor
	}
	if v.cursor >= v.offset+v.height {
		v.offset = v.cursor - v.height + 1
	}
	if v.offset < 0 {
		v.offset = 0
	}
}

// View renders the visible window of rows
func (v *TreeView) View() string {
	if len(v.rows) == 0 {
		return ""
	}

	start, end := v.offset, len(v.rows)
	if v.height > 0 && start+v.height < end {
		end = start + v.height
	}

	var sb strings.Builder
	for i := start; i < end; i++ {
		sb.WriteString(v.renderRow(v.rows[i], i == v.cursor))
		if i < end-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func (v *TreeView) renderRow(r row, selected bool) string {
	var sb strings.Builder
	if selected {
		sb.WriteString(v.styles.Highlight)
	} else {
		sb.WriteString(strings.Repeat(" ", lipgloss.Width(v.styles.Highlight)))
	}
	sb.WriteString(v.styles.Branch.Render(r.branch))

	name := r.node.Name
	switch {
	case r.node.IsDir && v.open[r.node]:
		name = v.styles.Dir.Render("▾ " + name)
	case r.node.IsDir:
		name = v.styles.Dir.Render("▸ " + name)
	default:
		name = v.styles.File.Render(name)
	}
	if selected {
		name = v.styles.Selected.Render(name)
	}
	sb.WriteString(name)
	if r.node.Loading {
		sb.WriteString(v.styles.Loading.Render(" (loading…)"))
	}

	line := sb.String()
	if v.width > 0 {
		line = ansi.Truncate(line, v.width, "…")
	}
	return line
}
