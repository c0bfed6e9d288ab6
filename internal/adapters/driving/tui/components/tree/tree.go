// Package tree provides a lazily loaded directory tree for the TUI.
package tree

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/gengpt/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/gengpt/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/gengpt/internal/adapters/driving/tui/styles"
)

// node is one entry in the tree. Children are read on first expand.
type node struct {
	path     string
	name     string
	dir      bool
	depth    int
	expanded bool
	loaded   bool
	children []*node
}

// Model is a navigable directory tree rooted at a single path.
type Model struct {
	root    *node
	visible []*node
	cursor  int
	offset  int

	styles *styles.Styles
	keymap *keymap.KeyMap

	width   int
	height  int
	focused bool
	err     error
}

// New creates a tree rooted at path with the root expanded.
func New(path string, s *styles.Styles, km *keymap.KeyMap) *Model {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	root := &node{path: path, name: filepath.Base(path), dir: true}
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		root.dir = false
	}

	m := &Model{
		root:   root,
		styles: s,
		keymap: km,
		width:  30,
		height: 20,
	}
	if root.dir {
		m.expand(root)
	}
	m.flatten()
	return m
}

// Init implements the component lifecycle.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles navigation keys while the tree has focus.
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || !m.focused {
		return m, nil
	}

	k := keyMsg.String()
	switch {
	case keymap.Matches(k, m.keymap.Up):
		m.move(-1)
	case keymap.Matches(k, m.keymap.Down):
		m.move(1)
	case keymap.Matches(k, m.keymap.Submit):
		return m, m.activate()
	}
	return m, nil
}

// activate toggles a directory or selects a file under the cursor.
func (m *Model) activate() tea.Cmd {
	n := m.current()
	if n == nil {
		return nil
	}
	if !n.dir {
		path := n.path
		return func() tea.Msg { return messages.PathSelected{Path: path} }
	}
	if n.expanded {
		n.expanded = false
	} else {
		m.expand(n)
	}
	m.flatten()
	return nil
}

func (m *Model) expand(n *node) {
	n.expanded = true
	if n.loaded {
		return
	}
	n.loaded = true
	n.children, m.err = readChildren(n)
}

// readChildren lists a directory with hidden entries removed,
// directories first and then by name.
func readChildren(parent *node) ([]*node, error) {
	entries, err := os.ReadDir(parent.path)
	if err != nil {
		return nil, err
	}

	children := make([]*node, 0, len(entries))
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".") {
			continue
		}
		children = append(children, &node{
			path:  filepath.Join(parent.path, e.Name()),
			name:  e.Name(),
			dir:   e.IsDir(),
			depth: parent.depth + 1,
		})
	}

	sort.SliceStable(children, func(i, j int) bool {
		if children[i].dir != children[j].dir {
			return children[i].dir
		}
		return children[i].name < children[j].name
	})
	return children, nil
}

// flatten rebuilds the list of rows currently shown.
func (m *Model) flatten() {
	m.visible = m.visible[:0]
	var walk func(n *node)
	walk = func(n *node) {
		m.visible = append(m.visible, n)
		if !n.expanded {
			return
		}
		for _, c := range n.children {
			walk(c)
		}
	}
	walk(m.root)

	if m.cursor >= len(m.visible) {
		m.cursor = len(m.visible) - 1
	}
	m.clampOffset()
}

func (m *Model) move(delta int) {
	m.cursor += delta
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor >= len(m.visible) {
		m.cursor = len(m.visible) - 1
	}
	m.clampOffset()
}

func (m *Model) clampOffset() {
	rows := m.rows()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+rows {
		m.offset = m.cursor - rows + 1
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

// rows is the number of entries that fit inside the frame.
func (m *Model) rows() int {
	r := m.height - 2
	if r < 1 {
		r = 1
	}
	return r
}

func (m *Model) current() *node {
	if m.cursor < 0 || m.cursor >= len(m.visible) {
		return nil
	}
	return m.visible[m.cursor]
}

// View renders the visible window of the tree inside a pane frame.
func (m *Model) View() string {
	end := m.offset + m.rows()
	if end > len(m.visible) {
		end = len(m.visible)
	}

	lines := make([]string, 0, end-m.offset)
	for i := m.offset; i < end; i++ {
		lines = append(lines, m.renderRow(i))
	}

	return m.styles.Frame(m.focused).
		Width(m.width - 2).
		Height(m.rows()).
		Render(strings.Join(lines, "\n"))
}

func (m *Model) renderRow(i int) string {
	n := m.visible[i]
	indent := strings.Repeat("  ", n.depth)

	var label string
	if n.dir {
		marker := "▸ "
		if n.expanded {
			marker = "▾ "
		}
		label = indent + marker + n.name
	} else {
		label = indent + "  " + n.name
	}

	if maxWidth := m.width - 4; maxWidth > 1 && len([]rune(label)) > maxWidth {
		label = string([]rune(label)[:maxWidth-1]) + "…"
	}

	switch {
	case i == m.cursor && m.focused:
		return m.styles.Selected.Render(label)
	case n.dir:
		return m.styles.Directory.Render(label)
	default:
		return m.styles.File.Render(label)
	}
}

// Focus gives the tree keyboard focus.
func (m *Model) Focus() {
	m.focused = true
}

// Blur removes keyboard focus.
func (m *Model) Blur() {
	m.focused = false
}

// Focused returns whether the tree has focus.
func (m *Model) Focused() bool {
	return m.focused
}

// SetSize sets the outer width and height of the pane.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.clampOffset()
}

// Root returns the path the tree is rooted at.
func (m *Model) Root() string {
	return m.root.path
}

// Cursor returns the path under the cursor.
func (m *Model) Cursor() string {
	if n := m.current(); n != nil {
		return n.path
	}
	return ""
}

// Entries returns the paths of all visible rows in display order.
func (m *Model) Entries() []string {
	paths := make([]string, len(m.visible))
	for i, n := range m.visible {
		paths[i] = n.path
	}
	return paths
}

// Err returns the last directory read error.
func (m *Model) Err() error {
	return m.err
}
