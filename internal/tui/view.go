package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"evalgo.org/labops/internal/tree"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	cursorStyle = lipgloss.NewStyle().Reverse(true)
	moreStyle   = lipgloss.NewStyle().Faint(true)
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	paneStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

const (
	chromeHeight  = 6
	treeWidthPart = 2 // tree pane takes width/treeWidthPart
)

func (m *Model) treeHeight() int {
	return max(m.height-chromeHeight, 1)
}

func (m *Model) resize() {
	m.detail.Width = max(m.width-m.width/treeWidthPart-4, 10)
	m.detail.Height = m.treeHeight()
	m.input.Width = max(m.width-12, 10)
	m.scroll()
}

// scroll keeps the cursor inside the tree pane window.
func (m *Model) scroll() {
	h := m.treeHeight()
	switch {
	case m.cursor < m.offset:
		m.offset = m.cursor
	case m.cursor >= m.offset+h:
		m.offset = m.cursor - h + 1
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

// View renders the session.
func (m Model) View() string {
	left := paneStyle.Width(max(m.width/treeWidthPart-2, 10)).Render(m.treeView())
	right := paneStyle.Width(max(m.width-m.width/treeWidthPart-2, 10)).Render(m.detail.View())

	var b strings.Builder
	b.WriteString(titleStyle.Render("Lab Inventory"))
	b.WriteString("\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, right))
	b.WriteString("\n")
	if m.searching {
		b.WriteString(m.input.View())
	} else {
		b.WriteString(statusStyle.Render(m.status))
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(keys))
	return b.String()
}

func (m Model) treeView() string {
	if m.nav == nil || len(m.rows) == 0 {
		return "No racks loaded"
	}
	t := m.nav.Tree()
	end := min(m.offset+m.treeHeight(), len(m.rows))

	lines := make([]string, 0, end-m.offset)
	for i := m.offset; i < end; i++ {
		row := m.rows[i]
		n, ok := t.Node(row.ID)
		if !ok {
			continue
		}
		line := strings.Repeat("  ", row.Depth) + marker(n) + n.Label
		switch {
		case i == m.cursor:
			line = cursorStyle.Render(line)
		case n.Kind == tree.KindMore:
			line = moreStyle.Render(line)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func marker(n tree.Node) string {
	switch {
	case n.Kind == tree.KindHost || n.Kind == tree.KindMore:
		return "  "
	case len(n.Children) == 0:
		return "  "
	case n.Expanded:
		return "▾ "
	default:
		return "▸ "
	}
}
