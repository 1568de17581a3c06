package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/andresvisco/medicus-mapa-arquitectura-interactivo/pkg/disclosure"
	"github.com/andresvisco/medicus-mapa-arquitectura-interactivo/pkg/graph"
	"github.com/andresvisco/medicus-mapa-arquitectura-interactivo/pkg/snapshot"
	"github.com/andresvisco/medicus-mapa-arquitectura-interactivo/pkg/topology"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// SnapshotListModel - Interactive snapshot selection
// =============================================================================

// SnapshotListModel is the bubbletea model for picking a snapshot from the
// catalog.
type SnapshotListModel struct {
	Entries  []snapshot.Entry
	Cursor   int
	Selected *snapshot.Entry
	Height   int
	Offset   int
}

// NewSnapshotListModel creates a new snapshot list model.
func NewSnapshotListModel(entries []snapshot.Entry) SnapshotListModel {
	return SnapshotListModel{
		Entries: entries,
		Height:  15,
	}
}

func (m SnapshotListModel) Init() tea.Cmd {
	return nil
}

func (m SnapshotListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Entries)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Entries) == 0 {
				return m, tea.Quit
			}
			entry := m.Entries[m.Cursor]
			m.Selected = &entry
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-6, 5)
	}
	return m, nil
}

func (m SnapshotListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Snapshot"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Entries))

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		e := m.Entries[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{cursor, e.ProjectID, e.Modified(), fmt.Sprintf("%.2f KB", e.SizeKB)})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Project", "Modified", "Size").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleTableHdr
			}
			if m.Offset+row == m.Cursor {
				if col == 1 {
					return lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
				}
				return lipgloss.NewStyle().Foreground(colorGray).Bold(true)
			}
			if col == 1 {
				return listNormalStyle
			}
			return listDimStyle
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Entries))))

	return b.String()
}

// =============================================================================
// ExploreModel - Progressive disclosure in the terminal
// =============================================================================

// treeRow is one line of the explorer: a visible node at an indentation depth.
// A node shared by two expanded parents appears under both.
type treeRow struct {
	id    string
	depth int
}

// ExploreModel is the bubbletea model that drives a disclosure session from
// the keyboard. It renders the visible graph as an indented tree.
type ExploreModel struct {
	Session  *disclosure.Session
	Project  string
	Captured string

	rows   []treeRow
	cursor int
	offset int
	height int
	status string
}

// NewExploreModel creates an explorer over s.
func NewExploreModel(s *disclosure.Session, project, captured string) ExploreModel {
	m := ExploreModel{
		Session:  s,
		Project:  project,
		Captured: captured,
		height:   20,
	}
	m.rows = treeRows(s)
	return m
}

func (m ExploreModel) Init() tea.Cmd {
	return nil
}

func (m ExploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			m.move(-1)
		case "down", "j":
			m.move(1)
		case "pgup":
			m.move(-m.height)
		case "pgdown":
			m.move(m.height)
		case "home", "g":
			m.move(-len(m.rows))
		case "end", "G":
			m.move(len(m.rows))
		case "enter", " ":
			m.toggle()
		case "e":
			ch := m.Session.ExpandAll()
			m.refresh(m.current())
			m.status = fmt.Sprintf("expanded everything: +%d nodes", len(ch.Shown))
		case "r":
			ch := m.Session.Reset()
			m.refresh(m.current())
			m.status = fmt.Sprintf("back to the initial view: -%d nodes", len(ch.Hidden))
		}
	case tea.WindowSizeMsg:
		m.height = max(msg.Height-8, 5)
		m.move(0)
	}
	return m, nil
}

// toggle clicks the node under the cursor.
func (m *ExploreModel) toggle() {
	id := m.current()
	if id == "" {
		return
	}
	n, _ := m.Session.Graph().Node(id)
	ch, changed := m.Session.Click(id)
	switch {
	case !changed && !m.Session.Clickable(id):
		m.status = fmt.Sprintf("%s cannot be expanded", n.RawLabel)
	case !changed:
		m.status = fmt.Sprintf("%s has nothing below it", n.RawLabel)
	case len(ch.Expanded) > 0:
		m.status = fmt.Sprintf("expanded %s: +%d nodes", n.RawLabel, len(ch.Shown))
	default:
		m.status = fmt.Sprintf("collapsed %s: -%d nodes", n.RawLabel, len(ch.Hidden))
	}
	m.refresh(id)
}

// refresh rebuilds the rows and keeps the cursor on id when it is still shown.
func (m *ExploreModel) refresh(id string) {
	m.rows = treeRows(m.Session)
	for i, r := range m.rows {
		if r.id == id {
			m.cursor = i
			break
		}
	}
	m.move(0)
}

// move shifts the cursor by delta rows, clamped, and scrolls the window.
func (m *ExploreModel) move(delta int) {
	m.cursor = max(min(m.cursor+delta, len(m.rows)-1), 0)
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.height {
		m.offset = m.cursor - m.height + 1
	}
}

func (m ExploreModel) current() string {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return ""
	}
	return m.rows[m.cursor].id
}

func (m ExploreModel) View() string {
	var b strings.Builder
	g := m.Session.Graph()

	b.WriteString(StyleTitle.Render(m.Project))
	if m.Captured != "" {
		b.WriteString(listDimStyle.Render("  captured " + m.Captured))
	}
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ expand/collapse  e expand all  r reset  q quit"))
	b.WriteString("\n\n")

	end := min(m.offset+m.height, len(m.rows))
	for i := m.offset; i < end; i++ {
		r := m.rows[i]
		n, _ := g.Node(r.id)

		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		line := cursor + strings.Repeat("  ", r.depth) + m.marker(n) + " "
		label := n.Label
		switch {
		case i == m.cursor:
			label = listSelectedStyle.Render(label)
		case n.Color != "":
			label = lipgloss.NewStyle().Foreground(lipgloss.Color(n.Color)).Render(label)
		default:
			label = listNormalStyle.Render(label)
		}
		b.WriteString(line + label + listDimStyle.Render("  "+topology.LevelName(n.Level)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	visible := len(m.Session.VisibleNodes())
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d] · %d/%d nodes · %d edges · %d expanded",
		m.cursor+1, len(m.rows), visible, len(g.Nodes), len(m.Session.VisibleEdges()), len(m.Session.Expanded()))))
	b.WriteString("\n")
	if id := m.current(); id != "" {
		n, _ := g.Node(id)
		b.WriteString("  " + StyleValue.Render(plainTooltip(n.Title)))
		b.WriteString("\n")
	}
	if m.status != "" {
		b.WriteString("  " + StyleHighlight.Render(m.status))
		b.WriteString("\n")
	}
	return b.String()
}

// marker shows whether a node can be expanded and whether it is.
func (m ExploreModel) marker(n *topology.Node) string {
	switch {
	case !n.Clickable() || n.ChildCount == 0:
		return listDimStyle.Render(" •")
	case m.Session.IsExpanded(n.ID):
		return StyleHighlight.Render("[-]")
	default:
		return StyleHighlight.Render("[+]")
	}
}

// treeRows lays out the visible nodes as a forest. Roots are the project
// nodes, the unknown bucket and categories without a project; below a node
// come its visible children when it is the project or is expanded.
func treeRows(s *disclosure.Session) []treeRow {
	g := s.Graph()
	var rows []treeRow

	var walk func(id string, depth int)
	walk = func(id string, depth int) {
		rows = append(rows, treeRow{id: id, depth: depth})
		n, _ := g.Node(id)
		if n.Level != graph.LevelProject && !s.IsExpanded(id) {
			return
		}
		for _, child := range g.Children(id) {
			if s.Visible(child) {
				walk(child, depth+1)
			}
		}
	}

	for i := range g.Nodes {
		n := &g.Nodes[i]
		if s.Visible(n.ID) && isTreeRoot(g, n) {
			walk(n.ID, 0)
		}
	}
	return rows
}

func isTreeRoot(g *topology.Graph, n *topology.Node) bool {
	switch {
	case n.Level == graph.LevelProject, n.Unknown():
		return true
	case n.Level == graph.LevelCategory:
		return len(g.Parents(n.ID)) == 0
	default:
		return false
	}
}

// plainTooltip flattens an HTML tooltip for the terminal.
func plainTooltip(title string) string {
	return strings.NewReplacer("<br>", " · ", "<br/>", " · ", "<b>", "", "</b>", "").Replace(title)
}
