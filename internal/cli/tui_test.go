package cli

import (
	"io"
	"reflect"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/andresvisco/medicus-mapa-arquitectura-interactivo/pkg/disclosure"
	"github.com/andresvisco/medicus-mapa-arquitectura-interactivo/pkg/graph"
	"github.com/andresvisco/medicus-mapa-arquitectura-interactivo/pkg/snapshot"
	"github.com/andresvisco/medicus-mapa-arquitectura-interactivo/pkg/topology"
)

func sampleTopology(t *testing.T) *topology.Graph {
	t.Helper()
	node := func(id string, level int) graph.Node {
		return graph.Node{ID: id, Label: id, Level: graph.L(level), Title: "Node: " + id + "<br>Level " + string(rune('0'+level))}
	}
	raw := graph.Graph{
		Nodes: []graph.Node{
			node("p", 0),
			node("cat1", 1),
			node("cat2", 1),
			node("ds1", 2),
			node("t1", 3),
		},
		Edges: []graph.Edge{
			{Source: "p", Target: "cat1"},
			{Source: "p", Target: "cat2"},
			{Source: "cat1", Target: "ds1"},
			{Source: "ds1", Target: "t1"},
		},
	}
	g, _, err := topology.Build(raw, topology.WithLogger(log.New(io.Discard)))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return g
}

func key(s string) tea.KeyMsg {
	switch s {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func press(t *testing.T, m ExploreModel, keys ...string) ExploreModel {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(key(k))
		m = next.(ExploreModel)
	}
	return m
}

func rowIDs(m ExploreModel) []string {
	ids := make([]string, len(m.rows))
	for i, r := range m.rows {
		ids[i] = r.id
	}
	return ids
}

func TestExploreInitialRows(t *testing.T) {
	m := NewExploreModel(disclosure.NewSession(sampleTopology(t)), "demo", "2025-06-01 10:30:00")

	if got, want := rowIDs(m), []string{"p", "cat1", "cat2"}; !reflect.DeepEqual(got, want) {
		t.Errorf("rows = %v, want %v", got, want)
	}
	if m.rows[1].depth != 1 {
		t.Errorf("cat1 depth = %d, want 1", m.rows[1].depth)
	}
}

func TestExploreExpandCollapse(t *testing.T) {
	s := disclosure.NewSession(sampleTopology(t))
	m := NewExploreModel(s, "demo", "")

	m = press(t, m, "down", "enter")
	if got, want := rowIDs(m), []string{"p", "cat1", "ds1", "cat2"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("after expanding cat1 rows = %v, want %v", got, want)
	}
	if m.current() != "cat1" {
		t.Errorf("cursor on %q, want cat1", m.current())
	}
	if !strings.Contains(m.status, "expanded cat1") {
		t.Errorf("status = %q", m.status)
	}

	m = press(t, m, "down", "enter")
	if got, want := rowIDs(m), []string{"p", "cat1", "ds1", "t1", "cat2"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("after expanding ds1 rows = %v, want %v", got, want)
	}
	if m.rows[3].depth != 3 {
		t.Errorf("t1 depth = %d, want 3", m.rows[3].depth)
	}

	// Tables are not expandable.
	m = press(t, m, "down", "enter")
	if !strings.Contains(m.status, "cannot be expanded") {
		t.Errorf("status after clicking a table = %q", m.status)
	}
	if len(m.rows) != 5 {
		t.Errorf("clicking a table changed the rows: %v", rowIDs(m))
	}

	// Collapsing the category also collapses its expanded dataset.
	m = press(t, m, "up", "up", "enter")
	if got, want := rowIDs(m), []string{"p", "cat1", "cat2"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("after collapsing cat1 rows = %v, want %v", got, want)
	}
	if len(s.Expanded()) != 0 {
		t.Errorf("Expanded() = %v, want none", s.Expanded())
	}
}

func TestExploreExpandAllAndReset(t *testing.T) {
	s := disclosure.NewSession(sampleTopology(t))
	m := NewExploreModel(s, "demo", "")

	m = press(t, m, "e")
	if len(m.rows) != 5 {
		t.Errorf("expand all rows = %v, want every node", rowIDs(m))
	}

	m = press(t, m, "r")
	if got, want := rowIDs(m), []string{"p", "cat1", "cat2"}; !reflect.DeepEqual(got, want) {
		t.Errorf("after reset rows = %v, want %v", got, want)
	}
}

func TestExploreCursorClamp(t *testing.T) {
	m := NewExploreModel(disclosure.NewSession(sampleTopology(t)), "demo", "")

	m = press(t, m, "up", "up")
	if m.cursor != 0 {
		t.Errorf("cursor = %d, want 0", m.cursor)
	}
	m = press(t, m, "down", "down", "down", "down")
	if m.cursor != len(m.rows)-1 {
		t.Errorf("cursor = %d, want last row %d", m.cursor, len(m.rows)-1)
	}
}

func TestExploreQuit(t *testing.T) {
	m := NewExploreModel(disclosure.NewSession(sampleTopology(t)), "demo", "")
	if _, cmd := m.Update(key("q")); cmd == nil {
		t.Error("q should return a quit command")
	}
}

func TestExploreView(t *testing.T) {
	m := NewExploreModel(disclosure.NewSession(sampleTopology(t)), "demo", "2025-06-01 10:30:00")
	view := m.View()

	for _, want := range []string{"demo", "2025-06-01 10:30:00", "cat1", "[+]", "category", "Node: p · Level 0"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}

func TestSnapshotListModel(t *testing.T) {
	entries := []snapshot.Entry{{ProjectID: "alpha"}, {ProjectID: "beta"}}
	m := NewSnapshotListModel(entries)

	next, _ := m.Update(key("down"))
	next, cmd := next.Update(key("enter"))
	got := next.(SnapshotListModel)

	if cmd == nil {
		t.Error("enter should quit the picker")
	}
	if got.Selected == nil || got.Selected.ProjectID != "beta" {
		t.Errorf("Selected = %+v, want beta", got.Selected)
	}
	if !strings.Contains(got.View(), "alpha") {
		t.Error("View() should list every entry")
	}
}

func TestSnapshotListModelQuit(t *testing.T) {
	m := NewSnapshotListModel([]snapshot.Entry{{ProjectID: "alpha"}})
	next, cmd := m.Update(key("esc"))
	if cmd == nil {
		t.Error("esc should quit the picker")
	}
	if next.(SnapshotListModel).Selected != nil {
		t.Error("quitting should not select anything")
	}
}

func TestPlainTooltip(t *testing.T) {
	got := plainTooltip("<b>Node:</b> ds1<br>Tables: 2")
	if want := "Node: ds1 · Tables: 2"; got != want {
		t.Errorf("plainTooltip() = %q, want %q", got, want)
	}
}
