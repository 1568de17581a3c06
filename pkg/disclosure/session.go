package disclosure

import (
	"github.com/andresvisco/medicus-mapa-arquitectura-interactivo/pkg/graph"
	"github.com/andresvisco/medicus-mapa-arquitectura-interactivo/pkg/topology"
)

// Change lists the visibility flips caused by one operation. Ids are in graph
// order.
type Change struct {
	Shown       []string // nodes that became visible
	Hidden      []string // nodes that became hidden
	ShownEdges  []string
	HiddenEdges []string

	Expanded  []string // nodes added to the expanded set
	Collapsed []string // nodes removed, deepest first
}

// Empty reports whether nothing changed.
func (c Change) Empty() bool {
	return len(c.Shown) == 0 && len(c.Hidden) == 0 &&
		len(c.ShownEdges) == 0 && len(c.HiddenEdges) == 0 &&
		len(c.Expanded) == 0 && len(c.Collapsed) == 0
}

// Canvas is a visual model whose visibility a session can drive.
type Canvas interface {
	SetNodeHidden(id string, hidden bool)
	SetEdgeHidden(id string, hidden bool)
}

// Session is the expansion state for one loaded graph.
type Session struct {
	g        *topology.Graph
	expanded map[string]bool
	nodes    map[string]bool // visible node ids
	edges    map[string]bool // visible edge ids
}

// NewSession starts a session with nothing expanded.
func NewSession(g *topology.Graph) *Session {
	s := &Session{g: g, expanded: make(map[string]bool)}
	s.nodes, s.edges = s.derive()
	return s
}

// Graph returns the graph the session was created for.
func (s *Session) Graph() *topology.Graph { return s.g }

// Clickable reports whether clicking id would toggle it: the node exists, is
// visible and is a category or resource.
func (s *Session) Clickable(id string) bool {
	n, ok := s.g.Node(id)
	return ok && n.Clickable() && s.nodes[id]
}

// Click toggles id. It reports false and changes nothing when id is not
// clickable.
func (s *Session) Click(id string) (Change, bool) {
	if !s.Clickable(id) {
		return Change{}, false
	}
	if s.expanded[id] {
		return s.Collapse(id)
	}
	return s.Expand(id)
}

// Expand reveals the direct children of id and the edges leading to them.
// It reports false when id is not clickable or already expanded.
func (s *Session) Expand(id string) (Change, bool) {
	if !s.Clickable(id) || s.expanded[id] {
		return Change{}, false
	}
	s.expanded[id] = true
	ch := s.update()
	ch.Expanded = []string{id}
	return ch, true
}

// Collapse hides the subtree revealed through id. Expanded descendants that
// lose their last visible expanded parent are collapsed as well, deepest
// first. It reports false when id is not expanded.
func (s *Session) Collapse(id string) (Change, bool) {
	if !s.expanded[id] {
		return Change{}, false
	}
	delete(s.expanded, id)
	ch := s.update()
	ch.Collapsed = append(ch.Collapsed, id)
	return ch, true
}

// Reset collapses everything.
func (s *Session) Reset() Change {
	collapsed := s.orderedExpanded(true)
	clear(s.expanded)
	ch := s.update()
	ch.Collapsed = collapsed
	return ch
}

// ExpandAll expands every clickable node that has children, top down.
func (s *Session) ExpandAll() Change {
	var all Change
	for {
		progressed := false
		for i := range s.g.Nodes {
			n := &s.g.Nodes[i]
			if n.ChildCount == 0 || s.expanded[n.ID] || !s.Clickable(n.ID) {
				continue
			}
			ch, _ := s.Expand(n.ID)
			all = merge(all, ch)
			progressed = true
		}
		if !progressed {
			return all
		}
	}
}

// Visible reports whether node id is visible.
func (s *Session) Visible(id string) bool { return s.nodes[id] }

// EdgeVisible reports whether edge id is visible.
func (s *Session) EdgeVisible(id string) bool { return s.edges[id] }

// IsExpanded reports whether id is in the expanded set.
func (s *Session) IsExpanded(id string) bool { return s.expanded[id] }

// Expanded returns the expanded set in graph order.
func (s *Session) Expanded() []string { return s.orderedExpanded(false) }

// VisibleNodes returns the visible node ids in graph order.
func (s *Session) VisibleNodes() []string {
	ids := make([]string, 0, len(s.nodes))
	for i := range s.g.Nodes {
		if s.nodes[s.g.Nodes[i].ID] {
			ids = append(ids, s.g.Nodes[i].ID)
		}
	}
	return ids
}

// VisibleEdges returns the visible edge ids in graph order.
func (s *Session) VisibleEdges() []string {
	ids := make([]string, 0, len(s.edges))
	for i := range s.g.Edges {
		if s.edges[s.g.Edges[i].ID] {
			ids = append(ids, s.g.Edges[i].ID)
		}
	}
	return ids
}

// Paint sets the visibility of every node and edge on c.
func (s *Session) Paint(c Canvas) {
	for i := range s.g.Nodes {
		c.SetNodeHidden(s.g.Nodes[i].ID, !s.nodes[s.g.Nodes[i].ID])
	}
	for i := range s.g.Edges {
		c.SetEdgeHidden(s.g.Edges[i].ID, !s.edges[s.g.Edges[i].ID])
	}
}

// Apply replays ch on c.
func (s *Session) Apply(c Canvas, ch Change) {
	for _, id := range ch.Shown {
		c.SetNodeHidden(id, false)
	}
	for _, id := range ch.ShownEdges {
		c.SetEdgeHidden(id, false)
	}
	for _, id := range ch.HiddenEdges {
		c.SetEdgeHidden(id, true)
	}
	for _, id := range ch.Hidden {
		c.SetNodeHidden(id, true)
	}
}

// update re-derives visibility, prunes expanded nodes that became hidden and
// returns the difference.
func (s *Session) update() Change {
	nodes, edges := s.derive()

	var ch Change
	// Hidden expanded nodes never contribute to visibility, so pruning them
	// does not require another derivation.
	for _, id := range s.orderedExpanded(true) {
		if !nodes[id] {
			delete(s.expanded, id)
			ch.Collapsed = append(ch.Collapsed, id)
		}
	}

	for i := range s.g.Nodes {
		id := s.g.Nodes[i].ID
		switch was, is := s.nodes[id], nodes[id]; {
		case is && !was:
			ch.Shown = append(ch.Shown, id)
		case was && !is:
			ch.Hidden = append(ch.Hidden, id)
		}
	}
	for i := range s.g.Edges {
		id := s.g.Edges[i].ID
		switch was, is := s.edges[id], edges[id]; {
		case is && !was:
			ch.ShownEdges = append(ch.ShownEdges, id)
		case was && !is:
			ch.HiddenEdges = append(ch.HiddenEdges, id)
		}
	}

	s.nodes, s.edges = nodes, edges
	return ch
}

// derive computes the visible node and edge sets from the expanded set.
func (s *Session) derive() (map[string]bool, map[string]bool) {
	nodes := make(map[string]bool, len(s.g.Nodes))
	var queue []string
	for i := range s.g.Nodes {
		n := &s.g.Nodes[i]
		if alwaysVisible(n) {
			nodes[n.ID] = true
			queue = append(queue, n.ID)
		}
	}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if !s.expanded[id] {
			continue
		}
		for _, child := range s.g.Children(id) {
			if !nodes[child] {
				nodes[child] = true
				queue = append(queue, child)
			}
		}
	}

	edges := make(map[string]bool, len(s.g.Edges))
	for i := range s.g.Edges {
		e := &s.g.Edges[i]
		if !nodes[e.Source] || !nodes[e.Target] {
			continue
		}
		if e.InitialVisible || (s.expanded[e.Source] && s.g.IsDirect(e)) {
			edges[e.ID] = true
		}
	}
	return nodes, edges
}

// orderedExpanded returns the expanded set in graph order, or deepest level
// first when deepestFirst is set.
func (s *Session) orderedExpanded(deepestFirst bool) []string {
	var ids []string
	if !deepestFirst {
		for i := range s.g.Nodes {
			if s.expanded[s.g.Nodes[i].ID] {
				ids = append(ids, s.g.Nodes[i].ID)
			}
		}
		return ids
	}
	for level := graph.MaxLevel; level >= graph.LevelProject; level-- {
		for i := range s.g.Nodes {
			n := &s.g.Nodes[i]
			if n.Level == level && s.expanded[n.ID] {
				ids = append(ids, n.ID)
			}
		}
	}
	return ids
}

func alwaysVisible(n *topology.Node) bool {
	return n.Level == graph.LevelProject || n.Level == graph.LevelCategory || n.Unknown()
}

func merge(a, b Change) Change {
	a.Shown = append(a.Shown, b.Shown...)
	a.Hidden = append(a.Hidden, b.Hidden...)
	a.ShownEdges = append(a.ShownEdges, b.ShownEdges...)
	a.HiddenEdges = append(a.HiddenEdges, b.HiddenEdges...)
	a.Expanded = append(a.Expanded, b.Expanded...)
	a.Collapsed = append(a.Collapsed, b.Collapsed...)
	return a
}
