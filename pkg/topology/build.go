package topology

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/log"

	"github.com/andresvisco/medicus-mapa-arquitectura-interactivo/pkg/errors"
	"github.com/andresvisco/medicus-mapa-arquitectura-interactivo/pkg/graph"
)

// Option configures [Build].
type Option func(*builder)

// WithLevelPolicy sets the policy for nodes with a missing or unrecognized
// level. The default is [PolicyRoot].
func WithLevelPolicy(p LevelPolicy) Option {
	return func(b *builder) { b.policy = p }
}

// WithLogger sets the logger for diagnostics about dropped edges and
// duplicate ids.
func WithLogger(l *log.Logger) Option {
	return func(b *builder) {
		if l != nil {
			b.logger = l
		}
	}
}

type builder struct {
	policy LevelPolicy
	logger *log.Logger
}

// Build validates raw and derives the leveled model.
//
// A graph without nodes or without edges yields an EMPTY_GRAPH error with the
// message "no valid data" and no partial graph. Every other anomaly is
// recovered from and recorded in the [Report].
func Build(raw graph.Graph, opts ...Option) (*Graph, *Report, error) {
	b := builder{policy: PolicyRoot, logger: log.Default()}
	for _, opt := range opts {
		opt(&b)
	}

	if !raw.Valid() {
		return nil, nil, errors.New(errors.ErrCodeEmptyGraph, "no valid data")
	}

	report := &Report{}
	g := &Graph{
		Nodes:    make([]Node, 0, len(raw.Nodes)),
		index:    make(map[string]int, len(raw.Nodes)),
		edgeIdx:  make(map[string]int, len(raw.Edges)),
		outgoing: make(map[string][]int),
		children: make(map[string][]string),
		parents:  make(map[string][]string),
	}

	b.addNodes(g, raw.Nodes, report)
	b.addEdges(g, raw.Edges, report)
	decorate(g)

	return g, report, nil
}

func (b *builder) addNodes(g *Graph, nodes []graph.Node, report *Report) {
	for i := range nodes {
		rn := &nodes[i]
		if _, dup := g.index[rn.ID]; dup {
			report.Duplicates = append(report.Duplicates, rn.ID)
			b.logger.Warn("duplicate node id, keeping first", "id", rn.ID, "index", i)
			continue
		}

		n := Node{
			ID:       rn.ID,
			RawLabel: rn.Label,
			Size:     float64(rn.Size),
			Color:    rn.Color,
			Group:    rn.Group,
			Title:    rn.Title,
			RawLevel: rn.Level.String(),
		}
		if level, ok := rn.Level.Int(); ok {
			n.Level = level
		} else {
			n.Defaulted = true
			if b.policy == PolicyIsolate {
				n.Level = LevelUnknown
			} else {
				n.Level = graph.LevelProject
			}
			report.Defaulted = append(report.Defaulted, rn.ID)
			b.logger.Debug("node level defaulted", "id", rn.ID, "level", n.RawLevel, "policy", b.policy)
		}

		g.index[n.ID] = len(g.Nodes)
		g.Nodes = append(g.Nodes, n)
	}
}

func (b *builder) addEdges(g *Graph, edges []graph.Edge, report *Report) {
	g.Edges = make([]Edge, 0, len(edges))
	for i := range edges {
		re := &edges[i]
		src, srcOK := g.Node(re.Source)
		dst, dstOK := g.Node(re.Target)
		if !srcOK || !dstOK {
			d := DroppedEdge{Index: i, Source: re.Source, Target: re.Target}
			if !srcOK {
				d.Missing = append(d.Missing, re.Source)
			}
			if !dstOK && re.Target != re.Source {
				d.Missing = append(d.Missing, re.Target)
			}
			report.Dropped = append(report.Dropped, d)
			b.logger.Warn("dropping edge with unresolved endpoint",
				"index", i, "source", re.Source, "target", re.Target)
			continue
		}

		e := Edge{
			ID:             "e" + strconv.Itoa(len(g.Edges)),
			Source:         re.Source,
			Target:         re.Target,
			Label:          re.Label,
			Title:          re.Label,
			Color:          re.Color,
			InitialVisible: dst.Level != graph.LevelResource && dst.Level != graph.LevelTable,
		}
		if e.Color == "" {
			e.Color = DefaultEdgeColor
		}
		if e.Title == "" {
			e.Title = "Connection"
		}

		g.edgeIdx[e.ID] = len(g.Edges)
		g.outgoing[e.Source] = append(g.outgoing[e.Source], len(g.Edges))
		g.Edges = append(g.Edges, e)

		if isChildLevel(src.Level, dst.Level) && !g.IsChild(src.ID, dst.ID) {
			g.children[src.ID] = append(g.children[src.ID], dst.ID)
			g.parents[dst.ID] = append(g.parents[dst.ID], src.ID)
		}
	}

	if len(g.Edges) == 0 {
		b.logger.Warn("every edge was dropped; graph has nodes only", "dropped", len(report.Dropped))
	}
}

// isChildLevel reports whether a node at level child sits exactly one rank
// below parent. The unknown bucket has no children and no parents.
func isChildLevel(parent, child int) bool {
	return parent >= graph.LevelProject && child <= graph.MaxLevel && child == parent+1
}

func decorate(g *Graph) {
	for i := range g.Nodes {
		n := &g.Nodes[i]
		if n.Clickable() {
			n.ChildCount = len(g.children[n.ID])
		}

		label := n.RawLabel
		if label == "" {
			label = n.ID
		}
		if n.ChildCount > 0 {
			label = fmt.Sprintf("%s [%d]", label, n.ChildCount)
		}
		n.Label = label

		n.Title = tooltip(n)
		n.InitialVisible = n.Level == graph.LevelProject ||
			n.Level == graph.LevelCategory ||
			n.Level == LevelUnknown
	}
}

func tooltip(n *Node) string {
	title := n.Title
	if title == "" {
		group := n.Group
		if group == "" {
			group = "N/A"
		}
		switch n.Level {
		case graph.LevelProject:
			title = "Project: " + n.ID
		case graph.LevelCategory:
			title = "Category: " + group + "<br>ID: " + n.ID
		case graph.LevelResource:
			title = "Resource: " + group + "<br>ID: " + n.ID
		case graph.LevelTable:
			title = "Table: " + group + "<br>ID: " + n.ID
		default:
			title = "Node: " + group + "<br>ID: " + n.ID
		}
	}

	if n.Level == LevelUnknown {
		title += "<br>Level unknown (" + n.RawLevel + ")"
	}

	if n.ChildCount > 0 {
		switch n.Level {
		case graph.LevelCategory:
			title += fmt.Sprintf("<br><br>Click to expand (%d items)", n.ChildCount)
		case graph.LevelResource:
			title += fmt.Sprintf("<br><br>Click to expand (%d tables)", n.ChildCount)
		}
	}
	return title
}
