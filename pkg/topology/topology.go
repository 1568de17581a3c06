package topology

import (
	"fmt"
	"slices"
	"strings"

	"github.com/andresvisco/medicus-mapa-arquitectura-interactivo/pkg/errors"
	"github.com/andresvisco/medicus-mapa-arquitectura-interactivo/pkg/graph"
)

// LevelUnknown is the bucket for nodes with a missing or unrecognized level
// under [PolicyIsolate].
const LevelUnknown = -1

// DefaultEdgeColor is used for edges without a color.
const DefaultEdgeColor = "#888888"

// LevelPolicy decides what happens to nodes whose level is missing or not
// one of 0..3.
type LevelPolicy int

const (
	// PolicyRoot assigns level 0.
	PolicyRoot LevelPolicy = iota
	// PolicyIsolate assigns [LevelUnknown].
	PolicyIsolate
)

// String returns the policy's config name.
func (p LevelPolicy) String() string {
	switch p {
	case PolicyIsolate:
		return "isolate"
	default:
		return "root"
	}
}

// ParseLevelPolicy parses a config name. The empty string is [PolicyRoot].
func ParseLevelPolicy(s string) (LevelPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "root":
		return PolicyRoot, nil
	case "isolate", "unknown":
		return PolicyIsolate, nil
	default:
		return PolicyRoot, errors.New(errors.ErrCodeInvalidInput,
			"unknown level policy %q (must be 'root' or 'isolate')", s)
	}
}

// LevelName returns a short human name for a level bucket.
func LevelName(level int) string {
	switch level {
	case graph.LevelProject:
		return "project"
	case graph.LevelCategory:
		return "category"
	case graph.LevelResource:
		return "resource"
	case graph.LevelTable:
		return "table"
	case LevelUnknown:
		return "unknown"
	default:
		return fmt.Sprintf("level %d", level)
	}
}

// Node is a decorated, renderer-ready node.
type Node struct {
	ID       string
	Label    string // display label, with the child count appended when non-zero
	RawLabel string // label as found in the snapshot
	Level    int    // 0..3 or LevelUnknown
	Size     float64
	Color    string
	Group    string
	Title    string // tooltip HTML

	ChildCount     int
	InitialVisible bool

	// Defaulted is set when the snapshot level was missing or unrecognized.
	Defaulted bool
	// RawLevel is the level as written in the snapshot ("missing" if absent).
	RawLevel string
}

// Clickable reports whether the node takes part in expand/collapse.
func (n *Node) Clickable() bool {
	return n.Level == graph.LevelCategory || n.Level == graph.LevelResource
}

// Unknown reports whether the node is in the unknown-level bucket.
func (n *Node) Unknown() bool { return n.Level == LevelUnknown }

// Edge is a resolved edge between two nodes of the same graph.
type Edge struct {
	ID     string // e0..eN in input order of the kept edges
	Source string
	Target string
	Label  string
	Title  string
	Color  string

	InitialVisible bool
}

// Graph is the output of [Build]. Nodes keep the input order (duplicates
// removed) and Edges keep the input order (dangling edges removed).
//
// Graph is read-only after Build and safe for concurrent readers.
type Graph struct {
	Nodes []Node
	Edges []Edge

	index    map[string]int   // node id -> position in Nodes
	edgeIdx  map[string]int   // edge id -> position in Edges
	outgoing map[string][]int // node id -> positions in Edges
	children map[string][]string
	parents  map[string][]string
}

// Node returns the node with the given id.
func (g *Graph) Node(id string) (*Node, bool) {
	i, ok := g.index[id]
	if !ok {
		return nil, false
	}
	return &g.Nodes[i], true
}

// Edge returns the edge with the given id.
func (g *Graph) Edge(id string) (*Edge, bool) {
	i, ok := g.edgeIdx[id]
	if !ok {
		return nil, false
	}
	return &g.Edges[i], true
}

// Outgoing returns the edges whose source is id, in input order.
func (g *Graph) Outgoing(id string) []*Edge {
	idx := g.outgoing[id]
	out := make([]*Edge, 0, len(idx))
	for _, i := range idx {
		out = append(out, &g.Edges[i])
	}
	return out
}

// Children returns the distinct direct children of id: targets of its edges
// that sit exactly one level deeper. Order follows the first edge to each.
func (g *Graph) Children(id string) []string {
	return slices.Clone(g.children[id])
}

// Parents returns the distinct nodes that have id as a direct child.
func (g *Graph) Parents(id string) []string {
	return slices.Clone(g.parents[id])
}

// IsChild reports whether child is a direct child of parent.
func (g *Graph) IsChild(parent, child string) bool {
	return slices.Contains(g.children[parent], child)
}

// IsDirect reports whether e connects a node to one of its direct children.
func (g *Graph) IsDirect(e *Edge) bool {
	return g.IsChild(e.Source, e.Target)
}

// Levels returns the number of nodes per level bucket.
func (g *Graph) Levels() map[int]int {
	counts := make(map[int]int)
	for i := range g.Nodes {
		counts[g.Nodes[i].Level]++
	}
	return counts
}

// Stats summarizes a built graph.
type Stats struct {
	Nodes          int
	Edges          int
	ByLevel        map[int]int
	InitialNodes   int // nodes visible before any interaction
	InitialEdges   int
	Expandable     int // clickable nodes with at least one child
	UnknownBucket  int
	MaxChildren    int
	MaxChildrenFor string
}

// Stats computes summary counts.
func (g *Graph) Stats() Stats {
	s := Stats{
		Nodes:   len(g.Nodes),
		Edges:   len(g.Edges),
		ByLevel: g.Levels(),
	}
	for i := range g.Nodes {
		n := &g.Nodes[i]
		if n.InitialVisible {
			s.InitialNodes++
		}
		if n.Clickable() && n.ChildCount > 0 {
			s.Expandable++
		}
		if n.Unknown() {
			s.UnknownBucket++
		}
		if n.ChildCount > s.MaxChildren {
			s.MaxChildren = n.ChildCount
			s.MaxChildrenFor = n.ID
		}
	}
	for i := range g.Edges {
		if g.Edges[i].InitialVisible {
			s.InitialEdges++
		}
	}
	return s
}
