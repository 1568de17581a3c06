package graph

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Semantic node ranks.
const (
	LevelProject  = 0
	LevelCategory = 1
	LevelResource = 2
	LevelTable    = 3
)

// MaxLevel is the deepest recognized rank.
const MaxLevel = LevelTable

// =============================================================================
// Graph
// =============================================================================

// Graph is the raw node/edge payload of a snapshot.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Valid reports whether both nodes and edges are non-empty.
func (g Graph) Valid() bool {
	return len(g.Nodes) > 0 && len(g.Edges) > 0
}

// =============================================================================
// Node
// =============================================================================

// Node is a single cloud resource as captured in a snapshot.
type Node struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Level *Level `json:"level,omitempty"`
	Size  Size   `json:"size"`
	Color string `json:"color"`
	Group string `json:"group,omitempty"`
	Title string `json:"title,omitempty"` // pre-rendered tooltip
}

// DisplayLabel returns the label if set, otherwise the ID.
func (n *Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// =============================================================================
// Edge
// =============================================================================

// Edge is a directed "contains" or "relates-to" link from Source to Target.
type Edge struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Label  string `json:"label,omitempty"`
	Color  string `json:"color,omitempty"`
}

// =============================================================================
// Level
// =============================================================================

// Level is a node rank as found in the snapshot. A nil *Level means the field
// was missing or null. Integral numbers and numeric strings decode to a rank;
// values outside 0..MaxLevel and non-numeric values are kept but reported as
// unrecognized by [Level.Int].
type Level struct {
	value int
	known bool
	raw   json.RawMessage // original bytes when not an integer
}

// L returns a level holding rank n.
func L(n int) *Level {
	return &Level{value: n, known: n >= 0 && n <= MaxLevel}
}

// Int returns the rank and whether it is a recognized level. It is safe to
// call on a nil *Level.
func (l *Level) Int() (int, bool) {
	if l == nil || !l.known {
		return 0, false
	}
	return l.value, true
}

// String returns the rank, the raw value, or "missing".
func (l *Level) String() string {
	switch {
	case l == nil:
		return "missing"
	case l.raw != nil:
		return string(l.raw)
	default:
		return strconv.Itoa(l.value)
	}
}

// MarshalJSON writes the rank as a number, or the original bytes for values
// that were not integers.
func (l Level) MarshalJSON() ([]byte, error) {
	if l.raw != nil {
		return l.raw, nil
	}
	return []byte(strconv.Itoa(l.value)), nil
}

// UnmarshalJSON accepts integral numbers (2, 2.0) and numeric strings ("2").
// Anything else is retained verbatim and never fails decoding.
func (l *Level) UnmarshalJSON(data []byte) error {
	*l = Level{}
	text := strings.TrimSpace(string(data))
	if unq, err := strconv.Unquote(text); err == nil {
		text = strings.TrimSpace(unq)
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || f != math.Trunc(f) || math.IsInf(f, 0) {
		l.raw = append(json.RawMessage(nil), bytes.TrimSpace(data)...)
		return nil
	}
	l.value = int(f)
	l.known = l.value >= 0 && l.value <= MaxLevel
	return nil
}

// =============================================================================
// Size
// =============================================================================

// Size is a node's visual size. Values JSON cannot represent (NaN, ±Inf) are
// written as their string form instead of failing the whole snapshot.
type Size float64

// MarshalJSON implements json.Marshaler.
func (s Size) MarshalJSON() ([]byte, error) {
	f := float64(s)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return []byte(strconv.Quote(strconv.FormatFloat(f, 'g', -1, 64))), nil
	}
	return []byte(strconv.FormatFloat(f, 'g', -1, 64)), nil
}

// UnmarshalJSON accepts numbers and numeric strings; other values decode to 0.
func (s *Size) UnmarshalJSON(data []byte) error {
	text := strings.TrimSpace(string(data))
	if unq, err := strconv.Unquote(text); err == nil {
		text = strings.TrimSpace(unq)
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		*s = 0
		return nil
	}
	*s = Size(f)
	return nil
}
