package network

import (
	"bytes"
	"encoding/json"
	"html/template"
	"math"

	"github.com/google/uuid"

	"github.com/andresvisco/medicus-mapa-arquitectura-interactivo/pkg/disclosure"
	"github.com/andresvisco/medicus-mapa-arquitectura-interactivo/pkg/errors"
	"github.com/andresvisco/medicus-mapa-arquitectura-interactivo/pkg/topology"
)

// defaultNodeSize replaces sizes that JSON cannot carry.
const defaultNodeSize = 25

type visNode struct {
	ID        string  `json:"id"`
	Label     string  `json:"label"`
	Title     string  `json:"title,omitempty"`
	Size      float64 `json:"size"`
	Color     string  `json:"color,omitempty"`
	Group     string  `json:"group,omitempty"`
	Level     int     `json:"level"`
	Hidden    bool    `json:"hidden"`
	Physics   bool    `json:"physics"`
	Clickable bool    `json:"clickable"`

	ShapeProperties *shapeProperties `json:"shapeProperties,omitempty"`
}

type shapeProperties struct {
	BorderDashes []int `json:"borderDashes"`
}

type visEdge struct {
	ID     string `json:"id"`
	From   string `json:"from"`
	To     string `json:"to"`
	Label  string `json:"label,omitempty"`
	Title  string `json:"title,omitempty"`
	Color  string `json:"color"`
	Arrows string `json:"arrows"`
	Hidden bool   `json:"hidden"`

	Initial bool `json:"initial"` // initially visible before endpoint checks
	Direct  bool `json:"direct"`  // leads to a direct child of its source
}

type payload struct {
	Container string              `json:"container"`
	Nodes     []visNode           `json:"nodes"`
	Edges     []visEdge           `json:"edges"`
	Children  map[string][]string `json:"children"`
	Options   visOptions          `json:"options"`
}

type visOptions struct {
	Nodes       map[string]any `json:"nodes"`
	Edges       map[string]any `json:"edges"`
	Interaction map[string]any `json:"interaction"`
	Physics     map[string]any `json:"physics"`
}

func buildOptions(o Options) visOptions {
	p := o.Physics
	return visOptions{
		Nodes: map[string]any{
			"shape":       "dot",
			"borderWidth": 2,
			"font":        map[string]any{"color": o.FontColor, "size": 14},
		},
		Edges: map[string]any{
			"arrows": map[string]any{"to": map[string]any{"enabled": true, "scaleFactor": 0.8}},
			"smooth": map[string]any{"type": "continuous"},
			"font":   map[string]any{"size": 12, "color": "#666666"},
			"width":  2,
		},
		Interaction: map[string]any{
			"hover":        true,
			"tooltipDelay": 100,
			"zoomView":     true,
			"dragView":     true,
		},
		Physics: map[string]any{
			"enabled": p.Enabled,
			"solver":  "barnesHut",
			"barnesHut": map[string]any{
				"gravitationalConstant": p.GravitationalConstant,
				"centralGravity":        p.CentralGravity,
				"springLength":          p.SpringLength,
				"springConstant":        p.SpringConstant,
				"damping":               p.Damping,
				"avoidOverlap":          p.AvoidOverlap,
			},
			"minVelocity": p.MinVelocity,
			"stabilization": map[string]any{
				"enabled":        true,
				"iterations":     p.Iterations,
				"updateInterval": p.UpdateInterval,
			},
		},
	}
}

// buildPayload converts g into vis-network data. Initial hidden flags come
// from a fresh disclosure session so the page starts in the same state as
// every other renderer.
func buildPayload(g *topology.Graph, o Options, container string) payload {
	s := disclosure.NewSession(g)
	p := payload{
		Container: container,
		Nodes:     make([]visNode, 0, len(g.Nodes)),
		Edges:     make([]visEdge, 0, len(g.Edges)),
		Children:  make(map[string][]string),
		Options:   buildOptions(o),
	}

	for i := range g.Nodes {
		n := &g.Nodes[i]
		size := n.Size
		if math.IsNaN(size) || math.IsInf(size, 0) {
			size = defaultNodeSize
		}
		vn := visNode{
			ID:        n.ID,
			Label:     n.Label,
			Title:     n.Title,
			Size:      size,
			Color:     n.Color,
			Group:     n.Group,
			Level:     n.Level,
			Hidden:    !s.Visible(n.ID),
			Physics:   true,
			Clickable: n.Clickable(),
		}
		if n.Unknown() {
			vn.ShapeProperties = &shapeProperties{BorderDashes: []int{5, 5}}
		}
		p.Nodes = append(p.Nodes, vn)

		if kids := g.Children(n.ID); n.Clickable() && len(kids) > 0 {
			p.Children[n.ID] = kids
		}
	}

	for i := range g.Edges {
		e := &g.Edges[i]
		p.Edges = append(p.Edges, visEdge{
			ID:      e.ID,
			From:    e.Source,
			To:      e.Target,
			Label:   e.Label,
			Title:   e.Title,
			Color:   e.Color,
			Arrows:  "to",
			Hidden:  !s.EdgeVisible(e.ID),
			Initial: e.InitialVisible,
			Direct:  g.IsDirect(e),
		})
	}
	return p
}

var page = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<script src="{{.CDN}}"></script>
<style>
  body { margin: 0; background: {{.Background}}; color: {{.FontColor}}; font-family: sans-serif; }
  h3 { margin: 8px 12px; font-weight: normal; }
  .gcpmap-canvas { width: {{.Width}}; height: {{.Height}}; background: {{.Background}}; }
  div.vis-tooltip { max-width: 360px; white-space: normal; font-size: 13px; }
</style>
</head>
<body>
{{- if .Heading}}
<h3>{{.Heading}}</h3>
{{- end}}
<div id="{{.Container}}" class="gcpmap-canvas"></div>
<script type="application/json" id="{{.DataID}}">{{.Data}}</script>
<script>
{{.Script}}
gcpmapDisclosure(JSON.parse(document.getElementById({{.DataID}}).textContent));
</script>
</body>
</html>
`))

type pageData struct {
	Title      string
	Heading    string
	CDN        string
	Background string
	FontColor  string
	Width      string
	Height     string
	Container  string
	DataID     string
	Data       template.JS
	Script     template.JS
}

// Render produces the interactive HTML document for g.
func Render(g *topology.Graph, opts Options) ([]byte, error) {
	if g == nil {
		return nil, errors.New(errors.ErrCodeRenderWrite, "nothing to render")
	}
	opts = opts.withDefaults()

	container := "gcpmap-" + uuid.NewString()
	data, err := json.Marshal(buildPayload(g, opts, container))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderWrite, err, "encode graph data")
	}

	title := opts.Heading
	if title == "" {
		title = "gcpmap"
	}

	var buf bytes.Buffer
	err = page.Execute(&buf, pageData{
		Title:      title,
		Heading:    opts.Heading,
		CDN:        opts.CDN,
		Background: opts.Background,
		FontColor:  opts.FontColor,
		Width:      opts.Width,
		Height:     opts.Height,
		Container:  container,
		DataID:     container + "-data",
		Data:       template.JS(data),
		Script:     template.JS(disclosureJS),
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderWrite, err, "execute page template")
	}
	return buf.Bytes(), nil
}
