// Package render groups the output formats for topology snapshots.
//
// # Interactive Network
//
// The [network] subpackage renders a built topology as a self-contained HTML
// page. Nodes start in their initial disclosure state and category or
// resource nodes expand and collapse on click:
//
//	doc, err := network.Render(g, network.DefaultOptions())
//	err = network.WriteFile("demo.html", doc)
//
// # Node-Link Diagrams
//
// The [nodelink] subpackage exports whatever a disclosure session currently
// shows as a static Graphviz diagram:
//
//	dot := nodelink.ToDOT(session, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// [network]: github.com/andresvisco/medicus-mapa-arquitectura-interactivo/pkg/render/network
// [nodelink]: github.com/andresvisco/medicus-mapa-arquitectura-interactivo/pkg/render/nodelink
package render
