// Package network renders a [topology.Graph] as a self-contained interactive
// HTML document built on vis-network.
//
// # Output
//
// [Render] produces one HTML page that embeds:
//
//   - the node and edge data as JSON, with each element's initial hidden flag
//   - the force-directed physics configuration from [Options.Physics]
//   - the vis-network library, loaded from [Options.CDN]
//   - the disclosure script, which implements the same expand/collapse rules
//     as [disclosure.Session] against vis DataSets
//
// Only category and resource nodes react to clicks, and only they get the
// pointer cursor on hover. Tooltips are the HTML strings computed by the
// topology builder.
//
// # Writing
//
// [WriteFile] writes a document through a temporary file in the target
// directory and renames it into place. On failure no partial document and no
// temporary file remain, and the error has code RENDER_WRITE.
//
//	doc, err := network.Render(g, network.DefaultOptions())
//	if err != nil {
//	    return err
//	}
//	return network.WriteFile("demo.html", doc)
//
// [disclosure.Session]: github.com/andresvisco/medicus-mapa-arquitectura-interactivo/pkg/disclosure.Session
package network
