// Package nodelink exports the visible part of a topology as a static
// node-link diagram.
//
// # Usage
//
// Drive a [disclosure.Session] into the state you want to capture, then
// convert it to DOT and render it:
//
//	s := disclosure.NewSession(g)
//	s.ExpandAll()
//	dot := nodelink.ToDOT(s, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # DOT Format
//
// The generated DOT lays the hierarchy out left to right (rankdir=LR) with
// rounded boxes filled in each node's snapshot color. Labels are the
// decorated labels from the topology builder, so expandable nodes show their
// child count. Edges keep their label and color.
//
// # Dependencies
//
// [RenderSVG] uses [github.com/goccy/go-graphviz], which runs Graphviz in
// process through WebAssembly. No system installation is needed.
//
// [disclosure.Session]: github.com/andresvisco/medicus-mapa-arquitectura-interactivo/pkg/disclosure.Session
package nodelink
