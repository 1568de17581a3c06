// Package topology turns a raw snapshot graph into the leveled, decorated
// model that the renderers and the disclosure engine work from.
//
// # Levels
//
// Every node carries a semantic rank:
//
//	0  project   (root)
//	1  category  (service or resource-type grouping)
//	2  resource  (dataset, bucket or other container)
//	3  table     (leaf item)
//
// Nodes whose level is missing or unrecognized are handled by a
// [LevelPolicy]. [PolicyRoot], the default, treats them as projects.
// [PolicyIsolate] puts them in a separate [LevelUnknown] bucket that is always
// visible, never expandable, and drawn distinctly.
//
// # Building
//
// [Build] rejects graphs without nodes or without edges, keeps the first node
// for each id, drops edges whose endpoints do not resolve, and derives the
// display attributes:
//
//   - ChildCount for category and resource nodes: distinct nodes exactly one
//     level deeper reached by a single edge
//   - the decorated label "{label} [{n}]" and a tooltip hint when n > 0
//   - initial visibility: levels 0 and 1 visible, levels 2 and 3 hidden;
//     edges into level 2 or 3 hidden, all others visible
//
// Everything that was dropped or defaulted is listed in the returned
// [Report]. Build performs no I/O besides logging.
//
// # Usage
//
//	g, report, err := topology.Build(snap.Graph, topology.WithLevelPolicy(topology.PolicyIsolate))
//	if errors.Is(err, errors.ErrCodeEmptyGraph) {
//	    // show "no valid data"
//	}
//	for _, d := range report.Dropped {
//	    fmt.Println(d.Err())
//	}
package topology
