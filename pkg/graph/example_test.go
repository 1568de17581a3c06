package graph_test

import (
	"fmt"
	"strings"

	"github.com/andresvisco/medicus-mapa-arquitectura-interactivo/pkg/graph"
)

func ExampleReadGraph() {
	input := `{
		"nodes": [
			{"id": "demo", "label": "demo", "level": 0, "size": 40, "color": "#4285F4"},
			{"id": "gcs", "label": "Cloud Storage", "level": "1", "size": 30, "color": "#34A853"},
			{"id": "orphan", "label": "orphan", "size": 10, "color": "#999999"}
		],
		"edges": [{"source": "demo", "target": "gcs"}]
	}`

	g, err := graph.ReadGraph(strings.NewReader(input))
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	for _, n := range g.Nodes {
		fmt.Printf("%s level=%s\n", n.ID, n.Level)
	}
	// Output:
	// demo level=0
	// gcs level=1
	// orphan level=missing
}
