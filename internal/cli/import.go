package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/andresvisco/medicus-mapa-arquitectura-interactivo/pkg/graph"
)

// importCommand creates the import command that stores a raw graph as a
// project snapshot.
func (c *CLI) importCommand() *cobra.Command {
	var projectID string

	cmd := &cobra.Command{
		Use:   "import [graph.json]",
		Short: "Store a nodes/edges graph as a project snapshot",
		Long: `Store a nodes/edges graph as a project snapshot.

The input is a JSON object with "nodes" and "edges" arrays. It is wrapped in
a snapshot envelope stamped with the current time and written atomically to
<dir>/<project>_gcp_data.json, replacing any previous snapshot.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if projectID == "" {
				return fmt.Errorf("--project is required")
			}
			logger := loggerFromContext(cmd.Context())

			g, err := graph.ReadGraphFile(args[0])
			if err != nil {
				return fmt.Errorf("load graph %s: %w", args[0], err)
			}
			if !g.Valid() {
				printWarning("%s has no nodes or no edges; viewers will report no data", args[0])
			}

			prog := newProgress(logger)
			path, err := c.newStore().Save(cmd.Context(), projectID, g)
			if err != nil {
				return err
			}
			prog.done("Saved snapshot " + projectID)

			printSuccess("Imported %s", StyleHighlight.Render(projectID))
			printFile(path)
			printDetail("%d nodes · %d edges", len(g.Nodes), len(g.Edges))
			printNewline()
			printNextStep("Render", appName+" render "+projectID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&projectID, "project", "p", "", "project id to store the snapshot under (required)")

	return cmd
}
