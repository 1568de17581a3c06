package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/andresvisco/medicus-mapa-arquitectura-interactivo/pkg/snapshot"
)

// listCommand creates the list command for the snapshot catalog.
func (c *CLI) listCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List cached project snapshots",
		Long: `List the project snapshots found in the snapshot directory.

Only files named <project>_gcp_data.json are listed, sorted by filename.
A missing directory is an empty catalog.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store := c.newStore()
			entries, err := store.List(cmd.Context())
			if err != nil {
				return fmt.Errorf("list snapshots: %w", err)
			}
			if asJSON {
				return writeCatalogJSON(os.Stdout, store.Dir(), entries)
			}
			printCatalog(store.Dir(), entries)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the catalog as JSON")

	return cmd
}

// catalogJSON is the --json output shape, shared with the HTTP API.
type catalogJSON struct {
	Dir       string           `json:"dir"`
	Snapshots []snapshot.Entry `json:"snapshots"`
}

func writeCatalogJSON(w io.Writer, dir string, entries []snapshot.Entry) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(catalogJSON{Dir: dir, Snapshots: entries})
}

func printCatalog(dir string, entries []snapshot.Entry) {
	if len(entries) == 0 {
		printInfo("No snapshots in %s", dir)
		printNextStep("Import one", appName+" import graph.json --project <id>")
		return
	}

	fmt.Println(catalogTable(entries))
	printDetail("%d snapshot(s) in %s", len(entries), dir)
}

// catalogTable renders entries as a bordered table.
func catalogTable(entries []snapshot.Entry) string {
	rows := make([][]string, len(entries))
	for i, e := range entries {
		rows[i] = []string{e.ProjectID, e.Modified(), fmt.Sprintf("%.2f KB", e.SizeKB)}
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Project", "Modified", "Size").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return styleTableHdr.Padding(0, 1)
			case col == 0:
				return StyleHighlight.Padding(0, 1)
			default:
				return StyleDim.Padding(0, 1)
			}
		}).
		Render()
}
