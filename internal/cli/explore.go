package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/andresvisco/medicus-mapa-arquitectura-interactivo/pkg/disclosure"
	"github.com/andresvisco/medicus-mapa-arquitectura-interactivo/pkg/snapshot"
)

// exploreCommand creates the explore command: the disclosure protocol in the
// terminal.
func (c *CLI) exploreCommand() *cobra.Command {
	var policy string

	cmd := &cobra.Command{
		Use:   "explore [project]",
		Short: "Expand and collapse a snapshot in the terminal",
		Long: `Expand and collapse a snapshot in the terminal.

The explorer starts from the same view as the rendered page: the project and
its categories. Pressing enter on a category or a dataset/bucket shows or
hides what lies below it, exactly as clicking it in the page does.

Without a project argument (and no default_project configured) a picker lists
the snapshot catalog.`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: c.completeProjects,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store := c.newStore()

			projectID, err := c.projectArg(args)
			if err != nil {
				entry, err := pickSnapshot(ctx, store)
				if err != nil || entry == nil {
					return err
				}
				projectID = entry.ProjectID
			}
			return c.runExplore(ctx, store, projectID, policy)
		},
	}

	cmd.Flags().StringVar(&policy, "level-policy", "", "unknown levels: root (default) or isolate")

	return cmd
}

// pickSnapshot lets the user choose from the catalog. A nil entry means the
// user quit or there was nothing to choose.
func pickSnapshot(ctx context.Context, store *snapshot.Store) (*snapshot.Entry, error) {
	entries, err := store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	if len(entries) == 0 {
		printCatalog(store.Dir(), entries)
		return nil, nil
	}

	final, err := tea.NewProgram(NewSnapshotListModel(entries), tea.WithContext(ctx)).Run()
	if err != nil {
		return nil, fmt.Errorf("snapshot picker: %w", err)
	}
	return final.(SnapshotListModel).Selected, nil
}

func (c *CLI) runExplore(ctx context.Context, store *snapshot.Store, projectID, policy string) error {
	runner, err := c.newRunner(store, true)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts := c.pipelineOptions()
	if policy != "" {
		opts.LevelPolicy = policy
	}

	snap, err := runner.Load(ctx, projectID)
	if err != nil {
		return reportLoadError(err)
	}
	g, report, err := runner.Build(ctx, snap, opts)
	if err != nil {
		return reportLoadError(err)
	}
	if w := report.Warnings(); w > 0 {
		printWarning("%d data problem(s); see '%s show %s'", w, appName, projectID)
	}

	session := disclosure.NewSession(g)
	model := NewExploreModel(session, projectID, snap.Timestamp)
	if _, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
		return fmt.Errorf("explorer: %w", err)
	}

	printInfo("%s: %d of %d nodes visible, %d expanded",
		projectID, len(session.VisibleNodes()), len(g.Nodes), len(session.Expanded()))
	return nil
}
