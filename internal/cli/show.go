package cli

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/andresvisco/medicus-mapa-arquitectura-interactivo/pkg/errors"
	"github.com/andresvisco/medicus-mapa-arquitectura-interactivo/pkg/snapshot"
	"github.com/andresvisco/medicus-mapa-arquitectura-interactivo/pkg/topology"
)

// maxListed caps how many ids a problem section prints.
const maxListed = 10

// showCommand creates the show command summarizing one snapshot.
func (c *CLI) showCommand() *cobra.Command {
	var policy string

	cmd := &cobra.Command{
		Use:   "show [project]",
		Short: "Summarize a project snapshot",
		Long: `Summarize a project snapshot: when it was captured, how many nodes sit at
each level, what the initial view shows, and which edges or nodes had to be
dropped or defaulted while building the graph.`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: c.completeProjects,
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, err := c.projectArg(args)
			if err != nil {
				return err
			}
			opts := c.pipelineOptions()
			if policy != "" {
				opts.LevelPolicy = policy
			}

			runner, err := c.newRunner(c.newStore(), true)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			ctx := cmd.Context()
			snap, err := runner.Load(ctx, projectID)
			if err != nil {
				return reportLoadError(err)
			}
			g, report, err := runner.Build(ctx, snap, opts)
			if err != nil {
				return reportLoadError(err)
			}

			printSnapshot(snap, g, report)
			return nil
		},
	}

	cmd.Flags().StringVar(&policy, "level-policy", "", "unknown levels: root (default) or isolate")

	return cmd
}

// reportLoadError prints snapshot problems the way the viewer shows them and
// returns err for the exit status.
func reportLoadError(err error) error {
	if errors.IsEmptyState(err) {
		printWarning("%s", errors.UserMessage(err))
	}
	return err
}

func printSnapshot(snap *snapshot.Snapshot, g *topology.Graph, report *topology.Report) {
	stats := g.Stats()

	fmt.Println(StyleTitle.Render(snap.ProjectID))
	printKeyValue("Captured", snap.Timestamp)
	if snap.Version != "" {
		printKeyValue("Version", snap.Version)
	}
	printKeyValue("File", snap.Path)
	printNewline()

	printKeyValue("Nodes", strconv.Itoa(stats.Nodes))
	printKeyValue("Edges", strconv.Itoa(stats.Edges))
	levels := make([]int, 0, len(stats.ByLevel))
	for level := range stats.ByLevel {
		levels = append(levels, level)
	}
	slices.Sort(levels)
	for _, level := range levels {
		printDetail("%-10s %d", topology.LevelName(level), stats.ByLevel[level])
	}
	printKeyValue("Initial view", fmt.Sprintf("%d nodes, %d edges", stats.InitialNodes, stats.InitialEdges))
	printKeyValue("Expandable", strconv.Itoa(stats.Expandable))
	if stats.MaxChildren > 0 {
		printKeyValue("Widest", fmt.Sprintf("%s (%d children)", stats.MaxChildrenFor, stats.MaxChildren))
	}

	if report.Clean() {
		return
	}
	printNewline()
	if n := len(report.Dropped); n > 0 {
		printWarning("%d edge(s) dropped", n)
		for i, d := range report.Dropped {
			if i == maxListed {
				printDetail("... and %d more", n-maxListed)
				break
			}
			printDetail("%s", errors.UserMessage(d.Err()))
		}
	}
	if n := len(report.Duplicates); n > 0 {
		printWarning("%d duplicate node id(s), first occurrence kept", n)
		printIDs(report.Duplicates)
	}
	if n := len(report.Defaulted); n > 0 {
		printWarning("%d node(s) without a recognized level", n)
		printIDs(report.Defaulted)
	}
}

func printIDs(ids []string) {
	for i, id := range ids {
		if i == maxListed {
			printDetail("... and %d more", len(ids)-maxListed)
			return
		}
		printDetail("%s", id)
	}
}
