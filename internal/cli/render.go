package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/andresvisco/medicus-mapa-arquitectura-interactivo/pkg/pipeline"
	"github.com/andresvisco/medicus-mapa-arquitectura-interactivo/pkg/render/network"
)

// renderFlags holds the command-line flags for the render command.
type renderFlags struct {
	output  string
	noCache bool
	policy  string
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var flags renderFlags
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "render [project]",
		Short: "Render a project snapshot",
		Long: `Render a project snapshot.

The default html format writes a self-contained page with the interactive
network: the project and its categories are shown first, and clicking a
category or a dataset/bucket reveals or hides what lies below it.

The svg and dot formats export a static diagram of what the page shows
initially, or of the whole graph with --expand-all.

Rendered documents are cached locally; --refresh rebuilds them.`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: c.completeProjects,
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, err := c.projectArg(args)
			if err != nil {
				return err
			}
			base := c.pipelineOptions()
			opts.LevelPolicy = base.LevelPolicy
			if flags.policy != "" {
				opts.LevelPolicy = flags.policy
			}
			opts.Network = base.Network
			if err := opts.ValidateAndSetDefaults(); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), projectID, opts, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file (default: <project>_network.<format>)")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", pipeline.DefaultFormat, "output format: html (default), svg, dot")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "ignore cached documents")
	cmd.Flags().StringVar(&flags.policy, "level-policy", "", "unknown levels: root (default) or isolate")
	cmd.Flags().BoolVar(&opts.ExpandAll, "expand-all", false, "export the fully expanded graph (svg, dot)")
	cmd.Flags().BoolVar(&opts.Detailed, "detailed", false, "add level and group to node labels (svg, dot)")
	cmd.Flags().StringVar(&opts.RankDir, "rankdir", "", "diagram direction: LR (default), TB (svg, dot)")

	return cmd
}

// runRender runs the pipeline and writes the document.
func (c *CLI) runRender(ctx context.Context, projectID string, opts pipeline.Options, flags renderFlags) error {
	logger := loggerFromContext(ctx)

	runner, err := c.newRunner(c.newStore(), flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	if opts.Format == pipeline.FormatHTML {
		opts.Network.Heading = projectID
	}

	prog := newProgress(logger)
	spinner := newSpinner(ctx, fmt.Sprintf("Rendering %s...", projectID))
	spinner.Start()

	result, err := runner.Render(ctx, projectID, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return reportLoadError(err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	path := flags.output
	if path == "" {
		path = defaultOutput(projectID, opts.Format)
	}
	if err := network.WriteFile(path, result.Document); err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Rendered %s", projectID))

	printSuccess("Rendered %s", StyleHighlight.Render(projectID))
	printFile(path)
	printStats(result.Stats.NodeCount, result.Stats.EdgeCount, result.Stats.DroppedEdges, result.CacheHit)
	if w := result.Report.Warnings(); w > 0 {
		printNewline()
		printNextStep(fmt.Sprintf("%d data problem(s)", w), appName+" show "+projectID)
	}
	printNewline()
	printNextStep("Explore in the terminal", appName+" explore "+projectID)

	return nil
}

// defaultOutput names the document written when -o is not given.
func defaultOutput(projectID, format string) string {
	return projectID + "_network." + format
}
