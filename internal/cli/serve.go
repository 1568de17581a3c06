package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/andresvisco/medicus-mapa-arquitectura-interactivo/internal/server"
)

// serveFlags holds the command-line flags for the serve command.
type serveFlags struct {
	addr    string
	watch   bool
	noCache bool
}

// serveCommand creates the serve command running the local web viewer.
func (c *CLI) serveCommand() *cobra.Command {
	var flags serveFlags

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the local web viewer",
		Long: `Run the local web viewer.

The index page takes a project id and lists the cached snapshots; /view/<id>
shows the interactive network. With --watch, pages are rebuilt as soon as a
snapshot file in the directory changes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("addr") {
				flags.addr = c.Config.Server.Addr
			}
			if !cmd.Flags().Changed("watch") {
				flags.watch = c.Config.Server.Watch
			}
			return c.runServe(cmd.Context(), flags)
		},
	}

	cmd.Flags().StringVar(&flags.addr, "addr", defaultServerAddr, "listen address")
	cmd.Flags().BoolVar(&flags.watch, "watch", false, "invalidate pages when snapshot files change")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable the on-disk document cache")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, flags serveFlags) error {
	store := c.newStore()
	runner, err := c.newRunner(store, flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	srv, err := server.New(store, runner, server.Options{
		Render:         c.pipelineOptions(),
		DefaultProject: c.Config.DefaultProject,
		MemoSize:       c.Config.Server.MemoSize,
		Logger:         c.Logger,
	})
	if err != nil {
		return fmt.Errorf("initialize server: %w", err)
	}

	if flags.watch {
		if err := os.MkdirAll(store.Dir(), 0755); err != nil {
			return fmt.Errorf("create snapshot dir: %w", err)
		}
		if err := srv.Watch(ctx, server.DefaultDebounce); err != nil {
			return fmt.Errorf("watch %s: %w", store.Dir(), err)
		}
	}

	printSuccess("Serving %s", StyleHighlight.Render(store.Dir()))
	printDetail("http://%s", displayAddr(flags.addr))
	return srv.ListenAndServe(ctx, flags.addr)
}

// displayAddr turns a listen address into something a browser can open.
func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
