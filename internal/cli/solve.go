package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/unshred/pkg/chain"
	"github.com/matzehuels/unshred/pkg/compose"
	"github.com/matzehuels/unshred/pkg/config"
	"github.com/matzehuels/unshred/pkg/pipeline"
	"github.com/matzehuels/unshred/pkg/report"
	"github.com/matzehuels/unshred/pkg/strip"
)

// solveCommand creates the solve command.
func (c *CLI) solveCommand() *cobra.Command {
	var flags engineFlags

	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Reassemble cut strips into an image",
		Long: `Solve loads every strip in the strips directory, clusters them by palette,
scores every pair within a cluster and chains the best matches. The chains
are drawn side by side into the output image, one block per cluster.

Scored edges are cached per cluster, so re-running with a different
--leftovers or --gap only repeats assembly and composition. With --report
the strip order is also saved as JSON, which "unshred compose" can redraw
without scoring again.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if err := applyOverrides(cmd, &cfg, flags.overrides()); err != nil {
				return err
			}
			return c.runSolve(cmd.Context(), cfg, flags.noCache, flags.refresh)
		},
	}
	flags.register(cmd)
	return cmd
}

func (c *CLI) runSolve(ctx context.Context, cfg config.Config, noCache, refresh bool) error {
	prog := newProgress(c.Logger)
	store, err := loadStrips(ctx, cfg.Cutter.StripsDir, cfg.Engine.Workers)
	if err != nil {
		return fmt.Errorf("load strips: %w", err)
	}
	prog.done(fmt.Sprintf("Loaded %d strips (%dx%d)", store.Len(), store.Width(), store.Height()))

	runner, err := c.newRunner(noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	result, err := runner.Execute(ctx, store, pipeline.Options{
		Affinity:   cfg.Engine.Affinity(),
		Cluster:    cfg.Engine.Cluster,
		Membership: cfg.Engine.MembershipMode(),
		Refresh:    refresh,
	})
	if err != nil {
		return err
	}

	img, err := runner.Compose(result, store, cfg.ComposeOptions())
	if err != nil {
		return err
	}
	if err := compose.Save(img, cfg.Output.Path); err != nil {
		return err
	}

	printNewline()
	fmt.Println(renderSummary(result))
	printStats(result.Stats)
	if n := len(result.Incomplete()); n > 0 {
		printWarning("%d of %d clusters only partially chained", n, len(result.Clusters))
	}
	printSuccess("Wrote reconstruction")
	printFile(cfg.Output.Path)

	if cfg.Output.Graph != "" {
		if err := writeGraph(ctx, cfg.Output.Graph, result, store); err != nil {
			return err
		}
		printFile(cfg.Output.Graph)
	}
	if cfg.Output.Report != "" {
		if err := report.ExportJSON(report.FromResult(result, store), cfg.Output.Report); err != nil {
			return err
		}
		printFile(cfg.Output.Report)
	}
	return nil
}

// loadStrips decodes the strip directory behind a spinner.
func loadStrips(ctx context.Context, dir string, workers int) (*strip.Store, error) {
	spinner := newSpinner(ctx, "Loading strips from "+dir)
	spinner.Start()
	defer spinner.Stop()
	return strip.Load(ctx, dir, workers)
}

// writeGraph renders the chains as SVG, labelling nodes with strip names.
func writeGraph(ctx context.Context, path string, result *pipeline.Result, store *strip.Store) error {
	svg, err := chain.RenderSVG(ctx, result.Chains(), func(i int) string { return store.Strip(i).Name })
	if err != nil {
		return fmt.Errorf("render graph: %w", err)
	}
	if err := os.WriteFile(path, svg, 0o644); err != nil {
		return fmt.Errorf("write graph: %w", err)
	}
	return nil
}
