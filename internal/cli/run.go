package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/unshred/pkg/config"
)

// runCommand creates the run command, which chains fetch, cut and solve.
func (c *CLI) runCommand() *cobra.Command {
	var (
		engine    engineFlags
		fetch     fetchFlags
		skipFetch bool
		skipCut   bool
		cutCount  int
		cutWork   int
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Fetch, cut and solve in one go",
		Long: `Run performs the whole reconstruction: download missing scans, cut missing
strips, then solve. Use --skip-fetch to work offline from scans already on
disk and --skip-cut when the strips directory is prepared by other means.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			overrides := append(engine.overrides(), fetch.overrides()...)
			overrides = append(overrides,
				override{"count", func(c *config.Config) { c.Cutter.Count = cutCount }},
				override{"cut-workers", func(c *config.Config) { c.Cutter.Workers = cutWork }},
			)
			if err := applyOverrides(cmd, &cfg, overrides); err != nil {
				return err
			}

			ctx := cmd.Context()
			if !skipFetch {
				if err := c.runFetch(ctx, cfg.Source, engine.noCache, fetch.refresh); err != nil {
					return err
				}
			}
			if !skipCut {
				if err := c.runCut(ctx, cfg); err != nil {
					return err
				}
			}
			return c.runSolve(ctx, cfg, engine.noCache, engine.refresh)
		},
	}

	d := config.Default()
	engine.register(cmd)
	fetch.register(cmd)
	cmd.Flags().IntVar(&cutCount, "count", d.Cutter.Count, "strips per scan")
	cmd.Flags().IntVar(&cutWork, "cut-workers", d.Cutter.Workers, "scans cut in parallel")
	cmd.Flags().BoolVar(&skipFetch, "skip-fetch", false, "use the scans already in the raw directory")
	cmd.Flags().BoolVar(&skipCut, "skip-cut", false, "use the strips already in the strips directory")
	return cmd
}
