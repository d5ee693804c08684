package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/unshred/pkg/compose"
	"github.com/matzehuels/unshred/pkg/config"
	"github.com/matzehuels/unshred/pkg/report"
)

// composeCommand creates the compose command.
func (c *CLI) composeCommand() *cobra.Command {
	var (
		stripsDir string
		output    string
		gap       int
		leftovers string
	)

	cmd := &cobra.Command{
		Use:   "compose <report.json>",
		Short: "Redraw a reconstruction from a saved strip order",
		Long: `Compose reads a report written by "solve --report" and draws the strips in
the recorded order. No scoring happens, so changing --gap or --leftovers
is immediate. Strips are matched by file name and may be in any directory
order.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeReportFiles,
		RunE:              func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			err = applyOverrides(cmd, &cfg, []override{
				{"strips", func(cfg *config.Config) { cfg.Cutter.StripsDir = stripsDir }},
				{"output", func(cfg *config.Config) { cfg.Output.Path = output }},
				{"gap", func(cfg *config.Config) { cfg.Output.Gap = gap }},
				{"leftovers", func(cfg *config.Config) { cfg.Engine.Leftovers = leftovers }},
			})
			if err != nil {
				return err
			}
			return c.runCompose(cmd.Context(), cfg, args[0])
		},
	}

	d := config.Default()
	cmd.Flags().StringVar(&stripsDir, "strips", d.Cutter.StripsDir, "directory of cut strips")
	cmd.Flags().StringVarP(&output, "output", "o", d.Output.Path, "reconstructed image path")
	cmd.Flags().IntVar(&gap, "gap", d.Output.Gap, "blank strips between blocks")
	cmd.Flags().StringVar(&leftovers, "leftovers", d.Engine.Leftovers, "unchained fragments: separate, append, discard")
	registerValueCompletions(cmd)
	return cmd
}

func (c *CLI) runCompose(ctx context.Context, cfg config.Config, reportPath string) error {
	rep, err := report.ImportJSON(reportPath)
	if err != nil {
		return err
	}
	store, err := loadStrips(ctx, cfg.Cutter.StripsDir, cfg.Engine.Workers)
	if err != nil {
		return fmt.Errorf("load strips: %w", err)
	}
	results, err := rep.Results(store)
	if err != nil {
		return err
	}
	c.Logger.Debug("loaded report", "path", reportPath, "run", rep.RunID, "clusters", len(results))

	img, err := compose.Compose(store, results, cfg.ComposeOptions())
	if err != nil {
		return err
	}
	if err := compose.Save(img, cfg.Output.Path); err != nil {
		return err
	}
	printSuccess("Composed %d clusters from %d strips", len(results), store.Len())
	printFile(cfg.Output.Path)
	return nil
}
