package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/unshred/pkg/config"
	"github.com/matzehuels/unshred/pkg/cutter"
)

type cutFlags struct {
	rawDir    string
	stripsDir string
	workers   int
	count     int
}

func (f *cutFlags) register(cmd *cobra.Command) {
	d := config.Default()
	fl := cmd.Flags()
	fl.StringVar(&f.rawDir, "raw", d.Source.RawDir, "directory of downloaded scans")
	fl.StringVar(&f.stripsDir, "strips", d.Cutter.StripsDir, "directory for cut strips")
	fl.IntVar(&f.workers, "cut-workers", d.Cutter.Workers, "scans cut in parallel")
	fl.IntVar(&f.count, "count", d.Cutter.Count, "strips per scan")
}

func (f *cutFlags) overrides() []override {
	return []override{
		{"raw", func(c *config.Config) { c.Source.RawDir = f.rawDir }},
		{"strips", func(c *config.Config) { c.Cutter.StripsDir = f.stripsDir }},
		{"cut-workers", func(c *config.Config) { c.Cutter.Workers = f.workers }},
		{"count", func(c *config.Config) { c.Cutter.Count = f.count }},
	}
}

// cutCommand creates the cut command.
func (c *CLI) cutCommand() *cobra.Command {
	var flags cutFlags

	cmd := &cobra.Command{
		Use:   "cut",
		Short: "Slice downloaded scans into strips",
		Long: `Cut crops every scan in the raw directory into strips using the geometry
in the [cutter] config section. Strips that already exist are kept and a scan
is only decoded when one of its strips is missing.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if err := applyOverrides(cmd, &cfg, flags.overrides()); err != nil {
				return err
			}
			if err := c.runCut(cmd.Context(), cfg); err != nil {
				return err
			}
			printNewline()
			printNextStep("Reassemble the strips", "unshred solve --strips "+cfg.Cutter.StripsDir)
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func (c *CLI) runCut(ctx context.Context, cfg config.Config) error {
	prog := newProgress(c.Logger)
	spinner := newSpinner(ctx, fmt.Sprintf("Cutting %d strips per scan", cfg.Cutter.Count))
	spinner.Start()
	total, fresh, err := cutter.Cut(ctx, cfg.Source.RawDir, cfg.Cutter.StripsDir, cfg.Cutter.Geometry, cfg.Cutter.Workers)
	spinner.Stop()
	if err != nil {
		return fmt.Errorf("cut: %w", err)
	}
	prog.done(fmt.Sprintf("Cut %d of %d strips", fresh, total))

	printSuccess("%s strips, %s new", StyleNumber.Render(fmt.Sprint(total)), StyleNumber.Render(fmt.Sprint(fresh)))
	printFile(cfg.Cutter.StripsDir)
	return nil
}
