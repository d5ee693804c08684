package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/unshred/pkg/config"
	"github.com/matzehuels/unshred/pkg/source"
)

// linksTTL bounds how long a fetched link list is reused.
const linksTTL = 24 * time.Hour

type fetchFlags struct {
	linksURL    string
	rawDir      string
	concurrency int
	noCache     bool
	refresh     bool
}

func (f *fetchFlags) register(cmd *cobra.Command) {
	d := config.Default()
	fl := cmd.Flags()
	fl.StringVar(&f.linksURL, "links", d.Source.LinksURL, "CSV listing scan URLs in its first column")
	fl.StringVar(&f.rawDir, "raw", d.Source.RawDir, "directory for downloaded scans")
	fl.IntVar(&f.concurrency, "concurrency", d.Source.Concurrency, "parallel downloads")
	fl.BoolVar(&f.refresh, "refresh-links", false, "refetch the link list even if cached")
}

func (f *fetchFlags) overrides() []override {
	return []override{
		{"links", func(c *config.Config) { c.Source.LinksURL = f.linksURL }},
		{"raw", func(c *config.Config) { c.Source.RawDir = f.rawDir }},
		{"concurrency", func(c *config.Config) { c.Source.Concurrency = f.concurrency }},
	}
}

// fetchCommand creates the fetch command.
func (c *CLI) fetchCommand() *cobra.Command {
	var flags fetchFlags

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Download the scans listed in the link sheet",
		Long: `Fetch downloads the link list (a CSV whose first column holds one URL per
row after the header) and saves every scan into the raw directory. Scans
already on disk are skipped.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if err := applyOverrides(cmd, &cfg, flags.overrides()); err != nil {
				return err
			}
			if err := c.runFetch(cmd.Context(), cfg.Source, flags.noCache, flags.refresh); err != nil {
				return err
			}
			printNewline()
			printNextStep("Cut the scans into strips", "unshred cut --raw "+cfg.Source.RawDir)
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "do not cache the link list")
	return cmd
}

func (c *CLI) runFetch(ctx context.Context, src config.Source, noCache, refresh bool) error {
	var dl *Spinner
	client := source.NewClient(newHTTPCache(noCache), source.WithProgress(func(done, pending int) {
		dl.Progress(done, pending)
	}))

	spinner := newSpinner(ctx, "Fetching link list...")
	spinner.Start()
	links, err := client.FetchLinks(ctx, src.LinksURL, refresh)
	if err != nil {
		spinner.StopWithError("Failed to fetch link list")
		return fmt.Errorf("fetch links: %w", err)
	}
	spinner.Stop()
	c.Logger.Debug("fetched link list", "links", len(links))

	prog := newProgress(c.Logger)
	dl = newSpinner(ctx, "Downloading scans")
	dl.Start()
	total, fresh, err := client.Download(ctx, links, src.RawDir, src.Concurrency)
	dl.Stop()
	if err != nil {
		return fmt.Errorf("download: %w", err)
	}
	prog.done(fmt.Sprintf("Downloaded %d of %d scans", fresh, total))

	printSuccess("%s scans, %s new", StyleNumber.Render(fmt.Sprint(total)), StyleNumber.Render(fmt.Sprint(fresh)))
	printFile(src.RawDir)
	return nil
}
