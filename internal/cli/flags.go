package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/unshred/pkg/config"
)

// override applies one flag to the loaded config when the user set it.
type override struct {
	flag  string
	apply func(*config.Config)
}

// applyOverrides copies every changed flag into cfg and validates the result.
func applyOverrides(cmd *cobra.Command, cfg *config.Config, overrides []override) error {
	for _, o := range overrides {
		if f := cmd.Flags().Lookup(o.flag); f != nil && f.Changed {
			o.apply(cfg)
		}
	}
	return cfg.Validate()
}

// engineFlags holds the solve-stage flags shared by solve and run.
type engineFlags struct {
	stripsDir       string
	output          string
	graph           string
	report          string
	gap             int
	maxGradient     float64
	sqrtCount       int
	confidenceBonus float64
	minConfidence   float64
	weighting       string
	workers         int
	noCluster       bool
	membership      string
	leftovers       string
	noCache         bool
	refresh         bool
}

func (f *engineFlags) register(cmd *cobra.Command) {
	d := config.Default()
	fl := cmd.Flags()
	fl.StringVar(&f.stripsDir, "strips", d.Cutter.StripsDir, "directory of cut strips")
	fl.StringVarP(&f.output, "output", "o", d.Output.Path, "reconstructed image path")
	fl.StringVar(&f.graph, "graph", "", "also write the chain graph as SVG to this path")
	fl.StringVar(&f.report, "report", "", "also write the strip order as JSON to this path")
	fl.IntVar(&f.gap, "gap", d.Output.Gap, "blank strips between blocks")
	fl.Float64Var(&f.maxGradient, "max-gradient", d.Engine.MaxGradient, "per-channel difference above which a position is ignored")
	fl.IntVar(&f.sqrtCount, "sqrt-count", d.Engine.SqrtCount, "square roots applied to each retained difference")
	fl.Float64Var(&f.confidenceBonus, "confidence-bonus", d.Engine.ConfidenceBonus, "exponent on the retained-position count")
	fl.Float64Var(&f.minConfidence, "min-confidence", d.Engine.MinConfidence, "minimum retained fraction of rows (0-1)")
	fl.StringVar(&f.weighting, "weighting", d.Engine.Weighting, "channel weighting: sum, mean")
	fl.IntVarP(&f.workers, "workers", "w", d.Engine.Workers, "scoring goroutines")
	fl.BoolVar(&f.noCluster, "no-cluster", false, "score all strips as one group")
	fl.StringVar(&f.membership, "membership", d.Engine.Membership, "palette membership: all, first")
	fl.StringVar(&f.leftovers, "leftovers", d.Engine.Leftovers, "unchained fragments: separate, append, discard")
	fl.BoolVar(&f.noCache, "no-cache", false, "disable the scored-edge cache")
	fl.BoolVar(&f.refresh, "refresh", false, "rescore even when cached edges exist")
	registerValueCompletions(cmd)
}

func (f *engineFlags) overrides() []override {
	return []override{
		{"strips", func(c *config.Config) { c.Cutter.StripsDir = f.stripsDir }},
		{"output", func(c *config.Config) { c.Output.Path = f.output }},
		{"graph", func(c *config.Config) { c.Output.Graph = f.graph }},
		{"report", func(c *config.Config) { c.Output.Report = f.report }},
		{"gap", func(c *config.Config) { c.Output.Gap = f.gap }},
		{"max-gradient", func(c *config.Config) { c.Engine.MaxGradient = f.maxGradient }},
		{"sqrt-count", func(c *config.Config) { c.Engine.SqrtCount = f.sqrtCount }},
		{"confidence-bonus", func(c *config.Config) { c.Engine.ConfidenceBonus = f.confidenceBonus }},
		{"min-confidence", func(c *config.Config) { c.Engine.MinConfidence = f.minConfidence }},
		{"weighting", func(c *config.Config) { c.Engine.Weighting = f.weighting }},
		{"workers", func(c *config.Config) { c.Engine.Workers = f.workers }},
		{"no-cluster", func(c *config.Config) { c.Engine.Cluster = !f.noCluster }},
		{"membership", func(c *config.Config) { c.Engine.Membership = f.membership }},
		{"leftovers", func(c *config.Config) { c.Engine.Leftovers = f.leftovers }},
	}
}
