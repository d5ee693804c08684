// Package config loads the unshred configuration file.
//
// The file is TOML with one table per stage:
//
//	[engine]  scoring, clustering and assembly parameters
//	[source]  where the scan list lives and where scans are stored
//	[cutter]  strip geometry and the strip directory
//	[output]  result image and optional chain graph
//
// Missing keys keep their [Default] values; unknown keys are rejected so
// typos surface instead of silently doing nothing. Command-line flags are
// applied on top of the loaded file by the CLI.
package config

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/unshred/pkg/affinity"
	"github.com/matzehuels/unshred/pkg/cluster"
	"github.com/matzehuels/unshred/pkg/compose"
	"github.com/matzehuels/unshred/pkg/cutter"
	"github.com/matzehuels/unshred/pkg/errors"
	"github.com/matzehuels/unshred/pkg/source"
)

// FileName is the name of the config file looked up in the config directory.
const FileName = "config.toml"

// Config is the full configuration.
type Config struct {
	Engine Engine `toml:"engine"`
	Source Source `toml:"source"`
	Cutter Cutter `toml:"cutter"`
	Output Output `toml:"output"`
}

// Engine configures clustering, scoring and assembly.
type Engine struct {
	MaxGradient     float64 `toml:"max_gradient"`
	SqrtCount       int     `toml:"sqrt_count"`
	ConfidenceBonus float64 `toml:"confidence_bonus"`
	MinConfidence   float64 `toml:"min_confidence"`
	Weighting       string  `toml:"weighting"`
	Workers         int     `toml:"workers"`

	// Cluster partitions strips by palette before scoring. When false every
	// strip is scored against every other.
	Cluster    bool   `toml:"cluster"`
	Membership string `toml:"membership"`
	Leftovers  string `toml:"leftovers"`
}

// Source configures scan acquisition.
type Source struct {
	LinksURL    string `toml:"links_url"`
	RawDir      string `toml:"raw_dir"`
	Concurrency int    `toml:"concurrency"`
}

// Cutter configures strip slicing.
type Cutter struct {
	cutter.Geometry
	StripsDir string `toml:"strips_dir"`
	Workers   int    `toml:"workers"`
}

// Output configures what a run writes.
type Output struct {
	Path string `toml:"path"`
	Gap  int    `toml:"gap"`

	// Graph, when set, receives an SVG rendering of the assembled chains.
	Graph string `toml:"graph"`

	// Report, when set, receives the assembled order as JSON strip names.
	Report string `toml:"report"`
}

// Default returns the built-in configuration.
func Default() Config {
	a := affinity.DefaultConfig()
	return Config{
		Engine: Engine{
			MaxGradient:     a.MaxGradient,
			SqrtCount:       a.SqrtCount,
			ConfidenceBonus: a.ConfidenceBonus,
			MinConfidence:   a.MinConfidence,
			Weighting:       string(a.Weighting),
			Workers:         a.Workers,
			Cluster:         true,
			Membership:      string(cluster.AllMatch),
			Leftovers:       string(compose.Separate),
		},
		Source: Source{
			LinksURL:    source.DefaultLinksURL,
			RawDir:      "raw_strips",
			Concurrency: source.DefaultConcurrency,
		},
		Cutter: Cutter{
			Geometry:  cutter.DefaultGeometry(),
			StripsDir: "cut_strips",
			Workers:   cutter.DefaultWorkers,
		},
		Output: Output{
			Path: "result.png",
			Gap:  1,
		},
	}
}

// Load reads path over the defaults and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, errors.Wrap(errors.ErrCodeNotFound, err, "config file %s", path)
		}
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return cfg, errors.New(errors.ErrCodeInvalidConfig, "unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}
	return cfg, cfg.Validate()
}

// LoadOrDefault loads path if it exists and returns the defaults otherwise.
func LoadOrDefault(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}
	return Load(path)
}

// DefaultPath returns ~/.config/unshred/config.toml, honoring
// XDG_CONFIG_HOME through os.UserConfigDir.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "unshred", FileName), nil
}

// Validate checks every section.
func (c *Config) Validate() error {
	a := c.Engine.Affinity()
	if err := a.Validate(); err != nil {
		return err
	}
	c.Engine.Weighting = string(a.Weighting)
	if _, err := cluster.ParseMembership(c.Engine.Membership); err != nil {
		return err
	}
	if _, err := compose.ParseLeftoverPolicy(c.Engine.Leftovers); err != nil {
		return err
	}
	if err := errors.ValidateURL(c.Source.LinksURL); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "source.links_url")
	}
	if c.Source.Concurrency < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "source concurrency must be at least 1, got %d", c.Source.Concurrency)
	}
	if err := c.Cutter.Geometry.Validate(); err != nil {
		return err
	}
	if c.Cutter.Workers < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "cutter workers must be at least 1, got %d", c.Cutter.Workers)
	}
	if err := errors.ValidateNonNegative("gap", c.Output.Gap); err != nil {
		return err
	}
	for _, p := range []struct{ name, value string }{
		{"source.raw_dir", c.Source.RawDir},
		{"cutter.strips_dir", c.Cutter.StripsDir},
		{"output.path", c.Output.Path},
	} {
		if strings.TrimSpace(p.value) == "" {
			return errors.New(errors.ErrCodeInvalidPath, "%s must not be empty", p.name)
		}
	}
	return nil
}

// Affinity returns the scoring parameters.
func (e Engine) Affinity() affinity.Config {
	return affinity.Config{
		MaxGradient:     e.MaxGradient,
		SqrtCount:       e.SqrtCount,
		ConfidenceBonus: e.ConfidenceBonus,
		MinConfidence:   e.MinConfidence,
		Weighting:       affinity.Weighting(e.Weighting),
		Workers:         e.Workers,
	}
}

// MembershipMode returns the parsed membership mode. Call after Validate.
func (e Engine) MembershipMode() cluster.Membership {
	m, _ := cluster.ParseMembership(e.Membership)
	return m
}

// LeftoverPolicy returns the parsed leftover policy. Call after Validate.
func (e Engine) LeftoverPolicy() compose.LeftoverPolicy {
	p, _ := compose.ParseLeftoverPolicy(e.Leftovers)
	return p
}

// ComposeOptions returns the composer settings.
func (c Config) ComposeOptions() compose.Options {
	opts := compose.DefaultOptions()
	opts.Leftovers = c.Engine.LeftoverPolicy()
	opts.GapStrips = c.Output.Gap
	return opts
}

// Write encodes c as TOML.
func (c Config) Write(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}
