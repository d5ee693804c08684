package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/unshred/pkg/affinity"
	"github.com/matzehuels/unshred/pkg/cluster"
	"github.com/matzehuels/unshred/pkg/compose"
	"github.com/matzehuels/unshred/pkg/errors"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	if diff := cmp.Diff(affinity.DefaultConfig(), cfg.Engine.Affinity()); diff != "" {
		t.Errorf("engine affinity mismatch (-want +got):\n%s", diff)
	}
	if cfg.Engine.MembershipMode() != cluster.AllMatch {
		t.Errorf("membership = %q, want all", cfg.Engine.MembershipMode())
	}
	if cfg.Engine.LeftoverPolicy() != compose.Separate {
		t.Errorf("leftovers = %q, want separate", cfg.Engine.LeftoverPolicy())
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeFile(t, `
[engine]
max_gradient = 0.5
weighting = "mean"
cluster = false
membership = "first"
leftovers = "append"

[cutter]
count = 3
strips_dir = "strips"

[output]
gap = 0
graph = "chains.svg"
report = "order.json"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	want := Default()
	want.Engine.MaxGradient = 0.5
	want.Engine.Weighting = "mean"
	want.Engine.Cluster = false
	want.Engine.Membership = "first"
	want.Engine.Leftovers = "append"
	want.Cutter.Count = 3
	want.Cutter.StripsDir = "strips"
	want.Output.Gap = 0
	want.Output.Graph = "chains.svg"
	want.Output.Report = "order.json"
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("Load mismatch (-want +got):\n%s", diff)
	}

	opts := cfg.ComposeOptions()
	if opts.Leftovers != compose.Append || opts.GapStrips != 0 {
		t.Errorf("ComposeOptions = %+v", opts)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		code    errors.Code
	}{
		{"syntax", "[engine\n", errors.ErrCodeInvalidConfig},
		{"unknown key", "[engine]\nmax_gradiant = 2.0\n", errors.ErrCodeInvalidConfig},
		{"bad value", "[engine]\nmax_gradient = 0.0\n", errors.ErrCodeInvalidConfig},
		{"bad weighting", "[engine]\nweighting = \"max\"\n", errors.ErrCodeInvalidConfig},
		{"bad membership", "[engine]\nmembership = \"some\"\n", errors.ErrCodeInvalidConfig},
		{"bad leftovers", "[engine]\nleftovers = \"keep\"\n", errors.ErrCodeInvalidConfig},
		{"bad url", "[source]\nlinks_url = \"ftp://x\"\n", errors.ErrCodeInvalidConfig},
		{"bad geometry", "[cutter]\nwidth = 0\n", errors.ErrCodeInvalidConfig},
		{"bad cutter workers", "[cutter]\nworkers = 0\n", errors.ErrCodeInvalidConfig},
		{"negative gap", "[output]\ngap = -1\n", errors.ErrCodeInvalidConfig},
		{"empty output", "[output]\npath = \"\"\n", errors.ErrCodeInvalidPath},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.content))
			if !errors.Is(err, tt.code) {
				t.Errorf("Load() error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestLoadMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.toml")
	if _, err := Load(path); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Load(missing) = %v, want NOT_FOUND", err)
	}

	cfg, err := LoadOrDefault(path)
	if err != nil {
		t.Fatalf("LoadOrDefault(missing) error: %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("LoadOrDefault should return defaults (-want +got):\n%s", diff)
	}
	if _, err := LoadOrDefault(""); err != nil {
		t.Errorf("LoadOrDefault(\"\") error: %v", err)
	}
}

func TestWriteRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := Default().Write(&buf); err != nil {
		t.Fatalf("Write error: %v", err)
	}
	for _, section := range []string{"[engine]", "[source]", "[cutter]", "[output]"} {
		if !strings.Contains(buf.String(), section) {
			t.Errorf("written config lacks %s:\n%s", section, buf.String())
		}
	}
	if !strings.Contains(buf.String(), "fit_height = 1033") {
		t.Errorf("embedded geometry not flattened into [cutter]:\n%s", buf.String())
	}

	cfg, err := Load(writeFile(t, buf.String()))
	if err != nil {
		t.Fatalf("Load(written) error: %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	path, err := DefaultPath()
	if err != nil {
		t.Skipf("no config dir: %v", err)
	}
	if filepath.Base(path) != FileName || filepath.Base(filepath.Dir(path)) != "unshred" {
		t.Errorf("DefaultPath() = %q", path)
	}
}
