package compose

import (
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/unshred/pkg/chain"
	"github.com/matzehuels/unshred/pkg/errors"
	"github.com/matzehuels/unshred/pkg/strip"
)

// grayStore returns strips of width 2 and height 3 whose gray level is
// 10*(index+1), so every strip is identifiable in the composed image.
func grayStore(t *testing.T, n int) *strip.Store {
	t.Helper()
	imgs := make([]image.Image, n)
	for i := range imgs {
		imgs[i] = imaging.New(2, 3, color.NRGBA{R: uint8(10 * (i + 1)), G: uint8(10 * (i + 1)), B: uint8(10 * (i + 1)), A: 255})
	}
	s, err := strip.FromImages(nil, imgs)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

// columns reads the gray level of every strip-wide column, 0 for gaps.
func columns(img *image.NRGBA, w int) []int {
	var out []int
	for x := 0; x < img.Bounds().Dx(); x += w {
		out = append(out, int(img.NRGBAAt(x, 0).R))
	}
	return out
}

func TestBlocks(t *testing.T) {
	results := []chain.Result{
		{Primary: []int{0, 1}, Leftovers: [][]int{{2}, {3, 4}}, Size: 5},
		{Primary: []int{5}, Size: 1},
	}

	tests := []struct {
		policy LeftoverPolicy
		want   [][]int
	}{
		{Discard, [][]int{{0, 1}, {5}}},
		{Append, [][]int{{0, 1, 2, 3, 4}, {5}}},
		{Separate, [][]int{{0, 1}, {2}, {3, 4}, {5}}},
	}
	for _, tt := range tests {
		t.Run(string(tt.policy), func(t *testing.T) {
			if diff := cmp.Diff(tt.want, Blocks(results, tt.policy)); diff != "" {
				t.Errorf("Blocks() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCompose(t *testing.T) {
	s := grayStore(t, 4)
	results := []chain.Result{
		{Primary: []int{2, 0}, Leftovers: [][]int{{1}}, Size: 3},
		{Primary: []int{3}, Size: 1},
	}

	tests := []struct {
		name string
		opts Options
		want []int
	}{
		{"discard", Options{Leftovers: Discard, GapStrips: 1}, []int{30, 10, 0, 40, 0}},
		{"append", Options{Leftovers: Append, GapStrips: 1}, []int{30, 10, 20, 0, 40, 0}},
		{"separate", Options{Leftovers: Separate, GapStrips: 1}, []int{30, 10, 0, 20, 0, 40, 0}},
		{"no gap", Options{Leftovers: Discard}, []int{30, 10, 40}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := Compose(s, results, tt.opts)
			if err != nil {
				t.Fatalf("Compose() error: %v", err)
			}
			if img.Bounds().Dy() != s.Height() {
				t.Errorf("height = %d, want %d", img.Bounds().Dy(), s.Height())
			}
			if diff := cmp.Diff(tt.want, columns(img, s.Width())); diff != "" {
				t.Errorf("columns mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestComposeErrors(t *testing.T) {
	s := grayStore(t, 1)

	if _, err := Compose(s, nil, DefaultOptions()); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("empty results: got %v, want INVALID_INPUT", err)
	}
	if _, err := Compose(s, []chain.Result{{Primary: []int{0}, Size: 1}}, Options{GapStrips: -1}); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("negative gap: got %v, want INVALID_CONFIG", err)
	}
	if _, err := Compose(s, []chain.Result{{Primary: []int{3}, Size: 1}}, DefaultOptions()); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("bad index: got %v, want INVALID_INPUT", err)
	}
}

func TestSave(t *testing.T) {
	s := grayStore(t, 2)
	img, err := Compose(s, []chain.Result{{Primary: []int{1, 0}, Size: 2}}, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "result.png")
	if err := Save(img, path); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	back, err := imaging.Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if back.Bounds() != img.Bounds() {
		t.Errorf("bounds = %v, want %v", back.Bounds(), img.Bounds())
	}

	if err := Save(img, filepath.Join(t.TempDir(), "result.unknown")); !errors.Is(err, errors.ErrCodeIO) {
		t.Errorf("unknown extension: got %v, want IO_ERROR", err)
	}
}

func TestParseLeftoverPolicy(t *testing.T) {
	for in, want := range map[string]LeftoverPolicy{"": Separate, "separate": Separate, "append": Append, "discard": Discard} {
		got, err := ParseLeftoverPolicy(in)
		if err != nil || got != want {
			t.Errorf("ParseLeftoverPolicy(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseLeftoverPolicy("keep"); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("got %v, want INVALID_CONFIG", err)
	}
}
