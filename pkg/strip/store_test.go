package strip

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/unshred/pkg/errors"
)

func solid(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func writePNG(t *testing.T, path string, img image.Image) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func TestFromImages(t *testing.T) {
	red := color.NRGBA{R: 255, A: 255}
	s, err := FromImages([]string{"a", "b"}, []image.Image{solid(2, 3, red), solid(2, 3, red)})
	if err != nil {
		t.Fatalf("FromImages() error: %v", err)
	}
	if s.Len() != 2 || s.Width() != 2 || s.Height() != 3 {
		t.Fatalf("got len=%d %dx%d, want len=2 2x3", s.Len(), s.Width(), s.Height())
	}

	st := s.Strip(0)
	if len(st.RGB) != 2*3*Channels || len(st.Float) != len(st.RGB) {
		t.Fatalf("buffer sizes = %d/%d, want %d", len(st.RGB), len(st.Float), 2*3*Channels)
	}
	if st.RGB[0] != 255 || st.RGB[1] != 0 || st.RGB[2] != 0 {
		t.Errorf("first pixel = %v, want [255 0 0]", st.RGB[:3])
	}
	if st.Float[0] != 1 || st.Float[1] != 0 {
		t.Errorf("first float pixel = %v, want [1 0 0]", st.Float[:3])
	}
	if st.Name != "a" {
		t.Errorf("Name = %q, want %q", st.Name, "a")
	}
}

func TestFromImagesShapeMismatch(t *testing.T) {
	c := color.NRGBA{A: 255}
	_, err := FromImages(nil, []image.Image{solid(2, 3, c), solid(2, 4, c)})
	if !errors.Is(err, errors.ErrCodeShapeMismatch) {
		t.Fatalf("got %v, want SHAPE_MISMATCH", err)
	}
}

func TestFromImagesEmpty(t *testing.T) {
	if _, err := FromImages(nil, nil); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Fatalf("got %v, want INVALID_INPUT", err)
	}
}

func TestImageRoundTrip(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	src.SetNRGBA(0, 0, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	src.SetNRGBA(1, 1, color.NRGBA{R: 200, G: 100, B: 50, A: 255})

	s, err := FromImages(nil, []image.Image{src})
	if err != nil {
		t.Fatal(err)
	}
	out := s.Image(0)
	for _, p := range []image.Point{{0, 0}, {1, 1}, {1, 0}} {
		want := src.NRGBAAt(p.X, p.Y)
		want.A = 255
		if got := out.NRGBAAt(p.X, p.Y); got != want {
			t.Errorf("pixel %v = %v, want %v", p, got, want)
		}
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "b.png"), solid(1, 4, color.NRGBA{G: 255, A: 255}))
	writePNG(t, filepath.Join(dir, "a.png"), solid(1, 4, color.NRGBA{R: 255, A: 255}))
	if err := os.WriteFile(filepath.Join(dir, ".DS_Store"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := Load(context.Background(), dir, 2)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if s.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", s.Len())
	}
	if s.Strip(0).Name != "a.png" || s.Strip(1).Name != "b.png" {
		t.Errorf("names = %q, %q; want sorted a.png, b.png", s.Strip(0).Name, s.Strip(1).Name)
	}
	if s.Strip(0).RGB[0] != 255 {
		t.Errorf("a.png should be red, got %v", s.Strip(0).RGB[:3])
	}
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing dir", func(t *testing.T) {
		_, err := Load(context.Background(), filepath.Join(t.TempDir(), "nope"), 1)
		if !errors.Is(err, errors.ErrCodeIO) {
			t.Errorf("got %v, want IO_ERROR", err)
		}
	})

	t.Run("empty dir", func(t *testing.T) {
		_, err := Load(context.Background(), t.TempDir(), 1)
		if !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("got %v, want INVALID_INPUT", err)
		}
	})

	t.Run("undecodable", func(t *testing.T) {
		dir := t.TempDir()
		if err := os.WriteFile(filepath.Join(dir, "x.png"), []byte("not a png"), 0o644); err != nil {
			t.Fatal(err)
		}
		_, err := Load(context.Background(), dir, 1)
		if !errors.Is(err, errors.ErrCodeDecode) {
			t.Errorf("got %v, want DECODE_ERROR", err)
		}
	})

	t.Run("mixed shapes", func(t *testing.T) {
		dir := t.TempDir()
		writePNG(t, filepath.Join(dir, "a.png"), solid(1, 4, color.NRGBA{A: 255}))
		writePNG(t, filepath.Join(dir, "b.png"), solid(1, 5, color.NRGBA{A: 255}))
		_, err := Load(context.Background(), dir, 1)
		if !errors.Is(err, errors.ErrCodeShapeMismatch) {
			t.Errorf("got %v, want SHAPE_MISMATCH", err)
		}
	})
}
