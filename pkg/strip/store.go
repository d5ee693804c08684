package strip

import (
	"context"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/disintegration/imaging"
	"golang.org/x/sync/errgroup"

	// Decoders for strip files beyond the stdlib set registered by imaging.
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/matzehuels/unshred/pkg/errors"
)

// Channels is the number of color channels per pixel in both encodings.
const Channels = 3

// Strip is one decoded slice of a shredded image.
type Strip struct {
	// Name is the file the strip was loaded from, or a caller-supplied label.
	Name string

	// RGB holds 8-bit channel triples in row-major order.
	RGB []uint8

	// Float holds the same pixels as float32 triples scaled to [0, 1].
	Float []float32
}

// Store is an immutable, indexed collection of equally sized strips.
type Store struct {
	strips []Strip
	width  int
	height int
}

// FromImages builds a store from decoded images. names may be nil, in which
// case strips are unnamed. All images must share the first image's size.
func FromImages(names []string, imgs []image.Image) (*Store, error) {
	if len(imgs) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no strips to load")
	}
	if names != nil && len(names) != len(imgs) {
		return nil, errors.New(errors.ErrCodeInvalidInput, "got %d names for %d images", len(names), len(imgs))
	}

	b := imgs[0].Bounds()
	s := &Store{
		strips: make([]Strip, len(imgs)),
		width:  b.Dx(),
		height: b.Dy(),
	}
	for i, img := range imgs {
		if img.Bounds().Dx() != s.width || img.Bounds().Dy() != s.height {
			return nil, errors.New(errors.ErrCodeShapeMismatch,
				"strip %d is %dx%d, want %dx%d", i, img.Bounds().Dx(), img.Bounds().Dy(), s.width, s.height)
		}
		var name string
		if names != nil {
			name = names[i]
		}
		s.strips[i] = decode(name, img)
	}
	return s, nil
}

// Load decodes every regular file in dir, sorted by name, into a store.
// Decoding runs on up to workers goroutines.
func Load(ctx context.Context, dir string, workers int) (*Store, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "read strip directory %s", dir)
	}

	var paths []string
	for _, e := range entries {
		if e.Type().IsRegular() && !strings.HasPrefix(e.Name(), ".") {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	if len(paths) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no strip files in %s", dir)
	}
	slices.Sort(paths)

	imgs := make([]image.Image, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))
	for i, p := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			img, err := imaging.Open(p)
			if err != nil {
				return errors.Wrap(errors.ErrCodeDecode, err, "decode %s", p)
			}
			imgs[i] = img
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	names := make([]string, len(paths))
	for i, p := range paths {
		names[i] = filepath.Base(p)
	}
	return FromImages(names, imgs)
}

func decode(name string, img image.Image) Strip {
	b := img.Bounds()
	n := b.Dx() * b.Dy() * Channels
	s := Strip{
		Name:  name,
		RGB:   make([]uint8, 0, n),
		Float: make([]float32, 0, n),
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			s.RGB = append(s.RGB, c.R, c.G, c.B)
		}
	}
	for _, v := range s.RGB {
		s.Float = append(s.Float, float32(v)/255)
	}
	return s
}

// Len returns the number of strips.
func (s *Store) Len() int { return len(s.strips) }

// Width returns the shared strip width in pixels.
func (s *Store) Width() int { return s.width }

// Height returns the shared strip height in pixels.
func (s *Store) Height() int { return s.height }

// Strip returns the strip at index i. The returned buffers must not be modified.
func (s *Store) Strip(i int) *Strip { return &s.strips[i] }

// Indices returns 0..Len()-1.
func (s *Store) Indices() []int {
	idx := make([]int, len(s.strips))
	for i := range idx {
		idx[i] = i
	}
	return idx
}

// Image returns strip i as a freshly allocated opaque NRGBA image.
func (s *Store) Image(i int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, s.width, s.height))
	rgb := s.strips[i].RGB
	for p := 0; p < s.width*s.height; p++ {
		img.Pix[p*4+0] = rgb[p*Channels+0]
		img.Pix[p*4+1] = rgb[p*Channels+1]
		img.Pix[p*4+2] = rgb[p*Channels+2]
		img.Pix[p*4+3] = 0xff
	}
	return img
}
