package cutter

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync/atomic"

	"github.com/disintegration/imaging"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/unshred/pkg/errors"
)

// DefaultWorkers bounds the number of scans processed at once.
const DefaultWorkers = 6

// Geometry locates strips within a scan.
type Geometry struct {
	Count     int `toml:"count"`
	X0        int `toml:"x0"`
	Step      int `toml:"step"`
	Y         int `toml:"y"`
	Width     int `toml:"width"`
	Height    int `toml:"height"`
	FitWidth  int `toml:"fit_width"`
	FitHeight int `toml:"fit_height"`
}

// DefaultGeometry matches the layout of the published scans.
func DefaultGeometry() Geometry {
	return Geometry{
		Count:     5,
		X0:        200,
		Step:      210,
		Y:         103,
		Width:     10,
		Height:    10330,
		FitWidth:  10,
		FitHeight: 1033,
	}
}

// Validate checks that every dimension is usable.
func (g Geometry) Validate() error {
	for _, f := range []struct {
		name string
		v    int
	}{
		{"count", g.Count},
		{"width", g.Width},
		{"height", g.Height},
		{"fit_width", g.FitWidth},
		{"fit_height", g.FitHeight},
	} {
		if f.v <= 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "invalid cutter %s: %d (must be positive)", f.name, f.v)
		}
	}
	if g.X0 < 0 || g.Y < 0 || g.Step < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "invalid cutter offsets: x0=%d y=%d step=%d (must be non-negative)", g.X0, g.Y, g.Step)
	}
	return nil
}

// Rect returns the crop rectangle of strip i.
func (g Geometry) Rect(i int) image.Rectangle {
	x := g.X0 + i*g.Step
	return image.Rect(x, g.Y, x+g.Width, g.Y+g.Height)
}

// OutputName returns the file name of strip i cut from the scan at path.
// Scans whose extension cannot be encoded produce PNG strips.
func OutputName(path string, i int) string {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	if _, err := imaging.FormatFromExtension(ext); err != nil {
		ext = ".png"
	}
	return fmt.Sprintf("%s-%d%s", stem, i, ext)
}

// Cut slices every scan in src into dst with at most workers scans in
// flight. total counts strips considered; fresh counts strips written.
func Cut(ctx context.Context, src, dst string, g Geometry, workers int) (total, fresh int, err error) {
	if err := g.Validate(); err != nil {
		return 0, 0, err
	}
	scans, err := listScans(src)
	if err != nil {
		return 0, 0, err
	}
	if err := os.MkdirAll(dst, 0o755); err != nil {
		return 0, 0, errors.Wrap(errors.ErrCodeIO, err, "create %s", dst)
	}
	if workers <= 0 {
		workers = DefaultWorkers
	}

	var written atomic.Int64
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for _, scan := range scans {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			n, err := cutScan(scan, dst, g)
			written.Add(int64(n))
			return err
		})
	}
	err = eg.Wait()
	return len(scans) * g.Count, int(written.Load()), err
}

// cutScan writes the missing strips of one scan and returns how many it
// wrote. The scan is decoded on the first missing strip.
func cutScan(path, dst string, g Geometry) (int, error) {
	var img image.Image
	n := 0
	for i := range g.Count {
		out := filepath.Join(dst, OutputName(path, i))
		if _, err := os.Stat(out); err == nil {
			continue
		}
		if img == nil {
			var err error
			if img, err = imaging.Open(path); err != nil {
				return n, errors.Wrap(errors.ErrCodeDecode, err, "decode %s", path)
			}
		}

		r := g.Rect(i).Add(img.Bounds().Min)
		if !r.In(img.Bounds()) {
			return n, errors.New(errors.ErrCodeInvalidInput, "strip %d of %s at %v lies outside the %v image", i, filepath.Base(path), g.Rect(i), img.Bounds().Size())
		}
		strip := imaging.Fit(imaging.Crop(img, r), g.FitWidth, g.FitHeight, imaging.NearestNeighbor)
		if err := imaging.Save(strip, out); err != nil {
			return n, errors.Wrap(errors.ErrCodeIO, err, "save %s", out)
		}
		n++
	}
	return n, nil
}

// listScans returns the regular, non-hidden files in dir sorted by name.
func listScans(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "read scan directory %s", dir)
	}
	var paths []string
	for _, e := range entries {
		if !e.Type().IsRegular() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	slices.Sort(paths)
	return paths, nil
}
