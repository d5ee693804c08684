// Package compose lays reconstructed chains side by side into one image.
//
// Each cluster contributes one block of strips, left to right in chain
// order, followed by a blank gap. Leftover chunks from partial assemblies are
// placed according to a [LeftoverPolicy].
package compose

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"

	"github.com/matzehuels/unshred/pkg/chain"
	"github.com/matzehuels/unshred/pkg/errors"
	"github.com/matzehuels/unshred/pkg/strip"
)

// LeftoverPolicy decides what happens to chunks outside the primary chain.
type LeftoverPolicy string

const (
	// Discard drops leftovers and composes primary chains only.
	Discard LeftoverPolicy = "discard"

	// Append places leftovers directly after their cluster's primary chain.
	Append LeftoverPolicy = "append"

	// Separate gives every leftover chunk a block of its own.
	Separate LeftoverPolicy = "separate"
)

// ParseLeftoverPolicy converts a config string. Empty selects Separate.
func ParseLeftoverPolicy(s string) (LeftoverPolicy, error) {
	switch LeftoverPolicy(s) {
	case "", Separate:
		return Separate, nil
	case Discard:
		return Discard, nil
	case Append:
		return Append, nil
	}
	return "", errors.New(errors.ErrCodeInvalidConfig, "invalid leftover policy: %q (must be one of: discard, append, separate)", s)
}

// Options configures composition.
type Options struct {
	Leftovers LeftoverPolicy

	// GapStrips is the blank space after each block, in strip widths.
	GapStrips int

	// Background fills the gaps. Nil means opaque black.
	Background color.Color
}

// DefaultOptions returns one strip of gap and separate leftover blocks.
func DefaultOptions() Options {
	return Options{Leftovers: Separate, GapStrips: 1}
}

// Blocks returns the strip blocks to lay out, in order.
func Blocks(results []chain.Result, policy LeftoverPolicy) [][]int {
	var blocks [][]int
	for _, r := range results {
		switch policy {
		case Append:
			blocks = append(blocks, r.All())
		case Separate:
			blocks = append(blocks, r.Primary)
			blocks = append(blocks, r.Leftovers...)
		default:
			blocks = append(blocks, r.Primary)
		}
	}
	return blocks
}

// Compose draws every block of results onto a canvas as tall as one strip.
func Compose(s *strip.Store, results []chain.Result, opts Options) (*image.NRGBA, error) {
	if opts.GapStrips < 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "gap must not be negative, got %d", opts.GapStrips)
	}
	bg := opts.Background
	if bg == nil {
		bg = color.Black
	}

	blocks := Blocks(results, opts.Leftovers)
	columns := 0
	for _, b := range blocks {
		columns += len(b) + opts.GapStrips
	}
	if columns == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "nothing to compose")
	}

	w := s.Width()
	canvas := imaging.New(columns*w, s.Height(), bg)
	x := 0
	for _, b := range blocks {
		for _, idx := range b {
			if idx < 0 || idx >= s.Len() {
				return nil, errors.New(errors.ErrCodeInvalidInput, "strip index %d out of range [0, %d)", idx, s.Len())
			}
			r := image.Rect(x, 0, x+w, s.Height())
			draw.Draw(canvas, r, s.Image(idx), image.Point{}, draw.Src)
			x += w
		}
		x += opts.GapStrips * w
	}
	return canvas, nil
}

// Save writes img to path; the format follows the file extension.
func Save(img image.Image, path string) error {
	if err := imaging.Save(img, path); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "save %s", path)
	}
	return nil
}
