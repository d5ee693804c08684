package cluster

import "github.com/matzehuels/unshred/pkg/strip"

// Palette is the set of distinct 8-bit colors in a strip, each packed as
// 0xRRGGBB.
type Palette map[uint32]struct{}

// PaletteOf computes the palette of an RGB triple buffer.
func PaletteOf(rgb []uint8) Palette {
	p := make(Palette)
	for i := 0; i+strip.Channels <= len(rgb); i += strip.Channels {
		p[uint32(rgb[i])<<16|uint32(rgb[i+1])<<8|uint32(rgb[i+2])] = struct{}{}
	}
	return p
}

// SubsetOf reports whether every color of p is also in q.
func (p Palette) SubsetOf(q Palette) bool {
	if len(p) > len(q) {
		return false
	}
	for c := range p {
		if _, ok := q[c]; !ok {
			return false
		}
	}
	return true
}
