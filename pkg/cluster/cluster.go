package cluster

import (
	"cmp"
	"slices"

	"github.com/matzehuels/unshred/pkg/errors"
	"github.com/matzehuels/unshred/pkg/strip"
)

// Membership selects how many clusters a strip may join.
type Membership string

const (
	// AllMatch adds a strip to every cluster whose representative palette
	// contains its palette.
	AllMatch Membership = "all"

	// FirstMatch adds a strip to the first such cluster only.
	FirstMatch Membership = "first"
)

// ParseMembership converts a config string into a Membership.
// An empty string selects AllMatch.
func ParseMembership(s string) (Membership, error) {
	switch Membership(s) {
	case "", AllMatch:
		return AllMatch, nil
	case FirstMatch:
		return FirstMatch, nil
	}
	return "", errors.New(errors.ErrCodeInvalidConfig, "invalid membership: %q (must be one of: all, first)", s)
}

// Cluster is a group of strip indices believed to come from one source image.
type Cluster struct {
	// Members are strip indices in the order they were assigned.
	Members []int

	representative Palette
}

// Representative returns the palette of the founding member.
func (c *Cluster) Representative() Palette { return c.representative }

type entry struct {
	index   int
	palette Palette
}

// Group clusters all strips of s by palette compatibility.
func Group(s *strip.Store, mode Membership) []Cluster {
	palettes := make([]Palette, s.Len())
	for i := range palettes {
		palettes[i] = PaletteOf(s.Strip(i).RGB)
	}
	return GroupPalettes(palettes, mode)
}

// GroupPalettes clusters indices 0..len(palettes)-1 by their palettes.
func GroupPalettes(palettes []Palette, mode Membership) []Cluster {
	entries := make([]entry, len(palettes))
	for i, p := range palettes {
		entries[i] = entry{index: i, palette: p}
	}
	slices.SortStableFunc(entries, func(a, b entry) int {
		return cmp.Compare(len(b.palette), len(a.palette))
	})

	var clusters []Cluster
	for _, e := range entries {
		matched := false
		for ci := range clusters {
			if !e.palette.SubsetOf(clusters[ci].representative) {
				continue
			}
			clusters[ci].Members = append(clusters[ci].Members, e.index)
			matched = true
			if mode == FirstMatch {
				break
			}
		}
		if !matched {
			clusters = append(clusters, Cluster{
				Members:        []int{e.index},
				representative: e.palette,
			})
		}
	}
	return clusters
}

// Single returns one cluster holding every strip in store order. It is used
// when clustering is disabled.
func Single(s *strip.Store) []Cluster {
	return []Cluster{{Members: s.Indices()}}
}
