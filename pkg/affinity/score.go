package affinity

import (
	"cmp"
	"context"
	"slices"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/unshred/pkg/errors"
	"github.com/matzehuels/unshred/pkg/strip"
)

// Edge is the dissimilarity of one unordered strip pair.
type Edge struct {
	A     int     `json:"a"`
	B     int     `json:"b"`
	Score float64 `json:"score"`
}

// Pairs returns every unordered pair of indices as (indices[i], indices[j])
// with i < j.
func Pairs(indices []int) [][2]int {
	n := len(indices)
	pairs := make([][2]int, 0, n*(n-1)/2)
	for i := range n {
		for j := i + 1; j < n; j++ {
			pairs = append(pairs, [2]int{indices[i], indices[j]})
		}
	}
	return pairs
}

// Score computes an edge for every unordered pair of indices. The indices
// must all refer to strips in s with identical buffer sizes; violations are
// reported before any scoring starts.
//
// The returned edges follow pair order and are not sorted by score.
func Score(ctx context.Context, s *strip.Store, indices []int, cfg Config) ([]Edge, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := checkShapes(s, indices); err != nil {
		return nil, err
	}

	pairs := Pairs(indices)
	edges := make([]Edge, len(pairs))
	if len(pairs) == 0 {
		return edges, nil
	}

	var cursor atomic.Int64
	g, ctx := errgroup.WithContext(ctx)
	for range min(cfg.Workers, len(pairs)) {
		g.Go(func() error {
			for {
				if err := ctx.Err(); err != nil {
					return err
				}
				k := int(cursor.Add(1) - 1)
				if k >= len(pairs) {
					return nil
				}
				a, b := pairs[k][0], pairs[k][1]
				edges[k] = Edge{
					A:     a,
					B:     b,
					Score: delta(s.Strip(a).Float, s.Strip(b).Float, s.Height(), cfg),
				}
			}
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return edges, nil
}

func checkShapes(s *strip.Store, indices []int) error {
	if len(indices) == 0 {
		return nil
	}
	if s.Height() <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "strip height must be positive, got %d", s.Height())
	}
	want := -1
	for _, i := range indices {
		if i < 0 || i >= s.Len() {
			return errors.New(errors.ErrCodeInvalidInput, "strip index %d out of range [0, %d)", i, s.Len())
		}
		n := len(s.Strip(i).Float)
		if n%strip.Channels != 0 {
			return errors.New(errors.ErrCodeShapeMismatch, "strip %d has a truncated pixel buffer of length %d", i, n)
		}
		if want < 0 {
			want = n
		} else if n != want {
			return errors.New(errors.ErrCodeShapeMismatch, "strip %d has %d samples, want %d", i, n, want)
		}
	}
	return nil
}

// Sort orders edges by ascending score. Equal scores keep their input order.
func Sort(edges []Edge) {
	slices.SortStableFunc(edges, func(a, b Edge) int {
		return cmp.Compare(a.Score, b.Score)
	})
}
