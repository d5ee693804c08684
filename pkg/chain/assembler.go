package chain

import (
	"slices"

	"github.com/matzehuels/unshred/pkg/affinity"
	"github.com/matzehuels/unshred/pkg/errors"
)

// Position locates a strip inside the assembler's chunks.
type Position struct {
	Chunk  int
	Offset int
}

// Assembler holds the chunk and position-table state of one cluster.
// It is not safe for concurrent use.
type Assembler struct {
	chunks    [][]int
	positions map[int]Position
	last      int
	merges    int
}

// NewAssembler creates one singleton chunk per index. Indices must be unique.
func NewAssembler(indices []int) (*Assembler, error) {
	a := &Assembler{
		chunks:    make([][]int, len(indices)),
		positions: make(map[int]Position, len(indices)),
	}
	for i, idx := range indices {
		if _, dup := a.positions[idx]; dup {
			return nil, errors.New(errors.ErrCodeInvalidInput, "strip %d listed twice in cluster", idx)
		}
		a.chunks[i] = []int{idx}
		a.positions[idx] = Position{Chunk: i}
	}
	return a, nil
}

// Apply processes one edge and reports whether it merged two chunks. Edges
// joining strips of the same chunk or touching an interior strip are skipped.
func (a *Assembler) Apply(e affinity.Edge) (bool, error) {
	pi, ok := a.positions[e.A]
	if !ok {
		return false, errors.New(errors.ErrCodeInvalidInput, "edge references strip %d outside the cluster", e.A)
	}
	pj, ok := a.positions[e.B]
	if !ok {
		return false, errors.New(errors.ErrCodeInvalidInput, "edge references strip %d outside the cluster", e.B)
	}

	if pi.Chunk == pj.Chunk || !a.endpoint(pi) || !a.endpoint(pj) {
		return false, nil
	}

	left := a.chunks[pi.Chunk]
	right := a.chunks[pj.Chunk]
	if pi.Offset == 0 {
		slices.Reverse(left)
	}
	if pj.Offset != 0 {
		slices.Reverse(right)
	}
	merged := append(left, right...)

	a.chunks[pi.Chunk] = merged
	a.chunks[pj.Chunk] = nil
	for k, idx := range merged {
		a.positions[idx] = Position{Chunk: pi.Chunk, Offset: k}
	}
	a.last = pi.Chunk
	a.merges++
	return true, nil
}

func (a *Assembler) endpoint(p Position) bool {
	return p.Offset == 0 || p.Offset == len(a.chunks[p.Chunk])-1
}

// Position returns where strip idx currently sits.
func (a *Assembler) Position(idx int) (Position, bool) {
	p, ok := a.positions[idx]
	return p, ok
}

// Chunks returns copies of the non-empty chunks in chunk order.
func (a *Assembler) Chunks() [][]int {
	var out [][]int
	for _, c := range a.chunks {
		if len(c) > 0 {
			out = append(out, slices.Clone(c))
		}
	}
	return out
}

// Merges returns the number of successful merges so far.
func (a *Assembler) Merges() int { return a.merges }

// Result returns the current primary chain and leftovers.
func (a *Assembler) Result() Result {
	r := Result{Size: len(a.positions), Merges: a.merges}
	if len(a.chunks) == 0 {
		return r
	}
	r.Primary = slices.Clone(a.chunks[a.last])
	for i, c := range a.chunks {
		if i != a.last && len(c) > 0 {
			r.Leftovers = append(r.Leftovers, slices.Clone(c))
		}
	}
	return r
}

// Assemble runs a fresh assembler over edges, which must already be sorted
// best first.
func Assemble(indices []int, edges []affinity.Edge) (Result, error) {
	a, err := NewAssembler(indices)
	if err != nil {
		return Result{}, err
	}
	for _, e := range edges {
		if _, err := a.Apply(e); err != nil {
			return Result{}, err
		}
	}
	return a.Result(), nil
}
