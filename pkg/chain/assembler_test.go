package chain

import (
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/unshred/pkg/affinity"
	"github.com/matzehuels/unshred/pkg/errors"
)

func edge(a, b int, score float64) affinity.Edge {
	return affinity.Edge{A: a, B: b, Score: score}
}

// checkInvariants verifies that chunks partition the strips, that the
// position table agrees with chunk contents, and that every strip appears
// exactly once.
func checkInvariants(t *testing.T, a *Assembler, indices []int) {
	t.Helper()
	seen := make(map[int]bool)
	for _, c := range a.Chunks() {
		for k, idx := range c {
			if seen[idx] {
				t.Fatalf("strip %d appears in more than one chunk", idx)
			}
			seen[idx] = true
			p, ok := a.Position(idx)
			if !ok {
				t.Fatalf("strip %d missing from position table", idx)
			}
			if p.Offset != k {
				t.Fatalf("strip %d: table offset %d, chunk offset %d", idx, p.Offset, k)
			}
		}
	}
	if len(seen) != len(indices) {
		t.Fatalf("chunks hold %d strips, want %d", len(seen), len(indices))
	}
}

func TestAssembleLinearChain(t *testing.T) {
	edges := []affinity.Edge{
		edge(0, 1, 0.1),
		edge(1, 2, 0.2),
		edge(2, 3, 0.3),
		edge(0, 3, 0.9),
	}

	a, err := NewAssembler([]int{0, 1, 2, 3})
	if err != nil {
		t.Fatal(err)
	}
	var merged []bool
	for _, e := range edges {
		ok, err := a.Apply(e)
		if err != nil {
			t.Fatal(err)
		}
		merged = append(merged, ok)
	}

	if diff := cmp.Diff([]bool{true, true, true, false}, merged); diff != "" {
		t.Errorf("merge decisions mismatch (-want +got):\n%s", diff)
	}

	r := a.Result()
	rev := slices.Clone(r.Primary)
	slices.Reverse(rev)
	if !slices.Equal(r.Primary, []int{0, 1, 2, 3}) && !slices.Equal(rev, []int{0, 1, 2, 3}) {
		t.Errorf("Primary = %v, want [0 1 2 3] or its reverse", r.Primary)
	}
	if !r.Complete() || len(r.Leftovers) != 0 {
		t.Errorf("expected complete chain, got %+v", r)
	}
}

func TestAssembleInteriorEndpointSkipped(t *testing.T) {
	a, err := NewAssembler([]int{0, 1, 2, 3, 4})
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range []affinity.Edge{edge(0, 1, 0.1), edge(1, 2, 0.2), edge(3, 4, 0.3)} {
		if ok, err := a.Apply(e); err != nil || !ok {
			t.Fatalf("Apply(%v) = %v, %v; want merge", e, ok, err)
		}
	}
	before := a.Chunks()

	ok, err := a.Apply(edge(1, 3, 0.4))
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("edge touching interior strip 1 must be skipped")
	}
	if diff := cmp.Diff(before, a.Chunks()); diff != "" {
		t.Errorf("chunks changed after skipped edge (-before +after):\n%s", diff)
	}
	if diff := cmp.Diff([][]int{{0, 1, 2}, {3, 4}}, before); diff != "" {
		t.Errorf("chunks mismatch (-want +got):\n%s", diff)
	}
}

func TestAssembleOrientation(t *testing.T) {
	tests := []struct {
		name  string
		edges []affinity.Edge
		want  []int
	}{
		{
			// i is the head of [1,0]: that chunk is reversed so i ends it.
			name:  "head joins head",
			edges: []affinity.Edge{edge(1, 0, 0.1), edge(2, 3, 0.2), edge(1, 2, 0.3)},
			want:  []int{0, 1, 2, 3},
		},
		{
			// j is the tail of [3,2]: that chunk is reversed so j starts it.
			name:  "tail joins tail",
			edges: []affinity.Edge{edge(0, 1, 0.1), edge(3, 2, 0.2), edge(1, 2, 0.3)},
			want:  []int{0, 1, 2, 3},
		},
		{
			name:  "merge into earlier chunk slot",
			edges: []affinity.Edge{edge(3, 2, 0.1), edge(2, 1, 0.2)},
			want:  []int{3, 2, 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := Assemble([]int{0, 1, 2, 3}, tt.edges)
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tt.want, r.Primary); diff != "" {
				t.Errorf("Primary mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestAssembleLeftovers(t *testing.T) {
	// Strip 4 never merges; {2,3} merges before the last-touched chunk.
	edges := []affinity.Edge{
		edge(2, 3, 0.1),
		edge(0, 1, 0.2),
		edge(4, 4, 0.3),
	}
	r, err := Assemble([]int{0, 1, 2, 3, 4}, edges)
	if err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff([]int{0, 1}, r.Primary); diff != "" {
		t.Errorf("Primary mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([][]int{{2, 3}, {4}}, r.Leftovers); diff != "" {
		t.Errorf("Leftovers mismatch (-want +got):\n%s", diff)
	}
	if r.Complete() {
		t.Error("Complete() = true for partial chain")
	}
	if r.Missing() != 3 {
		t.Errorf("Missing() = %d, want 3", r.Missing())
	}
	if got := r.Coverage(); got != 0.4 {
		t.Errorf("Coverage() = %v, want 0.4", got)
	}
	if diff := cmp.Diff([]int{0, 1, 2, 3, 4}, r.All()); diff != "" {
		t.Errorf("All() mismatch (-want +got):\n%s", diff)
	}
}

func TestAssembleNoMerges(t *testing.T) {
	r, err := Assemble([]int{7, 8}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]int{7}, r.Primary); diff != "" {
		t.Errorf("Primary mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([][]int{{8}}, r.Leftovers); diff != "" {
		t.Errorf("Leftovers mismatch (-want +got):\n%s", diff)
	}

	empty, err := Assemble(nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(empty.Primary) != 0 || empty.Size != 0 || !empty.Complete() {
		t.Errorf("empty cluster result = %+v", empty)
	}
}

func TestAssembleErrors(t *testing.T) {
	if _, err := NewAssembler([]int{1, 2, 1}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("duplicate index: got %v, want INVALID_INPUT", err)
	}
	if _, err := Assemble([]int{0, 1}, []affinity.Edge{edge(0, 5, 0)}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("unknown index: got %v, want INVALID_INPUT", err)
	}
}

func TestAssemblePrefixInvariant(t *testing.T) {
	// Dense edge set over 8 strips in a fixed pseudo-random order.
	indices := []int{10, 11, 12, 13, 14, 15, 16, 17}
	pairs := affinity.Pairs(indices)
	edges := make([]affinity.Edge, len(pairs))
	for k, p := range pairs {
		edges[k] = edge(p[0], p[1], float64((k*37)%len(pairs)))
	}
	affinity.Sort(edges)

	a, err := NewAssembler(indices)
	if err != nil {
		t.Fatal(err)
	}
	neighbors := make(map[int]map[int]bool)
	for _, e := range edges {
		ok, err := a.Apply(e)
		if err != nil {
			t.Fatal(err)
		}
		if ok {
			for _, pair := range [][2]int{{e.A, e.B}, {e.B, e.A}} {
				if neighbors[pair[0]] == nil {
					neighbors[pair[0]] = make(map[int]bool)
				}
				neighbors[pair[0]][pair[1]] = true
			}
		}
		checkInvariants(t, a, indices)
		for idx, n := range neighbors {
			if len(n) > 2 {
				t.Fatalf("strip %d has %d neighbors", idx, len(n))
			}
		}
	}

	if a.Merges() != len(indices)-1 {
		t.Errorf("Merges() = %d, want %d for a dense edge set", a.Merges(), len(indices)-1)
	}
	if r := a.Result(); !r.Complete() {
		t.Errorf("dense edge set should yield a complete chain, got %+v", r)
	}
}
