package chain

// Result is the outcome of assembling one cluster.
type Result struct {
	// Primary is the chunk touched by the last successful merge, or the
	// first chunk if nothing merged.
	Primary []int `json:"primary"`

	// Leftovers are the remaining non-empty chunks in chunk order.
	Leftovers [][]int `json:"leftovers,omitempty"`

	// Size is the number of strips in the cluster.
	Size int `json:"size"`

	// Merges is the number of edges that joined two chunks.
	Merges int `json:"merges"`
}

// Coverage returns the fraction of the cluster held by the primary chain.
func (r Result) Coverage() float64 {
	if r.Size == 0 {
		return 1
	}
	return float64(len(r.Primary)) / float64(r.Size)
}

// Complete reports whether the primary chain holds every strip.
func (r Result) Complete() bool {
	return len(r.Primary) == r.Size
}

// Missing returns the number of strips outside the primary chain.
func (r Result) Missing() int {
	return r.Size - len(r.Primary)
}

// All returns the primary chain followed by every leftover chunk.
func (r Result) All() []int {
	out := make([]int, 0, r.Size)
	out = append(out, r.Primary...)
	for _, c := range r.Leftovers {
		out = append(out, c...)
	}
	return out
}
