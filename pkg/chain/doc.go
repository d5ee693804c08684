// Package chain assembles strips into an ordered sequence from scored edges.
//
// Assembly is greedy. Every strip starts as its own chunk. Edges are applied
// best first, and an edge merges two chunks only when both of its strips sit
// at an open end (head or tail) of different chunks. Because merges happen
// only at endpoints and never inside one chunk, every chunk is a simple path
// and no strip ever gains more than two neighbors.
//
// # Results
//
// The primary chain of a [Result] is the chunk touched by the last successful
// merge. Strips that never merged into it are not lost. They are reported as
// [Result.Leftovers], and [Result.Coverage] tells callers how much of the
// cluster the primary chain recovered.
//
// # Usage
//
//	edges, _ := affinity.Score(ctx, store, members, cfg)
//	affinity.Sort(edges)
//	res, err := chain.Assemble(members, edges)
//	if err != nil {
//	    return err
//	}
//	if !res.Complete() {
//	    log.Warn("partial chain", "covered", len(res.Primary), "of", res.Size)
//	}
package chain
