// Package pkg provides the core libraries for Unshred image reassembly.
//
// # Overview
//
// Unshred puts the strips of a shredded image back in order. Strips are
// grouped by the colors they contain, every pair inside a group is scored by
// how well one strip's right edge continues into the other's left edge, and
// the best-scoring pairs are chained greedily. The pkg directory is organized
// into three areas:
//
//  1. Engine - [strip], [cluster], [affinity], [chain], [compose]
//  2. Acquisition - [source] (download scans) and [cutter] (slice scans into strips)
//  3. Infrastructure - [pipeline], [cache], [config], [report], [httputil], [observability]
//
// # Architecture
//
// The typical data flow through Unshred:
//
//	Links sheet (CSV)
//	         ↓
//	    [source] package (download scans)
//	         ↓
//	    [cutter] package (crop and fit strips)
//	         ↓
//	    [strip] package (decode into RGB and float buffers)
//	         ↓
//	    [cluster] package (palette groups)
//	         ↓
//	    [affinity] package (concurrent pairwise scoring)
//	         ↓
//	    [chain] package (greedy chain assembly)
//	         ↓
//	    [compose] package (PNG/JPEG output)
//
// # Quick Start
//
// Reassemble a directory of strips:
//
//	store, _ := strip.Load(ctx, "cut_strips", 8)
//	var results []chain.Result
//	for _, c := range cluster.Group(store, cluster.AllMatch) {
//	    edges, _ := affinity.Score(ctx, store, c.Members, affinity.DefaultConfig())
//	    affinity.Sort(edges)
//	    res, _ := chain.Assemble(c.Members, edges)
//	    results = append(results, res)
//	}
//	img, _ := compose.Compose(store, results, compose.DefaultOptions())
//	_ = compose.Save(img, "result.png")
//
// [pipeline.Runner] does the same with edge caching, hooks and statistics.
//
// # Testing
//
//	go test ./pkg/...           # All tests
//	go test ./pkg/affinity/...  # Specific package
//	go test -run Example        # Examples only
package pkg
