// Package pipeline runs the reassembly engine over a strip store.
//
// A run has three stages:
//
//  1. Cluster: group strips by palette (or treat them as one group)
//  2. Score: compute the pairwise affinity of every cluster's members
//  3. Assemble: chain each cluster greedily from its sorted edges
//
// Scoring dominates the cost of a run, so the scored edges of each cluster
// are cached under a key derived from the member pixels and the scoring
// parameters. Clusters are processed one after another; each scoring pass is
// itself parallel.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, store, pipeline.Options{
//	    Affinity: affinity.DefaultConfig(),
//	    Cluster:  true,
//	})
//	if err != nil {
//	    return err
//	}
//	img, err := runner.Compose(result, store, compose.DefaultOptions())
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/unshred/pkg/affinity"
	"github.com/matzehuels/unshred/pkg/chain"
	"github.com/matzehuels/unshred/pkg/cluster"
)

// Options configures a run.
type Options struct {
	Affinity affinity.Config `json:"affinity"`

	// Cluster partitions strips by palette. When false all strips form one
	// cluster.
	Cluster    bool               `json:"cluster"`
	Membership cluster.Membership `json:"membership,omitempty"`

	// Refresh ignores cached edges. Fresh results are still stored.
	Refresh bool `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`

	validated bool
}

// ValidateAndSetDefaults checks the options and fills in defaults. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.Affinity.Validate(); err != nil {
		return err
	}
	m, err := cluster.ParseMembership(string(o.Membership))
	if err != nil {
		return err
	}
	o.Membership = m
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// Result is the outcome of a run.
type Result struct {
	// RunID identifies the run in logs.
	RunID string

	// Clusters holds one entry per cluster, in clustering order.
	Clusters []ClusterResult

	Stats Stats
}

// ClusterResult is the assembly of a single cluster.
type ClusterResult struct {
	ID      int
	Members []int
	Chain   chain.Result

	// Edges is the number of scored pairs.
	Edges    int
	CacheHit bool
}

// Stats summarizes a run.
type Stats struct {
	Strips    int
	Clusters  int
	Chained   int
	Merges    int
	CacheHits int

	ClusterTime  time.Duration
	ScoreTime    time.Duration
	AssembleTime time.Duration
}

// Chains returns the chain of every cluster, in cluster order.
func (r *Result) Chains() []chain.Result {
	out := make([]chain.Result, len(r.Clusters))
	for i, c := range r.Clusters {
		out[i] = c.Chain
	}
	return out
}

// Incomplete returns the clusters whose primary chain misses members.
func (r *Result) Incomplete() []ClusterResult {
	var out []ClusterResult
	for _, c := range r.Clusters {
		if !c.Chain.Complete() {
			out = append(out, c)
		}
	}
	return out
}
