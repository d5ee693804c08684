package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/unshred/pkg/affinity"
	"github.com/matzehuels/unshred/pkg/cache"
	"github.com/matzehuels/unshred/pkg/chain"
	"github.com/matzehuels/unshred/pkg/cluster"
	"github.com/matzehuels/unshred/pkg/compose"
	"github.com/matzehuels/unshred/pkg/observability"
	"github.com/matzehuels/unshred/pkg/strip"
)

// Runner executes the pipeline with an edge cache.
//
// A Runner holds no per-run state; one instance may serve several runs.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner. A nil cache disables caching, a nil keyer
// selects DefaultKeyer, and a nil logger selects log.Default().
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Execute clusters, scores and assembles every strip of s.
func (r *Runner) Execute(ctx context.Context, s *strip.Store, opts Options) (*Result, error) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	hooks := observability.Pipeline()
	result := &Result{RunID: uuid.NewString()}
	logger := opts.Logger.With("run", result.RunID[:8])

	start := time.Now()
	var clusters []cluster.Cluster
	if opts.Cluster {
		clusters = cluster.Group(s, opts.Membership)
	} else {
		clusters = cluster.Single(s)
	}
	result.Stats.Strips = s.Len()
	result.Stats.Clusters = len(clusters)
	result.Stats.ClusterTime = time.Since(start)
	hooks.OnClusterComplete(ctx, s.Len(), len(clusters), result.Stats.ClusterTime)
	logger.Info("clustered strips",
		"strips", s.Len(),
		"clusters", len(clusters),
		"duration", result.Stats.ClusterTime)

	for id, c := range clusters {
		cr, err := r.assembleCluster(ctx, s, id, c.Members, opts, &result.Stats, logger)
		if err != nil {
			return nil, fmt.Errorf("cluster %d: %w", id, err)
		}
		result.Clusters = append(result.Clusters, cr)
	}

	for _, c := range result.Incomplete() {
		logger.Warn("partial reconstruction",
			"cluster", c.ID,
			"chained", len(c.Chain.Primary),
			"members", len(c.Members),
			"leftovers", len(c.Chain.Leftovers))
	}
	return result, nil
}

func (r *Runner) assembleCluster(ctx context.Context, s *strip.Store, id int, members []int, opts Options, stats *Stats, logger *log.Logger) (ClusterResult, error) {
	hooks := observability.Pipeline()
	pairs := len(members) * (len(members) - 1) / 2

	scoreStart := time.Now()
	hooks.OnScoreStart(ctx, id, pairs)
	edges, hit, err := r.ScoreWithCacheInfo(ctx, s, members, opts)
	scoreTime := time.Since(scoreStart)
	hooks.OnScoreComplete(ctx, id, pairs, scoreTime, err)
	if err != nil {
		return ClusterResult{}, fmt.Errorf("score: %w", err)
	}
	stats.ScoreTime += scoreTime
	if hit {
		stats.CacheHits++
	}

	assembleStart := time.Now()
	affinity.Sort(edges)
	res, err := chain.Assemble(members, edges)
	if err != nil {
		return ClusterResult{}, fmt.Errorf("assemble: %w", err)
	}
	assembleTime := time.Since(assembleStart)
	stats.AssembleTime += assembleTime
	stats.Chained += len(res.Primary)
	stats.Merges += res.Merges
	hooks.OnAssembleComplete(ctx, id, len(members), len(res.Primary), assembleTime)

	logger.Debug("assembled cluster",
		"cluster", id,
		"strips", len(members),
		"pairs", pairs,
		"cached", hit,
		"chained", len(res.Primary),
		"score", scoreTime,
		"assemble", assembleTime)

	return ClusterResult{
		ID:       id,
		Members:  members,
		Chain:    res,
		Edges:    len(edges),
		CacheHit: hit,
	}, nil
}

// edgesKeyParams is hashed into edge cache keys next to the member pixels.
type edgesKeyParams struct {
	Members  []int           `json:"members"`
	Width    int             `json:"width"`
	Height   int             `json:"height"`
	Affinity affinity.Config `json:"affinity"`
}

// ScoreWithCacheInfo scores the pairs of members, consulting the cache
// first. The returned edges are in pair order; hit reports whether they
// came from the cache.
func (r *Runner) ScoreWithCacheInfo(ctx context.Context, s *strip.Store, members []int, opts Options) ([]affinity.Edge, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}

	key := r.edgesKey(s, members, opts.Affinity)
	if !opts.Refresh && key != "" {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			var edges []affinity.Edge
			if err := json.Unmarshal(data, &edges); err == nil && len(edges) == len(affinity.Pairs(members)) {
				return edges, true, nil
			}
		}
	}

	edges, err := affinity.Score(ctx, s, members, opts.Affinity)
	if err != nil {
		return nil, false, err
	}
	if key != "" {
		if data, err := json.Marshal(edges); err == nil {
			_ = r.Cache.Set(ctx, key, data, cache.TTLEdges)
		}
	}
	return edges, false, nil
}

// edgesKey returns "" when a member index is out of range; scoring then
// reports the error.
func (r *Runner) edgesKey(s *strip.Store, members []int, cfg affinity.Config) string {
	pixels := make([][]byte, len(members))
	for i, m := range members {
		if m < 0 || m >= s.Len() {
			return ""
		}
		pixels[i] = s.Strip(m).RGB
	}
	return r.Keyer.EdgesKey(cache.HashAll(pixels...), edgesKeyParams{
		Members:  members,
		Width:    s.Width(),
		Height:   s.Height(),
		Affinity: cfg,
	})
}

// Compose renders the chains of result side by side.
func (r *Runner) Compose(result *Result, s *strip.Store, opts compose.Options) (*image.NRGBA, error) {
	img, err := compose.Compose(s, result.Chains(), opts)
	if err != nil {
		return nil, fmt.Errorf("compose: %w", err)
	}
	r.Logger.Debug("composed result",
		"blocks", len(compose.Blocks(result.Chains(), opts.Leftovers)),
		"width", img.Bounds().Dx(),
		"height", img.Bounds().Dy())
	return img, nil
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
