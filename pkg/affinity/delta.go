package affinity

import (
	"math"

	"github.com/matzehuels/unshred/pkg/errors"
	"github.com/matzehuels/unshred/pkg/strip"
)

// MaxScore marks a pair as implausible. It is finite so that sorting and
// serialization behave normally.
const MaxScore = math.MaxFloat32 / 2

// Delta returns the dissimilarity of two float pixel buffers of a strip with
// the given height. Lower is more similar; identical buffers score 0.
//
// MaxGradient bounds the channels on average: a position is dropped once its
// mean squared channel difference reaches MaxGradient², which is a summed
// difference of 3·MaxGradient². Both weightings drop the same positions. A
// single channel may therefore exceed MaxGradient² while the position is kept.
func Delta(a, b []float32, height int, cfg Config) (float64, error) {
	if len(a) != len(b) || len(a)%strip.Channels != 0 {
		return 0, errors.New(errors.ErrCodeShapeMismatch, "pixel buffers of length %d and %d", len(a), len(b))
	}
	if height <= 0 {
		return 0, errors.New(errors.ErrCodeInvalidInput, "strip height must be positive, got %d", height)
	}
	return delta(a, b, height, cfg), nil
}

func delta(a, b []float32, height int, cfg Config) float64 {
	limit := cfg.threshold()
	var (
		sum   float64
		count int
	)
	for i := 0; i < len(a); i += strip.Channels {
		var d float64
		for c := range strip.Channels {
			v := float64(a[i+c]) - float64(b[i+c])
			d += v * v
		}
		if cfg.Weighting == WeightMean {
			d /= strip.Channels
		}
		if d >= limit {
			continue
		}
		count++
		for range cfg.SqrtCount {
			d = math.Sqrt(d)
		}
		sum += d
	}

	confidence := float64(count) / float64(height)
	if count == 0 || confidence < cfg.MinConfidence {
		return MaxScore
	}
	return sum / math.Pow(float64(count), cfg.ConfidenceBonus)
}
