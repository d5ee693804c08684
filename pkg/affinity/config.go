package affinity

import (
	"github.com/matzehuels/unshred/pkg/errors"
)

// Weighting selects how the three channel differences of a position combine.
type Weighting string

const (
	// WeightSum adds the squared channel differences.
	WeightSum Weighting = "sum"

	// WeightMean averages the squared channel differences.
	WeightMean Weighting = "mean"
)

// Default parameter values.
const (
	DefaultMaxGradient     = 1.0
	DefaultSqrtCount       = 6
	DefaultConfidenceBonus = 1.0
	DefaultMinConfidence   = 0.0
	DefaultWorkers         = 6
)

// Config holds the scoring parameters. It is hashed into cache keys, so every
// field that changes a score must be serialized.
type Config struct {
	MaxGradient     float64   `json:"max_gradient"`
	SqrtCount       int       `json:"sqrt_count"`
	ConfidenceBonus float64   `json:"confidence_bonus"`
	MinConfidence   float64   `json:"min_confidence"`
	Weighting       Weighting `json:"weighting"`

	// Workers does not affect scores and is left out of cache keys.
	Workers int `json:"-"`
}

// DefaultConfig returns the standard scoring parameters.
func DefaultConfig() Config {
	return Config{
		MaxGradient:     DefaultMaxGradient,
		SqrtCount:       DefaultSqrtCount,
		ConfidenceBonus: DefaultConfidenceBonus,
		MinConfidence:   DefaultMinConfidence,
		Weighting:       WeightSum,
		Workers:         DefaultWorkers,
	}
}

// Validate checks every parameter. An empty Weighting is set to WeightSum.
func (c *Config) Validate() error {
	if c.Weighting == "" {
		c.Weighting = WeightSum
	}
	if err := errors.ValidatePositive("max_gradient", c.MaxGradient); err != nil {
		return err
	}
	if err := errors.ValidateNonNegative("sqrt_count", c.SqrtCount); err != nil {
		return err
	}
	if err := errors.ValidateUnitInterval("min_confidence", c.MinConfidence); err != nil {
		return err
	}
	if c.Workers < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "workers must be at least 1, got %d", c.Workers)
	}
	return errors.ValidateOneOf("weighting", string(c.Weighting), string(WeightSum), string(WeightMean))
}

// threshold is the combined-difference value at which a position is dropped.
func (c Config) threshold() float64 {
	t := c.MaxGradient * c.MaxGradient
	if c.Weighting == WeightMean {
		return t
	}
	return t * 3
}
