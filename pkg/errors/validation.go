package errors

import (
	"math"
	"slices"
	"strings"
)

// ValidatePositive rejects values that are not strictly positive or not finite.
func ValidatePositive(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidConfig, "%s must be finite, got %v", name, v)
	}
	if v <= 0 {
		return New(ErrCodeInvalidConfig, "%s must be positive, got %v", name, v)
	}
	return nil
}

// ValidateNonNegative rejects negative integers.
func ValidateNonNegative(name string, v int) error {
	if v < 0 {
		return New(ErrCodeInvalidConfig, "%s must not be negative, got %d", name, v)
	}
	return nil
}

// ValidateUnitInterval rejects values outside [0, 1].
func ValidateUnitInterval(name string, v float64) error {
	if math.IsNaN(v) || v < 0 || v > 1 {
		return New(ErrCodeInvalidConfig, "%s must be within [0, 1], got %v", name, v)
	}
	return nil
}

// ValidateOneOf rejects a value that is not in allowed. Comparison is
// case-sensitive.
func ValidateOneOf(name, v string, allowed ...string) error {
	if !slices.Contains(allowed, v) {
		return New(ErrCodeInvalidConfig, "invalid %s: %q (must be one of: %s)", name, v, strings.Join(allowed, ", "))
	}
	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	// Simple scheme validation without full URL parsing
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}
