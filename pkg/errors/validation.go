package errors

import (
	"math"
	"strconv"
	"strings"
)

// ParseFloatArg parses a numeric command-line argument.
// NaN and infinities are rejected along with malformed input.
func ParseFloatArg(name, s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, New(ErrCodeArgumentParse, "%s: %q is not a number", name, s)
	}
	return v, nil
}

// ParseIntArg parses a non-negative integer command-line argument.
func ParseIntArg(name, s string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, New(ErrCodeArgumentParse, "%s: %q is not an integer", name, s)
	}
	if v < 0 {
		return 0, New(ErrCodeArgumentParse, "%s: %q must not be negative", name, s)
	}
	return v, nil
}

// ParseSeedArg parses a random seed.
func ParseSeedArg(s string) (uint64, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, New(ErrCodeArgumentParse, "seed: %q is not an unsigned integer", s)
	}
	return v, nil
}

// ValidateStretch checks that a stretch factor is finite and at least 1.
func ValidateStretch(name string, t float64) error {
	if math.IsNaN(t) || math.IsInf(t, 0) {
		return New(ErrCodeInvalidParameters, "%s must be finite", name)
	}
	if t < 1 {
		return New(ErrCodeInvalidParameters, "%s must be >= 1, got %g", name, t)
	}
	return nil
}

// ValidatePositive checks that v is a finite value greater than zero.
func ValidatePositive(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return New(ErrCodeInvalidParameters, "%s must be positive, got %g", name, v)
	}
	return nil
}

// ValidateCount checks that n is at least one.
func ValidateCount(name string, n int) error {
	if n < 1 {
		return New(ErrCodeInvalidParameters, "%s must be at least 1, got %d", name, n)
	}
	return nil
}

// ValidateURL checks that rawURL uses one of the given schemes.
func ValidateURL(rawURL string, schemes ...string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}
	for _, s := range schemes {
		if strings.HasPrefix(rawURL, s+"://") {
			return nil
		}
	}
	return New(ErrCodeInvalidInput, "URL must use one of the schemes %s", strings.Join(schemes, ", "))
}
