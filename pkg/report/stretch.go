package report

import (
	"encoding/json"
	"fmt"
)

// skippedValue is how an unmeasured stretch appears on the wire.
const skippedValue = -1

// Stretch is a measured worst-case stretch factor, or the marker that
// measurement was skipped.
type Stretch struct {
	value    float64
	measured bool
}

// Measured returns a stretch holding v.
func Measured(v float64) Stretch {
	return Stretch{value: v, measured: true}
}

// Skipped returns a stretch that was not measured.
func Skipped() Stretch {
	return Stretch{}
}

// Value returns the measured stretch and whether there is one.
func (s Stretch) Value() (float64, bool) {
	return s.value, s.measured
}

// IsMeasured reports whether the stretch was measured.
func (s Stretch) IsMeasured() bool {
	return s.measured
}

// String formats the stretch, "skipped" when unmeasured.
func (s Stretch) String() string {
	if !s.measured {
		return "skipped"
	}
	return fmt.Sprintf("%.6f", s.value)
}

// MarshalJSON writes the value, or -1 when skipped.
func (s Stretch) MarshalJSON() ([]byte, error) {
	if !s.measured {
		return json.Marshal(skippedValue)
	}
	return json.Marshal(s.value)
}

// UnmarshalJSON reads a value; any negative number means skipped.
func (s *Stretch) UnmarshalJSON(data []byte) error {
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("actual_stretch: %w", err)
	}
	if v < 0 {
		*s = Skipped()
		return nil
	}
	*s = Measured(v)
	return nil
}
