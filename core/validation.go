package core

import (
	"fmt"
	"math"
)

// ValidateVectorDimension checks that vec has exactly expectedDim elements,
// wrapping ErrDimensionMismatch so callers can match with errors.Is.
func ValidateVectorDimension(vec Vector, expectedDim int) error {
	if len(vec) != expectedDim {
		return fmt.Errorf("vector has dimension %d, expected %d: %w", len(vec), expectedDim, ErrDimensionMismatch)
	}
	return nil
}

// ValidateVectorValues checks a vector contains no NaN or infinite values.
func ValidateVectorValues(vec Vector) error {
	for i, val := range vec {
		if math.IsNaN(val) {
			return fmt.Errorf("vector contains NaN at index %d", i)
		}
		if math.IsInf(val, 0) {
			return fmt.Errorf("vector contains infinite value at index %d", i)
		}
	}
	return nil
}
