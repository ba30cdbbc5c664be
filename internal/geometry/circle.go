// Package geometry holds the circle-area calculator.
package geometry

import (
	"errors"
	"math"
)

// ErrNegativeRadius is returned for radii below zero
var ErrNegativeRadius = errors.New("radius must be non-negative")

// CircleArea returns π·r²
func CircleArea(radius float64) (float64, error) {
	if radius < 0 || math.IsNaN(radius) {
		return 0, ErrNegativeRadius
	}
	return math.Pi * radius * radius, nil
}

// Round rounds v to precision decimal places, halves away from zero.
// A negative precision rounds to tens, hundreds and so on.
func Round(v float64, precision int) float64 {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return v
	}
	scale := math.Pow(10, float64(precision))
	scaled := v * scale
	if math.IsInf(scaled, 0) {
		return v
	}
	return math.Round(scaled) / scale
}
