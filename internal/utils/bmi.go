package utils

import "math"

// CalculateBMI computes body mass index from weight and height, rounded to
// one decimal. Returns 0 for a non-positive height.
func CalculateBMI(weightKg float64, heightCm int) float64 {
	if heightCm <= 0 {
		return 0
	}
	heightM := float64(heightCm) / 100.0
	bmi := weightKg / (heightM * heightM)
	return math.Round(bmi*10) / 10
}
