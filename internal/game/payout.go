package game

import "math"

// Payout converts a multiplier into a gross cent return, rounding half away
// from zero.
func Payout(stake int64, multiplier float64) int64 {
	return int64(math.Round(float64(stake) * multiplier))
}
