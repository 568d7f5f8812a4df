package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestLevelForKnownThresholds(t *testing.T) {
	tests := []struct {
		turnover int64
		level    int
	}{
		{0, 1},
		{99_999, 1},
		{100_000, 2},
		{199_999, 2},
		{500_000, 6},
		{900_000, 10},
		{5_000_000, 10},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.level, levelFor(tt.turnover), "turnover %d", tt.turnover)
	}
}

// Property: the level is always within [1, maxLevel] and never decreases as
// turnover grows.
func TestLevelForMonotonicAndBounded(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := rapid.Int64Range(0, 10_000_000).Draw(t, "a")
		b := rapid.Int64Range(0, 10_000_000).Draw(t, "b")
		if a > b {
			a, b = b, a
		}

		la, lb := levelFor(a), levelFor(b)
		if la < 1 || la > maxLevel || lb < 1 || lb > maxLevel {
			t.Fatalf("level outside bounds: levelFor(%d)=%d, levelFor(%d)=%d", a, la, b, lb)
		}
		if la > lb {
			t.Fatalf("level decreased: levelFor(%d)=%d > levelFor(%d)=%d", a, la, b, lb)
		}
	})
}
