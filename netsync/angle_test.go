package netsync

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeAngle(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{math.Pi / 2, math.Pi / 2},
		{math.Pi, math.Pi},
		{-math.Pi, -math.Pi},
		{3 * math.Pi / 2, -math.Pi / 2},
		{-3 * math.Pi / 2, math.Pi / 2},
		{-6, -6 + 2*math.Pi},
		{5 * twoPi, 0},
		{1000*twoPi + 1, 1},
		{math.NaN(), 0},
		{math.Inf(1), 0},
	}
	for _, tt := range tests {
		got := NormalizeAngle(tt.in)
		assert.InDelta(t, tt.want, got, 1e-9, "NormalizeAngle(%v)", tt.in)
		assert.LessOrEqual(t, math.Abs(got), math.Pi+1e-12)
	}
}

func TestLerpAngleTakesShortArc(t *testing.T) {
	got := LerpAngle(3.0, -3.0, 0.5)

	// The short way from 3.0 to -3.0 crosses π, not 0.
	assert.InDelta(t, 3.0+(2*math.Pi-6)/2, got, 1e-9)
	assert.Greater(t, math.Abs(NormalizeAngle(got)), 3.0)
}
