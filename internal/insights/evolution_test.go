package insights

import (
	"math"
	"testing"
)

func TestComputeEvolutionZeroPrevious(t *testing.T) {
	for _, current := range []float64{-50, 0, 1, 1e9} {
		got := ComputeEvolution(current, 0)
		if got.PercentChange != 0 || got.Trend != TrendStable || got.Color != ColorStable {
			t.Fatalf("current=%v: expected stable evolution, got %+v", current, got)
		}
	}
}

func TestComputeEvolutionBoundaries(t *testing.T) {
	cases := []struct {
		current, previous float64
		trend             string
		color             string
	}{
		{106, 100, TrendStrongIncrease, ColorStrongIncrease},
		{105, 100, TrendIncrease, ColorIncrease},
		{100.5, 100, TrendIncrease, ColorIncrease},
		{100, 100, TrendDecrease, ColorDecrease},
		{96, 100, TrendDecrease, ColorDecrease},
		{95, 100, TrendStrongDecrease, ColorStrongDecrease},
		{10, 100, TrendStrongDecrease, ColorStrongDecrease},
	}
	for _, tc := range cases {
		got := ComputeEvolution(tc.current, tc.previous)
		if got.Trend != tc.trend || got.Color != tc.color {
			t.Fatalf("%v vs %v: expected %s/%s, got %s/%s", tc.current, tc.previous, tc.trend, tc.color, got.Trend, got.Color)
		}
	}
}

func TestComputeEvolutionRoundTrip(t *testing.T) {
	pairs := [][2]float64{{120, 100}, {80, 100}, {1, 3}, {-20, 40}, {1e6, 2.5e5}}
	for _, pair := range pairs {
		current, previous := pair[0], pair[1]
		got := ComputeEvolution(current, previous)
		rebuilt := previous * (1 + got.PercentChange/100)
		if math.Abs(rebuilt-current) > 1e-9*math.Max(1, math.Abs(current)) {
			t.Fatalf("round trip %v/%v: rebuilt %v", current, previous, rebuilt)
		}
	}
}
