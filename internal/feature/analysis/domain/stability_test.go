package domain

import (
	"math"
	"testing"
)

func rates(growths ...float64) []GrowthRate {
	out := make([]GrowthRate, len(growths))
	for i, g := range growths {
		out[i] = GrowthRate{Year: 2021 + i, Growth: g}
	}
	return out
}

func TestComputeStability(t *testing.T) {
	tests := []struct {
		name      string
		rates     []GrowthRate
		wantMean  float64
		wantStd   float64
		wantScore float64
	}{
		{
			name:      "steady growth scores above the midpoint",
			rates:     rates(10, 20, 30),
			wantMean:  20,
			wantStd:   10,
			wantScore: 55, // 50 + (20-10)/2
		},
		{
			name:      "single observation has no volatility",
			rates:     rates(20),
			wantMean:  20,
			wantStd:   0,
			wantScore: 70, // 50 + 20
		},
		{
			name:      "volatile decline bottoms out at zero",
			rates:     rates(-100, -300),
			wantMean:  -200,
			wantStd:   math.Sqrt(20000),
			wantScore: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ComputeStability(tt.rates)
			if !ok {
				t.Fatal("ComputeStability() reported no data")
			}
			if !almostEqual(got.MeanGrowth, tt.wantMean) {
				t.Errorf("mean = %v, want %v", got.MeanGrowth, tt.wantMean)
			}
			if !almostEqual(got.StdGrowth, tt.wantStd) {
				t.Errorf("std = %v, want %v", got.StdGrowth, tt.wantStd)
			}
			if !almostEqual(got.StabilityScore, tt.wantScore) {
				t.Errorf("score = %v, want %v", got.StabilityScore, tt.wantScore)
			}
			if got.Periods != len(tt.rates) {
				t.Errorf("periods = %d, want %d", got.Periods, len(tt.rates))
			}
		})
	}
}

func TestComputeStability_NoData(t *testing.T) {
	if _, ok := ComputeStability(nil); ok {
		t.Error("ComputeStability(nil) should report no data")
	}
}
