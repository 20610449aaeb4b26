package domain

import "math"

// GrowthRate is one year-over-year growth observation of an account.
type GrowthRate struct {
	Year      int     `json:"year"`
	Growth    float64 `json:"growth"`
	PrevValue float64 `json:"prev_value"`
	CurrValue float64 `json:"curr_value"`
}

// Stability summarises how consistently an account has grown. A higher
// mean with lower volatility scores better.
type Stability struct {
	MeanGrowth     float64 `json:"mean_growth"`
	StdGrowth      float64 `json:"std_growth"`
	StabilityScore float64 `json:"stability_score"`
	Periods        int     `json:"periods"`
}

// ComputeStability derives the stability metrics from a growth-rate
// series. At least one observation is required; the standard deviation
// is zero for a single observation.
func ComputeStability(rates []GrowthRate) (Stability, bool) {
	if len(rates) == 0 {
		return Stability{}, false
	}
	values := make([]float64, len(rates))
	for i, r := range rates {
		values[i] = r.Growth
	}
	meanGrowth := mean(values)
	stdGrowth := sampleStdDev(values, meanGrowth)

	var score float64
	if stdGrowth > 0 {
		score = clamp(50 + (meanGrowth-stdGrowth)/2)
	} else {
		score = clamp(50 + meanGrowth)
	}
	return Stability{
		MeanGrowth:     meanGrowth,
		StdGrowth:      stdGrowth,
		StabilityScore: score,
		Periods:        len(rates),
	}, true
}

func mean(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// sampleStdDev is the n-1 standard deviation; zero for fewer than two
// observations.
func sampleStdDev(values []float64, mean float64) float64 {
	if len(values) < 2 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		d := v - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)-1))
}
