package domain

// ScoreConfig weighs the four health components. Weights are
// renormalized over the components that are actually defined for a
// given year, so missing data lowers confidence, not the score itself.
type ScoreConfig struct {
	DebtWeight    float64
	CurrentWeight float64
	MarginWeight  float64
	ROEWeight     float64
}

// DefaultScoreConfig weighs every component equally.
func DefaultScoreConfig() ScoreConfig {
	return ScoreConfig{
		DebtWeight:    0.25,
		CurrentWeight: 0.25,
		MarginWeight:  0.25,
		ROEWeight:     0.25,
	}
}

// HealthScore is the weighted composite with its per-component scores.
type HealthScore struct {
	Score        Metric `json:"score"`
	Grade        string `json:"grade"`
	DebtScore    Metric `json:"debt_score"`
	CurrentScore Metric `json:"current_score"`
	MarginScore  Metric `json:"margin_score"`
	ROEScore     Metric `json:"roe_score"`
}

// ScoreDebtRatio maps a debt ratio to 0..100. A ratio at or below 100%
// scores 100; each additional 2 points of ratio costs one point.
func ScoreDebtRatio(debtRatio Metric) Metric {
	if !debtRatio.Valid {
		return Undefined
	}
	return Defined(clamp(100 - (debtRatio.Value-100)/2))
}

// ScoreCurrentRatio maps a current ratio to 0..100, saturating at 200%.
func ScoreCurrentRatio(currentRatio Metric) Metric {
	if !currentRatio.Valid {
		return Undefined
	}
	v := currentRatio.Value / 2
	if v > 100 {
		v = 100
	}
	if v < 0 {
		v = 0
	}
	return Defined(v)
}

// ScoreOperatingMargin maps an operating margin to 0..100, saturating
// at a 20% margin.
func ScoreOperatingMargin(margin Metric) Metric {
	if !margin.Valid {
		return Undefined
	}
	return Defined(clamp(margin.Value * 5))
}

// ScoreROE maps a return on equity to 0..100, saturating at 20%.
func ScoreROE(roe Metric) Metric {
	if !roe.Valid {
		return Undefined
	}
	return Defined(clamp(roe.Value * 5))
}

// ComputeHealthScore combines the component scores using cfg. The
// composite is undefined when every component is undefined.
func ComputeHealthScore(cfg ScoreConfig, debtRatio, currentRatio, operatingMargin, roe Metric) HealthScore {
	hs := HealthScore{
		DebtScore:    ScoreDebtRatio(debtRatio),
		CurrentScore: ScoreCurrentRatio(currentRatio),
		MarginScore:  ScoreOperatingMargin(operatingMargin),
		ROEScore:     ScoreROE(roe),
	}

	var weighted, totalWeight float64
	add := func(score Metric, weight float64) {
		if score.Valid {
			weighted += score.Value * weight
			totalWeight += weight
		}
	}
	add(hs.DebtScore, cfg.DebtWeight)
	add(hs.CurrentScore, cfg.CurrentWeight)
	add(hs.MarginScore, cfg.MarginWeight)
	add(hs.ROEScore, cfg.ROEWeight)

	if totalWeight == 0 {
		hs.Score = Undefined
		hs.Grade = GradeUnknown
		return hs
	}
	hs.Score = Defined(weighted / totalWeight)
	hs.Grade = GradeFor(hs.Score.Value)
	return hs
}

// GradeUnknown marks a score with no defined components.
const GradeUnknown = "N/A"

// GradeFor maps a composite score to its letter grade.
func GradeFor(score float64) string {
	switch {
	case score >= 90:
		return "A+"
	case score >= 80:
		return "A"
	case score >= 70:
		return "B+"
	case score >= 60:
		return "B"
	case score >= 50:
		return "C"
	default:
		return "D"
	}
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
