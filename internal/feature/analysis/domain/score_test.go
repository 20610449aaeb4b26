package domain

import "testing"

func TestScoreDebtRatio(t *testing.T) {
	testCases := []struct {
		name string
		in   Metric
		want Metric
	}{
		{name: "at 100 percent scores full", in: Defined(100), want: Defined(100)},
		{name: "200 percent loses 50 points", in: Defined(200), want: Defined(50)},
		{name: "below 100 percent is capped", in: Defined(20), want: Defined(100)},
		{name: "extreme leverage floors at zero", in: Defined(400), want: Defined(0)},
		{name: "undefined stays undefined", in: Undefined, want: Undefined},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ScoreDebtRatio(tc.in); got != tc.want {
				t.Errorf("got %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestScoreCurrentRatio(t *testing.T) {
	if got := ScoreCurrentRatio(Defined(150)); got != Defined(75) {
		t.Errorf("got %+v, want 75", got)
	}
	if got := ScoreCurrentRatio(Defined(300)); got != Defined(100) {
		t.Errorf("saturation failed: got %+v", got)
	}
	if got := ScoreCurrentRatio(Undefined); got.Valid {
		t.Errorf("undefined input produced %+v", got)
	}
}

func TestScoreMarginAndROE(t *testing.T) {
	if got := ScoreOperatingMargin(Defined(10)); got != Defined(50) {
		t.Errorf("margin score: got %+v, want 50", got)
	}
	if got := ScoreOperatingMargin(Defined(30)); got != Defined(100) {
		t.Errorf("margin saturation: got %+v", got)
	}
	if got := ScoreROE(Defined(-5)); got != Defined(0) {
		t.Errorf("negative ROE should floor at zero: got %+v", got)
	}
}

func TestGradeFor(t *testing.T) {
	testCases := []struct {
		score float64
		want  string
	}{
		{95, "A+"}, {90, "A+"}, {85, "A"}, {75, "B+"}, {65, "B"}, {55, "C"}, {40, "D"},
	}
	for _, tc := range testCases {
		if got := GradeFor(tc.score); got != tc.want {
			t.Errorf("GradeFor(%v) = %q, want %q", tc.score, got, tc.want)
		}
	}
}

func TestComputeHealthScore(t *testing.T) {
	cfg := DefaultScoreConfig()

	t.Run("all components defined", func(t *testing.T) {
		hs := ComputeHealthScore(cfg, Defined(100), Defined(200), Defined(20), Defined(20))
		if !hs.Score.Valid {
			t.Fatal("score should be defined")
		}
		// every component scores 100
		if hs.Score.Value != 100 || hs.Grade != "A+" {
			t.Errorf("got score %v grade %s", hs.Score.Value, hs.Grade)
		}
	})

	t.Run("missing components renormalize the weights", func(t *testing.T) {
		hs := ComputeHealthScore(cfg, Defined(100), Undefined, Undefined, Defined(10))
		if !hs.Score.Valid {
			t.Fatal("score should be defined")
		}
		// debt scores 100, ROE scores 50; equal weights average to 75
		if hs.Score.Value != 75 {
			t.Errorf("got score %v, want 75", hs.Score.Value)
		}
		if hs.Grade != "B+" {
			t.Errorf("got grade %s, want B+", hs.Grade)
		}
	})

	t.Run("no components means no score", func(t *testing.T) {
		hs := ComputeHealthScore(cfg, Undefined, Undefined, Undefined, Undefined)
		if hs.Score.Valid {
			t.Errorf("score should be undefined, got %v", hs.Score.Value)
		}
		if hs.Grade != GradeUnknown {
			t.Errorf("got grade %s, want %s", hs.Grade, GradeUnknown)
		}
	})
}
