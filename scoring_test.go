package analyzer

import (
	"math"
	"testing"
)

func TestMinMaxNormalize(t *testing.T) {
	t.Run("spread maps to 0..1", func(t *testing.T) {
		got := minMaxNormalize([]float64{10, 20, 15})
		want := []float64{0, 1, 0.5}
		for i := range want {
			if math.Abs(got[i]-want[i]) > 1e-12 {
				t.Errorf("minMaxNormalize()[%d] = %v, want %v", i, got[i], want[i])
			}
		}
	})
	t.Run("NaN stays NaN", func(t *testing.T) {
		got := minMaxNormalize([]float64{10, math.NaN(), 20})
		if !math.IsNaN(got[1]) {
			t.Errorf("minMaxNormalize() NaN input = %v, want NaN", got[1])
		}
		if got[0] != 0 || got[2] != 1 {
			t.Errorf("minMaxNormalize() = %v, want [0 NaN 1]", got)
		}
	})
	t.Run("constant column is 0.5 everywhere", func(t *testing.T) {
		got := minMaxNormalize([]float64{7, 7, math.NaN()})
		for i, v := range got {
			if v != 0.5 {
				t.Errorf("minMaxNormalize()[%d] = %v, want 0.5", i, v)
			}
		}
	})
}

func TestScoreAndRank(t *testing.T) {
	rows := []FactorRow{
		{Symbol: "GOOD", Vol: 0.10, MaxDD: -0.10, Sharpe: 1.5, R2: 0.9},
		{Symbol: "BAD", Vol: 0.30, MaxDD: -0.50, Sharpe: 0.2, R2: 0.3},
	}
	weights := map[string]float64{"vol": 0.4, "max_dd": 0.3, "sharpe": 0.3}

	scored := ScoreAndRank(rows, weights, R2None)
	if scored[0].Symbol != "GOOD" || scored[0].Rank != 1 {
		t.Fatalf("ScoreAndRank() winner = %s rank %d, want GOOD rank 1", scored[0].Symbol, scored[0].Rank)
	}
	// GOOD is best on every weighted metric, so its score is 1.
	if math.Abs(scored[0].Score-1.0) > 1e-12 {
		t.Errorf("best-everywhere score = %v, want 1", scored[0].Score)
	}
	if math.Abs(scored[1].Score) > 1e-12 {
		t.Errorf("worst-everywhere score = %v, want 0", scored[1].Score)
	}
	// Contributions add up to the score.
	sum := 0.0
	for _, c := range scored[0].Contributions {
		sum += c
	}
	if math.Abs(sum-scored[0].Score) > 1e-12 {
		t.Errorf("contributions sum = %v, score = %v", sum, scored[0].Score)
	}
}

func TestScoreAndRankReweightsMissingMetrics(t *testing.T) {
	nan := math.NaN()
	rows := []FactorRow{
		{Symbol: "FULL", Vol: 0.10, Sharpe: 1.0, ExpenseRatio: 0.001},
		{Symbol: "NOER", Vol: 0.20, Sharpe: 0.5, ExpenseRatio: nan},
		{Symbol: "MID", Vol: 0.15, Sharpe: 0.8, ExpenseRatio: 0.005},
	}
	weights := map[string]float64{"vol": 0.4, "sharpe": 0.4, "expense_ratio": 0.2}

	scored := ScoreAndRank(rows, weights, R2None)
	for _, r := range scored {
		if math.IsNaN(r.Score) {
			t.Errorf("%s score is NaN, want usable score", r.Symbol)
		}
	}
	// The row without an expense ratio is scored over vol and sharpe
	// only, with their weights rescaled to sum 1.
	for _, r := range scored {
		if r.Symbol != "NOER" {
			continue
		}
		if _, ok := r.Contributions["expense_ratio"]; ok {
			t.Error("NOER has an expense_ratio contribution, want none")
		}
		sum := 0.0
		for _, c := range r.Contributions {
			sum += c
		}
		if math.Abs(sum-r.Score) > 1e-12 {
			t.Errorf("NOER contributions sum = %v, score = %v", sum, r.Score)
		}
	}
}

func TestScoreAndRankR2Target(t *testing.T) {
	rows := []FactorRow{
		{Symbol: "TRACKER", Vol: 0.1, R2: 0.95},
		{Symbol: "LOOSE", Vol: 0.1, R2: 0.20},
	}
	weights := map[string]float64{"r2_align": 1}

	high := ScoreAndRank(rows, weights, R2High)
	if high[0].Symbol != "TRACKER" {
		t.Errorf("r2 target high winner = %s, want TRACKER", high[0].Symbol)
	}
	low := ScoreAndRank(rows, weights, R2Low)
	if low[0].Symbol != "LOOSE" {
		t.Errorf("r2 target low winner = %s, want LOOSE", low[0].Symbol)
	}
	none := ScoreAndRank(rows, weights, R2None)
	for _, r := range none {
		if !math.IsNaN(r.Score) {
			t.Errorf("r2 target none: %s score = %v, want NaN (no usable metric)", r.Symbol, r.Score)
		}
	}
}

func TestScoreAndRankTieBreakers(t *testing.T) {
	// Same vol everywhere: every score is 0.5, ties broken by sharpe
	// desc, then |max_dd| asc, then expense_ratio asc.
	rows := []FactorRow{
		{Symbol: "C", Vol: 0.2, Sharpe: 1.0, MaxDD: -0.30, ExpenseRatio: 0.005},
		{Symbol: "A", Vol: 0.2, Sharpe: 1.2, MaxDD: -0.30, ExpenseRatio: 0.005},
		{Symbol: "B", Vol: 0.2, Sharpe: 1.0, MaxDD: -0.10, ExpenseRatio: 0.005},
	}
	weights := map[string]float64{"vol": 1}

	scored := ScoreAndRank(rows, weights, R2None)
	want := []string{"A", "B", "C"}
	for i, sym := range want {
		if scored[i].Symbol != sym {
			t.Errorf("rank %d = %s, want %s", i+1, scored[i].Symbol, sym)
		}
		if scored[i].Rank != i+1 {
			t.Errorf("%s rank = %d, want %d", scored[i].Symbol, scored[i].Rank, i+1)
		}
	}
}

func TestScoreAndRankNaNRowsLast(t *testing.T) {
	nan := math.NaN()
	rows := []FactorRow{
		{Symbol: "DEAD", Vol: nan, Sharpe: nan, MaxDD: nan, Warnings: WarnFetchFailed},
		{Symbol: "OK", Vol: 0.2, Sharpe: 1.0, MaxDD: -0.2},
		{Symbol: "OK2", Vol: 0.3, Sharpe: 0.5, MaxDD: -0.3},
	}
	weights := map[string]float64{"vol": 0.5, "sharpe": 0.5}

	scored := ScoreAndRank(rows, weights, R2None)
	if scored[len(scored)-1].Symbol != "DEAD" {
		t.Errorf("NaN row ranked %d, want last", scored[len(scored)-1].Rank)
	}
	if !math.IsNaN(scored[len(scored)-1].Score) {
		t.Errorf("DEAD score = %v, want NaN", scored[len(scored)-1].Score)
	}
}
