package analyzer

import (
	"math"
	"sort"
)

// ScoredRow is a FactorRow with its normalized score, per-metric
// contributions and final rank.
type ScoredRow struct {
	FactorRow
	R2Align float64 // R2 oriented by the profile target, NaN for "none"
	Score   float64 // weighted sum of normalized metrics, NaN if unusable
	Rank    int
	// Contributions per weighted metric key, only for metrics that
	// actually entered the score.
	Contributions map[string]float64
}

// metricValue extracts the raw value a weight key refers to.
// max_dd is scored by drawdown magnitude.
func (r *ScoredRow) metricValue(key string) float64 {
	switch key {
	case "vol":
		return r.Vol
	case "max_dd":
		return math.Abs(r.MaxDD)
	case "sharpe":
		return r.Sharpe
	case "expense_ratio":
		return r.ExpenseRatio
	case "yield":
		return r.Yield
	case "r2_align":
		return r.R2Align
	default:
		return math.NaN()
	}
}

// lowerBetter reports whether a smaller raw value of the metric is better.
func lowerBetter(key string) bool {
	switch key {
	case "vol", "expense_ratio", "max_dd":
		return true
	default:
		return false
	}
}

// minMaxNormalize maps the values to 0..1. A column with at most one
// distinct usable value maps every row to 0.5, even rows whose own value
// is NaN: with no spread there is nothing to discriminate on.
func minMaxNormalize(values []float64) []float64 {
	mn, mx := math.Inf(1), math.Inf(-1)
	distinct := make(map[float64]bool)
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		distinct[v] = true
		mn, mx = math.Min(mn, v), math.Max(mx, v)
	}
	out := make([]float64, len(values))
	if len(distinct) <= 1 {
		for i := range out {
			out[i] = 0.5
		}
		return out
	}
	for i, v := range values {
		if math.IsNaN(v) {
			out[i] = math.NaN()
		} else {
			out[i] = (v - mn) / (mx - mn)
		}
	}
	return out
}

// ScoreAndRank turns factor rows into a ranked comparison.
//
// Each weighted metric is min-max normalized across the set, inverted
// when lower is better, and summed with the profile weights. Weights of
// metrics missing on a row are redistributed over that row's usable
// metrics, so a ticker without an expense ratio still gets a full-scale
// score. Rows are ranked by score descending with deterministic
// tie-breakers.
func ScoreAndRank(factors []FactorRow, weights map[string]float64, r2Target string) []ScoredRow {
	rows := make([]ScoredRow, len(factors))
	for i, f := range factors {
		rows[i] = ScoredRow{FactorRow: f}
		switch r2Target {
		case R2Low:
			rows[i].R2Align = 1.0 - f.R2
		case R2High:
			rows[i].R2Align = f.R2
		default:
			rows[i].R2Align = math.NaN()
		}
	}

	// Metric keys that are weighted, in a stable order.
	var keys []string
	for _, k := range MetricKeys {
		if w, ok := weights[k]; ok && w > 0 {
			keys = append(keys, k)
		}
	}

	// Normalize each weighted metric column to 0..1, higher is better.
	norms := make(map[string][]float64, len(keys))
	for _, k := range keys {
		col := make([]float64, len(rows))
		for i := range rows {
			col[i] = rows[i].metricValue(k)
		}
		n := minMaxNormalize(col)
		if lowerBetter(k) {
			for i, v := range n {
				n[i] = 1.0 - v
			}
		}
		norms[k] = n
	}

	// Score each row over its usable metrics, reweighted to sum 1.
	for i := range rows {
		wsum := 0.0
		for _, k := range keys {
			if !math.IsNaN(norms[k][i]) {
				wsum += weights[k]
			}
		}
		if wsum == 0 {
			rows[i].Score = math.NaN()
			continue
		}
		rows[i].Contributions = make(map[string]float64)
		score := 0.0
		for _, k := range keys {
			v := norms[k][i]
			if math.IsNaN(v) {
				continue
			}
			c := weights[k] / wsum * v
			rows[i].Contributions[k] = c
			score += c
		}
		rows[i].Score = score
	}

	// Rank: score desc, then sharpe desc, |max_dd| asc, expense_ratio asc.
	// NaN always loses its comparison, pushing unusable rows to the bottom.
	sort.SliceStable(rows, func(i, j int) bool {
		if c := compareDesc(rows[i].Score, rows[j].Score); c != 0 {
			return c < 0
		}
		if c := compareDesc(rows[i].Sharpe, rows[j].Sharpe); c != 0 {
			return c < 0
		}
		if c := compareAsc(math.Abs(rows[i].MaxDD), math.Abs(rows[j].MaxDD)); c != 0 {
			return c < 0
		}
		return compareAsc(rows[i].ExpenseRatio, rows[j].ExpenseRatio) < 0
	})
	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows
}

// compareDesc orders a before b when a is larger; NaN sorts last.
func compareDesc(a, b float64) int {
	switch {
	case math.IsNaN(a) && math.IsNaN(b):
		return 0
	case math.IsNaN(a):
		return 1
	case math.IsNaN(b):
		return -1
	case a > b:
		return -1
	case a < b:
		return 1
	default:
		return 0
	}
}

// compareAsc orders a before b when a is smaller; NaN sorts last.
func compareAsc(a, b float64) int {
	switch {
	case math.IsNaN(a) && math.IsNaN(b):
		return 0
	case math.IsNaN(a):
		return 1
	case math.IsNaN(b):
		return -1
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
