package analyzer

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/aadhyanagar08/stock-risk-analyzer/date"
)

// CompareRequest describes one compare-and-rank run.
type CompareRequest struct {
	Tickers         []string
	Benchmark       string // defaults to SPY
	Profile         string // defaults to "default"
	WeightOverrides map[string]float64
	Timeframe       string // empty means the profile's timeframe
	Frequency       string // empty means the profile's frequency
}

// Comparison is the ranked result of a compare run, with the resolved
// parameters that produced it.
type Comparison struct {
	Benchmark     string
	Timeframe     Timeframe
	Frequency     Frequency
	Profile       string
	Weights       map[string]float64 // normalized weights actually used
	R2AlignTarget string
	AsOf          date.Date
	Rows          []ScoredRow
}

// TopPick returns the symbol ranked first, or "" when no row scored.
func (c *Comparison) TopPick() string {
	if len(c.Rows) == 0 || math.IsNaN(c.Rows[0].Score) {
		return ""
	}
	return c.Rows[0].Symbol
}

// Compare validates the request, resolves the profile, fetches and aligns
// price history, computes factors and ranks them.
func Compare(ctx context.Context, f *Factors, dataDir string, req CompareRequest) (*Comparison, error) {
	tickers, err := NormalizeTickers(req.Tickers)
	if err != nil {
		return nil, err
	}
	if req.Benchmark == "" {
		req.Benchmark = "SPY"
	}
	bench, err := NormalizeTicker(req.Benchmark)
	if err != nil {
		return nil, fmt.Errorf("benchmark: %w", err)
	}

	profile, err := LoadProfile(dataDir, req.Profile)
	if err != nil {
		return nil, err
	}
	profile = profile.MergeOverrides(req.WeightOverrides)
	weights, err := NormalizeWeights(profile.Weights)
	if err != nil {
		return nil, fmt.Errorf("profile %q: %w", profile.Name, err)
	}

	tfStr, freqStr := req.Timeframe, req.Frequency
	if tfStr == "" {
		tfStr = string(profile.Timeframe)
	}
	if freqStr == "" {
		freqStr = string(profile.Frequency)
	}
	tf, err := ParseTimeframe(tfStr)
	if err != nil {
		return nil, err
	}
	freq, err := ParseFrequency(freqStr)
	if err != nil {
		return nil, err
	}

	factors, err := f.Compute(ctx, tickers, bench, tf, freq)
	if err != nil {
		return nil, err
	}
	rows := ScoreAndRank(factors, weights, profile.R2AlignTarget)

	var asOf date.Date
	if len(rows) > 0 {
		asOf = rows[0].AsOf
	}
	return &Comparison{
		Benchmark:     bench,
		Timeframe:     tf,
		Frequency:     freq,
		Profile:       profile.Name,
		Weights:       weights,
		R2AlignTarget: profile.R2AlignTarget,
		AsOf:          asOf,
		Rows:          rows,
	}, nil
}

// csvCell formats a float for CSV export, empty for NaN.
func csvCell(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', 6, 64)
}

// WriteCSV exports the ranked comparison in the snapshot format the
// journal records as snapshot_path.
func (c *Comparison) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	header := []string{"rank", "symbol", "score", "sharpe", "vol", "max_dd", "beta", "r2",
		"expense_ratio", "yield", "n_periods", "as_of", "warnings"}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, r := range c.Rows {
		rec := []string{
			strconv.Itoa(r.Rank),
			r.Symbol,
			csvCell(r.Score),
			csvCell(r.Sharpe),
			csvCell(r.Vol),
			csvCell(r.MaxDD),
			csvCell(r.Beta),
			csvCell(r.R2),
			csvCell(r.ExpenseRatio),
			csvCell(r.Yield),
			strconv.Itoa(r.NPeriods),
			r.AsOf.String(),
			r.Warnings,
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
