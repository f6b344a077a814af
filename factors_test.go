package analyzer

import (
	"context"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/aadhyanagar08/stock-risk-analyzer/date"
)

// stubProvider serves canned series per symbol, and fails the symbols
// listed in fail.
type stubProvider struct {
	series map[string]*date.Series
	fail   map[string]bool
	calls  map[string]int
}

func (p *stubProvider) Name() string { return "stub" }

func (p *stubProvider) Daily(ctx context.Context, symbol string, tf Timeframe, freq Frequency) (Quotes, error) {
	if p.calls == nil {
		p.calls = make(map[string]int)
	}
	p.calls[symbol]++
	if p.fail[symbol] {
		return Quotes{}, fmt.Errorf("stub: no data for %s", symbol)
	}
	s, ok := p.series[symbol]
	if !ok {
		return Quotes{}, fmt.Errorf("stub: unknown symbol %s", symbol)
	}
	return Quotes{Symbol: symbol, Currency: "USD", Source: "stub", Closes: s}, nil
}

// syntheticSeries builds n+1 daily prices starting at start, applying
// returns[i%len(returns)] each step.
func syntheticSeries(start date.Date, base float64, n int, returns []float64) *date.Series {
	s := &date.Series{}
	v := base
	day := start
	s.Append(day, v)
	for i := 0; i < n; i++ {
		v *= 1 + returns[i%len(returns)]
		day = day.Add(1)
		s.Append(day, v)
	}
	return s
}

func newTestFactors(t *testing.T, p Provider) *Factors {
	t.Helper()
	return &Factors{
		Cache:        &Cache{Dir: t.TempDir(), TTLDays: 3},
		Provider:     p,
		Securities:   Securities{},
		RiskFreeRate: 0.02,
	}
}

func TestFactorsCompute(t *testing.T) {
	start := date.New(2024, time.January, 2)
	benchReturns := []float64{0.01, -0.005, 0.002, 0.008, -0.01}
	bench := syntheticSeries(start, 100, 300, benchReturns)

	// The asset moves exactly twice as much as the benchmark each day,
	// so beta is 2 and the correlation is perfect.
	doubled := make([]float64, len(benchReturns))
	for i, r := range benchReturns {
		doubled[i] = 2 * r
	}
	asset := syntheticSeries(start, 50, 300, doubled)

	p := &stubProvider{series: map[string]*date.Series{"SPY": bench, "DBL": asset}}
	f := newTestFactors(t, p)

	rows, err := f.Compute(context.Background(), []string{"DBL"}, "SPY", Tf1y, Daily)
	if err != nil {
		t.Fatalf("Compute() unexpected error = %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("Compute() returned %d rows, want 1", len(rows))
	}
	row := rows[0]
	if row.Warnings != "" {
		t.Fatalf("Compute() warnings = %q, want none", row.Warnings)
	}
	if row.NPeriods != 300 {
		t.Errorf("NPeriods = %d, want 300", row.NPeriods)
	}
	if math.Abs(row.Beta-2.0) > 1e-9 {
		t.Errorf("Beta = %v, want 2", row.Beta)
	}
	if math.Abs(row.R2-1.0) > 1e-9 {
		t.Errorf("R2 = %v, want 1", row.R2)
	}
	if row.Vol <= 0 {
		t.Errorf("Vol = %v, want > 0", row.Vol)
	}
	if row.MaxDD > 0 {
		t.Errorf("MaxDD = %v, want <= 0", row.MaxDD)
	}
	if math.IsNaN(row.Sharpe) {
		t.Error("Sharpe is NaN, want a number")
	}
	if row.Currency != "USD" {
		t.Errorf("Currency = %q, want USD", row.Currency)
	}
	// Securities registry has no entry for DBL.
	if !math.IsNaN(row.ExpenseRatio) || !math.IsNaN(row.Yield) {
		t.Errorf("unknown security metadata = %v/%v, want NaN", row.ExpenseRatio, row.Yield)
	}
}

func TestFactorsComputeAnnualizedVol(t *testing.T) {
	start := date.New(2024, time.January, 2)
	returns := []float64{0.01, -0.01}
	bench := syntheticSeries(start, 100, 200, returns)
	asset := syntheticSeries(start, 100, 200, returns)

	p := &stubProvider{series: map[string]*date.Series{"SPY": bench, "FLAT": asset}}
	f := newTestFactors(t, p)

	rows, err := f.Compute(context.Background(), []string{"FLAT"}, "SPY", Tf1y, Daily)
	if err != nil {
		t.Fatalf("Compute() unexpected error = %v", err)
	}
	// The daily stdev of alternating +1%/-1% is close to 0.01; the
	// annualized vol scales it by sqrt(252).
	want := sampleStd(asset.Returns()) * math.Sqrt(252)
	if math.Abs(rows[0].Vol-want) > 1e-9 {
		t.Errorf("Vol = %v, want %v", rows[0].Vol, want)
	}
}

func TestFactorsComputeInsufficientHistory(t *testing.T) {
	start := date.New(2024, time.June, 3)
	returns := []float64{0.01, -0.004}
	bench := syntheticSeries(start, 100, 30, returns)
	asset := syntheticSeries(start, 100, 30, returns)

	p := &stubProvider{series: map[string]*date.Series{"SPY": bench, "NEW": asset}}
	f := newTestFactors(t, p)

	rows, err := f.Compute(context.Background(), []string{"NEW"}, "SPY", Tf1y, Daily)
	if err != nil {
		t.Fatalf("Compute() unexpected error = %v", err)
	}
	row := rows[0]
	if row.Warnings != WarnInsufficientHistory {
		t.Errorf("Warnings = %q, want %q", row.Warnings, WarnInsufficientHistory)
	}
	if !math.IsNaN(row.Vol) || !math.IsNaN(row.Sharpe) || !math.IsNaN(row.Beta) {
		t.Errorf("metrics of an insufficient row must be NaN, got vol=%v sharpe=%v beta=%v",
			row.Vol, row.Sharpe, row.Beta)
	}
}

func TestFactorsComputeFetchFailure(t *testing.T) {
	start := date.New(2024, time.January, 2)
	returns := []float64{0.01, -0.004, 0.002}
	bench := syntheticSeries(start, 100, 200, returns)
	good := syntheticSeries(start, 80, 200, returns)

	p := &stubProvider{
		series: map[string]*date.Series{"SPY": bench, "GOOD": good},
		fail:   map[string]bool{"BAD": true},
	}
	f := newTestFactors(t, p)

	rows, err := f.Compute(context.Background(), []string{"GOOD", "BAD"}, "SPY", Tf1y, Daily)
	if err != nil {
		t.Fatalf("Compute() unexpected error = %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("Compute() returned %d rows, want 2", len(rows))
	}
	if rows[0].Symbol != "GOOD" || rows[0].Warnings != "" {
		t.Errorf("GOOD row degraded: warnings %q", rows[0].Warnings)
	}
	bad := rows[1]
	if bad.Symbol != "BAD" {
		t.Fatalf("rows out of input order: %v", []string{rows[0].Symbol, rows[1].Symbol})
	}
	if !math.IsNaN(bad.Vol) {
		t.Errorf("BAD vol = %v, want NaN", bad.Vol)
	}
	if bad.Warnings == "" {
		t.Error("BAD row has no warning, want fetch_failed")
	}
}

func TestFactorsComputeBenchmarkFailureIsFatal(t *testing.T) {
	p := &stubProvider{fail: map[string]bool{"SPY": true}}
	f := newTestFactors(t, p)
	if _, err := f.Compute(context.Background(), []string{"VTI", "QQQ"}, "SPY", Tf1y, Daily); err == nil {
		t.Fatal("Compute() with failing benchmark: want error")
	}
}

func TestStats(t *testing.T) {
	xs := []float64{1, 2, 3, 4}
	if got := mean(xs); got != 2.5 {
		t.Errorf("mean = %v, want 2.5", got)
	}
	// Unbiased variance of 1..4 is 5/3.
	if got := sampleVariance(xs); math.Abs(got-5.0/3.0) > 1e-12 {
		t.Errorf("sampleVariance = %v, want %v", got, 5.0/3.0)
	}
	if got := sampleVariance([]float64{7}); !math.IsNaN(got) {
		t.Errorf("sampleVariance of one sample = %v, want NaN", got)
	}
	ys := []float64{2, 4, 6, 8}
	if got := correlation(xs, ys); math.Abs(got-1) > 1e-12 {
		t.Errorf("correlation of proportional samples = %v, want 1", got)
	}
	flat := []float64{5, 5, 5, 5}
	if got := correlation(xs, flat); !math.IsNaN(got) {
		t.Errorf("correlation with a constant sample = %v, want NaN", got)
	}
}
