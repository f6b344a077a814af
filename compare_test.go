package analyzer

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/aadhyanagar08/stock-risk-analyzer/date"
)

func TestCompare(t *testing.T) {
	ctx := context.Background()
	start := date.New(2023, time.January, 2)
	benchReturns := []float64{0.004, -0.002, 0.003, 0.001, -0.003}
	bench := syntheticSeries(start, 100, 400, benchReturns)

	calm := []float64{0.003, -0.001, 0.002, 0.001, -0.001}
	wild := []float64{0.02, -0.018, 0.025, -0.01, -0.015}
	p := &stubProvider{series: map[string]*date.Series{
		"SPY":  bench,
		"CALM": syntheticSeries(start, 50, 400, calm),
		"WILD": syntheticSeries(start, 30, 400, wild),
	}}
	f := newTestFactors(t, p)

	c, err := Compare(ctx, f, "", CompareRequest{
		Tickers: []string{"calm", "wild"},
		Profile: "low_vol",
	})
	if err != nil {
		t.Fatalf("Compare() unexpected error = %v", err)
	}
	if c.Benchmark != "SPY" || c.Profile != "low_vol" {
		t.Errorf("resolved comparison = %+v", c)
	}
	// The low_vol profile's defaults apply when the request is silent.
	if c.Timeframe != Tf3y || c.Frequency != Daily {
		t.Errorf("timeframe/frequency = %s/%s, want 3y/D", c.Timeframe, c.Frequency)
	}
	if got := c.TopPick(); got != "CALM" {
		t.Errorf("TopPick() = %q, want CALM under low_vol weights", got)
	}

	var buf bytes.Buffer
	if err := c.WriteCSV(&buf); err != nil {
		t.Fatalf("WriteCSV() unexpected error = %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "rank,symbol,score,") {
		t.Errorf("csv header = %q", strings.SplitN(out, "\n", 2)[0])
	}
	if !strings.Contains(out, "CALM") || !strings.Contains(out, "WILD") {
		t.Errorf("csv misses rows:\n%s", out)
	}
}

func TestCompareWeightOverrides(t *testing.T) {
	ctx := context.Background()
	start := date.New(2023, time.January, 2)
	bench := syntheticSeries(start, 100, 400, []float64{0.004, -0.002})
	p := &stubProvider{series: map[string]*date.Series{
		"SPY": bench,
		"A":   syntheticSeries(start, 50, 400, []float64{0.003, -0.001}),
		"B":   syntheticSeries(start, 30, 400, []float64{0.01, -0.009}),
	}}
	f := newTestFactors(t, p)

	c, err := Compare(ctx, f, "", CompareRequest{
		Tickers:         []string{"A", "B"},
		WeightOverrides: map[string]float64{"vol": 5},
	})
	if err != nil {
		t.Fatalf("Compare() unexpected error = %v", err)
	}
	// The override dominates the sum, so it is rescaled with the rest.
	sum := 0.0
	for _, w := range c.Weights {
		sum += w
	}
	if sum < 0.99 || sum > 1.01 {
		t.Errorf("weights sum = %v, want ~1", sum)
	}
	if c.Weights["vol"] < 0.8 {
		t.Errorf("vol weight = %v, want dominant after override", c.Weights["vol"])
	}
}

func TestCompareRejectsBadRequests(t *testing.T) {
	f := newTestFactors(t, &stubProvider{})
	ctx := context.Background()

	tests := []struct {
		name string
		req  CompareRequest
	}{
		{"one ticker", CompareRequest{Tickers: []string{"VTI"}}},
		{"bad ticker", CompareRequest{Tickers: []string{"VTI", "NOT OK"}}},
		{"bad benchmark", CompareRequest{Tickers: []string{"VTI", "QQQ"}, Benchmark: "???"}},
		{"unknown profile", CompareRequest{Tickers: []string{"VTI", "QQQ"}, Profile: "nope"}},
		{"bad timeframe", CompareRequest{Tickers: []string{"VTI", "QQQ"}, Timeframe: "9y"}},
		{"bad frequency", CompareRequest{Tickers: []string{"VTI", "QQQ"}, Frequency: "hourly"}},
		{"bad override key", CompareRequest{Tickers: []string{"VTI", "QQQ"}, WeightOverrides: map[string]float64{"alpha": 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Compare(ctx, f, "", tt.req); err == nil {
				t.Error("Compare() want error")
			}
		})
	}
}
