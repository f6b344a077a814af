package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	analyzer "github.com/aadhyanagar08/stock-risk-analyzer"
	"github.com/aadhyanagar08/stock-risk-analyzer/renderer"
	"github.com/google/subcommands"
)

// compareCmd holds the flags for the 'compare' subcommand.
type compareCmd struct {
	tickers   string
	watchlist string
	benchmark string
	profile   string
	weights   string
	timeframe string
	freq      string
	source    string
	export    string
	refresh   bool
}

func (*compareCmd) Name() string     { return "compare" }
func (*compareCmd) Synopsis() string { return "compare and rank tickers by your profile" }
func (*compareCmd) Usage() string {
	return `sra compare -tickers AAPL,MSFT,VTI [-benchmark SPY] [-profile default]

  Fetches price history for the tickers and the benchmark, computes risk
  factors (vol, max drawdown, Sharpe, beta, R²) over their common trading
  days, and ranks the tickers by the profile's weighted score.

Usage Examples:
# Rank three ETFs for a low volatility investor.
$ sra compare -tickers VTI,SCHD,QQQ -profile low_vol

# Same, with a heavier Sharpe weight and a CSV snapshot.
$ sra compare -tickers VTI,SCHD,QQQ -weights '{"sharpe":0.35}' -export rank.csv
`
}

func (c *compareCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.tickers, "tickers", "", "Comma-separated tickers, e.g. AAPL,MSFT,VTI")
	f.StringVar(&c.watchlist, "watchlist", "", "Compare the tickers of a saved watchlist instead of -tickers")
	f.StringVar(&c.benchmark, "benchmark", "SPY", "Benchmark ticker")
	f.StringVar(&c.profile, "profile", "default", "Weight preset (default, low_vol, income, custom or a user profile)")
	f.StringVar(&c.weights, "weights", "", `Optional JSON weight overrides, e.g. '{"sharpe":0.35}'`)
	f.StringVar(&c.timeframe, "timeframe", "", "Lookback window: 1y, 3y or 5y (defaults to the profile's)")
	f.StringVar(&c.freq, "freq", "", "Sampling frequency: D, W or M (defaults to the profile's)")
	f.StringVar(&c.source, "source", "yahoo", "Price source: yahoo or alphavantage")
	f.StringVar(&c.export, "export", "", "Optional path to save the ranked table as CSV")
	f.BoolVar(&c.refresh, "refresh", false, "Force refresh prices, ignoring the cache TTL")
}

// run executes the comparison and returns it, shared with 'explain'.
func (c *compareCmd) run(ctx context.Context) (*analyzer.Comparison, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	tickers := analyzer.SplitTickers(c.tickers)
	if c.watchlist != "" {
		db, err := openJournal(cfg)
		if err != nil {
			return nil, err
		}
		defer db.Close()
		tickers, err = db.Watchlist(ctx, c.watchlist)
		if err != nil {
			return nil, err
		}
	}

	var overrides map[string]float64
	if c.weights != "" {
		if err := json.Unmarshal([]byte(c.weights), &overrides); err != nil {
			return nil, fmt.Errorf("parsing -weights: %w", err)
		}
	}

	factors, err := newFactors(cfg, c.source, c.refresh)
	if err != nil {
		return nil, err
	}
	return analyzer.Compare(ctx, factors, cfg.DataDir, analyzer.CompareRequest{
		Tickers:         tickers,
		Benchmark:       c.benchmark,
		Profile:         c.profile,
		WeightOverrides: overrides,
		Timeframe:       c.timeframe,
		Frequency:       c.freq,
	})
}

func (c *compareCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	comparison, err := c.run(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.CompareMarkdown(comparison))

	if c.export != "" {
		file, err := os.Create(c.export)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating %q: %v\n", c.export, err)
			return subcommands.ExitFailure
		}
		defer file.Close()
		if err := comparison.WriteCSV(file); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing %q: %v\n", c.export, err)
			return subcommands.ExitFailure
		}
		fmt.Printf("Saved CSV to %s\n", c.export)
	}
	return subcommands.ExitSuccess
}
