package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	analyzer "github.com/aadhyanagar08/stock-risk-analyzer"
	"github.com/aadhyanagar08/stock-risk-analyzer/alphavantage"
	"github.com/aadhyanagar08/stock-risk-analyzer/renderer"
	"github.com/aadhyanagar08/stock-risk-analyzer/yahoo"
	"github.com/google/subcommands"
)

// crosscheckCmd reconciles one ticker between two data sources.
type crosscheckCmd struct {
	ticker    string
	timeframe string
	tolerance float64
	export    string
}

func (*crosscheckCmd) Name() string     { return "crosscheck" }
func (*crosscheckCmd) Synopsis() string { return "reconcile one ticker between two price sources" }
func (*crosscheckCmd) Usage() string {
	return `sra crosscheck -ticker AAPL [-timeframe 1y] [-tolerance 0.005]

  Fetches daily adjusted closes from Yahoo and Alpha Vantage, joins them
  on common trading days and reports where the sources disagree. Days
  with a relative gap above the tolerance make the verdict SUSPECT.

Usage Examples:
# Check a year of AAPL and keep the raw joined series.
$ sra crosscheck -ticker AAPL -export aapl_raw.csv
`
}

func (c *crosscheckCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.ticker, "ticker", "", "Ticker to cross-check")
	f.StringVar(&c.timeframe, "timeframe", "1y", "Lookback window: 1y, 3y or 5y")
	f.Float64Var(&c.tolerance, "tolerance", analyzer.DefaultGapTolerance, "Relative gap above which a day is a discrepancy")
	f.StringVar(&c.export, "export", "", "Optional path to save the joined raw series as CSV")
}

func (c *crosscheckCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	tf, err := analyzer.ParseTimeframe(c.timeframe)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	report, err := analyzer.Crosscheck(ctx, yahoo.New(), alphavantage.New(cfg.AlphaVantageKey), c.ticker, tf, c.tolerance)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.CrosscheckMarkdown(report))

	if c.export != "" {
		file, err := os.Create(c.export)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating %q: %v\n", c.export, err)
			return subcommands.ExitFailure
		}
		defer file.Close()
		if err := report.WriteRawCSV(file); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing %q: %v\n", c.export, err)
			return subcommands.ExitFailure
		}
		fmt.Printf("Saved raw series to %s\n", c.export)
	}
	if report.Suspect() {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
