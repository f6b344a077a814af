package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	analyzer "github.com/aadhyanagar08/stock-risk-analyzer"
	"github.com/google/subcommands"
)

// fetchCmd warms the price cache without running a comparison.
type fetchCmd struct {
	tickers   string
	benchmark string
	timeframe string
	freq      string
	source    string
	refresh   bool
}

func (*fetchCmd) Name() string     { return "fetch" }
func (*fetchCmd) Synopsis() string { return "fetch prices into the local cache" }
func (*fetchCmd) Usage() string {
	return `sra fetch -tickers AAPL,MSFT [-benchmark SPY] [-timeframe 3y] [-freq D]

  Fetches adjusted close prices for each ticker (and the benchmark) into
  the local cache, so later compares run offline until the TTL expires.
`
}

func (c *fetchCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.tickers, "tickers", "", "Comma-separated tickers to fetch")
	f.StringVar(&c.benchmark, "benchmark", "SPY", "Benchmark ticker")
	f.StringVar(&c.timeframe, "timeframe", "3y", "Lookback window: 1y, 3y or 5y")
	f.StringVar(&c.freq, "freq", "D", "Sampling frequency: D, W or M")
	f.StringVar(&c.source, "source", "yahoo", "Price source: yahoo or alphavantage")
	f.BoolVar(&c.refresh, "refresh", false, "Force refresh, ignoring the cache TTL")
}

func (c *fetchCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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
	freq, err := analyzer.ParseFrequency(c.freq)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	bench, err := analyzer.NormalizeTicker(c.benchmark)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	provider, err := newProvider(cfg, c.source)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	symbols := append(analyzer.SplitTickers(c.tickers), bench)
	cache := &analyzer.Cache{Dir: cfg.CacheDir, TTLDays: cfg.CacheTTLDays}

	failed := 0
	for _, raw := range symbols {
		symbol, err := analyzer.NormalizeTicker(raw)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			failed++
			continue
		}
		item, err := cache.Get(ctx, provider, symbol, bench, tf, freq, c.refresh)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error fetching %s: %v\n", symbol, err)
			failed++
			continue
		}
		meta, err := cache.LoadMeta(item)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading meta of %s: %v\n", symbol, err)
			failed++
			continue
		}
		fmt.Printf("%-10s %4d rows, as of %s (%s, %s)\n", symbol, meta.Rows, meta.AsOf, meta.Source, meta.Currency)
	}
	if failed > 0 {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
