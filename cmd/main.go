// Package cmd implements the sra subcommands.
package cmd

import (
	"flag"
	"fmt"
	"path/filepath"

	analyzer "github.com/aadhyanagar08/stock-risk-analyzer"
	"github.com/aadhyanagar08/stock-risk-analyzer/alphavantage"
	"github.com/aadhyanagar08/stock-risk-analyzer/journal"
	"github.com/aadhyanagar08/stock-risk-analyzer/yahoo"
	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
)

// Commands is the list of all subcommands, in registration order.
var Commands = []subcommands.Command{
	&compareCmd{},
	&fetchCmd{},
	&crosscheckCmd{},
	&journalCmd{},
	&logCmd{},
	&watchlistCmd{},
	&profileCmd{},
	&explainCmd{},
	&topicCmd{},
}

var configPath = flag.String("config", "", "Path to the config file. Defaults to "+analyzer.ConfigFile()+" if it exists.")

// loadConfig loads the runtime configuration honoring the -config flag.
func loadConfig() (analyzer.Config, error) {
	return analyzer.LoadConfig(*configPath)
}

// newProvider resolves a -source flag value to a provider.
func newProvider(cfg analyzer.Config, source string) (analyzer.Provider, error) {
	switch source {
	case "", "yahoo":
		return yahoo.New(), nil
	case "alphavantage", "av":
		return alphavantage.New(cfg.AlphaVantageKey), nil
	default:
		return nil, fmt.Errorf("unknown source %q: want yahoo or alphavantage", source)
	}
}

// newFactors wires the factor engine: cache, provider and the optional
// securities registry from the data dir.
func newFactors(cfg analyzer.Config, source string, force bool) (*analyzer.Factors, error) {
	provider, err := newProvider(cfg, source)
	if err != nil {
		return nil, err
	}
	securities, err := analyzer.LoadSecurities(filepath.Join(cfg.DataDir, "securities.yaml"))
	if err != nil {
		return nil, err
	}
	return &analyzer.Factors{
		Cache:        &analyzer.Cache{Dir: cfg.CacheDir, TTLDays: cfg.CacheTTLDays},
		Provider:     provider,
		Securities:   securities,
		RiskFreeRate: cfg.RiskFreeRate,
		Force:        force,
	}, nil
}

// openJournal opens the journal database under the configured data dir.
func openJournal(cfg analyzer.Config) (*journal.DB, error) {
	return journal.Open(cfg.DataDir)
}

// printMarkdown renders markdown to the terminal.
func printMarkdown(src string) {
	out, err := glamour.Render(src, "auto")
	if err != nil {
		fmt.Print(src)
		return
	}
	fmt.Print(out)
}
