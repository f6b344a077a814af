package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	analyzer "github.com/aadhyanagar08/stock-risk-analyzer"
	"github.com/aadhyanagar08/stock-risk-analyzer/journal"
	"github.com/google/subcommands"
)

// journalCmd appends one decision to the journal.
type journalCmd struct {
	category string
	tickers  string
	profile  string
	weights  string
	topPick  string
	action   string
	note     string
	snapshot string
}

func (*journalCmd) Name() string     { return "journal" }
func (*journalCmd) Synopsis() string { return "record an investment decision" }
func (*journalCmd) Usage() string {
	return `sra journal -category etf -tickers VTI,SCHD -top-pick VTI -action BUY

  Appends one decision to the local journal. The action must be one of
  BUY, REJECT or WATCH. Use 'sra log' to review past decisions.
`
}

func (c *journalCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.category, "category", "", "Free-form category, e.g. etf or tech")
	f.StringVar(&c.tickers, "tickers", "", "Comma-separated tickers considered")
	f.StringVar(&c.profile, "profile", "default", "Profile name used for the decision")
	f.StringVar(&c.weights, "weights", "{}", "Weights used, as JSON")
	f.StringVar(&c.topPick, "top-pick", "", "The ticker that won the comparison")
	f.StringVar(&c.action, "action", "", "Decision taken: BUY, REJECT or WATCH")
	f.StringVar(&c.note, "note", "", "Optional free-form note")
	f.StringVar(&c.snapshot, "snapshot", "", "Optional path of a saved CSV snapshot")
}

func (c *journalCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	action, err := analyzer.ParseAction(c.action)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	if !json.Valid([]byte(c.weights)) {
		fmt.Fprintf(os.Stderr, "Error: -weights is not valid JSON: %q\n", c.weights)
		return subcommands.ExitUsageError
	}

	db, err := openJournal(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer db.Close()

	err = db.Append(ctx, journal.Decision{
		Category:     c.category,
		Tickers:      analyzer.SplitTickers(c.tickers),
		ProfileName:  c.profile,
		WeightsJSON:  c.weights,
		TopPick:      c.topPick,
		Action:       action,
		Note:         c.note,
		SnapshotPath: c.snapshot,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Recorded %s %s in %s\n", action, c.topPick, db.Path())
	return subcommands.ExitSuccess
}
