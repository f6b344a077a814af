package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/aadhyanagar08/stock-risk-analyzer/renderer"
	"github.com/google/subcommands"
)

// logCmd lists the journaled decisions.
type logCmd struct {
	export string
}

func (*logCmd) Name() string     { return "log" }
func (*logCmd) Synopsis() string { return "list recorded decisions" }
func (*logCmd) Usage() string {
	return `sra log [-export decisions.csv]

  Lists the journaled decisions, oldest first. With -export the full
  journal is also written as a decisions CSV file.
`
}

func (c *logCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.export, "export", "", "Optional path to save the journal as CSV")
}

func (c *logCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	db, err := openJournal(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer db.Close()

	decisions, err := db.Decisions(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.DecisionsMarkdown(decisions))

	if c.export != "" {
		file, err := os.Create(c.export)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating %q: %v\n", c.export, err)
			return subcommands.ExitFailure
		}
		defer file.Close()
		if err := db.ExportCSV(ctx, file); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing %q: %v\n", c.export, err)
			return subcommands.ExitFailure
		}
		fmt.Printf("Saved journal to %s\n", c.export)
	}
	return subcommands.ExitSuccess
}
