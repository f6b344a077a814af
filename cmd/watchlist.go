package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	analyzer "github.com/aadhyanagar08/stock-risk-analyzer"
	"github.com/aadhyanagar08/stock-risk-analyzer/journal"
	"github.com/google/subcommands"
)

// watchlistCmd manages named ticker watchlists.
type watchlistCmd struct{}

func (*watchlistCmd) Name() string     { return "watchlist" }
func (*watchlistCmd) Synopsis() string { return "manage named ticker watchlists" }
func (*watchlistCmd) Usage() string {
	return `sra watchlist [<verb> ...]

  With no arguments, lists the watchlists. Verbs:

    create <name>                 create an empty watchlist
    rename <old> <new>            rename a watchlist
    delete <name>                 delete a watchlist and its tickers
    add    <name> <tickers>       add comma-separated tickers
    remove <name> <tickers>       remove comma-separated tickers
    show   <name>                 list the tickers of a watchlist

Usage Examples:
$ sra watchlist create etfs
$ sra watchlist add etfs VTI,SCHD,QQQ
$ sra compare -watchlist etfs -profile low_vol
`
}

func (*watchlistCmd) SetFlags(f *flag.FlagSet) {}

func (c *watchlistCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	args := f.Args()
	if len(args) == 0 {
		return c.list(ctx, db)
	}

	verb, args := args[0], args[1:]
	want, ok := map[string]int{
		"create": 1, "rename": 2, "delete": 1,
		"add": 2, "remove": 2, "show": 1,
	}[verb]
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: unknown watchlist verb %q\n%s", verb, c.Usage())
		return subcommands.ExitUsageError
	}
	if len(args) != want {
		fmt.Fprintf(os.Stderr, "Error: %q takes %d argument(s)\n%s", verb, want, c.Usage())
		return subcommands.ExitUsageError
	}

	switch verb {
	case "create":
		err = db.CreateWatchlist(ctx, args[0])
	case "rename":
		err = db.RenameWatchlist(ctx, args[0], args[1])
	case "delete":
		err = db.DeleteWatchlist(ctx, args[0])
	case "add":
		err = db.AddTickers(ctx, args[0], analyzer.SplitTickers(args[1]))
	case "remove":
		err = db.RemoveTickers(ctx, args[0], analyzer.SplitTickers(args[1]))
	case "show":
		var tickers []string
		tickers, err = db.Watchlist(ctx, args[0])
		if err == nil {
			for _, t := range tickers {
				fmt.Println(t)
			}
			return subcommands.ExitSuccess
		}
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// list prints every watchlist with its tickers.
func (c *watchlistCmd) list(ctx context.Context, db *journal.DB) subcommands.ExitStatus {
	names, err := db.Watchlists(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if len(names) == 0 {
		fmt.Println("No watchlists. Use 'sra watchlist create <name>' to add one.")
		return subcommands.ExitSuccess
	}
	for _, name := range names {
		tickers, err := db.Watchlist(ctx, name)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		fmt.Printf("%-20s %s\n", name, strings.Join(tickers, ", "))
	}
	return subcommands.ExitSuccess
}
