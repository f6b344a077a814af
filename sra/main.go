// Command sra compares and ranks stocks and ETFs by risk factors.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/aadhyanagar08/stock-risk-analyzer/cmd"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))

	sub := make(map[string]*complete.Command, len(cmd.Commands))
	for _, c := range cmd.Commands {
		commander.Register(c, "")
		sub[c.Name()] = &complete.Command{}
	}
	commander.Register(commander.HelpCommand(), "")

	// Shell completion, a no-op outside of completion requests.
	completion := &complete.Command{
		Sub:   sub,
		Flags: map[string]complete.Predictor{"config": predict.Files("*.yaml")},
	}
	completion.Complete(path.Base(os.Args[0]))

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
