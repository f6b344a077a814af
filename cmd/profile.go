package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"

	analyzer "github.com/aadhyanagar08/stock-risk-analyzer"
	"github.com/google/subcommands"
)

// profileCmd lists and shows weight profiles.
type profileCmd struct{}

func (*profileCmd) Name() string     { return "profile" }
func (*profileCmd) Synopsis() string { return "list weight profiles or show one" }
func (*profileCmd) Usage() string {
	return `sra profile [<name>]

  With no arguments, lists the available profiles, built-in and user
  ones. With a name, shows the profile's weights and defaults. User
  profiles live in {data dir}/profiles/{name}.yaml and shadow the
  built-ins of the same name.
`
}

func (*profileCmd) SetFlags(f *flag.FlagSet) {}

func (c *profileCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	if f.NArg() == 0 {
		for _, name := range analyzer.ListProfiles(cfg.DataDir) {
			fmt.Println(name)
		}
		return subcommands.ExitSuccess
	}

	profile, err := analyzer.LoadProfile(cfg.DataDir, f.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Profile: %s\n", f.Arg(0))
	fmt.Printf("Timeframe: %s, frequency: %s, R² alignment: %s\n",
		profile.Timeframe, profile.Frequency, profile.R2AlignTarget)
	keys := make([]string, 0, len(profile.Weights))
	for k := range profile.Weights {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("  %-14s %.4f\n", k, profile.Weights[k])
	}
	return subcommands.ExitSuccess
}
