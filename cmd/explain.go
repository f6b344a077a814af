package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/aadhyanagar08/stock-risk-analyzer/coach"
	"github.com/aadhyanagar08/stock-risk-analyzer/renderer"
	"github.com/google/subcommands"
	"google.golang.org/genai"
)

// explainCmd runs a comparison and asks Gemini to explain the ranking.
type explainCmd struct {
	compareCmd
	question string
}

func (*explainCmd) Name() string     { return "explain" }
func (*explainCmd) Synopsis() string { return "explain a comparison with an AI coach" }
func (*explainCmd) Usage() string {
	return `sra explain -tickers VTI,SCHD,QQQ [-question "why did VTI win?"]

  Runs the same comparison as 'sra compare', then asks a Gemini-backed
  coach to explain the ranking in plain language. Requires the
  GEMINI_API_KEY environment variable. The coach never gives buy or
  sell advice.
`
}

func (c *explainCmd) SetFlags(f *flag.FlagSet) {
	c.compareCmd.SetFlags(f)
	f.StringVar(&c.question, "question", "", "Optional question about the ranking")
}

func (c *explainCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	comparison, err := c.run(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	report := renderer.CompareMarkdown(comparison)
	printMarkdown(report)

	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	ai := coach.New()
	if err := ai.Start(ctx, client); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	answer, err := ai.Explain(ctx, report, c.question)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(answer)
	return subcommands.ExitSuccess
}
