package renderer

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"

	analyzer "github.com/aadhyanagar08/stock-risk-analyzer"
	md "github.com/nao1215/markdown"
)

// CompareMarkdown renders a ranked comparison to a markdown report.
func CompareMarkdown(c *analyzer.Comparison) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Compare & Rank — %s profile", c.Profile))
	doc.PlainText(fmt.Sprintf("Benchmark %s • %s • %s • as of %s",
		c.Benchmark, c.Timeframe, freqLabel(c.Frequency), c.AsOf))

	doc.H2("Weights used")
	keys := make([]string, 0, len(c.Weights))
	for k := range c.Weights {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	wrows := make([][]string, 0, len(keys))
	for _, k := range keys {
		wrows = append(wrows, []string{k, fmt.Sprintf("%.4f", c.Weights[k])})
	}
	doc.Table(md.TableSet{Header: []string{"Metric", "Weight"}, Rows: wrows})
	if c.R2AlignTarget != analyzer.R2None {
		doc.PlainText(fmt.Sprintf("R² alignment target: %s", c.R2AlignTarget))
	}

	doc.H2("Ranking")
	rows := make([][]string, 0, len(c.Rows))
	for _, r := range c.Rows {
		rows = append(rows, []string{
			strconv.Itoa(r.Rank),
			r.Symbol,
			num(r.Score),
			num(r.Sharpe),
			pct(r.Vol),
			signedPct(r.MaxDD),
			num(r.Beta),
			num(r.R2),
			r.Warnings,
		})
	}
	doc.Table(md.TableSet{
		Header: []string{"Rank", "Symbol", "Score", "Sharpe", "Vol", "Max DD", "Beta", "R²", "Warnings"},
		Rows:   rows,
	})

	if top := c.TopPick(); top != "" {
		doc.PlainText(fmt.Sprintf("Top pick: **%s**", top))
	}
	return doc.String()
}

func freqLabel(f analyzer.Frequency) string {
	switch f {
	case analyzer.Weekly:
		return "weekly"
	case analyzer.Monthly:
		return "monthly"
	default:
		return "daily"
	}
}
