package renderer

import (
	"bytes"
	"fmt"
	"strconv"

	analyzer "github.com/aadhyanagar08/stock-risk-analyzer"
	md "github.com/nao1215/markdown"
)

// CrosscheckMarkdown renders a cross-source reconciliation report.
func CrosscheckMarkdown(r *analyzer.CrosscheckReport) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Cross-source check — %s", r.Symbol))
	doc.PlainText(fmt.Sprintf("%s vs %s • %s • verdict: **%s**",
		r.SourceA, r.SourceB, r.Timeframe, r.Verdict()))

	doc.H2("Coverage")
	doc.Table(md.TableSet{
		Header: []string{"Overlapping days", "Only " + r.SourceA, "Only " + r.SourceB},
		Rows: [][]string{{
			strconv.Itoa(r.Rows), strconv.Itoa(r.OnlyA), strconv.Itoa(r.OnlyB),
		}},
	})

	doc.H2("Discrepancy")
	doc.Table(md.TableSet{
		Header: []string{"Mean gap", "Max gap", "Worst day", "Days above tolerance", "Tolerance"},
		Rows: [][]string{{
			pct(r.MeanGap),
			pct(r.MaxGap),
			r.WorstDay.String(),
			strconv.Itoa(r.Exceeds),
			pct(r.Tolerance),
		}},
	})

	if len(r.Offenders) > 0 {
		doc.H2("Worst disagreements")
		rows := make([][]string, 0, len(r.Offenders))
		for _, o := range r.Offenders {
			rows = append(rows, []string{
				o.Day.String(),
				price(o.A, r.Currency),
				price(o.B, r.Currency),
				pct(o.Gap),
			})
		}
		doc.Table(md.TableSet{
			Header: []string{"Date", r.SourceA, r.SourceB, "Gap"},
			Rows:   rows,
		})
	}
	return doc.String()
}
