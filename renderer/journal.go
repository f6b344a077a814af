package renderer

import (
	"bytes"
	"strings"

	"github.com/aadhyanagar08/stock-risk-analyzer/journal"
	md "github.com/nao1215/markdown"
)

// DecisionsMarkdown renders the journaled decisions, oldest first.
func DecisionsMarkdown(decisions []journal.Decision) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Decision Log")
	if len(decisions) == 0 {
		doc.PlainText("No decisions recorded yet. Use 'sra journal' to add one.")
		return doc.String()
	}

	rows := make([][]string, 0, len(decisions))
	for _, d := range decisions {
		rows = append(rows, []string{
			d.Date.String(),
			d.Category,
			strings.Join(d.Tickers, ", "),
			d.ProfileName,
			d.TopPick,
			string(d.Action),
			d.Note,
		})
	}
	doc.Table(md.TableSet{
		Header: []string{"Date", "Category", "Tickers", "Profile", "Top pick", "Action", "Note"},
		Rows:   rows,
	})
	return doc.String()
}
