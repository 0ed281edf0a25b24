// Package render turns computed ledgers into documents and chart series.
// It reads ledger rows only and never looks at lot state.
package render

import (
	"fmt"
	"strings"

	"github.com/ndewijer/fund-ledger/internal/ledger"
)

// EmptyLedgerText is written in place of the table of a ledger without rows.
const EmptyLedgerText = "No entries yet"

var ledgerColumns = []string{
	"Date",
	"Net Value",
	"Addition",
	"Shares",
	"Total Shares",
	"Total Value",
	"Total Invested",
	"Net Value Growth",
	"Total Growth",
	"Addition Growth",
	"Realized Gain",
	"Realized Growth",
	"Cumulative Gain",
}

// LedgerMarkdown renders rows as a markdown document: a heading, a table
// with one line per row and a summary of the last row in currency.
// Net values keep 4 decimals and other amounts 2. Cells with one value per
// matched lot are joined with ledger.Delimiter.
func LedgerMarkdown(title string, rows []ledger.Row, currency string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", escapeCell(title))

	if len(rows) == 0 {
		b.WriteString(EmptyLedgerText + "\n")
		return b.String()
	}

	b.WriteString("| " + strings.Join(ledgerColumns, " | ") + " |\n")
	b.WriteString("|" + strings.Repeat(" ---: |", len(ledgerColumns)) + "\n")

	for _, r := range rows {
		cells := []string{
			r.Date,
			ledger.FormatFixed(r.NetValue, 4),
			ledger.FormatFixed(r.Addition, 2),
			ledger.FormatFixed(r.Shares, 2),
			ledger.FormatFixed(r.TotalShares, 2),
			ledger.FormatFixed(r.TotalValue, 2),
			ledger.FormatFixed(r.TotalInvested, 2),
			r.NetValueGrowth.String(),
			r.TotalGrowth.String(),
			r.AdditionLatestGrowth.String(),
			r.RealizedGainText(),
			r.RealizedGrowthText(),
			ledger.FormatFixed(r.CumulativeRealizedGain, 2),
		}
		b.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}

	last := rows[len(rows)-1]
	fmt.Fprintf(&b, "\n**Total value:** %s · **Invested:** %s · **Growth:** %s · **Realized gain:** %s\n",
		Money(last.TotalValue, currency),
		Money(last.TotalInvested, currency),
		last.TotalGrowth,
		Money(last.CumulativeRealizedGain, currency),
	)

	return b.String()
}

func escapeCell(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), "|", `\|`)
}
