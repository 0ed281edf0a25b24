package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/subcommands"

	"github.com/ndewijer/fund-ledger/internal/api/request"
	"github.com/ndewijer/fund-ledger/internal/apperrors"
	"github.com/ndewijer/fund-ledger/internal/ledger"
	"github.com/ndewijer/fund-ledger/internal/model"
	"github.com/ndewijer/fund-ledger/internal/render"
)

// formatTerminal renders the markdown ledger with glamour.
const formatTerminal = "terminal"

// ledgerCmd prints the computed ledger of a fund.
type ledgerCmd struct {
	fund   string
	format string
	start  string
	end    string
	sort   string
}

func (*ledgerCmd) Name() string     { return "ledger" }
func (*ledgerCmd) Synopsis() string { return "compute and print the ledger of a fund" }
func (*ledgerCmd) Usage() string {
	return `fundctl ledger [-fund <name|id>] [-format terminal|markdown|html|json] [-start YYYY-MM-DD] [-end YYYY-MM-DD] [-sort asc|desc]

  Computes the ledger over every entry of the fund. -start and -end only
  limit which rows are printed.
`
}

func (c *ledgerCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.fund, "fund", "", "Fund name or ID (defaults to the most recent fund)")
	f.StringVar(&c.format, "format", formatTerminal, "Output format")
	f.StringVar(&c.start, "start", "", "First date printed")
	f.StringVar(&c.end, "end", "", "Last date printed")
	f.StringVar(&c.sort, "sort", "", "Row order, asc or desc")
}

func (c *ledgerCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withApp(ctx, c.run)
}

func (c *ledgerCmd) run(ctx context.Context, a *app) subcommands.ExitStatus {
	format := c.format
	if format == formatTerminal {
		format = model.FormatMarkdown
	}
	filters, err := request.ParseLedgerFilters(format, c.start, c.end, c.sort)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	fund, err := a.resolveFund(ctx, c.fund)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error finding fund: %v\n", err)
		return subcommands.ExitFailure
	}

	fl, err := a.ledgers.FilteredLedger(ctx, fund.ID, filters)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error computing ledger: %v\n", err)
		return subcommands.ExitFailure
	}

	md := render.LedgerMarkdown(fl.Fund.Name, fl.Rows, a.cfg.Ledger.Currency)
	switch {
	case filters.Format == model.FormatJSON:
		err = a.printJSON(fl)
	case filters.Format == model.FormatHTML:
		var html string
		if html, err = render.LedgerHTML(md); err == nil {
			_, err = io.WriteString(a.out, html)
		}
	case c.format == formatTerminal:
		err = a.printMarkdown(md)
	default:
		_, err = io.WriteString(a.out, md)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error printing ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// summaryCmd prints the latest position of every fund.
type summaryCmd struct {
	json bool
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "print the latest position of every fund" }
func (*summaryCmd) Usage() string {
	return `fundctl summary [-json]
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.json, "json", false, "Print JSON instead of a table")
}

func (c *summaryCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withApp(ctx, c.run)
}

func (c *summaryCmd) run(ctx context.Context, a *app) subcommands.ExitStatus {
	summaries, err := a.ledgers.Summaries(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error computing summaries: %v\n", err)
		return subcommands.ExitFailure
	}

	if c.json {
		err = a.printJSON(summaries)
	} else {
		err = a.printMarkdown(summaryMarkdown(summaries, a.cfg.Ledger.Currency))
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error printing summaries: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func summaryMarkdown(summaries []model.LedgerSummary, currency string) string {
	var b strings.Builder
	b.WriteString("| Fund | Entries | Last date | Net value | Shares | Value | Invested | Growth | Realized gain |\n")
	b.WriteString("|---|---:|---|---:|---:|---:|---:|---:|---:|\n")
	for _, s := range summaries {
		fmt.Fprintf(&b, "| %s | %d | %s | %s | %s | %s | %s | %s | %s |\n",
			strings.ReplaceAll(s.Fund.Name, "|", `\|`),
			s.EntryCount,
			s.LastDate,
			ledger.FormatFixed(s.NetValue, 4),
			ledger.FormatFixed(s.TotalShares, 4),
			render.Money(s.TotalValue, currency),
			render.Money(s.TotalInvested, currency),
			s.TotalGrowth,
			render.Money(s.CumulativeRealizedGain, currency),
		)
	}
	return b.String()
}

// snapshotCmd prints or refreshes stored ledger snapshots.
type snapshotCmd struct {
	fund    string
	refresh bool
}

func (*snapshotCmd) Name() string     { return "snapshot" }
func (*snapshotCmd) Synopsis() string { return "print the stored ledger snapshot of a fund" }
func (*snapshotCmd) Usage() string {
	return `fundctl snapshot [-fund <name|id>] [-refresh]

  With -refresh, recomputes the snapshot of every fund first, as the
  scheduled snapshot job does.
`
}

func (c *snapshotCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.fund, "fund", "", "Fund name or ID (defaults to the most recent fund)")
	f.BoolVar(&c.refresh, "refresh", false, "Recompute every snapshot before printing")
}

func (c *snapshotCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withApp(ctx, c.run)
}

func (c *snapshotCmd) run(ctx context.Context, a *app) subcommands.ExitStatus {
	if c.refresh {
		n, err := a.snapshots.RefreshAll(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error refreshing snapshots: %v\n", err)
			return subcommands.ExitFailure
		}
		fmt.Fprintf(os.Stderr, "Refreshed %d snapshots\n", n)
	}

	fund, err := a.resolveFund(ctx, c.fund)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error finding fund: %v\n", err)
		return subcommands.ExitFailure
	}

	snapshot, err := a.snapshots.GetSnapshot(ctx, fund.ID)
	if errors.Is(err, apperrors.ErrSnapshotNotFound) {
		fmt.Fprintf(os.Stderr, "No snapshot of %q yet, run with -refresh\n", fund.Name)
		return subcommands.ExitFailure
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading snapshot: %v\n", err)
		return subcommands.ExitFailure
	}

	if err := a.printJSON(snapshot); err != nil {
		fmt.Fprintf(os.Stderr, "Error printing snapshot: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
