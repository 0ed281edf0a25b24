package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/subcommands"

	"github.com/ndewijer/fund-ledger/internal/api/request"
	"github.com/ndewijer/fund-ledger/internal/ledger"
	"github.com/ndewijer/fund-ledger/internal/validation"
)

// addCmd stores an entry, replacing the entry on the same date.
type addCmd struct {
	fund     string
	date     string
	netValue string
	addition string
	shares   string
}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "record the net value of a fund on a date" }
func (*addCmd) Usage() string {
	return `fundctl add [-fund <name|id>] [-date YYYY-MM-DD] -nv <net value> [-addition <amount>] [-shares <count>]

  Records an observation. A positive addition buys, a negative one withdraws.
  When only one of addition and shares is given, the other is derived from
  the net value. An entry on the same date is replaced.
`
}

func (c *addCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.fund, "fund", "", "Fund name or ID (defaults to the most recent fund)")
	f.StringVar(&c.date, "date", time.Now().Format(ledger.DateLayout), "Entry date")
	f.StringVar(&c.netValue, "nv", "", "Net value per share (required)")
	f.StringVar(&c.addition, "addition", "", "Capital added, negative for a withdrawal")
	f.StringVar(&c.shares, "shares", "", "Shares bought, negative for shares redeemed")
}

func (c *addCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withApp(ctx, c.run)
}

func (c *addCmd) run(ctx context.Context, a *app) subcommands.ExitStatus {
	req := request.SaveEntryRequest{
		Date:     c.date,
		NetValue: request.Number(c.netValue),
		Addition: request.Number(c.addition),
		Shares:   request.Number(c.shares),
	}
	if err := validation.ValidateSaveEntry(req); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	fund, err := a.resolveFund(ctx, c.fund)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error finding fund: %v\n", err)
		return subcommands.ExitFailure
	}

	entry, err := a.entries.SaveEntry(ctx, fund.ID, req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error saving entry: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Fprintf(a.out, "Saved %s entry of %q at net value %s\n",
		entry.Date.Format(ledger.DateLayout), fund.Name, ledger.FormatFixed(entry.NetValue, 4))
	return subcommands.ExitSuccess
}

// entriesCmd lists the raw entries of a fund.
type entriesCmd struct {
	fund string
}

func (*entriesCmd) Name() string     { return "entries" }
func (*entriesCmd) Synopsis() string { return "list the recorded entries of a fund" }
func (*entriesCmd) Usage() string {
	return `fundctl entries [-fund <name|id>]
`
}

func (c *entriesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.fund, "fund", "", "Fund name or ID (defaults to the most recent fund)")
}

func (c *entriesCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withApp(ctx, c.run)
}

func (c *entriesCmd) run(ctx context.Context, a *app) subcommands.ExitStatus {
	fund, err := a.resolveFund(ctx, c.fund)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error finding fund: %v\n", err)
		return subcommands.ExitFailure
	}

	entries, err := a.entries.ListEntries(ctx, fund.ID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error listing entries: %v\n", err)
		return subcommands.ExitFailure
	}

	optional := func(v *float64) string {
		if v == nil {
			return ""
		}
		return ledger.FormatFixed(*v, 4)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n| Date | Net value | Addition | Shares |\n|---|---:|---:|---:|\n", fund.Name)
	for _, e := range entries {
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
			e.Date.Format(ledger.DateLayout), ledger.FormatFixed(e.NetValue, 4), optional(e.Addition), optional(e.Shares))
	}
	if err := a.printMarkdown(b.String()); err != nil {
		fmt.Fprintf(os.Stderr, "Error printing entries: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// deleteEntryCmd removes the entry of a fund on a date.
type deleteEntryCmd struct {
	fund string
	date string
}

func (*deleteEntryCmd) Name() string     { return "delete-entry" }
func (*deleteEntryCmd) Synopsis() string { return "delete the entry of a fund on a date" }
func (*deleteEntryCmd) Usage() string {
	return `fundctl delete-entry [-fund <name|id>] -date YYYY-MM-DD
`
}

func (c *deleteEntryCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.fund, "fund", "", "Fund name or ID (defaults to the most recent fund)")
	f.StringVar(&c.date, "date", "", "Entry date (required)")
}

func (c *deleteEntryCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withApp(ctx, c.run)
}

func (c *deleteEntryCmd) run(ctx context.Context, a *app) subcommands.ExitStatus {
	date, err := validation.ParseDate(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	fund, err := a.resolveFund(ctx, c.fund)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error finding fund: %v\n", err)
		return subcommands.ExitFailure
	}

	if err := a.entries.DeleteEntry(ctx, fund.ID, date); err != nil {
		fmt.Fprintf(os.Stderr, "Error deleting entry: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Fprintf(a.out, "Deleted %s entry of %q\n", c.date, fund.Name)
	return subcommands.ExitSuccess
}
