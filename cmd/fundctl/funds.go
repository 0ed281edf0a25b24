package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"

	"github.com/ndewijer/fund-ledger/internal/api/request"
	"github.com/ndewijer/fund-ledger/internal/validation"
)

// withApp opens the app for one command run.
func withApp(ctx context.Context, run func(context.Context, *app) subcommands.ExitStatus) subcommands.ExitStatus {
	a, err := openApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()
	return run(ctx, a)
}

// fundsCmd lists the funds.
type fundsCmd struct{}

func (*fundsCmd) Name() string     { return "funds" }
func (*fundsCmd) Synopsis() string { return "list funds, most recent first" }
func (*fundsCmd) Usage() string {
	return `fundctl funds

  Lists every fund with its ID and creation date.
`
}
func (*fundsCmd) SetFlags(*flag.FlagSet) {}

func (c *fundsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withApp(ctx, c.run)
}

func (c *fundsCmd) run(ctx context.Context, a *app) subcommands.ExitStatus {
	funds, err := a.funds.ListFunds(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error listing funds: %v\n", err)
		return subcommands.ExitFailure
	}

	var b strings.Builder
	b.WriteString("| Name | ID | Created |\n|---|---|---|\n")
	for _, f := range funds {
		fmt.Fprintf(&b, "| %s | %s | %s |\n", strings.ReplaceAll(f.Name, "|", `\|`), f.ID, f.CreatedAt.Format("2006-01-02 15:04"))
	}
	if err := a.printMarkdown(b.String()); err != nil {
		fmt.Fprintf(os.Stderr, "Error printing funds: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// createFundCmd registers a fund.
type createFundCmd struct{}

func (*createFundCmd) Name() string     { return "create-fund" }
func (*createFundCmd) Synopsis() string { return "create a fund" }
func (*createFundCmd) Usage() string {
	return `fundctl create-fund <name>
`
}
func (*createFundCmd) SetFlags(*flag.FlagSet) {}

func (c *createFundCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: create-fund takes exactly one name")
		return subcommands.ExitUsageError
	}
	return withApp(ctx, func(ctx context.Context, a *app) subcommands.ExitStatus {
		return c.run(ctx, a, f.Arg(0))
	})
}

func (c *createFundCmd) run(ctx context.Context, a *app, name string) subcommands.ExitStatus {
	req := request.CreateFundRequest{Name: name}
	if err := validation.ValidateCreateFund(req); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	fund, err := a.funds.CreateFund(ctx, req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating fund: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Fprintf(a.out, "Created fund %q (%s)\n", fund.Name, fund.ID)
	return subcommands.ExitSuccess
}

// renameFundCmd renames a fund.
type renameFundCmd struct {
	fund string
}

func (*renameFundCmd) Name() string     { return "rename-fund" }
func (*renameFundCmd) Synopsis() string { return "rename a fund" }
func (*renameFundCmd) Usage() string {
	return `fundctl rename-fund [-fund <name|id>] <new name>
`
}

func (c *renameFundCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.fund, "fund", "", "Fund name or ID (defaults to the most recent fund)")
}

func (c *renameFundCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: rename-fund takes exactly one new name")
		return subcommands.ExitUsageError
	}
	return withApp(ctx, func(ctx context.Context, a *app) subcommands.ExitStatus {
		return c.run(ctx, a, f.Arg(0))
	})
}

func (c *renameFundCmd) run(ctx context.Context, a *app, name string) subcommands.ExitStatus {
	req := request.UpdateFundRequest{Name: name}
	if err := validation.ValidateUpdateFund(req); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	fund, err := a.resolveFund(ctx, c.fund)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error finding fund: %v\n", err)
		return subcommands.ExitFailure
	}

	updated, err := a.funds.UpdateFund(ctx, fund.ID, req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error renaming fund: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Fprintf(a.out, "Renamed fund %q to %q\n", fund.Name, updated.Name)
	return subcommands.ExitSuccess
}

// deleteFundCmd removes a fund with its entries.
type deleteFundCmd struct {
	fund string
}

func (*deleteFundCmd) Name() string     { return "delete-fund" }
func (*deleteFundCmd) Synopsis() string { return "delete a fund and all its entries" }
func (*deleteFundCmd) Usage() string {
	return `fundctl delete-fund -fund <name|id>

  Deleting the last fund recreates the default fund.
`
}

func (c *deleteFundCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.fund, "fund", "", "Fund name or ID (required)")
}

func (c *deleteFundCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.fund == "" {
		fmt.Fprintln(os.Stderr, "Error: -fund is required")
		return subcommands.ExitUsageError
	}
	return withApp(ctx, c.run)
}

func (c *deleteFundCmd) run(ctx context.Context, a *app) subcommands.ExitStatus {
	fund, err := a.resolveFund(ctx, c.fund)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error finding fund: %v\n", err)
		return subcommands.ExitFailure
	}

	if err := a.funds.DeleteFund(ctx, fund.ID); err != nil {
		fmt.Fprintf(os.Stderr, "Error deleting fund: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Fprintf(a.out, "Deleted fund %q\n", fund.Name)
	return subcommands.ExitSuccess
}
