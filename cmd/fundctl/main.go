// Command fundctl manages fund ledgers from the terminal, against the same
// database as the server.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")

	for _, c := range commands {
		commander.Register(c.cmd, c.group)
	}

	completion().Complete("fundctl")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

var commands = []struct {
	cmd   subcommands.Command
	group string
}{
	{&fundsCmd{}, "funds"},
	{&createFundCmd{}, "funds"},
	{&renameFundCmd{}, "funds"},
	{&deleteFundCmd{}, "funds"},
	{&addCmd{}, "entries"},
	{&entriesCmd{}, "entries"},
	{&deleteEntryCmd{}, "entries"},
	{&ledgerCmd{}, "ledger"},
	{&summaryCmd{}, "ledger"},
	{&snapshotCmd{}, "ledger"},
}

// completion describes the command line for shell completion
// (COMP_INSTALL=1 fundctl installs it).
func completion() *complete.Command {
	fund := map[string]complete.Predictor{"fund": predict.Something}
	return &complete.Command{
		Flags: map[string]complete.Predictor{
			"db": predict.Files("*.db"),
		},
		Sub: map[string]*complete.Command{
			"funds":       {},
			"create-fund": {},
			"rename-fund": {Flags: fund},
			"delete-fund": {Flags: fund},
			"add": {Flags: map[string]complete.Predictor{
				"fund":     predict.Something,
				"date":     predict.Something,
				"nv":       predict.Something,
				"addition": predict.Something,
				"shares":   predict.Something,
			}},
			"entries":      {Flags: fund},
			"delete-entry": {Flags: map[string]complete.Predictor{"fund": predict.Something, "date": predict.Something}},
			"ledger": {Flags: map[string]complete.Predictor{
				"fund":   predict.Something,
				"format": predict.Set{formatTerminal, "markdown", "html", "json"},
				"start":  predict.Something,
				"end":    predict.Something,
				"sort":   predict.Set{"asc", "desc"},
			}},
			"summary":  {},
			"snapshot": {Flags: map[string]complete.Predictor{"fund": predict.Something, "refresh": predict.Nothing}},
		},
	}
}
