package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/ndewijer/fund-ledger/internal/apperrors"
	"github.com/ndewijer/fund-ledger/internal/config"
	"github.com/ndewijer/fund-ledger/internal/database"
	"github.com/ndewijer/fund-ledger/internal/events"
	"github.com/ndewijer/fund-ledger/internal/ledger"
	"github.com/ndewijer/fund-ledger/internal/model"
	"github.com/ndewijer/fund-ledger/internal/repository"
	"github.com/ndewijer/fund-ledger/internal/service"
	"github.com/ndewijer/fund-ledger/internal/validation"
)

// as a CLI application, it has a very short lived lifecycle, so global flags are fine.

var dbPath = flag.String("db", "", "Path to the SQLite database (defaults to DB_PATH)")

// app holds the services one command works with.
type app struct {
	cfg       *config.Config
	db        *sql.DB
	funds     *service.FundService
	entries   *service.EntryService
	ledgers   *service.LedgerService
	snapshots *service.SnapshotService
	out       io.Writer
}

// newApp wires the services over an open database. Commands run from the
// terminal publish no entry events.
func newApp(cfg *config.Config, db *sql.DB, out io.Writer) *app {
	fundRepo := repository.NewFundRepository(db)
	entryRepo := repository.NewEntryRepository(db)
	ledgers := service.NewLedgerService(fundRepo, entryRepo, ledger.Options{Precision: cfg.Ledger.Precision})

	return &app{
		cfg:       cfg,
		db:        db,
		funds:     service.NewFundService(fundRepo, cfg.Ledger.DefaultFundName),
		entries:   service.NewEntryService(db, entryRepo, fundRepo, events.NopPublisher{}),
		ledgers:   ledgers,
		snapshots: service.NewSnapshotService(fundRepo, repository.NewSnapshotRepository(db), ledgers),
		out:       out,
	}
}

// openApp loads the configuration and opens the database named by -db.
func openApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if *dbPath != "" {
		cfg.Database.Path = *dbPath
	}

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return nil, err
	}
	return newApp(cfg, db, os.Stdout), nil
}

func (a *app) Close() error {
	return a.db.Close()
}

// resolveFund finds a fund by ID or exact name. An empty ref selects the
// most recent fund, creating the default fund when there is none.
func (a *app) resolveFund(ctx context.Context, ref string) (model.Fund, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return a.funds.CurrentFund(ctx, "")
	}
	if validation.ValidateUUID(ref) == nil {
		return a.funds.GetFund(ctx, ref)
	}

	funds, err := a.funds.ListFunds(ctx)
	if err != nil {
		return model.Fund{}, err
	}
	for _, f := range funds {
		if f.Name == ref {
			return f, nil
		}
	}
	return model.Fund{}, fmt.Errorf("%w: %q", apperrors.ErrFundNotFound, ref)
}

func (a *app) printJSON(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printMarkdown renders md for the terminal. Output that is not a terminal
// gets the markdown unchanged.
func (a *app) printMarkdown(md string) error {
	if f, ok := a.out.(*os.File); !ok || !isTerminal(f) {
		_, err := io.WriteString(a.out, md)
		return err
	}

	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(0))
	if err != nil {
		return fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return fmt.Errorf("failed to render markdown: %w", err)
	}
	_, err = io.WriteString(a.out, out)
	return err
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}
