package service

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ndewijer/fund-ledger/internal/ledger"
	"github.com/ndewijer/fund-ledger/internal/model"
	"github.com/ndewijer/fund-ledger/internal/render"
	"github.com/ndewijer/fund-ledger/internal/repository"
)

// summaryConcurrency bounds the ledgers computed at once by Summaries.
const summaryConcurrency = 4

// LedgerService computes fund ledgers from the stored entries.
type LedgerService struct {
	fundRepo  *repository.FundRepository
	entryRepo *repository.EntryRepository
	opts      ledger.Options
}

// NewLedgerService creates a new LedgerService rounding with opts.
func NewLedgerService(
	fundRepo *repository.FundRepository,
	entryRepo *repository.EntryRepository,
	opts ledger.Options,
) *LedgerService {
	return &LedgerService{
		fundRepo:  fundRepo,
		entryRepo: entryRepo,
		opts:      opts,
	}
}

// FundLedger computes the full ledger of a fund.
// Returns ErrFundNotFound if the fund does not exist.
func (s *LedgerService) FundLedger(ctx context.Context, fundID string) (*model.FundLedger, error) {
	fund, err := s.fundRepo.GetFund(ctx, fundID)
	if err != nil {
		return nil, err
	}

	rows, err := s.calculate(ctx, fund.ID)
	if err != nil {
		return nil, err
	}

	return &model.FundLedger{Fund: fund, Rows: rows}, nil
}

// FilteredLedger computes the ledger of a fund and applies filters to its rows.
func (s *LedgerService) FilteredLedger(ctx context.Context, fundID string, filters *model.LedgerFilters) (*model.FundLedger, error) {
	fl, err := s.FundLedger(ctx, fundID)
	if err != nil {
		return nil, err
	}
	fl.Rows = FilterRows(fl.Rows, filters)
	return fl, nil
}

// Summaries computes the latest position of every fund, in registry order.
// Each fund ledger is computed independently and concurrently.
func (s *LedgerService) Summaries(ctx context.Context) ([]model.LedgerSummary, error) {
	funds, err := s.fundRepo.ListFunds(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]model.LedgerSummary, len(funds))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(summaryConcurrency)

	for i, fund := range funds {
		i, fund := i, fund
		g.Go(func() error {
			rows, err := s.calculate(gctx, fund.ID)
			if err != nil {
				return err
			}
			summaries[i] = Summarize(fund, rows)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return summaries, nil
}

// Chart returns the net value series of a fund for the chart window before now.
func (s *LedgerService) Chart(ctx context.Context, fundID string, now time.Time) ([]render.ChartPoint, error) {
	if _, err := s.fundRepo.GetFund(ctx, fundID); err != nil {
		return nil, err
	}

	entries, err := s.entryRepo.ListEntries(ctx, fundID)
	if err != nil {
		return nil, err
	}

	return render.NetValueChart(entries, now, render.ChartWindow), nil
}

func (s *LedgerService) calculate(ctx context.Context, fundID string) ([]ledger.Row, error) {
	entries, err := s.entryRepo.ListEntries(ctx, fundID)
	if err != nil {
		return nil, err
	}

	rows, err := ledger.Calculate(model.LedgerEntries(entries), s.opts)
	if err != nil {
		return nil, fmt.Errorf("failed to compute ledger of fund %s: %w", fundID, err)
	}
	return rows, nil
}

// Summarize condenses a computed ledger to its last row.
func Summarize(fund model.Fund, rows []ledger.Row) model.LedgerSummary {
	summary := model.LedgerSummary{Fund: fund, EntryCount: len(rows)}
	if len(rows) == 0 {
		return summary
	}

	last := rows[len(rows)-1]
	summary.LastDate = last.Date
	summary.NetValue = last.NetValue
	summary.TotalShares = last.TotalShares
	summary.TotalValue = last.TotalValue
	summary.TotalInvested = last.TotalInvested
	summary.TotalGrowth = last.TotalGrowth
	summary.CumulativeRealizedGain = last.CumulativeRealizedGain
	return summary
}

// FilterRows keeps the rows dated within the filter bounds, in the requested order.
// The rows themselves are unchanged, so totals still cover the whole history.
func FilterRows(rows []ledger.Row, filters *model.LedgerFilters) []ledger.Row {
	if filters == nil {
		return rows
	}

	var start, end string
	if filters.StartDate != nil {
		start = filters.StartDate.Format(ledger.DateLayout)
	}
	if filters.EndDate != nil {
		end = filters.EndDate.Format(ledger.DateLayout)
	}

	out := make([]ledger.Row, 0, len(rows))
	for _, r := range rows {
		// dates share one layout, so they compare as text
		if start != "" && r.Date < start {
			continue
		}
		if end != "" && r.Date > end {
			continue
		}
		out = append(out, r)
	}

	if filters.SortDir == "desc" {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out
}
