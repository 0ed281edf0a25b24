package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/ndewijer/fund-ledger/internal/ledger"
	"github.com/ndewijer/fund-ledger/internal/model"
	"github.com/ndewijer/fund-ledger/internal/repository"
)

// SnapshotService keeps the stored ledger snapshot of every fund up to date.
type SnapshotService struct {
	fundRepo      *repository.FundRepository
	snapshotRepo  *repository.SnapshotRepository
	ledgerService *LedgerService
}

// NewSnapshotService creates a new SnapshotService.
func NewSnapshotService(
	fundRepo *repository.FundRepository,
	snapshotRepo *repository.SnapshotRepository,
	ledgerService *LedgerService,
) *SnapshotService {
	return &SnapshotService{
		fundRepo:      fundRepo,
		snapshotRepo:  snapshotRepo,
		ledgerService: ledgerService,
	}
}

// RefreshAll recomputes and stores the snapshot of every fund and returns
// the number of snapshots written. A fund that fails is logged and skipped;
// the first such error is returned after all funds were tried.
func (s *SnapshotService) RefreshAll(ctx context.Context) (int, error) {
	funds, err := s.fundRepo.ListFunds(ctx)
	if err != nil {
		return 0, err
	}

	var written int
	var firstErr error
	for _, fund := range funds {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		if _, err := s.RefreshFund(ctx, fund.ID); err != nil {
			log.Printf("failed to refresh snapshot of fund %s: %v", fund.ID, err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		written++
	}

	return written, firstErr
}

// RefreshFund recomputes and stores the snapshot of one fund.
func (s *SnapshotService) RefreshFund(ctx context.Context, fundID string) (model.Snapshot, error) {
	fl, err := s.ledgerService.FundLedger(ctx, fundID)
	if err != nil {
		return model.Snapshot{}, err
	}

	snapshot, err := NewSnapshot(fundID, fl.Rows, time.Now().UTC())
	if err != nil {
		return model.Snapshot{}, err
	}

	if err := s.snapshotRepo.UpsertSnapshot(ctx, snapshot); err != nil {
		return model.Snapshot{}, err
	}
	return snapshot, nil
}

// GetSnapshot retrieves the stored snapshot of a fund.
// Returns ErrFundNotFound or ErrSnapshotNotFound.
func (s *SnapshotService) GetSnapshot(ctx context.Context, fundID string) (model.Snapshot, error) {
	if _, err := s.fundRepo.GetFund(ctx, fundID); err != nil {
		return model.Snapshot{}, err
	}
	return s.snapshotRepo.GetSnapshot(ctx, fundID)
}

// NewSnapshot builds the snapshot of a computed ledger as of computedAt.
func NewSnapshot(fundID string, rows []ledger.Row, computedAt time.Time) (model.Snapshot, error) {
	snapshot := model.Snapshot{
		FundID:     fundID,
		ComputedAt: computedAt,
		EntryCount: len(rows),
	}
	if len(rows) == 0 {
		return snapshot, nil
	}

	last := rows[len(rows)-1]
	lastDate, err := time.Parse(ledger.DateLayout, last.Date)
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("failed to parse ledger date: %w", err)
	}

	snapshot.LastDate = &lastDate
	snapshot.TotalShares = last.TotalShares
	snapshot.TotalValue = last.TotalValue
	snapshot.TotalInvested = last.TotalInvested
	snapshot.TotalGrowth = float64(last.TotalGrowth)
	snapshot.CumulativeRealizedGain = last.CumulativeRealizedGain
	return snapshot, nil
}
