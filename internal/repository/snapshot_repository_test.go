package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ndewijer/fund-ledger/internal/apperrors"
	"github.com/ndewijer/fund-ledger/internal/model"
	"github.com/ndewijer/fund-ledger/internal/repository"
	"github.com/ndewijer/fund-ledger/internal/testutil"
)

func TestSnapshotRepository(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	repo := repository.NewSnapshotRepository(db)
	fund := testutil.NewFund().Build(t, db)

	t.Run("returns ErrSnapshotNotFound before the first refresh", func(t *testing.T) {
		_, err := repo.GetSnapshot(ctx, fund.ID)
		if !errors.Is(err, apperrors.ErrSnapshotNotFound) {
			t.Errorf("Expected ErrSnapshotNotFound, got %v", err)
		}
	})

	t.Run("stores snapshot without entries", func(t *testing.T) {
		computedAt := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		if err := repo.UpsertSnapshot(ctx, model.Snapshot{FundID: fund.ID, ComputedAt: computedAt}); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}

		got, err := repo.GetSnapshot(ctx, fund.ID)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if got.LastDate != nil {
			t.Errorf("Expected nil last date, got %v", got.LastDate)
		}
		if !got.ComputedAt.Equal(computedAt) {
			t.Errorf("Expected computed_at %v, got %v", computedAt, got.ComputedAt)
		}
	})

	t.Run("replaces previous snapshot", func(t *testing.T) {
		lastDate := testutil.Date("2024-03-01")
		snapshot := model.Snapshot{
			FundID:                 fund.ID,
			ComputedAt:             time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC),
			EntryCount:             5,
			LastDate:               &lastDate,
			TotalShares:            1200,
			TotalValue:             1500.5,
			TotalInvested:          1100,
			TotalGrowth:            36.41,
			CumulativeRealizedGain: 42.1,
		}
		if err := repo.UpsertSnapshot(ctx, snapshot); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}

		testutil.AssertRowCount(t, db, "ledger_snapshot", 1)

		got, err := repo.GetSnapshot(ctx, fund.ID)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if got.EntryCount != 5 || got.TotalValue != 1500.5 || got.CumulativeRealizedGain != 42.1 {
			t.Errorf("Unexpected snapshot %+v", got)
		}
		if got.LastDate == nil || !got.LastDate.Equal(lastDate) {
			t.Errorf("Expected last date %v, got %v", lastDate, got.LastDate)
		}
	})
}
