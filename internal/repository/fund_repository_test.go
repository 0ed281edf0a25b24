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

func TestFundRepository_ListFunds(t *testing.T) {
	ctx := context.Background()

	t.Run("returns empty slice when no funds exist", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewFundRepository(db)

		funds, err := repo.ListFunds(ctx)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if funds == nil || len(funds) != 0 {
			t.Errorf("Expected empty slice, got %v", funds)
		}
	})

	t.Run("returns newest fund first", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewFundRepository(db)
		created := testutil.CreateFunds(t, db, 3)

		funds, err := repo.ListFunds(ctx)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if len(funds) != 3 {
			t.Fatalf("Expected 3 funds, got %d", len(funds))
		}
		for i, f := range funds {
			if want := created[len(created)-1-i].ID; f.ID != want {
				t.Errorf("Expected fund %s at index %d, got %s", want, i, f.ID)
			}
		}
	})
}

func TestFundRepository_GetFund(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	repo := repository.NewFundRepository(db)

	createdAt := time.Date(2024, 1, 2, 3, 4, 5, 600, time.UTC)
	fund := testutil.NewFund().WithName("Growth Fund").WithCreatedAt(createdAt).Build(t, db)

	t.Run("returns stored fund", func(t *testing.T) {
		got, err := repo.GetFund(ctx, fund.ID)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if got.Name != "Growth Fund" {
			t.Errorf("Expected name Growth Fund, got %s", got.Name)
		}
		if !got.CreatedAt.Equal(createdAt) {
			t.Errorf("Expected created_at %v, got %v", createdAt, got.CreatedAt)
		}
	})

	t.Run("returns ErrFundNotFound for unknown ID", func(t *testing.T) {
		_, err := repo.GetFund(ctx, testutil.MakeID())
		if !errors.Is(err, apperrors.ErrFundNotFound) {
			t.Errorf("Expected ErrFundNotFound, got %v", err)
		}
	})
}

func TestFundRepository_InsertFund(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	repo := repository.NewFundRepository(db)
	now := time.Now().UTC()

	first := &model.Fund{ID: testutil.MakeID(), Name: "Bond Fund", CreatedAt: now, UpdatedAt: now}
	if err := repo.InsertFund(ctx, first); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	t.Run("rejects duplicate name", func(t *testing.T) {
		dup := &model.Fund{ID: testutil.MakeID(), Name: "Bond Fund", CreatedAt: now, UpdatedAt: now}
		err := repo.InsertFund(ctx, dup)
		if !errors.Is(err, apperrors.ErrDuplicateFundName) {
			t.Errorf("Expected ErrDuplicateFundName, got %v", err)
		}
		testutil.AssertRowCount(t, db, "fund", 1)
	})
}

func TestFundRepository_RenameFund(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	repo := repository.NewFundRepository(db)

	fund := testutil.CreateFund(t, db, "Old Name")
	testutil.CreateFund(t, db, "Taken")
	later := fund.CreatedAt.Add(time.Hour)

	t.Run("renames and bumps updated_at", func(t *testing.T) {
		if err := repo.RenameFund(ctx, fund.ID, "New Name", later); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		got, err := repo.GetFund(ctx, fund.ID)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if got.Name != "New Name" {
			t.Errorf("Expected name New Name, got %s", got.Name)
		}
		if !got.UpdatedAt.Equal(later) {
			t.Errorf("Expected updated_at %v, got %v", later, got.UpdatedAt)
		}
	})

	t.Run("rejects taken name", func(t *testing.T) {
		err := repo.RenameFund(ctx, fund.ID, "Taken", later)
		if !errors.Is(err, apperrors.ErrDuplicateFundName) {
			t.Errorf("Expected ErrDuplicateFundName, got %v", err)
		}
	})

	t.Run("returns ErrFundNotFound for unknown ID", func(t *testing.T) {
		err := repo.RenameFund(ctx, testutil.MakeID(), "Other", later)
		if !errors.Is(err, apperrors.ErrFundNotFound) {
			t.Errorf("Expected ErrFundNotFound, got %v", err)
		}
	})
}

func TestFundRepository_DeleteFund(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	repo := repository.NewFundRepository(db)

	fund := testutil.NewFund().Build(t, db)
	testutil.NewEntry(fund.ID).WithDate(testutil.Date("2024-01-01")).WithAddition(100).Build(t, db)
	testutil.NewEntry(fund.ID).WithDate(testutil.Date("2024-01-02")).Build(t, db)

	t.Run("cascades to entries", func(t *testing.T) {
		if err := repo.DeleteFund(ctx, fund.ID); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		testutil.AssertRowCount(t, db, "fund", 0)
		testutil.AssertRowCount(t, db, "fund_entry", 0)
	})

	t.Run("returns ErrFundNotFound when already deleted", func(t *testing.T) {
		err := repo.DeleteFund(ctx, fund.ID)
		if !errors.Is(err, apperrors.ErrFundNotFound) {
			t.Errorf("Expected ErrFundNotFound, got %v", err)
		}
	})
}

func TestFundRepository_WithTx(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	repo := repository.NewFundRepository(db)
	now := time.Now().UTC()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		t.Fatalf("Failed to begin transaction: %v", err)
	}
	fund := &model.Fund{ID: testutil.MakeID(), Name: "Rolled Back", CreatedAt: now, UpdatedAt: now}
	if err := repo.WithTx(tx).InsertFund(ctx, fund); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if err := tx.Rollback(); err != nil {
		t.Fatalf("Failed to roll back: %v", err)
	}

	testutil.AssertRowCount(t, db, "fund", 0)
}
