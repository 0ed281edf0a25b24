package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ndewijer/fund-ledger/internal/api/request"
	"github.com/ndewijer/fund-ledger/internal/apperrors"
	"github.com/ndewijer/fund-ledger/internal/events"
	"github.com/ndewijer/fund-ledger/internal/ledger"
	"github.com/ndewijer/fund-ledger/internal/repository"
	"github.com/ndewijer/fund-ledger/internal/testutil"
)

func TestEntryService_SaveEntry(t *testing.T) {
	ctx := context.Background()

	t.Run("stores entry, touches fund and publishes event", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		recorder := &events.Recorder{}
		svc := testutil.NewTestEntryService(t, db, recorder)
		fund := testutil.NewFund().Build(t, db)

		entry, err := svc.SaveEntry(ctx, fund.ID, request.SaveEntryRequest{
			Date:     "2024-01-02",
			NetValue: "1.25",
			Addition: "1000",
		})
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if entry.Addition == nil || *entry.Addition != 1000 {
			t.Errorf("Expected addition 1000, got %v", entry.Addition)
		}
		if entry.Shares != nil {
			t.Errorf("Expected blank shares to stay nil, got %v", *entry.Shares)
		}

		testutil.AssertRowCount(t, db, "fund_entry", 1)

		stored, err := repository.NewFundRepository(db).GetFund(ctx, fund.ID)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if !stored.UpdatedAt.After(fund.UpdatedAt) {
			t.Errorf("Expected updated_at to move past %v, got %v", fund.UpdatedAt, stored.UpdatedAt)
		}

		published := recorder.Events()
		if len(published) != 1 {
			t.Fatalf("Expected 1 event, got %d", len(published))
		}
		if published[0].Type != events.EntrySaved || published[0].Date != "2024-01-02" || published[0].EntryID != entry.ID {
			t.Errorf("Unexpected event %+v", published[0])
		}
	})

	t.Run("replaces the entry of the same date", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestEntryService(t, db, nil)
		fund := testutil.NewFund().Build(t, db)

		first, err := svc.SaveEntry(ctx, fund.ID, request.SaveEntryRequest{Date: "2024-01-02", NetValue: "1.0", Addition: "100"})
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		second, err := svc.SaveEntry(ctx, fund.ID, request.SaveEntryRequest{Date: "2024-01-02", NetValue: "1.1", Shares: "-20"})
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}

		if second.ID != first.ID {
			t.Errorf("Expected entry ID %s to be kept, got %s", first.ID, second.ID)
		}
		entries, err := svc.ListEntries(ctx, fund.ID)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if len(entries) != 1 || entries[0].NetValue != 1.1 || entries[0].Addition != nil {
			t.Errorf("Expected the replacement entry only, got %+v", entries)
		}
	})

	t.Run("rejects malformed input", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestEntryService(t, db, nil)
		fund := testutil.NewFund().Build(t, db)

		_, err := svc.SaveEntry(ctx, fund.ID, request.SaveEntryRequest{Date: "2024-13-40", NetValue: "1"})
		if !errors.Is(err, ledger.ErrMalformedEntry) {
			t.Errorf("Expected ErrMalformedEntry, got %v", err)
		}
		testutil.AssertRowCount(t, db, "fund_entry", 0)
	})

	t.Run("returns ErrFundNotFound for unknown fund", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		recorder := &events.Recorder{}
		svc := testutil.NewTestEntryService(t, db, recorder)

		_, err := svc.SaveEntry(ctx, testutil.MakeID(), request.SaveEntryRequest{Date: "2024-01-02", NetValue: "1"})
		if !errors.Is(err, apperrors.ErrFundNotFound) {
			t.Errorf("Expected ErrFundNotFound, got %v", err)
		}
		if len(recorder.Events()) != 0 {
			t.Errorf("Expected no events, got %v", recorder.Events())
		}
	})
}

func TestEntryService_DeleteEntry(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	recorder := &events.Recorder{}
	svc := testutil.NewTestEntryService(t, db, recorder)
	fund := testutil.NewFund().Build(t, db)
	testutil.NewEntry(fund.ID).WithDate(testutil.Date("2024-01-02")).Build(t, db)

	if err := svc.DeleteEntry(ctx, fund.ID, testutil.Date("2024-01-02")); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	testutil.AssertRowCount(t, db, "fund_entry", 0)

	published := recorder.Events()
	if len(published) != 1 || published[0].Type != events.EntryDeleted {
		t.Errorf("Expected one entry.deleted event, got %v", published)
	}

	err := svc.DeleteEntry(ctx, fund.ID, testutil.Date("2024-01-02"))
	if !errors.Is(err, apperrors.ErrEntryNotFound) {
		t.Errorf("Expected ErrEntryNotFound, got %v", err)
	}
	if len(recorder.Events()) != 1 {
		t.Errorf("Expected no event for a failed delete, got %v", recorder.Events())
	}
}

func TestEntryService_ListEntries(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestEntryService(t, db, nil)

	_, err := svc.ListEntries(context.Background(), testutil.MakeID())
	if !errors.Is(err, apperrors.ErrFundNotFound) {
		t.Errorf("Expected ErrFundNotFound, got %v", err)
	}
}
