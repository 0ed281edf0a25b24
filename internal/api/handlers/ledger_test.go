package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ndewijer/fund-ledger/internal/model"
	"github.com/ndewijer/fund-ledger/internal/render"
	"github.com/ndewijer/fund-ledger/internal/testutil"
)

func setupLedgerHandler(t *testing.T) (*LedgerHandler, *sql.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	handler := NewLedgerHandler(testutil.NewTestLedgerService(t, db), testutil.NewTestSnapshotService(t, db), "CNY")
	handler.now = func() time.Time { return time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC) }
	return handler, db
}

// buildLedgerFund creates a fund that bought 1000 shares at 1.0 and sold 500 at 1.2.
func buildLedgerFund(t *testing.T, db *sql.DB) model.Fund {
	t.Helper()
	fund := testutil.CreateFund(t, db, "Growth")
	testutil.NewEntry(fund.ID).WithDate(testutil.Date("2024-01-01")).WithNetValue(1.0).WithAddition(1000).Build(t, db)
	testutil.NewEntry(fund.ID).WithDate(testutil.Date("2024-01-02")).WithNetValue(1.2).WithAddition(-600).Build(t, db)
	return fund
}

func ledgerRequest(fundID string, query map[string]string) *http.Request {
	req := testutil.NewRequestWithQueryParams(http.MethodGet, "/api/fund/"+fundID+"/ledger", query)
	return testutil.WithURLParams(req, map[string]string{"uuid": fundID})
}

func TestLedgerHandler_Ledger(t *testing.T) {
	t.Run("returns json ledger", func(t *testing.T) {
		handler, db := setupLedgerHandler(t)
		fund := buildLedgerFund(t, db)

		w := httptest.NewRecorder()
		handler.Ledger(w, ledgerRequest(fund.ID, nil))

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}
		fl := testutil.DecodeJSON[model.FundLedger](t, w)
		if len(fl.Rows) != 2 {
			t.Fatalf("Expected 2 rows, got %d", len(fl.Rows))
		}
		last := fl.Rows[1]
		if last.TotalShares != 500 {
			t.Errorf("Expected 500 shares, got %v", last.TotalShares)
		}
		if last.CumulativeRealizedGain != 100 {
			t.Errorf("Expected realized gain 100, got %v", last.CumulativeRealizedGain)
		}
	})

	t.Run("filters and sorts rows", func(t *testing.T) {
		handler, db := setupLedgerHandler(t)
		fund := buildLedgerFund(t, db)

		w := httptest.NewRecorder()
		handler.Ledger(w, ledgerRequest(fund.ID, map[string]string{"sort_dir": "desc"}))

		fl := testutil.DecodeJSON[model.FundLedger](t, w)
		if len(fl.Rows) != 2 || fl.Rows[0].Date != "2024-01-02" {
			t.Errorf("Expected newest row first, got %+v", fl.Rows)
		}

		w = httptest.NewRecorder()
		handler.Ledger(w, ledgerRequest(fund.ID, map[string]string{"start_date": "2024-01-02"}))

		fl = testutil.DecodeJSON[model.FundLedger](t, w)
		if len(fl.Rows) != 1 || fl.Rows[0].CumulativeRealizedGain != 100 {
			t.Errorf("Expected one row computed over full history, got %+v", fl.Rows)
		}
	})

	t.Run("renders markdown", func(t *testing.T) {
		handler, db := setupLedgerHandler(t)
		fund := buildLedgerFund(t, db)

		w := httptest.NewRecorder()
		handler.Ledger(w, ledgerRequest(fund.ID, map[string]string{"format": "markdown"}))

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}
		if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/markdown") {
			t.Errorf("Expected markdown content type, got %s", ct)
		}
		if !strings.HasPrefix(w.Body.String(), "# Growth") {
			t.Errorf("Expected fund title, got %s", w.Body.String())
		}
	})

	t.Run("renders html", func(t *testing.T) {
		handler, db := setupLedgerHandler(t)
		fund := buildLedgerFund(t, db)

		w := httptest.NewRecorder()
		handler.Ledger(w, ledgerRequest(fund.ID, map[string]string{"format": "html"}))

		if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
			t.Errorf("Expected html content type, got %s", ct)
		}
		if !strings.Contains(w.Body.String(), "<table>") {
			t.Errorf("Expected html table, got %s", w.Body.String())
		}
	})

	t.Run("renders empty ledger", func(t *testing.T) {
		handler, db := setupLedgerHandler(t)
		fund := testutil.CreateFund(t, db, "Empty")

		w := httptest.NewRecorder()
		handler.Ledger(w, ledgerRequest(fund.ID, map[string]string{"format": "markdown"}))

		if !strings.Contains(w.Body.String(), render.EmptyLedgerText) {
			t.Errorf("Expected empty ledger text, got %s", w.Body.String())
		}
	})

	t.Run("returns 400 for invalid format", func(t *testing.T) {
		handler, db := setupLedgerHandler(t)
		fund := buildLedgerFund(t, db)

		w := httptest.NewRecorder()
		handler.Ledger(w, ledgerRequest(fund.ID, map[string]string{"format": "pdf"}))

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", w.Code)
		}
	})

	t.Run("returns 404 for unknown fund", func(t *testing.T) {
		handler, _ := setupLedgerHandler(t)

		w := httptest.NewRecorder()
		handler.Ledger(w, ledgerRequest(testutil.MakeID(), nil))

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d", w.Code)
		}
	})
}

func TestLedgerHandler_Chart(t *testing.T) {
	handler, db := setupLedgerHandler(t)
	fund := buildLedgerFund(t, db)

	req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/fund/"+fund.ID+"/chart", map[string]string{"uuid": fund.ID})
	w := httptest.NewRecorder()
	handler.Chart(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	points := testutil.DecodeJSON[[]render.ChartPoint](t, w)
	if len(points) != 2 {
		t.Fatalf("Expected 2 points, got %d", len(points))
	}
	if points[0].Color != render.ColorPurchase || points[1].Color != render.ColorWithdrawal {
		t.Errorf("Unexpected colours %s, %s", points[0].Color, points[1].Color)
	}
}

func TestLedgerHandler_Snapshot(t *testing.T) {
	t.Run("returns 404 before the first refresh", func(t *testing.T) {
		handler, db := setupLedgerHandler(t)
		fund := buildLedgerFund(t, db)

		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/fund/"+fund.ID+"/snapshot", map[string]string{"uuid": fund.ID})
		w := httptest.NewRecorder()
		handler.Snapshot(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d", w.Code)
		}
	})

	t.Run("returns stored snapshot", func(t *testing.T) {
		handler, db := setupLedgerHandler(t)
		fund := buildLedgerFund(t, db)
		if _, err := handler.snapshotService.RefreshFund(context.Background(), fund.ID); err != nil {
			t.Fatalf("Failed to refresh snapshot: %v", err)
		}

		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/fund/"+fund.ID+"/snapshot", map[string]string{"uuid": fund.ID})
		w := httptest.NewRecorder()
		handler.Snapshot(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}
		snapshot := testutil.DecodeJSON[model.Snapshot](t, w)
		if snapshot.EntryCount != 2 || snapshot.TotalShares != 500 {
			t.Errorf("Unexpected snapshot %+v", snapshot)
		}
	})
}

func TestLedgerHandler_Summaries(t *testing.T) {
	handler, db := setupLedgerHandler(t)
	buildLedgerFund(t, db)
	testutil.CreateFund(t, db, "Empty")

	w := httptest.NewRecorder()
	handler.Summaries(w, httptest.NewRequest(http.MethodGet, "/api/ledger/summary", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	summaries := testutil.DecodeJSON[[]model.LedgerSummary](t, w)
	if len(summaries) != 2 {
		t.Fatalf("Expected 2 summaries, got %d", len(summaries))
	}
	for _, s := range summaries {
		if s.Fund.Name == "Growth" && s.EntryCount != 2 {
			t.Errorf("Expected 2 entries for Growth, got %d", s.EntryCount)
		}
		if s.Fund.Name == "Empty" && s.EntryCount != 0 {
			t.Errorf("Expected 0 entries for Empty, got %d", s.EntryCount)
		}
	}
}
