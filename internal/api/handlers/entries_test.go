package handlers

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ndewijer/fund-ledger/internal/events"
	"github.com/ndewijer/fund-ledger/internal/model"
	"github.com/ndewijer/fund-ledger/internal/testutil"
)

func setupEntryHandler(t *testing.T) (*EntryHandler, *sql.DB, *events.Recorder) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	recorder := &events.Recorder{}
	return NewEntryHandler(testutil.NewTestEntryService(t, db, recorder)), db, recorder
}

func TestEntryHandler_SaveEntry(t *testing.T) {
	t.Run("stores entry and normalizes missing shares", func(t *testing.T) {
		handler, db, recorder := setupEntryHandler(t)
		fund := testutil.CreateFund(t, db, "Growth")

		body := map[string]any{"date": "2024-01-02", "netValue": "1.25", "addition": 1000}
		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/fund/"+fund.ID+"/entry", body, map[string]string{"uuid": fund.ID})
		w := httptest.NewRecorder()
		handler.SaveEntry(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}
		entry := testutil.DecodeJSON[model.Entry](t, w)
		if entry.NetValue != 1.25 {
			t.Errorf("Expected net value 1.25, got %v", entry.NetValue)
		}
		testutil.AssertRowCount(t, db, "fund_entry", 1)

		if got := recorder.Events(); len(got) != 1 || got[0].Type != events.EntrySaved {
			t.Errorf("Expected one entry.saved event, got %v", got)
		}
	})

	t.Run("replaces entry on the same date", func(t *testing.T) {
		handler, db, _ := setupEntryHandler(t)
		fund := testutil.CreateFund(t, db, "Growth")
		params := map[string]string{"uuid": fund.ID}

		for _, nv := range []string{"1.0", "1.5"} {
			req := testutil.NewJSONRequest(t, http.MethodPost, "/api/fund/"+fund.ID+"/entry",
				map[string]any{"date": "2024-01-02", "netValue": nv}, params)
			w := httptest.NewRecorder()
			handler.SaveEntry(w, req)
			if w.Code != http.StatusOK {
				t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
			}
		}

		testutil.AssertRowCount(t, db, "fund_entry", 1)
	})

	t.Run("returns 400 without net value", func(t *testing.T) {
		handler, db, recorder := setupEntryHandler(t)
		fund := testutil.CreateFund(t, db, "Growth")

		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/fund/"+fund.ID+"/entry",
			map[string]any{"date": "2024-01-02", "addition": 100}, map[string]string{"uuid": fund.ID})
		w := httptest.NewRecorder()
		handler.SaveEntry(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", w.Code)
		}
		if len(recorder.Events()) != 0 {
			t.Error("Expected no events for rejected entry")
		}
	})

	t.Run("returns 400 for malformed number", func(t *testing.T) {
		handler, db, _ := setupEntryHandler(t)
		fund := testutil.CreateFund(t, db, "Growth")

		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/fund/"+fund.ID+"/entry",
			map[string]any{"date": "2024-01-02", "netValue": "abc"}, map[string]string{"uuid": fund.ID})
		w := httptest.NewRecorder()
		handler.SaveEntry(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", w.Code)
		}
	})

	t.Run("returns 404 for unknown fund", func(t *testing.T) {
		handler, _, _ := setupEntryHandler(t)
		id := testutil.MakeID()

		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/fund/"+id+"/entry",
			map[string]any{"date": "2024-01-02", "netValue": 1}, map[string]string{"uuid": id})
		w := httptest.NewRecorder()
		handler.SaveEntry(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d", w.Code)
		}
	})
}

func TestEntryHandler_Entries(t *testing.T) {
	t.Run("returns entries in date order", func(t *testing.T) {
		handler, db, _ := setupEntryHandler(t)
		fund := testutil.CreateFund(t, db, "Growth")
		testutil.NewEntry(fund.ID).WithDate(testutil.Date("2024-01-03")).Build(t, db)
		testutil.NewEntry(fund.ID).WithDate(testutil.Date("2024-01-01")).Build(t, db)

		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/fund/"+fund.ID+"/entry", map[string]string{"uuid": fund.ID})
		w := httptest.NewRecorder()
		handler.Entries(w, req)

		entries := testutil.DecodeJSON[[]model.Entry](t, w)
		if len(entries) != 2 {
			t.Fatalf("Expected 2 entries, got %d", len(entries))
		}
		if !entries[0].Date.Equal(testutil.Date("2024-01-01")) {
			t.Errorf("Expected first entry on 2024-01-01, got %s", entries[0].Date)
		}
	})
}

func TestEntryHandler_DeleteEntry(t *testing.T) {
	t.Run("deletes entry", func(t *testing.T) {
		handler, db, recorder := setupEntryHandler(t)
		fund := testutil.CreateFund(t, db, "Growth")
		testutil.NewEntry(fund.ID).WithDate(testutil.Date("2024-01-01")).Build(t, db)

		req := testutil.NewRequestWithURLParams(http.MethodDelete, "/api/fund/"+fund.ID+"/entry/2024-01-01",
			map[string]string{"uuid": fund.ID, "date": "2024-01-01"})
		w := httptest.NewRecorder()
		handler.DeleteEntry(w, req)

		if w.Code != http.StatusNoContent {
			t.Fatalf("Expected 204, got %d: %s", w.Code, w.Body.String())
		}
		testutil.AssertRowCount(t, db, "fund_entry", 0)

		if got := recorder.Events(); len(got) != 1 || got[0].Type != events.EntryDeleted {
			t.Errorf("Expected one entry.deleted event, got %v", got)
		}
	})

	t.Run("returns 404 for missing entry", func(t *testing.T) {
		handler, db, _ := setupEntryHandler(t)
		fund := testutil.CreateFund(t, db, "Growth")

		req := testutil.NewRequestWithURLParams(http.MethodDelete, "/api/fund/"+fund.ID+"/entry/2024-01-01",
			map[string]string{"uuid": fund.ID, "date": "2024-01-01"})
		w := httptest.NewRecorder()
		handler.DeleteEntry(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d", w.Code)
		}
	})
}
