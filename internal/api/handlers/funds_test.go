package handlers

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ndewijer/fund-ledger/internal/api/response"
	"github.com/ndewijer/fund-ledger/internal/model"
	"github.com/ndewijer/fund-ledger/internal/testutil"
)

func setupFundHandler(t *testing.T) (*FundHandler, *sql.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	return NewFundHandler(testutil.NewTestFundService(t, db)), db
}

func TestFundHandler_Funds(t *testing.T) {
	t.Run("returns empty array when no funds exist", func(t *testing.T) {
		handler, _ := setupFundHandler(t)

		w := httptest.NewRecorder()
		handler.Funds(w, httptest.NewRequest(http.MethodGet, "/api/fund", nil))

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}
		funds := testutil.DecodeJSON[[]model.Fund](t, w)
		if funds == nil || len(funds) != 0 {
			t.Errorf("Expected empty array, got %v", funds)
		}
	})

	t.Run("returns funds newest first", func(t *testing.T) {
		handler, db := setupFundHandler(t)
		created := testutil.CreateFunds(t, db, 2)

		w := httptest.NewRecorder()
		handler.Funds(w, httptest.NewRequest(http.MethodGet, "/api/fund", nil))

		funds := testutil.DecodeJSON[[]model.Fund](t, w)
		if len(funds) != 2 {
			t.Fatalf("Expected 2 funds, got %d", len(funds))
		}
		if funds[0].ID != created[1].ID {
			t.Errorf("Expected newest fund %s first, got %s", created[1].ID, funds[0].ID)
		}
	})

	t.Run("returns 500 on database error", func(t *testing.T) {
		handler, db := setupFundHandler(t)
		db.Close()

		w := httptest.NewRecorder()
		handler.Funds(w, httptest.NewRequest(http.MethodGet, "/api/fund", nil))

		if w.Code != http.StatusInternalServerError {
			t.Errorf("Expected 500, got %d", w.Code)
		}
	})
}

func TestFundHandler_GetFund(t *testing.T) {
	t.Run("returns fund", func(t *testing.T) {
		handler, db := setupFundHandler(t)
		fund := testutil.CreateFund(t, db, "Growth")

		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/fund/"+fund.ID, map[string]string{"uuid": fund.ID})
		w := httptest.NewRecorder()
		handler.GetFund(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}
		if got := testutil.DecodeJSON[model.Fund](t, w); got.Name != "Growth" {
			t.Errorf("Expected Growth, got %s", got.Name)
		}
	})

	t.Run("returns 404 for unknown fund", func(t *testing.T) {
		handler, _ := setupFundHandler(t)
		id := testutil.MakeID()

		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/fund/"+id, map[string]string{"uuid": id})
		w := httptest.NewRecorder()
		handler.GetFund(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d", w.Code)
		}
	})
}

func TestFundHandler_CreateFund(t *testing.T) {
	t.Run("creates fund with trimmed name", func(t *testing.T) {
		handler, db := setupFundHandler(t)

		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/fund", map[string]string{"name": "  Bonds  "}, nil)
		w := httptest.NewRecorder()
		handler.CreateFund(w, req)

		if w.Code != http.StatusCreated {
			t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
		}
		if got := testutil.DecodeJSON[model.Fund](t, w); got.Name != "Bonds" {
			t.Errorf("Expected Bonds, got %q", got.Name)
		}
		testutil.AssertRowCount(t, db, "fund", 1)
	})

	t.Run("returns 409 for duplicate name", func(t *testing.T) {
		handler, db := setupFundHandler(t)
		testutil.CreateFund(t, db, "Bonds")

		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/fund", map[string]string{"name": "Bonds"}, nil)
		w := httptest.NewRecorder()
		handler.CreateFund(w, req)

		if w.Code != http.StatusConflict {
			t.Errorf("Expected 409, got %d", w.Code)
		}
	})

	t.Run("returns 400 for blank name", func(t *testing.T) {
		handler, _ := setupFundHandler(t)

		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/fund", map[string]string{"name": "   "}, nil)
		w := httptest.NewRecorder()
		handler.CreateFund(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", w.Code)
		}
		if got := testutil.DecodeJSON[response.ErrorResponse](t, w); got.Error != "validation failed" {
			t.Errorf("Expected validation failed, got %q", got.Error)
		}
	})

	t.Run("returns 400 for unknown fields", func(t *testing.T) {
		handler, _ := setupFundHandler(t)

		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/fund", map[string]string{"title": "Bonds"}, nil)
		w := httptest.NewRecorder()
		handler.CreateFund(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", w.Code)
		}
	})
}

func TestFundHandler_UpdateFund(t *testing.T) {
	t.Run("renames fund", func(t *testing.T) {
		handler, db := setupFundHandler(t)
		fund := testutil.CreateFund(t, db, "Old")

		req := testutil.NewJSONRequest(t, http.MethodPut, "/api/fund/"+fund.ID, map[string]string{"name": "New"}, map[string]string{"uuid": fund.ID})
		w := httptest.NewRecorder()
		handler.UpdateFund(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}
		if got := testutil.DecodeJSON[model.Fund](t, w); got.Name != "New" {
			t.Errorf("Expected New, got %s", got.Name)
		}
	})

	t.Run("returns 404 for unknown fund", func(t *testing.T) {
		handler, _ := setupFundHandler(t)
		id := testutil.MakeID()

		req := testutil.NewJSONRequest(t, http.MethodPut, "/api/fund/"+id, map[string]string{"name": "New"}, map[string]string{"uuid": id})
		w := httptest.NewRecorder()
		handler.UpdateFund(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d", w.Code)
		}
	})
}

func TestFundHandler_DeleteFund(t *testing.T) {
	t.Run("deletes fund and recreates default", func(t *testing.T) {
		handler, db := setupFundHandler(t)
		fund := testutil.CreateFund(t, db, "Only")

		req := testutil.NewRequestWithURLParams(http.MethodDelete, "/api/fund/"+fund.ID, map[string]string{"uuid": fund.ID})
		w := httptest.NewRecorder()
		handler.DeleteFund(w, req)

		if w.Code != http.StatusNoContent {
			t.Fatalf("Expected 204, got %d: %s", w.Code, w.Body.String())
		}

		var name string
		if err := db.QueryRow("SELECT name FROM fund").Scan(&name); err != nil {
			t.Fatalf("Expected default fund, got %v", err)
		}
		if name != testutil.DefaultFundName {
			t.Errorf("Expected %s, got %s", testutil.DefaultFundName, name)
		}
	})

	t.Run("returns 404 for unknown fund", func(t *testing.T) {
		handler, _ := setupFundHandler(t)
		id := testutil.MakeID()

		req := testutil.NewRequestWithURLParams(http.MethodDelete, "/api/fund/"+id, map[string]string{"uuid": id})
		w := httptest.NewRecorder()
		handler.DeleteFund(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d", w.Code)
		}
	})
}
