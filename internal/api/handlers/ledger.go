package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/fund-ledger/internal/api/request"
	"github.com/ndewijer/fund-ledger/internal/api/response"
	"github.com/ndewijer/fund-ledger/internal/apperrors"
	"github.com/ndewijer/fund-ledger/internal/model"
	"github.com/ndewijer/fund-ledger/internal/render"
	"github.com/ndewijer/fund-ledger/internal/service"
)

// LedgerHandler handles HTTP requests for computed ledgers and their derived views.
type LedgerHandler struct {
	ledgerService   *service.LedgerService
	snapshotService *service.SnapshotService
	currency        string
	now             func() time.Time
}

// NewLedgerHandler creates a new LedgerHandler. Amounts in rendered
// documents are formatted in currency.
func NewLedgerHandler(
	ledgerService *service.LedgerService,
	snapshotService *service.SnapshotService,
	currency string,
) *LedgerHandler {
	return &LedgerHandler{
		ledgerService:   ledgerService,
		snapshotService: snapshotService,
		currency:        currency,
		now:             time.Now,
	}
}

// Ledger handles GET requests to compute the ledger of a fund.
//
// Endpoint: GET /api/fund/{uuid}/ledger
// Query Parameters:
//   - format: json (default), markdown or html
//   - start_date, end_date: YYYY-MM-DD bounds on the returned rows
//   - sort_dir: asc (default) or desc
//
// Response: 200 OK with FundLedger, or the rendered document
// Error: 400 Bad Request if a query parameter is invalid
// Error: 404 Not Found if fund not found
// Error: 500 Internal Server Error if the ledger cannot be computed
func (h *LedgerHandler) Ledger(w http.ResponseWriter, r *http.Request) {
	h.writeLedger(w, r, chi.URLParam(r, "uuid"))
}

// writeLedger computes the ledger of fundID and writes it in the format the
// query asks for.
func (h *LedgerHandler) writeLedger(w http.ResponseWriter, r *http.Request, fundID string) {
	q := r.URL.Query()
	filters, err := request.ParseLedgerFilters(q.Get("format"), q.Get("start_date"), q.Get("end_date"), q.Get("sort_dir"))
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid query parameters", err.Error())
		return
	}

	fl, err := h.ledgerService.FilteredLedger(r.Context(), fundID, filters)
	if err != nil {
		respondLookupError(w, err, apperrors.ErrFailedToComputeLedger.Error())
		return
	}

	switch filters.Format {
	case model.FormatMarkdown:
		md := render.LedgerMarkdown(fl.Fund.Name, fl.Rows, h.currency)
		response.RespondText(w, http.StatusOK, "text/markdown; charset=utf-8", md)
	case model.FormatHTML:
		html, err := render.LedgerHTML(render.LedgerMarkdown(fl.Fund.Name, fl.Rows, h.currency))
		if err != nil {
			response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRenderLedger.Error(), err.Error())
			return
		}
		response.RespondText(w, http.StatusOK, "text/html; charset=utf-8", html)
	default:
		response.RespondJSON(w, http.StatusOK, fl)
	}
}

// Chart handles GET requests for the recent net value series of a fund.
//
// Endpoint: GET /api/fund/{uuid}/chart
// Response: 200 OK with array of ChartPoint
// Error: 404 Not Found if fund not found
// Error: 500 Internal Server Error if retrieval fails
func (h *LedgerHandler) Chart(w http.ResponseWriter, r *http.Request) {
	points, err := h.ledgerService.Chart(r.Context(), chi.URLParam(r, "uuid"), h.now())
	if err != nil {
		respondLookupError(w, err, apperrors.ErrFailedToRetrieveEntries.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, points)
}

// Snapshot handles GET requests for the last stored ledger snapshot of a fund.
//
// Endpoint: GET /api/fund/{uuid}/snapshot
// Response: 200 OK with Snapshot
// Error: 404 Not Found if fund not found or no snapshot was computed yet
// Error: 500 Internal Server Error if retrieval fails
func (h *LedgerHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.snapshotService.GetSnapshot(r.Context(), chi.URLParam(r, "uuid"))
	if err != nil {
		respondLookupError(w, err, apperrors.ErrFailedToRetrieveSnapshot.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, snapshot)
}

// Summaries handles GET requests for the latest position of every fund.
//
// Endpoint: GET /api/ledger/summary
// Response: 200 OK with array of LedgerSummary
// Error: 500 Internal Server Error if a ledger cannot be computed
func (h *LedgerHandler) Summaries(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.ledgerService.Summaries(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToComputeLedger.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, summaries)
}

// respondLookupError writes 404 for a missing fund or snapshot and 500 otherwise.
// Stored entries the engine rejects are a server side inconsistency.
func respondLookupError(w http.ResponseWriter, err error, message string) {
	for _, notFound := range []error{apperrors.ErrFundNotFound, apperrors.ErrSnapshotNotFound} {
		if errors.Is(err, notFound) {
			response.RespondError(w, http.StatusNotFound, notFound.Error(), err.Error())
			return
		}
	}
	response.RespondError(w, http.StatusInternalServerError, message, err.Error())
}
