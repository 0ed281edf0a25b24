package handlers

import (
	"log"
	"net/http"

	"github.com/ndewijer/fund-ledger/internal/api/middleware"
	"github.com/ndewijer/fund-ledger/internal/api/request"
	"github.com/ndewijer/fund-ledger/internal/api/response"
	"github.com/ndewijer/fund-ledger/internal/model"
	"github.com/ndewijer/fund-ledger/internal/service"
	"github.com/ndewijer/fund-ledger/internal/validation"
)

// SessionHandler handles the current fund of a browser session.
// Requests must pass through the session middleware of sessions.
type SessionHandler struct {
	fundService   *service.FundService
	ledgerHandler *LedgerHandler
	sessions      *middleware.SessionCodec
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(
	fundService *service.FundService,
	ledgerHandler *LedgerHandler,
	sessions *middleware.SessionCodec,
) *SessionHandler {
	return &SessionHandler{
		fundService:   fundService,
		ledgerHandler: ledgerHandler,
		sessions:      sessions,
	}
}

// CurrentFund handles GET requests for the fund the session works on.
// Without a selection, or when the selected fund was deleted, the most
// recent fund is selected.
//
// Endpoint: GET /api/session/fund
// Response: 200 OK with Fund
// Error: 500 Internal Server Error if no fund can be resolved
func (h *SessionHandler) CurrentFund(w http.ResponseWriter, r *http.Request) {
	fund, ok := h.resolve(w, r)
	if !ok {
		return
	}

	response.RespondJSON(w, http.StatusOK, fund)
}

// SelectFund handles PUT requests to change the current fund of the session.
//
// Endpoint: PUT /api/session/fund
// Request Body: SelectFundRequest
// Response: 200 OK with the selected Fund
// Error: 400 Bad Request if validation fails or request body is invalid
// Error: 404 Not Found if fund not found
// Error: 500 Internal Server Error if the session cannot be stored
func (h *SessionHandler) SelectFund(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.SelectFundRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateSelectFund(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	fund, err := h.fundService.GetFund(r.Context(), req.FundID)
	if err != nil {
		respondServiceError(w, err, "failed to retrieve fund")
		return
	}

	if err := h.sessions.Write(w, r, middleware.Session{FundID: fund.ID}); err != nil {
		response.RespondError(w, http.StatusInternalServerError, "failed to store session", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, fund)
}

// Ledger handles GET requests for the ledger of the current fund.
// It takes the same query parameters as the fund ledger endpoint.
//
// Endpoint: GET /api/session/ledger
// Response: 200 OK with FundLedger, or the rendered document
// Error: 400 Bad Request if a query parameter is invalid
// Error: 500 Internal Server Error if the ledger cannot be computed
func (h *SessionHandler) Ledger(w http.ResponseWriter, r *http.Request) {
	fund, ok := h.resolve(w, r)
	if !ok {
		return
	}

	h.ledgerHandler.writeLedger(w, r, fund.ID)
}

// resolve returns the current fund, storing it in the session when it
// differs from the selection. It writes the error response itself.
func (h *SessionHandler) resolve(w http.ResponseWriter, r *http.Request) (model.Fund, bool) {
	session := middleware.SessionFromContext(r.Context())

	fund, err := h.fundService.CurrentFund(r.Context(), session.FundID)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, "failed to resolve current fund", err.Error())
		return model.Fund{}, false
	}

	if fund.ID != session.FundID {
		if err := h.sessions.Write(w, r, middleware.Session{FundID: fund.ID}); err != nil {
			log.Printf("failed to store session: %v", err)
		}
	}
	return fund, true
}
