package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/fund-ledger/internal/api/request"
	"github.com/ndewijer/fund-ledger/internal/api/response"
	"github.com/ndewijer/fund-ledger/internal/service"
	"github.com/ndewijer/fund-ledger/internal/validation"
)

// FundHandler handles HTTP requests for fund endpoints.
// It serves as the HTTP layer adapter, parsing requests and delegating
// business logic to the FundService.
type FundHandler struct {
	fundService *service.FundService
}

// NewFundHandler creates a new FundHandler with the provided service dependency.
func NewFundHandler(fundService *service.FundService) *FundHandler {
	return &FundHandler{
		fundService: fundService,
	}
}

// Funds handles GET requests to retrieve all funds, most recently created first.
//
// Endpoint: GET /api/fund
// Response: 200 OK with array of Fund
// Error: 500 Internal Server Error if retrieval fails
func (h *FundHandler) Funds(w http.ResponseWriter, r *http.Request) {
	funds, err := h.fundService.ListFunds(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, "failed to retrieve funds", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, funds)
}

// GetFund handles GET requests to retrieve a single fund.
//
// Endpoint: GET /api/fund/{uuid}
// Response: 200 OK with Fund
// Error: 400 Bad Request if fund ID is invalid (validated by middleware)
// Error: 404 Not Found if fund not found
// Error: 500 Internal Server Error if retrieval fails
func (h *FundHandler) GetFund(w http.ResponseWriter, r *http.Request) {
	fund, err := h.fundService.GetFund(r.Context(), chi.URLParam(r, "uuid"))
	if err != nil {
		respondServiceError(w, err, "failed to retrieve fund")
		return
	}

	response.RespondJSON(w, http.StatusOK, fund)
}

// CreateFund handles POST requests to register a new fund.
//
// Endpoint: POST /api/fund
// Request Body: CreateFundRequest
// Response: 201 Created with Fund
// Error: 400 Bad Request if validation fails or request body is invalid
// Error: 409 Conflict if the name is already used
// Error: 500 Internal Server Error if creation fails
func (h *FundHandler) CreateFund(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreateFundRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateCreateFund(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	fund, err := h.fundService.CreateFund(r.Context(), req)
	if err != nil {
		respondServiceError(w, err, "failed to create fund")
		return
	}

	response.RespondJSON(w, http.StatusCreated, fund)
}

// UpdateFund handles PUT requests to rename a fund.
//
// Endpoint: PUT /api/fund/{uuid}
// Request Body: UpdateFundRequest
// Response: 200 OK with updated Fund
// Error: 400 Bad Request if fund ID is invalid (validated by middleware) or validation fails
// Error: 404 Not Found if fund not found
// Error: 409 Conflict if the name is already used
// Error: 500 Internal Server Error if update fails
func (h *FundHandler) UpdateFund(w http.ResponseWriter, r *http.Request) {
	fundID := chi.URLParam(r, "uuid")

	req, err := parseJSON[request.UpdateFundRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateUpdateFund(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	fund, err := h.fundService.UpdateFund(r.Context(), fundID, req)
	if err != nil {
		respondServiceError(w, err, "failed to update fund")
		return
	}

	response.RespondJSON(w, http.StatusOK, fund)
}

// DeleteFund handles DELETE requests to remove a fund with all its entries.
// Deleting the last fund recreates the default fund.
//
// Endpoint: DELETE /api/fund/{uuid}
// Response: 204 No Content on successful deletion
// Error: 400 Bad Request if fund ID is invalid (validated by middleware)
// Error: 404 Not Found if fund not found
// Error: 500 Internal Server Error if deletion fails
func (h *FundHandler) DeleteFund(w http.ResponseWriter, r *http.Request) {
	if err := h.fundService.DeleteFund(r.Context(), chi.URLParam(r, "uuid")); err != nil {
		respondServiceError(w, err, "failed to delete fund")
		return
	}

	response.RespondJSON(w, http.StatusNoContent, nil)
}
