package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/fund-ledger/internal/api/request"
	"github.com/ndewijer/fund-ledger/internal/api/response"
	"github.com/ndewijer/fund-ledger/internal/service"
	"github.com/ndewijer/fund-ledger/internal/validation"
)

// EntryHandler handles HTTP requests for the dated entries of a fund.
type EntryHandler struct {
	entryService *service.EntryService
}

// NewEntryHandler creates a new EntryHandler.
func NewEntryHandler(entryService *service.EntryService) *EntryHandler {
	return &EntryHandler{
		entryService: entryService,
	}
}

// Entries handles GET requests to retrieve the stored entries of a fund in date order.
//
// Endpoint: GET /api/fund/{uuid}/entry
// Response: 200 OK with array of Entry
// Error: 404 Not Found if fund not found
// Error: 500 Internal Server Error if retrieval fails
func (h *EntryHandler) Entries(w http.ResponseWriter, r *http.Request) {
	entries, err := h.entryService.ListEntries(r.Context(), chi.URLParam(r, "uuid"))
	if err != nil {
		respondServiceError(w, err, "failed to retrieve entries")
		return
	}

	response.RespondJSON(w, http.StatusOK, entries)
}

// SaveEntry handles POST requests to store an entry. An entry on the same
// date is replaced.
//
// Endpoint: POST /api/fund/{uuid}/entry
// Request Body: SaveEntryRequest
// Response: 200 OK with the stored Entry
// Error: 400 Bad Request if validation fails or request body is invalid
// Error: 404 Not Found if fund not found
// Error: 500 Internal Server Error if saving fails
func (h *EntryHandler) SaveEntry(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.SaveEntryRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateSaveEntry(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	entry, err := h.entryService.SaveEntry(r.Context(), chi.URLParam(r, "uuid"), req)
	if err != nil {
		respondServiceError(w, err, "failed to save entry")
		return
	}

	response.RespondJSON(w, http.StatusOK, entry)
}

// DeleteEntry handles DELETE requests to remove the entry of a fund on a date.
//
// Endpoint: DELETE /api/fund/{uuid}/entry/{date}
// Response: 204 No Content on successful deletion
// Error: 400 Bad Request if the date is invalid (validated by middleware)
// Error: 404 Not Found if fund or entry not found
// Error: 500 Internal Server Error if deletion fails
func (h *EntryHandler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	date, err := validation.ParseDate(chi.URLParam(r, "date"))
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid date format", err.Error())
		return
	}

	if err := h.entryService.DeleteEntry(r.Context(), chi.URLParam(r, "uuid"), date); err != nil {
		respondServiceError(w, err, "failed to delete entry")
		return
	}

	response.RespondJSON(w, http.StatusNoContent, nil)
}
