package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/ndewijer/fund-ledger/internal/api/response"
	"github.com/ndewijer/fund-ledger/internal/apperrors"
	"github.com/ndewijer/fund-ledger/internal/ledger"
	"github.com/ndewijer/fund-ledger/internal/validation"
)

// maxBodyBytes caps the size of JSON request bodies.
const maxBodyBytes = 1 << 20

// parseJSON decodes the JSON body of r into T. Unknown fields are rejected.
func parseJSON[T any](r *http.Request) (T, error) {
	var v T
	if r.Body == nil {
		return v, errors.New("request body is empty")
	}

	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&v); err != nil {
		return v, fmt.Errorf("failed to decode request body: %w", err)
	}
	return v, nil
}

// errorStatus maps a service error to its HTTP status.
func errorStatus(err error) int {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr),
		errors.Is(err, ledger.ErrMalformedEntry),
		errors.Is(err, apperrors.ErrInvalidFundName),
		errors.Is(err, apperrors.ErrInvalidUUID),
		errors.Is(err, apperrors.ErrInvalidDate):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrFundNotFound),
		errors.Is(err, apperrors.ErrEntryNotFound),
		errors.Is(err, apperrors.ErrSnapshotNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrDuplicateFundName):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondServiceError writes err with the status errorStatus picks.
// Server errors use message; client errors use the error itself.
func respondServiceError(w http.ResponseWriter, err error, message string) {
	status := errorStatus(err)
	if status == http.StatusInternalServerError {
		response.RespondError(w, status, message, err.Error())
		return
	}

	for _, known := range []error{
		apperrors.ErrFundNotFound,
		apperrors.ErrEntryNotFound,
		apperrors.ErrSnapshotNotFound,
		apperrors.ErrDuplicateFundName,
		apperrors.ErrInvalidFundName,
		ledger.ErrMalformedEntry,
	} {
		if errors.Is(err, known) {
			response.RespondError(w, status, known.Error(), err.Error())
			return
		}
	}
	response.RespondError(w, status, "validation failed", err.Error())
}
