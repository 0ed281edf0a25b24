package request

import (
	"fmt"
	"strings"
	"time"

	"github.com/ndewijer/fund-ledger/internal/model"
)

// ParseLedgerFilters extracts and validates ledger filters from query parameters.
// All parameters are optional.
//
// Validation rules:
//   - format: json, markdown or html (defaults to json)
//   - start_date/end_date: YYYY-MM-DD, start not after end
//   - sort_dir: "asc" or "desc" (defaults to "asc", the ledger order)
func ParseLedgerFilters(formatParam, startDateParam, endDateParam, sortDirParam string) (*model.LedgerFilters, error) {
	filters := &model.LedgerFilters{
		Format:  model.FormatJSON,
		SortDir: "asc",
	}

	if formatParam != "" {
		format := strings.TrimSpace(strings.ToLower(formatParam))
		if !model.ValidLedgerFormats[format] {
			return nil, fmt.Errorf("invalid format: %s", formatParam)
		}
		filters.Format = format
	}

	// Parse start_date
	if startDateParam != "" {
		startTime, err := time.Parse("2006-01-02", startDateParam)
		if err != nil {
			return nil, fmt.Errorf("invalid start_date format: %w", err)
		}
		filters.StartDate = &startTime
	}

	// Parse end_date
	if endDateParam != "" {
		endTime, err := time.Parse("2006-01-02", endDateParam)
		if err != nil {
			return nil, fmt.Errorf("invalid end_date format: %w", err)
		}
		filters.EndDate = &endTime
	}

	if filters.StartDate != nil && filters.EndDate != nil && filters.StartDate.After(*filters.EndDate) {
		return nil, fmt.Errorf("invalid date range: start_date is after end_date")
	}

	// Validate sort_dir
	if sortDirParam != "" {
		sortDir := strings.ToLower(sortDirParam)
		if sortDir != "asc" && sortDir != "desc" {
			return nil, fmt.Errorf("invalid sort_dir: must be 'asc' or 'desc'")
		}
		filters.SortDir = sortDir
	}

	return filters, nil
}
