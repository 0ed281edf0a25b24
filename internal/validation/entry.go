package validation

import (
	"math"
	"strconv"
	"strings"

	"github.com/ndewijer/fund-ledger/internal/api/request"
)

func ValidateSaveEntry(req request.SaveEntryRequest) error {
	errors := make(map[string]string)

	// Required fields
	if strings.TrimSpace(req.Date) == "" {
		errors["date"] = "date is required"
	} else if _, err := ParseDate(strings.TrimSpace(req.Date)); err != nil {
		errors["date"] = "date must be in YYYY-MM-DD format"
	}

	if strings.TrimSpace(req.NetValue.String()) == "" {
		errors["netValue"] = "net value is required"
	} else if !isNumber(req.NetValue.String()) {
		errors["netValue"] = "net value must be a number"
	}

	// optional
	if s := strings.TrimSpace(req.Addition.String()); s != "" && !isNumber(s) {
		errors["addition"] = "addition must be a number"
	}
	if s := strings.TrimSpace(req.Shares.String()); s != "" && !isNumber(s) {
		errors["shares"] = "shares must be a number"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}

func ValidateSelectFund(req request.SelectFundRequest) error {
	if err := ValidateUUID(req.FundID); err != nil {
		return &Error{Fields: map[string]string{"fundId": "fundId must be a valid UUID"}}
	}
	return nil
}

func isNumber(s string) bool {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return err == nil && !math.IsNaN(v) && !math.IsInf(v, 0)
}
