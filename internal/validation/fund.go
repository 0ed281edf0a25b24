package validation

import (
	"strings"
	"unicode/utf8"

	"github.com/ndewijer/fund-ledger/internal/api/request"
)

// MaxFundNameLength is the longest fund name the registry stores, in characters.
const MaxFundNameLength = 100

func ValidateCreateFund(req request.CreateFundRequest) error {
	return validateFundName(req.Name)
}

func ValidateUpdateFund(req request.UpdateFundRequest) error {
	return validateFundName(req.Name)
}

func validateFundName(name string) error {
	errors := make(map[string]string)

	name = strings.TrimSpace(name)
	if name == "" {
		errors["name"] = "name is required"
	} else if utf8.RuneCountInString(name) > MaxFundNameLength {
		errors["name"] = "name must be 100 characters or less"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}
