package ledger

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the calendar date format of entries and ledger rows.
const DateLayout = "2006-01-02"

var (
	// ErrMalformedEntry indicates an entry whose date or numbers cannot be used.
	ErrMalformedEntry = errors.New("malformed entry")

	// ErrUnorderedEntries indicates entries that are not in strictly ascending date order.
	// Two entries on the same date are rejected as well.
	ErrUnorderedEntries = errors.New("entries are not in ascending date order")
)

// Entry is one user-entered observation of a fund position.
// Addition and Shares are optional; a nil field is treated as 0 and,
// when the net value allows it, derived from the other one.
type Entry struct {
	Date     time.Time
	NetValue float64
	Addition *float64
	Shares   *float64
}

// Float returns a pointer to v, for building entries with optional fields.
func Float(v float64) *float64 {
	return &v
}

// ParseEntry converts textual input into an Entry.
// The date must be YYYY-MM-DD and the net value is required.
// Empty addition or shares strings mean the field was not supplied.
func ParseEntry(date, netValue, addition, shares string) (Entry, error) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(date))
	if err != nil {
		return Entry{}, fmt.Errorf("%w: invalid date %q", ErrMalformedEntry, date)
	}

	nv, err := parseNumber("net value", netValue)
	if err != nil {
		return Entry{}, err
	}
	if nv == nil {
		return Entry{}, fmt.Errorf("%w: net value is required", ErrMalformedEntry)
	}

	add, err := parseNumber("addition", addition)
	if err != nil {
		return Entry{}, err
	}
	shr, err := parseNumber("shares", shares)
	if err != nil {
		return Entry{}, err
	}

	return Entry{Date: d, NetValue: *nv, Addition: add, Shares: shr}, nil
}

func parseNumber(field, s string) (*float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, fmt.Errorf("%w: invalid %s %q", ErrMalformedEntry, field, s)
	}
	return &v, nil
}

// Normalize returns the addition and shares of an entry with the missing one
// derived from the other through the net value:
//
//	addition = shares * netValue
//	shares   = addition / netValue
//
// Absent fields count as 0. Nothing is derived when the net value is 0, and
// when both fields are nonzero they are returned as supplied, consistent or not.
func Normalize(netValue float64, addition, shares *float64) (float64, float64) {
	var add, shr float64
	if addition != nil {
		add = *addition
	}
	if shares != nil {
		shr = *shares
	}

	if netValue == 0 {
		return add, shr
	}

	switch {
	case add != 0 && shr == 0:
		shr = add / netValue
	case shr != 0 && add == 0:
		add = shr * netValue
	}
	return add, shr
}

// validate checks dates are strictly ascending and numbers are finite.
func validate(entries []Entry) error {
	for i, e := range entries {
		if !finite(e.NetValue) || (e.Addition != nil && !finite(*e.Addition)) || (e.Shares != nil && !finite(*e.Shares)) {
			return fmt.Errorf("%w: non-finite number on %s", ErrMalformedEntry, e.Date.Format(DateLayout))
		}
		if i > 0 && !e.Date.After(entries[i-1].Date) {
			return fmt.Errorf("%w: %s follows %s", ErrUnorderedEntries,
				e.Date.Format(DateLayout), entries[i-1].Date.Format(DateLayout))
		}
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
