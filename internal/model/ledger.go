package model

import (
	"time"

	"github.com/ndewijer/fund-ledger/internal/ledger"
)

// FundLedger is the computed ledger of one fund.
type FundLedger struct {
	Fund Fund         `json:"fund"`
	Rows []ledger.Row `json:"rows"`
}

// LedgerSummary is the latest position of one fund, taken from the last
// ledger row. Fields are zero for a fund without entries.
type LedgerSummary struct {
	Fund                   Fund           `json:"fund"`
	EntryCount             int            `json:"entryCount"`
	LastDate               string         `json:"lastDate,omitempty"`
	NetValue               float64        `json:"netValue"`
	TotalShares            float64        `json:"totalShares"`
	TotalValue             float64        `json:"totalValue"`
	TotalInvested          float64        `json:"totalInvested"`
	TotalGrowth            ledger.Percent `json:"totalGrowth"`
	CumulativeRealizedGain float64        `json:"cumulativeRealizedGain"`
}

// Ledger output formats.
const (
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
	FormatHTML     = "html"
)

// ValidLedgerFormats lists the formats a ledger can be rendered in.
var ValidLedgerFormats = map[string]bool{
	FormatJSON:     true,
	FormatMarkdown: true,
	FormatHTML:     true,
}

// LedgerFilters select and order the rows of a computed ledger.
// The ledger is always computed over every entry; the date bounds only
// limit which rows are returned.
type LedgerFilters struct {
	Format    string
	StartDate *time.Time
	EndDate   *time.Time
	SortDir   string
}
