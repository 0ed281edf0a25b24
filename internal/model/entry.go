package model

import (
	"time"

	"github.com/ndewijer/fund-ledger/internal/ledger"
)

// Entry is one dated observation of a fund: its net value and an optional
// addition or change of shares on that day. Addition and Shares are nil
// when they were left blank.
type Entry struct {
	ID       string    `json:"id"`
	FundID   string    `json:"fundId"`
	Date     time.Time `json:"date"`
	NetValue float64   `json:"netValue"`
	Addition *float64  `json:"addition"`
	Shares   *float64  `json:"shares"`
}

// LedgerEntry converts the stored entry into ledger engine input.
func (e Entry) LedgerEntry() ledger.Entry {
	return ledger.Entry{
		Date:     e.Date,
		NetValue: e.NetValue,
		Addition: e.Addition,
		Shares:   e.Shares,
	}
}

// LedgerEntries converts stored entries, keeping their order.
func LedgerEntries(entries []Entry) []ledger.Entry {
	out := make([]ledger.Entry, len(entries))
	for i, e := range entries {
		out[i] = e.LedgerEntry()
	}
	return out
}
