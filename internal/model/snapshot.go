package model

import "time"

// Snapshot is the persisted summary of a fund ledger: the totals of its
// last row as of ComputedAt. LastDate is nil for a fund without entries.
type Snapshot struct {
	FundID                 string     `json:"fundId"`
	ComputedAt             time.Time  `json:"computedAt"`
	EntryCount             int        `json:"entryCount"`
	LastDate               *time.Time `json:"lastDate"`
	TotalShares            float64    `json:"totalShares"`
	TotalValue             float64    `json:"totalValue"`
	TotalInvested          float64    `json:"totalInvested"`
	TotalGrowth            float64    `json:"totalGrowth"`
	CumulativeRealizedGain float64    `json:"cumulativeRealizedGain"`
}
