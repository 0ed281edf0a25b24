// Package ledger derives the performance ledger of a fund position from its
// chronological entries: running shares, position value and invested capital,
// period and total growth, realized gain per matched purchase lot, and the
// latest growth of every purchase.
//
// The computation is a pure function of its input. Calculate holds all state
// of one call in local slices, so concurrent calls are independent.
package ledger

import (
	"math"
	"strings"
	"time"
)

// DefaultPrecision is the number of decimals kept on amount and share columns.
const DefaultPrecision = 4

// Options configure the rounding of the output ledger.
type Options struct {
	// Precision is the number of decimals for amounts and shares.
	// Net values always keep 4 decimals and percentages 2.
	Precision int
}

// DefaultOptions returns Options with DefaultPrecision.
func DefaultOptions() Options {
	return Options{Precision: DefaultPrecision}
}

// LotGain is the realized gain of a withdrawal against one purchase lot.
type LotGain struct {
	LotDate string  `json:"lotDate"`
	Shares  float64 `json:"shares"`
	Amount  float64 `json:"amount"`
	Growth  Percent `json:"growth"`
}

// Row is one line of the ledger, one per input entry and in the same order.
type Row struct {
	Date                   string    `json:"date"`
	NetValue               float64   `json:"netValue"`
	Addition               float64   `json:"addition"`
	Shares                 float64   `json:"shares"`
	TotalValue             float64   `json:"totalValue"`
	TotalShares            float64   `json:"totalShares"`
	NetValueGrowth         Percent   `json:"netValueGrowth"`
	TotalInvested          float64   `json:"totalInvested"`
	TotalGrowth            Percent   `json:"totalGrowth"`
	AdditionLatestGrowth   Percent   `json:"additionLatestGrowth"`
	RealizedGains          []LotGain `json:"realizedGains"`
	CumulativeRealizedGain float64   `json:"cumulativeRealizedGain"`
}

// RealizedGainText joins the per-lot realized amounts for display.
func (r Row) RealizedGainText() string {
	parts := make([]string, len(r.RealizedGains))
	for i, g := range r.RealizedGains {
		parts[i] = FormatFixed(g.Amount, gainPlaces)
	}
	return strings.Join(parts, Delimiter)
}

// RealizedGrowthText joins the per-lot realized percentages for display.
func (r Row) RealizedGrowthText() string {
	parts := make([]string, len(r.RealizedGains))
	for i, g := range r.RealizedGains {
		parts[i] = g.Growth.String()
	}
	return strings.Join(parts, Delimiter)
}

// row is the working state of one entry during a calculation.
type row struct {
	date     time.Time
	netValue float64
	addition float64
	shares   float64

	totalShares   float64
	totalValue    float64
	totalInvested float64

	netValueGrowth float64
	totalGrowth    float64
	latestGrowth   float64

	gains []gain
}

// gain is an unrounded realized gain against the lot at row index lot.
type gain struct {
	lot    int
	shares float64
	amount float64
	growth float64
}

// Calculate computes the ledger of entries, which must be sorted by strictly
// ascending date. An empty input gives an empty ledger.
//
// Business anomalies such as negative positions or withdrawals larger than
// the recorded purchases never fail; only malformed or unordered input does.
func Calculate(entries []Entry, opts Options) ([]Row, error) {
	if err := validate(entries); err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return []Row{}, nil
	}
	if opts.Precision < 0 {
		opts.Precision = DefaultPrecision
	}

	rows := make([]row, len(entries))
	for i, e := range entries {
		add, shr := Normalize(e.NetValue, e.Addition, e.Shares)
		rows[i] = row{date: e.Date, netValue: e.NetValue, addition: add, shares: shr}
	}

	accumulate(rows)
	rateGrowth(rows)

	lots := newLotArena(rows)
	for i := range rows {
		if rows[i].addition < 0 {
			rows[i].gains = lots.match(i, math.Abs(rows[i].shares), rows[i].netValue)
		}
	}

	rateLatestGrowth(rows, lots)

	return format(rows, opts.Precision), nil
}

// accumulate fills the running totals. Each row depends only on the previous one.
func accumulate(rows []row) {
	for i := range rows {
		r := &rows[i]
		if i == 0 {
			r.totalShares = r.shares
			r.totalValue = r.addition
			r.totalInvested = r.addition
			continue
		}
		prev := rows[i-1]
		r.totalShares = prev.totalShares + r.shares
		r.totalValue = prev.totalShares*r.netValue + r.addition
		r.totalInvested = prev.totalInvested + r.addition
	}
}

// rateGrowth fills the period net value growth and the total growth, which
// counts past withdrawals as returned capital against all capital ever added.
func rateGrowth(rows []row) {
	var sumPos, sumNeg float64
	for i := range rows {
		r := &rows[i]
		switch {
		case r.addition > 0:
			sumPos += r.addition
		case r.addition < 0:
			sumNeg -= r.addition
		}

		if i > 0 {
			r.netValueGrowth = growth(rows[i-1].netValue, r.netValue)
		}
		if sumPos != 0 {
			r.totalGrowth = ((sumNeg+r.totalValue)/sumPos - 1) * 100
		}
	}
}

// rateLatestGrowth fills the growth of every purchase: frozen at the net value
// that exhausted its lot, or marked to the last net value while still open.
func rateLatestGrowth(rows []row, lots lotArena) {
	latest := rows[len(rows)-1].netValue
	for i := range rows {
		r := &rows[i]
		switch {
		case r.addition <= 0:
			r.latestGrowth = 0
		case lots[i].exhausted:
			r.latestGrowth = growth(r.netValue, lots[i].finalNetValue)
		default:
			r.latestGrowth = growth(r.netValue, latest)
		}
	}
}

// growth is the percentage change from one net value to another, 0 when from is 0.
func growth(from, to float64) float64 {
	if from == 0 {
		return 0
	}
	return (to - from) / from * 100
}
