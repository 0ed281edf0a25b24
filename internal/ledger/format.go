package ledger

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	netValuePlaces = 4
	percentPlaces  = 2
	gainPlaces     = 2
)

// Delimiter joins multi-valued cells (one value per matched lot) for display.
const Delimiter = "，"

// Percent is a percentage rounded to two decimals, displayed as "12.34%".
type Percent float64

func percent(v float64) Percent {
	return Percent(roundTo(v, percentPlaces))
}

func (p Percent) String() string {
	return FormatFixed(float64(p), percentPlaces) + "%"
}

// MarshalText encodes the percentage in its display form.
func (p Percent) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText accepts the display form produced by MarshalText.
func (p *Percent) UnmarshalText(text []byte) error {
	v, err := ParsePercent(string(text))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// ParsePercent parses "12.34%" (the percent sign is optional).
func ParsePercent(s string) (Percent, error) {
	s = strings.TrimSuffix(strings.TrimSpace(s), "%")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid percentage %q: %w", s, err)
	}
	return Percent(v), nil
}

// FormatFixed renders v with exactly places decimals, rounding half away from zero.
func FormatFixed(v float64, places int) string {
	if !finite(v) {
		v = 0
	}
	return decimal.NewFromFloat(v).StringFixed(int32(places))
}

// Round rounds v half away from zero to places decimals, as the ledger does.
func Round(v float64, places int) float64 {
	return roundTo(v, places)
}

// roundTo rounds half away from zero to the given number of decimals.
// Non-finite values collapse to 0.
func roundTo(v float64, places int) float64 {
	if !finite(v) {
		return 0
	}
	f, _ := decimal.NewFromFloat(v).Round(int32(places)).Float64()
	return f
}

// format rounds the computed rows and assembles the output ledger.
func format(rows []row, precision int) []Row {
	out := make([]Row, len(rows))
	var cumulative float64

	for i, r := range rows {
		gains := make([]LotGain, 0, len(r.gains))
		for _, g := range r.gains {
			amount := roundTo(g.amount, gainPlaces)
			cumulative += amount
			gains = append(gains, LotGain{
				LotDate: rows[g.lot].date.Format(DateLayout),
				Shares:  roundTo(g.shares, precision),
				Amount:  amount,
				Growth:  percent(g.growth),
			})
		}

		out[i] = Row{
			Date:                   r.date.Format(DateLayout),
			NetValue:               roundTo(r.netValue, netValuePlaces),
			Addition:               roundTo(r.addition, precision),
			Shares:                 roundTo(r.shares, precision),
			TotalValue:             roundTo(r.totalValue, precision),
			TotalShares:            roundTo(r.totalShares, precision),
			NetValueGrowth:         percent(r.netValueGrowth),
			TotalInvested:          roundTo(r.totalInvested, precision),
			TotalGrowth:            percent(r.totalGrowth),
			AdditionLatestGrowth:   percent(r.latestGrowth),
			RealizedGains:          gains,
			CumulativeRealizedGain: roundTo(cumulative, precision),
		}
	}
	return out
}
