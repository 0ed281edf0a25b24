package render

import (
	"fmt"
	"time"

	"github.com/ndewijer/fund-ledger/internal/ledger"
	"github.com/ndewijer/fund-ledger/internal/model"
)

// ChartWindow is the span of the net value chart.
const ChartWindow = 30 * 24 * time.Hour

// Point colours of the net value chart.
const (
	ColorPurchase   = "red"
	ColorWithdrawal = "black"
	ColorNeutral    = "blue"
)

// ChartPoint is one point of the net value chart.
type ChartPoint struct {
	Date     string  `json:"date"`
	Label    string  `json:"label"`
	NetValue float64 `json:"netValue"`
	Color    string  `json:"color"`
}

// NetValueChart returns the net values of the entries dated within window
// before now, oldest first. Entries must be in ascending date order.
// Points are coloured by the sign of the entry's normalized addition.
func NetValueChart(entries []model.Entry, now time.Time, window time.Duration) []ChartPoint {
	y, m, d := now.UTC().Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	start := today.Add(-window)

	points := []ChartPoint{}
	for _, e := range entries {
		if e.Date.Before(start) || e.Date.After(today) {
			continue
		}

		addition, _ := ledger.Normalize(e.NetValue, e.Addition, e.Shares)
		color := ColorNeutral
		switch {
		case addition > 0:
			color = ColorPurchase
		case addition < 0:
			color = ColorWithdrawal
		}

		points = append(points, ChartPoint{
			Date:     e.Date.Format(ledger.DateLayout),
			Label:    fmt.Sprintf("%d.%d", int(e.Date.Month()), e.Date.Day()),
			NetValue: ledger.Round(e.NetValue, 4),
			Color:    color,
		})
	}
	return points
}
