package render

import (
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/ndewijer/fund-ledger/internal/ledger"
)

// Money displays amount in currency, e.g. "$1,234.50" for USD.
// Unknown currency codes fall back to the plain amount followed by the code.
func Money(amount float64, currency string) string {
	code := strings.ToUpper(strings.TrimSpace(currency))

	cur := money.GetCurrency(code)
	if cur == nil {
		return strings.TrimSpace(ledger.FormatFixed(amount, 2) + " " + code)
	}

	minor := decimal.NewFromFloat(amount).Shift(int32(cur.Fraction)).Round(0)
	return cur.Formatter().Format(minor.IntPart())
}
