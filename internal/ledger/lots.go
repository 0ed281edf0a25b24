package ledger

import (
	"math"
	"sort"
)

// epsilon is the share quantity below which a lot or a withdrawal counts as settled.
const epsilon = 1e-8

// lot is the matching state of one entry. Only entries with a positive
// addition are purchase lots; the others stay inert in the arena.
type lot struct {
	purchase      bool
	netValue      float64
	remaining     float64
	finalNetValue float64
	exhausted     bool
}

// lotArena owns the lots of one calculation, indexed by row position.
type lotArena []lot

func newLotArena(rows []row) lotArena {
	a := make(lotArena, len(rows))
	for i, r := range rows {
		a[i] = lot{
			purchase:  r.addition > 0,
			netValue:  r.netValue,
			remaining: r.shares,
		}
	}
	return a
}

// open returns the indexes of purchase lots before row that still hold shares,
// cheapest net value first. Lots with equal net values keep date order.
func (a lotArena) open(row int) []int {
	idx := make([]int, 0, row)
	for i := 0; i < row; i++ {
		if a[i].purchase && a[i].remaining > epsilon {
			idx = append(idx, i)
		}
	}
	sort.SliceStable(idx, func(x, y int) bool {
		return a[idx[x]].netValue < a[idx[y]].netValue
	})
	return idx
}

// match allocates need shares redeemed at netValue on row against the open
// lots and returns one gain per lot consumed, in consumption order.
// A lot emptied here records netValue as its final net value.
// Shares that no lot can cover are dropped.
func (a lotArena) match(row int, need, netValue float64) []gain {
	var gains []gain
	for _, i := range a.open(row) {
		if need <= epsilon {
			break
		}
		l := &a[i]

		used := math.Min(need, l.remaining)
		if used > 0 {
			gains = append(gains, gain{
				lot:    i,
				shares: used,
				amount: used * (netValue - l.netValue),
				growth: growth(l.netValue, netValue),
			})
			l.remaining -= used
		}
		if l.remaining <= epsilon {
			l.exhausted = true
			l.finalNetValue = netValue
		}
		need -= used
	}
	return gains
}
