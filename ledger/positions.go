package ledger

import (
	"slices"

	"github.com/rustyeddy/tradebook/money"
)

// Position is a replay-derived view of one held symbol using the average-cost
// method: each buy folds into a new average cost, each sell realizes
// (price − average cost) × quantity.
type Position struct {
	Symbol       string
	Quantity     int64
	AvgCost      money.Money
	MarketPrice  money.Money
	MarketValue  money.Money
	RealizedPL   money.Money
	UnrealizedPL money.Money
}

// PLBreakdown splits profit/loss into realized and unrealized parts.
// Realized covers every sale in the log, including symbols no longer held.
type PLBreakdown struct {
	Realized   money.Money
	Unrealized money.Money
	Total      money.Money
}

type costState struct {
	qty      int64
	avg      money.Money
	realized money.Money
}

// replayCostsLocked folds the trade log into per-symbol average-cost state up
// to the cutoff. A zero cutoff means the whole log.
func (a *Account) replayCostsLocked(o txOpts) map[string]*costState {
	states := make(map[string]*costState)
	for _, tx := range a.txs {
		if !o.at.IsZero() && tx.Timestamp.After(o.at) {
			break
		}
		if !tx.Kind.IsTrade() {
			continue
		}
		st := states[tx.Symbol]
		if st == nil {
			st = &costState{}
			states[tx.Symbol] = st
		}
		switch tx.Kind {
		case KindBuy:
			newQty := st.qty + tx.Quantity
			// Weighted average of the old lot and the new one.
			totalCost := st.avg.MulInt(st.qty).Add(tx.UnitPrice.MulInt(tx.Quantity))
			st.avg = totalCost.DivInt(newQty)
			st.qty = newQty
		case KindSell:
			st.realized = st.realized.Add(tx.UnitPrice.Sub(st.avg).MulInt(tx.Quantity))
			st.qty -= tx.Quantity
			if st.qty == 0 {
				st.avg = money.Zero
			}
		}
	}
	return states
}

// Positions returns the open average-cost positions, priced via the usual
// provider resolution, sorted by symbol. Accepts At and WithProvider options.
func (a *Account) Positions(opts ...Option) ([]Position, error) {
	o := applyOpts(opts)

	a.mu.Lock()
	defer a.mu.Unlock()

	states := a.replayCostsLocked(o)

	syms := make([]string, 0, len(states))
	for sym, st := range states {
		if st.qty > 0 {
			syms = append(syms, sym)
		}
	}
	slices.Sort(syms)

	out := make([]Position, 0, len(syms))
	for _, sym := range syms {
		st := states[sym]
		price, err := a.queryPrice(sym, o)
		if err != nil {
			return nil, err
		}
		out = append(out, Position{
			Symbol:       sym,
			Quantity:     st.qty,
			AvgCost:      st.avg,
			MarketPrice:  price,
			MarketValue:  price.MulInt(st.qty),
			RealizedPL:   st.realized,
			UnrealizedPL: price.Sub(st.avg).MulInt(st.qty),
		})
	}
	return out, nil
}

// ProfitLossBreakdown totals realized and unrealized profit/loss across the
// whole trade history. Accepts At and WithProvider options.
func (a *Account) ProfitLossBreakdown(opts ...Option) (PLBreakdown, error) {
	o := applyOpts(opts)

	a.mu.Lock()
	defer a.mu.Unlock()

	states := a.replayCostsLocked(o)

	var b PLBreakdown
	for sym, st := range states {
		b.Realized = b.Realized.Add(st.realized)
		if st.qty > 0 {
			price, err := a.queryPrice(sym, o)
			if err != nil {
				return PLBreakdown{}, err
			}
			b.Unrealized = b.Unrealized.Add(price.Sub(st.avg).MulInt(st.qty))
		}
	}
	b.Total = b.Realized.Add(b.Unrealized)
	return b, nil
}
