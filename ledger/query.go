package ledger

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/rustyeddy/tradebook/money"
)

// Basis selects the reference point for profit/loss.
type Basis string

const (
	// BasisInitial compares against the first ever deposit.
	BasisInitial Basis = "initial"
	// BasisNet compares against net contributions, deposits minus
	// withdrawals, up to the cutoff.
	BasisNet Basis = "net"
)

// ParseBasis validates a basis string from external input.
func ParseBasis(s string) (Basis, error) {
	switch Basis(s) {
	case BasisInitial, BasisNet:
		return Basis(s), nil
	}
	return "", fmt.Errorf("%w: unknown profit/loss basis %q", ErrInvalidTransaction, s)
}

// CashBalance returns the current cash balance from the last checkpoint.
func (a *Account) CashBalance() money.Money {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastBalanceLocked()
}

// CashBalanceAt replays cash deltas up to and including the cutoff.
func (a *Account) CashBalanceAt(at time.Time) money.Money {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.balanceAsOfLocked(at.UTC())
}

// Holdings returns net share counts per symbol over the whole log. Symbols
// netted to zero are absent. The map is a fresh copy.
func (a *Account) Holdings() map[string]int64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.holdingsAsOfLocked(time.Time{})
}

// HoldingsAt returns net share counts per symbol up to and including the
// cutoff.
func (a *Account) HoldingsAt(at time.Time) map[string]int64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.holdingsAsOfLocked(at.UTC())
}

// PortfolioValue returns cash plus the priced value of every held symbol.
// Accepts At and WithProvider options; any unresolvable symbol fails the
// whole query with ErrPriceLookupFailed.
func (a *Account) PortfolioValue(opts ...Option) (money.Money, error) {
	o := applyOpts(opts)

	a.mu.Lock()
	defer a.mu.Unlock()
	return a.portfolioValueLocked(o)
}

func (a *Account) portfolioValueLocked(o txOpts) (money.Money, error) {
	var total money.Money
	if o.at.IsZero() {
		total = a.lastBalanceLocked()
	} else {
		total = a.balanceAsOfLocked(o.at)
	}

	held := a.holdingsAsOfLocked(o.at)
	for _, sym := range sortedSymbols(held) {
		price, err := a.queryPrice(sym, o)
		if err != nil {
			return money.Zero, err
		}
		total = total.Add(price.MulInt(held[sym]))
	}
	return total, nil
}

// queryPrice resolves a price for valuation queries: per-call provider first,
// then the account default. Valuations have no explicit-price override.
func (a *Account) queryPrice(sym string, o txOpts) (money.Money, error) {
	p := o.provider
	if p == nil {
		p = a.provider
	}
	if p == nil {
		return money.Zero, fmt.Errorf("%w: no price provider for %s", ErrPriceLookupFailed, sym)
	}
	price, err := p.Price(sym, o.at)
	if err != nil {
		return money.Zero, fmt.Errorf("%w: %s: %v", ErrPriceLookupFailed, sym, err)
	}
	if !price.IsPositive() {
		return money.Zero, fmt.Errorf("%w: non-positive price %s for %s", ErrPriceLookupFailed, price, sym)
	}
	return price, nil
}

// ProfitLoss returns portfolio value minus the chosen basis. BasisInitial
// fails with ErrInvalidTransaction when no deposit has ever been recorded.
func (a *Account) ProfitLoss(basis Basis, opts ...Option) (money.Money, error) {
	o := applyOpts(opts)

	a.mu.Lock()
	defer a.mu.Unlock()

	value, err := a.portfolioValueLocked(o)
	if err != nil {
		return money.Zero, err
	}

	switch basis {
	case BasisInitial:
		if a.initialDeposit == nil {
			return money.Zero, fmt.Errorf("%w: no deposit ever recorded", ErrInvalidTransaction)
		}
		return value.Sub(*a.initialDeposit), nil
	case BasisNet:
		return value.Sub(a.netContributionsLocked(o.at)), nil
	}
	return money.Zero, fmt.Errorf("%w: unknown profit/loss basis %q", ErrInvalidTransaction, basis)
}

// netContributionsLocked sums deposit and withdraw cash deltas up to the
// cutoff (deposits positive, withdrawals negative). A zero cutoff means the
// whole log.
func (a *Account) netContributionsLocked(at time.Time) money.Money {
	net := money.Zero
	for _, tx := range a.txs {
		if !at.IsZero() && tx.Timestamp.After(at) {
			break
		}
		if tx.Kind == KindDeposit || tx.Kind == KindWithdraw {
			net = net.Add(tx.Amount)
		}
	}
	return net
}

// TotalDeposits sums all deposit amounts.
func (a *Account) TotalDeposits() money.Money {
	a.mu.Lock()
	defer a.mu.Unlock()

	total := money.Zero
	for _, tx := range a.txs {
		if tx.Kind == KindDeposit {
			total = total.Add(tx.Amount)
		}
	}
	return total
}

// TotalWithdrawals sums all withdrawal amounts as a positive value.
func (a *Account) TotalWithdrawals() money.Money {
	a.mu.Lock()
	defer a.mu.Unlock()

	total := money.Zero
	for _, tx := range a.txs {
		if tx.Kind == KindWithdraw {
			total = total.Sub(tx.Amount)
		}
	}
	return total
}

// Filter narrows ListTransactions. Zero fields match everything; Start and
// End are inclusive.
type Filter struct {
	Start, End time.Time
	Kinds      []Kind
	Symbol     string
}

func (f Filter) matches(tx Transaction) bool {
	if !f.Start.IsZero() && tx.Timestamp.Before(f.Start) {
		return false
	}
	if !f.End.IsZero() && tx.Timestamp.After(f.End) {
		return false
	}
	if len(f.Kinds) > 0 && !slices.Contains(f.Kinds, tx.Kind) {
		return false
	}
	if f.Symbol != "" && !strings.EqualFold(tx.Symbol, f.Symbol) {
		return false
	}
	return true
}

// ListTransactions returns matching transactions in log order. The result is
// a fresh slice; mutating it cannot touch the log.
func (a *Account) ListTransactions(f Filter) []Transaction {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]Transaction, 0)
	for _, tx := range a.txs {
		if f.matches(tx) {
			out = append(out, tx)
		}
	}
	return out
}

// TransactionByID finds one transaction, or fails with ErrNotFound.
func (a *Account) TransactionByID(txID string) (Transaction, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	for _, tx := range a.txs {
		if tx.ID == txID {
			return tx, nil
		}
	}
	return Transaction{}, fmt.Errorf("%w: %q", ErrNotFound, txID)
}

// Len returns the number of transactions in the log.
func (a *Account) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.txs)
}

// Summary is a point-in-time account overview.
type Summary struct {
	AccountID        string
	Cash             money.Money
	Holdings         map[string]int64
	PortfolioValue   money.Money
	NetContributions money.Money
	InitialDeposit   *money.Money // nil when no deposit has ever been made
	ProfitLossNet    money.Money
	Transactions     int
}

// Summarize collects cash, holdings, valuation and profit/loss in one locked
// pass. Accepts At and WithProvider options.
func (a *Account) Summarize(opts ...Option) (Summary, error) {
	o := applyOpts(opts)

	a.mu.Lock()
	defer a.mu.Unlock()

	value, err := a.portfolioValueLocked(o)
	if err != nil {
		return Summary{}, err
	}

	var cash money.Money
	if o.at.IsZero() {
		cash = a.lastBalanceLocked()
	} else {
		cash = a.balanceAsOfLocked(o.at)
	}

	net := a.netContributionsLocked(o.at)

	s := Summary{
		AccountID:        a.id,
		Cash:             cash,
		Holdings:         a.holdingsAsOfLocked(o.at),
		PortfolioValue:   value,
		NetContributions: net,
		ProfitLossNet:    value.Sub(net),
		Transactions:     len(a.txs),
	}
	if a.initialDeposit != nil {
		d := *a.initialDeposit
		s.InitialDeposit = &d
	}
	return s, nil
}

func sortedSymbols(held map[string]int64) []string {
	syms := make([]string, 0, len(held))
	for sym := range held {
		syms = append(syms, sym)
	}
	slices.Sort(syms)
	return syms
}
