// Package ledger implements an append-only, single-account transaction log
// with replay-based queries.
//
// An Account owns an ordered sequence of Transactions and derives every
// balance, holding and valuation by folding over that sequence, never from a
// separately mutated running total. All invariants (no negative cash, no
// negative holdings, non-decreasing timestamps, exact-cents checkpoints) are
// enforced before a transaction is appended; a failed operation leaves the
// log untouched.
package ledger

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rustyeddy/tradebook/money"
	"github.com/rustyeddy/tradebook/pkg/id"
	"github.com/rustyeddy/tradebook/pricing"
)

// Account is an append-only ledger for one owner in one currency.
//
// All mutating and replay-based query operations serialize behind a single
// mutex, so an Account is safe for concurrent use. Price resolution happens
// inside the critical section; a slow provider blocks the account.
type Account struct {
	mu             sync.Mutex
	id             string
	provider       pricing.Provider
	initialDeposit *money.Money
	txs            []Transaction
}

// AccountOption configures a new Account.
type AccountOption func(*Account)

// WithDefaultProvider sets the provider used by Buy/Sell and valuation
// queries when no per-call provider or explicit price is given.
func WithDefaultProvider(p pricing.Provider) AccountOption {
	return func(a *Account) { a.provider = p }
}

// New creates an empty ledger for accountID.
func New(accountID string, opts ...AccountOption) *Account {
	a := &Account{id: accountID}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// ID returns the account identifier, stable for the ledger's lifetime.
func (a *Account) ID() string { return a.id }

// InitialDeposit returns the amount of the first ever deposit, or nil if no
// deposit has occurred yet. Once set it never changes.
func (a *Account) InitialDeposit() *money.Money {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.initialDeposit == nil {
		return nil
	}
	d := *a.initialDeposit
	return &d
}

// Option configures a single operation or query.
type Option func(*txOpts)

type txOpts struct {
	at       time.Time
	note     string
	price    *money.Money
	provider pricing.Provider
}

// At sets the logical event time (or the query cutoff). Operations default to
// the current time; queries default to the whole log.
func At(t time.Time) Option {
	return func(o *txOpts) { o.at = t.UTC() }
}

// WithNote attaches a free-text annotation to the transaction.
func WithNote(note string) Option {
	return func(o *txOpts) { o.note = note }
}

// WithPrice supplies an explicit unit price for a buy or sell, taking
// priority over any provider.
func WithPrice(p money.Money) Option {
	return func(o *txOpts) { o.price = &p }
}

// WithProvider overrides the account's default price provider for one call.
func WithProvider(p pricing.Provider) Option {
	return func(o *txOpts) { o.provider = p }
}

func applyOpts(opts []Option) txOpts {
	var o txOpts
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// timestamp returns the operation's event time, defaulting to now.
func (o txOpts) timestamp() time.Time {
	if o.at.IsZero() {
		return time.Now().UTC()
	}
	return o.at
}

// Deposit appends a positive cash delta. The first deposit ever recorded also
// fixes the account's initial deposit.
func (a *Account) Deposit(amount money.Money, opts ...Option) (Transaction, error) {
	o := applyOpts(opts)
	if !amount.IsPositive() {
		return Transaction{}, fmt.Errorf("%w: deposit amount must be positive, got %s", ErrInvalidTransaction, amount)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	ts := o.timestamp()
	if err := a.checkChronologyLocked(ts); err != nil {
		return Transaction{}, err
	}

	tx := a.appendLocked(Transaction{
		ID:        id.New(),
		Timestamp: ts,
		Kind:      KindDeposit,
		Amount:    amount,
		Note:      o.note,
	})
	if a.initialDeposit == nil {
		first := amount
		a.initialDeposit = &first
	}
	return tx, nil
}

// Withdraw appends a negative cash delta. The cash balance as of the
// operation's timestamp must cover the amount.
func (a *Account) Withdraw(amount money.Money, opts ...Option) (Transaction, error) {
	o := applyOpts(opts)
	if !amount.IsPositive() {
		return Transaction{}, fmt.Errorf("%w: withdraw amount must be positive, got %s", ErrInvalidTransaction, amount)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	ts := o.timestamp()
	if err := a.checkChronologyLocked(ts); err != nil {
		return Transaction{}, err
	}

	if balance := a.balanceAsOfLocked(ts); balance.LessThan(amount) {
		return Transaction{}, fmt.Errorf("%w: withdraw %s exceeds cash %s", ErrInsufficientFunds, amount, balance)
	}

	return a.appendLocked(Transaction{
		ID:        id.New(),
		Timestamp: ts,
		Kind:      KindWithdraw,
		Amount:    amount.Neg(),
		Note:      o.note,
	}), nil
}

// Buy appends a share purchase. The unit price comes from WithPrice, the
// per-call provider, or the account default, in that order. The total cost,
// quantized price × quantity, must not exceed the cash balance as of the
// operation's timestamp.
func (a *Account) Buy(symbol string, quantity int64, opts ...Option) (Transaction, error) {
	o := applyOpts(opts)
	sym, err := normalizeSymbol(symbol)
	if err != nil {
		return Transaction{}, err
	}
	if quantity <= 0 {
		return Transaction{}, fmt.Errorf("%w: buy quantity must be positive, got %d", ErrInvalidTransaction, quantity)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	ts := o.timestamp()
	if err := a.checkChronologyLocked(ts); err != nil {
		return Transaction{}, err
	}

	price, err := a.resolvePrice(sym, ts, o)
	if err != nil {
		return Transaction{}, err
	}

	cost := price.MulInt(quantity)
	if balance := a.balanceAsOfLocked(ts); cost.GreaterThan(balance) {
		return Transaction{}, fmt.Errorf("%w: buy %d %s at %s costs %s, cash %s",
			ErrInsufficientFunds, quantity, sym, price, cost, balance)
	}

	return a.appendLocked(Transaction{
		ID:        id.New(),
		Timestamp: ts,
		Kind:      KindBuy,
		Amount:    cost.Neg(),
		Symbol:    sym,
		Quantity:  quantity,
		UnitPrice: price,
		Note:      o.note,
	}), nil
}

// Sell appends a share sale. Net holdings of the symbol as of the operation's
// timestamp must cover the quantity; the check replays the log up to that
// timestamp rather than trusting the latest holdings.
func (a *Account) Sell(symbol string, quantity int64, opts ...Option) (Transaction, error) {
	o := applyOpts(opts)
	sym, err := normalizeSymbol(symbol)
	if err != nil {
		return Transaction{}, err
	}
	if quantity <= 0 {
		return Transaction{}, fmt.Errorf("%w: sell quantity must be positive, got %d", ErrInvalidTransaction, quantity)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	ts := o.timestamp()
	if err := a.checkChronologyLocked(ts); err != nil {
		return Transaction{}, err
	}

	if held := a.holdingsAsOfLocked(ts)[sym]; held < quantity {
		return Transaction{}, fmt.Errorf("%w: sell %d %s, holding %d",
			ErrInsufficientShares, quantity, sym, held)
	}

	price, err := a.resolvePrice(sym, ts, o)
	if err != nil {
		return Transaction{}, err
	}

	return a.appendLocked(Transaction{
		ID:        id.New(),
		Timestamp: ts,
		Kind:      KindSell,
		Amount:    price.MulInt(quantity),
		Symbol:    sym,
		Quantity:  quantity,
		UnitPrice: price,
		Note:      o.note,
	}), nil
}

func normalizeSymbol(symbol string) (string, error) {
	sym := strings.ToUpper(strings.TrimSpace(symbol))
	if sym == "" {
		return "", fmt.Errorf("%w: symbol must be non-empty", ErrInvalidTransaction)
	}
	return sym, nil
}

// resolvePrice picks the unit price for a trade: explicit override first,
// then the per-call provider, then the account default.
func (a *Account) resolvePrice(sym string, ts time.Time, o txOpts) (money.Money, error) {
	if o.price != nil {
		if !o.price.IsPositive() {
			return money.Zero, fmt.Errorf("%w: price must be positive, got %s", ErrInvalidTransaction, *o.price)
		}
		return *o.price, nil
	}

	p := o.provider
	if p == nil {
		p = a.provider
	}
	if p == nil {
		return money.Zero, fmt.Errorf("%w: no price provider for %s", ErrPriceLookupFailed, sym)
	}

	price, err := p.Price(sym, ts)
	if err != nil {
		return money.Zero, fmt.Errorf("%w: %s: %v", ErrPriceLookupFailed, sym, err)
	}
	if !price.IsPositive() {
		return money.Zero, fmt.Errorf("%w: non-positive price %s for %s", ErrPriceLookupFailed, price, sym)
	}
	return price, nil
}

// checkChronologyLocked rejects timestamps strictly earlier than the last
// appended transaction. Equal timestamps are fine.
func (a *Account) checkChronologyLocked(ts time.Time) error {
	if n := len(a.txs); n > 0 && ts.Before(a.txs[n-1].Timestamp) {
		return fmt.Errorf("%w: non-chronological append: %s is before %s",
			ErrInvalidTransaction,
			ts.Format(time.RFC3339Nano),
			a.txs[n-1].Timestamp.Format(time.RFC3339Nano))
	}
	return nil
}

// appendLocked stamps the cash checkpoint and adds the transaction to the
// log. All validation has already happened.
func (a *Account) appendLocked(tx Transaction) Transaction {
	tx.CashBalanceAfter = a.lastBalanceLocked().Add(tx.Amount)
	a.txs = append(a.txs, tx)
	return tx
}

// lastBalanceLocked reads the cached checkpoint of the final transaction.
func (a *Account) lastBalanceLocked() money.Money {
	if n := len(a.txs); n > 0 {
		return a.txs[n-1].CashBalanceAfter
	}
	return money.Zero
}

// balanceAsOfLocked sums cash deltas up to and including the cutoff.
func (a *Account) balanceAsOfLocked(at time.Time) money.Money {
	balance := money.Zero
	for _, tx := range a.txs {
		if tx.Timestamp.After(at) {
			break
		}
		balance = balance.Add(tx.Amount)
	}
	return balance
}

// holdingsAsOfLocked nets buy and sell quantities per symbol up to and
// including the cutoff. A zero cutoff means the whole log.
func (a *Account) holdingsAsOfLocked(at time.Time) map[string]int64 {
	held := make(map[string]int64)
	for _, tx := range a.txs {
		if !at.IsZero() && tx.Timestamp.After(at) {
			break
		}
		switch tx.Kind {
		case KindBuy:
			held[tx.Symbol] += tx.Quantity
		case KindSell:
			held[tx.Symbol] -= tx.Quantity
		}
	}
	for sym, qty := range held {
		if qty == 0 {
			delete(held, sym)
		}
	}
	return held
}
