package ledger

import (
	"fmt"
	"time"

	"github.com/rustyeddy/tradebook/money"
)

// Kind is the type of a ledger event.
type Kind string

const (
	KindDeposit  Kind = "deposit"
	KindWithdraw Kind = "withdraw"
	KindBuy      Kind = "buy"
	KindSell     Kind = "sell"
)

// ParseKind validates a kind string from external input (CLI flags, stored
// rows, snapshots).
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindDeposit, KindWithdraw, KindBuy, KindSell:
		return Kind(s), nil
	}
	return "", fmt.Errorf("%w: unknown kind %q", ErrInvalidTransaction, s)
}

// IsTrade reports whether the kind carries symbol, quantity and unit price.
func (k Kind) IsTrade() bool { return k == KindBuy || k == KindSell }

func (k Kind) String() string { return string(k) }

// Transaction is one immutable ledger event. Once appended it is never
// modified; corrections are new transactions.
type Transaction struct {
	// ID is a ULID, unique per event, never reused.
	ID string

	// Timestamp is the logical event time, UTC. The log is non-decreasing
	// in this field by construction.
	Timestamp time.Time

	Kind Kind

	// Amount is the signed cash delta: positive for deposit/sell, negative
	// for withdraw/buy.
	Amount money.Money

	// Symbol, Quantity and UnitPrice are set only when Kind.IsTrade().
	// Symbol is always upper-case.
	Symbol    string
	Quantity  int64
	UnitPrice money.Money

	// CashBalanceAfter is the account's cash immediately after this event.
	// It is a replay checkpoint, recomputed on load, not a source of truth.
	CashBalanceAfter money.Money

	// Note is free text, never interpreted.
	Note string
}
