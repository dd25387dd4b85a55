package ledger

import "errors"

// The ledger reports every failure as one of these sentinels, wrapped with
// detail. Callers branch with errors.Is; none of them are retried internally.
var (
	// ErrInvalidTransaction covers bad amounts, quantities, symbols,
	// non-chronological timestamps and unsupported profit/loss bases.
	ErrInvalidTransaction = errors.New("invalid transaction")

	// ErrInsufficientFunds means a withdraw or buy would push the cash
	// balance negative as of the operation's timestamp.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInsufficientShares means a sell exceeds the net holdings of the
	// symbol as of the operation's timestamp.
	ErrInsufficientShares = errors.New("insufficient shares")

	// ErrPriceLookupFailed means no price could be resolved for a symbol.
	ErrPriceLookupFailed = errors.New("price lookup failed")

	// ErrNotFound means no transaction matches the requested ID.
	ErrNotFound = errors.New("transaction not found")
)
