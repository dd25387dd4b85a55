// Package pricing resolves unit prices for ticker symbols.
//
// The ledger consumes the Provider capability and never caches what it
// returns; anything beyond "positive after quantization" is the provider's
// business.
package pricing

import (
	"fmt"
	"strings"
	"time"

	"github.com/rustyeddy/tradebook/money"
)

// Provider resolves the unit price of a symbol at a point in time.
// A zero `at` means "now". Implementations must return a positive price or an
// error; the ledger surfaces any error as a failed price lookup.
type Provider interface {
	Price(symbol string, at time.Time) (money.Money, error)
}

// Func adapts a plain function to the Provider interface.
type Func func(symbol string, at time.Time) (money.Money, error)

func (f Func) Price(symbol string, at time.Time) (money.Money, error) {
	return f(symbol, at)
}

// Static serves prices from a fixed symbol table. Symbols are matched
// case-insensitively; unknown symbols fail.
type Static struct {
	table map[string]money.Money
}

// NewStatic builds a Static provider from a symbol→price table.
func NewStatic(table map[string]money.Money) *Static {
	t := make(map[string]money.Money, len(table))
	for sym, price := range table {
		t[strings.ToUpper(sym)] = price
	}
	return &Static{table: t}
}

// NewTestProvider returns the reference provider used across tests and demos:
// AAPL 150.00, TSLA 700.00, GOOGL 2800.00.
func NewTestProvider() *Static {
	return NewStatic(map[string]money.Money{
		"AAPL":  money.MustParse("150.00"),
		"TSLA":  money.MustParse("700.00"),
		"GOOGL": money.MustParse("2800.00"),
	})
}

func (s *Static) Price(symbol string, _ time.Time) (money.Money, error) {
	price, ok := s.table[strings.ToUpper(symbol)]
	if !ok {
		return money.Zero, fmt.Errorf("unknown symbol %q", symbol)
	}
	return price, nil
}

// Fixed returns the same price for every symbol. It backs explicit per-trade
// price overrides and keeps tests deterministic.
type Fixed struct {
	Value money.Money
}

func (f Fixed) Price(string, time.Time) (money.Money, error) {
	return f.Value, nil
}
