// Package money provides exact fixed-point cash arithmetic for the ledger.
//
// Every Money value is quantized to two fractional digits (cents) the moment
// it is constructed, so values read back from a Transaction or a query are
// always comparable with plain equality. No float64 ever reaches the log.
package money

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Scale is the number of fractional digits every Money value carries.
const Scale int32 = 2

// ErrInvalidAmount reports input that cannot be represented as an exact
// decimal amount.
var ErrInvalidAmount = errors.New("invalid amount")

// Money is a quantized decimal cash value.
//
// The zero value is 0.00 and ready to use.
type Money struct {
	value decimal.Decimal
}

// Zero is the 0.00 amount.
var Zero = Money{}

// quantize rounds to Scale digits, halves rounding up (0.005 -> 0.01).
func quantize(d decimal.Decimal) decimal.Decimal {
	return d.Round(Scale)
}

// Parse converts a decimal string such as "150.00" or "-3.5" into Money,
// quantizing the result. It fails with ErrInvalidAmount when the input is not
// a decimal number.
func Parse(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return Money{value: quantize(d)}, nil
}

// MustParse is Parse for literals in tests and tables. It panics on bad input.
func MustParse(s string) Money {
	m, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return m
}

// FromFloat quantizes a float64 into Money. Useful at API edges (CLI flags);
// the binary representation error is absorbed by the rounding.
func FromFloat(f float64) Money {
	return Money{value: quantize(decimal.NewFromFloat(f))}
}

// FromDecimal quantizes an arbitrary decimal into Money.
func FromDecimal(d decimal.Decimal) Money {
	return Money{value: quantize(d)}
}

// Decimal returns the underlying quantized decimal value.
func (m Money) Decimal() decimal.Decimal { return m.value }

// Add returns m + n.
func (m Money) Add(n Money) Money { return Money{value: m.value.Add(n.value)} }

// Sub returns m - n.
func (m Money) Sub(n Money) Money { return Money{value: m.value.Sub(n.value)} }

// Neg returns -m.
func (m Money) Neg() Money { return Money{value: m.value.Neg()} }

// MulInt returns m × n re-quantized, the price-times-quantity operation.
// Re-quantizing after every multiplication keeps the scale from drifting.
func (m Money) MulInt(n int64) Money {
	return Money{value: quantize(m.value.Mul(decimal.NewFromInt(n)))}
}

// DivInt returns m ÷ n re-quantized. n must be non-zero.
func (m Money) DivInt(n int64) Money {
	return Money{value: quantize(m.value.Div(decimal.NewFromInt(n)))}
}

// Comparisons are exact on the quantized representation.

func (m Money) Cmp(n Money) int                 { return m.value.Cmp(n.value) }
func (m Money) Equal(n Money) bool              { return m.value.Equal(n.value) }
func (m Money) LessThan(n Money) bool           { return m.value.LessThan(n.value) }
func (m Money) LessThanOrEqual(n Money) bool    { return m.value.LessThanOrEqual(n.value) }
func (m Money) GreaterThan(n Money) bool        { return m.value.GreaterThan(n.value) }
func (m Money) GreaterThanOrEqual(n Money) bool { return m.value.GreaterThanOrEqual(n.value) }
func (m Money) IsZero() bool                    { return m.value.IsZero() }
func (m Money) IsPositive() bool                { return m.value.IsPositive() }
func (m Money) IsNegative() bool                { return m.value.IsNegative() }

// String renders the value with exactly Scale digits, e.g. "150.00".
func (m Money) String() string { return m.value.StringFixed(Scale) }

// MarshalJSON encodes Money as its decimal string, never a JSON number.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.String() + `"`), nil
}

// UnmarshalJSON accepts the decimal-string form and re-quantizes it.
func (m *Money) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidAmount, data)
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
