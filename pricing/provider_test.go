package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/tradebook/money"
)

func TestStaticKnownSymbols(t *testing.T) {
	t.Parallel()

	p := NewTestProvider()

	price, err := p.Price("AAPL", time.Time{})
	require.NoError(t, err)
	assert.Equal(t, "150.00", price.String())

	// Case-insensitive lookup.
	price, err = p.Price("googl", time.Time{})
	require.NoError(t, err)
	assert.Equal(t, "2800.00", price.String())
}

func TestStaticUnknownSymbol(t *testing.T) {
	t.Parallel()

	p := NewTestProvider()
	_, err := p.Price("MSFT", time.Time{})
	assert.Error(t, err)
}

func TestFixedIgnoresSymbol(t *testing.T) {
	t.Parallel()

	f := Fixed{Value: money.MustParse("42.42")}
	for _, sym := range []string{"AAPL", "ANYTHING", ""} {
		price, err := f.Price(sym, time.Now())
		require.NoError(t, err)
		assert.Equal(t, "42.42", price.String())
	}
}

func TestFuncAdapter(t *testing.T) {
	t.Parallel()

	calls := 0
	p := Func(func(symbol string, at time.Time) (money.Money, error) {
		calls++
		return money.MustParse("1.00"), nil
	})

	price, err := p.Price("AAPL", time.Time{})
	require.NoError(t, err)
	assert.Equal(t, "1.00", price.String())
	assert.Equal(t, 1, calls)
}
