package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/tradebook/pricing"
)

func TestPositionsAverageCost(t *testing.T) {
	t.Parallel()

	acct := New("ACCT-POS", WithDefaultProvider(testProvider()))
	_, err := acct.Deposit(m("10000.00"), At(ts(0)))
	require.NoError(t, err)

	// 10 @ 100.00 then 10 @ 200.00 -> average 150.00.
	_, err = acct.Buy("AAPL", 10, WithPrice(m("100.00")), At(ts(1)))
	require.NoError(t, err)
	_, err = acct.Buy("AAPL", 10, WithPrice(m("200.00")), At(ts(2)))
	require.NoError(t, err)

	positions, err := acct.Positions()
	require.NoError(t, err)
	require.Len(t, positions, 1)

	p := positions[0]
	assert.Equal(t, "AAPL", p.Symbol)
	assert.EqualValues(t, 20, p.Quantity)
	assert.Equal(t, "150.00", p.AvgCost.String())
	assert.Equal(t, "150.00", p.MarketPrice.String())
	assert.Equal(t, "3000.00", p.MarketValue.String())
	assert.Equal(t, "0.00", p.RealizedPL.String())
	assert.Equal(t, "0.00", p.UnrealizedPL.String())
}

func TestPositionsRealizedAndUnrealized(t *testing.T) {
	t.Parallel()

	acct := New("ACCT-PNL", WithDefaultProvider(testProvider()))
	_, err := acct.Deposit(m("10000.00"), At(ts(0)))
	require.NoError(t, err)

	_, err = acct.Buy("AAPL", 10, WithPrice(m("100.00")), At(ts(1)))
	require.NoError(t, err)
	// Sell 4 at 130.00: realized (130-100)*4 = 120.00.
	_, err = acct.Sell("AAPL", 4, WithPrice(m("130.00")), At(ts(2)))
	require.NoError(t, err)

	positions, err := acct.Positions(WithProvider(pricing.Fixed{Value: m("110.00")}))
	require.NoError(t, err)
	require.Len(t, positions, 1)

	p := positions[0]
	assert.EqualValues(t, 6, p.Quantity)
	assert.Equal(t, "100.00", p.AvgCost.String())
	assert.Equal(t, "120.00", p.RealizedPL.String())
	// Unrealized (110-100)*6 = 60.00.
	assert.Equal(t, "60.00", p.UnrealizedPL.String())

	b, err := acct.ProfitLossBreakdown(WithProvider(pricing.Fixed{Value: m("110.00")}))
	require.NoError(t, err)
	assert.Equal(t, "120.00", b.Realized.String())
	assert.Equal(t, "60.00", b.Unrealized.String())
	assert.Equal(t, "180.00", b.Total.String())
}

func TestBreakdownKeepsRealizedOfClosedPositions(t *testing.T) {
	t.Parallel()

	acct := New("ACCT-CLOSED", WithDefaultProvider(testProvider()))
	_, err := acct.Deposit(m("10000.00"), At(ts(0)))
	require.NoError(t, err)

	_, err = acct.Buy("TSLA", 2, WithPrice(m("700.00")), At(ts(1)))
	require.NoError(t, err)
	_, err = acct.Sell("TSLA", 2, WithPrice(m("750.00")), At(ts(2)))
	require.NoError(t, err)

	// The TSLA position is closed; realized P&L must survive.
	positions, err := acct.Positions()
	require.NoError(t, err)
	assert.Empty(t, positions)

	b, err := acct.ProfitLossBreakdown()
	require.NoError(t, err)
	assert.Equal(t, "100.00", b.Realized.String())
	assert.Equal(t, "0.00", b.Unrealized.String())
	assert.Equal(t, "100.00", b.Total.String())
}

func TestPositionsSortedBySymbol(t *testing.T) {
	t.Parallel()

	acct := New("ACCT-SORT", WithDefaultProvider(testProvider()))
	_, err := acct.Deposit(m("10000.00"), At(ts(0)))
	require.NoError(t, err)
	_, err = acct.Buy("TSLA", 1, At(ts(1)))
	require.NoError(t, err)
	_, err = acct.Buy("GOOGL", 1, At(ts(2)))
	require.NoError(t, err)
	_, err = acct.Buy("AAPL", 1, At(ts(3)))
	require.NoError(t, err)

	positions, err := acct.Positions()
	require.NoError(t, err)
	require.Len(t, positions, 3)
	assert.Equal(t, "AAPL", positions[0].Symbol)
	assert.Equal(t, "GOOGL", positions[1].Symbol)
	assert.Equal(t, "TSLA", positions[2].Symbol)
}

func TestPositionsPropagateLookupFailure(t *testing.T) {
	t.Parallel()

	acct := New("ACCT-NOPRICE")
	_, err := acct.Deposit(m("1000.00"), At(ts(0)))
	require.NoError(t, err)
	_, err = acct.Buy("AAPL", 1, WithPrice(m("150.00")), At(ts(1)))
	require.NoError(t, err)

	_, err = acct.Positions()
	assert.ErrorIs(t, err, ErrPriceLookupFailed)

	_, err = acct.ProfitLossBreakdown()
	assert.ErrorIs(t, err, ErrPriceLookupFailed)
}
