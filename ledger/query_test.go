package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/tradebook/pricing"
)

// newHistory builds a fixed log:
//
//	ts(0) deposit  1000.00  -> 1000.00
//	ts(1) buy      2 AAPL @ 150.00 -> 700.00
//	ts(2) withdraw 100.00   -> 600.00
//	ts(3) buy      1 TSLA @ 700.00 -> rejected (insufficient), not in log
//	ts(3) sell     1 AAPL @ 160.00 -> 760.00
func newHistory(t *testing.T) *Account {
	t.Helper()

	acct := New("ACCT-HIST", WithDefaultProvider(testProvider()))

	_, err := acct.Deposit(m("1000.00"), At(ts(0)))
	require.NoError(t, err)
	_, err = acct.Buy("AAPL", 2, WithPrice(m("150.00")), At(ts(1)))
	require.NoError(t, err)
	_, err = acct.Withdraw(m("100.00"), At(ts(2)), WithNote("rent"))
	require.NoError(t, err)
	_, err = acct.Buy("TSLA", 1, At(ts(3)))
	require.ErrorIs(t, err, ErrInsufficientFunds)
	_, err = acct.Sell("AAPL", 1, WithPrice(m("160.00")), At(ts(3)))
	require.NoError(t, err)

	return acct
}

func TestCashBalanceAt(t *testing.T) {
	t.Parallel()

	acct := newHistory(t)

	assert.Equal(t, "760.00", acct.CashBalance().String())

	cases := []struct {
		at   time.Time
		want string
	}{
		{ts(0).Add(-time.Second), "0.00"},
		{ts(0), "1000.00"},
		{ts(1), "700.00"},
		{ts(2), "600.00"},
		{ts(3), "760.00"},
		{ts(99), "760.00"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, acct.CashBalanceAt(c.at).String(), c.at)
	}
}

func TestHoldingsAt(t *testing.T) {
	t.Parallel()

	acct := newHistory(t)

	assert.Equal(t, map[string]int64{"AAPL": 1}, acct.Holdings())
	assert.Empty(t, acct.HoldingsAt(ts(0)))
	assert.Equal(t, map[string]int64{"AAPL": 2}, acct.HoldingsAt(ts(1)))
	assert.Equal(t, map[string]int64{"AAPL": 1}, acct.HoldingsAt(ts(3)))

	// A cutoff past the last transaction matches the no-cutoff result.
	assert.Equal(t, acct.Holdings(), acct.HoldingsAt(ts(99)))

	// Fully closed symbols disappear.
	_, err := acct.Sell("AAPL", 1, WithPrice(m("160.00")), At(ts(4)))
	require.NoError(t, err)
	assert.Empty(t, acct.Holdings())
}

func TestHoldingsReturnsCopy(t *testing.T) {
	t.Parallel()

	acct := newHistory(t)
	held := acct.Holdings()
	held["AAPL"] = 999

	assert.Equal(t, map[string]int64{"AAPL": 1}, acct.Holdings())
}

func TestPortfolioValue(t *testing.T) {
	t.Parallel()

	acct := newHistory(t)

	// 760.00 cash + 1 AAPL at the provider's 150.00.
	value, err := acct.PortfolioValue()
	require.NoError(t, err)
	assert.Equal(t, "910.00", value.String())

	// At ts(1): 700.00 cash + 2 AAPL * 150.00.
	value, err = acct.PortfolioValue(At(ts(1)))
	require.NoError(t, err)
	assert.Equal(t, "1000.00", value.String())

	// A per-query provider overrides the default.
	value, err = acct.PortfolioValue(WithProvider(pricing.Fixed{Value: m("100.00")}))
	require.NoError(t, err)
	assert.Equal(t, "860.00", value.String())
}

func TestPortfolioValuePropagatesLookupFailure(t *testing.T) {
	t.Parallel()

	acct := New("ACCT-NOPROV")
	_, err := acct.Deposit(m("1000.00"), At(ts(0)))
	require.NoError(t, err)
	_, err = acct.Buy("AAPL", 1, WithPrice(m("150.00")), At(ts(1)))
	require.NoError(t, err)

	_, err = acct.PortfolioValue()
	assert.ErrorIs(t, err, ErrPriceLookupFailed)
}

func TestProfitLoss(t *testing.T) {
	t.Parallel()

	acct := newHistory(t)

	// Initial basis: 910.00 value - 1000.00 first deposit.
	pl, err := acct.ProfitLoss(BasisInitial)
	require.NoError(t, err)
	assert.Equal(t, "-90.00", pl.String())

	// Net basis: contributions are 1000.00 - 100.00 = 900.00.
	pl, err = acct.ProfitLoss(BasisNet)
	require.NoError(t, err)
	assert.Equal(t, "10.00", pl.String())

	_, err = acct.ProfitLoss(Basis("bogus"))
	assert.ErrorIs(t, err, ErrInvalidTransaction)
}

func TestProfitLossInitialRequiresDeposit(t *testing.T) {
	t.Parallel()

	acct := New("ACCT-EMPTY", WithDefaultProvider(testProvider()))
	_, err := acct.ProfitLoss(BasisInitial)
	assert.ErrorIs(t, err, ErrInvalidTransaction)

	// Net basis works on an empty log: 0 value, 0 contributions.
	pl, err := acct.ProfitLoss(BasisNet)
	require.NoError(t, err)
	assert.True(t, pl.IsZero())
}

func TestParseBasis(t *testing.T) {
	t.Parallel()

	b, err := ParseBasis("initial")
	require.NoError(t, err)
	assert.Equal(t, BasisInitial, b)

	b, err = ParseBasis("net")
	require.NoError(t, err)
	assert.Equal(t, BasisNet, b)

	_, err = ParseBasis("nope")
	assert.ErrorIs(t, err, ErrInvalidTransaction)
}

func TestTotals(t *testing.T) {
	t.Parallel()

	acct := newHistory(t)
	assert.Equal(t, "1000.00", acct.TotalDeposits().String())
	assert.Equal(t, "100.00", acct.TotalWithdrawals().String())
}

func TestListTransactions(t *testing.T) {
	t.Parallel()

	acct := newHistory(t)

	all := acct.ListTransactions(Filter{})
	require.Len(t, all, 4)

	// Log order is preserved.
	kinds := []Kind{}
	for _, tx := range all {
		kinds = append(kinds, tx.Kind)
	}
	assert.Equal(t, []Kind{KindDeposit, KindBuy, KindWithdraw, KindSell}, kinds)

	// Kind filter.
	trades := acct.ListTransactions(Filter{Kinds: []Kind{KindBuy, KindSell}})
	require.Len(t, trades, 2)

	// Inclusive time bounds.
	mid := acct.ListTransactions(Filter{Start: ts(1), End: ts(2)})
	require.Len(t, mid, 2)
	assert.Equal(t, KindBuy, mid[0].Kind)
	assert.Equal(t, KindWithdraw, mid[1].Kind)

	// Symbol filter is case-insensitive.
	aapl := acct.ListTransactions(Filter{Symbol: "aapl"})
	require.Len(t, aapl, 2)

	none := acct.ListTransactions(Filter{Symbol: "TSLA"})
	assert.Empty(t, none)
}

func TestListTransactionsIsACopy(t *testing.T) {
	t.Parallel()

	acct := newHistory(t)
	out := acct.ListTransactions(Filter{})
	out[0].Note = "mutated"

	again := acct.ListTransactions(Filter{})
	assert.Empty(t, again[0].Note)
}

func TestQueriesAreIdempotent(t *testing.T) {
	t.Parallel()

	acct := newHistory(t)

	first := acct.ListTransactions(Filter{})
	v1, err := acct.PortfolioValue()
	require.NoError(t, err)
	h1 := acct.Holdings()

	second := acct.ListTransactions(Filter{})
	v2, err := acct.PortfolioValue()
	require.NoError(t, err)
	h2 := acct.Holdings()

	assert.Equal(t, first, second)
	assert.True(t, v1.Equal(v2))
	assert.Equal(t, h1, h2)
	assert.Equal(t, 4, acct.Len())
}

func TestTransactionByID(t *testing.T) {
	t.Parallel()

	acct := newHistory(t)
	want := acct.ListTransactions(Filter{})[2]

	got, err := acct.TransactionByID(want.ID)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = acct.TransactionByID("nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	acct := newHistory(t)

	s, err := acct.Summarize()
	require.NoError(t, err)

	assert.Equal(t, "ACCT-HIST", s.AccountID)
	assert.Equal(t, "760.00", s.Cash.String())
	assert.Equal(t, map[string]int64{"AAPL": 1}, s.Holdings)
	assert.Equal(t, "910.00", s.PortfolioValue.String())
	assert.Equal(t, "900.00", s.NetContributions.String())
	assert.Equal(t, "10.00", s.ProfitLossNet.String())
	require.NotNil(t, s.InitialDeposit)
	assert.Equal(t, "1000.00", s.InitialDeposit.String())
	assert.Equal(t, 4, s.Transactions)
}

func TestSummarizeWithoutDeposits(t *testing.T) {
	t.Parallel()

	acct := New("ACCT-NEW", WithDefaultProvider(testProvider()))
	s, err := acct.Summarize()
	require.NoError(t, err)
	assert.Nil(t, s.InitialDeposit)
	assert.True(t, s.Cash.IsZero())
	assert.Zero(t, s.Transactions)
}

func TestNoteIsNeverInterpreted(t *testing.T) {
	t.Parallel()

	acct := newHistory(t)
	withdrawals := acct.ListTransactions(Filter{Kinds: []Kind{KindWithdraw}})
	require.Len(t, withdrawals, 1)
	assert.Equal(t, "rent", withdrawals[0].Note)

	_, err := acct.Deposit(m("1.00"), At(ts(10)), WithNote(`{"weird": "payload"}`))
	require.NoError(t, err)
	got, err := acct.TransactionByID(acct.ListTransactions(Filter{})[4].ID)
	require.NoError(t, err)
	assert.Equal(t, `{"weird": "payload"}`, got.Note)
}
