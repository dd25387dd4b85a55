package ledger

import (
	"fmt"

	"github.com/rustyeddy/tradebook/money"
)

// Issue is one inconsistency found by Reconcile.
type Issue struct {
	Index   int    // position in the log
	TxID    string
	Problem string
}

func (i Issue) String() string {
	return fmt.Sprintf("tx[%d] %s: %s", i.Index, i.TxID, i.Problem)
}

// Reconcile replays the full log as an offline integrity audit, independent
// of the append-time checks. It verifies chronology, cash checkpoints,
// non-negative running cash and non-negative running holdings per symbol.
// A nil result means the log is consistent. Intended for logs bulk-loaded
// from storage that bypassed normal append validation.
func (a *Account) Reconcile() []Issue {
	a.mu.Lock()
	defer a.mu.Unlock()

	var issues []Issue
	report := func(i int, tx Transaction, format string, args ...any) {
		issues = append(issues, Issue{
			Index:   i,
			TxID:    tx.ID,
			Problem: fmt.Sprintf(format, args...),
		})
	}

	cash := money.Zero
	held := make(map[string]int64)

	for i, tx := range a.txs {
		if i > 0 && tx.Timestamp.Before(a.txs[i-1].Timestamp) {
			report(i, tx, "timestamp %s precedes previous transaction", tx.Timestamp.Format("2006-01-02T15:04:05Z07:00"))
		}

		cash = cash.Add(tx.Amount)
		if !cash.Equal(tx.CashBalanceAfter) {
			report(i, tx, "cash checkpoint %s, replay gives %s", tx.CashBalanceAfter, cash)
		}
		if cash.IsNegative() {
			report(i, tx, "running cash negative: %s", cash)
		}

		switch tx.Kind {
		case KindBuy:
			held[tx.Symbol] += tx.Quantity
		case KindSell:
			held[tx.Symbol] -= tx.Quantity
			if held[tx.Symbol] < 0 {
				report(i, tx, "running holdings of %s negative: %d", tx.Symbol, held[tx.Symbol])
			}
		}
	}
	return issues
}
