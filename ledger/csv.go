package ledger

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"
)

// csvHeader is the fixed column order of the export.
var csvHeader = []string{
	"id", "timestamp", "type", "amount", "symbol",
	"quantity", "price", "cash_balance_after", "note",
}

// WriteCSV exports the full log, one row per transaction. This is an
// output-only view; loading goes through the JSON snapshot or the store.
func (a *Account) WriteCSV(w io.Writer) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for _, tx := range a.txs {
		row := []string{
			tx.ID,
			tx.Timestamp.Format(time.RFC3339Nano),
			string(tx.Kind),
			tx.Amount.String(),
			"", "", "",
			tx.CashBalanceAfter.String(),
			tx.Note,
		}
		if tx.Kind.IsTrade() {
			row[4] = tx.Symbol
			row[5] = strconv.FormatInt(tx.Quantity, 10)
			row[6] = tx.UnitPrice.String()
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
