package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rustyeddy/tradebook/ledger"
	"github.com/rustyeddy/tradebook/money"
)

// GetTransaction returns a single stored record by transaction ID.
func (s *SQLite) GetTransaction(txID string) (ledger.Record, error) {
	recs, err := s.listRecords(`
		SELECT tx_id, timestamp, kind, amount, symbol, quantity, price, cash_balance_after, note
		FROM transactions
		WHERE tx_id = ?`, txID)
	if err != nil {
		return ledger.Record{}, err
	}
	if len(recs) == 0 {
		return ledger.Record{}, fmt.Errorf("transaction %q not found", txID)
	}
	return recs[0], nil
}

// ListBetween returns an account's records with timestamp in [start, end),
// in append order.
func (s *SQLite) ListBetween(accountID string, start, end time.Time) ([]ledger.Record, error) {
	return s.listRecords(`
		SELECT tx_id, timestamp, kind, amount, symbol, quantity, price, cash_balance_after, note
		FROM transactions
		WHERE account_id = ? AND timestamp >= ? AND timestamp < ?
		ORDER BY seq ASC`, accountID, start, end)
}

func (s *SQLite) listRecords(query string, args ...any) ([]ledger.Record, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ledger.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func scanRecord(rows *sql.Rows) (ledger.Record, error) {
	var (
		rec      ledger.Record
		amount   string
		balance  string
		symbol   sql.NullString
		quantity sql.NullInt64
		price    sql.NullString
		note     sql.NullString
	)

	if err := rows.Scan(
		&rec.ID,
		&rec.Timestamp,
		&rec.Kind,
		&amount,
		&symbol,
		&quantity,
		&price,
		&balance,
		&note,
	); err != nil {
		return ledger.Record{}, err
	}

	var err error
	if rec.Amount, err = money.Parse(amount); err != nil {
		return ledger.Record{}, fmt.Errorf("tx %s: bad amount: %w", rec.ID, err)
	}
	if rec.CashBalanceAfter, err = money.Parse(balance); err != nil {
		return ledger.Record{}, fmt.Errorf("tx %s: bad cash_balance_after: %w", rec.ID, err)
	}
	if symbol.Valid {
		rec.Symbol = &symbol.String
	}
	if quantity.Valid {
		rec.Quantity = &quantity.Int64
	}
	if price.Valid {
		p, err := money.Parse(price.String)
		if err != nil {
			return ledger.Record{}, fmt.Errorf("tx %s: bad price: %w", rec.ID, err)
		}
		rec.Price = &p
	}
	if note.Valid {
		rec.Note = &note.String
	}
	return rec, nil
}
