// Package store persists ledger accounts in SQLite.
//
// Saving writes the account's full snapshot; loading reads rows back in
// append order and replays them through the ledger loader, so chronology is
// re-validated and cash checkpoints are recomputed rather than trusted.
package store

import (
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/rustyeddy/tradebook/ledger"
)

// ErrAccountNotFound means no stored account matches the requested id.
var ErrAccountNotFound = errors.New("account not found")

type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLite{db: db}, nil
}

// Save writes the account's snapshot, replacing any previously stored rows
// for the same account id. The write is a single SQL transaction.
func (s *SQLite) Save(a *ledger.Account) error {
	snap := a.Snapshot()

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM transactions WHERE account_id = ?`, snap.AccountID); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM accounts WHERE account_id = ?`, snap.AccountID); err != nil {
		return err
	}

	var initial *string
	if snap.InitialDeposit != nil {
		v := snap.InitialDeposit.String()
		initial = &v
	}
	if _, err := tx.Exec(`INSERT INTO accounts (account_id, initial_deposit) VALUES (?, ?)`,
		snap.AccountID, initial); err != nil {
		return err
	}

	for seq, rec := range snap.Transactions {
		var price *string
		if rec.Price != nil {
			v := rec.Price.String()
			price = &v
		}
		if _, err := tx.Exec(`
			INSERT INTO transactions
			(tx_id, account_id, seq, timestamp, kind, amount, symbol, quantity, price, cash_balance_after, note)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			rec.ID, snap.AccountID, seq, rec.Timestamp, rec.Kind,
			rec.Amount.String(), rec.Symbol, rec.Quantity, price,
			rec.CashBalanceAfter.String(), rec.Note,
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Load rebuilds an account from its stored rows in append order.
func (s *SQLite) Load(accountID string, opts ...ledger.AccountOption) (*ledger.Account, error) {
	var exists int
	err := s.db.QueryRow(`SELECT 1 FROM accounts WHERE account_id = ?`, accountID).Scan(&exists)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %q", ErrAccountNotFound, accountID)
	}
	if err != nil {
		return nil, err
	}

	recs, err := s.listRecords(`
		SELECT tx_id, timestamp, kind, amount, symbol, quantity, price, cash_balance_after, note
		FROM transactions
		WHERE account_id = ?
		ORDER BY seq ASC`, accountID)
	if err != nil {
		return nil, err
	}

	snap := ledger.Snapshot{AccountID: accountID, Transactions: recs}
	return ledger.Load(snap, opts...)
}

// ListAccounts returns every stored account id.
func (s *SQLite) ListAccounts() ([]string, error) {
	rows, err := s.db.Query(`SELECT account_id FROM accounts ORDER BY account_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
