package ledger

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/rustyeddy/tradebook/money"
)

// Snapshot is the canonical serialized form of an account: identity, the
// captured first deposit, and the full transaction log. Monetary fields are
// decimal strings; timestamps are ISO-8601.
type Snapshot struct {
	AccountID      string       `json:"account_id"`
	InitialDeposit *money.Money `json:"initial_deposit"`
	Transactions   []Record     `json:"transactions"`
}

// Record is one serialized transaction. Symbol, quantity, price and note are
// null for cash-only kinds.
type Record struct {
	ID               string       `json:"id"`
	Timestamp        time.Time    `json:"timestamp"`
	Kind             string       `json:"type"`
	Amount           money.Money  `json:"amount"`
	Symbol           *string      `json:"symbol"`
	Quantity         *int64       `json:"quantity"`
	Price            *money.Money `json:"price"`
	CashBalanceAfter money.Money  `json:"cash_balance_after"`
	Note             *string      `json:"note"`
}

// Snapshot captures the account for persistence. The result shares nothing
// with the live log.
func (a *Account) Snapshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()

	s := Snapshot{
		AccountID:    a.id,
		Transactions: make([]Record, 0, len(a.txs)),
	}
	if a.initialDeposit != nil {
		d := *a.initialDeposit
		s.InitialDeposit = &d
	}
	for _, tx := range a.txs {
		s.Transactions = append(s.Transactions, recordFromTx(tx))
	}
	return s
}

func recordFromTx(tx Transaction) Record {
	rec := Record{
		ID:               tx.ID,
		Timestamp:        tx.Timestamp,
		Kind:             string(tx.Kind),
		Amount:           tx.Amount,
		CashBalanceAfter: tx.CashBalanceAfter,
	}
	if tx.Kind.IsTrade() {
		sym, qty, price := tx.Symbol, tx.Quantity, tx.UnitPrice
		rec.Symbol, rec.Quantity, rec.Price = &sym, &qty, &price
	}
	if tx.Note != "" {
		note := tx.Note
		rec.Note = &note
	}
	return rec
}

// Load rebuilds an account by replaying every snapshot record through the
// append protocol: chronology is re-validated, monetary fields arrive
// re-quantized from decoding, and cash checkpoints are recomputed rather than
// trusted. Funds and shares checks are not re-run; historical records are
// taken as already-validated fact.
func Load(s Snapshot, opts ...AccountOption) (*Account, error) {
	a := New(s.AccountID, opts...)

	for i, rec := range s.Transactions {
		tx, err := txFromRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		if err := a.checkChronologyLocked(tx.Timestamp); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		a.appendLocked(tx)
		if tx.Kind == KindDeposit && a.initialDeposit == nil {
			first := tx.Amount
			a.initialDeposit = &first
		}
	}
	return a, nil
}

func txFromRecord(rec Record) (Transaction, error) {
	kind, err := ParseKind(rec.Kind)
	if err != nil {
		return Transaction{}, err
	}

	tx := Transaction{
		ID:        rec.ID,
		Timestamp: rec.Timestamp.UTC(),
		Kind:      kind,
		Amount:    rec.Amount,
	}
	if rec.Note != nil {
		tx.Note = *rec.Note
	}

	if kind.IsTrade() {
		if rec.Symbol == nil || *rec.Symbol == "" {
			return Transaction{}, fmt.Errorf("%w: %s record without symbol", ErrInvalidTransaction, kind)
		}
		if rec.Quantity == nil || *rec.Quantity <= 0 {
			return Transaction{}, fmt.Errorf("%w: %s record without positive quantity", ErrInvalidTransaction, kind)
		}
		if rec.Price == nil || !rec.Price.IsPositive() {
			return Transaction{}, fmt.Errorf("%w: %s record without positive price", ErrInvalidTransaction, kind)
		}
		sym, err := normalizeSymbol(*rec.Symbol)
		if err != nil {
			return Transaction{}, err
		}
		tx.Symbol = sym
		tx.Quantity = *rec.Quantity
		tx.UnitPrice = *rec.Price
	}
	return tx, nil
}

// WriteJSON encodes the snapshot as indented JSON.
func (a *Account) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(a.Snapshot())
}

// ReadJSON decodes a snapshot document and replays it through Load.
func ReadJSON(r io.Reader, opts ...AccountOption) (*Account, error) {
	var s Snapshot
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return Load(s, opts...)
}
