package store

// Monetary columns are TEXT decimal strings, never REAL: the ledger's
// exact-cents contract must survive a round trip through storage.
const schema = `
CREATE TABLE IF NOT EXISTS accounts (
	account_id TEXT PRIMARY KEY,
	initial_deposit TEXT
);

CREATE TABLE IF NOT EXISTS transactions (
	tx_id TEXT PRIMARY KEY,
	account_id TEXT NOT NULL REFERENCES accounts(account_id),
	seq INTEGER NOT NULL,
	timestamp DATETIME NOT NULL,
	kind TEXT NOT NULL,
	amount TEXT NOT NULL,
	symbol TEXT,
	quantity INTEGER,
	price TEXT,
	cash_balance_after TEXT NOT NULL,
	note TEXT
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_tx_account_seq ON transactions(account_id, seq);
CREATE INDEX IF NOT EXISTS idx_tx_timestamp ON transactions(timestamp);
`
