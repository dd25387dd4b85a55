package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradebook/config"
	"github.com/rustyeddy/tradebook/ledger"
	"github.com/rustyeddy/tradebook/store"
)

var rootCmd = &cobra.Command{
	Use:   "tradebook",
	Short: "An append-only cash and equity ledger for a single trading account",
	Long: `Tradebook records deposits, withdrawals, buys and sells in an
append-only transaction log and answers point-in-time queries (balance,
holdings, valuation, profit/loss) by replaying that log.

All amounts are exact decimal cents; the log is chronological by
construction and persisted to SQLite.`,
	SilenceUsage: true,
}

var (
	cfgPath   string
	dbPath    string
	accountID string
)

// Execute adds all child commands to the root command and runs it.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "config file (YAML or JSON)")
	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "path to SQLite database (overrides config)")
	rootCmd.PersistentFlags().StringVarP(&accountID, "account", "a", "", "account id (overrides config)")
}

// loadConfig merges the config file (or defaults) with command-line
// overrides.
func loadConfig() (*config.Config, error) {
	var cfg *config.Config
	if cfgPath != "" {
		loaded, err := config.LoadFromFile(cfgPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else {
		cfg = config.Default()
	}
	if dbPath != "" {
		cfg.Store.DBPath = dbPath
	}
	if accountID != "" {
		cfg.Account.ID = accountID
	}
	return cfg, nil
}

// withAccount opens the store, loads the account (creating it if it has never
// been saved) and hands it to fn. When save is true the account is written
// back after fn succeeds.
func withAccount(save bool, fn func(acct *ledger.Account) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	st, err := store.NewSQLite(cfg.Store.DBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer st.Close()

	provider := ledger.WithDefaultProvider(cfg.Provider())

	acct, err := st.Load(cfg.Account.ID, provider)
	if errors.Is(err, store.ErrAccountNotFound) {
		acct = ledger.New(cfg.Account.ID, provider)
	} else if err != nil {
		return fmt.Errorf("load account: %w", err)
	}

	if err := fn(acct); err != nil {
		return err
	}

	if save {
		if err := st.Save(acct); err != nil {
			return fmt.Errorf("save account: %w", err)
		}
	}
	return nil
}

// parseAt accepts an RFC3339 timestamp or a plain date.
func parseAt(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad timestamp %q (want RFC3339 or YYYY-MM-DD)", s)
	}
	return t, nil
}

// printTx renders one transaction the same way everywhere.
func printTx(tx ledger.Transaction) {
	fmt.Printf("%s  %s  %-8s  %10s", tx.ID, tx.Timestamp.Format(time.RFC3339), tx.Kind, tx.Amount)
	if tx.Kind.IsTrade() {
		fmt.Printf("  %s x%d @ %s", tx.Symbol, tx.Quantity, tx.UnitPrice)
	}
	fmt.Printf("  balance %s", tx.CashBalanceAfter)
	if tx.Note != "" {
		fmt.Printf("  (%s)", tx.Note)
	}
	fmt.Println()
}
