package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradebook/ledger"
	"github.com/rustyeddy/tradebook/money"
)

var depositCmd = &cobra.Command{
	Use:   "deposit <amount>",
	Short: "Record a cash deposit",
	Args:  cobra.ExactArgs(1),
	RunE:  runDeposit,
}

var withdrawCmd = &cobra.Command{
	Use:   "withdraw <amount>",
	Short: "Record a cash withdrawal",
	Args:  cobra.ExactArgs(1),
	RunE:  runWithdraw,
}

var (
	cashNote string
	cashAt   string
)

func init() {
	rootCmd.AddCommand(depositCmd)
	rootCmd.AddCommand(withdrawCmd)

	for _, c := range []*cobra.Command{depositCmd, withdrawCmd} {
		c.Flags().StringVarP(&cashNote, "note", "n", "", "free-text annotation")
		c.Flags().StringVar(&cashAt, "at", "", "event timestamp (RFC3339 or YYYY-MM-DD)")
	}
}

func cashOpts() ([]ledger.Option, error) {
	var opts []ledger.Option
	if cashNote != "" {
		opts = append(opts, ledger.WithNote(cashNote))
	}
	if cashAt != "" {
		t, err := parseAt(cashAt)
		if err != nil {
			return nil, err
		}
		opts = append(opts, ledger.At(t))
	}
	return opts, nil
}

func runDeposit(cmd *cobra.Command, args []string) error {
	amount, err := money.Parse(args[0])
	if err != nil {
		return fmt.Errorf("deposit rejected: %w", err)
	}
	opts, err := cashOpts()
	if err != nil {
		return err
	}

	return withAccount(true, func(acct *ledger.Account) error {
		tx, err := acct.Deposit(amount, opts...)
		if err != nil {
			return fmt.Errorf("deposit rejected: %w", err)
		}
		printTx(tx)
		return nil
	})
}

func runWithdraw(cmd *cobra.Command, args []string) error {
	amount, err := money.Parse(args[0])
	if err != nil {
		return fmt.Errorf("withdraw rejected: %w", err)
	}
	opts, err := cashOpts()
	if err != nil {
		return err
	}

	return withAccount(true, func(acct *ledger.Account) error {
		tx, err := acct.Withdraw(amount, opts...)
		if err != nil {
			return fmt.Errorf("withdraw rejected: %w", err)
		}
		printTx(tx)
		return nil
	})
}
