package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradebook/ledger"
)

var txCmd = &cobra.Command{
	Use:   "tx",
	Short: "Inspect the transaction log",
	Long: `Inspect the transaction log.

Subcommands:
  list - List transactions, optionally filtered
  show - Show one transaction by id

Examples:
  tradebook tx list --kind buy --symbol AAPL
  tradebook tx show 01J8ZQ4H2V...`,
}

var txListCmd = &cobra.Command{
	Use:   "list",
	Short: "List transactions in log order",
	Args:  cobra.NoArgs,
	RunE:  runTxList,
}

var txShowCmd = &cobra.Command{
	Use:   "show <tx-id>",
	Short: "Show one transaction",
	Args:  cobra.ExactArgs(1),
	RunE:  runTxShow,
}

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Audit the log for internal inconsistencies",
	Long: `Replay the full log and verify chronology, cash checkpoints and
non-negative running cash and holdings. Useful after loading data that
bypassed normal append validation.`,
	Args: cobra.NoArgs,
	RunE: runReconcile,
}

var (
	txFrom   string
	txTo     string
	txKind   string
	txSymbol string
)

func init() {
	rootCmd.AddCommand(txCmd)
	rootCmd.AddCommand(reconcileCmd)
	txCmd.AddCommand(txListCmd)
	txCmd.AddCommand(txShowCmd)

	txListCmd.Flags().StringVar(&txFrom, "from", "", "inclusive start (RFC3339 or YYYY-MM-DD)")
	txListCmd.Flags().StringVar(&txTo, "to", "", "inclusive end (RFC3339 or YYYY-MM-DD)")
	txListCmd.Flags().StringVarP(&txKind, "kind", "k", "", "filter by kind: deposit, withdraw, buy or sell")
	txListCmd.Flags().StringVarP(&txSymbol, "symbol", "s", "", "filter by symbol")
}

func runTxList(cmd *cobra.Command, args []string) error {
	var f ledger.Filter

	if txFrom != "" {
		t, err := parseAt(txFrom)
		if err != nil {
			return err
		}
		f.Start = t
	}
	if txTo != "" {
		t, err := parseAt(txTo)
		if err != nil {
			return err
		}
		f.End = t
	}
	if txKind != "" {
		kind, err := ledger.ParseKind(txKind)
		if err != nil {
			return err
		}
		f.Kinds = []ledger.Kind{kind}
	}
	f.Symbol = txSymbol

	return withAccount(false, func(acct *ledger.Account) error {
		txs := acct.ListTransactions(f)
		if len(txs) == 0 {
			fmt.Println("no transactions")
			return nil
		}
		for _, tx := range txs {
			printTx(tx)
		}
		return nil
	})
}

func runTxShow(cmd *cobra.Command, args []string) error {
	return withAccount(false, func(acct *ledger.Account) error {
		tx, err := acct.TransactionByID(args[0])
		if err != nil {
			return err
		}
		printTx(tx)
		return nil
	})
}

func runReconcile(cmd *cobra.Command, args []string) error {
	return withAccount(false, func(acct *ledger.Account) error {
		issues := acct.Reconcile()
		if len(issues) == 0 {
			fmt.Println("ok")
			return nil
		}
		for _, issue := range issues {
			fmt.Println(issue)
		}
		return fmt.Errorf("%d inconsistencies found", len(issues))
	})
}
