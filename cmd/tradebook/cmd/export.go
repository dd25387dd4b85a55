package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradebook/ledger"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the account",
	Long: `Export the account.

Subcommands:
  csv  - Write the transaction log as CSV (output-only view)
  json - Write the canonical snapshot document

Examples:
  tradebook export csv -o transactions.csv
  tradebook export json -o account.json`,
}

var exportCSVCmd = &cobra.Command{
	Use:   "csv",
	Short: "Export the transaction log as CSV",
	Args:  cobra.NoArgs,
	RunE:  runExportCSV,
}

var exportJSONCmd = &cobra.Command{
	Use:   "json",
	Short: "Export the canonical JSON snapshot",
	Args:  cobra.NoArgs,
	RunE:  runExportJSON,
}

var exportOut string

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.AddCommand(exportCSVCmd)
	exportCmd.AddCommand(exportJSONCmd)

	exportCmd.PersistentFlags().StringVarP(&exportOut, "output", "o", "", "output file (default stdout)")
}

func exportTo(fn func(acct *ledger.Account, w *os.File) error) error {
	return withAccount(false, func(acct *ledger.Account) error {
		w := os.Stdout
		if exportOut != "" {
			f, err := os.Create(exportOut)
			if err != nil {
				return fmt.Errorf("create output: %w", err)
			}
			defer f.Close()
			w = f
		}
		return fn(acct, w)
	})
}

func runExportCSV(cmd *cobra.Command, args []string) error {
	return exportTo(func(acct *ledger.Account, w *os.File) error {
		return acct.WriteCSV(w)
	})
}

func runExportJSON(cmd *cobra.Command, args []string) error {
	return exportTo(func(acct *ledger.Account, w *os.File) error {
		return acct.WriteJSON(w)
	})
}
