package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradebook/ledger"
	"github.com/rustyeddy/tradebook/money"
)

var buyCmd = &cobra.Command{
	Use:   "buy <symbol> <quantity>",
	Short: "Buy shares",
	Long: `Buy shares of a symbol. Without --price the unit price is resolved
through the configured price provider.

Example:
  tradebook buy AAPL 10 --price 150.00 --note "opening position"`,
	Args: cobra.ExactArgs(2),
	RunE: runBuy,
}

var sellCmd = &cobra.Command{
	Use:   "sell <symbol> <quantity>",
	Short: "Sell shares",
	Args:  cobra.ExactArgs(2),
	RunE:  runSell,
}

var (
	tradePrice string
	tradeNote  string
	tradeAt    string
)

func init() {
	rootCmd.AddCommand(buyCmd)
	rootCmd.AddCommand(sellCmd)

	for _, c := range []*cobra.Command{buyCmd, sellCmd} {
		c.Flags().StringVarP(&tradePrice, "price", "p", "", "explicit unit price (overrides the provider)")
		c.Flags().StringVarP(&tradeNote, "note", "n", "", "free-text annotation")
		c.Flags().StringVar(&tradeAt, "at", "", "event timestamp (RFC3339 or YYYY-MM-DD)")
	}
}

func tradeArgs(args []string) (string, int64, []ledger.Option, error) {
	symbol := args[0]
	quantity, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return "", 0, nil, fmt.Errorf("bad quantity %q: must be an integer", args[1])
	}

	var opts []ledger.Option
	if tradePrice != "" {
		price, err := money.Parse(tradePrice)
		if err != nil {
			return "", 0, nil, fmt.Errorf("bad price: %w", err)
		}
		opts = append(opts, ledger.WithPrice(price))
	}
	if tradeNote != "" {
		opts = append(opts, ledger.WithNote(tradeNote))
	}
	if tradeAt != "" {
		t, err := parseAt(tradeAt)
		if err != nil {
			return "", 0, nil, err
		}
		opts = append(opts, ledger.At(t))
	}
	return symbol, quantity, opts, nil
}

func runBuy(cmd *cobra.Command, args []string) error {
	symbol, quantity, opts, err := tradeArgs(args)
	if err != nil {
		return err
	}

	return withAccount(true, func(acct *ledger.Account) error {
		tx, err := acct.Buy(symbol, quantity, opts...)
		if err != nil {
			return fmt.Errorf("buy rejected: %w", err)
		}
		printTx(tx)
		return nil
	})
}

func runSell(cmd *cobra.Command, args []string) error {
	symbol, quantity, opts, err := tradeArgs(args)
	if err != nil {
		return err
	}

	return withAccount(true, func(acct *ledger.Account) error {
		tx, err := acct.Sell(symbol, quantity, opts...)
		if err != nil {
			return fmt.Errorf("sell rejected: %w", err)
		}
		printTx(tx)
		return nil
	})
}
