package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradebook/ledger"
)

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Show the cash balance",
	Args:  cobra.NoArgs,
	RunE:  runBalance,
}

var holdingsCmd = &cobra.Command{
	Use:   "holdings",
	Short: "Show net share holdings per symbol",
	Args:  cobra.NoArgs,
	RunE:  runHoldings,
}

var valueCmd = &cobra.Command{
	Use:   "value",
	Short: "Show total portfolio value (cash plus priced holdings)",
	Args:  cobra.NoArgs,
	RunE:  runValue,
}

var plCmd = &cobra.Command{
	Use:   "pl",
	Short: "Show profit/loss against a basis",
	Long: `Show profit/loss: portfolio value minus the chosen basis.

  --basis initial   against the first ever deposit
  --basis net       against net contributions (deposits minus withdrawals)`,
	Args: cobra.NoArgs,
	RunE: runPL,
}

var positionsCmd = &cobra.Command{
	Use:   "positions",
	Short: "Show open positions with average cost and P/L breakdown",
	Args:  cobra.NoArgs,
	RunE:  runPositions,
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show a full account overview",
	Args:  cobra.NoArgs,
	RunE:  runSummary,
}

var (
	reportAt string
	plBasis  string
)

func init() {
	rootCmd.AddCommand(balanceCmd)
	rootCmd.AddCommand(holdingsCmd)
	rootCmd.AddCommand(valueCmd)
	rootCmd.AddCommand(plCmd)
	rootCmd.AddCommand(positionsCmd)
	rootCmd.AddCommand(summaryCmd)

	for _, c := range []*cobra.Command{balanceCmd, holdingsCmd, valueCmd, plCmd, positionsCmd, summaryCmd} {
		c.Flags().StringVar(&reportAt, "at", "", "point-in-time cutoff (RFC3339 or YYYY-MM-DD)")
	}
	plCmd.Flags().StringVarP(&plBasis, "basis", "b", "initial", "profit/loss basis: initial or net")
}

func reportOpts() ([]ledger.Option, error) {
	var opts []ledger.Option
	if reportAt != "" {
		t, err := parseAt(reportAt)
		if err != nil {
			return nil, err
		}
		opts = append(opts, ledger.At(t))
	}
	return opts, nil
}

func runBalance(cmd *cobra.Command, args []string) error {
	return withAccount(false, func(acct *ledger.Account) error {
		if reportAt != "" {
			t, err := parseAt(reportAt)
			if err != nil {
				return err
			}
			fmt.Println(acct.CashBalanceAt(t))
			return nil
		}
		fmt.Println(acct.CashBalance())
		return nil
	})
}

func runHoldings(cmd *cobra.Command, args []string) error {
	return withAccount(false, func(acct *ledger.Account) error {
		held := acct.Holdings()
		if reportAt != "" {
			t, err := parseAt(reportAt)
			if err != nil {
				return err
			}
			held = acct.HoldingsAt(t)
		}
		if len(held) == 0 {
			fmt.Println("no holdings")
			return nil
		}
		for sym, qty := range held {
			fmt.Printf("%-8s %d\n", sym, qty)
		}
		return nil
	})
}

func runValue(cmd *cobra.Command, args []string) error {
	opts, err := reportOpts()
	if err != nil {
		return err
	}
	return withAccount(false, func(acct *ledger.Account) error {
		value, err := acct.PortfolioValue(opts...)
		if err != nil {
			return fmt.Errorf("valuation failed: %w", err)
		}
		fmt.Println(value)
		return nil
	})
}

func runPL(cmd *cobra.Command, args []string) error {
	basis, err := ledger.ParseBasis(plBasis)
	if err != nil {
		return err
	}
	opts, err := reportOpts()
	if err != nil {
		return err
	}
	return withAccount(false, func(acct *ledger.Account) error {
		pl, err := acct.ProfitLoss(basis, opts...)
		if err != nil {
			return fmt.Errorf("profit/loss failed: %w", err)
		}
		fmt.Println(pl)
		return nil
	})
}

func runPositions(cmd *cobra.Command, args []string) error {
	opts, err := reportOpts()
	if err != nil {
		return err
	}
	return withAccount(false, func(acct *ledger.Account) error {
		positions, err := acct.Positions(opts...)
		if err != nil {
			return fmt.Errorf("positions failed: %w", err)
		}
		if len(positions) == 0 {
			fmt.Println("no open positions")
		}
		for _, p := range positions {
			fmt.Printf("%-8s %6d  avg %10s  mkt %10s  value %12s  realized %10s  unrealized %10s\n",
				p.Symbol, p.Quantity, p.AvgCost, p.MarketPrice, p.MarketValue, p.RealizedPL, p.UnrealizedPL)
		}

		b, err := acct.ProfitLossBreakdown(opts...)
		if err != nil {
			return fmt.Errorf("positions failed: %w", err)
		}
		fmt.Printf("realized %s  unrealized %s  total %s\n", b.Realized, b.Unrealized, b.Total)
		return nil
	})
}

func runSummary(cmd *cobra.Command, args []string) error {
	opts, err := reportOpts()
	if err != nil {
		return err
	}
	return withAccount(false, func(acct *ledger.Account) error {
		s, err := acct.Summarize(opts...)
		if err != nil {
			return fmt.Errorf("summary failed: %w", err)
		}

		fmt.Printf("account          %s\n", s.AccountID)
		fmt.Printf("cash             %s\n", s.Cash)
		fmt.Printf("portfolio value  %s\n", s.PortfolioValue)
		if s.InitialDeposit != nil {
			fmt.Printf("initial deposit  %s\n", *s.InitialDeposit)
			fmt.Printf("p/l (initial)    %s\n", s.PortfolioValue.Sub(*s.InitialDeposit))
		}
		fmt.Printf("contributions    %s\n", s.NetContributions)
		fmt.Printf("p/l (net)        %s\n", s.ProfitLossNet)
		fmt.Printf("transactions     %d\n", s.Transactions)
		for sym, qty := range s.Holdings {
			fmt.Printf("  %-8s %d\n", sym, qty)
		}
		return nil
	})
}
