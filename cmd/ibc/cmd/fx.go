package cmd

import (
	"context"
	"fmt"
	"strconv"

	"ibc_tool/pkg/core/fx"

	"github.com/spf13/cobra"
)

var ratesRefresh bool

var convertCmd = &cobra.Command{
	Use:   "convert <amount> <from> <to>",
	Short: "Convert an amount between currencies",
	Long: `Converts with the mock rate table (units per USD).

Examples:
  ibc convert 100 USD EUR      # 91.5000
  ibc convert 0.001 JPY USD    # 0.000007`,
	Args: cobra.ExactArgs(3),
	RunE: runConvert,
}

var ratesCmd = &cobra.Command{
	Use:   "rates",
	Short: "List exchange rates",
	Long: `Lists the rate table. With --refresh a simulated market update is
applied first.`,
	RunE: runRates,
}

func init() {
	rootCmd.AddCommand(convertCmd, ratesCmd)

	ratesCmd.Flags().BoolVar(&ratesRefresh, "refresh", false, "Simulate a rate refresh first")
}

func runConvert(cmd *cobra.Command, args []string) error {
	amount, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return fmt.Errorf("invalid amount %q", args[0])
	}
	c, err := newCalculator()
	if err != nil {
		return err
	}
	if err := c.SelectCurrencies(args[1], args[2]); err != nil {
		return err
	}
	c.Enter(amount)
	if err := c.ConvertDisplay(); err != nil {
		return err
	}
	printLast(cmd, c)
	return nil
}

func runRates(cmd *cobra.Command, args []string) error {
	c, err := newCalculator()
	if err != nil {
		return err
	}
	if ratesRefresh {
		if _, err := c.RefreshRates(context.Background()); err != nil {
			return err
		}
	}

	snap := c.Rates.Snapshot()
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Rates per %s (snapshot %s)\n", fx.BaseCurrency, snap.ID)
	if !snap.UpdatedAt.IsZero() {
		fmt.Fprintf(out, "Updated %s\n", snap.UpdatedAt.Format("2006-01-02 15:04:05"))
	}
	for _, code := range snap.Codes() {
		fmt.Fprintf(out, "  %s  %-20s %12s\n", code, fx.CurrencyName(code), fx.FormatFixed(snap.Rates[code], 4))
	}
	return nil
}
