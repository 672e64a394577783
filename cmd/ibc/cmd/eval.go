package cmd

import (
	"strings"

	"github.com/spf13/cobra"
)

var evalCmd = &cobra.Command{
	Use:   "eval <expression>",
	Short: "Evaluate an expression with normal operator precedence",
	Long: `Unlike the keypad, which evaluates strictly left to right, eval
honours precedence and parentheses. Memory slots are variables.

Examples:
  ibc eval "(5 + 3) * 2"                 # 16
  ibc eval "ebitda * debtEbitdaMultiple" --preset deal.hjson`,
	Args: cobra.MinimumNArgs(1),
	RunE: runEval,
}

func init() {
	rootCmd.AddCommand(evalCmd)
}

func runEval(cmd *cobra.Command, args []string) error {
	c, err := newCalculator()
	if err != nil {
		return err
	}
	if _, err := c.Evaluate(strings.Join(args, " ")); err != nil {
		return err
	}
	printLast(cmd, c)
	return nil
}
