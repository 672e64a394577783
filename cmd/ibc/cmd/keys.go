package cmd

import (
	"fmt"
	"strings"
	"time"

	"ibc_tool/pkg/core/calculator"
	"ibc_tool/pkg/core/utils"

	"github.com/spf13/cobra"
)

var (
	keysHistory bool
	keysReport  string
)

var keysCmd = &cobra.Command{
	Use:   "keys <sequence>...",
	Short: "Press a key sequence and print the display",
	Long: `Presses every key in the sequence on a fresh calculator.

Examples:
  ibc keys "5 + 3 × 2 ="             # 16
  ibc keys 100 dcf                   # 1967 with the default memory bank
  ibc keys "9 sto:wacc AC 100 dcf"
  ibc keys --history "2 ^ 10 = sqrt"
  ibc keys --report md "1 + 1 ="`,
	Args: cobra.MinimumNArgs(1),
	RunE: runKeys,
}

func init() {
	rootCmd.AddCommand(keysCmd)

	keysCmd.Flags().BoolVar(&keysHistory, "history", false, "Print the calculation history")
	keysCmd.Flags().StringVar(&keysReport, "report", "", "Print the history report: md, html or text")
}

func runKeys(cmd *cobra.Command, args []string) error {
	c, err := newCalculator()
	if err != nil {
		return err
	}

	if err := c.PressAll(strings.Join(args, " ")); err != nil {
		printError("key rejected", err)
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, c.Display())

	if keysHistory {
		for _, e := range c.History.Entries() {
			fmt.Fprintf(out, "  %s\n", e)
		}
	}
	if keysReport != "" {
		report, err := renderReport(c, keysReport)
		if err != nil {
			return err
		}
		fmt.Fprint(out, report)
	}
	return nil
}

// renderReport formats the history as markdown, HTML or plain text lines
func renderReport(c *calculator.Calculator, format string) (string, error) {
	now := time.Now()
	switch format {
	case "md", "markdown":
		return c.History.Markdown(now), nil
	case "html":
		return c.History.HTML(now)
	case "text":
		html, err := c.History.HTML(now)
		if err != nil {
			return "", err
		}
		items, err := utils.ListItems(html)
		if err != nil {
			return "", err
		}
		var sb strings.Builder
		for i, item := range items {
			fmt.Fprintf(&sb, "%2d. %s\n", i+1, item)
		}
		return sb.String(), nil
	}
	return "", fmt.Errorf("unknown report format %q", format)
}
