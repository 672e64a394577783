package cmd

import (
	"fmt"
	"os"

	"ibc_tool/pkg/core/calculator"
	"ibc_tool/pkg/core/config"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	cfgFile    string
	presetFile string
)

var rootCmd = &cobra.Command{
	Use:   "ibc",
	Short: "Investment banking calculator",
	Long: `ibc is a keypad calculator with valuation models, a memory bank
and mock currency conversion.

Models:
  dcf      - Five-year DCF from a base free cash flow
  npv/irr  - Discounted cash flow returns
  payback  - Payback period in years
  comps    - Trading multiples
  lbo      - Leveraged buyout sizing and sponsor returns
  wacc     - CAPM / Hamada cost of capital`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		godotenv.Load()
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default: $IBC_CONFIG or ./config/calculator.yaml)")
	rootCmd.PersistentFlags().StringVar(&presetFile, "preset", "", "Memory preset file (JSON or Hjson)")
}

// newCalculator builds a calculator from the config file and optional preset
func newCalculator() (*calculator.Calculator, error) {
	var (
		cfg *config.Config
		err error
	)
	if cfgFile != "" {
		cfg, err = config.Load(cfgFile)
	} else {
		cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		return nil, err
	}

	c := cfg.NewCalculator()
	if presetFile != "" {
		data, err := os.ReadFile(presetFile)
		if err != nil {
			return nil, fmt.Errorf("read preset: %w", err)
		}
		if err := c.LoadPreset(string(data)); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func printError(msg string, err error) {
	fmt.Fprintf(os.Stderr, "Error: %s: %v\n", msg, err)
}
