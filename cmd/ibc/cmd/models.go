package cmd

import (
	"fmt"
	"strconv"

	"ibc_tool/pkg/core/calculator"
	"ibc_tool/pkg/core/memory"
	"ibc_tool/pkg/core/valuation"

	"github.com/spf13/cobra"
)

var (
	dcfWACC   float64
	dcfGrowth float64

	flowRate       float64
	flowInvestment float64

	lboEBITDA     float64
	lboLeverage   float64
	lboDebtEquity float64
	lboEquity     float64

	compsEV      float64
	compsRevenue float64
	compsEBITDA  float64
	compsIncome  float64
	compsCap     float64
	compsShares  float64

	waccInput valuation.WACCInput
	waccFCF   float64
)

var dcfCmd = &cobra.Command{
	Use:   "dcf <free-cash-flow>",
	Short: "Five-year DCF enterprise value",
	Long: `Projects the free cash flow five years with growth fading from 15%
by 2 points a year (floored at terminal growth) and adds a Gordon growth
terminal value. Rates are in percent.

Examples:
  ibc dcf 100                  # 1967
  ibc dcf 100 --wacc 10 --tg 3`,
	Args: cobra.ExactArgs(1),
	RunE: runDCF,
}

var npvCmd = &cobra.Command{
	Use:   "npv <cash-flow>...",
	Short: "Net present value of the investment and cash flows",
	Long: `Discounts [-investment, cash flows...] at --rate percent.

Negative cash flows look like flags; put them after "--".

Examples:
  ibc npv --investment 1000 300 300 300 300 300
  ibc npv --investment 1000 -- -200 600 600 600`,
	Args: cobra.MinimumNArgs(1),
	RunE: runFlowModel(calculator.ModelNPV),
}

var irrCmd = &cobra.Command{
	Use:   "irr <cash-flow>...",
	Short: "Internal rate of return in percent",
	Long: `Solves [-investment, cash flows...] for the rate where NPV is zero.
Negative cash flows look like flags; put them after "--".

Examples:
  ibc irr --investment 1000 -- 500 -100 800`,
	Args: cobra.MinimumNArgs(1),
	RunE:  runFlowModel(calculator.ModelIRR),
}

var paybackCmd = &cobra.Command{
	Use:   "payback <cash-flow>...",
	Short: "Payback period in years",
	Long: `Years until cumulative cash flows recover the investment.
Negative cash flows look like flags; put them after "--".`,
	Args: cobra.MinimumNArgs(1),
	RunE:  runFlowModel(calculator.ModelPayback),
}

var lboCmd = &cobra.Command{
	Use:   "lbo",
	Short: "Leveraged buyout sizing and sponsor returns",
	Long: `Sizes debt from EBITDA and leverage, derives the equity cheque and
sweeps free cash against debt over a five-year hold.

Examples:
  ibc lbo --ebitda 100                       # 600 debt, 150 equity
  ibc lbo --ebitda 100 --leverage 5 --equity 400`,
	RunE: runLBO,
}

var compsCmd = &cobra.Command{
	Use:   "comps",
	Short: "Trading multiples for a company",
	RunE:  runComps,
}

var waccCmd = &cobra.Command{
	Use:   "wacc",
	Short: "Cost of capital via CAPM and the Hamada equation",
	Long: `Relevers the asset beta at the target D/E, prices equity with CAPM
and blends it with after-tax debt. Inputs are decimals; the result is stored
as the memory bank WACC (percent). With --fcf a DCF is run at that rate.

Examples:
  ibc wacc --beta 1.0 --rf 0.04 --mrp 0.05 --kd 0.06 --tax 0.25 --de 0.5
  ibc wacc --de 1 --fcf 100`,
	RunE: runWACC,
}

func init() {
	rootCmd.AddCommand(dcfCmd, npvCmd, irrCmd, paybackCmd, lboCmd, compsCmd, waccCmd)

	dcfCmd.Flags().Float64Var(&dcfWACC, "wacc", 0, "WACC in percent (default: memory bank)")
	dcfCmd.Flags().Float64Var(&dcfGrowth, "tg", 0, "Terminal growth in percent (default: memory bank)")

	for _, c := range []*cobra.Command{npvCmd, irrCmd, paybackCmd} {
		c.Flags().Float64Var(&flowRate, "rate", 0, "Discount rate in percent (default: memory bank)")
		c.Flags().Float64Var(&flowInvestment, "investment", 0, "Initial investment at t=0 (default: memory bank)")
	}

	lboCmd.Flags().Float64Var(&lboEBITDA, "ebitda", 0, "Entry EBITDA")
	lboCmd.Flags().Float64Var(&lboLeverage, "leverage", 0, "Debt / EBITDA (default: memory bank)")
	lboCmd.Flags().Float64Var(&lboDebtEquity, "de", 0, "Debt / equity (default: memory bank)")
	lboCmd.Flags().Float64Var(&lboEquity, "equity", 0, "Sponsor equity cheque (default: derived)")

	compsCmd.Flags().Float64Var(&compsEV, "ev", 0, "Enterprise value")
	compsCmd.Flags().Float64Var(&compsRevenue, "revenue", 0, "Revenue")
	compsCmd.Flags().Float64Var(&compsEBITDA, "ebitda", 0, "EBITDA")
	compsCmd.Flags().Float64Var(&compsIncome, "net-income", 0, "Net income")
	compsCmd.Flags().Float64Var(&compsCap, "market-cap", 0, "Market capitalisation")
	compsCmd.Flags().Float64Var(&compsShares, "shares", 0, "Shares outstanding")

	waccCmd.Flags().Float64Var(&waccInput.UnleveredBeta, "beta", 1.0, "Unlevered beta")
	waccCmd.Flags().Float64Var(&waccInput.RiskFreeRate, "rf", 0.04, "Risk-free rate")
	waccCmd.Flags().Float64Var(&waccInput.MarketRiskPremium, "mrp", 0.05, "Market risk premium")
	waccCmd.Flags().Float64Var(&waccInput.PreTaxCostOfDebt, "kd", 0.06, "Pre-tax cost of debt")
	waccCmd.Flags().Float64Var(&waccInput.TaxRate, "tax", 0.25, "Tax rate")
	waccCmd.Flags().Float64Var(&waccInput.DebtToEquityRatio, "de", 0.5, "Target debt / equity")
	waccCmd.Flags().Float64Var(&waccFCF, "fcf", 0, "Free cash flow to value at the computed WACC")
}

// storeFlag writes a flag into memory when the user set it
func storeFlag(cmd *cobra.Command, c *calculator.Calculator, flag string, key memory.Key, v float64) {
	if cmd.Flags().Changed(flag) {
		c.Memory.Store(key, v)
	}
}

func parseFloats(args []string) ([]float64, error) {
	out := make([]float64, 0, len(args))
	for _, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", a)
		}
		out = append(out, v)
	}
	return out, nil
}

func printLast(cmd *cobra.Command, c *calculator.Calculator) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, c.Display())
	if recent := c.History.Recent(1); len(recent) == 1 {
		fmt.Fprintf(out, "  %s\n", recent[0])
	}
}

func runDCF(cmd *cobra.Command, args []string) error {
	fcf, err := parseFloats(args)
	if err != nil {
		return err
	}
	c, err := newCalculator()
	if err != nil {
		return err
	}
	storeFlag(cmd, c, "wacc", memory.WACC, dcfWACC)
	storeFlag(cmd, c, "tg", memory.TerminalGrowth, dcfGrowth)

	c.Enter(fcf[0])
	res := c.DCF()
	printLast(cmd, c)

	out := cmd.OutOrStdout()
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Year  Growth      FCF       PV")
	for _, y := range res.Years {
		fmt.Fprintf(out, "%4d  %5.1f%%  %7.2f  %7.2f\n", y.Year, y.Growth*100, y.FreeCashFlow, y.PresentValue)
	}
	fmt.Fprintf(out, "PV of FCF:      %.2f\n", res.PV_FCF)
	fmt.Fprintf(out, "Terminal value: %.2f (PV %.2f)\n", res.TerminalValue, res.PV_Terminal)
	return nil
}

func runFlowModel(model string) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		flows, err := parseFloats(args)
		if err != nil {
			return err
		}
		c, err := newCalculator()
		if err != nil {
			return err
		}
		storeFlag(cmd, c, "rate", memory.DiscountRate, flowRate)
		storeFlag(cmd, c, "investment", memory.InitialInvestment, flowInvestment)
		c.Memory.ClearCashFlows()
		for _, f := range flows {
			c.Memory.AddCashFlow(f)
		}

		if err := c.RunModel(model); err != nil {
			return err
		}
		printLast(cmd, c)
		return nil
	}
}

func runLBO(cmd *cobra.Command, args []string) error {
	c, err := newCalculator()
	if err != nil {
		return err
	}
	storeFlag(cmd, c, "ebitda", memory.EBITDA, lboEBITDA)
	storeFlag(cmd, c, "leverage", memory.DebtEbitdaMultiple, lboLeverage)
	storeFlag(cmd, c, "de", memory.DebtEquityRatio, lboDebtEquity)
	storeFlag(cmd, c, "equity", memory.InitialInvestment, lboEquity)

	res := c.LBO()
	printLast(cmd, c)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Entry EV:     %.2f (%.1fx)\n", res.EntryEV, res.ImpliedEntryMultiple)
	fmt.Fprintf(out, "Exit EV:      %.2f\n", res.ExitEV)
	fmt.Fprintf(out, "Exit debt:    %.2f\n", res.ExitDebt)
	fmt.Fprintf(out, "Exit equity:  %.2f\n", res.ExitEquityValue)
	fmt.Fprintf(out, "Max entry EV: %.2f\n", res.MaxEntryEV)
	return nil
}

func runComps(cmd *cobra.Command, args []string) error {
	c, err := newCalculator()
	if err != nil {
		return err
	}
	storeFlag(cmd, c, "ev", memory.Enterprise, compsEV)
	storeFlag(cmd, c, "revenue", memory.Revenue, compsRevenue)
	storeFlag(cmd, c, "ebitda", memory.EBITDA, compsEBITDA)
	storeFlag(cmd, c, "net-income", memory.NetIncome, compsIncome)
	storeFlag(cmd, c, "market-cap", memory.MarketCap, compsCap)
	storeFlag(cmd, c, "shares", memory.Shares, compsShares)

	r := c.Comps()
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "EV/Revenue:  %.2fx\n", r.EV_Revenue)
	fmt.Fprintf(out, "EV/EBITDA:   %.2fx\n", r.EV_EBITDA)
	fmt.Fprintf(out, "P/E:         %.2fx\n", r.PE_Ratio)
	fmt.Fprintf(out, "P/S:         %.2fx\n", r.PriceToSales)
	fmt.Fprintf(out, "Price/Share: %.2f\n", r.PricePerShare)
	return nil
}

func runWACC(cmd *cobra.Command, args []string) error {
	c, err := newCalculator()
	if err != nil {
		return err
	}
	res, err := c.WACC(waccInput)
	if err != nil {
		return err
	}
	printLast(cmd, c)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "  Levered beta:   %.4f\n", res.LeveredBeta)
	fmt.Fprintf(out, "  Cost of equity: %.4f%%\n", res.CostOfEquity*100)
	fmt.Fprintf(out, "  Cost of debt:   %.4f%% (after tax)\n", res.CostOfDebt*100)
	fmt.Fprintf(out, "  Weights D/E:    %.1f%% / %.1f%%\n", res.WeightDebt*100, res.WeightEquity*100)

	if cmd.Flags().Changed("fcf") {
		c.Enter(waccFCF)
		c.DCF()
		fmt.Fprintln(out)
		printLast(cmd, c)
	}
	return nil
}
