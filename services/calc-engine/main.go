package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"ibc_tool/pkg/core/config"
	"ibc_tool/pkg/core/fx"
	"ibc_tool/pkg/core/utils"
	"ibc_tool/pkg/core/valuation"

	"github.com/joho/godotenv"
)

// CashFlowData is the payload for npv, irr and payback. Flows[0] is at t=0.
type CashFlowData struct {
	Rate  float64   `json:"rate"` // Decimal
	Flows []float64 `json:"flows"`
}

type CompsData struct {
	Target valuation.MetricInput      `json:"target"`
	Peers  []valuation.PeerComparable `json:"peers"`
}

// ConvertData converts an amount. Without inline rates the table of the
// IBC_CONFIG file is used, falling back to the built-in one.
type ConvertData struct {
	Amount float64            `json:"amount"`
	From   string             `json:"from"`
	To     string             `json:"to"`
	Rates  map[string]float64 `json:"rates,omitempty"`
}

func main() {
	godotenv.Load()

	mode := flag.String("mode", "dcf", "Model: dcf, npv, irr, payback, comps, transactions, lbo, wacc, convert")
	dataStr := flag.String("data", "", "JSON data payload")
	flag.Parse()

	if *dataStr == "" {
		fmt.Println("Error: No data provided")
		os.Exit(1)
	}

	result, err := run(*mode, *dataStr)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.Encode(result)
}

// run evaluates a single model against a lenient JSON payload
func run(mode, data string) (interface{}, error) {
	parse := func(v interface{}) error {
		if _, err := utils.SmartParse(data, v); err != nil {
			return fmt.Errorf("unmarshaling %s data: %w", mode, err)
		}
		return nil
	}

	switch mode {
	case "dcf":
		var in valuation.DCFInput
		if err := parse(&in); err != nil {
			return nil, err
		}
		return valuation.CalculateDCF(in), nil

	case "npv":
		var in CashFlowData
		if err := parse(&in); err != nil {
			return nil, err
		}
		return map[string]float64{"npv": valuation.NPV(in.Rate, in.Flows)}, nil

	case "irr":
		var in CashFlowData
		if err := parse(&in); err != nil {
			return nil, err
		}
		irr, err := valuation.IRR(in.Flows)
		if err != nil {
			return nil, err
		}
		return map[string]float64{"irr": irr}, nil

	case "payback":
		var in CashFlowData
		if err := parse(&in); err != nil {
			return nil, err
		}
		years, ok := valuation.PaybackPeriod(in.Flows)
		return map[string]interface{}{"years": years, "paid_back": ok}, nil

	case "comps", "transactions":
		var in CompsData
		if err := parse(&in); err != nil {
			return nil, err
		}
		out := map[string]interface{}{"ratios": valuation.CalculateRatios(in.Target)}
		if mode == "comps" {
			out["range"] = valuation.CalculateComps(in.Target, in.Peers)
		} else {
			out["range"] = valuation.CalculateTransactions(in.Target, in.Peers)
		}
		return out, nil

	case "lbo":
		var in valuation.LBOInput
		if err := parse(&in); err != nil {
			return nil, err
		}
		return valuation.CalculateLBO(in), nil

	case "wacc":
		var in valuation.WACCInput
		if err := parse(&in); err != nil {
			return nil, err
		}
		if err := in.Validate(); err != nil {
			return nil, err
		}
		return valuation.CalculateWACC(in), nil

	case "convert":
		var in ConvertData
		if err := parse(&in); err != nil {
			return nil, err
		}
		rates := in.Rates
		if len(rates) == 0 {
			var err error
			if rates, err = configuredRates(); err != nil {
				return nil, err
			}
		}
		out, err := fx.NewTable(rates).Convert(in.Amount, in.From, in.To)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"result": out, "formatted": fx.FormatAmount(out)}, nil
	}
	return nil, fmt.Errorf("unknown mode: %s", mode)
}

// configuredRates reads the rate table of IBC_CONFIG; nil when it is unset
func configuredRates() (map[string]float64, error) {
	path := os.Getenv(config.EnvConfig)
	if path == "" {
		return nil, nil
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	return cfg.Rates(), nil
}
