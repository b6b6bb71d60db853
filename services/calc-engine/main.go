package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/phuslu/log"

	"intrinsic_valuation/pkg/core/inputs"
	"intrinsic_valuation/pkg/core/reverse"
	"intrinsic_valuation/pkg/core/sensitivity"
	"intrinsic_valuation/pkg/core/valuation"
)

// ReversePayload is the -mode reverse request.
type ReversePayload struct {
	Financials inputs.FinancialInputs `json:"financials"`
	WACC       float64                `json:"wacc"`
	NearGrowth float64                `json:"near_growth"`
	GTerminal  float64                `json:"g_terminal"`
	Years      int                    `json:"years"`
	Sweep      bool                   `json:"sweep"`
}

// SensitivityPayload is the -mode sensitivity request.
type SensitivityPayload struct {
	valuation.ThreePhase
	BasePrice *float64 `json:"base_price,omitempty"`
}

func main() {
	mode := flag.String("mode", valuation.ModelLinearGrowth, "Mode: linear, roic, three_phase, sensitivity, reverse")
	dataStr := flag.String("data", "", "JSON data payload")
	flag.Parse()

	log.DefaultLogger = log.Logger{
		Level:  log.WarnLevel,
		Writer: &log.IOWriter{Writer: os.Stderr},
	}

	if *dataStr == "" {
		fmt.Println("Error: No data provided")
		os.Exit(1)
	}

	if err := run(*mode, *dataStr, os.Stdout); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

// run decodes the payload leniently, dispatches on mode and writes the result
// as indented JSON.
func run(mode, data string, w io.Writer) error {
	var out interface{}
	switch mode {
	case valuation.ModelLinearGrowth:
		var m valuation.LinearGrowth
		if err := decode(data, &m); err != nil {
			return err
		}
		res, err := m.Project()
		if err != nil {
			return err
		}
		out = res
	case valuation.ModelSingleROIC:
		var m valuation.SingleROIC
		if err := decode(data, &m); err != nil {
			return err
		}
		res, err := m.Project()
		if err != nil {
			return err
		}
		out = res
	case valuation.ModelThreePhase:
		var m valuation.ThreePhase
		if err := decode(data, &m); err != nil {
			return err
		}
		res, err := m.Project()
		if err != nil {
			return err
		}
		out = res
	case "sensitivity":
		var p SensitivityPayload
		if err := decode(data, &p); err != nil {
			return err
		}
		items, err := sensitivity.Sensitivity(p.ThreePhase, p.BasePrice)
		if err != nil {
			return err
		}
		out = items
	case "reverse":
		var p ReversePayload
		if err := decode(data, &p); err != nil {
			return err
		}
		res := struct {
			reverse.Result
			Sweep []reverse.SweepPoint `json:"sweep,omitempty"`
		}{Result: reverse.Run(p.Financials, p.WACC, p.NearGrowth, p.GTerminal, p.Years)}
		if p.Sweep {
			res.Sweep = reverse.SweepImpliedGrowth(p.Financials, p.WACC, p.GTerminal, p.Years)
		}
		out = res
	default:
		return fmt.Errorf("unknown mode: %s", mode)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func decode(data string, v interface{}) error {
	if _, err := inputs.SmartParse(data, v); err != nil {
		return fmt.Errorf("unmarshaling data: %w", err)
	}
	return nil
}
