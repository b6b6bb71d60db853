// Package sensitivity ranks the value drivers of the three-phase model by
// re-running it under one-at-a-time parameter perturbations.
package sensitivity

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/phuslu/log"

	"intrinsic_valuation/pkg/core/valuation"
)

// Parameter labels, as shown in reports.
const (
	LabelWACC       = "WACC (r)"
	LabelGStart     = "Initial Growth (g)"
	LabelGTerminal  = "Terminal Growth (g∞)"
	LabelROICInvest = "ROIC — Investment"
	LabelROICPeak   = "ROIC — Scale Peak"
	LabelNOPAT      = "NOPAT₀"
)

const (
	rateStep             = 0.01
	dollarStepMultiplier = 1.01
)

// ErrZeroBasePrice is returned when the unperturbed price is zero and a
// percentage change has no meaning.
var ErrZeroBasePrice = errors.New("sensitivity: base price is zero")

// Item is one ranked driver: % change in intrinsic price per perturbation.
type Item struct {
	Parameter   string  `json:"parameter"`
	Sensitivity float64 `json:"sensitivity"`
}

type perturbation struct {
	label string
	apply func(p *valuation.ThreePhase)
}

// Rates move by +1pp, NOPAT by +1%.
var perturbations = []perturbation{
	{LabelWACC, func(p *valuation.ThreePhase) { p.WACC += rateStep }},
	{LabelGStart, func(p *valuation.ThreePhase) { p.GStart += rateStep }},
	{LabelGTerminal, func(p *valuation.ThreePhase) { p.GTerminal += rateStep }},
	{LabelROICInvest, func(p *valuation.ThreePhase) { p.RoicInvest += rateStep }},
	{LabelROICPeak, func(p *valuation.ThreePhase) { p.RoicPeak += rateStep }},
	{LabelNOPAT, func(p *valuation.ThreePhase) { p.BaseNOPAT *= dollarStepMultiplier }},
}

// Sensitivity perturbs each driver of params in turn and returns the signed
// percent change in intrinsic price, sorted by magnitude (largest first).
//
// basePrice may be nil, in which case it is computed from params. A
// perturbation that breaks an engine precondition is left out of the result.
//
// FORMULA: sensitivity = (P_perturbed - P_base) / P_base * 100
func Sensitivity(params valuation.ThreePhase, basePrice *float64) ([]Item, error) {
	var base float64
	if basePrice != nil {
		base = *basePrice
	} else {
		res, err := params.Project()
		if err != nil {
			return nil, fmt.Errorf("base run: %w", err)
		}
		base = res.IntrinsicPricePerShare
	}
	if base == 0 {
		return nil, ErrZeroBasePrice
	}

	items := make([]Item, 0, len(perturbations))
	for _, pt := range perturbations {
		p := params
		pt.apply(&p)

		res, err := p.Project()
		if err != nil {
			if errors.Is(err, valuation.ErrInvalidAssumption) {
				log.Debug().Str("parameter", pt.label).Err(err).Msg("sensitivity: perturbation skipped")
				continue
			}
			return nil, err
		}
		items = append(items, Item{
			Parameter:   pt.label,
			Sensitivity: (res.IntrinsicPricePerShare - base) / base * 100,
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return math.Abs(items[i].Sensitivity) > math.Abs(items[j].Sensitivity)
	})
	return items, nil
}

var captions = map[string]string{
	LabelWACC:       "WACC dominates: most value sits in the terminal period, typical of high-growth companies where early FCFs are negative.",
	LabelGTerminal:  "Terminal growth dominates: the Gordon Growth spread (r - g∞) is small, so a 1pp shift amplifies dramatically.",
	LabelGStart:     "Initial growth dominates: near-term FCFs drive most of the value, typical of mature cash-generating companies.",
	LabelROICPeak:   "Scale-phase ROIC dominates: the FCF surge during peak profitability is the core value driver.",
	LabelNOPAT:      "Base earnings dominate: NOPAT₀ scales all future FCFs proportionally.",
	LabelROICInvest: "Investment-phase ROIC dominates: early capital efficiency determines how quickly the company reaches scale.",
}

// Caption interprets the top-ranked driver in one sentence.
func Caption(items []Item) string {
	if len(items) == 0 {
		return ""
	}
	top := items[0].Parameter
	if c, ok := captions[top]; ok {
		return c
	}
	return fmt.Sprintf("%s is the dominant value driver for this configuration.", top)
}
