// Package reverse inverts the forward DCF engines: given a market price it
// solves for the near-term growth rate or the discount rate the market is
// pricing in. The market-implied helpers use the linear growth-decay engine;
// Invert accepts any engine family.
//
// Absence of a solution is a normal outcome and is reported as ok == false,
// never as an error.
package reverse

import (
	"math"

	"github.com/phuslu/log"

	"intrinsic_valuation/pkg/core/inputs"
	"intrinsic_valuation/pkg/core/valuation"
)

// Search domains.
const (
	GrowthLow        = -0.50
	GrowthHigh       = 1.00
	DiscountRateHigh = 0.50
	discountRateGap  = 0.001 // lower rate bound sits this far above g_terminal
)

// Result pairs the two inversions for one market price. A nil field means
// no root was found in that search domain.
type Result struct {
	ImpliedGrowth       *float64 `json:"implied_growth"`
	ImpliedDiscountRate *float64 `json:"implied_discount_rate"`
}

// Family builds the engine for one trial value of the parameter being
// solved for, holding everything else fixed.
type Family func(x float64) valuation.Engine

// priceError returns intrinsic price minus target, or NaN when the engine
// rejects the assumptions.
func priceError(m valuation.Engine, target float64) float64 {
	res, err := m.Project()
	if err != nil {
		return math.NaN()
	}
	return res.IntrinsicPricePerShare - target
}

// solve applies the bracketing test and runs Brent inside [lo, hi].
func solve(name string, f func(float64) float64, lo, hi float64) (float64, bool) {
	fa, fb := f(lo), f(hi)
	// NaN fails this comparison too.
	if !(fa*fb < 0) {
		log.Debug().Str("solve", name).Float64("lo", lo).Float64("hi", hi).
			Float64("f_lo", fa).Float64("f_hi", fb).Msg("reverse: bracket does not straddle zero")
		return 0, false
	}
	root, ok := Brent(f, lo, hi, XTol, MaxIter)
	if !ok {
		log.Debug().Str("solve", name).Msg("reverse: brent did not converge")
		return 0, false
	}
	return root, true
}

// Invert finds x in [lo, hi] at which the engine built by family prices at
// targetPrice. ok is false when the bracket does not straddle the target or
// Brent does not converge.
func Invert(name string, family Family, targetPrice, lo, hi float64) (float64, bool) {
	f := func(x float64) float64 {
		return priceError(family(x), targetPrice)
	}
	return solve(name, f, lo, hi)
}

// linearFamily varies one parameter of the linear engine built from in.
func linearFamily(in inputs.FinancialInputs, years int, set func(m *valuation.LinearGrowth, x float64)) Family {
	return func(x float64) valuation.Engine {
		m := valuation.LinearGrowth{
			BaseFCF:           in.FCF,
			NetDebt:           in.NetDebt,
			SharesOutstanding: in.SharesOutstanding,
			Years:             years,
		}
		set(&m, x)
		return m
	}
}

// SolveImpliedGrowth finds the start growth rate in [-50%, 100%] at which
// the linear engine reproduces targetPrice, holding wacc, g_terminal and the
// horizon fixed.
func SolveImpliedGrowth(in inputs.FinancialInputs, wacc, gTerminal float64, years int, targetPrice float64) (float64, bool) {
	family := linearFamily(in, years, func(m *valuation.LinearGrowth, g float64) {
		m.GStart, m.GTerminal, m.WACC = g, gTerminal, wacc
	})
	return Invert("implied_growth", family, targetPrice, GrowthLow, GrowthHigh)
}

// SolveImpliedDiscountRate finds the WACC in (g_terminal + 0.1%, 50%] at
// which the linear engine reproduces targetPrice, holding growth fixed.
func SolveImpliedDiscountRate(in inputs.FinancialInputs, nearGrowth, gTerminal float64, years int, targetPrice float64) (float64, bool) {
	family := linearFamily(in, years, func(m *valuation.LinearGrowth, r float64) {
		m.GStart, m.GTerminal, m.WACC = nearGrowth, gTerminal, r
	})
	return Invert("implied_discount_rate", family, targetPrice, gTerminal+discountRateGap, DiscountRateHigh)
}

// Run solves both inversions against the current market price.
func Run(in inputs.FinancialInputs, wacc, nearGrowth, gTerminal float64, years int) Result {
	var res Result
	if g, ok := SolveImpliedGrowth(in, wacc, gTerminal, years, in.CurrentPrice); ok {
		res.ImpliedGrowth = &g
	}
	if r, ok := SolveImpliedDiscountRate(in, nearGrowth, gTerminal, years, in.CurrentPrice); ok {
		res.ImpliedDiscountRate = &r
	}
	return res
}

// SweepPoint is one discount rate in an implied-growth sweep.
type SweepPoint struct {
	WACC          float64  `json:"wacc"`
	ImpliedGrowth *float64 `json:"implied_growth"`
	Infeasible    bool     `json:"infeasible"` // wacc <= g_terminal, not attempted
	Selected      bool     `json:"selected"`
}

// SweepDeltas are the discount-rate offsets of SweepImpliedGrowth.
var SweepDeltas = []float64{-0.020, -0.015, -0.010, -0.005, 0.000, 0.005, 0.010, 0.015, 0.020}

// SweepImpliedGrowth re-solves implied growth at wacc ±2pp in 0.5pp steps,
// showing how strongly the implied growth depends on the chosen rate.
func SweepImpliedGrowth(in inputs.FinancialInputs, wacc, gTerminal float64, years int) []SweepPoint {
	points := make([]SweepPoint, 0, len(SweepDeltas))
	for _, d := range SweepDeltas {
		r := wacc + d
		p := SweepPoint{WACC: r, Selected: d == 0}
		if r <= gTerminal {
			p.Infeasible = true
			points = append(points, p)
			continue
		}
		if g, ok := SolveImpliedGrowth(in, r, gTerminal, years, in.CurrentPrice); ok {
			p.ImpliedGrowth = &g
		}
		points = append(points, p)
	}
	return points
}
