package valuation

import "math"

// =============================================================================
// DISCOUNTING & INTERPOLATION PRIMITIVES
// =============================================================================

// DiscountFactor returns the end-of-period compounding divisor.
//
// FORMULA: DF_t = (1 + r)^t
func DiscountFactor(rate float64, period int) float64 {
	return math.Pow(1+rate, float64(period))
}

// PresentValue discounts a single cash flow received at the end of period t.
//
// FORMULA: PV = CF / (1 + r)^t
func PresentValue(cashFlow, rate float64, period int) float64 {
	return cashFlow / DiscountFactor(rate, period)
}

// GordonGrowth capitalises next period's cash flow as a growing perpetuity.
//
// FORMULA: TV = CF_{t+1} / (r - g)
//
// Callers must already have checked r > g.
func GordonGrowth(nextPeriodCF, rate, growth float64) float64 {
	return nextPeriodCF / (rate - growth)
}

// lerp interpolates from start to end. alpha == 1 returns end itself so the
// last interpolated year lands exactly on the endpoint (no rounding drift).
func lerp(start, end, alpha float64) float64 {
	if alpha >= 1 {
		return end
	}
	return start + (end-start)*alpha
}

// stepAlpha is the (i-1)/(n-1) schedule used for growth decay and the mature
// ROIC fade. A one-year span jumps straight to the endpoint.
func stepAlpha(i, n int) float64 {
	if n > 1 {
		return float64(i-1) / float64(n-1)
	}
	return 1.0
}

// growthAt is the linearly decaying growth rate of year t out of total.
func growthAt(t, total int, gStart, gTerminal float64) float64 {
	return lerp(gStart, gTerminal, stepAlpha(t, total))
}
