package valuation

// TerminalRows builds two illustrative perpetuity years (T+1, T+2) after the
// forecast horizon. They show what the Gordon Growth value capitalises and
// are never summed into the valuation.
func TerminalRows(res *ValuationResult, gTerminal, wacc float64) []ForecastYearRow {
	rr := res.TerminalReinvestmentRate
	var roic *float64
	if rr > 0 {
		roic = floatPtr(gTerminal / rr)
	}

	rows := make([]ForecastYearRow, 0, 2)
	nopat := res.TerminalNOPAT
	for k := 1; k <= 2; k++ {
		if k > 1 {
			nopat *= 1 + gTerminal
		}
		reinvestment := nopat * rr
		fcf := nopat - reinvestment
		t := res.TotalYears + k
		df := DiscountFactor(wacc, t)
		rows = append(rows, ForecastYearRow{
			YearIndex:               t,
			Phase:                   PhaseTerminal,
			GrowthRate:              gTerminal,
			ROIC:                    roic,
			ReinvestmentRate:        floatPtr(rr),
			BaseMetric:              nopat,
			ReinvestmentAmount:      reinvestment,
			FreeCashFlow:            fcf,
			CumulativeDilutedShares: res.DilutedSharesFinal,
			DiscountFactor:          df,
			PresentValue:            PresentValue(fcf, wacc, t),
		})
	}
	return rows
}

// Verdict labels a margin of safety.
type Verdict string

const (
	VerdictUndervalued Verdict = "Undervalued"
	VerdictOvervalued  Verdict = "Overvalued"
)

// MarginOfSafety compares intrinsic value to the market price.
//
// FORMULA: MoS = (intrinsic - market) / market * 100
func MarginOfSafety(intrinsic, market float64) (float64, Verdict) {
	margin := (intrinsic - market) / market * 100
	if margin >= 0 {
		return margin, VerdictUndervalued
	}
	return margin, VerdictOvervalued
}
