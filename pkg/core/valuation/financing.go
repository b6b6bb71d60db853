package valuation

import "math"

// projectionState is threaded year to year (and phase to phase in the
// three-phase model). The discount index t is global and never reset.
type projectionState struct {
	nopat         float64
	dilutedShares float64
	newShares     float64
	pvFCF         float64
}

// EquityFinancing returns the equity raised and shares issued to cover a
// negative free cash flow. A non-positive issuance price disables dilution
// tracking: the shortfall is still reported but no shares are issued.
func EquityFinancing(fcf, issuancePrice float64) (equityRaised, newShares float64) {
	equityRaised = math.Max(-fcf, 0)
	if issuancePrice > 0 {
		newShares = equityRaised / issuancePrice
	}
	return equityRaised, newShares
}

// reinvestYear advances the state by one year of the ROIC reinvestment model.
//
// FORMULA:
//
//	NOPAT_t        = NOPAT_{t-1} * (1 + g_t)
//	Reinvestment_t = NOPAT_t * g_t / ROIC_t
//	FCF_t          = NOPAT_t - Reinvestment_t
func (s *projectionState) reinvestYear(t int, phase Phase, g, roic, wacc, issuancePrice float64) ForecastYearRow {
	s.nopat *= 1 + g

	rr := g / roic
	reinvestment := s.nopat * rr
	fcf := s.nopat - reinvestment

	equityRaised, newShares := EquityFinancing(fcf, issuancePrice)
	s.newShares += newShares
	s.dilutedShares += newShares

	df := DiscountFactor(wacc, t)
	pv := PresentValue(fcf, wacc, t)
	s.pvFCF += pv

	return ForecastYearRow{
		YearIndex:               t,
		Phase:                   phase,
		GrowthRate:              g,
		ROIC:                    floatPtr(roic),
		ReinvestmentRate:        floatPtr(rr),
		BaseMetric:              s.nopat,
		ReinvestmentAmount:      reinvestment,
		FreeCashFlow:            fcf,
		EquityRaised:            equityRaised,
		NewSharesIssued:         newShares,
		CumulativeDilutedShares: s.dilutedShares,
		DiscountFactor:          df,
		PresentValue:            pv,
	}
}

// finish applies the ROIC-adjusted Gordon Growth terminal value and closes
// the equity bridge on the diluted share count.
//
// FORMULA:
//
//	RR_∞  = g_terminal / ROIC_terminal
//	FCF_∞ = NOPAT_n * (1 + g_terminal) * (1 - RR_∞)
//	TV    = FCF_∞ / (WACC - g_terminal)
func (s *projectionState) finish(res *ValuationResult, gTerminal, roicTerminal, wacc, netDebt, issuancePrice float64, years int) {
	terminalRR := gTerminal / roicTerminal
	terminalNOPAT := s.nopat * (1 + gTerminal)
	terminalFCF := terminalNOPAT * (1 - terminalRR)
	tv := GordonGrowth(terminalFCF, wacc, gTerminal)
	pvTerminal := PresentValue(tv, wacc, years)

	res.TerminalReinvestmentRate = terminalRR
	res.TerminalNOPAT = terminalNOPAT
	res.TerminalFreeCashFlow = terminalFCF
	res.TerminalValue = tv
	res.TotalNewSharesIssued = s.newShares
	res.IssuancePrice = issuancePrice
	res.TotalYears = years
	aggregate(res, s.pvFCF, pvTerminal, netDebt, s.dilutedShares)
}

// resolveTerminalROIC applies the default: no excess returns in perpetuity.
func resolveTerminalROIC(roicTerminal *float64, wacc float64) float64 {
	if roicTerminal == nil {
		return wacc
	}
	return *roicTerminal
}
