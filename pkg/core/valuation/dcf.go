package valuation

// LinearGrowth is the simple FCF model: growth declines linearly from GStart
// (year 1) to GTerminal (final year) and continues at GTerminal forever.
// FCF is assumed to grow without any reinvestment requirement.
type LinearGrowth struct {
	BaseFCF           float64 `json:"base_fcf"`
	GStart            float64 `json:"g_start"`
	GTerminal         float64 `json:"g_terminal"`
	WACC              float64 `json:"wacc"`
	NetDebt           float64 `json:"net_debt"`
	SharesOutstanding float64 `json:"shares_outstanding"`
	Years             int     `json:"years"`
}

func (m LinearGrowth) Name() string { return ModelLinearGrowth }

func (m LinearGrowth) Validate() error {
	if err := checkSpread(m.WACC, m.GTerminal); err != nil {
		return err
	}
	if err := checkYears("years", m.Years); err != nil {
		return err
	}
	return checkPositive("shares_outstanding", m.SharesOutstanding)
}

// Project performs the linear growth-decay DCF.
//
// FORMULA:
//
//	g_t   = g_start + (g_terminal - g_start) * (t-1)/(n-1)
//	FCF_t = FCF_{t-1} * (1 + g_t)
//	TV    = FCF_n * (1 + g_terminal) / (WACC - g_terminal)
//	EV    = Σ FCF_t/(1+WACC)^t + TV/(1+WACC)^n
func (m LinearGrowth) Project() (*ValuationResult, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}

	rows := make([]ForecastYearRow, 0, m.Years)
	pvFCF := 0.0
	fcf := m.BaseFCF

	for t := 1; t <= m.Years; t++ {
		g := growthAt(t, m.Years, m.GStart, m.GTerminal)
		fcf *= 1 + g

		df := DiscountFactor(m.WACC, t)
		pv := PresentValue(fcf, m.WACC, t)
		pvFCF += pv

		rows = append(rows, ForecastYearRow{
			YearIndex:               t,
			Phase:                   PhaseNA,
			GrowthRate:              g,
			BaseMetric:              fcf,
			FreeCashFlow:            fcf,
			CumulativeDilutedShares: m.SharesOutstanding,
			DiscountFactor:          df,
			PresentValue:            pv,
		})
	}

	// Terminal Value (Gordon Growth)
	terminalFCF := fcf * (1 + m.GTerminal)
	tv := GordonGrowth(terminalFCF, m.WACC, m.GTerminal)
	pvTerminal := PresentValue(tv, m.WACC, m.Years)

	res := &ValuationResult{
		Model:                m.Name(),
		TerminalValue:        tv,
		TerminalNOPAT:        terminalFCF,
		TerminalFreeCashFlow: terminalFCF,
		TotalYears:           m.Years,
		Rows:                 rows,
	}
	aggregate(res, pvFCF, pvTerminal, m.NetDebt, m.SharesOutstanding)
	return res, nil
}

// aggregate fills the enterprise -> equity -> per-share bridge.
func aggregate(res *ValuationResult, pvFCF, pvTerminal, netDebt, dilutedShares float64) {
	res.SumPVForecastYears = pvFCF
	res.PVTerminalValue = pvTerminal
	res.EnterpriseValue = pvFCF + pvTerminal
	res.NetDebt = netDebt
	res.EquityValue = res.EnterpriseValue - netDebt
	res.DilutedSharesFinal = dilutedShares
	res.IntrinsicPricePerShare = res.EquityValue / dilutedShares
}
