package valuation

// ThreePhase chains three ROIC trajectories over one growth-decay horizon:
//
//	Investment: ROIC climbs from RoicInvest toward RoicPeak
//	Scale:      ROIC held at RoicPeak
//	Mature:     ROIC fades from RoicPeak to the terminal ROIC
//
// Growth decays linearly across the combined horizon and ignores phase
// boundaries. NOPAT and the diluted share count carry across phases, and
// discounting uses the global year index.
type ThreePhase struct {
	BaseNOPAT         float64  `json:"base_nopat"`
	RoicInvest        float64  `json:"roic_invest"`
	RoicPeak          float64  `json:"roic_peak"`
	GStart            float64  `json:"g_start"`
	GTerminal         float64  `json:"g_terminal"`
	WACC              float64  `json:"wacc"`
	NetDebt           float64  `json:"net_debt"`
	SharesOutstanding float64  `json:"shares_outstanding"`
	YearsInvest       int      `json:"years_invest"`
	YearsScale        int      `json:"years_scale"`
	YearsMature       int      `json:"years_mature"`
	IssuancePrice     float64  `json:"issuance_price,omitempty"`
	RoicTerminal      *float64 `json:"roic_terminal,omitempty"`
}

func (m ThreePhase) Name() string { return ModelThreePhase }

// TotalYears is the combined forecast horizon.
func (m ThreePhase) TotalYears() int {
	return m.YearsInvest + m.YearsScale + m.YearsMature
}

// TerminalROIC resolves the nil default to WACC.
func (m ThreePhase) TerminalROIC() float64 {
	return resolveTerminalROIC(m.RoicTerminal, m.WACC)
}

// Phases lists the ROIC trajectory of each phase in order.
func (m ThreePhase) Phases() []PhaseSpec {
	return []PhaseSpec{
		{Phase: PhaseInvestment, DurationYears: m.YearsInvest, ROICStart: m.RoicInvest, ROICEnd: m.RoicPeak},
		{Phase: PhaseScale, DurationYears: m.YearsScale, ROICStart: m.RoicPeak, ROICEnd: m.RoicPeak},
		{Phase: PhaseMature, DurationYears: m.YearsMature, ROICStart: m.RoicPeak, ROICEnd: m.TerminalROIC()},
	}
}

func (m ThreePhase) Validate() error {
	for _, d := range []struct {
		field string
		years int
	}{
		{"years_invest", m.YearsInvest},
		{"years_scale", m.YearsScale},
		{"years_mature", m.YearsMature},
	} {
		if d.years < 0 {
			return invalid(d.field, "phase duration cannot be negative, got %d", d.years)
		}
	}
	if err := checkYears("total_years", m.TotalYears()); err != nil {
		return err
	}
	if err := checkSpread(m.WACC, m.GTerminal); err != nil {
		return err
	}
	if err := checkPositive("roic_invest", m.RoicInvest); err != nil {
		return err
	}
	if err := checkPositive("roic_peak", m.RoicPeak); err != nil {
		return err
	}
	if err := checkTerminalROIC(m.TerminalROIC(), m.GTerminal); err != nil {
		return err
	}
	return checkPositive("shares_outstanding", m.SharesOutstanding)
}

// roicAt returns the ROIC of local year i (1-based) within a phase.
//
// Investment uses (i-1)/years_invest, so ROIC reaches the peak only in the
// first Scale year. Mature uses (i-1)/(years_mature-1), so its last year is
// exactly the terminal ROIC and the perpetuity formula continues seamlessly.
func (m ThreePhase) roicAt(phase Phase, i int) float64 {
	switch phase {
	case PhaseInvestment:
		return lerp(m.RoicInvest, m.RoicPeak, float64(i-1)/float64(m.YearsInvest))
	case PhaseMature:
		return lerp(m.RoicPeak, m.TerminalROIC(), stepAlpha(i, m.YearsMature))
	default:
		return m.RoicPeak
	}
}

// Project runs the three chained phases and the terminal value.
func (m ThreePhase) Project() (*ValuationResult, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}

	total := m.TotalYears()
	state := projectionState{nopat: m.BaseNOPAT, dilutedShares: m.SharesOutstanding}
	rows := make([]ForecastYearRow, 0, total)

	t := 0
	for _, spec := range m.Phases() {
		for i := 1; i <= spec.DurationYears; i++ {
			t++
			g := growthAt(t, total, m.GStart, m.GTerminal)
			roic := m.roicAt(spec.Phase, i)
			rows = append(rows, state.reinvestYear(t, spec.Phase, g, roic, m.WACC, m.IssuancePrice))
		}
	}

	res := &ValuationResult{Model: m.Name(), Rows: rows}
	state.finish(res, m.GTerminal, m.TerminalROIC(), m.WACC, m.NetDebt, m.IssuancePrice, total)
	return res, nil
}
