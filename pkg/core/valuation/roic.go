package valuation

// SingleROIC is the Damodaran-style reinvestment model: growth must be funded
// by reinvesting g/ROIC of NOPAT each year, at one constant ROIC.
//
// RoicTerminal defaults to WACC when nil (competitive equilibrium, no excess
// returns in perpetuity). IssuancePrice <= 0 disables share dilution.
type SingleROIC struct {
	BaseNOPAT         float64  `json:"base_nopat"`
	ROIC              float64  `json:"roic"`
	GStart            float64  `json:"g_start"`
	GTerminal         float64  `json:"g_terminal"`
	WACC              float64  `json:"wacc"`
	NetDebt           float64  `json:"net_debt"`
	SharesOutstanding float64  `json:"shares_outstanding"`
	Years             int      `json:"years"`
	IssuancePrice     float64  `json:"issuance_price,omitempty"`
	RoicTerminal      *float64 `json:"roic_terminal,omitempty"`
}

func (m SingleROIC) Name() string { return ModelSingleROIC }

func (m SingleROIC) Validate() error {
	if err := checkSpread(m.WACC, m.GTerminal); err != nil {
		return err
	}
	if err := checkPositive("roic", m.ROIC); err != nil {
		return err
	}
	if err := checkTerminalROIC(resolveTerminalROIC(m.RoicTerminal, m.WACC), m.GTerminal); err != nil {
		return err
	}
	if err := checkYears("years", m.Years); err != nil {
		return err
	}
	return checkPositive("shares_outstanding", m.SharesOutstanding)
}

// Project runs the single-phase reinvestment forecast.
func (m SingleROIC) Project() (*ValuationResult, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	roicTerminal := resolveTerminalROIC(m.RoicTerminal, m.WACC)

	state := projectionState{nopat: m.BaseNOPAT, dilutedShares: m.SharesOutstanding}
	rows := make([]ForecastYearRow, 0, m.Years)
	for t := 1; t <= m.Years; t++ {
		g := growthAt(t, m.Years, m.GStart, m.GTerminal)
		rows = append(rows, state.reinvestYear(t, PhaseNA, g, m.ROIC, m.WACC, m.IssuancePrice))
	}

	res := &ValuationResult{Model: m.Name(), Rows: rows}
	state.finish(res, m.GTerminal, roicTerminal, m.WACC, m.NetDebt, m.IssuancePrice, m.Years)
	return res, nil
}
