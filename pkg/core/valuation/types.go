// Package valuation implements the forward discounted-cash-flow engines:
// a linear growth-decay FCF model, a single-ROIC reinvestment model and a
// three-phase (investment -> scale -> mature) lifecycle model.
//
// Every engine is a pure function of its parameter struct. Nothing is cached
// between calls and a failed precondition returns before any row is built.
package valuation

// Phase tags a forecast year with the lifecycle stage that produced it.
type Phase string

const (
	PhaseNA         Phase = "NA"
	PhaseInvestment Phase = "Investment"
	PhaseScale      Phase = "Scale"
	PhaseMature     Phase = "Mature"
	PhaseTerminal   Phase = "Terminal" // illustrative rows only, see TerminalRows
)

// Model names reported in ValuationResult.Model and accepted by config.
const (
	ModelLinearGrowth = "linear"
	ModelSingleROIC   = "roic"
	ModelThreePhase   = "three_phase"
)

// ForecastYearRow is one projected year.
//
// ROIC and ReinvestmentRate are nil for the linear-growth model, which has no
// reinvestment concept. BaseMetric is NOPAT for the ROIC models and FCF for
// the linear model.
type ForecastYearRow struct {
	YearIndex               int      `json:"year_index"`
	Phase                   Phase    `json:"phase"`
	GrowthRate              float64  `json:"growth_rate"`
	ROIC                    *float64 `json:"roic,omitempty"`
	ReinvestmentRate        *float64 `json:"reinvestment_rate,omitempty"`
	BaseMetric              float64  `json:"base_metric"`
	ReinvestmentAmount      float64  `json:"reinvestment_amount"`
	FreeCashFlow            float64  `json:"free_cash_flow"`
	EquityRaised            float64  `json:"equity_raised"`
	NewSharesIssued         float64  `json:"new_shares_issued"`
	CumulativeDilutedShares float64  `json:"cumulative_diluted_shares"`
	DiscountFactor          float64  `json:"discount_factor"` // (1+wacc)^year_index
	PresentValue            float64  `json:"present_value"`   // free_cash_flow / discount_factor
}

// ValuationResult is the aggregate output of a forward engine.
//
// EquityValue = EnterpriseValue - NetDebt and
// IntrinsicPricePerShare = EquityValue / DilutedSharesFinal.
type ValuationResult struct {
	Model                    string            `json:"model"`
	IntrinsicPricePerShare   float64           `json:"intrinsic_price_per_share"`
	EnterpriseValue          float64           `json:"enterprise_value"`
	EquityValue              float64           `json:"equity_value"`
	NetDebt                  float64           `json:"net_debt"`
	SumPVForecastYears       float64           `json:"sum_pv_forecast_years"`
	TerminalValue            float64           `json:"terminal_value"`
	PVTerminalValue          float64           `json:"pv_terminal_value"`
	TerminalReinvestmentRate float64           `json:"terminal_reinvestment_rate"`
	TerminalNOPAT            float64           `json:"terminal_nopat"`
	TerminalFreeCashFlow     float64           `json:"terminal_free_cash_flow"`
	DilutedSharesFinal       float64           `json:"diluted_shares_final"`
	TotalNewSharesIssued     float64           `json:"total_new_shares_issued"`
	IssuancePrice            float64           `json:"issuance_price"`
	TotalYears               int               `json:"total_years"`
	Rows                     []ForecastYearRow `json:"rows"`
}

// PhaseSpec describes one lifecycle phase of the three-phase model.
type PhaseSpec struct {
	Phase         Phase   `json:"phase"`
	DurationYears int     `json:"duration_years"`
	ROICStart     float64 `json:"roic_start"`
	ROICEnd       float64 `json:"roic_end"`
}

// Engine is the capability shared by the three forward models.
type Engine interface {
	// Name returns the model identifier (ModelLinearGrowth, ...).
	Name() string

	// Validate checks every precondition without computing any row.
	Validate() error

	// Project runs the full forecast and terminal computation.
	Project() (*ValuationResult, error)
}

func floatPtr(f float64) *float64 { return &f }
