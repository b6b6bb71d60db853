// Package config loads valuation scenarios: company financials plus model
// assumptions, from YAML, TOML or (H)JSON files with environment overrides.
package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"intrinsic_valuation/pkg/core/inputs"
	"intrinsic_valuation/pkg/core/valuation"
)

// Assumptions are the model parameters a user chooses. Rates are decimals.
type Assumptions struct {
	Model         string   `json:"model" yaml:"model" toml:"model" validate:"omitempty,oneof=linear roic three_phase"`
	WACC          *float64 `json:"wacc,omitempty" yaml:"wacc" toml:"wacc" validate:"omitempty,gte=0"`
	GStart        float64  `json:"g_start" yaml:"g_start" toml:"g_start"`
	GTerminal     float64  `json:"g_terminal" yaml:"g_terminal" toml:"g_terminal"`
	Years         int      `json:"years" yaml:"years" toml:"years" validate:"gte=0"`
	ROIC          float64  `json:"roic" yaml:"roic" toml:"roic"`
	RoicInvest    float64  `json:"roic_invest" yaml:"roic_invest" toml:"roic_invest"`
	RoicPeak      float64  `json:"roic_peak" yaml:"roic_peak" toml:"roic_peak"`
	RoicTerminal  *float64 `json:"roic_terminal,omitempty" yaml:"roic_terminal" toml:"roic_terminal"`
	YearsInvest   int      `json:"years_invest" yaml:"years_invest" toml:"years_invest" validate:"gte=0"`
	YearsScale    int      `json:"years_scale" yaml:"years_scale" toml:"years_scale" validate:"gte=0"`
	YearsMature   int      `json:"years_mature" yaml:"years_mature" toml:"years_mature" validate:"gte=0"`
	IssuancePrice float64  `json:"issuance_price" yaml:"issuance_price" toml:"issuance_price" validate:"gte=0"`
	IssueAtMarket bool     `json:"issue_at_market" yaml:"issue_at_market" toml:"issue_at_market"`
}

// Scenario is one company under one set of assumptions.
type Scenario struct {
	Company     string                 `json:"company" yaml:"company" toml:"company"`
	Financials  inputs.FinancialInputs `json:"financials" yaml:"financials" toml:"financials"`
	Assumptions Assumptions            `json:"assumptions" yaml:"assumptions" toml:"assumptions"`
	CAPM        *valuation.WACCInput   `json:"capm,omitempty" yaml:"capm" toml:"capm" validate:"omitempty"`
}

// DefaultWACC applies when a scenario sets neither wacc nor a capm block.
const DefaultWACC = 0.10

// Defaults mirrors the starting positions of the interactive app. WACC is
// left unset so a capm block can supply it.
func Defaults() Assumptions {
	return Assumptions{
		Model:       valuation.ModelLinearGrowth,
		GStart:      0.10,
		GTerminal:   0.025,
		Years:       5,
		ROIC:        0.20,
		RoicInvest:  0.08,
		RoicPeak:    0.40,
		YearsInvest: 3,
		YearsScale:  4,
		YearsMature: 5,
	}
}

// Validate checks field shapes; engine preconditions are left to the engines.
func (s *Scenario) Validate() error {
	if err := validator.New().Struct(s); err != nil {
		return fmt.Errorf("scenario: %w", err)
	}
	if s.CAPM != nil {
		if err := s.CAPM.Validate(); err != nil {
			return fmt.Errorf("scenario capm: %w", err)
		}
	}
	return nil
}

// ResolveWACC picks the discount rate: an explicit assumptions.wacc, else
// the capm block, else DefaultWACC.
func (s *Scenario) ResolveWACC() float64 {
	switch {
	case s.Assumptions.WACC != nil:
		return *s.Assumptions.WACC
	case s.CAPM != nil:
		return valuation.CalculateWACC(*s.CAPM).WACC
	default:
		return DefaultWACC
	}
}

// IssuancePrice is the explicit price, or the market price when the scenario
// issues at market.
func (s *Scenario) IssuancePrice() float64 {
	if s.Assumptions.IssuancePrice > 0 {
		return s.Assumptions.IssuancePrice
	}
	if s.Assumptions.IssueAtMarket {
		return s.Financials.CurrentPrice
	}
	return 0
}

// ThreePhase builds the lifecycle engine from the scenario.
func (s *Scenario) ThreePhase() valuation.ThreePhase {
	nopat, _ := s.Financials.NOPATProxy()
	a := s.Assumptions
	return valuation.ThreePhase{
		BaseNOPAT:         nopat,
		RoicInvest:        a.RoicInvest,
		RoicPeak:          a.RoicPeak,
		GStart:            a.GStart,
		GTerminal:         a.GTerminal,
		WACC:              s.ResolveWACC(),
		NetDebt:           s.Financials.NetDebt,
		SharesOutstanding: s.Financials.SharesOutstanding,
		YearsInvest:       a.YearsInvest,
		YearsScale:        a.YearsScale,
		YearsMature:       a.YearsMature,
		IssuancePrice:     s.IssuancePrice(),
		RoicTerminal:      a.RoicTerminal,
	}
}

// Engine builds the forward engine named by assumptions.model.
func (s *Scenario) Engine() (valuation.Engine, error) {
	a := s.Assumptions
	switch a.Model {
	case valuation.ModelLinearGrowth, "":
		return valuation.LinearGrowth{
			BaseFCF:           s.Financials.FCF,
			GStart:            a.GStart,
			GTerminal:         a.GTerminal,
			WACC:              s.ResolveWACC(),
			NetDebt:           s.Financials.NetDebt,
			SharesOutstanding: s.Financials.SharesOutstanding,
			Years:             a.Years,
		}, nil
	case valuation.ModelSingleROIC:
		nopat, _ := s.Financials.NOPATProxy()
		return valuation.SingleROIC{
			BaseNOPAT:         nopat,
			ROIC:              a.ROIC,
			GStart:            a.GStart,
			GTerminal:         a.GTerminal,
			WACC:              s.ResolveWACC(),
			NetDebt:           s.Financials.NetDebt,
			SharesOutstanding: s.Financials.SharesOutstanding,
			Years:             a.Years,
			IssuancePrice:     s.IssuancePrice(),
			RoicTerminal:      a.RoicTerminal,
		}, nil
	case valuation.ModelThreePhase:
		return s.ThreePhase(), nil
	default:
		return nil, fmt.Errorf("unknown model %q", a.Model)
	}
}
