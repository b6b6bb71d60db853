// Package inputs holds the flat financial record the valuation engines are
// fed from, plus the caller-side NOPAT proxy selection.
package inputs

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// FinancialInputs is the minimum set of company figures a valuation needs.
// Optional statement lines are pointers so "not reported" differs from zero.
type FinancialInputs struct {
	CompanyName       string   `json:"company_name,omitempty" yaml:"company_name" toml:"company_name"`
	Ticker            string   `json:"ticker,omitempty" yaml:"ticker" toml:"ticker"`
	FCF               float64  `json:"fcf" yaml:"fcf" toml:"fcf"`
	NetDebt           float64  `json:"net_debt" yaml:"net_debt" toml:"net_debt"`
	SharesOutstanding float64  `json:"shares_outstanding" yaml:"shares_outstanding" toml:"shares_outstanding" validate:"gt=0"`
	CurrentPrice      float64  `json:"current_price" yaml:"current_price" toml:"current_price" validate:"gte=0"`
	EBIT              *float64 `json:"ebit,omitempty" yaml:"ebit" toml:"ebit"`
	EffectiveTaxRate  *float64 `json:"effective_tax_rate,omitempty" yaml:"effective_tax_rate" toml:"effective_tax_rate" validate:"omitempty,gte=0,lt=1"`
	OperatingCashFlow *float64 `json:"operating_cash_flow,omitempty" yaml:"operating_cash_flow" toml:"operating_cash_flow"`
}

// NOPATSource names which statement line NOPATProxy fell back to.
type NOPATSource string

const (
	SourceEBIT              NOPATSource = "EBIT x (1 - tax)"
	SourceOperatingCashFlow NOPATSource = "Operating Cash Flow"
	SourceFCF               NOPATSource = "FCF (fallback)"
)

// Validate checks field shapes with go-playground/validator.
func (f *FinancialInputs) Validate() error {
	if err := validator.New().Struct(f); err != nil {
		return fmt.Errorf("financial inputs: %w", err)
	}
	return nil
}

// NOPATProxy picks the base NOPAT for the ROIC engines.
//
// Priority: EBIT x (1 - tax) > operating cash flow > FCF. A missing tax rate
// counts as zero. A zero or missing EBIT / OCF falls through to the next line.
func (f *FinancialInputs) NOPATProxy() (float64, NOPATSource) {
	if f.EBIT != nil && *f.EBIT != 0 {
		tax := 0.0
		if f.EffectiveTaxRate != nil {
			tax = *f.EffectiveTaxRate
		}
		return *f.EBIT * (1 - tax), SourceEBIT
	}
	if f.OperatingCashFlow != nil && *f.OperatingCashFlow != 0 {
		return *f.OperatingCashFlow, SourceOperatingCashFlow
	}
	return f.FCF, SourceFCF
}

// MarketCap is price times basic shares.
func (f *FinancialInputs) MarketCap() float64 {
	return f.CurrentPrice * f.SharesOutstanding
}
