package valuation

// WACCInput is the capm block of a scenario: market data the discount rate
// is built from when no fixed WACC is given.
type WACCInput struct {
	RiskFreeRate      float64 `json:"risk_free_rate" yaml:"risk_free_rate" toml:"risk_free_rate" validate:"gte=0"`
	UnleveredBeta     float64 `json:"unlevered_beta" yaml:"unlevered_beta" toml:"unlevered_beta" validate:"gt=0"`
	MarketRiskPremium float64 `json:"market_risk_premium" yaml:"market_risk_premium" toml:"market_risk_premium" validate:"gt=0"`
	PreTaxCostOfDebt  float64 `json:"pre_tax_cost_of_debt" yaml:"pre_tax_cost_of_debt" toml:"pre_tax_cost_of_debt" validate:"gte=0"`
	TaxRate           float64 `json:"tax_rate" yaml:"tax_rate" toml:"tax_rate" validate:"gte=0,lt=1"`
	DebtToEquityRatio float64 `json:"debt_to_equity" yaml:"debt_to_equity" toml:"debt_to_equity" validate:"gte=0"` // target leverage D/E
}

// WACCResult breaks the discount rate into its components.
type WACCResult struct {
	LeveredBeta  float64 `json:"levered_beta"`
	CostOfEquity float64 `json:"cost_of_equity"`
	CostOfDebt   float64 `json:"cost_of_debt"` // after-tax
	WACC         float64 `json:"wacc"`
	WeightDebt   float64 `json:"weight_debt"`
	WeightEquity float64 `json:"weight_equity"`
}

// Validate rejects inputs the CAPM build cannot price.
func (in WACCInput) Validate() error {
	if err := checkPositive("unlevered_beta", in.UnleveredBeta); err != nil {
		return err
	}
	if err := checkPositive("market_risk_premium", in.MarketRiskPremium); err != nil {
		return err
	}
	if in.RiskFreeRate < 0 {
		return invalid("risk_free_rate", "cannot be negative, got %.4f", in.RiskFreeRate)
	}
	if in.PreTaxCostOfDebt < 0 {
		return invalid("pre_tax_cost_of_debt", "cannot be negative, got %.4f", in.PreTaxCostOfDebt)
	}
	if in.TaxRate < 0 || in.TaxRate >= 1 {
		return invalid("tax_rate", "must be in [0, 1), got %.4f", in.TaxRate)
	}
	if in.DebtToEquityRatio < 0 {
		return invalid("debt_to_equity", "cannot be negative, got %.4f", in.DebtToEquityRatio)
	}
	return nil
}

// weights splits capital by the target D/E: x/(1+x) debt, 1/(1+x) equity.
func (in WACCInput) weights() (debt, equity float64) {
	total := 1 + in.DebtToEquityRatio
	return in.DebtToEquityRatio / total, 1 / total
}

// CalculateWACC builds the discount rate from CAPM, re-levering beta with
// Hamada. Inputs are expected to have passed Validate.
//
// FORMULA:
//
//	βL   = βU × (1 + (1 − t) × D/E)
//	Ke   = Rf + βL × ERP
//	Kd   = Kd_pre × (1 − t)
//	WACC = Ke × E/V + Kd × D/V
func CalculateWACC(in WACCInput) WACCResult {
	keep := 1 - in.TaxRate
	res := WACCResult{
		LeveredBeta: in.UnleveredBeta * (1 + keep*in.DebtToEquityRatio),
		CostOfDebt:  in.PreTaxCostOfDebt * keep,
	}
	res.CostOfEquity = in.RiskFreeRate + res.LeveredBeta*in.MarketRiskPremium
	res.WeightDebt, res.WeightEquity = in.weights()
	res.WACC = res.CostOfEquity*res.WeightEquity + res.CostOfDebt*res.WeightDebt
	return res
}
