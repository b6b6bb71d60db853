package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"intrinsic_valuation/pkg/core/inputs"
	"intrinsic_valuation/pkg/core/valuation"
)

const yamlScenario = `
company: Example Corp
financials:
  fcf: 8000000000.0
  net_debt: 12000000000.0
  shares_outstanding: 1500000000.0
  current_price: 120.0
  ebit: 10000000000.0
  effective_tax_rate: 0.2
assumptions:
  model: three_phase
  wacc: 0.09
  g_start: 0.3
  g_terminal: 0.03
  roic_invest: 0.1
  roic_peak: 0.35
  years_invest: 2
  years_scale: 3
  years_mature: 4
  issue_at_market: true
`

const tomlScenario = `
company = "Example Corp"

[financials]
fcf = 8000000000.0
net_debt = 12000000000.0
shares_outstanding = 1500000000.0
current_price = 120.0

[assumptions]
model = "roic"
wacc = 0.09
g_start = 0.12
g_terminal = 0.03
roic = 0.25
roic_terminal = 0.12
years = 7
`

const hjsonScenario = `{
  # hand-written
  company: Example Corp
  financials: {
    fcf: 8000000000
    net_debt: 12000000000
    shares_outstanding: 1500000000
    current_price: 120
  }
  capm: {
    risk_free_rate: 0.04
    unlevered_beta: 1.0
    market_risk_premium: 0.05
    pre_tax_cost_of_debt: 0.06
    tax_rate: 0.25
    debt_to_equity: 0.5
  }
  assumptions: {
    g_start: 0.08
  }
}`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_YAML(t *testing.T) {
	s, err := Load(writeFile(t, "scenario.yaml", yamlScenario))
	require.NoError(t, err)
	require.NoError(t, s.Validate())

	assert.Equal(t, "Example Corp", s.Company)
	assert.Equal(t, valuation.ModelThreePhase, s.Assumptions.Model)
	require.NotNil(t, s.Assumptions.WACC)
	assert.Equal(t, 0.09, *s.Assumptions.WACC)
	assert.Equal(t, 2, s.Assumptions.YearsInvest)
	require.NotNil(t, s.Financials.EBIT)
	assert.Equal(t, 120.0, s.IssuancePrice(), "issue_at_market uses the current price")

	e, err := s.Engine()
	require.NoError(t, err)
	tp, ok := e.(valuation.ThreePhase)
	require.True(t, ok)
	assert.InDelta(t, 8e9, tp.BaseNOPAT, 1, "EBIT x (1 - tax) is the NOPAT proxy")
	assert.Equal(t, 9, tp.TotalYears())

	res, err := e.Project()
	require.NoError(t, err)
	assert.Len(t, res.Rows, 9)
}

func TestLoad_TOML(t *testing.T) {
	s, err := Load(writeFile(t, "scenario.toml", tomlScenario))
	require.NoError(t, err)
	require.NoError(t, s.Validate())

	assert.Equal(t, valuation.ModelSingleROIC, s.Assumptions.Model)
	require.NotNil(t, s.Assumptions.RoicTerminal)
	assert.Equal(t, 0.12, *s.Assumptions.RoicTerminal)
	// Omitted fields keep the defaults.
	assert.Equal(t, 0.40, s.Assumptions.RoicPeak)
	assert.Zero(t, s.IssuancePrice())

	e, err := s.Engine()
	require.NoError(t, err)
	m, ok := e.(valuation.SingleROIC)
	require.True(t, ok)
	assert.Equal(t, 8e9, m.BaseNOPAT, "no EBIT or OCF, falls back to FCF")
	assert.Equal(t, 7, m.Years)
}

func TestLoad_HJSONWithCAPM(t *testing.T) {
	s, err := Load(writeFile(t, "scenario.hjson", hjsonScenario))
	require.NoError(t, err)
	require.NoError(t, s.Validate())

	require.NotNil(t, s.CAPM)
	assert.InDelta(t, 0.10875*2/3+0.045/3, s.ResolveWACC(), 1e-12)
	assert.Equal(t, 0.08, s.Assumptions.GStart)
	assert.Equal(t, 5, s.Assumptions.Years)

	e, err := s.Engine()
	require.NoError(t, err)
	lg, ok := e.(valuation.LinearGrowth)
	require.True(t, ok)
	assert.Equal(t, s.ResolveWACC(), lg.WACC)
}

const yamlCAPMScenario = `
financials:
  fcf: 8000000000.0
  net_debt: 12000000000.0
  shares_outstanding: 1500000000.0
capm:
  risk_free_rate: 0.04
  unlevered_beta: 1.0
  market_risk_premium: 0.05
  pre_tax_cost_of_debt: 0.06
  tax_rate: 0.25
  debt_to_equity: 0.5
assumptions:
  g_start: 0.08
`

func TestLoad_YAMLCAPMWithoutWACC(t *testing.T) {
	s, err := Load(writeFile(t, "scenario.yaml", yamlCAPMScenario))
	require.NoError(t, err)
	require.NoError(t, s.Validate())

	assert.Nil(t, s.Assumptions.WACC)
	capm := valuation.CalculateWACC(*s.CAPM).WACC
	assert.InDelta(t, 0.0875, capm, 1e-12)
	assert.Equal(t, capm, s.ResolveWACC())

	e, err := s.Engine()
	require.NoError(t, err)
	assert.Equal(t, capm, e.(valuation.LinearGrowth).WACC)
}

func TestResolveWACC(t *testing.T) {
	capm := &valuation.WACCInput{RiskFreeRate: 0.04, UnleveredBeta: 1, MarketRiskPremium: 0.05, PreTaxCostOfDebt: 0.06, TaxRate: 0.25, DebtToEquityRatio: 0.5}
	explicit := 0.12

	cases := []struct {
		name string
		wacc *float64
		capm *valuation.WACCInput
		want float64
	}{
		{"neither falls back to default", nil, nil, DefaultWACC},
		{"capm only", nil, capm, 0.0875},
		{"explicit wacc wins over capm", &explicit, capm, 0.12},
		{"explicit wacc alone", &explicit, nil, 0.12},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := &Scenario{Assumptions: Defaults(), CAPM: tc.capm}
			s.Assumptions.WACC = tc.wacc
			assert.InDelta(t, tc.want, s.ResolveWACC(), 1e-12)
		})
	}
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "scenario.ini", "wacc=0.1"))
	assert.ErrorContains(t, err, "unsupported")

	_, err = Load(writeFile(t, "scenario.yaml", "financials: [1, 2"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	s := &Scenario{
		Financials:  inputs.FinancialInputs{FCF: 1, SharesOutstanding: 1},
		Assumptions: Defaults(),
	}
	require.NoError(t, s.Validate())

	noShares := *s
	noShares.Financials.SharesOutstanding = 0
	assert.Error(t, noShares.Validate())

	badModel := *s
	badModel.Assumptions.Model = "monte_carlo"
	assert.Error(t, badModel.Validate())

	badCAPM := *s
	badCAPM.CAPM = &valuation.WACCInput{UnleveredBeta: 1, MarketRiskPremium: 0.05, TaxRate: 1.5}
	assert.Error(t, badCAPM.Validate())
}

func TestEngine_UnknownModel(t *testing.T) {
	s := &Scenario{Assumptions: Assumptions{Model: "monte_carlo"}}
	_, err := s.Engine()
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"DCF_WACC":          "0.11",
		"DCF_YEARS":         "8",
		"DCF_ROIC_TERMINAL": "0.15",
		"DCF_MODEL":         "roic",
		"DCF_G_START":       "",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	s := &Scenario{Assumptions: Defaults()}
	require.NoError(t, s.ApplyEnv(lookup))
	require.NotNil(t, s.Assumptions.WACC)
	assert.Equal(t, 0.11, *s.Assumptions.WACC)
	assert.Equal(t, 8, s.Assumptions.Years)
	assert.Equal(t, "roic", s.Assumptions.Model)
	require.NotNil(t, s.Assumptions.RoicTerminal)
	assert.Equal(t, 0.15, *s.Assumptions.RoicTerminal)
	assert.Equal(t, 0.10, s.Assumptions.GStart, "empty value leaves the default")

	env["DCF_YEARS"] = "eight"
	assert.ErrorContains(t, s.ApplyEnv(lookup), "DCF_YEARS")
}

func TestLoadEnv(t *testing.T) {
	path := writeFile(t, ".env", "DCF_TEST_LOADENV_MARKER=0.125\n")
	t.Cleanup(func() { os.Unsetenv("DCF_TEST_LOADENV_MARKER") })

	LoadEnv(path, filepath.Join(t.TempDir(), "absent.env"))
	assert.Equal(t, "0.125", os.Getenv("DCF_TEST_LOADENV_MARKER"))
}
