package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"intrinsic_valuation/pkg/core/sensitivity"
	"intrinsic_valuation/pkg/core/valuation"
)

func TestRun_Linear(t *testing.T) {
	var buf bytes.Buffer
	err := run("linear", `{"base_fcf": 100, "g_start": 0.10, "g_terminal": 0.025, "wacc": 0.10, "shares_outstanding": 100, "years": 5}`, &buf)
	require.NoError(t, err)

	var res valuation.ValuationResult
	require.NoError(t, json.Unmarshal(buf.Bytes(), &res))
	assert.InDelta(t, 110.0, res.Rows[0].FreeCashFlow, 1e-9)
}

func TestRun_LenientPayload(t *testing.T) {
	var buf bytes.Buffer
	err := run("roic", `{'base_nopat': 100, 'roic': 0.2, 'g_start': 0.1, 'g_terminal': 0.02, 'wacc': 0.08, 'shares_outstanding': 10, 'years': 5,}`, &buf)
	require.NoError(t, err)

	var res valuation.ValuationResult
	require.NoError(t, json.Unmarshal(buf.Bytes(), &res))
	assert.Equal(t, valuation.ModelSingleROIC, res.Model)
	assert.Len(t, res.Rows, 5)
}

func TestRun_ThreePhaseInvalid(t *testing.T) {
	var buf bytes.Buffer
	err := run("three_phase", `{"base_nopat": 1, "roic_invest": 0.1, "roic_peak": 0.3, "wacc": 0.05, "g_terminal": 0.08, "shares_outstanding": 1, "years_mature": 3}`, &buf)
	require.Error(t, err)
	assert.True(t, errors.Is(err, valuation.ErrInvalidAssumption))
	assert.Zero(t, buf.Len())
}

func TestRun_Sensitivity(t *testing.T) {
	var buf bytes.Buffer
	err := run("sensitivity", `{"base_nopat": 2e9, "roic_invest": 0.1, "roic_peak": 0.35, "g_start": 0.25, "g_terminal": 0.03,
		"wacc": 0.09, "net_debt": 1e9, "shares_outstanding": 5e8, "years_invest": 3, "years_scale": 4, "years_mature": 5, "issuance_price": 40}`, &buf)
	require.NoError(t, err)

	var items []sensitivity.Item
	require.NoError(t, json.Unmarshal(buf.Bytes(), &items))
	assert.Len(t, items, 6)
}

func TestRun_Reverse(t *testing.T) {
	var buf bytes.Buffer
	err := run("reverse", `{"financials": {"fcf": 8e9, "net_debt": 12e9, "shares_outstanding": 1.5e9, "current_price": 120},
		"wacc": 0.09, "near_growth": 0.10, "g_terminal": 0.025, "years": 10, "sweep": true}`, &buf)
	require.NoError(t, err)

	var res struct {
		ImpliedGrowth       *float64          `json:"implied_growth"`
		ImpliedDiscountRate *float64          `json:"implied_discount_rate"`
		Sweep               []json.RawMessage `json:"sweep"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &res))
	require.NotNil(t, res.ImpliedGrowth)
	assert.InDelta(t, 0.1275, *res.ImpliedGrowth, 1e-3)
	assert.Len(t, res.Sweep, 9)
}

func TestRun_UnknownMode(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorContains(t, run("monte_carlo", `{}`, &buf), "unknown mode")
}
