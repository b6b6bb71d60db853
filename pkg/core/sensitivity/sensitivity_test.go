package sensitivity

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"intrinsic_valuation/pkg/core/valuation"
)

func params() valuation.ThreePhase {
	return valuation.ThreePhase{
		BaseNOPAT:         2e9,
		RoicInvest:        0.10,
		RoicPeak:          0.35,
		GStart:            0.25,
		GTerminal:         0.03,
		WACC:              0.09,
		NetDebt:           1e9,
		SharesOutstanding: 5e8,
		YearsInvest:       3,
		YearsScale:        4,
		YearsMature:       5,
		IssuancePrice:     40,
	}
}

func labels(items []Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Parameter)
	}
	return out
}

func TestSensitivity_RanksAllDrivers(t *testing.T) {
	items, err := Sensitivity(params(), nil)
	require.NoError(t, err)
	require.Len(t, items, 6)
	assert.ElementsMatch(t, []string{LabelWACC, LabelGStart, LabelGTerminal, LabelROICInvest, LabelROICPeak, LabelNOPAT}, labels(items))

	for i := 1; i < len(items); i++ {
		assert.GreaterOrEqual(t, math.Abs(items[i-1].Sensitivity), math.Abs(items[i].Sensitivity))
	}

	byLabel := map[string]float64{}
	for _, it := range items {
		byLabel[it.Parameter] = it.Sensitivity
	}
	assert.Less(t, byLabel[LabelWACC], 0.0, "higher discount rate lowers value")
	assert.Greater(t, byLabel[LabelROICPeak], 0.0, "higher ROIC needs less reinvestment")
}

func TestSensitivity_NOPATIsProportional(t *testing.T) {
	p := params()
	p.IssuancePrice = 0 // no dilution, so price is linear in NOPAT up to net debt
	p.NetDebt = 0

	items, err := Sensitivity(p, nil)
	require.NoError(t, err)
	for _, it := range items {
		if it.Parameter == LabelNOPAT {
			assert.InDelta(t, 1.0, it.Sensitivity, 1e-9)
			return
		}
	}
	t.Fatal("NOPAT driver missing")
}

func TestSensitivity_UsesSuppliedBasePrice(t *testing.T) {
	p := params()
	res, err := p.Project()
	require.NoError(t, err)

	computed, err := Sensitivity(p, nil)
	require.NoError(t, err)
	price := res.IntrinsicPricePerShare
	supplied, err := Sensitivity(p, &price)
	require.NoError(t, err)
	assert.Equal(t, computed, supplied)
}

func TestSensitivity_SkipsInfeasiblePerturbations(t *testing.T) {
	// g_terminal + 0.01 crosses wacc; every other direction stays valid.
	p := params()
	p.WACC = 0.05
	p.GTerminal = 0.045
	roicTerminal := 0.20
	p.RoicTerminal = &roicTerminal

	items, err := Sensitivity(p, nil)
	require.NoError(t, err)
	assert.NotContains(t, labels(items), LabelGTerminal)
	assert.Contains(t, labels(items), LabelWACC)
	assert.Len(t, items, 5)
}

func TestSensitivity_SkipsTerminalROICBreach(t *testing.T) {
	// Terminal ROIC 0.04 sits just above g_terminal, so g_terminal + 0.01
	// breaks roic_terminal > g_terminal before it reaches wacc.
	p := params()
	p.GTerminal = 0.035
	roicTerminal := 0.04
	p.RoicTerminal = &roicTerminal

	items, err := Sensitivity(p, nil)
	require.NoError(t, err)
	assert.NotContains(t, labels(items), LabelGTerminal)
	assert.Len(t, items, 5)
}

func TestSensitivity_BaseRunFailureIsReported(t *testing.T) {
	p := params()
	p.WACC = p.GTerminal

	_, err := Sensitivity(p, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, valuation.ErrInvalidAssumption))
}

func TestSensitivity_ZeroBasePrice(t *testing.T) {
	zero := 0.0
	_, err := Sensitivity(params(), &zero)
	assert.ErrorIs(t, err, ErrZeroBasePrice)
}

func TestCaption(t *testing.T) {
	assert.Empty(t, Caption(nil))
	assert.Contains(t, Caption([]Item{{Parameter: LabelWACC, Sensitivity: -20}}), "WACC dominates")
	assert.Equal(t, "Foo is the dominant value driver for this configuration.", Caption([]Item{{Parameter: "Foo"}}))
}
