package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"intrinsic_valuation/pkg/core/format"
	"intrinsic_valuation/pkg/core/reverse"
	"intrinsic_valuation/pkg/core/sensitivity"
	"intrinsic_valuation/pkg/core/valuation"
)

func sampleInput(t *testing.T) Input {
	t.Helper()
	m := valuation.ThreePhase{
		BaseNOPAT: 2e9, RoicInvest: 0.10, RoicPeak: 0.35, GStart: 0.25, GTerminal: 0.03,
		WACC: 0.09, NetDebt: 1e9, SharesOutstanding: 5e8,
		YearsInvest: 2, YearsScale: 2, YearsMature: 3, IssuancePrice: 40,
	}
	res, err := m.Project()
	require.NoError(t, err)
	items, err := sensitivity.Sensitivity(m, &res.IntrinsicPricePerShare)
	require.NoError(t, err)

	g := 0.14
	return Input{
		Company:     "Example Corp",
		Ticker:      "EXC",
		MarketPrice: 75,
		BaseMetric:  2e9,
		BaseSource:  "Operating Cash Flow",
		WACC:        0.09,
		GTerminal:   0.03,
		Result:      res,
		Sensitivity: items,
		Reverse:     &reverse.Result{ImpliedGrowth: &g},
		Sweep: []reverse.SweepPoint{
			{WACC: 0.02, Infeasible: true},
			{WACC: 0.09, ImpliedGrowth: &g, Selected: true},
		},
	}
}

func TestMarkdown_Sections(t *testing.T) {
	r := New(sampleInput(t))
	_, err := uuid.Parse(r.RunID)
	require.NoError(t, err)

	md := r.Markdown()
	assert.True(t, strings.HasPrefix(md, "# Example Corp (EXC): Intrinsic Value"))
	assert.Contains(t, md, r.RunID)
	assert.Contains(t, md, "## Summary")
	assert.Contains(t, md, "## Forecast")
	assert.Contains(t, md, "## Value Drivers")
	assert.Contains(t, md, "## Market-Implied Expectations")
	assert.Contains(t, md, "| 0 | Base |")
	assert.Contains(t, md, "| 8 | Terminal |")
	assert.Contains(t, md, "| 9 | Terminal |")
	assert.Contains(t, md, "Implied discount rate: **N/A**")
	assert.Contains(t, md, "N/A (r ≤ g∞)")
	assert.Contains(t, md, "14.0% ← selected r")
	assert.Contains(t, md, "Operating Cash Flow")
	assert.Contains(t, md, "| Market cap | N/A |")
	assert.Contains(t, md, "| EV / base metric | "+format.Multiple(evMultiple(r.Input.Result.EnterpriseValue, 2e9))+" |")
}

func TestEVMultiple(t *testing.T) {
	m := evMultiple(30e9, 2e9)
	require.NotNil(t, m)
	assert.Equal(t, 15.0, *m)
	assert.Nil(t, evMultiple(30e9, 0))
	assert.Nil(t, evMultiple(30e9, -1e9))
	assert.Equal(t, "N/A", format.Multiple(evMultiple(1, 0)))
}

func TestMarkdown_OptionalSectionsOmitted(t *testing.T) {
	in := sampleInput(t)
	in.Sensitivity = nil
	in.Reverse = nil
	in.Sweep = nil
	in.MarketPrice = 0
	in.Company = ""
	in.Ticker = ""

	md := New(in).Markdown()
	assert.True(t, strings.HasPrefix(md, "# Valuation: Intrinsic Value"))
	assert.NotContains(t, md, "Value Drivers")
	assert.NotContains(t, md, "Market-Implied")
	assert.NotContains(t, md, "Margin of safety")
}

func TestHTML_Tables(t *testing.T) {
	in := sampleInput(t)
	page, err := New(in).HTML()
	require.NoError(t, err)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	require.NoError(t, err)

	assert.Equal(t, "Example Corp (EXC)", doc.Find("title").Text())
	assert.Equal(t, "Example Corp (EXC): Intrinsic Value", doc.Find("h1").Text())
	assert.Equal(t, 4, doc.Find("table").Length(), "summary, forecast, drivers, sweep")

	// Year 0 + 7 forecast years + 2 terminal rows.
	forecast := doc.Find("table").Eq(1)
	assert.Equal(t, 10, forecast.Find("tbody tr").Length())
	assert.Equal(t, "0", strings.TrimSpace(forecast.Find("tbody tr").First().Find("td").First().Text()))

	drivers := doc.Find("table").Eq(2)
	assert.Equal(t, len(in.Sensitivity), drivers.Find("tbody tr").Length())
	assert.Equal(t, in.Sensitivity[0].Parameter, drivers.Find("tbody tr").First().Find("td").Eq(1).Text())
}

func TestRenderHTML(t *testing.T) {
	out, err := RenderHTML("| a | b |\n|---|---|\n| 1 | 2 |\n")
	require.NoError(t, err)
	assert.Contains(t, out, "<table>")
	assert.Contains(t, out, "<td>1</td>")
}

func TestWriteFile(t *testing.T) {
	r := New(sampleInput(t))
	dir := t.TempDir()

	mdPath := filepath.Join(dir, "report.md")
	require.NoError(t, r.WriteFile(mdPath))
	data, err := os.ReadFile(mdPath)
	require.NoError(t, err)
	assert.Equal(t, r.Markdown(), string(data))

	htmlPath := filepath.Join(dir, "report.html")
	require.NoError(t, r.WriteFile(htmlPath))
	data, err = os.ReadFile(htmlPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "<!DOCTYPE html>"))
}
