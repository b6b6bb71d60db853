// Package report renders a valuation run as a Markdown document and,
// optionally, as HTML.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"intrinsic_valuation/pkg/core/format"
	"intrinsic_valuation/pkg/core/reverse"
	"intrinsic_valuation/pkg/core/sensitivity"
	"intrinsic_valuation/pkg/core/valuation"
)

// Input is everything a report can show. Only Result is required; empty
// optional sections are left out.
type Input struct {
	Company     string
	Ticker      string
	MarketPrice float64
	MarketCap   *float64 // nil without a market price
	BaseMetric  float64  // year-0 FCF or NOPAT
	BaseSource  string   // where BaseMetric came from, e.g. "Operating Cash Flow"
	WACC        float64
	GTerminal   float64
	Result      *valuation.ValuationResult
	Sensitivity []sensitivity.Item
	Reverse     *reverse.Result
	Sweep       []reverse.SweepPoint
}

// Report is one rendered run.
type Report struct {
	RunID       string
	GeneratedAt time.Time
	Input       Input
}

// New stamps a run ID and timestamp.
func New(in Input) *Report {
	return &Report{
		RunID:       uuid.New().String(),
		GeneratedAt: time.Now().UTC(),
		Input:       in,
	}
}

func (r *Report) title() string {
	name := r.Input.Company
	if name == "" {
		name = "Valuation"
	}
	if r.Input.Ticker != "" {
		name = fmt.Sprintf("%s (%s)", name, r.Input.Ticker)
	}
	return name
}

// Markdown renders the full document.
func (r *Report) Markdown() string {
	in := r.Input
	res := in.Result

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# %s: Intrinsic Value\n\n", r.title()))
	sb.WriteString(fmt.Sprintf("Run `%s` · model `%s` · %s\n\n", r.RunID, res.Model, r.GeneratedAt.Format("2006-01-02 15:04 MST")))

	// 1. Summary
	sb.WriteString("## Summary\n\n")
	sb.WriteString("| Metric | Value |\n|---|---|\n")
	sb.WriteString(fmt.Sprintf("| Intrinsic value per share | %s |\n", format.Price(res.IntrinsicPricePerShare)))
	if in.MarketPrice > 0 {
		margin, verdict := valuation.MarginOfSafety(res.IntrinsicPricePerShare, in.MarketPrice)
		sb.WriteString(fmt.Sprintf("| Market price | %s |\n", format.Price(in.MarketPrice)))
		sb.WriteString(fmt.Sprintf("| Margin of safety | %s (%s) |\n", format.SignedPercent(margin), verdict))
	}
	sb.WriteString(fmt.Sprintf("| Market cap | %s |\n", format.BillionsPtr(in.MarketCap)))
	sb.WriteString(fmt.Sprintf("| Enterprise value | %s |\n", format.Billions(res.EnterpriseValue)))
	sb.WriteString(fmt.Sprintf("| EV / base metric | %s |\n", format.Multiple(evMultiple(res.EnterpriseValue, in.BaseMetric))))
	sb.WriteString(fmt.Sprintf("| Net debt | %s |\n", format.Billions(res.NetDebt)))
	sb.WriteString(fmt.Sprintf("| Equity value | %s |\n", format.Billions(res.EquityValue)))
	sb.WriteString(fmt.Sprintf("| PV of forecast FCF | %s |\n", format.Billions(res.SumPVForecastYears)))
	sb.WriteString(fmt.Sprintf("| PV of terminal value | %s |\n", format.Billions(res.PVTerminalValue)))
	if res.EnterpriseValue != 0 {
		sb.WriteString(fmt.Sprintf("| Terminal share of EV | %s |\n", format.Percent(res.PVTerminalValue/res.EnterpriseValue)))
	}
	sb.WriteString(fmt.Sprintf("| Diluted shares | %s |\n", format.Millions(res.DilutedSharesFinal)))
	if res.TotalNewSharesIssued > 0 {
		sb.WriteString(fmt.Sprintf("| New shares issued | %s at %s |\n", format.Millions(res.TotalNewSharesIssued), format.Price(res.IssuancePrice)))
	}
	if in.BaseSource != "" {
		sb.WriteString(fmt.Sprintf("| Base metric | %s (%s) |\n", format.Billions(in.BaseMetric), in.BaseSource))
	}
	sb.WriteString("\n")

	// 2. Forecast
	sb.WriteString("## Forecast\n\n")
	sb.WriteString("| Year | Phase | Growth | ROIC | Reinvestment | Base ($B) | FCF ($B) | Shares (M) | PV ($B) |\n")
	sb.WriteString("|---|---|---|---|---|---|---|---|---|\n")
	sb.WriteString(fmt.Sprintf("| 0 | Base | | | | %s | | | |\n", format.Billions(in.BaseMetric)))
	rows := res.Rows
	if in.WACC > in.GTerminal {
		rows = append(append([]valuation.ForecastYearRow{}, rows...), valuation.TerminalRows(res, in.GTerminal, in.WACC)...)
	}
	for _, row := range rows {
		sb.WriteString(fmt.Sprintf("| %d | %s | %s | %s | %s | %s | %s | %s | %s |\n",
			row.YearIndex, row.Phase, format.Percent(row.GrowthRate),
			format.PercentPtr(row.ROIC), format.PercentPtr(row.ReinvestmentRate),
			format.Billions(row.BaseMetric), format.Billions(row.FreeCashFlow),
			format.Millions(row.CumulativeDilutedShares), format.Billions(row.PresentValue)))
	}
	sb.WriteString("\n")

	// 3. Sensitivity
	if len(in.Sensitivity) > 0 {
		sb.WriteString("## Value Drivers\n\n")
		sb.WriteString("| Rank | Parameter | Δ Value per step |\n|---|---|---|\n")
		for i, item := range in.Sensitivity {
			sb.WriteString(fmt.Sprintf("| %d | %s | %s |\n", i+1, item.Parameter, format.SignedPercent(item.Sensitivity)))
		}
		sb.WriteString(fmt.Sprintf("\n%s\n\n", sensitivity.Caption(in.Sensitivity)))
	}

	// 4. Reverse DCF
	if in.Reverse != nil || len(in.Sweep) > 0 {
		sb.WriteString("## Market-Implied Expectations\n\n")
		if in.Reverse != nil {
			sb.WriteString(fmt.Sprintf("- Implied growth: **%s**\n", format.PercentPtr(in.Reverse.ImpliedGrowth)))
			sb.WriteString(fmt.Sprintf("- Implied discount rate: **%s**\n\n", format.PercentPtr(in.Reverse.ImpliedDiscountRate)))
		}
		if len(in.Sweep) > 0 {
			sb.WriteString("| r (WACC) | Implied g |\n|---|---|\n")
			for _, p := range in.Sweep {
				sb.WriteString(fmt.Sprintf("| %s | %s |\n", format.Percent(p.WACC), sweepLabel(p)))
			}
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// evMultiple is EV over the year-0 metric, nil when that metric is not positive.
func evMultiple(ev, base float64) *float64 {
	if base <= 0 {
		return nil
	}
	m := ev / base
	return &m
}

func sweepLabel(p reverse.SweepPoint) string {
	if p.Infeasible {
		return "N/A (r ≤ g∞)"
	}
	label := format.PercentPtr(p.ImpliedGrowth)
	if p.Selected {
		label += " ← selected r"
	}
	return label
}
