package main

import (
	"encoding/json"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"intrinsic_valuation/pkg/core/config"
	"intrinsic_valuation/pkg/core/format"
	"intrinsic_valuation/pkg/core/valuation"
)

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newTable(cmd *cobra.Command) table.Writer {
	tw := table.NewWriter()
	tw.SetOutputMirror(cmd.OutOrStdout())
	return tw
}

func renderSummary(cmd *cobra.Command, s *config.Scenario, res *valuation.ValuationResult) {
	tw := newTable(cmd)
	title := s.Company
	if title == "" {
		title = "Valuation"
	}
	tw.SetTitle(title + " (" + res.Model + ")")
	tw.AppendHeader(table.Row{"Metric", "Value"})
	tw.AppendRow(table.Row{"Intrinsic value / share", format.Price(res.IntrinsicPricePerShare)})
	if p := s.Financials.CurrentPrice; p > 0 {
		margin, verdict := valuation.MarginOfSafety(res.IntrinsicPricePerShare, p)
		tw.AppendRow(table.Row{"Market price", format.Price(p)})
		tw.AppendRow(table.Row{"Market cap", format.Billions(s.Financials.MarketCap())})
		tw.AppendRow(table.Row{"Margin of safety", format.SignedPercent(margin) + " " + string(verdict)})
	}
	tw.AppendSeparator()
	tw.AppendRow(table.Row{"PV of forecast FCF", format.Billions(res.SumPVForecastYears)})
	tw.AppendRow(table.Row{"PV of terminal value", format.Billions(res.PVTerminalValue)})
	tw.AppendRow(table.Row{"Enterprise value", format.Billions(res.EnterpriseValue)})
	tw.AppendRow(table.Row{"Net debt", format.Billions(res.NetDebt)})
	tw.AppendRow(table.Row{"Equity value", format.Billions(res.EquityValue)})
	tw.AppendRow(table.Row{"Diluted shares", format.Millions(res.DilutedSharesFinal)})
	if res.TotalNewSharesIssued > 0 {
		tw.AppendRow(table.Row{"New shares issued", format.Millions(res.TotalNewSharesIssued)})
	}
	tw.Render()
}

func renderForecast(cmd *cobra.Command, res *valuation.ValuationResult, gTerminal, wacc float64) {
	tw := newTable(cmd)
	tw.AppendHeader(table.Row{"Year", "Phase", "g", "ROIC", "RR", "Base", "FCF", "Equity raised", "Shares", "DF", "PV"})
	rows := append(append([]valuation.ForecastYearRow{}, res.Rows...), valuation.TerminalRows(res, gTerminal, wacc)...)
	for _, r := range rows {
		if r.Phase == valuation.PhaseTerminal && r.YearIndex == res.TotalYears+1 {
			tw.AppendSeparator()
		}
		tw.AppendRow(table.Row{
			r.YearIndex, r.Phase, format.Percent(r.GrowthRate),
			format.PercentPtr(r.ROIC), format.PercentPtr(r.ReinvestmentRate),
			format.Billions(r.BaseMetric), format.Billions(r.FreeCashFlow), format.Billions(r.EquityRaised),
			format.Millions(r.CumulativeDilutedShares), format.Ratio(r.DiscountFactor), format.Billions(r.PresentValue),
		})
	}
	tw.Render()
}
