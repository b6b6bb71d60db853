package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/phuslu/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"intrinsic_valuation/pkg/core/config"
	"intrinsic_valuation/pkg/core/format"
	"intrinsic_valuation/pkg/core/report"
	"intrinsic_valuation/pkg/core/reverse"
	"intrinsic_valuation/pkg/core/sensitivity"
	"intrinsic_valuation/pkg/core/valuation"
)

func valueCmd() *cobra.Command {
	var reportPath string
	cmd := &cobra.Command{
		Use:   "value",
		Short: "Run the forward valuation",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadScenario(cmd)
			if err != nil {
				return err
			}
			engine, err := s.Engine()
			if err != nil {
				return err
			}
			res, err := engine.Project()
			if err != nil {
				return err
			}
			log.Info().Str("model", res.Model).Float64("price", res.IntrinsicPricePerShare).Msg("valuation complete")

			if reportPath != "" {
				if err := writeReport(s, res, reportPath); err != nil {
					return err
				}
				log.Info().Str("path", reportPath).Msg("report written")
			}

			if viper.GetBool("json") {
				return printJSON(cmd, res)
			}
			renderSummary(cmd, s, res)
			renderForecast(cmd, res, s.Assumptions.GTerminal, s.ResolveWACC())
			return nil
		},
	}
	cmd.Flags().StringVar(&reportPath, "report", "", "write a report (.md or .html)")
	return cmd
}

func writeReport(s *config.Scenario, res *valuation.ValuationResult, path string) error {
	return report.New(report.FromScenario(s, res)).WriteFile(path)
}

func sensitivityCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sensitivity",
		Short: "Rank three-phase value drivers by a +1pp / +1% nudge",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadScenario(cmd)
			if err != nil {
				return err
			}
			items, err := sensitivity.Sensitivity(s.ThreePhase(), nil)
			if err != nil {
				return err
			}
			if viper.GetBool("json") {
				return printJSON(cmd, items)
			}
			tw := newTable(cmd)
			tw.AppendHeader(table.Row{"#", "Parameter", "Δ Value"})
			for i, it := range items {
				tw.AppendRow(table.Row{i + 1, it.Parameter, format.SignedPercent(it.Sensitivity)})
			}
			tw.Render()
			fmt.Fprintln(cmd.OutOrStdout(), sensitivity.Caption(items))
			return nil
		},
	}
}

func reverseCmd() *cobra.Command {
	var sweep bool
	cmd := &cobra.Command{
		Use:   "reverse",
		Short: "Solve for the growth and discount rate the market price implies",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadScenario(cmd)
			if err != nil {
				return err
			}
			if s.Financials.CurrentPrice <= 0 {
				return fmt.Errorf("reverse DCF needs a market price (--price or financials.current_price)")
			}
			a := s.Assumptions
			wacc := s.ResolveWACC()

			out := struct {
				reverse.Result
				Sweep []reverse.SweepPoint `json:"sweep,omitempty"`
			}{Result: reverse.Run(s.Financials, wacc, a.GStart, a.GTerminal, a.Years)}
			if sweep {
				out.Sweep = reverse.SweepImpliedGrowth(s.Financials, wacc, a.GTerminal, a.Years)
			}

			if viper.GetBool("json") {
				return printJSON(cmd, out)
			}
			tw := newTable(cmd)
			tw.AppendHeader(table.Row{"Solve", "Held fixed", "Implied"})
			tw.AppendRow(table.Row{"growth g", "r = " + format.Percent(wacc), format.PercentPtr(out.ImpliedGrowth)})
			tw.AppendRow(table.Row{"discount rate r", "g = " + format.Percent(a.GStart), format.PercentPtr(out.ImpliedDiscountRate)})
			tw.Render()

			if len(out.Sweep) > 0 {
				sw := newTable(cmd)
				sw.AppendHeader(table.Row{"r (WACC)", "Implied g", ""})
				for _, p := range out.Sweep {
					implied, note := format.PercentPtr(p.ImpliedGrowth), ""
					if p.Infeasible {
						implied = "N/A (r ≤ g∞)"
					}
					if p.Selected {
						note = "← selected r"
					}
					sw.AppendRow(table.Row{format.Percent(p.WACC), implied, note})
				}
				sw.Render()
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&sweep, "sweep", false, "also solve implied g at WACC ±2pp")
	return cmd
}

func simulateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "simulate",
		Short: "Price grid over start growth x terminal growth (7-year linear model)",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadScenario(cmd)
			if err != nil {
				return err
			}
			f := s.Financials
			grid := valuation.Simulate(f.FCF, s.Assumptions.GStart, s.ResolveWACC(), f.NetDebt, f.SharesOutstanding)
			if viper.GetBool("json") {
				return printJSON(cmd, grid)
			}

			tw := newTable(cmd)
			header := table.Row{"g∞ \\ g"}
			for _, g := range grid.NearGrowthRates {
				header = append(header, format.Percent(g))
			}
			tw.AppendHeader(header)
			for i, gt := range grid.TerminalGrowthRates {
				row := table.Row{format.Percent(gt)}
				for _, p := range grid.Prices[i] {
					if p == nil {
						row = append(row, format.NA)
						continue
					}
					row = append(row, format.Price(*p))
				}
				tw.AppendRow(row)
			}
			tw.Render()
			return nil
		},
	}
}

func waccCmd() *cobra.Command {
	var in valuation.WACCInput
	cmd := &cobra.Command{
		Use:   "wacc",
		Short: "Build a discount rate from CAPM and Hamada re-levering",
		RunE: func(cmd *cobra.Command, args []string) error {
			if path := viper.GetString("config"); path != "" {
				s, err := config.Load(path)
				if err != nil {
					return err
				}
				if s.CAPM == nil {
					return fmt.Errorf("%s has no capm block", path)
				}
				in = *s.CAPM
			}
			if err := in.Validate(); err != nil {
				return err
			}
			res := valuation.CalculateWACC(in)
			if viper.GetBool("json") {
				return printJSON(cmd, res)
			}
			tw := newTable(cmd)
			tw.AppendHeader(table.Row{"Component", "Value"})
			tw.AppendRows([]table.Row{
				{"Levered beta", fmt.Sprintf("%.3f", res.LeveredBeta)},
				{"Cost of equity", format.Percent(res.CostOfEquity)},
				{"After-tax cost of debt", format.Percent(res.CostOfDebt)},
				{"Weight equity", format.Percent(res.WeightEquity)},
				{"Weight debt", format.Percent(res.WeightDebt)},
				{"WACC", format.Percent(res.WACC)},
			})
			tw.Render()
			return nil
		},
	}
	cmd.Flags().Float64Var(&in.RiskFreeRate, "risk-free", 0.04, "risk-free rate")
	cmd.Flags().Float64Var(&in.UnleveredBeta, "beta-u", 1.0, "unlevered beta")
	cmd.Flags().Float64Var(&in.MarketRiskPremium, "erp", 0.05, "equity risk premium")
	cmd.Flags().Float64Var(&in.PreTaxCostOfDebt, "kd", 0.06, "pre-tax cost of debt")
	cmd.Flags().Float64Var(&in.TaxRate, "tax", 0.21, "marginal tax rate")
	cmd.Flags().Float64Var(&in.DebtToEquityRatio, "de", 0.3, "target debt / equity")
	return cmd
}
