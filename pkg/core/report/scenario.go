package report

import (
	"github.com/phuslu/log"

	"intrinsic_valuation/pkg/core/config"
	"intrinsic_valuation/pkg/core/reverse"
	"intrinsic_valuation/pkg/core/sensitivity"
	"intrinsic_valuation/pkg/core/valuation"
)

// FromScenario assembles a report input for a finished run. Driver ranking is
// added for three-phase runs and market-implied rates whenever the scenario
// carries a market price.
func FromScenario(s *config.Scenario, res *valuation.ValuationResult) Input {
	base, source := s.Financials.FCF, "FCF"
	if res.Model != valuation.ModelLinearGrowth {
		nopat, src := s.Financials.NOPATProxy()
		base, source = nopat, string(src)
	}
	wacc := s.ResolveWACC()
	in := Input{
		Company:     s.Company,
		Ticker:      s.Financials.Ticker,
		MarketPrice: s.Financials.CurrentPrice,
		BaseMetric:  base,
		BaseSource:  source,
		WACC:        wacc,
		GTerminal:   s.Assumptions.GTerminal,
		Result:      res,
	}

	if res.Model == valuation.ModelThreePhase {
		items, err := sensitivity.Sensitivity(s.ThreePhase(), &res.IntrinsicPricePerShare)
		if err != nil {
			log.Warn().Err(err).Msg("report: skipping value drivers")
		} else {
			in.Sensitivity = items
		}
	}

	if s.Financials.CurrentPrice > 0 {
		mcap := s.Financials.MarketCap()
		in.MarketCap = &mcap

		a := s.Assumptions
		rr := reverse.Run(s.Financials, wacc, a.GStart, a.GTerminal, a.Years)
		in.Reverse = &rr
		in.Sweep = reverse.SweepImpliedGrowth(s.Financials, wacc, a.GTerminal, a.Years)
	}
	return in
}
