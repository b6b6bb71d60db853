package valuation

import "math"

// Simulation grid constants: a fixed 7-year horizon, start growth from -5pp
// to +8pp around the chosen rate, terminal growth from 2% to 8%.
const (
	SimulationYears = 7
	simOffsetLow    = -5
	simOffsetHigh   = 8
	simTermLow      = 2
	simTermHigh     = 8
)

// SimulationGrid holds intrinsic prices indexed [terminal][start growth].
// A nil cell means the model is undefined there (WACC <= terminal growth).
type SimulationGrid struct {
	NearGrowthRates     []float64    `json:"near_growth_rates"`
	TerminalGrowthRates []float64    `json:"terminal_growth_rates"`
	Prices              [][]*float64 `json:"prices"`
}

// Simulate runs the linear-growth engine over the start/terminal growth grid.
func Simulate(fcf, nearGrowth, wacc, netDebt, sharesOutstanding float64) SimulationGrid {
	grid := SimulationGrid{}
	for d := simOffsetLow; d <= simOffsetHigh; d++ {
		g := math.Round((nearGrowth+float64(d)/100)*1e4) / 1e4
		grid.NearGrowthRates = append(grid.NearGrowthRates, g)
	}
	for x := simTermLow; x <= simTermHigh; x++ {
		grid.TerminalGrowthRates = append(grid.TerminalGrowthRates, float64(x)/100)
	}

	grid.Prices = make([][]*float64, len(grid.TerminalGrowthRates))
	for i, gTerminal := range grid.TerminalGrowthRates {
		row := make([]*float64, len(grid.NearGrowthRates))
		for j, gStart := range grid.NearGrowthRates {
			res, err := LinearGrowth{
				BaseFCF:           fcf,
				GStart:            gStart,
				GTerminal:         gTerminal,
				WACC:              wacc,
				NetDebt:           netDebt,
				SharesOutstanding: sharesOutstanding,
				Years:             SimulationYears,
			}.Project()
			if err != nil {
				continue
			}
			row[j] = floatPtr(res.IntrinsicPricePerShare)
		}
		grid.Prices[i] = row
	}
	return grid
}
