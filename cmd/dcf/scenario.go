package main

import (
	"os"

	"github.com/phuslu/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"intrinsic_valuation/pkg/core/config"
)

func addAssumptionFlags(pf *pflag.FlagSet) {
	d := config.Defaults()

	pf.String("company", "", "company name")
	pf.Float64("fcf", 0, "base free cash flow ($)")
	pf.Float64("net-debt", 0, "total debt minus cash ($)")
	pf.Float64("shares", 0, "shares outstanding")
	pf.Float64("price", 0, "current market price per share")
	pf.Float64("ebit", 0, "EBIT ($), preferred NOPAT source")
	pf.Float64("tax-rate", 0, "effective tax rate applied to EBIT")
	pf.Float64("ocf", 0, "operating cash flow ($), second NOPAT source")

	pf.String("model", d.Model, "engine: linear, roic, three_phase")
	pf.Float64("wacc", config.DefaultWACC, "discount rate (when unset: the capm block, else this default)")
	pf.Float64("g-start", d.GStart, "year-1 growth rate")
	pf.Float64("g-terminal", d.GTerminal, "perpetual growth rate")
	pf.Int("years", d.Years, "forecast years (linear, roic)")
	pf.Float64("roic", d.ROIC, "return on invested capital (roic)")
	pf.Float64("roic-invest", d.RoicInvest, "starting ROIC of the investment phase")
	pf.Float64("roic-peak", d.RoicPeak, "ROIC held through the scale phase")
	pf.Float64("roic-terminal", 0, "terminal ROIC (default: WACC)")
	pf.Int("years-invest", d.YearsInvest, "investment phase years")
	pf.Int("years-scale", d.YearsScale, "scale phase years")
	pf.Int("years-mature", d.YearsMature, "mature phase years")
	pf.Float64("issuance-price", 0, "price for new shares covering negative FCF (0 disables dilution)")
	pf.Bool("issue-at-market", false, "issue new shares at the current market price")
}

// loadScenario layers defaults, the scenario file, DCF_* variables and
// explicitly set flags.
func loadScenario(cmd *cobra.Command) (*config.Scenario, error) {
	config.LoadEnv(viper.GetString("env-file"))

	s := &config.Scenario{Assumptions: config.Defaults()}
	if path := viper.GetString("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		s = loaded
	}
	if err := s.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	applyFlags(cmd.Flags(), s)

	if err := s.Validate(); err != nil {
		return nil, err
	}
	log.Debug().Str("company", s.Company).Str("model", s.Assumptions.Model).
		Float64("wacc", s.ResolveWACC()).Msg("scenario ready")
	return s, nil
}

func applyFlags(fs *pflag.FlagSet, s *config.Scenario) {
	f := &s.Financials
	a := &s.Assumptions

	setString := func(name string, dst *string) {
		if fs.Changed(name) {
			*dst, _ = fs.GetString(name)
		}
	}
	setFloat := func(name string, dst *float64) {
		if fs.Changed(name) {
			*dst, _ = fs.GetFloat64(name)
		}
	}
	setFloatPtr := func(name string, dst **float64) {
		if fs.Changed(name) {
			v, _ := fs.GetFloat64(name)
			*dst = &v
		}
	}
	setInt := func(name string, dst *int) {
		if fs.Changed(name) {
			*dst, _ = fs.GetInt(name)
		}
	}

	setString("company", &s.Company)
	setFloat("fcf", &f.FCF)
	setFloat("net-debt", &f.NetDebt)
	setFloat("shares", &f.SharesOutstanding)
	setFloat("price", &f.CurrentPrice)
	setFloatPtr("ebit", &f.EBIT)
	setFloatPtr("tax-rate", &f.EffectiveTaxRate)
	setFloatPtr("ocf", &f.OperatingCashFlow)

	setString("model", &a.Model)
	setFloatPtr("wacc", &a.WACC)
	setFloat("g-start", &a.GStart)
	setFloat("g-terminal", &a.GTerminal)
	setInt("years", &a.Years)
	setFloat("roic", &a.ROIC)
	setFloat("roic-invest", &a.RoicInvest)
	setFloat("roic-peak", &a.RoicPeak)
	setFloatPtr("roic-terminal", &a.RoicTerminal)
	setInt("years-invest", &a.YearsInvest)
	setInt("years-scale", &a.YearsScale)
	setInt("years-mature", &a.YearsMature)
	setFloat("issuance-price", &a.IssuancePrice)
	if fs.Changed("issue-at-market") {
		a.IssueAtMarket, _ = fs.GetBool("issue-at-market")
	}
}
