package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/phuslu/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "dcf",
	Short: "Discounted cash flow valuation",
	Long: `dcf values a company from a flat set of financial inputs.
Models:
- linear: FCF grows at a rate that decays linearly to terminal growth.
- roic: growth is funded by reinvesting g/ROIC of NOPAT; shortfalls are met by issuing shares.
- three_phase: ROIC climbs through Investment, holds at Scale, fades in Mature.
Inputs come from a scenario file (--config, YAML/TOML/JSON/HJSON), DCF_* environment
variables and flags, in increasing order of precedence.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupLogger(viper.GetString("log-level"))
		return nil
	},
}

func main() {
	cobra.OnInitialize(initConfig)
	addPersistentFlags()
	registerCommands()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func initConfig() {
	viper.SetEnvPrefix("DCF")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func setupLogger(level string) {
	log.DefaultLogger = log.Logger{
		Level:      log.ParseLevel(level),
		TimeFormat: "15:04:05",
		Writer: &log.ConsoleWriter{
			ColorOutput:    true,
			EndWithMessage: true,
			Writer:         os.Stderr,
		},
	}
}

func addPersistentFlags() {
	pf := rootCmd.PersistentFlags()
	pf.StringP("config", "c", "", "scenario file (.yaml, .toml, .json, .hjson)")
	pf.Bool("json", false, "output JSON")
	pf.String("log-level", "info", "log level (debug, info, warn, error)")
	pf.String("env-file", ".env", "dotenv file with DCF_* overrides")
	_ = viper.BindPFlag("config", pf.Lookup("config"))
	_ = viper.BindPFlag("json", pf.Lookup("json"))
	_ = viper.BindPFlag("log-level", pf.Lookup("log-level"))
	_ = viper.BindPFlag("env-file", pf.Lookup("env-file"))

	addAssumptionFlags(pf)
}

func registerCommands() {
	rootCmd.AddCommand(valueCmd())
	rootCmd.AddCommand(sensitivityCmd())
	rootCmd.AddCommand(reverseCmd())
	rootCmd.AddCommand(simulateCmd())
	rootCmd.AddCommand(waccCmd())
}
