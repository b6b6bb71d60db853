package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"github.com/phuslu/log"
	"gopkg.in/yaml.v2"

	"intrinsic_valuation/pkg/core/inputs"
)

// EnvPrefix namespaces every override variable.
const EnvPrefix = "DCF_"

// Load reads a scenario file; the decoder is chosen by extension. Fields the
// file leaves out keep their Defaults.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}

	s := &Scenario{Assumptions: Defaults()}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, s)
	case ".toml":
		err = toml.Unmarshal(data, s)
	case ".json":
		_, err = inputs.SmartParse(string(data), s)
	case ".hjson":
		var converted string
		if converted, err = inputs.ParseHJSON(string(data)); err == nil {
			err = json.Unmarshal([]byte(converted), s)
		}
	default:
		return nil, fmt.Errorf("unsupported scenario format %q", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}

	if s.Company == "" {
		s.Company = s.Financials.CompanyName
	}
	log.Debug().Str("path", path).Str("company", s.Company).Str("model", s.Assumptions.Model).Msg("scenario loaded")
	return s, nil
}

// LoadEnv loads .env files into the process environment. Missing files are
// not an error; variables already set win over file values.
func LoadEnv(files ...string) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			log.Debug().Str("file", f).Msg("env file not loaded")
		}
	}
}

// ApplyEnv overrides assumptions from DCF_* variables using lookup (normally
// os.LookupEnv). A malformed value is an error, not a silent skip.
func (s *Scenario) ApplyEnv(lookup func(string) (string, bool)) error {
	a := &s.Assumptions

	floats := []struct {
		key string
		dst *float64
	}{
		{"G_START", &a.GStart},
		{"G_TERMINAL", &a.GTerminal},
		{"ROIC", &a.ROIC},
		{"ROIC_INVEST", &a.RoicInvest},
		{"ROIC_PEAK", &a.RoicPeak},
		{"ISSUANCE_PRICE", &a.IssuancePrice},
	}
	for _, f := range floats {
		raw, ok := lookup(EnvPrefix + f.key)
		if !ok || raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, f.key, err)
		}
		*f.dst = v
	}

	ints := []struct {
		key string
		dst *int
	}{
		{"YEARS", &a.Years},
		{"YEARS_INVEST", &a.YearsInvest},
		{"YEARS_SCALE", &a.YearsScale},
		{"YEARS_MATURE", &a.YearsMature},
	}
	for _, f := range ints {
		raw, ok := lookup(EnvPrefix + f.key)
		if !ok || raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, f.key, err)
		}
		*f.dst = v
	}

	// Optional rates: setting one makes it explicit.
	optional := []struct {
		key string
		dst **float64
	}{
		{"WACC", &a.WACC},
		{"ROIC_TERMINAL", &a.RoicTerminal},
	}
	for _, f := range optional {
		raw, ok := lookup(EnvPrefix + f.key)
		if !ok || raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, f.key, err)
		}
		*f.dst = &v
	}
	if raw, ok := lookup(EnvPrefix + "MODEL"); ok && raw != "" {
		a.Model = raw
	}
	return nil
}
