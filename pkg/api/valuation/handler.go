// Package valuation exposes the valuation engines over HTTP.
package valuation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/phuslu/log"

	"intrinsic_valuation/pkg/core/config"
	"intrinsic_valuation/pkg/core/inputs"
	"intrinsic_valuation/pkg/core/report"
	"intrinsic_valuation/pkg/core/reverse"
	"intrinsic_valuation/pkg/core/sensitivity"
	core "intrinsic_valuation/pkg/core/valuation"
)

const maxBodyBytes = 1 << 20

// ValuationResponse pairs the forward run with the market comparison.
type ValuationResponse struct {
	Result         *core.ValuationResult `json:"result"`
	MarketPrice    float64               `json:"market_price,omitempty"`
	MarginOfSafety *float64              `json:"margin_of_safety,omitempty"`
	Verdict        core.Verdict          `json:"verdict,omitempty"`
}

// ReverseResponse carries the implied rates and the optional WACC sweep.
type ReverseResponse struct {
	reverse.Result
	Sweep []reverse.SweepPoint `json:"sweep,omitempty"`
}

// SensitivityResponse is the ranked driver list and its caption.
type SensitivityResponse struct {
	Items   []sensitivity.Item `json:"items"`
	Caption string             `json:"caption"`
}

// Register mounts every valuation endpoint on mux.
func Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/valuation", HandleValuation)
	mux.HandleFunc("/api/valuation/report", HandleValuationReport)
	mux.HandleFunc("/api/valuation/sensitivity", HandleSensitivity)
	mux.HandleFunc("/api/valuation/reverse", HandleReverse)
	mux.HandleFunc("/api/valuation/wacc", HandleWACC)
}

// HandleValuation runs the forward engine named by assumptions.model.
func HandleValuation(w http.ResponseWriter, r *http.Request) {
	if preflight(w, r) {
		return
	}
	s, ok := decodeScenario(w, r)
	if !ok {
		return
	}
	res, ok := project(w, s)
	if !ok {
		return
	}

	resp := ValuationResponse{Result: res}
	if p := s.Financials.CurrentPrice; p > 0 {
		margin, verdict := core.MarginOfSafety(res.IntrinsicPricePerShare, p)
		resp.MarketPrice, resp.MarginOfSafety, resp.Verdict = p, &margin, verdict
	}
	writeJSON(w, resp)
}

// HandleValuationReport renders the full run as an HTML page, or Markdown
// when ?format=md.
func HandleValuationReport(w http.ResponseWriter, r *http.Request) {
	if preflight(w, r) {
		return
	}
	s, ok := decodeScenario(w, r)
	if !ok {
		return
	}
	res, ok := project(w, s)
	if !ok {
		return
	}

	rep := report.New(report.FromScenario(s, res))
	if r.URL.Query().Get("format") == "md" {
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		io.WriteString(w, rep.Markdown())
		return
	}
	page, err := rep.HTML()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	log.Info().Str("run_id", rep.RunID).Str("model", res.Model).Msg("report rendered")
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	io.WriteString(w, page)
}

// HandleSensitivity ranks the three-phase drivers for the scenario.
func HandleSensitivity(w http.ResponseWriter, r *http.Request) {
	if preflight(w, r) {
		return
	}
	s, ok := decodeScenario(w, r)
	if !ok {
		return
	}
	items, err := sensitivity.Sensitivity(s.ThreePhase(), nil)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, SensitivityResponse{Items: items, Caption: sensitivity.Caption(items)})
}

// HandleReverse solves for the rates the market price implies. Add
// ?sweep=1 for the implied growth across neighbouring discount rates.
func HandleReverse(w http.ResponseWriter, r *http.Request) {
	if preflight(w, r) {
		return
	}
	s, ok := decodeScenario(w, r)
	if !ok {
		return
	}
	if s.Financials.CurrentPrice <= 0 {
		http.Error(w, "reverse DCF needs financials.current_price", http.StatusBadRequest)
		return
	}

	a := s.Assumptions
	wacc := s.ResolveWACC()
	resp := ReverseResponse{Result: reverse.Run(s.Financials, wacc, a.GStart, a.GTerminal, a.Years)}
	if r.URL.Query().Get("sweep") != "" {
		resp.Sweep = reverse.SweepImpliedGrowth(s.Financials, wacc, a.GTerminal, a.Years)
	}
	writeJSON(w, resp)
}

// HandleWACC builds a discount rate from a CAPM block.
func HandleWACC(w http.ResponseWriter, r *http.Request) {
	if preflight(w, r) {
		return
	}
	var in core.WACCInput
	if err := decodeBody(r, &in); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := in.Validate(); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, core.CalculateWACC(in))
}

// =============================================================================
// Helpers
// =============================================================================

// preflight sets CORS headers and reports whether the request was answered.
func preflight(w http.ResponseWriter, r *http.Request) bool {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	switch r.Method {
	case http.MethodOptions:
		w.WriteHeader(http.StatusOK)
		return true
	case http.MethodPost:
		return false
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return true
	}
}

func decodeBody(r *http.Request, v interface{}) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("reading body: %w", err)
	}
	if _, err := inputs.SmartParse(string(body), v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// decodeScenario layers the request over the default assumptions.
func decodeScenario(w http.ResponseWriter, r *http.Request) (*config.Scenario, bool) {
	s := &config.Scenario{Assumptions: config.Defaults()}
	if err := decodeBody(r, s); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil, false
	}
	if err := s.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil, false
	}
	return s, true
}

func project(w http.ResponseWriter, s *config.Scenario) (*core.ValuationResult, bool) {
	engine, err := s.Engine()
	if err != nil {
		writeError(w, err)
		return nil, false
	}
	res, err := engine.Project()
	if err != nil {
		writeError(w, err)
		return nil, false
	}
	return res, true
}

// writeError maps assumption failures to 422 and everything else to 500.
func writeError(w http.ResponseWriter, err error) {
	var ae *core.AssumptionError
	if errors.As(err, &ae) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]string{"error": ae.Error(), "field": ae.Field})
		return
	}
	if errors.Is(err, core.ErrInvalidAssumption) {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	log.Error().Err(err).Msg("valuation request failed")
	http.Error(w, err.Error(), http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("encoding response")
	}
}
