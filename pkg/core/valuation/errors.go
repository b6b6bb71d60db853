package valuation

import (
	"errors"
	"fmt"
)

// ErrInvalidAssumption is matched (errors.Is) by every precondition failure.
var ErrInvalidAssumption = errors.New("invalid assumption")

// AssumptionError names the offending parameter.
type AssumptionError struct {
	Field  string
	Reason string
}

func (e *AssumptionError) Error() string {
	return fmt.Sprintf("invalid assumption %s: %s", e.Field, e.Reason)
}

func (e *AssumptionError) Is(target error) bool {
	return target == ErrInvalidAssumption
}

func invalid(field, format string, args ...interface{}) error {
	return &AssumptionError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// checkSpread enforces wacc > g_terminal; the Gordon denominator must be positive.
func checkSpread(wacc, gTerminal float64) error {
	if wacc <= gTerminal {
		return invalid("wacc", "WACC (%.4f) must be greater than terminal growth rate (%.4f)", wacc, gTerminal)
	}
	return nil
}

// checkTerminalROIC keeps the terminal reinvestment rate g/roic below 1.
func checkTerminalROIC(roicTerminal, gTerminal float64) error {
	if roicTerminal <= gTerminal {
		return invalid("roic_terminal",
			"terminal ROIC (%.4f) must be greater than terminal growth rate (%.4f), otherwise terminal reinvestment rate >= 1 implies negative FCF forever",
			roicTerminal, gTerminal)
	}
	return nil
}

func checkPositive(field string, v float64) error {
	if v <= 0 {
		return invalid(field, "must be positive, got %.4f", v)
	}
	return nil
}

func checkYears(field string, years int) error {
	if years < 1 {
		return invalid(field, "forecast horizon must be at least 1 year, got %d", years)
	}
	return nil
}
