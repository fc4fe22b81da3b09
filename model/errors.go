package model

import "fmt"

// ConfigurationError reports a construction-time parameter outside its
// valid domain. Models never start with an invalid configuration.
type ConfigurationError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid %s=%v: %s", e.Field, e.Value, e.Reason)
}

// InvariantViolation is the panic value raised when the core detects its own
// defect (double binding, double activation, out-of-bounds placement).
// It is never recovered inside the core.
type InvariantViolation struct {
	Msg string
}

func (e *InvariantViolation) Error() string {
	return "invariant violation: " + e.Msg
}

func violate(format string, args ...any) {
	panic(&InvariantViolation{Msg: fmt.Sprintf(format, args...)})
}

func checkProbability(field string, p float64) error {
	if !(p >= 0 && p <= 1) {
		return &ConfigurationError{Field: field, Value: p, Reason: "must be within [0, 1]"}
	}
	return nil
}
