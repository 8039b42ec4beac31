// Package normalize converts raw source tables into the typed records of the
// pipeline, applying numeric coercion, key derivation and de-duplication
package normalize

import (
	"fmt"
	"strconv"
	"strings"
)

// ValidationError indicates that a normalized value failed an invariant.
// Validation errors on profile and service data are fatal to the run.
type ValidationError struct {
	Entity string
	Key    string
	Err    error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validating %s %q: %s", e.Entity, e.Key, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// parseNumber parses a numeric field after stripping grouping separators.
func parseNumber(value string) (float64, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(value), ",", "")
	if cleaned == "" {
		return 0, fmt.Errorf("empty numeric field")
	}

	return strconv.ParseFloat(cleaned, 64)
}

// parseQuantity parses a consumption quantity. Absence or an unparseable
// value means "no such fuel used" and coerces to zero; the caller counts the
// zero fill so the recovery stays observable.
func parseQuantity(value string) (quantity float64, zeroFilled bool) {
	parsed, err := parseNumber(value)
	if err != nil {
		return 0, true
	}

	return parsed, false
}
