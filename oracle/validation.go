package oracle

import (
	"math"
	"math/bits"
	"strings"

	"github.com/pkg/errors"
)

// basisPoints is the denominator of MarginBPS
const basisPoints = 10000

// DefaultMarginBPS is the default drift bound, 2%.
const DefaultMarginBPS = 200

// ValidationMode selects how submitted values are checked.
type ValidationMode int

const (
	// ValidationStrict rejects zero values, values drifting more than the
	// margin from the oracle's clock and values lower than the current
	// timestamp.
	ValidationStrict ValidationMode = iota
	// ValidationPermissive accepts any value from an authorized caller.
	ValidationPermissive
)

func (m ValidationMode) String() string {
	switch m {
	case ValidationStrict:
		return "strict"
	case ValidationPermissive:
		return "permissive"
	default:
		return "unknown"
	}
}

// ParseValidationMode parses the output of ValidationMode.String.
func ParseValidationMode(s string) (ValidationMode, error) {
	switch strings.ToLower(s) {
	case "strict":
		return ValidationStrict, nil
	case "permissive":
		return ValidationPermissive, nil
	default:
		return 0, errors.Errorf("unknown validation mode %q, expected strict or permissive", s)
	}
}

// Validator checks candidate timestamps against the current state and the
// oracle's clock.
type Validator struct {
	Mode      ValidationMode
	MarginBPS uint64
}

// scaleBPS returns w * num / basisPoints, saturating at math.MaxUint64.
func scaleBPS(w, num uint64) uint64 {
	hi, lo := bits.Mul64(w, num)
	if hi >= basisPoints {
		return math.MaxUint64
	}
	q, _ := bits.Div64(hi, lo, basisPoints)
	return q
}

// Bounds returns the inclusive range of values accepted for the wall clock
// reading nowMillis.
func (v Validator) Bounds(nowMillis uint64) (lower, upper uint64) {
	upper = scaleBPS(nowMillis, basisPoints+v.MarginBPS)
	if v.MarginBPS < basisPoints {
		lower = scaleBPS(nowMillis, basisPoints-v.MarginBPS)
	}
	return lower, upper
}

// Validate returns nil if value may replace current at wall clock time
// nowMillis.
func (v Validator) Validate(value, current, nowMillis uint64) error {
	if v.Mode == ValidationPermissive {
		return nil
	}
	if value == 0 {
		return &InvalidTimestampError{Provided: value, Current: current}
	}
	lower, upper := v.Bounds(nowMillis)
	if value > upper {
		return &ValidationError{Reason: "too far in future"}
	}
	if value < lower {
		return &ValidationError{Reason: "too far in past"}
	}
	if value < current {
		return &InvalidTimestampError{Provided: value, Current: current}
	}
	return nil
}
