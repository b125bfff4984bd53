package oracle

import (
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
)

// Reasons identify the kind of a rejection in a stable, machine readable way.
const (
	ReasonNotOwner            = "not_owner"
	ReasonUnauthorizedUpdater = "unauthorized_updater"
	ReasonZeroPrincipal       = "zero_principal"
	ReasonPaused              = "paused"
	ReasonInvalidTimestamp    = "invalid_timestamp"
	ReasonValidationFailed    = "timestamp_validation_failed"
)

var (
	// ErrNotOwner is returned when an owner-only operation is called by
	// another principal.
	ErrNotOwner = errors.New("caller is not the owner")
	// ErrZeroPrincipal is returned when the null address is used where a
	// principal is required.
	ErrZeroPrincipal = errors.New("zero address is not a valid principal")
	// ErrPaused is returned when an update is attempted while the oracle is
	// paused.
	ErrPaused = errors.New("oracle is paused")
)

// UnauthorizedUpdaterError is returned when the caller of Update is neither
// the owner nor an authorized updater.
type UnauthorizedUpdaterError struct {
	Caller Address
}

func (e *UnauthorizedUpdaterError) Error() string {
	return fmt.Sprintf("unauthorized updater %s", e.Caller.Hex())
}

// InvalidTimestampError is returned for a zero value or a value lower than the
// current timestamp.
type InvalidTimestampError struct {
	Provided uint64
	Current  uint64
}

func (e *InvalidTimestampError) Error() string {
	return fmt.Sprintf("invalid timestamp: provided %d, current %d", e.Provided, e.Current)
}

// ValidationError is returned when a value drifts too far from the oracle's
// own clock.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("timestamp validation failed: %s", e.Reason)
}

// Reason returns the rejection reason of err, or an empty string if err is not
// an oracle rejection.
func Reason(err error) string {
	var unauthorized *UnauthorizedUpdaterError
	var invalid *InvalidTimestampError
	var validation *ValidationError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotOwner):
		return ReasonNotOwner
	case errors.Is(err, ErrZeroPrincipal):
		return ReasonZeroPrincipal
	case errors.Is(err, ErrPaused):
		return ReasonPaused
	case errors.As(err, &unauthorized):
		return ReasonUnauthorizedUpdater
	case errors.As(err, &invalid):
		return ReasonInvalidTimestamp
	case errors.As(err, &validation):
		return ReasonValidationFailed
	default:
		return ""
	}
}

// Rejection is the wire form of an oracle rejection. Transports carry it so
// that remote callers can tell rejections apart and decide whether to retry.
type Rejection struct {
	Reason   string   `json:"reason"`
	Message  string   `json:"message"`
	Caller   *Address `json:"caller,omitempty"`
	Provided uint64   `json:"provided,omitempty"`
	Current  uint64   `json:"current,omitempty"`
	Detail   string   `json:"detail,omitempty"`
}

// RejectionFromError converts err into a Rejection. ok is false if err is not
// an oracle rejection.
func RejectionFromError(err error) (r Rejection, ok bool) {
	reason := Reason(err)
	if reason == "" {
		return Rejection{}, false
	}
	r = Rejection{Reason: reason, Message: err.Error()}
	var unauthorized *UnauthorizedUpdaterError
	var invalid *InvalidTimestampError
	var validation *ValidationError
	switch {
	case errors.As(err, &unauthorized):
		caller := unauthorized.Caller
		r.Caller = &caller
	case errors.As(err, &invalid):
		r.Provided = invalid.Provided
		r.Current = invalid.Current
	case errors.As(err, &validation):
		r.Detail = validation.Reason
	}
	return r, true
}

// Err rebuilds the typed oracle error described by r.
func (r Rejection) Err() error {
	switch r.Reason {
	case ReasonNotOwner:
		return ErrNotOwner
	case ReasonZeroPrincipal:
		return ErrZeroPrincipal
	case ReasonPaused:
		return ErrPaused
	case ReasonUnauthorizedUpdater:
		e := &UnauthorizedUpdaterError{}
		if r.Caller != nil {
			e.Caller = *r.Caller
		}
		return e
	case ReasonInvalidTimestamp:
		return &InvalidTimestampError{Provided: r.Provided, Current: r.Current}
	case ReasonValidationFailed:
		return &ValidationError{Reason: r.Detail}
	default:
		return errors.Errorf("unknown rejection %q: %s", r.Reason, r.Message)
	}
}

// MarshalRejection encodes the rejection of err as JSON. It returns nil if err
// is not an oracle rejection.
func MarshalRejection(err error) []byte {
	r, ok := RejectionFromError(err)
	if !ok {
		return nil
	}
	b, mErr := json.Marshal(r)
	if mErr != nil {
		return nil
	}
	return b
}

// UnmarshalRejection decodes a rejection encoded by MarshalRejection.
func UnmarshalRejection(b []byte) (Rejection, error) {
	var r Rejection
	if err := json.Unmarshal(b, &r); err != nil {
		return Rejection{}, err
	}
	if r.Reason == "" {
		return Rejection{}, errors.Errorf("not a rejection: %s", b)
	}
	return r, nil
}
