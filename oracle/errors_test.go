package oracle

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestRejection(t *testing.T) {
	cases := []struct {
		err            error
		expectedReason string
	}{
		{err: ErrNotOwner, expectedReason: ReasonNotOwner},
		{err: ErrZeroPrincipal, expectedReason: ReasonZeroPrincipal},
		{err: ErrPaused, expectedReason: ReasonPaused},
		{err: &UnauthorizedUpdaterError{Caller: updaterAddr}, expectedReason: ReasonUnauthorizedUpdater},
		{err: &InvalidTimestampError{Provided: 5, Current: 10}, expectedReason: ReasonInvalidTimestamp},
		{err: &ValidationError{Reason: "too far in past"}, expectedReason: ReasonValidationFailed},
	}
	for _, tc := range cases {
		t.Run(tc.expectedReason, func(t *testing.T) {
			a := assert.New(t)
			a.Equal(tc.expectedReason, Reason(tc.err))
			a.Equal(tc.expectedReason, Reason(errors.Wrap(tc.err, "wrapped")))

			b := MarshalRejection(tc.err)
			a.NotNil(b)
			r, err := UnmarshalRejection(b)
			a.NoError(err)
			a.Equal(tc.expectedReason, r.Reason)
			a.Equal(tc.err.Error(), r.Message)
			a.Equal(tc.err, r.Err())
		})
	}
}

func TestNotARejection(t *testing.T) {
	a := assert.New(t)
	err := errors.New("connection refused")
	a.Equal("", Reason(err))
	a.Equal("", Reason(nil))
	a.Nil(MarshalRejection(err))
	_, ok := RejectionFromError(err)
	a.False(ok)

	_, err = UnmarshalRejection([]byte(`{"message":"boom"}`))
	a.Regexp("not a rejection", err.Error())
	_, err = UnmarshalRejection([]byte(`not json`))
	a.Error(err)
	a.Regexp(`unknown rejection "bogus"`, Rejection{Reason: "bogus"}.Err().Error())
}
