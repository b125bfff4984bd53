package server

import (
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/rubrikinc/tsoracle/oracle"
)

// codeForReason returns the GRPC code of a rejection with the given reason
func codeForReason(reason string) codes.Code {
	switch reason {
	case oracle.ReasonNotOwner, oracle.ReasonUnauthorizedUpdater:
		return codes.PermissionDenied
	case oracle.ReasonPaused:
		return codes.FailedPrecondition
	case oracle.ReasonZeroPrincipal, oracle.ReasonInvalidTimestamp, oracle.ReasonValidationFailed:
		return codes.InvalidArgument
	default:
		return codes.Internal
	}
}

// toStatusError converts an error of the state machine into a GRPC status
// error. Rejections carry the JSON encoded oracle.Rejection as message.
func toStatusError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	b := oracle.MarshalRejection(err)
	if b == nil {
		return status.Error(codes.Internal, err.Error())
	}
	return status.Error(codeForReason(oracle.Reason(err)), string(b))
}

// fromStatusError converts a status error created by toStatusError back into
// the typed oracle error. Other errors are returned as is.
func fromStatusError(err error) error {
	s, ok := status.FromError(err)
	if !ok || s.Code() == codes.OK {
		return err
	}
	switch s.Code() {
	case codes.PermissionDenied, codes.FailedPrecondition, codes.InvalidArgument:
		if rejection, uErr := oracle.UnmarshalRejection([]byte(s.Message())); uErr == nil {
			return rejection.Err()
		}
	}
	return err
}
