package server

import (
	"context"
	"io"

	"github.com/rubrikinc/tsoracle/oracle"
	"github.com/rubrikinc/tsoracle/pb"
)

// Client is used to call the oracle served by a tsoracle server. server is
// the host:port of its GRPC server. Rejections are returned as the typed
// oracle errors.
// Client is not thread safe
type Client interface {
	io.Closer
	// Status returns the status of the given server and its oracle state
	Status(ctx context.Context, server string) (*tsoraclepb.StatusResponse, error)
	// Latest returns the latest accepted timestamp in milliseconds
	Latest(ctx context.Context, server string) (uint64, error)
	// LastUpdateTime returns the time in seconds the latest timestamp was
	// accepted at
	LastUpdateTime(ctx context.Context, server string) (uint64, error)
	// IsStale returns whether more than maxAgeSeconds elapsed since the last
	// accepted update
	IsStale(ctx context.Context, server string, maxAgeSeconds uint64) (bool, error)
	// IsAuthorizedUpdater returns whether addr may submit updates
	IsAuthorizedUpdater(ctx context.Context, server string, addr oracle.Address) (bool, error)
	// Update submits value on behalf of caller
	Update(ctx context.Context, server string, caller oracle.Address, value uint64) error
	// AddAuthorizedUpdater authorizes target on behalf of caller
	AddAuthorizedUpdater(ctx context.Context, server string, caller, target oracle.Address) error
	// RemoveAuthorizedUpdater revokes target on behalf of caller
	RemoveAuthorizedUpdater(ctx context.Context, server string, caller, target oracle.Address) error
	// Pause suspends updates on behalf of caller
	Pause(ctx context.Context, server string, caller oracle.Address) error
	// Unpause resumes updates on behalf of caller
	Unpause(ctx context.Context, server string, caller oracle.Address) error
}
