package server

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/connectivity"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/rubrikinc/tsoracle/oracle"
	"github.com/rubrikinc/tsoracle/pb"
	"github.com/rubrikinc/tsoracle/tsutil/log"
)

const rpcTimeout = 30 * time.Second

// grpcClient is an implementation of Client which uses GRPC to call
// tsoracle servers.
// grpcClient caches the last connection it made so subsequent calls made to
// the same server will not create new connections
type grpcClient struct {
	server   string
	conn     *grpc.ClientConn
	client   tsoraclepb.TimeOracleClient
	dialOpts []grpc.DialOption
}

var _ Client = &grpcClient{}

// NewGRPCClient creates a GRPC client to call tsoracle servers. opts are
// added to the default dial options.
func NewGRPCClient(opts ...grpc.DialOption) Client {
	return &grpcClient{dialOpts: opts}
}

// connect connects to the given server if not already connected
func (c *grpcClient) connect(ctx context.Context, server string) error {
	if c.conn != nil && c.server == server {
		state := c.conn.GetState()
		if state != connectivity.Shutdown && state != connectivity.TransientFailure {
			return nil
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			log.Error(ctx, err)
		}
		c.conn = nil
	}

	opts := append(
		[]grpc.DialOption{
			grpc.WithTransportCredentials(insecure.NewCredentials()),
			grpc.WithDefaultCallOptions(grpc.ForceCodec(tsoraclepb.Codec{})),
		},
		c.dialOpts...,
	)
	ctx, cancel := context.WithTimeout(ctx, rpcTimeout)
	defer cancel()
	conn, err := grpc.DialContext(ctx, server, opts...)
	if err != nil {
		return err
	}
	c.conn = conn
	c.client = tsoraclepb.NewTimeOracleClient(conn)
	c.server = server
	return nil
}

// Status implements the Client interface.
func (c *grpcClient) Status(ctx context.Context, server string) (*tsoraclepb.StatusResponse, error) {
	if err := c.connect(ctx, server); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, rpcTimeout)
	defer cancel()
	return c.client.Status(ctx, &tsoraclepb.StatusRequest{})
}

// Latest implements the Client interface.
func (c *grpcClient) Latest(ctx context.Context, server string) (uint64, error) {
	if err := c.connect(ctx, server); err != nil {
		return 0, err
	}
	ctx, cancel := context.WithTimeout(ctx, rpcTimeout)
	defer cancel()
	resp, err := c.client.Latest(ctx, &tsoraclepb.LatestRequest{})
	if err != nil {
		return 0, err
	}
	return resp.Timestamp, nil
}

// LastUpdateTime implements the Client interface.
func (c *grpcClient) LastUpdateTime(ctx context.Context, server string) (uint64, error) {
	if err := c.connect(ctx, server); err != nil {
		return 0, err
	}
	ctx, cancel := context.WithTimeout(ctx, rpcTimeout)
	defer cancel()
	resp, err := c.client.LastUpdateTime(ctx, &tsoraclepb.LastUpdateTimeRequest{})
	if err != nil {
		return 0, err
	}
	return resp.LastUpdateTime, nil
}

// IsStale implements the Client interface.
func (c *grpcClient) IsStale(ctx context.Context, server string, maxAgeSeconds uint64) (bool, error) {
	if err := c.connect(ctx, server); err != nil {
		return false, err
	}
	ctx, cancel := context.WithTimeout(ctx, rpcTimeout)
	defer cancel()
	resp, err := c.client.IsStale(ctx, &tsoraclepb.IsStaleRequest{MaxAgeSeconds: maxAgeSeconds})
	if err != nil {
		return false, err
	}
	return resp.Stale, nil
}

// IsAuthorizedUpdater implements the Client interface.
func (c *grpcClient) IsAuthorizedUpdater(
	ctx context.Context, server string, addr oracle.Address,
) (bool, error) {
	if err := c.connect(ctx, server); err != nil {
		return false, err
	}
	ctx, cancel := context.WithTimeout(ctx, rpcTimeout)
	defer cancel()
	resp, err := c.client.IsAuthorizedUpdater(
		ctx, &tsoraclepb.IsAuthorizedUpdaterRequest{Updater: addr.Hex()},
	)
	if err != nil {
		return false, err
	}
	return resp.Authorized, nil
}

// Update implements the Client interface.
func (c *grpcClient) Update(
	ctx context.Context, server string, caller oracle.Address, value uint64,
) error {
	if err := c.connect(ctx, server); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, rpcTimeout)
	defer cancel()
	_, err := c.client.Update(ctx, &tsoraclepb.UpdateRequest{Caller: caller.Hex(), Timestamp: value})
	return fromStatusError(err)
}

// AddAuthorizedUpdater implements the Client interface.
func (c *grpcClient) AddAuthorizedUpdater(
	ctx context.Context, server string, caller, target oracle.Address,
) error {
	if err := c.connect(ctx, server); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, rpcTimeout)
	defer cancel()
	_, err := c.client.AddAuthorizedUpdater(
		ctx, &tsoraclepb.UpdaterRequest{Caller: caller.Hex(), Updater: target.Hex()},
	)
	return fromStatusError(err)
}

// RemoveAuthorizedUpdater implements the Client interface.
func (c *grpcClient) RemoveAuthorizedUpdater(
	ctx context.Context, server string, caller, target oracle.Address,
) error {
	if err := c.connect(ctx, server); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, rpcTimeout)
	defer cancel()
	_, err := c.client.RemoveAuthorizedUpdater(
		ctx, &tsoraclepb.UpdaterRequest{Caller: caller.Hex(), Updater: target.Hex()},
	)
	return fromStatusError(err)
}

// Pause implements the Client interface.
func (c *grpcClient) Pause(ctx context.Context, server string, caller oracle.Address) error {
	if err := c.connect(ctx, server); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, rpcTimeout)
	defer cancel()
	_, err := c.client.Pause(ctx, &tsoraclepb.PauseRequest{Caller: caller.Hex()})
	return fromStatusError(err)
}

// Unpause implements the Client interface.
func (c *grpcClient) Unpause(ctx context.Context, server string, caller oracle.Address) error {
	if err := c.connect(ctx, server); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, rpcTimeout)
	defer cancel()
	_, err := c.client.Unpause(ctx, &tsoraclepb.PauseRequest{Caller: caller.Hex()})
	return fromStatusError(err)
}

// Close implements the io.Closer interface.
func (c *grpcClient) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
