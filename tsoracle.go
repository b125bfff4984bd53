package tsoracle

import (
	"context"
	"time"

	"github.com/cockroachdb/cockroach/pkg/util/retry"
	"github.com/pkg/errors"

	"github.com/rubrikinc/tsoracle/oraclestats"
	"github.com/rubrikinc/tsoracle/pb"
	"github.com/rubrikinc/tsoracle/server"
	"github.com/rubrikinc/tsoracle/tsutil/log"
)

// initializeTimeout bounds the time Initialize waits for the server to serve
const initializeTimeout = time.Minute

var oracleServer *server.Server

// Initialize starts a tsoracle server in this process and waits until it is
// serving. A previously initialized server is stopped first.
func Initialize(ctx context.Context, config server.Config) error {
	// Stop previous server
	Stop()

	srv, err := server.NewServer(ctx, config)
	if err != nil {
		return err
	}
	errC := make(chan error, 1)
	go func() {
		errC <- srv.RunServer(ctx)
	}()

	// runErr is set if the server stops before serving
	var runErr error
	err = retry.ForDuration(initializeTimeout, func() error {
		select {
		case runErr = <-errC:
			if runErr == nil {
				runErr = errors.New("server stopped")
			}
			return nil
		default:
		}
		if status := srv.ServerStatus(); status != tsoraclepb.ServerStatus_INITIALIZED {
			return errors.Errorf("server is %s", status)
		}
		return nil
	})
	if err == nil {
		err = runErr
	}
	if err != nil {
		if stopErr := srv.Stop(); stopErr != nil {
			log.Errorf(ctx, "Failed to stop tsoracle server: %v", stopErr)
		}
		return errors.Wrap(err, "tsoracle server did not start")
	}
	go func() {
		if err := <-errC; err != nil {
			log.Errorf(ctx, "tsoracle server failed: %v", err)
		}
	}()

	oracleServer = srv
	log.Info(ctx, "tsoracle server initialized")
	return nil
}

// Stop stops the tsoracle server
func Stop() {
	if oracleServer == nil {
		return
	}
	if err := oracleServer.Stop(); err != nil {
		log.Errorf(context.TODO(), "Failed to stop tsoracle server: %v", err)
	}
	oracleServer = nil
	log.Info(context.TODO(), "tsoracle server stopped")
}

// IsActive returns whether a tsoracle server is running.
func IsActive() bool {
	return oracleServer != nil
}

// Latest returns the latest accepted timestamp in milliseconds. It returns 0
// if not initialized.
func Latest(ctx context.Context) uint64 {
	if oracleServer == nil {
		return 0
	}
	return oracleServer.OracleSM.Latest(ctx)
}

// IsStale returns whether the latest timestamp was accepted more than maxAge
// ago. It returns true if not initialized.
func IsStale(ctx context.Context, maxAge time.Duration) bool {
	if oracleServer == nil {
		return true
	}
	return oracleServer.OracleSM.IsStale(ctx, uint64(maxAge/time.Second))
}

// Server returns the running tsoracle server, or nil if not initialized
func Server() *server.Server {
	return oracleServer
}

// Metrics returns the oracle metrics, or nil if not initialized
func Metrics() *oraclestats.Metrics {
	if oracleServer == nil {
		return nil
	}
	return oracleServer.Metrics
}
