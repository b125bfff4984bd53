package server

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/cockroachdb/cockroach/pkg/util/syncutil"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/afero"
	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/rubrikinc/tsoracle/oracle"
	"github.com/rubrikinc/tsoracle/oraclehttp"
	"github.com/rubrikinc/tsoracle/oraclestats"
	"github.com/rubrikinc/tsoracle/pb"
	"github.com/rubrikinc/tsoracle/tm"
	"github.com/rubrikinc/tsoracle/tsutil"
	"github.com/rubrikinc/tsoracle/tsutil/log"
)

// shutdownTimeout bounds the time Stop waits for HTTP requests to finish
const shutdownTimeout = 5 * time.Second

// Server serves an oracle state machine over GRPC and HTTP.
type Server struct {
	// OracleSM is the state machine holding the oracle timestamp
	OracleSM oracle.StateMachine
	// Clock is used to get current time
	Clock tm.Clock
	// StopC is closed when the server is stopped
	StopC chan struct{}
	// Metrics records oracle metrics
	Metrics *oraclestats.Metrics

	// status of the server, a tsoraclepb.ServerStatus
	status atomic.Int32
	// registry gathers the metrics served on the HTTP server
	registry *prometheus.Registry
	// handler serves the oracle HTTP endpoints
	handler *oraclehttp.OracleHandler

	grpcAddr string
	httpAddr string

	mu struct {
		syncutil.Mutex
		// grpcServer is the GRPC server which responds to oracle requests
		grpcServer *grpc.Server
		// httpServer is nil if the server does not serve HTTP
		httpServer *http.Server
		// grpcLis and httpLis are the addresses the servers listen on
		grpcLis net.Addr
		httpLis net.Addr
		stopped bool
	}
}

var _ tsoraclepb.TimeOracleServer = &Server{}

// NewServer returns an instance of Server based on given configurations. The
// oracle state is restored from config.DataDir if it exists there.
func NewServer(ctx context.Context, config Config) (*Server, error) {
	if config.Clock == nil {
		config.Clock = tm.NewMonotonicClock()
	}
	var store oracle.Store
	if config.DataDir != "" {
		fs := config.Fs
		if fs == nil {
			fs = afero.NewOsFs()
		}
		if err := fs.MkdirAll(config.DataDir, 0755); err != nil {
			return nil, errors.Wrapf(err, "could not create data directory %s", config.DataDir)
		}
		store = oracle.NewFileStore(fs, config.DataDir)
	}

	metrics := oraclestats.NewMetrics()
	registry := prometheus.NewRegistry()
	if err := metrics.Register(registry); err != nil {
		return nil, err
	}
	if err := registry.Register(prometheus.NewGoCollector()); err != nil {
		return nil, err
	}

	sm, err := oracle.NewStateMachine(ctx, oracle.Config{
		Owner:      config.Owner,
		Clock:      config.Clock,
		Validation: config.Validation,
		MarginBPS:  config.MarginBPS,
		Store:      store,
		Metrics:    metrics,
	})
	if err != nil {
		return nil, err
	}
	return &Server{
		OracleSM: sm,
		Clock:    config.Clock,
		StopC:    make(chan struct{}),
		Metrics:  metrics,
		registry: registry,
		handler:  oraclehttp.NewOracleHandler(sm),
		grpcAddr: config.GRPCAddr,
		httpAddr: config.HTTPAddr,
	}, nil
}

// Registry returns the registry of the metrics served on /metrics
func (k *Server) Registry() *prometheus.Registry {
	return k.registry
}

// ServerStatus returns the current status of the server
func (k *Server) ServerStatus() tsoraclepb.ServerStatus {
	return tsoraclepb.ServerStatus(k.status.Load())
}

// GRPCAddr returns the address the GRPC server listens on, or nil if it is
// not serving yet.
func (k *Server) GRPCAddr() net.Addr {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.mu.grpcLis
}

// HTTPAddr returns the address the HTTP server listens on, or nil if it is
// not serving.
func (k *Server) HTTPAddr() net.Addr {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.mu.httpLis
}

// RunServer listens on the configured addresses and serves until Stop is
// called.
func (k *Server) RunServer(ctx context.Context) error {
	grpcLis, err := net.Listen("tcp", k.grpcAddr)
	if err != nil {
		return errors.Wrapf(err, "failed to listen on %s", k.grpcAddr)
	}
	var httpLis net.Listener
	if k.httpAddr != "" {
		httpLis, err = net.Listen("tcp", k.httpAddr)
		if err != nil {
			tsutil.CloseWithErrorLog(ctx, grpcLis)
			return errors.Wrapf(err, "failed to listen on %s", k.httpAddr)
		}
	}
	return k.Serve(ctx, grpcLis, httpLis)
}

// Serve serves GRPC requests on grpcLis and HTTP requests on httpLis until
// Stop is called. httpLis may be nil.
func (k *Server) Serve(ctx context.Context, grpcLis, httpLis net.Listener) error {
	grpcServer := grpc.NewServer(grpc.ForceServerCodec(tsoraclepb.Codec{}))
	tsoraclepb.RegisterTimeOracleServer(grpcServer, k)
	var httpServer *http.Server
	if httpLis != nil {
		httpServer = &http.Server{Handler: oraclehttp.NewRouter(k.handler, k.registry)}
	}

	k.mu.Lock()
	if k.mu.stopped || k.mu.grpcServer != nil {
		stopped := k.mu.stopped
		k.mu.Unlock()
		tsutil.CloseWithErrorLog(ctx, grpcLis)
		if httpLis != nil {
			tsutil.CloseWithErrorLog(ctx, httpLis)
		}
		if stopped {
			return errors.New("server is stopped")
		}
		return errors.New("server already running")
	}
	k.mu.grpcServer = grpcServer
	k.mu.grpcLis = grpcLis.Addr()
	k.mu.httpServer = httpServer
	if httpLis != nil {
		k.mu.httpLis = httpLis.Addr()
	}
	k.status.Store(int32(tsoraclepb.ServerStatus_INITIALIZED))
	k.mu.Unlock()

	var g errgroup.Group
	g.Go(func() error {
		ctx := log.WithLogTag(ctx, "grpc-server", nil)
		log.Infof(ctx, "Serving GRPC on %s", grpcLis.Addr())
		return grpcServer.Serve(grpcLis)
	})
	if httpServer != nil {
		g.Go(func() error {
			ctx := log.WithLogTag(ctx, "http-server", nil)
			log.Infof(ctx, "Serving HTTP on %s", httpLis.Addr())
			if err := httpServer.Serve(httpLis); err != http.ErrServerClosed {
				return err
			}
			return nil
		})
	}
	return g.Wait()
}

// Stop stops the servers, ends the event streams and closes the state
// machine. It returns the errors encountered while shutting down.
func (k *Server) Stop() error {
	k.mu.Lock()
	if k.mu.stopped {
		k.mu.Unlock()
		return nil
	}
	k.mu.stopped = true
	grpcServer, httpServer := k.mu.grpcServer, k.mu.httpServer
	k.mu.Unlock()

	k.status.Store(int32(tsoraclepb.ServerStatus_STOPPED))
	close(k.StopC)
	var result *multierror.Error
	// Event streams are hijacked connections which Shutdown does not wait for.
	k.handler.Close()
	if httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(ctx); err != nil {
			result = multierror.Append(result, errors.Wrap(err, "http server shutdown"))
		}
	}
	if grpcServer != nil {
		grpcServer.Stop()
	}
	k.OracleSM.Close()
	return result.ErrorOrNil()
}

func parseAddress(name, s string) (oracle.Address, error) {
	addr, err := oracle.ParseAddress(s)
	if err != nil {
		return oracle.Address{}, status.Errorf(codes.InvalidArgument, "%s: %v", name, err)
	}
	return addr, nil
}

// Status returns the current status of the server
func (k *Server) Status(
	ctx context.Context, request *tsoraclepb.StatusRequest,
) (*tsoraclepb.StatusResponse, error) {
	return &tsoraclepb.StatusResponse{
		ServerStatus: k.ServerStatus(),
		OracleState:  k.OracleSM.State(ctx),
	}, nil
}

// Latest returns the latest accepted timestamp
func (k *Server) Latest(
	ctx context.Context, request *tsoraclepb.LatestRequest,
) (*tsoraclepb.LatestResponse, error) {
	return &tsoraclepb.LatestResponse{Timestamp: k.OracleSM.Latest(ctx)}, nil
}

// LastUpdateTime returns the time in seconds the latest timestamp was
// accepted at
func (k *Server) LastUpdateTime(
	ctx context.Context, request *tsoraclepb.LastUpdateTimeRequest,
) (*tsoraclepb.LastUpdateTimeResponse, error) {
	return &tsoraclepb.LastUpdateTimeResponse{LastUpdateTime: k.OracleSM.LastUpdateTime(ctx)}, nil
}

// IsStale returns whether the latest timestamp is older than the requested
// age
func (k *Server) IsStale(
	ctx context.Context, request *tsoraclepb.IsStaleRequest,
) (*tsoraclepb.IsStaleResponse, error) {
	return &tsoraclepb.IsStaleResponse{Stale: k.OracleSM.IsStale(ctx, request.MaxAgeSeconds)}, nil
}

// IsAuthorizedUpdater returns whether the requested principal may update
func (k *Server) IsAuthorizedUpdater(
	ctx context.Context, request *tsoraclepb.IsAuthorizedUpdaterRequest,
) (*tsoraclepb.IsAuthorizedUpdaterResponse, error) {
	addr, err := parseAddress("updater", request.Updater)
	if err != nil {
		return nil, err
	}
	return &tsoraclepb.IsAuthorizedUpdaterResponse{
		Authorized: k.OracleSM.IsAuthorizedUpdater(ctx, addr),
	}, nil
}

// Update submits a new timestamp
func (k *Server) Update(
	ctx context.Context, request *tsoraclepb.UpdateRequest,
) (*tsoraclepb.Empty, error) {
	caller, err := parseAddress("caller", request.Caller)
	if err != nil {
		return nil, err
	}
	if err := k.OracleSM.Update(ctx, caller, request.Timestamp); err != nil {
		return nil, toStatusError(err)
	}
	return &tsoraclepb.Empty{}, nil
}

func (k *Server) updaterRequest(
	ctx context.Context,
	request *tsoraclepb.UpdaterRequest,
	op func(ctx context.Context, caller, target oracle.Address) error,
) (*tsoraclepb.Empty, error) {
	caller, err := parseAddress("caller", request.Caller)
	if err != nil {
		return nil, err
	}
	target, err := parseAddress("updater", request.Updater)
	if err != nil {
		return nil, err
	}
	if err := op(ctx, caller, target); err != nil {
		return nil, toStatusError(err)
	}
	return &tsoraclepb.Empty{}, nil
}

// AddAuthorizedUpdater authorizes an updater
func (k *Server) AddAuthorizedUpdater(
	ctx context.Context, request *tsoraclepb.UpdaterRequest,
) (*tsoraclepb.Empty, error) {
	return k.updaterRequest(ctx, request, k.OracleSM.AddAuthorizedUpdater)
}

// RemoveAuthorizedUpdater revokes an updater
func (k *Server) RemoveAuthorizedUpdater(
	ctx context.Context, request *tsoraclepb.UpdaterRequest,
) (*tsoraclepb.Empty, error) {
	return k.updaterRequest(ctx, request, k.OracleSM.RemoveAuthorizedUpdater)
}

func (k *Server) pauseRequest(
	ctx context.Context,
	request *tsoraclepb.PauseRequest,
	op func(ctx context.Context, caller oracle.Address) error,
) (*tsoraclepb.Empty, error) {
	caller, err := parseAddress("caller", request.Caller)
	if err != nil {
		return nil, err
	}
	if err := op(ctx, caller); err != nil {
		return nil, toStatusError(err)
	}
	return &tsoraclepb.Empty{}, nil
}

// Pause suspends updates
func (k *Server) Pause(
	ctx context.Context, request *tsoraclepb.PauseRequest,
) (*tsoraclepb.Empty, error) {
	return k.pauseRequest(ctx, request, k.OracleSM.Pause)
}

// Unpause resumes updates
func (k *Server) Unpause(
	ctx context.Context, request *tsoraclepb.PauseRequest,
) (*tsoraclepb.Empty, error) {
	return k.pauseRequest(ctx, request, k.OracleSM.Unpause)
}
