package cli

import (
	"context"
	"net/http"
	// net/http/pprof is included for profiling
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/rubrikinc/tsoracle/oracle"
	"github.com/rubrikinc/tsoracle/server"
	"github.com/rubrikinc/tsoracle/tm"
	"github.com/rubrikinc/tsoracle/tsutil"
	"github.com/rubrikinc/tsoracle/tsutil/log"
)

const (
	ownerFlag      = "owner"
	dataDirFlag    = "data-dir"
	grpcAddrFlag   = "grpc-addr"
	httpAddrFlag   = "http-addr"
	validationFlag = "validation"
	marginBPSFlag  = "margin-bps"
)

var startCtx struct {
	owner      string
	dataDir    string
	grpcAddr   string
	httpAddr   string
	validation string
	marginBPS  uint64
	pprofAddr  string
}

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start a tsoracle server",
	Long: `
Start a tsoracle server which serves the oracle over GRPC and HTTP. The oracle
state is persisted in data-dir and restored from it on restart, in which case
the persisted owner is kept.
`,
	Run: func(cmd *cobra.Command, args []string) { runStart() },
}

func init() {
	startCmd.Flags().StringVar(
		&startCtx.owner,
		ownerFlag,
		"",
		"Hex address of the owner of a new oracle",
	)

	startCmd.Flags().StringVar(
		&startCtx.dataDir,
		dataDirFlag,
		"./",
		"Data directory for storing the oracle state",
	)

	startCmd.Flags().StringVar(
		&startCtx.grpcAddr,
		grpcAddrFlag,
		tsutil.ListenAddr(tsutil.DefaultGRPCPort),
		"Address the GRPC server listens on",
	)

	startCmd.Flags().StringVar(
		&startCtx.httpAddr,
		httpAddrFlag,
		tsutil.ListenAddr(tsutil.DefaultHTTPPort),
		"Address the HTTP server listens on. Empty string disables HTTP",
	)

	startCmd.Flags().StringVar(
		&startCtx.validation,
		validationFlag,
		oracle.ValidationStrict.String(),
		"Validation of submitted timestamps. Supported values are: strict, permissive",
	)

	startCmd.Flags().Uint64Var(
		&startCtx.marginBPS,
		marginBPSFlag,
		oracle.DefaultMarginBPS,
		"Maximum drift in basis points of a submitted timestamp from the server "+
			"clock, used by strict validation",
	)

	startCmd.Flags().StringVar(
		&startCtx.pprofAddr,
		"pprof-addr",
		"",
		"Address to enable pprof on. Empty string disables pprof",
	)
}

// startConfig returns the server config described by the start flags
func startConfig() (server.Config, error) {
	var owner oracle.Address
	if startCtx.owner != "" {
		var err error
		if owner, err = oracle.ParseAddress(startCtx.owner); err != nil {
			return server.Config{}, errors.Wrap(err, ownerFlag)
		}
	}
	validation, err := oracle.ParseValidationMode(startCtx.validation)
	if err != nil {
		return server.Config{}, errors.Wrap(err, validationFlag)
	}
	return server.Config{
		Owner:      owner,
		DataDir:    startCtx.dataDir,
		GRPCAddr:   startCtx.grpcAddr,
		HTTPAddr:   startCtx.httpAddr,
		Validation: validation,
		MarginBPS:  startCtx.marginBPS,
		Clock:      tm.NewMonotonicClock(),
	}, nil
}

func initHTTPPprof(ctx context.Context) {
	if startCtx.pprofAddr == "" {
		return
	}
	log.Infof(ctx, "Starting http pprof. To see debug info go to http://%s/debug/pprof", startCtx.pprofAddr)
	go func() {
		if err := http.ListenAndServe(startCtx.pprofAddr, nil); err != nil {
			log.Fatal(ctx, "HTTP pprof ListenAndServer error", err)
		}
	}()
}

func runStart() {
	ctx := context.Background()
	config, err := startConfig()
	if err != nil {
		log.Fatal(ctx, err)
	}
	initHTTPPprof(ctx)
	srv, err := server.NewServer(ctx, config)
	if err != nil {
		log.Fatal(ctx, err)
	}

	signalC := make(chan os.Signal, 1)
	signal.Notify(signalC, syscall.SIGINT, syscall.SIGTERM)
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		select {
		case sig := <-signalC:
			log.Infof(ctx, "Received %s, stopping the server", sig)
		case <-srv.StopC:
		}
		if err := srv.Stop(); err != nil {
			log.Errorf(ctx, "Failed to stop the server cleanly: %v", err)
		}
	}()
	if err := srv.RunServer(ctx); err != nil {
		log.Fatal(ctx, err)
	}
	// RunServer returns once the listeners are closed, the state machine may
	// still be closing.
	<-stopped
	log.Flush()
}
