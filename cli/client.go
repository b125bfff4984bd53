package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/rubrikinc/tsoracle/oracle"
	"github.com/rubrikinc/tsoracle/server"
	"github.com/rubrikinc/tsoracle/tsutil"
	"github.com/rubrikinc/tsoracle/tsutil/log"
)

const (
	callerFlag  = "caller"
	timeoutFlag = "timeout"
)

var clientCtx struct {
	grpcAddr string
	timeout  time.Duration
	caller   string
}

// addClientFlags adds the flags used to reach the GRPC server to cmd
func addClientFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(
		&clientCtx.grpcAddr,
		grpcAddrFlag,
		fmt.Sprintf("localhost:%s", tsutil.DefaultGRPCPort),
		"GRPC address of the tsoracle server",
	)
	cmd.Flags().DurationVar(
		&clientCtx.timeout,
		timeoutFlag,
		30*time.Second,
		"timeout for the command",
	)
}

// addCallerFlag adds the flag of the principal a mutation is submitted as
func addCallerFlag(cmd *cobra.Command) {
	cmd.Flags().StringVar(
		&clientCtx.caller,
		callerFlag,
		"",
		"Hex address of the principal submitting the request",
	)
}

func parseCaller() (oracle.Address, error) {
	if clientCtx.caller == "" {
		return oracle.Address{}, errors.Errorf("--%s is required", callerFlag)
	}
	caller, err := oracle.ParseAddress(clientCtx.caller)
	if err != nil {
		return oracle.Address{}, errors.Wrap(err, callerFlag)
	}
	return caller, nil
}

// withClient runs f with a GRPC client of the server at clientCtx.grpcAddr
// and exits if f fails.
func withClient(f func(ctx context.Context, c server.Client, addr string) error) {
	ctx := context.Background()
	if clientCtx.timeout != 0 {
		var cancel func()
		ctx, cancel = context.WithTimeout(ctx, clientCtx.timeout)
		defer cancel()
	}
	c := server.NewGRPCClient()
	err := f(ctx, c, clientCtx.grpcAddr)
	tsutil.CloseWithErrorLog(ctx, c)
	if err != nil {
		log.Fatal(ctx, err)
	}
}
