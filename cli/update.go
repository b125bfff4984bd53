package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/rubrikinc/tsoracle/oracle"
	"github.com/rubrikinc/tsoracle/server"
	"github.com/rubrikinc/tsoracle/tm"
)

var updateCtx struct {
	value uint64
}

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Submit a timestamp",
	Long: `
Submits a timestamp in milliseconds on behalf of caller. The local clock is
submitted if no value is given.
`,
	Run: func(cmd *cobra.Command, args []string) {
		withClient(func(ctx context.Context, c server.Client, addr string) error {
			return runUpdate(ctx, c, addr, tm.NewMonotonicClock(), os.Stdout)
		})
	},
}

var pauseCmd = &cobra.Command{
	Use:   "pause",
	Short: "Pause updates",
	Long:  `Suspends updates to the oracle. Only the owner can pause the oracle.`,
	Run: func(cmd *cobra.Command, args []string) {
		withClient(func(ctx context.Context, c server.Client, addr string) error {
			return runOwnerOp(ctx, addr, c.Pause)
		})
	},
}

var unpauseCmd = &cobra.Command{
	Use:   "unpause",
	Short: "Unpause updates",
	Long:  `Resumes updates to the oracle. Only the owner can unpause the oracle.`,
	Run: func(cmd *cobra.Command, args []string) {
		withClient(func(ctx context.Context, c server.Client, addr string) error {
			return runOwnerOp(ctx, addr, c.Unpause)
		})
	},
}

func init() {
	addClientFlags(updateCmd)
	addCallerFlag(updateCmd)
	updateCmd.Flags().Uint64Var(
		&updateCtx.value,
		"value",
		0,
		"Timestamp in milliseconds to submit. The local clock is used if 0",
	)

	for _, cmd := range []*cobra.Command{pauseCmd, unpauseCmd} {
		addClientFlags(cmd)
		addCallerFlag(cmd)
	}
}

func runUpdate(
	ctx context.Context, c server.Client, addr string, clock tm.Clock, out io.Writer,
) error {
	caller, err := parseCaller()
	if err != nil {
		return err
	}
	value := updateCtx.value
	if value == 0 {
		value = tm.UnixMillis(clock)
	}
	if err := c.Update(ctx, addr, caller, value); err != nil {
		return err
	}
	fmt.Fprintln(out, value)
	return nil
}

func runOwnerOp(
	ctx context.Context,
	addr string,
	op func(ctx context.Context, server string, caller oracle.Address) error,
) error {
	caller, err := parseCaller()
	if err != nil {
		return err
	}
	return op(ctx, addr, caller)
}
