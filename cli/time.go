package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rubrikinc/tsoracle/server"
)

var timeCmd = &cobra.Command{
	Use:   "time",
	Short: "Time of the oracle",
	Long: `
Returns the latest timestamp of the oracle in milliseconds and the time in
seconds at which it was accepted.
`,
	Run: func(cmd *cobra.Command, args []string) {
		withClient(func(ctx context.Context, c server.Client, addr string) error {
			return runTime(ctx, c, addr, os.Stdout)
		})
	},
}

var staleCtx struct {
	maxAge time.Duration
}

var staleCmd = &cobra.Command{
	Use:   "stale",
	Short: "Whether the oracle is stale",
	Long: `
Prints whether the latest timestamp was accepted longer than max-age ago and
exits with a non-zero code if it was.
`,
	Run: func(cmd *cobra.Command, args []string) {
		var stale bool
		withClient(func(ctx context.Context, c server.Client, addr string) (err error) {
			stale, err = runStale(ctx, c, addr, os.Stdout)
			return err
		})
		if stale {
			os.Exit(1)
		}
	},
}

func init() {
	addClientFlags(timeCmd)

	addClientFlags(staleCmd)
	staleCmd.Flags().DurationVar(
		&staleCtx.maxAge,
		"max-age",
		time.Minute,
		"Age after which the latest timestamp is stale. It is truncated to seconds",
	)
}

func runTime(ctx context.Context, c server.Client, addr string, out io.Writer) error {
	latest, err := c.Latest(ctx, addr)
	if err != nil {
		return err
	}
	lastUpdateTime, err := c.LastUpdateTime(ctx, addr)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "latest: %d\nlast update time: %d\n", latest, lastUpdateTime)
	return nil
}

func runStale(ctx context.Context, c server.Client, addr string, out io.Writer) (bool, error) {
	stale, err := c.IsStale(ctx, addr, uint64(staleCtx.maxAge/time.Second))
	if err != nil {
		return false, err
	}
	fmt.Fprintln(out, stale)
	return stale, nil
}
