package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/rubrikinc/tsoracle/oracle"
	"github.com/rubrikinc/tsoracle/server"
)

var updaterCmd = &cobra.Command{
	Use:   "updater",
	Short: "Manage the authorized updaters",
}

var updaterAddCmd = &cobra.Command{
	Use:   "add <addr>",
	Short: "Authorize an updater",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		withClient(func(ctx context.Context, c server.Client, addr string) error {
			return runUpdaterOp(ctx, addr, args[0], c.AddAuthorizedUpdater)
		})
	},
}

var updaterRemoveCmd = &cobra.Command{
	Use:   "remove <addr>",
	Short: "Revoke an updater",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		withClient(func(ctx context.Context, c server.Client, addr string) error {
			return runUpdaterOp(ctx, addr, args[0], c.RemoveAuthorizedUpdater)
		})
	},
}

var updaterCheckCmd = &cobra.Command{
	Use:   "check <addr>",
	Short: "Check whether an address is an authorized updater",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		withClient(func(ctx context.Context, c server.Client, addr string) error {
			return runUpdaterCheck(ctx, c, addr, args[0], os.Stdout)
		})
	},
}

func init() {
	addClientFlags(updaterAddCmd)
	addCallerFlag(updaterAddCmd)
	addClientFlags(updaterRemoveCmd)
	addCallerFlag(updaterRemoveCmd)
	addClientFlags(updaterCheckCmd)
}

func runUpdaterOp(
	ctx context.Context,
	addr string,
	updater string,
	op func(ctx context.Context, server string, caller, target oracle.Address) error,
) error {
	caller, err := parseCaller()
	if err != nil {
		return err
	}
	target, err := oracle.ParseAddress(updater)
	if err != nil {
		return err
	}
	return op(ctx, addr, caller, target)
}

func runUpdaterCheck(
	ctx context.Context, c server.Client, addr string, updater string, out io.Writer,
) error {
	target, err := oracle.ParseAddress(updater)
	if err != nil {
		return err
	}
	authorized, err := c.IsAuthorizedUpdater(ctx, addr, target)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, authorized)
	return nil
}
