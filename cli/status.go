package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/rubrikinc/tsoracle/pb"
	"github.com/rubrikinc/tsoracle/server"
)

const formatFlag = "format"

var statusCtx struct {
	format string
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Status of a tsoracle server",
	Long: `
Returns the status of the tsoracle server listening on the given GRPC address
and the state of its oracle.
`,
	Run: func(cmd *cobra.Command, args []string) {
		withClient(func(ctx context.Context, c server.Client, addr string) error {
			return runStatus(ctx, c, addr, os.Stdout)
		})
	},
}

func init() {
	addClientFlags(statusCmd)

	statusCmd.Flags().StringVar(
		&statusCtx.format,
		formatFlag,
		"pretty",
		"format to print status in. Supported values are: json, pretty",
	)
}

func runStatus(ctx context.Context, c server.Client, addr string, out io.Writer) error {
	status, err := c.Status(ctx, addr)
	if err != nil {
		return err
	}
	switch statusCtx.format {
	case "pretty":
		return prettyPrintStatus(out, addr, status)
	case "json":
		serialized, err := json.MarshalIndent(status, "", "  ")
		if err != nil {
			return errors.Wrapf(err, "couldn't serialize status: %v", status)
		}
		fmt.Fprintln(out, string(serialized))
		return nil
	default:
		return errors.Errorf("format %s not supported for status", statusCtx.format)
	}
}

const (
	grpcAddrHeader       = "GRPC Address"
	serverStatusHeader   = "Server Status"
	timestampHeader      = "Timestamp"
	lastUpdateTimeHeader = "Last Update Time"
	ownerHeader          = "Owner"
	pausedHeader         = "Paused"
	updatersHeader       = "Updaters"
)

func prettyPrintStatus(
	outputStream io.Writer, addr string, status *tsoraclepb.StatusResponse,
) error {
	const noValue = "N/A"
	state := status.OracleState
	if state == nil {
		state = &tsoraclepb.OracleState{}
	}
	updaters := noValue
	if len(state.Updaters) > 0 {
		updaters = strings.Join(state.Updaters, ",")
	}
	rows := [][2]string{
		{grpcAddrHeader, addr},
		{serverStatusHeader, status.ServerStatus.String()},
		{timestampHeader, fmt.Sprint(state.Timestamp)},
		{lastUpdateTimeHeader, fmt.Sprint(state.LastUpdateTime)},
		{ownerHeader, state.Owner},
		{pausedHeader, fmt.Sprint(state.Paused)},
		{updatersHeader, updaters},
	}

	tw := tabwriter.NewWriter(
		outputStream,
		2,   /* minWidth */
		2,   /* tabWidth */
		2,   /* padding */
		' ', /* padChar */
		0,   /* flags */
	)
	for _, row := range rows {
		fmt.Fprintf(tw, "%s\t%s\n", row[0], row[1])
	}
	return tw.Flush()
}
