package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/rubrikinc/tsoracle/oracle"
	"github.com/rubrikinc/tsoracle/oraclehttp"
	"github.com/rubrikinc/tsoracle/tsutil"
	"github.com/rubrikinc/tsoracle/tsutil/log"
)

var eventsCtx struct {
	httpAddr string
}

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Tail the accepted updates",
	Long: `
Prints every update accepted by the oracle as a JSON line until interrupted.
`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		signalC := make(chan os.Signal, 1)
		signal.Notify(signalC, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-signalC
			cancel()
		}()
		c := oraclehttp.NewOracleClient(eventsCtx.httpAddr)
		defer c.Close()
		if err := runEvents(ctx, c, os.Stdout); err != nil {
			log.Fatal(ctx, err)
		}
	},
}

func init() {
	eventsCmd.Flags().StringVar(
		&eventsCtx.httpAddr,
		httpAddrFlag,
		fmt.Sprintf("localhost:%s", tsutil.DefaultHTTPPort),
		"HTTP address of the tsoracle server",
	)
}

// runEvents writes the events streamed by c to out until ctx is done or the
// server closes the stream.
func runEvents(ctx context.Context, c *oraclehttp.OracleClient, out io.Writer) error {
	eventC := make(chan oracle.TimeUpdated)
	var g errgroup.Group
	g.Go(func() error {
		defer close(eventC)
		return c.Events(ctx, eventC)
	})
	enc := json.NewEncoder(out)
	var encodeErr error
	for e := range eventC {
		if encodeErr == nil {
			encodeErr = enc.Encode(e)
		}
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return encodeErr
}
