package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc"
	"google.golang.org/grpc/test/bufconn"

	"github.com/rubrikinc/tsoracle/oracle"
	"github.com/rubrikinc/tsoracle/oraclehttp"
	"github.com/rubrikinc/tsoracle/pb"
	"github.com/rubrikinc/tsoracle/server"
	"github.com/rubrikinc/tsoracle/tm"
)

var (
	ownerAddr   = common.HexToAddress("0x00000000000000000000000000000000000000aa")
	updaterAddr = common.HexToAddress("0x00000000000000000000000000000000000000bb")
)

const bufnet = "bufnet"

// startTestServer serves an oracle created at 1000s over an in memory
// connection and returns a client of it.
func startTestServer(t *testing.T) (*server.Server, *tm.ManualClock, server.Client) {
	t.Helper()
	clock := tm.NewManualClock()
	clock.SetUnixSeconds(1000)
	srv, err := server.NewServer(context.TODO(), server.Config{
		Owner:     ownerAddr,
		MarginBPS: oracle.DefaultMarginBPS,
		Clock:     clock,
	})
	if err != nil {
		t.Fatal(err)
	}
	lis := bufconn.Listen(1 << 20)
	go func() {
		_ = srv.Serve(context.TODO(), lis, nil)
	}()
	waitForServing(t, srv)
	c := server.NewGRPCClient(grpc.WithContextDialer(
		func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		},
	))
	return srv, clock, c
}

func TestStartConfig(t *testing.T) {
	saved := startCtx
	defer func() { startCtx = saved }()
	a := assert.New(t)

	startCtx.owner = ownerAddr.Hex()
	startCtx.dataDir = "/var/lib/tsoracle"
	startCtx.grpcAddr = ":5867"
	startCtx.httpAddr = ""
	startCtx.validation = "permissive"
	startCtx.marginBPS = 100
	config, err := startConfig()
	a.NoError(err)
	a.Equal(ownerAddr, config.Owner)
	a.Equal("/var/lib/tsoracle", config.DataDir)
	a.Equal(":5867", config.GRPCAddr)
	a.Equal("", config.HTTPAddr)
	a.Equal(oracle.ValidationPermissive, config.Validation)
	a.Equal(uint64(100), config.MarginBPS)
	a.NotNil(config.Clock)

	startCtx.owner = ""
	config, err = startConfig()
	a.NoError(err)
	a.Equal(oracle.Address{}, config.Owner)

	startCtx.owner = "alice"
	_, err = startConfig()
	a.Regexp("^owner: invalid address", err.Error())

	startCtx.owner = ownerAddr.Hex()
	startCtx.validation = "lenient"
	_, err = startConfig()
	a.Regexp("^validation: ", err.Error())
}

func TestCommands(t *testing.T) {
	savedClient, savedUpdate, savedStale, savedStatus := clientCtx, updateCtx, staleCtx, statusCtx
	defer func() {
		clientCtx, updateCtx, staleCtx, statusCtx = savedClient, savedUpdate, savedStale, savedStatus
	}()
	ctx := context.TODO()
	a := assert.New(t)
	srv, clock, c := startTestServer(t)
	defer func() {
		a.NoError(c.Close())
		a.NoError(srv.Stop())
	}()

	var out bytes.Buffer
	a.NoError(runTime(ctx, c, bufnet, &out))
	a.Equal("latest: 1000000\nlast update time: 1000\n", out.String())

	clientCtx.caller = ""
	a.EqualError(runOwnerOp(ctx, bufnet, c.Pause), "--caller is required")
	clientCtx.caller = "0x1234"
	a.Regexp("^caller: invalid address", runOwnerOp(ctx, bufnet, c.Pause).Error())

	clientCtx.caller = ownerAddr.Hex()
	a.NoError(runUpdaterOp(ctx, bufnet, updaterAddr.Hex(), c.AddAuthorizedUpdater))
	a.Error(runUpdaterOp(ctx, bufnet, "bob", c.AddAuthorizedUpdater))
	out.Reset()
	a.NoError(runUpdaterCheck(ctx, c, bufnet, updaterAddr.Hex(), &out))
	a.Equal("true\n", out.String())

	a.NoError(runOwnerOp(ctx, bufnet, c.Pause))
	clientCtx.caller = updaterAddr.Hex()
	updateCtx.value = 1000000
	a.Equal(oracle.ErrPaused, runUpdate(ctx, c, bufnet, clock, &out))
	a.Equal(oracle.ErrNotOwner, runOwnerOp(ctx, bufnet, c.Unpause))
	clientCtx.caller = ownerAddr.Hex()
	a.NoError(runOwnerOp(ctx, bufnet, c.Unpause))

	// the local clock is submitted when no value is given
	clientCtx.caller = updaterAddr.Hex()
	updateCtx.value = 0
	clock.AdvanceTime(time.Second)
	out.Reset()
	a.NoError(runUpdate(ctx, c, bufnet, clock, &out))
	a.Equal("1001000\n", out.String())
	updateCtx.value = 1000500
	a.Equal(
		&oracle.InvalidTimestampError{Provided: 1000500, Current: 1001000},
		runUpdate(ctx, c, bufnet, clock, &out),
	)

	clock.AdvanceTime(2 * time.Minute)
	staleCtx.maxAge = 2 * time.Minute
	out.Reset()
	stale, err := runStale(ctx, c, bufnet, &out)
	a.NoError(err)
	a.False(stale)
	a.Equal("false\n", out.String())
	staleCtx.maxAge = 119*time.Second + 999*time.Millisecond
	out.Reset()
	stale, err = runStale(ctx, c, bufnet, &out)
	a.NoError(err)
	a.True(stale)
	a.Equal("true\n", out.String())

	clientCtx.caller = ownerAddr.Hex()
	a.NoError(runUpdaterOp(ctx, bufnet, updaterAddr.Hex(), c.RemoveAuthorizedUpdater))
	out.Reset()
	a.NoError(runUpdaterCheck(ctx, c, bufnet, updaterAddr.Hex(), &out))
	a.Equal("false\n", out.String())

	statusCtx.format = "pretty"
	out.Reset()
	a.NoError(runStatus(ctx, c, bufnet, &out))
	a.Regexp(`(?m)^GRPC Address\s+bufnet$`, out.String())
	a.Regexp(`(?m)^Server Status\s+INITIALIZED$`, out.String())
	a.Regexp(`(?m)^Timestamp\s+1001000$`, out.String())
	a.Regexp(`(?m)^Last Update Time\s+1001$`, out.String())
	a.Regexp(`(?m)^Owner\s+`+ownerAddr.Hex()+`$`, out.String())
	a.Regexp(`(?m)^Updaters\s+N/A$`, out.String())

	statusCtx.format = "json"
	out.Reset()
	a.NoError(runStatus(ctx, c, bufnet, &out))
	var status tsoraclepb.StatusResponse
	a.NoError(json.Unmarshal(out.Bytes(), &status))
	a.Equal(tsoraclepb.ServerStatus_INITIALIZED, status.ServerStatus)
	a.Equal(uint64(1001000), status.OracleState.Timestamp)

	statusCtx.format = "yaml"
	a.EqualError(runStatus(ctx, c, bufnet, &out), "format yaml not supported for status")
}

func TestPrettyPrintStatus(t *testing.T) {
	var out bytes.Buffer
	assert.NoError(t, prettyPrintStatus(&out, "localhost:5867", &tsoraclepb.StatusResponse{
		ServerStatus: tsoraclepb.ServerStatus_STOPPED,
		OracleState: &tsoraclepb.OracleState{
			Timestamp:      1758842435150,
			LastUpdateTime: 1758842435,
			Owner:          "0xaA",
			Updaters:       []string{"0xbB", "0xcC"},
			Paused:         true,
		},
	}))
	assert.Equal(t, `GRPC Address      localhost:5867
Server Status     STOPPED
Timestamp         1758842435150
Last Update Time  1758842435
Owner             0xaA
Paused            true
Updaters          0xbB,0xcC
`, out.String())
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestRunEvents(t *testing.T) {
	a := assert.New(t)
	clock := tm.NewManualClock()
	clock.SetUnixSeconds(1000)
	sm, err := oracle.NewStateMachine(context.TODO(), oracle.Config{
		Owner:     ownerAddr,
		Clock:     clock,
		MarginBPS: oracle.DefaultMarginBPS,
	})
	a.NoError(err)
	defer sm.Close()
	handler := oraclehttp.NewOracleHandler(sm)
	defer handler.Close()
	ts := httptest.NewServer(oraclehttp.NewRouter(handler, prometheus.NewRegistry()))
	defer ts.Close()
	c := oraclehttp.NewOracleClient(strings.TrimPrefix(ts.URL, "http://"))
	defer c.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var out syncBuffer
	errC := make(chan error, 1)
	go func() {
		errC <- runEvents(ctx, c, &out)
	}()
	a.Eventually(func() bool { return handler.ActiveStreams() == 1 }, 5*time.Second, 10*time.Millisecond)

	a.NoError(sm.Update(context.TODO(), ownerAddr, 1000001))
	a.NoError(sm.Update(context.TODO(), ownerAddr, 1000002))
	a.Eventually(
		func() bool { return strings.Count(out.String(), "\n") == 2 },
		5*time.Second,
		10*time.Millisecond,
	)
	cancel()
	a.NoError(<-errC)
	owner := strings.ToLower(ownerAddr.Hex())
	a.Equal(
		`{"timestamp":1000001,"updatedBy":"`+owner+`"}`+"\n"+
			`{"timestamp":1000002,"updatedBy":"`+owner+`"}`+"\n",
		out.String(),
	)
}

func waitForServing(t *testing.T, srv *server.Server) {
	t.Helper()
	for i := 0; srv.ServerStatus() != tsoraclepb.ServerStatus_INITIALIZED; i++ {
		if i == 500 {
			t.Fatalf("server is %s, expected it to be serving", srv.ServerStatus())
		}
		time.Sleep(10 * time.Millisecond)
	}
}
