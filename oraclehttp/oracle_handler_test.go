package oraclehttp

import (
	"context"
	"encoding/json"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"

	"github.com/rubrikinc/tsoracle/oracle"
	"github.com/rubrikinc/tsoracle/oraclestats"
	"github.com/rubrikinc/tsoracle/tm"
)

var (
	ownerAddr   = common.HexToAddress("0x00000000000000000000000000000000000000aa")
	updaterAddr = common.HexToAddress("0x00000000000000000000000000000000000000bb")
)

type testServer struct {
	clock   *tm.ManualClock
	sm      oracle.StateMachine
	handler *OracleHandler
	server  *httptest.Server
	client  *OracleClient
}

func (ts *testServer) close() {
	ts.client.Close()
	ts.handler.Close()
	ts.server.Close()
	ts.sm.Close()
}

// newTestServer starts an oracle HTTP server whose oracle was created at
// 1000s, so its timestamp starts at 1000000 ms.
func newTestServer(t *testing.T) *testServer {
	t.Helper()
	clock := tm.NewManualClock()
	clock.SetUnixSeconds(1000)
	metrics := oraclestats.NewMetrics()
	registry := prometheus.NewRegistry()
	if err := metrics.Register(registry); err != nil {
		t.Fatal(err)
	}
	sm, err := oracle.NewStateMachine(context.TODO(), oracle.Config{
		Owner:     ownerAddr,
		Clock:     clock,
		MarginBPS: oracle.DefaultMarginBPS,
		Metrics:   metrics,
	})
	if err != nil {
		t.Fatal(err)
	}
	handler := NewOracleHandler(sm)
	server := httptest.NewServer(NewRouter(handler, registry))
	return &testServer{
		clock:   clock,
		sm:      sm,
		handler: handler,
		server:  server,
		client:  NewOracleClient(strings.TrimPrefix(server.URL, "http://")),
	}
}

func TestCallHandler(t *testing.T) {
	ts := newTestServer(t)
	defer ts.close()
	a := assert.New(t)
	a.NoError(ts.sm.AddAuthorizedUpdater(context.TODO(), ownerAddr, updaterAddr))
	updateCalldata, err := oracle.PackUpdate(1000500)
	a.NoError(err)
	futureCalldata, err := oracle.PackUpdate(2000000)
	a.NoError(err)
	latestCalldata, err := oracle.ABI().Pack("latest")
	a.NoError(err)

	cases := []struct {
		name           string
		caller         string
		body           string
		expectedStatus int
		expectedReason string
		expectedBody   string
	}{
		{
			name:           "latest",
			caller:         ownerAddr.Hex(),
			body:           hexOf(latestCalldata),
			expectedStatus: http.StatusOK,
			expectedBody:   "0x" + strings.Repeat("0", 59) + "f4240",
		},
		{
			name:           "unauthorized",
			caller:         "0x00000000000000000000000000000000000000cc",
			body:           hexOf(updateCalldata),
			expectedStatus: http.StatusForbidden,
			expectedReason: oracle.ReasonUnauthorizedUpdater,
		},
		{
			name:           "too far in future",
			caller:         updaterAddr.Hex(),
			body:           hexOf(futureCalldata),
			expectedStatus: http.StatusBadRequest,
			expectedReason: oracle.ReasonValidationFailed,
		},
		{
			name:           "update without prefix",
			caller:         updaterAddr.Hex(),
			body:           strings.TrimPrefix(hexOf(updateCalldata), "0x"),
			expectedStatus: http.StatusOK,
			expectedBody:   "0x",
		},
		{
			name:           "missing caller",
			body:           hexOf(latestCalldata),
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "bad hex",
			caller:         ownerAddr.Hex(),
			body:           "0xzz",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "unknown selector",
			caller:         ownerAddr.Hex(),
			body:           "0xdeadbeef",
			expectedStatus: http.StatusBadRequest,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a := assert.New(t)
			req, err := http.NewRequest(
				http.MethodPost, ts.server.URL+"/oracle/call", strings.NewReader(tc.body),
			)
			a.NoError(err)
			if tc.caller != "" {
				req.Header.Set(CallerHeader, tc.caller)
			}
			resp, err := http.DefaultClient.Do(req)
			if !a.NoError(err) {
				return
			}
			defer resp.Body.Close()
			body, err := ioutil.ReadAll(resp.Body)
			a.NoError(err)
			a.Equal(tc.expectedStatus, resp.StatusCode, string(body))
			if tc.expectedReason != "" {
				r, err := oracle.UnmarshalRejection(body)
				a.NoError(err)
				a.Equal(tc.expectedReason, r.Reason)
			}
			if tc.expectedBody != "" {
				a.Equal(tc.expectedBody, string(body))
			}
		})
	}
	a.Equal(uint64(1000500), ts.sm.Latest(context.TODO()))
}

func hexOf(b []byte) string {
	return "0x" + common.Bytes2Hex(b)
}

func TestStateHandler(t *testing.T) {
	ts := newTestServer(t)
	defer ts.close()
	a := assert.New(t)
	ctx := context.TODO()
	a.NoError(ts.sm.AddAuthorizedUpdater(ctx, ownerAddr, updaterAddr))
	a.NoError(ts.sm.Pause(ctx, ownerAddr))

	resp, err := http.Get(ts.server.URL + "/oracle/state")
	a.NoError(err)
	defer resp.Body.Close()
	a.Equal(http.StatusOK, resp.StatusCode)
	a.Equal("application/json", resp.Header.Get("Content-Type"))
	var raw map[string]interface{}
	a.NoError(json.NewDecoder(resp.Body).Decode(&raw))
	a.Equal(float64(1000000), raw["timestamp"])
	a.Equal(float64(1000), raw["lastUpdateTime"])
	a.Equal(ownerAddr.Hex(), raw["owner"])
	a.Equal([]interface{}{updaterAddr.Hex()}, raw["updaters"])
	a.Equal(true, raw["paused"])

	// only GET is routed
	resp2, err := http.Post(ts.server.URL+"/oracle/state", "text/plain", nil)
	a.NoError(err)
	resp2.Body.Close()
	a.Equal(http.StatusMethodNotAllowed, resp2.StatusCode)
}

func TestMetricsHandler(t *testing.T) {
	ts := newTestServer(t)
	defer ts.close()
	a := assert.New(t)
	resp, err := http.Get(ts.server.URL + MetricsPath)
	a.NoError(err)
	defer resp.Body.Close()
	body, err := ioutil.ReadAll(resp.Body)
	a.NoError(err)
	a.Equal(http.StatusOK, resp.StatusCode)
	a.Contains(string(body), "tsoracle_oracle_timestamp_ms 1e+06")
}

func TestOracleClient(t *testing.T) {
	ts := newTestServer(t)
	defer ts.close()
	a := assert.New(t)
	ctx := context.TODO()

	a.NoError(ts.client.Status(ctx))
	snap, err := ts.client.State(ctx)
	a.NoError(err)
	a.Equal(ts.sm.State(ctx), snap)

	a.Equal(&oracle.UnauthorizedUpdaterError{Caller: updaterAddr}, ts.client.Update(ctx, updaterAddr, 1000000))
	addCalldata, err := oracle.ABI().Pack("addAuthorizedUpdater", updaterAddr)
	a.NoError(err)
	_, err = ts.client.Call(ctx, updaterAddr, addCalldata)
	a.Equal(oracle.ErrNotOwner, err)
	_, err = ts.client.Call(ctx, ownerAddr, addCalldata)
	a.NoError(err)

	ts.clock.AdvanceTime(time.Second)
	a.NoError(ts.client.Update(ctx, updaterAddr, 1001000))
	a.Equal(
		&oracle.InvalidTimestampError{Provided: 1000999, Current: 1001000},
		ts.client.Update(ctx, updaterAddr, 1000999),
	)
	a.NoError(ts.sm.Pause(ctx, ownerAddr))
	a.Equal(oracle.ErrPaused, ts.client.Update(ctx, updaterAddr, 1001000))

	_, err = ts.client.Call(ctx, ownerAddr, []byte{1, 2})
	a.Regexp("status: 400", err.Error())
}

func TestEventsStream(t *testing.T) {
	ts := newTestServer(t)
	defer ts.close()
	a := assert.New(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	eventC := make(chan oracle.TimeUpdated, 10)
	errC := make(chan error, 1)
	go func() {
		errC <- ts.client.Events(ctx, eventC)
	}()

	// Updates are only streamed once the subscription exists.
	for i := 0; i < 500 && ts.handler.ActiveStreams() == 0; i++ {
		time.Sleep(10 * time.Millisecond)
	}
	a.Equal(int64(1), ts.handler.ActiveStreams())
	for _, value := range []uint64{1000001, 1000002} {
		a.NoError(ts.sm.Update(context.TODO(), ownerAddr, value))
		select {
		case e := <-eventC:
			a.Equal(oracle.TimeUpdated{Timestamp: value, UpdatedBy: ownerAddr}, e)
		case <-time.After(5 * time.Second):
			t.Fatal("event was not streamed")
		}
	}

	cancel()
	select {
	case err := <-errC:
		a.NoError(err)
	case <-time.After(5 * time.Second):
		t.Fatal("stream did not end")
	}
}

func TestEventsStreamEndsOnClose(t *testing.T) {
	ts := newTestServer(t)
	defer ts.close()
	errC := make(chan error, 1)
	go func() {
		errC <- ts.client.Events(context.Background(), make(chan oracle.TimeUpdated))
	}()
	// wait for the stream to be registered before closing the handler
	for i := 0; i < 100; i++ {
		time.Sleep(10 * time.Millisecond)
		if ts.handler.ActiveStreams() > 0 {
			break
		}
	}
	ts.handler.Close()
	select {
	case err := <-errC:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("stream did not end")
	}
}
