package oraclehttp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/url"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/rubrikinc/tsoracle/oracle"
	"github.com/rubrikinc/tsoracle/pb"
	"github.com/rubrikinc/tsoracle/tsutil"
)

// OracleClient issues HTTP requests to an oracle HTTP server. It contains a
// http client that is thread-safe and should be reused to avoid leaking TCP
// connections. Close should be called after completing all the requests.
type OracleClient struct {
	// client is used to issue HTTP requests to url.
	client *http.Client
	// transport is used to maintain connections to the server.
	transport *http.Transport
	// url is the base URL of the oracle HTTP server.
	url url.URL
	// wsURL is the base URL of the websocket endpoints.
	wsURL url.URL
}

// NewOracleClient creates an OracleClient for the server listening on addr
// (host:port). All the requests of this client have a default timeout of a
// minute, requests can be passed contexts with smaller timeouts.
func NewOracleClient(addr string) *OracleClient {
	const dialTimeout = 10 * time.Second
	rt := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		TLSHandshakeTimeout: dialTimeout,
		MaxIdleConnsPerHost: 4,
	}
	return &OracleClient{
		client:    &http.Client{Transport: rt, Timeout: time.Minute},
		transport: rt,
		url:       tsutil.AddrToURL(addr, false /* secure */, false /* ws */),
		wsURL:     tsutil.AddrToURL(addr, false /* secure */, true /* ws */),
	}
}

func (c *OracleClient) do(ctx context.Context, req *http.Request) ([]byte, *http.Response, error) {
	resp, err := c.client.Do(req.WithContext(ctx))
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()
	body, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, err
	}
	return body, resp, nil
}

// Status returns nil if the server is up
func (c *OracleClient) Status(ctx context.Context) error {
	statusURL := tsutil.AddToURLPath(c.url, StatusPath)
	httpReq, err := http.NewRequest(http.MethodGet, statusURL.String(), nil)
	if err != nil {
		return err
	}
	body, resp, err := c.do(ctx, httpReq)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return errors.Errorf(
			"status request failed. status: %v, msg: %s", resp.StatusCode, bytes.TrimSpace(body),
		)
	}
	return nil
}

// State returns a snapshot of the oracle state
func (c *OracleClient) State(ctx context.Context) (*tsoraclepb.OracleState, error) {
	stateURL := tsutil.AddToURLPath(c.url, OraclePath, requestTypeState)
	httpReq, err := http.NewRequest(http.MethodGet, stateURL.String(), nil)
	if err != nil {
		return nil, err
	}
	body, resp, err := c.do(ctx, httpReq)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf(
			"state request failed. status: %v, msg: %s", resp.StatusCode, bytes.TrimSpace(body),
		)
	}
	var snap tsoraclepb.OracleState
	if err := json.Unmarshal(body, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// Call executes calldata on behalf of caller and returns the ABI encoded
// return data. Rejections are returned as the typed oracle errors.
func (c *OracleClient) Call(ctx context.Context, caller oracle.Address, calldata []byte) ([]byte, error) {
	callURL := tsutil.AddToURLPath(c.url, OraclePath, requestTypeCall)
	httpReq, err := http.NewRequest(
		http.MethodPost,
		callURL.String(),
		bytes.NewReader([]byte(fmt.Sprintf("0x%x", calldata))),
	)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set(CallerHeader, caller.Hex())
	httpReq.Header.Set("Content-Type", "text/plain")
	body, resp, err := c.do(ctx, httpReq)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		if rejection, err := oracle.UnmarshalRejection(body); err == nil {
			return nil, rejection.Err()
		}
		return nil, errors.Errorf(
			"call request failed. status: %v, msg: %s", resp.StatusCode, bytes.TrimSpace(body),
		)
	}
	ret, err := decodeHex(body)
	if err != nil {
		return nil, errors.Wrapf(err, "could not decode return data %q", body)
	}
	return ret, nil
}

// Update submits value on behalf of caller through the updateTimestamp call
func (c *OracleClient) Update(ctx context.Context, caller oracle.Address, value uint64) error {
	calldata, err := oracle.PackUpdate(value)
	if err != nil {
		return err
	}
	_, err = c.Call(ctx, caller, calldata)
	return err
}

// Events streams the TimeUpdated events of the server to ch until ctx is
// done or the server closes the stream. It returns nil if ctx is done.
func (c *OracleClient) Events(ctx context.Context, ch chan<- oracle.TimeUpdated) error {
	eventsURL := tsutil.AddToURLPath(c.wsURL, OraclePath, requestTypeEvents)
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, eventsURL.String(), nil)
	if err != nil {
		if resp != nil {
			return errors.Wrapf(err, "events request failed. status: %v", resp.StatusCode)
		}
		return err
	}
	defer conn.Close()
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(
				websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeDeadline),
			)
			_ = conn.Close()
		case <-done:
		}
	}()
	for {
		var e oracle.TimeUpdated
		if err := conn.ReadJSON(&e); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if websocket.IsCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				return nil
			}
			return err
		}
		select {
		case ch <- e:
		case <-ctx.Done():
			return nil
		}
	}
}

// Close closes all the idle connections that the client has made.
func (c *OracleClient) Close() {
	c.transport.CloseIdleConnections()
}
