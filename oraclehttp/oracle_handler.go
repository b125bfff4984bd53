package oraclehttp

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"sync"

	"github.com/cockroachdb/cockroach/pkg/util/syncutil"
	"github.com/pkg/errors"
	"go.uber.org/atomic"

	"github.com/rubrikinc/tsoracle/oracle"
	"github.com/rubrikinc/tsoracle/tsutil/log"
)

// supported HTTP URIs
const (
	// OraclePath is the prefix of the endpoints serving the oracle.
	OraclePath = "/oracle"
	// requestTypeState is the suffix of the endpoint returning a snapshot of the
	// oracle state.
	requestTypeState = "state"
	// requestTypeCall is the suffix of the endpoint executing ABI calldata.
	requestTypeCall = "call"
	// requestTypeEvents is the suffix of the websocket endpoint streaming
	// TimeUpdated events.
	requestTypeEvents = "events"
)

// CallerHeader carries the principal on whose behalf calldata is executed.
const CallerHeader = "X-Oracle-Caller"

// maxCalldataSize bounds the body of call requests. The largest call of the
// oracle ABI is 36 bytes, 74 hex characters with the 0x prefix.
const maxCalldataSize = 1 << 10

// OracleHandler serves the oracle over HTTP. Calls are dispatched through
// the ABI surface of the oracle, so the same calldata the off-chain updater
// signs can be submitted here.
type OracleHandler struct {
	sm       oracle.StateMachine
	contract *oracle.Contract

	mu struct {
		syncutil.Mutex
		closed bool
	}
	// quit is closed by Close to end the event streams.
	quit chan struct{}
	// streams tracks the running event streams.
	streams sync.WaitGroup
	// active is the number of running event streams.
	active atomic.Int64
}

// NewOracleHandler returns an OracleHandler serving sm
func NewOracleHandler(sm oracle.StateMachine) *OracleHandler {
	return &OracleHandler{
		sm:       sm,
		contract: oracle.NewContract(sm),
		quit:     make(chan struct{}),
	}
}

// httpError is a wrapper around error and is returned if there were any errors
// processing a HTTP request in the oracle handler.
type httpError struct {
	error                 // base error
	handler string        // handler type where the error occurred
	request *http.Request // request which got the error
	event   string        // event describes the event which caused the error
}

func (h httpError) Error() string {
	return fmt.Sprintf(
		"handle error: handler: %s, method: %s, uri: %s, event: %s, error: %v",
		h.handler,
		h.request.Method,
		h.request.RequestURI,
		h.event,
		h.error,
	)
}

// StatusForReason returns the HTTP status of a rejection with the given reason.
func StatusForReason(reason string) int {
	switch reason {
	case oracle.ReasonNotOwner, oracle.ReasonUnauthorizedUpdater:
		return http.StatusForbidden
	case oracle.ReasonPaused:
		return http.StatusConflict
	case oracle.ReasonZeroPrincipal, oracle.ReasonInvalidTimestamp, oracle.ReasonValidationFailed:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// handleState responds with a JSON snapshot of the oracle state.
func (h *OracleHandler) handleState(
	ctx context.Context, w http.ResponseWriter, r *http.Request,
) (int, error) {
	const handler = "oracleHandler-handleState"
	respJSON, err := json.Marshal(h.sm.State(ctx))
	if err != nil {
		return http.StatusInternalServerError,
			httpError{error: err, handler: handler, request: r, event: "marshal-state"}
	}
	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(respJSON); err != nil {
		return http.StatusInternalServerError,
			httpError{error: err, handler: handler, request: r, event: "write-response"}
	}
	return http.StatusOK, nil
}

// decodeHex decodes an optionally 0x prefixed hex string
func decodeHex(b []byte) ([]byte, error) {
	b = bytes.TrimSpace(b)
	b = bytes.TrimPrefix(bytes.TrimPrefix(b, []byte("0x")), []byte("0X"))
	out := make([]byte, hex.DecodedLen(len(b)))
	if _, err := hex.Decode(out, b); err != nil {
		return nil, err
	}
	return out, nil
}

// handleCall executes the hex encoded calldata in the request body on behalf
// of the principal in CallerHeader, and responds with the hex encoded return
// data.
func (h *OracleHandler) handleCall(
	ctx context.Context, w http.ResponseWriter, r *http.Request,
) (int, error) {
	const handler = "oracleHandler-handleCall"
	caller, err := oracle.ParseAddress(r.Header.Get(CallerHeader))
	if err != nil {
		return http.StatusBadRequest,
			httpError{error: err, handler: handler, request: r, event: "parse-caller"}
	}
	body, err := ioutil.ReadAll(http.MaxBytesReader(w, r.Body, maxCalldataSize))
	if err != nil {
		return http.StatusBadRequest,
			httpError{error: err, handler: handler, request: r, event: "read-body"}
	}
	calldata, err := decodeHex(body)
	if err != nil {
		return http.StatusBadRequest,
			httpError{error: err, handler: handler, request: r, event: "decode-calldata"}
	}
	ret, err := h.contract.Call(ctx, caller, calldata)
	if err != nil {
		if rejection, ok := oracle.RejectionFromError(err); ok {
			return h.writeRejection(w, r, rejection)
		}
		var calldataErr *oracle.CalldataError
		if errors.As(err, &calldataErr) {
			return http.StatusBadRequest,
				httpError{error: err, handler: handler, request: r, event: "decode-call"}
		}
		return http.StatusInternalServerError,
			httpError{error: err, handler: handler, request: r, event: "call"}
	}
	if _, err := fmt.Fprintf(w, "0x%x", ret); err != nil {
		return http.StatusInternalServerError,
			httpError{error: err, handler: handler, request: r, event: "write-response"}
	}
	return http.StatusOK, nil
}

func (h *OracleHandler) writeRejection(
	w http.ResponseWriter, r *http.Request, rejection oracle.Rejection,
) (int, error) {
	respJSON, err := json.Marshal(rejection)
	if err != nil {
		return http.StatusInternalServerError, httpError{
			error: err, handler: "oracleHandler-writeRejection", request: r, event: "marshal-rejection",
		}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(StatusForReason(rejection.Reason))
	_, _ = w.Write(respJSON)
	return StatusForReason(rejection.Reason), nil
}

// serve runs handle and reports the error it returns, if any
func serve(
	ctx context.Context,
	w http.ResponseWriter,
	r *http.Request,
	handle func(context.Context, http.ResponseWriter, *http.Request) (int, error),
) {
	// r.Body can be nil in GET calls.
	if r.Body != nil {
		defer r.Body.Close()
	}
	if log.V(1) {
		log.Infof(ctx, "Received request, method: %s, uri: %s", r.Method, r.RequestURI)
	}
	status, err := handle(ctx, w, r)
	if err != nil {
		if status >= http.StatusInternalServerError {
			log.Error(ctx, err)
		} else {
			log.Info(ctx, err)
		}
		http.Error(w, err.Error(), status)
	}
}

// StateHandler returns the handler of GET /oracle/state
func (h *OracleHandler) StateHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		serve(r.Context(), w, r, h.handleState)
	})
}

// CallHandler returns the handler of POST /oracle/call
func (h *OracleHandler) CallHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		serve(r.Context(), w, r, h.handleCall)
	})
}

// trackStream registers a new event stream. It returns false once the
// handler is closed.
func (h *OracleHandler) trackStream() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.mu.closed {
		return false
	}
	h.streams.Add(1)
	h.active.Inc()
	return true
}

func (h *OracleHandler) untrackStream() {
	h.active.Dec()
	h.streams.Done()
}

// ActiveStreams returns the number of connected event streams
func (h *OracleHandler) ActiveStreams() int64 {
	return h.active.Load()
}

// Close ends the running event streams and waits for them to finish.
func (h *OracleHandler) Close() {
	h.mu.Lock()
	if !h.mu.closed {
		h.mu.closed = true
		close(h.quit)
	}
	h.mu.Unlock()
	h.streams.Wait()
}
