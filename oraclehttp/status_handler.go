package oraclehttp

import (
	"fmt"
	"net/http"
)

// StatusPath is the endpoint used to check whether the HTTP server is up
const StatusPath = "/status"

// StatusHandler is used to check whether the oracle HTTP server is up. It
// responds with OK on GET calls.
type StatusHandler struct{}

// NewStatusHandler creates a StatusHandler
func NewStatusHandler() *StatusHandler {
	return &StatusHandler{}
}

// ServeHTTP returns whether the oracle HTTP server is up
func (h *StatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		fmt.Fprint(w, "OK")
	default:
		w.Header().Add("Allow", http.MethodGet)
		http.Error(w, "Only GET method is supported", http.StatusMethodNotAllowed)
	}
}
