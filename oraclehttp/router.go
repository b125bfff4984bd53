package oraclehttp

import (
	"net/http"
	"path"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsPath is the endpoint serving prometheus metrics
const MetricsPath = "/metrics"

// NewRouter returns the router of the oracle HTTP server. Metrics registered
// with gatherer are served on MetricsPath.
func NewRouter(h *OracleHandler, gatherer prometheus.Gatherer) *mux.Router {
	router := mux.NewRouter()
	router.Handle(StatusPath, NewStatusHandler())
	router.Handle(path.Join(OraclePath, requestTypeState), h.StateHandler()).Methods(http.MethodGet)
	router.Handle(path.Join(OraclePath, requestTypeCall), h.CallHandler()).Methods(http.MethodPost)
	router.Handle(path.Join(OraclePath, requestTypeEvents), h.EventsHandler()).Methods(http.MethodGet)
	router.Handle(MetricsPath, promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	return router
}
