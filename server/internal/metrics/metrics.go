package metrics

import (
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	dto "github.com/prometheus/client_model/go"

	"github.com/launchdash/launchdash/server/internal/dashboard"
)

// Metric names.
const (
	ChartRequestsTotal  = "launchdash_chart_requests_total"
	DatasetReloadsTotal = "launchdash_dataset_reloads_total"
	TableRecords        = "launchdash_table_records"
	WSClients           = "launchdash_ws_clients"
)

// Chart names used as the chart label.
const (
	ChartPie     = "pie"
	ChartScatter = "scatter"
)

// Result label values.
const (
	ResultOK               = "ok"
	ResultInvalidSelection = "invalid_selection"
	ResultInvalidRange     = "invalid_range"
	ResultError            = "error"
)

// Registry holds every dashboard metric on its own prometheus.Registry, so
// several instances can live in one process.
type Registry struct {
	reg      *prometheus.Registry
	requests *prometheus.CounterVec
	reloads  *prometheus.CounterVec
	handler  http.Handler
}

// New creates a Registry. records and clients are sampled on every scrape;
// a nil func leaves its gauge out.
func New(records, clients func() int) *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: ChartRequestsTotal,
			Help: "Chart datasets computed, by chart and result.",
		}, []string{"chart", "result"}),
		reloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: DatasetReloadsTotal,
			Help: "Dataset reload attempts, by result.",
		}, []string{"result"}),
	}
	r.reg.MustRegister(r.requests, r.reloads)

	if records != nil {
		r.reg.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: TableRecords,
			Help: "Records in the active launch table.",
		}, func() float64 { return float64(records()) }))
	}
	if clients != nil {
		r.reg.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: WSClients,
			Help: "Connected WebSocket dashboard clients.",
		}, func() float64 { return float64(clients()) }))
	}

	r.handler = promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
	return r
}

// ObserveChart counts one chart computation and classifies err.
func (r *Registry) ObserveChart(chart string, err error) {
	r.requests.WithLabelValues(chart, ResultFor(err)).Inc()
}

// ObserveReload counts one dataset reload attempt.
func (r *Registry) ObserveReload(err error) {
	res := ResultOK
	if err != nil {
		res = ResultError
	}
	r.reloads.WithLabelValues(res).Inc()
}

// ResultFor maps a chart error to its result label.
func ResultFor(err error) string {
	switch {
	case err == nil:
		return ResultOK
	case errors.Is(err, dashboard.ErrInvalidSelection):
		return ResultInvalidSelection
	case errors.Is(err, dashboard.ErrInvalidRange):
		return ResultInvalidRange
	default:
		return ResultError
	}
}

// Gather returns the current metric families sorted by name.
func (r *Registry) Gather() ([]*dto.MetricFamily, error) {
	return r.reg.Gather()
}

// ServeHTTP writes the metrics in the Prometheus exposition format.
func (r *Registry) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	r.handler.ServeHTTP(w, req)
}
