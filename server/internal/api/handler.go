package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/launchdash/launchdash/pkg/types"
	"github.com/launchdash/launchdash/server/internal/dashboard"
	"github.com/launchdash/launchdash/server/internal/launch"
	"github.com/launchdash/launchdash/server/internal/metrics"
	"github.com/launchdash/launchdash/server/internal/store"
	"github.com/launchdash/launchdash/server/internal/telemetry"
)

// Handler is the HTTP handler for all /api/v1/* endpoints.
// It reads the active launch table from the store on every request.
type Handler struct {
	store   *store.Store
	slider  dashboard.SliderSpec
	metrics *metrics.Registry
	mux     *http.ServeMux
}

// New creates a Handler wired to the given store and registers all routes.
func New(st *store.Store, slider dashboard.SliderSpec, m *metrics.Registry) http.Handler {
	h := &Handler{store: st, slider: slider, metrics: m, mux: http.NewServeMux()}

	h.mux.HandleFunc("/api/v1/health", h.health)
	h.mux.HandleFunc("/api/v1/sites", h.sites)
	h.mux.HandleFunc("/api/v1/slider", h.sliderSpec)
	h.mux.HandleFunc("/api/v1/pie", h.pie)
	h.mux.HandleFunc("/api/v1/scatter", h.scatter)
	h.mux.HandleFunc("/api/v1/records", h.records)

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// --- route handlers ---------------------------------------------------------

// health returns GET /api/v1/health.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	t := h.store.Table()
	jsonResp(w, http.StatusOK, HealthResponse{
		Status:   "ok",
		Records:  t.Len(),
		Sites:    len(t.Sites()),
		LoadedAt: h.store.LoadedAt().UTC().Format(time.RFC3339),
	})
}

// sites returns GET /api/v1/sites: the dropdown options.
func (h *Handler) sites(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	jsonResp(w, http.StatusOK, dashboard.SiteOptions(h.store.Table()))
}

// sliderSpec returns GET /api/v1/slider: slider geometry and initial value.
func (h *Handler) sliderSpec(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	jsonResp(w, http.StatusOK, dashboard.NewSlider(h.slider, h.store.Table()))
}

// pie returns GET /api/v1/pie?site=: the success pie chart dataset.
func (h *Handler) pie(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	resp, err := BuildPie(r.Context(), h.store.Table(), siteParam(r.URL.Query()), h.metrics)
	if err != nil {
		chartErr(w, err)
		return
	}
	jsonResp(w, http.StatusOK, resp)
}

// scatter returns GET /api/v1/scatter?site=&low=&high=: the payload scatter
// chart dataset.
func (h *Handler) scatter(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	t := h.store.Table()
	q := r.URL.Query()

	rng, err := rangeParams(q, t)
	if err != nil {
		h.metrics.ObserveChart(metrics.ChartScatter, err)
		chartErr(w, err)
		return
	}
	resp, err := BuildScatter(r.Context(), t, types.Selection{Site: siteParam(q), Payload: rng}, h.metrics)
	if err != nil {
		chartErr(w, err)
		return
	}
	jsonResp(w, http.StatusOK, resp)
}

// records returns GET /api/v1/records: the whole table in load order.
func (h *Handler) records(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	jsonResp(w, http.StatusOK, h.store.Table().Records())
}

// --- chart builders ---------------------------------------------------------

// BuildPie computes the pie chart for site inside a trace span and counts it.
func BuildPie(ctx context.Context, t *launch.Table, site string, m *metrics.Registry) (PieResponse, error) {
	_, span := telemetry.StartChart(ctx, metrics.ChartPie, site)
	pie, err := dashboard.Aggregate(t, site)
	telemetry.EndChart(span, len(pie.Slices), err)
	m.ObserveChart(metrics.ChartPie, err)
	if err != nil {
		return PieResponse{}, err
	}
	return ToPieResponse(site, pie), nil
}

// BuildScatter computes the scatter chart for sel inside a trace span and
// counts it.
func BuildScatter(ctx context.Context, t *launch.Table, sel types.Selection, m *metrics.Registry) (ScatterResponse, error) {
	_, span := telemetry.StartChart(ctx, metrics.ChartScatter, sel.Site)
	sc, err := dashboard.Filter(t, sel.Site, sel.Payload)
	telemetry.EndChart(span, len(sc.Points), err)
	m.ObserveChart(metrics.ChartScatter, err)
	if err != nil {
		return ScatterResponse{}, err
	}
	return ToScatterResponse(sel, sc), nil
}

// ToPieResponse maps a pie dataset to its JSON representation.
func ToPieResponse(site string, p types.PieDataset) PieResponse {
	return PieResponse{Site: site, Title: p.Title, Slices: p.Slices, Total: p.Total()}
}

// ToScatterResponse maps a scatter dataset to its JSON representation.
func ToScatterResponse(sel types.Selection, s types.ScatterDataset) ScatterResponse {
	return ScatterResponse{Selection: sel, Points: s.Points, Boosters: s.Boosters()}
}

// --- helpers ----------------------------------------------------------------

func jsonResp(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func jsonErr(w http.ResponseWriter, code int, msg string) {
	jsonResp(w, code, errorResponse{Error: msg})
}

// chartErr maps dashboard errors to 400 and anything else to 500.
func chartErr(w http.ResponseWriter, err error) {
	if errors.Is(err, dashboard.ErrInvalidSelection) || errors.Is(err, dashboard.ErrInvalidRange) {
		jsonErr(w, http.StatusBadRequest, err.Error())
		return
	}
	jsonErr(w, http.StatusInternalServerError, err.Error())
}

// siteParam returns the site query parameter, defaulting to all sites.
func siteParam(q url.Values) string {
	if s := q.Get("site"); s != "" {
		return s
	}
	return types.AllSites
}

// rangeParams reads low and high, defaulting each to the table's payload
// bounds.
func rangeParams(q url.Values, t *launch.Table) (types.PayloadRange, error) {
	lo, hi := t.PayloadBounds()
	r := types.PayloadRange{Low: lo, High: hi}
	for _, p := range []struct {
		name string
		dst  *float64
	}{{"low", &r.Low}, {"high", &r.High}} {
		raw := q.Get(p.name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return types.PayloadRange{}, fmt.Errorf("%w: %s %q is not a number", dashboard.ErrInvalidRange, p.name, raw)
		}
		*p.dst = v
	}
	return r, nil
}
