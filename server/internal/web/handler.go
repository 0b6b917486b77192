package web

import (
	"net/http"

	"github.com/a-h/templ"

	"github.com/launchdash/launchdash/server/internal/dashboard"
	"github.com/launchdash/launchdash/server/internal/store"
)

// StreamPath is where the page expects the websocket endpoint.
const StreamPath = "/ws/stream"

// Handler renders the dashboard page from the active table.
type Handler struct {
	store  *store.Store
	slider dashboard.SliderSpec
}

// New creates a Handler reading tables from st.
func New(st *store.Store, slider dashboard.SliderSpec) *Handler {
	return &Handler{store: st, slider: slider}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	t := h.store.Table()
	page := Page(Bootstrap{
		Sites:    dashboard.SiteOptions(t),
		Slider:   dashboard.NewSlider(h.slider, t),
		StreamWS: StreamPath,
	})
	templ.Handler(page).ServeHTTP(w, r)
}
