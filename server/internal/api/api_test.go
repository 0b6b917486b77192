package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/launchdash/launchdash/pkg/types"
	"github.com/launchdash/launchdash/server/internal/api"
	"github.com/launchdash/launchdash/server/internal/dashboard"
	"github.com/launchdash/launchdash/server/internal/launch"
	"github.com/launchdash/launchdash/server/internal/metrics"
	"github.com/launchdash/launchdash/server/internal/store"
)

// --- test helpers -----------------------------------------------------------

var defaultSlider = dashboard.SliderSpec{Min: 0, Max: 10000, Step: 1000}

func rec(site string, kg float64, booster string, class types.Outcome) types.Record {
	return types.Record{LaunchSite: site, PayloadMassKg: kg, BoosterVersion: booster, Class: class}
}

// newHandler serves a table with site X (3 successes, 1 failure) and site Y
// (2 failures).
func newHandler(t *testing.T) http.Handler {
	t.Helper()
	tbl, err := launch.NewTable([]types.Record{
		rec("X", 500, "F9 v1.0", types.Success),
		rec("Y", 1200, "F9 v1.1", types.Failure),
		rec("X", 1000, "F9 v1.1", types.Failure),
		rec("X", 2000, "F9 FT", types.Success),
		rec("Y", 9000, "F9 B4", types.Failure),
		rec("X", 3000, "F9 FT", types.Success),
	})
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	return api.New(store.New(tbl), defaultSlider, metrics.New(nil, nil))
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(rr.Body).Decode(v); err != nil {
		t.Fatalf("decode JSON: %v (body: %s)", err, rr.Body.String())
	}
}

// --- /api/v1/health ---------------------------------------------------------

func TestHealth(t *testing.T) {
	rr := get(t, newHandler(t), "/api/v1/health")
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type: got %q", ct)
	}
	var resp api.HealthResponse
	decode(t, rr, &resp)
	if resp.Records != 6 || resp.Sites != 2 || resp.Status != "ok" {
		t.Errorf("health: got %+v", resp)
	}
	if resp.LoadedAt == "" {
		t.Error("loaded_at: missing")
	}
}

// --- /api/v1/sites ----------------------------------------------------------

func TestSites(t *testing.T) {
	rr := get(t, newHandler(t), "/api/v1/sites")
	var got []types.SiteOption
	decode(t, rr, &got)

	want := []types.SiteOption{
		{Label: "All Sites", Value: "ALL"},
		{Label: "X", Value: "X"},
		{Label: "Y", Value: "Y"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("sites mismatch (-want +got):\n%s", diff)
	}
}

// --- /api/v1/slider ---------------------------------------------------------

func TestSlider(t *testing.T) {
	rr := get(t, newHandler(t), "/api/v1/slider")
	var got types.Slider
	decode(t, rr, &got)

	if got.Max != 10000 || got.Step != 1000 || len(got.Marks) != 11 {
		t.Errorf("slider geometry: got %+v", got)
	}
	if got.Initial != (types.PayloadRange{Low: 500, High: 9000}) {
		t.Errorf("initial: got %+v, want [500, 9000]", got.Initial)
	}
}

// --- /api/v1/pie ------------------------------------------------------------

func TestPie_DefaultsToAllSites(t *testing.T) {
	rr := get(t, newHandler(t), "/api/v1/pie")
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
	var got api.PieResponse
	decode(t, rr, &got)

	want := api.PieResponse{
		Site:   "ALL",
		Title:  "Total Success Launches by Site",
		Slices: []types.PieSlice{{Label: "X", Count: 3}},
		Total:  3,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("pie mismatch (-want +got):\n%s", diff)
	}
}

func TestPie_SingleSite(t *testing.T) {
	rr := get(t, newHandler(t), "/api/v1/pie?site=X")
	var got api.PieResponse
	decode(t, rr, &got)

	want := []types.PieSlice{{Label: "1", Count: 3}, {Label: "0", Count: 1}}
	if diff := cmp.Diff(want, got.Slices); diff != "" {
		t.Errorf("slices mismatch (-want +got):\n%s", diff)
	}
	if got.Title != "Total Success Launches for site X" {
		t.Errorf("title: got %q", got.Title)
	}
}

func TestPie_UnknownSite_400(t *testing.T) {
	rr := get(t, newHandler(t), "/api/v1/pie?site=Z")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400", rr.Code)
	}
	var resp map[string]string
	decode(t, rr, &resp)
	if resp["error"] == "" {
		t.Error("error: missing message")
	}
}

// --- /api/v1/scatter --------------------------------------------------------

func TestScatter_StrictBounds(t *testing.T) {
	q := url.Values{"site": {"ALL"}, "low": {"500"}, "high": {"2000"}}
	rr := get(t, newHandler(t), "/api/v1/scatter?"+q.Encode())
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200 (%s)", rr.Code, rr.Body.String())
	}
	var got api.ScatterResponse
	decode(t, rr, &got)

	want := []types.ScatterPoint{
		{PayloadMassKg: 1200, Class: types.Failure, BoosterVersion: "F9 v1.1"},
		{PayloadMassKg: 1000, Class: types.Failure, BoosterVersion: "F9 v1.1"},
	}
	if diff := cmp.Diff(want, got.Points); diff != "" {
		t.Errorf("points mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"F9 v1.1"}, got.Boosters); diff != "" {
		t.Errorf("boosters mismatch (-want +got):\n%s", diff)
	}
}

func TestScatter_DefaultRangeIsTableBounds(t *testing.T) {
	rr := get(t, newHandler(t), "/api/v1/scatter?site=Y")
	var got api.ScatterResponse
	decode(t, rr, &got)

	if got.Selection.Payload != (types.PayloadRange{Low: 500, High: 9000}) {
		t.Errorf("selection payload: got %+v", got.Selection.Payload)
	}
	// 9000 kg sits on the upper bound and is excluded.
	if len(got.Points) != 1 || got.Points[0].PayloadMassKg != 1200 {
		t.Errorf("points: got %+v, want only the 1200 kg launch", got.Points)
	}
}

func TestScatter_EmptyResult(t *testing.T) {
	rr := get(t, newHandler(t), "/api/v1/scatter?site=X&low=5000&high=6000")
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
	var resp map[string]interface{}
	decode(t, rr, &resp)
	points, ok := resp["points"].([]interface{})
	if !ok || len(points) != 0 {
		t.Errorf("points: got %v, want []", resp["points"])
	}
}

func TestScatter_BadRange_400(t *testing.T) {
	for _, q := range []string{"low=3000&high=1000", "low=abc", "low=-5"} {
		rr := get(t, newHandler(t), "/api/v1/scatter?"+q)
		if rr.Code != http.StatusBadRequest {
			t.Errorf("%s: status got %d, want 400", q, rr.Code)
		}
	}
}

func TestScatter_UnknownSite_400(t *testing.T) {
	rr := get(t, newHandler(t), "/api/v1/scatter?site=Z")
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rr.Code)
	}
}

// --- /api/v1/records --------------------------------------------------------

func TestRecords(t *testing.T) {
	rr := get(t, newHandler(t), "/api/v1/records")
	var got []types.Record
	decode(t, rr, &got)
	if len(got) != 6 || got[4].BoosterVersion != "F9 B4" {
		t.Errorf("records: got %+v", got)
	}
}

// --- method handling --------------------------------------------------------

func TestNonGET_Returns405(t *testing.T) {
	h := newHandler(t)
	for _, path := range []string{
		"/api/v1/health", "/api/v1/sites", "/api/v1/slider",
		"/api/v1/pie", "/api/v1/scatter", "/api/v1/records",
	} {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, path, nil))
		if rr.Code != http.StatusMethodNotAllowed {
			t.Errorf("POST %s: got %d, want 405", path, rr.Code)
		}
	}
}

func TestUnknownRoute_404(t *testing.T) {
	rr := get(t, newHandler(t), "/api/v1/nope")
	if rr.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", rr.Code)
	}
}
