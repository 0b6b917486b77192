package rpc_test

import (
	"context"
	"net"
	"testing"

	"github.com/google/go-cmp/cmp"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/launchdash/launchdash/pkg/types"
	"github.com/launchdash/launchdash/server/internal/dashboard"
	"github.com/launchdash/launchdash/server/internal/launch"
	"github.com/launchdash/launchdash/server/internal/metrics"
	"github.com/launchdash/launchdash/server/internal/rpc"
	"github.com/launchdash/launchdash/server/internal/store"
)

func rec(site string, kg float64, booster string, class types.Outcome) types.Record {
	return types.Record{LaunchSite: site, PayloadMassKg: kg, BoosterVersion: booster, Class: class}
}

func bufDialer(lis *bufconn.Listener) grpc.DialOption {
	return grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
		return lis.DialContext(ctx)
	})
}

// startServer serves the dashboard over an in-memory listener and returns a
// connected client plus the metrics registry the server records into.
func startServer(t *testing.T) (*rpc.Client, *metrics.Registry) {
	t.Helper()
	client, m, _ := startServerWithListener(t)
	return client, m
}

func startServerWithListener(t *testing.T) (*rpc.Client, *metrics.Registry, *bufconn.Listener) {
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
	m := metrics.New(nil, nil)

	srv := grpc.NewServer(grpc.UnaryInterceptor(rpc.LoggingInterceptor()))
	rpc.Register(srv, rpc.New(store.New(tbl), dashboard.SliderSpec{Min: 0, Max: 10000, Step: 1000}, m))

	lis := bufconn.Listen(1 << 20)
	go srv.Serve(lis) //nolint:errcheck
	t.Cleanup(srv.Stop)

	client, err := rpc.Dial("passthrough:///bufnet", bufDialer(lis))
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	t.Cleanup(func() { client.Close() })

	return client, m, lis
}

func TestSites_ReturnsOptionsAndSlider(t *testing.T) {
	client, _ := startServer(t)

	resp, err := client.Sites(context.Background(), &rpc.SitesRequest{})
	if err != nil {
		t.Fatalf("Sites: %v", err)
	}
	want := []types.SiteOption{
		{Label: types.AllSitesLabel, Value: types.AllSites},
		{Label: "X", Value: "X"},
		{Label: "Y", Value: "Y"},
	}
	if diff := cmp.Diff(want, resp.Sites); diff != "" {
		t.Errorf("Sites mismatch (-want +got):\n%s", diff)
	}
	if resp.Slider.Max != 10000 || len(resp.Slider.Marks) != 11 {
		t.Errorf("Slider: got max %v with %d marks, want 10000 with 11", resp.Slider.Max, len(resp.Slider.Marks))
	}
}

func TestPie_AllSites(t *testing.T) {
	client, _ := startServer(t)

	resp, err := client.Pie(context.Background(), &rpc.PieRequest{})
	if err != nil {
		t.Fatalf("Pie: %v", err)
	}
	if resp.Site != types.AllSites {
		t.Errorf("Site: got %q, want ALL", resp.Site)
	}
	want := []types.PieSlice{{Label: "X", Count: 3}}
	if diff := cmp.Diff(want, resp.Slices); diff != "" {
		t.Errorf("Slices mismatch (-want +got):\n%s", diff)
	}
}

func TestPie_SingleSite(t *testing.T) {
	client, _ := startServer(t)

	resp, err := client.Pie(context.Background(), &rpc.PieRequest{Site: "X"})
	if err != nil {
		t.Fatalf("Pie: %v", err)
	}
	if resp.Total != 4 {
		t.Errorf("Total: got %d, want 4", resp.Total)
	}
	if resp.Title != "Total Success Launches for site X" {
		t.Errorf("Title: got %q", resp.Title)
	}
}

func TestPie_UnknownSite_InvalidArgument(t *testing.T) {
	client, _ := startServer(t)

	_, err := client.Pie(context.Background(), &rpc.PieRequest{Site: "nowhere"})
	if code := status.Code(err); code != codes.InvalidArgument {
		t.Errorf("code: got %v, want InvalidArgument", code)
	}
}

func TestScatter_DefaultsToTableBounds(t *testing.T) {
	client, _ := startServer(t)

	resp, err := client.Scatter(context.Background(), &rpc.ScatterRequest{Site: "X"})
	if err != nil {
		t.Fatalf("Scatter: %v", err)
	}
	// Bounds are exclusive: the 500 kg record sits on the lower bound.
	if len(resp.Points) != 3 {
		t.Errorf("Points: got %d, want 3", len(resp.Points))
	}
	if resp.Selection.Payload != (types.PayloadRange{Low: 500, High: 9000}) {
		t.Errorf("Payload: got %+v", resp.Selection.Payload)
	}
}

func TestScatter_ExplicitRange(t *testing.T) {
	client, _ := startServer(t)

	lo, hi := 900.0, 2500.0
	resp, err := client.Scatter(context.Background(), &rpc.ScatterRequest{Low: &lo, High: &hi})
	if err != nil {
		t.Fatalf("Scatter: %v", err)
	}
	want := []string{"F9 v1.1", "F9 FT"}
	if diff := cmp.Diff(want, resp.Boosters); diff != "" {
		t.Errorf("Boosters mismatch (-want +got):\n%s", diff)
	}
	if len(resp.Points) != 3 {
		t.Errorf("Points: got %d, want 3", len(resp.Points))
	}
}

func TestScatter_InvertedRange_InvalidArgument(t *testing.T) {
	client, m := startServer(t)

	lo, hi := 3000.0, 1000.0
	_, err := client.Scatter(context.Background(), &rpc.ScatterRequest{Low: &lo, High: &hi})
	if code := status.Code(err); code != codes.InvalidArgument {
		t.Fatalf("code: got %v, want InvalidArgument", code)
	}

	mfs, err := m.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	var found bool
	for _, mf := range mfs {
		if mf.GetName() != metrics.ChartRequestsTotal {
			continue
		}
		for _, mt := range mf.GetMetric() {
			labels := map[string]string{}
			for _, lp := range mt.GetLabel() {
				labels[lp.GetName()] = lp.GetValue()
			}
			if labels["chart"] == metrics.ChartScatter && labels["result"] == metrics.ResultInvalidRange {
				found = mt.GetCounter().GetValue() == 1
			}
		}
	}
	if !found {
		t.Error("expected one invalid scatter request to be counted")
	}
}

func TestHealth_Serving(t *testing.T) {
	_, _, lis := startServerWithListener(t)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		bufDialer(lis),
	)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	defer conn.Close()

	resp, err := grpc_health_v1.NewHealthClient(conn).Check(context.Background(),
		&grpc_health_v1.HealthCheckRequest{Service: rpc.ServiceName})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if resp.GetStatus() != grpc_health_v1.HealthCheckResponse_SERVING {
		t.Errorf("status: got %v, want SERVING", resp.GetStatus())
	}
}
