package rpc

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"

	"github.com/launchdash/launchdash/pkg/types"
	"github.com/launchdash/launchdash/server/internal/api"
	"github.com/launchdash/launchdash/server/internal/dashboard"
	"github.com/launchdash/launchdash/server/internal/metrics"
	"github.com/launchdash/launchdash/server/internal/store"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "launchdash.v1.Dashboard"

// DashboardServer is the server API for the Dashboard service.
type DashboardServer interface {
	Sites(context.Context, *SitesRequest) (*SitesResponse, error)
	Pie(context.Context, *PieRequest) (*PieResponse, error)
	Scatter(context.Context, *ScatterRequest) (*ScatterResponse, error)
}

// Server implements DashboardServer over the active table in a store.
type Server struct {
	store   *store.Store
	slider  dashboard.SliderSpec
	metrics *metrics.Registry
}

var _ DashboardServer = (*Server)(nil)

// New creates a Server reading tables from st.
func New(st *store.Store, slider dashboard.SliderSpec, m *metrics.Registry) *Server {
	return &Server{store: st, slider: slider, metrics: m}
}

// Register adds the Dashboard service and the standard health service to s.
// Both report SERVING until the returned health server is shut down.
func Register(s *grpc.Server, srv DashboardServer) *health.Server {
	s.RegisterService(&serviceDesc, srv)

	hs := health.NewServer()
	grpc_health_v1.RegisterHealthServer(s, hs)
	hs.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	hs.SetServingStatus(ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)
	return hs
}

// Sites returns the dropdown options and slider description.
func (s *Server) Sites(_ context.Context, _ *SitesRequest) (*SitesResponse, error) {
	t := s.store.Table()
	return &SitesResponse{
		Sites:  dashboard.SiteOptions(t),
		Slider: dashboard.NewSlider(s.slider, t),
	}, nil
}

// Pie returns the success pie chart for req.Site.
func (s *Server) Pie(ctx context.Context, req *PieRequest) (*PieResponse, error) {
	resp, err := api.BuildPie(ctx, s.store.Table(), siteOrAll(req.Site), s.metrics)
	if err != nil {
		return nil, toStatus(err)
	}
	return &resp, nil
}

// Scatter returns the payload scatter chart for the requested selection.
func (s *Server) Scatter(ctx context.Context, req *ScatterRequest) (*ScatterResponse, error) {
	t := s.store.Table()
	lo, hi := t.PayloadBounds()
	if req.Low != nil {
		lo = *req.Low
	}
	if req.High != nil {
		hi = *req.High
	}
	sel := types.Selection{Site: siteOrAll(req.Site), Payload: types.PayloadRange{Low: lo, High: hi}}
	resp, err := api.BuildScatter(ctx, t, sel, s.metrics)
	if err != nil {
		return nil, toStatus(err)
	}
	return &resp, nil
}

// LoggingInterceptor returns a UnaryServerInterceptor that logs every call
// with its method, status code and duration.
func LoggingInterceptor() grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		code := status.Code(err)
		level := slog.LevelDebug
		if code != codes.OK && code != codes.InvalidArgument {
			level = slog.LevelWarn
		}
		slog.Log(ctx, level, "rpc: call",
			"method", info.FullMethod,
			"code", code.String(),
			"duration", time.Since(start),
		)
		return resp, err
	}
}

func siteOrAll(site string) string {
	if site == "" {
		return types.AllSites
	}
	return site
}

func toStatus(err error) error {
	if errors.Is(err, dashboard.ErrInvalidSelection) || errors.Is(err, dashboard.ErrInvalidRange) {
		return status.Error(codes.InvalidArgument, err.Error())
	}
	return status.Error(codes.Internal, err.Error())
}

// --- service descriptor -----------------------------------------------------

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*DashboardServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Sites", Handler: sitesHandler},
		{MethodName: "Pie", Handler: pieHandler},
		{MethodName: "Scatter", Handler: scatterHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "launchdash/v1/dashboard",
}

func sitesHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(SitesRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DashboardServer).Sites(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/Sites"}
	return interceptor(ctx, in, info, func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(DashboardServer).Sites(ctx, req.(*SitesRequest))
	})
}

func pieHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(PieRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DashboardServer).Pie(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/Pie"}
	return interceptor(ctx, in, info, func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(DashboardServer).Pie(ctx, req.(*PieRequest))
	})
}

func scatterHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(ScatterRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DashboardServer).Scatter(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/Scatter"}
	return interceptor(ctx, in, info, func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(DashboardServer).Scatter(ctx, req.(*ScatterRequest))
	})
}
