package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"

	"github.com/launchdash/launchdash/server/internal/api"
	"github.com/launchdash/launchdash/server/internal/config"
	"github.com/launchdash/launchdash/server/internal/dashboard"
	"github.com/launchdash/launchdash/server/internal/launch"
	"github.com/launchdash/launchdash/server/internal/metrics"
	"github.com/launchdash/launchdash/server/internal/rpc"
	"github.com/launchdash/launchdash/server/internal/store"
	"github.com/launchdash/launchdash/server/internal/telemetry"
	"github.com/launchdash/launchdash/server/internal/web"
	"github.com/launchdash/launchdash/server/internal/ws"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard page, REST API, WebSocket stream, metrics and gRPC API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, g)
			if err != nil {
				return err
			}
			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()
			return serve(ctx, cfg, g.configPath)
		},
	}
}

// serve runs every listener until ctx is cancelled. configPath is watched
// for log level changes when the file exists.
func serve(ctx context.Context, cfg *config.Config, configPath string) error {
	logger, level := newLogger(os.Stdout, cfg.Log)
	slog.SetDefault(logger)

	slog.Info("launchdash starting", "version", version, "config", configPath)
	slog.Info("config loaded",
		"http_port", cfg.Server.HTTPPort,
		"grpc_port", cfg.Server.GRPCPort,
		"dataset", cfg.Dataset.Path,
		"watch", cfg.Dataset.Watch,
	)

	shutdownTracing, err := telemetry.Setup(ctx, cfg.Telemetry.OTelEndpoint, cfg.Telemetry.ServiceName)
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			slog.Warn("telemetry: shutdown", "err", err)
		}
	}()

	load := func() (*launch.Table, error) {
		return launch.LoadFile(cfg.Dataset.Path, cfg.Dataset.Format, cfg.Dataset.Table)
	}
	tbl, err := load()
	if err != nil {
		return err
	}
	slog.Info("dataset loaded", "records", tbl.Len(), "sites", len(tbl.Sites()))

	st := store.New(tbl)
	slider := dashboard.SliderSpec{Min: cfg.Slider.Min, Max: cfg.Slider.Max, Step: cfg.Slider.Step}

	var hub *ws.Hub
	m := metrics.New(
		func() int { return st.Table().Len() },
		func() int { return hub.Count() },
	)
	hub = ws.New(st, slider, m, cfg.Server.PushInterval)
	go hub.Run(ctx)

	if cfg.Dataset.Watch {
		go func() {
			if err := st.Watch(ctx, cfg.Dataset.Path, load, m.ObserveReload); err != nil {
				slog.Error("store: watch stopped", "err", err)
			}
		}()
	}

	if _, err := os.Stat(configPath); err == nil {
		go func() {
			err := config.Watch(ctx, configPath, func(next *config.Config) {
				level.Set(parseLevel(next.Log.Level))
				slog.Info("log level updated", "level", next.Log.Level)
			})
			if err != nil {
				slog.Error("config: watch stopped", "err", err)
			}
		}()
	}

	var (
		grpcSrv   *grpc.Server
		healthSrv *health.Server
	)
	if cfg.Server.GRPCPort != 0 {
		lis, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.Server.GRPCPort))
		if err != nil {
			return fmt.Errorf("listen on gRPC port %d: %w", cfg.Server.GRPCPort, err)
		}
		grpcSrv = grpc.NewServer(
			grpc.StatsHandler(otelgrpc.NewServerHandler()),
			grpc.UnaryInterceptor(rpc.LoggingInterceptor()),
		)
		healthSrv = rpc.Register(grpcSrv, rpc.New(st, slider, m))
		go func() {
			slog.Info("gRPC API listening", "port", cfg.Server.GRPCPort)
			if err := grpcSrv.Serve(lis); err != nil {
				slog.Error("gRPC server stopped", "err", err)
			}
		}()
	}

	httpSrv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler:           newMux(st, slider, m, hub, cfg.Server.UI),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "port", cfg.Server.HTTPPort)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errc:
		slog.Error("HTTP server stopped", "err", err)
		if grpcSrv != nil {
			grpcSrv.Stop()
		}
		return err
	}

	slog.Info("launchdash shutting down")
	if grpcSrv != nil {
		healthSrv.Shutdown()
		grpcSrv.GracefulStop()
	}
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return httpSrv.Shutdown(sctx)
}

// newMux routes the page, REST API, WebSocket stream and metrics on one
// listener.
func newMux(st *store.Store, slider dashboard.SliderSpec, m *metrics.Registry, hub *ws.Hub, ui bool) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/api/", api.New(st, slider, m))
	mux.Handle(web.StreamPath, hub)
	mux.Handle("/metrics", m)
	if ui {
		mux.Handle("/", web.New(st, slider))
	}
	return mux
}
