// Package server orchestrates all components: kernel registry, HTTP API, optional COMMS bridge and metrics.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	comms "github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/morezero/kernel-server/internal/config"
	"github.com/morezero/kernel-server/pkg/api"
	"github.com/morezero/kernel-server/pkg/catalog"
	"github.com/morezero/kernel-server/pkg/commsutil"
	"github.com/morezero/kernel-server/pkg/dispatcher"
	"github.com/morezero/kernel-server/pkg/events"
	"github.com/morezero/kernel-server/pkg/metrics"
	"github.com/morezero/kernel-server/pkg/registry"
	"github.com/morezero/kernel-server/pkg/runner"
)

const logPrefix = "server:server"

// Server is the kernel-server orchestrator.
type Server struct {
	cfg     *config.Config
	reg     *registry.Registry
	promReg *prometheus.Registry
	metrics *metrics.Metrics

	nc            *comms.Conn
	sub           *comms.Subscription
	httpServer    *http.Server
	listener      net.Listener
	metricsServer *http.Server
	metricsLn     net.Listener
}

// SetupLogging installs the default slog text handler at the given level.
func SetupLogging(level string) {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))
}

// Run starts the server, blocks until shutdown signal, then cleans up.
func Run(cfg *config.Config) error {
	SetupLogging(cfg.LogLevel)

	if err := cfg.ValidateForServe(); err != nil {
		return err
	}

	slog.Info(fmt.Sprintf("%s - Starting kernel-server", logPrefix))

	s, err := New(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := s.Start(ctx); err != nil {
		return err
	}

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	slog.Info(fmt.Sprintf("%s - Received signal %s, shutting down", logPrefix, sig))
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := s.Shutdown(shutdownCtx); err != nil {
		return err
	}

	slog.Info(fmt.Sprintf("%s - Shutdown complete", logPrefix))
	return nil
}

// New loads the catalog and builds the registry. Any catalog or registration
// problem fails here, before anything listens.
func New(cfg *config.Config) (*Server, error) {
	cat, err := catalog.LoadCatalog(cfg.CatalogFile)
	if err != nil {
		return nil, fmt.Errorf("%s - failed to load catalog: %w", logPrefix, err)
	}
	reg, err := catalog.NewRegistry(cat)
	if err != nil {
		return nil, fmt.Errorf("%s - failed to build registry: %w", logPrefix, err)
	}

	promReg := prometheus.NewRegistry()
	promReg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Server{
		cfg:     cfg,
		reg:     reg,
		promReg: promReg,
		metrics: metrics.MustNewMetrics(promReg),
	}, nil
}

// Registry returns the kernel registry served by s.
func (s *Server) Registry() *registry.Registry {
	return s.reg
}

// Start connects the COMMS bridge when configured and starts the listeners.
// ctx bounds the lifetime of in-flight COMMS requests.
func (s *Server) Start(ctx context.Context) error {
	var publisher events.EventPublisher = &events.NoOpPublisher{}

	// Step 1: COMMS bridge (optional)
	if s.cfg.COMMSEnabled() {
		nc, err := commsutil.Connect(s.cfg.COMMSURL, s.cfg.COMMSName)
		if err != nil {
			return fmt.Errorf("%s - failed to connect to COMMS: %w", logPrefix, err)
		}
		s.nc = nc
		publisher = events.NewCommsPublisher(nc, &events.CommsPublisherOpts{GlobalSubject: s.cfg.EventSubject})
	}

	run := runner.New(s.reg, runner.Options{Publisher: publisher, Metrics: s.metrics})

	if s.nc != nil {
		subject := s.cfg.ExecuteSubject
		if subject == "" {
			subject = commsutil.SubjectExecute
		}
		sub, err := dispatcher.NewDispatcher(run).Subscribe(ctx, s.nc, subject, s.cfg.RequestTimeout)
		if err != nil {
			s.closeCOMMS()
			return err
		}
		s.sub = sub
	}

	// Step 2: HTTP API
	ln, err := net.Listen("tcp", s.cfg.Addr())
	if err != nil {
		s.closeCOMMS()
		return fmt.Errorf("%s - failed to listen on %s: %w", logPrefix, s.cfg.Addr(), err)
	}
	s.listener = ln
	s.httpServer = &http.Server{
		Handler: api.NewServer(run, api.Options{
			OwnedBy: s.cfg.OwnedBy,
			Metrics: s.metrics,
		}),
		ReadHeaderTimeout: s.cfg.ReadHeaderTimeout,
		IdleTimeout:       s.cfg.IdleTimeout,
	}
	go serve(s.httpServer, ln, "HTTP API")

	// Step 3: metrics listener (optional)
	if s.cfg.MetricsAddr != "" {
		mln, err := net.Listen("tcp", s.cfg.MetricsAddr)
		if err != nil {
			_ = s.httpServer.Close()
			s.closeCOMMS()
			return fmt.Errorf("%s - failed to listen on %s: %w", logPrefix, s.cfg.MetricsAddr, err)
		}
		s.metricsLn = mln
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler(s.promReg))
		s.metricsServer = &http.Server{Handler: mux, ReadHeaderTimeout: s.cfg.ReadHeaderTimeout}
		go serve(s.metricsServer, mln, "metrics")
	}

	s.logStartup()
	return nil
}

// Addr returns the bound HTTP API address, or "" before Start.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// MetricsAddr returns the bound metrics address, or "" when disabled.
func (s *Server) MetricsAddr() string {
	if s.metricsLn == nil {
		return ""
	}
	return s.metricsLn.Addr().String()
}

// Shutdown stops accepting requests, waits for in-flight ones and closes the
// COMMS connection.
func (s *Server) Shutdown(ctx context.Context) error {
	var errs []error
	if s.sub != nil {
		if err := s.sub.Unsubscribe(); err != nil && !errors.Is(err, comms.ErrConnectionClosed) {
			errs = append(errs, err)
		}
	}
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("%s - HTTP shutdown: %w", logPrefix, err))
		}
	}
	if s.metricsServer != nil {
		if err := s.metricsServer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("%s - metrics shutdown: %w", logPrefix, err))
		}
	}
	s.closeCOMMS()
	return errors.Join(errs...)
}

func (s *Server) closeCOMMS() {
	if s.nc == nil {
		return
	}
	if err := s.nc.Drain(); err != nil {
		slog.Warn(fmt.Sprintf("%s - COMMS drain failed: %v", logPrefix, err))
		s.nc.Close()
	}
	s.nc = nil
}

func serve(srv *http.Server, ln net.Listener, name string) {
	slog.Info(fmt.Sprintf("%s - %s listening on %s", logPrefix, name, ln.Addr()))
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error(fmt.Sprintf("%s - %s server error: %v", logPrefix, name, err))
	}
}

func (s *Server) logStartup() {
	slog.Info(fmt.Sprintf("%s - Loaded %d kernels: %s", logPrefix, s.reg.Len(), strings.Join(s.reg.List(), ", ")))
	for _, ep := range api.Endpoints {
		slog.Info(fmt.Sprintf("%s - Endpoint %s", logPrefix, ep))
	}
	if s.nc != nil {
		slog.Info(fmt.Sprintf("%s - COMMS bridge active on %s", logPrefix, s.sub.Subject))
	}
	slog.Info(fmt.Sprintf("%s - Kernel server is ready at http://%s", logPrefix, s.Addr()))
}
