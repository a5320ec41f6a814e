// Package server wires the OTC runtime and gRPC lifecycle.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	apperrors "github.com/nseguias/otc/internal/platform/errors"
	"github.com/nseguias/otc/internal/platform/timeouts"
	"github.com/nseguias/otc/internal/services/otc/api/grpc/auth"
	grpcmeta "github.com/nseguias/otc/internal/services/otc/api/grpc/metadata"
	otcservice "github.com/nseguias/otc/internal/services/otc/api/grpc/otc"
	"github.com/nseguias/otc/internal/services/otc/escrow"
	"github.com/nseguias/otc/internal/services/otc/identity"
	otcsqlite "github.com/nseguias/otc/internal/services/otc/storage/sqlite"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
)

// Config configures the OTC server runtime.
type Config struct {
	Port   int
	DBPath string
	// DefaultTimeout instantiates the engine at startup when non-zero and no
	// configuration exists yet.
	DefaultTimeout uint64
	AddressFormat  string
	AuthHMACKey    string
	AuthIssuer     string
	// Clock overrides the wall clock, mainly for tests.
	Clock func() time.Time
}

// Server hosts the OTC gRPC API and storage lifecycle.
type Server struct {
	listener   net.Listener
	grpcServer *grpc.Server
	health     *health.Server
	store      *otcsqlite.Store
	app        *escrow.Service
}

// New creates a configured OTC server listening on cfg.Port.
func New(cfg Config) (*Server, error) {
	return NewWithAddr(fmt.Sprintf(":%d", cfg.Port), cfg)
}

// NewWithAddr creates a configured OTC server for the provided address.
func NewWithAddr(addr string, cfg Config) (*Server, error) {
	validator, err := identity.New(cfg.AddressFormat)
	if err != nil {
		return nil, err
	}
	dbPath := strings.TrimSpace(cfg.DBPath)
	if dbPath == "" {
		dbPath = filepath.Join("data", "otc.db")
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", addr, err)
	}
	store, err := openOTCStore(dbPath)
	if err != nil {
		_ = listener.Close()
		return nil, err
	}
	app, err := escrow.New(store, validator, escrow.WithClock(cfg.Clock))
	if err != nil {
		_ = listener.Close()
		_ = store.Close()
		return nil, err
	}
	if err := EnsureInstantiated(context.Background(), app, cfg.DefaultTimeout); err != nil {
		_ = listener.Close()
		_ = store.Close()
		return nil, err
	}
	apiService, err := otcservice.NewService(app)
	if err != nil {
		_ = listener.Close()
		_ = store.Close()
		return nil, err
	}

	verifier := auth.NewVerifier([]byte(cfg.AuthHMACKey), cfg.AuthIssuer)
	grpcServer := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(
			grpcmeta.UnaryServerInterceptor(nil),
			auth.UnaryServerInterceptor(verifier),
			otcservice.LoggingInterceptor(nil),
		),
	)
	healthServer := health.NewServer()
	otcservice.RegisterOTCServiceServer(grpcServer, apiService)
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(otcservice.ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)

	return &Server{
		listener:   listener,
		grpcServer: grpcServer,
		health:     healthServer,
		store:      store,
		app:        app,
	}, nil
}

// EnsureInstantiated stores the engine configuration when defaultTimeout is
// set and the engine has not been instantiated yet.
func EnsureInstantiated(ctx context.Context, app *escrow.Service, defaultTimeout uint64) error {
	if app == nil || defaultTimeout == 0 {
		return nil
	}
	cfg, err := app.GetConfig(ctx)
	if err == nil {
		if cfg.DefaultTimeout != defaultTimeout {
			log.Printf("otc already instantiated with default_timeout=%d; ignoring %d", cfg.DefaultTimeout, defaultTimeout)
		}
		return nil
	}
	if !apperrors.IsCode(err, apperrors.CodeNotInitialized) {
		return fmt.Errorf("load otc config: %w", err)
	}
	if _, err := app.Instantiate(ctx, escrow.InstantiateInput{DefaultTimeout: &defaultTimeout}); err != nil {
		return fmt.Errorf("instantiate otc: %w", err)
	}
	log.Printf("otc instantiated with default_timeout=%d", defaultTimeout)
	return nil
}

// Addr returns the listener address for the server.
func (s *Server) Addr() string {
	if s == nil || s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Run creates and serves an OTC server until context cancellation.
func Run(ctx context.Context, cfg Config) error {
	server, err := New(cfg)
	if err != nil {
		return err
	}
	return server.Serve(ctx)
}

// Serve starts the gRPC server until context cancellation.
func (s *Server) Serve(ctx context.Context) error {
	if s == nil {
		return errors.New("server is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	defer s.Close()

	log.Printf("otc server listening at %v", s.listener.Addr())
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.grpcServer.Serve(s.listener)
	}()

	select {
	case <-ctx.Done():
		if s.health != nil {
			s.health.Shutdown()
		}
		s.gracefulStop()
		err := <-serveErr
		if err == nil || errors.Is(err, grpc.ErrServerStopped) {
			return nil
		}
		return fmt.Errorf("serve gRPC: %w", err)
	case err := <-serveErr:
		if err == nil || errors.Is(err, grpc.ErrServerStopped) {
			return nil
		}
		return fmt.Errorf("serve gRPC: %w", err)
	}
}

// gracefulStop drains in-flight calls, forcing a stop after timeouts.Shutdown.
func (s *Server) gracefulStop() {
	done := make(chan struct{})
	go func() {
		s.grpcServer.GracefulStop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(timeouts.Shutdown):
		log.Printf("otc graceful stop timed out after %s", timeouts.Shutdown)
		s.grpcServer.Stop()
	}
}

// Close releases OTC server resources.
func (s *Server) Close() {
	if s == nil {
		return
	}
	if s.health != nil {
		s.health.Shutdown()
	}
	if s.grpcServer != nil {
		s.grpcServer.Stop()
	}
	if s.listener != nil {
		_ = s.listener.Close()
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			log.Printf("close otc store: %v", err)
		}
	}
}

func openOTCStore(path string) (*otcsqlite.Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}
	store, err := otcsqlite.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open otc sqlite store: %w", err)
	}
	return store, nil
}
