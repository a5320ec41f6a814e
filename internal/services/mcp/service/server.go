package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	platformgrpc "github.com/nseguias/otc/internal/platform/grpc"
	"github.com/nseguias/otc/internal/platform/timeouts"
	"github.com/nseguias/otc/internal/services/mcp/domain"
	"github.com/nseguias/otc/internal/services/otc/api/grpc/auth"
	otcservice "github.com/nseguias/otc/internal/services/otc/api/grpc/otc"
	"google.golang.org/grpc"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
)

const (
	// serverName identifies this MCP server to clients.
	serverName = "OTC MCP"
	// serverVersion identifies the MCP server version.
	serverVersion = "0.1.0"

	defaultGRPCAddr = "localhost:8095"
	defaultHTTPAddr = "localhost:8096"

	// tokenTTL bounds the lifetime of tokens minted for one tool call.
	tokenTTL = time.Minute

	healthCheckInterval = 30 * time.Second
)

// TransportKind identifies the MCP transport implementation.
type TransportKind string

const (
	// TransportStdio uses standard input/output for MCP.
	TransportStdio TransportKind = "stdio"
	// TransportHTTP runs MCP over streamable HTTP for remote clients.
	TransportHTTP TransportKind = "http"
)

// Config configures the MCP server.
type Config struct {
	GRPCAddr  string
	Transport TransportKind
	// HTTPAddr is the HTTP listen address. Defaults to localhost:8096.
	HTTPAddr string
	// AllowedHosts extends the loopback hosts accepted by the HTTP transport.
	AllowedHosts []string
	// AuthHMACKey, when set, signs a short-lived token for each tool call's
	// sender so the OTC service can authenticate it.
	AuthHMACKey string
	AuthIssuer  string
}

// Server hosts the MCP server.
type Server struct {
	mcpServer *mcp.Server
	conn      *grpc.ClientConn
}

// newServer creates MCP tool and resource bindings over conn.
func newServer(conn *grpc.ClientConn, cfg Config) (*Server, error) {
	if conn == nil {
		return nil, fmt.Errorf("gRPC connection is required")
	}
	mcpServer := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, &mcp.ServerOptions{
		SubscribeHandler:   resourceSubscribeHandler,
		UnsubscribeHandler: resourceUnsubscribeHandler,
	})

	client := otcservice.NewOTCServiceClient(conn)
	resourceNotifier := func(ctx context.Context, uri string) {
		if strings.TrimSpace(uri) == "" {
			return
		}
		if ctx == nil {
			ctx = context.Background()
		}
		if err := mcpServer.ResourceUpdated(ctx, &mcp.ResourceUpdatedNotificationParams{URI: uri}); err != nil {
			log.Printf("mcp resource updated notify failed: uri=%s err=%v", uri, err)
		}
	}

	registrar := mcpServerRegistrationAdapter{server: mcpServer}
	if err := registerDealTools(registrar, client, tokenSource(cfg), resourceNotifier); err != nil {
		return nil, fmt.Errorf("register MCP deal tools: %w", err)
	}
	registerDealResources(registrar, client)

	return &Server{mcpServer: mcpServer, conn: conn}, nil
}

// tokenSource returns a per-call token issuer, or nil when no key is configured.
func tokenSource(cfg Config) domain.TokenSource {
	key := strings.TrimSpace(cfg.AuthHMACKey)
	if key == "" {
		return nil
	}
	issuer := strings.TrimSpace(cfg.AuthIssuer)
	return func(sender string) (string, error) {
		return auth.Sign([]byte(key), issuer, sender, tokenTTL, time.Now())
	}
}

// resourceSubscribeHandler accepts resource subscriptions with a valid URI.
func resourceSubscribeHandler(_ context.Context, req *mcp.SubscribeRequest) error {
	if req == nil || req.Params == nil || strings.TrimSpace(req.Params.URI) == "" {
		return fmt.Errorf("resource uri is required")
	}
	return nil
}

// resourceUnsubscribeHandler accepts resource unsubscriptions with a valid URI.
func resourceUnsubscribeHandler(_ context.Context, req *mcp.UnsubscribeRequest) error {
	if req == nil || req.Params == nil || strings.TrimSpace(req.Params.URI) == "" {
		return fmt.Errorf("resource uri is required")
	}
	return nil
}

// Run is the service entrypoint for MCP and blocks until context cancellation.
func Run(ctx context.Context, cfg Config) error {
	if cfg.Transport == "" {
		cfg.Transport = TransportStdio
	}

	switch cfg.Transport {
	case TransportStdio:
		return runWithTransport(ctx, cfg, &mcp.StdioTransport{})
	case TransportHTTP:
		return runWithHTTPTransport(ctx, cfg)
	default:
		return fmt.Errorf("transport %q is not supported", cfg.Transport)
	}
}

// runWithTransport creates a server and serves it over the provided transport.
func runWithTransport(ctx context.Context, cfg Config, transport mcp.Transport) error {
	conn, err := dialOTC(ctx, grpcAddress(cfg.GRPCAddr))
	if err != nil {
		return err
	}
	mcpServer, err := newServer(conn, cfg)
	if err != nil {
		_ = conn.Close()
		return err
	}
	return mcpServer.serveWithTransport(ctx, transport)
}

// runWithHTTPTransport creates a server and serves it over streamable HTTP.
func runWithHTTPTransport(ctx context.Context, cfg Config) error {
	httpAddr := strings.TrimSpace(cfg.HTTPAddr)
	if httpAddr == "" {
		httpAddr = defaultHTTPAddr
	}

	conn, err := dialOTC(ctx, grpcAddress(cfg.GRPCAddr))
	if err != nil {
		return err
	}
	mcpServer, err := newServer(conn, cfg)
	if err != nil {
		_ = conn.Close()
		return err
	}
	defer mcpServer.Close()

	healthCtx, healthCancel := context.WithCancel(ctx)
	defer healthCancel()
	go mcpServer.monitorHealth(healthCtx, healthCheckInterval)

	httpTransport := NewHTTPTransport(httpAddr, cfg.AllowedHosts, mcpServer.mcpServer)
	return httpTransport.Start(ctx)
}

// monitorHealth periodically checks the OTC service health and logs
// degradation. Tool calls keep surfacing their own errors.
func (s *Server) monitorHealth(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if s.conn == nil {
				log.Printf("gRPC connection is nil, health check skipped")
				continue
			}

			healthClient := grpc_health_v1.NewHealthClient(s.conn)
			callCtx, cancel := context.WithTimeout(ctx, timeouts.GRPCRequest)
			response, err := healthClient.Check(callCtx, &grpc_health_v1.HealthCheckRequest{Service: otcservice.ServiceName})
			cancel()

			if err != nil {
				log.Printf("gRPC health check failed: %v", err)
			} else if response.GetStatus() != grpc_health_v1.HealthCheckResponse_SERVING {
				log.Printf("gRPC health check status: %s", response.GetStatus().String())
			}
		}
	}
}

// Close releases the gRPC connection held by the server.
func (s *Server) Close() error {
	if s == nil || s.conn == nil {
		return nil
	}
	if err := s.conn.Close(); err != nil {
		return err
	}
	s.conn = nil
	return nil
}

// serveWithTransport runs the MCP server on transport and closes the gRPC
// connection on exit.
func (s *Server) serveWithTransport(ctx context.Context, transport mcp.Transport) error {
	if s == nil || s.mcpServer == nil {
		return fmt.Errorf("MCP server is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	err := s.mcpServer.Run(ctx, transport)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		err = nil
	}
	closeErr := s.Close()
	if closeErr != nil {
		if err == nil {
			return fmt.Errorf("close gRPC connection: %w", closeErr)
		}
		return fmt.Errorf("serve MCP: %v; close gRPC connection: %w", err, closeErr)
	}
	if err != nil {
		return fmt.Errorf("serve MCP: %w", err)
	}
	return nil
}

func dialOTC(ctx context.Context, addr string) (*grpc.ClientConn, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	logf := func(format string, args ...any) {
		log.Printf("otc %s", fmt.Sprintf(format, args...))
	}
	conn, err := platformgrpc.DialWithHealth(
		ctx,
		nil,
		addr,
		otcservice.ServiceName,
		timeouts.GRPCDial,
		logf,
		platformgrpc.DefaultClientDialOptions()...,
	)
	if err != nil {
		var dialErr *platformgrpc.DialError
		if errors.As(err, &dialErr) {
			if dialErr.Stage == platformgrpc.DialStageConnect {
				return nil, fmt.Errorf("connect to otc server at %s: %w", addr, dialErr.Err)
			}
			return nil, fmt.Errorf("otc server at %s is not healthy: %w", addr, dialErr.Err)
		}
		return nil, err
	}
	return conn, nil
}

// grpcAddress resolves the OTC gRPC address, falling back to the local default.
func grpcAddress(addr string) string {
	if addr = strings.TrimSpace(addr); addr != "" {
		return addr
	}
	return defaultGRPCAddr
}
