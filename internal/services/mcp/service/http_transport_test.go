package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func TestValidateLocalRequest(t *testing.T) {
	transport := NewHTTPTransport("", []string{"otc.internal"}, nil)

	tests := []struct {
		name    string
		host    string
		origin  string
		wantErr bool
	}{
		{name: "localhost", host: "localhost:8096"},
		{name: "ipv4 loopback", host: "127.0.0.1:8096"},
		{name: "ipv6 loopback", host: "[::1]:8096"},
		{name: "allowed host", host: "OTC.internal:8096"},
		{name: "remote host", host: "evil.example:8096", wantErr: true},
		{name: "empty host", host: "", wantErr: true},
		{name: "local origin", host: "localhost:8096", origin: "http://localhost:3000"},
		{name: "remote origin", host: "localhost:8096", origin: "http://evil.example", wantErr: true},
		{name: "origin without host", host: "localhost:8096", origin: "file://", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/mcp/health", nil)
			req.Host = tt.host
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			err := transport.validateLocalRequest(req)
			if tt.wantErr && err == nil {
				t.Fatal("expected error")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestHTTPTransportHealth(t *testing.T) {
	mcpServer := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, nil)
	handler := NewHTTPTransport("", nil, mcpServer).Handler()

	req := httptest.NewRequest(http.MethodGet, "/mcp/health", nil)
	req.Host = "localhost:8096"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != "OK" {
		t.Fatalf("health = %d %q, want 200 OK", rec.Code, rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodPost, "/mcp/health", nil)
	req.Host = "localhost:8096"
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("health POST = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
	}
}

func TestHTTPTransportRejectsRemoteHost(t *testing.T) {
	mcpServer := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, nil)
	handler := NewHTTPTransport("", nil, mcpServer).Handler()

	req := httptest.NewRequest(http.MethodPost, "/mcp", strings.NewReader(`{}`))
	req.Host = "evil.example"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusForbidden)
	}
}

func TestHTTPTransportStartRequiresServer(t *testing.T) {
	if err := NewHTTPTransport("127.0.0.1:0", nil, nil).Start(context.Background()); err == nil {
		t.Fatal("expected error without MCP server")
	}
}

func TestHTTPTransportStartStopsOnCancel(t *testing.T) {
	mcpServer := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, nil)
	transport := NewHTTPTransport("127.0.0.1:0", nil, mcpServer)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := transport.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
}

func TestNormalizeHost(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{in: "localhost", want: "localhost", wantOK: true},
		{in: "localhost:80", want: "localhost", wantOK: true},
		{in: "[::1]:80", want: "::1", wantOK: true},
		{in: "[::1]", want: "::1", wantOK: true},
		{in: "::1", want: "::1", wantOK: true},
		{in: "[::1", wantOK: false},
		{in: "  ", wantOK: false},
	}
	for _, tt := range tests {
		got, ok := normalizeHost(tt.in)
		if ok != tt.wantOK || got != tt.want {
			t.Fatalf("normalizeHost(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}
