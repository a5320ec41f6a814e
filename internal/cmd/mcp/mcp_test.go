package mcp

import (
	"context"
	"flag"
	"strings"
	"testing"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("mcp", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.GRPCAddr != "localhost:8095" {
		t.Fatalf("expected default addr, got %q", cfg.GRPCAddr)
	}
	if cfg.HTTPAddr != "localhost:8096" {
		t.Fatalf("expected default http addr, got %q", cfg.HTTPAddr)
	}
	if cfg.Transport != "stdio" {
		t.Fatalf("expected default transport stdio, got %q", cfg.Transport)
	}
	if len(cfg.AllowedHosts) != 0 {
		t.Fatalf("expected no allowed hosts, got %v", cfg.AllowedHosts)
	}
}

func TestParseConfigOverrides(t *testing.T) {
	t.Setenv("OTC_MCP_GRPC_ADDR", "env-otc")
	t.Setenv("OTC_MCP_HTTP_ADDR", "env-http")
	t.Setenv("OTC_MCP_ALLOWED_HOSTS", "otc.internal,mcp.internal")
	t.Setenv("OTC_AUTH_HMAC_KEY", "secret")

	fs := flag.NewFlagSet("mcp", flag.ContinueOnError)
	args := []string{"-addr", "flag-otc", "-transport", "http"}
	cfg, err := ParseConfig(fs, args)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.GRPCAddr != "flag-otc" {
		t.Fatalf("expected flag addr, got %q", cfg.GRPCAddr)
	}
	if cfg.HTTPAddr != "env-http" {
		t.Fatalf("expected env http addr, got %q", cfg.HTTPAddr)
	}
	if cfg.Transport != "http" {
		t.Fatalf("expected transport http, got %q", cfg.Transport)
	}
	if len(cfg.AllowedHosts) != 2 || cfg.AllowedHosts[1] != "mcp.internal" {
		t.Fatalf("expected allowed hosts from env, got %v", cfg.AllowedHosts)
	}
	if cfg.AuthHMACKey != "secret" {
		t.Fatalf("expected hmac key from env, got %q", cfg.AuthHMACKey)
	}
}

func TestRunRejectsUnknownTransport(t *testing.T) {
	err := Run(context.Background(), Config{GRPCAddr: "localhost:0", Transport: "websocket"})
	if err == nil || !strings.Contains(err.Error(), "not supported") {
		t.Fatalf("expected unsupported transport error, got %v", err)
	}
}
