package otc

import (
	"flag"
	"testing"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("otc", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Port != 8095 {
		t.Fatalf("expected default port 8095, got %d", cfg.Port)
	}
	if cfg.DBPath != "data/otc.db" {
		t.Fatalf("expected default db path data/otc.db, got %q", cfg.DBPath)
	}
	if cfg.AddressFormat != "plain" {
		t.Fatalf("expected default address format plain, got %q", cfg.AddressFormat)
	}
	if cfg.DefaultTimeout != 0 {
		t.Fatalf("expected no default timeout, got %d", cfg.DefaultTimeout)
	}
}

func TestParseConfigOverrides(t *testing.T) {
	t.Setenv("OTC_PORT", "9090")
	t.Setenv("OTC_DEFAULT_TIMEOUT", "120")
	t.Setenv("OTC_AUTH_HMAC_KEY", "secret")

	fs := flag.NewFlagSet("otc", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-port", "9091", "-address-format", "stellar"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Port != 9091 {
		t.Fatalf("expected port override 9091, got %d", cfg.Port)
	}
	if cfg.DefaultTimeout != 120 {
		t.Fatalf("expected default timeout 120, got %d", cfg.DefaultTimeout)
	}
	if cfg.AddressFormat != "stellar" {
		t.Fatalf("expected address format stellar, got %q", cfg.AddressFormat)
	}
	if cfg.AuthHMACKey != "secret" {
		t.Fatalf("expected hmac key from env, got %q", cfg.AuthHMACKey)
	}
}

func TestParseConfigRejectsUnknownFlag(t *testing.T) {
	fs := flag.NewFlagSet("otc", flag.ContinueOnError)
	fs.SetOutput(discard{})
	if _, err := ParseConfig(fs, []string{"-nope"}); err == nil {
		t.Fatal("expected error for unknown flag")
	}
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }
