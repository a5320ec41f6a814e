package hmackey

import (
	"bytes"
	"flag"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/nseguias/otc/internal/services/otc/api/grpc/auth"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("hmackey", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Bytes != 32 {
		t.Fatalf("bytes = %d, want 32", cfg.Bytes)
	}
	if cfg.TTL != time.Hour {
		t.Fatalf("ttl = %s, want 1h", cfg.TTL)
	}
	if cfg.Subject != "" {
		t.Fatalf("subject = %q, want empty", cfg.Subject)
	}
}

func TestParseConfigOverride(t *testing.T) {
	t.Setenv("OTC_AUTH_HMAC_KEY", "secret")
	t.Setenv("OTC_AUTH_ISSUER", "env-issuer")
	fs := flag.NewFlagSet("hmackey", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-bytes", "16", "-subject", "alice", "-issuer", "flag-issuer", "-ttl", "5m"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Bytes != 16 || cfg.Subject != "alice" || cfg.TTL != 5*time.Minute {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.Key != "secret" {
		t.Fatalf("key = %q, want secret", cfg.Key)
	}
	if cfg.Issuer != "flag-issuer" {
		t.Fatalf("issuer = %q, want flag-issuer", cfg.Issuer)
	}
}

func TestRunRejectsInvalidBytes(t *testing.T) {
	if err := Run(Config{Bytes: 0}, &bytes.Buffer{}, bytes.NewReader(nil), time.Now()); err == nil {
		t.Fatal("expected error for non-positive bytes")
	}
}

func TestRunWritesHex(t *testing.T) {
	buf := &bytes.Buffer{}
	reader := bytes.NewReader([]byte{0x01, 0x02, 0x03, 0x04})
	if err := Run(Config{Bytes: 4}, buf, reader, time.Now()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := strings.TrimSpace(buf.String()); got != "OTC_AUTH_HMAC_KEY=01020304" {
		t.Fatalf("output = %q, want OTC_AUTH_HMAC_KEY=01020304", got)
	}
}

func TestRunNilOutput(t *testing.T) {
	if err := Run(Config{Bytes: 4}, nil, nil, time.Now()); err == nil {
		t.Fatal("expected error for nil output")
	}
}

func TestRunDefaultReader(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := Run(Config{Bytes: 4}, buf, nil, time.Now()); err != nil {
		t.Fatalf("run: %v", err)
	}
	got := strings.TrimSpace(buf.String())
	const prefix = "OTC_AUTH_HMAC_KEY="
	if !strings.HasPrefix(got, prefix) {
		t.Fatalf("output = %q, want %s prefix", got, prefix)
	}
	if len(strings.TrimPrefix(got, prefix)) != 8 {
		t.Fatalf("hex length = %d, want 8: %q", len(strings.TrimPrefix(got, prefix)), got)
	}
}

type errReader struct{}

func (errReader) Read([]byte) (int, error) { return 0, fmt.Errorf("read error") }

func TestRunReaderError(t *testing.T) {
	if err := Run(Config{Bytes: 4}, &bytes.Buffer{}, errReader{}, time.Now()); err == nil {
		t.Fatal("expected error from failing reader")
	}
}

func TestRunSignsVerifiableToken(t *testing.T) {
	buf := &bytes.Buffer{}
	cfg := Config{Key: "secret", Issuer: "otc", Subject: "alice", TTL: time.Hour}
	if err := Run(cfg, buf, nil, time.Now()); err != nil {
		t.Fatalf("run: %v", err)
	}
	token, ok := strings.CutPrefix(strings.TrimSpace(buf.String()), "Bearer ")
	if !ok {
		t.Fatalf("output = %q, want bearer token", buf.String())
	}
	subject, err := auth.NewVerifier([]byte("secret"), "otc").Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if subject != "alice" {
		t.Fatalf("subject = %q, want alice", subject)
	}
}

func TestRunSignRequiresKey(t *testing.T) {
	err := Run(Config{Subject: "alice", TTL: time.Hour}, &bytes.Buffer{}, nil, time.Now())
	if err == nil || !strings.Contains(err.Error(), "OTC_AUTH_HMAC_KEY") {
		t.Fatalf("err = %v, want missing key error", err)
	}
}

func TestParseConfigBadArgs(t *testing.T) {
	fs := flag.NewFlagSet("hmackey", flag.ContinueOnError)
	fs.SetOutput(&bytes.Buffer{})
	if _, err := ParseConfig(fs, []string{"-invalid"}); err == nil {
		t.Fatal("expected error for unknown flag")
	}
}
