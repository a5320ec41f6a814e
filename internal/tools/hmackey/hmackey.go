// Package hmackey generates the OTC token signing key and, given a subject,
// signs a bearer token with an existing key.
package hmackey

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/nseguias/otc/internal/platform/config"
	"github.com/nseguias/otc/internal/services/otc/api/grpc/auth"
)

// Config holds configuration for key generation and token signing.
type Config struct {
	Bytes int
	// Key and Issuer are read from the same variables the OTC server uses.
	Key     string `env:"AUTH_HMAC_KEY"`
	Issuer  string `env:"AUTH_ISSUER"`
	Subject string
	TTL     time.Duration
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	cfg := Config{Bytes: 32, TTL: time.Hour}
	if err := config.ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	fs.IntVar(&cfg.Bytes, "bytes", cfg.Bytes, "number of random bytes (default: 32)")
	fs.StringVar(&cfg.Subject, "subject", "", "sign a bearer token for this address instead of generating a key")
	fs.StringVar(&cfg.Issuer, "issuer", cfg.Issuer, "token issuer (default: OTC_AUTH_ISSUER)")
	fs.DurationVar(&cfg.TTL, "ttl", cfg.TTL, "token lifetime")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run writes either a new key or a signed token to out.
func Run(cfg Config, out io.Writer, reader io.Reader, now time.Time) error {
	if out == nil {
		return errors.New("output is required")
	}
	if strings.TrimSpace(cfg.Subject) != "" {
		return signToken(cfg, out, now)
	}
	if cfg.Bytes <= 0 {
		return errors.New("bytes must be greater than zero")
	}
	if reader == nil {
		reader = rand.Reader
	}

	buf := make([]byte, cfg.Bytes)
	if _, err := io.ReadFull(reader, buf); err != nil {
		return fmt.Errorf("generate random bytes: %w", err)
	}
	_, err := fmt.Fprintf(out, "%sAUTH_HMAC_KEY=%s\n", config.EnvPrefix, hex.EncodeToString(buf))
	return err
}

func signToken(cfg Config, out io.Writer, now time.Time) error {
	key := strings.TrimSpace(cfg.Key)
	if key == "" {
		return fmt.Errorf("%sAUTH_HMAC_KEY is required to sign a token", config.EnvPrefix)
	}
	token, err := auth.Sign([]byte(key), cfg.Issuer, strings.TrimSpace(cfg.Subject), cfg.TTL, now)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "Bearer %s\n", token)
	return err
}
