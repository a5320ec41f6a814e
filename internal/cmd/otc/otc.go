// Package otc parses OTC service flags and launches the service.
package otc

import (
	"context"
	"flag"

	entrypoint "github.com/nseguias/otc/internal/platform/cmd"
	server "github.com/nseguias/otc/internal/services/otc/app"
)

// Config holds OTC command configuration.
type Config struct {
	Port           int    `env:"PORT"            envDefault:"8095"`
	DBPath         string `env:"DB_PATH"         envDefault:"data/otc.db"`
	DefaultTimeout uint64 `env:"DEFAULT_TIMEOUT"`
	AddressFormat  string `env:"ADDRESS_FORMAT"  envDefault:"plain"`
	AuthHMACKey    string `env:"AUTH_HMAC_KEY"`
	AuthIssuer     string `env:"AUTH_ISSUER"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.IntVar(&cfg.Port, "port", cfg.Port, "The OTC gRPC server port")
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "Path to the OTC SQLite database")
	fs.Uint64Var(&cfg.DefaultTimeout, "default-timeout", cfg.DefaultTimeout, "Default deal lifetime in seconds, applied when instantiating at startup")
	fs.StringVar(&cfg.AddressFormat, "address-format", cfg.AddressFormat, "Caller address format: plain or stellar")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the OTC gRPC API service.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceOTC, func(ctx context.Context) error {
		return server.Run(ctx, server.Config{
			Port:           cfg.Port,
			DBPath:         cfg.DBPath,
			DefaultTimeout: cfg.DefaultTimeout,
			AddressFormat:  cfg.AddressFormat,
			AuthHMACKey:    cfg.AuthHMACKey,
			AuthIssuer:     cfg.AuthIssuer,
		})
	})
}
