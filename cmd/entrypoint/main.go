// Package main runs the OTC gRPC server and MCP bridge in one container.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/nseguias/otc/internal/platform/config"
	"github.com/nseguias/otc/internal/tools/supervisor"
)

func main() {
	cfg, err := supervisor.ParseConfig()
	if err != nil {
		config.Exitf("parse config: %v", err)
	}
	log.SetPrefix("[ENTRYPOINT] ")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := supervisor.Supervise(ctx, cfg.Children(), cfg.ShutdownTimeout, os.Stdout, os.Stderr); err != nil {
		log.Printf("supervise: %v", err)
		os.Exit(supervisor.ExitCode(err))
	}
}
