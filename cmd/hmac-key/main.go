// Package main generates OTC auth keys and bearer tokens.
package main

import (
	"flag"
	"os"
	"time"

	"github.com/nseguias/otc/internal/platform/config"
	"github.com/nseguias/otc/internal/tools/hmackey"
)

func main() {
	cfg, err := hmackey.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("parse flags: %v", err)
	}
	if err := hmackey.Run(cfg, os.Stdout, nil, time.Now()); err != nil {
		config.Exitf("generate key: %v", err)
	}
}
