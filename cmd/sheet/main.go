// Package main computes derived attributes for a character JSON file.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	platformcmd "github.com/louisbranch/sheetkeeper/internal/platform/cmd"
	"github.com/louisbranch/sheetkeeper/internal/platform/config"
	apperrors "github.com/louisbranch/sheetkeeper/internal/platform/errors"

	sheetcmd "github.com/louisbranch/sheetkeeper/internal/cmd/sheet"
)

func main() {
	cfg, err := sheetcmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("Error: %v", err)
	}
	log.SetPrefix(platformcmd.LogPrefix(platformcmd.ServiceSheet))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = platformcmd.RunWithTelemetry(ctx, platformcmd.ServiceSheet, func(ctx context.Context) error {
		return sheetcmd.Run(ctx, cfg, os.Stdout, os.Stderr)
	})
	if err != nil {
		// Run already printed the localized message. The exit status is the
		// gRPC code of the error.
		os.Exit(apperrors.ExitCode(err))
	}
}
