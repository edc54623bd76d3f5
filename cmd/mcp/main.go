package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	mcpcmd "github.com/louisbranch/sheetkeeper/internal/cmd/mcp"
	platformcmd "github.com/louisbranch/sheetkeeper/internal/platform/cmd"
)

// main starts the MCP server on stdio.
func main() {
	cfg, err := mcpcmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	// stdout carries the protocol, so logs go to stderr.
	log.SetOutput(os.Stderr)
	log.SetPrefix(platformcmd.LogPrefix(platformcmd.ServiceMCP))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := platformcmd.RunWithTelemetry(ctx, platformcmd.ServiceMCP, func(ctx context.Context) error {
		return mcpcmd.Run(ctx, cfg)
	}); err != nil {
		log.Fatalf("failed to serve MCP: %v", err)
	}
}
