package main

import (
	"context"
	"flag"
	"log"
	"os"

	platformcmd "github.com/louisbranch/sheetkeeper/internal/platform/cmd"
	"github.com/louisbranch/sheetkeeper/internal/platform/config"
	catalogimporter "github.com/louisbranch/sheetkeeper/internal/tools/importer/content/v1"
)

func main() {
	cfg, err := catalogimporter.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("Error: %v", err)
	}
	log.SetPrefix(platformcmd.LogPrefix(platformcmd.ServiceImporter))

	if err := platformcmd.RunWithTelemetry(context.Background(), platformcmd.ServiceImporter, func(ctx context.Context) error {
		return catalogimporter.Run(ctx, cfg, os.Stdout)
	}); err != nil {
		config.Exitf("Error: %v", err)
	}
}
