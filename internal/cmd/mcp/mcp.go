// Package mcp parses MCP command flags and serves the sheet tools on stdio.
package mcp

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"

	platformcmd "github.com/louisbranch/sheetkeeper/internal/platform/cmd"
	"github.com/louisbranch/sheetkeeper/internal/platform/config"
	mcpservice "github.com/louisbranch/sheetkeeper/internal/services/mcp/service"
	"github.com/louisbranch/sheetkeeper/internal/services/sheet/app"
	storagesqlite "github.com/louisbranch/sheetkeeper/internal/services/sheet/storage/sqlite"
)

// Config holds MCP command configuration.
type Config struct {
	config.Content
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := platformcmd.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "content database path")
	fs.IntVar(&cfg.MaxCharacteristic, "max-characteristic", cfg.MaxCharacteristic, "upper bound for characteristic base values")
	fs.StringVar(&cfg.Locale, "locale", cfg.Locale, "default locale for tool errors")
	if err := platformcmd.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the MCP server and blocks until ctx is canceled.
func Run(ctx context.Context, cfg Config) error {
	server, closer, err := newServer(cfg, log.Default())
	if err != nil {
		return err
	}
	defer closer.Close()
	return server.Serve(ctx)
}

func newServer(cfg Config, logger *log.Logger) (*mcpservice.Server, io.Closer, error) {
	store, err := storagesqlite.Open(cfg.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open content store: %w", err)
	}
	sheet, err := app.NewService(store, app.Config{
		MaxCharacteristic: cfg.MaxCharacteristic,
		Logger:            logger,
	})
	if err != nil {
		_ = store.Close()
		return nil, nil, err
	}
	server, err := mcpservice.New(sheet, mcpservice.Config{Locale: cfg.Locale, Logger: logger})
	if err != nil {
		_ = store.Close()
		return nil, nil, err
	}
	return server, store, nil
}
