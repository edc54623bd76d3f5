// Package catalogimporter loads nationality and class catalogs from JSON
// files into the sqlite content store.
package catalogimporter

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/louisbranch/sheetkeeper/internal/platform/config"
	"github.com/louisbranch/sheetkeeper/internal/services/sheet/storage"
	storagesqlite "github.com/louisbranch/sheetkeeper/internal/services/sheet/storage/sqlite"
)

const (
	defaultSystemID  = "sheetkeeper"
	defaultSystemVer = "v1"

	nationalitiesFile = "nationalities.json"
	classesFile       = "classes.json"
)

// Config holds configuration for the catalog importer.
type Config struct {
	Dir    string `env:"CATALOG_DIR"`
	DBPath string `env:"CONTENT_DB" envDefault:"data/content.db"`
	DryRun bool   `env:"CATALOG_DRY_RUN"`
}

// ParseConfig parses environment and CLI flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.Dir, "dir", cfg.Dir, "directory containing nationalities.json and classes.json")
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "content database path")
	fs.BoolVar(&cfg.DryRun, "dry-run", cfg.DryRun, "validate without writing to the database")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if strings.TrimSpace(cfg.Dir) == "" {
		return Config{}, errors.New("dir is required")
	}
	if !cfg.DryRun && strings.TrimSpace(cfg.DBPath) == "" {
		return Config{}, errors.New("db-path is required")
	}
	return cfg, nil
}

// Run executes the importer using the provided Config.
func Run(ctx context.Context, cfg Config, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if out == nil {
		out = io.Discard
	}

	dir := strings.TrimSpace(cfg.Dir)
	if dir == "" {
		return errors.New("dir is required")
	}

	payloads, err := readPayloads(dir)
	if err != nil {
		return err
	}
	if payloads.Nationalities == nil && payloads.Classes == nil {
		return fmt.Errorf("no %s or %s found in %s", nationalitiesFile, classesFile, dir)
	}
	c, err := buildCatalog(payloads)
	if err != nil {
		return fmt.Errorf("validate: %w", err)
	}

	if cfg.DryRun {
		_, err = fmt.Fprintf(out, "validated %d nationality(ies) and %d class(es)\n", len(c.Nationalities), len(c.Classes))
		return err
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		return fmt.Errorf("create content dir: %w", err)
	}
	store, err := storagesqlite.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open content store: %w", err)
	}
	defer store.Close()

	if err := Import(ctx, store, c); err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "imported %d nationality(ies) and %d class(es) into %s\n", len(c.Nationalities), len(c.Classes), cfg.DBPath)
	return err
}

// Import upserts a validated catalog into store.
func Import(ctx context.Context, store storage.ContentStore, c Catalog) error {
	if err := upsertCatalog(ctx, store, c); err != nil {
		return fmt.Errorf("import: %w", err)
	}
	return nil
}

type filePayloads struct {
	Nationalities *nationalityPayload
	Classes       *classPayload
}

func readPayloads(dir string) (filePayloads, error) {
	var payloads filePayloads
	var err error
	payloads.Nationalities, err = readJSON[nationalityPayload](dir, nationalitiesFile)
	if err != nil {
		return payloads, err
	}
	payloads.Classes, err = readJSON[classPayload](dir, classesFile)
	if err != nil {
		return payloads, err
	}
	return payloads, nil
}

func readJSON[T any](dir string, name string) (*T, error) {
	path := filepath.Join(dir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	return &value, nil
}
