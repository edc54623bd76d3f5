// Package sheet computes the derived attributes of a character file against
// the content catalog.
package sheet

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	platformcmd "github.com/louisbranch/sheetkeeper/internal/platform/cmd"
	"github.com/louisbranch/sheetkeeper/internal/platform/config"
	apperrors "github.com/louisbranch/sheetkeeper/internal/platform/errors"
	"github.com/louisbranch/sheetkeeper/internal/services/sheet/app"
	"github.com/louisbranch/sheetkeeper/internal/services/sheet/domain/character"
	storagesqlite "github.com/louisbranch/sheetkeeper/internal/services/sheet/storage/sqlite"
)

// Config holds sheet command configuration.
type Config struct {
	config.Content
	Character string `env:"CHARACTER_FILE"`
	Compact   bool   `env:"SHEET_COMPACT"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := platformcmd.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "content database path")
	fs.IntVar(&cfg.MaxCharacteristic, "max-characteristic", cfg.MaxCharacteristic, "upper bound for characteristic base values")
	fs.StringVar(&cfg.Locale, "locale", cfg.Locale, "locale for error messages")
	fs.StringVar(&cfg.Character, "character", cfg.Character, "path to character JSON file")
	fs.BoolVar(&cfg.Compact, "compact", cfg.Compact, "print single-line JSON")
	if err := platformcmd.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	if cfg.Character == "" && fs.NArg() > 0 {
		cfg.Character = fs.Arg(0)
	}
	return cfg, nil
}

// Run computes the character in cfg.Character and writes the result to out.
// Failures are reported to errOut in cfg.Locale and returned.
func Run(ctx context.Context, cfg Config, out io.Writer, errOut io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	if errOut == nil {
		errOut = io.Discard
	}
	err := run(ctx, cfg, out, errOut)
	if err != nil {
		fmt.Fprintln(errOut, apperrors.Localize(err, cfg.Locale))
	}
	return err
}

func run(ctx context.Context, cfg Config, out io.Writer, errOut io.Writer) error {
	path := strings.TrimSpace(cfg.Character)
	if path == "" {
		return errors.New("character file is required")
	}
	snap, err := readSnapshot(path)
	if err != nil {
		return err
	}

	store, err := storagesqlite.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open content store: %w", err)
	}
	defer store.Close()

	service, err := app.NewService(store, app.Config{
		MaxCharacteristic: cfg.MaxCharacteristic,
		Logger:            log.New(errOut, "", 0),
	})
	if err != nil {
		return err
	}
	derived, err := service.Recompute(ctx, snap)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(out)
	if !cfg.Compact {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(derived)
}

func readSnapshot(path string) (character.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return character.Snapshot{}, fmt.Errorf("read character: %w", err)
	}
	var snap character.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return character.Snapshot{}, fmt.Errorf("decode %s: %w", path, err)
	}
	return snap, nil
}
