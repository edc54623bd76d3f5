package mcp

import (
	"flag"
	"io"
	"log"
	"path/filepath"
	"testing"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("mcp", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.DBPath != "data/content.db" {
		t.Fatalf("expected default db path, got %q", cfg.DBPath)
	}
	if cfg.Locale != "en-US" {
		t.Fatalf("expected default locale, got %q", cfg.Locale)
	}
}

func TestParseConfigOverrides(t *testing.T) {
	t.Setenv("SHEETKEEPER_CONTENT_DB", "env.db")
	t.Setenv("SHEETKEEPER_LOCALE", "pt-BR")
	fs := flag.NewFlagSet("mcp", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-db-path", "flag.db", "-max-characteristic", "20"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.DBPath != "flag.db" {
		t.Fatalf("expected flag db path, got %q", cfg.DBPath)
	}
	if cfg.Locale != "pt-BR" {
		t.Fatalf("expected env locale, got %q", cfg.Locale)
	}
	if cfg.MaxCharacteristic != 20 {
		t.Fatalf("expected flag max, got %d", cfg.MaxCharacteristic)
	}
}

func TestNewServerOpensContent(t *testing.T) {
	var cfg Config
	cfg.DBPath = filepath.Join(t.TempDir(), "content.db")
	cfg.Locale = "en-US"
	server, closer, err := newServer(cfg, log.New(io.Discard, "", 0))
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	defer closer.Close()
	if server == nil {
		t.Fatal("expected server")
	}
}

func TestNewServerRequiresDBPath(t *testing.T) {
	if _, _, err := newServer(Config{}, log.New(io.Discard, "", 0)); err == nil {
		t.Fatal("expected error for empty db path")
	}
}
