package sheet

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	apperrors "github.com/louisbranch/sheetkeeper/internal/platform/errors"
	"github.com/louisbranch/sheetkeeper/internal/services/sheet/domain/character"
	"github.com/louisbranch/sheetkeeper/internal/services/sheet/domain/rules"
	storagesqlite "github.com/louisbranch/sheetkeeper/internal/services/sheet/storage/sqlite"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("sheet", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.DBPath != "data/content.db" {
		t.Fatalf("expected default db path, got %q", cfg.DBPath)
	}
	if cfg.MaxCharacteristic != character.MaxCharacteristic {
		t.Fatalf("expected default max, got %d", cfg.MaxCharacteristic)
	}
	if cfg.Locale != "en-US" {
		t.Fatalf("expected default locale, got %q", cfg.Locale)
	}
}

func TestParseConfigOverrides(t *testing.T) {
	t.Setenv("SHEETKEEPER_LOCALE", "pt-BR")
	t.Setenv("SHEETKEEPER_MAX_CHARACTERISTIC", "18")
	fs := flag.NewFlagSet("sheet", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-db-path", "content.db", "-compact", "ana.json"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Locale != "pt-BR" || cfg.MaxCharacteristic != 18 {
		t.Fatalf("env not applied: %+v", cfg)
	}
	if cfg.DBPath != "content.db" || !cfg.Compact || cfg.Character != "ana.json" {
		t.Fatalf("flags not applied: %+v", cfg)
	}
}

func seedContent(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "content.db")
	store, err := storagesqlite.Open(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.PutNationality(ctx, rules.Nationality{
		ID:                      "highlander",
		CharacteristicModifiers: []rules.CharacteristicModifier{{Characteristic: character.Size, Delta: 2}},
	}); err != nil {
		t.Fatalf("put nationality: %v", err)
	}
	if err := store.PutClass(ctx, rules.Class{
		ID:           "ranger",
		SkillBonuses: []rules.SkillBonus{{Category: "Combat", Name: "Bow", Delta: 10}},
	}); err != nil {
		t.Fatalf("put class: %v", err)
	}
	return path
}

func writeCharacter(t *testing.T, classID string) string {
	t.Helper()
	doc := `{
  "id": "ana",
  "nationality_id": "highlander",
  "class_id": "` + classID + `",
  "characteristics": {"constitution": {"base": 10}, "size": {"base": 12}},
  "skills": [{"category": "Combat", "name": "Bow", "base": 30}],
  "armor": {"rating": 2, "bonuses": [1]}
}`
	path := filepath.Join(t.TempDir(), "ana.json")
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write character: %v", err)
	}
	return path
}

func TestRunPrintsDerivedAttributes(t *testing.T) {
	cfg := Config{Character: writeCharacter(t, "ranger"), Compact: true}
	cfg.DBPath = seedContent(t)
	cfg.Locale = "en-US"

	var out, errOut bytes.Buffer
	if err := Run(context.Background(), cfg, &out, &errOut); err != nil {
		t.Fatalf("run: %v (stderr %q)", err, errOut.String())
	}

	var got struct {
		HitPoints  int `json:"hit_points"`
		Protection int `json:"protection"`
		Skills     []struct {
			Name  string `json:"name"`
			Total int    `json:"total"`
		} `json:"skills"`
	}
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("decode output %q: %v", out.String(), err)
	}
	if got.HitPoints != 12 || got.Protection != 3 {
		t.Fatalf("unexpected output: %s", out.String())
	}
	if len(got.Skills) != 1 || got.Skills[0].Total != 40 {
		t.Fatalf("unexpected skills: %s", out.String())
	}
}

func TestRunLocalizesErrors(t *testing.T) {
	cfg := Config{Character: writeCharacter(t, "ghost")}
	cfg.DBPath = seedContent(t)
	cfg.Locale = "pt-BR"

	var out, errOut bytes.Buffer
	err := Run(context.Background(), cfg, &out, &errOut)
	if err == nil {
		t.Fatal("expected error for unknown class")
	}
	if code := apperrors.ExitCode(err); code != 5 {
		t.Fatalf("exit code = %d, want 5 (NotFound)", code)
	}
	if !strings.Contains(errOut.String(), "Classe ghost não encontrada.") {
		t.Fatalf("stderr = %q", errOut.String())
	}
	if out.Len() != 0 {
		t.Fatalf("unexpected output: %q", out.String())
	}
}

func TestRunRequiresCharacter(t *testing.T) {
	var errOut bytes.Buffer
	if err := Run(context.Background(), Config{}, nil, &errOut); err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(errOut.String(), "character file is required") {
		t.Fatalf("stderr = %q", errOut.String())
	}
}

func TestRunOutOfRangeExitsWithInvalidArgument(t *testing.T) {
	cfg := Config{Character: writeCharacter(t, "ranger")}
	cfg.DBPath = seedContent(t)
	cfg.MaxCharacteristic = 11

	err := Run(context.Background(), cfg, nil, nil)
	if err == nil {
		t.Fatal("expected error for size base above max")
	}
	if code := apperrors.ExitCode(err); code != 3 {
		t.Fatalf("exit code = %d, want 3 (InvalidArgument)", code)
	}
}
