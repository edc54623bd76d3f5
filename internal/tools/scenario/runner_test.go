package scenario

import (
	"bytes"
	"context"
	"errors"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runSource(t *testing.T, cfg Config, source string) (*Runner, error) {
	t.Helper()
	scenario, err := LoadScenarioFromString(t.Name(), source)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	runner := NewRunner(cfg)
	return runner, runner.RunScenario(context.Background(), scenario)
}

func TestRunScenarioPasses(t *testing.T) {
	runner, err := runSource(t, DefaultConfig(), highlanderScript)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if runner.Failures() != 0 {
		t.Fatalf("failures = %d", runner.Failures())
	}
}

const ledgerScript = `
local scene = Scenario.new()
scene:nationality("plain")
scene:class("archer", {skills = {{category = "Combat", name = "Bow", delta = 5}}})
scene:character("Ana", {nationality = "plain", class = "archer"})
scene:characteristic("con", 9)
scene:characteristic("siz", 8, 1)
scene:skill("Combat", "Bow", {base = 30, secondary = 10})
scene:adjust("Combat", "Bow", {source = "blessing", delta = 15, exclusive = true})
scene:expect({hit_points = 9, skills = {["Combat/Bow"] = 45}, secondary = {["Combat/Bow"] = 25}})
scene:update_skill("Combat", "Bow", "secondary")
scene:expect({skills = {["Combat/Bow"] = 45}})
scene:remove_skill("Combat", "Bow")
scene:remove_skill("Combat", "Bow")
scene:expect_error("SKILL_ENTRY_NOT_FOUND")
scene:characteristic("size", 31)
scene:expect_error("CHARACTERISTIC_OUT_OF_RANGE")
return scene
`

func TestRunScenarioLedgerSteps(t *testing.T) {
	runner, err := runSource(t, DefaultConfig(), ledgerScript)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if runner.Failures() != 0 {
		t.Fatalf("failures = %d", runner.Failures())
	}
}

const failingScript = `
local scene = Scenario.new()
scene:nationality("plain")
scene:class("clerk")
scene:character("Ana", {nationality = "plain", class = "clerk"})
scene:characteristic("constitution", 10)
scene:characteristic("size", 10)
scene:expect({hit_points = 99, protection = 4})
return scene
`

func TestRunScenarioAssertionModes(t *testing.T) {
	t.Run("strict", func(t *testing.T) {
		_, err := runSource(t, DefaultConfig(), failingScript)
		if err == nil {
			t.Fatal("expected strict failure")
		}
		if !strings.Contains(err.Error(), "hit_points = 10, want 99") {
			t.Fatalf("error = %v", err)
		}
	})

	t.Run("log only", func(t *testing.T) {
		var buf bytes.Buffer
		cfg := DefaultConfig()
		cfg.Assertions = AssertionLogOnly
		cfg.Logger = log.New(&buf, "", 0)
		runner, err := runSource(t, cfg, failingScript)
		if err != nil {
			t.Fatalf("run: %v", err)
		}
		if runner.Failures() != 2 {
			t.Fatalf("failures = %d, want 2", runner.Failures())
		}
		if !strings.Contains(buf.String(), "protection = 0, want 4") {
			t.Fatalf("log = %q", buf.String())
		}
	})
}

func TestRunScenarioErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{
			name:   "no character",
			source: "local scene = Scenario.new()\nscene:skill(\"Combat\", \"Bow\")\nreturn scene",
			want:   "scene:character",
		},
		{
			name:   "unknown class",
			source: "local scene = Scenario.new()\nscene:nationality(\"plain\")\nscene:character(\"Ana\", {nationality = \"plain\", class = \"ghost\"})\nscene:expect({hit_points = 0})\nreturn scene",
			want:   "ghost",
		},
		{
			name:   "wrong expected code",
			source: "local scene = Scenario.new()\nscene:character(\"Ana\")\nscene:characteristic(\"luck\", 3)\nscene:expect_error(\"CHARACTERISTIC_OUT_OF_RANGE\")\nreturn scene",
			want:   "CHARACTERISTIC_UNKNOWN",
		},
		{
			name:   "expected error missing",
			source: "local scene = Scenario.new()\nscene:character(\"Ana\")\nscene:characteristic(\"size\", 3)\nscene:expect_error(\"CHARACTERISTIC_OUT_OF_RANGE\")\nreturn scene",
			want:   "got none",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runSource(t, DefaultConfig(), tt.source)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error = %v, want substring %q", err, tt.want)
			}
		})
	}
}

func TestRunScenarioCanceled(t *testing.T) {
	scenario, err := LoadScenarioFromString("canceled", highlanderScript)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := NewRunner(DefaultConfig()).RunScenario(ctx, scenario); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestParseAssertionMode(t *testing.T) {
	tests := []struct {
		input   string
		want    AssertionMode
		wantErr bool
	}{
		{input: "", want: AssertionStrict},
		{input: "strict", want: AssertionStrict},
		{input: "LOG", want: AssertionLogOnly},
		{input: "log-only", want: AssertionLogOnly},
		{input: "loud", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseAssertionMode(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			if got != tt.want {
				t.Fatalf("mode = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRunFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sheet.lua")
	if err := os.WriteFile(path, []byte(highlanderScript), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := RunFile(context.Background(), DefaultConfig(), path); err != nil {
		t.Fatalf("run file: %v", err)
	}
	if err := RunFile(context.Background(), DefaultConfig(), filepath.Join(t.TempDir(), "missing.lua")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
