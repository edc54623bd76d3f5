// Package scenario parses scenario command flags and runs Lua scenario files.
package scenario

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"

	platformcmd "github.com/louisbranch/sheetkeeper/internal/platform/cmd"
	"github.com/louisbranch/sheetkeeper/internal/tools/scenario"
)

// Config holds scenario command configuration.
type Config struct {
	Scenario          string `env:"SCENARIO_FILE"`
	Assertions        string `env:"SCENARIO_ASSERT"    envDefault:"strict"`
	Verbose           bool   `env:"SCENARIO_VERBOSE"`
	MaxCharacteristic int    `env:"MAX_CHARACTERISTIC" envDefault:"30"`
}

// ParseConfig parses flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := platformcmd.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.Scenario, "scenario", cfg.Scenario, "path to scenario lua file")
	fs.StringVar(&cfg.Assertions, "assert", cfg.Assertions, "assertion mode: strict or log")
	fs.BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "enable verbose logging")
	fs.IntVar(&cfg.MaxCharacteristic, "max-characteristic", cfg.MaxCharacteristic, "upper bound for characteristic base values")
	if err := platformcmd.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	if _, err := scenario.ParseAssertionMode(cfg.Assertions); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run executes the scenario command.
func Run(ctx context.Context, cfg Config, out io.Writer, errOut io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	if errOut == nil {
		errOut = io.Discard
	}
	if cfg.Scenario == "" {
		return errors.New("scenario path is required")
	}

	mode, err := scenario.ParseAssertionMode(cfg.Assertions)
	if err != nil {
		return err
	}

	loaded, err := scenario.LoadScenarioFromFile(cfg.Scenario)
	if err != nil {
		return err
	}
	runner := scenario.NewRunner(scenario.Config{
		Assertions:        mode,
		Verbose:           cfg.Verbose,
		Logger:            log.New(errOut, "", 0),
		MaxCharacteristic: cfg.MaxCharacteristic,
	})
	if err := runner.RunScenario(ctx, loaded); err != nil {
		return err
	}
	if failures := runner.Failures(); failures > 0 {
		_, err = fmt.Fprintf(out, "%s: %d expectation(s) failed\n", loaded.Name, failures)
		return err
	}
	_, err = fmt.Fprintf(out, "%s: ok (%d steps)\n", loaded.Name, len(loaded.Steps))
	return err
}
