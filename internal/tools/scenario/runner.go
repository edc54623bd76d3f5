// Package scenario runs Lua character scenarios against the derived-attribute
// engine. A script declares catalog records, builds one character step by
// step and states the derived values it expects.
package scenario

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/louisbranch/sheetkeeper/internal/services/sheet/app"
	"github.com/louisbranch/sheetkeeper/internal/services/sheet/domain/character"
	"github.com/louisbranch/sheetkeeper/internal/services/sheet/storage/memory"
)

// Config controls scenario execution.
type Config struct {
	Assertions        AssertionMode
	Verbose           bool
	Logger            *log.Logger
	MaxCharacteristic int
}

// DefaultConfig returns default runner configuration.
func DefaultConfig() Config {
	return Config{
		Assertions:        AssertionStrict,
		MaxCharacteristic: character.MaxCharacteristic,
	}
}

// Runner executes scenarios. Each run starts from an empty catalog.
type Runner struct {
	assertions *Assertions
	logger     *log.Logger
	verbose    bool
	max        int
}

type scenarioState struct {
	content   *memory.Store
	sheet     *app.Service
	character *character.Character
}

// NewRunner prepares a runner.
func NewRunner(cfg Config) *Runner {
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(os.Stderr, "", 0)
	}
	max := cfg.MaxCharacteristic
	if max <= 0 {
		max = character.MaxCharacteristic
	}
	return &Runner{
		assertions: &Assertions{Mode: cfg.Assertions, Logger: logger},
		logger:     logger,
		verbose:    cfg.Verbose,
		max:        max,
	}
}

// Failures returns the number of unmet expectations seen so far.
func (r *Runner) Failures() int {
	return r.assertions.Failures
}

// RunFile loads and executes a scenario file.
func RunFile(ctx context.Context, cfg Config, path string) error {
	scenario, err := LoadScenarioFromFile(path)
	if err != nil {
		return err
	}
	return NewRunner(cfg).RunScenario(ctx, scenario)
}

// RunScenario executes the scenario steps in order.
func (r *Runner) RunScenario(ctx context.Context, scenario *Scenario) error {
	if scenario == nil {
		return errors.New("scenario is required")
	}
	content := memory.New()
	sheet, err := app.NewService(content, app.Config{MaxCharacteristic: r.max, Logger: r.debugLogger()})
	if err != nil {
		return err
	}
	state := &scenarioState{content: content, sheet: sheet}

	r.logf("scenario start: %s (%d steps)", scenario.Name, len(scenario.Steps))
	for index, step := range scenario.Steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		stepNumber := index + 1
		r.logf("step %d/%d start: %s", stepNumber, len(scenario.Steps), step.Kind)
		stepStart := time.Now()
		if err := r.runCheckedStep(ctx, state, step); err != nil {
			return fmt.Errorf("step %d (%s): %w", stepNumber, step.Kind, err)
		}
		r.logf("step %d/%d done: %s (%s)", stepNumber, len(scenario.Steps), step.Kind, time.Since(stepStart))
	}
	if r.assertions.Failures > 0 {
		r.logger.Printf("scenario %s: %d expectation(s) failed", scenario.Name, r.assertions.Failures)
	}
	r.logf("scenario done: %s", scenario.Name)
	return nil
}

// runCheckedStep runs step and reconciles its outcome with an expected
// error code, if the script set one.
func (r *Runner) runCheckedStep(ctx context.Context, state *scenarioState, step Step) error {
	want := requiredString(step.Args, expectErrorKey)
	err := r.runStep(ctx, state, step)
	if want == "" {
		return err
	}
	if err == nil {
		return r.assertions.Failf("expected error %s, got none", want)
	}
	if got := errorCode(err); got != want {
		return r.assertions.Failf("expected error %s, got %s (%v)", want, got, err)
	}
	r.logf("step failed as expected: %v", err)
	return nil
}

func (r *Runner) debugLogger() *log.Logger {
	if !r.verbose {
		return nil
	}
	return r.logger
}

func (r *Runner) logf(format string, args ...any) {
	if !r.verbose || r.logger == nil {
		return
	}
	r.logger.Printf(format, args...)
}
