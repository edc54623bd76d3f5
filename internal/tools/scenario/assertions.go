package scenario

import (
	"fmt"
	"log"
	"strings"
)

// AssertionMode decides what a failed expectation does.
type AssertionMode int

const (
	// AssertionStrict fails the scenario on the first unmet expectation.
	AssertionStrict AssertionMode = iota
	// AssertionLogOnly logs unmet expectations and keeps running.
	AssertionLogOnly
)

// ParseAssertionMode accepts "strict" or "log".
func ParseAssertionMode(value string) (AssertionMode, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "strict":
		return AssertionStrict, nil
	case "log", "log-only", "logonly":
		return AssertionLogOnly, nil
	default:
		return AssertionStrict, fmt.Errorf("unknown assertion mode %q", value)
	}
}

func (m AssertionMode) String() string {
	if m == AssertionLogOnly {
		return "log"
	}
	return "strict"
}

// Assertions applies an AssertionMode to expectation failures.
type Assertions struct {
	Mode   AssertionMode
	Logger *log.Logger
	// Failures counts unmet expectations, including logged ones.
	Failures int
}

// Failf records an unmet expectation. In strict mode it returns the error;
// otherwise it logs and returns nil.
func (a *Assertions) Failf(format string, args ...any) error {
	a.Failures++
	err := fmt.Errorf(format, args...)
	if a.Mode == AssertionStrict {
		return err
	}
	if a.Logger != nil {
		a.Logger.Printf("expectation failed: %v", err)
	}
	return nil
}
