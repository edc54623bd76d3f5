// Package config loads command settings from SHEETKEEPER_ environment
// variables.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix is prepended to every env tag read by ParseEnv.
const EnvPrefix = "SHEETKEEPER_"

// Content holds the settings shared by every command that reads the content
// catalog and runs the engine.
type Content struct {
	DBPath            string `env:"CONTENT_DB" envDefault:"data/content.db"`
	MaxCharacteristic int    `env:"MAX_CHARACTERISTIC" envDefault:"30"`
	Locale            string `env:"LOCALE" envDefault:"en-US"`
}

// ParseEnv loads configuration from prefixed environment variables.
func ParseEnv(target any) error {
	if err := env.ParseWithOptions(target, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
