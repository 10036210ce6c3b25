// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

// Package config loads the configuration defaults from the environment.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/siderolabs/ippopper/internal/constants"
)

// Config is the application configuration.
type Config struct {
	ProbeTarget    string        `env:"PROBE_TARGET"`
	ListenAddress  string        `env:"LISTEN"`
	Providers      []string      `env:"PROVIDERS" envSeparator:","`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
	Debug          bool          `env:"DEBUG"`
}

// EnvPrefix is the prefix of all environment variables.
const EnvPrefix = "IPPOPPER_"

// Default returns the configuration with all defaults set.
func Default() Config {
	return Config{
		ProbeTarget:    constants.ProbeTarget,
		ListenAddress:  constants.ListenAddress,
		Providers:      constants.ExternalProviders(),
		RequestTimeout: constants.ExternalRequestTimeout,
	}
}

// Load reads the configuration from the environment on top of the defaults.
//
// Variables from a .env file in the working directory are loaded first if the file exists.
func Load() (Config, error) {
	// the .env file is optional
	_ = godotenv.Load() //nolint:errcheck

	return Parse(env.Options{})
}

// Parse parses the configuration from the environment with the given options on top of the defaults.
func Parse(opts env.Options) (Config, error) {
	cfg := Default()

	opts.Prefix = EnvPrefix

	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if len(c.Providers) == 0 {
		return errors.New("at least one external address provider is required")
	}

	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive, got %s", c.RequestTimeout)
	}

	return nil
}
