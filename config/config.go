// Package config loads the optional TOML configuration file. Any settings
// missing from the file keep their default values.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

const (
	DefaultSpreadsheet = "1HbF_0IPMC_fZmMwPHXvmyhIlY5JFu1S2lp7Y3AwdDyU"
	DefaultSheet       = "Sheet1"
	DefaultDir         = ".awakening_overlay_uploader"
	DefaultFile        = "config.toml"
)

type Config struct {
	Spreadsheet  string `toml:"spreadsheet"`
	Sheet        string `toml:"sheet"`
	ClientSecret string `toml:"client-secret"`
	Tokens       string `toml:"tokens"`
	Preflight    bool   `toml:"preflight"`
	Retry        Retry  `toml:"retry"`
	Rate         Rate   `toml:"rate"`
}

type Retry struct {
	Start   int `toml:"start"`
	Max     int `toml:"max"`
	Backoff int `toml:"backoff"`
}

type Rate struct {
	RequestsPerSecond float64 `toml:"requests-per-second"`
	Burst             int     `toml:"burst"`
}

func NewConfig() *Config {
	return &Config{
		Spreadsheet:  DefaultSpreadsheet,
		Sheet:        DefaultSheet,
		ClientSecret: "",
		Tokens:       "",
		Preflight:    true,
		Retry: Retry{
			Start:   3,
			Max:     6,
			Backoff: 2,
		},
		Rate: Rate{
			RequestsPerSecond: 1.0,
			Burst:             5,
		},
	}
}

// DefaultPath returns ~/.awakening_overlay_uploader/config.toml
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultFile
	}

	return filepath.Join(home, DefaultDir, DefaultFile)
}

// Load overlays the settings in the TOML file onto the configuration. A missing
// file is not an error unless the path was given explicitly.
func (c *Config) Load(path string, required bool) error {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !required {
			return nil
		}

		return fmt.Errorf("unable to read configuration file %s (%w)", path, err)
	}

	if err := toml.Unmarshal(b, c); err != nil {
		return fmt.Errorf("invalid configuration file %s (%w)", path, err)
	}

	return c.Validate()
}

func (c *Config) Validate() error {
	if c.Spreadsheet == "" {
		return fmt.Errorf("invalid configuration - missing spreadsheet ID")
	}

	if c.Sheet == "" {
		return fmt.Errorf("invalid configuration - missing worksheet name")
	}

	if c.Rate.RequestsPerSecond < 0 {
		return fmt.Errorf("invalid configuration - rate.requests-per-second must not be negative")
	}

	return nil
}
