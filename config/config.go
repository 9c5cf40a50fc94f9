// Package config loads registry settings from the environment or YAML and
// wires a ready Registry and Serializer from them.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

var (
	// ErrParsingConfig indicates the environment could not be parsed.
	ErrParsingConfig = errors.New("failed to parse config")

	// ErrInvalidConfig indicates a parsed configuration failed validation.
	ErrInvalidConfig = errors.New("invalid config")
)

// Formats accepted by Config.Format.
const (
	FormatXML     = "xml"
	FormatJSON    = "json"
	FormatYAML    = "yaml"
	FormatMsgpack = "msgpack"
	FormatBSON    = "bson"
)

var formats = []string{FormatXML, FormatJSON, FormatYAML, FormatMsgpack, FormatBSON}

// Registration names one base package and its dependent packages.
type Registration struct {
	BasePackage       string   `yaml:"base_package"`
	DependentPackages []string `yaml:"dependent_packages,omitempty"`
}

// Config holds registry settings.
//
// BasePackages and DependentPackages come from the environment; every base
// package listed there is registered with the same dependent packages.
// Registrations come from YAML and allow per-base dependencies. Both lists are
// registered, environment entries first.
type Config struct {
	Format            string         `env:"XMLCTX_FORMAT" envDefault:"xml" yaml:"format"`
	Indent            bool           `env:"XMLCTX_INDENT" yaml:"indent"`
	Header            bool           `env:"XMLCTX_HEADER" yaml:"header"`
	Standalone        bool           `env:"XMLCTX_STANDALONE" envDefault:"true" yaml:"standalone"`
	LogLevel          string         `env:"XMLCTX_LOG_LEVEL" envDefault:"info" yaml:"log_level"`
	BasePackages      []string       `env:"XMLCTX_BASE_PACKAGES" envSeparator:"," yaml:"base_packages,omitempty"`
	DependentPackages []string       `env:"XMLCTX_DEPENDENT_PACKAGES" envSeparator:"," yaml:"dependent_packages,omitempty"`
	Registrations     []Registration `env:"-" yaml:"registrations,omitempty"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Format:     FormatXML,
		Standalone: true,
		LogLevel:   "info",
	}
}

var dotenvLoaded sync.Once

// Load parses the environment into a Config. A .env file in the working
// directory is loaded once first, if present.
func Load() (Config, error) {
	dotenvLoaded.Do(func() {
		// The .env file is optional.
		_ = godotenv.Load()
	})

	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, errors.Join(ErrParsingConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadFile reads a YAML configuration file. Unset fields keep Default values.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	return Parse(data)
}

// Parse decodes YAML configuration. Unset fields keep Default values.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Join(ErrParsingConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the format and log level.
func (c Config) Validate() error {
	if !slices.Contains(formats, strings.ToLower(c.Format)) {
		return fmt.Errorf("%w: unknown format %q", ErrInvalidConfig, c.Format)
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	for _, r := range c.Registrations {
		if r.BasePackage == "" {
			return fmt.Errorf("%w: registration without base_package", ErrInvalidConfig)
		}
	}
	return nil
}

// All returns every registration, environment entries first.
func (c Config) All() []Registration {
	all := make([]Registration, 0, len(c.BasePackages)+len(c.Registrations))
	for _, base := range c.BasePackages {
		base = strings.TrimSpace(base)
		if base == "" {
			continue
		}
		all = append(all, Registration{BasePackage: base, DependentPackages: trimAll(c.DependentPackages)})
	}
	for _, r := range c.Registrations {
		all = append(all, Registration{BasePackage: r.BasePackage, DependentPackages: trimAll(r.DependentPackages)})
	}
	return all
}

// YAML renders the configuration.
func (c Config) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}

func trimAll(pkgs []string) []string {
	out := make([]string, 0, len(pkgs))
	for _, p := range pkgs {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("unknown log level %q", s)
	}
	return level, nil
}
