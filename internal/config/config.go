// Package config loads the application configuration from defaults,
// an optional YAML file, environment variables and CLI flags, in that
// order of precedence.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// Config file names, looked up in the working directory.
const (
	ConfigFileName    = "queryspec.yaml"
	ConfigFileNameAlt = "queryspec.yml"
)

// Default configuration values.
const (
	DefaultStorePath = "queryspec.db"
	DefaultTimezone  = "Europe/Berlin"
	DefaultOutput    = "table"
)

// Config holds everything the CLI and collaborators need.
type Config struct {
	// StorePath is the SQLite file holding stored queries.
	StorePath string `koanf:"store_path"`

	// EventFile points at the YAML event description used to resolve
	// dynamic scopes. Optional; static scopes work without it.
	EventFile string `koanf:"event_file"`

	// DefaultTimezone names the zone naive datetimes are interpreted
	// in. TimezoneAware switches serialization to offset-carrying
	// datetime strings.
	DefaultTimezone string `koanf:"default_timezone"`
	TimezoneAware   bool   `koanf:"timezone_aware"`

	// Output selects the CLI rendering mode (table or json).
	Output  string `koanf:"output"`
	Verbose bool   `koanf:"verbose"`
}

// ApplyDefaults fills unset fields with their defaults.
func (c *Config) ApplyDefaults() {
	if c.StorePath == "" {
		c.StorePath = DefaultStorePath
	}
	if c.DefaultTimezone == "" {
		c.DefaultTimezone = DefaultTimezone
	}
	if c.Output == "" {
		c.Output = DefaultOutput
	}
}

// Location resolves the configured default timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.DefaultTimezone)
	if err != nil {
		return nil, fmt.Errorf("invalid default_timezone %q: %w", c.DefaultTimezone, err)
	}
	return loc, nil
}

func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if _, err := os.Stat(ConfigFileName); err == nil {
		return ConfigFileName
	}
	if _, err := os.Stat(ConfigFileNameAlt); err == nil {
		return ConfigFileNameAlt
	}
	return ""
}

// Load assembles the configuration. cfgFile overrides the file lookup;
// flags, when non-nil, take highest precedence for explicitly set
// values.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(map[string]interface{}{
		"store_path":       DefaultStorePath,
		"default_timezone": DefaultTimezone,
		"timezone_aware":   false,
		"output":           DefaultOutput,
		"verbose":          false,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	if path := findConfigFile(cfgFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
	}

	// QUERYSPEC_STORE_PATH -> store_path
	if err := k.Load(env.Provider("QUERYSPEC_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "QUERYSPEC_"))
	}), nil); err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("loading flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	cfg.ApplyDefaults()

	if _, err := cfg.Location(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
