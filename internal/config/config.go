// SPDX-License-Identifier: Apache-2.0

// Package config loads lexforge's runtime configuration in the
// documented koanf layering order: defaults, then an optional YAML
// file, then LEXFORGE_* environment variables, then command-line
// flags, each layer overriding the one before it.
package config

import (
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"
)

// CodeConfigInvalid is the oops code for a failed config load or a
// value that fails Validate.
const CodeConfigInvalid = "CONFIG_INVALID"

// Default values, used as the lowest-precedence layer.
const (
	DefaultDictionaryPath = "lexforge.dictionary.json"
	DefaultWarningsPath   = "lexforge.warnings.log"
	DefaultLogFormat      = "json"
	DefaultMetricsAddr    = ""
)

// envPrefix is stripped from LEXFORGE_* variable names before they are
// mapped to dotted koanf keys (LEXFORGE_LOG_FORMAT -> log.format).
const envPrefix = "LEXFORGE_"

// Config is lexforge's resolved runtime configuration.
type Config struct {
	Dictionary struct {
		Path string `koanf:"path"`
	} `koanf:"dictionary"`
	Warnings struct {
		Path string `koanf:"path"`
	} `koanf:"warnings"`
	Log struct {
		Format string `koanf:"format"`
	} `koanf:"log"`
	Metrics struct {
		Addr string `koanf:"addr"`
	} `koanf:"metrics"`
}

// defaultConfig returns a Config populated with the package defaults.
func defaultConfig() Config {
	var cfg Config
	cfg.Dictionary.Path = DefaultDictionaryPath
	cfg.Warnings.Path = DefaultWarningsPath
	cfg.Log.Format = DefaultLogFormat
	cfg.Metrics.Addr = DefaultMetricsAddr
	return cfg
}

// Validate checks that the resolved configuration is usable.
func (c *Config) Validate() error {
	if c.Log.Format != "json" && c.Log.Format != "text" {
		return oops.Code(CodeConfigInvalid).Errorf("log.format must be 'json' or 'text', got %q", c.Log.Format)
	}
	if c.Dictionary.Path == "" {
		return oops.Code(CodeConfigInvalid).Errorf("dictionary.path is required")
	}
	return nil
}

// Load resolves Config from defaults, the optional YAML file at
// configPath (skipped if empty), LEXFORGE_* environment variables, and
// finally flags; flags win on conflict.
func Load(configPath string, flags *pflag.FlagSet) (*Config, error) {
	cfg := defaultConfig()

	k := koanf.New(".")

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, oops.Code(CodeConfigInvalid).Wrapf(err, "loading config file %q", configPath)
		}
	}

	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		trimmed := strings.TrimPrefix(s, envPrefix)
		return strings.ReplaceAll(strings.ToLower(trimmed), "_", ".")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, oops.Code(CodeConfigInvalid).Wrapf(err, "loading environment variables")
	}

	if flags != nil {
		if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
			return nil, oops.Code(CodeConfigInvalid).Wrapf(err, "loading command-line flags")
		}
	}

	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, oops.Code(CodeConfigInvalid).Wrapf(err, "unmarshaling configuration")
	}

	return &cfg, nil
}
