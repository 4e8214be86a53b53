package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// Load builds the effective configuration: defaults, then the file at
// path (or $USDTGEN_CONFIG, or ./usdtgen.yaml when it exists), then
// environment overrides. The result is validated.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = os.Getenv(PathEnv)
		explicit = path != ""
	}

	if !explicit {
		path = DefaultFile
	}

	data, err := os.ReadFile(path)

	switch {
	case err == nil:
		cfg, err = Parse(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	case !explicit && errors.Is(err, fs.ErrNotExist):
		// no file, defaults only
	default:
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := LoadFromEnv(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFile loads and parses a YAML configuration file without applying
// environment overrides.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return Parse(data)
}

// Parse parses YAML data on top of the defaults. Keys the document omits
// keep their default values; unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	applyDefaults(cfg)

	return cfg, nil
}

// applyDefaults restores defaults for keys set to empty values.
func applyDefaults(cfg *Config) {
	def := Default()

	if cfg.Package == "" {
		cfg.Package = def.Package
	}

	if cfg.OutputDir == "" {
		cfg.OutputDir = def.OutputDir
	}

	if cfg.MaxArgs == 0 {
		cfg.MaxArgs = def.MaxArgs
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = def.Log.Level
	}
}

// Marshal serializes a Config to YAML.
func Marshal(cfg *Config) ([]byte, error) {
	return yaml.Marshal(cfg)
}
