// Package config loads the usdtgen configuration file and applies
// USDTGEN_* environment overrides on top of it.
package config

import (
	"usdtgen/internal/gen"
	"usdtgen/internal/logging"
	"usdtgen/internal/validate"
)

// DefaultFile is the configuration file looked up in the working directory
// when no path is given.
const DefaultFile = "usdtgen.yaml"

// PathEnv names the environment variable holding the configuration path.
const PathEnv = "USDTGEN_CONFIG"

// Config is the root of a usdtgen.yaml file.
type Config struct {
	// Package is the package clause of the generated Go binding.
	Package string `yaml:"package" env:"USDTGEN_PACKAGE"`
	// OutputDir is where "gen" writes artifacts.
	OutputDir string `yaml:"output_dir" env:"USDTGEN_OUTPUT_DIR"`

	// Library overrides the static library name (without "lib" and ".a").
	Library string `yaml:"library,omitempty" env:"USDTGEN_LIBRARY"`
	// DTraceHeader overrides the name of the header "dtrace -h" writes.
	DTraceHeader string `yaml:"dtrace_header,omitempty" env:"USDTGEN_DTRACE_HEADER"`
	// DeclHeader overrides the declaration artifact name.
	DeclHeader string `yaml:"decl_header,omitempty" env:"USDTGEN_DECL_HEADER"`
	// WrapperSource overrides the trampoline artifact name.
	WrapperSource string `yaml:"wrapper_source,omitempty" env:"USDTGEN_WRAPPER_SOURCE"`
	// BindingFile overrides the Go binding artifact name.
	BindingFile string `yaml:"binding_file,omitempty" env:"USDTGEN_BINDING_FILE"`

	// MaxArgs is the largest accepted probe arity. Zero selects the default.
	MaxArgs int `yaml:"max_args" env:"USDTGEN_MAX_ARGS"`
	// Comments enables doc comments in generated code.
	Comments bool `yaml:"comments" env:"USDTGEN_COMMENTS"`

	Log LogConfig `yaml:"log"`
}

// LogConfig configures diagnostics logging.
type LogConfig struct {
	Level  string `yaml:"level" env:"USDTGEN_LOG_LEVEL"`
	Pretty bool   `yaml:"pretty" env:"USDTGEN_LOG_PRETTY"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Package:   "probes",
		OutputDir: ".",
		MaxArgs:   validate.DefaultMaxArgs,
		Comments:  true,
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Generator converts the configuration into generator settings.
func (c *Config) Generator() gen.GeneratorConfig {
	return gen.GeneratorConfig{
		PackageName:      c.Package,
		OutputDir:        c.OutputDir,
		Library:          c.Library,
		DTraceHeader:     c.DTraceHeader,
		DeclHeader:       c.DeclHeader,
		WrapperSource:    c.WrapperSource,
		BindingFile:      c.BindingFile,
		GenerateComments: c.Comments,
	}
}

// Logging converts the log section into logger settings. The output
// writer is left to the caller.
func (c *Config) Logging() logging.Config {
	return logging.Config{
		Level:  c.Log.Level,
		Pretty: c.Log.Pretty,
	}
}
