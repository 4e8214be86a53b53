package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_KeepsDefaultsForMissingKeys(t *testing.T) {
	cfg, err := Parse([]byte("package: tracing\nmax_args: 6\n"))
	require.NoError(t, err)

	assert.Equal(t, "tracing", cfg.Package)
	assert.Equal(t, 6, cfg.MaxArgs)
	assert.Equal(t, ".", cfg.OutputDir)
	assert.True(t, cfg.Comments)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestParse_Full(t *testing.T) {
	yamlData := `
package: probes
output_dir: gen
library: appprobes
dtrace_header: app.h
decl_header: app-decl.h
wrapper_source: app-wrapper.c
binding_file: app_probes.go
max_args: 8
comments: false
log:
  level: debug
  pretty: true
`
	cfg, err := Parse([]byte(yamlData))
	require.NoError(t, err)

	assert.Equal(t, &Config{
		Package:       "probes",
		OutputDir:     "gen",
		Library:       "appprobes",
		DTraceHeader:  "app.h",
		DeclHeader:    "app-decl.h",
		WrapperSource: "app-wrapper.c",
		BindingFile:   "app_probes.go",
		MaxArgs:       8,
		Comments:      false,
		Log:           LogConfig{Level: "debug", Pretty: true},
	}, cfg)
}

func TestParse_Empty(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParse_UnknownKey(t *testing.T) {
	_, err := Parse([]byte("pakage: probes\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config YAML")
	assert.Contains(t, err.Error(), "pakage")
}

func TestParse_InvalidYAML(t *testing.T) {
	_, err := Parse([]byte("package: [unterminated\n"))
	require.Error(t, err)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("USDTGEN_PACKAGE", "envprobes")
	t.Setenv("USDTGEN_MAX_ARGS", "4")
	t.Setenv("USDTGEN_COMMENTS", "false")
	t.Setenv("USDTGEN_LOG_LEVEL", "warn")

	cfg := Default()
	require.NoError(t, LoadFromEnv(cfg))

	assert.Equal(t, "envprobes", cfg.Package)
	assert.Equal(t, 4, cfg.MaxArgs)
	assert.False(t, cfg.Comments)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, ".", cfg.OutputDir)
}

func TestLoadFromEnv_InvalidValues(t *testing.T) {
	t.Setenv("USDTGEN_MAX_ARGS", "many")

	err := LoadFromEnv(Default())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid integer for MaxArgs (USDTGEN_MAX_ARGS)")

	t.Setenv("USDTGEN_MAX_ARGS", "")
	t.Setenv("USDTGEN_LOG_PRETTY", "sometimes")

	err = LoadFromEnv(Default())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid boolean for Pretty (USDTGEN_LOG_PRETTY)")
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("package: fromfile\noutput_dir: out\n"), 0o644))

	t.Setenv("USDTGEN_OUTPUT_DIR", "envout")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "fromfile", cfg.Package)
	assert.Equal(t, "envout", cfg.OutputDir)
}

func TestLoad_PathFromEnvironment(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "env.yaml")
	require.NoError(t, os.WriteFile(path, []byte("package: viaenv\n"), 0o644))

	t.Setenv(PathEnv, path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "viaenv", cfg.Package)
}

func TestLoad_DefaultFileIsOptional(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv(PathEnv, "")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	require.NoError(t, os.WriteFile(DefaultFile, []byte("package: local\n"), 0o644))

	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, "local", cfg.Package)
}

func TestLoad_ExplicitFileMustExist(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoad_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("package: type\nmax_args: 40\nlog:\n  level: loud\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)

	msg := err.Error()
	assert.Contains(t, msg, "invalid configuration")
	assert.Contains(t, msg, `package: "type" is not a Go identifier`)
	assert.Contains(t, msg, "max_args: 40 is outside [0, 32]")
	assert.Contains(t, msg, `log.level: unknown level "loud"`)
}

func TestConversions(t *testing.T) {
	cfg := Default()
	cfg.Library = "app"
	cfg.Log.Pretty = true

	gc := cfg.Generator()
	assert.Equal(t, "probes", gc.PackageName)
	assert.Equal(t, "app", gc.Library)
	assert.True(t, gc.GenerateComments)
	assert.Equal(t, "libapp.a", gc.Names("probes").Archive)

	lc := cfg.Logging()
	assert.Equal(t, "info", lc.Level)
	assert.True(t, lc.Pretty)
	assert.Nil(t, lc.Output)
}

func TestMarshal_RoundTripsThroughParse(t *testing.T) {
	cfg := Default()
	cfg.BindingFile = "trace_probes.go"

	data, err := Marshal(cfg)
	require.NoError(t, err)
	assert.Contains(t, string(data), "binding_file: trace_probes.go")
	assert.NotContains(t, string(data), "library:")

	back, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, cfg, back)
}
