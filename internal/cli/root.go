// Package cli implements the usdtgen command line.
package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"usdtgen/internal/compile"
	"usdtgen/internal/config"
	"usdtgen/internal/diagnostic"
	"usdtgen/internal/logging"
	"usdtgen/internal/version"
)

// ErrReported is returned when the failure was already printed as
// diagnostics.
var ErrReported = errors.New("errors reported")

// app holds the state shared by all subcommands.
type app struct {
	configPath string
	logLevel   string
	logPretty  bool

	cfg    *config.Config
	logger zerolog.Logger
}

// NewRootCmd creates the usdtgen command tree.
func NewRootCmd() *cobra.Command {
	a := &app{logger: zerolog.Nop()}

	rootCmd := &cobra.Command{
		Use:   "usdtgen",
		Short: "Generate DTrace USDT probe bindings for Go",
		Long: `usdtgen reads a DTrace provider file (.d) and generates the pieces that
let Go code fire its probes without runtime cost when no tracer listens:

- a C header declaring one trampoline per probe and is-enabled check
- the C trampolines wrapping the macros of "dtrace -h"
- a cgo binding with one typed method per probe
- a build script producing the static probe library`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "configuration file (default $USDTGEN_CONFIG or ./usdtgen.yaml)")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error, disabled")
	flags.BoolVar(&a.logPretty, "log-pretty", false, "human-readable log output")

	rootCmd.AddCommand(a.newGenCmd())
	rootCmd.AddCommand(a.newFmtCmd())
	rootCmd.AddCommand(a.newBuildgenCmd())
	rootCmd.AddCommand(a.newCheckCmd())
	rootCmd.AddCommand(a.newListCmd())
	rootCmd.AddCommand(a.newConfigCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// Execute runs the root command with the process arguments.
func Execute() error {
	return NewRootCmd().Execute()
}

// setup loads the configuration and builds the logger. Flags override the
// file and the environment.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()

	if flags.Changed("log-level") {
		if !logging.ValidLevel(a.logLevel) {
			return fmt.Errorf("unknown log level %q", a.logLevel)
		}

		cfg.Log.Level = a.logLevel
	}

	if flags.Changed("log-pretty") {
		cfg.Log.Pretty = a.logPretty
	}

	logCfg := cfg.Logging()
	logCfg.Output = cmd.ErrOrStderr()

	a.cfg = cfg
	a.logger = logging.NewWithComponent(logCfg, cmd.Name())

	return nil
}

// compile runs the front end on source and prints its diagnostics. It
// returns ErrReported when the file has errors.
func (a *app) compile(cmd *cobra.Command, source string) (*compile.Result, error) {
	res, err := compile.New(a.cfg.MaxArgs, a.logger).CompileFile(source)
	if res == nil {
		return nil, err
	}

	a.printDiagnostics(cmd.ErrOrStderr(), res.Diagnostics)

	if err != nil {
		return nil, ErrReported
	}

	return res, nil
}

// printDiagnostics prints errors and warnings; notes only when debug
// logging is on.
func (a *app) printDiagnostics(w io.Writer, diags *diagnostic.Diagnostics) {
	notes := a.logger.GetLevel() <= zerolog.DebugLevel

	for _, d := range diags.All() {
		if d.Severity == diagnostic.DiagnosticInfo && !notes {
			continue
		}

		_, _ = fmt.Fprintln(w, d.String())
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("usdtgen version %s\n", version.Version)
			cmd.Printf("Git commit: %s\n", version.GitCommit)
			cmd.Printf("Build date: %s\n", version.BuildDate)
			cmd.Printf("Go version: %s\n", version.GoVersion)
		},
	}
}
