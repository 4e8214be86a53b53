package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"usdtgen/internal/gen"
)

func (a *app) newBuildgenCmd() *cobra.Command {
	var (
		emit   string
		outDir string
	)

	cmd := &cobra.Command{
		Use:   "buildgen SOURCE",
		Short: "Generate the build script of the probe library",
		Long: `Generate build.sh, a POSIX sh script that runs "dtrace -h", compiles the
trampolines, runs "dtrace -G" where the platform needs it and archives
the static probe library. Tools are taken from $DTRACE, $CC and $AR.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if emit != "file" && emit != "stdout" {
				return fmt.Errorf("--emit must be file or stdout; got %q", emit)
			}

			res, err := a.compile(cmd, args[0])
			if err != nil {
				return err
			}

			genCfg := a.cfg.Generator()
			if outDir != "" {
				genCfg.OutputDir = outDir
			}

			// The script may run from any directory.
			genCfg.SourcePath, err = filepath.Abs(args[0])
			if err != nil {
				return fmt.Errorf("resolving %s: %w", args[0], err)
			}

			script, err := gen.NewGenerator(genCfg).BuildScript(res.Plan)
			if err != nil {
				return err
			}

			if emit == "stdout" {
				_, err = cmd.OutOrStdout().Write(script.Content)
				return err
			}

			if err := gen.WriteFiles([]gen.GeneratedFile{script}, genCfg.OutputDir); err != nil {
				return err
			}

			a.logger.Info().Str("dir", genCfg.OutputDir).Str("file", script.Filename).Msg("wrote build script")

			return nil
		},
	}

	cmd.Flags().StringVar(&emit, "emit", "file", "where to emit the script: file or stdout")
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "output directory (default from config)")

	return cmd
}
