package cli

import (
	"github.com/spf13/cobra"

	"usdtgen/internal/gen"
)

func (a *app) newGenCmd() *cobra.Command {
	var (
		outDir      string
		packageName string
	)

	cmd := &cobra.Command{
		Use:   "gen SOURCE",
		Short: "Write the declaration, trampolines and Go binding",
		Long: `Write the three artifacts of a provider file to the output directory.

Artifacts are written to temporary files first and only replace existing
ones once all three were written; an invalid provider file writes nothing.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.compile(cmd, args[0])
			if err != nil {
				return err
			}

			genCfg := a.generatorConfig(packageName)
			if outDir != "" {
				genCfg.OutputDir = outDir
			}

			files, err := gen.NewGenerator(genCfg).Generate(res.Plan)
			if err != nil {
				return err
			}

			if err := gen.WriteFiles(files, genCfg.OutputDir); err != nil {
				return err
			}

			for _, f := range files {
				a.logger.Info().Str("dir", genCfg.OutputDir).Str("file", f.Filename).Str("kind", f.Kind.String()).Msg("wrote artifact")
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", "", "output directory (default from config)")
	cmd.Flags().StringVar(&packageName, "package", "", "package clause of the Go binding (default from config)")

	return cmd
}

// generatorConfig returns the configured generator settings with an
// optional package override.
func (a *app) generatorConfig(packageName string) gen.GeneratorConfig {
	genCfg := a.cfg.Generator()
	if packageName != "" {
		genCfg.PackageName = packageName
	}

	return genCfg
}
