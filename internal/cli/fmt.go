package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"usdtgen/internal/gen"
)

func (a *app) newFmtCmd() *cobra.Command {
	var (
		format      string
		packageName string
	)

	cmd := &cobra.Command{
		Use:   "fmt SOURCE",
		Short: "Print one generated artifact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := gen.ParseKind(format)
			if err != nil || kind == gen.KindBuildScript {
				return fmt.Errorf("--format must be one of go, decl, defn; got %q", format)
			}

			res, err := a.compile(cmd, args[0])
			if err != nil {
				return err
			}

			file, err := gen.NewGenerator(a.generatorConfig(packageName)).Artifact(res.Plan, kind)
			if err != nil {
				return err
			}

			_, err = cmd.OutOrStdout().Write(file.Content)

			return err
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "go", "artifact to print: go, decl or defn")
	cmd.Flags().StringVar(&packageName, "package", "", "package clause of the Go binding (default from config)")

	return cmd
}
