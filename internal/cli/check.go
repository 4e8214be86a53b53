package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"usdtgen/internal/callsite"
)

func (a *app) newCheckCmd() *cobra.Command {
	var (
		source string
		dir    string
	)

	cmd := &cobra.Command{
		Use:   "check --source SOURCE [PACKAGES...]",
		Short: "Check probe fire calls in Go packages",
		Long: `Check every probe fire call in the given packages (default ./...) against
the provider file: each thunk must return exactly the probe's arguments,
in order, with matching types. Test files are included.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.compile(cmd, source)
			if err != nil {
				return err
			}

			patterns := args
			if len(patterns) == 0 {
				patterns = []string{"./..."}
			}

			scanner := callsite.NewScanner(res.Plan, a.logger)

			report, err := scanner.LoadPackages(cmd.Context(), dir, patterns...)
			if err != nil {
				return err
			}

			a.printDiagnostics(cmd.ErrOrStderr(), report.Diagnostics)

			a.logger.Info().Int("calls", report.Calls).Int("errors", len(report.Diagnostics.Errors)).Msg("fire calls checked")

			if report.Diagnostics.HasErrors() {
				return ErrReported
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%d fire call(s) checked, no problems\n", report.Calls)

			return err
		},
	}

	cmd.Flags().StringVarP(&source, "source", "s", "", "provider file the binding was generated from")
	cmd.Flags().StringVarP(&dir, "dir", "C", "", "directory the package patterns are relative to")
	_ = cmd.MarkFlagRequired("source")

	return cmd
}
