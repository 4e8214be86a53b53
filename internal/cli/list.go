package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"usdtgen/internal/plan"
)

func (a *app) newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list SOURCE",
		Short: "List the probes of a provider file and their generated names",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.compile(cmd, args[0])
			if err != nil {
				return err
			}

			_, err = fmt.Fprint(cmd.OutOrStdout(), plan.FormatReport(plan.GenerateReport(res.Plan)))

			return err
		},
	}
}
