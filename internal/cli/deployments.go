package cli

import (
	"github.com/evm-coprocessor/copro/internal/cli/render"
	"github.com/evm-coprocessor/copro/internal/usecase"
	"github.com/spf13/cobra"
)

// NewDeploymentsCmd creates the deployments command
func NewDeploymentsCmd() *cobra.Command {
	var params usecase.ListDeploymentsParams

	cmd := &cobra.Command{
		Use:     "deployments",
		Aliases: []string{"ls", "list"},
		Short:   "List journaled deployments",
		Long: `List the deployments journaled in .copro/deployments.

By default only the selected network is shown. Use --all to list every chain.`,
		Example: `  copro deployments
  copro deployments --all
  copro deployments --module CoprocessorModule --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.ListDeployments.Run(cmd.Context(), params)
			if err != nil {
				return err
			}

			if format := outputFormat(app); format != render.FormatText {
				return render.RenderStructured(cmd.OutOrStdout(), format, result.Deployments)
			}
			return render.NewDeploymentsRenderer(cmd.OutOrStdout()).RenderDeploymentList(result)
		},
	}

	cmd.Flags().StringVar(&params.ModuleID, "module", "", "Filter by module")
	cmd.Flags().StringVar(&params.ContractName, "contract", "", "Filter by contract name")
	cmd.Flags().BoolVar(&params.AllChains, "all", false, "List deployments on every chain")

	return cmd
}
