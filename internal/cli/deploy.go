package cli

import (
	"github.com/evm-coprocessor/copro/internal/cli/render"
	"github.com/evm-coprocessor/copro/internal/modules"
	"github.com/evm-coprocessor/copro/internal/usecase"
	"github.com/spf13/cobra"
)

// NewDeployCmd creates the deploy command
func NewDeployCmd() *cobra.Command {
	var params usecase.DeployModuleParams

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Deploy the CoprocessorModule",
		Long: `Deploy the CoprocessorModule: one Coprocessor contract constructed with the
dependency address, exposed as the "coprocessor" result.

Deployments are journaled in .copro/deployments per chain. Running deploy again
with the same parameters reuses the journaled contract instead of sending a new
transaction. A pending deployment is resumed from its transaction hash.`,
		Example: `  # Deploy with the dependency from copro.toml
  copro deploy --network sepolia

  # Deploy against a different dependency, replacing the journaled contract
  copro deploy --dependency 0x5FbDB2315678afecb367f032d93F642f64180aa3 --reset`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.DeployModule.Run(cmd.Context(), params)
			if err != nil {
				return err
			}

			if format := outputFormat(app); format != render.FormatText {
				return render.RenderStructured(cmd.OutOrStdout(), format, result)
			}
			return render.NewDeployRenderer(cmd.OutOrStdout(), app.Config.Network).Render(result)
		},
	}

	cmd.Flags().StringVar(&params.ModuleID, "module", modules.CoprocessorModuleID, "Module to deploy")
	cmd.Flags().StringVar(&params.Dependency, "dependency", "", "Constructor dependency address (defaults to [coprocessor].dependency)")
	cmd.Flags().BoolVar(&params.Reset, "reset", false, "Ignore journaled deployments of this module and deploy again")

	return cmd
}
