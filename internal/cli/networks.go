package cli

import (
	"github.com/evm-coprocessor/copro/internal/cli/render"
	"github.com/spf13/cobra"
)

// NewNetworksCmd creates the networks command
func NewNetworksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "networks",
		Short: "List available networks from copro.toml",
		Long: `List the networks configured in the [rpc_endpoints] section of copro.toml.
Each endpoint is queried for its chain id unless the id is cached.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.ListNetworks.Run(cmd.Context())
			if err != nil {
				return err
			}

			if format := outputFormat(app); format != render.FormatText {
				return render.RenderStructured(cmd.OutOrStdout(), format, render.NetworksOutput(result))
			}
			return render.NewNetworksRenderer(cmd.OutOrStdout()).RenderNetworksList(result)
		},
	}
}
