package cli

import (
	"github.com/evm-coprocessor/copro/internal/cli/render"
	"github.com/spf13/cobra"
)

// NewAddressCmd creates the address command
func NewAddressCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "address",
		Short: "Print the address of the signing account",
		Long: `Print the address that signs deployments, jobs and callbacks.

The account comes from --account, the local config or default_account in
copro.toml. Without a configured key the PRIVATE_KEY environment variable
is used.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.ShowSigner.Run(cmd.Context())
			if err != nil {
				return err
			}

			if format := outputFormat(app); format != render.FormatText {
				return render.RenderStructured(cmd.OutOrStdout(), format, result)
			}
			return render.NewJobRenderer(cmd.OutOrStdout(), app.Config.Network).RenderSigner(result)
		},
	}
}
