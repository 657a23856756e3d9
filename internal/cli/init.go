package cli

import (
	"github.com/evm-coprocessor/copro/internal/cli/render"
	"github.com/evm-coprocessor/copro/internal/usecase"
	"github.com/spf13/cobra"
)

// NewInitCmd creates the init command
func NewInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize copro in a Hardhat or Foundry project",
		Long: `Initialize copro in the current project.

This command:
- Detects Hardhat or Foundry and points copro at its artifacts
- Writes copro.toml with a local network and an account reading PRIVATE_KEY
- Creates the .copro data directory and a .env.example

Existing files are left untouched.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.InitProject.Run(cmd.Context(), usecase.InitProjectParams{
				Dir: app.Config.ProjectRoot,
			})
			if err != nil {
				return err
			}

			return render.NewInitRenderer(cmd.OutOrStdout()).Render(result)
		},
	}
}
