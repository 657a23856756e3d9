package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/evm-coprocessor/copro/internal/app"
	"github.com/evm-coprocessor/copro/internal/cli/render"
	"github.com/evm-coprocessor/copro/internal/config"
	"github.com/spf13/cobra"
)

// contextKey is the type for context keys
type contextKey string

const (
	// appKey is the context key for the app instance
	appKey contextKey = "app"
)

// commands that run without a copro.toml
var projectless = map[string]bool{
	"init": true,
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	// Releases the --timeout context once the command returns
	var cancelTimeout context.CancelFunc = func() {}

	rootCmd := &cobra.Command{
		Use:   "copro",
		Short: "Deploy a Coprocessor contract and drive its job queue",
		Long: `copro deploys the CoprocessorModule to an EVM chain, submits jobs to a
deployed Coprocessor with newJob(), and answers NewJob events with callbacks.

Networks, accounts and defaults live in copro.toml at the project root.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Skip for help/version commands
			if cmd.Name() == "version" || cmd.Name() == "help" || cmd.Name() == "completion" {
				return nil
			}

			projectRoot, err := config.FindProjectRoot()
			if err != nil {
				if !projectless[cmd.Name()] {
					return err
				}
				if projectRoot, err = os.Getwd(); err != nil {
					return err
				}
			}

			v := config.SetupViper(projectRoot, cmd.Flags())

			appInstance, err := app.InitApp(v)
			if err != nil {
				return fmt.Errorf("failed to initialize app: %w", err)
			}

			ctx := context.WithValue(cmd.Context(), appKey, appInstance)
			if appInstance.Config.Timeout > 0 {
				ctx, cancelTimeout = context.WithTimeout(ctx, appInstance.Config.Timeout)
			}
			cmd.SetContext(ctx)

			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringP("network", "n", "", "Network from [rpc_endpoints] (defaults to config or default_network)")
	rootCmd.PersistentFlags().StringP("account", "a", "", "Signing account from [accounts] (defaults to default_account)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug output")
	rootCmd.PersistentFlags().Bool("non-interactive", false, "Disable interactive prompts")
	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON")
	rootCmd.PersistentFlags().Bool("yaml", false, "Output as YAML")
	rootCmd.PersistentFlags().BoolP("yes", "y", false, "Skip confirmation prompts")
	rootCmd.PersistentFlags().Duration("timeout", 0, "Abort the command after this duration (0 disables)")
	rootCmd.MarkFlagsMutuallyExclusive("json", "yaml")

	rootCmd.AddGroup(&cobra.Group{
		ID:    "main",
		Title: "Main Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "management",
		Title: "Management Commands",
	})

	for _, cmd := range []*cobra.Command{NewDeployCmd(), NewJobCmd(), NewAddressCmd()} {
		cmd.GroupID = "main"
		rootCmd.AddCommand(cmd)
	}
	for _, cmd := range []*cobra.Command{NewInitCmd(), NewDeploymentsCmd(), NewNetworksCmd(), NewConfigCmd()} {
		cmd.GroupID = "management"
		rootCmd.AddCommand(cmd)
	}
	rootCmd.AddCommand(NewVersionCmd())

	releaseAfterRun(rootCmd, func() { cancelTimeout() })

	return rootCmd
}

// releaseAfterRun wraps every RunE in the tree so release runs on each exit
// path. PostRun hooks are skipped when RunE fails.
func releaseAfterRun(cmd *cobra.Command, release func()) {
	for _, child := range cmd.Commands() {
		releaseAfterRun(child, release)
	}
	if run := cmd.RunE; run != nil {
		cmd.RunE = func(cmd *cobra.Command, args []string) error {
			defer release()
			return run(cmd, args)
		}
	}
}

// getApp retrieves the app instance from the command context
func getApp(cmd *cobra.Command) (*app.App, error) {
	appInstance := cmd.Context().Value(appKey)
	if appInstance == nil {
		return nil, fmt.Errorf("app not initialized")
	}

	app, ok := appInstance.(*app.App)
	if !ok {
		return nil, fmt.Errorf("invalid app instance")
	}

	return app, nil
}

// outputFormat returns the format selected by --json or --yaml
func outputFormat(app *app.App) render.Format {
	switch {
	case app.Config.JSON:
		return render.FormatJSON
	case app.Config.YAML:
		return render.FormatYAML
	}
	return render.FormatText
}
