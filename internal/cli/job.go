package cli

import (
	"github.com/evm-coprocessor/copro/internal/cli/render"
	"github.com/evm-coprocessor/copro/internal/domain/models"
	"github.com/evm-coprocessor/copro/internal/usecase"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// NewJobCmd creates the job command group
func NewJobCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "job",
		Short: "Submit and answer Coprocessor jobs",
	}

	cmd.AddCommand(NewJobNewCmd())
	cmd.AddCommand(NewJobWatchCmd())

	return cmd
}

// NewJobNewCmd creates the job new subcommand
func NewJobNewCmd() *cobra.Command {
	var params usecase.SubmitJobParams

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Call newJob() on a deployed Coprocessor",
		Long: `Call newJob() on a deployed Coprocessor and print the transaction.

The target is --address, else the contract set with 'copro config set contract',
else [coprocessor].address in copro.toml.`,
		Example: `  copro job new
  copro job new --address 0x5FbDB2315678afecb367f032d93F642f64180aa3 --wait
  copro job new --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			submission, err := app.SubmitJob.Run(cmd.Context(), params)
			if err != nil {
				return err
			}

			if format := outputFormat(app); format != render.FormatText {
				return render.RenderStructured(cmd.OutOrStdout(), format, render.SubmissionOutput(submission))
			}
			return render.NewJobRenderer(cmd.OutOrStdout(), app.Config.Network).RenderSubmission(submission)
		},
	}

	cmd.Flags().StringVar(&params.Address, "address", "", "Coprocessor address")
	cmd.Flags().StringVar(&params.ContractName, "contract", "", "Contract whose ABI is used (defaults to [coprocessor].contract)")
	cmd.Flags().BoolVar(&params.Wait, "wait", false, "Wait for the receipt and print the new job ids")

	return cmd
}

// NewJobWatchCmd creates the job watch subcommand
func NewJobWatchCmd() *cobra.Command {
	var (
		params      usecase.WatchJobsParams
		once        bool
		metricsAddr string
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Answer NewJob events with callback transactions",
		Long: `Poll the Coprocessor for NewJob events and answer each one with a
callback(string) transaction carrying [watch].result.

The last processed block and the next nonce are kept in .copro/watcher so a
restarted watcher continues where it stopped. Without stored state the first
pass starts at --from-block, else [watch].start_block, else block 1.`,
		Example: `  copro job watch --network sepolia --from-block 7200000
  copro job watch --once
  copro job watch --metrics-addr :9090`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			renderer := render.NewJobRenderer(cmd.OutOrStdout(), app.Config.Network)
			format := outputFormat(app)

			onSync := func(result *models.SyncResult) {
				if format != render.FormatText {
					_ = render.RenderStructured(cmd.OutOrStdout(), format, result)
					return
				}
				_ = renderer.RenderSync(result)
			}

			if once {
				result, err := app.WatchJobs.Sync(cmd.Context(), params)
				if err != nil {
					return err
				}
				onSync(result)
				return nil
			}

			if metricsAddr == "" {
				metricsAddr = app.Config.Project.Watch.MetricsAddr
			}
			if metricsAddr == "" {
				return app.WatchJobs.Run(cmd.Context(), params, onSync)
			}

			g, ctx := errgroup.WithContext(cmd.Context())
			g.Go(func() error {
				return app.Metrics.Serve(ctx, metricsAddr, app.Log)
			})
			g.Go(func() error {
				return app.WatchJobs.Run(ctx, params, onSync)
			})
			return g.Wait()
		},
	}

	cmd.Flags().StringVar(&params.Address, "address", "", "Coprocessor address (defaults to the configured contract)")
	cmd.Flags().Uint64Var(&params.FromBlock, "from-block", 0, "First block to scan when no watcher state is stored (defaults to [watch].start_block)")
	cmd.Flags().BoolVar(&once, "once", false, "Run a single pass and exit")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve /metrics and /healthz on this address (defaults to [watch].metrics_addr)")

	return cmd
}
