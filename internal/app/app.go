package app

import (
	"log/slog"

	"github.com/evm-coprocessor/copro/internal/adapters/metrics"
	"github.com/evm-coprocessor/copro/internal/domain/config"
	"github.com/evm-coprocessor/copro/internal/usecase"
)

// App is the main application container that holds all use cases
type App struct {
	// Configuration
	Config *config.RuntimeConfig
	Log    *slog.Logger

	// Use cases
	DeployModule    *usecase.DeployModule
	SubmitJob       *usecase.SubmitJob
	WatchJobs       *usecase.WatchJobs
	ShowSigner      *usecase.ShowSigner
	ListDeployments *usecase.ListDeployments
	ListNetworks    *usecase.ListNetworks
	ShowConfig      *usecase.ShowConfig
	SetConfig       *usecase.SetConfig
	RemoveConfig    *usecase.RemoveConfig
	InitProject     *usecase.InitProject

	// Adapters (needed for serving /metrics next to the watcher)
	Metrics *metrics.WatcherMetrics
}

// NewApp creates a new application instance with all use cases
func NewApp(
	cfg *config.RuntimeConfig,
	log *slog.Logger,
	deployModule *usecase.DeployModule,
	submitJob *usecase.SubmitJob,
	watchJobs *usecase.WatchJobs,
	showSigner *usecase.ShowSigner,
	listDeployments *usecase.ListDeployments,
	listNetworks *usecase.ListNetworks,
	showConfig *usecase.ShowConfig,
	setConfig *usecase.SetConfig,
	removeConfig *usecase.RemoveConfig,
	initProject *usecase.InitProject,
	watcherMetrics *metrics.WatcherMetrics,
) (*App, error) {
	return &App{
		Config:          cfg,
		Log:             log,
		DeployModule:    deployModule,
		SubmitJob:       submitJob,
		WatchJobs:       watchJobs,
		ShowSigner:      showSigner,
		ListDeployments: listDeployments,
		ListNetworks:    listNetworks,
		ShowConfig:      showConfig,
		SetConfig:       setConfig,
		RemoveConfig:    removeConfig,
		InitProject:     initProject,
		Metrics:         watcherMetrics,
	}, nil
}
