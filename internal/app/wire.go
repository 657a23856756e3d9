//go:build wireinject
// +build wireinject

package app

import (
	"github.com/evm-coprocessor/copro/internal/adapters"
	"github.com/evm-coprocessor/copro/internal/config"
	"github.com/evm-coprocessor/copro/internal/logging"
	"github.com/evm-coprocessor/copro/internal/usecase"
	"github.com/google/wire"
	"github.com/spf13/viper"
)

// InitApp creates a fully wired App instance
func InitApp(v *viper.Viper) (*App, error) {
	wire.Build(
		config.Provider,
		logging.LoggingSet,

		// Adapters
		adapters.AllAdapters,

		// Use cases
		usecase.NewDeployModule,
		usecase.NewSubmitJob,
		usecase.NewWatchJobs,
		usecase.NewShowSigner,
		usecase.NewListDeployments,
		usecase.NewListNetworks,
		usecase.NewShowConfig,
		usecase.NewSetConfig,
		usecase.NewRemoveConfig,
		usecase.NewInitProject,

		// App
		NewApp,
	)
	return nil, nil
}
