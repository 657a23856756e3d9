package adapters

import (
	"github.com/evm-coprocessor/copro/internal/adapters/accounts"
	"github.com/evm-coprocessor/copro/internal/adapters/artifacts"
	"github.com/evm-coprocessor/copro/internal/adapters/blockchain"
	"github.com/evm-coprocessor/copro/internal/adapters/fs"
	"github.com/evm-coprocessor/copro/internal/adapters/interactive"
	"github.com/evm-coprocessor/copro/internal/adapters/metrics"
	"github.com/evm-coprocessor/copro/internal/adapters/progress"
	"github.com/evm-coprocessor/copro/internal/adapters/repository/deployments"
	"github.com/evm-coprocessor/copro/internal/config"
	"github.com/evm-coprocessor/copro/internal/usecase"
	"github.com/google/wire"
)

// FSSet provides filesystem-based implementations
var FSSet = wire.NewSet(
	fs.NewFileWriterAdapter,
	wire.Bind(new(usecase.FileWriter), new(*fs.FileWriterAdapter)),

	fs.NewLocalConfigStoreAdapter,
	wire.Bind(new(usecase.LocalConfigRepository), new(*fs.LocalConfigStoreAdapter)),

	fs.NewWatcherStateStoreAdapter,
	wire.Bind(new(usecase.WatcherStateRepository), new(*fs.WatcherStateStoreAdapter)),
)

// RepositorySet provides the artifact store and the deployment journal
var RepositorySet = wire.NewSet(
	artifacts.NewRepository,
	wire.Bind(new(usecase.ArtifactRepository), new(*artifacts.Repository)),

	deployments.NewFileRepositoryFromConfig,
	wire.Bind(new(usecase.DeploymentRepository), new(*deployments.FileRepository)),
)

// InteractiveSet provides interactive implementations
var InteractiveSet = wire.NewSet(
	interactive.NewSelectorAdapter,
	wire.Bind(new(usecase.Confirmer), new(*interactive.SelectorAdapter)),
	wire.Bind(new(usecase.Selector), new(*interactive.SelectorAdapter)),

	progress.NewSink,
)

// ConfigSet provides configuration-based implementations
var ConfigSet = wire.NewSet(
	config.ProvideNetworkResolver,
	wire.Bind(new(usecase.NetworkResolver), new(*config.NetworkResolver)),
)

// BlockchainSet provides chain access and signing
var BlockchainSet = wire.NewSet(
	blockchain.NewConnector,
	wire.Bind(new(usecase.ChainConnector), new(*blockchain.Connector)),

	accounts.NewManager,
	wire.Bind(new(usecase.SignerProvider), new(*accounts.Manager)),
)

// WatcherSet provides the job watcher collaborators
var WatcherSet = wire.NewSet(
	usecase.NewStaticResultProcessor,
	wire.Bind(new(usecase.JobProcessor), new(*usecase.StaticResultProcessor)),

	metrics.NewWatcherMetrics,
	wire.Bind(new(usecase.WatcherMetrics), new(*metrics.WatcherMetrics)),
)

// AllAdapters includes all adapter sets
var AllAdapters = wire.NewSet(
	FSSet,
	RepositorySet,
	InteractiveSet,
	ConfigSet,
	BlockchainSet,
	WatcherSet,
)
