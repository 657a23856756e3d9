package usecase

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/evm-coprocessor/copro/internal/domain"
	"github.com/evm-coprocessor/copro/internal/domain/config"
	"github.com/evm-coprocessor/copro/internal/domain/models"
)

// ArtifactRepository provides access to compiled contracts
type ArtifactRepository interface {
	// GetArtifact resolves "Name" or "path/to/File.sol:Name" to a single artifact
	GetArtifact(ctx context.Context, contractRef string) (*models.Artifact, error)
	ListContracts(ctx context.Context) ([]string, error)
}

// DeploymentRepository is the per-chain deployment journal
type DeploymentRepository interface {
	GetDeployment(ctx context.Context, chainID uint64, futureID string) (*models.Deployment, error)
	ListDeployments(ctx context.Context, filter domain.DeploymentFilter) ([]*models.Deployment, error)
	SaveDeployment(ctx context.Context, deployment *models.Deployment) error
	DeleteDeployment(ctx context.Context, chainID uint64, futureID string) error
}

// WatcherStateRepository persists the job watcher cursor
type WatcherStateRepository interface {
	Load(ctx context.Context, chainID uint64, contract common.Address) (*models.WatcherState, error)
	Save(ctx context.Context, state *models.WatcherState) error
}

// LocalConfigRepository manages local configuration persistence
type LocalConfigRepository interface {
	Exists() bool
	Load(ctx context.Context) (*config.LocalConfig, error)
	Save(ctx context.Context, config *config.LocalConfig) error
	GetPath() string
}

// FileWriter creates project files
type FileWriter interface {
	WriteFile(ctx context.Context, path string, content string) error
	FileExists(ctx context.Context, path string) (bool, error)
	EnsureDirectory(ctx context.Context, path string) error
}

// NetworkResolver handles network configuration resolution
type NetworkResolver interface {
	GetNetworks(ctx context.Context) []string
	ResolveNetwork(ctx context.Context, networkName string) (*config.Network, error)
}

// Signer signs transactions for one account
type Signer interface {
	Address() common.Address
	SignTx(tx *types.Transaction, chainID *big.Int) (*types.Transaction, error)
	TransactOpts(ctx context.Context, chainID *big.Int) (*bind.TransactOpts, error)
}

// SignerProvider resolves named accounts to signers
type SignerProvider interface {
	// Signer returns the signer for the named account. An empty name selects
	// the default account. Returns domain.ErrNoSigner when nothing is configured.
	Signer(ctx context.Context, account string) (Signer, error)
}

// ChainClient is a connection to one chain, optionally bound to a signer
type ChainClient interface {
	ChainID() uint64
	CodeAt(ctx context.Context, address common.Address) ([]byte, error)
	Deploy(ctx context.Context, contractABI *abi.ABI, bytecode []byte, args ...any) (common.Address, *types.Transaction, error)
	Transact(ctx context.Context, address common.Address, contractABI *abi.ABI, method string, args ...any) (*types.Transaction, error)
	Call(ctx context.Context, address common.Address, contractABI *abi.ABI, method string, args ...any) ([]any, error)
	WaitMined(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
	BlockNumber(ctx context.Context) (uint64, error)
	FilterLogs(ctx context.Context, query ethereum.FilterQuery) ([]types.Log, error)
	NextBaseFee(ctx context.Context, historyBlocks uint64) (*big.Int, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	Close()
}

// ChainConnector opens chain clients
type ChainConnector interface {
	// Connect dials the network and verifies its chain ID. signer may be nil
	// for read-only use.
	Connect(ctx context.Context, network *config.Network, signer Signer) (ChainClient, error)
}

// Confirmer asks the user to confirm an action
type Confirmer interface {
	Confirm(ctx context.Context, message string) (bool, error)
}

// Selector picks one option interactively
type Selector interface {
	SelectOption(ctx context.Context, prompt string, options []string) (string, error)
}

// JobProcessor computes the result reported back for a job
type JobProcessor interface {
	Process(ctx context.Context, job models.Job) (string, error)
}

// WatcherMetrics records job watcher activity
type WatcherMetrics interface {
	JobProcessed()
	CallbackSubmitted(status models.CallbackStatus)
	BlockHeight(height uint64)
}

// Progress tracking interfaces

// ProgressEvent represents a progress update
type ProgressEvent struct {
	Stage   string
	Message string
	Spinner bool
}

// ProgressSink receives progress events
type ProgressSink interface {
	OnProgress(ctx context.Context, event ProgressEvent)
	Info(message string)
	Error(message string)
}

// NopProgress is a no-op implementation of ProgressSink
type NopProgress struct{}

func (NopProgress) OnProgress(context.Context, ProgressEvent) {}
func (NopProgress) Info(string)                               {}
func (NopProgress) Error(string)                              {}

// NopMetrics is a no-op implementation of WatcherMetrics
type NopMetrics struct{}

func (NopMetrics) JobProcessed()                           {}
func (NopMetrics) CallbackSubmitted(models.CallbackStatus) {}
func (NopMetrics) BlockHeight(uint64)                      {}

// requireNetwork returns the selected network or why there is none
func requireNetwork(cfg *config.RuntimeConfig) (*config.Network, error) {
	if cfg.Network != nil {
		return cfg.Network, nil
	}
	if cfg.NetworkError != nil {
		return nil, cfg.NetworkError
	}
	return nil, domain.ErrNetworkRequired
}
