package usecase_test

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/evm-coprocessor/copro/internal/adapters/accounts"
	"github.com/evm-coprocessor/copro/internal/adapters/artifacts"
	"github.com/evm-coprocessor/copro/internal/adapters/blockchain"
	"github.com/evm-coprocessor/copro/internal/adapters/fs"
	"github.com/evm-coprocessor/copro/internal/adapters/repository/deployments"
	"github.com/evm-coprocessor/copro/internal/domain/config"
	"github.com/evm-coprocessor/copro/internal/domain/models"
	"github.com/evm-coprocessor/copro/internal/testutil"
	"github.com/evm-coprocessor/copro/internal/usecase"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// simConnector hands out clients bound to a simulated chain
type simConnector struct {
	chain    *testutil.Chain
	connects int
}

func (c *simConnector) Connect(ctx context.Context, network *config.Network, signer usecase.Signer) (usecase.ChainClient, error) {
	c.connects++
	client := blockchain.NewClient(c.chain.Client, testutil.SimulatedChainID, signer, testLogger)
	return client.WithPollInterval(10 * time.Millisecond), nil
}

type staticSigners struct {
	signer usecase.Signer
}

func (s staticSigners) Signer(ctx context.Context, account string) (usecase.Signer, error) {
	return s.signer, nil
}

type MockConfirmer struct {
	mock.Mock
}

func (m *MockConfirmer) Confirm(ctx context.Context, message string) (bool, error) {
	args := m.Called(ctx, message)
	return args.Bool(0), args.Error(1)
}

// harness wires use cases to real adapters over a simulated chain
type harness struct {
	chain     *testutil.Chain
	cfg       *config.RuntimeConfig
	signer    *accounts.KeySigner
	artifacts *artifacts.Repository
	journal   *deployments.FileRepository
	states    *fs.WatcherStateStoreAdapter
	connector *simConnector
	confirmer *MockConfirmer
}

func newHarness(t *testing.T, bytecode []byte) *harness {
	t.Helper()
	root := t.TempDir()
	testutil.WriteHardhatArtifact(t, root, bytecode)

	cfg := &config.RuntimeConfig{
		ProjectRoot:    root,
		DataDir:        filepath.Join(root, ".copro"),
		NonInteractive: true,
		Network: &config.Network{
			Name:    "simulated",
			ChainID: testutil.SimulatedChainID,
			RPCURL:  "simulated://",
		},
		Project: config.DefaultProjectConfig(),
		Local:   config.DefaultLocalConfig(),
	}
	chain := testutil.NewChain(t)

	return &harness{
		chain:     chain,
		cfg:       cfg,
		signer:    accounts.NewKeySignerFromKey(chain.Key),
		artifacts: artifacts.NewRepository(cfg, testLogger),
		journal:   deployments.NewFileRepositoryFromConfig(cfg),
		states:    fs.NewWatcherStateStoreAdapter(cfg),
		connector: &simConnector{chain: chain},
		confirmer: &MockConfirmer{},
	}
}

func (h *harness) deployModule() *usecase.DeployModule {
	return usecase.NewDeployModule(h.cfg, h.artifacts, h.journal, h.connector, staticSigners{h.signer}, h.confirmer, usecase.NopProgress{}, testLogger)
}

func (h *harness) submitJob() *usecase.SubmitJob {
	return usecase.NewSubmitJob(h.cfg, h.artifacts, h.connector, staticSigners{h.signer}, usecase.NopProgress{}, testLogger)
}

func (h *harness) watchJobs(processor usecase.JobProcessor, metrics usecase.WatcherMetrics) *usecase.WatchJobs {
	return usecase.NewWatchJobs(h.cfg, h.connector, staticSigners{h.signer}, h.states, processor, metrics, testLogger)
}

func (h *harness) client() *blockchain.Client {
	return blockchain.NewClient(h.chain.Client, testutil.SimulatedChainID, h.signer, testLogger).WithPollInterval(10 * time.Millisecond)
}

// deploy runs the Coprocessor module and returns the contract address
func (h *harness) deploy(t *testing.T, dependency string) common.Address {
	t.Helper()
	result, err := h.deployModule().Run(context.Background(), usecase.DeployModuleParams{Dependency: dependency})
	require.NoError(t, err)
	return common.HexToAddress(result.Results["coprocessor"])
}

func (h *harness) nonce(t *testing.T) uint64 {
	t.Helper()
	nonce, err := h.chain.Client.PendingNonceAt(context.Background(), h.signer.Address())
	require.NoError(t, err)
	return nonce
}

// countingMetrics records watcher metrics in memory
type countingMetrics struct {
	jobs      int
	callbacks map[models.CallbackStatus]int
	height    uint64
}

func newCountingMetrics() *countingMetrics {
	return &countingMetrics{callbacks: make(map[models.CallbackStatus]int)}
}

func (m *countingMetrics) JobProcessed() { m.jobs++ }

func (m *countingMetrics) CallbackSubmitted(status models.CallbackStatus) { m.callbacks[status]++ }

func (m *countingMetrics) BlockHeight(height uint64) { m.height = height }

// testSigner returns a signer for the first anvil development account
func testSigner(t *testing.T) *accounts.KeySigner {
	t.Helper()
	signer, err := accounts.NewKeySigner("ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcb78ae8cf2b38d0e4")
	require.NoError(t, err)
	return signer
}
