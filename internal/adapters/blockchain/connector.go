package blockchain

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/evm-coprocessor/copro/internal/domain"
	"github.com/evm-coprocessor/copro/internal/domain/config"
	"github.com/evm-coprocessor/copro/internal/usecase"
)

// Connector dials networks over JSON-RPC
type Connector struct {
	log *slog.Logger
}

// NewConnector creates a new Connector
func NewConnector(log *slog.Logger) *Connector {
	return &Connector{log: log}
}

// Connect dials the network RPC and checks that it serves the expected chain.
// A network with chain ID 0 adopts whatever the RPC reports.
func (c *Connector) Connect(ctx context.Context, network *config.Network, signer usecase.Signer) (usecase.ChainClient, error) {
	if network == nil || network.RPCURL == "" {
		return nil, domain.ErrNetworkRequired
	}

	client, err := ethclient.DialContext(ctx, network.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC: %w", err)
	}

	chainID, err := VerifyChainID(ctx, client, network.ChainID)
	if err != nil {
		client.Close()
		return nil, err
	}

	c.log.Debug("connected", "network", network.Name, "chainId", chainID)
	return NewClient(client, chainID, signer, c.log), nil
}

// VerifyChainID asks the backend for its chain ID and compares it with expected
func VerifyChainID(ctx context.Context, backend Backend, expected uint64) (uint64, error) {
	networkChainID, err := backend.ChainID(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get chain ID: %w", err)
	}
	if expected != 0 && networkChainID.Uint64() != expected {
		return 0, fmt.Errorf("%w: expected chain ID %d, RPC reports %d", domain.ErrNetworkMismatch, expected, networkChainID.Uint64())
	}
	return networkChainID.Uint64(), nil
}

var _ usecase.ChainConnector = (*Connector)(nil)
