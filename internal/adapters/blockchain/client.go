package blockchain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/evm-coprocessor/copro/internal/domain"
	"github.com/evm-coprocessor/copro/internal/usecase"
)

// Backend is the subset of an RPC client the chain client needs. Both
// *ethclient.Client and the simulated backend client satisfy it.
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
	ChainID(ctx context.Context) (*big.Int, error)
	BlockNumber(ctx context.Context) (uint64, error)
	FeeHistory(ctx context.Context, blockCount uint64, lastBlock *big.Int, rewardPercentiles []float64) (*ethereum.FeeHistory, error)
}

// Client implements usecase.ChainClient on top of a Backend
type Client struct {
	backend      Backend
	chainID      *big.Int
	signer       usecase.Signer
	pollInterval time.Duration
	log          *slog.Logger
}

// NewClient wraps a backend already verified to serve chainID. signer may be nil.
func NewClient(backend Backend, chainID uint64, signer usecase.Signer, log *slog.Logger) *Client {
	return &Client{
		backend:      backend,
		chainID:      new(big.Int).SetUint64(chainID),
		signer:       signer,
		pollInterval: time.Second,
		log:          log.With("component", "ChainClient", "chainId", chainID),
	}
}

// WithPollInterval sets how often WaitMined polls for receipts
func (c *Client) WithPollInterval(interval time.Duration) *Client {
	c.pollInterval = interval
	return c
}

func (c *Client) ChainID() uint64 {
	return c.chainID.Uint64()
}

func (c *Client) transactOpts(ctx context.Context) (*bind.TransactOpts, error) {
	if c.signer == nil {
		return nil, domain.ErrNoSigner
	}
	return c.signer.TransactOpts(ctx, c.chainID)
}

// CodeAt returns the code at address in the latest block
func (c *Client) CodeAt(ctx context.Context, address common.Address) ([]byte, error) {
	code, err := c.backend.CodeAt(ctx, address, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get code at %s: %w", address.Hex(), err)
	}
	return code, nil
}

// Deploy sends a contract creation transaction. The returned address is derived
// from the sender nonce and is only valid once the transaction is mined.
func (c *Client) Deploy(ctx context.Context, contractABI *abi.ABI, bytecode []byte, args ...any) (common.Address, *types.Transaction, error) {
	opts, err := c.transactOpts(ctx)
	if err != nil {
		return common.Address{}, nil, err
	}

	address, tx, _, err := bind.DeployContract(opts, *contractABI, bytecode, c.backend, args...)
	if err != nil {
		return common.Address{}, nil, fmt.Errorf("failed to send deployment: %w", err)
	}
	c.log.Debug("deployment sent", "tx", tx.Hash().Hex(), "address", address.Hex(), "nonce", tx.Nonce())
	return address, tx, nil
}

// Transact invokes a mutating method. Gas estimation failures carry the revert reason.
func (c *Client) Transact(ctx context.Context, address common.Address, contractABI *abi.ABI, method string, args ...any) (*types.Transaction, error) {
	opts, err := c.transactOpts(ctx)
	if err != nil {
		return nil, err
	}

	contract := bind.NewBoundContract(address, *contractABI, c.backend, c.backend, c.backend)
	tx, err := contract.Transact(opts, method, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to call %s on %s: %w", method, address.Hex(), err)
	}
	c.log.Debug("transaction sent", "tx", tx.Hash().Hex(), "method", method, "to", address.Hex())
	return tx, nil
}

// Call invokes a read-only method against the latest block
func (c *Client) Call(ctx context.Context, address common.Address, contractABI *abi.ABI, method string, args ...any) ([]any, error) {
	contract := bind.NewBoundContract(address, *contractABI, c.backend, c.backend, c.backend)

	var out []any
	if err := contract.Call(&bind.CallOpts{Context: ctx}, &out, method, args...); err != nil {
		return nil, fmt.Errorf("failed to call %s on %s: %w", method, address.Hex(), err)
	}
	return out, nil
}

// WaitMined polls for the receipt of txHash until it is available or ctx is done
func (c *Client) WaitMined(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		receipt, err := c.backend.TransactionReceipt(ctx, txHash)
		if err == nil {
			return receipt, nil
		}
		if !errors.Is(err, ethereum.NotFound) {
			c.log.Debug("receipt lookup failed", "tx", txHash.Hex(), "error", err)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

func (c *Client) BlockNumber(ctx context.Context) (uint64, error) {
	return c.backend.BlockNumber(ctx)
}

func (c *Client) FilterLogs(ctx context.Context, query ethereum.FilterQuery) ([]types.Log, error) {
	return c.backend.FilterLogs(ctx, query)
}

// NextBaseFee returns the base fee of the pending block, taken from the last
// entry of the fee history over the most recent historyBlocks blocks.
func (c *Client) NextBaseFee(ctx context.Context, historyBlocks uint64) (*big.Int, error) {
	history, err := c.backend.FeeHistory(ctx, historyBlocks, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get fee history: %w", err)
	}
	if len(history.BaseFee) == 0 {
		return nil, fmt.Errorf("fee history returned no base fees")
	}
	return history.BaseFee[len(history.BaseFee)-1], nil
}

func (c *Client) PendingNonceAt(ctx context.Context, account common.Address) (uint64, error) {
	return c.backend.PendingNonceAt(ctx, account)
}

func (c *Client) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	return c.backend.SendTransaction(ctx, tx)
}

// Close releases the underlying connection if the backend owns one
func (c *Client) Close() {
	if closer, ok := c.backend.(interface{ Close() }); ok {
		closer.Close()
	}
}

var _ usecase.ChainClient = (*Client)(nil)
