package testutil

import (
	"context"
	"crypto/ecdsa"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient/simulated"
	"github.com/stretchr/testify/require"
)

// SimulatedChainID is the chain ID of the simulated backend
const SimulatedChainID = 1337

// Chain is an in-process chain that mines a block for every sent transaction
type Chain struct {
	Backend *simulated.Backend
	Client  *AutoMineClient
	Key     *ecdsa.PrivateKey
	Address common.Address
}

// AutoMineClient commits a block after each transaction it sends
type AutoMineClient struct {
	simulated.Client
	backend *simulated.Backend
}

func (c *AutoMineClient) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	if err := c.Client.SendTransaction(ctx, tx); err != nil {
		return err
	}
	c.backend.Commit()
	return nil
}

// Commit mines a block without transactions of its own
func (c *Chain) Commit() {
	c.Backend.Commit()
}

// NewChain starts a simulated chain with one funded account
func NewChain(t testing.TB) *Chain {
	t.Helper()

	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	address := crypto.PubkeyToAddress(key.PublicKey)

	balance := new(big.Int).Mul(big.NewInt(1000), big.NewInt(1e18))
	backend := simulated.NewBackend(types.GenesisAlloc{
		address: {Balance: balance},
	})
	t.Cleanup(func() { _ = backend.Close() })

	return &Chain{
		Backend: backend,
		Client:  &AutoMineClient{Client: backend.Client(), backend: backend},
		Key:     key,
		Address: address,
	}
}
