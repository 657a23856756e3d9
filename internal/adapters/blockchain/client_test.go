package blockchain

import (
	"context"
	"io"
	"log/slog"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/evm-coprocessor/copro/internal/adapters/accounts"
	"github.com/evm-coprocessor/copro/internal/domain"
	"github.com/evm-coprocessor/copro/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDependency = common.HexToAddress("0xCFa17195BfD87CDE897392f01ebd8450a28243d7")

func newTestClient(t *testing.T) (*Client, *testutil.Chain) {
	t.Helper()
	chain := testutil.NewChain(t)
	signer := accounts.NewKeySignerFromKey(chain.Key)
	client := NewClient(chain.Client, testutil.SimulatedChainID, signer, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return client.WithPollInterval(10 * time.Millisecond), chain
}

func deployCoprocessor(t *testing.T, client *Client, bytecode []byte) common.Address {
	t.Helper()
	ctx := context.Background()

	address, tx, err := client.Deploy(ctx, testutil.MustParseCoprocessorABI(t), bytecode, testDependency)
	require.NoError(t, err)

	receipt, err := client.WaitMined(ctx, tx.Hash())
	require.NoError(t, err)
	require.Equal(t, types.ReceiptStatusSuccessful, receipt.Status)
	require.Equal(t, address, receipt.ContractAddress)
	return address
}

func TestClient_DeployAndCall(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()
	contractABI := testutil.MustParseCoprocessorABI(t)

	address := deployCoprocessor(t, client, testutil.CoprocessorBytecode())

	code, err := client.CodeAt(ctx, address)
	require.NoError(t, err)
	assert.NotEmpty(t, code)

	out, err := client.Call(ctx, address, contractABI, "dependency")
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, testDependency, out[0])
}

func TestClient_TransactEmitsJob(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()
	contractABI := testutil.MustParseCoprocessorABI(t)
	address := deployCoprocessor(t, client, testutil.CoprocessorBytecode())

	tx, err := client.Transact(ctx, address, contractABI, "newJob")
	require.NoError(t, err)
	assert.Equal(t, address, *tx.To())
	assert.Equal(t, contractABI.Methods["newJob"].ID, tx.Data())

	receipt, err := client.WaitMined(ctx, tx.Hash())
	require.NoError(t, err)
	assert.Equal(t, types.ReceiptStatusSuccessful, receipt.Status)
	require.Len(t, receipt.Logs, 1)
	assert.Equal(t, crypto.Keccak256Hash([]byte("NewJob(uint256)")), receipt.Logs[0].Topics[0])
	assert.Equal(t, common.LeftPadBytes([]byte{1}, 32), receipt.Logs[0].Data)

	out, err := client.Call(ctx, address, contractABI, "jobCount")
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(1), out[0].(*big.Int))
}

func TestClient_TransactSurfacesRevertReason(t *testing.T) {
	client, _ := newTestClient(t)
	address := deployCoprocessor(t, client, testutil.RevertingCoprocessorBytecode())

	_, err := client.Transact(context.Background(), address, testutil.MustParseCoprocessorABI(t), "newJob")
	require.Error(t, err)
	assert.Contains(t, err.Error(), testutil.PausedReason)
}

func TestClient_WithoutSigner(t *testing.T) {
	chain := testutil.NewChain(t)
	client := NewClient(chain.Client, testutil.SimulatedChainID, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))

	_, _, err := client.Deploy(context.Background(), testutil.MustParseCoprocessorABI(t), testutil.CoprocessorBytecode(), testDependency)
	assert.ErrorIs(t, err, domain.ErrNoSigner)
}

func TestClient_NextBaseFee(t *testing.T) {
	client, chain := newTestClient(t)
	chain.Commit()

	fee, err := client.NextBaseFee(context.Background(), 10)
	require.NoError(t, err)
	assert.Positive(t, fee.Sign())
}

func TestClient_WaitMinedHonoursContext(t *testing.T) {
	client, _ := newTestClient(t)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.WaitMined(ctx, common.HexToHash("0x01"))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestVerifyChainID(t *testing.T) {
	chain := testutil.NewChain(t)
	ctx := context.Background()

	id, err := VerifyChainID(ctx, chain.Client, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(testutil.SimulatedChainID), id)

	id, err = VerifyChainID(ctx, chain.Client, testutil.SimulatedChainID)
	require.NoError(t, err)
	assert.Equal(t, uint64(testutil.SimulatedChainID), id)

	_, err = VerifyChainID(ctx, chain.Client, 1)
	assert.ErrorIs(t, err, domain.ErrNetworkMismatch)
}

func TestConnector_RequiresRPC(t *testing.T) {
	connector := NewConnector(slog.New(slog.NewTextHandler(io.Discard, nil)))

	_, err := connector.Connect(context.Background(), nil, nil)
	assert.ErrorIs(t, err, domain.ErrNetworkRequired)
}
