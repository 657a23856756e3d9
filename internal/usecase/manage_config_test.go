package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/evm-coprocessor/copro/internal/domain"
	"github.com/evm-coprocessor/copro/internal/domain/config"
	"github.com/evm-coprocessor/copro/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const configPath = "/project/.copro/config.local.json"

func TestSetConfig(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		key       string
		value     string
		wantKey   config.ConfigKey
		wantValue string
		wantErr   string
	}{
		{
			name:      "contract address is checksummed",
			key:       "contract",
			value:     "0xfe15805f952c6a1a465addd993457ec640ee57aa",
			wantKey:   config.ConfigKeyContract,
			wantValue: "0xFe15805f952c6A1a465aDdD993457Ec640Ee57aA",
		},
		{
			name:      "address alias",
			key:       "Address",
			value:     " 0x5FbDB2315678afecb367f032d93F642f64180aa3 ",
			wantKey:   config.ConfigKeyContract,
			wantValue: "0x5FbDB2315678afecb367f032d93F642f64180aa3",
		},
		{
			name:      "network alias",
			key:       "net",
			value:     "sepolia",
			wantKey:   config.ConfigKeyNetwork,
			wantValue: "sepolia",
		},
		{
			name:      "account",
			key:       "account",
			value:     "deployer",
			wantKey:   config.ConfigKeyAccount,
			wantValue: "deployer",
		},
		{
			name:    "unknown key",
			key:     "namespace",
			value:   "default",
			wantErr: "unknown config key: namespace",
		},
		{
			name:    "invalid contract address",
			key:     "contract",
			value:   "0x1234",
			wantErr: "invalid address",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &MockLocalConfigRepository{}
			if tt.wantErr == "" {
				store.On("Load", ctx).Return(&config.LocalConfig{Network: "localhost"}, nil)
				store.On("Save", ctx, mock.AnythingOfType("*config.LocalConfig")).Return(nil)
				store.On("GetPath").Return(configPath)
			}

			result, err := usecase.NewSetConfig(store).Run(ctx, usecase.SetConfigParams{Key: tt.key, Value: tt.value})
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				store.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantKey, result.Key)
			assert.Equal(t, tt.wantValue, result.Value)
			assert.Equal(t, configPath, result.ConfigPath)
			store.AssertExpectations(t)
		})
	}

	t.Run("keeps other keys", func(t *testing.T) {
		store := &MockLocalConfigRepository{}
		store.On("Load", ctx).Return(&config.LocalConfig{Network: "localhost", Account: "deployer"}, nil)
		store.On("Save", ctx, &config.LocalConfig{
			Network:  "localhost",
			Account:  "deployer",
			Contract: "0x5FbDB2315678afecb367f032d93F642f64180aa3",
		}).Return(nil)
		store.On("GetPath").Return(configPath)

		_, err := usecase.NewSetConfig(store).Run(ctx, usecase.SetConfigParams{Key: "contract", Value: "0x5FbDB2315678afecb367f032d93F642f64180aa3"})
		require.NoError(t, err)
		store.AssertExpectations(t)
	})

	t.Run("save failure", func(t *testing.T) {
		store := &MockLocalConfigRepository{}
		store.On("Load", ctx).Return(config.DefaultLocalConfig(), nil)
		store.On("Save", ctx, mock.Anything).Return(errors.New("read-only file system"))

		_, err := usecase.NewSetConfig(store).Run(ctx, usecase.SetConfigParams{Key: "network", Value: "sepolia"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to save config")
	})
}

func TestShowConfig(t *testing.T) {
	ctx := context.Background()

	store := &MockLocalConfigRepository{}
	local := &config.LocalConfig{Network: "sepolia", Contract: "0x5FbDB2315678afecb367f032d93F642f64180aa3"}
	store.On("Load", ctx).Return(local, nil)
	store.On("GetPath").Return(configPath)
	store.On("Exists").Return(true)

	project := config.DefaultProjectConfig()
	project.Project.DefaultAccount = "deployer"
	cfg := &config.RuntimeConfig{
		Network: &config.Network{Name: "sepolia", ChainID: 11155111},
		Project: project,
		Local:   local,
	}

	result, err := usecase.NewShowConfig(store, cfg).Run(ctx)
	require.NoError(t, err)
	assert.True(t, result.Exists)
	assert.Equal(t, local, result.Config)
	assert.Equal(t, "0x5FbDB2315678afecb367f032d93F642f64180aa3", result.Contract)
	assert.Equal(t, "sepolia", result.Network)
	assert.Equal(t, "deployer", result.DefaultAccount)

	t.Run("account flag wins", func(t *testing.T) {
		cfg.Account = "ops"
		result, err := usecase.NewShowConfig(store, cfg).Run(ctx)
		require.NoError(t, err)
		assert.Equal(t, "ops", result.DefaultAccount)
	})

	t.Run("falls back to project address", func(t *testing.T) {
		empty := &MockLocalConfigRepository{}
		empty.On("Load", ctx).Return(config.DefaultLocalConfig(), nil)
		empty.On("GetPath").Return(configPath)
		empty.On("Exists").Return(false)

		result, err := usecase.NewShowConfig(empty, &config.RuntimeConfig{Project: config.DefaultProjectConfig(), Local: config.DefaultLocalConfig()}).Run(ctx)
		require.NoError(t, err)
		assert.False(t, result.Exists)
		assert.Equal(t, config.DefaultContractAddress, result.Contract)
		assert.Empty(t, result.Network)
	})
}

func TestRemoveConfig(t *testing.T) {
	ctx := context.Background()

	t.Run("clears the key", func(t *testing.T) {
		store := &MockLocalConfigRepository{}
		store.On("Exists").Return(true)
		store.On("Load", ctx).Return(&config.LocalConfig{Network: "sepolia", Contract: "0x5FbDB2315678afecb367f032d93F642f64180aa3"}, nil)
		store.On("Save", ctx, &config.LocalConfig{Network: "sepolia"}).Return(nil)
		store.On("GetPath").Return(configPath)

		result, err := usecase.NewRemoveConfig(store).Run(ctx, usecase.RemoveConfigParams{Key: "address"})
		require.NoError(t, err)
		assert.Equal(t, config.ConfigKeyContract, result.Key)
		assert.Equal(t, "0x5FbDB2315678afecb367f032d93F642f64180aa3", result.RemovedValue)
		store.AssertExpectations(t)
	})

	t.Run("missing file", func(t *testing.T) {
		store := &MockLocalConfigRepository{}
		store.On("Exists").Return(false)
		store.On("GetPath").Return(configPath)

		_, err := usecase.NewRemoveConfig(store).Run(ctx, usecase.RemoveConfigParams{Key: "network"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no config file found")
	})

	t.Run("unknown key", func(t *testing.T) {
		store := &MockLocalConfigRepository{}
		store.On("Exists").Return(true)

		_, err := usecase.NewRemoveConfig(store).Run(ctx, usecase.RemoveConfigParams{Key: "rpc"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "contract (address)")
	})
}

func TestShowSigner(t *testing.T) {
	ctx := context.Background()
	cfg := &config.RuntimeConfig{Account: "deployer"}

	t.Run("configured", func(t *testing.T) {
		signer := testSigner(t)
		signers := &MockSignerProvider{}
		signers.On("Signer", ctx, "deployer").Return(signer, nil)

		result, err := usecase.NewShowSigner(cfg, signers).Run(ctx)
		require.NoError(t, err)
		assert.True(t, result.Initialized)
		assert.Equal(t, signer.Address().Hex(), result.Address)
	})

	t.Run("not initialized", func(t *testing.T) {
		signers := &MockSignerProvider{}
		signers.On("Signer", ctx, "deployer").Return(nil, domain.ErrNoSigner)

		result, err := usecase.NewShowSigner(cfg, signers).Run(ctx)
		require.NoError(t, err)
		assert.False(t, result.Initialized)
		assert.Equal(t, usecase.NotInitialized, result.Address)
	})

	t.Run("broken key", func(t *testing.T) {
		signers := &MockSignerProvider{}
		signers.On("Signer", ctx, "deployer").Return(nil, errors.New("invalid private key"))

		_, err := usecase.NewShowSigner(cfg, signers).Run(ctx)
		assert.EqualError(t, err, "invalid private key")
	})
}
