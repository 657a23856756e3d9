package config

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/evm-coprocessor/copro/internal/domain/config"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

// seedChainIDCache lets tests resolve networks without an RPC
func seedChainIDCache(t *testing.T, dataDir string, rpcs map[string]uint64) {
	t.Helper()
	data, err := json.Marshal(NetworkCache{Networks: map[string]uint64{}, RPCs: rpcs})
	require.NoError(t, err)
	writeFile(t, filepath.Join(dataDir, "cache", "chainIds.json"), string(data))
}

const projectTOML = `
[project]
default_network = "localhost"
default_account = "deployer"

[rpc_endpoints]
localhost = "http://127.0.0.1:8545"
sepolia = "${TEST_SEPOLIA_RPC_URL}"

[accounts.deployer]
type = "private_key"
private_key = "${TEST_DEPLOYER_KEY}"

[coprocessor]
dependency = "0x5FbDB2315678afecb367f032d93F642f64180aa3"

[watch]
interval = "15s"
priority_fee_wei = 2000000000
`

func TestLoadProjectConfig(t *testing.T) {
	t.Run("missing file yields defaults", func(t *testing.T) {
		cfg, err := LoadProjectConfig(t.TempDir())
		require.NoError(t, err)
		assert.Equal(t, config.DefaultProjectConfig(), cfg)
	})

	t.Run("merges over defaults and expands env", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, filepath.Join(root, ProjectFile), projectTOML)
		writeFile(t, filepath.Join(root, ".env"), "TEST_DEPLOYER_KEY=0xabc\n")
		t.Setenv("TEST_SEPOLIA_RPC_URL", "https://sepolia.example")
		t.Cleanup(func() { os.Unsetenv("TEST_DEPLOYER_KEY") })

		cfg, err := LoadProjectConfig(root)
		require.NoError(t, err)

		assert.Equal(t, "https://sepolia.example", cfg.RpcEndpoints["sepolia"])
		assert.Equal(t, "0xabc", cfg.Accounts["deployer"].PrivateKey)
		assert.Equal(t, config.AccountTypePrivateKey, cfg.Accounts["deployer"].Type)
		assert.Equal(t, "0x5FbDB2315678afecb367f032d93F642f64180aa3", cfg.Coprocessor.Dependency)

		// untouched keys keep their defaults
		assert.Equal(t, config.DefaultContractName, cfg.Coprocessor.Contract)
		assert.Equal(t, config.DefaultContractAddress, cfg.Coprocessor.Address)
		assert.Equal(t, uint64(50000), cfg.Watch.GasLimit)

		assert.Equal(t, 15*time.Second, cfg.Watch.Interval)
		assert.Equal(t, int64(2000000000), cfg.Watch.PriorityFeeWei)
	})

	t.Run("invalid toml", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, filepath.Join(root, ProjectFile), "[project\n")

		_, err := LoadProjectConfig(root)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse copro.toml")
	})
}

func TestFindProjectRoot(t *testing.T) {
	root, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	writeFile(t, filepath.Join(root, ProjectFile), "")
	nested := filepath.Join(root, "contracts", "src")
	require.NoError(t, os.MkdirAll(nested, 0755))

	t.Chdir(nested)
	found, err := FindProjectRoot()
	require.NoError(t, err)
	assert.Equal(t, root, found)

	t.Chdir(t.TempDir())
	_, err = FindProjectRoot()
	assert.ErrorContains(t, err, "copro init")
}

func newFlags() *pflag.FlagSet {
	flags := pflag.NewFlagSet("copro", pflag.ContinueOnError)
	flags.StringP("network", "n", "", "")
	flags.StringP("account", "a", "", "")
	flags.Bool("non-interactive", false, "")
	flags.Bool("json", false, "")
	flags.Bool("yes", false, "")
	return flags
}

func TestProvider(t *testing.T) {
	root := t.TempDir()
	dataDir := filepath.Join(root, DataDirName)
	writeFile(t, filepath.Join(root, ProjectFile), projectTOML)
	t.Setenv("TEST_SEPOLIA_RPC_URL", "https://sepolia.example")
	seedChainIDCache(t, dataDir, map[string]uint64{
		"http://127.0.0.1:8545":   31337,
		"https://sepolia.example": 11155111,
	})

	t.Run("default network from copro.toml", func(t *testing.T) {
		flags := newFlags()
		require.NoError(t, flags.Parse([]string{"--non-interactive"}))

		cfg, err := Provider(SetupViper(root, flags))
		require.NoError(t, err)
		assert.Equal(t, root, cfg.ProjectRoot)
		assert.Equal(t, dataDir, cfg.DataDir)
		assert.True(t, cfg.NonInteractive)
		require.NotNil(t, cfg.Network)
		assert.Equal(t, "localhost", cfg.Network.Name)
		assert.Equal(t, uint64(31337), cfg.Network.ChainID)
		assert.Equal(t, config.DefaultLocalConfig(), cfg.Local)
	})

	t.Run("local config overrides default network", func(t *testing.T) {
		writeFile(t, filepath.Join(dataDir, "config.local.json"), `{"network":"sepolia","contract":"0x5FbDB2315678afecb367f032d93F642f64180aa3","account":"ops"}`)
		t.Cleanup(func() { os.Remove(filepath.Join(dataDir, "config.local.json")) })

		cfg, err := Provider(SetupViper(root, newFlags()))
		require.NoError(t, err)
		assert.Equal(t, "sepolia", cfg.Network.Name)
		assert.Equal(t, uint64(11155111), cfg.Network.ChainID)
		assert.Equal(t, "ops", cfg.Account)
		assert.Equal(t, "0x5FbDB2315678afecb367f032d93F642f64180aa3", cfg.ContractAddress())

		flags := newFlags()
		require.NoError(t, flags.Parse([]string{"-n", "localhost", "-a", "deployer"}))
		cfg, err = Provider(SetupViper(root, flags))
		require.NoError(t, err)
		assert.Equal(t, "localhost", cfg.Network.Name)
		assert.Equal(t, "deployer", cfg.Account)
	})

	t.Run("env var selects network", func(t *testing.T) {
		t.Setenv("COPRO_NETWORK", "sepolia")

		cfg, err := Provider(SetupViper(root, newFlags()))
		require.NoError(t, err)
		assert.Equal(t, "sepolia", cfg.Network.Name)
	})

	t.Run("unknown network", func(t *testing.T) {
		flags := newFlags()
		require.NoError(t, flags.Parse([]string{"--network", "mainnet"}))

		cfg, err := Provider(SetupViper(root, flags))
		require.NoError(t, err)
		assert.Nil(t, cfg.Network)
		require.Error(t, cfg.NetworkError)
		assert.Contains(t, cfg.NetworkError.Error(), "network 'mainnet' not found")
	})
}

// rpcServer answers eth_chainId with chainID and counts the calls
func rpcServer(t *testing.T, chainID string) (*httptest.Server, *int) {
	t.Helper()
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		var req struct {
			ID     json.RawMessage `json:"id"`
			Method string          `json:"method"`
		}
		require.NoError(t, json.Unmarshal(body, &req))
		assert.Equal(t, "eth_chainId", req.Method)
		calls++

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":` + string(req.ID) + `,"result":"` + chainID + `"}`))
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func TestNetworkResolver(t *testing.T) {
	ctx := t.Context()
	srv, calls := rpcServer(t, "0xaa36a7")
	dataDir := t.TempDir()

	project := config.DefaultProjectConfig()
	project.RpcEndpoints = map[string]string{
		"sepolia": srv.URL,
		"broken":  "",
	}
	project.Explorers = map[string]string{"sepolia": "https://sepolia.etherscan.io"}

	resolver := NewNetworkResolver(dataDir, project)
	assert.Equal(t, []string{"broken", "sepolia"}, resolver.GetNetworks(ctx))

	network, err := resolver.ResolveNetwork(ctx, "sepolia")
	require.NoError(t, err)
	assert.Equal(t, &config.Network{
		Name:        "sepolia",
		ChainID:     11155111,
		RPCURL:      srv.URL,
		ExplorerURL: "https://sepolia.etherscan.io",
	}, network)
	assert.Equal(t, 1, *calls)

	t.Run("cached across resolvers", func(t *testing.T) {
		again, err := NewNetworkResolver(dataDir, project).ResolveNetwork(ctx, "sepolia")
		require.NoError(t, err)
		assert.Equal(t, uint64(11155111), again.ChainID)
		assert.Equal(t, 1, *calls)
	})

	t.Run("empty rpc url", func(t *testing.T) {
		_, err := resolver.ResolveNetwork(ctx, "broken")
		assert.ErrorContains(t, err, "empty RPC URL")
	})

	t.Run("corrupt cache is ignored", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "cache", "chainIds.json"), "{not json")

		network, err := NewNetworkResolver(dir, project).ResolveNetwork(ctx, "sepolia")
		require.NoError(t, err)
		assert.Equal(t, uint64(11155111), network.ChainID)
	})
}
