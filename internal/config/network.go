package config

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/evm-coprocessor/copro/internal/domain/config"
	"github.com/evm-coprocessor/copro/internal/usecase"
	"github.com/samber/lo"
)

const chainIDTimeout = 10 * time.Second

// NetworkResolver resolves [rpc_endpoints] names to networks, caching chain IDs
// per RPC URL under <data dir>/cache/chainIds.json
type NetworkResolver struct {
	dataDir   string
	endpoints map[string]string
	explorers map[string]string
	cache     *NetworkCache
	mu        sync.RWMutex
}

// NetworkCache caches chain ID lookups
type NetworkCache struct {
	Networks  map[string]uint64 `json:"networks"` // name -> chainID
	RPCs      map[string]uint64 `json:"rpcs"`     // rpcURL -> chainID
	UpdatedAt time.Time         `json:"updatedAt"`
}

// NewNetworkResolver creates a new network resolver
func NewNetworkResolver(dataDir string, project *config.ProjectConfig) *NetworkResolver {
	r := &NetworkResolver{
		dataDir:   dataDir,
		endpoints: project.RpcEndpoints,
		explorers: project.Explorers,
	}
	r.loadCache()
	return r
}

// GetNetworks returns the configured network names in sorted order
func (r *NetworkResolver) GetNetworks(ctx context.Context) []string {
	names := lo.Keys(r.endpoints)
	sort.Strings(names)
	return names
}

// ResolveNetwork resolves a network name to its configuration
func (r *NetworkResolver) ResolveNetwork(ctx context.Context, networkName string) (*config.Network, error) {
	rpcURL, exists := r.endpoints[networkName]
	if !exists {
		return nil, fmt.Errorf("network '%s' not found in %s [rpc_endpoints]", networkName, ProjectFile)
	}
	if rpcURL == "" {
		return nil, fmt.Errorf("network '%s' has an empty RPC URL, check your .env", networkName)
	}

	chainID, err := r.chainID(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch chain ID for network %s: %w", networkName, err)
	}
	r.updateCache(networkName, rpcURL, chainID)

	return &config.Network{
		Name:        networkName,
		RPCURL:      rpcURL,
		ChainID:     chainID,
		ExplorerURL: r.explorers[networkName],
	}, nil
}

func (r *NetworkResolver) chainID(ctx context.Context, rpcURL string) (uint64, error) {
	r.mu.RLock()
	chainID, cached := r.cache.RPCs[rpcURL]
	r.mu.RUnlock()
	if cached {
		return chainID, nil
	}

	ctx, cancel := context.WithTimeout(ctx, chainIDTimeout)
	defer cancel()

	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return 0, err
	}
	defer client.Close()

	id, err := client.ChainID(ctx)
	if err != nil {
		return 0, err
	}
	return id.Uint64(), nil
}

func (r *NetworkResolver) cachePath() string {
	return filepath.Join(r.dataDir, "cache", "chainIds.json")
}

// loadCache loads the chain ID cache from disk. A missing or corrupt cache starts empty.
func (r *NetworkResolver) loadCache() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.cache = &NetworkCache{
		Networks: make(map[string]uint64),
		RPCs:     make(map[string]uint64),
	}

	data, err := os.ReadFile(r.cachePath())
	if err != nil {
		return
	}

	var cache NetworkCache
	if err := json.Unmarshal(data, &cache); err != nil || cache.RPCs == nil {
		return
	}
	if cache.Networks == nil {
		cache.Networks = make(map[string]uint64)
	}
	r.cache = &cache
}

func (r *NetworkResolver) updateCache(networkName, rpcURL string, chainID uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cache.RPCs[rpcURL] == chainID && r.cache.Networks[networkName] == chainID {
		return
	}
	r.cache.Networks[networkName] = chainID
	r.cache.RPCs[rpcURL] = chainID
	r.cache.UpdatedAt = time.Now()

	// the cache only saves round trips
	_ = r.saveCache()
}

func (r *NetworkResolver) saveCache() error {
	if err := os.MkdirAll(filepath.Dir(r.cachePath()), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(r.cache, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(r.cachePath(), data, 0644)
}

var _ usecase.NetworkResolver = (*NetworkResolver)(nil)
