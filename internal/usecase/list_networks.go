package usecase

import (
	"context"
	"sort"

	"github.com/evm-coprocessor/copro/internal/domain/config"
)

// ListNetworksResult contains the result of listing networks
type ListNetworksResult struct {
	Networks []NetworkStatus
}

// NetworkStatus is one [rpc_endpoints] entry with its resolved chain ID
type NetworkStatus struct {
	Name    string
	ChainID uint64
	Current bool // selected by --network, config.local.json or default_network
	Error   error
}

// ListNetworks lists the configured networks
type ListNetworks struct {
	config   *config.RuntimeConfig
	resolver NetworkResolver
}

// NewListNetworks creates a new ListNetworks use case
func NewListNetworks(cfg *config.RuntimeConfig, resolver NetworkResolver) *ListNetworks {
	return &ListNetworks{
		config:   cfg,
		resolver: resolver,
	}
}

// Run resolves every configured network. Unreachable networks are reported
// with their error instead of failing the listing.
func (uc *ListNetworks) Run(ctx context.Context) (*ListNetworksResult, error) {
	names := uc.resolver.GetNetworks(ctx)
	sort.Strings(names)

	networks := make([]NetworkStatus, 0, len(names))
	for _, name := range names {
		status := NetworkStatus{
			Name:    name,
			Current: uc.config.Network != nil && uc.config.Network.Name == name,
		}

		info, err := uc.resolver.ResolveNetwork(ctx, name)
		if err != nil {
			status.Error = err
		} else {
			status.ChainID = info.ChainID
		}
		networks = append(networks, status)
	}

	return &ListNetworksResult{Networks: networks}, nil
}
