package render

import (
	"fmt"
	"io"

	"github.com/evm-coprocessor/copro/internal/usecase"
	"github.com/samber/lo"
)

// NetworksRenderer renders network lists
type NetworksRenderer struct {
	out io.Writer
}

// NewNetworksRenderer creates a new networks renderer
func NewNetworksRenderer(out io.Writer) *NetworksRenderer {
	return &NetworksRenderer{out: out}
}

// RenderNetworksList renders the list of networks
func (r *NetworksRenderer) RenderNetworksList(result *usecase.ListNetworksResult) error {
	if len(result.Networks) == 0 {
		fmt.Fprintln(r.out, "No networks configured in copro.toml [rpc_endpoints]")
		return nil
	}

	fmt.Fprintln(r.out, "🌐 Available Networks:")
	fmt.Fprintln(r.out)

	for _, network := range result.Networks {
		current := ""
		if network.Current {
			current = " (current)"
		}
		if network.Error != nil {
			fmt.Fprintf(r.out, "  ❌ %s - Error: %v\n", network.Name, network.Error)
		} else {
			fmt.Fprintf(r.out, "  ✅ %s - Chain ID: %d%s\n", network.Name, network.ChainID, current)
		}
	}

	return nil
}

type networkOutput struct {
	Name    string `json:"name"`
	ChainID uint64 `json:"chainId,omitempty"`
	Current bool   `json:"current"`
	Error   string `json:"error,omitempty"`
}

// NetworksOutput is the structured form of a network list
func NetworksOutput(result *usecase.ListNetworksResult) any {
	return lo.Map(result.Networks, func(network usecase.NetworkStatus, _ int) networkOutput {
		out := networkOutput{Name: network.Name, ChainID: network.ChainID, Current: network.Current}
		if network.Error != nil {
			out.Error = network.Error.Error()
		}
		return out
	})
}
