package render

import (
	"fmt"
	"io"
	"sort"

	"github.com/evm-coprocessor/copro/internal/domain/config"
	"github.com/evm-coprocessor/copro/internal/domain/models"
	"github.com/fatih/color"
	"github.com/samber/lo"
)

// DeployRenderer renders module deployment results
type DeployRenderer struct {
	out     io.Writer
	network *config.Network
}

// NewDeployRenderer creates a new deploy renderer
func NewDeployRenderer(out io.Writer, network *config.Network) *DeployRenderer {
	return &DeployRenderer{out: out, network: network}
}

// Render renders the deployed futures and the module results
func (r *DeployRenderer) Render(result *models.DeploymentResult) error {
	fmt.Fprintf(r.out, "%s on %s (chain %d)\n\n", color.New(color.Bold).Sprint(result.ModuleID), result.Network, result.ChainID)

	for _, dep := range result.Deployments {
		state := color.New(color.FgGreen).Sprint("deployed")
		if result.Reused[dep.FutureID] {
			state = color.New(color.Faint).Sprint("reused")
		}
		fmt.Fprintf(r.out, "  %s  %s  %s\n", dep.FutureID, addressStyle.Sprint(dep.Address), state)
		if link := explorerLink(r.explorer(), "address", dep.Address); link != "" {
			fmt.Fprintf(r.out, "      %s\n", color.New(color.Faint).Sprint(link))
		}
	}

	fmt.Fprintln(r.out)
	keys := lo.Keys(result.Results)
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("%s: %s", key, result.Results[key])))
	}
	return nil
}

func (r *DeployRenderer) explorer() string {
	if r.network == nil {
		return ""
	}
	return r.network.ExplorerURL
}
