package render

import (
	"fmt"
	"io"
	"sort"

	"github.com/evm-coprocessor/copro/internal/domain/models"
	"github.com/evm-coprocessor/copro/internal/usecase"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/samber/lo"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	chainHeader    = color.New(color.BgCyan, color.FgBlack)
	addressStyle   = color.New(color.FgWhite)
	timestampStyle = color.New(color.Faint)
	pendingStyle   = color.New(color.FgYellow)
	successStyle   = color.New(color.FgGreen)
	titleCase      = cases.Title(language.English)
)

// DeploymentsRenderer renders the deployment journal as one table per chain
type DeploymentsRenderer struct {
	out io.Writer
}

// NewDeploymentsRenderer creates a new deployments renderer
func NewDeploymentsRenderer(out io.Writer) *DeploymentsRenderer {
	return &DeploymentsRenderer{out: out}
}

// RenderDeploymentList renders deployments grouped by chain
func (r *DeploymentsRenderer) RenderDeploymentList(result *usecase.DeploymentListResult) error {
	if len(result.Deployments) == 0 {
		fmt.Fprintln(r.out, "No deployments found")
		return nil
	}

	byChain := lo.GroupBy(result.Deployments, func(dep *models.Deployment) uint64 { return dep.ChainID })
	chainIDs := lo.Keys(byChain)
	sort.Slice(chainIDs, func(i, j int) bool { return chainIDs[i] < chainIDs[j] })

	for i, chainID := range chainIDs {
		if i > 0 {
			fmt.Fprintln(r.out)
		}
		fmt.Fprintln(r.out, chainHeader.Sprintf(" chain: %-10d ", chainID))
		r.renderTable(byChain[chainID])
	}

	fmt.Fprintln(r.out)
	summary := fmt.Sprintf("Total deployments: %d", result.Summary.Total)
	if result.Summary.Pending > 0 {
		summary += pendingStyle.Sprintf(" (%d pending)", result.Summary.Pending)
	}
	fmt.Fprintln(r.out, summary)
	return nil
}

func (r *DeploymentsRenderer) renderTable(deployments []*models.Deployment) {
	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetStyle(table.StyleLight)
	t.Style().Options.DrawBorder = false
	t.Style().Options.SeparateColumns = false
	t.Style().Options.SeparateHeader = false
	t.AppendHeader(table.Row{"Future", "Address", "Status", "Block", "Deployed"})

	for _, dep := range deployments {
		block := ""
		if dep.BlockNumber > 0 {
			block = fmt.Sprintf("%d", dep.BlockNumber)
		}
		t.AppendRow(table.Row{
			dep.FutureID,
			addressStyle.Sprint(dep.Address),
			statusLabel(dep.Status),
			block,
			timestampStyle.Sprint(dep.CreatedAt.Local().Format("2006-01-02 15:04:05")),
		})
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 4, Align: text.AlignRight},
	})
	t.Render()
}

func statusLabel(status models.DeploymentStatus) string {
	label := titleCase.String(string(status))
	if status == models.DeploymentStatusPending {
		return pendingStyle.Sprint(label)
	}
	return successStyle.Sprint(label)
}
