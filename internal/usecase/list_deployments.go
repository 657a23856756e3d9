package usecase

import (
	"context"

	"github.com/evm-coprocessor/copro/internal/domain"
	"github.com/evm-coprocessor/copro/internal/domain/config"
	"github.com/evm-coprocessor/copro/internal/domain/models"
)

// ListDeploymentsParams contains parameters for listing deployments
type ListDeploymentsParams struct {
	ModuleID     string
	ContractName string
	AllChains    bool // ignore the selected network
}

// DeploymentListResult contains the journal records and a per-status summary
type DeploymentListResult struct {
	Deployments []*models.Deployment
	Summary     DeploymentSummary
}

// DeploymentSummary counts journal records
type DeploymentSummary struct {
	Total   int
	Pending int
	ByChain map[uint64]int
}

// ListDeployments is the use case for listing journaled deployments
type ListDeployments struct {
	config *config.RuntimeConfig
	repo   DeploymentRepository
}

// NewListDeployments creates a new ListDeployments use case
func NewListDeployments(cfg *config.RuntimeConfig, repo DeploymentRepository) *ListDeployments {
	return &ListDeployments{
		config: cfg,
		repo:   repo,
	}
}

// Run executes the list deployments use case
func (uc *ListDeployments) Run(ctx context.Context, params ListDeploymentsParams) (*DeploymentListResult, error) {
	filter := domain.DeploymentFilter{
		ModuleID:     params.ModuleID,
		ContractName: params.ContractName,
	}
	if !params.AllChains && uc.config.Network != nil {
		filter.ChainID = uc.config.Network.ChainID
	}

	deployments, err := uc.repo.ListDeployments(ctx, filter)
	if err != nil {
		return nil, err
	}

	summary := DeploymentSummary{
		Total:   len(deployments),
		ByChain: make(map[uint64]int),
	}
	for _, dep := range deployments {
		summary.ByChain[dep.ChainID]++
		if dep.Status == models.DeploymentStatusPending {
			summary.Pending++
		}
	}

	return &DeploymentListResult{
		Deployments: deployments,
		Summary:     summary,
	}, nil
}
