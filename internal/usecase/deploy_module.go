package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/evm-coprocessor/copro/internal/domain"
	"github.com/evm-coprocessor/copro/internal/domain/config"
	"github.com/evm-coprocessor/copro/internal/domain/models"
	"github.com/evm-coprocessor/copro/internal/modules"
)

// DeployModuleParams contains parameters for deploying a module
type DeployModuleParams struct {
	ModuleID   string // defaults to CoprocessorModule
	Dependency string // defaults to [coprocessor].dependency
	Reset      bool   // ignore journaled deployments
}

// DeployModule deploys every contract future of a module, reusing journaled
// deployments whose definition has not changed.
type DeployModule struct {
	config      *config.RuntimeConfig
	artifacts   ArtifactRepository
	deployments DeploymentRepository
	connector   ChainConnector
	signers     SignerProvider
	confirmer   Confirmer
	progress    ProgressSink
	log         *slog.Logger
}

// NewDeployModule creates a new DeployModule use case
func NewDeployModule(
	cfg *config.RuntimeConfig,
	artifacts ArtifactRepository,
	deployments DeploymentRepository,
	connector ChainConnector,
	signers SignerProvider,
	confirmer Confirmer,
	progress ProgressSink,
	log *slog.Logger,
) *DeployModule {
	return &DeployModule{
		config:      cfg,
		artifacts:   artifacts,
		deployments: deployments,
		connector:   connector,
		signers:     signers,
		confirmer:   confirmer,
		progress:    progress,
		log:         log.With("component", "DeployModule"),
	}
}

// Run executes the deployment
func (uc *DeployModule) Run(ctx context.Context, params DeployModuleParams) (*models.DeploymentResult, error) {
	network, err := requireNetwork(uc.config)
	if err != nil {
		return nil, err
	}

	moduleID := params.ModuleID
	if moduleID == "" {
		moduleID = modules.CoprocessorModuleID
	}
	dependency := params.Dependency
	if dependency == "" {
		dependency = uc.config.Project.Coprocessor.Dependency
	}

	module, err := modules.Build(moduleID, modules.Params{
		ContractName: uc.config.Project.Coprocessor.Contract,
		Dependency:   dependency,
	})
	if err != nil {
		return nil, err
	}

	signer, err := uc.signers.Signer(ctx, uc.config.Account)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve deployer account: %w", err)
	}

	if !uc.config.AutoConfirm && !uc.config.NonInteractive && !network.IsLocal() {
		ok, err := uc.confirmer.Confirm(ctx, fmt.Sprintf("Deploy %s to %s (chain %d) from %s", module.ID, network.Name, network.ChainID, signer.Address().Hex()))
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, domain.ErrDeploymentCancelled
		}
	}

	uc.progress.OnProgress(ctx, ProgressEvent{Stage: "connecting", Message: fmt.Sprintf("Connecting to %s", network.Name), Spinner: true})
	client, err := uc.connector.Connect(ctx, network, signer)
	if err != nil {
		return nil, err
	}
	defer client.Close()

	result := &models.DeploymentResult{
		ModuleID: module.ID,
		ChainID:  network.ChainID,
		Network:  network.Name,
		Reused:   make(map[string]bool),
		Results:  make(map[string]string),
	}

	addresses := make(map[string]string, len(module.Futures))
	for _, future := range module.Futures {
		deployment, reused, err := uc.deployFuture(ctx, client, signer, module, future, params.Reset)
		if err != nil {
			uc.progress.Error(fmt.Sprintf("%s failed", future.ID))
			return nil, fmt.Errorf("failed to deploy %s: %w", future.ID, err)
		}
		result.Deployments = append(result.Deployments, deployment)
		result.Reused[future.ID] = reused
		addresses[future.ID] = deployment.Address
	}

	for key, futureID := range module.Results {
		result.Results[key] = addresses[futureID]
	}

	uc.progress.OnProgress(ctx, ProgressEvent{Stage: "completed", Message: "Deployment complete"})
	return result, nil
}

func (uc *DeployModule) deployFuture(
	ctx context.Context,
	client ChainClient,
	signer Signer,
	module *models.Module,
	future *models.ContractFuture,
	reset bool,
) (*models.Deployment, bool, error) {
	artifact, err := uc.artifacts.GetArtifact(ctx, future.ContractName)
	if err != nil {
		return nil, false, err
	}

	contractABI, err := abi.JSON(bytes.NewReader(artifact.ABI))
	if err != nil {
		return nil, false, fmt.Errorf("failed to parse ABI of %s: %w", future.ContractName, err)
	}

	packedArgs, err := contractABI.Pack("", future.Args...)
	if err != nil {
		return nil, false, fmt.Errorf("failed to encode constructor arguments: %w", err)
	}
	encodedArgs := hexutil.Encode(packedArgs)

	existing, err := uc.deployments.GetDeployment(ctx, client.ChainID(), future.ID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		existing = nil
	case err != nil:
		return nil, false, fmt.Errorf("failed to read deployment journal: %w", err)
	case reset:
		uc.log.Warn("discarding journaled deployment", "future", future.ID, "address", existing.Address)
		existing = nil
	}

	if existing != nil {
		if existing.ContractName != future.ContractName {
			return nil, false, domain.ReconciliationErr{FutureID: future.ID, Field: "contract", Previous: existing.ContractName, Current: future.ContractName}
		}
		if existing.ConstructorArgs != encodedArgs {
			return nil, false, domain.ReconciliationErr{FutureID: future.ID, Field: "constructor arguments", Previous: existing.ConstructorArgs, Current: encodedArgs}
		}
		if existing.Status == models.DeploymentStatusSuccess {
			uc.log.Debug("reusing journaled deployment", "future", future.ID, "address", existing.Address)
			uc.progress.Info(fmt.Sprintf("%s already deployed at %s", future.ID, existing.Address))
			return existing, true, nil
		}

		uc.progress.OnProgress(ctx, ProgressEvent{Stage: "waiting", Message: fmt.Sprintf("Waiting for pending %s (%s)", future.ID, existing.TxHash), Spinner: true})
		if err := uc.confirm(ctx, client, existing, common.HexToHash(existing.TxHash)); err != nil {
			return nil, false, err
		}
		return existing, false, nil
	}

	bytecode, err := artifact.Bytecode.Bytes()
	if err != nil {
		return nil, false, err
	}
	if len(bytecode) == 0 {
		return nil, false, fmt.Errorf("contract %s has no creation bytecode (abstract contract or interface?)", future.ContractName)
	}

	uc.progress.OnProgress(ctx, ProgressEvent{Stage: "deploying", Message: fmt.Sprintf("Deploying %s", future.ID), Spinner: true})
	address, tx, err := client.Deploy(ctx, &contractABI, bytecode, future.Args...)
	if err != nil {
		return nil, false, err
	}

	now := time.Now().UTC()
	deployment := &models.Deployment{
		FutureID:        future.ID,
		ModuleID:        module.ID,
		ContractName:    future.ContractName,
		ChainID:         client.ChainID(),
		ConstructorArgs: encodedArgs,
		TxHash:          tx.Hash().Hex(),
		Address:         address.Hex(),
		Deployer:        signer.Address().Hex(),
		Status:          models.DeploymentStatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := uc.deployments.SaveDeployment(ctx, deployment); err != nil {
		return nil, false, fmt.Errorf("failed to journal deployment: %w", err)
	}
	uc.log.Info("deployment sent", "future", future.ID, "tx", deployment.TxHash, "address", deployment.Address)

	uc.progress.OnProgress(ctx, ProgressEvent{Stage: "waiting", Message: fmt.Sprintf("Waiting for %s", deployment.TxHash), Spinner: true})
	if err := uc.confirm(ctx, client, deployment, tx.Hash()); err != nil {
		return nil, false, err
	}
	return deployment, false, nil
}

// confirm waits for the creation transaction and marks the record successful
func (uc *DeployModule) confirm(ctx context.Context, client ChainClient, deployment *models.Deployment, txHash common.Hash) error {
	receipt, err := client.WaitMined(ctx, txHash)
	if err != nil {
		return fmt.Errorf("failed waiting for %s: %w", txHash.Hex(), err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		if delErr := uc.deployments.DeleteDeployment(ctx, deployment.ChainID, deployment.FutureID); delErr != nil {
			uc.log.Warn("failed to drop reverted deployment", "future", deployment.FutureID, "error", delErr)
		}
		return domain.TransactionFailedErr{TxHash: txHash}
	}

	if receipt.ContractAddress != (common.Address{}) {
		deployment.Address = receipt.ContractAddress.Hex()
	}
	if receipt.BlockNumber != nil {
		deployment.BlockNumber = receipt.BlockNumber.Uint64()
	}
	deployment.Status = models.DeploymentStatusSuccess
	deployment.UpdatedAt = time.Now().UTC()

	if err := uc.deployments.SaveDeployment(ctx, deployment); err != nil {
		return fmt.Errorf("failed to journal deployment: %w", err)
	}
	return nil
}
