package usecase

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/evm-coprocessor/copro/internal/domain"
	"github.com/evm-coprocessor/copro/internal/domain/config"
	"github.com/evm-coprocessor/copro/internal/domain/models"
)

const (
	NewJobMethod = "newJob"
	NewJobEvent  = "NewJob"
)

// SubmitJobParams contains parameters for submitting a job
type SubmitJobParams struct {
	Address      string // defaults to the configured contract
	ContractName string // defaults to [coprocessor].contract
	Wait         bool   // wait for the receipt and decode job ids
}

// SubmitJob invokes newJob() on a deployed Coprocessor
type SubmitJob struct {
	config    *config.RuntimeConfig
	artifacts ArtifactRepository
	connector ChainConnector
	signers   SignerProvider
	progress  ProgressSink
	log       *slog.Logger
}

// NewSubmitJob creates a new SubmitJob use case
func NewSubmitJob(
	cfg *config.RuntimeConfig,
	artifacts ArtifactRepository,
	connector ChainConnector,
	signers SignerProvider,
	progress ProgressSink,
	log *slog.Logger,
) *SubmitJob {
	return &SubmitJob{
		config:    cfg,
		artifacts: artifacts,
		connector: connector,
		signers:   signers,
		progress:  progress,
		log:       log.With("component", "SubmitJob"),
	}
}

// Run sends one newJob() transaction and returns it
func (uc *SubmitJob) Run(ctx context.Context, params SubmitJobParams) (*models.JobSubmission, error) {
	network, err := requireNetwork(uc.config)
	if err != nil {
		return nil, err
	}

	address, err := uc.resolveAddress(params.Address)
	if err != nil {
		return nil, err
	}

	contractName := params.ContractName
	if contractName == "" {
		contractName = uc.config.Project.Coprocessor.Contract
	}

	artifact, err := uc.artifacts.GetArtifact(ctx, contractName)
	if err != nil {
		return nil, err
	}
	contractABI, err := abi.JSON(bytes.NewReader(artifact.ABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ABI of %s: %w", contractName, err)
	}
	if _, ok := contractABI.Methods[NewJobMethod]; !ok {
		return nil, fmt.Errorf("contract %s has no %s() method", contractName, NewJobMethod)
	}

	signer, err := uc.signers.Signer(ctx, uc.config.Account)
	if err != nil {
		return nil, err
	}

	uc.progress.OnProgress(ctx, ProgressEvent{Stage: "connecting", Message: fmt.Sprintf("Connecting to %s", network.Name), Spinner: true})
	client, err := uc.connector.Connect(ctx, network, signer)
	if err != nil {
		return nil, err
	}
	defer client.Close()

	code, err := client.CodeAt(ctx, address)
	if err != nil {
		return nil, err
	}
	if len(code) == 0 {
		return nil, domain.NoCodeErr{Address: address}
	}

	uc.progress.OnProgress(ctx, ProgressEvent{Stage: "submitting", Message: fmt.Sprintf("Calling %s() on %s", NewJobMethod, address.Hex()), Spinner: true})
	tx, err := client.Transact(ctx, address, &contractABI, NewJobMethod)
	if err != nil {
		return nil, err
	}
	uc.log.Info("job submitted", "contract", address.Hex(), "tx", tx.Hash().Hex(), "from", signer.Address().Hex())

	submission := &models.JobSubmission{
		Contract:    address.Hex(),
		Transaction: tx,
	}
	if !params.Wait {
		return submission, nil
	}

	uc.progress.OnProgress(ctx, ProgressEvent{Stage: "waiting", Message: fmt.Sprintf("Waiting for %s", tx.Hash().Hex()), Spinner: true})
	receipt, err := client.WaitMined(ctx, tx.Hash())
	if err != nil {
		return nil, fmt.Errorf("failed waiting for %s: %w", tx.Hash().Hex(), err)
	}
	submission.Receipt = receipt
	if receipt.Status != types.ReceiptStatusSuccessful {
		return submission, domain.TransactionFailedErr{TxHash: tx.Hash()}
	}

	if event, ok := contractABI.Events[NewJobEvent]; ok {
		for _, log := range receipt.Logs {
			if log.Address != address || len(log.Topics) == 0 || log.Topics[0] != event.ID {
				continue
			}
			if id := DecodeJobID(log.Data); id != nil {
				submission.JobIDs = append(submission.JobIDs, id)
			}
		}
	}
	return submission, nil
}

func (uc *SubmitJob) resolveAddress(address string) (common.Address, error) {
	if address == "" {
		address = uc.config.ContractAddress()
	}
	if !common.IsHexAddress(address) {
		return common.Address{}, fmt.Errorf("%w: %q", domain.ErrInvalidAddress, address)
	}
	return common.HexToAddress(address), nil
}
