package usecase

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/evm-coprocessor/copro/internal/domain"
	"github.com/evm-coprocessor/copro/internal/domain/config"
	"github.com/evm-coprocessor/copro/internal/domain/models"
	"golang.org/x/time/rate"
)

var (
	// NewJobTopic is the topic of NewJob(uint256)
	NewJobTopic = crypto.Keccak256Hash([]byte("NewJob(uint256)"))

	callbackSelector = crypto.Keccak256([]byte("callback(string)"))[:4]
)

// WatchJobsParams contains parameters for watching a Coprocessor
type WatchJobsParams struct {
	Address   string // defaults to the configured contract
	FromBlock uint64 // overrides watch.start_block when set
}

// WatchJobs answers NewJob events with callback(string) transactions
type WatchJobs struct {
	config    *config.RuntimeConfig
	connector ChainConnector
	signers   SignerProvider
	states    WatcherStateRepository
	processor JobProcessor
	metrics   WatcherMetrics
	limiter   *rate.Limiter
	log       *slog.Logger
}

// NewWatchJobs creates a new WatchJobs use case
func NewWatchJobs(
	cfg *config.RuntimeConfig,
	connector ChainConnector,
	signers SignerProvider,
	states WatcherStateRepository,
	processor JobProcessor,
	metrics WatcherMetrics,
	log *slog.Logger,
) *WatchJobs {
	limit := rate.Inf
	if perSecond := cfg.Project.Watch.MaxSubmissionsPerSecond; perSecond > 0 {
		limit = rate.Limit(perSecond)
	}
	return &WatchJobs{
		config:    cfg,
		connector: connector,
		signers:   signers,
		states:    states,
		processor: processor,
		metrics:   metrics,
		limiter:   rate.NewLimiter(limit, 1),
		log:       log.With("component", "WatchJobs"),
	}
}

// watchSession is an open connection to the watched contract's chain
type watchSession struct {
	client     ChainClient
	signer     Signer
	contract   common.Address
	chainID    *big.Int
	startBlock uint64
}

func (uc *WatchJobs) open(ctx context.Context, params WatchJobsParams) (*watchSession, error) {
	network, err := requireNetwork(uc.config)
	if err != nil {
		return nil, err
	}

	address := params.Address
	if address == "" {
		address = uc.config.ContractAddress()
	}
	if !common.IsHexAddress(address) {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidAddress, address)
	}

	signer, err := uc.signers.Signer(ctx, uc.config.Account)
	if err != nil {
		return nil, err
	}

	client, err := uc.connector.Connect(ctx, network, signer)
	if err != nil {
		return nil, err
	}

	startBlock := params.FromBlock
	if startBlock == 0 {
		startBlock = uc.config.Project.Watch.StartBlock
	}

	return &watchSession{
		client:     client,
		signer:     signer,
		contract:   common.HexToAddress(address),
		chainID:    new(big.Int).SetUint64(client.ChainID()),
		startBlock: startBlock,
	}, nil
}

// Sync runs a single pass over the blocks produced since the last one
func (uc *WatchJobs) Sync(ctx context.Context, params WatchJobsParams) (*models.SyncResult, error) {
	session, err := uc.open(ctx, params)
	if err != nil {
		return nil, err
	}
	defer session.client.Close()

	return uc.sync(ctx, session)
}

// Run syncs every configured interval until ctx is cancelled. Failed passes
// are logged and retried on the next tick. onSync may be nil.
func (uc *WatchJobs) Run(ctx context.Context, params WatchJobsParams, onSync func(*models.SyncResult)) error {
	session, err := uc.open(ctx, params)
	if err != nil {
		return err
	}
	defer session.client.Close()

	interval := uc.config.Project.Watch.Interval
	if interval <= 0 {
		interval = config.DefaultProjectConfig().Watch.Interval
	}
	uc.log.Info("watching for jobs", "contract", session.contract.Hex(), "interval", interval, "signer", session.signer.Address().Hex())

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		result, err := uc.sync(ctx, session)
		switch {
		case err != nil && ctx.Err() == nil:
			uc.log.Error("sync failed", "error", err)
		case err == nil && onSync != nil:
			onSync(result)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (uc *WatchJobs) sync(ctx context.Context, session *watchSession) (*models.SyncResult, error) {
	state, err := uc.states.Load(ctx, session.chainID.Uint64(), session.contract)
	if err != nil {
		return nil, err
	}
	if state.BlockHeight == 0 && state.LastLogIndex == nil && session.startBlock > 0 {
		state.BlockHeight = session.startBlock - 1
	}

	head, err := session.client.BlockNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get block number: %w", err)
	}

	result := &models.SyncResult{FromBlock: state.BlockHeight + 1, ToBlock: head}
	if result.FromBlock > head {
		uc.log.Debug("no new blocks", "height", state.BlockHeight)
		return result, nil
	}

	logs, err := session.client.FilterLogs(ctx, ethereum.FilterQuery{
		FromBlock: new(big.Int).SetUint64(result.FromBlock),
		ToBlock:   new(big.Int).SetUint64(head),
		Addresses: []common.Address{session.contract},
		Topics:    [][]common.Hash{{NewJobTopic}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get logs: %w", err)
	}
	uc.log.Debug("fetched logs", "from", result.FromBlock, "to", head, "count", len(logs))

	if len(logs) > 0 && state.Nonce == nil {
		nonce, err := session.client.PendingNonceAt(ctx, session.signer.Address())
		if err != nil {
			return nil, fmt.Errorf("failed to get nonce: %w", err)
		}
		state.Nonce = &nonce
	}

	for _, log := range logs {
		if state.Answered(log.BlockNumber, log.Index) {
			continue
		}

		job := models.Job{
			ID:          ParseJobID(log.Data),
			BlockNumber: log.BlockNumber,
			TxHash:      log.TxHash.Hex(),
		}
		result.Jobs = append(result.Jobs, job)
		uc.metrics.JobProcessed()

		callback, err := uc.answer(ctx, session, state, job)
		if err != nil {
			// Only cancellation ends the pass early
			return nil, err
		}
		uc.metrics.CallbackSubmitted(callback.Status)
		result.Callbacks = append(result.Callbacks, *callback)

		// Checkpoint after every job so an interrupted pass resumes after it
		// with the nonce it left behind
		state.BlockHeight = log.BlockNumber - 1
		index := log.Index
		state.LastLogIndex = &index
		if err := uc.states.Save(ctx, state); err != nil {
			return nil, err
		}
	}

	state.BlockHeight = head
	if len(logs) > 0 {
		state.BlockHeight = logs[len(logs)-1].BlockNumber
	}
	state.LastLogIndex = nil
	if err := uc.states.Save(ctx, state); err != nil {
		return nil, err
	}
	uc.metrics.BlockHeight(state.BlockHeight)
	return result, nil
}

// answer processes a job and submits its result at the state's nonce. A
// successful submission advances the nonce.
func (uc *WatchJobs) answer(ctx context.Context, session *watchSession, state *models.WatcherState, job models.Job) (*models.Callback, error) {
	callback := &models.Callback{JobID: job.ID, Nonce: *state.Nonce}

	output, err := uc.processor.Process(ctx, job)
	if err != nil {
		uc.log.Error("failed to process job", "job", job.ID, "error", err)
		callback.Status = models.CallbackStatusFailed
		callback.Message = err.Error()
		return callback, nil
	}
	callback.Result = output

	if err := uc.submit(ctx, session, callback); err != nil {
		return nil, err
	}

	if callback.Status == models.CallbackStatusNonceTooLow {
		// The account sent other transactions since the nonce was cached
		pending, err := session.client.PendingNonceAt(ctx, session.signer.Address())
		switch {
		case err != nil:
			uc.log.Warn("failed to refresh nonce", "job", job.ID, "error", err)
		case pending > callback.Nonce:
			uc.log.Info("nonce refreshed", "job", job.ID, "stale", callback.Nonce, "pending", pending)
			*state.Nonce = pending
			callback.Nonce = pending
			callback.TxHash = ""
			callback.Message = ""
			if err := uc.submit(ctx, session, callback); err != nil {
				return nil, err
			}
		}
	}

	if callback.Status == models.CallbackStatusOK {
		*state.Nonce = callback.Nonce + 1
	}
	return callback, nil
}

// submit signs and sends the callback at callback.Nonce, recording the
// outcome on it. Only cancellation is returned as an error.
func (uc *WatchJobs) submit(ctx context.Context, session *watchSession, callback *models.Callback) error {
	if err := uc.limiter.Wait(ctx); err != nil {
		return err
	}

	tx, err := uc.buildCallback(ctx, session, callback.Result, callback.Nonce)
	if err == nil {
		callback.TxHash = tx.Hash().Hex()
		err = session.client.SendTransaction(ctx, tx)
	}
	callback.Status = ClassifySendError(err)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		callback.Message = err.Error()
		uc.log.Warn("callback not accepted", "job", callback.JobID, "nonce", callback.Nonce, "status", callback.Status, "error", err)
		return nil
	}

	uc.log.Info("callback submitted", "job", callback.JobID, "nonce", callback.Nonce, "tx", callback.TxHash)
	return nil
}

// buildCallback signs an EIP-1559 callback(result) transaction. The fee cap is
// the next block's base fee plus the configured priority fee.
func (uc *WatchJobs) buildCallback(ctx context.Context, session *watchSession, output string, nonce uint64) (*types.Transaction, error) {
	watch := uc.config.Project.Watch

	data, err := EncodeCallback(output)
	if err != nil {
		return nil, err
	}

	baseFee, err := session.client.NextBaseFee(ctx, watch.FeeHistoryBlocks)
	if err != nil {
		return nil, err
	}
	tip := big.NewInt(watch.PriorityFeeWei)

	tx := types.NewTx(&types.DynamicFeeTx{
		ChainID:   session.chainID,
		Nonce:     nonce,
		GasTipCap: tip,
		GasFeeCap: new(big.Int).Add(baseFee, tip),
		Gas:       watch.GasLimit,
		To:        &session.contract,
		Data:      data,
	})
	return session.signer.SignTx(tx, session.chainID)
}

// EncodeCallback builds the calldata of callback(string)
func EncodeCallback(result string) ([]byte, error) {
	stringType, err := abi.NewType("string", "", nil)
	if err != nil {
		return nil, err
	}
	packed, err := abi.Arguments{{Type: stringType}}.Pack(result)
	if err != nil {
		return nil, fmt.Errorf("failed to encode callback: %w", err)
	}
	return append(append([]byte{}, callbackSelector...), packed...), nil
}

// ParseJobID reads a job id from NewJob log data as a big-endian integer,
// keeping the low 64 bits.
func ParseJobID(data []byte) uint64 {
	if len(data) > 8 {
		data = data[len(data)-8:]
	}
	var buf [8]byte
	copy(buf[8-len(data):], data)
	return binary.BigEndian.Uint64(buf[:])
}

// DecodeJobID reads the full uint256 job id of a NewJob log, nil if data is short
func DecodeJobID(data []byte) *big.Int {
	if len(data) < 32 {
		return nil
	}
	return new(big.Int).SetBytes(data[:32])
}

// ClassifySendError maps a transaction submission error to a callback status.
// JSON-RPC only carries the error text, so matching is by message.
func ClassifySendError(err error) models.CallbackStatus {
	if err == nil {
		return models.CallbackStatusOK
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "nonce too low"):
		return models.CallbackStatusNonceTooLow
	case strings.Contains(msg, "nonce too high"):
		return models.CallbackStatusNonceTooHigh
	case strings.Contains(msg, "insufficient funds"):
		return models.CallbackStatusInsufficientFunds
	}
	return models.CallbackStatusFailed
}

// StaticResultProcessor answers every job with the same result
type StaticResultProcessor struct {
	Result string
}

// NewStaticResultProcessor creates a processor answering with [watch].result
func NewStaticResultProcessor(cfg *config.RuntimeConfig) *StaticResultProcessor {
	result := cfg.Project.Watch.Result
	if result == "" {
		result = config.DefaultProjectConfig().Watch.Result
	}
	return &StaticResultProcessor{Result: result}
}

func (p *StaticResultProcessor) Process(ctx context.Context, job models.Job) (string, error) {
	return p.Result, nil
}

var _ JobProcessor = (*StaticResultProcessor)(nil)
