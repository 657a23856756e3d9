package models

import (
	"math/big"

	"github.com/ethereum/go-ethereum/core/types"
)

// JobSubmission is the result of invoking newJob() on a Coprocessor
type JobSubmission struct {
	Contract    string
	Transaction *types.Transaction
	Receipt     *types.Receipt // nil unless the caller waited for mining
	JobIDs      []*big.Int     // decoded from NewJob logs of the receipt
}

// Job is a NewJob event observed on chain
type Job struct {
	ID          uint64 `json:"id"`
	BlockNumber uint64 `json:"blockNumber"`
	TxHash      string `json:"txHash"`
}

// CallbackStatus classifies the outcome of submitting a job result
type CallbackStatus string

const (
	CallbackStatusOK                CallbackStatus = "ok"
	CallbackStatusNonceTooLow       CallbackStatus = "nonce too low"
	CallbackStatusNonceTooHigh      CallbackStatus = "nonce too high"
	CallbackStatusInsufficientFunds CallbackStatus = "insufficient funds"
	CallbackStatusFailed            CallbackStatus = "failed"
)

// Callback records one submitted job result
type Callback struct {
	JobID   uint64         `json:"jobId"`
	Result  string         `json:"result"`
	TxHash  string         `json:"txHash,omitempty"`
	Nonce   uint64         `json:"nonce"`
	Status  CallbackStatus `json:"status"`
	Message string         `json:"message,omitempty"`
}

// WatcherState is the persisted cursor of the job watcher
type WatcherState struct {
	ChainID     uint64  `json:"chainId"`
	Contract    string  `json:"contract"`
	BlockHeight uint64  `json:"blockHeight"`
	Nonce       *uint64 `json:"nonce,omitempty"`

	// Set while a pass is part way through block BlockHeight+1: its logs up
	// to and including this index were answered.
	LastLogIndex *uint `json:"lastLogIndex,omitempty"`
}

// Answered reports whether an interrupted pass already handled the log
func (s *WatcherState) Answered(blockNumber uint64, logIndex uint) bool {
	return s.LastLogIndex != nil && blockNumber == s.BlockHeight+1 && logIndex <= *s.LastLogIndex
}

// SyncResult summarizes one watcher pass
type SyncResult struct {
	FromBlock uint64     `json:"fromBlock"`
	ToBlock   uint64     `json:"toBlock"`
	Jobs      []Job      `json:"jobs"`
	Callbacks []Callback `json:"callbacks"`
}
