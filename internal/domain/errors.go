package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// Sentinel errors for domain operations
var (
	// ErrNotFound is returned when a requested resource doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrInvalidAddress is returned when an Ethereum address is invalid
	ErrInvalidAddress = errors.New("invalid address")

	// ErrNetworkRequired is returned when a command needs a network and none is set
	ErrNetworkRequired = errors.New("no network configured, use --network or set default_network in copro.toml")

	// ErrNetworkMismatch is returned when the RPC reports a different chain than configured
	ErrNetworkMismatch = errors.New("network mismatch")

	// ErrNoSigner is returned when no signing account is configured
	ErrNoSigner = errors.New("no signing account configured")

	// ErrNoCode is returned when a contract address has no deployed code
	ErrNoCode = errors.New("no contract code at address")

	// ErrDeploymentCancelled is returned when the user declines a deployment
	ErrDeploymentCancelled = errors.New("deployment cancelled")
)

// ArtifactNotFoundErr is returned when no compiled artifact exists for a contract
type ArtifactNotFoundErr struct {
	ContractName string
	Suggestions  []string
}

func (e ArtifactNotFoundErr) Error() string {
	msg := fmt.Sprintf("artifact for contract %q not found, compile the project first", e.ContractName)
	if len(e.Suggestions) > 0 {
		msg += fmt.Sprintf(" (did you mean %s?)", strings.Join(e.Suggestions, ", "))
	}
	return msg
}

// AmbiguousArtifactErr is returned when several artifacts share a contract name
type AmbiguousArtifactErr struct {
	ContractName string
	Paths        []string
}

func (e AmbiguousArtifactErr) Error() string {
	return fmt.Sprintf("multiple artifacts found for contract %q - use SourceName:ContractName to disambiguate:\n  - %s",
		e.ContractName, strings.Join(e.Paths, "\n  - "))
}

// ReconciliationErr is returned when a journaled deployment conflicts with the module definition
type ReconciliationErr struct {
	FutureID string
	Field    string
	Previous string
	Current  string
}

func (e ReconciliationErr) Error() string {
	return fmt.Sprintf("future %s was previously deployed with different %s (%s, now %s) - rerun with --reset to deploy again",
		e.FutureID, e.Field, e.Previous, e.Current)
}

// NoCodeErr wraps ErrNoCode with the offending address
type NoCodeErr struct {
	Address common.Address
}

func (e NoCodeErr) Error() string {
	return fmt.Sprintf("%s %s", ErrNoCode.Error(), e.Address.Hex())
}

func (e NoCodeErr) Unwrap() error {
	return ErrNoCode
}

// TransactionFailedErr is returned when a mined transaction has a failed status
type TransactionFailedErr struct {
	TxHash common.Hash
}

func (e TransactionFailedErr) Error() string {
	return fmt.Sprintf("transaction %s reverted", e.TxHash.Hex())
}
