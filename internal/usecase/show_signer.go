package usecase

import (
	"context"
	"errors"

	"github.com/evm-coprocessor/copro/internal/domain"
	"github.com/evm-coprocessor/copro/internal/domain/config"
)

// NotInitialized is reported in place of an address when no key is configured
const NotInitialized = "Not initialized"

// ShowSignerResult contains the signer address, if any
type ShowSignerResult struct {
	Address     string `json:"address"`
	Initialized bool   `json:"initialized"`
}

// ShowSigner reports the EVM address transactions are sent from
type ShowSigner struct {
	config  *config.RuntimeConfig
	signers SignerProvider
}

// NewShowSigner creates a new ShowSigner use case
func NewShowSigner(cfg *config.RuntimeConfig, signers SignerProvider) *ShowSigner {
	return &ShowSigner{config: cfg, signers: signers}
}

// Run resolves the signer. An unconfigured signer is not an error.
func (uc *ShowSigner) Run(ctx context.Context) (*ShowSignerResult, error) {
	signer, err := uc.signers.Signer(ctx, uc.config.Account)
	if errors.Is(err, domain.ErrNoSigner) {
		return &ShowSignerResult{Address: NotInitialized}, nil
	}
	if err != nil {
		return nil, err
	}
	return &ShowSignerResult{Address: signer.Address().Hex(), Initialized: true}, nil
}
