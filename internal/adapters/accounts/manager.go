package accounts

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/evm-coprocessor/copro/internal/domain"
	"github.com/evm-coprocessor/copro/internal/domain/config"
	"github.com/evm-coprocessor/copro/internal/usecase"
	"github.com/samber/lo"
)

// PrivateKeyEnv is consulted when copro.toml declares no accounts
const PrivateKeyEnv = "PRIVATE_KEY"

// Manager resolves account names from [accounts] in copro.toml to signers
type Manager struct {
	config   *config.RuntimeConfig
	selector usecase.Selector
	log      *slog.Logger
}

// NewManager creates a new account manager
func NewManager(cfg *config.RuntimeConfig, selector usecase.Selector, log *slog.Logger) *Manager {
	return &Manager{
		config:   cfg,
		selector: selector,
		log:      log.With("component", "AccountManager"),
	}
}

// Signer returns the signer for account. The empty name resolves, in order, to
// the configured default account, the only declared account, an interactive
// choice among several, and finally the PRIVATE_KEY environment variable.
func (m *Manager) Signer(ctx context.Context, account string) (usecase.Signer, error) {
	accounts := m.accounts()

	if account == "" {
		if m.config.Project != nil {
			account = m.config.Project.Project.DefaultAccount
		}
	}

	if account == "" {
		switch len(accounts) {
		case 0:
			if key := os.Getenv(PrivateKeyEnv); key != "" {
				m.log.Debug("using private key from environment", "env", PrivateKeyEnv)
				return NewKeySigner(key)
			}
			return nil, domain.ErrNoSigner
		case 1:
			account = lo.Keys(accounts)[0]
		default:
			names := lo.Keys(accounts)
			sort.Strings(names)
			choice, err := m.selector.SelectOption(ctx, "Select account", names)
			if err != nil {
				return nil, err
			}
			account = choice
		}
	}

	accountCfg, ok := accounts[account]
	if !ok {
		return nil, fmt.Errorf("account %q is not declared in [accounts]: %w", account, domain.ErrNotFound)
	}
	return m.signerFor(account, accountCfg)
}

func (m *Manager) accounts() map[string]config.AccountConfig {
	if m.config.Project == nil || m.config.Project.Accounts == nil {
		return map[string]config.AccountConfig{}
	}
	return m.config.Project.Accounts
}

func (m *Manager) signerFor(name string, accountCfg config.AccountConfig) (usecase.Signer, error) {
	accountType := accountCfg.Type
	if accountType == "" {
		accountType = config.AccountTypePrivateKey
	}
	if accountType != config.AccountTypePrivateKey {
		return nil, fmt.Errorf("account %q: unsupported type %q", name, accountType)
	}
	if strings.TrimSpace(accountCfg.PrivateKey) == "" {
		return nil, fmt.Errorf("account %q: %w (private_key is empty, is the environment variable set?)", name, domain.ErrNoSigner)
	}

	signer, err := NewKeySigner(accountCfg.PrivateKey)
	if err != nil {
		return nil, fmt.Errorf("account %q: %w", name, err)
	}

	if accountCfg.Address != "" && common.HexToAddress(accountCfg.Address) != signer.Address() {
		return nil, fmt.Errorf("account %q: private key belongs to %s, not the declared address %s",
			name, signer.Address().Hex(), accountCfg.Address)
	}

	m.log.Debug("resolved account", "name", name, "address", signer.Address().Hex())
	return signer, nil
}

var _ usecase.SignerProvider = (*Manager)(nil)
