package usecase

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/evm-coprocessor/copro/internal/domain"
	"github.com/evm-coprocessor/copro/internal/domain/config"
)

// SetConfigParams contains parameters for setting configuration
type SetConfigParams struct {
	Key   string
	Value string
}

// SetConfigResult contains the result of setting configuration
type SetConfigResult struct {
	UpdatedConfig *config.LocalConfig
	ConfigPath    string
	Key           config.ConfigKey
	Value         string
}

// SetConfig stores a value in config.local.json
type SetConfig struct {
	store LocalConfigRepository
}

// NewSetConfig creates a new SetConfig use case
func NewSetConfig(store LocalConfigRepository) *SetConfig {
	return &SetConfig{store: store}
}

// Run executes the set config use case
func (uc *SetConfig) Run(ctx context.Context, params SetConfigParams) (*SetConfigResult, error) {
	key, err := parseConfigKey(params.Key)
	if err != nil {
		return nil, err
	}

	value := strings.TrimSpace(params.Value)
	if key == config.ConfigKeyContract {
		if !common.IsHexAddress(value) {
			return nil, fmt.Errorf("%w: %q", domain.ErrInvalidAddress, value)
		}
		value = common.HexToAddress(value).Hex()
	}

	localConfig, err := uc.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	*configField(localConfig, key) = value

	if err := uc.store.Save(ctx, localConfig); err != nil {
		return nil, fmt.Errorf("failed to save config: %w", err)
	}

	return &SetConfigResult{
		UpdatedConfig: localConfig,
		ConfigPath:    uc.store.GetPath(),
		Key:           key,
		Value:         value,
	}, nil
}

// ShowConfigResult contains the result of showing configuration
type ShowConfigResult struct {
	Config     *config.LocalConfig `json:"local"`
	ConfigPath string              `json:"path"`
	Exists     bool                `json:"exists"`

	// Effective values after copro.toml and built-in defaults
	Contract       string `json:"contract"`
	Network        string `json:"network"`
	DefaultAccount string `json:"account"`
}

// ShowConfig reports the local configuration and what it resolves to
type ShowConfig struct {
	store  LocalConfigRepository
	config *config.RuntimeConfig
}

// NewShowConfig creates a new ShowConfig use case
func NewShowConfig(store LocalConfigRepository, cfg *config.RuntimeConfig) *ShowConfig {
	return &ShowConfig{store: store, config: cfg}
}

// Run executes the show config use case
func (uc *ShowConfig) Run(ctx context.Context) (*ShowConfigResult, error) {
	localConfig, err := uc.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	result := &ShowConfigResult{
		Config:     localConfig,
		ConfigPath: uc.store.GetPath(),
		Exists:     uc.store.Exists(),
		Contract:   uc.config.ContractAddress(),
	}
	if uc.config.Network != nil {
		result.Network = uc.config.Network.Name
	}
	if uc.config.Project != nil {
		result.DefaultAccount = uc.config.Project.Project.DefaultAccount
	}
	if uc.config.Account != "" {
		result.DefaultAccount = uc.config.Account
	}
	return result, nil
}

// RemoveConfigParams contains parameters for removing configuration
type RemoveConfigParams struct {
	Key string
}

// RemoveConfigResult contains the result of removing configuration
type RemoveConfigResult struct {
	UpdatedConfig *config.LocalConfig
	ConfigPath    string
	Key           config.ConfigKey
	RemovedValue  string
}

// RemoveConfig clears a value from config.local.json
type RemoveConfig struct {
	store LocalConfigRepository
}

// NewRemoveConfig creates a new RemoveConfig use case
func NewRemoveConfig(store LocalConfigRepository) *RemoveConfig {
	return &RemoveConfig{store: store}
}

// Run executes the remove config use case
func (uc *RemoveConfig) Run(ctx context.Context, params RemoveConfigParams) (*RemoveConfigResult, error) {
	if !uc.store.Exists() {
		path := uc.store.GetPath()
		if cwd, err := os.Getwd(); err == nil {
			if relPath, err := filepath.Rel(cwd, path); err == nil {
				path = relPath
			}
		}
		return nil, fmt.Errorf("no config file found at %s", path)
	}

	key, err := parseConfigKey(params.Key)
	if err != nil {
		return nil, err
	}

	localConfig, err := uc.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	field := configField(localConfig, key)
	removed := *field
	*field = ""

	if err := uc.store.Save(ctx, localConfig); err != nil {
		return nil, fmt.Errorf("failed to save config: %w", err)
	}

	return &RemoveConfigResult{
		UpdatedConfig: localConfig,
		ConfigPath:    uc.store.GetPath(),
		Key:           key,
		RemovedValue:  removed,
	}, nil
}

func parseConfigKey(raw string) (config.ConfigKey, error) {
	key := strings.ToLower(strings.TrimSpace(raw))
	if !config.IsValidConfigKey(key) {
		var validKeys []string
		for _, k := range config.ValidConfigKeys() {
			switch k {
			case config.ConfigKeyContract:
				validKeys = append(validKeys, string(k)+" (address)")
			case config.ConfigKeyNetwork:
				validKeys = append(validKeys, string(k)+" (net)")
			default:
				validKeys = append(validKeys, string(k))
			}
		}
		return "", fmt.Errorf("unknown config key: %s\nAvailable keys: %s", raw, strings.Join(validKeys, ", "))
	}
	return config.NormalizeConfigKey(key), nil
}

// configField returns the LocalConfig field backing key. key must be valid.
func configField(cfg *config.LocalConfig, key config.ConfigKey) *string {
	switch key {
	case config.ConfigKeyContract:
		return &cfg.Contract
	case config.ConfigKeyAccount:
		return &cfg.Account
	default:
		return &cfg.Network
	}
}
