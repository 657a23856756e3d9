package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/evm-coprocessor/copro/internal/domain/config"
	"github.com/evm-coprocessor/copro/internal/usecase"
)

// LocalConfigStoreAdapter persists .copro/config.local.json
type LocalConfigStoreAdapter struct {
	configPath string
}

// NewLocalConfigStoreAdapter creates a new LocalConfigStoreAdapter
func NewLocalConfigStoreAdapter(cfg *config.RuntimeConfig) *LocalConfigStoreAdapter {
	return &LocalConfigStoreAdapter{
		configPath: filepath.Join(cfg.DataDir, "config.local.json"),
	}
}

// Exists checks if the config file exists
func (s *LocalConfigStoreAdapter) Exists() bool {
	_, err := os.Stat(s.configPath)
	return !os.IsNotExist(err)
}

// Load reads the configuration, returning the defaults when the file is absent
func (s *LocalConfigStoreAdapter) Load(ctx context.Context) (*config.LocalConfig, error) {
	localConfig := config.DefaultLocalConfig()
	if err := ReadJSON(s.configPath, localConfig); err != nil {
		if os.IsNotExist(err) {
			return config.DefaultLocalConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config file %s: %w", s.configPath, err)
	}
	return localConfig, nil
}

// Save writes the configuration to the file
func (s *LocalConfigStoreAdapter) Save(ctx context.Context, cfg *config.LocalConfig) error {
	if err := WriteJSON(s.configPath, cfg); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// GetPath returns the path to the config file
func (s *LocalConfigStoreAdapter) GetPath() string {
	return s.configPath
}

var _ usecase.LocalConfigRepository = (*LocalConfigStoreAdapter)(nil)
