package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/evm-coprocessor/copro/internal/domain/config"
	"github.com/joho/godotenv"
)

// ProjectFile marks the project root
const ProjectFile = "copro.toml"

// loadEnvFiles loads .env and .env.local from the project root. Variables
// already set in the environment win.
func loadEnvFiles(projectRoot string) {
	for _, name := range []string{".env", ".env.local"} {
		envFile := filepath.Join(projectRoot, name)
		if _, err := os.Stat(envFile); err != nil {
			continue
		}
		if err := godotenv.Load(envFile); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: Failed to load %s: %v\n", envFile, err)
		}
	}
}

// LoadProjectConfig reads copro.toml over the built-in defaults and expands
// ${VAR} references. A missing copro.toml yields the defaults.
func LoadProjectConfig(projectRoot string) (*config.ProjectConfig, error) {
	loadEnvFiles(projectRoot)

	cfg := config.DefaultProjectConfig()

	path := filepath.Join(projectRoot, ProjectFile)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", ProjectFile, err)
	}

	for name, url := range cfg.RpcEndpoints {
		cfg.RpcEndpoints[name] = os.ExpandEnv(url)
	}
	for name, url := range cfg.Explorers {
		cfg.Explorers[name] = os.ExpandEnv(url)
	}
	for name, account := range cfg.Accounts {
		account.PrivateKey = os.ExpandEnv(account.PrivateKey)
		account.Address = os.ExpandEnv(account.Address)
		cfg.Accounts[name] = account
	}
	cfg.Coprocessor.Dependency = os.ExpandEnv(cfg.Coprocessor.Dependency)
	cfg.Coprocessor.Address = os.ExpandEnv(cfg.Coprocessor.Address)

	return cfg, nil
}
