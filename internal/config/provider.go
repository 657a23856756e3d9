package config

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/evm-coprocessor/copro/internal/domain/config"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// DataDirName is the per-project state directory
const DataDirName = ".copro"

// Provider creates RuntimeConfig for Wire dependency injection
func Provider(v *viper.Viper) (*config.RuntimeConfig, error) {
	projectRoot := v.GetString("project_root")
	if projectRoot == "" {
		var err error
		projectRoot, err = FindProjectRoot()
		if err != nil {
			return nil, err
		}
	}

	dataDir := filepath.Join(projectRoot, DataDirName)
	cfg := &config.RuntimeConfig{
		ProjectRoot:    projectRoot,
		DataDir:        dataDir,
		Account:        v.GetString("account"),
		Debug:          v.GetBool("debug"),
		NonInteractive: v.GetBool("non_interactive"),
		JSON:           v.GetBool("json"),
		YAML:           v.GetBool("yaml"),
		Timeout:        v.GetDuration("timeout"),
		AutoConfirm:    v.GetBool("yes"),
	}

	project, err := LoadProjectConfig(projectRoot)
	if err != nil {
		return nil, err
	}
	cfg.Project = project

	local, err := loadLocalConfig(dataDir)
	if err != nil {
		return nil, err
	}
	cfg.Local = local

	// --network, COPRO_NETWORK and config.local.json arrive through viper.
	// A network that cannot be resolved only fails the commands that need it.
	networkName := v.GetString("network")
	if networkName == "" {
		networkName = project.Project.DefaultNetwork
	}
	if networkName != "" {
		resolver := NewNetworkResolver(dataDir, project)
		network, err := resolver.ResolveNetwork(context.Background(), networkName)
		if err != nil {
			cfg.NetworkError = fmt.Errorf("failed to resolve network %s: %w", networkName, err)
		}
		cfg.Network = network
	}

	return cfg, nil
}

// loadLocalConfig reads .copro/config.local.json, returning the defaults when it is absent
func loadLocalConfig(dataDir string) (*config.LocalConfig, error) {
	local := config.DefaultLocalConfig()

	path := filepath.Join(dataDir, "config.local.json")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return local, nil
		}
		return nil, err
	}
	if err := json.Unmarshal(data, local); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return local, nil
}

// FindProjectRoot walks up from current directory to find copro.toml
func FindProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, ProjectFile)); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("not in a copro project (%s not found), run 'copro init' first", ProjectFile)
		}
		dir = parent
	}
}

// SetupViper creates and configures a viper instance. flags are bound under
// their names with dashes replaced by underscores.
func SetupViper(projectRoot string, flags *pflag.FlagSet) *viper.Viper {
	v := viper.New()

	v.SetConfigName("config.local")
	v.SetConfigType("json")
	v.AddConfigPath(filepath.Join(projectRoot, DataDirName))

	v.SetEnvPrefix("COPRO")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	v.SetDefault("debug", false)
	v.SetDefault("non_interactive", false)
	v.SetDefault("project_root", projectRoot)

	// Try to read config file (ignore error if not found)
	_ = v.ReadInConfig()

	if flags != nil {
		flags.VisitAll(func(f *pflag.Flag) {
			if err := v.BindPFlag(strings.ReplaceAll(f.Name, "-", "_"), f); err != nil {
				panic(err)
			}
		})
	}

	return v
}

// ProvideNetworkResolver creates a NetworkResolver for Wire dependency injection
func ProvideNetworkResolver(cfg *config.RuntimeConfig) *NetworkResolver {
	return NewNetworkResolver(cfg.DataDir, cfg.Project)
}
