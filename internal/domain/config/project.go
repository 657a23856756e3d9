package config

import "time"

const (
	// DefaultContractName is the contract type deployed and driven by copro.
	DefaultContractName = "Coprocessor"

	// DefaultDependencyAddress is the constructor argument of the Coprocessor module.
	// Replace it with an address you control.
	DefaultDependencyAddress = "0xCFa17195BfD87CDE897392f01ebd8450a28243d7"

	// DefaultContractAddress is the Coprocessor instance that jobs are submitted to.
	DefaultContractAddress = "0xFe15805f952c6A1a465aDdD993457Ec640Ee57aA"

	DefaultArtifactsDir = "artifacts"
)

// ProjectConfig represents the full copro.toml configuration
type ProjectConfig struct {
	Project      ProjectSettings          `toml:"project"`
	RpcEndpoints map[string]string        `toml:"rpc_endpoints"`
	Explorers    map[string]string        `toml:"explorers,omitempty"`
	Accounts     map[string]AccountConfig `toml:"accounts"`
	Coprocessor  CoprocessorConfig        `toml:"coprocessor"`
	Watch        WatchConfig              `toml:"watch"`
}

// ProjectSettings holds the [project] section
type ProjectSettings struct {
	Artifacts      string `toml:"artifacts,omitempty"` // artifacts (hardhat) or out (foundry)
	DefaultNetwork string `toml:"default_network,omitempty"`
	DefaultAccount string `toml:"default_account,omitempty"`
}

type AccountType string

var (
	AccountTypePrivateKey AccountType = "private_key"
)

// AccountConfig represents a named signing entity in [accounts.*] sections.
type AccountConfig struct {
	Type       AccountType `toml:"type"`
	Address    string      `toml:"address,omitempty"`
	PrivateKey string      `toml:"private_key,omitempty"` //nolint:gosec // holds env var reference, not a literal secret
}

// CoprocessorConfig holds the [coprocessor] section
type CoprocessorConfig struct {
	Contract   string `toml:"contract,omitempty"`
	Dependency string `toml:"dependency,omitempty"`
	Address    string `toml:"address,omitempty"`
}

// WatchConfig holds the [watch] section used by the job watcher
type WatchConfig struct {
	Interval                time.Duration `toml:"interval,omitempty"`
	GasLimit                uint64        `toml:"gas_limit,omitempty"`
	PriorityFeeWei          int64         `toml:"priority_fee_wei,omitempty"`
	FeeHistoryBlocks        uint64        `toml:"fee_history_blocks,omitempty"`
	Result                  string        `toml:"result,omitempty"`
	MetricsAddr             string        `toml:"metrics_addr,omitempty"`
	MaxSubmissionsPerSecond float64       `toml:"max_submissions_per_second,omitempty"`
	StartBlock              uint64        `toml:"start_block,omitempty"` // first block scanned without stored state
}

// DefaultProjectConfig returns the configuration used when copro.toml leaves values unset
func DefaultProjectConfig() *ProjectConfig {
	return &ProjectConfig{
		Project: ProjectSettings{
			Artifacts: DefaultArtifactsDir,
		},
		RpcEndpoints: map[string]string{},
		Explorers:    map[string]string{},
		Accounts:     map[string]AccountConfig{},
		Coprocessor: CoprocessorConfig{
			Contract:   DefaultContractName,
			Dependency: DefaultDependencyAddress,
			Address:    DefaultContractAddress,
		},
		Watch: WatchConfig{
			Interval:                60 * time.Second,
			GasLimit:                50000,
			PriorityFeeWei:          100,
			FeeHistoryBlocks:        10,
			Result:                  "42",
			MaxSubmissionsPerSecond: 5,
		},
	}
}
