package config

import (
	"time"
)

// RuntimeConfig represents the complete runtime configuration
// This is injected into use cases and contains all resolved settings
type RuntimeConfig struct {
	// Core settings
	ProjectRoot string
	DataDir     string

	// Context settings
	Network      *Network // nil if not specified or not resolvable
	NetworkError error    // why the selected network could not be resolved
	Account      string   // Name of the signing account in copro.toml

	// Execution settings
	Debug          bool
	NonInteractive bool
	JSON           bool // Output in JSON format
	YAML           bool // Output in YAML format
	Timeout        time.Duration

	// Command-specific settings (only populated for relevant commands)
	AutoConfirm bool

	// Resolved configurations
	Project *ProjectConfig
	Local   *LocalConfig
}

// Network represents network configuration
type Network struct {
	ChainID     uint64 `json:"chainId"`
	Name        string `json:"name"`
	RPCURL      string `json:"rpcUrl"`
	ExplorerURL string `json:"explorerUrl,omitempty"`
}

// IsLocal reports whether the network points at a development node.
func (n *Network) IsLocal() bool {
	if n == nil {
		return false
	}
	return n.ChainID == 31337 || n.ChainID == 1337
}

// ContractAddress returns the Coprocessor that jobs are sent to and watched on.
// config.local.json takes precedence over copro.toml.
func (c *RuntimeConfig) ContractAddress() string {
	if c.Local != nil && c.Local.Contract != "" {
		return c.Local.Contract
	}
	if c.Project != nil && c.Project.Coprocessor.Address != "" {
		return c.Project.Coprocessor.Address
	}
	return DefaultContractAddress
}
