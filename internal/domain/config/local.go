package config

// LocalConfig represents the local copro configuration stored in .copro/config.local.json
type LocalConfig struct {
	Network  string `json:"network"`
	Contract string `json:"contract,omitempty"`
	Account  string `json:"account,omitempty"`
}

// ConfigKey represents a configuration key
type ConfigKey string

const (
	ConfigKeyNetwork  ConfigKey = "network"
	ConfigKeyContract ConfigKey = "contract"
	ConfigKeyAccount  ConfigKey = "account"
)

// DefaultLocalConfig returns the default local configuration
func DefaultLocalConfig() *LocalConfig {
	return &LocalConfig{}
}

// ValidConfigKeys returns all valid configuration keys
func ValidConfigKeys() []ConfigKey {
	return []ConfigKey{
		ConfigKeyNetwork,
		ConfigKeyContract,
		ConfigKeyAccount,
	}
}

// IsValidConfigKey checks if a key is valid
func IsValidConfigKey(key string) bool {
	for _, validKey := range ValidConfigKeys() {
		if string(NormalizeConfigKey(key)) == string(validKey) {
			return true
		}
	}
	return false
}

// NormalizeConfigKey normalizes a config key (e.g., "address" -> "contract")
func NormalizeConfigKey(key string) ConfigKey {
	switch key {
	case "address":
		return ConfigKeyContract
	case "net":
		return ConfigKeyNetwork
	}
	return ConfigKey(key)
}
