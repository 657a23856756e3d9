package render

import (
	"fmt"
	"io"

	"github.com/evm-coprocessor/copro/internal/domain/config"
	"github.com/evm-coprocessor/copro/internal/usecase"
)

// ConfigRenderer renders config-related output
type ConfigRenderer struct {
	out io.Writer
}

// NewConfigRenderer creates a new config renderer
func NewConfigRenderer(out io.Writer) *ConfigRenderer {
	return &ConfigRenderer{
		out: out,
	}
}

func orNotSet(value string) string {
	if value == "" {
		return "(not set)"
	}
	return value
}

// RenderConfig renders the configuration display
func (r *ConfigRenderer) RenderConfig(result *usecase.ShowConfigResult) error {
	if !result.Exists {
		fmt.Fprintf(r.out, "❌ No .copro/config.local.json file found\n")
		fmt.Fprintf(r.out, "⚠️  Using copro.toml and built-in defaults\n\n")
	} else {
		fmt.Fprintln(r.out, "📋 Current config:")
		fmt.Fprintf(r.out, "Network:   %s\n", orNotSet(result.Config.Network))
		fmt.Fprintf(r.out, "Contract:  %s\n", orNotSet(result.Config.Contract))
		fmt.Fprintf(r.out, "Account:   %s\n\n", orNotSet(result.Config.Account))
	}

	fmt.Fprintln(r.out, "🎯 Effective:")
	fmt.Fprintf(r.out, "Network:   %s\n", orNotSet(result.Network))
	fmt.Fprintf(r.out, "Contract:  %s\n", result.Contract)
	fmt.Fprintf(r.out, "Account:   %s\n", orNotSet(result.DefaultAccount))

	fmt.Fprintf(r.out, "\n📁 config file: %s\n", relativePath(result.ConfigPath))
	return nil
}

// RenderSet renders the result of setting a configuration value
func (r *ConfigRenderer) RenderSet(result *usecase.SetConfigResult) error {
	fmt.Fprintf(r.out, "✅ Set %s to: %s\n", result.Key, result.Value)
	fmt.Fprintf(r.out, "📁 config saved to: %s\n", relativePath(result.ConfigPath))
	return nil
}

// RenderRemove renders the result of removing a configuration value
func (r *ConfigRenderer) RenderRemove(result *usecase.RemoveConfigResult) error {
	switch result.Key {
	case config.ConfigKeyContract:
		fmt.Fprintf(r.out, "✅ Removed contract from config (falls back to copro.toml or %s)\n", config.DefaultContractAddress)
	case config.ConfigKeyNetwork:
		fmt.Fprintf(r.out, "✅ Removed network from config (falls back to default_network)\n")
	default:
		fmt.Fprintf(r.out, "✅ Removed %s from config\n", result.Key)
	}

	fmt.Fprintf(r.out, "📁 config saved to: %s\n", relativePath(result.ConfigPath))
	return nil
}
