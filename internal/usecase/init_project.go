package usecase

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/evm-coprocessor/copro/internal/domain/config"
)

// InitProjectParams contains parameters for project initialization
type InitProjectParams struct {
	Dir string // project directory, defaults to "."
}

// InitProjectResult contains the result of project initialization
type InitProjectResult struct {
	Toolchain          string // "hardhat", "foundry" or ""
	AlreadyInitialized bool
	Steps              []InitStep
}

// InitStep represents a step in the initialization process
type InitStep struct {
	Name    string
	Success bool
	Message string
	Error   error
}

// InitProject writes copro.toml, .env.example and the data directory
type InitProject struct {
	fileWriter FileWriter
}

// NewInitProject creates a new init project use case
func NewInitProject(fileWriter FileWriter) *InitProject {
	return &InitProject{fileWriter: fileWriter}
}

// Run initializes copro in a Hardhat or Foundry project. Existing files are kept.
func (i *InitProject) Run(ctx context.Context, params InitProjectParams) (*InitProjectResult, error) {
	dir := params.Dir
	if dir == "" {
		dir = "."
	}
	result := &InitProjectResult{}

	toolchain, artifacts, err := i.detectToolchain(ctx, dir)
	if err != nil {
		return nil, err
	}
	result.Toolchain = toolchain
	if toolchain == "" {
		result.Steps = append(result.Steps, InitStep{
			Name:    "Detect Toolchain",
			Success: true,
			Message: "No hardhat.config or foundry.toml found, assuming Hardhat layout",
		})
	} else {
		result.Steps = append(result.Steps, InitStep{
			Name:    "Detect Toolchain",
			Success: true,
			Message: fmt.Sprintf("Detected %s project (artifacts in %s/)", toolchain, artifacts),
		})
	}

	dataDir := filepath.Join(dir, ".copro")
	if err := i.fileWriter.EnsureDirectory(ctx, dataDir); err != nil {
		step := InitStep{Name: "Create .copro", Error: fmt.Errorf("failed to create %s: %w", dataDir, err)}
		result.Steps = append(result.Steps, step)
		return result, step.Error
	}
	result.Steps = append(result.Steps, InitStep{Name: "Create .copro", Success: true, Message: "Created .copro/ for deployment journals and local config"})

	step, existed := i.writeOnce(ctx, filepath.Join(dir, "copro.toml"), "Create copro.toml", projectTemplate(artifacts))
	result.Steps = append(result.Steps, step)
	if step.Error != nil {
		return result, step.Error
	}
	result.AlreadyInitialized = existed

	step, _ = i.writeOnce(ctx, filepath.Join(dir, ".env.example"), "Create .env.example", envExampleTemplate)
	result.Steps = append(result.Steps, step)
	if step.Error != nil {
		return result, step.Error
	}

	return result, nil
}

func (i *InitProject) detectToolchain(ctx context.Context, dir string) (string, string, error) {
	for _, name := range []string{"hardhat.config.js", "hardhat.config.ts", "hardhat.config.cjs"} {
		exists, err := i.fileWriter.FileExists(ctx, filepath.Join(dir, name))
		if err != nil {
			return "", "", err
		}
		if exists {
			return "hardhat", config.DefaultArtifactsDir, nil
		}
	}

	exists, err := i.fileWriter.FileExists(ctx, filepath.Join(dir, "foundry.toml"))
	if err != nil {
		return "", "", err
	}
	if exists {
		return "foundry", "out", nil
	}
	return "", config.DefaultArtifactsDir, nil
}

// writeOnce creates path with content unless it exists
func (i *InitProject) writeOnce(ctx context.Context, path, name, content string) (InitStep, bool) {
	exists, err := i.fileWriter.FileExists(ctx, path)
	if err != nil {
		return InitStep{Name: name, Error: fmt.Errorf("failed to check %s: %w", path, err)}, false
	}
	if exists {
		return InitStep{Name: name, Success: true, Message: filepath.Base(path) + " already exists"}, true
	}
	if err := i.fileWriter.WriteFile(ctx, path, content); err != nil {
		return InitStep{Name: name, Error: fmt.Errorf("failed to create %s: %w", path, err)}, false
	}
	return InitStep{Name: name, Success: true, Message: "Created " + filepath.Base(path)}, false
}

func projectTemplate(artifacts string) string {
	return fmt.Sprintf(`# copro.toml

[project]
artifacts = %q
default_network = "localhost"
default_account = "deployer"

[rpc_endpoints]
localhost = "http://127.0.0.1:8545"
sepolia = "${SEPOLIA_RPC_URL}"

[accounts.deployer]
type = "private_key"
private_key = "${DEPLOYER_PRIVATE_KEY}"

[coprocessor]
contract = %q
# Constructor argument of CoprocessorModule
dependency = %q
# Target of 'copro job new' and 'copro job watch'
address = %q

[watch]
interval = "60s"
gas_limit = 50000
priority_fee_wei = 100
fee_history_blocks = 10
result = "42"
# First block scanned before any watcher state exists. Public RPCs limit
# log queries, so set it near the deployment block on live networks.
# start_block = 0
# metrics_addr = ":9090"
`, artifacts, config.DefaultContractName, config.DefaultDependencyAddress, config.DefaultContractAddress)
}

const envExampleTemplate = `# copro configuration

# Signing key of [accounts.deployer]
DEPLOYER_PRIVATE_KEY=

# RPC URLs
SEPOLIA_RPC_URL=

# Log level: debug, info, warn, error
COPRO_LOG_LEVEL=info
`
