package usecase_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/evm-coprocessor/copro/internal/adapters/fs"
	"github.com/evm-coprocessor/copro/internal/domain/config"
	"github.com/evm-coprocessor/copro/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitProject(t *testing.T) {
	ctx := context.Background()

	t.Run("foundry project", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "foundry.toml"), []byte("[profile.default]\n"), 0644))

		result, err := usecase.NewInitProject(fs.NewFileWriterAdapter()).Run(ctx, usecase.InitProjectParams{Dir: dir})
		require.NoError(t, err)
		assert.Equal(t, "foundry", result.Toolchain)
		assert.False(t, result.AlreadyInitialized)
		for _, step := range result.Steps {
			assert.True(t, step.Success, step.Name)
		}

		assert.DirExists(t, filepath.Join(dir, ".copro"))
		assert.FileExists(t, filepath.Join(dir, ".env.example"))

		var project config.ProjectConfig
		_, err = toml.DecodeFile(filepath.Join(dir, "copro.toml"), &project)
		require.NoError(t, err)
		assert.Equal(t, "out", project.Project.Artifacts)
		assert.Equal(t, config.DefaultDependencyAddress, project.Coprocessor.Dependency)
		assert.Equal(t, config.DefaultContractAddress, project.Coprocessor.Address)
		assert.Equal(t, config.DefaultProjectConfig().Watch.Interval, project.Watch.Interval)
		assert.Equal(t, config.AccountTypePrivateKey, project.Accounts["deployer"].Type)
	})

	t.Run("hardhat project", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "hardhat.config.ts"), []byte("export default {}\n"), 0644))

		result, err := usecase.NewInitProject(fs.NewFileWriterAdapter()).Run(ctx, usecase.InitProjectParams{Dir: dir})
		require.NoError(t, err)
		assert.Equal(t, "hardhat", result.Toolchain)

		data, err := os.ReadFile(filepath.Join(dir, "copro.toml"))
		require.NoError(t, err)
		assert.Contains(t, string(data), `artifacts = "artifacts"`)
	})

	t.Run("keeps existing copro.toml", func(t *testing.T) {
		dir := t.TempDir()
		existing := "[project]\ndefault_network = \"sepolia\"\n"
		require.NoError(t, os.WriteFile(filepath.Join(dir, "copro.toml"), []byte(existing), 0644))

		result, err := usecase.NewInitProject(fs.NewFileWriterAdapter()).Run(ctx, usecase.InitProjectParams{Dir: dir})
		require.NoError(t, err)
		assert.True(t, result.AlreadyInitialized)
		assert.Empty(t, result.Toolchain)

		data, err := os.ReadFile(filepath.Join(dir, "copro.toml"))
		require.NoError(t, err)
		assert.Equal(t, existing, string(data))
	})
}
