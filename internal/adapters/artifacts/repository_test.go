package artifacts

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/evm-coprocessor/copro/internal/domain"
	"github.com/evm-coprocessor/copro/internal/domain/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testABI = `[{"type":"function","name":"newJob","inputs":[],"outputs":[],"stateMutability":"nonpayable"}]`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func newTestRepository(t *testing.T) (*Repository, string) {
	t.Helper()
	root := t.TempDir()
	cfg := &config.RuntimeConfig{ProjectRoot: root}
	return NewRepository(cfg, slog.New(slog.NewTextHandler(io.Discard, nil))), root
}

func TestRepository_HardhatArtifact(t *testing.T) {
	repo, root := newTestRepository(t)

	writeFile(t, filepath.Join(root, "artifacts/contracts/Coprocessor.sol/Coprocessor.json"), `{
		"_format": "hh-sol-artifact-1",
		"contractName": "Coprocessor",
		"sourceName": "contracts/Coprocessor.sol",
		"abi": `+testABI+`,
		"bytecode": "0x6080",
		"deployedBytecode": "0x6080"
	}`)
	writeFile(t, filepath.Join(root, "artifacts/contracts/Coprocessor.sol/Coprocessor.dbg.json"), `{"_format":"hh-sol-dbg-1","buildInfo":"x"}`)
	writeFile(t, filepath.Join(root, "artifacts/build-info/abc.json"), `{"id":"abc"}`)

	artifact, err := repo.GetArtifact(context.Background(), "Coprocessor")
	require.NoError(t, err)
	assert.Equal(t, "contracts/Coprocessor.sol", artifact.SourceName)
	assert.True(t, artifact.IsDeployable())

	code, err := artifact.Bytecode.Bytes()
	require.NoError(t, err)
	assert.Equal(t, []byte{0x60, 0x80}, code)

	byKey, err := repo.GetArtifact(context.Background(), "contracts/Coprocessor.sol:Coprocessor")
	require.NoError(t, err)
	assert.Same(t, artifact, byKey)

	names, err := repo.ListContracts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Coprocessor"}, names)
}

func TestRepository_FoundryArtifact(t *testing.T) {
	repo, root := newTestRepository(t)

	writeFile(t, filepath.Join(root, "out/Coprocessor.sol/Coprocessor.json"), `{
		"abi": `+testABI+`,
		"bytecode": {"object": "0x60016002", "linkReferences": {}},
		"deployedBytecode": {"object": "0x6001"},
		"metadata": {"settings": {"compilationTarget": {"src/Coprocessor.sol": "Coprocessor"}}}
	}`)

	artifact, err := repo.GetArtifact(context.Background(), "Coprocessor")
	require.NoError(t, err)
	assert.Equal(t, "src/Coprocessor.sol", artifact.SourceName)
	assert.Equal(t, "Coprocessor", artifact.ContractName)

	code, err := artifact.Bytecode.Bytes()
	require.NoError(t, err)
	assert.Equal(t, []byte{0x60, 0x01, 0x60, 0x02}, code)
}

func TestRepository_NotFoundSuggestsNames(t *testing.T) {
	repo, root := newTestRepository(t)

	writeFile(t, filepath.Join(root, "artifacts/contracts/Coprocessor.sol/Coprocessor.json"),
		`{"contractName":"Coprocessor","sourceName":"contracts/Coprocessor.sol","abi":`+testABI+`,"bytecode":"0x00"}`)

	_, err := repo.GetArtifact(context.Background(), "Coproc")
	require.Error(t, err)

	var notFound domain.ArtifactNotFoundErr
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, []string{"Coprocessor"}, notFound.Suggestions)
	assert.Contains(t, err.Error(), "did you mean Coprocessor")
}

func TestRepository_Ambiguous(t *testing.T) {
	repo, root := newTestRepository(t)

	for _, source := range []string{"contracts/a/Coprocessor.sol", "contracts/b/Coprocessor.sol"} {
		writeFile(t, filepath.Join(root, "artifacts", source, "Coprocessor.json"),
			`{"contractName":"Coprocessor","sourceName":"`+source+`","abi":`+testABI+`,"bytecode":"0x00"}`)
	}

	_, err := repo.GetArtifact(context.Background(), "Coprocessor")
	var ambiguous domain.AmbiguousArtifactErr
	require.True(t, errors.As(err, &ambiguous))
	assert.Equal(t, []string{
		"contracts/a/Coprocessor.sol:Coprocessor",
		"contracts/b/Coprocessor.sol:Coprocessor",
	}, ambiguous.Paths)

	artifact, err := repo.GetArtifact(context.Background(), "contracts/b/Coprocessor.sol:Coprocessor")
	require.NoError(t, err)
	assert.Equal(t, "contracts/b/Coprocessor.sol", artifact.SourceName)
}

func TestRepository_PrefersDeployableOverInterface(t *testing.T) {
	repo, root := newTestRepository(t)

	writeFile(t, filepath.Join(root, "artifacts/contracts/Coprocessor.sol/Coprocessor.json"),
		`{"contractName":"Coprocessor","sourceName":"contracts/Coprocessor.sol","abi":`+testABI+`,"bytecode":"0x6080"}`)
	writeFile(t, filepath.Join(root, "artifacts/contracts/ICoprocessor.sol/Coprocessor.json"),
		`{"contractName":"Coprocessor","sourceName":"contracts/ICoprocessor.sol","abi":`+testABI+`,"bytecode":"0x"}`)

	artifact, err := repo.GetArtifact(context.Background(), "Coprocessor")
	require.NoError(t, err)
	assert.Equal(t, "contracts/Coprocessor.sol", artifact.SourceName)
}

func TestRepository_EmptyProject(t *testing.T) {
	repo, _ := newTestRepository(t)

	names, err := repo.ListContracts(context.Background())
	require.NoError(t, err)
	assert.Empty(t, names)

	_, err = repo.GetArtifact(context.Background(), "Coprocessor")
	assert.ErrorAs(t, err, &domain.ArtifactNotFoundErr{})
}
