package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Bytecode holds contract bytecode. Hardhat artifacts store it as a hex
// string, Foundry artifacts as an object with the hex under "object".
type Bytecode struct {
	Object         string         `json:"object"`
	LinkReferences map[string]any `json:"linkReferences,omitempty"`
}

func (b *Bytecode) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &b.Object)
	}
	type raw Bytecode
	return json.Unmarshal(data, (*raw)(b))
}

// Bytes decodes the bytecode hex. Unlinked library placeholders are an error.
func (b Bytecode) Bytes() ([]byte, error) {
	object := strings.TrimSpace(b.Object)
	if object == "" || object == "0x" {
		return nil, nil
	}
	if strings.Contains(object, "__") {
		return nil, fmt.Errorf("bytecode has unlinked library references")
	}
	if !strings.HasPrefix(object, "0x") {
		object = "0x" + object
	}
	return hexutil.Decode(object)
}

// Artifact represents a compilation artifact produced by Hardhat or Foundry
type Artifact struct {
	ContractName     string           `json:"contractName"`
	SourceName       string           `json:"sourceName"`
	ABI              json.RawMessage  `json:"abi"`
	Bytecode         Bytecode         `json:"bytecode"`
	DeployedBytecode Bytecode         `json:"deployedBytecode"`
	Metadata         ArtifactMetadata `json:"metadata"`

	// Path of the artifact file on disk (not persisted)
	Path string `json:"-"`
}

// ArtifactMetadata is the subset of solc metadata carried by Foundry artifacts
type ArtifactMetadata struct {
	Settings struct {
		CompilationTarget map[string]string `json:"compilationTarget"`
	} `json:"settings"`
}

// IsDeployable reports whether the artifact carries creation bytecode
func (a *Artifact) IsDeployable() bool {
	code, err := a.Bytecode.Bytes()
	return err == nil && len(code) > 0
}
