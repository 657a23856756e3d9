package testutil

import (
	"encoding/json"
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/vm"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"
)

// CoprocessorABI describes the Coprocessor test contract:
//
//	constructor(address dependency)
//	function newJob()                 emits NewJob(jobCount)
//	function dependency() view returns (address)
//	function jobCount() view returns (uint256)
//	function callback(string result)
const CoprocessorABI = `[
	{"type":"constructor","inputs":[{"name":"_dependency","type":"address","internalType":"address"}],"stateMutability":"nonpayable"},
	{"type":"function","name":"newJob","inputs":[],"outputs":[],"stateMutability":"nonpayable"},
	{"type":"function","name":"dependency","inputs":[],"outputs":[{"name":"","type":"address","internalType":"address"}],"stateMutability":"view"},
	{"type":"function","name":"jobCount","inputs":[],"outputs":[{"name":"","type":"uint256","internalType":"uint256"}],"stateMutability":"view"},
	{"type":"function","name":"callback","inputs":[{"name":"_result","type":"string","internalType":"string"}],"outputs":[],"stateMutability":"nonpayable"},
	{"type":"event","name":"NewJob","inputs":[{"name":"jobId","type":"uint256","indexed":false,"internalType":"uint256"}],"anonymous":false}
]`

// PausedReason is the revert reason of the reverting Coprocessor variant
const PausedReason = "job queue paused"

func selector(signature string) []byte {
	return crypto.Keccak256([]byte(signature))[:4]
}

// revertPayload encodes Error(string) for reason
func revertPayload(reason string) []byte {
	str, _ := abi.NewType("string", "", nil)
	packed, err := abi.Arguments{{Type: str}}.Pack(reason)
	if err != nil {
		panic(err)
	}
	return append(selector("Error(string)"), packed...)
}

// coprocessorRuntime assembles the deployed code. Slot 0 holds the
// dependency, slot 1 the job counter.
func coprocessorRuntime(reverting bool) []byte {
	a := newAssembler()

	// selector = calldata[0:4]
	a.pushUint(0).op(vm.CALLDATALOAD).pushUint(0xe0).op(vm.SHR)
	for _, route := range []struct{ sig, label string }{
		{"newJob()", "newJob"},
		{"dependency()", "dependency"},
		{"jobCount()", "jobCount"},
		{"callback(string)", "callback"},
	} {
		a.op(vm.DUP1).push(selector(route.sig)).op(vm.EQ).pushLabel(route.label).op(vm.JUMPI)
	}
	a.pushUint(0).op(vm.DUP1, vm.REVERT)

	a.jumpdest("newJob")
	if reverting {
		payload := revertPayload(PausedReason)
		a.pushUint(uint64(len(payload))).pushLabel("reason").pushUint(0).op(vm.CODECOPY)
		a.pushUint(uint64(len(payload))).pushUint(0).op(vm.REVERT)
	} else {
		// jobCount += 1; emit NewJob(jobCount)
		a.pushUint(1).op(vm.SLOAD).pushUint(1).op(vm.ADD)
		a.op(vm.DUP1).pushUint(1).op(vm.SSTORE)
		a.pushUint(0).op(vm.MSTORE)
		a.push(crypto.Keccak256([]byte("NewJob(uint256)"))).pushUint(32).pushUint(0).op(vm.LOG1)
		a.op(vm.STOP)
	}

	a.jumpdest("dependency")
	a.pushUint(0).op(vm.SLOAD).pushUint(0).op(vm.MSTORE)
	a.pushUint(32).pushUint(0).op(vm.RETURN)

	a.jumpdest("jobCount")
	a.pushUint(1).op(vm.SLOAD).pushUint(0).op(vm.MSTORE)
	a.pushUint(32).pushUint(0).op(vm.RETURN)

	a.jumpdest("callback")
	a.op(vm.STOP)

	if reverting {
		a.data("reason", revertPayload(PausedReason))
	}
	return a.bytes()
}

// coprocessorInitcode stores the trailing 32 byte constructor argument in
// slot 0 and returns the runtime code that follows the init section.
func coprocessorInitcode(reverting bool) []byte {
	runtime := coprocessorRuntime(reverting)

	a := newAssembler()
	a.pushUint(32).pushUint(32).op(vm.CODESIZE, vm.SUB).pushUint(0).op(vm.CODECOPY)
	a.pushUint(0).op(vm.MLOAD).pushUint(0).op(vm.SSTORE)
	a.push(uint16Bytes(len(runtime))).pushLabel("runtime").pushUint(0).op(vm.CODECOPY)
	a.push(uint16Bytes(len(runtime))).pushUint(0).op(vm.RETURN)
	a.data("runtime", runtime)
	return a.bytes()
}

func uint16Bytes(v int) []byte {
	return big.NewInt(int64(v)).FillBytes(make([]byte, 2))
}

// CoprocessorBytecode returns the creation code without constructor arguments
func CoprocessorBytecode() []byte {
	return coprocessorInitcode(false)
}

// RevertingCoprocessorBytecode returns creation code whose newJob always reverts
func RevertingCoprocessorBytecode() []byte {
	return coprocessorInitcode(true)
}

// MustParseCoprocessorABI parses CoprocessorABI
func MustParseCoprocessorABI(t testing.TB) *abi.ABI {
	t.Helper()
	parsed, err := abi.JSON(strings.NewReader(CoprocessorABI))
	require.NoError(t, err)
	return &parsed
}

// WriteHardhatArtifact writes a Hardhat style artifact for the Coprocessor
// under <root>/artifacts/contracts/Coprocessor.sol/Coprocessor.json
func WriteHardhatArtifact(t testing.TB, root string, bytecode []byte) string {
	t.Helper()

	artifact := map[string]any{
		"_format":          "hh-sol-artifact-1",
		"contractName":     "Coprocessor",
		"sourceName":       "contracts/Coprocessor.sol",
		"abi":              json.RawMessage(CoprocessorABI),
		"bytecode":         hexutil.Encode(bytecode),
		"deployedBytecode": hexutil.Encode(coprocessorRuntime(false)),
	}
	data, err := json.MarshalIndent(artifact, "", "  ")
	require.NoError(t, err)

	path := filepath.Join(root, "artifacts", "contracts", "Coprocessor.sol", "Coprocessor.json")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}
