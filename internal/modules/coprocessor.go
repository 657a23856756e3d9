package modules

import (
	"github.com/evm-coprocessor/copro/internal/domain/config"
	"github.com/evm-coprocessor/copro/internal/domain/models"
)

const (
	CoprocessorModuleID  = "CoprocessorModule"
	CoprocessorResultKey = "coprocessor"
)

// buildCoprocessor declares one Coprocessor contract constructed with the
// dependency address and exposes it as "coprocessor".
func buildCoprocessor(params Params) (*models.Module, error) {
	contractName := params.ContractName
	if contractName == "" {
		contractName = config.DefaultContractName
	}
	dependency := params.Dependency
	if dependency == "" {
		dependency = config.DefaultDependencyAddress
	}

	addr, err := parseAddress(dependency)
	if err != nil {
		return nil, err
	}

	m := models.NewModule(CoprocessorModuleID)
	coprocessor := m.Contract(contractName, addr)
	m.Expose(CoprocessorResultKey, coprocessor)

	return m, nil
}
