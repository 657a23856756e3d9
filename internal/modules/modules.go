// Package modules declares the deployment units copro knows how to deploy.
package modules

import (
	"fmt"
	"sort"

	"github.com/ethereum/go-ethereum/common"
	"github.com/evm-coprocessor/copro/internal/domain"
	"github.com/evm-coprocessor/copro/internal/domain/models"
)

// Params carries the values a module definition may depend on
type Params struct {
	ContractName string
	Dependency   string
}

// Builder constructs a module from params
type Builder func(params Params) (*models.Module, error)

var registry = map[string]Builder{
	CoprocessorModuleID: buildCoprocessor,
}

// Lookup returns the builder registered under id
func Lookup(id string) (Builder, bool) {
	b, ok := registry[id]
	return b, ok
}

// IDs returns the registered module IDs in sorted order
func IDs() []string {
	ids := make([]string, 0, len(registry))
	for id := range registry {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Build looks up and builds the module registered under id
func Build(id string, params Params) (*models.Module, error) {
	builder, ok := Lookup(id)
	if !ok {
		return nil, fmt.Errorf("unknown module %q (available: %v)", id, IDs())
	}
	return builder(params)
}

func parseAddress(value string) (common.Address, error) {
	if !common.IsHexAddress(value) {
		return common.Address{}, fmt.Errorf("%w: %q", domain.ErrInvalidAddress, value)
	}
	return common.HexToAddress(value), nil
}
