package models

import "fmt"

// ContractFuture describes one contract instance a module will deploy
type ContractFuture struct {
	ID           string // e.g. "CoprocessorModule#Coprocessor"
	ContractName string
	Args         []any
}

// Module is a named deployment unit. It owns its futures and exposes some of
// them under result keys.
type Module struct {
	ID      string
	Futures []*ContractFuture
	Results map[string]string // result key -> future ID
}

// NewModule creates an empty module
func NewModule(id string) *Module {
	return &Module{
		ID:      id,
		Results: make(map[string]string),
	}
}

// Contract declares a contract future and returns it
func (m *Module) Contract(contractName string, args ...any) *ContractFuture {
	future := &ContractFuture{
		ID:           fmt.Sprintf("%s#%s", m.ID, contractName),
		ContractName: contractName,
		Args:         args,
	}
	m.Futures = append(m.Futures, future)
	return future
}

// Expose publishes a future under a result key
func (m *Module) Expose(key string, future *ContractFuture) {
	m.Results[key] = future.ID
}

// Future looks up a future by ID
func (m *Module) Future(id string) *ContractFuture {
	for _, f := range m.Futures {
		if f.ID == id {
			return f
		}
	}
	return nil
}
