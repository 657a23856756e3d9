package domain

// DeploymentFilter narrows journal listings
type DeploymentFilter struct {
	ChainID      uint64
	ModuleID     string
	ContractName string
}
