package models

import (
	"time"
)

// DeploymentStatus represents the state of a journaled deployment
type DeploymentStatus string

const (
	DeploymentStatusPending DeploymentStatus = "PENDING"
	DeploymentStatusSuccess DeploymentStatus = "SUCCESS"
)

// Deployment is a journal record for one contract future on one chain
type Deployment struct {
	FutureID        string           `json:"futureId"`
	ModuleID        string           `json:"moduleId"`
	ContractName    string           `json:"contractName"`
	ChainID         uint64           `json:"chainId"`
	ConstructorArgs string           `json:"constructorArgs"` // Hex encoded
	TxHash          string           `json:"txHash"`
	Address         string           `json:"address"`
	Deployer        string           `json:"deployer"`
	BlockNumber     uint64           `json:"blockNumber,omitempty"`
	Status          DeploymentStatus `json:"status"`
	CreatedAt       time.Time        `json:"createdAt"`
	UpdatedAt       time.Time        `json:"updatedAt"`
}

// DeploymentResult is the outcome of deploying a module
type DeploymentResult struct {
	ModuleID    string
	ChainID     uint64
	Network     string
	Deployments []*Deployment
	Reused      map[string]bool   // future ID -> taken from the journal
	Results     map[string]string // result key -> address
}
