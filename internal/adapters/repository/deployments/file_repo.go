package deployments

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/evm-coprocessor/copro/internal/adapters/fs"
	"github.com/evm-coprocessor/copro/internal/domain"
	"github.com/evm-coprocessor/copro/internal/domain/config"
	"github.com/evm-coprocessor/copro/internal/domain/models"
	"github.com/evm-coprocessor/copro/internal/usecase"
)

const (
	DeploymentsDir        = "deployments"
	JournalFile           = "journal.json"
	DeployedAddressesFile = "deployed_addresses.json"
)

// FileRepository stores the deployment journal as json files, one directory per chain:
//
//	<data dir>/deployments/chain-<id>/journal.json
//	<data dir>/deployments/chain-<id>/deployed_addresses.json
type FileRepository struct {
	dir string
	mu  sync.RWMutex
}

// NewFileRepository creates a journal rooted at dir
func NewFileRepository(dir string) *FileRepository {
	return &FileRepository{dir: dir}
}

// NewFileRepositoryFromConfig creates a journal in the project data directory
func NewFileRepositoryFromConfig(cfg *config.RuntimeConfig) *FileRepository {
	return NewFileRepository(filepath.Join(cfg.DataDir, DeploymentsDir))
}

func (m *FileRepository) chainDir(chainID uint64) string {
	return filepath.Join(m.dir, fmt.Sprintf("chain-%d", chainID))
}

// loadJournal reads the journal of one chain. A missing journal is empty.
func (m *FileRepository) loadJournal(chainID uint64) (map[string]*models.Deployment, error) {
	journal := make(map[string]*models.Deployment)

	if err := fs.ReadJSON(filepath.Join(m.chainDir(chainID), JournalFile), &journal); err != nil {
		if os.IsNotExist(err) {
			return journal, nil
		}
		return nil, fmt.Errorf("failed to read journal of chain %d: %w", chainID, err)
	}
	return journal, nil
}

func (m *FileRepository) saveJournal(chainID uint64, journal map[string]*models.Deployment) error {
	dir := m.chainDir(chainID)
	if err := fs.WriteJSON(filepath.Join(dir, JournalFile), journal); err != nil {
		return fmt.Errorf("failed to save journal: %w", err)
	}

	addresses := make(map[string]string)
	for id, dep := range journal {
		if dep.Status == models.DeploymentStatusSuccess {
			addresses[id] = dep.Address
		}
	}
	if err := fs.WriteJSON(filepath.Join(dir, DeployedAddressesFile), addresses); err != nil {
		return fmt.Errorf("failed to save deployed addresses: %w", err)
	}
	return nil
}

// chainIDs lists the chains that have a journal directory
func (m *FileRepository) chainIDs() ([]uint64, error) {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var ids []uint64
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), "chain-") {
			continue
		}
		id, err := strconv.ParseUint(strings.TrimPrefix(entry.Name(), "chain-"), 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// GetDeployment retrieves the journal record of a future on a chain
func (m *FileRepository) GetDeployment(ctx context.Context, chainID uint64, futureID string) (*models.Deployment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	journal, err := m.loadJournal(chainID)
	if err != nil {
		return nil, err
	}
	dep, ok := journal[futureID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return dep, nil
}

// ListDeployments retrieves journal records matching the filter, ordered by chain and creation time
func (m *FileRepository) ListDeployments(ctx context.Context, filter domain.DeploymentFilter) ([]*models.Deployment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	chains := []uint64{filter.ChainID}
	if filter.ChainID == 0 {
		var err error
		if chains, err = m.chainIDs(); err != nil {
			return nil, fmt.Errorf("failed to list journals: %w", err)
		}
	}

	var result []*models.Deployment
	for _, chainID := range chains {
		journal, err := m.loadJournal(chainID)
		if err != nil {
			return nil, err
		}
		for _, dep := range journal {
			if filter.ModuleID != "" && dep.ModuleID != filter.ModuleID {
				continue
			}
			if filter.ContractName != "" && dep.ContractName != filter.ContractName {
				continue
			}
			result = append(result, dep)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].ChainID != result[j].ChainID {
			return result[i].ChainID < result[j].ChainID
		}
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[i].FutureID < result[j].FutureID
	})
	return result, nil
}

// SaveDeployment inserts or replaces a journal record
func (m *FileRepository) SaveDeployment(ctx context.Context, deployment *models.Deployment) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	journal, err := m.loadJournal(deployment.ChainID)
	if err != nil {
		return err
	}
	clone := *deployment
	journal[deployment.FutureID] = &clone
	return m.saveJournal(deployment.ChainID, journal)
}

// DeleteDeployment removes a journal record
func (m *FileRepository) DeleteDeployment(ctx context.Context, chainID uint64, futureID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	journal, err := m.loadJournal(chainID)
	if err != nil {
		return err
	}
	if _, ok := journal[futureID]; !ok {
		return domain.ErrNotFound
	}
	delete(journal, futureID)
	return m.saveJournal(chainID, journal)
}

var _ usecase.DeploymentRepository = (*FileRepository)(nil)
