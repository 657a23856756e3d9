package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/evm-coprocessor/copro/internal/domain/config"
	"github.com/evm-coprocessor/copro/internal/domain/models"
	"github.com/evm-coprocessor/copro/internal/usecase"
)

// WatcherStateStoreAdapter keeps one watcher cursor per chain and contract under
// <data dir>/watcher/chain-<id>/<contract>.json
type WatcherStateStoreAdapter struct {
	dir string
}

// NewWatcherStateStoreAdapter creates a new WatcherStateStoreAdapter
func NewWatcherStateStoreAdapter(cfg *config.RuntimeConfig) *WatcherStateStoreAdapter {
	return &WatcherStateStoreAdapter{
		dir: filepath.Join(cfg.DataDir, "watcher"),
	}
}

func (s *WatcherStateStoreAdapter) statePath(chainID uint64, contract string) string {
	return filepath.Join(s.dir, fmt.Sprintf("chain-%d", chainID), strings.ToLower(contract)+".json")
}

// Load returns the stored cursor. A contract that was never watched starts at block 0 with no nonce.
func (s *WatcherStateStoreAdapter) Load(_ context.Context, chainID uint64, contract common.Address) (*models.WatcherState, error) {
	state := &models.WatcherState{ChainID: chainID, Contract: contract.Hex()}

	path := s.statePath(chainID, contract.Hex())
	if err := ReadJSON(path, state); err != nil {
		if os.IsNotExist(err) {
			return &models.WatcherState{ChainID: chainID, Contract: contract.Hex()}, nil
		}
		return nil, fmt.Errorf("failed to read watcher state %s: %w", path, err)
	}
	return state, nil
}

// Save writes the cursor to disk
func (s *WatcherStateStoreAdapter) Save(_ context.Context, state *models.WatcherState) error {
	if err := WriteJSON(s.statePath(state.ChainID, state.Contract), state); err != nil {
		return fmt.Errorf("failed to write watcher state: %w", err)
	}
	return nil
}

var _ usecase.WatcherStateRepository = (*WatcherStateStoreAdapter)(nil)
