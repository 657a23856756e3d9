package artifacts

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/evm-coprocessor/copro/internal/domain"
	"github.com/evm-coprocessor/copro/internal/domain/config"
	"github.com/evm-coprocessor/copro/internal/domain/models"
	"github.com/evm-coprocessor/copro/internal/usecase"
	"github.com/sahilm/fuzzy"
	"github.com/samber/lo"
)

// Repository indexes compiled contract artifacts from Hardhat (artifacts/)
// and Foundry (out/) build directories.
type Repository struct {
	dirs     []string
	byKey    map[string]*models.Artifact   // key: "SourceName:ContractName"
	byName   map[string][]*models.Artifact // key: contract name
	log      *slog.Logger
	mu       sync.RWMutex
	indexed  bool
	indexErr error
}

// NewRepository creates a repository over the configured artifacts directory.
// When none is configured both the Hardhat and Foundry defaults are searched.
func NewRepository(cfg *config.RuntimeConfig, log *slog.Logger) *Repository {
	var dirs []string
	if cfg.Project != nil && cfg.Project.Project.Artifacts != "" {
		dir := cfg.Project.Project.Artifacts
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(cfg.ProjectRoot, dir)
		}
		dirs = append(dirs, dir)
	} else {
		dirs = append(dirs,
			filepath.Join(cfg.ProjectRoot, config.DefaultArtifactsDir),
			filepath.Join(cfg.ProjectRoot, "out"),
		)
	}
	return NewRepositoryWithDirs(dirs, log)
}

// NewRepositoryWithDirs creates a repository over explicit build directories
func NewRepositoryWithDirs(dirs []string, log *slog.Logger) *Repository {
	return &Repository{
		dirs:   dirs,
		byKey:  make(map[string]*models.Artifact),
		byName: make(map[string][]*models.Artifact),
		log:    log.With("component", "ArtifactRepository"),
	}
}

func (r *Repository) index() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexed {
		return r.indexErr
	}
	r.indexed = true

	for _, dir := range r.dirs {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			r.log.Debug("artifacts directory not found", "dir", dir)
			continue
		}

		err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() {
				if info.Name() == "build-info" || info.Name() == "cache" {
					return filepath.SkipDir
				}
				return nil
			}
			if filepath.Ext(path) != ".json" || strings.HasSuffix(path, ".dbg.json") {
				return nil
			}
			return r.processArtifact(path)
		})
		if err != nil {
			r.indexErr = fmt.Errorf("failed to index artifacts in %s: %w", dir, err)
			return r.indexErr
		}
	}

	r.log.Debug("indexed artifacts", "count", len(r.byKey))
	return nil
}

func (r *Repository) processArtifact(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var artifact models.Artifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		// Not every JSON file under a build directory is an artifact
		r.log.Debug("skipping unparseable json", "path", path, "error", err)
		return nil
	}
	if len(artifact.ABI) == 0 {
		return nil
	}

	// Foundry artifacts carry name and source in the compilation target only
	if artifact.ContractName == "" {
		for source, name := range artifact.Metadata.Settings.CompilationTarget {
			artifact.SourceName = source
			artifact.ContractName = name
		}
	}
	if artifact.ContractName == "" {
		artifact.ContractName = strings.TrimSuffix(filepath.Base(path), ".json")
		artifact.SourceName = filepath.Base(filepath.Dir(path))
	}
	artifact.Path = path

	key := fmt.Sprintf("%s:%s", artifact.SourceName, artifact.ContractName)
	if _, exists := r.byKey[key]; exists {
		return nil
	}
	r.byKey[key] = &artifact
	r.byName[artifact.ContractName] = append(r.byName[artifact.ContractName], &artifact)
	return nil
}

// GetArtifact resolves a contract reference to exactly one artifact
func (r *Repository) GetArtifact(ctx context.Context, contractRef string) (*models.Artifact, error) {
	if err := r.index(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	if strings.Contains(contractRef, ":") {
		if artifact, ok := r.byKey[contractRef]; ok {
			return artifact, nil
		}
		return nil, domain.ArtifactNotFoundErr{ContractName: contractRef, Suggestions: r.suggest(contractRef)}
	}

	matches := r.byName[contractRef]
	switch len(matches) {
	case 0:
		return nil, domain.ArtifactNotFoundErr{ContractName: contractRef, Suggestions: r.suggest(contractRef)}
	case 1:
		return matches[0], nil
	}

	// Deployable artifacts win over interfaces of the same name
	deployable := lo.Filter(matches, func(a *models.Artifact, _ int) bool { return a.IsDeployable() })
	if len(deployable) == 1 {
		return deployable[0], nil
	}

	paths := lo.Map(matches, func(a *models.Artifact, _ int) string {
		return fmt.Sprintf("%s:%s", a.SourceName, a.ContractName)
	})
	sort.Strings(paths)
	return nil, domain.AmbiguousArtifactErr{ContractName: contractRef, Paths: paths}
}

// ListContracts returns all indexed contract names, sorted
func (r *Repository) ListContracts(ctx context.Context) ([]string, error) {
	if err := r.index(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := lo.Keys(r.byName)
	sort.Strings(names)
	return names, nil
}

// suggest returns up to three contract names close to ref. Caller holds the lock.
func (r *Repository) suggest(ref string) []string {
	if idx := strings.LastIndex(ref, ":"); idx >= 0 {
		ref = ref[idx+1:]
	}
	names := lo.Keys(r.byName)
	sort.Strings(names)

	matches := fuzzy.Find(ref, names)
	if len(matches) == 0 {
		// fuzzy only matches subsequences, fall back to case-insensitive containment
		lower := strings.ToLower(ref)
		return lo.Slice(lo.Filter(names, func(name string, _ int) bool {
			return strings.Contains(strings.ToLower(name), lower) || strings.Contains(lower, strings.ToLower(name))
		}), 0, 3)
	}
	return lo.Slice(lo.Map(matches, func(m fuzzy.Match, _ int) string { return m.Str }), 0, 3)
}

var _ usecase.ArtifactRepository = (*Repository)(nil)
