// Package backend opens the repository backend named in the configuration.
//
// Each backend registers an Opener under its name. Open looks the name up
// once at startup and hands back a repository.Backend; nothing downstream
// ever learns which implementation it got.
package backend

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"registrar/internal/codec"
	"registrar/internal/config"
	"registrar/internal/repository"
	"registrar/internal/repository/file"
	"registrar/internal/repository/memory"
	"registrar/internal/repository/sqlite"
)

// Opener constructs a backend from the storage configuration
type Opener func(cfg config.StorageConfig, policy repository.DuplicatePolicy, logger *zap.Logger) (repository.Backend, error)

var (
	mu      sync.RWMutex
	openers = map[string]Opener{
		config.BackendMemory: openMemory,
		config.BackendFile:   openFile,
		config.BackendSQLite: openSQLite,
	}
)

// Register adds an opener under name
func Register(name string, open Opener) error {
	mu.Lock()
	defer mu.Unlock()

	if name == "" || open == nil {
		return fmt.Errorf("backend name and opener are required")
	}
	if _, exists := openers[name]; exists {
		return fmt.Errorf("backend %s already registered", name)
	}
	openers[name] = open
	return nil
}

// Names lists the registered backends in sorted order
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()

	names := make([]string, 0, len(openers))
	for name := range openers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Open constructs the backend selected by cfg.Storage.Backend
func Open(cfg *config.Config, logger *zap.Logger) (repository.Backend, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	policy, err := cfg.DuplicatePolicy()
	if err != nil {
		return nil, err
	}

	name := cfg.Storage.Backend
	mu.RLock()
	open, ok := openers[name]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown backend %q (available: %s)", name, strings.Join(Names(), ", "))
	}

	repo, err := open(cfg.Storage, policy, logger.Named(name))
	if err != nil {
		return nil, fmt.Errorf("open %s backend: %w", name, err)
	}
	logger.Info("opened backend",
		zap.String("backend", name),
		zap.Stringer("duplicates", policy))
	return repo, nil
}

func openMemory(_ config.StorageConfig, policy repository.DuplicatePolicy, logger *zap.Logger) (repository.Backend, error) {
	return memory.New(memory.WithLogger(logger), memory.WithDuplicatePolicy(policy)), nil
}

func openFile(cfg config.StorageConfig, policy repository.DuplicatePolicy, logger *zap.Logger) (repository.Backend, error) {
	opts := []file.Option{file.WithLogger(logger), file.WithDuplicatePolicy(policy)}
	if cfg.File.Format != "" {
		c, err := codec.ForFormat(cfg.File.Format)
		if err != nil {
			return nil, err
		}
		opts = append(opts, file.WithCodec(c))
	}
	return file.Open(cfg.File.Path, opts...)
}

func openSQLite(cfg config.StorageConfig, policy repository.DuplicatePolicy, logger *zap.Logger) (repository.Backend, error) {
	return sqlite.Open(cfg.SQLite.Path,
		sqlite.WithLogger(logger),
		sqlite.WithDuplicatePolicy(policy),
		sqlite.WithSaveTimeout(cfg.SQLite.SaveTimeout.Duration()),
	)
}
