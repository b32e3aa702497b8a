// Package file provides a registrar backend persisted to a single document.
//
// The working set lives in a memory.Store. Open decodes the document into it
// and SaveData encodes it back. Saves write a temporary file next to the
// target and rename it into place, so a failed save leaves the previous
// document untouched.
package file

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"registrar/internal/codec"
	"registrar/internal/domain"
	"registrar/internal/repository"
	"registrar/internal/repository/memory"
)

// Store implements repository.Backend on top of a JSON or YAML file.
// The duplicate policy is the one of the embedded memory store.
type Store struct {
	*memory.Store

	path   string
	codec  codec.Codec
	logger *zap.Logger
	perm   fs.FileMode

	savedAt       time.Time
	savedRevision uint64
	saved         bool
	now           func() time.Time
}

var _ repository.Backend = (*Store)(nil)

type options struct {
	codec  codec.Codec
	logger *zap.Logger
	policy repository.DuplicatePolicy
	perm   fs.FileMode
}

// Option configures a Store
type Option func(*options)

// WithCodec sets the document format instead of inferring it from the path
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		o.codec = c
	}
}

// WithLogger sets the logger for load, save and rejected adds
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithDuplicatePolicy sets how adds with an existing ID are handled
func WithDuplicatePolicy(policy repository.DuplicatePolicy) Option {
	return func(o *options) {
		o.policy = policy
	}
}

// WithFileMode sets the permission bits of the saved document
func WithFileMode(perm fs.FileMode) Option {
	return func(o *options) {
		o.perm = perm
	}
}

// Open loads the document at path, or starts empty when it does not exist
func Open(path string, opts ...Option) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("file path is required")
	}

	o := options{
		logger: zap.NewNop(),
		policy: repository.RejectDuplicates,
		perm:   0o644,
	}
	for _, opt := range opts {
		opt(&o)
	}

	if o.codec == nil {
		c, err := codec.ForPath(path)
		if err != nil {
			return nil, err
		}
		o.codec = c
	}

	s := &Store{
		Store: memory.New(
			memory.WithLogger(o.logger),
			memory.WithDuplicatePolicy(o.policy),
		),
		path:   filepath.Clean(path),
		codec:  o.codec,
		logger: o.logger.With(zap.String("path", filepath.Clean(path)), zap.String("format", o.codec.Format())),
		perm:   o.perm,
		now:    time.Now,
	}

	data, err := s.read()
	switch {
	case errors.Is(err, fs.ErrNotExist):
		s.logger.Info("data file not found, starting empty")
	case err != nil:
		return nil, err
	default:
		s.Store.Load(data)
		s.savedAt = data.SavedAt
		s.saved = true
		s.logger.Info("loaded data file", zap.Int("records", data.Len()))
	}

	return s, nil
}

// Path returns the location of the document
func (s *Store) Path() string {
	return s.path
}

// SaveData writes the working set to the document, replacing it atomically
func (s *Store) SaveData() bool {
	revision := s.Store.Revision()
	savedAt := s.savedAt
	if !s.saved || revision != s.savedRevision {
		savedAt = s.now().UTC().Truncate(time.Second)
	}

	data := s.Store.Snapshot()
	data.SavedAt = savedAt

	if err := s.write(data); err != nil {
		s.logger.Error("failed to save data file", zap.Error(err))
		return false
	}

	s.savedAt = savedAt
	s.savedRevision = revision
	s.saved = true
	s.logger.Debug("saved data file", zap.Int("records", data.Len()))
	return true
}

// Close releases nothing; every save closes its own file handles
func (s *Store) Close() error {
	return nil
}

func (s *Store) read() (*domain.Dataset, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := s.codec.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", s.path, err)
	}
	return data, nil
}

func (s *Store) write(data *domain.Dataset) (err error) {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	closed := false
	defer func() {
		if err == nil {
			return
		}
		if !closed {
			err = multierr.Append(err, tmp.Close())
		}
		if rmErr := os.Remove(tmpName); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) {
			err = multierr.Append(err, fmt.Errorf("failed to remove temp file: %w", rmErr))
		}
	}()

	if err := s.codec.Encode(tmp, data); err != nil {
		return err
	}
	if err := tmp.Chmod(s.perm); err != nil {
		return fmt.Errorf("failed to set file mode: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	closed = true
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("failed to replace data file: %w", err)
	}

	syncDir(dir, s.logger)
	return nil
}

// syncDir flushes the rename to disk. Some platforms cannot sync
// directories, so a failure is logged rather than failing the save.
func syncDir(dir string, logger *zap.Logger) {
	d, err := os.Open(dir)
	if err != nil {
		logger.Debug("failed to open data directory for sync", zap.Error(err))
		return
	}
	defer d.Close()
	if err := d.Sync(); err != nil {
		logger.Debug("failed to sync data directory", zap.Error(err))
	}
}
