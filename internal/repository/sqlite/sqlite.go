// Package sqlite provides a registrar backend persisted to a SQLite database.
//
// The working set lives in a memory.Store loaded from the tables on open.
// SaveData rewrites every table inside one transaction, so a save either
// replaces the stored data completely or leaves it as it was.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"registrar/internal/domain"
	"registrar/internal/repository"
	"registrar/internal/repository/memory"
)

const savedAtKey = "saved_at"

// Store implements repository.Backend using SQLite.
// The duplicate policy is the one of the embedded memory store.
type Store struct {
	*memory.Store

	db     *sql.DB
	logger *zap.Logger

	savedAt       time.Time
	savedRevision uint64
	saved         bool
	now           func() time.Time
	timeout       time.Duration
}

var _ repository.Backend = (*Store)(nil)

type options struct {
	logger  *zap.Logger
	policy  repository.DuplicatePolicy
	timeout time.Duration
}

// Option configures a Store
type Option func(*options)

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

// WithSaveTimeout bounds how long a single SaveData may take
func WithSaveTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// Open opens the database at dbPath, creating the schema when needed, and
// loads its contents into the working set. ":memory:" opens a private
// in-memory database.
func Open(dbPath string, opts ...Option) (*Store, error) {
	if strings.TrimSpace(dbPath) == "" {
		return nil, fmt.Errorf("database path is required")
	}

	o := options{
		logger:  zap.NewNop(),
		policy:  repository.RejectDuplicates,
		timeout: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(&o)
	}

	db, err := sql.Open("sqlite", dataSource(dbPath))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection keeps ":memory:" databases alive and matches the
	// single-caller contract.
	db.SetMaxOpenConns(1)

	s := &Store{
		Store: memory.New(
			memory.WithLogger(o.logger),
			memory.WithDuplicatePolicy(o.policy),
		),
		db:      db,
		logger:  o.logger.With(zap.String("db", dbPath)),
		now:     time.Now,
		timeout: o.timeout,
	}

	ctx, cancel := context.WithTimeout(context.Background(), o.timeout)
	defer cancel()

	if err := s.migrate(ctx); err != nil {
		return nil, multierr.Append(fmt.Errorf("failed to migrate database: %w", err), db.Close())
	}

	data, err := s.load(ctx)
	if err != nil {
		return nil, multierr.Append(err, db.Close())
	}
	s.Store.Load(data)
	s.savedAt = data.SavedAt
	s.saved = !data.SavedAt.IsZero()
	s.logger.Info("loaded database", zap.Int("records", data.Len()))

	return s, nil
}

// dataSource builds a SQLite URI for dbPath. SQLite decodes %XX escapes in
// URI paths, so characters such as '?' and '#' stay part of the file name.
func dataSource(dbPath string) string {
	if dbPath == ":memory:" {
		return dbPath
	}
	path := (&url.URL{Path: dbPath}).EscapedPath()
	return "file:" + path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(FULL)"
}

func (s *Store) migrate(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS students (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		major TEXT,
		year INTEGER NOT NULL DEFAULT 0,
		position INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS student_courses (
		student_id TEXT NOT NULL,
		course_id TEXT NOT NULL,
		position INTEGER NOT NULL,
		PRIMARY KEY (student_id, position),
		FOREIGN KEY (student_id) REFERENCES students(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS courses (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		credits INTEGER NOT NULL DEFAULT 0,
		teacher_id TEXT,
		position INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS teachers (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		department TEXT,
		position INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS secretaries (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		office TEXT,
		position INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS metadata (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_student_courses_course ON student_courses(course_id);
	CREATE INDEX IF NOT EXISTS idx_courses_teacher ON courses(teacher_id);
	`

	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// SaveData replaces the stored rows with the working set in one transaction
func (s *Store) SaveData() bool {
	revision := s.Store.Revision()
	savedAt := s.savedAt
	if !s.saved || revision != s.savedRevision {
		savedAt = s.now().UTC().Truncate(time.Second)
	}

	data := s.Store.Snapshot()
	data.SavedAt = savedAt

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if err := s.save(ctx, data); err != nil {
		s.logger.Error("failed to save database", zap.Error(err))
		return false
	}

	s.savedAt = savedAt
	s.savedRevision = revision
	s.saved = true
	s.logger.Debug("saved database", zap.Int("records", data.Len()))
	return true
}

// Close closes the database connection
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) save(ctx context.Context, data *domain.Dataset) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Clear existing data, children first
	for _, table := range []string{"student_courses", "students", "courses", "teachers", "secretaries"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	if err := insertStudents(ctx, tx, data.Students); err != nil {
		return err
	}
	if err := insertCourses(ctx, tx, data.Courses); err != nil {
		return err
	}
	if err := insertTeachers(ctx, tx, data.Teachers); err != nil {
		return err
	}
	if err := insertSecretaries(ctx, tx, data.Secretaries); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO metadata (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, savedAtKey, data.SavedAt.Format(time.RFC3339)); err != nil {
		return fmt.Errorf("failed to store save timestamp: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (s *Store) load(ctx context.Context) (*domain.Dataset, error) {
	data := domain.NewDataset()

	students, err := loadStudents(ctx, s.db)
	if err != nil {
		return nil, err
	}
	data.Students = students

	if data.Courses, err = loadCourses(ctx, s.db); err != nil {
		return nil, err
	}
	if data.Teachers, err = loadTeachers(ctx, s.db); err != nil {
		return nil, err
	}
	if data.Secretaries, err = loadSecretaries(ctx, s.db); err != nil {
		return nil, err
	}

	var savedAt string
	err = s.db.QueryRowContext(ctx, `SELECT value FROM metadata WHERE key = ?`, savedAtKey).Scan(&savedAt)
	switch {
	case err == sql.ErrNoRows:
	case err != nil:
		return nil, fmt.Errorf("failed to query save timestamp: %w", err)
	default:
		t, err := time.Parse(time.RFC3339, savedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse save timestamp: %w", err)
		}
		data.SavedAt = t
	}

	return data, nil
}
