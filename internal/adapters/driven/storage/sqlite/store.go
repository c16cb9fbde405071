package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/scholardocs/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/scholardocs/internal/core/domain"
	"github.com/custodia-labs/scholardocs/internal/core/ports/driven"
	"github.com/custodia-labs/scholardocs/internal/logger"
)

// Store is a unified SQLite-based storage that provides access to
// all store interfaces through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.scholardocs/data/state.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".scholardocs", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "state.db")

	// WAL mode lets the TUI and a CLI command share the file.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// StateStore returns a StateStore interface backed by this store.
func (s *Store) StateStore() driven.StateStore {
	return &stateStore{store: s}
}

// JobStore returns a JobStore interface backed by this store.
func (s *Store) JobStore() driven.JobStore {
	return &jobStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys fs.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	pending, err := migrations.Pending(fsys, currentVersion)
	if err != nil {
		return err
	}

	for _, m := range pending {
		if _, err := s.db.Exec(m.SQL); err != nil {
			return fmt.Errorf("executing migration %s: %w", m.Name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", m.Version); err != nil {
			return fmt.Errorf("recording migration %s: %w", m.Name, err)
		}
		logger.Debug("sqlite: applied migration %s", m.Name)
	}

	return nil
}

// SchemaVersion returns the highest applied migration.
func (s *Store) SchemaVersion(ctx context.Context) (int, error) {
	var version int
	row := s.db.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&version); err != nil {
		return 0, fmt.Errorf("getting schema version: %w", err)
	}
	return version, nil
}

// ==================== State Store ====================

// stateStore implements driven.StateStore.
type stateStore struct {
	store *Store
}

var _ driven.StateStore = (*stateStore)(nil)

// Load returns the saved wizard state.
func (s *stateStore) Load(ctx context.Context) (*domain.WizardState, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT language, step, selection
		FROM wizard_state WHERE id = 1
	`)

	var state domain.WizardState
	var language, selection string
	var step int
	if err := row.Scan(&language, &step, &selection); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning wizard state: %w", err)
	}

	if err := json.Unmarshal([]byte(selection), &state.Selection); err != nil {
		return nil, fmt.Errorf("unmarshalling selection: %w", err)
	}
	state.Language = domain.Language(language)
	state.Step = domain.WizardStep(step)

	return &state, nil
}

// Save replaces the saved wizard state.
func (s *stateStore) Save(ctx context.Context, state domain.WizardState) error {
	selection, err := json.Marshal(state.Selection)
	if err != nil {
		return fmt.Errorf("marshalling selection: %w", err)
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO wizard_state (id, language, step, selection, updated_at)
		VALUES (1, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			language = excluded.language,
			step = excluded.step,
			selection = excluded.selection,
			updated_at = excluded.updated_at
	`, string(state.Language), int(state.Step), string(selection), time.Now().UTC())

	if err != nil {
		return fmt.Errorf("saving wizard state: %w", err)
	}
	return nil
}

// Clear removes the saved wizard state.
func (s *stateStore) Clear(ctx context.Context) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM wizard_state WHERE id = 1")
	if err != nil {
		return fmt.Errorf("clearing wizard state: %w", err)
	}
	return nil
}

// ==================== Job Store ====================

// jobStore implements driven.JobStore.
type jobStore struct {
	store *Store
}

var _ driven.JobStore = (*jobStore)(nil)

// Record appends a finished job.
func (s *jobStore) Record(ctx context.Context, rec domain.JobRecord) error {
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO tool_jobs (id, operation, input_count, input_bytes, output_bytes,
			outcome, stage, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, string(rec.Operation), rec.InputCount, rec.InputBytes, rec.OutputBytes,
		rec.Outcome, rec.Stage, rec.Duration.Milliseconds(), rec.CreatedAt.UTC())

	if err != nil {
		return fmt.Errorf("recording job: %w", err)
	}
	return nil
}

// ListRecent returns up to limit records, newest first. limit <= 0 returns all.
func (s *jobStore) ListRecent(ctx context.Context, limit int) ([]domain.JobRecord, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, operation, input_count, input_bytes, output_bytes,
			outcome, stage, duration_ms, created_at
		FROM tool_jobs
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying jobs: %w", err)
	}
	defer rows.Close()

	var records []domain.JobRecord
	for rows.Next() {
		var rec domain.JobRecord
		var operation string
		var durationMS int64
		if err := rows.Scan(&rec.ID, &operation, &rec.InputCount, &rec.InputBytes, &rec.OutputBytes,
			&rec.Outcome, &rec.Stage, &durationMS, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning job: %w", err)
		}
		rec.Operation = domain.ToolOperation(operation)
		rec.Duration = time.Duration(durationMS) * time.Millisecond
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating jobs: %w", err)
	}

	return records, nil
}
