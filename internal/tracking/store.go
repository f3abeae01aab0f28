package tracking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/velvetrock/gitscout/internal/fault"
	"github.com/velvetrock/gitscout/internal/logging"
	"github.com/velvetrock/gitscout/pkg/models"
)

// Store is the SQLite-backed tracking store. It implements RemoteStore.
type Store struct {
	db  *sql.DB
	log *slog.Logger
}

// OpenStore opens (and if needed creates) the tracking database.
func OpenStore(dbPath string) (*Store, error) {
	connStr := dbPath
	if dbPath == ":memory:" {
		// Shared cache so every pooled connection sees the same database.
		connStr = "file::memory:?cache=shared"
	} else {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("create store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &Store{db: db, log: logging.With("store")}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	s.log.Info("tracking store ready", "path", dbPath)
	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS tracked (
		id TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		repository TEXT NOT NULL,
		issue_number INTEGER NOT NULL DEFAULT 0,
		tracked_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS user_issues (
		entity_id TEXT PRIMARY KEY,
		status TEXT NOT NULL DEFAULT 'not-started',
		notes TEXT NOT NULL DEFAULT '',
		last_synced_at DATETIME NOT NULL,
		FOREIGN KEY (entity_id) REFERENCES tracked(id)
	);

	CREATE INDEX IF NOT EXISTS idx_tracked_repository ON tracked(repository);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// ListTrackedIDs returns the ids of every tracked entity.
func (s *Store) ListTrackedIDs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM tracked ORDER BY tracked_at`)
	if err != nil {
		return nil, fault.Wrap(fault.KindServer, "list tracked ids", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fault.Wrap(fault.KindServer, "scan tracked id", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// AddTracked records an entity as tracked. A malformed reference yields a
// validation fault, an already-tracked entity a conflict fault.
func (s *Store) AddTracked(ctx context.Context, ref models.EntityRef) error {
	if err := ref.Validate(); err != nil {
		return fault.Wrap(fault.KindValidation, "add tracked", err)
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO tracked (id, kind, repository, issue_number, tracked_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, ref.ID(), string(ref.Kind), ref.Repository, ref.Number, time.Now().UTC())
	if err != nil {
		return fault.Wrap(fault.KindServer, "add tracked", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fault.Wrap(fault.KindServer, "add tracked", err)
	}
	if affected == 0 {
		return fault.New(fault.KindConflict, "entity already tracked: "+ref.ID())
	}

	// A freshly tracked issue gets an empty progress record.
	if ref.Kind == models.KindIssue {
		_, err = s.db.ExecContext(ctx, `
			INSERT INTO user_issues (entity_id, status, notes, last_synced_at)
			VALUES (?, ?, '', ?)
			ON CONFLICT(entity_id) DO NOTHING
		`, ref.ID(), string(models.StatusNotStarted), time.Now().UTC())
		if err != nil {
			s.log.Warn("failed to seed user issue record", "entity", ref.ID(), "error", err)
		}
	}

	return nil
}

// RemoveTracked drops an entity from the tracked set along with its
// progress record.
func (s *Store) RemoveTracked(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM user_issues WHERE entity_id = ?`, id); err != nil {
		return fault.Wrap(fault.KindServer, "remove tracked", err)
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM tracked WHERE id = ?`, id); err != nil {
		return fault.Wrap(fault.KindServer, "remove tracked", err)
	}
	return nil
}

// GetUserRecord fetches the progress record for a tracked issue. A missing
// record is a validation fault (only tracked issues have one).
func (s *Store) GetUserRecord(ctx context.Context, id string) (*models.UserIssueRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT entity_id, status, notes, last_synced_at
		FROM user_issues WHERE entity_id = ?
	`, id)

	var rec models.UserIssueRecord
	var status string
	err := row.Scan(&rec.EntityID, &status, &rec.Notes, &rec.LastSyncedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fault.New(fault.KindValidation, "no record for entity: "+id)
	}
	if err != nil {
		return nil, fault.Wrap(fault.KindServer, "get user record", err)
	}
	rec.Status = models.IssueStatus(status)
	return &rec, nil
}

// SaveUserRecord persists a progress record. A record carrying a
// LastSyncedAt older than the stored one is stale and refused with a
// conflict fault, so a slow writer never clobbers a newer save.
func (s *Store) SaveUserRecord(ctx context.Context, rec models.UserIssueRecord) error {
	var current time.Time
	row := s.db.QueryRowContext(ctx,
		`SELECT last_synced_at FROM user_issues WHERE entity_id = ?`, rec.EntityID)
	err := row.Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return fault.New(fault.KindValidation, "no record for entity: "+rec.EntityID)
	}
	if err != nil {
		return fault.Wrap(fault.KindServer, "save user record", err)
	}
	if rec.LastSyncedAt.Before(current) {
		return fault.New(fault.KindConflict, "stale record for entity: "+rec.EntityID)
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE user_issues SET status = ?, notes = ?, last_synced_at = ?
		WHERE entity_id = ?
	`, string(rec.Status), rec.Notes, time.Now().UTC(), rec.EntityID)
	if err != nil {
		return fault.Wrap(fault.KindServer, "save user record", err)
	}
	return nil
}
