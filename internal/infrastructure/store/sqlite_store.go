package store

import (
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/doeshing/kaalsec/internal/domain"
	"github.com/doeshing/kaalsec/internal/ports"
)

// SQLiteStore persists the suggestion ledger in a SQLite database. It is
// selected with store.backend: sqlite and honours the same contract as
// JSONStore.
type SQLiteStore struct {
	db     *sql.DB
	path   string
	mu     sync.Mutex
	logger ports.Logger
	now    func() time.Time
}

// OpenSQLiteStore creates (or opens) the database at path.
func OpenSQLiteStore(path string, logger ports.Logger) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), domain.DirectoryPermissions); err != nil {
		return nil, &domain.StorageWarning{Op: "open", Path: path, Err: err}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, &domain.StorageWarning{Op: "open", Path: path, Err: err}
	}
	db.SetMaxOpenConns(1)
	store := &SQLiteStore{db: db, path: path, logger: logger, now: time.Now}
	if err := store.init(); err != nil {
		db.Close()
		return nil, &domain.StorageWarning{Op: "init", Path: path, Err: err}
	}
	return store, nil
}

func (s *SQLiteStore) init() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS suggestions (
		id INTEGER PRIMARY KEY,
		command TEXT NOT NULL,
		description TEXT NOT NULL,
		tool TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		executed INTEGER NOT NULL DEFAULT 0,
		executed_at TEXT
	);`)
	return err
}

// Path returns the sqlite database path.
func (s *SQLiteStore) Path() string {
	return s.path
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Add implements ports.SuggestionRepository.
func (s *SQLiteStore) Add(command, description, tool string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx, err := s.db.Begin()
	if err != nil {
		return 0, &domain.StorageWarning{Op: "write", Path: s.path, Err: err}
	}
	defer tx.Rollback()

	var count, highest int
	if err := tx.QueryRow(`SELECT COUNT(*), COALESCE(MAX(id), 0) FROM suggestions`).Scan(&count, &highest); err != nil {
		return 0, &domain.StorageWarning{Op: "read", Path: s.path, Err: err}
	}
	id := nextID(count, highest)
	if _, err := tx.Exec(`INSERT INTO suggestions (id, command, description, tool, created_at, executed)
		VALUES (?, ?, ?, ?, ?, 0)`,
		id, command, description, tool, s.now().Format(time.RFC3339Nano),
	); err != nil {
		return 0, &domain.StorageWarning{Op: "write", Path: s.path, Err: err}
	}
	if err := tx.Commit(); err != nil {
		return 0, &domain.StorageWarning{Op: "write", Path: s.path, Err: err}
	}
	return id, nil
}

// Get implements ports.SuggestionRepository.
func (s *SQLiteStore) Get(id int) (domain.Suggestion, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row := s.db.QueryRow(`SELECT id, command, description, tool, created_at, executed, executed_at
		FROM suggestions WHERE id = ?`, id)
	record, err := scanSuggestion(row)
	if err == sql.ErrNoRows {
		return domain.Suggestion{}, false
	}
	if err != nil {
		s.logger.Warn("suggestion lookup failed", map[string]interface{}{"id": id, "error": err.Error()})
		return domain.Suggestion{}, false
	}
	return record, true
}

// MarkExecuted implements ports.SuggestionRepository. Unknown IDs are ignored.
func (s *SQLiteStore) MarkExecuted(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec(`UPDATE suggestions SET executed = 1, executed_at = ? WHERE id = ?`,
		s.now().Format(time.RFC3339Nano), id)
	if err != nil {
		return &domain.StorageWarning{Op: "write", Path: s.path, Err: err}
	}
	return nil
}

// Recent implements ports.SuggestionRepository, oldest of the window first.
func (s *SQLiteStore) Recent(limit int) []domain.Suggestion {
	s.mu.Lock()
	defer s.mu.Unlock()
	query := `SELECT id, command, description, tool, created_at, executed, executed_at
		FROM suggestions ORDER BY id DESC`
	var args []interface{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.Query(query, args...)
	if err != nil {
		s.logger.Warn("suggestion listing failed", map[string]interface{}{"error": err.Error()})
		return nil
	}
	defer rows.Close()

	var records []domain.Suggestion
	for rows.Next() {
		record, err := scanSuggestion(rows)
		if err != nil {
			s.logger.Warn("skipping unreadable suggestion row", map[string]interface{}{"error": err.Error()})
			continue
		}
		records = append(records, record)
	}
	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
	return records
}

// Clear implements ports.SuggestionRepository.
func (s *SQLiteStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.db.Exec("DELETE FROM suggestions"); err != nil {
		return &domain.StorageWarning{Op: "write", Path: s.path, Err: err}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSuggestion(row rowScanner) (domain.Suggestion, error) {
	var (
		record     domain.Suggestion
		createdAt  string
		executed   int
		executedAt sql.NullString
	)
	if err := row.Scan(&record.ID, &record.Command, &record.Description, &record.Tool, &createdAt, &executed, &executedAt); err != nil {
		return domain.Suggestion{}, err
	}
	if t, err := domain.ParseTimestamp(createdAt); err == nil {
		record.CreatedAt = domain.NewTimestamp(t)
	}
	record.Executed = executed == 1
	if executedAt.Valid {
		if t, err := domain.ParseTimestamp(executedAt.String); err == nil {
			stamp := domain.NewTimestamp(t)
			record.ExecutedAt = &stamp
		}
	}
	return record, nil
}

var _ ports.SuggestionRepository = (*SQLiteStore)(nil)
