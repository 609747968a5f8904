package store

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/doeshing/kaalsec/internal/domain"
	"github.com/doeshing/kaalsec/internal/ports"
)

// JSONStore keeps the suggestion ledger as one JSON array document. Every
// mutation rewrites the whole file before returning.
type JSONStore struct {
	path    string
	mu      sync.Mutex
	records []domain.Suggestion
	now     func() time.Time
}

// OpenJSONStore loads the ledger at path. A missing file is an empty ledger.
// An unreadable or corrupt file is also treated as empty; the store is still
// returned, together with a *domain.StorageWarning describing the problem.
func OpenJSONStore(path string) (*JSONStore, error) {
	s := &JSONStore{path: path, now: time.Now}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return s, &domain.StorageWarning{Op: "read", Path: path, Err: err}
	}
	if len(data) == 0 {
		return s, nil
	}
	var records []domain.Suggestion
	if err := json.Unmarshal(data, &records); err != nil {
		return s, &domain.StorageWarning{Op: "parse", Path: path, Err: err}
	}
	s.records = records
	return s, nil
}

// Path returns the backing file path.
func (s *JSONStore) Path() string {
	return s.path
}

// Add implements ports.SuggestionRepository. The returned ID is valid even
// when persisting fails with a *domain.StorageWarning.
func (s *JSONStore) Add(command, description, tool string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := nextID(len(s.records), s.maxID())
	s.records = append(s.records, domain.Suggestion{
		ID:          id,
		Command:     command,
		Description: description,
		Tool:        tool,
		CreatedAt:   domain.NewTimestamp(s.now()),
	})
	return id, s.persist()
}

// Get implements ports.SuggestionRepository.
func (s *JSONStore) Get(id int) (domain.Suggestion, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, record := range s.records {
		if record.ID == id {
			return record, true
		}
	}
	return domain.Suggestion{}, false
}

// MarkExecuted implements ports.SuggestionRepository. Unknown IDs are ignored.
func (s *JSONStore) MarkExecuted(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.records {
		if s.records[i].ID != id {
			continue
		}
		stamp := domain.NewTimestamp(s.now())
		s.records[i].Executed = true
		s.records[i].ExecutedAt = &stamp
		return s.persist()
	}
	return nil
}

// Recent implements ports.SuggestionRepository. A non-positive limit returns
// every record.
func (s *JSONStore) Recent(limit int) []domain.Suggestion {
	s.mu.Lock()
	defer s.mu.Unlock()
	start := 0
	if limit > 0 && len(s.records) > limit {
		start = len(s.records) - limit
	}
	out := make([]domain.Suggestion, len(s.records)-start)
	copy(out, s.records[start:])
	return out
}

// Count returns the number of records held.
func (s *JSONStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// Clear implements ports.SuggestionRepository.
func (s *JSONStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = nil
	return s.persist()
}

func (s *JSONStore) maxID() int {
	highest := 0
	for _, record := range s.records {
		if record.ID > highest {
			highest = record.ID
		}
	}
	return highest
}

// persist writes through a temp file in the same directory so a crash never
// leaves a truncated ledger behind.
func (s *JSONStore) persist() error {
	records := s.records
	if records == nil {
		records = []domain.Suggestion{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return &domain.StorageWarning{Op: "encode", Path: s.path, Err: err}
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, domain.DirectoryPermissions); err != nil {
		return &domain.StorageWarning{Op: "write", Path: s.path, Err: err}
	}
	tmp, err := os.CreateTemp(dir, ".suggestions-*.json")
	if err != nil {
		return &domain.StorageWarning{Op: "write", Path: s.path, Err: err}
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return &domain.StorageWarning{Op: "write", Path: s.path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return &domain.StorageWarning{Op: "write", Path: s.path, Err: err}
	}
	if err := os.Chmod(tmpName, domain.FilePermissions); err != nil {
		os.Remove(tmpName)
		return &domain.StorageWarning{Op: "write", Path: s.path, Err: err}
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return &domain.StorageWarning{Op: "write", Path: s.path, Err: err}
	}
	return nil
}

// nextID is count+1 for any ledger this tool wrote; the max guard keeps
// hand-edited ledgers with gaps from colliding.
func nextID(count, highest int) int {
	if highest > count {
		return highest + 1
	}
	return count + 1
}

var _ ports.SuggestionRepository = (*JSONStore)(nil)
