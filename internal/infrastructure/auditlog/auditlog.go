package auditlog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/doeshing/kaalsec/internal/domain"
	"github.com/doeshing/kaalsec/internal/ports"
)

const filePrefix = "session_"

// Dir is an append-only directory of execution records, one JSON file per
// attempt.
type Dir struct {
	path   string
	logger ports.Logger
	now    func() time.Time
}

// NewDir returns an audit log rooted at path. The directory is created on
// first write.
func NewDir(path string, logger ports.Logger) *Dir {
	return &Dir{path: path, logger: logger, now: time.Now}
}

// Path returns the log directory.
func (d *Dir) Path() string {
	return d.path
}

// Write implements ports.AuditLogger. File names carry the timestamp and a
// random suffix, and are created exclusively so no record is overwritten.
func (d *Dir) Write(record domain.AuditRecord) (string, error) {
	if err := os.MkdirAll(d.path, domain.DirectoryPermissions); err != nil {
		return "", fmt.Errorf("create log dir: %w", err)
	}
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode audit record: %w", err)
	}
	name := fmt.Sprintf("%s%s_%s.json", filePrefix, d.now().Format(domain.LogFileTimeFormat), uuid.NewString()[:8])
	path := filepath.Join(d.path, name)
	file, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, domain.FilePermissions)
	if err != nil {
		return "", fmt.Errorf("create audit record: %w", err)
	}
	if _, err := file.Write(append(data, '\n')); err != nil {
		file.Close()
		return "", fmt.Errorf("write audit record: %w", err)
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("write audit record: %w", err)
	}
	return path, nil
}

// Load implements ports.AuditLogger. dateFilter is "", "today", or a
// substring of the record date (e.g. "2024-05" or "2024-05-01"). Records are
// returned oldest first; unreadable files are skipped with a warning.
func (d *Dir) Load(dateFilter string) ([]domain.AuditRecord, error) {
	entries, err := os.ReadDir(d.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read log dir: %w", err)
	}
	if dateFilter == "today" {
		dateFilter = d.now().Format(domain.DateFormat)
	}

	var records []domain.AuditRecord
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, filePrefix) || filepath.Ext(name) != ".json" {
			continue
		}
		path := filepath.Join(d.path, name)
		data, err := os.ReadFile(path)
		if err != nil {
			d.logger.Warn("skipping unreadable audit record", map[string]interface{}{"path": path, "error": err.Error()})
			continue
		}
		var record domain.AuditRecord
		if err := json.Unmarshal(data, &record); err != nil {
			d.logger.Warn("skipping corrupt audit record", map[string]interface{}{"path": path, "error": err.Error()})
			continue
		}
		if dateFilter != "" && !strings.Contains(record.Date, dateFilter) {
			continue
		}
		records = append(records, record)
	}
	sort.SliceStable(records, func(i, j int) bool {
		return recordTime(records[i]).Before(recordTime(records[j]))
	})
	return records, nil
}

func recordTime(record domain.AuditRecord) time.Time {
	t, err := domain.ParseTimestamp(record.Timestamp)
	if err != nil {
		return time.Time{}
	}
	return t
}

var _ ports.AuditLogger = (*Dir)(nil)
