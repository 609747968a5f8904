package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/doeshing/kaalsec/internal/domain"
	"github.com/doeshing/kaalsec/internal/pkg/logger"
	"github.com/doeshing/kaalsec/internal/ports"
)

type storeFactory func(t *testing.T) ports.SuggestionRepository

func backends() map[string]storeFactory {
	return map[string]storeFactory{
		"json": func(t *testing.T) ports.SuggestionRepository {
			s, err := OpenJSONStore(filepath.Join(t.TempDir(), "suggestions.json"))
			if err != nil {
				t.Fatalf("OpenJSONStore error: %v", err)
			}
			return s
		},
		"sqlite": func(t *testing.T) ports.SuggestionRepository {
			s, err := OpenSQLiteStore(filepath.Join(t.TempDir(), "suggestions.db"), logger.Nop())
			if err != nil {
				t.Fatalf("OpenSQLiteStore error: %v", err)
			}
			t.Cleanup(func() { s.Close() })
			return s
		},
	}
}

func TestStoreAssignsSequentialIDs(t *testing.T) {
	for name, open := range backends() {
		t.Run(name, func(t *testing.T) {
			s := open(t)
			for want := 1; want <= 3; want++ {
				id, err := s.Add("nmap -sV 10.0.0.5", "scan", "nmap")
				if err != nil {
					t.Fatalf("Add error: %v", err)
				}
				if id != want {
					t.Fatalf("Add() id = %d, want %d", id, want)
				}
			}
		})
	}
}

func TestStoreMarkExecuted(t *testing.T) {
	for name, open := range backends() {
		t.Run(name, func(t *testing.T) {
			s := open(t)
			id, err := s.Add("whoami", "identify user", "")
			if err != nil {
				t.Fatalf("Add error: %v", err)
			}

			got, ok := s.Get(id)
			if !ok {
				t.Fatalf("Get(%d) not found", id)
			}
			if got.Executed || got.ExecutedAt != nil {
				t.Fatalf("fresh record should not be executed: %+v", got)
			}

			if err := s.MarkExecuted(id); err != nil {
				t.Fatalf("MarkExecuted error: %v", err)
			}
			got, ok = s.Get(id)
			if !ok {
				t.Fatalf("Get(%d) not found after mark", id)
			}
			if !got.Executed || got.ExecutedAt == nil {
				t.Fatalf("expected executed record, got %+v", got)
			}

			if err := s.MarkExecuted(99); err != nil {
				t.Fatalf("MarkExecuted on unknown id should be a no-op, got %v", err)
			}
			if _, ok := s.Get(99); ok {
				t.Fatal("unknown id should stay absent")
			}
		})
	}
}

func TestStoreRecentAndClear(t *testing.T) {
	for name, open := range backends() {
		t.Run(name, func(t *testing.T) {
			s := open(t)
			for _, cmd := range []string{"a", "b", "c", "d"} {
				if _, err := s.Add(cmd, "desc "+cmd, ""); err != nil {
					t.Fatalf("Add error: %v", err)
				}
			}

			var commands []string
			for _, record := range s.Recent(2) {
				commands = append(commands, record.Command)
			}
			if diff := cmp.Diff([]string{"c", "d"}, commands); diff != "" {
				t.Fatalf("Recent(2) mismatch (-want +got):\n%s", diff)
			}
			if got := len(s.Recent(0)); got != 4 {
				t.Fatalf("Recent(0) returned %d records, want 4", got)
			}

			if err := s.Clear(); err != nil {
				t.Fatalf("Clear error: %v", err)
			}
			if got := len(s.Recent(10)); got != 0 {
				t.Fatalf("expected empty store after Clear, got %d", got)
			}
			id, err := s.Add("e", "after clear", "")
			if err != nil {
				t.Fatalf("Add error: %v", err)
			}
			if id != 1 {
				t.Fatalf("first id after Clear = %d, want 1", id)
			}
		})
	}
}

func TestJSONStoreWritesThrough(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "suggestions.json")
	s, err := OpenJSONStore(path)
	if err != nil {
		t.Fatalf("OpenJSONStore error: %v", err)
	}
	if _, err := s.Add("nikto -h http://10.0.0.5", "web scan", "nikto"); err != nil {
		t.Fatalf("Add error: %v", err)
	}

	reopened, err := OpenJSONStore(path)
	if err != nil {
		t.Fatalf("reopen error: %v", err)
	}
	got, ok := reopened.Get(1)
	if !ok {
		t.Fatal("record missing after reopen")
	}
	if got.Command != "nikto -h http://10.0.0.5" || got.Tool != "nikto" {
		t.Fatalf("unexpected record after reopen: %+v", got)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read ledger: %v", err)
	}
	var raw []map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("ledger is not a JSON array: %v", err)
	}
	for _, key := range []string{"id", "command", "description", "tool", "created_at", "executed"} {
		if _, ok := raw[0][key]; !ok {
			t.Errorf("ledger record missing %q field", key)
		}
	}
}

func TestJSONStoreCorruptFileIsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "suggestions.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	s, err := OpenJSONStore(path)
	var warning *domain.StorageWarning
	if !errors.As(err, &warning) {
		t.Fatalf("expected StorageWarning, got %v", err)
	}
	if s == nil || s.Count() != 0 {
		t.Fatalf("corrupt ledger should load as empty store")
	}
	id, err := s.Add("ls", "list", "")
	if err != nil || id != 1 {
		t.Fatalf("Add on recovered store = (%d, %v), want (1, nil)", id, err)
	}
}

func TestJSONStoreAvoidsCollisionWithGaps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "suggestions.json")
	legacy := `[{"id":1,"command":"a","description":"","tool":null,"created_at":"2024-01-15T10:20:30","executed":false},
{"id":5,"command":"b","description":"","tool":null,"created_at":"2024-01-15T10:21:30","executed":true,"executed_at":"2024-01-15T10:22:00"}]`
	if err := os.WriteFile(path, []byte(legacy), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	s, err := OpenJSONStore(path)
	if err != nil {
		t.Fatalf("OpenJSONStore error: %v", err)
	}
	id, err := s.Add("c", "", "")
	if err != nil {
		t.Fatalf("Add error: %v", err)
	}
	if id != 6 {
		t.Fatalf("Add() id = %d, want 6", id)
	}
}

func TestJSONStoreWriteFailureIsWarning(t *testing.T) {
	dir := t.TempDir()
	s, err := OpenJSONStore(filepath.Join(dir, "sub", "suggestions.json"))
	if err != nil {
		t.Fatalf("OpenJSONStore error: %v", err)
	}
	// parent of the ledger becomes a regular file, so every persist fails
	if err := os.WriteFile(filepath.Join(dir, "sub"), nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	id, err := s.Add("id", "whoami", "")
	var warning *domain.StorageWarning
	if !errors.As(err, &warning) {
		t.Fatalf("expected StorageWarning, got %v", err)
	}
	if id != 1 {
		t.Fatalf("id = %d, want 1", id)
	}
	if _, ok := s.Get(1); !ok {
		t.Fatal("in-memory record should survive a failed persist")
	}
}
