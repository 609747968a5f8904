package auditlog

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/doeshing/kaalsec/internal/domain"
	"github.com/doeshing/kaalsec/internal/pkg/logger"
)

func TestWriteCreatesOneFilePerAttempt(t *testing.T) {
	dir := NewDir(filepath.Join(t.TempDir(), "logs"), logger.Nop())
	fixed := time.Date(2024, 5, 1, 9, 30, 0, 0, time.Local)
	dir.now = func() time.Time { return fixed }

	record := domain.NewAuditRecord(fixed, "id", "whoami", domain.ExecutionResult{Stdout: "uid=0\n", Stderr: "warn\n", ExitCode: 0})
	first, err := dir.Write(record)
	if err != nil {
		t.Fatalf("Write error: %v", err)
	}
	second, err := dir.Write(record)
	if err != nil {
		t.Fatalf("Write error: %v", err)
	}
	if first == second {
		t.Fatalf("two writes in the same second share a file name: %s", first)
	}
	if !strings.HasPrefix(filepath.Base(first), "session_20240501_093000_") {
		t.Errorf("unexpected file name %s", filepath.Base(first))
	}

	data, err := os.ReadFile(first)
	if err != nil {
		t.Fatalf("read record: %v", err)
	}
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("record is not JSON: %v", err)
	}
	for _, key := range []string{"timestamp", "date", "command", "description", "exit_code", "stdout", "stderr", "output"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("record missing %q", key)
		}
	}
	if raw["output"] != "uid=0\nwarn\n" {
		t.Errorf("output = %v", raw["output"])
	}
}

func TestLoadFiltersByDate(t *testing.T) {
	root := filepath.Join(t.TempDir(), "logs")
	dir := NewDir(root, logger.Nop())
	today := time.Date(2024, 5, 2, 12, 0, 0, 0, time.Local)
	dir.now = func() time.Time { return today }

	write := func(at time.Time, command string) {
		t.Helper()
		if _, err := dir.Write(domain.NewAuditRecord(at, command, "", domain.ExecutionResult{})); err != nil {
			t.Fatalf("Write error: %v", err)
		}
	}
	write(today.Add(-24*time.Hour), "yesterday")
	write(today.Add(time.Hour), "later")
	write(today, "now")
	if err := os.WriteFile(filepath.Join(root, "session_broken.json"), []byte("{"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	commands := func(records []domain.AuditRecord) []string {
		var out []string
		for _, r := range records {
			out = append(out, r.Command)
		}
		return out
	}

	all, err := dir.Load("")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if diff := cmp.Diff([]string{"yesterday", "now", "later"}, commands(all)); diff != "" {
		t.Errorf("Load(\"\") mismatch (-want +got):\n%s", diff)
	}

	todays, err := dir.Load("today")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if diff := cmp.Diff([]string{"now", "later"}, commands(todays)); diff != "" {
		t.Errorf("Load(today) mismatch (-want +got):\n%s", diff)
	}

	dated, err := dir.Load("2024-05-01")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if diff := cmp.Diff([]string{"yesterday"}, commands(dated)); diff != "" {
		t.Errorf("Load(date) mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadMissingDir(t *testing.T) {
	records, err := NewDir(filepath.Join(t.TempDir(), "absent"), logger.Nop()).Load("")
	if err != nil || len(records) != 0 {
		t.Fatalf("Load on missing dir = (%v, %v), want empty", records, err)
	}
}
