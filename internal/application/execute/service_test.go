package execute

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/doeshing/kaalsec/internal/domain"
)

type fakeStore struct {
	items  map[int]domain.Suggestion
	marked []int
}

func (f *fakeStore) Add(string, string, string) (int, error) { return 0, nil }

func (f *fakeStore) Get(id int) (domain.Suggestion, bool) {
	s, ok := f.items[id]
	return s, ok
}

func (f *fakeStore) MarkExecuted(id int) error {
	f.marked = append(f.marked, id)
	return nil
}

func (f *fakeStore) Recent(int) []domain.Suggestion { return nil }
func (f *fakeStore) Clear() error                   { return nil }

type fakePolicy struct{}

func (fakePolicy) Check(command string) domain.PolicyVerdict {
	if strings.HasPrefix(command, "rm -rf") {
		return domain.PolicyVerdict{Safe: false, Warning: "DANGEROUS: Recursive delete"}
	}
	return domain.PolicyVerdict{Safe: true}
}

func (fakePolicy) Anonymize(text string) string { return text }

type fakeRunner struct {
	result domain.ExecutionResult
	err    error
	ran    []string
}

func (f *fakeRunner) Run(_ context.Context, command string, _ time.Duration) (domain.ExecutionResult, error) {
	f.ran = append(f.ran, command)
	return f.result, f.err
}

type fakeAudit struct {
	records []domain.AuditRecord
}

func (f *fakeAudit) Write(r domain.AuditRecord) (string, error) {
	f.records = append(f.records, r)
	return "/logs/session.json", nil
}

func (f *fakeAudit) Load(string) ([]domain.AuditRecord, error) { return f.records, nil }

type scriptedPrompter struct {
	warning   bool
	execution bool
	asked     []string
}

func (p *scriptedPrompter) ConfirmWarning(string, string) (bool, error) {
	p.asked = append(p.asked, "warning")
	return p.warning, nil
}

func (p *scriptedPrompter) ConfirmExecution(string, string) (bool, error) {
	p.asked = append(p.asked, "execution")
	return p.execution, nil
}

func (p *scriptedPrompter) Enabled() bool { return true }

type nopLogger struct{}

func (nopLogger) Debug(string, map[string]interface{})        {}
func (nopLogger) Info(string, map[string]interface{})         {}
func (nopLogger) Warn(string, map[string]interface{})         {}
func (nopLogger) Error(string, error, map[string]interface{}) {}

type fixture struct {
	svc      *Service
	store    *fakeStore
	runner   *fakeRunner
	audit    *fakeAudit
	prompter *scriptedPrompter
}

func newFixture(command string) *fixture {
	f := &fixture{
		store: &fakeStore{items: map[int]domain.Suggestion{
			3: {ID: 3, Command: command, Description: "test"},
		}},
		runner:   &fakeRunner{result: domain.ExecutionResult{Stdout: "ok\n"}},
		audit:    &fakeAudit{},
		prompter: &scriptedPrompter{warning: true, execution: true},
	}
	f.svc = &Service{
		Store:    f.store,
		Policy:   fakePolicy{},
		Runner:   f.runner,
		Audit:    f.audit,
		Prompter: f.prompter,
		Logger:   nopLogger{},
		Timeout:  time.Second,
		now:      func() time.Time { return time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC) },
	}
	return f
}

func TestExecuteUnknownID(t *testing.T) {
	f := newFixture("id")
	_, err := f.svc.Execute(context.Background(), Request{ID: 99})
	var notFound *domain.NotFoundError
	if !errors.As(err, &notFound) || notFound.ID != 99 {
		t.Fatalf("expected NotFoundError for 99, got %v", err)
	}
	if len(f.audit.records) != 0 {
		t.Error("no audit record expected for an unknown ID")
	}
}

func TestExecuteSafeCommand(t *testing.T) {
	f := newFixture("id")
	outcome, err := f.svc.Execute(context.Background(), Request{ID: 3})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if outcome.Cancelled {
		t.Fatal("did not expect cancellation")
	}
	if len(f.audit.records) != 1 || f.audit.records[0].Output != "ok\n" {
		t.Fatalf("unexpected audit records: %+v", f.audit.records)
	}
	if f.audit.records[0].Date != "2024-01-15" {
		t.Errorf("record date = %s", f.audit.records[0].Date)
	}
	if len(f.store.marked) != 1 || f.store.marked[0] != 3 {
		t.Errorf("expected suggestion 3 marked executed, got %v", f.store.marked)
	}
	if outcome.LogPath == "" {
		t.Error("expected log path")
	}
}

func TestExecuteDeclinedWarningRunsNothing(t *testing.T) {
	f := newFixture("rm -rf /tmp/x")
	f.prompter.warning = false

	outcome, err := f.svc.Execute(context.Background(), Request{ID: 3, AutoConfirm: true})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !outcome.Cancelled {
		t.Fatal("expected cancellation")
	}
	if len(f.runner.ran) != 0 || len(f.audit.records) != 0 || len(f.store.marked) != 0 {
		t.Fatal("declined command must leave no trace")
	}
}

func TestExecuteAutoConfirmStillAsksWarning(t *testing.T) {
	f := newFixture("rm -rf /tmp/x")

	if _, err := f.svc.Execute(context.Background(), Request{ID: 3, AutoConfirm: true}); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if len(f.prompter.asked) != 1 || f.prompter.asked[0] != "warning" {
		t.Fatalf("expected only the warning confirmation, got %v", f.prompter.asked)
	}
	if len(f.runner.ran) != 1 {
		t.Fatal("command should have run")
	}
}

func TestExecuteDeclinedExecution(t *testing.T) {
	f := newFixture("id")
	f.prompter.execution = false

	outcome, err := f.svc.Execute(context.Background(), Request{ID: 3})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !outcome.Cancelled || len(f.runner.ran) != 0 {
		t.Fatalf("expected cancelled without running, got %+v", outcome)
	}
}

func TestExecuteNonZeroExitStillMarks(t *testing.T) {
	f := newFixture("false")
	f.runner.result = domain.ExecutionResult{ExitCode: 1, Stderr: "nope"}

	outcome, err := f.svc.Execute(context.Background(), Request{ID: 3, AutoConfirm: true})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if outcome.Result.ExitCode != 1 || f.audit.records[0].ExitCode != 1 {
		t.Fatalf("exit code not propagated: %+v", outcome.Result)
	}
	if len(f.store.marked) != 1 {
		t.Error("a command that ran to completion is marked executed")
	}
}

func TestExecuteTimeoutWritesRecordWithoutMarking(t *testing.T) {
	f := newFixture("sleep 600")
	f.runner.result = domain.ExecutionResult{ExitCode: -1, TimedOut: true}
	f.runner.err = &domain.TimeoutError{Operation: "command", Limit: time.Second}

	_, err := f.svc.Execute(context.Background(), Request{ID: 3, AutoConfirm: true})
	var timeout *domain.TimeoutError
	if !errors.As(err, &timeout) {
		t.Fatalf("expected TimeoutError, got %v", err)
	}
	if len(f.audit.records) != 1 {
		t.Fatal("timeout must still be audited")
	}
	rec := f.audit.records[0]
	if rec.ExitCode != -1 || !strings.Contains(rec.Notes, "timed out") {
		t.Errorf("unexpected record: %+v", rec)
	}
	if len(f.store.marked) != 0 {
		t.Error("timed out suggestion must not be marked executed")
	}
}
