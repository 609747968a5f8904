package suggest

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/doeshing/kaalsec/internal/domain"
	"github.com/doeshing/kaalsec/internal/ports"
)

type stubCollector struct {
	snapshot domain.ContextSnapshot
}

func (s stubCollector) Collect(context.Context) domain.ContextSnapshot { return s.snapshot }

type stubBackend struct {
	answer     string
	err        error
	lastPrompt string
	lastSystem string
}

func (b *stubBackend) Name() domain.ProviderKind { return domain.ProviderOllama }

func (b *stubBackend) Generate(_ context.Context, prompt, system string) (string, error) {
	b.lastPrompt = prompt
	b.lastSystem = system
	return b.answer, b.err
}

type stubFactory struct {
	backend ports.Backend
	err     error
}

func (f stubFactory) ForConfig(domain.BackendConfig) (ports.Backend, error) {
	return f.backend, f.err
}

type stubPolicy struct{}

func (stubPolicy) Check(command string) domain.PolicyVerdict {
	if strings.Contains(command, "mkfs") {
		return domain.PolicyVerdict{Safe: false, Warning: "DANGEROUS: Filesystem creation"}
	}
	return domain.PolicyVerdict{Safe: true}
}

func (stubPolicy) Anonymize(text string) string { return text }

type memoryStore struct {
	items []domain.Suggestion
	warn  error
}

func (m *memoryStore) Add(command, description, tool string) (int, error) {
	id := len(m.items) + 1
	m.items = append(m.items, domain.Suggestion{ID: id, Command: command, Description: description, Tool: tool})
	return id, m.warn
}

func (m *memoryStore) Get(id int) (domain.Suggestion, bool) {
	for _, s := range m.items {
		if s.ID == id {
			return s, true
		}
	}
	return domain.Suggestion{}, false
}

func (m *memoryStore) MarkExecuted(int) error         { return nil }
func (m *memoryStore) Recent(int) []domain.Suggestion { return m.items }
func (m *memoryStore) Clear() error                   { m.items = nil; return nil }

type stubKnowledge map[string]domain.ToolPlugin

func (k stubKnowledge) Plugin(tool string) (domain.ToolPlugin, bool) {
	p, ok := k[tool]
	return p, ok
}

type nopLogger struct{}

func (nopLogger) Debug(string, map[string]interface{})        {}
func (nopLogger) Info(string, map[string]interface{})         {}
func (nopLogger) Warn(string, map[string]interface{})         {}
func (nopLogger) Error(string, error, map[string]interface{}) {}

func newService(backend *stubBackend, store *memoryStore) *Service {
	return &Service{
		ContextCollector: stubCollector{},
		BackendFactory:   stubFactory{backend: backend},
		Policy:           stubPolicy{},
		Store:            store,
		Logger:           nopLogger{},
	}
}

func TestGenerateParsesArrayWrappedInProse(t *testing.T) {
	backend := &stubBackend{answer: "Here you go:\n```json\n[{\"tool\":\"nmap\",\"command\":\"nmap -sn 10.0.0.0/24\",\"description\":\"Ping sweep\"}]\n```\nGood luck."}
	store := &memoryStore{}
	svc := newService(backend, store)

	result, err := svc.Generate(context.Background(), Request{Task: "find live hosts"})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	want := []domain.DisplaySuggestion{{ID: 1, Tool: "nmap", Command: "nmap -sn 10.0.0.0/24", Description: "Ping sweep"}}
	if diff := cmp.Diff(want, result.Suggestions); diff != "" {
		t.Fatalf("suggestions mismatch (-want +got):\n%s", diff)
	}
	if result.Fallback {
		t.Fatal("did not expect fallback")
	}
	if len(store.items) != 1 {
		t.Fatalf("expected 1 stored suggestion, got %d", len(store.items))
	}
	if !strings.Contains(backend.lastSystem, "JSON array") {
		t.Errorf("system prompt should request a JSON array, got %q", backend.lastSystem)
	}
}

func TestGenerateFallsBackWithoutJSON(t *testing.T) {
	backend := &stubBackend{answer: "Try running nmap against the subnet."}
	store := &memoryStore{}
	svc := newService(backend, store)

	result, err := svc.Generate(context.Background(), Request{Task: "scan"})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if !result.Fallback || result.Raw != backend.answer {
		t.Fatalf("expected raw fallback, got %+v", result)
	}
	if len(store.items) != 0 {
		t.Fatalf("fallback must not persist, store has %d", len(store.items))
	}
}

func TestGenerateAnnotatesFlaggedCommands(t *testing.T) {
	backend := &stubBackend{answer: `[{"tool":"mkfs","command":"mkfs.ext4 /dev/sdb1","description":"Format"},{"tool":"","command":"lsblk","description":"List disks"}]`}
	store := &memoryStore{}
	svc := newService(backend, store)

	result, err := svc.Generate(context.Background(), Request{Task: "wipe usb"})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(result.Suggestions) != 2 {
		t.Fatalf("expected 2 suggestions, got %d", len(result.Suggestions))
	}
	flagged := result.Suggestions[0]
	if !flagged.Flagged || !strings.HasPrefix(flagged.Description, domain.WarningMarker) {
		t.Errorf("expected flagged annotation, got %+v", flagged)
	}
	if !store.items[0].Flagged() {
		t.Error("stored description should carry the warning marker")
	}
	if got := result.Suggestions[1].Tool; got != "lsblk" {
		t.Errorf("tool should be inferred from command, got %q", got)
	}
}

func TestGenerateDropsEmptyCommands(t *testing.T) {
	backend := &stubBackend{answer: `[{"tool":"x","command":"  ","description":"nothing"},{"tool":"whois","command":"whois example.com","description":"Lookup"}]`}
	store := &memoryStore{}
	svc := newService(backend, store)

	result, err := svc.Generate(context.Background(), Request{Task: "recon"})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(result.Suggestions) != 1 || result.Suggestions[0].Command != "whois example.com" {
		t.Fatalf("unexpected suggestions: %+v", result.Suggestions)
	}
}

func TestGenerateAllEmptyCommandsFallsBack(t *testing.T) {
	backend := &stubBackend{answer: `[{"tool":"x","command":"","description":"nothing"}]`}
	store := &memoryStore{}
	svc := newService(backend, store)

	result, err := svc.Generate(context.Background(), Request{Task: "recon"})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if !result.Fallback {
		t.Fatal("expected fallback when no candidate has a command")
	}
}

func TestGenerateBackendErrorAborts(t *testing.T) {
	backendErr := &domain.BackendError{Provider: domain.ProviderOllama, Msg: "could not connect", Unreachable: true}
	backend := &stubBackend{err: backendErr}
	store := &memoryStore{}
	svc := newService(backend, store)

	_, err := svc.Generate(context.Background(), Request{Task: "scan"})
	var got *domain.BackendError
	if !errors.As(err, &got) {
		t.Fatalf("expected BackendError, got %v", err)
	}
	if len(store.items) != 0 {
		t.Fatal("nothing should be persisted after a backend error")
	}
}

func TestGenerateFactoryErrorAborts(t *testing.T) {
	svc := newService(nil, &memoryStore{})
	svc.BackendFactory = stubFactory{err: &domain.ConfigurationError{Msg: "missing key"}}

	_, err := svc.Generate(context.Background(), Request{Task: "scan"})
	var cfgErr *domain.ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigurationError, got %v", err)
	}
}

func TestGenerateSurfacesStorageWarnings(t *testing.T) {
	backend := &stubBackend{answer: `[{"tool":"id","command":"id","description":"whoami"}]`}
	store := &memoryStore{warn: &domain.StorageWarning{Op: "write", Path: "/ro/x.json", Err: errors.New("read-only")}}
	svc := newService(backend, store)

	result, err := svc.Generate(context.Background(), Request{Task: "who am i"})
	if err != nil {
		t.Fatalf("storage warning must not abort, got %v", err)
	}
	if len(result.Suggestions) != 1 || result.Suggestions[0].ID != 1 {
		t.Fatalf("expected suggestion with ID 1, got %+v", result.Suggestions)
	}
	if len(result.Warnings) != 1 {
		t.Fatalf("expected 1 warning, got %v", result.Warnings)
	}
}

func TestGenerateRequiresTask(t *testing.T) {
	svc := newService(&stubBackend{}, &memoryStore{})
	if _, err := svc.Generate(context.Background(), Request{Task: "   "}); err == nil {
		t.Fatal("expected error for empty task")
	}
}

func TestGenerateIncludesExamplesOnlyForToolFilter(t *testing.T) {
	backend := &stubBackend{answer: "[]"}
	svc := newService(backend, &memoryStore{})
	svc.KnowledgeBase = stubKnowledge{
		"nmap": {Tool: "nmap", Categories: []domain.PluginCategory{{
			Name:     "discovery",
			Examples: []domain.PluginExample{{Cmd: "nmap -sn 10.0.0.0/24", Desc: "Ping sweep"}},
		}}},
	}

	if _, err := svc.Generate(context.Background(), Request{Task: "scan"}); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if strings.Contains(backend.lastPrompt, "Tool-specific examples") {
		t.Error("examples should only appear with a tool filter")
	}

	if _, err := svc.Generate(context.Background(), Request{Task: "scan", Tool: "nmap"}); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if !strings.Contains(backend.lastPrompt, "Tool-specific examples for nmap:\n- nmap -sn 10.0.0.0/24: Ping sweep\n") {
		t.Errorf("missing examples in prompt:\n%s", backend.lastPrompt)
	}
}
