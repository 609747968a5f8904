// Package ports defines the interfaces (ports) for the hexagonal architecture.
//
// This package establishes the contract between the application core and external
// adapters (infrastructure). Following the Ports and Adapters (Hexagonal) pattern,
// these interfaces allow the suggestion pipeline and the execution gate to remain
// independent of specific implementations like LLM HTTP clients, the JSON or
// SQLite ledger, the shell, or the CLI framework.
//
// Key architectural concepts:
//   - Ports: Interfaces defined here (e.g., Backend, SuggestionRepository)
//   - Adapters: Concrete implementations in the infrastructure layer
//   - Dependency inversion: Application depends on abstractions, not implementations
package ports

import (
	"context"
	"time"

	"github.com/doeshing/kaalsec/internal/domain"
)

// ConfigProvider loads the latest configuration from persistent storage.
// Implementations typically read from ~/.kaalsec/config.yaml.
type ConfigProvider interface {
	Load(context.Context) (domain.Config, error)
}

// Backend is the uniform text-generation capability over an LLM provider.
// A single call is made per invocation; implementations do not retry.
type Backend interface {
	Name() domain.ProviderKind
	Generate(ctx context.Context, prompt string, systemPrompt string) (string, error)
}

// BackendFactory resolves a Backend variant from its configuration.
type BackendFactory interface {
	ForConfig(domain.BackendConfig) (Backend, error)
}

// PolicyChecker screens a candidate command against the safety/legality policy.
type PolicyChecker interface {
	Check(command string) domain.PolicyVerdict
	Anonymize(text string) string
}

// SuggestionRepository is the ID-indexed ledger of generated suggestions.
// Write failures that leave the in-memory state intact are reported as
// *domain.StorageWarning.
type SuggestionRepository interface {
	Add(command, description, tool string) (int, error)
	Get(id int) (domain.Suggestion, bool)
	MarkExecuted(id int) error
	Recent(limit int) []domain.Suggestion
	Clear() error
}

// HistoryProvider supplies recent shell commands, oldest first.
type HistoryProvider interface {
	Recent(limit int) []string
}

// ToolDiscoverer reports which catalogue tools are installed.
type ToolDiscoverer interface {
	Installed(context.Context) []string
}

// KnowledgeBase looks up example commands for a tool.
type KnowledgeBase interface {
	Plugin(tool string) (domain.ToolPlugin, bool)
}

// ContextCollector gathers local context (installed tools, shell history) to
// enrich suggestion prompts.
type ContextCollector interface {
	Collect(context.Context) domain.ContextSnapshot
}

// CommandRunner runs a shell command bounded by timeout. A command that
// exits non-zero is not an error; a timeout is a *domain.TimeoutError.
type CommandRunner interface {
	Run(ctx context.Context, command string, timeout time.Duration) (domain.ExecutionResult, error)
}

// AuditLogger persists one record per execution attempt and reads them back
// for reports.
type AuditLogger interface {
	Write(domain.AuditRecord) (string, error)
	Load(dateFilter string) ([]domain.AuditRecord, error)
}

// ConfirmationPrompter handles interactive user confirmations before a
// suggestion runs.
type ConfirmationPrompter interface {
	ConfirmWarning(warning string, command string) (bool, error)
	ConfirmExecution(command string, description string) (bool, error)
	Enabled() bool
}

// ShellIntegrator manages shell integration hooks (bash, zsh).
type ShellIntegrator interface {
	Install(shell string, force bool) (domain.ShellInstallResult, error)
	Uninstall(shell string) (domain.ShellInstallResult, error)
	Status(shell string) domain.ShellStatus
	DetectShell() string
}

// Logger provides structured logging abstraction for the application layer.
// Implementations can route to different backends (stdout, files, external services).
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error, fields map[string]interface{})
}
