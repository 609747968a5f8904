package domain

import "time"

// File permissions constants
const (
	// DirectoryPermissions is the default permission for directories (rwxr-xr-x)
	DirectoryPermissions = 0o755
	// SecureFilePermissions is the permission for sensitive files (rw-------)
	SecureFilePermissions = 0o600
	// FilePermissions is used for the ledger and audit records (rw-r--r--)
	FilePermissions = 0o644
)

// ProviderKind discriminates the backend adapter variants.
type ProviderKind string

const (
	ProviderOpenAI ProviderKind = "openai"
	ProviderOllama ProviderKind = "ollama"
)

// Backend defaults
const (
	DefaultOpenAIBaseURL = "https://api.openai.com/v1"
	DefaultOpenAIKeyEnv  = "OPENAI_API_KEY"
	DefaultOpenAIModel   = "gpt-4o-mini"
	DefaultOllamaHost    = "http://localhost:11434"
	DefaultOllamaModel   = "qwen2.5"

	// DefaultHostedTimeout bounds a hosted API call
	DefaultHostedTimeout = 30 * time.Second
	// DefaultLocalTimeout bounds a local inference call, which is much slower
	DefaultLocalTimeout = 120 * time.Second
)

// Execution defaults
const (
	// DefaultExecutionTimeout is the hard bound for running a suggestion
	DefaultExecutionTimeout = 5 * time.Minute
	DefaultExecutionShell   = "/bin/sh"
)

// Prompt context limits
const (
	// DefaultHistoryLines is how many history lines the provider reads
	DefaultHistoryLines = 25
	// PromptHistoryLines is how many of those make it into a suggestion prompt
	PromptHistoryLines = 5
	// MaxPromptTools caps the installed-tools hint
	MaxPromptTools = 20
	// MaxPluginExamples caps knowledge-base examples in a prompt
	MaxPluginExamples = 3
)

// Store backends
const (
	StoreBackendJSON   = "json"
	StoreBackendSQLite = "sqlite"
)

// Listing and report limits
const (
	// DefaultRecentLimit is the default number of suggestions listed
	DefaultRecentLimit = 10
	// ReportOutputLimit truncates each command's output in a report
	ReportOutputLimit = 500
)

// Time formats
const (
	// DateFormat is the audit record date field format
	DateFormat = "2006-01-02"
	// LogFileTimeFormat stamps audit file names
	LogFileTimeFormat = "20060102_150405"
)
