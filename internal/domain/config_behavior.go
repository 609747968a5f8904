package domain

import (
	"os"
	"strings"
	"time"
)

// BackendConfig resolves the provider selected by backend.provider into a
// BackendConfig. The hosted credential is read from the environment variable
// named by backend.openai.api_key_env. An unknown provider is a
// ConfigurationError; a missing credential is left for the adapter to reject.
func (c *Config) BackendConfig() (BackendConfig, error) {
	provider := ProviderKind(strings.ToLower(strings.TrimSpace(c.Backend.Provider)))
	if provider == "" {
		provider = ProviderOllama
	}

	switch provider {
	case ProviderOpenAI:
		keyEnv := valueOr(c.Backend.OpenAI.APIKeyEnv, DefaultOpenAIKeyEnv)
		return BackendConfig{
			Provider:  ProviderOpenAI,
			APIKey:    os.Getenv(keyEnv),
			APIKeyEnv: keyEnv,
			Model:     firstNonEmpty(c.Backend.OpenAI.Model, c.Backend.Model, DefaultOpenAIModel),
			Endpoint:  valueOr(c.Backend.OpenAI.BaseURL, DefaultOpenAIBaseURL),
			Timeout:   c.backendTimeout(DefaultHostedTimeout),
		}, nil
	case ProviderOllama:
		return BackendConfig{
			Provider: ProviderOllama,
			Model:    firstNonEmpty(c.Backend.Ollama.Model, c.Backend.Model, DefaultOllamaModel),
			Endpoint: valueOr(c.Backend.Ollama.Host, DefaultOllamaHost),
			Timeout:  c.backendTimeout(DefaultLocalTimeout),
		}, nil
	default:
		return BackendConfig{}, &ConfigurationError{Msg: "unknown backend provider: " + string(provider)}
	}
}

func (c *Config) backendTimeout(fallback time.Duration) time.Duration {
	if c.Backend.TimeoutSeconds <= 0 {
		return fallback
	}
	return time.Duration(c.Backend.TimeoutSeconds) * time.Second
}

// GetHistoryLines returns how many shell history lines feed the prompt.
func (c *Config) GetHistoryLines() int {
	if c.Core.HistoryLines <= 0 {
		return DefaultHistoryLines
	}
	return c.Core.HistoryLines
}

// GetExecutionTimeout returns the hard bound for a suggestion run.
func (c *Config) GetExecutionTimeout() time.Duration {
	if c.Execution.TimeoutSeconds <= 0 {
		return DefaultExecutionTimeout
	}
	return time.Duration(c.Execution.TimeoutSeconds) * time.Second
}

// GetExecutionShell returns the shell used to interpret suggestions.
func (c *Config) GetExecutionShell() string {
	if c.Execution.Shell == "" {
		return DefaultExecutionShell
	}
	return c.Execution.Shell
}

// UsesSQLiteStore reports whether the ledger lives in SQLite instead of JSON.
func (c *Config) UsesSQLiteStore() bool {
	return strings.EqualFold(c.Store.Backend, StoreBackendSQLite)
}

// ShowLegalBanner reports whether ask prints the legal banner.
func (c *Config) ShowLegalBanner() bool {
	return c.Core.LegalBanner
}

func valueOr(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
