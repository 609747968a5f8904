package domain

import "time"

// Config mirrors ~/.kaalsec/config.yaml.
type Config struct {
	ConfigFormatVersion string            `yaml:"config_format_version"`
	Core                CoreSettings      `yaml:"core"`
	Backend             BackendSettings   `yaml:"backend"`
	Policy              PolicySettings    `yaml:"policy"`
	Paths               PathSettings      `yaml:"paths"`
	Store               StoreSettings     `yaml:"store"`
	Execution           ExecutionSettings `yaml:"execution"`
}

// CoreSettings captures user level toggles.
type CoreSettings struct {
	LegalBanner  bool   `yaml:"legal_banner"`
	HistoryLines int    `yaml:"history_lines"`
	LogLevel     string `yaml:"log_level"`
}

// BackendSettings selects and configures the LLM provider.
type BackendSettings struct {
	Provider       string         `yaml:"provider"`
	Model          string         `yaml:"model"`
	TimeoutSeconds int            `yaml:"timeout_seconds"`
	OpenAI         OpenAISettings `yaml:"openai"`
	Ollama         OllamaSettings `yaml:"ollama"`
}

// OpenAISettings configures the hosted chat-completions variant.
type OpenAISettings struct {
	APIKeyEnv string `yaml:"api_key_env"`
	BaseURL   string `yaml:"base_url"`
	Model     string `yaml:"model"`
}

// OllamaSettings configures the local generation server.
type OllamaSettings struct {
	Host  string `yaml:"host"`
	Model string `yaml:"model"`
}

// PolicySettings drives the policy filter.
type PolicySettings struct {
	RedTeamMode  bool   `yaml:"red_team_mode"`
	AnonymiseIPs bool   `yaml:"anonymise_ips"`
	RulesFile    string `yaml:"rules_file"`
}

// PathSettings locates everything the tool writes. Relative entries are
// resolved against BaseDir by the config loader.
type PathSettings struct {
	BaseDir    string `yaml:"base_dir"`
	StoreFile  string `yaml:"store_file"`
	LogsDir    string `yaml:"logs_dir"`
	PluginsDir string `yaml:"plugins_dir"`
}

// StoreSettings selects the suggestion ledger implementation.
type StoreSettings struct {
	Backend string `yaml:"backend"`
}

// ExecutionSettings controls how suggestions run.
type ExecutionSettings struct {
	Shell          string `yaml:"shell"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// BackendConfig is the resolved, provider-specific view of BackendSettings.
type BackendConfig struct {
	Provider ProviderKind
	APIKey   string
	// APIKeyEnv names the variable the credential was read from, for error text.
	APIKeyEnv string
	Model     string
	Endpoint  string
	Timeout   time.Duration
}
