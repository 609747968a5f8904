package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/doeshing/kaalsec/assets"
	"github.com/doeshing/kaalsec/internal/domain"
	"github.com/doeshing/kaalsec/internal/pkg/filesystem"
	"github.com/doeshing/kaalsec/internal/ports"
)

// EnvConfigPath overrides the config file location.
const EnvConfigPath = "KAALSEC_CONFIG"

// FileLoader loads YAML configuration from ~/.kaalsec/config.yaml (overridable via KAALSEC_CONFIG).
type FileLoader struct {
	overridePath string
}

// NewFileLoader builds a new loader. A non-empty path wins over the environment.
func NewFileLoader(path string) *FileLoader {
	return &FileLoader{overridePath: path}
}

// Load implements ports.ConfigProvider. On first run the embedded default
// config and starter policy rules are written to disk. Every path in the
// returned config is absolute.
func (l *FileLoader) Load(context.Context) (domain.Config, error) {
	path := l.resolvePath()
	if err := ensureConfigDir(path); err != nil {
		return domain.Config{}, fmt.Errorf("ensure config dir: %w", err)
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		if err := os.WriteFile(path, assets.DefaultConfigYAML, domain.SecureFilePermissions); err != nil {
			return domain.Config{}, fmt.Errorf("write default config: %w", err)
		}
		cfg := resolvePaths(hydrateDefaults(defaultConfig()))
		if err := writeDefaultPolicy(cfg.Policy.RulesFile); err != nil {
			return domain.Config{}, err
		}
		return cfg, nil
	}
	if err != nil {
		return domain.Config{}, fmt.Errorf("read config: %w", err)
	}

	var cfg domain.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return domain.Config{}, &domain.ConfigurationError{Msg: fmt.Sprintf("parse %s: %v", path, err)}
	}
	return resolvePaths(hydrateDefaults(cfg)), nil
}

// Path returns the resolved config file path.
func (l *FileLoader) Path() string {
	return l.resolvePath()
}

func (l *FileLoader) resolvePath() string {
	if l.overridePath != "" {
		return filesystem.ExpandPath(l.overridePath, "")
	}
	if custom := os.Getenv(EnvConfigPath); custom != "" {
		return filesystem.ExpandPath(custom, "")
	}
	return filepath.Join(filesystem.UserHomeDir(), ".kaalsec", "config.yaml")
}

func ensureConfigDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), domain.DirectoryPermissions)
}

func writeDefaultPolicy(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), domain.DirectoryPermissions); err != nil {
		return fmt.Errorf("create policy dir: %w", err)
	}
	if err := os.WriteFile(path, assets.DefaultPolicyYAML, domain.FilePermissions); err != nil {
		return fmt.Errorf("write default policy: %w", err)
	}
	return nil
}

func defaultConfig() domain.Config {
	var cfg domain.Config
	if err := yaml.Unmarshal(assets.DefaultConfigYAML, &cfg); err != nil {
		return domain.Config{
			ConfigFormatVersion: "1",
			Core:                domain.CoreSettings{LegalBanner: true},
		}
	}
	return cfg
}

func hydrateDefaults(cfg domain.Config) domain.Config {
	if cfg.ConfigFormatVersion == "" {
		cfg.ConfigFormatVersion = "1"
	}
	if cfg.Core.HistoryLines <= 0 {
		cfg.Core.HistoryLines = domain.DefaultHistoryLines
	}
	if cfg.Backend.Provider == "" {
		cfg.Backend.Provider = string(domain.ProviderOllama)
	}
	if cfg.Store.Backend == "" {
		cfg.Store.Backend = domain.StoreBackendJSON
	}
	if cfg.Paths.BaseDir == "" {
		cfg.Paths.BaseDir = "~/.kaalsec"
	}
	cfg.Paths.StoreFile = storeFileFor(cfg)
	if cfg.Paths.LogsDir == "" {
		cfg.Paths.LogsDir = "logs"
	}
	if cfg.Paths.PluginsDir == "" {
		cfg.Paths.PluginsDir = "plugins"
	}
	if cfg.Execution.Shell == "" {
		cfg.Execution.Shell = domain.DefaultExecutionShell
	}
	return cfg
}

// storeFileFor keeps each ledger backend on its own file extension, so a
// JSON ledger never opens a SQLite database and the reverse.
func storeFileFor(cfg domain.Config) string {
	name := strings.TrimSpace(cfg.Paths.StoreFile)
	want, other := ".json", ".db"
	if cfg.UsesSQLiteStore() {
		want, other = ".db", ".json"
	}
	if name == "" {
		return "suggestions" + want
	}
	if strings.EqualFold(filepath.Ext(name), other) {
		return strings.TrimSuffix(name, filepath.Ext(name)) + want
	}
	return name
}

// resolvePaths anchors every relative path on base_dir.
func resolvePaths(cfg domain.Config) domain.Config {
	base := filesystem.ExpandPath(cfg.Paths.BaseDir, "")
	if abs, err := filepath.Abs(base); err == nil {
		base = abs
	}
	cfg.Paths.BaseDir = base
	cfg.Paths.StoreFile = filesystem.ExpandPath(cfg.Paths.StoreFile, base)
	cfg.Paths.LogsDir = filesystem.ExpandPath(cfg.Paths.LogsDir, base)
	cfg.Paths.PluginsDir = filesystem.ExpandPath(cfg.Paths.PluginsDir, base)
	if strings.TrimSpace(cfg.Policy.RulesFile) != "" {
		cfg.Policy.RulesFile = filesystem.ExpandPath(cfg.Policy.RulesFile, base)
	}
	return cfg
}

var _ ports.ConfigProvider = (*FileLoader)(nil)
