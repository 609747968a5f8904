package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/doeshing/kaalsec/internal/domain"
)

// Validate ensures config structure is consistent. It reports every problem
// found, not just the first.
func Validate(cfg domain.Config) error {
	var errs []error
	if _, err := cfg.BackendConfig(); err != nil {
		errs = append(errs, err)
	}
	if err := validateBackend(cfg.Backend); err != nil {
		errs = append(errs, err)
	}
	if err := validateCore(cfg.Core); err != nil {
		errs = append(errs, err)
	}
	if err := validateStore(cfg.Store); err != nil {
		errs = append(errs, err)
	}
	if err := validatePaths(cfg.Paths); err != nil {
		errs = append(errs, err)
	}
	if err := validateExecution(cfg.Execution); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func validateBackend(backend domain.BackendSettings) error {
	if backend.TimeoutSeconds < 0 {
		return fmt.Errorf("backend.timeout_seconds must be >= 0, got %d", backend.TimeoutSeconds)
	}
	return nil
}

func validateCore(core domain.CoreSettings) error {
	if core.HistoryLines < 0 {
		return fmt.Errorf("core.history_lines must be >= 0, got %d", core.HistoryLines)
	}
	switch strings.ToLower(core.LogLevel) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("core.log_level must be debug|info|warn|error, got %s", core.LogLevel)
	}
	return nil
}

func validateStore(store domain.StoreSettings) error {
	switch strings.ToLower(store.Backend) {
	case "", domain.StoreBackendJSON, domain.StoreBackendSQLite:
		return nil
	default:
		return fmt.Errorf("store.backend must be %s|%s, got %s", domain.StoreBackendJSON, domain.StoreBackendSQLite, store.Backend)
	}
}

func validatePaths(paths domain.PathSettings) error {
	if strings.TrimSpace(paths.BaseDir) == "" {
		return errors.New("paths.base_dir must be set")
	}
	return nil
}

func validateExecution(exec domain.ExecutionSettings) error {
	if exec.TimeoutSeconds < 0 {
		return fmt.Errorf("execution.timeout_seconds must be >= 0, got %d", exec.TimeoutSeconds)
	}
	return nil
}
