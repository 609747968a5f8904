package config

import (
	"errors"
	"strings"
	"testing"

	"github.com/doeshing/kaalsec/internal/domain"
)

func validConfig() domain.Config {
	return domain.Config{
		Backend: domain.BackendSettings{Provider: "ollama"},
		Paths:   domain.PathSettings{BaseDir: "/home/kali/.kaalsec"},
		Store:   domain.StoreSettings{Backend: "json"},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*domain.Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*domain.Config) {}},
		{name: "unknown provider", mutate: func(c *domain.Config) { c.Backend.Provider = "bard" }, wantErr: "bard"},
		{name: "bad store", mutate: func(c *domain.Config) { c.Store.Backend = "redis" }, wantErr: "store.backend"},
		{name: "bad log level", mutate: func(c *domain.Config) { c.Core.LogLevel = "loud" }, wantErr: "core.log_level"},
		{name: "negative timeout", mutate: func(c *domain.Config) { c.Execution.TimeoutSeconds = -1 }, wantErr: "execution.timeout_seconds"},
		{name: "missing base dir", mutate: func(c *domain.Config) { c.Paths.BaseDir = " " }, wantErr: "paths.base_dir"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := Validate(cfg)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidateReportsAllProblems(t *testing.T) {
	cfg := validConfig()
	cfg.Backend.Provider = "bard"
	cfg.Store.Backend = "redis"

	err := Validate(cfg)
	var cfgErr *domain.ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected joined ConfigurationError, got %v", err)
	}
	if !strings.Contains(err.Error(), "store.backend") {
		t.Errorf("second problem missing: %v", err)
	}
}
