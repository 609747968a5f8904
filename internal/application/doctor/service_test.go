package doctor

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/doeshing/kaalsec/internal/domain"
)

type staticConfig struct {
	cfg domain.Config
	err error
}

func (s staticConfig) Load(context.Context) (domain.Config, error) { return s.cfg, s.err }

type hazardPolicy struct{}

func (hazardPolicy) Check(command string) domain.PolicyVerdict {
	return domain.PolicyVerdict{Safe: command != "rm -rf /", Warning: "DANGEROUS"}
}

func (hazardPolicy) Anonymize(text string) string { return text }

type fixedTools []string

func (f fixedTools) Installed(context.Context) []string { return f }

func statusOf(report domain.HealthReport, name string) domain.HealthStatus {
	for _, check := range report.Checks {
		if check.Name == name {
			return check.Status
		}
	}
	return ""
}

func TestRunHealthy(t *testing.T) {
	dir := t.TempDir()
	cfg := domain.Config{
		ConfigFormatVersion: "1",
		Backend:             domain.BackendSettings{Provider: "ollama"},
		Paths:               domain.PathSettings{BaseDir: dir, LogsDir: filepath.Join(dir, "logs")},
		Store:               domain.StoreSettings{Backend: "json"},
	}
	svc := &Service{ConfigProvider: staticConfig{cfg: cfg}, Policy: hazardPolicy{}, Tools: fixedTools{"nmap"}}

	report, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if report.Failed() {
		t.Fatalf("unexpected failure: %+v", report.Checks)
	}
	for _, name := range []string{"Config file", "Backend", "Policy filter", "Audit logs", "Kali tools"} {
		if got := statusOf(report, name); got != domain.HealthOK {
			t.Errorf("%s status = %q, want ok", name, got)
		}
	}
}

func TestRunMissingCredentialWarns(t *testing.T) {
	t.Setenv("KAALSEC_DOCTOR_KEY", "")
	dir := t.TempDir()
	cfg := domain.Config{
		Backend: domain.BackendSettings{Provider: "openai", OpenAI: domain.OpenAISettings{APIKeyEnv: "KAALSEC_DOCTOR_KEY"}},
		Paths:   domain.PathSettings{BaseDir: dir, LogsDir: filepath.Join(dir, "logs")},
	}
	svc := &Service{ConfigProvider: staticConfig{cfg: cfg}}

	report, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got := statusOf(report, "Backend"); got != domain.HealthWarn {
		t.Errorf("Backend status = %q, want warn", got)
	}
}

func TestRunConfigLoadFailure(t *testing.T) {
	svc := &Service{ConfigProvider: staticConfig{err: errors.New("bad yaml")}}
	report, err := svc.Run(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if !report.Failed() {
		t.Error("report should carry the failure")
	}
}
