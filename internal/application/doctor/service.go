package doctor

import (
	"context"
	"fmt"
	"os"

	configapp "github.com/doeshing/kaalsec/internal/application/config"
	"github.com/doeshing/kaalsec/internal/domain"
	"github.com/doeshing/kaalsec/internal/ports"
)

// Service runs environment diagnostics. It never calls the backend.
type Service struct {
	ConfigProvider  ports.ConfigProvider
	ShellIntegrator ports.ShellIntegrator
	Policy          ports.PolicyChecker
	Tools           ports.ToolDiscoverer
	Store           ports.SuggestionRepository
}

// Run executes checks and returns a report.
func (s *Service) Run(ctx context.Context) (domain.HealthReport, error) {
	var checks []domain.HealthCheck

	cfg, err := s.ConfigProvider.Load(ctx)
	if err != nil {
		checks = append(checks, fail("Config file", fmt.Sprintf("load failed: %v", err)))
		return domain.HealthReport{Checks: checks}, err
	}
	if err := configapp.Validate(cfg); err != nil {
		checks = append(checks, fail("Config file", err.Error()))
	} else {
		checks = append(checks, ok("Config file", fmt.Sprintf("format %s, store %s", cfg.ConfigFormatVersion, cfg.Store.Backend)))
	}

	checks = append(checks, backendCheck(cfg))

	if s.Policy != nil {
		if verdict := s.Policy.Check("rm -rf /"); verdict.Safe {
			checks = append(checks, fail("Policy filter", "built-in hazard rules are not matching"))
		} else {
			mode := "restricted patterns enforced"
			if cfg.Policy.RedTeamMode {
				mode = "red-team mode, restricted patterns off"
			}
			checks = append(checks, ok("Policy filter", mode))
		}
	} else {
		checks = append(checks, warn("Policy filter", "policy filter not initialized"))
	}

	if s.Store != nil {
		checks = append(checks, ok("Suggestion store", fmt.Sprintf("%s, %d recent entries", cfg.Paths.StoreFile, len(s.Store.Recent(domain.DefaultRecentLimit)))))
	}

	checks = append(checks, writableDirCheck("Audit logs", cfg.Paths.LogsDir))

	if s.Tools != nil {
		installed := s.Tools.Installed(ctx)
		if len(installed) == 0 {
			checks = append(checks, warn("Kali tools", "no catalogued tools found on PATH"))
		} else {
			checks = append(checks, ok("Kali tools", fmt.Sprintf("detected tools: %d", len(installed))))
		}
	}

	if s.ShellIntegrator != nil {
		status := s.ShellIntegrator.Status("")
		if status.ScriptExists && status.LinePresent {
			checks = append(checks, ok("Shell integration", fmt.Sprintf("%s ready", status.Shell)))
		} else if status.Error != "" {
			checks = append(checks, warn("Shell integration", status.Error))
		} else {
			checks = append(checks, warn("Shell integration", "not installed (kaalsec integrate)"))
		}
	}

	return domain.HealthReport{Checks: checks}, nil
}

func backendCheck(cfg domain.Config) domain.HealthCheck {
	backend, err := cfg.BackendConfig()
	if err != nil {
		return fail("Backend", err.Error())
	}
	if backend.Provider == domain.ProviderOpenAI && backend.APIKey == "" {
		return warn("Backend", fmt.Sprintf("%s missing for %s", backend.APIKeyEnv, backend.Provider))
	}
	return ok("Backend", fmt.Sprintf("%s %s at %s (timeout %s)", backend.Provider, backend.Model, backend.Endpoint, backend.Timeout))
}

func writableDirCheck(name, dir string) domain.HealthCheck {
	if err := os.MkdirAll(dir, domain.DirectoryPermissions); err != nil {
		return fail(name, err.Error())
	}
	tmp, err := os.CreateTemp(dir, ".doctor-*")
	if err != nil {
		return fail(name, fmt.Sprintf("%s not writable: %v", dir, err))
	}
	tmp.Close()
	os.Remove(tmp.Name())
	return ok(name, dir)
}

func ok(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthOK, Details: details}
}

func warn(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthWarn, Details: details}
}

func fail(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthError, Details: details}
}
