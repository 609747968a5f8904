package helpers

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/doeshing/kaalsec/internal/domain"
	"github.com/doeshing/kaalsec/internal/ports"
)

const (
	shellAutoDetect = "auto"
	shellAll        = "all"
)

// DetermineTargetShells resolves which shells to operate on based on the flag value
// Returns a list of shell names to target
func DetermineTargetShells(shellFlag string, integrator ports.ShellIntegrator) ([]domain.ShellName, error) {
	normalizedFlag := normalizeShellFlag(shellFlag)

	switch normalizedFlag {
	case "", shellAutoDetect:
		return autoDetectShells(integrator)
	case shellAll:
		return allSupportedShells(), nil
	default:
		return parseSingleShell(normalizedFlag)
	}
}

// autoDetectShells uses $SHELL. An unsupported login shell is an error
// rather than a silent install into every rc file.
func autoDetectShells(integrator ports.ShellIntegrator) ([]domain.ShellName, error) {
	detected := integrator.DetectShell()
	shellName := ParseShellName(detected)
	if shellName == domain.ShellUnknown {
		return nil, fmt.Errorf("could not detect a supported shell from %q; pass --shell bash or --shell zsh", detected)
	}
	return []domain.ShellName{shellName}, nil
}

// allSupportedShells returns the shells the hook installer understands
func allSupportedShells() []domain.ShellName {
	return append([]domain.ShellName(nil), domain.SupportedShells...)
}

// parseSingleShell parses a single shell name from a flag value
func parseSingleShell(value string) ([]domain.ShellName, error) {
	shellName := ParseShellName(value)

	if shellName == domain.ShellUnknown {
		return nil, fmt.Errorf("unsupported shell %q: only bash and zsh are supported", value)
	}

	return []domain.ShellName{shellName}, nil
}

// ParseShellName converts a string to a ShellName constant
// Handles both simple names and full paths (e.g., "/bin/zsh" -> "zsh")
func ParseShellName(value string) domain.ShellName {
	// Extract basename and normalize
	normalized := normalizeShellName(value)

	switch normalized {
	case "zsh":
		return domain.ShellZsh
	case "bash":
		return domain.ShellBash
	default:
		return domain.ShellUnknown
	}
}

// normalizeShellFlag normalizes a shell flag value
func normalizeShellFlag(flag string) string {
	return strings.ToLower(strings.TrimSpace(flag))
}

// normalizeShellName extracts the basename and normalizes a shell name
func normalizeShellName(value string) string {
	basename := filepath.Base(value)
	return strings.ToLower(strings.TrimSpace(basename))
}
