package shell

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	rootassets "github.com/doeshing/kaalsec/assets"
	"github.com/doeshing/kaalsec/internal/domain"
	"github.com/doeshing/kaalsec/internal/ports"
)

// Installer deploys the hook that exports the last command as
// KAALSEC_LAST_CMD. Only bash and zsh are supported.
type Installer struct {
	home    string
	baseDir string
	logger  ports.Logger
}

// NewInstaller builds a shell installer. Hook scripts live under
// baseDir/shell; rc files are looked up in home.
func NewInstaller(home, baseDir string, logger ports.Logger) *Installer {
	return &Installer{home: home, baseDir: baseDir, logger: logger}
}

// Install installs shell integration for the given shell name (auto-detected when empty).
func (i *Installer) Install(shell string, force bool) (domain.ShellInstallResult, error) {
	name := normalizeShell(shell)
	scriptContent, err := scriptFor(name)
	if err != nil {
		return domain.ShellInstallResult{}, err
	}
	scriptPath, rcFile := i.scriptPaths(name)
	if err := os.MkdirAll(filepath.Dir(scriptPath), domain.DirectoryPermissions); err != nil {
		return domain.ShellInstallResult{}, err
	}

	if err := os.WriteFile(scriptPath, []byte(scriptContent), domain.FilePermissions); err != nil {
		return domain.ShellInstallResult{}, err
	}

	rcUpdated, err := installHook(rcFile, i.sourceLine(scriptPath), force)
	if err != nil {
		return domain.ShellInstallResult{}, err
	}
	i.logger.Debug("shell hook installed", map[string]interface{}{"shell": string(name), "rc": rcFile, "rc_updated": rcUpdated})

	return domain.ShellInstallResult{
		Shell:         name,
		ScriptPath:    scriptPath,
		RCFile:        rcFile,
		ScriptUpdated: true,
		RCUpdated:     rcUpdated,
	}, nil
}

// Uninstall removes sourcing line from rc file (script retained as backup).
func (i *Installer) Uninstall(shell string) (domain.ShellInstallResult, error) {
	name := normalizeShell(shell)
	scriptPath, rcFile := i.scriptPaths(name)
	if scriptPath == "" {
		return domain.ShellInstallResult{}, fmt.Errorf("unsupported shell: %s (only bash and zsh)", name)
	}
	updated, err := removeHook(rcFile, i.sourceLine(scriptPath))
	if err != nil {
		return domain.ShellInstallResult{}, err
	}
	return domain.ShellInstallResult{
		Shell:         name,
		ScriptPath:    scriptPath,
		RCFile:        rcFile,
		ScriptUpdated: false,
		RCUpdated:     updated,
	}, nil
}

// Status reports current integration state.
func (i *Installer) Status(shell string) domain.ShellStatus {
	name := normalizeShell(shell)
	scriptPath, rcFile := i.scriptPaths(name)
	status := domain.ShellStatus{
		Shell:      name,
		ScriptPath: scriptPath,
		RCFile:     rcFile,
	}
	if scriptPath == "" {
		status.Error = "unsupported shell"
		return status
	}

	if info, err := os.Stat(scriptPath); err == nil && info.Mode().IsRegular() {
		status.ScriptExists = true
	}

	line := i.sourceLine(scriptPath)
	if contents, err := os.ReadFile(rcFile); err == nil {
		status.LinePresent = strings.Contains(string(contents), line)
	}

	return status
}

// DetectShell inspects the SHELL env var.
func (i *Installer) DetectShell() string {
	return os.Getenv("SHELL")
}

func normalizeShell(shell string) domain.ShellName {
	if shell == "" {
		shell = filepath.Base(os.Getenv("SHELL"))
	}
	switch strings.ToLower(shell) {
	case "zsh":
		return domain.ShellZsh
	case "bash":
		return domain.ShellBash
	default:
		return domain.ShellUnknown
	}
}

func scriptFor(shell domain.ShellName) (string, error) {
	switch shell {
	case domain.ShellZsh:
		return rootassets.ZshHook, nil
	case domain.ShellBash:
		return rootassets.BashHook, nil
	default:
		return "", fmt.Errorf("unsupported shell: %s (only bash and zsh)", shell)
	}
}

func (i *Installer) scriptPaths(shell domain.ShellName) (string, string) {
	switch shell {
	case domain.ShellZsh:
		return filepath.Join(i.baseDir, "shell", "kaalsec.zsh"), filepath.Join(i.home, ".zshrc")
	case domain.ShellBash:
		return filepath.Join(i.baseDir, "shell", "kaalsec.bash"), filepath.Join(i.home, ".bashrc")
	default:
		return "", ""
	}
}

func (i *Installer) sourceLine(scriptPath string) string {
	path := friendlyPath(i.home, scriptPath)
	return fmt.Sprintf("[ -f %s ] && source %s", path, path)
}

func friendlyPath(home, path string) string {
	if home != "" && strings.HasPrefix(path, home+string(os.PathSeparator)) {
		rel := strings.TrimPrefix(path, home)
		rel = strings.TrimPrefix(rel, string(os.PathSeparator))
		return filepath.Join("$HOME", rel)
	}
	return path
}

var _ ports.ShellIntegrator = (*Installer)(nil)
