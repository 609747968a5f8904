package domain

// ShellName enumerates supported shells.
type ShellName string

const (
	ShellUnknown ShellName = "unknown"
	ShellZsh     ShellName = "zsh"
	ShellBash    ShellName = "bash"
)

// ShellInstallResult describes install/uninstall outcomes.
type ShellInstallResult struct {
	Shell         ShellName
	ScriptPath    string
	RCFile        string
	ScriptUpdated bool
	RCUpdated     bool
}

// ShellStatus captures current integration state.
type ShellStatus struct {
	Shell        ShellName
	ScriptPath   string
	RCFile       string
	ScriptExists bool
	LinePresent  bool
	Error        string
}

// LastCommandEnv is exported by the shell hook after every prompt.
const LastCommandEnv = "KAALSEC_LAST_CMD"

// SupportedShells lists the shells the hook installer understands.
var SupportedShells = []ShellName{ShellBash, ShellZsh}
