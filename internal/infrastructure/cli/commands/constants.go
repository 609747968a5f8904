package commands

// Error messages
const (
	ErrConfigLoaderUnavailable   = "config loader unavailable"
	ErrStoreUnavailable          = "suggestion store unavailable"
	ErrShellInstallerUnavailable = "shell installer unavailable"
	ErrTaskRequired              = "describe the task, e.g. kaalsec suggest scan 10.0.0.0/24 for web servers"
	ErrInvalidLimit              = "--limit must be >= 1"
)

// Messages
const (
	MsgNoHistoryRecorded  = "No suggestions recorded yet."
	MsgHistoryCleared     = "Suggestion history cleared."
	MsgCancelled          = "Cancelled."
	MsgFallback           = "Could not parse structured suggestions; showing the raw answer. No IDs were assigned."
	MsgConfigurationValid = "Configuration valid"
)

// Display settings
const (
	// MaxOutputPreview caps how much command output run echoes back
	MaxOutputPreview = 4000
)
