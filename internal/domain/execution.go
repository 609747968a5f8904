package domain

import "time"

// ExecutionResult wraps details from the command runner.
type ExecutionResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Duration time.Duration
	TimedOut bool
}

// Output is stdout followed by stderr, the combined field of an audit record.
func (r ExecutionResult) Output() string {
	return r.Stdout + r.Stderr
}

// AuditRecord is the JSON document written once per execution attempt.
// Field names are part of the on-disk format.
type AuditRecord struct {
	Timestamp   string `json:"timestamp"`
	Date        string `json:"date"`
	Command     string `json:"command"`
	Description string `json:"description"`
	ExitCode    int    `json:"exit_code"`
	Stdout      string `json:"stdout"`
	Stderr      string `json:"stderr"`
	Output      string `json:"output"`
	Notes       string `json:"notes,omitempty"`
}

// NewAuditRecord builds the record for an attempt that finished at now.
func NewAuditRecord(now time.Time, command, description string, result ExecutionResult) AuditRecord {
	return AuditRecord{
		Timestamp:   now.Format(time.RFC3339Nano),
		Date:        now.Format(DateFormat),
		Command:     command,
		Description: description,
		ExitCode:    result.ExitCode,
		Stdout:      result.Stdout,
		Stderr:      result.Stderr,
		Output:      result.Output(),
	}
}
