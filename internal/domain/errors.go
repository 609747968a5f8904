package domain

import (
	"fmt"
	"time"
)

// ConfigurationError reports a configuration the user must fix: a missing
// credential or an unknown provider.
type ConfigurationError struct {
	Msg string
}

func (e *ConfigurationError) Error() string {
	return "configuration: " + e.Msg
}

// BackendError wraps a transport or HTTP failure from an LLM provider.
// Unreachable is set when the connection itself could not be established;
// Hint then carries the remediation text.
type BackendError struct {
	Provider    ProviderKind
	Msg         string
	Unreachable bool
	Hint        string
	Err         error
}

func (e *BackendError) Error() string {
	msg := fmt.Sprintf("%s backend: %s", e.Provider, e.Msg)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Hint != "" {
		msg += ". " + e.Hint
	}
	return msg
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

// ParseError reports a model answer that held no usable JSON array.
// It never escapes the suggestion pipeline.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	if e.Err == nil {
		return "parse suggestions: no JSON array in response"
	}
	return "parse suggestions: " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// NotFoundError reports an unknown suggestion ID.
type NotFoundError struct {
	ID int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("suggestion ID %d not found", e.ID)
}

// TimeoutError reports an operation abandoned at its hard bound.
type TimeoutError struct {
	Operation string
	Limit     time.Duration
	Err       error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s timed out after %s", e.Operation, e.Limit)
}

func (e *TimeoutError) Unwrap() error {
	return e.Err
}

// StorageWarning reports a ledger that could not be read or written. Callers
// log it and continue with the in-memory state.
type StorageWarning struct {
	Op   string
	Path string
	Err  error
}

func (e *StorageWarning) Error() string {
	return fmt.Sprintf("storage %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageWarning) Unwrap() error {
	return e.Err
}
