package execute

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/doeshing/kaalsec/internal/domain"
	"github.com/doeshing/kaalsec/internal/ports"
)

// Request identifies the stored suggestion to run.
type Request struct {
	ID int
	// AutoConfirm skips the final execution confirmation. It never skips the
	// warning confirmation of a flagged command.
	AutoConfirm bool
}

// Outcome describes what happened to one execution attempt.
type Outcome struct {
	Suggestion domain.Suggestion
	Verdict    domain.PolicyVerdict
	// Cancelled is set when the user declined a confirmation. Nothing ran.
	Cancelled bool
	Result    domain.ExecutionResult
	// LogPath is the audit record location, empty when LogErr is set.
	LogPath string
	LogErr  error
	// MarkErr is a storage warning raised while flagging the suggestion executed.
	MarkErr error
}

// Service is the execution gate: it re-screens a stored suggestion, asks for
// confirmation, runs it and records the attempt.
type Service struct {
	Store    ports.SuggestionRepository
	Policy   ports.PolicyChecker
	Runner   ports.CommandRunner
	Audit    ports.AuditLogger
	Prompter ports.ConfirmationPrompter
	Logger   ports.Logger
	Timeout  time.Duration

	now func() time.Time
}

// Execute runs suggestion req.ID. Every attempt that reaches the runner
// writes an audit record, including timeouts and spawn failures. The
// suggestion is marked executed only when the runner returned cleanly.
func (s *Service) Execute(ctx context.Context, req Request) (Outcome, error) {
	if s.Store == nil || s.Policy == nil || s.Runner == nil || s.Audit == nil || s.Prompter == nil || s.Logger == nil {
		return Outcome{}, errors.New("execute.Service dependencies not satisfied")
	}

	suggestion, ok := s.Store.Get(req.ID)
	if !ok {
		return Outcome{}, &domain.NotFoundError{ID: req.ID}
	}
	outcome := Outcome{Suggestion: suggestion}

	// The command is screened again: the policy may have changed since it was stored.
	outcome.Verdict = s.Policy.Check(suggestion.Command)
	if !outcome.Verdict.Safe {
		proceed, err := s.Prompter.ConfirmWarning(outcome.Verdict.Warning, suggestion.Command)
		if err != nil {
			return outcome, fmt.Errorf("confirm warning: %w", err)
		}
		if !proceed {
			outcome.Cancelled = true
			return outcome, nil
		}
	}

	if !req.AutoConfirm {
		proceed, err := s.Prompter.ConfirmExecution(suggestion.Command, suggestion.Description)
		if err != nil {
			return outcome, fmt.Errorf("confirm execution: %w", err)
		}
		if !proceed {
			outcome.Cancelled = true
			return outcome, nil
		}
	}

	timeout := s.Timeout
	if timeout <= 0 {
		timeout = domain.DefaultExecutionTimeout
	}

	s.Logger.Info("executing suggestion", map[string]interface{}{
		"id":      suggestion.ID,
		"timeout": timeout.String(),
	})

	result, runErr := s.Runner.Run(ctx, suggestion.Command, timeout)
	outcome.Result = result

	record := domain.NewAuditRecord(s.clock(), suggestion.Command, suggestion.Description, result)
	if runErr != nil {
		record.Notes = runErr.Error()
	}
	outcome.LogPath, outcome.LogErr = s.Audit.Write(record)
	if outcome.LogErr != nil {
		s.Logger.Warn("audit record not written", map[string]interface{}{"error": outcome.LogErr.Error()})
	}

	if runErr != nil {
		return outcome, fmt.Errorf("run suggestion %d: %w", suggestion.ID, runErr)
	}

	if err := s.Store.MarkExecuted(suggestion.ID); err != nil {
		s.Logger.Warn("could not mark suggestion executed", map[string]interface{}{"id": suggestion.ID, "error": err.Error()})
		outcome.MarkErr = err
	}
	return outcome, nil
}

func (s *Service) clock() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now()
}
