package suggest

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/doeshing/kaalsec/internal/application/prompts"
	"github.com/doeshing/kaalsec/internal/domain"
	"github.com/doeshing/kaalsec/internal/pkg/shellwords"
	"github.com/doeshing/kaalsec/internal/ports"
)

// Request is one natural-language task.
type Request struct {
	Task string
	// Tool optionally names a tool whose knowledge-base examples enrich the prompt.
	Tool string
}

// Result is what the CLI renders. When Fallback is set, Suggestions is empty
// and Raw holds the unparsed model answer.
type Result struct {
	Suggestions []domain.DisplaySuggestion
	Raw         string
	Fallback    bool
	// Warnings are storage problems that did not stop the pipeline.
	Warnings []string
}

// Service orchestrates context gathering, generation, screening and persistence.
type Service struct {
	ContextCollector ports.ContextCollector
	BackendFactory   ports.BackendFactory
	BackendConfig    domain.BackendConfig
	Policy           ports.PolicyChecker
	Store            ports.SuggestionRepository
	KnowledgeBase    ports.KnowledgeBase
	Logger           ports.Logger
}

// Generate runs the suggestion pipeline once. Backend and configuration
// errors abort before anything is stored. An answer without a usable JSON
// array is returned as a raw-text fallback and nothing is stored.
func (s *Service) Generate(ctx context.Context, req Request) (Result, error) {
	if s.ContextCollector == nil || s.BackendFactory == nil || s.Policy == nil || s.Store == nil || s.Logger == nil {
		return Result{}, errors.New("suggest.Service dependencies not satisfied")
	}
	task := strings.TrimSpace(req.Task)
	if task == "" {
		return Result{}, errors.New("task description is required")
	}

	backend, err := s.BackendFactory.ForConfig(s.BackendConfig)
	if err != nil {
		return Result{}, err
	}

	snapshot := s.ContextCollector.Collect(ctx)
	prompt := buildPrompt(task, snapshot, req.Tool, s.examplesFor(req.Tool))

	s.Logger.Debug("requesting suggestions", map[string]interface{}{
		"provider":  string(backend.Name()),
		"tools":     len(snapshot.InstalledTools),
		"history":   len(snapshot.RecentHistory),
		"tool_hint": req.Tool,
	})

	text, err := backend.Generate(ctx, prompt, prompts.Suggest)
	if err != nil {
		return Result{}, fmt.Errorf("generate suggestions: %w", err)
	}

	candidates, err := parseCandidates(text)
	if err != nil {
		s.Logger.Debug("falling back to raw answer", map[string]interface{}{"error": err.Error()})
		return Result{Raw: text, Fallback: true}, nil
	}

	result := Result{Suggestions: make([]domain.DisplaySuggestion, 0, len(candidates))}
	for _, candidate := range candidates {
		tool := candidate.Tool
		if tool == "" {
			tool = shellwords.CommandName(candidate.Command)
		}
		verdict := s.Policy.Check(candidate.Command)
		description := verdict.Annotate(candidate.Description)

		id, err := s.Store.Add(candidate.Command, description, tool)
		if err != nil {
			var warning *domain.StorageWarning
			if !errors.As(err, &warning) {
				return result, fmt.Errorf("store suggestion: %w", err)
			}
			s.Logger.Warn("suggestion not persisted", map[string]interface{}{"error": err.Error()})
			result.Warnings = append(result.Warnings, err.Error())
		}

		result.Suggestions = append(result.Suggestions, domain.DisplaySuggestion{
			ID:          id,
			Tool:        tool,
			Command:     candidate.Command,
			Description: description,
			Flagged:     !verdict.Safe,
		})
	}
	return result, nil
}

func (s *Service) examplesFor(tool string) []domain.PluginExample {
	if tool == "" || s.KnowledgeBase == nil {
		return nil
	}
	plugin, ok := s.KnowledgeBase.Plugin(tool)
	if !ok {
		return nil
	}
	return plugin.AllExamples()
}
