// Package assist answers free-form questions and explains commands or tool
// output with a single backend call.
package assist

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/doeshing/kaalsec/internal/application/prompts"
	"github.com/doeshing/kaalsec/internal/domain"
	"github.com/doeshing/kaalsec/internal/ports"
)

// Service wraps the backend with the assistant prompts and redacts answers.
type Service struct {
	BackendFactory ports.BackendFactory
	BackendConfig  domain.BackendConfig
	Policy         ports.PolicyChecker
	Logger         ports.Logger
}

// Ask sends question as-is.
func (s *Service) Ask(ctx context.Context, question string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", errors.New("question is required")
	}
	return s.generate(ctx, "ask", question, prompts.Ask)
}

// Explain asks for a breakdown of a command or a block of tool output.
func (s *Service) Explain(ctx context.Context, content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", errors.New("nothing to explain")
	}
	return s.generate(ctx, "explain", "Explain this command/output in detail:\n\n"+content, prompts.Explain)
}

func (s *Service) generate(ctx context.Context, op, prompt, system string) (string, error) {
	if s.BackendFactory == nil || s.Policy == nil || s.Logger == nil {
		return "", errors.New("assist.Service dependencies not satisfied")
	}
	backend, err := s.BackendFactory.ForConfig(s.BackendConfig)
	if err != nil {
		return "", err
	}

	s.Logger.Debug("calling provider", map[string]interface{}{
		"operation": op,
		"provider":  string(backend.Name()),
		"model":     s.BackendConfig.Model,
	})

	answer, err := backend.Generate(ctx, prompt, system)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return s.Policy.Anonymize(answer), nil
}
