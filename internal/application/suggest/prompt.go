package suggest

import (
	"fmt"
	"strings"

	"github.com/doeshing/kaalsec/internal/domain"
)

// buildPrompt renders the generation request. Installed tools are capped at
// MaxPromptTools with a count of the remainder; history keeps its order,
// newest last.
func buildPrompt(task string, snapshot domain.ContextSnapshot, tool string, examples []domain.PluginExample) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Task: %s\n\n", task)

	if installed := snapshot.InstalledTools; len(installed) > 0 {
		shown := installed
		if len(shown) > domain.MaxPromptTools {
			shown = shown[:domain.MaxPromptTools]
		}
		fmt.Fprintf(&b, "Available installed Kali tools: %s", strings.Join(shown, ", "))
		if rest := len(installed) - len(shown); rest > 0 {
			fmt.Fprintf(&b, " (and %d more)", rest)
		}
		b.WriteString("\n\n")
	}

	history := snapshot.RecentHistory
	if len(history) > domain.PromptHistoryLines {
		history = history[len(history)-domain.PromptHistoryLines:]
	}
	if len(history) > 0 {
		b.WriteString("Recent commands for context:\n")
		for i, cmd := range history {
			fmt.Fprintf(&b, "  %d. %s\n", i+1, cmd)
		}
		b.WriteString("\n")
	}

	b.WriteString("Suggest 2-4 safe commands for this task. Prefer tools that are installed.")

	if len(examples) > domain.MaxPluginExamples {
		examples = examples[:domain.MaxPluginExamples]
	}
	if len(examples) > 0 {
		fmt.Fprintf(&b, "\n\nTool-specific examples for %s:\n", tool)
		for _, ex := range examples {
			fmt.Fprintf(&b, "- %s: %s\n", ex.Cmd, ex.Desc)
		}
	}
	return b.String()
}
