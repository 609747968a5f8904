package suggest

import (
	"fmt"
	"strings"
	"testing"

	"github.com/doeshing/kaalsec/internal/domain"
)

func TestBuildPromptCapsInstalledTools(t *testing.T) {
	tools := make([]string, 25)
	for i := range tools {
		tools[i] = fmt.Sprintf("tool%02d", i)
	}
	prompt := buildPrompt("scan", domain.ContextSnapshot{InstalledTools: tools}, "", nil)

	if !strings.Contains(prompt, "tool19 (and 5 more)\n\n") {
		t.Errorf("expected 20 tools and a remainder count:\n%s", prompt)
	}
	if strings.Contains(prompt, "tool20") {
		t.Error("tools past the cap must not be listed")
	}
}

func TestBuildPromptKeepsLastHistoryLines(t *testing.T) {
	history := []string{"h1", "h2", "h3", "h4", "h5", "h6", "h7"}
	prompt := buildPrompt("scan", domain.ContextSnapshot{RecentHistory: history}, "", nil)

	want := "Recent commands for context:\n  1. h3\n  2. h4\n  3. h5\n  4. h6\n  5. h7\n\n"
	if !strings.Contains(prompt, want) {
		t.Errorf("history block mismatch:\n%s", prompt)
	}
}

func TestBuildPromptMinimal(t *testing.T) {
	got := buildPrompt("list open ports", domain.ContextSnapshot{}, "", nil)
	want := "Task: list open ports\n\nSuggest 2-4 safe commands for this task. Prefer tools that are installed."
	if got != want {
		t.Errorf("buildPrompt() = %q, want %q", got, want)
	}
}

func TestBuildPromptCapsExamples(t *testing.T) {
	examples := []domain.PluginExample{
		{Cmd: "a", Desc: "1"}, {Cmd: "b", Desc: "2"}, {Cmd: "c", Desc: "3"}, {Cmd: "d", Desc: "4"},
	}
	prompt := buildPrompt("scan", domain.ContextSnapshot{}, "nmap", examples)
	if strings.Contains(prompt, "- d: 4") {
		t.Errorf("only %d examples should be included:\n%s", domain.MaxPluginExamples, prompt)
	}
}
