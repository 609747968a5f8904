package commands

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/doeshing/kaalsec/internal/app"
	"github.com/doeshing/kaalsec/internal/application/suggest"
	"github.com/doeshing/kaalsec/internal/infrastructure/cli/helpers"
)

// NewSuggestCommand creates the suggest command
func NewSuggestCommand(container *app.Container) *cobra.Command {
	var tool string

	cmd := &cobra.Command{
		Use:   "suggest [task...]",
		Short: "Generate candidate commands for a task",
		Long: "Generate 2-4 candidate commands for a natural-language task. Each suggestion " +
			"is screened by the policy filter and stored with an ID that `kaalsec run` accepts.",
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			task := strings.TrimSpace(strings.Join(args, " "))
			if task == "" {
				return errors.New(ErrTaskRequired)
			}
			return runSuggest(cmd, container, task, tool)
		},
	}

	cmd.Flags().StringVarP(&tool, "tool", "t", "", "Focus on a tool and include its knowledge-base examples")
	return cmd
}

func runSuggest(cmd *cobra.Command, container *app.Container, task, tool string) error {
	out := cmd.OutOrStdout()

	spinner := newSpinner(cmd, "Generating suggestions...")
	spinner.Start()
	result, err := container.SuggestService.Generate(cmd.Context(), suggest.Request{Task: task, Tool: tool})
	spinner.Stop()
	if err != nil {
		return err
	}

	helpers.PrintWarnings(cmd.ErrOrStderr(), result.Warnings)

	if result.Fallback {
		helpers.PrintWarnings(cmd.ErrOrStderr(), []string{MsgFallback})
		helpers.Markdown(out, result.Raw)
		return nil
	}

	helpers.Title(out, fmt.Sprintf("Suggestions for: %s", task))
	fmt.Fprintln(out)
	helpers.RenderSuggestions(out, result.Suggestions)
	helpers.Muted(out, "Run one with: kaalsec run <id>")
	return nil
}

// newSpinner draws on stderr only when it is a terminal.
func newSpinner(cmd *cobra.Command, label string) *helpers.Spinner {
	if f, ok := cmd.ErrOrStderr().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return helpers.NewSpinner(f, label)
	}
	return helpers.NewSpinner(nil, label)
}
