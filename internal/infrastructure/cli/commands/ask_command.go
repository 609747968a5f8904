package commands

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/doeshing/kaalsec/internal/app"
	"github.com/doeshing/kaalsec/internal/infrastructure/cli/helpers"
	"github.com/doeshing/kaalsec/internal/infrastructure/security"
)

// NewAskCommand creates the ask command
func NewAskCommand(container *app.Container) *cobra.Command {
	var noBanner bool

	cmd := &cobra.Command{
		Use:   "ask <question...>",
		Short: "Ask the security assistant a question",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return answerQuestion(cmd, container, strings.Join(args, " "), noBanner)
		},
	}

	cmd.Flags().BoolVar(&noBanner, "no-banner", false, "Hide the legal notice")
	return cmd
}

// BindQuestionFallback lets the root command answer a free-text question,
// e.g. `kaalsec how do I enumerate smb shares`. Subcommands still match first.
func BindQuestionFallback(root *cobra.Command, container *app.Container) {
	var noBanner bool

	root.Args = cobra.ArbitraryArgs
	root.RunE = func(cmd *cobra.Command, args []string) error {
		question := strings.TrimSpace(strings.Join(args, " "))
		if question == "" {
			return cmd.Help()
		}
		return answerQuestion(cmd, container, question, noBanner)
	}
	root.Flags().BoolVar(&noBanner, "no-banner", false, "Hide the legal notice")
}

func answerQuestion(cmd *cobra.Command, container *app.Container, question string, noBanner bool) error {
	if container.Config.ShowLegalBanner() && !noBanner {
		helpers.Banner(cmd.ErrOrStderr(), security.LegalBanner)
	}

	spinner := newSpinner(cmd, "Thinking...")
	spinner.Start()
	answer, err := container.AssistService.Ask(cmd.Context(), question)
	spinner.Stop()
	if err != nil {
		return err
	}
	helpers.Markdown(cmd.OutOrStdout(), answer)
	return nil
}

// NewExplainCommand creates the explain command
func NewExplainCommand(container *app.Container) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "explain [command...]",
		Short: "Explain a command or a file of tool output",
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := explainInput(args, file)
			if err != nil {
				return err
			}

			spinner := newSpinner(cmd, "Analysing...")
			spinner.Start()
			answer, err := container.AssistService.Explain(cmd.Context(), content)
			spinner.Stop()
			if err != nil {
				return err
			}
			helpers.Markdown(cmd.OutOrStdout(), answer)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Read the command or output to explain from a file")
	return cmd
}

func explainInput(args []string, file string) (string, error) {
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", file, err)
		}
		return string(data), nil
	}
	if len(args) == 0 {
		return "", errors.New("provide a command to explain or use --file")
	}
	return strings.Join(args, " "), nil
}
