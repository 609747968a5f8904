package commands

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/doeshing/kaalsec/internal/app"
	"github.com/doeshing/kaalsec/internal/application/execute"
	"github.com/doeshing/kaalsec/internal/domain"
	"github.com/doeshing/kaalsec/internal/infrastructure/cli/helpers"
)

// NewRunCommand creates the run command
func NewRunCommand(container *app.Container) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "run <id>",
		Short: "Execute a stored suggestion after confirmation",
		Long: "Execute a stored suggestion by ID. Flagged commands always require an explicit " +
			"confirmation; --yes only skips the final execution prompt. Every attempt is logged.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(strings.TrimSpace(args[0]))
			if err != nil || id < 1 {
				return fmt.Errorf("invalid suggestion ID %q", args[0])
			}
			return runSuggestion(cmd, container, id, yes)
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the execution confirmation (warnings are still confirmed)")
	return cmd
}

func runSuggestion(cmd *cobra.Command, container *app.Container, id int, yes bool) error {
	out := cmd.OutOrStdout()

	outcome, err := container.ExecuteService.Execute(cmd.Context(), execute.Request{ID: id, AutoConfirm: yes})
	if outcome.Cancelled {
		helpers.Muted(out, MsgCancelled)
		return nil
	}

	// Every attempt that reached the runner has an audit outcome.
	if outcome.LogPath == "" && outcome.LogErr == nil {
		return err
	}

	renderExecution(out, outcome)
	helpers.PrintWarnings(cmd.ErrOrStderr(), outcomeWarnings(outcome))

	var timeout *domain.TimeoutError
	if errors.As(err, &timeout) {
		return fmt.Errorf("command timed out after %s; check the command or raise execution.timeout_seconds", timeout.Limit)
	}
	return err
}

// outcomeWarnings lists the degradations of an attempt that still ran.
func outcomeWarnings(outcome execute.Outcome) []string {
	var warnings []string
	if outcome.LogErr != nil {
		warnings = append(warnings, "audit log not written: "+outcome.LogErr.Error())
	}
	if outcome.MarkErr != nil {
		warnings = append(warnings, outcome.MarkErr.Error())
	}
	return warnings
}

func renderExecution(out io.Writer, outcome execute.Outcome) {
	result := outcome.Result
	if result.Stdout != "" {
		fmt.Fprint(out, preview(result.Stdout))
		ensureNewline(out, result.Stdout)
	}
	if result.Stderr != "" {
		helpers.Title(out, "stderr:")
		fmt.Fprint(out, preview(result.Stderr))
		ensureNewline(out, result.Stderr)
	}

	size := humanize.Bytes(uint64(len(result.Stdout) + len(result.Stderr)))
	summary := fmt.Sprintf("exit %d in %s, %s of output", result.ExitCode, result.Duration.Round(time.Millisecond), size)
	if result.ExitCode == 0 && !result.TimedOut {
		helpers.Success(out, summary)
	} else {
		helpers.Failure(out, summary)
	}
	if outcome.LogPath != "" {
		helpers.Muted(out, "Logged to "+outcome.LogPath)
	}
}

func preview(s string) string {
	if len(s) <= MaxOutputPreview {
		return s
	}
	return s[:MaxOutputPreview] + "\n... (output truncated, full text in the audit log)\n"
}

func ensureNewline(out io.Writer, s string) {
	if !strings.HasSuffix(s, "\n") {
		fmt.Fprintln(out)
	}
}
