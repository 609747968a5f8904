package commands

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/doeshing/kaalsec/internal/app"
	"github.com/doeshing/kaalsec/internal/domain"
	"github.com/doeshing/kaalsec/internal/infrastructure/cli/helpers"
)

// NewHistoryCommand creates the history command with all subcommands
func NewHistoryCommand(container *app.Container) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect stored suggestions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return listHistoryEntries(cmd.OutOrStdout(), container, domain.DefaultRecentLimit)
		},
	}

	historyCmd.AddCommand(
		newHistoryListCommand(container),
		newHistoryClearCommand(container),
	)

	return historyCmd
}

// newHistoryListCommand creates the 'history list' subcommand
func newHistoryListCommand(container *app.Container) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent suggestions",
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit < 1 {
				return errors.New(ErrInvalidLimit)
			}
			return listHistoryEntries(cmd.OutOrStdout(), container, limit)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", domain.DefaultRecentLimit, "Max entries to show")
	return cmd
}

// newHistoryClearCommand creates the 'history clear' subcommand
func newHistoryClearCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete every stored suggestion",
		RunE: func(cmd *cobra.Command, args []string) error {
			return clearHistory(cmd.OutOrStdout(), container)
		},
	}
}

// listHistoryEntries lists recent suggestions, oldest first
func listHistoryEntries(out io.Writer, container *app.Container, limit int) error {
	store := container.Store
	if store == nil {
		return errors.New(ErrStoreUnavailable)
	}

	records := store.Recent(limit)
	if len(records) == 0 {
		fmt.Fprintln(out, MsgNoHistoryRecorded)
		return nil
	}

	for _, rec := range records {
		fmt.Fprintln(out, formatHistoryEntry(rec))
	}

	return nil
}

func formatHistoryEntry(rec domain.Suggestion) string {
	status := " "
	if rec.Executed {
		status = "✓"
	}
	tool := rec.Tool
	if tool == "" {
		tool = "-"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "[%d] %s %-12s %s  (%s)", rec.ID, status, tool, rec.Command, humanize.Time(rec.CreatedAt.Time))
	if rec.Flagged() {
		b.WriteString("  " + domain.WarningMarker)
	}
	return b.String()
}

// clearHistory empties the suggestion store
func clearHistory(out io.Writer, container *app.Container) error {
	if container.Store == nil {
		return errors.New(ErrStoreUnavailable)
	}

	if err := container.Store.Clear(); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}

	helpers.Success(out, MsgHistoryCleared)
	return nil
}
