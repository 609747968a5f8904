package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/doeshing/kaalsec/internal/app"
	"github.com/doeshing/kaalsec/internal/domain"
	"github.com/doeshing/kaalsec/internal/infrastructure/cli/helpers"
	"github.com/doeshing/kaalsec/internal/infrastructure/tools"
)

// NewToolsCommand creates the tools command
func NewToolsCommand(container *app.Container) *cobra.Command {
	var (
		category      string
		installedOnly bool
	)

	cmd := &cobra.Command{
		Use:   "tools",
		Short: "List catalogued Kali tools and whether they are installed",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			categories := tools.Categories()
			if category != "" {
				categories = []string{strings.ToLower(category)}
			}
			withExamples := map[string]bool{}
			if container.Plugins != nil {
				for _, tool := range container.Plugins.Tools() {
					withExamples[tool] = true
				}
			}
			for _, name := range categories {
				infos, ok := container.Tools.ByCategory(name)
				if !ok {
					return fmt.Errorf("unknown category %q (available: %s)", category, strings.Join(tools.Categories(), ", "))
				}
				listToolCategory(out, name, infos, withExamples, installedOnly)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "", "Only show one category")
	cmd.Flags().BoolVarP(&installedOnly, "installed", "i", false, "Only show installed tools")
	return cmd
}

// listToolCategory prints one category. Tools with knowledge-base examples
// (usable with suggest --tool) are marked [kb].
func listToolCategory(out io.Writer, category string, infos []domain.ToolInfo, withExamples map[string]bool, installedOnly bool) {
	var lines []string
	for _, info := range infos {
		kb := ""
		if withExamples[info.Name] {
			kb = " [kb]"
		}
		switch {
		case info.Installed:
			lines = append(lines, fmt.Sprintf("  ✓ %-16s %s%s", info.Name, info.Path, kb))
		case !installedOnly:
			lines = append(lines, fmt.Sprintf("  ✗ %s%s", info.Name, kb))
		}
	}
	if len(lines) == 0 {
		return
	}
	helpers.Title(out, strings.ToUpper(category))
	for _, line := range lines {
		fmt.Fprintln(out, line)
	}
	fmt.Fprintln(out)
}
