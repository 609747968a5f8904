package commands

import (
	"github.com/spf13/cobra"

	"github.com/doeshing/kaalsec/internal/app"
	"github.com/doeshing/kaalsec/internal/infrastructure/cli/helpers"
)

// NewReportCommand creates the report command
func NewReportCommand(container *app.Container) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "report [today|YYYY-MM-DD]",
		Short: "Generate a markdown report from the execution logs",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := "today"
			if len(args) == 1 {
				filter = args[0]
			}
			gen := container.ReportGenerator
			helpers.Title(cmd.ErrOrStderr(), "Generating report for: "+gen.ResolveDate(filter))

			content, err := gen.Generate(filter, output)
			if err != nil {
				return err
			}
			if output != "" {
				helpers.Success(cmd.OutOrStdout(), "Report saved to: "+output)
				return nil
			}
			helpers.Markdown(cmd.OutOrStdout(), content)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the report to a file instead of the terminal")
	return cmd
}
