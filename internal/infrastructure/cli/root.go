package cli

import (
	"context"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/doeshing/kaalsec/internal/app"
	"github.com/doeshing/kaalsec/internal/infrastructure/cli/commands"
	"github.com/doeshing/kaalsec/internal/infrastructure/cli/helpers"
)

// EnvDebug enables verbose logging when set to 1 or true.
const EnvDebug = "KAALSEC_DEBUG"

// Options holds CLI-level configuration.
type Options struct {
	Verbose bool
}

// NewRootCmd wires the cobra root command. The container is built after flag
// parsing so --config and --debug take effect; subcommands share the pointer.
func NewRootCmd(ctx context.Context, opts Options) *cobra.Command {
	var (
		configPath string
		debug      bool
	)
	container := &app.Container{}

	root := &cobra.Command{
		Use:   "kaalsec [question...]",
		Short: "KaalSec - AI assistant for authorised Kali Linux work",
		Long: "KaalSec turns a task description into candidate commands, screens them against a " +
			"safety and legality policy, and runs the one you pick with confirmation and an audit log.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			built, err := app.BuildContainer(cmd.Context(), app.Options{
				Verbose:    opts.Verbose || debug,
				ConfigPath: configPath,
			})
			if err != nil {
				return err
			}
			*container = *built
			container.ExecuteService.Prompter = NewPrompter()
			helpers.PrintWarnings(cmd.ErrOrStderr(), container.StartupWarnings)
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return container.Close()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetContext(ctx)

	root.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.kaalsec/config.yaml, or $KAALSEC_CONFIG)")
	root.PersistentFlags().BoolVar(&debug, "debug", false, "Enable verbose logging")

	root.AddCommand(
		commands.NewSuggestCommand(container),
		commands.NewRunCommand(container),
		commands.NewAskCommand(container),
		commands.NewExplainCommand(container),
		commands.NewReportCommand(container),
		commands.NewToolsCommand(container),
		commands.NewHistoryCommand(container),
		commands.NewIntegrateCommand(container),
		commands.NewConfigCommand(container),
		commands.NewDoctorCommand(container),
		commands.NewVersionCommand(),
	)
	commands.BindQuestionFallback(root, container)
	return root
}

// IsVerbose reports whether KAALSEC_DEBUG asks for debug logging.
func IsVerbose() bool {
	value := os.Getenv(EnvDebug)
	return value == "1" || strings.EqualFold(value, "true")
}
