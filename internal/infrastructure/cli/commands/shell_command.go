package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/doeshing/kaalsec/internal/app"
	"github.com/doeshing/kaalsec/internal/domain"
	"github.com/doeshing/kaalsec/internal/infrastructure/cli/helpers"
)

// NewIntegrateCommand creates the integrate command
func NewIntegrateCommand(container *app.Container) *cobra.Command {
	var (
		shell     string
		force     bool
		uninstall bool
		status    bool
	)

	cmd := &cobra.Command{
		Use:   "integrate",
		Short: "Install the shell hook that shares your last command with kaalsec",
		Long: "Install a bash or zsh hook that exports " + domain.LastCommandEnv + " after every prompt, " +
			"so suggestions can take the command you just ran into account.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if container.ShellIntegrator == nil {
				return errors.New(ErrShellInstallerUnavailable)
			}

			shells, err := helpers.DetermineTargetShells(shell, container.ShellIntegrator)
			if err != nil {
				return fmt.Errorf("failed to determine target shells: %w", err)
			}

			for _, sh := range shells {
				switch {
				case status:
					showShellStatus(cmd, container, sh)
				case uninstall:
					if err := uninstallForSingleShell(cmd, container, sh); err != nil {
						return err
					}
				default:
					if err := installForSingleShell(cmd, container, sh, force); err != nil {
						return err
					}
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&shell, "shell", "", "Shell to target (bash|zsh|all, auto-detected by default)")
	cmd.Flags().BoolVar(&force, "force", false, "Rewrite the hook script even if it is current")
	cmd.Flags().BoolVar(&uninstall, "uninstall", false, "Remove the hook from the rc file")
	cmd.Flags().BoolVar(&status, "status", false, "Show whether the hook is installed")
	return cmd
}

// installForSingleShell installs integration for a single shell
func installForSingleShell(cmd *cobra.Command, container *app.Container, shell domain.ShellName, force bool) error {
	result, err := container.ShellIntegrator.Install(string(shell), force)
	if err != nil {
		return fmt.Errorf("failed to install for %s: %w", shell, err)
	}

	helpers.Success(cmd.OutOrStdout(), fmt.Sprintf("Installed for %s", result.Shell))
	fmt.Fprintf(cmd.OutOrStdout(), "Script: %s\nRC File: %s\n", result.ScriptPath, result.RCFile)
	if result.RCUpdated {
		fmt.Fprintf(cmd.OutOrStdout(), "Reload with: source %s (or open a new shell)\n", result.RCFile)
	}
	return nil
}

// uninstallForSingleShell removes integration for a single shell
func uninstallForSingleShell(cmd *cobra.Command, container *app.Container, shell domain.ShellName) error {
	result, err := container.ShellIntegrator.Uninstall(string(shell))
	if err != nil {
		return fmt.Errorf("failed to uninstall for %s: %w", shell, err)
	}

	if result.RCUpdated {
		helpers.Success(cmd.OutOrStdout(), fmt.Sprintf("Removed hook for %s from %s", result.Shell, result.RCFile))
	} else {
		helpers.Muted(cmd.OutOrStdout(), fmt.Sprintf("No hook for %s in %s", result.Shell, result.RCFile))
	}
	return nil
}

// showShellStatus prints the integration state for a shell
func showShellStatus(cmd *cobra.Command, container *app.Container, shell domain.ShellName) {
	status := container.ShellIntegrator.Status(string(shell))

	if status.Error != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "[%s] %s\n", shell, status.Error)
		return
	}

	state := "not installed"
	if status.ScriptExists && status.LinePresent {
		state = "installed"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s (script: %s, rc: %s)\n", status.Shell, state, status.ScriptPath, status.RCFile)
}
