//go:build windows

package executor

import "os/exec"

// startInOwnGroup is a no-op; there are no process groups to join.
func startInOwnGroup(*exec.Cmd) {}

// killGroup only reaches the shell itself.
func killGroup(cmd *exec.Cmd) error {
	if cmd.Process == nil {
		return nil
	}
	return cmd.Process.Kill()
}
