package assets

import (
	"embed"
)

// DefaultConfigYAML contains the embedded default configuration.
//
//go:embed defaults/config.yaml
var DefaultConfigYAML []byte

// DefaultPolicyYAML contains the starter policy rules file written next to
// the config on first run.
//
//go:embed defaults/policy.yaml
var DefaultPolicyYAML []byte

// DefaultPlugins holds the built-in knowledge-base plugins.
//
//go:embed plugins/*.yml
var DefaultPlugins embed.FS

// BashHook is sourced from ~/.bashrc by `kaalsec integrate`.
//
//go:embed shell/kaalsec.bash
var BashHook string

// ZshHook is sourced from ~/.zshrc by `kaalsec integrate`.
//
//go:embed shell/kaalsec.zsh
var ZshHook string
