package filesystem

import (
	"os"
	"path/filepath"
	"strings"
)

// UserHomeDir returns the current user's home directory.
// If the home directory cannot be determined, it returns "." as a fallback.
func UserHomeDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return "."
}

// ExpandPath resolves "~/" prefixes; relative paths are joined onto base
// when base is non-empty.
func ExpandPath(path string, base string) string {
	switch {
	case path == "":
		return base
	case path == "~":
		return UserHomeDir()
	case strings.HasPrefix(path, "~/"):
		return filepath.Join(UserHomeDir(), path[2:])
	case filepath.IsAbs(path):
		return path
	case base != "":
		return filepath.Join(base, path)
	default:
		return filepath.Clean(path)
	}
}
