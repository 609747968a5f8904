package ai

import "strings"

func valueOrDefault(value string, def string) string {
	if value == "" {
		return def
	}
	return value
}

func joinURL(base, path string) string {
	return strings.TrimRight(base, "/") + path
}
