package contextcollector

import (
	"context"
	"os"
	"path/filepath"

	"github.com/doeshing/kaalsec/internal/domain"
	"github.com/doeshing/kaalsec/internal/ports"
)

// BasicCollector implements ContextCollector from tool discovery and shell history.
type BasicCollector struct {
	tools        ports.ToolDiscoverer
	history      ports.HistoryProvider
	historyLines int
}

// NewBasicCollector wires the two context sources. Either may be nil.
func NewBasicCollector(tools ports.ToolDiscoverer, history ports.HistoryProvider, historyLines int) *BasicCollector {
	return &BasicCollector{
		tools:        tools,
		history:      history,
		historyLines: historyLines,
	}
}

// Collect gathers context data.
func (c *BasicCollector) Collect(ctx context.Context) domain.ContextSnapshot {
	snapshot := domain.ContextSnapshot{Shell: detectShell()}
	if c.tools != nil {
		snapshot.InstalledTools = c.tools.Installed(ctx)
	}
	if c.history != nil {
		snapshot.RecentHistory = c.history.Recent(c.historyLines)
	}
	return snapshot
}

func detectShell() string {
	if shell := os.Getenv("SHELL"); shell != "" {
		return filepath.Base(shell)
	}
	return string(domain.ShellUnknown)
}

var _ ports.ContextCollector = (*BasicCollector)(nil)
