package plugins

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/doeshing/kaalsec/assets"
	"github.com/doeshing/kaalsec/internal/domain"
	"github.com/doeshing/kaalsec/internal/ports"
)

// Registry is the knowledge base of tool plugins. Files in the user's
// plugins directory replace built-in plugins for the same tool.
type Registry struct {
	plugins map[string]domain.ToolPlugin
}

// Load reads the embedded plugins, then every *.yml / *.yaml file in dir.
// Unparseable files are skipped with a warning.
func Load(dir string, logger ports.Logger) *Registry {
	r := &Registry{plugins: map[string]domain.ToolPlugin{}}
	r.loadFS(assets.DefaultPlugins, "plugins", logger)
	if dir != "" {
		r.loadFS(os.DirFS(dir), ".", logger)
	}
	return r
}

func (r *Registry) loadFS(fsys fs.FS, root string, logger ports.Logger) {
	entries, err := fs.ReadDir(fsys, root)
	if err != nil {
		return
	}
	for _, entry := range entries {
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if entry.IsDir() || (ext != ".yml" && ext != ".yaml") {
			continue
		}
		name := entry.Name()
		if root != "." {
			name = root + "/" + name
		}
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			logger.Warn("could not read plugin", map[string]interface{}{"file": entry.Name(), "error": err.Error()})
			continue
		}
		var plugin domain.ToolPlugin
		if err := yaml.Unmarshal(data, &plugin); err != nil {
			logger.Warn("could not load plugin", map[string]interface{}{"file": entry.Name(), "error": err.Error()})
			continue
		}
		if plugin.Tool == "" {
			continue
		}
		r.plugins[plugin.Tool] = plugin
	}
}

// Plugin implements ports.KnowledgeBase.
func (r *Registry) Plugin(tool string) (domain.ToolPlugin, bool) {
	plugin, ok := r.plugins[tool]
	return plugin, ok
}

// Tools lists the tools with a plugin, sorted.
func (r *Registry) Tools() []string {
	names := make([]string, 0, len(r.plugins))
	for name := range r.plugins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var _ ports.KnowledgeBase = (*Registry)(nil)
