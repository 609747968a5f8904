package domain

// ContextSnapshot holds the local environment data injected into a
// suggestion prompt.
type ContextSnapshot struct {
	Shell          string
	InstalledTools []string
	// RecentHistory is ordered oldest first, newest last.
	RecentHistory []string
}

// ToolPlugin is a knowledge-base entry for a single tool, loaded from YAML.
type ToolPlugin struct {
	Tool        string           `yaml:"tool"`
	Description string           `yaml:"description"`
	Categories  []PluginCategory `yaml:"categories"`
}

// PluginCategory groups examples of one kind of usage.
type PluginCategory struct {
	Name     string          `yaml:"name"`
	Examples []PluginExample `yaml:"examples"`
}

// PluginExample is one command/description pair.
type PluginExample struct {
	Cmd  string `yaml:"cmd"`
	Desc string `yaml:"desc"`
}

// AllExamples flattens the examples of every category, in file order.
func (p ToolPlugin) AllExamples() []PluginExample {
	var examples []PluginExample
	for _, category := range p.Categories {
		examples = append(examples, category.Examples...)
	}
	return examples
}

// ExamplesFor returns the examples of the named category.
func (p ToolPlugin) ExamplesFor(category string) []PluginExample {
	for _, c := range p.Categories {
		if c.Name == category {
			return c.Examples
		}
	}
	return nil
}

// ToolInfo describes one catalogue tool and whether it is installed.
type ToolInfo struct {
	Name       string
	Installed  bool
	Path       string
	Categories []string
}
