package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/doeshing/kaalsec/internal/application/assist"
	"github.com/doeshing/kaalsec/internal/application/doctor"
	"github.com/doeshing/kaalsec/internal/application/execute"
	"github.com/doeshing/kaalsec/internal/application/report"
	"github.com/doeshing/kaalsec/internal/application/suggest"
	"github.com/doeshing/kaalsec/internal/domain"
	"github.com/doeshing/kaalsec/internal/infrastructure/ai"
	"github.com/doeshing/kaalsec/internal/infrastructure/auditlog"
	"github.com/doeshing/kaalsec/internal/infrastructure/config"
	contextcollector "github.com/doeshing/kaalsec/internal/infrastructure/context"
	"github.com/doeshing/kaalsec/internal/infrastructure/executor"
	"github.com/doeshing/kaalsec/internal/infrastructure/plugins"
	"github.com/doeshing/kaalsec/internal/infrastructure/security"
	"github.com/doeshing/kaalsec/internal/infrastructure/shell"
	"github.com/doeshing/kaalsec/internal/infrastructure/shellhistory"
	"github.com/doeshing/kaalsec/internal/infrastructure/store"
	"github.com/doeshing/kaalsec/internal/infrastructure/tools"
	"github.com/doeshing/kaalsec/internal/pkg/filesystem"
	"github.com/doeshing/kaalsec/internal/pkg/logger"
	"github.com/doeshing/kaalsec/internal/ports"
)

// Options are the process-level switches that influence wiring.
type Options struct {
	Verbose    bool
	ConfigPath string
}

// Container wires up application services with infrastructure adapters.
// It lives for a single CLI invocation.
type Container struct {
	Config          domain.Config
	ConfigLoader    *config.FileLoader
	Logger          ports.Logger
	Policy          *security.Filter
	Store           ports.SuggestionRepository
	Tools           *tools.Discoverer
	Plugins         *plugins.Registry
	ShellIntegrator ports.ShellIntegrator

	SuggestService  *suggest.Service
	ExecuteService  *execute.Service
	AssistService   *assist.Service
	ReportGenerator *report.Generator
	DoctorService   *doctor.Service

	// StartupWarnings are degradations the user should see once.
	StartupWarnings []string

	closers []func() error
}

// BuildContainer loads configuration and constructs the dependency graph.
// A bad backend provider is not fatal here; it surfaces when a command
// actually needs the backend.
func BuildContainer(ctx context.Context, opts Options) (*Container, error) {
	cfgLoader := config.NewFileLoader(opts.ConfigPath)
	cfg, err := cfgLoader.Load(ctx)
	if err != nil {
		return nil, err
	}

	log := logger.New(opts.Verbose, cfg.Core.LogLevel)

	policy, err := security.NewFilter(cfg.Policy.RedTeamMode, cfg.Policy.AnonymiseIPs, cfg.Policy.RulesFile)
	if err != nil {
		return nil, err
	}

	c := &Container{
		Config:       cfg,
		ConfigLoader: cfgLoader,
		Logger:       log,
		Policy:       policy,
	}

	c.Store = c.openStore(cfg, log)

	discoverer := tools.NewDiscoverer()
	history := shellhistory.NewReader(filesystem.UserHomeDir(), os.Getenv("SHELL"))
	c.Tools = discoverer
	c.Plugins = plugins.Load(cfg.Paths.PluginsDir, log)
	c.ShellIntegrator = shell.NewInstaller(filesystem.UserHomeDir(), cfg.Paths.BaseDir, log)

	collector := contextcollector.NewBasicCollector(discoverer, history, cfg.GetHistoryLines())
	factory := ai.NewFactory()

	backendCfg, backendErr := cfg.BackendConfig()
	if backendErr != nil {
		log.Debug("backend configuration deferred", map[string]interface{}{"error": backendErr.Error()})
	}
	resolver := &deferredFactory{factory: factory, err: backendErr}

	c.SuggestService = &suggest.Service{
		ContextCollector: collector,
		BackendFactory:   resolver,
		BackendConfig:    backendCfg,
		Policy:           policy,
		Store:            c.Store,
		KnowledgeBase:    c.Plugins,
		Logger:           log,
	}
	c.ExecuteService = &execute.Service{
		Store:   c.Store,
		Policy:  policy,
		Runner:  executor.NewRunner(cfg.GetExecutionShell()),
		Audit:   auditlog.NewDir(cfg.Paths.LogsDir, log),
		Logger:  log,
		Timeout: cfg.GetExecutionTimeout(),
	}
	c.AssistService = &assist.Service{
		BackendFactory: resolver,
		BackendConfig:  backendCfg,
		Policy:         policy,
		Logger:         log,
	}
	c.ReportGenerator = &report.Generator{
		Audit:  c.ExecuteService.Audit,
		Policy: policy,
		Logger: log,
	}

	c.DoctorService = &doctor.Service{
		ConfigProvider:  cfgLoader,
		ShellIntegrator: c.ShellIntegrator,
		Policy:          policy,
		Tools:           discoverer,
		Store:           c.Store,
	}

	return c, nil
}

// Close releases resources held by adapters.
func (c *Container) Close() error {
	var errs []error
	for _, closeFn := range c.closers {
		errs = append(errs, closeFn())
	}
	return errors.Join(errs...)
}

// openStore opens the configured ledger. A SQLite ledger that cannot be
// opened degrades to the JSON ledger next to it.
func (c *Container) openStore(cfg domain.Config, log ports.Logger) ports.SuggestionRepository {
	jsonPath := cfg.Paths.StoreFile
	if cfg.UsesSQLiteStore() {
		sqliteStore, err := store.OpenSQLiteStore(cfg.Paths.StoreFile, log)
		if err == nil {
			c.closers = append(c.closers, sqliteStore.Close)
			return sqliteStore
		}
		log.Warn("sqlite store unavailable, using json", map[string]interface{}{"error": err.Error()})
		c.StartupWarnings = append(c.StartupWarnings, err.Error())
		jsonPath = strings.TrimSuffix(cfg.Paths.StoreFile, filepath.Ext(cfg.Paths.StoreFile)) + ".json"
	}

	jsonStore, err := store.OpenJSONStore(jsonPath)
	if err != nil {
		log.Warn("suggestion ledger unreadable, starting empty", map[string]interface{}{"error": err.Error()})
		c.StartupWarnings = append(c.StartupWarnings, err.Error())
	}
	return jsonStore
}

// deferredFactory reports a configuration error only when a backend is
// requested, so commands that never call the backend keep working.
type deferredFactory struct {
	factory ports.BackendFactory
	err     error
}

func (d *deferredFactory) ForConfig(cfg domain.BackendConfig) (ports.Backend, error) {
	if d.err != nil {
		return nil, d.err
	}
	return d.factory.ForConfig(cfg)
}
