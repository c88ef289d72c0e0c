package app

import (
	"context"
	"fmt"

	"shellhost/internal/config"
	"shellhost/internal/controllers"
	"shellhost/internal/eventbus"
	"shellhost/internal/i18n"
	"shellhost/internal/ipc"
	"shellhost/internal/logger"
	"shellhost/internal/menu"
	"shellhost/internal/shutdown"
	"shellhost/internal/transport"
	"shellhost/internal/windows"
)

const eventBufferSize = 256

// Options supplies the native collaborators. Tests pass fakes; the desktop
// entry point passes fyne adapters.
type Options struct {
	Logger        logger.Logger
	WindowFactory windows.Factory
	MenuInstaller menu.Installer
	Shell         controllers.Shell
	Loader        i18n.Loader
	// Serve starts the renderer transport on Config.Addr during Init.
	Serve bool
	// Modules overrides controllers.All.
	Modules []controllers.Constructor
}

// Application owns every host subsystem. It implements
// controllers.AppContext.
type Application struct {
	cfg    config.Config
	logger logger.Logger

	bus        *eventbus.Bus
	i18n       *i18n.Provider
	registry   *ipc.Registry
	dispatcher *ipc.Dispatcher
	windows    *windows.Manager
	menus      *menu.Manager
	transport  *transport.Server
	shell      controllers.Shell

	serve     bool
	modules   []controllers.Constructor
	lifecycle *Lifecycle
}

// New wires the subsystems without side effects; Init brings them up.
func New(cfg config.Config, opts Options) (*Application, error) {
	log := opts.Logger
	if log == nil {
		log = logger.NoOp{}
	}
	if opts.WindowFactory == nil {
		return nil, fmt.Errorf("app: a window factory is required")
	}

	variant, err := menu.ParseVariant(cfg.Platform)
	if err != nil {
		return nil, err
	}

	loader := opts.Loader
	if loader == nil {
		loader = i18n.DefaultLoader(cfg.LocalesDir)
	}
	provider, err := i18n.NewProvider(loader, i18n.Options{
		DefaultNamespace: i18n.NamespaceMenu,
		FallbackLanguage: cfg.FallbackLanguage,
		Logger:           log,
	})
	if err != nil {
		return nil, err
	}

	bus := eventbus.NewBus(eventBufferSize, log)
	registry := ipc.NewRegistry(log)
	dispatcher := ipc.NewDispatcher(registry, log)

	wm := windows.NewManager(windows.DefaultSpecs, opts.WindowFactory, log)
	wm.SetPublisher(bus)

	platform := menu.NewPlatform(variant, menu.Env{
		AppName:    cfg.AppName,
		AppVersion: cfg.Version,
		WebsiteURL: cfg.WebsiteURL,
		RepoURL:    cfg.RepoURL,
		Translator: provider,
		Installer:  opts.MenuInstaller,
		Logger:     log,
	})
	mm := menu.NewManager(platform, opts.MenuInstaller, log)
	mm.SetDispatcher(dispatcher)
	mm.SetPublisher(bus)

	ts := transport.NewServer(dispatcher, log)
	wm.SetNotifier(ts)

	modules := opts.Modules
	if modules == nil {
		modules = controllers.All
	}

	a := &Application{
		cfg:        cfg,
		logger:     log,
		bus:        bus,
		i18n:       provider,
		registry:   registry,
		dispatcher: dispatcher,
		windows:    wm,
		menus:      mm,
		transport:  ts,
		shell:      opts.Shell,
		serve:      opts.Serve,
		modules:    modules,
	}
	a.lifecycle = NewLifecycle(a, shutdown.NewManager(log))

	log.Info("Application", "application assembled", map[string]interface{}{
		"version":  cfg.Version,
		"platform": variant.String(),
		"dev":      cfg.Dev,
	})
	return a, nil
}

func (a *Application) Windows() *windows.Manager   { return a.windows }
func (a *Application) Menus() *menu.Manager         { return a.menus }
func (a *Application) I18n() *i18n.Provider         { return a.i18n }
func (a *Application) Shell() controllers.Shell     { return a.shell }
func (a *Application) Events() controllers.Publisher { return a.bus }
func (a *Application) Config() config.Config        { return a.cfg }
func (a *Application) Logger() logger.Logger        { return a.logger }
func (a *Application) Registry() *ipc.Registry      { return a.registry }

func (a *Application) Dispatcher() *ipc.Dispatcher { return a.dispatcher }

func (a *Application) Bus() *eventbus.Bus { return a.bus }

func (a *Application) Transport() *transport.Server { return a.transport }

func (a *Application) Lifecycle() *Lifecycle { return a.lifecycle }

// ApplyConfig reacts to a reloaded configuration. Only the language and
// developer mode take effect without a restart.
func (a *Application) ApplyConfig(ctx context.Context, old, updated config.Config) {
	if updated.Language != "" && updated.Language != old.Language {
		if err := a.i18n.ChangeLanguage(ctx, updated.Language); err != nil {
			a.logger.Error("Application", err, map[string]interface{}{"language": updated.Language})
		}
	}
	if updated.Dev != old.Dev {
		a.menus.SetShowDevItems(updated.Dev)
	}
}
