package controllers

import (
	"context"
	"fmt"

	"shellhost/internal/config"
	"shellhost/internal/eventbus"
	"shellhost/internal/i18n"
	"shellhost/internal/ipc"
	"shellhost/internal/logger"
	"shellhost/internal/menu"
	"shellhost/internal/windows"
)

// Shell performs desktop-environment side effects.
type Shell interface {
	OpenURL(rawURL string) error
	ShowAbout(title, message, detail string) error
}

// Publisher is the slice of the event bus controllers need.
type Publisher interface {
	Publish(event eventbus.Event)
}

// AppContext is the application as seen by a controller module. Modules
// reach siblings only through it.
type AppContext interface {
	Windows() *windows.Manager
	Menus() *menu.Manager
	I18n() *i18n.Provider
	Shell() Shell
	Events() Publisher
	Config() config.Config
	Logger() logger.Logger
	Registry() *ipc.Registry
}

// Constructor builds one module against the application context.
type Constructor func(app AppContext) ipc.Module

// All is the module table. Order does not affect routing.
var All = []Constructor{
	NewBrowserWindows,
	NewMenu,
	NewSystem,
	NewShell,
	NewChat,
	NewDevtools,
}

// Register builds every module of table and binds it into reg. The first
// duplicate channel aborts registration.
func Register(app AppContext, reg *ipc.Registry, table []Constructor) ([]ipc.Module, error) {
	modules := make([]ipc.Module, 0, len(table))
	for _, build := range table {
		m := build(app)
		if err := reg.RegisterModule(m); err != nil {
			return nil, err
		}
		modules = append(modules, m)
	}
	return modules, nil
}

// Base is embedded by every module.
type Base struct {
	app  AppContext
	name string
}

func newBase(app AppContext, name string) Base {
	return Base{app: app, name: name}
}

func (b Base) Name() string { return b.name }

func (b Base) App() AppContext { return b.app }

func (b Base) Subscriptions() []ipc.Subscription { return nil }

func (b Base) log() logger.Logger {
	if l := b.app.Logger(); l != nil {
		return l
	}
	return logger.NoOp{}
}

func (b Base) bind(channel string, h ipc.Handler) ipc.Binding {
	return ipc.Binding{Channel: channel, Handler: h}
}

// noArgs adapts a handler that takes no payload.
func noArgs(fn func(ctx context.Context) (interface{}, error)) ipc.Handler {
	return func(ctx context.Context, _ ipc.Args) (interface{}, error) {
		return fn(ctx)
	}
}

// required fails when a decoded string argument is empty.
func required(name, value string) error {
	if value == "" {
		return fmt.Errorf("missing argument %q", name)
	}
	return nil
}
