package app

import (
	"context"
	"fmt"
	"sync"

	"shellhost/internal/channels"
	"shellhost/internal/controllers"
	"shellhost/internal/eventbus"
	"shellhost/internal/i18n"
	"shellhost/internal/menu"
	"shellhost/internal/shutdown"
)

// Lifecycle brings the application up in dependency order and tears it
// down in reverse.
type Lifecycle struct {
	app      *Application
	shutdown *shutdown.Manager

	mu          sync.Mutex
	initialized bool
	isShutdown  bool
}

func NewLifecycle(a *Application, sm *shutdown.Manager) *Lifecycle {
	return &Lifecycle{app: a, shutdown: sm}
}

// Init starts translations, the registry, windows, menus and, when asked
// to, the renderer transport. It runs once.
func (l *Lifecycle) Init(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.isShutdown {
		return fmt.Errorf("app: already shut down")
	}
	if l.initialized {
		return nil
	}

	a := l.app
	log := a.logger
	log.Info("Lifecycle", "startup sequence initiated", nil)

	l.shutdown.Register("eventbus", a.bus)

	lang := a.cfg.Language
	if lang == "" {
		lang = i18n.SystemLocale()
	}
	if err := a.i18n.Init(ctx, lang); err != nil {
		return fmt.Errorf("app: i18n: %w", err)
	}
	a.i18n.OnLanguageChanged(a.onLanguageChanged)
	l.shutdown.Register("i18n", shutdown.Func(func() {
		log.Info("Lifecycle", "translation summary", map[string]interface{}{
			"language": a.i18n.Language(),
			"misses":   a.i18n.Misses(),
		})
	}))

	modules, err := controllers.Register(a, a.registry, a.modules)
	if err != nil {
		return fmt.Errorf("app: registry: %w", err)
	}
	for _, m := range modules {
		for _, sub := range m.Subscriptions() {
			a.bus.Subscribe(sub.Event, eventbus.HandlerFunc{ID: m.Name() + ":" + sub.Event, Fn: sub.Handler})
		}
	}
	a.registry.Seal()

	l.shutdown.Register("windows", a.windows)
	if err := a.windows.InitializeAll(ctx); err != nil {
		return fmt.Errorf("app: windows: %w", err)
	}

	a.menus.Init(menu.Options{ShowDevItems: a.cfg.Dev})

	if a.serve {
		if _, err := a.transport.Start(a.cfg.Addr); err != nil {
			return fmt.Errorf("app: transport: %w", err)
		}
		l.shutdown.Register("transport", a.transport)
	}

	l.initialized = true
	a.bus.Publish(eventbus.Event{Type: eventbus.AppReady, Context: ctx, Data: map[string]interface{}{
		"language": a.i18n.Language(),
		"channels": len(a.registry.Channels()),
	}})
	log.Info("Lifecycle", "startup sequence completed", map[string]interface{}{
		"language": a.i18n.Language(),
		"modules":  len(modules),
	})
	return nil
}

// Teardown releases everything Init acquired. Safe to call more than once.
func (l *Lifecycle) Teardown() {
	l.mu.Lock()
	if l.isShutdown {
		l.mu.Unlock()
		return
	}
	l.isShutdown = true
	l.mu.Unlock()

	l.shutdown.Shutdown()
}

// ListenForSignals tears down on SIGINT/SIGTERM.
func (l *Lifecycle) ListenForSignals() {
	l.shutdown.Listen()
}

// Done is closed once teardown has started.
func (l *Lifecycle) Done() <-chan struct{} {
	return l.shutdown.Done()
}

// onLanguageChanged runs after every namespace of lang is loaded: menus are
// rebuilt once, then renderers and host subscribers are told.
func (a *Application) onLanguageChanged(ctx context.Context, lang string) {
	a.menus.RefreshMenus()

	reached := a.windows.Broadcast(channels.EventLanguageChanged, map[string]interface{}{"language": lang})
	a.bus.Publish(eventbus.Event{
		Type:    eventbus.LanguageChanged,
		Context: ctx,
		Data:    map[string]interface{}{"language": lang, "renderers": reached},
	})
}
