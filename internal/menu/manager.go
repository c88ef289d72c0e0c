package menu

import (
	"context"
	"fmt"
	"sync"

	"shellhost/internal/eventbus"
	"shellhost/internal/ipc"
	"shellhost/internal/logger"
)

// Dispatcher is where menu clicks end up.
type Dispatcher interface {
	Dispatch(ctx context.Context, channel string, args ipc.Args) (interface{}, error)
}

// Publisher is the slice of the event bus the manager needs.
type Publisher interface {
	Publish(event eventbus.Event)
}

// Manager is the platform-agnostic face of the menu subsystem.
type Manager struct {
	platform  Platform
	installer Installer
	logger    logger.Logger

	mu          sync.Mutex
	opts        Options
	dispatcher  Dispatcher
	publisher   Publisher
	initialized bool
}

func NewManager(platform Platform, installer Installer, log logger.Logger) *Manager {
	if log == nil {
		log = logger.NoOp{}
	}
	return &Manager{platform: platform, installer: installer, logger: log}
}

func (m *Manager) SetDispatcher(d Dispatcher) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dispatcher = d
}

func (m *Manager) SetPublisher(p Publisher) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.publisher = p
}

func (m *Manager) Platform() Platform {
	return m.platform
}

// Init installs the application menu and builds the tray menu.
func (m *Manager) Init(opts Options) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.opts = opts
	m.platform.BuildAndSetAppMenu(opts)
	m.platform.BuildTrayMenu()
	m.initialized = true

	m.logger.Info("MenuManager", "menus initialized", map[string]interface{}{
		"platform":  m.platform.Variant().String(),
		"dev_items": opts.ShowDevItems,
	})
}

// RefreshMenus rebuilds every installed menu from the current language.
func (m *Manager) RefreshMenus() *Menu {
	m.mu.Lock()
	opts := m.opts
	built := m.platform.Refresh(opts)
	publisher := m.publisher
	m.mu.Unlock()

	m.logger.Debug("MenuManager", "menus refreshed", map[string]interface{}{"language": built.Language})
	if publisher != nil {
		publisher.Publish(eventbus.Event{
			Type: eventbus.MenuRefreshed,
			Data: map[string]interface{}{"language": built.Language},
		})
	}
	return built
}

// SetShowDevItems switches developer items and rebuilds when the mode
// actually changed.
func (m *Manager) SetShowDevItems(show bool) {
	m.mu.Lock()
	changed := m.opts.ShowDevItems != show
	m.opts.ShowDevItems = show
	m.mu.Unlock()

	if changed {
		m.RefreshMenus()
	}
}

func (m *Manager) Options() Options {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.opts
}

func (m *Manager) BuildContextMenu(kind string, payload Payload) *Menu {
	return m.platform.BuildContextMenu(ParseContextKind(kind), payload)
}

// PopupContextMenu builds a context menu and shows it at (x, y).
func (m *Manager) PopupContextMenu(kind string, payload Payload, x, y float32) (*Menu, error) {
	built := m.BuildContextMenu(kind, payload)
	if m.installer == nil {
		return built, nil
	}
	if err := m.installer.Popup(built, x, y); err != nil {
		return nil, fmt.Errorf("menu: popup %s: %w", built.Kind, err)
	}
	return built, nil
}

// Activate runs the action bound to a clicked item.
func (m *Manager) Activate(ctx context.Context, item Item) (interface{}, error) {
	if item.Action == nil {
		return nil, fmt.Errorf("menu: item %q has no action", item.Key)
	}

	m.mu.Lock()
	d := m.dispatcher
	m.mu.Unlock()
	if d == nil {
		return nil, fmt.Errorf("menu: no dispatcher for %q", item.Action.Channel)
	}

	m.logger.Debug("MenuManager", "menu item activated", map[string]interface{}{
		"key":     item.Key,
		"channel": item.Action.Channel,
	})
	var args ipc.Args
	if item.Action.Args != nil {
		args = ipc.ValueArgs(item.Action.Args)
	}
	return d.Dispatch(ctx, item.Action.Channel, args)
}
