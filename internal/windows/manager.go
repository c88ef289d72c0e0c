package windows

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"shellhost/internal/eventbus"
	"shellhost/internal/logger"
)

// Publisher is the slice of the event bus the manager needs.
type Publisher interface {
	Publish(event eventbus.Event)
}

// Manager maps identifiers to lazily created, memoized windows.
type Manager struct {
	specs   map[Identifier]Spec
	order   []Identifier
	factory Factory
	logger  logger.Logger

	mu        sync.RWMutex
	windows   map[Identifier]*Window
	notifier  Notifier
	publisher Publisher

	group singleflight.Group
}

func NewManager(specs []Spec, factory Factory, log logger.Logger) *Manager {
	if log == nil {
		log = logger.NoOp{}
	}

	table := make(map[Identifier]Spec, len(specs))
	order := make([]Identifier, 0, len(specs))
	for _, s := range specs {
		if _, dup := table[s.Identifier]; dup {
			continue
		}
		table[s.Identifier] = s
		order = append(order, s.Identifier)
	}

	return &Manager{
		specs:   table,
		order:   order,
		factory: factory,
		logger:  log,
		windows: make(map[Identifier]*Window),
	}
}

func (m *Manager) SetNotifier(n Notifier) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notifier = n
}

func (m *Manager) SetPublisher(p Publisher) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.publisher = p
}

// Spec returns the static specification for id.
func (m *Manager) Spec(id Identifier) (Spec, bool) {
	s, ok := m.specs[id]
	return s, ok
}

// Lookup returns the live window for id without creating it.
func (m *Manager) Lookup(id Identifier) (*Window, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	w, ok := m.windows[id]
	return w, ok
}

// Retrieve returns the window for id, creating and memoizing it on first use.
// Concurrent callers for the same id share one creation.
func (m *Manager) Retrieve(ctx context.Context, id Identifier) (*Window, error) {
	if w, ok := m.Lookup(id); ok {
		return w, nil
	}

	spec, ok := m.specs[id]
	if !ok {
		err := &WindowCreationError{Identifier: id}
		m.logger.Error("WindowManager", err, map[string]interface{}{"identifier": string(id)})
		return nil, err
	}

	v, err, _ := m.group.Do(string(id), func() (interface{}, error) {
		return m.create(ctx, spec)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Window), nil
}

func (m *Manager) create(ctx context.Context, spec Spec) (*Window, error) {
	if w, ok := m.Lookup(spec.Identifier); ok {
		return w, nil
	}

	w := &Window{
		spec:       spec,
		instanceID: uuid.NewString(),
		createdAt:  time.Now(),
	}

	surface, err := m.factory.Create(ctx, spec, Hooks{
		OnClosed: func() { m.forget(w) },
		OnHidden: w.markHidden,
	})
	if err != nil {
		werr := &WindowCreationError{Identifier: spec.Identifier, Cause: err}
		m.logger.Error("WindowManager", werr, map[string]interface{}{"identifier": string(spec.Identifier)})
		return nil, werr
	}
	w.surface = surface

	// The factory may have blocked; someone else could have won meanwhile.
	m.mu.Lock()
	if existing, ok := m.windows[spec.Identifier]; ok {
		m.mu.Unlock()
		surface.Close()
		return existing, nil
	}
	m.windows[spec.Identifier] = w
	publisher := m.publisher
	m.mu.Unlock()

	m.logger.Info("WindowManager", "window created", map[string]interface{}{
		"identifier":  string(spec.Identifier),
		"instance_id": w.instanceID,
		"load_target": spec.LoadTarget,
	})
	if publisher != nil {
		publisher.Publish(eventbus.Event{
			Type:    eventbus.WindowCreated,
			Context: ctx,
			Data: map[string]interface{}{
				"identifier":  string(spec.Identifier),
				"instance_id": w.instanceID,
			},
		})
	}
	return w, nil
}

// Show retrieves the window and brings it to front.
func (m *Manager) Show(ctx context.Context, id Identifier) (*Window, error) {
	w, err := m.Retrieve(ctx, id)
	if err != nil {
		return nil, err
	}
	w.Show()
	return w, nil
}

func (m *Manager) ShowMainWindow(ctx context.Context) error {
	_, err := m.Show(ctx, Chat)
	return err
}

func (m *Manager) ShowSettingsWindow(ctx context.Context) error {
	_, err := m.Show(ctx, Settings)
	return err
}

// InitializeAll instantiates every specification up front.
func (m *Manager) InitializeAll(ctx context.Context) error {
	for _, id := range m.order {
		m.logger.Debug("WindowManager", "initializing window", map[string]interface{}{"identifier": string(id)})
		w, err := m.Retrieve(ctx, id)
		if err != nil {
			return err
		}
		if w.spec.ShowOnInit {
			w.Show()
		}
	}
	return nil
}

// Close hides KeepAlive windows and destroys the others.
func (m *Manager) Close(id Identifier) error {
	if _, ok := m.specs[id]; !ok {
		return &WindowCreationError{Identifier: id}
	}

	w, ok := m.Lookup(id)
	if !ok {
		return nil
	}
	if w.spec.KeepAlive {
		w.Hide()
		return nil
	}

	m.mu.Lock()
	if m.windows[id] == w {
		delete(m.windows, id)
	}
	m.mu.Unlock()
	w.close()

	m.logger.Info("WindowManager", "window destroyed", map[string]interface{}{"identifier": string(id)})
	return nil
}

func (m *Manager) forget(w *Window) {
	w.markHidden()

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.windows[w.spec.Identifier] == w {
		delete(m.windows, w.spec.Identifier)
	}
}

// Live lists the identifiers that currently have an instance.
func (m *Manager) Live() []Identifier {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]Identifier, 0, len(m.windows))
	for id := range m.windows {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Send delivers event to the renderer of one window. The window must be
// live; Send never creates it.
func (m *Manager) Send(id Identifier, event string, payload interface{}) error {
	if _, ok := m.Lookup(id); !ok {
		return fmt.Errorf("windows: %s is not open", id)
	}

	m.mu.RLock()
	notifier := m.notifier
	m.mu.RUnlock()
	if notifier == nil {
		return fmt.Errorf("windows: no renderer connection for %s", id)
	}
	return notifier.Notify(id, event, payload)
}

// Broadcast sends event to the renderer of every live window and returns
// how many were reached.
func (m *Manager) Broadcast(event string, payload interface{}) int {
	m.mu.RLock()
	notifier := m.notifier
	m.mu.RUnlock()
	if notifier == nil {
		return 0
	}

	delivered := 0
	for _, id := range m.Live() {
		if err := notifier.Notify(id, event, payload); err != nil {
			m.logger.Warning("WindowManager", "broadcast delivery failed", map[string]interface{}{
				"identifier": string(id),
				"event":      event,
				"error":      err.Error(),
			})
			continue
		}
		delivered++
	}
	return delivered
}

// Shutdown destroys every live window.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	live := m.windows
	m.windows = make(map[Identifier]*Window)
	m.mu.Unlock()

	for _, w := range live {
		w.close()
	}
	m.logger.Debug("WindowManager", "all windows closed", map[string]interface{}{"count": len(live)})
}
