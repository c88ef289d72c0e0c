package ipc

import (
	"sort"
	"sync"

	"shellhost/internal/logger"
)

type entry struct {
	handler Handler
	owner   string
}

// Registry is the process-wide channel table. It is filled while modules
// are constructed and sealed once every module has been registered.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]entry
	sealed  bool
	logger  logger.Logger
}

func NewRegistry(log logger.Logger) *Registry {
	if log == nil {
		log = logger.NoOp{}
	}
	return &Registry{
		entries: make(map[string]entry),
		logger:  log,
	}
}

// Register binds channel to handler. The first binding for a channel wins.
func (r *Registry) Register(channel string, handler Handler, owner string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed {
		return ErrRegistrySealed
	}
	if existing, ok := r.entries[channel]; ok {
		err := &DuplicateChannelError{Channel: channel, Owner: owner, Existing: existing.owner}
		r.logger.Error("Registry", err, map[string]interface{}{"channel": channel})
		return err
	}

	r.entries[channel] = entry{handler: handler, owner: owner}
	r.logger.Debug("Registry", "channel bound", map[string]interface{}{
		"channel": channel,
		"module":  owner,
	})
	return nil
}

// RegisterModule binds every channel the module declares.
func (r *Registry) RegisterModule(m Module) error {
	for _, b := range m.Bindings() {
		if err := r.Register(b.Channel, b.Handler, m.Name()); err != nil {
			return err
		}
	}
	return nil
}

// Seal marks the registry complete; the dispatcher serves calls afterwards.
func (r *Registry) Seal() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed {
		return
	}
	r.sealed = true
	r.logger.Info("Registry", "registry sealed", map[string]interface{}{"channels": len(r.entries)})
}

func (r *Registry) Sealed() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sealed
}

func (r *Registry) Lookup(channel string) (Handler, string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[channel]
	return e.handler, e.owner, ok
}

// Channels returns every bound channel, sorted.
func (r *Registry) Channels() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	channels := make([]string, 0, len(r.entries))
	for name := range r.entries {
		channels = append(channels, name)
	}
	sort.Strings(channels)
	return channels
}

// Owners maps each channel to the module that bound it.
func (r *Registry) Owners() map[string]string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	owners := make(map[string]string, len(r.entries))
	for name, e := range r.entries {
		owners[name] = e.owner
	}
	return owners
}
