package windows

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Surface is the native side of a window.
type Surface interface {
	Show()
	Focus()
	Hide()
	Close()
}

// Hooks lets the native layer report back to the manager.
type Hooks struct {
	// OnClosed fires when the user destroys the native window.
	OnClosed func()
	// OnHidden fires when the native layer hides the window by itself.
	OnHidden func()
}

// Factory creates native surfaces. Create may block; the manager treats the
// call as a suspension point.
type Factory interface {
	Create(ctx context.Context, spec Spec, hooks Hooks) (Surface, error)
}

// Notifier delivers host events to the renderer hosted by a window.
type Notifier interface {
	Notify(id Identifier, event string, payload interface{}) error
}

// WindowCreationError is returned when a window cannot be produced.
type WindowCreationError struct {
	Identifier Identifier
	Cause      error
}

func (e *WindowCreationError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("windows: no specification for identifier %q", e.Identifier)
	}
	return fmt.Sprintf("windows: cannot create %q: %v", e.Identifier, e.Cause)
}

func (e *WindowCreationError) Unwrap() error {
	return e.Cause
}

// Window is one live instance, owned by the Manager.
type Window struct {
	spec       Spec
	instanceID string
	surface    Surface
	createdAt  time.Time

	mu      sync.Mutex
	visible bool
}

func (w *Window) Identifier() Identifier { return w.spec.Identifier }
func (w *Window) InstanceID() string     { return w.instanceID }
func (w *Window) Spec() Spec             { return w.spec }
func (w *Window) Surface() Surface       { return w.surface }
func (w *Window) CreatedAt() time.Time   { return w.createdAt }

func (w *Window) Visible() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.visible
}

// Show makes the window visible and focused. A visible window is only
// focused again.
func (w *Window) Show() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.visible {
		w.surface.Show()
		w.visible = true
	}
	w.surface.Focus()
}

func (w *Window) Hide() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.visible {
		w.surface.Hide()
		w.visible = false
	}
}

// close releases the lock before touching the surface: native close
// handlers call back into markHidden.
func (w *Window) close() {
	w.mu.Lock()
	w.visible = false
	w.mu.Unlock()

	w.surface.Close()
}

func (w *Window) markHidden() {
	w.mu.Lock()
	w.visible = false
	w.mu.Unlock()
}
