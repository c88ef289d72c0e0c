package native

import (
	"context"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"shellhost/internal/logger"
	"shellhost/internal/windows"
)

// WindowFactory creates fyne windows for window specs.
type WindowFactory struct {
	app    fyne.App
	logger logger.Logger

	mu     sync.RWMutex
	master fyne.Window
}

func NewWindowFactory(app fyne.App, log logger.Logger) *WindowFactory {
	if log == nil {
		log = logger.NoOp{}
	}
	return &WindowFactory{app: app, logger: log}
}

func (f *WindowFactory) Create(_ context.Context, spec windows.Spec, hooks windows.Hooks) (windows.Surface, error) {
	w := f.app.NewWindow(spec.Title)

	width, height := spec.Width, spec.Height
	if width < spec.MinWidth {
		width = spec.MinWidth
	}
	if height < spec.MinHeight {
		height = spec.MinHeight
	}
	w.Resize(fyne.NewSize(width, height))
	w.SetContent(placeholder(spec))
	if spec.Center {
		w.CenterOnScreen()
	}

	if spec.Master {
		w.SetMaster()
		f.mu.Lock()
		f.master = w
		f.mu.Unlock()
	}

	// KeepAlive windows survive the native close button.
	if spec.KeepAlive {
		w.SetCloseIntercept(func() {
			w.Hide()
			if hooks.OnHidden != nil {
				hooks.OnHidden()
			}
		})
	}
	w.SetOnClosed(func() {
		f.logger.Debug("WindowFactory", "native window closed", map[string]interface{}{
			"identifier": string(spec.Identifier),
		})
		f.mu.Lock()
		if f.master == w {
			f.master = nil
		}
		f.mu.Unlock()
		if hooks.OnClosed != nil {
			hooks.OnClosed()
		}
	})

	f.logger.Debug("WindowFactory", "native window created", map[string]interface{}{
		"identifier": string(spec.Identifier),
		"width":      width,
		"height":     height,
	})
	return &Surface{window: w}, nil
}

// Master returns the master window once one has been created.
func (f *WindowFactory) Master() (fyne.Window, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.master, f.master != nil
}

// placeholder stands in for the renderer until it attaches to LoadTarget.
func placeholder(spec windows.Spec) fyne.CanvasObject {
	target := widget.NewLabel(spec.LoadTarget)
	target.TextStyle = fyne.TextStyle{Monospace: true}
	return container.NewCenter(container.NewVBox(
		widget.NewLabelWithStyle(spec.Title, fyne.TextAlignCenter, fyne.TextStyle{Bold: true}),
		target,
	))
}

// Surface adapts a fyne window to windows.Surface. Calls are marshalled
// onto the fyne main goroutine.
type Surface struct {
	window fyne.Window
}

func (s *Surface) Window() fyne.Window { return s.window }

func (s *Surface) Show() {
	fyne.Do(s.window.Show)
}

func (s *Surface) Focus() {
	fyne.Do(s.window.RequestFocus)
}

func (s *Surface) Hide() {
	fyne.Do(s.window.Hide)
}

func (s *Surface) Close() {
	fyne.Do(s.window.Close)
}
