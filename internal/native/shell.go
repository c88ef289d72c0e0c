package native

import (
	"fmt"
	"net/url"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"

	"shellhost/internal/logger"
	"shellhost/internal/menu"
)

// Shell performs desktop side effects through fyne.
type Shell struct {
	app    fyne.App
	parent func() (fyne.Window, bool)
	logger logger.Logger
}

func NewShell(app fyne.App, parent func() (fyne.Window, bool), log logger.Logger) *Shell {
	if log == nil {
		log = logger.NoOp{}
	}
	return &Shell{app: app, parent: parent, logger: log}
}

func (s *Shell) OpenURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid url %q: %w", rawURL, err)
	}
	if u.Scheme == "" {
		return fmt.Errorf("url %q has no scheme", rawURL)
	}

	s.logger.Info("Shell", "opening external link", map[string]interface{}{"url": u.String()})
	return s.app.OpenURL(u)
}

func (s *Shell) ShowAbout(title, message, detail string) error {
	w, ok := s.parent()
	if !ok {
		return fmt.Errorf("no window to attach the about dialog to")
	}

	text := message
	if detail != "" {
		text += "\n\n" + detail
	}
	fyne.Do(func() {
		dialog.ShowInformation(title, text, w)
	})
	return nil
}

// Roles handles the OS-delegated menu roles fyne can perform itself and
// hands the rest to forward.
type Roles struct {
	app     fyne.App
	master  func() (fyne.Window, bool)
	about   func()
	forward func(role menu.Role)
}

func NewRoles(app fyne.App, master func() (fyne.Window, bool), about func(), forward func(role menu.Role)) *Roles {
	return &Roles{app: app, master: master, about: about, forward: forward}
}

func (r *Roles) HandleRole(role menu.Role) {
	switch role {
	case menu.RoleQuit:
		fyne.Do(r.app.Quit)
	case menu.RoleAbout:
		if r.about != nil {
			r.about()
		}
	case menu.RoleToggleFullscreen:
		if w, ok := r.master(); ok {
			fyne.Do(func() { w.SetFullScreen(!w.FullScreen()) })
		}
	default:
		if r.forward != nil {
			r.forward(role)
		}
	}
}
