package app

import (
	"context"

	"shellhost/internal/channels"
	"shellhost/internal/ipc"
	"shellhost/internal/menu"
	"shellhost/internal/windows"
)

// Handlers receives callbacks from the native layer and routes them into
// the host.
type Handlers struct {
	app *Application
}

func NewHandlers(a *Application) *Handlers {
	return &Handlers{app: a}
}

// HandleMenuItem runs a clicked item's action off the UI goroutine.
func (h *Handlers) HandleMenuItem(item menu.Item) {
	go func() {
		if _, err := h.app.menus.Activate(context.Background(), item); err != nil {
			h.app.logger.Error("Handlers", err, map[string]interface{}{"key": item.Key})
		}
	}()
}

// HandleRole covers roles the native layer leaves to the host. Window roles
// act on the main window; editing roles go to the chat renderer.
func (h *Handlers) HandleRole(role menu.Role) {
	ctx := context.Background()
	var err error

	switch role {
	case menu.RoleHide, menu.RoleMinimize, menu.RoleClose:
		if w, ok := h.app.windows.Lookup(windows.Chat); ok {
			w.Hide()
		}
	case menu.RoleUnhide:
		err = h.app.windows.ShowMainWindow(ctx)
	default:
		err = h.app.windows.Send(windows.Chat, channels.EventMenuRole, map[string]interface{}{"role": string(role)})
	}

	if err != nil {
		h.app.logger.Warning("Handlers", "menu role not handled", map[string]interface{}{
			"role":  string(role),
			"error": err.Error(),
		})
	}
}

// HandleAbout shows the about dialog through its channel.
func (h *Handlers) HandleAbout() {
	go func() {
		if _, err := h.app.dispatcher.Dispatch(context.Background(), channels.ShowAboutDialog, ipc.NoArgs); err != nil {
			h.app.logger.Error("Handlers", err, nil)
		}
	}()
}
