package controllers

import (
	"context"
	"strings"

	"shellhost/internal/channels"
	"shellhost/internal/eventbus"
	"shellhost/internal/ipc"
	"shellhost/internal/windows"
)

// BrowserWindows exposes the window manager to renderers.
type BrowserWindows struct {
	Base
}

func NewBrowserWindows(app AppContext) ipc.Module {
	return &BrowserWindows{Base: newBase(app, "BrowserWindows")}
}

func (c *BrowserWindows) Bindings() []ipc.Binding {
	return []ipc.Binding{
		c.bind(channels.OpenSettingsWindow, c.openSettingsWindow),
		c.bind(channels.ShowMainWindow, noArgs(c.showMainWindow)),
		c.bind(channels.ShowWindow, c.showWindow),
		c.bind(channels.CloseWindow, c.closeWindow),
	}
}

func (c *BrowserWindows) Subscriptions() []ipc.Subscription {
	return []ipc.Subscription{{
		Event: eventbus.AppActivate,
		Handler: func(eventbus.Event) {
			if err := c.app.Windows().ShowMainWindow(context.Background()); err != nil {
				c.log().Error("BrowserWindows", err, nil)
			}
		},
	}}
}

type settingsArgs struct {
	Tab string `json:"tab"`
}

// openSettingsWindow shows settings and, when a tab is named, navigates the
// settings renderer to it.
func (c *BrowserWindows) openSettingsWindow(ctx context.Context, args ipc.Args) (interface{}, error) {
	var in settingsArgs
	if err := args.Decode(&in); err != nil {
		return nil, err
	}

	w := c.app.Windows()
	if err := w.ShowSettingsWindow(ctx); err != nil {
		return nil, err
	}

	tab := strings.Trim(strings.TrimSpace(in.Tab), "/")
	if tab == "" {
		return nil, nil
	}
	path := "/settings/" + tab
	if err := w.Send(windows.Settings, channels.EventNavigate, map[string]interface{}{"path": path}); err != nil {
		c.log().Warning("BrowserWindows", "settings navigation not delivered", map[string]interface{}{
			"path":  path,
			"error": err.Error(),
		})
	}
	return map[string]interface{}{"path": path}, nil
}

func (c *BrowserWindows) showMainWindow(ctx context.Context) (interface{}, error) {
	return nil, c.app.Windows().ShowMainWindow(ctx)
}

type windowArgs struct {
	Identifier string `json:"identifier"`
}

func (c *BrowserWindows) showWindow(ctx context.Context, args ipc.Args) (interface{}, error) {
	var in windowArgs
	if err := args.Decode(&in); err != nil {
		return nil, err
	}
	if err := required("identifier", in.Identifier); err != nil {
		return nil, err
	}

	w, err := c.app.Windows().Show(ctx, windows.Identifier(in.Identifier))
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"identifier": in.Identifier, "instanceId": w.InstanceID()}, nil
}

func (c *BrowserWindows) closeWindow(_ context.Context, args ipc.Args) (interface{}, error) {
	var in windowArgs
	if err := args.Decode(&in); err != nil {
		return nil, err
	}
	if err := required("identifier", in.Identifier); err != nil {
		return nil, err
	}
	return nil, c.app.Windows().Close(windows.Identifier(in.Identifier))
}
