package controllers

import (
	"context"
	"fmt"

	"shellhost/internal/channels"
	"shellhost/internal/ipc"
	"shellhost/internal/menu"
)

// Menu exposes context menus and app menu maintenance.
type Menu struct {
	Base
}

func NewMenu(app AppContext) ipc.Module {
	return &Menu{Base: newBase(app, "Menu")}
}

func (c *Menu) Bindings() []ipc.Binding {
	return []ipc.Binding{
		c.bind(channels.ShowContextMenu, c.showContextMenu),
		c.bind(channels.RefreshAppMenu, noArgs(c.refreshAppMenu)),
		c.bind(channels.DumpAppMenu, noArgs(c.dumpAppMenu)),
	}
}

type contextMenuArgs struct {
	Type string                 `json:"type"`
	Data map[string]interface{} `json:"data"`
	X    float32                `json:"x"`
	Y    float32                `json:"y"`
}

func (c *Menu) showContextMenu(_ context.Context, args ipc.Args) (interface{}, error) {
	var in contextMenuArgs
	if err := args.Decode(&in); err != nil {
		return nil, err
	}

	m, err := c.app.Menus().PopupContextMenu(in.Type, menu.Payload(in.Data), in.X, in.Y)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"kind": m.Kind, "items": len(m.Items)}, nil
}

func (c *Menu) refreshAppMenu(context.Context) (interface{}, error) {
	m := c.app.Menus().RefreshMenus()
	return map[string]interface{}{"language": m.Language}, nil
}

func (c *Menu) dumpAppMenu(context.Context) (interface{}, error) {
	m := c.app.Menus().Platform().AppMenu()
	if m == nil {
		return nil, fmt.Errorf("application menu not built yet")
	}
	return menu.Render(m), nil
}
