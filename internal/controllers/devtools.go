package controllers

import (
	"context"

	"shellhost/internal/channels"
	"shellhost/internal/ipc"
	"shellhost/internal/windows"
)

type Devtools struct {
	Base
}

func NewDevtools(app AppContext) ipc.Module {
	return &Devtools{Base: newBase(app, "Devtools")}
}

func (c *Devtools) Bindings() []ipc.Binding {
	return []ipc.Binding{
		c.bind(channels.OpenDevtools, noArgs(c.openDevtools)),
		c.bind(channels.ListChannels, noArgs(c.listChannels)),
	}
}

func (c *Devtools) openDevtools(ctx context.Context) (interface{}, error) {
	_, err := c.app.Windows().Show(ctx, windows.Devtools)
	return nil, err
}

type channelInfo struct {
	Channel string `json:"channel"`
	Module  string `json:"module"`
}

func (c *Devtools) listChannels(context.Context) (interface{}, error) {
	reg := c.app.Registry()
	owners := reg.Owners()

	out := make([]channelInfo, 0, len(owners))
	for _, ch := range reg.Channels() {
		out = append(out, channelInfo{Channel: ch, Module: owners[ch]})
	}
	return out, nil
}
