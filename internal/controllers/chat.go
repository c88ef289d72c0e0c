package controllers

import (
	"context"

	"shellhost/internal/channels"
	"shellhost/internal/ipc"
	"shellhost/internal/windows"
)

// Chat relays chat actions raised by native menus back to the chat window.
type Chat struct {
	Base
}

func NewChat(app AppContext) ipc.Module {
	return &Chat{Base: newBase(app, "Chat")}
}

func (c *Chat) Bindings() []ipc.Binding {
	return []ipc.Binding{
		c.bind(channels.DeleteMessage, c.deleteMessage),
	}
}

type messageArgs struct {
	MessageID string `json:"messageId"`
}

func (c *Chat) deleteMessage(_ context.Context, args ipc.Args) (interface{}, error) {
	var in messageArgs
	if err := args.Decode(&in); err != nil {
		return nil, err
	}
	if err := required("messageId", in.MessageID); err != nil {
		return nil, err
	}

	payload := map[string]interface{}{"messageId": in.MessageID}
	if err := c.app.Windows().Send(windows.Chat, channels.EventDeleteMessage, payload); err != nil {
		return nil, err
	}
	return payload, nil
}
