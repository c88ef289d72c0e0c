package ipc

import (
	"context"

	"shellhost/internal/eventbus"
)

// Handler serves one renderer-invocable channel.
type Handler func(ctx context.Context, args Args) (interface{}, error)

// Binding pairs a channel name with the handler that serves it.
type Binding struct {
	Channel string
	Handler Handler
}

// Subscription is a host-internal event a module listens to.
type Subscription struct {
	Event   string
	Handler func(eventbus.Event)
}

// Module is a feature unit that declares its channels up front. Bindings is
// read once while the registry is being built.
type Module interface {
	Name() string
	Bindings() []Binding
	Subscriptions() []Subscription
}
