package eventbus

import (
	"context"
	"fmt"
	"sync"
	"time"

	"shellhost/internal/logger"
)

// Host-internal event types.
const (
	AppReady        = "app.ready"
	AppActivate     = "app.activate"
	LanguageChanged = "language.changed"
	WindowCreated   = "window.created"
	MenuRefreshed   = "menu.refreshed"
)

type Event struct {
	Type      string
	Timestamp time.Time
	Data      map[string]interface{}
	Context   context.Context
}

type EventHandler interface {
	Handle(event Event)
	GetID() string
}

// HandlerFunc adapts a plain function to EventHandler.
type HandlerFunc struct {
	ID string
	Fn func(Event)
}

func (h HandlerFunc) Handle(event Event) { h.Fn(event) }
func (h HandlerFunc) GetID() string      { return h.ID }

type Bus struct {
	subscribers map[string][]EventHandler
	mu          sync.RWMutex
	buffer      chan Event
	closed      bool
	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup
	logger      logger.Logger
}

func NewBus(bufferSize int, log logger.Logger) *Bus {
	ctx, cancel := context.WithCancel(context.Background())
	if log == nil {
		log = logger.NoOp{}
	}

	bus := &Bus{
		subscribers: make(map[string][]EventHandler),
		buffer:      make(chan Event, bufferSize),
		ctx:         ctx,
		cancel:      cancel,
		logger:      log,
	}

	bus.startWorker()
	return bus
}

func (b *Bus) Publish(event Event) {
	event.Timestamp = time.Now()

	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}

	select {
	case b.buffer <- event:
	case <-b.ctx.Done():
	default:
		b.logger.Warning("EventBus", "event dropped, buffer full", map[string]interface{}{
			"type": event.Type,
		})
	}
}

func (b *Bus) Subscribe(eventType string, handler EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.subscribers[eventType] = append(b.subscribers[eventType], handler)
}

func (b *Bus) Unsubscribe(eventType string, handler EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	handlers := b.subscribers[eventType]
	for i, h := range handlers {
		if h.GetID() == handler.GetID() {
			b.subscribers[eventType] = append(handlers[:i], handlers[i+1:]...)
			break
		}
	}
}

// Shutdown stops delivery. Safe to call more than once.
func (b *Bus) Shutdown() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	b.cancel()
	close(b.buffer)
	b.mu.Unlock()

	b.wg.Wait()
}

func (b *Bus) startWorker() {
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()

		for {
			select {
			case event, ok := <-b.buffer:
				if !ok {
					return
				}
				b.dispatchEvent(event)
			case <-b.ctx.Done():
				return
			}
		}
	}()
}

func (b *Bus) dispatchEvent(event Event) {
	b.mu.RLock()
	handlers := make([]EventHandler, len(b.subscribers[event.Type]))
	copy(handlers, b.subscribers[event.Type])
	b.mu.RUnlock()

	for _, handler := range handlers {
		go func(h EventHandler) {
			defer func() {
				if r := recover(); r != nil {
					b.logger.Error("EventBus", fmt.Errorf("subscriber panic: %v", r), map[string]interface{}{
						"type":       event.Type,
						"subscriber": h.GetID(),
					})
				}
			}()
			h.Handle(event)
		}(handler)
	}
}
