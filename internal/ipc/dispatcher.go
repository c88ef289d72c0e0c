package ipc

import (
	"context"
	"runtime/debug"
	"sort"
	"time"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"shellhost/internal/logger"
)

const maxSuggestions = 3

// Dispatcher is the single entry point for renderer calls. Calls are not
// serialized: each one runs on the caller's goroutine.
type Dispatcher struct {
	registry *Registry
	logger   logger.Logger
}

func NewDispatcher(registry *Registry, log logger.Logger) *Dispatcher {
	if log == nil {
		log = logger.NoOp{}
	}
	return &Dispatcher{registry: registry, logger: log}
}

func (d *Dispatcher) Ready() bool {
	return d.registry.Sealed()
}

func (d *Dispatcher) Registry() *Registry {
	return d.registry
}

// Dispatch resolves channel and runs its handler.
func (d *Dispatcher) Dispatch(ctx context.Context, channel string, args Args) (interface{}, error) {
	if !d.registry.Sealed() {
		err := &DispatcherNotReadyError{Channel: channel}
		d.logger.Warning("Dispatcher", "call before registry completion", map[string]interface{}{
			"channel": channel,
		})
		return nil, err
	}

	handler, owner, ok := d.registry.Lookup(channel)
	if !ok {
		err := &UnknownChannelError{Channel: channel, Suggestions: d.suggest(channel)}
		d.logger.Warning("Dispatcher", "unknown channel", map[string]interface{}{
			"channel":     channel,
			"suggestions": err.Suggestions,
		})
		return nil, err
	}

	start := time.Now()
	result, err := invoke(ctx, handler, args)
	fields := map[string]interface{}{
		"channel":     channel,
		"module":      owner,
		"duration_ms": time.Since(start).Milliseconds(),
	}
	if err != nil {
		wrapped := &HandlerExecutionError{Channel: channel, Module: owner, Cause: err}
		if p, isPanic := err.(*PanicError); isPanic {
			fields["stack"] = string(p.Stack)
		}
		d.logger.Error("Dispatcher", wrapped, fields)
		return nil, wrapped
	}

	d.logger.Debug("Dispatcher", "call completed", fields)
	return result, nil
}

func invoke(ctx context.Context, handler Handler, args Args) (result interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = &PanicError{Value: r, Stack: debug.Stack()}
		}
	}()
	return handler(ctx, args)
}

func (d *Dispatcher) suggest(channel string) []string {
	ranks := fuzzy.RankFindNormalizedFold(channel, d.registry.Channels())
	sort.Sort(ranks)

	suggestions := make([]string, 0, maxSuggestions)
	for _, r := range ranks {
		if len(suggestions) == maxSuggestions {
			break
		}
		suggestions = append(suggestions, r.Target)
	}
	return suggestions
}
