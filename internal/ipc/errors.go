package ipc

import (
	"errors"
	"fmt"
	"strings"
)

// ErrRegistrySealed is returned when a binding arrives after the registry
// has been declared complete.
var ErrRegistrySealed = errors.New("ipc: registry already sealed")

// DuplicateChannelError reports a second binding for an already bound channel.
type DuplicateChannelError struct {
	Channel  string
	Owner    string
	Existing string
}

func (e *DuplicateChannelError) Error() string {
	return fmt.Sprintf("ipc: channel %q already bound by %s (rejected binding from %s)", e.Channel, e.Existing, e.Owner)
}

// UnknownChannelError reports a dispatch to a channel nobody bound.
type UnknownChannelError struct {
	Channel     string
	Suggestions []string
}

func (e *UnknownChannelError) Error() string {
	if len(e.Suggestions) == 0 {
		return fmt.Sprintf("ipc: unknown channel %q", e.Channel)
	}
	return fmt.Sprintf("ipc: unknown channel %q (did you mean %s?)", e.Channel, strings.Join(e.Suggestions, ", "))
}

// DispatcherNotReadyError reports a call that arrived before every module
// finished registering.
type DispatcherNotReadyError struct {
	Channel string
}

func (e *DispatcherNotReadyError) Error() string {
	return fmt.Sprintf("ipc: dispatcher not ready, rejected call to %q", e.Channel)
}

// HandlerExecutionError wraps a failure raised inside a handler. The cause is
// kept untouched and reachable through errors.Is / errors.As.
type HandlerExecutionError struct {
	Channel string
	Module  string
	Cause   error
}

func (e *HandlerExecutionError) Error() string {
	return fmt.Sprintf("ipc: handler %s.%s failed: %v", e.Module, e.Channel, e.Cause)
}

func (e *HandlerExecutionError) Unwrap() error {
	return e.Cause
}

// PanicError is the cause recorded when a handler panics.
type PanicError struct {
	Value interface{}
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}
