package transport

import (
	"encoding/json"
	"errors"

	"shellhost/internal/ipc"
)

// Error codes carried in error frames.
const (
	CodeUnknownChannel     = "UNKNOWN_CHANNEL"
	CodeDispatcherNotReady = "DISPATCHER_NOT_READY"
	CodeHandlerFailed      = "HANDLER_FAILED"
	CodeBadRequest         = "BAD_REQUEST"
)

// Request is a renderer call.
type Request struct {
	ID      string          `json:"id"`
	Channel string          `json:"channel"`
	Args    json.RawMessage `json:"args,omitempty"`
}

// Response answers exactly one Request.
type Response struct {
	ID     string      `json:"id"`
	Result interface{} `json:"result"`
	Error  *ErrorBody  `json:"error,omitempty"`
}

type ErrorBody struct {
	Code        string   `json:"code"`
	Message     string   `json:"message"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// EventFrame is pushed from the host to a renderer.
type EventFrame struct {
	Event   string      `json:"event"`
	Payload interface{} `json:"payload,omitempty"`
}

func errorBody(err error) *ErrorBody {
	var (
		unknown  *ipc.UnknownChannelError
		notReady *ipc.DispatcherNotReadyError
	)
	switch {
	case errors.As(err, &unknown):
		return &ErrorBody{Code: CodeUnknownChannel, Message: err.Error(), Suggestions: unknown.Suggestions}
	case errors.As(err, &notReady):
		return &ErrorBody{Code: CodeDispatcherNotReady, Message: err.Error()}
	default:
		return &ErrorBody{Code: CodeHandlerFailed, Message: err.Error()}
	}
}
