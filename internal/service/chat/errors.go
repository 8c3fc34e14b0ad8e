package chat

import (
	"fmt"

	"github.com/pkg/errors"
)

// Texts shown in place of an answer when an exchange fails.
const (
	ParseErrorText     = "Error parsing response. Please try again."
	TransportErrorText = "WebSocket error. Please try again."
	TimeoutErrorText   = "The assistant took too long to respond. Please try again."
)

var (
	ErrNoSession       = errors.New("session is required")
	ErrEmptyQuery      = errors.New("query is empty")
	ErrQueryInFlight   = errors.New("a query is already in flight for this session")
	ErrResponseTimeout = errors.New("timed out waiting for the assistant")
)

// TransportError covers dial, write and read failures on the socket.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("websocket %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ProtocolError means the reply frame was not valid JSON or broke the reply schema.
type ProtocolError struct {
	Err error
}

func (e *ProtocolError) Error() string {
	return "malformed reply: " + e.Err.Error()
}

func (e *ProtocolError) Unwrap() error { return e.Err }

// failureText maps a dispatch error onto the text of the ERROR block.
func failureText(err error) string {
	var protoErr *ProtocolError
	switch {
	case errors.As(err, &protoErr):
		return ParseErrorText
	case errors.Is(err, ErrResponseTimeout):
		return TimeoutErrorText
	default:
		return TransportErrorText
	}
}
