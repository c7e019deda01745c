package session

import (
	"errors"
	"fmt"

	"github.com/danmuck/ctagd/internal/protocol"
	"github.com/danmuck/ctagd/internal/protocol/frame"
)

var (
	ErrSessionClosed     = errors.New("session: closed")
	ErrInvalidTransition = errors.New("session: invalid state transition")
	ErrUnhandledRequest  = errors.New("session: request kind has no handler")
)

// Kind classifies a fatal session error.
type Kind int

const (
	KindIO Kind = iota + 1
	KindMalformedRequest
	KindUnknownCommand
	KindTruncatedPayload
	KindPayloadTooLarge
	KindAnalyzer
)

func (k Kind) String() string {
	switch k {
	case KindIO:
		return "io"
	case KindMalformedRequest:
		return "malformed_request"
	case KindUnknownCommand:
		return "unknown_command"
	case KindTruncatedPayload:
		return "truncated_payload"
	case KindPayloadTooLarge:
		return "payload_too_large"
	case KindAnalyzer:
		return "analyzer"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ExitCode is the process status a fatal error of this kind maps to.
func (k Kind) ExitCode() int {
	switch k {
	case KindMalformedRequest, KindUnknownCommand:
		return 2
	case KindTruncatedPayload, KindPayloadTooLarge:
		return 3
	case KindAnalyzer:
		return 4
	default:
		return 1
	}
}

// FatalError ends a session. Request is the 1-based index of the request in
// flight, or 0 when the failure happened before any request was read.
type FatalError struct {
	Kind     Kind
	Request  uint64
	Filename string
	Err      error
}

func (e *FatalError) Error() string {
	if e.Filename != "" {
		return fmt.Sprintf("session: %s: request=%d file=%q: %v", e.Kind, e.Request, e.Filename, e.Err)
	}
	return fmt.Sprintf("session: %s: request=%d: %v", e.Kind, e.Request, e.Err)
}

func (e *FatalError) Unwrap() error {
	return e.Err
}

func (e *FatalError) ExitCode() int {
	return e.Kind.ExitCode()
}

// ExitCode maps a Serve result to a process exit status.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var fatal *FatalError
	if errors.As(err, &fatal) {
		return fatal.ExitCode()
	}
	return 1
}

// classify picks the Kind for an error raised while reading or decoding.
func classify(err error) Kind {
	switch {
	case errors.Is(err, protocol.ErrUnknownCommand), errors.Is(err, ErrUnhandledRequest):
		return KindUnknownCommand
	case errors.Is(err, protocol.ErrMalformedRequest):
		return KindMalformedRequest
	case errors.Is(err, frame.ErrTruncatedPayload):
		return KindTruncatedPayload
	case errors.Is(err, frame.ErrPayloadTooLarge):
		return KindPayloadTooLarge
	default:
		return KindIO
	}
}
