package protocol

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedRequest = errors.New("protocol: malformed request")
	ErrUnknownCommand   = errors.New("protocol: unknown command")
	ErrNilMessage       = errors.New("protocol: nil message")
)

// UnknownCommandError names a request variant this build does not decode.
type UnknownCommandError struct {
	Name string
}

func (e *UnknownCommandError) Error() string {
	return fmt.Sprintf("protocol: unknown command %q", e.Name)
}

func (e *UnknownCommandError) Is(target error) bool {
	return target == ErrUnknownCommand
}
