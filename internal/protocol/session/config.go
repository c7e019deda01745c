package session

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/danmuck/ctagd/internal/protocol"
	"github.com/danmuck/ctagd/internal/protocol/frame"
	"github.com/rs/zerolog"
)

const (
	DefaultProgramName    = "ctagd"
	DefaultProgramVersion = "0.1.0"
)

var ErrInvalidConfig = errors.New("session: invalid config")

// Observer receives per-request outcomes. Implementations must not touch
// the protocol streams.
type Observer interface {
	RequestServed(command string, payloadBytes, records int, elapsed time.Duration)
	RequestFailed(kind Kind)
}

// Config defines the announcement and read limits for one session.
type Config struct {
	Program  protocol.Program
	Limits   frame.Limits
	Logger   zerolog.Logger
	Observer Observer
}

func DefaultConfig() Config {
	return Config{
		Program: protocol.Program{
			Name:    DefaultProgramName,
			Version: DefaultProgramVersion,
		},
		Limits:   frame.DefaultLimits(),
		Logger:   zerolog.Nop(),
		Observer: nopObserver{},
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Program.Name) == "" {
		return fmt.Errorf("%w: missing program name", ErrInvalidConfig)
	}
	if strings.TrimSpace(c.Program.Version) == "" {
		return fmt.Errorf("%w: missing program version", ErrInvalidConfig)
	}
	return nil
}

type nopObserver struct{}

func (nopObserver) RequestServed(string, int, int, time.Duration) {}
func (nopObserver) RequestFailed(Kind)                            {}
