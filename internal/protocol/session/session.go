package session

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/danmuck/ctagd/internal/protocol"
	"github.com/danmuck/ctagd/internal/protocol/frame"
	"github.com/rs/zerolog"
)

// Stats counts what a session has served so far. It is safe to read from
// another goroutine while Serve runs.
type Stats struct {
	Requests     uint64
	Records      uint64
	PayloadBytes uint64
}

// Session runs the request/reply loop over one input and one output stream.
type Session struct {
	in       *bufio.Reader
	sink     *Sink
	analyzer Analyzer
	program  protocol.Program
	limits   frame.Limits
	log      zerolog.Logger
	observer Observer

	state     State
	announced bool
	current   uint64

	requests     atomic.Uint64
	records      atomic.Uint64
	payloadBytes atomic.Uint64
}

func New(in io.Reader, out io.Writer, analyzer Analyzer, cfg Config) *Session {
	br, ok := in.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(in)
	}
	observer := cfg.Observer
	if observer == nil {
		observer = nopObserver{}
	}
	return &Session{
		in:       br,
		sink:     NewSink(out),
		analyzer: analyzer,
		program:  cfg.Program,
		limits:   cfg.Limits,
		log:      cfg.Logger,
		observer: observer,
		state:    StateAwaitingRequest,
	}
}

func (s *Session) State() State {
	return s.state
}

func (s *Session) Stats() Stats {
	return Stats{
		Requests:     s.requests.Load(),
		Records:      s.records.Load(),
		PayloadBytes: s.payloadBytes.Load(),
	}
}

// Serve announces the program and then serves requests until the input ends
// at a request boundary (nil) or a fatal condition occurs (*FatalError).
func (s *Session) Serve() error {
	if s.state == StateClosed || s.announced {
		return ErrSessionClosed
	}
	if err := s.announce(); err != nil {
		return s.fail(KindIO, "", err)
	}
	for {
		done, err := s.serveNext()
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
}

func (s *Session) announce() error {
	s.announced = true
	if err := s.sink.Write(s.program); err != nil {
		return err
	}
	s.sink.Newline()
	if err := s.sink.Flush(); err != nil {
		return err
	}
	s.log.Debug().
		Str("name", s.program.Name).
		Str("version", s.program.Version).
		Msg("program announced")
	return nil
}

// serveNext handles exactly one request. done is true on clean end of input.
func (s *Session) serveNext() (bool, error) {
	s.current = s.requests.Load() + 1
	line, err := frame.ReadLine(s.in, s.limits)
	if errors.Is(err, io.EOF) {
		if err := s.transition(StateClosed); err != nil {
			return false, s.fail(KindIO, "", err)
		}
		s.log.Debug().Uint64("requests", s.requests.Load()).Msg("input closed")
		return true, nil
	}
	if err != nil {
		return false, s.fail(classify(err), "", err)
	}

	started := time.Now()
	req, err := protocol.DecodeRequest(line)
	if err != nil {
		return false, s.fail(classify(err), "", err)
	}

	var filename string
	if gt, ok := req.(protocol.GenerateTags); ok {
		filename = gt.Filename
	}

	payload := []byte{}
	if req.PayloadSize() > 0 {
		if err := s.transition(StateReadingPayload); err != nil {
			return false, s.fail(KindIO, filename, err)
		}
		payload, err = frame.ReadPayload(s.in, req.PayloadSize(), s.limits)
		if err != nil {
			return false, s.fail(classify(err), filename, err)
		}
	}

	if err := s.transition(StateAnalyzing); err != nil {
		return false, s.fail(KindIO, filename, err)
	}
	counter := &countingEmitter{sink: s.sink}
	if err := s.dispatch(req, payload, counter); err != nil {
		if errors.Is(err, ErrUnhandledRequest) {
			return false, s.fail(KindUnknownCommand, filename, err)
		}
		return false, s.fail(KindAnalyzer, filename, err)
	}

	if err := s.transition(StateEmitting); err != nil {
		return false, s.fail(KindIO, filename, err)
	}
	if err := s.sink.Write(protocol.CompletedFor(req)); err != nil {
		return false, s.fail(KindIO, filename, err)
	}
	if err := s.sink.Flush(); err != nil {
		return false, s.fail(KindIO, filename, err)
	}

	s.requests.Add(1)
	s.records.Add(uint64(counter.n))
	s.payloadBytes.Add(uint64(len(payload)))
	elapsed := time.Since(started)
	s.observer.RequestServed(req.Command(), len(payload), counter.n, elapsed)
	s.log.Debug().
		Str("command", req.Command()).
		Str("filename", filename).
		Int("size", len(payload)).
		Int("records", counter.n).
		Dur("duration", elapsed).
		Msg("request completed")

	if err := s.transition(StateAwaitingRequest); err != nil {
		return false, s.fail(KindIO, filename, err)
	}
	return false, nil
}

func (s *Session) dispatch(req protocol.Request, payload []byte, out Emitter) error {
	switch r := req.(type) {
	case protocol.GenerateTags:
		if s.analyzer == nil {
			return nil
		}
		return s.analyzer.Analyze(r.Filename, payload, out)
	default:
		return fmt.Errorf("%w: %s", ErrUnhandledRequest, req.Variant())
	}
}

func (s *Session) transition(to State) error {
	if !isAllowedTransition(s.state, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s.state, to)
	}
	s.log.Trace().Str("from", s.state.String()).Str("to", to.String()).Msg("session transition")
	s.state = to
	return nil
}

// fail drops any output of the in-flight request and closes the session.
func (s *Session) fail(kind Kind, filename string, err error) error {
	s.sink.Discard()
	s.state = StateClosed
	s.observer.RequestFailed(kind)
	fatal := &FatalError{
		Kind:     kind,
		Request:  s.current,
		Filename: filename,
		Err:      err,
	}
	s.log.Error().
		Err(err).
		Str("kind", kind.String()).
		Uint64("request", fatal.Request).
		Str("filename", filename).
		Msg("session failed")
	return fatal
}

type countingEmitter struct {
	sink *Sink
	n    int
}

func (c *countingEmitter) Emit(msg protocol.Message) error {
	if err := c.sink.Write(msg); err != nil {
		return err
	}
	c.n++
	return nil
}
