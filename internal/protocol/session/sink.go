package session

import (
	"bytes"
	"io"

	"github.com/danmuck/ctagd/internal/protocol"
)

type flusher interface {
	Flush() error
}

// Sink buffers one request's output and hands it to the destination in a
// single write on Flush. The destination is never written anywhere else.
type Sink struct {
	dst     io.Writer
	buf     bytes.Buffer
	pending int
}

func NewSink(dst io.Writer) *Sink {
	return &Sink{dst: dst}
}

// Write appends the encoded message to the pending buffer.
func (s *Sink) Write(msg protocol.Message) error {
	line, err := protocol.Marshal(msg)
	if err != nil {
		return err
	}
	s.buf.Write(line)
	s.pending++
	return nil
}

// Newline appends an empty line.
func (s *Sink) Newline() {
	s.buf.WriteByte('\n')
}

// Pending reports how many messages are buffered and not yet flushed.
func (s *Sink) Pending() int {
	return s.pending
}

// Flush writes everything buffered and flushes the destination when it is
// itself buffered. The buffer is empty afterwards even on error.
func (s *Sink) Flush() error {
	defer s.Discard()
	if s.buf.Len() > 0 {
		if _, err := s.dst.Write(s.buf.Bytes()); err != nil {
			return err
		}
	}
	if f, ok := s.dst.(flusher); ok {
		return f.Flush()
	}
	return nil
}

// Discard drops unflushed output.
func (s *Sink) Discard() {
	s.buf.Reset()
	s.pending = 0
}
