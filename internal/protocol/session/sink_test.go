package session

import (
	"bytes"
	"errors"
	"testing"

	"github.com/danmuck/ctagd/internal/protocol"
)

type countingWriter struct {
	bytes.Buffer
	writes int
	err    error
}

func (w *countingWriter) Write(p []byte) (int, error) {
	w.writes++
	if w.err != nil {
		return 0, w.err
	}
	return w.Buffer.Write(p)
}

func TestSinkFlushWritesOnceAndResetsPending(t *testing.T) {
	dst := &countingWriter{}
	sink := NewSink(dst)
	if err := sink.Write(protocol.Program{Name: "ctagd", Version: "0.1.0"}); err != nil {
		t.Fatalf("write program: %v", err)
	}
	sink.Newline()
	if err := sink.Write(protocol.Completed{Command: protocol.CommandGenerateTags}); err != nil {
		t.Fatalf("write completed: %v", err)
	}
	if sink.Pending() != 2 {
		t.Fatalf("unexpected pending count: %d", sink.Pending())
	}
	if dst.writes != 0 {
		t.Fatalf("destination written before flush")
	}

	if err := sink.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if dst.writes != 1 {
		t.Fatalf("expected a single write, got %d", dst.writes)
	}
	want := `{"Program":{"name":"ctagd","version":"0.1.0"}}` + "\n\n" + `{"Completed":{"command":"generate-tags"}}` + "\n"
	if dst.String() != want {
		t.Fatalf("unexpected output: %q", dst.String())
	}
	if sink.Pending() != 0 {
		t.Fatalf("pending not reset after flush: %d", sink.Pending())
	}

	if err := sink.Flush(); err != nil || dst.writes != 1 {
		t.Fatalf("empty flush must not write: err=%v writes=%d", err, dst.writes)
	}
}

func TestSinkDiscardDropsPendingOutput(t *testing.T) {
	dst := &countingWriter{}
	sink := NewSink(dst)
	if err := sink.Write(protocol.Completed{Command: protocol.CommandGenerateTags}); err != nil {
		t.Fatalf("write: %v", err)
	}
	sink.Discard()
	if sink.Pending() != 0 {
		t.Fatalf("pending not reset after discard: %d", sink.Pending())
	}
	if err := sink.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if dst.writes != 0 || dst.Len() != 0 {
		t.Fatalf("discarded output reached destination: %q", dst.String())
	}
}

func TestSinkFlushErrorStillEmptiesBuffer(t *testing.T) {
	boom := errors.New("pipe closed")
	dst := &countingWriter{err: boom}
	sink := NewSink(dst)
	if err := sink.Write(protocol.Completed{Command: protocol.CommandGenerateTags}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := sink.Flush(); !errors.Is(err, boom) {
		t.Fatalf("expected write error, got %v", err)
	}
	if sink.Pending() != 0 {
		t.Fatalf("pending not reset after failed flush: %d", sink.Pending())
	}
}

func TestSinkWriteNilMessage(t *testing.T) {
	sink := NewSink(&countingWriter{})
	if err := sink.Write(nil); !errors.Is(err, protocol.ErrNilMessage) {
		t.Fatalf("expected ErrNilMessage, got %v", err)
	}
	if sink.Pending() != 0 {
		t.Fatalf("failed write must not count as pending")
	}
}
