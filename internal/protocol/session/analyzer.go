package session

import "github.com/danmuck/ctagd/internal/protocol"

// Emitter accepts output records in production order.
type Emitter interface {
	Emit(msg protocol.Message) error
}

// Analyzer turns one file's content into zero or more output records.
// A returned error is fatal to the session.
type Analyzer interface {
	Analyze(filename string, content []byte, out Emitter) error
}

// AnalyzerFunc adapts a function to Analyzer.
type AnalyzerFunc func(filename string, content []byte, out Emitter) error

func (f AnalyzerFunc) Analyze(filename string, content []byte, out Emitter) error {
	return f(filename, content, out)
}
