package frame

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/danmuck/ctagd/internal/protocol"
)

var (
	ErrTruncatedPayload = errors.New("frame: truncated payload")
	ErrPayloadTooLarge  = errors.New("frame: payload too large")
	ErrLineTooLong      = fmt.Errorf("%w: request line too long", protocol.ErrMalformedRequest)
)

// payloadChunk caps the up-front allocation for a declared payload.
const payloadChunk = 1 << 20

// Limits constrains request line and payload memory use. Zero disables a
// limit.
type Limits struct {
	MaxLineBytes    uint64
	MaxPayloadBytes uint64
}

func DefaultLimits() Limits {
	return Limits{
		MaxLineBytes:    128 * 1024,
		MaxPayloadBytes: 0,
	}
}

// TruncatedError reports how much of a declared payload arrived before the
// stream ended.
type TruncatedError struct {
	Declared uint64
	Received uint64
}

func (e *TruncatedError) Error() string {
	return fmt.Sprintf("frame: truncated payload: declared=%d received=%d", e.Declared, e.Received)
}

func (e *TruncatedError) Is(target error) bool {
	return target == ErrTruncatedPayload
}

// ReadLine reads one request line including its terminator. io.EOF with no
// bytes read marks a clean end of stream. A final line without a terminator
// is returned as-is.
func ReadLine(r *bufio.Reader, limits Limits) ([]byte, error) {
	var line []byte
	for {
		chunk, err := r.ReadSlice('\n')
		line = append(line, chunk...)
		if limits.MaxLineBytes > 0 && uint64(len(line)) > limits.MaxLineBytes {
			return nil, ErrLineTooLong
		}
		switch {
		case err == nil:
			return line, nil
		case errors.Is(err, bufio.ErrBufferFull):
			continue
		case errors.Is(err, io.EOF):
			if len(line) == 0 {
				return nil, io.EOF
			}
			return line, nil
		default:
			return nil, err
		}
	}
}

// ReadPayload reads exactly size raw bytes from r. Line terminators inside
// the payload carry no meaning.
func ReadPayload(r io.Reader, size uint64, limits Limits) ([]byte, error) {
	if limits.MaxPayloadBytes > 0 && size > limits.MaxPayloadBytes {
		return nil, fmt.Errorf("%w: declared=%d max=%d", ErrPayloadTooLarge, size, limits.MaxPayloadBytes)
	}
	if size > math.MaxInt64 {
		return nil, fmt.Errorf("%w: declared=%d", ErrPayloadTooLarge, size)
	}
	var buf bytes.Buffer
	buf.Grow(int(min(size, payloadChunk)))
	n, err := io.CopyN(&buf, r, int64(size))
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &TruncatedError{Declared: size, Received: uint64(n)}
		}
		return nil, err
	}
	return buf.Bytes(), nil
}
