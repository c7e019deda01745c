package protocol

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"
)

type requestDecoder func(body json.RawMessage) (Request, error)

var requestDecoders = map[string]requestDecoder{
	VariantGenerateTags: decodeGenerateTags,
}

// KnownRequests returns the request variant names this build decodes.
func KnownRequests() []string {
	out := make([]string, 0, len(requestDecoders))
	for name := range requestDecoders {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// DecodeRequest decodes one request line. A trailing line terminator is
// permitted.
func DecodeRequest(line []byte) (Request, error) {
	line = bytes.TrimSpace(line)
	if len(line) == 0 {
		return nil, fmt.Errorf("%w: empty line", ErrMalformedRequest)
	}

	var env map[string]json.RawMessage
	if err := strictUnmarshal(line, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedRequest, err)
	}
	if len(env) != 1 {
		return nil, fmt.Errorf("%w: expected exactly one variant, got %d", ErrMalformedRequest, len(env))
	}

	for name, body := range env {
		decode, ok := requestDecoders[name]
		if !ok {
			return nil, &UnknownCommandError{Name: name}
		}
		return decode(body)
	}
	return nil, ErrMalformedRequest
}

func decodeGenerateTags(body json.RawMessage) (Request, error) {
	var raw struct {
		Filename *string `json:"filename"`
		Size     *uint64 `json:"size"`
	}
	if err := strictUnmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedRequest, VariantGenerateTags, err)
	}
	if raw.Filename == nil {
		return nil, fmt.Errorf("%w: %s: missing filename", ErrMalformedRequest, VariantGenerateTags)
	}
	if raw.Size == nil {
		return nil, fmt.Errorf("%w: %s: missing size", ErrMalformedRequest, VariantGenerateTags)
	}
	return GenerateTags{Filename: *raw.Filename, Size: *raw.Size}, nil
}

// strictUnmarshal rejects anything after the first JSON value.
func strictUnmarshal(data []byte, out any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(out); err != nil {
		return err
	}
	if _, err := dec.Token(); err != io.EOF {
		return fmt.Errorf("trailing data after message")
	}
	return nil
}
