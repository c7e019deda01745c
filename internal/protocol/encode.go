package protocol

import (
	"encoding/json"
	"io"
)

// Marshal encodes msg as {"<variant>":<body>} followed by a newline.
func Marshal(msg Message) ([]byte, error) {
	if msg == nil {
		return nil, ErrNilMessage
	}
	payload, err := json.Marshal(map[string]Message{msg.Variant(): msg})
	if err != nil {
		return nil, err
	}
	return append(payload, '\n'), nil
}

// Encode writes msg to w as one line.
func Encode(w io.Writer, msg Message) error {
	payload, err := Marshal(msg)
	if err != nil {
		return err
	}
	if _, err := w.Write(payload); err != nil {
		return err
	}
	return nil
}
