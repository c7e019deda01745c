package tags

import (
	"bytes"
	"strings"
)

const VariantTag = "Tag"

// Tag is one definition found in a file. Field names follow the
// universal-ctags JSON output.
type Tag struct {
	Name      string `json:"name"`
	Path      string `json:"path"`
	Language  string `json:"language"`
	Line      int    `json:"line"`
	Kind      string `json:"kind"`
	Pattern   string `json:"pattern,omitempty"`
	Scope     string `json:"scope,omitempty"`
	ScopeKind string `json:"scopeKind,omitempty"`
	Signature string `json:"signature,omitempty"`
}

func (Tag) Variant() string { return VariantTag }

// sourceLines indexes content by 1-based line number.
type sourceLines [][]byte

func splitLines(content []byte) sourceLines {
	return bytes.Split(content, []byte{'\n'})
}

// pattern returns the ctags search pattern for line n, or "" when n is out
// of range.
func (l sourceLines) pattern(n int) string {
	if n < 1 || n > len(l) {
		return ""
	}
	text := strings.TrimSuffix(string(l[n-1]), "\r")
	text = strings.ReplaceAll(text, `\`, `\\`)
	text = strings.ReplaceAll(text, `/`, `\/`)
	return "/^" + text + "$/"
}
