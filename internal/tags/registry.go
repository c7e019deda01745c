package tags

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/danmuck/ctagd/internal/protocol/session"
)

var (
	ErrTaggerNil        = errors.New("tags: tagger is nil")
	ErrExtensionTaken   = errors.New("tags: extension already registered")
	ErrInvalidExtension = errors.New("tags: invalid extension")
)

// Tagger extracts tags from one language.
type Tagger interface {
	// Language names the language of filename, or "" when unsupported.
	Language(filename string) string
	Tag(filename string, content []byte, emit func(Tag) error) error
}

// Options selects which taggers DefaultRegistry installs.
type Options struct {
	LexicalFallback   bool
	DisabledLanguages []string
}

// Registry resolves taggers by file extension.
type Registry struct {
	byExt    map[string]Tagger
	fallback Tagger
	disabled map[string]struct{}
}

var _ session.Analyzer = (*Registry)(nil)

func NewRegistry() *Registry {
	return &Registry{
		byExt:    make(map[string]Tagger),
		disabled: make(map[string]struct{}),
	}
}

// DefaultRegistry wires the Go parser for .go files and, optionally, the
// chroma lexical tagger for everything else.
func DefaultRegistry(opts Options) (*Registry, error) {
	r := NewRegistry()
	if err := r.Register(GoTagger{}, ".go"); err != nil {
		return nil, err
	}
	if opts.LexicalFallback {
		r.SetFallback(NewLexicalTagger())
	}
	for _, lang := range opts.DisabledLanguages {
		r.Disable(lang)
	}
	return r, nil
}

// Register binds t to each extension (leading dot, case-insensitive).
func (r *Registry) Register(t Tagger, exts ...string) error {
	if t == nil {
		return ErrTaggerNil
	}
	for _, ext := range exts {
		key := normalizeExt(ext)
		if key == "" {
			return fmt.Errorf("%w: %q", ErrInvalidExtension, ext)
		}
		if _, ok := r.byExt[key]; ok {
			return fmt.Errorf("%w: %s", ErrExtensionTaken, key)
		}
		r.byExt[key] = t
	}
	return nil
}

func (r *Registry) SetFallback(t Tagger) {
	r.fallback = t
}

// Disable suppresses tags for a language name, matched case-insensitively.
func (r *Registry) Disable(language string) {
	key := strings.ToLower(strings.TrimSpace(language))
	if key == "" {
		return
	}
	r.disabled[key] = struct{}{}
}

// Resolve returns the tagger and language for filename.
func (r *Registry) Resolve(filename string) (Tagger, string, bool) {
	if t, ok := r.byExt[normalizeExt(filepath.Ext(filename))]; ok {
		if lang := t.Language(filename); lang != "" {
			return t, lang, true
		}
	}
	if r.fallback != nil {
		if lang := r.fallback.Language(filename); lang != "" {
			return r.fallback, lang, true
		}
	}
	return nil, "", false
}

// Extensions returns the registered extensions in sorted order.
func (r *Registry) Extensions() []string {
	out := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}

// Analyze emits the tags of one file in source order. Unknown and disabled
// languages yield no tags.
func (r *Registry) Analyze(filename string, content []byte, out session.Emitter) error {
	t, lang, ok := r.Resolve(filename)
	if !ok {
		return nil
	}
	if _, off := r.disabled[strings.ToLower(lang)]; off {
		return nil
	}
	return t.Tag(filename, content, func(tag Tag) error {
		return out.Emit(tag)
	})
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext == "" || ext == "." {
		return ""
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
