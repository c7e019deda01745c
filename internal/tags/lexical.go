package tags

import (
	"strings"
	"unicode"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
)

// declarationKinds maps a declaring keyword to the kind of the name that
// follows it.
var declarationKinds = map[string]string{
	"def":       "function",
	"defn":      "function",
	"fn":        "function",
	"fun":       "function",
	"func":      "function",
	"function":  "function",
	"proc":      "function",
	"sub":       "function",
	"class":     "class",
	"struct":    "struct",
	"union":     "union",
	"enum":      "enum",
	"trait":     "trait",
	"interface": "interface",
	"protocol":  "protocol",
	"object":    "object",
	"module":    "module",
	"mod":       "module",
	"namespace": "namespace",
	"package":   "package",
	"type":      "type",
	"typedef":   "type",
	"macro":     "macro",
}

// LexicalTagger finds definitions in any language chroma can lex by taking
// the first name token after a declaring keyword.
type LexicalTagger struct {
	match func(filename string) chroma.Lexer
}

func NewLexicalTagger() *LexicalTagger {
	return &LexicalTagger{match: lexers.Match}
}

func (t *LexicalTagger) Language(filename string) string {
	lexer := t.match(filename)
	if lexer == nil {
		return ""
	}
	return lexer.Config().Name
}

func (t *LexicalTagger) Tag(filename string, content []byte, emit func(Tag) error) error {
	lexer := t.match(filename)
	if lexer == nil {
		return nil
	}
	language := lexer.Config().Name
	it, err := lexer.Tokenise(nil, string(content))
	if err != nil {
		return err
	}

	lines := splitLines(content)
	line := 1
	pending := ""
	for tok := it(); tok != chroma.EOF; tok = it() {
		value := tok.Value
		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			line += strings.Count(value, "\n")
			continue
		}
		at := line + strings.Count(value[:strings.Index(value, trimmed)], "\n")

		switch {
		case pending != "" && tok.Type.InCategory(chroma.Name) && isIdentifier(trimmed):
			if err := emit(Tag{
				Name:     trimmed,
				Path:     filename,
				Language: language,
				Line:     at,
				Kind:     pending,
				Pattern:  lines.pattern(at),
			}); err != nil {
				return err
			}
			pending = ""
		case tok.Type.InCategory(chroma.Keyword):
			pending = declarationKinds[trimmed]
		default:
			pending = ""
		}
		line += strings.Count(value, "\n")
	}
	return nil
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || r == '$' || unicode.IsLetter(r):
		case unicode.IsDigit(r) || r == '.' || r == ':' || r == '!' || r == '?':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
