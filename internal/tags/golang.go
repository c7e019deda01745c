package tags

import (
	"go/ast"
	"go/parser"
	"go/token"
	"strings"
)

const languageGo = "Go"

// GoTagger tags Go files from the standard library parser. A file with
// syntax errors still yields tags for whatever parsed.
type GoTagger struct{}

func (GoTagger) Language(string) string { return languageGo }

func (GoTagger) Tag(filename string, content []byte, emit func(Tag) error) error {
	fset := token.NewFileSet()
	file, _ := parser.ParseFile(fset, filename, content, parser.SkipObjectResolution)
	if file == nil || file.Name == nil {
		return nil
	}
	w := &goWalker{
		fset:    fset,
		path:    filename,
		content: content,
		lines:   splitLines(content),
		types:   collectTypeKinds(file),
		emit:    emit,
	}
	return w.file(file)
}

type goWalker struct {
	fset    *token.FileSet
	path    string
	content []byte
	lines   sourceLines
	types   map[string]string
	emit    func(Tag) error
}

func (w *goWalker) file(f *ast.File) error {
	if err := w.tag(f.Name, "package", "", "", ""); err != nil {
		return err
	}
	for _, decl := range f.Decls {
		var err error
		switch d := decl.(type) {
		case *ast.FuncDecl:
			err = w.funcDecl(d)
		case *ast.GenDecl:
			err = w.genDecl(d)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (w *goWalker) funcDecl(d *ast.FuncDecl) error {
	if d.Name == nil {
		return nil
	}
	sig := w.signature(d.Type)
	if d.Recv == nil || len(d.Recv.List) == 0 {
		return w.tag(d.Name, "func", "", "", sig)
	}
	recv := receiverName(d.Recv.List[0].Type)
	if recv == "" {
		return w.tag(d.Name, "func", "", "", sig)
	}
	scopeKind := w.types[recv]
	if scopeKind == "" {
		scopeKind = "type"
	}
	return w.tag(d.Name, "func", recv, scopeKind, sig)
}

func (w *goWalker) genDecl(d *ast.GenDecl) error {
	for _, spec := range d.Specs {
		switch s := spec.(type) {
		case *ast.TypeSpec:
			if err := w.typeSpec(s); err != nil {
				return err
			}
		case *ast.ValueSpec:
			kind := "var"
			if d.Tok == token.CONST {
				kind = "const"
			}
			for _, name := range s.Names {
				if name.Name == "_" {
					continue
				}
				if err := w.tag(name, kind, "", "", ""); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (w *goWalker) typeSpec(s *ast.TypeSpec) error {
	kind := typeKind(s)
	if err := w.tag(s.Name, kind, "", "", ""); err != nil {
		return err
	}
	switch t := s.Type.(type) {
	case *ast.StructType:
		if t.Fields == nil {
			return nil
		}
		for _, field := range t.Fields.List {
			names := field.Names
			if len(names) == 0 {
				if embedded := embeddedIdent(field.Type); embedded != nil {
					names = []*ast.Ident{embedded}
				}
			}
			for _, name := range names {
				if err := w.tag(name, "member", s.Name.Name, kind, ""); err != nil {
					return err
				}
			}
		}
	case *ast.InterfaceType:
		if t.Methods == nil {
			return nil
		}
		for _, method := range t.Methods.List {
			ft, ok := method.Type.(*ast.FuncType)
			if !ok {
				continue
			}
			for _, name := range method.Names {
				if err := w.tag(name, "methodSpec", s.Name.Name, kind, w.signature(ft)); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (w *goWalker) tag(name *ast.Ident, kind, scope, scopeKind, signature string) error {
	if name == nil || name.Name == "" {
		return nil
	}
	line := w.fset.Position(name.Pos()).Line
	return w.emit(Tag{
		Name:      name.Name,
		Path:      w.path,
		Language:  languageGo,
		Line:      line,
		Kind:      kind,
		Pattern:   w.lines.pattern(line),
		Scope:     scope,
		ScopeKind: scopeKind,
		Signature: signature,
	})
}

// signature renders type parameters, parameters and results as written.
func (w *goWalker) signature(ft *ast.FuncType) string {
	if ft == nil {
		return ""
	}
	var b strings.Builder
	if ft.TypeParams != nil {
		b.WriteString(w.text(ft.TypeParams))
	}
	if ft.Params != nil {
		b.WriteString(w.text(ft.Params))
	}
	if ft.Results != nil {
		b.WriteByte(' ')
		b.WriteString(w.text(ft.Results))
	}
	return b.String()
}

func (w *goWalker) text(n ast.Node) string {
	start := w.fset.Position(n.Pos()).Offset
	end := w.fset.Position(n.End()).Offset
	if start < 0 || end > len(w.content) || start >= end {
		return ""
	}
	return strings.Join(strings.Fields(string(w.content[start:end])), " ")
}

func typeKind(s *ast.TypeSpec) string {
	if s.Assign.IsValid() {
		return "talias"
	}
	switch s.Type.(type) {
	case *ast.StructType:
		return "struct"
	case *ast.InterfaceType:
		return "interface"
	default:
		return "type"
	}
}

func collectTypeKinds(f *ast.File) map[string]string {
	out := make(map[string]string)
	for _, decl := range f.Decls {
		gd, ok := decl.(*ast.GenDecl)
		if !ok || gd.Tok != token.TYPE {
			continue
		}
		for _, spec := range gd.Specs {
			if ts, ok := spec.(*ast.TypeSpec); ok && ts.Name != nil {
				out[ts.Name.Name] = typeKind(ts)
			}
		}
	}
	return out
}

func receiverName(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.StarExpr:
		return receiverName(t.X)
	case *ast.ParenExpr:
		return receiverName(t.X)
	case *ast.IndexExpr:
		return receiverName(t.X)
	case *ast.IndexListExpr:
		return receiverName(t.X)
	default:
		return ""
	}
}

func embeddedIdent(expr ast.Expr) *ast.Ident {
	switch t := expr.(type) {
	case *ast.Ident:
		return t
	case *ast.StarExpr:
		return embeddedIdent(t.X)
	case *ast.SelectorExpr:
		return t.Sel
	case *ast.IndexExpr:
		return embeddedIdent(t.X)
	case *ast.IndexListExpr:
		return embeddedIdent(t.X)
	default:
		return nil
	}
}
