// Package tags turns source files into ctags-style definition records.
//
// A Registry picks a Tagger by file extension, falling back to a lexical
// tagger driven by chroma lexers for anything without a dedicated parser.
// Registry satisfies session.Analyzer.
package tags
