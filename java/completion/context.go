// Package completion works out what is being completed at a caret in a
// Java source file: the token under the caret, where it sits in the
// grammar, which types it should have and which names are in scope.
package completion

import (
	"time"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/caret/java"
	"github.com/dhamidi/caret/java/parser"
)

var log = commonlog.GetLogger("caret.completion")

type Options struct {
	// UseExtendedContext enables the semantic pass that visible symbols
	// need.
	UseExtendedContext    bool
	IncludeEnclosing      bool
	IncludeVisibleSymbols bool
	// ExpectedTypeFilter, when set, keeps only the visible symbols whose
	// type is assignable to it.
	ExpectedTypeFilter java.Signature
	// File is the path the source was read from. It names the
	// compilation unit and is the origin of its declarations.
	File string
}

// Context is the result of one query.
type Context struct {
	Offset   int
	Token    Token
	Location Location
	// Expected is nil when nothing constrains the type at the caret.
	Expected  []java.Signature
	Enclosing *java.Handle
	// Visible holds the visible symbols when they were requested.
	// VisibleErr is ErrUnsupported when they were requested without
	// extended context.
	Visible    []Entry
	VisibleErr error
	// Index is the class index snapshot the query was resolved against,
	// or nil without a lookup.
	Index java.ClassIndex
}

// TokenText returns the text of the token, or nil when no token could be
// completed at the caret.
func (c *Context) TokenText() *string {
	if c.Token.Kind == TokenUnknown {
		return nil
	}
	text := c.Token.Text
	return &text
}

// Resolve analyzes source at offset. Malformed source is never an error:
// the only error returned is the one the class lookup reports when its
// index is not available.
func Resolve(lookup java.ClassLookup, source []byte, offset int, opts Options) (*Context, error) {
	start := time.Now()

	var base java.ClassIndex
	if lookup != nil {
		index, err := lookup.View()
		if err != nil {
			staleTotal.Inc()
			return nil, err
		}
		base = index
	}

	if offset < 0 {
		offset = 0
	}
	if offset > len(source) {
		offset = len(source)
	}

	tok := ScanToken(source, parser.Tokenize(source, opts.File), offset)
	unit, tokens := parser.Parse(source, parser.WithFile(opts.File))
	file := java.NewSourceFile(unit, java.SourceOrigin(opts.File), base)
	e := newEnv(file, tokens)

	ctx := &Context{Offset: offset, Token: tok, Index: base}
	switch tok.Kind {
	case TokenName:
		ctx.Location = e.classify(e.path(tok.Start), tok.Start)
		ctx.Expected = e.expected(tok.Start)
	case TokenStringLiteral:
		ctx.Expected = []java.Signature{java.SigString}
	}

	pos := anchor(tok, offset)
	if opts.IncludeEnclosing {
		h := e.enclosing(pos)
		ctx.Enclosing = &h
	}
	if opts.IncludeVisibleSymbols {
		if opts.UseExtendedContext {
			ctx.Visible = e.visible(pos, opts.ExpectedTypeFilter)
		} else {
			ctx.VisibleErr = ErrUnsupported
		}
	}

	recordQuery(ctx.Location, start)
	log.Debugf("offset %d: %s %q at %s, expected %v", offset, tok.Kind, tok.Text, ctx.Location, ctx.Expected)
	return ctx, nil
}

// enclosing returns the handle of the innermost named declaration around
// pos, or the compilation unit.
func (e *env) enclosing(pos int) java.Handle {
	path := e.path(pos)
	frames := e.frames(path)
	for i := len(path) - 1; i >= 0; i-- {
		n := path[i]
		switch {
		case n.Kind == parser.KindMethodDecl, n.Kind == parser.KindConstructorDecl:
			if _, h, ok := e.file.MethodOf(n); ok {
				return h
			}
		case n.Kind == parser.KindInitializer:
			if h, ok := e.file.InitializerOf(n); ok {
				return h
			}
		case n.Kind == parser.KindVariable && frames[i].owner == n:
			if h, ok := e.ownerHandle(frames[i]); ok {
				return h
			}
		case n.Kind.IsTypeDecl():
			if c := e.file.ClassOf(n); c != nil {
				return c.TypeHandle()
			}
		}
	}
	return e.file.CompilationUnitHandle()
}
