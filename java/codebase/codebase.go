package codebase

import (
	"bytes"
	"net/url"
	"path/filepath"
	"strings"
	"unicode/utf8"

	cmap "github.com/orcaman/concurrent-map/v2"
	"github.com/pkg/errors"

	"github.com/dhamidi/caret/java"
	"github.com/dhamidi/caret/java/completion"
)

// ErrNotOpen is returned for queries on documents the client never
// opened.
var ErrNotOpen = errors.New("document is not open")

// Codebase holds the documents open in the editor and answers completion
// queries over them against a shared class index.
type Codebase struct {
	lookup java.ClassLookup
	docs   cmap.ConcurrentMap[string, *Document]
}

// Document is one open file. Content is replaced whole on every change.
type Document struct {
	URI     string
	Path    string
	Version int32
	Content []byte
}

func New(lookup java.ClassLookup) *Codebase {
	return &Codebase{
		lookup: lookup,
		docs:   cmap.New[*Document](),
	}
}

func (c *Codebase) Open(uri string, version int32, text string) {
	c.docs.Set(uri, &Document{
		URI:     uri,
		Path:    uriToPath(uri),
		Version: version,
		Content: []byte(text),
	})
}

// Update replaces the content of uri. Updates older than what is
// already stored are dropped.
func (c *Codebase) Update(uri string, version int32, text string) {
	c.docs.Upsert(uri, nil, func(exist bool, old, _ *Document) *Document {
		if exist && old.Version > version {
			return old
		}
		return &Document{
			URI:     uri,
			Path:    uriToPath(uri),
			Version: version,
			Content: []byte(text),
		}
	})
}

func (c *Codebase) Close(uri string) {
	c.docs.Remove(uri)
}

func (c *Codebase) Document(uri string) (*Document, bool) {
	return c.docs.Get(uri)
}

// Len returns the number of open documents.
func (c *Codebase) Len() int {
	return c.docs.Count()
}

// Resolve runs a completion query with extended context at the given
// zero based line and UTF-16 character of uri.
func (c *Codebase) Resolve(uri string, line, character uint32) (*completion.Context, error) {
	doc, ok := c.docs.Get(uri)
	if !ok {
		return nil, errors.Wrap(ErrNotOpen, uri)
	}
	return completion.Resolve(c.lookup, doc.Content, Offset(doc.Content, line, character), completion.Options{
		UseExtendedContext:    true,
		IncludeEnclosing:      true,
		IncludeVisibleSymbols: true,
		File:                  doc.Path,
	})
}

// Offset converts an LSP position to a byte offset into content. Lines
// past the end map to the end of content and characters past the end of
// a line map to its line break.
func Offset(content []byte, line, character uint32) int {
	offset := 0
	for l := uint32(0); l < line; l++ {
		i := bytes.IndexByte(content[offset:], '\n')
		if i < 0 {
			return len(content)
		}
		offset += i + 1
	}

	for units := uint32(0); units < character && offset < len(content); {
		r, size := utf8.DecodeRune(content[offset:])
		if r == '\n' || r == '\r' {
			break
		}
		if r >= 0x10000 {
			units += 2
		} else {
			units++
		}
		offset += size
	}
	return offset
}

func uriToPath(uri string) string {
	if strings.HasPrefix(uri, "file://") {
		parsed, err := url.Parse(uri)
		if err != nil {
			return uri
		}
		return filepath.Clean(parsed.Path)
	}
	return uri
}
