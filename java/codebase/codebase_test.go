package codebase

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/dhamidi/caret/classpath"
	"github.com/dhamidi/caret/java"
)

const docURI = "file:///work/src/main/java/p/X.java"

type failingLookup struct{ err error }

func (l failingLookup) View() (java.ClassIndex, error) {
	return nil, l.err
}

// countingLookup records how many snapshots were taken from lookup.
type countingLookup struct {
	lookup java.ClassLookup
	views  int
}

func (l *countingLookup) View() (java.ClassIndex, error) {
	l.views++
	return l.lookup.View()
}

func libraryStore(t *testing.T) *classpath.Store {
	t.Helper()
	s := classpath.NewStore(classpath.StaleBlock)
	for i, src := range []string{
		"package java.util; public interface List { int size(); }",
		"package java.util; public class ArrayList implements List { public int size() { return 0; } }",
		"package java.util.concurrent; public interface Future {}",
		"package java.io; public class File {}",
	} {
		origin := java.ArchiveOrigin("rt.jar", "entry"+string(rune('0'+i))+".class")
		s.Add(java.ClassModelsFromSource([]byte(src), origin)...)
	}
	return s
}

func labels(items []Item) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.Label
	}
	return out
}

func TestOffset(t *testing.T) {
	content := []byte("ab\néx\n\U0001F600y\r\nz")
	tests := []struct {
		line, char uint32
		want       int
	}{
		{0, 0, 0},
		{0, 2, 2},
		{0, 10, 2},
		{1, 1, 5},
		{1, 2, 6},
		{2, 2, 11},
		{2, 3, 12},
		{2, 9, 12},
		{3, 0, 14},
		{3, 1, 15},
		{7, 0, len(content)},
	}
	for _, tt := range tests {
		if got := Offset(content, tt.line, tt.char); got != tt.want {
			t.Errorf("Offset(%d, %d) = %d, want %d", tt.line, tt.char, got, tt.want)
		}
	}
}

func TestUriToPath(t *testing.T) {
	assert.Equal(t, "/work/src/A.java", uriToPath("file:///work/src/A.java"))
	assert.Equal(t, "/work/my dir/A.java", uriToPath("file:///work/my%20dir/A.java"))
	assert.Equal(t, "untitled:1", uriToPath("untitled:1"))
}

func TestDocumentLifecycle(t *testing.T) {
	cb := New(classpath.NewStore(classpath.StaleBlock))
	cb.Open(docURI, 1, "class X {}")

	doc, ok := cb.Document(docURI)
	require.True(t, ok)
	assert.Equal(t, "/work/src/main/java/p/X.java", doc.Path)

	cb.Update(docURI, 3, "class X { int a; }")
	cb.Update(docURI, 2, "class X { int stale; }")
	doc, _ = cb.Document(docURI)
	assert.Equal(t, int32(3), doc.Version)
	assert.Equal(t, "class X { int a; }", string(doc.Content))

	cb.Close(docURI)
	assert.Equal(t, 0, cb.Len())
	_, err := cb.Complete(docURI, 0, 0)
	assert.True(t, errors.Is(err, ErrNotOpen))
}

const symbolsDoc = `package p;

class X {
  int count;
  String name;
  int size() { return 0; }
  void f(int n) {
    count = co;
  }
}
`

func TestCompleteExpectedFirst(t *testing.T) {
	cb := New(classpath.NewStore(classpath.StaleBlock))
	cb.Open(docURI, 1, symbolsDoc)

	// before "co"
	items, err := cb.Complete(docURI, 7, 12)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(items), 7)
	assert.Equal(t, []string{"n", "count", "size", "hashCode", "f", "name", "X"}, labels(items)[:7])
	for _, item := range items[:4] {
		assert.True(t, item.Expected, item.Label)
	}
	for _, item := range items[4:] {
		assert.False(t, item.Expected, item.Label)
	}

	f := items[4]
	assert.Equal(t, ItemMethod, f.Kind)
	assert.Equal(t, "void f(int)", f.Detail)
	assert.Equal(t, "f(${1:int})", f.InsertText)
	assert.True(t, f.Snippet)

	size := items[2]
	assert.Equal(t, "size()", size.InsertText)
	assert.False(t, size.Snippet)

	assert.Equal(t, ItemVariable, items[0].Kind)
	assert.Equal(t, ItemField, items[1].Kind)
	assert.Equal(t, "java.lang.String", items[5].Detail)
	assert.Equal(t, ItemClass, items[6].Kind)
}

func TestCompletePrefix(t *testing.T) {
	cb := New(classpath.NewStore(classpath.StaleBlock))
	cb.Open(docURI, 1, symbolsDoc)

	// after "co"
	items, err := cb.Complete(docURI, 7, 14)
	require.NoError(t, err)
	assert.Equal(t, []string{"count"}, labels(items))
	assert.True(t, items[0].Expected)

	// inside "co", only the part before the caret filters
	items, err = cb.Complete(docURI, 7, 13)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"count", "clone"}, labels(items))
}

func TestCompleteImport(t *testing.T) {
	cb := New(libraryStore(t))
	cb.Open(docURI, 1, "import java.util.;\nclass X {}\n")

	items, err := cb.Complete(docURI, 0, 17)
	require.NoError(t, err)
	assert.Equal(t, []string{"concurrent", "ArrayList", "List"}, labels(items))
	assert.Equal(t, ItemPackage, items[0].Kind)
	assert.Equal(t, ItemClass, items[1].Kind)
	assert.Equal(t, ItemInterface, items[2].Kind)

	cb.Update(docURI, 2, "import j;\nclass X {}\n")
	items, err = cb.Complete(docURI, 0, 8)
	require.NoError(t, err)
	assert.Equal(t, []string{"java"}, labels(items))
}

func TestCompleteConstructor(t *testing.T) {
	cb := New(libraryStore(t))
	cb.Open(docURI, 1, "package p;\nclass X { Object o = new Ar; }\n")

	items, err := cb.Complete(docURI, 1, 27)
	require.NoError(t, err)
	assert.Equal(t, []string{"ArrayList"}, labels(items))
	assert.Equal(t, "java.util.ArrayList", items[0].Detail)
}

func TestCompleteTakesOneSnapshot(t *testing.T) {
	lookup := &countingLookup{lookup: libraryStore(t)}
	cb := New(lookup)
	cb.Open(docURI, 1, "import java.util.;\nclass X {}\n")

	items, err := cb.Complete(docURI, 0, 17)
	require.NoError(t, err)
	assert.Equal(t, []string{"concurrent", "ArrayList", "List"}, labels(items))
	assert.Equal(t, 1, lookup.views)

	cb.Update(docURI, 2, "package p;\nclass X { Object o = new Ar; }\n")
	items, err = cb.Complete(docURI, 1, 27)
	require.NoError(t, err)
	assert.Equal(t, []string{"ArrayList"}, labels(items))
	assert.Equal(t, 2, lookup.views)
}

func TestCompleteAfterDot(t *testing.T) {
	cb := New(libraryStore(t))
	cb.Open(docURI, 1, "class X { void f(String s) { s.le; } }")

	items, err := cb.Complete(docURI, 0, 33)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestCompleteInsideString(t *testing.T) {
	cb := New(libraryStore(t))
	cb.Open(docURI, 1, `class X { String s = "abc"; }`)

	items, err := cb.Complete(docURI, 0, 23)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestCompletionHandlerStale(t *testing.T) {
	ls := NewLSPServer("test", "")
	ls.codebase = New(failingLookup{err: classpath.ErrStale})
	ls.codebase.Open(docURI, 1, "class X { | }")

	params := &protocol.CompletionParams{}
	params.TextDocument.URI = docURI
	params.Position = protocol.Position{Line: 0, Character: 10}

	result, err := ls.textDocumentCompletion(nil, params)
	require.NoError(t, err)
	list, ok := result.(protocol.CompletionList)
	require.True(t, ok)
	assert.True(t, list.IsIncomplete)
	assert.Empty(t, list.Items)

	params.TextDocument.URI = "file:///not/open.java"
	result, err = ls.textDocumentCompletion(nil, params)
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestToProtocolItems(t *testing.T) {
	items := toProtocolItems([]Item{
		{Label: "f", Kind: ItemMethod, Detail: "void f(int)", InsertText: "f(${1:int})", Snippet: true, Expected: true},
		{Label: "java", Kind: ItemPackage, InsertText: "java"},
	})
	require.Len(t, items, 2)

	assert.Equal(t, protocol.CompletionItemKindMethod, *items[0].Kind)
	assert.Equal(t, protocol.InsertTextFormatSnippet, *items[0].InsertTextFormat)
	assert.Equal(t, "void f(int)", *items[0].Detail)
	assert.Equal(t, "00000", *items[0].SortText)
	require.NotNil(t, items[0].Preselect)
	assert.True(t, *items[0].Preselect)

	assert.Equal(t, protocol.CompletionItemKindModule, *items[1].Kind)
	assert.Equal(t, protocol.InsertTextFormatPlainText, *items[1].InsertTextFormat)
	assert.Nil(t, items[1].Detail)
	assert.Equal(t, "00001", *items[1].SortText)
}

func TestServerStaleBeforeFirstLoad(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "caret.yaml"), []byte("stale_mode: fail\nwatch: false\n"), 0o644))

	ls := NewLSPServer("test", "")
	rootURI := "file://" + root
	_, err := ls.initialize(nil, &protocol.InitializeParams{RootURI: &rootURI})
	require.NoError(t, err)

	_, err = ls.store.View()
	assert.True(t, errors.Is(err, classpath.ErrStale))

	ls.Codebase().Open(docURI, 1, "class X { | }")
	params := &protocol.CompletionParams{}
	params.TextDocument.URI = docURI
	params.Position = protocol.Position{Line: 0, Character: 10}
	result, err := ls.textDocumentCompletion(nil, params)
	require.NoError(t, err)
	list, ok := result.(protocol.CompletionList)
	require.True(t, ok)
	assert.True(t, list.IsIncomplete)
	assert.Empty(t, list.Items)

	require.NoError(t, ls.initialized(nil, &protocol.InitializedParams{}))
	require.Eventually(t, func() bool {
		_, err := ls.store.View()
		return err == nil
	}, 5*time.Second, 10*time.Millisecond)
	require.NoError(t, ls.shutdown(nil))
}

func TestServerLoadsWorkspace(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "caret.yaml"), []byte("sourcepath: [src]\nwatch: false\n"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src", "p"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "src", "p", "Base.java"),
		[]byte("package p; public class Base { protected long total; }"), 0o644))

	ls := NewLSPServer("test", "")
	rootURI := "file://" + root
	result, err := ls.initialize(nil, &protocol.InitializeParams{RootURI: &rootURI})
	require.NoError(t, err)
	res, ok := result.(protocol.InitializeResult)
	require.True(t, ok)
	assert.Equal(t, "caret", res.ServerInfo.Name)
	require.NotNil(t, res.Capabilities.CompletionProvider)
	assert.Equal(t, []string{"."}, res.Capabilities.CompletionProvider.TriggerCharacters)
	assert.Equal(t, classpath.StaleBlock, ls.store.Mode())

	require.NoError(t, ls.initialized(nil, &protocol.InitializedParams{}))
	require.Eventually(t, func() bool {
		index, err := ls.store.View()
		return err == nil && index.FindClass("p.Base") != nil
	}, 5*time.Second, 10*time.Millisecond)

	uri := "file://" + filepath.Join(root, "src", "p", "X.java")
	open := &protocol.DidOpenTextDocumentParams{}
	open.TextDocument.URI = uri
	open.TextDocument.Version = 1
	open.TextDocument.Text = "package p;\nclass X extends Base { void f() { long v = tot; } }\n"
	require.NoError(t, ls.textDocumentDidOpen(nil, open))

	params := &protocol.CompletionParams{}
	params.TextDocument.URI = uri
	params.Position = protocol.Position{Line: 1, Character: 46}
	result, err = ls.textDocumentCompletion(nil, params)
	require.NoError(t, err)
	list, ok := result.(protocol.CompletionList)
	require.True(t, ok)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "total", list.Items[0].Label)
	assert.Equal(t, "long", *list.Items[0].Detail)

	closeParams := &protocol.DidCloseTextDocumentParams{}
	closeParams.TextDocument.URI = uri
	require.NoError(t, ls.textDocumentDidClose(nil, closeParams))
	assert.Equal(t, 0, ls.Codebase().Len())

	require.NoError(t, ls.shutdown(nil))
}
