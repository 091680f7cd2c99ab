package codebase

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/pkg/errors"
	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"github.com/dhamidi/caret/classpath"
	"github.com/dhamidi/caret/config"
)

const lsName = "caret"

var log = commonlog.GetLogger("caret.lsp")

type LSPServer struct {
	handler protocol.Handler
	server  *server.Server
	version string

	// configPath overrides the caret.yaml found from the workspace root.
	configPath string

	mu       sync.Mutex
	config   *config.Config
	store    *classpath.Store
	codebase *Codebase
	watcher  *classpath.Watcher
	cancel   context.CancelFunc
}

func NewLSPServer(version, configPath string) *LSPServer {
	ls := &LSPServer{
		version:    version,
		configPath: configPath,
	}

	ls.handler = protocol.Handler{
		Initialize:             ls.initialize,
		Initialized:            ls.initialized,
		Shutdown:               ls.shutdown,
		SetTrace:               ls.setTrace,
		TextDocumentDidOpen:    ls.textDocumentDidOpen,
		TextDocumentDidChange:  ls.textDocumentDidChange,
		TextDocumentDidClose:   ls.textDocumentDidClose,
		TextDocumentDidSave:    ls.textDocumentDidSave,
		TextDocumentCompletion: ls.textDocumentCompletion,
	}

	ls.server = server.NewServer(&ls.handler, lsName, false)

	return ls
}

func (ls *LSPServer) RunStdio() error {
	return ls.server.RunStdio()
}

// Codebase returns the open documents, or nil before initialize.
func (ls *LSPServer) Codebase() *Codebase {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	return ls.codebase
}

func (ls *LSPServer) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	rootDir := getRootDir()
	if params.RootURI != nil && *params.RootURI != "" {
		rootDir = uriToPath(*params.RootURI)
	} else if params.RootPath != nil && *params.RootPath != "" {
		rootDir = *params.RootPath
	}

	cfg, err := ls.loadConfig(rootDir)
	if err != nil {
		return nil, err
	}

	ls.mu.Lock()
	ls.config = cfg
	ls.store = classpath.NewPendingStore(cfg.StaleMode)
	ls.codebase = New(ls.store)
	ls.mu.Unlock()
	log.Infof("workspace %s", cfg.Root)

	capabilities := ls.handler.CreateServerCapabilities()

	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    syncKindPtr(protocol.TextDocumentSyncKindFull),
		Save: &protocol.SaveOptions{
			IncludeText: boolPtr(false),
		},
	}

	capabilities.CompletionProvider = &protocol.CompletionOptions{
		TriggerCharacters: []string{"."},
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &ls.version,
		},
	}, nil
}

func (ls *LSPServer) loadConfig(rootDir string) (*config.Config, error) {
	if ls.configPath != "" {
		return config.Load(ls.configPath)
	}
	return config.Find(rootDir)
}

// initialized loads the class path in the background. Queries made before
// the first load completes block or fail according to the stale mode.
func (ls *LSPServer) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	ls.mu.Lock()
	defer ls.mu.Unlock()

	cfg := ls.config
	loader := classpath.NewLoader(cfg.ArchiveCacheSize)
	classPath, sourcePath := cfg.ClassPath(), cfg.SourcePath()

	bg, cancel := context.WithCancel(context.Background())
	ls.cancel = cancel

	if cfg.Watch {
		w, err := classpath.NewWatcher(ls.store, loader, classPath, sourcePath)
		if err != nil {
			log.Errorf("%s", err)
		} else {
			ls.watcher = w
			go func() {
				if err := w.Reindex(bg); err != nil {
					log.Errorf("%s", err)
				}
				if err := w.Run(bg); err != nil {
					log.Errorf("%s", err)
				}
			}()
			return nil
		}
	}

	store := ls.store
	go func() {
		err := store.Reindex(func(b *classpath.Builder) error {
			return loader.Load(bg, b, classPath, sourcePath)
		})
		if err != nil {
			log.Errorf("%s", err)
		}
	}()
	return nil
}

func (ls *LSPServer) shutdown(ctx *glsp.Context) error {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	if ls.cancel != nil {
		ls.cancel()
	}
	if ls.watcher != nil {
		return ls.watcher.Close()
	}
	return nil
}

func (ls *LSPServer) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (ls *LSPServer) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	if cb := ls.Codebase(); cb != nil {
		cb.Open(params.TextDocument.URI, params.TextDocument.Version, params.TextDocument.Text)
	}
	return nil
}

func (ls *LSPServer) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	cb := ls.Codebase()
	if cb == nil || len(params.ContentChanges) == 0 {
		return nil
	}
	change := params.ContentChanges[len(params.ContentChanges)-1]
	if textChange, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
		cb.Update(params.TextDocument.URI, params.TextDocument.Version, textChange.Text)
	}
	return nil
}

func (ls *LSPServer) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	if cb := ls.Codebase(); cb != nil {
		cb.Close(params.TextDocument.URI)
	}
	return nil
}

// textDocumentDidSave needs no work: the watcher picks up saved files
// below the source path.
func (ls *LSPServer) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	log.Debugf("saved %s", params.TextDocument.URI)
	return nil
}

func (ls *LSPServer) textDocumentCompletion(ctx *glsp.Context, params *protocol.CompletionParams) (any, error) {
	cb := ls.Codebase()
	if cb == nil {
		return nil, nil
	}

	items, err := cb.Complete(params.TextDocument.URI, params.Position.Line, params.Position.Character)
	switch {
	case errors.Is(err, classpath.ErrStale):
		// the client asks again while the index is rebuilt
		return protocol.CompletionList{IsIncomplete: true, Items: []protocol.CompletionItem{}}, nil
	case errors.Is(err, ErrNotOpen):
		return nil, nil
	case err != nil:
		return nil, err
	}

	return protocol.CompletionList{Items: toProtocolItems(items)}, nil
}

func toProtocolItems(items []Item) []protocol.CompletionItem {
	result := make([]protocol.CompletionItem, 0, len(items))
	for i, item := range items {
		kind := toProtocolKind(item.Kind)
		insertText := item.InsertText
		format := protocol.InsertTextFormatPlainText
		if item.Snippet {
			format = protocol.InsertTextFormatSnippet
		}
		// keep our order; clients sort by sortText
		sortText := sortKey(i)
		ci := protocol.CompletionItem{
			Label:            item.Label,
			Kind:             &kind,
			InsertText:       &insertText,
			InsertTextFormat: &format,
			SortText:         &sortText,
		}
		if item.Detail != "" {
			detail := item.Detail
			ci.Detail = &detail
		}
		if item.Expected {
			ci.Preselect = boolPtr(true)
		}
		result = append(result, ci)
	}
	return result
}

func sortKey(i int) string {
	return fmt.Sprintf("%05d", i)
}

func toProtocolKind(kind ItemKind) protocol.CompletionItemKind {
	switch kind {
	case ItemVariable:
		return protocol.CompletionItemKindVariable
	case ItemMethod:
		return protocol.CompletionItemKindMethod
	case ItemField:
		return protocol.CompletionItemKindField
	case ItemClass:
		return protocol.CompletionItemKindClass
	case ItemInterface:
		return protocol.CompletionItemKindInterface
	case ItemPackage:
		return protocol.CompletionItemKindModule
	default:
		return protocol.CompletionItemKindText
	}
}

func boolPtr(b bool) *bool {
	return &b
}

func syncKindPtr(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &k
}

func getRootDir() string {
	dir, err := os.Getwd()
	if err != nil {
		return "."
	}
	return dir
}
