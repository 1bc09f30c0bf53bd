// Package lsp provides the language-server handlers for grammar files:
// open/changed documents are compiled and the resulting grammar errors
// published as diagnostics.
package lsp

import (
	"log"
	"sync"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"grammarlab/grammar"
)

// GrammarHandler implements the LSP handlers for the grammar language.
type GrammarHandler struct {
	mu   sync.RWMutex
	docs map[protocol.DocumentUri]string
}

func NewGrammarHandler() *GrammarHandler {
	return &GrammarHandler{
		docs: make(map[protocol.DocumentUri]string),
	}
}

// Initialize advertises the server's capabilities: full-document sync is
// all that grammar checking needs.
func (h *GrammarHandler) Initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	log.Println("LSP Initialize called")

	return &protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: &protocol.TextDocumentSyncOptions{
				OpenClose: ptrBool(true),
				Change:    ptrSyncKind(protocol.TextDocumentSyncKindFull),
			},
		},
	}, nil
}

func (h *GrammarHandler) Initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	log.Println("grammarlab LSP initialized")
	return nil
}

func (h *GrammarHandler) Shutdown(ctx *glsp.Context) error {
	log.Println("grammarlab LSP shutdown")
	return nil
}

func (h *GrammarHandler) SetTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	return nil
}

// TextDocumentDidOpen compiles the opened grammar and publishes its
// diagnostics.
func (h *GrammarHandler) TextDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	log.Printf("opened: %s\n", params.TextDocument.URI)

	h.mu.Lock()
	h.docs[params.TextDocument.URI] = params.TextDocument.Text
	h.mu.Unlock()

	h.publish(ctx, params.TextDocument.URI)
	return nil
}

// TextDocumentDidChange recompiles after a full-document change.
func (h *GrammarHandler) TextDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	text := ""
	for _, change := range params.ContentChanges {
		switch c := change.(type) {
		case protocol.TextDocumentContentChangeEvent:
			text = c.Text
		case protocol.TextDocumentContentChangeEventWhole:
			text = c.Text
		}
	}

	h.mu.Lock()
	h.docs[params.TextDocument.URI] = text
	h.mu.Unlock()

	h.publish(ctx, params.TextDocument.URI)
	return nil
}

func (h *GrammarHandler) TextDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	log.Printf("closed: %s\n", params.TextDocument.URI)

	h.mu.Lock()
	delete(h.docs, params.TextDocument.URI)
	h.mu.Unlock()

	return nil
}

// publish compiles the stored document text and pushes diagnostics. An
// empty list clears earlier markers on success.
func (h *GrammarHandler) publish(ctx *glsp.Context, uri protocol.DocumentUri) {
	h.mu.RLock()
	text := h.docs[uri]
	h.mu.RUnlock()

	diagnostics := []protocol.Diagnostic{}
	if _, err := grammar.Compile(text); err != nil {
		diagnostics = ConvertGrammarError(err)
	}

	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

func ptrBool(b bool) *bool { return &b }

func ptrSyncKind(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind { return &k }

func ptrSeverity(s protocol.DiagnosticSeverity) *protocol.DiagnosticSeverity { return &s }

func ptrString(s string) *string { return &s }
