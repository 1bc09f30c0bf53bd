package main

import (
	"log"
	"os"

	"github.com/tliron/commonlog"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"grammarlab/internal/lsp"
)

const lsName = "grammarlab"

var handler protocol.Handler

func main() {
	// 1 = debug level, nil = default backend
	commonlog.Configure(1, nil)

	grammarHandler := lsp.NewGrammarHandler()

	handler = protocol.Handler{
		Initialize:            grammarHandler.Initialize,
		Initialized:           grammarHandler.Initialized,
		Shutdown:              grammarHandler.Shutdown,
		SetTrace:              grammarHandler.SetTrace,
		TextDocumentDidOpen:   grammarHandler.TextDocumentDidOpen,
		TextDocumentDidClose:  grammarHandler.TextDocumentDidClose,
		TextDocumentDidChange: grammarHandler.TextDocumentDidChange,
	}

	s := server.NewServer(&handler, lsName, false)

	log.Println("Starting grammarlab LSP server...")

	if err := s.RunStdio(); err != nil {
		log.Println("Error starting grammarlab LSP server:", err)
		os.Exit(1)
	}
}
