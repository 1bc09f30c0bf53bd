package lsp

import (
	protocol "github.com/tliron/glsp/protocol_3_16"

	"grammarlab/grammar"
)

// ConvertGrammarError turns a grammar compilation failure into LSP
// diagnostics for IDE display. Positions convert to 0-based indexing; a
// short span keeps the marker visible when no length is known.
func ConvertGrammarError(err error) []protocol.Diagnostic {
	gerr, ok := err.(*grammar.Error)
	if !ok {
		return []protocol.Diagnostic{{
			Severity: ptrSeverity(protocol.DiagnosticSeverityError),
			Source:   ptrString("grammarlab"),
			Message:  err.Error(),
		}}
	}

	line := uint32(0)
	char := uint32(0)
	if gerr.Pos.Line > 0 {
		line = uint32(gerr.Pos.Line - 1)
	}
	if gerr.Pos.Column > 0 {
		char = uint32(gerr.Pos.Column - 1)
	}

	length := uint32(len(gerr.Symbol))
	if length == 0 {
		length = 3
	}

	return []protocol.Diagnostic{{
		Range: protocol.Range{
			Start: protocol.Position{Line: line, Character: char},
			End:   protocol.Position{Line: line, Character: char + length},
		},
		Severity: ptrSeverity(protocol.DiagnosticSeverityError),
		Source:   ptrString("grammarlab"),
		Message:  gerr.Message,
	}}
}
