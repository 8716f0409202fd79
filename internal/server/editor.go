package server

import (
	"cursormark/internal/plugin"
	"cursormark/internal/positions"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

// The Server is the orchestrator's host: it exposes the active editor
// surface and the notification channel over the LSP connection.

func (s *Server) ActiveEditor(path string) (plugin.Editor, bool) {
	active, ok := s.manager.Active()
	if !ok || active != path {
		return nil, false
	}
	return &lspEditor{server: s, path: path}, true
}

func (s *Server) Notify(message string) {
	s.notify("window/showMessage", protocol.ShowMessageParams{
		Type:    protocol.MessageTypeInfo,
		Message: message,
	})
}

// lspEditor adapts window/showDocument into the cursor-reveal contract.
// Centering the revealed line is up to the client.
type lspEditor struct {
	server *Server
	path   string
}

func (e *lspEditor) LineCount() int {
	count, ok := e.server.manager.LineCount(e.path)
	if !ok {
		return 0
	}
	return count
}

func (e *lspEditor) Reveal(pos positions.Position) {
	at := protocol.Position{
		Line:      protocol.UInteger(pos.Line),
		Character: protocol.UInteger(pos.Character),
	}
	e.server.notify("window/showDocument", protocol.ShowDocumentParams{
		URI:       protocol.URI(e.server.PathToURI(e.path)),
		External:  &protocol.False,
		TakeFocus: &protocol.True,
		Selection: &protocol.Range{Start: at, End: at},
	})
}
