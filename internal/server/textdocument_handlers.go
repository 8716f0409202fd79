package server

import (
	"fmt"
	"log"

	"cursormark/internal/index"
	"cursormark/internal/positions"
	"cursormark/internal/scheduler"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

func (s *Server) textDocumentDidOpen(
	context *glsp.Context,
	params *protocol.DidOpenTextDocumentParams,
) error {
	s.keepContext(context)

	path, err := s.URItoPath(params.TextDocument.URI)
	if err != nil {
		return err
	}
	s.manager.Open(path, params.TextDocument.Text)
	s.orch.DocumentOpened(path)
	return nil
}

func (s *Server) textDocumentDidChange(
	context *glsp.Context,
	params *protocol.DidChangeTextDocumentParams,
) error {
	s.keepContext(context)

	path, err := s.URItoPath(params.TextDocument.TextDocumentIdentifier.URI)
	if err != nil {
		return err
	}

	var cursor protocol.Position
	applied := false
	for _, raw := range params.ContentChanges {
		switch change := raw.(type) {
		case protocol.TextDocumentContentChangeEvent:
			cursor, err = s.manager.Apply(path, change)
		case protocol.TextDocumentContentChangeEventWhole:
			cursor, err = s.manager.ApplyWhole(path, change)
		default:
			return fmt.Errorf("unexpected change event type %T", raw)
		}
		if err != nil {
			return err
		}
		applied = true
	}
	if !applied {
		return nil
	}

	s.orch.DocumentEdited(path, positions.Position{
		Line:      uint32(cursor.Line),
		Character: uint32(cursor.Character),
	})
	return nil
}

func (s *Server) textDocumentDidSave(
	context *glsp.Context,
	params *protocol.DidSaveTextDocumentParams,
) error {
	s.keepContext(context)

	path, err := s.URItoPath(params.TextDocument.URI)
	if err != nil {
		return err
	}
	if params.Text != nil {
		s.manager.Replace(path, *params.Text)
	}

	// Saved content lands on disk; refresh the document index entry.
	if !s.sched.Schedule(scheduler.Task{
		Name: "refresh " + path,
		Execute: func() error {
			return index.SyncFile(s.root, path, s.index)
		},
	}) {
		log.Printf("index refresh for %s was dropped", path)
	}
	return nil
}

func (s *Server) textDocumentDidClose(
	context *glsp.Context,
	params *protocol.DidCloseTextDocumentParams,
) error {
	s.keepContext(context)

	path, err := s.URItoPath(params.TextDocument.URI)
	if err != nil {
		return err
	}
	s.manager.Close(path)
	return nil
}
