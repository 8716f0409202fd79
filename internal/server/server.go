package server

import (
	"fmt"
	"net/url"
	"path"
	"strings"
	"sync"

	"cursormark/internal/docs"
	"cursormark/internal/index"
	"cursormark/internal/plugin"
	"cursormark/internal/positions"
	"cursormark/internal/scheduler"
	"cursormark/internal/session"
	"cursormark/internal/settings"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"
)

const serverName = "cursormark"

type Server struct {
	root    string
	handler *protocol.Handler

	settings *settings.Store
	store    *positions.Store
	saver    *positions.Saver
	tracker  *session.Tracker
	orch     *plugin.Orchestrator
	manager  *docs.Manager
	index    *index.Index
	sched    *scheduler.Scheduler

	watchMu sync.Mutex
	watcher *index.Watcher

	// Notifications can fire outside a handler (delayed restoration),
	// so the most recent request context is kept around.
	ctxMu sync.Mutex
	ctx   *glsp.Context
}

func NewServer() (*server.Server, error) {
	s := &Server{}
	s.manager = docs.NewManager()
	s.handler = &protocol.Handler{
		Initialize:                      s.initialize,
		Initialized:                     s.initialized,
		TextDocumentDidOpen:             s.textDocumentDidOpen,
		TextDocumentDidChange:           s.textDocumentDidChange,
		TextDocumentDidSave:             s.textDocumentDidSave,
		TextDocumentDidClose:            s.textDocumentDidClose,
		WorkspaceDidChangeConfiguration: s.workspaceDidChangeConfiguration,
		WorkspaceExecuteCommand:         s.workspaceExecuteCommand,
		Shutdown:                        s.shutdown,
	}

	return server.NewServer(s.handler, serverName, false), nil
}

func (s *Server) keepContext(context *glsp.Context) {
	s.ctxMu.Lock()
	s.ctx = context
	s.ctxMu.Unlock()
}

func (s *Server) notify(method string, params any) {
	s.ctxMu.Lock()
	context := s.ctx
	s.ctxMu.Unlock()
	if context != nil {
		context.Notify(method, params)
	}
}

// URItoPath converts a document URI into a vault-relative path.
func (s *Server) URItoPath(noteURI protocol.URI) (string, error) {
	uri, err := url.Parse(noteURI)
	if err != nil {
		return "", fmt.Errorf("failed to parse uri: %w", err)
	}

	if !strings.HasPrefix(uri.Path, s.root) {
		return "", fmt.Errorf("uri %s is outside the vault root", noteURI)
	}
	rel := strings.TrimPrefix(uri.Path, s.root)
	rel = strings.TrimLeft(rel, "/")
	if rel == "" {
		return "", fmt.Errorf("uri %s does not name a document", noteURI)
	}
	return rel, nil
}

// PathToURI converts a vault-relative path into a file URI.
func (s *Server) PathToURI(relpath string) string {
	u := url.URL{
		Scheme: "file",
		Path:   path.Join(s.root, relpath),
	}
	return u.String()
}
