package server

import (
	"log"
	"net/url"
	"os"
	"path/filepath"

	"cursormark/internal/frontmatter"
	"cursormark/internal/identity"
	"cursormark/internal/index"
	"cursormark/internal/plugin"
	"cursormark/internal/positions"
	"cursormark/internal/scheduler"
	"cursormark/internal/session"
	"cursormark/internal/settings"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

func (s *Server) initialize(
	context *glsp.Context,
	params *protocol.InitializeParams,
) (any, error) {
	s.keepContext(context)

	// Root
	if params.RootURI == nil {
		return nil, errMissingRoot
	}
	rootURI, err := url.Parse(*params.RootURI)
	if err != nil {
		return nil, err
	}
	s.root = rootURI.Path

	// State directory, keyed by vault root.
	stateBaseDir, err := getXDGStateHome(serverName)
	if err != nil {
		return nil, err
	}
	stateDir := filepath.Join(stateBaseDir, url.PathEscape(s.root))
	if err := os.MkdirAll(stateDir, 0700); err != nil {
		return nil, err
	}

	// Settings: persisted file first, initialization options on top.
	s.settings = settings.Open(filepath.Join(stateDir, "settings.json"))
	if params.InitializationOptions != nil {
		if err := s.settings.Apply(params.InitializationOptions); err != nil {
			log.Printf("invalid initialization options: %v", err)
		}
	}

	// Core state.
	s.store = positions.NewStore(s.settings.Current().Positions)
	s.saver = positions.NewSaver(positions.DefaultWindow, s.persistPositions)
	s.tracker = session.NewTracker()
	resolver := identity.NewResolver(frontmatter.NewFileStore(s.root))
	s.orch = plugin.New(s, s.settings, s.store, s.saver, s.tracker, resolver)

	// Document index for cleanup, refreshed in the background.
	s.index, err = index.Open(filepath.Join(stateDir, "index.db"))
	if err != nil {
		return nil, err
	}
	s.sched = scheduler.New(100)
	s.sched.Run()
	// The bootstrap sync runs as the first scheduled task, so anything
	// else routed through the scheduler (per-file refreshes, cleanup)
	// is ordered behind the fully built index.
	s.sched.Schedule(scheduler.Task{
		Name: "bootstrap sync",
		Execute: func() error {
			index.Sync(s.root, s.index)
			watcher, err := index.Watch(s.root, s.index, s.sched)
			if err != nil {
				return err
			}
			s.watchMu.Lock()
			s.watcher = watcher
			s.watchMu.Unlock()
			return nil
		},
	})

	syncKind := protocol.TextDocumentSyncKindIncremental

	capabilities := s.handler.CreateServerCapabilities()
	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: &protocol.True,
		Change:    &syncKind,
		Save:      &protocol.SaveOptions{IncludeText: &protocol.True},
	}
	capabilities.ExecuteCommandProvider = &protocol.ExecuteCommandOptions{
		Commands: []string{cleanupCommand},
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
	}, nil
}

func (s *Server) initialized(
	context *glsp.Context,
	params *protocol.InitializedParams,
) error {
	log.Println("Client initialized.")
	return nil
}

// workspaceDidChangeConfiguration applies new settings and flushes the
// position table unconditionally, mirroring the host closing its
// settings surface.
func (s *Server) workspaceDidChangeConfiguration(
	context *glsp.Context,
	params *protocol.DidChangeConfigurationParams,
) error {
	s.keepContext(context)

	if params.Settings != nil {
		if err := s.settings.Apply(params.Settings); err != nil {
			log.Printf("invalid configuration update: %v", err)
		}
	}
	s.saver.Flush()
	return nil
}

// shutdown tolerates clients that never sent initialize: every field
// it touches may still be nil.
func (s *Server) shutdown(context *glsp.Context) error {
	if s.saver != nil {
		s.saver.Flush()
	}
	s.watchMu.Lock()
	if s.watcher != nil {
		s.watcher.Close()
	}
	s.watchMu.Unlock()
	if s.sched != nil {
		s.sched.Stop()
	}
	if s.index != nil {
		return s.index.Close()
	}
	return nil
}

// persistPositions is the sole write path from the in-memory table to
// durable settings storage.
func (s *Server) persistPositions() error {
	s.settings.SetPositions(s.store.Snapshot())
	return s.settings.Save()
}
