package server

import (
	"errors"

	"cursormark/internal/plugin"
	"cursormark/internal/scheduler"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

const cleanupCommand = "cursormark.cleanup"

func (s *Server) workspaceExecuteCommand(
	context *glsp.Context,
	params *protocol.ExecuteCommandParams,
) (any, error) {
	s.keepContext(context)

	if params.Command == cleanupCommand {
		return s.cleanup()
	}
	return nil, nil
}

// cleanup removes stored positions whose identifiers no longer resolve
// from any in-scope document, using the index's cached metadata. The
// removed count is reported to the user and returned to the caller.
// It runs through the scheduler, behind the bootstrap sync and any
// pending refreshes: a command issued right after startup must see the
// fully built index, not a partial one whose missing documents would
// make valid entries look stale.
func (s *Server) cleanup() (any, error) {
	type outcome struct {
		removed int
		err     error
	}
	results := make(chan outcome, 1)

	scheduled := s.sched.Schedule(scheduler.Task{
		Name: "cleanup",
		Execute: func() error {
			indexed, err := s.index.Documents()
			if err != nil {
				results <- outcome{err: err}
				return err
			}
			documents := make([]plugin.Document, 0, len(indexed))
			for _, doc := range indexed {
				documents = append(documents, plugin.Document{
					Path:   doc.Path,
					Fields: doc.Fields,
				})
			}
			results <- outcome{removed: s.orch.Cleanup(documents)}
			return nil
		},
	})
	if !scheduled {
		return nil, errors.New("cleanup rejected, scheduler is not accepting work")
	}

	res := <-results
	if res.err != nil {
		return nil, res.err
	}
	return res.removed, nil
}
