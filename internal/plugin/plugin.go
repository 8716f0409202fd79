// plugin wires document-open and edit events to identifier resolution,
// the position store, and the session gate.
package plugin

import (
	"fmt"
	"time"

	"cursormark/internal/identity"
	"cursormark/internal/positions"
	"cursormark/internal/rules"
	"cursormark/internal/session"
	"cursormark/internal/settings"
)

// Editor is the host's editor surface for a single document.
type Editor interface {
	// LineCount returns the document's current number of lines.
	LineCount() int
	// Reveal moves the cursor to pos and scrolls so its line is
	// vertically centered.
	Reveal(pos positions.Position)
}

// Host exposes the capabilities the orchestrator needs from the
// surrounding application.
type Host interface {
	// ActiveEditor returns the editor for path if that document still
	// has an active view. Restoration re-checks this at fire time; the
	// originally opened document may no longer be frontmost.
	ActiveEditor(path string) (Editor, bool)
	// Notify shows a transient status message to the user.
	Notify(message string)
}

// Document is an enumerable document with its last-known metadata,
// as reported by the host's cache. Used only by cleanup.
type Document struct {
	Path   string
	Fields map[string]any
}

// Orchestrator owns the process-wide position table and session set and
// runs the save/restore state machines.
type Orchestrator struct {
	host     Host
	settings *settings.Store
	store    *positions.Store
	saver    *positions.Saver
	tracker  *session.Tracker
	resolver *identity.Resolver
}

func New(
	host Host,
	cfg *settings.Store,
	store *positions.Store,
	saver *positions.Saver,
	tracker *session.Tracker,
	resolver *identity.Resolver,
) *Orchestrator {
	return &Orchestrator{
		host:     host,
		settings: cfg,
		store:    store,
		saver:    saver,
		tracker:  tracker,
		resolver: resolver,
	}
}

// DocumentOpened runs the open state machine. Identifier resolution
// never creates a token here, so merely viewing a document does not
// mutate it. Restoration is deferred by the configured delay to let the
// host's editor surface finish initializing.
func (o *Orchestrator) DocumentOpened(path string) {
	cfg := o.settings.Current()
	if !cfg.Enabled {
		return
	}
	if !rules.Matches(path, cfg.Rules()) {
		return
	}

	id := o.resolver.Resolve(path, cfg.Strategy, cfg.IdentifierField(), false)
	if id == "" {
		return
	}
	if !o.tracker.ShouldRestore(id) {
		return
	}

	time.AfterFunc(cfg.RestoreDelay(), func() {
		o.restore(path, id)
	})
}

func (o *Orchestrator) restore(path string, id string) {
	// Mark before anything else can fail: restoration is attempted at
	// most once per session, and a later edit still saves normally.
	// Reopening within the delay window schedules a second attempt, so
	// the mark decides atomically which one proceeds.
	if !o.tracker.MarkRestored(id) {
		return
	}

	editor, ok := o.host.ActiveEditor(path)
	if !ok {
		return
	}
	pos, found := o.store.Get(id)
	if !found {
		return
	}
	// A position past the end of the document is stale: skip the move
	// but keep the entry until the user runs cleanup.
	if int(pos.Line) >= editor.LineCount() {
		return
	}
	editor.Reveal(pos)
}

// DocumentEdited runs the edit state machine: the only path on which a
// generated identifier may be created.
func (o *Orchestrator) DocumentEdited(path string, cursor positions.Position) {
	cfg := o.settings.Current()
	if !cfg.Enabled {
		return
	}
	if !rules.Matches(path, cfg.Rules()) {
		return
	}

	id := o.resolver.Resolve(path, cfg.Strategy, cfg.IdentifierField(), true)
	if id == "" {
		return
	}

	o.store.Set(id, cursor)
	o.saver.Trigger()
}

// Cleanup removes every stored position whose identifier no longer
// resolves from an in-scope document. It only consults the identifier
// space of the active strategy: entries written under a previously
// active strategy look stale and are removed as well.
func (o *Orchestrator) Cleanup(documents []Document) int {
	cfg := o.settings.Current()
	ruleList := cfg.Rules()
	field := cfg.IdentifierField()

	live := make(map[string]struct{})
	for _, doc := range documents {
		if !rules.Matches(doc.Path, ruleList) {
			continue
		}
		id := identity.FromFields(doc.Fields, cfg.Strategy, field, doc.Path)
		if id == "" {
			continue
		}
		live[id] = struct{}{}
	}

	removed := o.store.Keep(live)
	if removed > 0 {
		o.saver.Trigger()
	}
	o.host.Notify(fmt.Sprintf("Removed %d stale cursor position(s)", removed))
	return removed
}
