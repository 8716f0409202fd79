// docs tracks the text of documents the host currently has open.
package docs

import (
	"fmt"
	"strings"
	"sync"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

// Manager encapsulates per-URI document state. The most recently opened
// document is considered active until it is closed or another opens.
type Manager struct {
	mu     sync.Mutex
	docs   map[string]string
	active string
}

func NewManager() *Manager {
	return &Manager{docs: make(map[string]string)}
}

// Open stores the full text for path and makes it the active document.
func (m *Manager) Open(path string, text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[path] = text
	m.active = path
}

// Replace swaps in the full text for an already-open path.
func (m *Manager) Replace(path string, text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.docs[path]; ok {
		m.docs[path] = text
	}
}

// Close releases the document state for path.
func (m *Manager) Close(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.docs, path)
	if m.active == path {
		m.active = ""
	}
}

// Active returns the path of the active document, if any.
func (m *Manager) Active() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active, m.active != ""
}

// IsOpen reports whether path is currently tracked.
func (m *Manager) IsOpen(path string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.docs[path]
	return ok
}

// LineCount returns the number of lines in the tracked document.
func (m *Manager) LineCount(path string) (int, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	content, ok := m.docs[path]
	if !ok {
		return 0, false
	}
	return strings.Count(content, "\n") + 1, true
}

// Apply splices an LSP content change into the tracked document and
// returns the position at the end of the inserted text, which is where
// the editor's cursor sits after the edit.
func (m *Manager) Apply(path string, change protocol.TextDocumentContentChangeEvent) (protocol.Position, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	content, ok := m.docs[path]
	if !ok {
		return protocol.Position{}, fmt.Errorf("document not loaded for %s", path)
	}
	if change.Range == nil {
		m.docs[path] = change.Text
		return endOf(change.Text), nil
	}

	start := change.Range.Start.IndexIn(content)
	end := change.Range.End.IndexIn(content)
	if start < 0 || end < start || end > len(content) {
		return protocol.Position{}, fmt.Errorf("change range out of bounds for %s", path)
	}

	m.docs[path] = content[:start] + change.Text + content[end:]
	return advance(change.Range.Start, change.Text), nil
}

// ApplyWhole replaces the tracked document with the full new text.
func (m *Manager) ApplyWhole(path string, change protocol.TextDocumentContentChangeEventWhole) (protocol.Position, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.docs[path]; !ok {
		return protocol.Position{}, fmt.Errorf("document not loaded for %s", path)
	}
	m.docs[path] = change.Text
	return endOf(change.Text), nil
}

// advance moves start past the inserted text.
func advance(start protocol.Position, text string) protocol.Position {
	lines := strings.Split(text, "\n")
	if len(lines) == 1 {
		return protocol.Position{
			Line:      start.Line,
			Character: start.Character + utf16Len(text),
		}
	}
	return protocol.Position{
		Line:      start.Line + protocol.UInteger(len(lines)-1),
		Character: utf16Len(lines[len(lines)-1]),
	}
}

// endOf returns the position just past the last character of text.
func endOf(text string) protocol.Position {
	return advance(protocol.Position{}, text)
}

// utf16Len counts UTF-16 code units, which is what LSP characters are.
func utf16Len(s string) protocol.UInteger {
	var n protocol.UInteger
	for _, r := range s {
		if r > 0xFFFF {
			n += 2
		} else {
			n += 1
		}
	}
	return n
}
