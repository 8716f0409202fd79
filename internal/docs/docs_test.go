package docs_test

import (
	"testing"

	"cursormark/internal/docs"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

func rng(sl, sc, el, ec protocol.UInteger) *protocol.Range {
	return &protocol.Range{
		Start: protocol.Position{Line: sl, Character: sc},
		End:   protocol.Position{Line: el, Character: ec},
	}
}

func TestLineCount(t *testing.T) {
	m := docs.NewManager()
	m.Open("a.md", "one\ntwo\nthree")

	count, ok := m.LineCount("a.md")
	if !ok || count != 3 {
		t.Errorf("LineCount = %d, %v, want 3, true", count, ok)
	}

	if _, ok := m.LineCount("other.md"); ok {
		t.Error("LineCount reported an untracked document")
	}
}

func TestApplyInsertion(t *testing.T) {
	m := docs.NewManager()
	m.Open("a.md", "hello\nworld\n")

	// Insert "big " before "world".
	cursor, err := m.Apply("a.md", protocol.TextDocumentContentChangeEvent{
		Range: rng(1, 0, 1, 0),
		Text:  "big ",
	})
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if cursor.Line != 1 || cursor.Character != 4 {
		t.Errorf("cursor = %+v, want {1 4}", cursor)
	}

	count, _ := m.LineCount("a.md")
	if count != 3 {
		t.Errorf("LineCount after insertion = %d, want 3", count)
	}
}

func TestApplyMultilineInsertion(t *testing.T) {
	m := docs.NewManager()
	m.Open("a.md", "start")

	cursor, err := m.Apply("a.md", protocol.TextDocumentContentChangeEvent{
		Range: rng(0, 5, 0, 5),
		Text:  "\nsecond\nthird",
	})
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if cursor.Line != 2 || cursor.Character != 5 {
		t.Errorf("cursor = %+v, want {2 5}", cursor)
	}
}

func TestApplyDeletion(t *testing.T) {
	m := docs.NewManager()
	m.Open("a.md", "abc\ndef\n")

	cursor, err := m.Apply("a.md", protocol.TextDocumentContentChangeEvent{
		Range: rng(0, 1, 1, 1),
		Text:  "",
	})
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if cursor.Line != 0 || cursor.Character != 1 {
		t.Errorf("cursor = %+v, want {0 1}", cursor)
	}

	count, _ := m.LineCount("a.md")
	if count != 2 {
		t.Errorf("LineCount after deletion = %d, want 2", count)
	}
}

func TestApplyWhole(t *testing.T) {
	m := docs.NewManager()
	m.Open("a.md", "old")

	cursor, err := m.ApplyWhole("a.md", protocol.TextDocumentContentChangeEventWhole{
		Text: "first\nsecond",
	})
	if err != nil {
		t.Fatalf("ApplyWhole failed: %v", err)
	}
	if cursor.Line != 1 || cursor.Character != 6 {
		t.Errorf("cursor = %+v, want {1 6}", cursor)
	}
}

func TestApplyUntrackedDocument(t *testing.T) {
	m := docs.NewManager()
	_, err := m.Apply("ghost.md", protocol.TextDocumentContentChangeEvent{
		Range: rng(0, 0, 0, 0),
		Text:  "x",
	})
	if err == nil {
		t.Error("Apply on an untracked document succeeded")
	}
}

func TestActiveTracking(t *testing.T) {
	m := docs.NewManager()

	if _, ok := m.Active(); ok {
		t.Error("fresh manager reported an active document")
	}

	m.Open("a.md", "")
	m.Open("b.md", "")
	if active, _ := m.Active(); active != "b.md" {
		t.Errorf("Active = %q, want b.md", active)
	}

	m.Close("b.md")
	if _, ok := m.Active(); ok {
		t.Error("closed document still active")
	}

	if !m.IsOpen("a.md") {
		t.Error("a.md no longer tracked after closing b.md")
	}
}
