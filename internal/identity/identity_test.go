package identity_test

import (
	"errors"
	"testing"

	"cursormark/internal/identity"
)

// memoryMetadata is an in-memory Metadata implementation backed by a
// fields map per path.
type memoryMetadata struct {
	docs   map[string]map[string]any
	writes int
}

func newMemoryMetadata() *memoryMetadata {
	return &memoryMetadata{docs: make(map[string]map[string]any)}
}

func (m *memoryMetadata) add(path string, fields map[string]any) {
	if fields == nil {
		fields = map[string]any{}
	}
	m.docs[path] = fields
}

func (m *memoryMetadata) Transact(path string, fn func(fields map[string]any) bool) error {
	fields, ok := m.docs[path]
	if !ok {
		return errors.New("no such document")
	}
	if fn(fields) {
		m.writes++
	}
	return nil
}

func TestPathStrategy(t *testing.T) {
	resolver := identity.NewResolver(newMemoryMetadata())

	got := resolver.Resolve("Folder/a.md", identity.StrategyPath, "", false)
	if got != "Folder/a.md" {
		t.Errorf("Resolve = %q, want the document path", got)
	}
}

func TestUserFieldStrategy(t *testing.T) {
	tests := []struct {
		name   string
		fields map[string]any
		field  string
		want   string
	}{
		{
			name:   "present field returned verbatim",
			fields: map[string]any{"uid": "my-note"},
			field:  "uid",
			want:   "my-note",
		},
		{
			name:   "numeric value coerced to string",
			fields: map[string]any{"uid": 42},
			field:  "uid",
			want:   "42",
		},
		{
			name:   "absent field resolves empty",
			fields: map[string]any{},
			field:  "uid",
			want:   "",
		},
		{
			name:   "empty field name resolves empty",
			fields: map[string]any{"uid": "x"},
			field:  "",
			want:   "",
		},
		{
			name:   "null value resolves empty",
			fields: map[string]any{"uid": nil},
			field:  "uid",
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta := newMemoryMetadata()
			meta.add("n.md", tt.fields)
			resolver := identity.NewResolver(meta)

			got := resolver.Resolve("n.md", identity.StrategyUserField, tt.field, true)
			if got != tt.want {
				t.Errorf("Resolve = %q, want %q", got, tt.want)
			}
			if meta.writes != 0 {
				t.Error("user-field strategy wrote to the document")
			}
		})
	}
}

func TestGeneratedStrategyIdempotent(t *testing.T) {
	meta := newMemoryMetadata()
	meta.add("n.md", nil)
	resolver := identity.NewResolver(meta)

	first := resolver.Resolve("n.md", identity.StrategyGenerated, "id", true)
	if first == "" {
		t.Fatal("creation resolve returned empty")
	}
	if meta.writes != 1 {
		t.Fatalf("creation performed %d writes, want 1", meta.writes)
	}

	second := resolver.Resolve("n.md", identity.StrategyGenerated, "id", false)
	if second != first {
		t.Errorf("second resolve = %q, want %q", second, first)
	}
	third := resolver.Resolve("n.md", identity.StrategyGenerated, "id", true)
	if third != first {
		t.Errorf("third resolve = %q, want %q", third, first)
	}
	if meta.writes != 1 {
		t.Errorf("resolution after creation performed extra writes: %d", meta.writes)
	}
}

func TestGeneratedStrategyWithoutCreate(t *testing.T) {
	meta := newMemoryMetadata()
	meta.add("n.md", nil)
	resolver := identity.NewResolver(meta)

	for i := 0; i < 3; i++ {
		got := resolver.Resolve("n.md", identity.StrategyGenerated, "id", false)
		if got != "" {
			t.Fatalf("non-creating resolve = %q, want empty", got)
		}
	}
	if meta.writes != 0 {
		t.Errorf("non-creating resolve mutated the document %d times", meta.writes)
	}
}

func TestGeneratedStrategyEmptyFieldName(t *testing.T) {
	meta := newMemoryMetadata()
	meta.add("n.md", nil)
	resolver := identity.NewResolver(meta)

	if got := resolver.Resolve("n.md", identity.StrategyGenerated, "", true); got != "" {
		t.Errorf("Resolve with empty field name = %q, want empty", got)
	}
	if meta.writes != 0 {
		t.Error("empty field name caused a write")
	}
}

func TestMetadataFailureResolvesEmpty(t *testing.T) {
	resolver := identity.NewResolver(newMemoryMetadata())

	// The store has no such document; resolution must swallow the error.
	got := resolver.Resolve("missing.md", identity.StrategyGenerated, "id", true)
	if got != "" {
		t.Errorf("Resolve on failing metadata = %q, want empty", got)
	}
}

func TestFromFields(t *testing.T) {
	fields := map[string]any{"uid": "stored"}

	if got := identity.FromFields(fields, identity.StrategyUserField, "uid", "n.md"); got != "stored" {
		t.Errorf("FromFields user-field = %q, want stored", got)
	}
	if got := identity.FromFields(fields, identity.StrategyPath, "", "n.md"); got != "n.md" {
		t.Errorf("FromFields path = %q, want n.md", got)
	}
	if got := identity.FromFields(fields, identity.StrategyGenerated, "id", "n.md"); got != "" {
		t.Errorf("FromFields absent generated field = %q, want empty", got)
	}
}
