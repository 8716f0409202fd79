package frontmatter

import (
	"os"
	"path/filepath"
	"sync"
)

// FileStore provides transactional front matter access for documents
// under a vault root. Paths are vault-relative with forward slashes.
type FileStore struct {
	mu   sync.Mutex
	root string
}

func NewFileStore(root string) *FileStore {
	return &FileStore{root: root}
}

// Transact invokes fn with the document's front matter fields. If fn
// reports a mutation, the document is rewritten with the updated block.
// The read-modify-write runs under a single critical section, so two
// concurrent transactions on the same document never interleave.
func (s *FileStore) Transact(path string, fn func(fields map[string]any) bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	abs := filepath.Join(s.root, filepath.FromSlash(path))
	content, err := os.ReadFile(abs)
	if err != nil {
		return err
	}

	fields, body, err := Parse(content)
	if err != nil {
		return err
	}

	if !fn(fields) {
		return nil
	}

	updated, err := Render(fields, body)
	if err != nil {
		return err
	}
	return os.WriteFile(abs, updated, 0644)
}
