package index

import (
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"cursormark/internal/frontmatter"
	"cursormark/internal/scanner"
)

const markdownExt = ".md"

// Sync walks the vault under root and brings the index up to date,
// skipping files whose indexed modification time is current and
// pruning entries for files that no longer exist.
func Sync(root string, ix *Index) {
	seen := map[string]struct{}{}
	skip := func(absolutePath string, info fs.FileInfo) bool {
		if filepath.Ext(absolutePath) != markdownExt {
			return true
		}
		rel, err := relPath(root, absolutePath)
		if err != nil {
			return true
		}
		seen[rel] = struct{}{}
		last, ok := ix.LastModified(rel)
		return ok && last >= info.ModTime().Unix()
	}

	callback := func(absolutePath string, document []byte) {
		if err := indexDocument(root, absolutePath, document, ix); err != nil {
			log.Printf("index: %v", err)
		}
	}

	scanner.Scan(root, skip, callback)

	if err := ix.Prune(seen); err != nil {
		log.Printf("index: prune failed: %v", err)
	}
}

// SyncFile refreshes the index entry for a single vault-relative path.
// A file that no longer exists is dropped from the index.
func SyncFile(root string, rel string, ix *Index) error {
	abs := filepath.Join(root, filepath.FromSlash(rel))
	content, err := os.ReadFile(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return ix.Delete(rel)
		}
		return err
	}
	return indexDocument(root, abs, content, ix)
}

func indexDocument(root string, absolutePath string, document []byte, ix *Index) error {
	rel, err := relPath(root, absolutePath)
	if err != nil {
		return err
	}

	info, err := os.Stat(absolutePath)
	if err != nil {
		return err
	}

	fields, _, err := frontmatter.Parse(document)
	if err != nil {
		// Unparseable front matter indexes as no metadata at all.
		fields = map[string]any{}
	}
	return ix.Upsert(rel, info.ModTime().Unix(), fields)
}

func relPath(root string, absolutePath string) (string, error) {
	rel, err := filepath.Rel(root, absolutePath)
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(rel), nil
}

// isHidden reports whether any element of the vault-relative path
// starts with a dot.
func isHidden(rel string) bool {
	for _, part := range strings.Split(rel, "/") {
		if strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}
