// scanner walks a vault directory and feeds document contents to a
// callback.
package scanner

import (
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Scan walks the entire subtree under root. Any directory whose name
// begins with "." is skipped entirely. For each remaining file, the
// skip predicate is applied, and if it returns false the file is read
// and callback(absolutePath, contents) is invoked. Scan returns once
// all callbacks have completed.
func Scan(
	root string,
	skip func(absolutePath string, info fs.FileInfo) bool,
	callback func(absolutePath string, document []byte),
) {
	fileCh := make(chan string, 100)
	var wg sync.WaitGroup

	// reader worker
	wg.Add(1)
	go func() {
		defer wg.Done()
		for path := range fileCh {
			data, err := os.ReadFile(path)
			if err != nil {
				log.Println("scanner: read error:", path, err)
				continue
			}
			callback(path, data)
		}
	}()

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			log.Println("scanner: walk error:", err)
			return nil
		}

		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return fs.SkipDir
			}
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}
		if skip(path, info) {
			return nil
		}

		fileCh <- path
		return nil
	})
	if err != nil {
		log.Println("scanner: WalkDir finished with error:", err)
	}

	close(fileCh)
	wg.Wait()
}
