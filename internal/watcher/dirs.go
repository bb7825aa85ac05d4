package watcher

import (
	"os"
	"path/filepath"
	"strings"
)

// walkDirs calls fn for root and every non-hidden subdirectory beneath it,
// mirroring the walker's hidden-directory pruning so the watcher never
// registers paths like .git.
func walkDirs(root string, fn func(dir string) error) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(info.Name(), ".") {
			return filepath.SkipDir
		}
		return fn(path)
	})
}
