// Package walker enumerates candidate files under a root directory honoring
// include/exclude globs, default extensions, and hidden-directory pruning.
package walker

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// Options configures a walk. Include and Exclude are glob patterns matched
// against paths relative to Root; DefaultExtensions are lowercase extensions
// without a leading dot, consulted only when Include is empty.
type Options struct {
	Root              string
	Include           []string
	Exclude           []string
	DefaultExtensions []string
}

// Walk returns the set of candidate file paths under opts.Root, each joined
// onto opts.Root (so absolute only when Root is). Ordering is unspecified;
// the result is stable under re-invocation on an unchanged tree.
func Walk(opts Options) ([]string, error) {
	includePatterns, err := compileAll(opts.Include)
	if err != nil {
		return nil, fmt.Errorf("walker: compile include globs: %w", err)
	}
	excludePatterns, err := compileAll(opts.Exclude)
	if err != nil {
		return nil, fmt.Errorf("walker: compile exclude globs: %w", err)
	}

	defaultExts := make(map[string]bool, len(opts.DefaultExtensions))
	for _, ext := range opts.DefaultExtensions {
		defaultExts[strings.ToLower(ext)] = true
	}

	var files []string
	err = filepath.Walk(opts.Root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if path == opts.Root {
			return nil
		}

		rel, relErr := filepath.Rel(opts.Root, path)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)

		if info.IsDir() {
			if strings.HasPrefix(info.Name(), ".") {
				return filepath.SkipDir
			}
			if matchesAny(excludePatterns, rel+"/x") {
				return filepath.SkipDir
			}
			return nil
		}

		if matchesAny(excludePatterns, rel) {
			return nil
		}

		if len(includePatterns) > 0 {
			if matchesAny(includePatterns, rel) {
				files = append(files, path)
			}
			return nil
		}

		ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
		if defaultExts[ext] {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walker: walk %s: %w", opts.Root, err)
	}

	if files == nil {
		files = []string{}
	}
	return files, nil
}

func compileAll(patterns []string) ([]glob.Glob, error) {
	compiled := make([]glob.Glob, 0, len(patterns))
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid glob %q: %w", pattern, err)
		}
		compiled = append(compiled, g)
	}
	return compiled, nil
}

func matchesAny(patterns []glob.Glob, s string) bool {
	for _, p := range patterns {
		if p.Match(s) {
			return true
		}
	}
	return false
}
