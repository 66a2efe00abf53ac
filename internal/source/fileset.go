package source

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// FileSet selects regular files under Directory. A file is selected if its slash-separated path relative to Directory matches any of Includes (default "**") and none
// of Excludes. Patterns use doublestar syntax ("**" crosses directories); a pattern ending in "/" matches everything below that directory.
type FileSet struct {
	Directory string
	Includes  []string
	Excludes  []string
}

// Files returns the selected files as sorted, slash-separated paths relative to set.Directory. If Directory does not exist, a *NotFoundError is returned; a malformed
// pattern is a *PatternError.
func (set FileSet) Files() ([]string, error) {
	info, err := os.Stat(set.Directory)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &NotFoundError{Ref: set.Directory}
		}
		return nil, fmt.Errorf("stat %s: %w", set.Directory, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", set.Directory)
	}

	includes, err := normalizePatterns(set.Includes)
	if err != nil {
		return nil, err
	}
	if len(includes) == 0 {
		includes = []string{"**"}
	}
	excludes, err := normalizePatterns(set.Excludes)
	if err != nil {
		return nil, err
	}

	var files []string
	err = fs.WalkDir(os.DirFS(set.Directory), ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if matchAny(includes, path) && !matchAny(excludes, path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", set.Directory, err)
	}

	sort.Strings(files)
	return files, nil
}

// Path returns the filesystem path of rel (as returned by Files) within dir.
func Path(dir, rel string) string {
	return filepath.Join(dir, filepath.FromSlash(rel))
}

func normalizePatterns(patterns []string) ([]string, error) {
	var out []string
	for _, p := range patterns {
		p = strings.TrimSpace(filepath.ToSlash(p))
		if p == "" {
			continue
		}
		if strings.HasSuffix(p, "/") {
			p += "**"
		}
		if !doublestar.ValidatePattern(p) {
			return nil, &PatternError{Pattern: p}
		}
		out = append(out, p)
	}
	return out, nil
}

func matchAny(patterns []string, path string) bool {
	for _, p := range patterns {
		if doublestar.MatchUnvalidated(p, path) {
			return true
		}
	}
	return false
}
