package compare

import (
	"fmt"
	"path/filepath"

	"github.com/codalotl/filediff/internal/source"
)

// Pair is one original/revised comparison.
type Pair struct {
	Original source.Ref
	Revised  source.Ref
}

// MismatchError means the number of originals and reviseds differ. Nothing is compared in that case.
type MismatchError struct {
	Originals int
	Reviseds  int
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("original and revised files must match [originals: %d] [revised: %d]", e.Originals, e.Reviseds)
}

// ResolvePairs expands cfg into the ordered list of pairs to compare: the Originals/Reviseds pairs first, then each FileSet's files in sorted order. A FileSet
// whose directory does not exist contributes no pairs.
func ResolvePairs(cfg Config) ([]Pair, error) {
	return resolvePairs(cfg, func(string) {})
}

// resolvePairs is ResolvePairs, calling missingDir with each FileSet directory that does not exist.
func resolvePairs(cfg Config, missingDir func(dir string)) ([]Pair, error) {
	if len(cfg.Originals) != len(cfg.Reviseds) {
		return nil, &MismatchError{Originals: len(cfg.Originals), Reviseds: len(cfg.Reviseds)}
	}

	var pairs []Pair
	for i := range cfg.Originals {
		original, err := source.ParseRef(cfg.Originals[i], cfg.BaseDir)
		if err != nil {
			return nil, err
		}
		revised, err := source.ParseRef(cfg.Reviseds[i], cfg.BaseDir)
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, Pair{Original: original, Revised: revised})
	}

	revisedDir := resolveDir(cfg.RevisedDir, cfg.BaseDir)
	for _, set := range cfg.FileSets {
		set.Directory = resolveDir(set.Directory, cfg.BaseDir)
		files, err := set.Files()
		if err != nil {
			if source.IsNotFound(err) {
				missingDir(set.Directory)
				continue
			}
			return nil, err
		}
		for _, rel := range files {
			pairs = append(pairs, Pair{
				Original: localRef(source.Path(set.Directory, rel)),
				Revised:  localRef(source.Path(revisedDir, rel)),
			})
		}
	}

	return pairs, nil
}

func resolveDir(dir, baseDir string) string {
	if dir == "" || filepath.IsAbs(dir) || baseDir == "" {
		return dir
	}
	return filepath.Join(baseDir, dir)
}

func localRef(path string) source.Ref {
	return source.Ref{Kind: source.RefLocal, Raw: path, Path: path}
}
