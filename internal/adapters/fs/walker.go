package fs

import (
	"io/fs"
	"iter"
	"path/filepath"

	"go.trai.ch/stamp/internal/core/domain"
)

// Walker lists the files below a directory.
type Walker struct{}

// NewWalker creates a new Walker.
func NewWalker() *Walker {
	return &Walker{}
}

// WalkFiles yields the files below root as slash-separated paths relative to root, in
// lexical order. VCS metadata, the stamp cache directory and names matching an ignore
// pattern are skipped. An unreadable or missing root yields nothing.
func (w *Walker) WalkFiles(root string, ignores []string) iter.Seq[string] {
	return func(yield func(string) bool) {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if path == root {
				return nil
			}

			if skip, action := w.skip(d, ignores); skip {
				return action
			}
			if d.IsDir() {
				return nil
			}

			rel, err := filepath.Rel(root, path)
			if err != nil {
				return err
			}
			if !yield(filepath.ToSlash(rel)) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}

// skip reports whether an entry is excluded, and the action that excludes it.
func (w *Walker) skip(d fs.DirEntry, ignores []string) (bool, error) {
	name := d.Name()

	if d.IsDir() {
		switch name {
		case ".git", ".jj", domain.DefaultCacheDir:
			return true, filepath.SkipDir
		}
	}

	for _, ignore := range ignores {
		if matched, _ := filepath.Match(ignore, name); matched {
			if d.IsDir() {
				return true, filepath.SkipDir
			}
			return true, nil
		}
	}
	return false, nil
}
