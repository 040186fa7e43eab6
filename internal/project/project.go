// Package project discovers a GML project's source files: everything
// under objects/, scripts/, and rooms/ with a .gml suffix, skipping
// anything canonicalized into the project's files_to_ignore list. This
// is stage 1 of the staged pipeline (filesystem walk to path channel);
// internal/pipeline consumes Walk's output.
package project

import (
	"errors"
	"io/fs"
	"path/filepath"

	"github.com/duck-lang/duck/internal/config"
)

// sourceDirs are the three project subdirectories the walker descends
// into: the project layout expected by the walker.
var sourceDirs = []string{"objects", "scripts", "rooms"}

// fileExt is the source-file suffix the walker recognizes.
const fileExt = ".gml"

// Walk returns every non-ignored .gml file path under root's
// objects/scripts/rooms directories, in a deterministic (lexical, per
// directory) order. The pipeline's own concurrency is what provides
// unordered-between-files processing semantics, not this list's
// construction order.
func Walk(root string, cfg *config.Config) ([]string, error) {
	var files []string
	for _, dir := range sourceDirs {
		dirPath := filepath.Join(root, dir)
		err := filepath.WalkDir(dirPath, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if errors.Is(err, fs.ErrNotExist) && path == dirPath {
					return nil // a project needn't have all three subdirectories
				}
				return err
			}
			if d.IsDir() {
				return nil
			}
			if filepath.Ext(path) != fileExt {
				return nil
			}
			abs, err := filepath.Abs(path)
			if err != nil {
				return err
			}
			if cfg != nil && cfg.Ignores(filepath.Clean(abs)) {
				return nil
			}
			files = append(files, path)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}
