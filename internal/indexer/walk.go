package indexer

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// walk discovers every eligible file under root (spec §4.5 step 1): it
// prunes DefaultIgnoreDirs at any depth and keeps files whose extension is
// in textExtensions. Results are sorted so progress counts and manifest
// comparisons are deterministic across runs, mirroring the teacher's
// FileDiscovery walk in internal/indexer/discovery.go (adapted here from
// glob-pattern matching to the spec's fixed ignore-dir-name plus
// extension-set rule).
func walk(root string, ignoreDirs, textExtensions map[string]bool) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && ignoreDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if textExtensions[ext] {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}
