package loader

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Descriptor file extensions.
const (
	extYAML = ".yaml"
	extYML  = ".yml"
	extHCL  = ".hcl"
)

func isDescriptorFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case extYAML, extYML, extHCL:
		return true
	default:
		return false
	}
}

// expandPaths replaces every directory in paths with the descriptor files
// found under it, sorted by path. Plain files are kept as given.
func expandPaths(paths []string) ([]string, error) {
	var out []string

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", p, err)
		}

		if !info.IsDir() {
			out = append(out, p)
			continue
		}

		var found []string

		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			if !d.IsDir() && isDescriptorFile(d.Name()) {
				found = append(found, path)
			}

			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk %s: %w", p, err)
		}

		slices.Sort(found)
		out = append(out, found...)
	}

	return out, nil
}
