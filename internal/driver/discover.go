package driver

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"astbridge/internal/foreign"
)

// Discover lists the unit dumps under roots. A root may be a dump file or a
// directory searched recursively. Paths matching an exclude pattern (by
// slash path or base name) are skipped. The result is sorted and free of
// duplicates.
func Discover(roots, exclude []string) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	add := func(path string) {
		clean := filepath.Clean(path)
		if seen[clean] || excluded(clean, exclude) {
			return
		}
		seen[clean] = true
		out = append(out, clean)
	}
	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("input %s: %w", root, err)
		}
		if !info.IsDir() {
			if !foreign.IsDumpPath(root) {
				return nil, fmt.Errorf("input %s: %w", root, foreign.ErrFormat)
			}
			add(root)
			continue
		}
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != root && excluded(path, exclude) {
					return filepath.SkipDir
				}
				return nil
			}
			if foreign.IsDumpPath(path) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", root, err)
		}
	}
	sort.Strings(out)
	return out, nil
}

// excluded reports whether path or one of its parent directories matches a
// pattern, by slash path or by base name.
func excluded(path string, patterns []string) bool {
	if len(patterns) == 0 {
		return false
	}
	for p := filepath.Clean(path); ; {
		if matchAny(p, patterns) {
			return true
		}
		parent := filepath.Dir(p)
		if parent == p || parent == "." {
			return false
		}
		p = parent
	}
}

func matchAny(path string, patterns []string) bool {
	slash := filepath.ToSlash(path)
	base := filepath.Base(path)
	for _, p := range patterns {
		p = filepath.ToSlash(p)
		if ok, _ := filepath.Match(p, slash); ok {
			return true
		}
		if ok, _ := filepath.Match(p, base); ok {
			return true
		}
	}
	return false
}
