package source

import (
	"bytes"
	"path/filepath"
	"sort"
)

// Offsets and columns count bytes of the content exactly as embedded in the
// dump; line endings are never rewritten.

func buildLineIndex(content []byte) []uint32 {
	idx := make([]uint32, 0, bytes.Count(content, []byte{'\n'}))
	for i, b := range content {
		if b == '\n' {
			idx = append(idx, uint32(i)) //nolint:gosec // bounded by content length
		}
	}
	return idx
}

// toLineCol maps a byte offset to a 1-based line/column pair.
func toLineCol(lineIdx []uint32, off uint32) LineCol {
	line := sort.Search(len(lineIdx), func(i int) bool { return lineIdx[i] >= off })
	var lineStart uint32
	if line > 0 {
		lineStart = lineIdx[line-1] + 1
	}
	return LineCol{Line: uint32(line) + 1, Col: off - lineStart + 1} //nolint:gosec // line <= len(lineIdx)
}

// GetLine returns line n (1-based) without its line terminator; "" when the
// file has no such line or no content.
func (f *File) GetLine(n uint32) string {
	if n == 0 || f.Flags&FileNoContent != 0 || uint64(n) > uint64(len(f.LineIdx))+1 {
		return ""
	}
	start := 0
	if n > 1 {
		start = int(f.LineIdx[n-2]) + 1
	}
	end := len(f.Content)
	if int(n-1) < len(f.LineIdx) {
		end = int(f.LineIdx[n-1])
	}
	if start > end {
		return ""
	}
	return string(bytes.TrimSuffix(f.Content[start:end], []byte{'\r'}))
}

// normalizePath makes dump paths from different hosts comparable.
func normalizePath(p string) string {
	if p == "" {
		return p
	}
	return filepath.ToSlash(filepath.Clean(p))
}
