package source

import (
	"fmt"

	"fortio.org/safecast"
)

// FileSet manages the source files referenced by one or more foreign units.
type FileSet struct {
	files []File
}

// NewFileSet creates a file set with the NoFileID sentinel reserved.
func NewFileSet() *FileSet {
	return &FileSet{
		files: make([]File, 1, 8),
	}
}

// Add stores a file with its line index and returns a new FileID, even when
// the path is already present: two units may embed different versions of one
// header.
func (fileSet *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	lenFiles, err := safecast.Conv[uint32](len(fileSet.files))
	if err != nil {
		panic(fmt.Errorf("len files overflow: %w", err))
	}
	id := FileID(lenFiles)
	normalizedPath := normalizePath(path)
	fileSet.files = append(fileSet.files, File{
		ID:      id,
		Path:    normalizedPath,
		Content: content,
		LineIdx: buildLineIndex(content),
		Flags:   flags,
	})
	return id
}

// AddVirtual adds a file embedded in a unit dump. nil content marks a file
// known only by path.
func (fileSet *FileSet) AddVirtual(name string, content []byte) FileID {
	flags := FileVirtual
	if content == nil {
		flags |= FileNoContent
	}
	return fileSet.Add(name, content, flags)
}

// Get returns the file for id, or nil for NoFileID and out-of-range ids.
func (fileSet *FileSet) Get(id FileID) *File {
	if id == NoFileID || int(id) >= len(fileSet.files) {
		return nil
	}
	return &fileSet.files[id]
}

// Len reports the number of files excluding the sentinel.
func (fileSet *FileSet) Len() int { return len(fileSet.files) - 1 }

// Resolve converts a span into line and column positions.
func (fileSet *FileSet) Resolve(span Span) (start, end LineCol) {
	f := fileSet.Get(span.File)
	if f == nil {
		return LineCol{}, LineCol{}
	}
	return toLineCol(f.LineIdx, span.Start), toLineCol(f.LineIdx, span.End)
}

// Position resolves the start of span to path:line:col.
func (fileSet *FileSet) Position(span Span) Position {
	f := fileSet.Get(span.File)
	if f == nil {
		return Position{}
	}
	lc := toLineCol(f.LineIdx, span.Start)
	return Position{Path: f.Path, Line: lc.Line, Col: lc.Col}
}

// Text returns the source text covered by span, clamped to the file content.
func (fileSet *FileSet) Text(span Span) string {
	f := fileSet.Get(span.File)
	if f == nil || f.Flags&FileNoContent != 0 {
		return ""
	}
	n := uint32(len(f.Content)) //nolint:gosec // content length fits, checked at Add
	start, end := span.Start, span.End
	if start > n {
		return ""
	}
	if end > n {
		end = n
	}
	if end < start {
		return ""
	}
	return string(f.Content[start:end])
}
