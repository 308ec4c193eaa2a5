package source

type (
	// FileID uniquely identifies a source file within a FileSet.
	FileID uint32
	// FileFlags encodes metadata about a source file.
	FileFlags uint8
)

// NoFileID marks spans without a backing file (synthesized nodes).
const NoFileID FileID = 0

const (
	// FileVirtual indicates the file was added from memory (dump payload, test).
	FileVirtual FileFlags = 1 << iota
	// FileNoContent marks files known only by path; Text queries return "".
	FileNoContent
)

// File captures metadata and content for a single source file.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32 // offsets of '\n'
	Flags   FileFlags
}

// LineCol represents a human-readable position in a source file.
type LineCol struct {
	Line uint32 // 1-based
	Col  uint32 // 1-based
}

// Position is a resolved location: path plus line and column.
type Position struct {
	Path string
	Line uint32
	Col  uint32
}

func (p Position) IsValid() bool { return p.Line > 0 }
