package foreign

// Dump is the wire form of a unit: flat tables linked by integer ids, with
// 0 meaning "no node". The same struct is read from JSON, YAML and msgpack.
type Dump struct {
	Schema string     `json:"schema" yaml:"schema" msgpack:"schema"`
	Unit   string     `json:"unit" yaml:"unit" msgpack:"unit"`
	Files  []DumpFile `json:"files,omitempty" yaml:"files,omitempty" msgpack:"files,omitempty"`
	Types  []DumpType `json:"types,omitempty" yaml:"types,omitempty" msgpack:"types,omitempty"`
	Decls  []DumpDecl `json:"decls,omitempty" yaml:"decls,omitempty" msgpack:"decls,omitempty"`
	Stmts  []DumpStmt `json:"stmts,omitempty" yaml:"stmts,omitempty" msgpack:"stmts,omitempty"`
	Top    []int      `json:"top" yaml:"top" msgpack:"top"`
}

// DumpFile is a source file referenced by ranges. Content is optional;
// without it spans still resolve to byte offsets but text queries are empty.
type DumpFile struct {
	ID      int     `json:"id" yaml:"id" msgpack:"id"`
	Path    string  `json:"path" yaml:"path" msgpack:"path"`
	Content *string `json:"content,omitempty" yaml:"content,omitempty" msgpack:"content,omitempty"`
}

// DumpRange is a half-open byte range in a dump file.
type DumpRange struct {
	File  int    `json:"file" yaml:"file" msgpack:"file"`
	Begin uint32 `json:"begin" yaml:"begin" msgpack:"begin"`
	End   uint32 `json:"end" yaml:"end" msgpack:"end"`
}

type DumpQualType struct {
	Type         int    `json:"type" yaml:"type" msgpack:"type"`
	Const        bool   `json:"const,omitempty" yaml:"const,omitempty" msgpack:"const,omitempty"`
	Volatile     bool   `json:"volatile,omitempty" yaml:"volatile,omitempty" msgpack:"volatile,omitempty"`
	Restrict     bool   `json:"restrict,omitempty" yaml:"restrict,omitempty" msgpack:"restrict,omitempty"`
	AddressSpace uint32 `json:"addressSpace,omitempty" yaml:"addressSpace,omitempty" msgpack:"addressSpace,omitempty"`
}

type DumpTemplateArg struct {
	Kind     string            `json:"kind" yaml:"kind" msgpack:"kind"`
	Type     *DumpQualType     `json:"type,omitempty" yaml:"type,omitempty" msgpack:"type,omitempty"`
	Value    string            `json:"value,omitempty" yaml:"value,omitempty" msgpack:"value,omitempty"`
	Template string            `json:"template,omitempty" yaml:"template,omitempty" msgpack:"template,omitempty"`
	Expr     int               `json:"expr,omitempty" yaml:"expr,omitempty" msgpack:"expr,omitempty"`
	Decl     int               `json:"decl,omitempty" yaml:"decl,omitempty" msgpack:"decl,omitempty"`
	Pack     []DumpTemplateArg `json:"pack,omitempty" yaml:"pack,omitempty" msgpack:"pack,omitempty"`
}

type DumpType struct {
	ID         int               `json:"id" yaml:"id" msgpack:"id"`
	Kind       string            `json:"kind" yaml:"kind" msgpack:"kind"`
	Name       string            `json:"name,omitempty" yaml:"name,omitempty" msgpack:"name,omitempty"`
	Elem       *DumpQualType     `json:"elem,omitempty" yaml:"elem,omitempty" msgpack:"elem,omitempty"`
	Params     []DumpQualType    `json:"params,omitempty" yaml:"params,omitempty" msgpack:"params,omitempty"`
	Variadic   bool              `json:"variadic,omitempty" yaml:"variadic,omitempty" msgpack:"variadic,omitempty"`
	Size       uint64            `json:"size,omitempty" yaml:"size,omitempty" msgpack:"size,omitempty"`
	SizeExpr   int               `json:"sizeExpr,omitempty" yaml:"sizeExpr,omitempty" msgpack:"sizeExpr,omitempty"`
	Star       bool              `json:"star,omitempty" yaml:"star,omitempty" msgpack:"star,omitempty"`
	VectorSize uint64            `json:"vectorSize,omitempty" yaml:"vectorSize,omitempty" msgpack:"vectorSize,omitempty"`
	Decl       int               `json:"decl,omitempty" yaml:"decl,omitempty" msgpack:"decl,omitempty"`
	Args       []DumpTemplateArg `json:"args,omitempty" yaml:"args,omitempty" msgpack:"args,omitempty"`
}

type DumpDecl struct {
	ID       int               `json:"id" yaml:"id" msgpack:"id"`
	Kind     string            `json:"kind" yaml:"kind" msgpack:"kind"`
	Name     string            `json:"name,omitempty" yaml:"name,omitempty" msgpack:"name,omitempty"`
	QualName string            `json:"qualName,omitempty" yaml:"qualName,omitempty" msgpack:"qualName,omitempty"`
	Range    *DumpRange        `json:"range,omitempty" yaml:"range,omitempty" msgpack:"range,omitempty"`
	Type     *DumpQualType     `json:"type,omitempty" yaml:"type,omitempty" msgpack:"type,omitempty"`
	Init     int               `json:"init,omitempty" yaml:"init,omitempty" msgpack:"init,omitempty"`
	Body     int               `json:"body,omitempty" yaml:"body,omitempty" msgpack:"body,omitempty"`
	Params   []int             `json:"params,omitempty" yaml:"params,omitempty" msgpack:"params,omitempty"`
	Members  []int             `json:"members,omitempty" yaml:"members,omitempty" msgpack:"members,omitempty"`
	Parent   int               `json:"parent,omitempty" yaml:"parent,omitempty" msgpack:"parent,omitempty"`
	Tag      string            `json:"tag,omitempty" yaml:"tag,omitempty" msgpack:"tag,omitempty"`
	Storage  string            `json:"storage,omitempty" yaml:"storage,omitempty" msgpack:"storage,omitempty"`
	Defined  bool              `json:"defined,omitempty" yaml:"defined,omitempty" msgpack:"defined,omitempty"`
	Implicit bool              `json:"implicit,omitempty" yaml:"implicit,omitempty" msgpack:"implicit,omitempty"`
	Template string            `json:"template,omitempty" yaml:"template,omitempty" msgpack:"template,omitempty"`
	Args     []DumpTemplateArg `json:"args,omitempty" yaml:"args,omitempty" msgpack:"args,omitempty"`
}

type DumpStmt struct {
	ID          int           `json:"id" yaml:"id" msgpack:"id"`
	Kind        string        `json:"kind" yaml:"kind" msgpack:"kind"`
	Range       *DumpRange    `json:"range,omitempty" yaml:"range,omitempty" msgpack:"range,omitempty"`
	Type        *DumpQualType `json:"type,omitempty" yaml:"type,omitempty" msgpack:"type,omitempty"`
	Inner       []int         `json:"inner,omitempty" yaml:"inner,omitempty" msgpack:"inner,omitempty"`
	Decl        int           `json:"decl,omitempty" yaml:"decl,omitempty" msgpack:"decl,omitempty"`
	Decls       []int         `json:"decls,omitempty" yaml:"decls,omitempty" msgpack:"decls,omitempty"`
	Opcode      string        `json:"opcode,omitempty" yaml:"opcode,omitempty" msgpack:"opcode,omitempty"`
	Postfix     bool          `json:"postfix,omitempty" yaml:"postfix,omitempty" msgpack:"postfix,omitempty"`
	Arrow       bool          `json:"arrow,omitempty" yaml:"arrow,omitempty" msgpack:"arrow,omitempty"`
	Name        string        `json:"name,omitempty" yaml:"name,omitempty" msgpack:"name,omitempty"`
	Value       string        `json:"value,omitempty" yaml:"value,omitempty" msgpack:"value,omitempty"`
	Precision   int           `json:"precision,omitempty" yaml:"precision,omitempty" msgpack:"precision,omitempty"`
	CastKind    string        `json:"castKind,omitempty" yaml:"castKind,omitempty" msgpack:"castKind,omitempty"`
	WrittenType *DumpQualType `json:"writtenType,omitempty" yaml:"writtenType,omitempty" msgpack:"writtenType,omitempty"`
	ArgIsType   bool          `json:"argIsType,omitempty" yaml:"argIsType,omitempty" msgpack:"argIsType,omitempty"`
	Dependent   bool          `json:"dependent,omitempty" yaml:"dependent,omitempty" msgpack:"dependent,omitempty"`
	Directive   string        `json:"directive,omitempty" yaml:"directive,omitempty" msgpack:"directive,omitempty"`

	Designators []DumpDesignator `json:"designators,omitempty" yaml:"designators,omitempty" msgpack:"designators,omitempty"`
}

type DumpDesignator struct {
	Field    int    `json:"field,omitempty" yaml:"field,omitempty" msgpack:"field,omitempty"`
	Name     string `json:"name,omitempty" yaml:"name,omitempty" msgpack:"name,omitempty"`
	Index    int    `json:"index,omitempty" yaml:"index,omitempty" msgpack:"index,omitempty"`
	RangeEnd int    `json:"rangeEnd,omitempty" yaml:"rangeEnd,omitempty" msgpack:"rangeEnd,omitempty"`
}
