package foreign

import (
	"fmt"

	"astbridge/internal/source"
)

type linker struct {
	fs    *source.FileSet
	files map[int]source.FileID
	stmts map[int]*Stmt
	types map[int]*Type
	decls map[int]*Decl
	unit  *Unit
}

// Link resolves the id references of d into a pointer graph. Files are
// registered in fs so spans resolve to line and column.
func Link(d *Dump, fs *source.FileSet) (*Unit, error) {
	if err := CheckSchema(d.Schema); err != nil {
		return nil, err
	}
	if fs == nil {
		fs = source.NewFileSet()
	}
	l := &linker{
		fs:    fs,
		files: make(map[int]source.FileID, len(d.Files)),
		stmts: make(map[int]*Stmt, len(d.Stmts)),
		types: make(map[int]*Type, len(d.Types)),
		decls: make(map[int]*Decl, len(d.Decls)),
		unit:  &Unit{Schema: d.Schema, Path: d.Unit},
	}
	if err := l.allocate(d); err != nil {
		return nil, err
	}
	for i := range d.Types {
		if err := l.fillType(&d.Types[i]); err != nil {
			return nil, err
		}
	}
	for i := range d.Decls {
		if err := l.fillDecl(&d.Decls[i]); err != nil {
			return nil, err
		}
	}
	for i := range d.Stmts {
		if err := l.fillStmt(&d.Stmts[i]); err != nil {
			return nil, err
		}
	}
	for i, id := range d.Top {
		decl, err := l.decl(id, fmt.Sprintf("top[%d]", i))
		if err != nil {
			return nil, err
		}
		if decl != nil {
			l.unit.Top = append(l.unit.Top, decl)
		}
	}
	return l.unit, nil
}

func (l *linker) allocate(d *Dump) error {
	for _, f := range d.Files {
		if f.ID <= 0 {
			return &IDError{Table: "files", ID: f.ID}
		}
		if _, dup := l.files[f.ID]; dup {
			return &IDError{Table: "files", ID: f.ID, Dup: true}
		}
		var content []byte
		if f.Content != nil {
			content = []byte(*f.Content)
		}
		id := l.fs.AddVirtual(f.Path, content)
		l.files[f.ID] = id
		l.unit.Files = append(l.unit.Files, id)
	}
	for _, t := range d.Types {
		if t.ID <= 0 {
			return &IDError{Table: "types", ID: t.ID}
		}
		if _, dup := l.types[t.ID]; dup {
			return &IDError{Table: "types", ID: t.ID, Dup: true}
		}
		node := &Type{ID: t.ID}
		if kind, ok := ParseTypeKind(t.Kind); ok {
			node.Kind = kind
		} else if t.Kind != "" {
			node.Kind, node.Class = UnknownType, t.Kind
		} else {
			return &KindError{Table: "types", ID: t.ID, Kind: t.Kind}
		}
		l.types[t.ID] = node
		l.unit.types = append(l.unit.types, node)
	}
	for _, dd := range d.Decls {
		if dd.ID <= 0 {
			return &IDError{Table: "decls", ID: dd.ID}
		}
		if _, dup := l.decls[dd.ID]; dup {
			return &IDError{Table: "decls", ID: dd.ID, Dup: true}
		}
		kind, ok := ParseDeclKind(dd.Kind)
		if !ok {
			return &KindError{Table: "decls", ID: dd.ID, Kind: dd.Kind}
		}
		node := &Decl{ID: dd.ID, Kind: kind}
		l.decls[dd.ID] = node
		l.unit.decls = append(l.unit.decls, node)
	}
	for _, s := range d.Stmts {
		if s.ID <= 0 {
			return &IDError{Table: "stmts", ID: s.ID}
		}
		if _, dup := l.stmts[s.ID]; dup {
			return &IDError{Table: "stmts", ID: s.ID, Dup: true}
		}
		kind, ok := ParseStmtKind(s.Kind)
		if !ok {
			return &KindError{Table: "stmts", ID: s.ID, Kind: s.Kind}
		}
		node := &Stmt{ID: s.ID, Kind: kind}
		l.stmts[s.ID] = node
		l.unit.stmts = append(l.unit.stmts, node)
	}
	return nil
}

func (l *linker) stmt(id int, from string) (*Stmt, error) {
	if id == 0 {
		return nil, nil
	}
	s, ok := l.stmts[id]
	if !ok {
		return nil, &RefError{Table: "stmts", From: from, Ref: id}
	}
	return s, nil
}

func (l *linker) typ(id int, from string) (*Type, error) {
	if id == 0 {
		return nil, nil
	}
	t, ok := l.types[id]
	if !ok {
		return nil, &RefError{Table: "types", From: from, Ref: id}
	}
	return t, nil
}

func (l *linker) decl(id int, from string) (*Decl, error) {
	if id == 0 {
		return nil, nil
	}
	d, ok := l.decls[id]
	if !ok {
		return nil, &RefError{Table: "decls", From: from, Ref: id}
	}
	return d, nil
}

func (l *linker) qual(q *DumpQualType, from string) (QualType, error) {
	if q == nil {
		return QualType{}, nil
	}
	t, err := l.typ(q.Type, from)
	if err != nil {
		return QualType{}, err
	}
	return QualType{
		Type:         t,
		Const:        q.Const,
		Volatile:     q.Volatile,
		Restrict:     q.Restrict,
		AddressSpace: q.AddressSpace,
	}, nil
}

func (l *linker) span(r *DumpRange, from string) (source.Span, error) {
	if r == nil {
		return source.Span{}, nil
	}
	sp := source.Span{Start: r.Begin, End: r.End}
	if r.File == 0 {
		return sp, nil
	}
	fid, ok := l.files[r.File]
	if !ok {
		return source.Span{}, &RefError{Table: "files", From: from, Ref: r.File}
	}
	sp.File = fid
	return sp, nil
}

func (l *linker) args(in []DumpTemplateArg, from string) ([]TemplateArg, error) {
	if len(in) == 0 {
		return nil, nil
	}
	out := make([]TemplateArg, len(in))
	for i := range in {
		a := &in[i]
		where := fmt.Sprintf("%s args[%d]", from, i)
		kind, ok := ParseTemplateArgKind(a.Kind)
		if !ok {
			return nil, &KindError{Table: "template args", Kind: a.Kind}
		}
		qt, err := l.qual(a.Type, where)
		if err != nil {
			return nil, err
		}
		expr, err := l.stmt(a.Expr, where)
		if err != nil {
			return nil, err
		}
		decl, err := l.decl(a.Decl, where)
		if err != nil {
			return nil, err
		}
		pack, err := l.args(a.Pack, where)
		if err != nil {
			return nil, err
		}
		out[i] = TemplateArg{
			Kind:     kind,
			Type:     qt,
			Value:    a.Value,
			Template: a.Template,
			Expr:     expr,
			Decl:     decl,
			Pack:     pack,
		}
	}
	return out, nil
}

func (l *linker) designators(in []DumpDesignator, from string) ([]Designator, error) {
	if len(in) == 0 {
		return nil, nil
	}
	out := make([]Designator, len(in))
	for i, d := range in {
		where := fmt.Sprintf("%s designators[%d]", from, i)
		field, err := l.decl(d.Field, where)
		if err != nil {
			return nil, err
		}
		index, err := l.stmt(d.Index, where)
		if err != nil {
			return nil, err
		}
		end, err := l.stmt(d.RangeEnd, where)
		if err != nil {
			return nil, err
		}
		out[i] = Designator{Field: field, Name: d.Name, Index: index, RangeEnd: end}
	}
	return out, nil
}

func (l *linker) fillType(t *DumpType) error {
	node := l.types[t.ID]
	from := fmt.Sprintf("type %d", t.ID)
	var err error
	node.Name = t.Name
	node.Variadic = t.Variadic
	node.Size = t.Size
	node.Star = t.Star
	node.VectorSize = t.VectorSize
	if node.Elem, err = l.qual(t.Elem, from+" elem"); err != nil {
		return err
	}
	if len(t.Params) > 0 {
		node.Params = make([]QualType, len(t.Params))
		for i := range t.Params {
			if node.Params[i], err = l.qual(&t.Params[i], fmt.Sprintf("%s params[%d]", from, i)); err != nil {
				return err
			}
		}
	}
	if node.SizeExpr, err = l.stmt(t.SizeExpr, from+" sizeExpr"); err != nil {
		return err
	}
	if node.Decl, err = l.decl(t.Decl, from+" decl"); err != nil {
		return err
	}
	node.Args, err = l.args(t.Args, from)
	return err
}

func (l *linker) fillDecl(d *DumpDecl) error {
	node := l.decls[d.ID]
	from := fmt.Sprintf("decl %d", d.ID)
	var err error
	node.Name = d.Name
	node.QualName = d.QualName
	node.Tag = d.Tag
	node.Storage = d.Storage
	node.Defined = d.Defined
	node.Implicit = d.Implicit
	node.Template = d.Template
	if node.Range, err = l.span(d.Range, from); err != nil {
		return err
	}
	if node.Type, err = l.qual(d.Type, from+" type"); err != nil {
		return err
	}
	if node.Init, err = l.stmt(d.Init, from+" init"); err != nil {
		return err
	}
	if node.Body, err = l.stmt(d.Body, from+" body"); err != nil {
		return err
	}
	if node.Parent, err = l.decl(d.Parent, from+" parent"); err != nil {
		return err
	}
	if node.Params, err = l.declList(d.Params, from+" params"); err != nil {
		return err
	}
	if node.Members, err = l.declList(d.Members, from+" members"); err != nil {
		return err
	}
	node.Args, err = l.args(d.Args, from)
	return err
}

func (l *linker) declList(ids []int, from string) ([]*Decl, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	out := make([]*Decl, 0, len(ids))
	for i, id := range ids {
		d, err := l.decl(id, fmt.Sprintf("%s[%d]", from, i))
		if err != nil {
			return nil, err
		}
		if d != nil {
			out = append(out, d)
		}
	}
	return out, nil
}

func (l *linker) fillStmt(s *DumpStmt) error {
	node := l.stmts[s.ID]
	from := fmt.Sprintf("stmt %d", s.ID)
	var err error
	node.Opcode = s.Opcode
	node.Postfix = s.Postfix
	node.Arrow = s.Arrow
	node.Name = s.Name
	node.Value = s.Value
	node.Precision = s.Precision
	node.CastKind = s.CastKind
	node.ArgIsType = s.ArgIsType
	node.Dependent = s.Dependent
	node.Directive = s.Directive
	if node.Range, err = l.span(s.Range, from); err != nil {
		return err
	}
	if node.Type, err = l.qual(s.Type, from+" type"); err != nil {
		return err
	}
	if node.WrittenType, err = l.qual(s.WrittenType, from+" writtenType"); err != nil {
		return err
	}
	if node.Decl, err = l.decl(s.Decl, from+" decl"); err != nil {
		return err
	}
	if node.Decls, err = l.declList(s.Decls, from+" decls"); err != nil {
		return err
	}
	if node.Designators, err = l.designators(s.Designators, from); err != nil {
		return err
	}
	if len(s.Inner) > 0 {
		// positions matter: a 0 id stays a nil child
		node.Inner = make([]*Stmt, len(s.Inner))
		for i, id := range s.Inner {
			if node.Inner[i], err = l.stmt(id, fmt.Sprintf("%s inner[%d]", from, i)); err != nil {
				return err
			}
		}
	}
	return nil
}
