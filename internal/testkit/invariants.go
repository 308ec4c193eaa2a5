package testkit

import (
	"errors"
	"fmt"

	"fortio.org/safecast"

	"astbridge/internal/ir"
	"astbridge/internal/source"
	"astbridge/internal/symbols"
	"astbridge/internal/types"
)

// CheckModuleInvariants runs structural checks on a lowered module:
// 1) every child's Parent is the node that owns it, roots have no parent
// 2) no node is owned twice
// 3) spans with a file lie inside that file's content (when fs is given)
// 4) symbol and type ids carried by nodes resolve in the module tables
// All violations are joined into the returned error.
func CheckModuleInvariants(m *ir.Module, fs *source.FileSet) error {
	if m == nil {
		return fmt.Errorf("nil module")
	}
	ck := &checker{m: m, fs: fs, seen: make(map[ir.Node]bool)}
	for _, roots := range [][]*ir.Stmt{m.Decls, m.Implicit} {
		for _, root := range roots {
			if root == nil {
				ck.fail("nil root declaration")
				continue
			}
			if !ir.IsNil(root.Parent) {
				ck.fail("root %s has a parent", root.Kind)
			}
			ck.visit(root)
		}
	}
	return errors.Join(ck.errs...)
}

type checker struct {
	m    *ir.Module
	fs   *source.FileSet
	seen map[ir.Node]bool
	errs []error
}

func (ck *checker) fail(format string, args ...any) {
	ck.errs = append(ck.errs, fmt.Errorf(format, args...))
}

func (ck *checker) visit(n ir.Node) {
	if ck.seen[n] {
		ck.fail("%s at %v is owned twice", n.NodeKind(), n.NodeSpan())
		return
	}
	ck.seen[n] = true
	ck.checkSpan(n)
	ck.checkIDs(n)
	for _, child := range ir.Children(n) {
		if child.ParentNode() != n {
			ck.fail("%s at %v: parent is not the owning %s", child.NodeKind(), child.NodeSpan(), n.NodeKind())
		}
		ck.visit(child)
	}
}

func (ck *checker) checkSpan(n ir.Node) {
	sp := n.NodeSpan()
	if sp.End < sp.Start {
		ck.fail("%s: inverted span %v", n.NodeKind(), sp)
		return
	}
	if ck.fs == nil || sp.File == source.NoFileID {
		return
	}
	f := ck.fs.Get(sp.File)
	if f == nil {
		ck.fail("%s: span %v names an unknown file", n.NodeKind(), sp)
		return
	}
	if f.Flags&source.FileNoContent != 0 {
		return
	}
	size, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		ck.fail("content length overflow: %v", err)
		return
	}
	if sp.End > size {
		ck.fail("%s: span %v beyond end of %s (%d bytes)", n.NodeKind(), sp, f.Path, size)
	}
}

func (ck *checker) checkIDs(n ir.Node) {
	switch v := n.(type) {
	case *ir.Stmt:
		if _, sym, ok := ir.DeclName(v); ok {
			ck.checkSymbol(v.Kind.String(), sym)
		}
	case *ir.Expr:
		if v.Type != types.NoTypeID && ck.m.Types != nil {
			if _, ok := ck.m.Types.Lookup(v.Type); !ok {
				ck.fail("%s: unknown type id %d", v.Kind, v.Type)
			}
		}
		if ref, ok := v.Data.(ir.RefData); ok {
			ck.checkSymbol(v.Kind.String(), ref.Symbol)
		}
	}
}

func (ck *checker) checkSymbol(what string, id symbols.SymbolID) {
	if id == symbols.NoSymbolID {
		return
	}
	if ck.m.Symbol(id) == nil {
		ck.fail("%s: unknown symbol id %d", what, id)
	}
}
