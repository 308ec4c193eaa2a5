package symbols

import (
	"errors"
	"fmt"
	"slices"
)

// Validate cross-checks the arenas and returns every violation found:
//   - parent and child links agree
//   - each scope's name index and symbol list hold the same ids
//   - each symbol is listed by the scope it names
//   - resolved labels live in a function scope
//   - only instantiations are filed under a key other than their name
func (t *Table) Validate() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	for id, sc := range t.Scopes.All {
		if sc.Kind == ScopeInvalid {
			fail("scope %d has invalid kind", id)
		}
		if sc.Parent.IsValid() {
			p := t.Scopes.Get(sc.Parent)
			switch {
			case p == nil || sc.Parent == id:
				fail("scope %d has invalid parent %d", id, sc.Parent)
			case !slices.Contains(p.Children, id):
				fail("scope %d missing from children of %d", id, sc.Parent)
			}
		} else if id != t.global {
			fail("%s scope %d is detached from the global scope", sc.Kind, id)
		}
		for _, child := range sc.Children {
			if c := t.Scopes.Get(child); c == nil || c.Parent != id {
				fail("scope %d lists child %d that does not point back", id, child)
			}
		}

		indexed := 0
		for name, bucket := range sc.NameIndex {
			for _, sid := range bucket {
				indexed++
				if !slices.Contains(sc.Symbols, sid) {
					fail("scope %d indexes %q as symbol %d, which it does not hold", id, name, sid)
				}
			}
		}
		if indexed != len(sc.Symbols) {
			fail("scope %d holds %d symbol(s) but indexes %d", id, len(sc.Symbols), indexed)
		}
	}

	for id, sym := range t.Symbols.All {
		sc := t.Scopes.Get(sym.Scope)
		if sc == nil {
			fail("symbol %d (%s) has invalid scope %d", id, sym.Name, sym.Scope)
			continue
		}
		if !slices.Contains(sc.Symbols, id) {
			fail("symbol %d (%s) is missing from scope %d", id, sym.Name, sym.Scope)
		}
		if sym.Kind == SymbolLabel && sym.Flags&SymbolFlagPlaceholder == 0 && sc.Kind != ScopeFunction {
			fail("label %s is bound in a %s scope", sym.Name, sc.Kind)
		}
		if sym.Key != "" && sym.Key != sym.Name && sym.Kind != SymbolInstantiation {
			fail("%s %s is filed under foreign key %q", sym.Kind, sym.Name, sym.Key)
		}
	}

	return errors.Join(errs...)
}
