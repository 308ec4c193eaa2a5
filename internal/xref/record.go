package xref

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"astbridge/internal/lower"
	"astbridge/internal/source"
	"astbridge/internal/types"
)

// SymbolRow is one indexed symbol.
type SymbolRow struct {
	ID        uint32
	Name      string
	Qualified string
	Kind      string
	Type      string
	Flags     string
	Line      uint32
	Col       uint32
}

// InstantiationRow is one synthesized instantiation.
type InstantiationRow struct {
	Mangled  string
	Display  string
	Template string
	Args     int
}

// UnitRecord is everything indexed for one lowered unit.
type UnitRecord struct {
	Path           string
	Module         string
	Degraded       bool
	Decls          int
	Types          int
	Symbols        []SymbolRow
	Instantiations []InstantiationRow
}

// Collect builds the record of a lowered unit. files resolves symbol
// positions and may be nil.
func Collect(c *lower.Context, files *source.FileSet) UnitRecord {
	m := c.Module()
	rec := UnitRecord{
		Path:     m.Path,
		Module:   m.Name,
		Degraded: c.Degraded(),
		Decls:    len(m.Decls),
		Types:    c.Types().Len(),
	}
	table := c.Symbols()
	for id, sym := range table.Symbols.All {
		row := SymbolRow{
			ID:        uint32(id),
			Name:      sym.Name,
			Qualified: table.QualifiedName(id),
			Kind:      sym.Kind.String(),
			Flags:     strings.Join(sym.Flags.Strings(), ","),
		}
		if sym.Type != types.NoTypeID {
			row.Type = c.Types().String(sym.Type)
		}
		if files != nil {
			if pos := files.Position(sym.Span); pos.IsValid() {
				row.Line, row.Col = pos.Line, pos.Col
			}
		}
		rec.Symbols = append(rec.Symbols, row)
	}
	for _, inst := range c.Instances() {
		rec.Instantiations = append(rec.Instantiations, InstantiationRow{
			Mangled:  inst.Name,
			Display:  inst.Display,
			Template: inst.Template.Name,
			Args:     len(inst.Args),
		})
	}
	sort.Slice(rec.Instantiations, func(i, j int) bool {
		return rec.Instantiations[i].Mangled < rec.Instantiations[j].Mangled
	})
	return rec
}

// RecordUnit stores rec under runID in one transaction and returns the unit
// row id. Recording the same path twice in a run keeps the first rows.
func (s *Store) RecordUnit(ctx context.Context, runID string, rec UnitRecord) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("record unit %s: %w", rec.Path, err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after Commit

	_, err = tx.ExecContext(ctx, `
		INSERT INTO units (run_id, path, module, degraded, decls, types)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id, path) DO NOTHING
	`, runID, rec.Path, rec.Module, rec.Degraded, rec.Decls, rec.Types)
	if err != nil {
		return 0, fmt.Errorf("record unit %s: %w", rec.Path, err)
	}
	var unitID int64
	if err := tx.QueryRowContext(ctx, `SELECT id FROM units WHERE run_id = ? AND path = ?`, runID, rec.Path).Scan(&unitID); err != nil {
		return 0, fmt.Errorf("record unit %s: %w", rec.Path, err)
	}

	symStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO symbols (unit_id, symbol_id, name, qualified, kind, type, flags, line, col)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING
	`)
	if err != nil {
		return 0, fmt.Errorf("record unit %s: %w", rec.Path, err)
	}
	defer symStmt.Close()
	for _, r := range rec.Symbols {
		if _, err := symStmt.ExecContext(ctx, unitID, r.ID, r.Name, r.Qualified, r.Kind, r.Type, r.Flags, r.Line, r.Col); err != nil {
			return 0, fmt.Errorf("record symbol %s: %w", r.Name, err)
		}
	}

	for _, r := range rec.Instantiations {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO instantiations (unit_id, mangled, display, template, args)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT DO NOTHING
		`, unitID, r.Mangled, r.Display, r.Template, r.Args)
		if err != nil {
			return 0, fmt.Errorf("record instantiation %s: %w", r.Mangled, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("record unit %s: %w", rec.Path, err)
	}
	return unitID, nil
}

// UnitRow is one indexed unit.
type UnitRow struct {
	ID       int64
	RunID    string
	Path     string
	Module   string
	Degraded bool
	Decls    int
	Types    int
}

// LatestRun returns the id of the most recent run, or "" for an empty index.
func (s *Store) LatestRun(ctx context.Context) (string, error) {
	var id string
	err := s.db.QueryRowContext(ctx, `SELECT id FROM runs ORDER BY started_at DESC, id DESC LIMIT 1`).Scan(&id)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("latest run: %w", err)
	}
	return id, nil
}

// Units lists the units of a run ordered by path.
func (s *Store) Units(ctx context.Context, runID string) ([]UnitRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, run_id, path, module, degraded, decls, types
		FROM units WHERE run_id = ? ORDER BY path
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("list units: %w", err)
	}
	defer rows.Close()
	var out []UnitRow
	for rows.Next() {
		var u UnitRow
		if err := rows.Scan(&u.ID, &u.RunID, &u.Path, &u.Module, &u.Degraded, &u.Decls, &u.Types); err != nil {
			return nil, fmt.Errorf("list units: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// Symbols lists the symbols of one unit row in allocation order.
func (s *Store) Symbols(ctx context.Context, unitID int64) ([]SymbolRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT symbol_id, name, qualified, kind, type, flags, line, col
		FROM symbols WHERE unit_id = ? ORDER BY symbol_id
	`, unitID)
	if err != nil {
		return nil, fmt.Errorf("list symbols: %w", err)
	}
	defer rows.Close()
	var out []SymbolRow
	for rows.Next() {
		var r SymbolRow
		if err := rows.Scan(&r.ID, &r.Name, &r.Qualified, &r.Kind, &r.Type, &r.Flags, &r.Line, &r.Col); err != nil {
			return nil, fmt.Errorf("list symbols: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Instantiations lists the instantiations of one unit row by mangled name.
func (s *Store) Instantiations(ctx context.Context, unitID int64) ([]InstantiationRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT mangled, display, template, args
		FROM instantiations WHERE unit_id = ? ORDER BY mangled
	`, unitID)
	if err != nil {
		return nil, fmt.Errorf("list instantiations: %w", err)
	}
	defer rows.Close()
	var out []InstantiationRow
	for rows.Next() {
		var r InstantiationRow
		if err := rows.Scan(&r.Mangled, &r.Display, &r.Template, &r.Args); err != nil {
			return nil, fmt.Errorf("list instantiations: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// FindSymbols returns units and symbols of a run whose name matches name.
func (s *Store) FindSymbols(ctx context.Context, runID, name string) (map[string][]SymbolRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT u.path, s.symbol_id, s.name, s.qualified, s.kind, s.type, s.flags, s.line, s.col
		FROM symbols s JOIN units u ON u.id = s.unit_id
		WHERE u.run_id = ? AND s.name = ?
		ORDER BY u.path, s.symbol_id
	`, runID, name)
	if err != nil {
		return nil, fmt.Errorf("find symbols: %w", err)
	}
	defer rows.Close()
	out := make(map[string][]SymbolRow)
	for rows.Next() {
		var (
			path string
			r    SymbolRow
		)
		if err := rows.Scan(&path, &r.ID, &r.Name, &r.Qualified, &r.Kind, &r.Type, &r.Flags, &r.Line, &r.Col); err != nil {
			return nil, fmt.Errorf("find symbols: %w", err)
		}
		out[path] = append(out[path], r)
	}
	return out, rows.Err()
}
