package lower

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"astbridge/internal/diag"
	"astbridge/internal/foreign"
	"astbridge/internal/ir"
	"astbridge/internal/observ"
	"astbridge/internal/source"
	"astbridge/internal/symbols"
	"astbridge/internal/trace"
	"astbridge/internal/types"
)

// DefaultMaxDepth bounds the recursion over nested foreign nodes.
const DefaultMaxDepth = 2048

// Options configure a Context.
type Options struct {
	Reporter diag.Reporter
	Tracer   trace.Tracer
	// Files resolves spans for directive positions; may be nil.
	Files    *source.FileSet
	MaxDepth int
	// ParentSpan is the trace span the unit span nests under.
	ParentSpan uint64
}

// Result is the outcome of lowering one unit.
type Result struct {
	Module *ir.Module
	// Degraded is set when some node did not translate into the category its
	// parent expected; the tree is still well formed.
	Degraded   bool
	Mismatches int
	Stats      map[string]int
}

// Context holds all state of one translation unit.
type Context struct {
	unit   *foreign.Unit
	rep    diag.Reporter
	tracer trace.Tracer
	files  *source.FileSet
	parent uint64

	types  *types.Interner
	table  *symbols.Table
	stack  *symbols.Stack
	module *ir.Module

	// translation cache
	stmts    map[*foreign.Stmt]ir.Node
	typeMap  map[*foreign.Type]types.TypeID
	decls    map[*foreign.Decl]*ir.Stmt
	syms     map[*foreign.Decl]symbols.SymbolID
	lowering map[*foreign.Decl]bool

	named      map[string]types.TypeID
	anonNamed  map[*foreign.Decl]types.TypeID
	recordSyms map[types.TypeID]symbols.SymbolID
	nsDecls    map[*foreign.Decl]*ir.Stmt
	namespaces map[symbols.ScopeID]*ir.Stmt
	pending    map[symbols.ScopeID][]*ir.Stmt
	lazy       []*ir.Stmt
	rooted     map[*ir.Stmt]bool

	templates map[string]*TemplateRecord
	instances map[string]*InstantiationRecord

	stats     *observ.Counters
	depth     int
	maxDepth  int
	initDepth int

	mismatches    int
	firstMismatch string
	mismatchSpan  source.Span
	warned        map[string]bool

	result *Result
}

// New prepares a Context for unit.
func New(unit *foreign.Unit, opts Options) *Context {
	rep := opts.Reporter
	if rep == nil {
		rep = diag.NopReporter{}
	}
	tracer := opts.Tracer
	if tracer == nil {
		tracer = trace.Nop
	}
	maxDepth := opts.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	if unit == nil {
		unit = &foreign.Unit{}
	}
	stmts, typeCount, declCount := unit.Counts()
	in := types.NewInterner()
	table := symbols.NewTable(symbols.Hints{Scopes: uint(stmts/4 + 8), Symbols: uint(declCount + 8)}) //nolint:gosec // counts are non-negative
	c := &Context{
		unit:       unit,
		rep:        rep,
		tracer:     tracer,
		files:      opts.Files,
		parent:     opts.ParentSpan,
		types:      in,
		table:      table,
		stack:      symbols.NewStack(table),
		module:     ir.NewModule(moduleName(unit.Path), in, table),
		stmts:      make(map[*foreign.Stmt]ir.Node, stmts),
		typeMap:    make(map[*foreign.Type]types.TypeID, typeCount),
		decls:      make(map[*foreign.Decl]*ir.Stmt, declCount),
		syms:       make(map[*foreign.Decl]symbols.SymbolID, declCount),
		lowering:   make(map[*foreign.Decl]bool),
		named:      make(map[string]types.TypeID),
		anonNamed:  make(map[*foreign.Decl]types.TypeID),
		recordSyms: make(map[types.TypeID]symbols.SymbolID),
		nsDecls:    make(map[*foreign.Decl]*ir.Stmt),
		namespaces: make(map[symbols.ScopeID]*ir.Stmt),
		pending:    make(map[symbols.ScopeID][]*ir.Stmt),
		rooted:     make(map[*ir.Stmt]bool),
		templates:  make(map[string]*TemplateRecord),
		instances:  make(map[string]*InstantiationRecord),
		stats:      observ.NewCounters(),
		maxDepth:   maxDepth,
		warned:     make(map[string]bool),
	}
	c.module.Path = unit.Path
	return c
}

// LowerUnit lowers unit with the tracer carried by ctx.
func LowerUnit(ctx context.Context, unit *foreign.Unit, opts Options) (*Result, error) {
	if opts.Tracer == nil {
		opts.Tracer = trace.FromContext(ctx)
	}
	if opts.ParentSpan == 0 {
		opts.ParentSpan = trace.CurrentSpan(ctx).SpanID
	}
	return New(unit, opts).Lower()
}

// Module returns the module being built.
func (c *Context) Module() *ir.Module { return c.module }

// Types returns the unit's type interner.
func (c *Context) Types() *types.Interner { return c.types }

// Symbols returns the unit's symbol table.
func (c *Context) Symbols() *symbols.Table { return c.table }

// Stack returns the scope stack; it is empty outside Lower and Translate.
func (c *Context) Stack() *symbols.Stack { return c.stack }

// Stats returns the number of dispatches per node kind, keyed
// "stmt:<Kind>", "type:<Kind>" and "decl:<Kind>".
func (c *Context) Stats() *observ.Counters { return c.stats }

// Degraded reports whether any category mismatch has occurred so far.
func (c *Context) Degraded() bool { return c.mismatches > 0 }

// Lower translates every root declaration of the unit. The global scope is
// pushed on entry and must be the only open scope at the end.
func (c *Context) Lower() (res *Result, err error) {
	if c.result != nil {
		return c.result, nil
	}
	span := trace.Begin(c.tracer, trace.ScopeModule, "lower "+c.unit.Path, c.parent)
	defer func() {
		span.WithExtra("decls", strconv.Itoa(len(c.module.Decls)))
		span.WithExtra("types", strconv.Itoa(c.types.Len()))
		if err != nil {
			span.End(err.Error())
			return
		}
		span.End("")
	}()
	defer c.recoverBailout(&err)

	if c.stack.Depth() != 0 {
		c.invariant(source.Span{}, nil, "scope stack not empty at unit entry")
	}
	global := c.table.Global()
	c.stack.Push(global)
	func() {
		defer c.leave(global)
		for _, d := range c.unit.Top {
			c.lowerMember(d, span.ID(), c.module.AddDecl)
		}
	}()
	if depth := c.stack.Depth(); depth != 0 {
		c.invariant(source.Span{}, nil, fmt.Sprintf("%d scope(s) still open at unit end", depth))
	}
	c.flushLazy()
	for scope, left := range c.pending {
		if len(left) > 0 {
			c.invariant(left[0].Span, nil, fmt.Sprintf("%d declaration(s) never placed in scope %d", len(left), scope))
		}
	}
	if err := c.table.Validate(); err != nil {
		c.invariant(source.Span{}, err, "symbol table inconsistent after lowering")
	}
	c.reportDegraded()

	c.result = &Result{
		Module:     c.module,
		Degraded:   c.mismatches > 0,
		Mismatches: c.mismatches,
		Stats:      c.stats.Snapshot(),
	}
	return c.result, nil
}

// Translate lowers one foreign statement or expression and returns its IR
// node. A nil node yields nil. Translating the same node again returns the
// identical IR node without dispatching.
func (c *Context) Translate(s *foreign.Stmt) (n ir.Node, err error) {
	if s == nil {
		return nil, nil
	}
	defer c.recoverBailout(&err)
	if c.stack.Depth() == 0 {
		global := c.table.Global()
		c.stack.Push(global)
		defer c.leave(global)
	}
	n, _ = c.translate(s)
	return n, nil
}

// LowerQualType lowers a qualified foreign type to its canonical TypeID.
func (c *Context) LowerQualType(qt foreign.QualType) (id types.TypeID, err error) {
	defer c.recoverBailout(&err)
	if c.stack.Depth() == 0 {
		global := c.table.Global()
		c.stack.Push(global)
		defer c.leave(global)
	}
	return c.lowerQualType(qt, source.Span{}), nil
}

// ResolveReference returns the symbol bound to d, creating it on demand.
// The result is always a valid symbol named after d.
func (c *Context) ResolveReference(d *foreign.Decl) (id symbols.SymbolID, err error) {
	defer c.recoverBailout(&err)
	if c.stack.Depth() == 0 {
		global := c.table.Global()
		c.stack.Push(global)
		defer c.leave(global)
	}
	return c.resolveReference(d, d.Range), nil
}

// Instantiate returns the instantiation record of template applied to args.
func (c *Context) Instantiate(template string, args []foreign.TemplateArg) (rec *InstantiationRecord, err error) {
	defer c.recoverBailout(&err)
	if c.stack.Depth() == 0 {
		global := c.table.Global()
		c.stack.Push(global)
		defer c.leave(global)
	}
	return c.instantiate(template, args, source.Span{}), nil
}

func (c *Context) descend(sp source.Span, what string) {
	c.depth++
	if c.depth > c.maxDepth {
		c.depth = 0
		e := &InvariantError{Msg: fmt.Sprintf("nesting deeper than %d at %s", c.maxDepth, what), Span: sp}
		diag.ReportError(c.rep, diag.LowDepthExceeded, sp, e.Error()).Emit()
		panic(bailout{err: e})
	}
}

func (c *Context) ascend() {
	if c.depth > 0 {
		c.depth--
	}
}

// unimplemented reports the construct and aborts the unit.
func (c *Context) unimplemented(cat Category, kind string, sp source.Span, detail string) {
	e := &UnimplementedError{Category: cat, Kind: kind, Detail: detail, Span: sp}
	code := diag.LowUnimplementedStmt
	switch cat {
	case CategoryExpr:
		code = diag.LowUnimplementedExpr
	case CategoryType:
		code = diag.LowUnimplementedType
	case CategoryDecl:
		code = diag.LowUnimplementedDecl
	case CategoryOperator:
		code = diag.LowUnimplementedOperator
	}
	diag.ReportError(c.rep, code, sp, e.Error()).Emit()
	panic(bailout{err: e})
}

// invariant reports an engine bug and aborts the unit.
func (c *Context) invariant(sp source.Span, cause error, msg string) {
	e := &InvariantError{Msg: msg, Span: sp, Err: cause}
	code := diag.LowInvariant
	if _, ok := cause.(*symbols.ScopeError); ok {
		code = diag.LowScopeImbalance
	}
	diag.ReportError(c.rep, code, sp, e.Error()).Emit()
	panic(bailout{err: e})
}

// mismatch records a child that did not translate into the expected category.
func (c *Context) mismatch(sp source.Span, what string, ok *bool) {
	c.mismatches++
	if c.mismatches == 1 {
		c.firstMismatch = what
		c.mismatchSpan = sp
	}
	if ok != nil {
		*ok = false
	}
}

func (c *Context) reportDegraded() {
	if c.mismatches == 0 {
		return
	}
	msg := fmt.Sprintf("lowering degraded: %d node(s) not in the expected category (first: %s)", c.mismatches, c.firstMismatch)
	diag.ReportWarning(c.rep, diag.LowCategoryMismatch, c.mismatchSpan, msg).Emit()
}

// warnOnce emits a warning once per key.
func (c *Context) warnOnce(key string, code diag.Code, sp source.Span, msg string) {
	if c.warned[key] {
		return
	}
	c.warned[key] = true
	diag.ReportWarning(c.rep, code, sp, msg).Emit()
}

// moduleName derives the module name from the unit path: the base name
// without its extensions.
func moduleName(path string) string {
	base := filepath.Base(path)
	if i := strings.IndexByte(base, '.'); i > 0 {
		base = base[:i]
	}
	if base == "." || base == string(filepath.Separator) {
		return ""
	}
	return base
}
