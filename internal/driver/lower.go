package driver

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"astbridge/internal/diag"
	"astbridge/internal/foreign"
	"astbridge/internal/lower"
	"astbridge/internal/observ"
	"astbridge/internal/source"
	"astbridge/internal/trace"
	"astbridge/internal/xref"
)

// Options configure a multi-unit run.
type Options struct {
	Jobs           int
	MaxDepth       int
	MaxDiagnostics int
	// Werror promotes lowering warnings to errors.
	Werror   bool
	Timings  bool
	Cache    *DiskCache
	Progress ProgressSink
	// Index, when set, receives every successfully lowered unit under RunID.
	Index *xref.Store
	RunID string
}

// UnitResult is the outcome of one unit. Err is set when the unit could not
// be decoded or its lowering was aborted; the other units are unaffected.
type UnitResult struct {
	Path    string
	Files   *source.FileSet
	Bag     *diag.Bag
	Context *lower.Context
	Result  *lower.Result
	Err     error
	Cached  bool
	Timing  observ.Report
}

// Failed reports whether the unit produced no usable module.
func (r *UnitResult) Failed() bool { return r.Err != nil || r.Result == nil }

// LowerUnits decodes and lowers every path concurrently, at most opts.Jobs at
// a time. Results come back in the order of paths. Only cancellation of ctx
// fails the run as a whole.
func LowerUnits(ctx context.Context, paths []string, opts Options) ([]UnitResult, error) {
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeDriver, "lower units", trace.CurrentSpan(ctx).SpanID)
	if opts.RunID != "" {
		span.WithExtra("run", opts.RunID)
	}
	defer span.End(fmt.Sprintf("%d unit(s)", len(paths)))
	ctx = trace.WithSpanContext(ctx, trace.SpanContext{SpanID: span.ID()})

	results := make([]UnitResult, len(paths))
	if len(paths) == 0 {
		return results, nil
	}
	for _, p := range paths {
		emit(opts.Progress, Event{Unit: p, Stage: StageDecode, Status: StatusQueued})
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(paths)))
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = lowerOne(gctx, path, opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

// LowerFile decodes and lowers a single dump.
func LowerFile(ctx context.Context, path string, opts Options) UnitResult {
	return lowerOne(ctx, path, opts)
}

func lowerOne(ctx context.Context, path string, opts Options) UnitResult {
	res := UnitResult{
		Path:  path,
		Files: source.NewFileSet(),
		Bag:   diag.NewBag(opts.MaxDiagnostics),
	}
	timer := observ.NewTimer()
	started := time.Now()
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopePass, "unit "+path, trace.CurrentSpan(ctx).SpanID)
	stage := StageDecode
	defer func() {
		res.Timing = timer.Report()
		if opts.Timings {
			addTimings(res.Bag, &res)
		}
		status := StatusDone
		if res.Err != nil {
			status = StatusError
			span.End(res.Err.Error())
		} else {
			span.End("")
		}
		emit(opts.Progress, Event{Unit: path, Stage: stage, Status: status, Err: res.Err, Elapsed: time.Since(started)})
	}()

	emit(opts.Progress, Event{Unit: path, Stage: StageDecode, Status: StatusWorking})
	idx := timer.Begin("decode")
	unit, cached, err := decodeUnit(path, res.Files, opts.Cache)
	timer.End(idx, "")
	res.Cached = cached
	if err != nil {
		res.Err = err
		reportDecodeError(res.Bag, path, err)
		return res
	}

	stage = StageLower
	emit(opts.Progress, Event{Unit: path, Stage: stage, Status: StatusWorking})
	var rep diag.Reporter = diag.BagReporter{Bag: res.Bag}
	if opts.Werror {
		rep = diag.PromoteReporter{Next: rep}
	}
	rep = diag.NewDedupReporter(rep)
	idx = timer.Begin("lower")
	lc := lower.New(unit, lower.Options{
		Reporter:   rep,
		Tracer:     tracer,
		Files:      res.Files,
		MaxDepth:   opts.MaxDepth,
		ParentSpan: span.ID(),
	})
	out, err := lc.Lower()
	timer.End(idx, "")
	res.Context = lc
	if err != nil {
		res.Err = fmt.Errorf("lower %s: %w", path, err)
		return res
	}
	res.Result = out
	span.WithExtra("decls", fmt.Sprint(len(out.Module.Decls)))

	if opts.Index != nil {
		stage = StageIndex
		emit(opts.Progress, Event{Unit: path, Stage: stage, Status: StatusWorking})
		idx = timer.Begin("index")
		_, err := opts.Index.RecordUnit(ctx, opts.RunID, xref.Collect(lc, res.Files))
		timer.End(idx, "")
		if err != nil {
			res.Err = fmt.Errorf("index %s: %w", path, err)
		}
	}
	return res
}

// decodeUnit reads path, consulting the cache for the decoded tables, and
// links the unit into files.
func decodeUnit(path string, files *source.FileSet, cache *DiskCache) (*foreign.Unit, bool, error) {
	format := foreign.FormatOf(path)
	if format == foreign.FormatUnknown {
		return nil, false, fmt.Errorf("%s: %w", path, foreign.ErrFormat)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false, &readError{path: path, err: err}
	}

	var (
		dump   *foreign.Dump
		cached bool
	)
	key := CacheKey(data, format)
	if cache != nil && format != foreign.FormatMsgpack {
		var payload DiskPayload
		// a corrupt entry is a miss
		if ok, err := cache.Get(key, &payload); err == nil && ok {
			dump, cached = payload.Dump, true
		}
	}
	if dump == nil {
		dump, err = foreign.DecodeDump(format, data)
		if err != nil {
			return nil, false, fmt.Errorf("%s: %w", path, err)
		}
		if cache != nil && format != foreign.FormatMsgpack {
			_ = cache.Put(key, &DiskPayload{Source: path, Dump: dump})
		}
	}
	unit, err := foreign.Link(dump, files)
	if err != nil {
		return nil, cached, fmt.Errorf("%s: %w", path, err)
	}
	return unit, cached, nil
}

type readError struct {
	path string
	err  error
}

func (e *readError) Error() string { return fmt.Sprintf("read %s: %v", e.path, e.err) }
func (e *readError) Unwrap() error { return e.err }

func reportDecodeError(bag *diag.Bag, path string, err error) {
	var (
		code diag.Code
		re   *readError
		ref  *foreign.RefError
		kind *foreign.KindError
	)
	switch {
	case errors.As(err, &re):
		code = diag.DumpReadError
	case errors.Is(err, foreign.ErrSchema):
		code = diag.DumpSchemaMismatch
	case errors.As(err, &ref):
		code = diag.DumpDanglingRef
	case errors.As(err, &kind):
		code = diag.DumpUnknownKind
	default:
		code = diag.DumpDecodeError
	}
	diag.ReportError(diag.BagReporter{Bag: bag}, code, source.Span{}, err.Error()).
		WithNote(source.Span{}, "unit "+path).
		Emit()
}
