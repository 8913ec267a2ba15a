package suite

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"lumen/internal/diag"
	"lumen/internal/observ"
	"lumen/internal/project"
	"lumen/internal/source"
	"lumen/internal/trace"
)

// Options configures Run.
type Options struct {
	Jobs           int // 0 - GOMAXPROCS
	MaxDiagnostics int // на один набор, 0 - без ограничения
	Tracer         trace.Tracer
	Sink           ProgressSink
	Cache          *Cache // nil - без кэша
	Timer          *observ.Timer
}

// Run evaluates the suite files in parallel, one session per file. Results
// keep the order of files.
func Run(ctx context.Context, files []string, opts Options) ([]*Result, error) {
	if len(files) == 0 {
		return nil, nil
	}
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	tracer := opts.Tracer
	if tracer == nil {
		tracer = trace.Nop
	}
	span := trace.Begin(tracer, trace.ScopeRun, "eval", trace.CurrentSpan(ctx))
	defer span.End(fmt.Sprintf("%d suite(s)", len(files)))
	ctx = trace.WithSpan(ctx, span)

	for _, f := range files {
		emit(opts.Sink, Event{File: f, Status: StatusQueued})
	}

	// Результаты (индексы уникальны для каждой горутины, мьютекс не нужен)
	results := make([]*Result, len(files))
	timers := make([]*observ.Timer, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))
	for i, path := range files {
		g.Go(func() error {
			// Проверка отмены
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			timers[i] = observ.NewTimer()
			start := time.Now()
			res, err := runOne(gctx, path, opts, tracer, timers[i])
			if err != nil {
				emit(opts.Sink, Event{File: path, Status: StatusError, Err: err, Elapsed: time.Since(start)})
				return err
			}
			results[i] = res
			emit(opts.Sink, Event{File: path, Status: res.Status(), Done: len(res.Cases), Total: len(res.Cases), Elapsed: time.Since(start)})
			return nil
		})
	}
	err := g.Wait()
	if opts.Timer != nil {
		for _, t := range timers {
			opts.Timer.Merge(t)
		}
	}
	if err != nil {
		return nil, err
	}
	return results, nil
}

func runOne(ctx context.Context, path string, opts Options, tracer trace.Tracer, timer *observ.Timer) (*Result, error) {
	sess := NewSession(path, tracer, opts.MaxDiagnostics)

	var key project.Digest
	cacheable := false
	if opts.Cache != nil {
		emit(opts.Sink, Event{File: path, Stage: StageCache, Status: StatusWorking})
		_ = timer.Measure("cache", func() error {
			digest, err := sess.Digest()
			if err != nil {
				// ошибку чтения сообщит сама сессия
				return err
			}
			key = Key(digest)
			cacheable = true
			return nil
		})
		if cacheable {
			if res, ok, err := opts.Cache.Get(key); err == nil && ok {
				trace.Point(tracer, trace.ScopeSuite, path, "cache hit", trace.CurrentSpan(ctx))
				return res, nil
			}
		}
	}

	var res *Result
	err := timer.Measure("evaluate", func() error {
		var err error
		res, err = sess.Run(ctx, opts.Sink)
		return err
	})
	if err != nil {
		return nil, err
	}
	if cacheable && res.LoadErr == "" {
		if err := opts.Cache.Put(key, res); err != nil {
			res.Diags = append(res.Diags, recordOf(diag.New(diag.SevWarning, diag.IOCacheError,
				source.Span{File: sess.exprFile}, "result not cached: "+err.Error()), sess.suiteFile))
		}
	}
	return res, nil
}
