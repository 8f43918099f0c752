package driver

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// CompileFiles compiles every path concurrently, at most opts.Jobs at a time.
// Each file gets its own Circuit. The returned slice is indexed like paths and
// keeps the partial results of failed files; the first error cancels the rest.
func CompileFiles(ctx context.Context, paths []string, opts Options) ([]*Result, error) {
	results := make([]*Result, len(paths))
	if len(paths) == 0 {
		return results, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	for _, path := range paths {
		opts.emit(Event{File: path, Stage: StageLoad, Status: StatusQueued})
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(paths)))
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := CompileFile(gctx, path, opts)
			results[i] = res
			return err
		})
	}
	err := g.Wait()
	Logger(ctx).Debug("compiled files", "count", len(paths), "jobs", jobs)
	return results, err
}
