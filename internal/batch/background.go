package batch

import (
	"context"
	"runtime"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/ytget/file-converter/internal/convert"
	"github.com/ytget/file-converter/internal/model"
)

// DefaultWorkers bounds concurrent conversions when no limit is given
var DefaultWorkers = max(1, min(4, runtime.NumCPU()))

// Background converts files on a bounded worker pool. Conversions overlap but
// each outcome is applied only after that file's conversion has completed,
// one file at a time.
type Background struct {
	converter convert.Converter
	recorder  Recorder
	hooks     Hooks
	logger    zerolog.Logger
	workers   int
}

// NewBackground creates a pooled coordinator. workers <= 0 uses DefaultWorkers.
func NewBackground(converter convert.Converter, recorder Recorder, hooks Hooks, workers int, logger zerolog.Logger) *Background {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &Background{
		converter: converter,
		recorder:  recorder,
		hooks:     hooks,
		logger:    logger,
		workers:   workers,
	}
}

// ConvertAll blocks until every scheduled file is applied. Cancelling ctx
// stops scheduling; files already running finish and are applied.
func (b *Background) ConvertAll(ctx context.Context, files []*model.ImportedFile) (Result, error) {
	a := newApplier(files, b.recorder, b.hooks, b.logger)

	g := new(errgroup.Group)
	g.SetLimit(b.workers)

	var cancelled error
	for _, file := range files {
		if !file.HasTarget() {
			a.skip()
			continue
		}
		if err := ctx.Err(); err != nil {
			cancelled = err
			break
		}
		g.Go(func() error {
			a.apply(convertOne(ctx, b.converter, file))
			return nil
		})
	}
	// per-file errors are collected in the result, never returned by workers
	_ = g.Wait()

	return a.finish(), cancelled
}
