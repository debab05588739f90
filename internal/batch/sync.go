package batch

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/ytget/file-converter/internal/convert"
	"github.com/ytget/file-converter/internal/model"
)

// Sync converts files one after another on the calling goroutine
type Sync struct {
	converter convert.Converter
	recorder  Recorder
	hooks     Hooks
	logger    zerolog.Logger
}

// NewSync creates a sequential coordinator
func NewSync(converter convert.Converter, recorder Recorder, hooks Hooks, logger zerolog.Logger) *Sync {
	return &Sync{converter: converter, recorder: recorder, hooks: hooks, logger: logger}
}

// ConvertAll converts files in order. A cancelled context stops before the
// next file and is returned with the partial result.
func (s *Sync) ConvertAll(ctx context.Context, files []*model.ImportedFile) (Result, error) {
	a := newApplier(files, s.recorder, s.hooks, s.logger)

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return a.finish(), err
		}
		if !file.HasTarget() {
			a.skip()
			continue
		}
		a.apply(convertOne(ctx, s.converter, file))
	}
	return a.finish(), nil
}
