// Package batch runs the selected conversion for every file of an import.
package batch

import (
	"context"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/ytget/file-converter/internal/convert"
	"github.com/ytget/file-converter/internal/model"
)

// Coordinator converts a batch of files
type Coordinator interface {
	ConvertAll(ctx context.Context, files []*model.ImportedFile) (Result, error)
}

// Recorder receives the outcome of each file. state.Tracker satisfies it.
type Recorder interface {
	RecordConverted(file *model.ImportedFile, outputPath string)
	Invalidate(file *model.ImportedFile)
}

// Failure is one file that could not be converted
type Failure struct {
	File *model.ImportedFile
	Err  error
}

// Result summarizes one ConvertAll call
type Result struct {
	Converted int // new artifacts produced
	Skipped   int // files without a target
	NoOps     int // same format or unsupported pair
	Failures  []Failure
}

// Attempted returns the number of files handed to the converter
func (r Result) Attempted() int {
	return r.Converted + r.NoOps + len(r.Failures)
}

// Hooks are optional callbacks. They run on the goroutine that applies the
// file's outcome, one file at a time.
type Hooks struct {
	OnFailure func(file *model.ImportedFile, err error)
	OnDone    func(Result)
}

// outcome is a finished conversion waiting to be applied
type outcome struct {
	file   *model.ImportedFile
	output string
	err    error
}

// applier folds outcomes into the recorder and the result one at a time
type applier struct {
	mu       sync.Mutex
	recorder Recorder
	hooks    Hooks
	logger   zerolog.Logger
	order    map[string]int // file ID -> position in the batch
	result   Result
}

func newApplier(files []*model.ImportedFile, recorder Recorder, hooks Hooks, logger zerolog.Logger) *applier {
	order := make(map[string]int, len(files))
	for i, f := range files {
		order[f.ID] = i
	}
	return &applier{recorder: recorder, hooks: hooks, logger: logger, order: order}
}

func (a *applier) skip() {
	a.mu.Lock()
	a.result.Skipped++
	a.mu.Unlock()
}

func (a *applier) apply(o outcome) {
	a.mu.Lock()
	defer a.mu.Unlock()

	switch {
	case o.err != nil:
		a.recorder.Invalidate(o.file)
		a.result.Failures = append(a.result.Failures, Failure{File: o.file, Err: o.err})
		a.logger.Warn().Err(o.err).Str("file", o.file.Name()).Msg("file failed to convert")
		if a.hooks.OnFailure != nil {
			a.hooks.OnFailure(o.file, o.err)
		}
	case o.output == "":
		a.recorder.Invalidate(o.file)
		a.result.NoOps++
	default:
		a.recorder.RecordConverted(o.file, o.output)
		a.result.Converted++
	}
}

// finish reports failures in batch order regardless of completion order
func (a *applier) finish() Result {
	a.mu.Lock()
	result := a.result
	result.Failures = append([]Failure(nil), a.result.Failures...)
	a.mu.Unlock()

	sort.SliceStable(result.Failures, func(i, j int) bool {
		return a.order[result.Failures[i].File.ID] < a.order[result.Failures[j].File.ID]
	})

	a.logger.Info().
		Int("attempted", result.Attempted()).
		Int("converted", result.Converted).
		Int("skipped", result.Skipped).
		Int("noops", result.NoOps).
		Int("failed", len(result.Failures)).
		Msg("batch finished")
	if a.hooks.OnDone != nil {
		a.hooks.OnDone(result)
	}
	return result
}

func convertOne(ctx context.Context, converter convert.Converter, file *model.ImportedFile) outcome {
	output, err := converter.Convert(ctx, file.SourcePath, file.TargetExtension)
	return outcome{file: file, output: output, err: err}
}
