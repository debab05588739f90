// Package session is the controller behind the main window: it owns the
// current import batch and routes user actions to the converter, the
// tracker and the scratch area.
package session

import (
	"context"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/ytget/file-converter/internal/batch"
	"github.com/ytget/file-converter/internal/convert"
	"github.com/ytget/file-converter/internal/format"
	"github.com/ytget/file-converter/internal/model"
	"github.com/ytget/file-converter/internal/scratch"
	"github.com/ytget/file-converter/internal/state"
)

// Options configures a Session
type Options struct {
	Converter convert.Converter
	Scratch   *scratch.Area
	Logger    zerolog.Logger

	// Background runs conversions on a worker pool of Workers goroutines
	Background bool
	Workers    int
}

// Session holds the imported files and their conversion state
type Session struct {
	mu      sync.Mutex
	batch   *model.Batch
	tracker *state.Tracker
	scratch *scratch.Area
	remover *artifactRemover
	logger  zerolog.Logger

	coordinator batch.Coordinator
	converting  atomic.Bool

	callbackMu sync.RWMutex
	onChange   func(fileID string)
	onFailure  func(file *model.ImportedFile, err error)
}

// New creates an empty session
func New(opts Options) *Session {
	s := &Session{
		batch:   model.NewBatch(nil),
		scratch: opts.Scratch,
		logger:  opts.Logger,
	}
	s.remover = &artifactRemover{scratch: opts.Scratch}
	if releaser, ok := opts.Converter.(convert.Releaser); ok {
		s.remover.releaser = releaser
	}
	s.tracker = state.NewTracker(s.remover, opts.Logger)
	s.tracker.SetUpdateCallback(func(fileID string, _ bool) {
		s.notifyChange(fileID)
	})

	hooks := batch.Hooks{OnFailure: s.recordFailure}
	rec := &recorder{session: s}
	if opts.Background {
		s.coordinator = batch.NewBackground(opts.Converter, rec, hooks, opts.Workers, opts.Logger)
	} else {
		s.coordinator = batch.NewSync(opts.Converter, rec, hooks, opts.Logger)
	}
	return s
}

// SetChangeCallback sets the function called when a file's state changes.
// It may run on any goroutine, sometimes while the session is locked, so it
// must not call back into the session synchronously.
func (s *Session) SetChangeCallback(callback func(fileID string)) {
	s.callbackMu.Lock()
	s.onChange = callback
	s.callbackMu.Unlock()
}

// SetFailureCallback sets the function called for every file that fails to
// convert. The same locking rules as SetChangeCallback apply.
func (s *Session) SetFailureCallback(callback func(file *model.ImportedFile, err error)) {
	s.callbackMu.Lock()
	s.onFailure = callback
	s.callbackMu.Unlock()
}

// Import validates paths and replaces the current batch with them. On error
// nothing changes.
func (s *Session) Import(paths []string) ([]*model.ImportedFile, error) {
	if len(paths) == 0 {
		return nil, ErrNoFiles
	}
	if len(paths) > format.MaxImportFiles {
		return nil, errors.Errorf("%w: %d selected, at most %d allowed", ErrTooManyFiles, len(paths), format.MaxImportFiles)
	}
	for _, path := range paths {
		if !format.IsSupportedInputExtension(filepath.Ext(path)) {
			return nil, errors.Errorf("%w: %s", ErrUnsupportedInput, filepath.Base(path))
		}
	}

	paths = uniquePaths(paths)

	s.mu.Lock()
	s.tracker.ClearAll()
	s.batch.RemoveAll()
	s.batch = model.NewBatch(paths)
	files := s.snapshotLocked()
	s.mu.Unlock()

	s.logger.Info().Int("count", len(files)).Msg("files imported")
	s.notifyChange("")
	return files, nil
}

// Files returns copies of the current files in display order
func (s *Session) Files() []*model.ImportedFile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// File returns a copy of one file
func (s *Session) File(fileID string) (*model.ImportedFile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	file, ok := s.batch.GetFile(fileID)
	if !ok {
		return nil, false
	}
	return file.Clone(), true
}

// SetTarget selects the output format of a file. Changing it discards any
// artifact produced for the previous format. An empty target clears it.
func (s *Session) SetTarget(fileID, target string) error {
	target = format.Normalize(target)

	s.mu.Lock()
	defer s.mu.Unlock()

	file, ok := s.batch.GetFile(fileID)
	if !ok {
		return errors.Errorf("%w: %s", ErrFileNotFound, fileID)
	}
	if target != "" && !format.IsValidTarget(file.Extension(), target) {
		return errors.Errorf("%w: %s for %s", ErrInvalidTarget, target, file.Name())
	}
	if target == file.TargetExtension {
		return nil
	}

	s.tracker.Invalidate(file)
	s.batch.SetTarget(fileID, target)
	s.updateStatusLocked(fileID, model.FileStatusNotConverted, "")
	s.logger.Debug().Str("file", file.Name()).Str("target", target).Msg("target selected")
	return nil
}

// Remove deletes a file from the batch along with its artifact
func (s *Session) Remove(fileID string) error {
	s.mu.Lock()
	file, ok := s.batch.GetFile(fileID)
	if !ok {
		s.mu.Unlock()
		return errors.Errorf("%w: %s", ErrFileNotFound, fileID)
	}
	s.tracker.Invalidate(file)
	s.batch.RemoveFile(fileID)
	s.mu.Unlock()

	s.logger.Debug().Str("file", file.Name()).Msg("file removed")
	s.notifyChange("")
	return nil
}

// ClearAll drops every file and artifact
func (s *Session) ClearAll() {
	s.mu.Lock()
	s.tracker.ClearAll()
	s.batch.RemoveAll()
	s.mu.Unlock()

	s.notifyChange("")
}

// ConvertedCount returns the number of files with a live artifact
func (s *Session) ConvertedCount() int {
	return s.tracker.Len()
}

// IsConverting reports whether a ConvertAll call is running
func (s *Session) IsConverting() bool {
	return s.converting.Load()
}

// ConvertAll converts every file with a target. Files changed or removed
// while the batch runs keep their new state and the stale artifact is dropped.
func (s *Session) ConvertAll(ctx context.Context) (batch.Result, error) {
	s.mu.Lock()
	files := s.snapshotLocked()
	targeted := len(s.batch.GetTargetedFiles())
	s.mu.Unlock()

	if targeted == 0 {
		return batch.Result{}, ErrNoTargets
	}
	if !s.converting.CompareAndSwap(false, true) {
		return batch.Result{}, ErrBusy
	}
	defer s.converting.Store(false)

	s.logger.Info().Int("files", targeted).Msg("conversion started")
	return s.coordinator.ConvertAll(ctx, files)
}

// Download copies the artifact of a file into destDir
func (s *Session) Download(fileID, destDir string) (string, error) {
	artifact, err := s.Artifact(fileID)
	if err != nil {
		return "", err
	}
	return s.scratch.Export(artifact, destDir)
}

// Artifact returns the scratch path of the file's current artifact
func (s *Session) Artifact(fileID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, ok := s.batch.GetFile(fileID)
	if !ok {
		return "", errors.Errorf("%w: %s", ErrFileNotFound, fileID)
	}
	record, ok := s.tracker.Record(file)
	if !ok {
		return "", errors.Errorf("%w: %s", ErrNotConverted, file.Name())
	}
	return record.OutputPath, nil
}

// DownloadAll exports every converted file. Per-file failures are joined and
// do not stop the remaining exports.
func (s *Session) DownloadAll(destDir string) ([]string, error) {
	s.mu.Lock()
	var records []model.ConversionRecord
	for _, file := range s.batch.GetConvertedFiles() {
		if record, ok := s.tracker.Record(file); ok {
			records = append(records, record)
		}
	}
	s.mu.Unlock()

	if len(records) == 0 {
		return nil, ErrNotConverted
	}

	var (
		exported []string
		errs     []error
	)
	for _, record := range records {
		dest, err := s.scratch.Export(record.OutputPath, destDir)
		if err != nil {
			errs = append(errs, errors.Errorf("%s: %w", filepath.Base(record.SourcePath), err))
			continue
		}
		exported = append(exported, dest)
	}
	return exported, errors.Join(errs...)
}

// Close clears the session and removes the scratch area
func (s *Session) Close() {
	s.ClearAll()
	s.scratch.Teardown()
}

func (s *Session) snapshotLocked() []*model.ImportedFile {
	files := make([]*model.ImportedFile, len(s.batch.Files))
	for i, file := range s.batch.Files {
		files[i] = file.Clone()
	}
	return files
}

func (s *Session) recordFailure(snapshot *model.ImportedFile, err error) {
	s.mu.Lock()
	if current, ok := s.batch.GetFile(snapshot.ID); ok && current.TargetExtension == snapshot.TargetExtension {
		s.updateStatusLocked(current.ID, model.FileStatusNotConverted, err.Error())
	}
	s.mu.Unlock()

	s.callbackMu.RLock()
	callback := s.onFailure
	s.callbackMu.RUnlock()
	if callback != nil {
		callback(snapshot, err)
	}
	s.notifyChange(snapshot.ID)
}

// updateStatusLocked applies a status change, logging moves the state machine rejects
func (s *Session) updateStatusLocked(fileID string, status model.FileStatus, lastError string) {
	if err := s.batch.UpdateFileStatus(fileID, status, lastError); err != nil {
		s.logger.Warn().Err(err).Str("file_id", fileID).Msg("status not updated")
	}
}

func (s *Session) notifyChange(fileID string) {
	s.callbackMu.RLock()
	callback := s.onChange
	s.callbackMu.RUnlock()
	if callback != nil {
		callback(fileID)
	}
}

// recorder applies batch outcomes to the live batch, ignoring outcomes for
// files whose target changed or that were removed while converting
type recorder struct {
	session *Session
}

func (r *recorder) RecordConverted(snapshot *model.ImportedFile, outputPath string) {
	s := r.session
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.batch.GetFile(snapshot.ID)
	if !ok || current.TargetExtension != snapshot.TargetExtension {
		if record, live := s.tracker.Record(snapshot); !live || record.OutputPath != outputPath {
			s.remover.Remove(outputPath)
		}
		s.logger.Debug().Str("file", snapshot.Name()).Msg("discarding stale conversion")
		return
	}
	s.tracker.RecordConverted(current, outputPath)
	s.updateStatusLocked(current.ID, model.FileStatusConverted, "")
}

func (r *recorder) Invalidate(snapshot *model.ImportedFile) {
	s := r.session
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.batch.GetFile(snapshot.ID)
	if !ok || current.TargetExtension != snapshot.TargetExtension {
		return
	}
	s.tracker.Invalidate(current)
	s.updateStatusLocked(current.ID, model.FileStatusNotConverted, "")
}

// artifactRemover deletes retired artifacts and frees their names for reuse
type artifactRemover struct {
	scratch  *scratch.Area
	releaser convert.Releaser
}

func (r *artifactRemover) Remove(path string) {
	r.scratch.Remove(path)
	if r.releaser != nil {
		r.releaser.Release(path)
	}
}

// uniquePaths drops repeated selections of the same file, keeping the first
func uniquePaths(paths []string) []string {
	seen := make(map[string]bool, len(paths))
	unique := make([]string, 0, len(paths))
	for _, path := range paths {
		key := filepath.Clean(path)
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, path)
	}
	return unique
}
