// Package state tracks which imported files have a live converted artifact.
package state

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ytget/file-converter/internal/model"
)

// Remover deletes retired artifacts. Failures are the remover's to log.
type Remover interface {
	Remove(path string)
}

// Tracker holds at most one ConversionRecord per file
type Tracker struct {
	mu       sync.RWMutex
	records  map[string]model.ConversionRecord
	remover  Remover
	logger   zerolog.Logger
	onUpdate func(fileID string, downloadable bool)
}

// NewTracker creates an empty tracker
func NewTracker(remover Remover, logger zerolog.Logger) *Tracker {
	return &Tracker{
		records: make(map[string]model.ConversionRecord),
		remover: remover,
		logger:  logger,
	}
}

// SetUpdateCallback sets the function called after a file's record changes.
// It runs synchronously on the mutating goroutine.
func (t *Tracker) SetUpdateCallback(callback func(fileID string, downloadable bool)) {
	t.mu.Lock()
	t.onUpdate = callback
	t.mu.Unlock()
}

// RecordConverted installs a record for file, retiring any previous artifact
func (t *Tracker) RecordConverted(file *model.ImportedFile, outputPath string) {
	t.mu.Lock()
	previous, had := t.records[file.ID]
	t.records[file.ID] = model.ConversionRecord{
		FileID:     file.ID,
		SourcePath: file.SourcePath,
		OutputPath: outputPath,
		CreatedAt:  time.Now(),
	}
	callback := t.onUpdate
	t.mu.Unlock()

	// a re-conversion to the same target overwrites the artifact in place
	if had && previous.OutputPath != outputPath {
		t.retire(previous)
	}
	t.logger.Debug().Str("file_id", file.ID).Str("output", outputPath).Msg("conversion recorded")
	t.notify(callback, file.ID, true)
}

// Invalidate drops the record for file and deletes its artifact
func (t *Tracker) Invalidate(file *model.ImportedFile) {
	t.mu.Lock()
	record, had := t.records[file.ID]
	delete(t.records, file.ID)
	callback := t.onUpdate
	t.mu.Unlock()

	if !had {
		return
	}
	t.retire(record)
	t.notify(callback, file.ID, false)
}

// IsDownloadable reports whether file has a live artifact
func (t *Tracker) IsDownloadable(file *model.ImportedFile) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.records[file.ID]
	return ok
}

// Record returns the live record for file
func (t *Tracker) Record(file *model.ImportedFile) (model.ConversionRecord, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	record, ok := t.records[file.ID]
	return record, ok
}

// Len returns the number of live records
func (t *Tracker) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.records)
}

// ClearAll invalidates every record
func (t *Tracker) ClearAll() {
	t.mu.Lock()
	records := t.records
	t.records = make(map[string]model.ConversionRecord)
	callback := t.onUpdate
	t.mu.Unlock()

	for id, record := range records {
		t.retire(record)
		t.notify(callback, id, false)
	}
	if len(records) > 0 {
		t.logger.Debug().Int("count", len(records)).Msg("all conversions cleared")
	}
}

func (t *Tracker) retire(record model.ConversionRecord) {
	if t.remover != nil && record.OutputPath != "" {
		t.remover.Remove(record.OutputPath)
	}
}

func (t *Tracker) notify(callback func(string, bool), fileID string, downloadable bool) {
	if callback != nil {
		callback(fileID, downloadable)
	}
}
