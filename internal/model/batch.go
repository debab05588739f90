package model

import (
	"time"

	"gitlab.com/tozd/go/errors"
)

var (
	// ErrFileNotFound is returned for IDs that are not part of the batch
	ErrFileNotFound = errors.New("file not found")
	// ErrIllegalTransition is returned for status changes the state machine forbids
	ErrIllegalTransition = errors.New("illegal status transition")
)

// Batch is the ordered set of files imported by a single Import action
type Batch struct {
	Files     []*ImportedFile
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewBatch creates a batch from source paths in selection order
func NewBatch(paths []string) *Batch {
	now := time.Now()
	b := &Batch{
		Files:     make([]*ImportedFile, 0, len(paths)),
		CreatedAt: now,
		UpdatedAt: now,
	}
	for i, path := range paths {
		b.Files = append(b.Files, NewImportedFile(path, i+1))
	}
	return b
}

// Len returns the number of files in the batch
func (b *Batch) Len() int {
	return len(b.Files)
}

// GetFile returns a file by ID
func (b *Batch) GetFile(fileID string) (*ImportedFile, bool) {
	for _, file := range b.Files {
		if file.ID == fileID {
			return file, true
		}
	}
	return nil, false
}

// RemoveFile removes a file by ID, marks it Removed, and renumbers the rest
func (b *Batch) RemoveFile(fileID string) (*ImportedFile, bool) {
	for i, file := range b.Files {
		if file.ID == fileID {
			b.Files = append(b.Files[:i], b.Files[i+1:]...)
			file.transition(FileStatusRemoved, file.LastError)
			b.renumber()
			return file, true
		}
	}
	return nil, false
}

// RemoveAll marks every file Removed and empties the batch
func (b *Batch) RemoveAll() []*ImportedFile {
	removed := b.Files
	for _, file := range removed {
		file.transition(FileStatusRemoved, file.LastError)
	}
	b.Files = nil
	b.UpdatedAt = time.Now()
	return removed
}

// SetTarget updates the selected output format of a file
func (b *Batch) SetTarget(fileID string, ext string) bool {
	file, ok := b.GetFile(fileID)
	if !ok {
		return false
	}
	file.TargetExtension = ext
	file.UpdatedAt = time.Now()
	b.UpdatedAt = file.UpdatedAt
	return true
}

// UpdateFileStatus moves a file to status. It returns ErrIllegalTransition
// when the state machine forbids the move and leaves the file untouched.
func (b *Batch) UpdateFileStatus(fileID string, status FileStatus, lastError string) error {
	file, ok := b.GetFile(fileID)
	if !ok {
		return errors.Errorf("%w: %s", ErrFileNotFound, fileID)
	}
	if !file.transition(status, lastError) {
		return errors.Errorf("%w: %s -> %s", ErrIllegalTransition, file.Status, status)
	}
	b.UpdatedAt = file.UpdatedAt
	return nil
}

// GetTargetedFiles returns files that have an output format selected
func (b *Batch) GetTargetedFiles() []*ImportedFile {
	var targeted []*ImportedFile
	for _, file := range b.Files {
		if file.HasTarget() {
			targeted = append(targeted, file)
		}
	}
	return targeted
}

// GetConvertedFiles returns files with a downloadable artifact
func (b *Batch) GetConvertedFiles() []*ImportedFile {
	var converted []*ImportedFile
	for _, file := range b.Files {
		if file.Status.IsDownloadable() {
			converted = append(converted, file)
		}
	}
	return converted
}

// renumber keeps DisplayIndex contiguous after deletions
func (b *Batch) renumber() {
	for i, file := range b.Files {
		file.DisplayIndex = i + 1
	}
	b.UpdatedAt = time.Now()
}
