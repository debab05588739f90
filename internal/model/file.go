package model

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// FileIDPrefix prefixes every ImportedFile ID
const FileIDPrefix = "file-"

// ImportedFile represents one row of the current import batch
type ImportedFile struct {
	ID              string
	SourcePath      string     // absolute path chosen by the user
	DisplayIndex    int        // 1-based position in the batch, display only
	TargetExtension string     // lowercase with leading dot, empty when unset
	Status          FileStatus // mirrors the tracker state for display
	LastError       string     // last conversion error message if any
	ImportedAt      time.Time
	UpdatedAt       time.Time
}

// ConversionRecord describes a live artifact produced for an imported file
type ConversionRecord struct {
	FileID     string
	SourcePath string
	OutputPath string // inside the scratch area
	CreatedAt  time.Time
}

// NewImportedFile creates a file entry with a fresh surrogate ID
func NewImportedFile(sourcePath string, displayIndex int) *ImportedFile {
	now := time.Now()
	return &ImportedFile{
		ID:           generateFileID(),
		SourcePath:   sourcePath,
		DisplayIndex: displayIndex,
		Status:       FileStatusNotConverted,
		ImportedAt:   now,
		UpdatedAt:    now,
	}
}

// Name returns the file name without directories
func (f *ImportedFile) Name() string {
	return filepath.Base(f.SourcePath)
}

// Extension returns the lowercase source extension with its leading dot
func (f *ImportedFile) Extension() string {
	return strings.ToLower(filepath.Ext(f.SourcePath))
}

// HasTarget reports whether the user picked an output format
func (f *ImportedFile) HasTarget() bool {
	return f.TargetExtension != ""
}

// GetDisplayTitle returns "<index>. <name>" for list rows
func (f *ImportedFile) GetDisplayTitle() string {
	if f.DisplayIndex <= 0 {
		return f.Name()
	}
	return fmt.Sprintf("%d. %s", f.DisplayIndex, f.Name())
}

// generateFileID generates a unique, time ordered file ID
func generateFileID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Sprintf(FileIDPrefix+"%d", time.Now().UnixNano())
	}
	return FileIDPrefix + id.String()
}

// Clone returns a copy safe to hand to other goroutines
func (f *ImportedFile) Clone() *ImportedFile {
	c := *f
	return &c
}

// transition applies a status change allowed by the state machine
func (f *ImportedFile) transition(next FileStatus, lastError string) bool {
	if !f.Status.CanTransition(next) {
		return false
	}
	f.Status = next
	f.LastError = lastError
	f.UpdatedAt = time.Now()
	return true
}
