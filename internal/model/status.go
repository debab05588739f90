package model

// FileStatus represents the conversion state of an imported file
type FileStatus string

const (
	// FileStatusNotConverted means no artifact exists for the current target
	FileStatusNotConverted FileStatus = "Not converted"

	// FileStatusConverted means a current artifact exists in the scratch area
	FileStatusConverted FileStatus = "Converted"

	// FileStatusRemoved means the row was deleted; terminal
	FileStatusRemoved FileStatus = "Removed"
)

// String returns the string representation of FileStatus
func (fs FileStatus) String() string {
	return string(fs)
}

// IsDownloadable returns true if a converted artifact can be exported
func (fs FileStatus) IsDownloadable() bool {
	return fs == FileStatusConverted
}

// IsTerminal returns true if no further transitions are allowed
func (fs FileStatus) IsTerminal() bool {
	return fs == FileStatusRemoved
}

// CanTransition reports whether moving from fs to next is a legal transition
func (fs FileStatus) CanTransition(next FileStatus) bool {
	if fs.IsTerminal() {
		return false
	}
	switch fs {
	case FileStatusNotConverted:
		// staying NotConverted records a new error message
		return next == FileStatusNotConverted || next == FileStatusConverted || next == FileStatusRemoved
	case FileStatusConverted:
		// re-conversion replaces the record in place
		return next == FileStatusConverted || next == FileStatusNotConverted || next == FileStatusRemoved
	default:
		return false
	}
}
