package format

import (
	"path/filepath"
	"strings"
)

// Family groups extensions that share a conversion backend
type Family int

const (
	FamilyUnknown Family = iota
	FamilyImage
	FamilyText
)

// String returns a human readable family name
func (f Family) String() string {
	switch f {
	case FamilyImage:
		return "image"
	case FamilyText:
		return "text"
	default:
		return "unknown"
	}
}

// Extensions recognized by the converter
const (
	ExtBMP  = ".bmp"
	ExtJPG  = ".jpg"
	ExtJPEG = ".jpeg"
	ExtPNG  = ".png"
	ExtHEIC = ".heic"
	ExtPDF  = ".pdf"
	ExtTXT  = ".txt"
	ExtDOCX = ".docx"
	ExtCSV  = ".csv"
)

// MaxImportFiles caps the number of files accepted by one Import action
const MaxImportFiles = 10

var (
	// ImageExtensions are re-encoded through the imaging backend. PDF is listed
	// because rasters can be written as single-page PDFs.
	ImageExtensions = []string{ExtBMP, ExtJPG, ExtJPEG, ExtPNG, ExtHEIC, ExtPDF}

	// TextExtensions are handled by the document backends
	TextExtensions = []string{ExtTXT, ExtDOCX}

	// InertExtensions are accepted at import but never converted
	InertExtensions = []string{ExtCSV}

	// imageTargets lists dropdown options for raster sources; .jpeg is folded into .jpg
	// and .heic is missing because no HEIC encoder is available
	imageTargets = []string{ExtBMP, ExtJPG, ExtPNG, ExtPDF}

	// textTargets lists dropdown options for text sources
	textTargets = []string{ExtPDF, ExtTXT, ExtDOCX}
)

// Normalize lowercases ext and ensures a leading dot. Empty stays empty.
func Normalize(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext == "" {
		return ""
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// ExtensionOf returns the normalized extension of a path
func ExtensionOf(path string) string {
	return Normalize(filepath.Ext(path))
}

// Classify returns the family of ext
func Classify(ext string) Family {
	ext = Normalize(ext)
	if contains(ImageExtensions, ext) {
		return FamilyImage
	}
	if contains(TextExtensions, ext) {
		return FamilyText
	}
	return FamilyUnknown
}

// IsSupportedInputExtension reports whether a file with ext may be imported
func IsSupportedInputExtension(ext string) bool {
	ext = Normalize(ext)
	return Classify(ext) != FamilyUnknown || contains(InertExtensions, ext)
}

// SameFormat reports whether two extensions denote the same encoding
func SameFormat(a, b string) bool {
	return canonical(Normalize(a)) == canonical(Normalize(b))
}

// TargetOptions returns the output formats offered for a source extension
func TargetOptions(sourceExt string) []string {
	sourceExt = Normalize(sourceExt)

	var candidates []string
	switch {
	case sourceExt == ExtPDF:
		// PDFs are never rasterized
		return nil
	case Classify(sourceExt) == FamilyImage:
		candidates = imageTargets
	case Classify(sourceExt) == FamilyText:
		candidates = textTargets
	default:
		return nil
	}

	options := make([]string, 0, len(candidates))
	for _, target := range candidates {
		if !SameFormat(sourceExt, target) {
			options = append(options, target)
		}
	}
	return options
}

// IsValidTarget reports whether target is a sensible selection for sourceExt
func IsValidTarget(sourceExt, target string) bool {
	return contains(TargetOptions(sourceExt), canonical(Normalize(target)))
}

// canonical folds aliases onto one spelling
func canonical(ext string) string {
	if ext == ExtJPEG {
		return ExtJPG
	}
	return ext
}

func contains(list []string, ext string) bool {
	for _, candidate := range list {
		if candidate == ext {
			return true
		}
	}
	return false
}
