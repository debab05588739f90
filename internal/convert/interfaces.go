package convert

import "context"

// Converter produces target-format artifacts from source files.
// An empty output path with a nil error means the request was a no-op.
type Converter interface {
	Convert(ctx context.Context, sourcePath, target string) (string, error)
}

// DocumentRenderer lays out a DOCX file as PDF
type DocumentRenderer interface {
	Name() string
	Available() bool
	Render(ctx context.Context, docxPath, pdfPath string) error
}

// Releaser is implemented by converters that reserve artifact names. Release
// is called once an artifact has been retired so the name can be reused.
type Releaser interface {
	Release(outputPath string)
}
