package format

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"strings"

	_ "github.com/gen2brain/heic"
	"github.com/ledongthuc/pdf"
	"gitlab.com/tozd/go/errors"
	_ "golang.org/x/image/bmp"
)

// File size formatting constants
const (
	FileSizeUnit  = 1024
	FileSizeUnits = "KMGTPE"
)

// Info is a short description of an importable file
type Info struct {
	Family Family
	Size   int64
	Width  int // raster sources only
	Height int
	Pages  int // PDF sources only
}

// String renders the info for the file table detail column
func (i Info) String() string {
	parts := []string{FormatSize(i.Size)}
	if i.Width > 0 && i.Height > 0 {
		parts = append(parts, fmt.Sprintf("%d×%d", i.Width, i.Height))
	}
	if i.Pages > 0 {
		if i.Pages == 1 {
			parts = append(parts, "1 page")
		} else {
			parts = append(parts, fmt.Sprintf("%d pages", i.Pages))
		}
	}
	return strings.Join(parts, " · ")
}

// Describe reads enough of path to summarize it. Header parse failures are not
// errors: the size alone is still useful.
func Describe(path string) (Info, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return Info{}, errors.Errorf("stat %s: %w", path, err)
	}

	ext := ExtensionOf(path)
	info := Info{Family: Classify(ext), Size: stat.Size()}

	switch {
	case ext == ExtPDF:
		if pages, err := pdfPageCount(path); err == nil {
			info.Pages = pages
		}
	case info.Family == FamilyImage:
		if cfg, err := imageConfig(path); err == nil {
			info.Width = cfg.Width
			info.Height = cfg.Height
		}
	}
	return info, nil
}

// FormatSize formats a size in bytes to human readable format
func FormatSize(bytes int64) string {
	if bytes < FileSizeUnit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(FileSizeUnit), 0
	for n := bytes / FileSizeUnit; n >= FileSizeUnit; n /= FileSizeUnit {
		div *= FileSizeUnit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), FileSizeUnits[exp])
}

func imageConfig(path string) (image.Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return image.Config{}, err
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	return cfg, err
}

func pdfPageCount(path string) (int, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return 0, err
	}
	defer func() { _ = f.Close() }()
	return r.NumPage(), nil
}
