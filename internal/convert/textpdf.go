package convert

import (
	"math"
	"os"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"gitlab.com/tozd/go/errors"
)

// Plain text page layout, in points
const (
	TextPageSize   = "Letter"
	TextMargin     = 72.0
	TextFontFamily = "Courier"
	TextFontSize   = 12.0
	TextLineHeight = 1.2 * TextFontSize
	TextTabWidth   = 4
)

const creatorName = "File Converter"

// LinesPerPage returns how many text lines fit between the margins of a page
// of the given height
func LinesPerPage(pageHeight float64) int {
	n := int(math.Floor((pageHeight-2*TextMargin)/TextLineHeight + 1e-9))
	if n < 1 {
		return 1
	}
	return n
}

// splitLines normalizes line endings and drops a single trailing newline
func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.TrimSuffix(text, "\n")
	return strings.Split(text, "\n")
}

// textToPDF draws every line of sourcePath verbatim, without wrapping
func textToPDF(sourcePath, outputPath string) error {
	data, err := os.ReadFile(sourcePath)
	if err != nil {
		return errors.Errorf("reading text: %w", err)
	}

	pdf := gofpdf.New("P", "pt", TextPageSize, "")
	pdf.SetCreator(creatorName, true)
	pdf.SetMargins(TextMargin, TextMargin, TextMargin)
	pdf.SetAutoPageBreak(false, TextMargin)
	pdf.SetFont(TextFontFamily, "", TextFontSize)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	_, pageHeight := pdf.GetPageSize()
	perPage := LinesPerPage(pageHeight)
	tab := strings.Repeat(" ", TextTabWidth)

	pdf.AddPage()
	onPage := 0
	for _, line := range splitLines(string(data)) {
		if onPage >= perPage {
			pdf.AddPage()
			onPage = 0
		}
		// y is the baseline, so the first line sits one font size below the margin
		y := TextMargin + TextFontSize + float64(onPage)*TextLineHeight
		if line != "" {
			pdf.Text(TextMargin, y, tr(strings.ReplaceAll(line, "\t", tab)))
		}
		onPage++
	}

	if err := pdf.OutputFileAndClose(outputPath); err != nil {
		return errors.Errorf("writing pdf: %w", err)
	}
	return nil
}
