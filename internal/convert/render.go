package convert

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/ytget/file-converter/internal/platform"
)

// Office renderer command line
const (
	OfficeHeadlessFlag  = "--headless"
	OfficeConvertFlag   = "--convert-to"
	OfficeOutDirFlag    = "--outdir"
	OfficeTargetPDF     = "pdf"
	OfficeProfileEnvArg = "-env:UserInstallation="
)

// OfficeRenderer converts documents with a headless office suite
type OfficeRenderer struct {
	binary string
	logger zerolog.Logger
}

// NewOfficeRenderer locates the office binary, preferring configured when set
func NewOfficeRenderer(configured string, logger zerolog.Logger) *OfficeRenderer {
	binary, err := platform.FindOfficeBinary(configured)
	if err != nil {
		logger.Debug().Err(err).Str("configured", configured).Msg("office renderer unavailable")
	}
	return &OfficeRenderer{binary: binary, logger: logger}
}

func (r *OfficeRenderer) Name() string {
	return "office"
}

// Available reports whether an office binary was found
func (r *OfficeRenderer) Available() bool {
	return r.binary != ""
}

// Render writes pdfPath from docxPath. The suite writes <base>.pdf into a
// private directory with its own profile so parallel runs do not share a lock.
func (r *OfficeRenderer) Render(ctx context.Context, docxPath, pdfPath string) error {
	if !r.Available() {
		return ErrNoRenderer
	}

	workDir, err := os.MkdirTemp(filepath.Dir(pdfPath), ".render-")
	if err != nil {
		return errors.Errorf("creating render directory: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(workDir); err != nil {
			r.logger.Warn().Err(err).Str("dir", workDir).Msg("failed to remove render directory")
		}
	}()

	cmd := exec.CommandContext(ctx, r.binary, buildOfficeArgs(docxPath, workDir)...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return errors.Errorf("office render failed: %w: %s", err, strings.TrimSpace(string(output)))
	}

	base := strings.TrimSuffix(filepath.Base(docxPath), filepath.Ext(docxPath))
	rendered := filepath.Join(workDir, base+".pdf")
	if _, err := os.Stat(rendered); err != nil {
		return errors.Errorf("office render produced no output: %w", err)
	}
	if err := os.Rename(rendered, pdfPath); err != nil {
		return errors.Errorf("moving rendered pdf: %w", err)
	}
	return nil
}

func buildOfficeArgs(docxPath, workDir string) []string {
	return []string{
		OfficeProfileEnvArg + profileURL(filepath.Join(workDir, "profile")),
		OfficeHeadlessFlag,
		OfficeConvertFlag, OfficeTargetPDF,
		OfficeOutDirFlag, workDir,
		docxPath,
	}
}

func profileURL(dir string) string {
	p := filepath.ToSlash(dir)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return "file://" + p
}

// Flow layout, in points
const (
	FlowPageSize        = "Letter"
	FlowMargin          = 72.0
	FlowFontFamily      = "Helvetica"
	FlowBodyFontSize    = 11.0
	FlowHeadingFontSize = 16.0
	FlowLineSpacing     = 1.3
)

// FlowRenderer lays out document paragraphs as wrapped text. Only paragraph
// text and heading styles survive.
type FlowRenderer struct{}

// NewFlowRenderer returns the built-in renderer
func NewFlowRenderer() *FlowRenderer {
	return &FlowRenderer{}
}

func (r *FlowRenderer) Name() string {
	return "flow"
}

// Available is always true
func (r *FlowRenderer) Available() bool {
	return true
}

func (r *FlowRenderer) Render(ctx context.Context, docxPath, pdfPath string) error {
	paragraphs, err := ReadDocxParagraphs(docxPath)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	pdf := gofpdf.New("P", "pt", FlowPageSize, "")
	pdf.SetCreator(creatorName, true)
	pdf.SetMargins(FlowMargin, FlowMargin, FlowMargin)
	pdf.SetAutoPageBreak(true, FlowMargin)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	for _, p := range paragraphs {
		size, style := FlowBodyFontSize, ""
		if p.IsHeading() {
			size, style = FlowHeadingFontSize, "B"
		}
		pdf.SetFont(FlowFontFamily, style, size)
		lineHeight := size * FlowLineSpacing
		if strings.TrimSpace(p.Text) == "" {
			pdf.Ln(lineHeight)
			continue
		}
		pdf.MultiCell(0, lineHeight, tr(strings.ReplaceAll(p.Text, "\t", "    ")), "", "L", false)
		pdf.Ln(size / 2)
	}

	if err := pdf.OutputFileAndClose(pdfPath); err != nil {
		return errors.Errorf("writing pdf: %w", err)
	}
	return nil
}
