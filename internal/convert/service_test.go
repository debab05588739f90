package convert

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"

	"github.com/ytget/file-converter/internal/format"
)

func newTestService(t *testing.T, renderers ...DocumentRenderer) *Service {
	t.Helper()
	if len(renderers) == 0 {
		renderers = []DocumentRenderer{NewFlowRenderer()}
	}
	return NewService(t.TempDir(), zerolog.Nop(), renderers...)
}

func writePNG(t *testing.T, path string, w, h int, translucent bool) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.NRGBA{R: uint8(x * 40), G: uint8(y * 40), B: 200, A: 255}
			if translucent {
				c.A = 128
			}
			img.Set(x, y, c)
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
}

func decodedFormat(t *testing.T, path string) string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	_, name, err := image.DecodeConfig(f)
	require.NoError(t, err)
	return name
}

// writeImageSource creates a raster source named name in dir and returns its path
func writeImageSource(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	switch filepath.Ext(name) {
	case ".heic":
		data, err := os.ReadFile(filepath.Join("testdata", "sample.heic"))
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(path, data, 0o644))
	case ".png":
		writePNG(t, path, 4, 3, true)
	default:
		img := imaging.New(4, 3, color.NRGBA{R: 10, G: 120, B: 200, A: 255})
		require.NoError(t, imaging.Save(img, path))
	}
	return path
}

func writeDeepPNG(t *testing.T, path string) {
	t.Helper()
	img := image.NewNRGBA64(image.Rect(0, 0, 3, 3))
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			img.Set(x, y, color.NRGBA64{R: uint16(x * 20000), G: uint16(y * 20000), B: 0xffff, A: 0xffff})
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
}

func TestConvert_ImageReencodes(t *testing.T) {
	decodedNames := map[string]string{
		format.ExtBMP: "bmp",
		format.ExtJPG: "jpeg",
		format.ExtPNG: "png",
	}

	for _, source := range []string{"photo.bmp", "photo.jpg", "photo.jpeg", "photo.png", "photo.heic"} {
		t.Run(source, func(t *testing.T) {
			src := writeImageSource(t, t.TempDir(), source)
			service := newTestService(t)

			targets := format.TargetOptions(filepath.Ext(source))
			require.NotEmpty(t, targets)
			for _, target := range targets {
				out, err := service.Convert(context.Background(), src, target)
				require.NoError(t, err, target)
				assert.Equal(t, filepath.Join(service.outputDir, "photo"+target), out)

				if target == format.ExtPDF {
					info, err := format.Describe(out)
					require.NoError(t, err)
					assert.Equal(t, 1, info.Pages, target)
					continue
				}
				assert.Equal(t, decodedNames[target], decodedFormat(t, out), target)
			}
		})
	}
}

func TestConvert_JPEGAlias(t *testing.T) {
	src := writeImageSource(t, t.TempDir(), "photo.png")
	service := newTestService(t)

	out, err := service.Convert(context.Background(), src, ".jpeg")
	require.NoError(t, err)
	assert.Equal(t, "photo.jpeg", filepath.Base(out))
	assert.Equal(t, "jpeg", decodedFormat(t, out))

	// source untouched
	assert.Equal(t, "png", decodedFormat(t, src))
}

func TestConvert_DeepImageToPDF(t *testing.T) {
	src := filepath.Join(t.TempDir(), "deep.png")
	writeDeepPNG(t, src)
	service := newTestService(t)

	out, err := service.Convert(context.Background(), src, ".pdf")
	require.NoError(t, err)
	info, err := format.Describe(out)
	require.NoError(t, err)
	assert.Equal(t, 1, info.Pages)
}

func TestConvert_ImageRoundTripKeepsDimensions(t *testing.T) {
	src := filepath.Join(t.TempDir(), "pic.png")
	writePNG(t, src, 5, 2, false)
	service := newTestService(t)

	bmpPath, err := service.Convert(context.Background(), src, ".bmp")
	require.NoError(t, err)

	pngPath, err := service.Convert(context.Background(), bmpPath, ".png")
	require.NoError(t, err)

	info, err := format.Describe(pngPath)
	require.NoError(t, err)
	assert.Equal(t, 5, info.Width)
	assert.Equal(t, 2, info.Height)
}

func TestConvert_NoOps(t *testing.T) {
	dir := t.TempDir()
	pngPath := filepath.Join(dir, "a.png")
	writePNG(t, pngPath, 2, 2, false)
	jpg := filepath.Join(dir, "b.jpg")
	require.NoError(t, os.WriteFile(jpg, []byte("not read"), 0o644))
	csv := filepath.Join(dir, "c.csv")
	require.NoError(t, os.WriteFile(csv, []byte("a,b\n1,2\n"), 0o644))

	service := newTestService(t)

	tests := []struct {
		source string
		target string
	}{
		{pngPath, ".png"},
		{pngPath, ".heic"},
		{pngPath, ".txt"},
		{jpg, ".jpeg"},
		{csv, ".pdf"},
		{csv, ".txt"},
		{pngPath, ""},
	}

	for _, test := range tests {
		out, err := service.Convert(context.Background(), test.source, test.target)
		assert.NoError(t, err, "%s -> %s", test.source, test.target)
		assert.Empty(t, out, "%s -> %s", test.source, test.target)
	}

	entries, err := os.ReadDir(service.outputDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestConvert_ImageToPDF(t *testing.T) {
	src := filepath.Join(t.TempDir(), "scan.png")
	writePNG(t, src, 6, 4, false)
	service := newTestService(t)

	out, err := service.Convert(context.Background(), src, ".pdf")
	require.NoError(t, err)
	assert.Equal(t, "scan.pdf", filepath.Base(out))

	info, err := format.Describe(out)
	require.NoError(t, err)
	assert.Equal(t, 1, info.Pages)
}

func TestConvert_TextToPDFPagination(t *testing.T) {
	perPage := LinesPerPage(792)
	assert.Equal(t, 45, perPage)

	tests := []struct {
		lines int
		pages int
	}{
		{0, 1},
		{1, 1},
		{perPage, 1},
		{perPage + 1, 2},
		{2*perPage + 1, 3},
	}

	service := newTestService(t)
	for _, test := range tests {
		lines := make([]string, test.lines)
		for i := range lines {
			lines[i] = "line\twith tab and café"
		}
		src := filepath.Join(t.TempDir(), "notes.txt")
		require.NoError(t, os.WriteFile(src, []byte(strings.Join(lines, "\n")+"\n"), 0o644))

		out, err := service.Convert(context.Background(), src, ".pdf")
		require.NoError(t, err, "%d lines", test.lines)

		info, err := format.Describe(out)
		require.NoError(t, err)
		assert.Equal(t, test.pages, info.Pages, "%d lines", test.lines)
	}
}

func TestConvert_TextDocxRoundTrip(t *testing.T) {
	original := "First line\nSecond\twith tab\nnaïve ünïcode\fpage\n"
	src := filepath.Join(t.TempDir(), "sample.txt")
	require.NoError(t, os.WriteFile(src, []byte(original), 0o644))
	service := newTestService(t)

	docx, err := service.Convert(context.Background(), src, ".docx")
	require.NoError(t, err)
	assert.Equal(t, "sample.docx", filepath.Base(docx))

	paragraphs, err := ReadDocxParagraphs(docx)
	require.NoError(t, err)
	require.Len(t, paragraphs, 2)
	assert.Equal(t, Paragraph{Style: HeadingStyle, Text: "sample"}, paragraphs[0])
	assert.True(t, paragraphs[0].IsHeading())
	assert.False(t, paragraphs[1].IsHeading())

	txt, err := service.Convert(context.Background(), docx, ".txt")
	require.NoError(t, err)
	data, err := os.ReadFile(txt)
	require.NoError(t, err)

	assert.Equal(t, "sample\n"+SanitizeDocxText(original), string(data))
	assert.Equal(t, "First line\nSecond\twith tab\nnave ncode page\n", SanitizeDocxText(original))
}

func TestConvert_DocxToPDFFlow(t *testing.T) {
	src := filepath.Join(t.TempDir(), "report.docx")
	require.NoError(t, WriteDocx(src, []Paragraph{
		{Style: HeadingStyle, Text: "Report"},
		{Text: strings.Repeat("A fairly long sentence that needs wrapping. ", 40)},
		{Text: ""},
		{Text: "Done"},
	}))

	unavailable := &stubRenderer{name: "office"}
	service := newTestService(t, unavailable, NewFlowRenderer())

	out, err := service.Convert(context.Background(), src, ".pdf")
	require.NoError(t, err)
	assert.Equal(t, "report.pdf", filepath.Base(out))
	assert.Zero(t, unavailable.calls)

	info, err := format.Describe(out)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, info.Pages, 1)
}

func TestConvert_DocxToPDFRendererFailure(t *testing.T) {
	src := filepath.Join(t.TempDir(), "report.docx")
	require.NoError(t, WriteDocx(src, []Paragraph{{Text: "x"}}))

	failing := &stubRenderer{name: "office", available: true, err: errors.New("boom")}
	service := newTestService(t, failing, NewFlowRenderer())

	out, err := service.Convert(context.Background(), src, ".pdf")
	assert.Empty(t, out)
	require.Error(t, err)
	assert.Equal(t, 1, failing.calls)

	var convErr *Error
	require.True(t, errors.As(err, &convErr))
	assert.Equal(t, src, convErr.Path)
	assert.Equal(t, ".pdf", convErr.Target)
	assert.Contains(t, err.Error(), "report.docx")

	_, statErr := os.Stat(filepath.Join(service.outputDir, "report.pdf"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestConvert_NoRenderer(t *testing.T) {
	src := filepath.Join(t.TempDir(), "report.docx")
	require.NoError(t, WriteDocx(src, []Paragraph{{Text: "x"}}))
	service := newTestService(t, &stubRenderer{name: "office"})

	_, err := service.Convert(context.Background(), src, ".pdf")
	assert.ErrorIs(t, err, ErrNoRenderer)
}

func TestConvert_Errors(t *testing.T) {
	dir := t.TempDir()
	service := newTestService(t)

	_, err := service.Convert(context.Background(), filepath.Join(dir, "missing.png"), ".bmp")
	var convErr *Error
	require.True(t, errors.As(err, &convErr))
	assert.ErrorIs(t, err, os.ErrNotExist)

	corrupt := filepath.Join(dir, "corrupt.png")
	require.NoError(t, os.WriteFile(corrupt, []byte("definitely not a png"), 0o644))
	out, err := service.Convert(context.Background(), corrupt, ".bmp")
	assert.Error(t, err)
	assert.Empty(t, out)

	notDocx := filepath.Join(dir, "plain.docx")
	require.NoError(t, os.WriteFile(notDocx, []byte("plain"), 0o644))
	_, err = service.Convert(context.Background(), notDocx, ".txt")
	assert.Error(t, err)

	entries, err := os.ReadDir(service.outputDir)
	require.NoError(t, err)
	assert.Empty(t, entries, "partial outputs are removed")
}

func TestConvert_CancelledContext(t *testing.T) {
	src := filepath.Join(t.TempDir(), "a.png")
	writePNG(t, src, 2, 2, false)
	service := newTestService(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := service.Convert(ctx, src, ".bmp")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestConvert_OutputCollision(t *testing.T) {
	first := filepath.Join(t.TempDir(), "a.png")
	second := filepath.Join(t.TempDir(), "a.png")
	writePNG(t, first, 2, 2, false)
	writePNG(t, second, 3, 3, false)
	service := newTestService(t)

	out1, err := service.Convert(context.Background(), first, ".bmp")
	require.NoError(t, err)
	assert.Equal(t, "a.bmp", filepath.Base(out1))

	out2, err := service.Convert(context.Background(), second, ".bmp")
	require.NoError(t, err)
	assert.Equal(t, "a-"+sourceHash(second)+".bmp", filepath.Base(out2))
	assert.Len(t, sourceHash(second), hashSuffixLength)

	// re-converting the same source reuses its name
	again, err := service.Convert(context.Background(), first, ".bmp")
	require.NoError(t, err)
	assert.Equal(t, out1, again)

	// once the first artifact is released the plain name is free again
	require.NoError(t, os.Remove(out1))
	service.Release(out1)
	out3, err := service.Convert(context.Background(), second, ".bmp")
	require.NoError(t, err)
	assert.Equal(t, "a.bmp", filepath.Base(out3))
}

func TestOutputPath_ReservesBeforeWriting(t *testing.T) {
	service := newTestService(t)
	first := filepath.Join("/in/one", "photo.png")
	second := filepath.Join("/in/two", "photo.png")

	// nothing is written, yet the second source must not share the first name
	a := service.outputPath(first, ".bmp")
	b := service.outputPath(second, ".bmp")
	assert.NotEqual(t, a, b)
	assert.Equal(t, "photo.bmp", filepath.Base(a))
	assert.Equal(t, "photo-"+sourceHash(second)+".bmp", filepath.Base(b))

	service.Release(a)
	assert.Equal(t, a, service.outputPath(second, ".bmp"))
}

func TestBuildOfficeArgs(t *testing.T) {
	args := buildOfficeArgs("/in/report.docx", "/out/.render-1")
	assert.Equal(t, []string{
		"-env:UserInstallation=file:///out/.render-1/profile",
		OfficeHeadlessFlag,
		OfficeConvertFlag, OfficeTargetPDF,
		OfficeOutDirFlag, "/out/.render-1",
		"/in/report.docx",
	}, args)
}

func TestOfficeRenderer_UnavailableBinary(t *testing.T) {
	r := NewOfficeRenderer(filepath.Join(t.TempDir(), "no-such-soffice"), zerolog.Nop())
	assert.False(t, r.Available())
	assert.Equal(t, "office", r.Name())
	assert.ErrorIs(t, r.Render(context.Background(), "in.docx", "out.pdf"), ErrNoRenderer)
}

type stubRenderer struct {
	name      string
	available bool
	err       error
	calls     int
}

func (s *stubRenderer) Name() string    { return s.name }
func (s *stubRenderer) Available() bool { return s.available }

func (s *stubRenderer) Render(_ context.Context, _, _ string) error {
	s.calls++
	return s.err
}
