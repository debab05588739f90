package session

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"

	"github.com/ytget/file-converter/internal/convert"
	"github.com/ytget/file-converter/internal/model"
	"github.com/ytget/file-converter/internal/scratch"
)

func newTestSession(t *testing.T, background bool) (*Session, *scratch.Area) {
	t.Helper()
	area, err := scratch.New("session-test-", zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(area.Teardown)

	s := New(Options{
		Converter:  convert.NewService(area.Dir(), zerolog.Nop(), convert.NewFlowRenderer()),
		Scratch:    area,
		Logger:     zerolog.Nop(),
		Background: background,
		Workers:    2,
	})
	return s, area
}

func writePNG(t *testing.T, path string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, image.NewRGBA(image.Rect(0, 0, 3, 2))))
	require.NoError(t, f.Close())
}

func scratchNames(t *testing.T, area *scratch.Area) []string {
	t.Helper()
	entries, err := os.ReadDir(area.Dir())
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names
}

func TestImport_Validation(t *testing.T) {
	s, _ := newTestSession(t, false)

	_, err := s.Import(nil)
	assert.ErrorIs(t, err, ErrNoFiles)

	paths := make([]string, 11)
	for i := range paths {
		paths[i] = filepath.Join("/in", fmt.Sprintf("f%d.png", i))
	}
	_, err = s.Import(paths)
	assert.ErrorIs(t, err, ErrTooManyFiles)
	assert.Empty(t, s.Files())

	_, err = s.Import([]string{"/in/a.png", "/in/movie.mp4"})
	assert.ErrorIs(t, err, ErrUnsupportedInput)
	assert.Contains(t, err.Error(), "movie.mp4")
	assert.Empty(t, s.Files())

	files, err := s.Import(paths[:10])
	require.NoError(t, err)
	assert.Len(t, files, 10)
}

func TestImport_DropsRepeatedPaths(t *testing.T) {
	s, _ := newTestSession(t, false)

	files, err := s.Import([]string{"/in/a.png", "/in/b.txt", "/in/./a.png"})
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "/in/a.png", files[0].SourcePath)
	assert.Equal(t, "2. b.txt", files[1].GetDisplayTitle())
}

func TestConvertAll_SameBaseNameInParallel(t *testing.T) {
	for run := 0; run < 10; run++ {
		s, area := newTestSession(t, true)
		first := filepath.Join(t.TempDir(), "scan.png")
		second := filepath.Join(t.TempDir(), "scan.png")
		writePNG(t, first)
		writePNG(t, second)

		files, err := s.Import([]string{first, second})
		require.NoError(t, err)
		require.NoError(t, s.SetTarget(files[0].ID, ".bmp"))
		require.NoError(t, s.SetTarget(files[1].ID, ".bmp"))

		result, err := s.ConvertAll(context.Background())
		require.NoError(t, err)
		require.Equal(t, 2, result.Converted)
		require.Len(t, scratchNames(t, area), 2, "each file owns its own artifact")

		// Retargeting one file must not touch the other's artifact
		require.NoError(t, s.SetTarget(files[0].ID, ".jpg"))
		other, ok := s.File(files[1].ID)
		require.True(t, ok)
		assert.True(t, other.Status.IsDownloadable())
		assert.Equal(t, 1, s.ConvertedCount())

		dest, err := s.Download(files[1].ID, t.TempDir())
		require.NoError(t, err)
		assert.FileExists(t, dest)
		require.Len(t, scratchNames(t, area), 1)
	}
}

func TestConvertAll_ReleasedNameIsReused(t *testing.T) {
	s, area := newTestSession(t, false)
	first := filepath.Join(t.TempDir(), "scan.png")
	second := filepath.Join(t.TempDir(), "scan.png")
	writePNG(t, first)
	writePNG(t, second)

	files, err := s.Import([]string{first})
	require.NoError(t, err)
	require.NoError(t, s.SetTarget(files[0].ID, ".bmp"))
	_, err = s.ConvertAll(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"scan.bmp"}, scratchNames(t, area))

	// A new import retires the artifact and frees its name
	files, err = s.Import([]string{second})
	require.NoError(t, err)
	require.NoError(t, s.SetTarget(files[0].ID, ".bmp"))
	_, err = s.ConvertAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"scan.bmp"}, scratchNames(t, area))
}

func TestImport_ReplacesPreviousBatch(t *testing.T) {
	s, area := newTestSession(t, false)
	dir := t.TempDir()
	a := filepath.Join(dir, "a.png")
	writePNG(t, a)

	files, err := s.Import([]string{a})
	require.NoError(t, err)
	require.NoError(t, s.SetTarget(files[0].ID, ".bmp"))
	_, err = s.ConvertAll(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"a.bmp"}, scratchNames(t, area))

	next, err := s.Import([]string{filepath.Join(dir, "B.TXT"), filepath.Join(dir, "c.csv")})
	require.NoError(t, err)
	require.Len(t, next, 2)
	assert.Equal(t, "1. B.TXT", next[0].GetDisplayTitle())
	assert.Equal(t, "2. c.csv", next[1].GetDisplayTitle())
	assert.Empty(t, scratchNames(t, area), "previous artifacts are discarded")

	_, ok := s.File(files[0].ID)
	assert.False(t, ok)
}

func TestConvertAll_Scenario(t *testing.T) {
	for _, background := range []bool{false, true} {
		s, area := newTestSession(t, background)
		dir := t.TempDir()
		a := filepath.Join(dir, "a.png")
		b := filepath.Join(dir, "b.docx")
		writePNG(t, a)
		require.NoError(t, convert.WriteDocx(b, []convert.Paragraph{
			{Style: convert.HeadingStyle, Text: "B"},
			{Text: "body text"},
		}))

		files, err := s.Import([]string{a, b})
		require.NoError(t, err)
		require.NoError(t, s.SetTarget(files[0].ID, ".bmp"))
		require.NoError(t, s.SetTarget(files[1].ID, "pdf"))

		result, err := s.ConvertAll(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 2, result.Converted, "background=%v", background)
		assert.Empty(t, result.Failures)

		for _, f := range s.Files() {
			assert.Equal(t, model.FileStatusConverted, f.Status)
			assert.True(t, f.Status.IsDownloadable())
		}
		assert.Equal(t, []string{"a.bmp", "b.pdf"}, scratchNames(t, area))
		assert.False(t, s.IsConverting())
	}
}

func TestConvertAll_NoTargets(t *testing.T) {
	s, area := newTestSession(t, false)
	a := filepath.Join(t.TempDir(), "a.png")
	writePNG(t, a)

	_, err := s.ConvertAll(context.Background())
	assert.ErrorIs(t, err, ErrNoTargets)

	files, err := s.Import([]string{a})
	require.NoError(t, err)
	_, err = s.ConvertAll(context.Background())
	assert.ErrorIs(t, err, ErrNoTargets)

	f, ok := s.File(files[0].ID)
	require.True(t, ok)
	assert.False(t, f.Status.IsDownloadable())
	assert.Empty(t, scratchNames(t, area))

	_, err = s.Download(files[0].ID, t.TempDir())
	assert.ErrorIs(t, err, ErrNotConverted)
}

func TestConvertAll_SameFormatAndCSVAreNoOps(t *testing.T) {
	s, area := newTestSession(t, false)
	dir := t.TempDir()
	a := filepath.Join(dir, "a.png")
	c := filepath.Join(dir, "c.csv")
	writePNG(t, a)
	require.NoError(t, os.WriteFile(c, []byte("x,y\n"), 0o644))

	files, err := s.Import([]string{a, c})
	require.NoError(t, err)

	assert.ErrorIs(t, s.SetTarget(files[0].ID, ".png"), ErrInvalidTarget)
	assert.ErrorIs(t, s.SetTarget(files[1].ID, ".pdf"), ErrInvalidTarget)
	_, err = s.ConvertAll(context.Background())
	assert.ErrorIs(t, err, ErrNoTargets)
	assert.Empty(t, scratchNames(t, area))
}

func TestConvertAll_FailureContinuesBatch(t *testing.T) {
	s, area := newTestSession(t, false)
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.png")
	good := filepath.Join(dir, "good.png")
	require.NoError(t, os.WriteFile(bad, []byte("not an image"), 0o644))
	writePNG(t, good)

	var failed []string
	var mu sync.Mutex
	s.SetFailureCallback(func(file *model.ImportedFile, err error) {
		mu.Lock()
		failed = append(failed, file.Name())
		mu.Unlock()
	})

	files, err := s.Import([]string{bad, good})
	require.NoError(t, err)
	require.NoError(t, s.SetTarget(files[0].ID, ".jpg"))
	require.NoError(t, s.SetTarget(files[1].ID, ".jpg"))

	result, err := s.ConvertAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Converted)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, []string{"bad.png"}, failed)

	var convErr *convert.Error
	assert.True(t, errors.As(result.Failures[0].Err, &convErr))

	badFile, _ := s.File(files[0].ID)
	assert.Equal(t, model.FileStatusNotConverted, badFile.Status)
	assert.NotEmpty(t, badFile.LastError)
	assert.Equal(t, []string{"good.jpg"}, scratchNames(t, area))
}

func TestSetTarget_InvalidatesConversion(t *testing.T) {
	s, area := newTestSession(t, false)
	a := filepath.Join(t.TempDir(), "a.png")
	writePNG(t, a)

	var changes []string
	s.SetChangeCallback(func(fileID string) { changes = append(changes, fileID) })

	files, err := s.Import([]string{a})
	require.NoError(t, err)
	id := files[0].ID
	require.NoError(t, s.SetTarget(id, ".bmp"))
	_, err = s.ConvertAll(context.Background())
	require.NoError(t, err)

	f, _ := s.File(id)
	require.True(t, f.Status.IsDownloadable())
	require.Equal(t, []string{"a.bmp"}, scratchNames(t, area))

	// same target keeps the artifact
	require.NoError(t, s.SetTarget(id, ".BMP"))
	f, _ = s.File(id)
	assert.True(t, f.Status.IsDownloadable())

	require.NoError(t, s.SetTarget(id, ".jpg"))
	f, _ = s.File(id)
	assert.Equal(t, model.FileStatusNotConverted, f.Status)
	assert.Equal(t, ".jpg", f.TargetExtension)
	assert.Empty(t, scratchNames(t, area))
	assert.Contains(t, changes, id)

	_, err = s.Download(id, t.TempDir())
	assert.ErrorIs(t, err, ErrNotConverted)

	assert.ErrorIs(t, s.SetTarget("file-missing", ".jpg"), ErrFileNotFound)
}

func TestRemove(t *testing.T) {
	s, area := newTestSession(t, false)
	dir := t.TempDir()
	a := filepath.Join(dir, "a.png")
	b := filepath.Join(dir, "b.png")
	writePNG(t, a)
	writePNG(t, b)

	files, err := s.Import([]string{a, b})
	require.NoError(t, err)
	require.NoError(t, s.SetTarget(files[0].ID, ".bmp"))
	_, err = s.ConvertAll(context.Background())
	require.NoError(t, err)

	require.NoError(t, s.Remove(files[0].ID))
	remaining := s.Files()
	require.Len(t, remaining, 1)
	assert.Equal(t, "1. b.png", remaining[0].GetDisplayTitle())
	assert.Empty(t, scratchNames(t, area))

	assert.ErrorIs(t, s.Remove(files[0].ID), ErrFileNotFound)
}

func TestDownload(t *testing.T) {
	s, _ := newTestSession(t, false)
	dir := t.TempDir()
	a := filepath.Join(dir, "a.png")
	notes := filepath.Join(dir, "notes.txt")
	writePNG(t, a)
	require.NoError(t, os.WriteFile(notes, []byte("hello\n"), 0o644))

	files, err := s.Import([]string{a, notes})
	require.NoError(t, err)
	require.NoError(t, s.SetTarget(files[0].ID, ".jpg"))
	require.NoError(t, s.SetTarget(files[1].ID, ".docx"))
	_, err = s.ConvertAll(context.Background())
	require.NoError(t, err)

	dest := t.TempDir()
	path, err := s.Download(files[0].ID, dest)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dest, "a.jpg"), path)

	again, err := s.Download(files[0].ID, dest)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dest, "a (1).jpg"), again)

	all, err := s.DownloadAll(t.TempDir())
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "a.jpg", filepath.Base(all[0]))
	assert.Equal(t, "notes.docx", filepath.Base(all[1]))

	text, err := convert.ExtractDocxText(all[1])
	require.NoError(t, err)
	assert.Equal(t, "notes\nhello\n", text)

	_, err = s.Download("file-missing", dest)
	assert.ErrorIs(t, err, ErrFileNotFound)
}

func TestArtifact(t *testing.T) {
	s, area := newTestSession(t, false)
	a := filepath.Join(t.TempDir(), "a.png")
	writePNG(t, a)

	files, err := s.Import([]string{a})
	require.NoError(t, err)
	id := files[0].ID

	_, err = s.Artifact(id)
	assert.ErrorIs(t, err, ErrNotConverted)

	require.NoError(t, s.SetTarget(id, ".bmp"))
	_, err = s.ConvertAll(context.Background())
	require.NoError(t, err)

	artifact, err := s.Artifact(id)
	require.NoError(t, err)
	assert.True(t, area.Contains(artifact))
	assert.Equal(t, "a.bmp", filepath.Base(artifact))

	// A target change retires the artifact it pointed at
	require.NoError(t, s.SetTarget(id, ".jpg"))
	_, err = s.Artifact(id)
	assert.ErrorIs(t, err, ErrNotConverted)
	assert.NoFileExists(t, artifact)

	_, err = s.Artifact("file-missing")
	assert.ErrorIs(t, err, ErrFileNotFound)
}

func TestDownloadAll_NothingConverted(t *testing.T) {
	s, _ := newTestSession(t, false)
	_, err := s.DownloadAll(t.TempDir())
	assert.ErrorIs(t, err, ErrNotConverted)
}

func TestStaleConversionIsDiscarded(t *testing.T) {
	s, area := newTestSession(t, false)
	a := filepath.Join(t.TempDir(), "a.png")
	writePNG(t, a)

	files, err := s.Import([]string{a})
	require.NoError(t, err)
	require.NoError(t, s.SetTarget(files[0].ID, ".bmp"))

	snapshot, _ := s.File(files[0].ID)
	out := area.Path("a.bmp")
	require.NoError(t, os.WriteFile(out, []byte("bmp"), 0o644))

	// the user switched formats while a.bmp was being produced
	require.NoError(t, s.SetTarget(files[0].ID, ".jpg"))
	rec := &recorder{session: s}
	rec.RecordConverted(snapshot, out)

	f, _ := s.File(files[0].ID)
	assert.False(t, f.Status.IsDownloadable())
	assert.Empty(t, scratchNames(t, area))
}

func TestClearAllAndClose(t *testing.T) {
	s, area := newTestSession(t, false)
	a := filepath.Join(t.TempDir(), "a.png")
	writePNG(t, a)

	files, err := s.Import([]string{a})
	require.NoError(t, err)
	require.NoError(t, s.SetTarget(files[0].ID, ".bmp"))
	_, err = s.ConvertAll(context.Background())
	require.NoError(t, err)

	s.ClearAll()
	assert.Empty(t, s.Files())
	assert.Empty(t, scratchNames(t, area))

	s.Close()
	_, err = os.Stat(area.Dir())
	assert.True(t, os.IsNotExist(err))
}
