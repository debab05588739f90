package convert

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/ytget/file-converter/internal/format"
)

// hashSuffixLength is the number of hex digits appended on name collisions
const hashSuffixLength = 8

// Service is the default Converter
type Service struct {
	outputDir string
	logger    zerolog.Logger
	renderers []DocumentRenderer

	ownersMutex sync.Mutex
	owners      map[string]string // output path -> source path
}

// NewService creates a converter writing into outputDir. With no renderers
// the office suite is tried first and the built-in flow layout is the fallback.
func NewService(outputDir string, logger zerolog.Logger, renderers ...DocumentRenderer) *Service {
	if len(renderers) == 0 {
		renderers = []DocumentRenderer{NewOfficeRenderer("", logger), NewFlowRenderer()}
	}
	return &Service{
		outputDir: outputDir,
		logger:    logger,
		renderers: renderers,
		owners:    make(map[string]string),
	}
}

// Convert writes sourcePath re-encoded as target and returns the artifact path
func (s *Service) Convert(ctx context.Context, sourcePath, target string) (string, error) {
	target = format.Normalize(target)
	route := Plan(format.ExtensionOf(sourcePath), target)

	logger := s.logger.With().Str("source", sourcePath).Str("target", target).Str("route", route.String()).Logger()
	if route.IsNoop() {
		logger.Debug().Msg("nothing to convert")
		return "", nil
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if _, err := os.Stat(sourcePath); err != nil {
		return "", newError(sourcePath, target, err)
	}

	outputPath := s.outputPath(sourcePath, target)

	var err error
	switch route {
	case RouteImageEncode:
		err = encodeImage(sourcePath, outputPath)
	case RouteImageToPDF:
		err = imageToPDF(sourcePath, outputPath)
	case RouteTextToPDF:
		err = textToPDF(sourcePath, outputPath)
	case RouteTextToDocx:
		err = textToDocx(sourcePath, outputPath)
	case RouteDocxToText:
		err = docxToText(sourcePath, outputPath)
	case RouteDocxToPDF:
		err = s.renderDocument(ctx, sourcePath, outputPath)
	default:
		err = errors.Errorf("unhandled route %s", route)
	}
	if err != nil {
		_ = os.Remove(outputPath)
		s.Release(outputPath)
		logger.Error().Err(err).Msg("conversion failed")
		return "", newError(sourcePath, target, err)
	}

	logger.Info().Str("output", outputPath).Msg("converted")
	return outputPath, nil
}

// renderDocument hands the file to the first available renderer
func (s *Service) renderDocument(ctx context.Context, docxPath, pdfPath string) error {
	for _, r := range s.renderers {
		if !r.Available() {
			continue
		}
		s.logger.Debug().Str("renderer", r.Name()).Str("source", docxPath).Msg("rendering document")
		return r.Render(ctx, docxPath, pdfPath)
	}
	return ErrNoRenderer
}

// outputPath names the artifact <base><target> inside the output directory.
// When that name is claimed by a different source, even one still being
// written, the name gets a short hash of the source path.
func (s *Service) outputPath(sourcePath, target string) string {
	base := strings.TrimSuffix(filepath.Base(sourcePath), filepath.Ext(sourcePath))
	candidate := filepath.Join(s.outputDir, base+target)

	s.ownersMutex.Lock()
	defer s.ownersMutex.Unlock()

	if owner, ok := s.owners[candidate]; ok && owner != sourcePath {
		candidate = filepath.Join(s.outputDir, base+"-"+sourceHash(sourcePath)+target)
	}
	s.owners[candidate] = sourcePath
	return candidate
}

// Release gives up the claim on an artifact name once the artifact is retired
func (s *Service) Release(outputPath string) {
	s.ownersMutex.Lock()
	delete(s.owners, outputPath)
	s.ownersMutex.Unlock()
}

func sourceHash(path string) string {
	sum := sha256.Sum256([]byte(path))
	return hex.EncodeToString(sum[:])[:hashSuffixLength]
}
