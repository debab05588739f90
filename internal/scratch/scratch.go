// Package scratch owns the private temporary directory that holds conversion
// outputs until the user exports them.
package scratch

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// DefaultPrefix names the scratch directory created under os.TempDir
const DefaultPrefix = "file-converter-"

// File permissions
const (
	DirPermissions  = 0o755
	FilePermissions = 0o644
)

// maxExportAttempts bounds the " (n)" suffix search when exporting
const maxExportAttempts = 1000

// Area is a process-owned scratch directory
type Area struct {
	dir    string
	logger zerolog.Logger
}

// New creates a fresh scratch directory
func New(prefix string, logger zerolog.Logger) (*Area, error) {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	dir, err := os.MkdirTemp("", prefix)
	if err != nil {
		return nil, errors.Errorf("creating scratch directory: %w", err)
	}
	logger.Debug().Str("dir", dir).Msg("scratch area created")
	return &Area{dir: dir, logger: logger}, nil
}

// Dir returns the scratch directory path
func (a *Area) Dir() string {
	return a.dir
}

// Path joins name onto the scratch directory
func (a *Area) Path(name string) string {
	return filepath.Join(a.dir, name)
}

// Contains reports whether path lives inside the scratch directory
func (a *Area) Contains(path string) bool {
	rel, err := filepath.Rel(a.dir, path)
	if err != nil {
		return false
	}
	return rel != "." && !strings.HasPrefix(rel, "..")
}

// Remove deletes a scratch artifact. Failures are logged, never returned.
func (a *Area) Remove(path string) {
	if path == "" {
		return
	}
	if !a.Contains(path) {
		a.logger.Warn().Str("path", path).Msg("refusing to remove file outside scratch area")
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		a.logger.Warn().Err(err).Str("path", path).Msg("failed to remove scratch artifact")
		return
	}
	a.logger.Debug().Str("path", path).Msg("scratch artifact removed")
}

// Teardown recursively deletes the scratch directory. Failures are logged only.
func (a *Area) Teardown() {
	if err := os.RemoveAll(a.dir); err != nil {
		a.logger.Warn().Err(err).Str("dir", a.dir).Msg("failed to tear down scratch area")
		return
	}
	a.logger.Debug().Str("dir", a.dir).Msg("scratch area removed")
}

// Export copies src into destDir keeping its file name. An existing file is
// never overwritten: "name (1).ext", "name (2).ext", ... are tried instead.
func (a *Area) Export(src, destDir string) (string, error) {
	if err := os.MkdirAll(destDir, DirPermissions); err != nil {
		return "", errors.Errorf("creating destination %s: %w", destDir, err)
	}

	name := filepath.Base(src)
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)

	dest := filepath.Join(destDir, name)
	for i := 1; fileExists(dest); i++ {
		if i > maxExportAttempts {
			return "", errors.Errorf("no free file name for %s in %s", name, destDir)
		}
		dest = filepath.Join(destDir, fmt.Sprintf("%s (%d)%s", stem, i, ext))
	}

	if err := CopyFile(src, dest); err != nil {
		return "", err
	}
	a.logger.Info().Str("src", src).Str("dest", dest).Msg("artifact exported")
	return dest, nil
}

// CopyFile copies src to dest, removing a partial dest on failure
func CopyFile(src, dest string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return errors.Errorf("opening %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, FilePermissions)
	if err != nil {
		return errors.Errorf("creating %s: %w", dest, err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = errors.Errorf("closing %s: %w", dest, cerr)
		}
		if err != nil {
			os.Remove(dest)
		}
	}()

	if _, err = io.Copy(out, in); err != nil {
		return errors.Errorf("copying %s to %s: %w", src, dest, err)
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
