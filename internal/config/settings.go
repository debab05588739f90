package config

import (
	"os"
	"path/filepath"

	"fyne.io/fyne/v2"

	"github.com/ytget/file-converter/internal/logging"
	"github.com/ytget/file-converter/internal/platform"
)

// ThemeVariant selects the window color scheme
type ThemeVariant string

const (
	ThemeSystem ThemeVariant = "system"
	ThemeLight  ThemeVariant = "light"
	ThemeDark   ThemeVariant = "dark"
)

// Settings keys for Fyne preferences
const (
	KeyExportDir           = "export_directory"
	KeyTheme               = "theme_variant"
	KeyLanguage            = "app_language"
	KeyOfficeBinary        = "office_binary"
	KeyBackgroundConvert   = "background_conversion"
	KeyMaxParallel         = "max_parallel_conversions"
	KeyRevealAfterDownload = "reveal_after_download"
	KeyLogLevel            = "log_level"
)

// Default values
const (
	DefaultTheme               = ThemeSystem
	DefaultLanguage            = "system"
	DefaultBackgroundConvert   = true
	DefaultMaxParallel         = 2
	MaxParallelLimit           = 10
	DefaultRevealAfterDownload = false
	DefaultLogLevel            = "info"
)

// Settings manages application configuration
type Settings struct {
	app fyne.App
}

// NewSettings creates a new settings manager
func NewSettings(app fyne.App) *Settings {
	return &Settings{app: app}
}

// GetExportDirectory returns the folder Download All writes into
func (s *Settings) GetExportDirectory() string {
	dir := s.app.Preferences().String(KeyExportDir)
	if dir == "" {
		// Use system default Downloads directory
		defaultDir, err := platform.GetHomeDownloadsDir()
		if err != nil {
			defaultDir = filepath.Join(os.TempDir(), "converted")
		}
		s.SetExportDirectory(defaultDir)
		return defaultDir
	}
	return dir
}

// SetExportDirectory sets the export directory
func (s *Settings) SetExportDirectory(dir string) {
	s.app.Preferences().SetString(KeyExportDir, dir)
}

// GetTheme returns the configured theme variant
func (s *Settings) GetTheme() ThemeVariant {
	variant := ThemeVariant(s.app.Preferences().String(KeyTheme))
	switch variant {
	case ThemeLight, ThemeDark, ThemeSystem:
		return variant
	default:
		s.SetTheme(DefaultTheme)
		return DefaultTheme
	}
}

// SetTheme sets the theme variant, falling back to the default for unknown values
func (s *Settings) SetTheme(variant ThemeVariant) {
	switch variant {
	case ThemeLight, ThemeDark, ThemeSystem:
	default:
		variant = DefaultTheme
	}
	s.app.Preferences().SetString(KeyTheme, string(variant))
}

// GetThemeOptions returns available theme variants
func (s *Settings) GetThemeOptions() []ThemeVariant {
	return []ThemeVariant{ThemeSystem, ThemeLight, ThemeDark}
}

// GetLanguage returns the configured language
func (s *Settings) GetLanguage() string {
	lang := s.app.Preferences().String(KeyLanguage)
	if lang == "" {
		s.SetLanguage(DefaultLanguage)
		return DefaultLanguage
	}
	return lang
}

// SetLanguage sets the application language
func (s *Settings) SetLanguage(lang string) {
	s.app.Preferences().SetString(KeyLanguage, lang)
}

// GetLanguageOptions returns available language options
func (s *Settings) GetLanguageOptions() map[string]string {
	return map[string]string{
		"system": "System Default",
		"en":     "English",
		"ru":     "Русский",
		"pt":     "Português",
	}
}

// GetOfficeBinary returns the configured office suite path, empty for auto-detect
func (s *Settings) GetOfficeBinary() string {
	return s.app.Preferences().String(KeyOfficeBinary)
}

// SetOfficeBinary sets the office suite path
func (s *Settings) SetOfficeBinary(path string) {
	s.app.Preferences().SetString(KeyOfficeBinary, path)
}

// GetBackgroundConversion returns whether batches run on a worker pool
func (s *Settings) GetBackgroundConversion() bool {
	return s.app.Preferences().BoolWithFallback(KeyBackgroundConvert, DefaultBackgroundConvert)
}

// SetBackgroundConversion sets whether batches run on a worker pool
func (s *Settings) SetBackgroundConversion(enabled bool) {
	s.app.Preferences().SetBool(KeyBackgroundConvert, enabled)
}

// GetMaxParallelConversions returns the worker pool size
func (s *Settings) GetMaxParallelConversions() int {
	value := s.app.Preferences().Int(KeyMaxParallel)
	if value <= 0 {
		s.SetMaxParallelConversions(DefaultMaxParallel)
		return DefaultMaxParallel
	}
	return value
}

// SetMaxParallelConversions sets the worker pool size
func (s *Settings) SetMaxParallelConversions(count int) {
	if count < 1 {
		count = 1
	}
	if count > MaxParallelLimit {
		count = MaxParallelLimit
	}
	s.app.Preferences().SetInt(KeyMaxParallel, count)
}

// GetRevealAfterDownload returns whether exported files are shown in the file manager
func (s *Settings) GetRevealAfterDownload() bool {
	return s.app.Preferences().BoolWithFallback(KeyRevealAfterDownload, DefaultRevealAfterDownload)
}

// SetRevealAfterDownload sets whether exported files are shown in the file manager
func (s *Settings) SetRevealAfterDownload(reveal bool) {
	s.app.Preferences().SetBool(KeyRevealAfterDownload, reveal)
}

// GetLogLevel returns the configured log level name
func (s *Settings) GetLogLevel() string {
	return s.app.Preferences().StringWithFallback(KeyLogLevel, DefaultLogLevel)
}

// SetLogLevel sets the log level, normalizing unknown names to the default
func (s *Settings) SetLogLevel(level string) {
	s.app.Preferences().SetString(KeyLogLevel, logging.ParseLevel(level).String())
}
