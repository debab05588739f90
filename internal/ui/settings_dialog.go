package ui

import (
	"sort"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/file-converter/internal/config"
)

// Dialog size constants
const (
	SettingsDialogWidth  = 520
	SettingsDialogHeight = 560
)

// logLevelOptions are offered in the log level select
var logLevelOptions = []string{"debug", "info", "warn", "error"}

// SettingsDialog represents the settings configuration dialog
type SettingsDialog struct {
	settings     *config.Settings
	localization *Localization
	window       fyne.Window
	dialog       *dialog.ConfirmDialog
	onSaved      func()

	// UI components
	exportDirEntry   *widget.Entry
	themeSelect      *widget.RadioGroup
	languageSelect   *widget.Select
	officeEntry      *widget.Entry
	backgroundCheck  *widget.Check
	maxParallelEntry *widget.Entry
	revealCheck      *widget.Check
	logLevelSelect   *widget.Select
	themeLabels      map[string]config.ThemeVariant
	languageLabels   map[string]string
}

// ShowSettingsDialog builds and shows the settings dialog. onSaved runs after
// the values are stored.
func ShowSettingsDialog(window fyne.Window, settings *config.Settings, localization *Localization, onSaved func()) *SettingsDialog {
	sd := NewSettingsDialog(settings, localization, window)
	sd.onSaved = onSaved
	sd.Show()
	return sd
}

// NewSettingsDialog creates a new settings dialog
func NewSettingsDialog(settings *config.Settings, localization *Localization, window fyne.Window) *SettingsDialog {
	sd := &SettingsDialog{
		settings:     settings,
		localization: localization,
		window:       window,
	}

	sd.createUI()
	return sd
}

// Show displays the settings dialog
func (sd *SettingsDialog) Show() {
	sd.loadCurrentSettings()
	sd.dialog.Show()
}

// createUI creates the settings dialog UI
func (sd *SettingsDialog) createUI() {
	l := sd.localization

	// Export directory selection
	sd.exportDirEntry = widget.NewEntry()
	browseDirBtn := widget.NewButton(l.GetText(KeyBrowse), sd.onBrowseDirectory)
	exportDirRow := container.NewBorder(nil, nil, nil, browseDirBtn, sd.exportDirEntry)

	// Theme selection, shown with localized labels
	sd.themeLabels = map[string]config.ThemeVariant{
		l.GetText(KeyThemeSystem): config.ThemeSystem,
		l.GetText(KeyThemeLight):  config.ThemeLight,
		l.GetText(KeyThemeDark):   config.ThemeDark,
	}
	themeOptions := []string{}
	for _, variant := range sd.settings.GetThemeOptions() {
		themeOptions = append(themeOptions, sd.themeLabel(variant))
	}
	sd.themeSelect = widget.NewRadioGroup(themeOptions, nil)
	sd.themeSelect.Horizontal = true
	sd.themeSelect.Required = true

	// Language selection by display name
	sd.languageLabels = make(map[string]string)
	languageOptions := []string{}
	for code, name := range sd.settings.GetLanguageOptions() {
		sd.languageLabels[name] = code
		languageOptions = append(languageOptions, name)
	}
	sort.Strings(languageOptions)
	sd.languageSelect = widget.NewSelect(languageOptions, nil)

	// Office suite used for DOCX to PDF
	sd.officeEntry = widget.NewEntry()
	sd.officeEntry.SetPlaceHolder(l.GetText(KeyOfficeAutoDetect))
	browseOfficeBtn := widget.NewButton(l.GetText(KeyBrowse), sd.onBrowseOffice)
	officeRow := container.NewBorder(nil, nil, nil, browseOfficeBtn, sd.officeEntry)

	sd.backgroundCheck = widget.NewCheck(l.GetText(KeyBackgroundConversion), nil)

	sd.maxParallelEntry = widget.NewEntry()
	sd.maxParallelEntry.SetPlaceHolder("1-" + strconv.Itoa(config.MaxParallelLimit))

	sd.revealCheck = widget.NewCheck(l.GetText(KeyRevealAfterDownload), nil)

	sd.logLevelSelect = widget.NewSelect(logLevelOptions, nil)

	hint := widget.NewLabel(l.GetText(KeyRestartRequired))
	hint.Importance = widget.LowImportance
	hint.Wrapping = fyne.TextWrapWord

	// Create form
	form := container.NewVBox(
		widget.NewLabel(l.GetText(KeyExportDirectory)+":"),
		exportDirRow,
		sd.revealCheck,

		widget.NewSeparator(),

		widget.NewLabel(l.GetText(KeyTheme)+":"),
		sd.themeSelect,

		widget.NewLabel(l.GetText(KeyLanguage)+":"),
		sd.languageSelect,

		widget.NewSeparator(),

		widget.NewLabel(l.GetText(KeyOfficeBinary)+":"),
		officeRow,
		sd.backgroundCheck,

		widget.NewLabel(l.GetText(KeyMaxParallel)+":"),
		sd.maxParallelEntry,

		widget.NewLabel(l.GetText(KeyLogLevel)+":"),
		sd.logLevelSelect,

		hint,
	)

	// Create dialog with buttons
	sd.dialog = dialog.NewCustomConfirm(
		l.GetText(KeySettings),
		l.GetText(KeySave),
		l.GetText(KeyCancel),
		container.NewVScroll(form),
		sd.onSave,
		sd.window,
	)

	sd.dialog.Resize(fyne.NewSize(SettingsDialogWidth, SettingsDialogHeight))
}

// loadCurrentSettings loads current settings into the UI
func (sd *SettingsDialog) loadCurrentSettings() {
	sd.exportDirEntry.SetText(sd.settings.GetExportDirectory())
	sd.themeSelect.SetSelected(sd.themeLabel(sd.settings.GetTheme()))
	sd.languageSelect.SetSelected(sd.settings.GetLanguageOptions()[sd.settings.GetLanguage()])
	sd.officeEntry.SetText(sd.settings.GetOfficeBinary())
	sd.backgroundCheck.SetChecked(sd.settings.GetBackgroundConversion())
	sd.maxParallelEntry.SetText(strconv.Itoa(sd.settings.GetMaxParallelConversions()))
	sd.revealCheck.SetChecked(sd.settings.GetRevealAfterDownload())
	sd.logLevelSelect.SetSelected(sd.settings.GetLogLevel())
}

// themeLabel returns the localized label of a theme variant
func (sd *SettingsDialog) themeLabel(variant config.ThemeVariant) string {
	for label, v := range sd.themeLabels {
		if v == variant {
			return label
		}
	}
	return string(variant)
}

// onBrowseDirectory handles directory browsing
func (sd *SettingsDialog) onBrowseDirectory() {
	dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil || uri == nil {
			return
		}
		sd.exportDirEntry.SetText(uri.Path())
	}, sd.window)
}

// onBrowseOffice lets the user point at an office suite executable
func (sd *SettingsDialog) onBrowseOffice() {
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		sd.officeEntry.SetText(reader.URI().Path())
		_ = reader.Close()
	}, sd.window)
}

// onSave handles saving the settings
func (sd *SettingsDialog) onSave(confirmed bool) {
	if !confirmed {
		return
	}
	sd.apply()

	if sd.onSaved != nil {
		sd.onSaved()
	}
}

// apply writes the dialog values into settings
func (sd *SettingsDialog) apply() {
	if exportDir := sd.exportDirEntry.Text; exportDir != "" {
		sd.settings.SetExportDirectory(exportDir)
	}

	if variant, ok := sd.themeLabels[sd.themeSelect.Selected]; ok {
		sd.settings.SetTheme(variant)
	}

	if code, ok := sd.languageLabels[sd.languageSelect.Selected]; ok {
		sd.settings.SetLanguage(code)
	}

	// An empty path switches back to auto-detection
	sd.settings.SetOfficeBinary(sd.officeEntry.Text)

	sd.settings.SetBackgroundConversion(sd.backgroundCheck.Checked)

	if maxParallel, err := strconv.Atoi(sd.maxParallelEntry.Text); err == nil {
		sd.settings.SetMaxParallelConversions(maxParallel)
	}

	sd.settings.SetRevealAfterDownload(sd.revealCheck.Checked)

	if sd.logLevelSelect.Selected != "" {
		sd.settings.SetLogLevel(sd.logLevelSelect.Selected)
	}
}
