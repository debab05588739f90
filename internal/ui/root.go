package ui

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/ytget/file-converter/internal/batch"
	"github.com/ytget/file-converter/internal/config"
	"github.com/ytget/file-converter/internal/convert"
	"github.com/ytget/file-converter/internal/format"
	"github.com/ytget/file-converter/internal/model"
	"github.com/ytget/file-converter/internal/platform"
	"github.com/ytget/file-converter/internal/session"
)

// RootUI represents the main UI structure
type RootUI struct {
	app          fyne.App
	window       fyne.Window
	session      *session.Session
	settings     *config.Settings
	localization *Localization
	logger       zerolog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	// UI components
	importBtn      *widget.Button
	convertBtn     *widget.Button
	downloadAllBtn *widget.Button
	clearAllBtn    *widget.Button
	fileList       *widget.List
	dropHint       *widget.Label

	// files mirrors the session for the list; only touched on the UI goroutine
	files []*model.ImportedFile

	// details caches the size/dimension summary per file ID
	detailsMu sync.Mutex
	details   map[string]string

	// Notification panel
	notificationContainer *fyne.Container
	notificationLabel     *widget.Label
	notificationSpinner   *widget.ProgressBarInfinite
}

// NewRootUI creates and initializes the main UI
func NewRootUI(window fyne.Window, app fyne.App, sess *session.Session, settings *config.Settings, logger zerolog.Logger) *RootUI {
	// Initialize localization
	localization := NewLocalization()
	localization.SetLanguage(settings.GetLanguage())

	ctx, cancel := context.WithCancel(context.Background())
	ui := &RootUI{
		app:          app,
		window:       window,
		session:      sess,
		settings:     settings,
		localization: localization,
		logger:       logger,
		ctx:          ctx,
		cancel:       cancel,
		details:      make(map[string]string),
	}

	// Set window title
	window.SetTitle(localization.GetText(KeyAppTitle))

	// Session callbacks may fire while the session is locked, so the refresh
	// is always scheduled from a separate goroutine.
	sess.SetChangeCallback(func(string) {
		go fyne.Do(ui.refreshFiles)
	})
	sess.SetFailureCallback(ui.onConversionFailure)

	ui.setupUI()
	return ui
}

// Shutdown stops any running conversion
func (ui *RootUI) Shutdown() {
	ui.cancel()
}

// setupUI creates and arranges all UI components
func (ui *RootUI) setupUI() {
	// Create menu
	ui.createMenu()

	ui.importBtn = widget.NewButtonWithIcon(ui.localization.GetText(KeyImport), theme.FolderOpenIcon(), ui.onImportClick)
	ui.convertBtn = widget.NewButtonWithIcon(ui.localization.GetText(KeyConvert), theme.MediaPlayIcon(), ui.onConvertClick)
	ui.convertBtn.Importance = widget.HighImportance
	ui.downloadAllBtn = widget.NewButtonWithIcon(ui.localization.GetText(KeyDownloadAll), theme.DownloadIcon(), ui.onDownloadAllClick)
	ui.clearAllBtn = widget.NewButtonWithIcon(ui.localization.GetText(KeyClearAll), theme.ContentClearIcon(), ui.onClearAllClick)

	// Create settings button
	settingsBtn := widget.NewButton(IconSettings, ui.onShowSettings)
	settingsBtn.Importance = widget.LowImportance

	actions := container.NewHBox(ui.importBtn, ui.convertBtn, ui.downloadAllBtn, ui.clearAllBtn)

	// Create logo
	logoImage := canvas.NewImageFromResource(AppIconResource())
	logoImage.SetMinSize(fyne.NewSize(32, 32))
	logoImage.FillMode = canvas.ImageFillContain
	topPanel := container.NewBorder(nil, nil, container.NewHBox(logoImage, actions), settingsBtn)

	// Create notification panel under the toolbar (hidden by default)
	ui.notificationLabel = widget.NewLabel("")
	ui.notificationLabel.Alignment = fyne.TextAlignLeading
	ui.notificationLabel.Wrapping = fyne.TextWrapWord
	ui.notificationSpinner = widget.NewProgressBarInfinite()
	ui.notificationSpinner.Hide()
	ui.notificationContainer = container.NewBorder(nil, nil, ui.notificationSpinner, nil, ui.notificationLabel)
	ui.notificationContainer.Hide()

	topCombined := container.NewVBox(topPanel, ui.notificationContainer)

	ui.fileList = widget.NewList(
		func() int {
			return len(ui.files)
		},
		func() fyne.CanvasObject { return ui.createFileItem() },
		func(id widget.ListItemID, obj fyne.CanvasObject) { ui.updateFileItem(id, obj) },
	)

	ui.dropHint = widget.NewLabel(ui.localization.GetText(KeyDropHint))
	ui.dropHint.Alignment = fyne.TextAlignCenter
	ui.dropHint.Importance = widget.LowImportance

	content := container.NewBorder(
		topCombined, // top
		nil,         // bottom
		nil,         // left
		nil,         // right
		container.NewStack(ui.fileList, container.NewCenter(ui.dropHint)),
	)

	ui.window.SetContent(content)
	ui.window.SetOnDropped(ui.onFilesDropped)

	ui.refreshFiles()
	ui.logger.Debug().Msg("UI setup completed")
}

// createMenu creates the application menu
func (ui *RootUI) createMenu() {
	importItem := fyne.NewMenuItem(ui.localization.GetText(KeyImport), ui.onImportClick)
	importFolderItem := fyne.NewMenuItem(ui.localization.GetText(KeyImportFolder), ui.onImportFolderClick)
	settingsItem := fyne.NewMenuItem(ui.localization.GetText(KeySettings), ui.onShowSettings)

	// Language submenu
	languageMenu := fyne.NewMenu(ui.localization.GetText(KeyLanguage))

	availableLanguages := ui.localization.GetAvailableLanguages()
	for code, name := range availableLanguages {
		langItem := fyne.NewMenuItem(name, func() {
			ui.onLanguageChange(code)
		})

		// Mark current language
		if ui.localization.GetCurrentLanguage() == code {
			langItem.Checked = true
		}

		languageMenu.Items = append(languageMenu.Items, langItem)
	}

	// Create main menu
	mainMenu := fyne.NewMainMenu(
		fyne.NewMenu(ui.localization.GetText(KeyFile), importItem, importFolderItem, fyne.NewMenuItemSeparator(), settingsItem),
		languageMenu,
	)

	ui.window.SetMainMenu(mainMenu)
}

// onLanguageChange handles language change
func (ui *RootUI) onLanguageChange(langCode string) {
	ui.localization.SetLanguage(langCode)
	ui.settings.SetLanguage(langCode)
	ui.refreshUITexts()

	// Recreate menu to update checkmarks
	ui.createMenu()
}

// refreshUITexts updates all UI texts with current language
func (ui *RootUI) refreshUITexts() {
	ui.window.SetTitle(ui.localization.GetText(KeyAppTitle))

	ui.importBtn.SetText(ui.localization.GetText(KeyImport))
	ui.convertBtn.SetText(ui.localization.GetText(KeyConvert))
	ui.downloadAllBtn.SetText(ui.localization.GetText(KeyDownloadAll))
	ui.clearAllBtn.SetText(ui.localization.GetText(KeyClearAll))
	ui.dropHint.SetText(ui.localization.GetText(KeyDropHint))

	// Refresh list to update row texts
	ui.fileList.Refresh()
}

// refreshFiles reloads the list from the session. Must run on the UI goroutine.
func (ui *RootUI) refreshFiles() {
	ui.files = ui.session.Files()

	if len(ui.files) == 0 {
		ui.dropHint.Show()
	} else {
		ui.dropHint.Hide()
	}
	ui.updateButtons()
	ui.fileList.Refresh()
}

// updateButtons enables toolbar actions that apply to the current files
func (ui *RootUI) updateButtons() {
	converting := ui.session.IsConverting()

	var targeted int
	for _, file := range ui.files {
		if file.HasTarget() {
			targeted++
		}
	}

	setEnabled(ui.importBtn, !converting)
	setEnabled(ui.convertBtn, !converting && targeted > 0)
	setEnabled(ui.downloadAllBtn, ui.session.ConvertedCount() > 0)
	setEnabled(ui.clearAllBtn, len(ui.files) > 0)
}

func setEnabled(btn *widget.Button, enabled bool) {
	if enabled {
		btn.Enable()
	} else {
		btn.Disable()
	}
}

// createFileItem creates a new file row for the list
func (ui *RootUI) createFileItem() fyne.CanvasObject {
	row := NewFileRow(ui.localization)
	row.SetCallbacks(ui.onTargetChanged, ui.onOpenFile, ui.onDownloadFile, ui.onDeleteFile)
	return row
}

// updateFileItem fills a recycled row with current data
func (ui *RootUI) updateFileItem(id widget.ListItemID, item fyne.CanvasObject) {
	if id >= len(ui.files) {
		return
	}
	file := ui.files[id]

	if row, ok := item.(*FileRow); ok {
		row.UpdateFile(file, ui.fileDetails(file))
	}
}

// fileDetails returns the cached summary of a file, describing it on first use
func (ui *RootUI) fileDetails(file *model.ImportedFile) string {
	ui.detailsMu.Lock()
	defer ui.detailsMu.Unlock()

	if details, ok := ui.details[file.ID]; ok {
		return details
	}
	details := DashPlaceholder
	if info, err := format.Describe(file.SourcePath); err == nil {
		details = info.String()
	} else {
		ui.logger.Warn().Err(err).Str("file", file.Name()).Msg("cannot describe file")
	}
	ui.details[file.ID] = details
	return details
}

// onImportClick opens the file picker
func (ui *RootUI) onImportClick() {
	if ui.session.IsConverting() {
		ui.showWarning(ui.localization.GetText(KeyBusy))
		return
	}

	picker := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, ui.window)
			return
		}
		if reader == nil {
			return
		}
		path := reader.URI().Path()
		_ = reader.Close()
		ui.importPaths([]string{path})
	}, ui.window)
	picker.SetFilter(storage.NewExtensionFileFilter(supportedFilterExtensions()))
	picker.Show()
}

// onImportFolderClick imports every supported file of a folder
func (ui *RootUI) onImportFolderClick() {
	if ui.session.IsConverting() {
		ui.showWarning(ui.localization.GetText(KeyBusy))
		return
	}

	dialog.ShowFolderOpen(func(dir fyne.ListableURI, err error) {
		if err != nil {
			dialog.ShowError(err, ui.window)
			return
		}
		if dir == nil {
			return
		}
		children, err := dir.List()
		if err != nil {
			dialog.ShowError(err, ui.window)
			return
		}
		ui.importPaths(supportedPaths(children))
	}, ui.window)
}

// supportedPaths keeps local files with an importable extension, sorted by path
func supportedPaths(uris []fyne.URI) []string {
	paths := make([]string, 0, len(uris))
	for _, uri := range uris {
		if uri.Scheme() != "file" || !format.IsSupportedInputExtension(uri.Extension()) {
			continue
		}
		paths = append(paths, uri.Path())
	}
	sort.Strings(paths)
	return paths
}

// onFilesDropped imports files dragged onto the window
func (ui *RootUI) onFilesDropped(_ fyne.Position, uris []fyne.URI) {
	if ui.session.IsConverting() {
		ui.showWarning(ui.localization.GetText(KeyBusy))
		return
	}

	paths := make([]string, 0, len(uris))
	for _, uri := range uris {
		if uri.Scheme() != "file" {
			continue
		}
		paths = append(paths, uri.Path())
	}
	ui.importPaths(paths)
}

// importPaths replaces the current batch, reporting validation errors
func (ui *RootUI) importPaths(paths []string) {
	files, err := ui.session.Import(paths)
	if err != nil {
		ui.logger.Warn().Err(err).Int("count", len(paths)).Msg("import rejected")
		ui.showWarning(ui.importErrorText(err))
		return
	}

	ui.detailsMu.Lock()
	ui.details = make(map[string]string, len(files))
	ui.detailsMu.Unlock()

	ui.hideNotification()
	ui.refreshFiles()
}

// importErrorText maps import validation errors to user-facing text
func (ui *RootUI) importErrorText(err error) string {
	switch {
	case errors.Is(err, session.ErrNoFiles):
		return ui.localization.GetText(KeyNoFilesSelected)
	case errors.Is(err, session.ErrTooManyFiles):
		return ui.localization.GetText(KeyTooManyFiles)
	case errors.Is(err, session.ErrUnsupportedInput):
		// The error names the offending file after the sentinel text
		name := strings.TrimPrefix(err.Error(), session.ErrUnsupportedInput.Error()+": ")
		return ui.localization.GetText(KeyUnsupportedFile) + ": " + name
	default:
		return err.Error()
	}
}

// onTargetChanged stores the output format picked in a row
func (ui *RootUI) onTargetChanged(fileID, target string) {
	if err := ui.session.SetTarget(fileID, target); err != nil {
		ui.logger.Warn().Err(err).Str("target", target).Msg("target rejected")
		ui.showWarning(err.Error())
		ui.refreshFiles()
	}
}

// onConvertClick converts every targeted file off the UI goroutine
func (ui *RootUI) onConvertClick() {
	ui.convertBtn.Disable()
	ui.importBtn.Disable()
	ui.showNotification(ui.localization.GetText(KeyConverting), true)

	go func() {
		result, err := ui.session.ConvertAll(ui.ctx)
		fyne.Do(func() {
			ui.onConvertDone(result, err)
		})
	}()
}

// onConvertDone reports the batch outcome. Runs on the UI goroutine.
func (ui *RootUI) onConvertDone(result batch.Result, err error) {
	ui.refreshFiles()

	switch {
	case errors.Is(err, session.ErrNoTargets):
		ui.hideNotification()
		ui.showWarning(ui.localization.GetText(KeySelectFormatFirst))
		return
	case errors.Is(err, session.ErrBusy):
		ui.showWarning(ui.localization.GetText(KeyBusy))
		return
	case errors.Is(err, context.Canceled):
		ui.hideNotification()
		return
	case err != nil:
		ui.hideNotification()
		dialog.ShowError(err, ui.window)
		return
	}

	if len(result.Failures) > 0 {
		lines := make([]string, 0, len(result.Failures))
		for _, failure := range result.Failures {
			lines = append(lines, fmt.Sprintf(ui.localization.GetText(KeyConversionFailed), failure.File.Name())+": "+errorCause(failure.Err))
		}
		dialog.ShowError(errors.New(strings.Join(lines, "\n")), ui.window)
	}

	if result.Converted == 0 {
		ui.hideNotification()
		if len(result.Failures) == 0 {
			ui.showWarning(ui.localization.GetText(KeyNoFilesConverted))
		}
		return
	}
	ui.showNotification(fmt.Sprintf(ui.localization.GetText(KeyConvertedCount), result.Converted), false)
}

// onConversionFailure updates the notification panel as failures arrive
func (ui *RootUI) onConversionFailure(file *model.ImportedFile, _ error) {
	ui.showNotification(fmt.Sprintf(ui.localization.GetText(KeyConversionFailed), file.Name()), true)
}

// errorCause strips the conversion wrapper so the dialog does not repeat the file name
func errorCause(err error) string {
	var convErr *convert.Error
	if errors.As(err, &convErr) && convErr.Err != nil {
		return convErr.Err.Error()
	}
	return err.Error()
}

// exportDirectory returns the configured export folder, creating it if needed
func (ui *RootUI) exportDirectory() (string, error) {
	dir := ui.settings.GetExportDirectory()
	if err := platform.CreateDirectoryIfNotExists(dir); err != nil {
		return "", err
	}
	return dir, nil
}

// onOpenFile previews the converted artifact in the system's default application
func (ui *RootUI) onOpenFile(fileID string) {
	artifact, err := ui.session.Artifact(fileID)
	if err != nil {
		if errors.Is(err, session.ErrNotConverted) {
			ui.showWarning(ui.localization.GetText(KeyConvertFirst))
			return
		}
		ui.logger.Warn().Err(err).Str("file_id", fileID).Msg("cannot resolve artifact")
		return
	}

	name := fileID
	if file, ok := ui.session.File(fileID); ok {
		name = file.Name()
	}
	if err := platform.OpenFileWithDefaultApp(artifact); err != nil {
		ui.logger.Warn().Err(err).Str("file", name).Msg("cannot open artifact")
		ui.showWarning(ui.localization.GetText(KeyErrorOpeningFile) + ": " + name)
	}
}

// onDownloadFile exports a single converted file
func (ui *RootUI) onDownloadFile(fileID string) {
	dir, err := ui.exportDirectory()
	if err != nil {
		ui.showDownloadError(err)
		return
	}

	dest, err := ui.session.Download(fileID, dir)
	if err != nil {
		if errors.Is(err, session.ErrNotConverted) {
			ui.showWarning(ui.localization.GetText(KeyConvertFirst))
			return
		}
		ui.showDownloadError(err)
		return
	}

	ui.logger.Info().Str("path", dest).Msg("file downloaded")
	ui.showNotification(fmt.Sprintf(ui.localization.GetText(KeyDownloadedTo), dest), false)
	if ui.settings.GetRevealAfterDownload() {
		ui.onRevealFile(dest)
	}
}

// onDownloadAllClick exports every converted file
func (ui *RootUI) onDownloadAllClick() {
	dir, err := ui.exportDirectory()
	if err != nil {
		ui.showDownloadError(err)
		return
	}

	exported, err := ui.session.DownloadAll(dir)
	if errors.Is(err, session.ErrNotConverted) {
		ui.showWarning(ui.localization.GetText(KeyConvertFirst))
		return
	}
	if err != nil {
		ui.showDownloadError(err)
	}
	if len(exported) == 0 {
		return
	}

	ui.logger.Info().Int("count", len(exported)).Str("dir", dir).Msg("files downloaded")
	ui.showNotification(fmt.Sprintf(ui.localization.GetText(KeyDownloadedTo), dir), false)
	if ui.settings.GetRevealAfterDownload() {
		ui.onRevealFile(exported[0])
	}
}

// onDeleteFile removes a file from the batch
func (ui *RootUI) onDeleteFile(fileID string) {
	if err := ui.session.Remove(fileID); err != nil {
		ui.logger.Warn().Err(err).Msg("cannot remove file")
	}
	ui.refreshFiles()
}

// onClearAllClick asks before dropping every file
func (ui *RootUI) onClearAllClick() {
	dialog.ShowConfirm(
		ui.localization.GetText(KeyClearAll),
		ui.localization.GetText(KeyConfirmClearAll),
		func(confirmed bool) {
			if !confirmed {
				return
			}
			ui.session.ClearAll()
			ui.hideNotification()
			ui.refreshFiles()
		},
		ui.window,
	)
}

// onRevealFile shows a file in the system file manager
func (ui *RootUI) onRevealFile(filePath string) {
	if err := platform.OpenFileInManager(filePath); err != nil {
		ui.logger.Warn().Err(err).Str("path", filePath).Msg("cannot reveal file")
		ui.showWarning(ui.localization.GetText(KeyErrorOpeningFile) + ": " + err.Error())
	}
}

// onShowSettings shows the settings dialog
func (ui *RootUI) onShowSettings() {
	ShowSettingsDialog(ui.window, ui.settings, ui.localization, ui.onSettingsSaved)
}

// onSettingsSaved applies the settings that take effect immediately
func (ui *RootUI) onSettingsSaved() {
	ui.app.Settings().SetTheme(NewCompactTheme(ui.settings.GetTheme()))

	if lang := ui.settings.GetLanguage(); lang != ui.localization.GetCurrentLanguage() {
		ui.localization.SetLanguage(lang)
		ui.refreshUITexts()
		ui.createMenu()
	}
	ui.showNotification(ui.localization.GetText(KeySettingsSaved), false)
}

// showNotification displays a message in the notification panel under the toolbar.
// When spinning is true, a spinner is shown to indicate background activity.
func (ui *RootUI) showNotification(message string, spinning bool) {
	if ui.notificationLabel == nil || ui.notificationContainer == nil || ui.notificationSpinner == nil {
		return
	}
	fyne.Do(func() {
		ui.notificationLabel.SetText(message)
		if spinning {
			ui.notificationSpinner.Show()
		} else {
			ui.notificationSpinner.Hide()
		}
		ui.notificationContainer.Show()
		ui.notificationContainer.Refresh()
	})
}

// hideNotification hides the notification panel.
func (ui *RootUI) hideNotification() {
	if ui.notificationContainer == nil || ui.notificationSpinner == nil {
		return
	}
	fyne.Do(func() {
		ui.notificationSpinner.Hide()
		ui.notificationContainer.Hide()
	})
}

func (ui *RootUI) showWarning(message string) {
	dialog.ShowInformation(ui.localization.GetText(KeyWarning), message, ui.window)
}

func (ui *RootUI) showDownloadError(err error) {
	ui.logger.Error().Err(err).Msg("download failed")
	dialog.ShowError(errors.Errorf("%s: %w", ui.localization.GetText(KeyDownloadFailed), err), ui.window)
}

// supportedFilterExtensions lists every importable extension for the file picker
func supportedFilterExtensions() []string {
	var exts []string
	exts = append(exts, format.ImageExtensions...)
	exts = append(exts, format.TextExtensions...)
	exts = append(exts, format.InertExtensions...)
	return exts
}
