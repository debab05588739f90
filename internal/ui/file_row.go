package ui

import (
	"image/color"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/file-converter/internal/format"
	"github.com/ytget/file-converter/internal/model"
)

// FileRow represents one imported file in the list
type FileRow struct {
	widget.BaseWidget

	file         *model.ImportedFile
	details      string
	localization *Localization

	// set while the row is being refilled so the select does not echo
	// programmatic changes back to the session
	updating bool

	// UI components
	titleLabel   *widget.Label
	detailsLabel *widget.Label
	statusLabel  *widget.Label
	targetSelect *widget.Select

	// Action buttons
	openBtn     *widget.Button
	downloadBtn *widget.Button
	deleteBtn   *widget.Button

	// Callbacks
	onTargetChanged func(fileID, target string)
	onOpen          func(fileID string)
	onDownload      func(fileID string)
	onDelete        func(fileID string)
}

// NewFileRow creates a new file row widget
func NewFileRow(localization *Localization) *FileRow {
	fr := &FileRow{localization: localization}
	fr.ExtendBaseWidget(fr)
	fr.createUI()
	return fr
}

// SetCallbacks sets the action callbacks
func (fr *FileRow) SetCallbacks(
	onTargetChanged func(fileID, target string),
	onOpen func(fileID string),
	onDownload func(fileID string),
	onDelete func(fileID string),
) {
	fr.onTargetChanged = onTargetChanged
	fr.onOpen = onOpen
	fr.onDownload = onDownload
	fr.onDelete = onDelete
}

// UpdateFile fills the row with file data. details is the precomputed
// size/dimension summary.
func (fr *FileRow) UpdateFile(file *model.ImportedFile, details string) {
	if file == nil {
		return
	}
	fr.file = file
	fr.details = details
	fr.updateFromFile()
	fr.Refresh()
}

// FileID returns the ID of the file shown by the row
func (fr *FileRow) FileID() string {
	if fr.file == nil {
		return ""
	}
	return fr.file.ID
}

// createUI creates the UI components
func (fr *FileRow) createUI() {
	fr.titleLabel = widget.NewLabel("")
	fr.titleLabel.TextStyle = fyne.TextStyle{Bold: true}
	fr.titleLabel.Truncation = fyne.TextTruncateEllipsis

	fr.detailsLabel = widget.NewLabel("")
	fr.detailsLabel.Importance = widget.LowImportance
	fr.detailsLabel.Truncation = fyne.TextTruncateEllipsis

	fr.statusLabel = widget.NewLabel("")
	fr.statusLabel.Alignment = fyne.TextAlignTrailing

	fr.targetSelect = widget.NewSelect(nil, fr.onSelectChanged)

	fr.openBtn = widget.NewButtonWithIcon(fr.localization.GetText(KeyOpen), theme.VisibilityIcon(), func() {
		if fr.file != nil && fr.onOpen != nil {
			fr.onOpen(fr.file.ID)
		}
	})
	fr.downloadBtn = widget.NewButtonWithIcon(fr.localization.GetText(KeyDownload), theme.DownloadIcon(), func() {
		if fr.file != nil && fr.onDownload != nil {
			fr.onDownload(fr.file.ID)
		}
	})
	fr.deleteBtn = widget.NewButtonWithIcon("", theme.DeleteIcon(), func() {
		if fr.file != nil && fr.onDelete != nil {
			fr.onDelete(fr.file.ID)
		}
	})
	fr.deleteBtn.Importance = widget.DangerImportance
}

func (fr *FileRow) onSelectChanged(selected string) {
	if fr.updating || fr.file == nil || fr.onTargetChanged == nil {
		return
	}
	fr.onTargetChanged(fr.file.ID, selected)
}

// updateFromFile copies file state into the widgets
func (fr *FileRow) updateFromFile() {
	fr.updating = true
	defer func() { fr.updating = false }()

	fr.titleLabel.SetText(sanitizeTitle(fr.file.GetDisplayTitle()))
	fr.detailsLabel.SetText(fr.details)

	options := format.TargetOptions(fr.file.Extension())
	fr.targetSelect.Options = options
	if len(options) == 0 {
		fr.targetSelect.PlaceHolder = fr.localization.GetText(KeyNoConversions)
		fr.targetSelect.ClearSelected()
		fr.targetSelect.Disable()
	} else {
		fr.targetSelect.PlaceHolder = fr.localization.GetText(KeySelectFormat)
		fr.targetSelect.Enable()
		if fr.file.TargetExtension == "" {
			fr.targetSelect.ClearSelected()
		} else {
			fr.targetSelect.SetSelected(fr.file.TargetExtension)
		}
	}

	fr.statusLabel.SetText(fr.statusText())
	fr.openBtn.SetText(fr.localization.GetText(KeyOpen))
	fr.downloadBtn.SetText(fr.localization.GetText(KeyDownload))
	fr.updateButtons()
}

// statusText returns the localized status shown on the right side
func (fr *FileRow) statusText() string {
	switch {
	case fr.file.Status == model.FileStatusConverted:
		return fr.localization.GetText(KeyStatusConverted)
	case fr.file.LastError != "":
		return fr.localization.GetText(KeyStatusFailed)
	case fr.file.TargetExtension == "":
		return DashPlaceholder
	default:
		return fr.localization.GetText(KeyStatusNotConverted)
	}
}

// updateButtons enables Open and Download only for files with a live artifact
func (fr *FileRow) updateButtons() {
	if fr.file.Status.IsDownloadable() {
		fr.openBtn.Enable()
		fr.downloadBtn.Enable()
		fr.downloadBtn.Importance = widget.HighImportance
	} else {
		fr.openBtn.Disable()
		fr.downloadBtn.Disable()
		fr.downloadBtn.Importance = widget.MediumImportance
	}
}

func sanitizeTitle(title string) string {
	return strings.TrimSpace(strings.NewReplacer("\n", " ", "\r", " ", "\t", " ").Replace(title))
}

// CreateRenderer creates the widget renderer
func (fr *FileRow) CreateRenderer() fyne.WidgetRenderer {
	return &fileRowRenderer{fileRow: fr}
}

// fileRowRenderer renders the file row widget
type fileRowRenderer struct {
	fileRow *FileRow
	layout  *fyne.Container
}

// Layout arranges the components
func (r *fileRowRenderer) Layout(size fyne.Size) {
	if r.layout == nil {
		r.createLayout()
	}
	if size.Width < RowMinWidth {
		size.Width = RowMinWidth
	}
	if size.Height < RowMinHeight {
		size.Height = RowMinHeight
	}
	r.layout.Resize(size)
}

// MinSize returns the minimum size
func (r *fileRowRenderer) MinSize() fyne.Size {
	if r.layout == nil {
		r.createLayout()
	}
	minSize := r.layout.MinSize()
	return fyne.NewSize(max(minSize.Width, RowMinWidth), max(minSize.Height, RowMinHeight))
}

// Refresh refreshes the renderer
func (r *fileRowRenderer) Refresh() {
	if r.layout == nil {
		r.createLayout()
	}
	r.layout.Refresh()
}

// Objects returns the container objects
func (r *fileRowRenderer) Objects() []fyne.CanvasObject {
	if r.layout == nil {
		r.createLayout()
	}
	return []fyne.CanvasObject{r.layout}
}

// Destroy cleans up the renderer
func (r *fileRowRenderer) Destroy() {}

// createLayout creates the main layout
func (r *fileRowRenderer) createLayout() {
	fr := r.fileRow

	// Helper to fix width using a transparent rectangle underneath
	fixedWidth := func(w float32, obj fyne.CanvasObject) fyne.CanvasObject {
		spacer := canvas.NewRectangle(color.RGBA{0, 0, 0, 0})
		spacer.SetMinSize(fyne.NewSize(w, obj.MinSize().Height))
		return container.NewStack(spacer, obj)
	}

	// Left: title above the size/dimension summary
	leftSide := container.NewVBox(fr.titleLabel, fr.detailsLabel)

	// Right: target choice, status, then actions pinned to the edge
	rightSide := container.NewHBox(
		container.NewCenter(fixedWidth(TargetSelectWidth, fr.targetSelect)),
		container.NewCenter(fixedWidth(StatusLabelWidth, fr.statusLabel)),
		container.NewCenter(fr.openBtn),
		container.NewCenter(fr.downloadBtn),
		container.NewCenter(fr.deleteBtn),
	)

	r.layout = container.NewBorder(nil, widget.NewSeparator(), nil, rightSide, leftSide)
}
