package ui

import (
	_ "embed"

	"fyne.io/fyne/v2"
)

const (
	AppIcon = "file-converter.png"
)

//go:embed assets/file-converter.png
var appIconPNG []byte

// AppIconResource returns the application icon bundled into the binary
func AppIconResource() fyne.Resource {
	return fyne.NewStaticResource(AppIcon, appIconPNG)
}
