package main

import (
	"fmt"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"

	"github.com/ytget/file-converter/internal/config"
	"github.com/ytget/file-converter/internal/convert"
	"github.com/ytget/file-converter/internal/logging"
	"github.com/ytget/file-converter/internal/platform"
	"github.com/ytget/file-converter/internal/scratch"
	"github.com/ytget/file-converter/internal/session"
	"github.com/ytget/file-converter/internal/ui"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

const (
	AppID   = "com.ytget.file-converter"
	AppName = "File Converter"

	WindowWidth  = 900
	WindowHeight = 600

	scratchPrefix = "file-converter-"
)

func main() {
	// Create new Fyne app
	myApp := app.NewWithID(AppID)
	myApp.SetIcon(ui.AppIconResource())
	settings := config.NewSettings(myApp)

	logger := logging.New(os.Stderr, logging.ParseLevel(settings.GetLogLevel()))
	logger.Info().Str("version", version).Msg("File Converter starting")

	// Apply compact theme
	myApp.Settings().SetTheme(ui.NewCompactTheme(settings.GetTheme()))

	windowTitle := fmt.Sprintf("%s v%s", AppName, version)
	myWindow := myApp.NewWindow(windowTitle)
	myWindow.Resize(fyne.NewSize(WindowWidth, WindowHeight))
	myWindow.SetMaster()

	exportDir := settings.GetExportDirectory()
	if err := platform.CreateDirectoryIfNotExists(exportDir); err != nil {
		logger.Warn().Err(err).Str("dir", exportDir).Msg("failed to ensure export dir")
	}

	// Converted files live in a private scratch area until downloaded
	area, err := scratch.New(scratchPrefix, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot create scratch area")
	}

	converter := convert.NewService(area.Dir(), logger,
		convert.NewOfficeRenderer(settings.GetOfficeBinary(), logger),
		convert.NewFlowRenderer(),
	)
	sess := session.New(session.Options{
		Converter:  converter,
		Scratch:    area,
		Logger:     logger,
		Background: settings.GetBackgroundConversion(),
		Workers:    settings.GetMaxParallelConversions(),
	})

	// Create and setup UI
	rootUI := ui.NewRootUI(myWindow, myApp, sess, settings, logger)
	myWindow.SetCloseIntercept(func() {
		rootUI.Shutdown()
		myWindow.SetCloseIntercept(nil)
		myWindow.Close()
	})

	// Show and run
	myWindow.ShowAndRun()

	// Scratch files never outlive the process
	sess.Close()
	logger.Info().Msg("File Converter stopped")
}
