package platform

import (
	"os"
	"os/exec"
	"runtime"

	"gitlab.com/tozd/go/errors"
)

// ErrOfficeNotFound is returned when no office suite binary can be located
var ErrOfficeNotFound = errors.New("office suite not found")

// Office suite executables, in lookup order
var officeCommands = []string{"soffice", "libreoffice"}

// officeInstallPaths are checked when nothing is on PATH
var officeInstallPaths = map[string][]string{
	OSDarwin: {
		"/Applications/LibreOffice.app/Contents/MacOS/soffice",
	},
	OSWindows: {
		`C:\Program Files\LibreOffice\program\soffice.exe`,
		`C:\Program Files (x86)\LibreOffice\program\soffice.exe`,
	},
	OSLinux: {
		"/usr/bin/soffice",
		"/usr/local/bin/soffice",
		"/opt/libreoffice/program/soffice",
		"/snap/bin/libreoffice",
	},
}

// FindOfficeBinary returns the office suite executable. A non-empty configured
// path wins when it exists.
func FindOfficeBinary(configured string) (string, error) {
	if configured != "" {
		if info, err := os.Stat(configured); err == nil && !info.IsDir() {
			return configured, nil
		}
		if path, err := exec.LookPath(configured); err == nil {
			return path, nil
		}
		return "", ErrOfficeNotFound
	}

	for _, name := range officeCommands {
		if path, err := exec.LookPath(name); err == nil {
			return path, nil
		}
	}
	for _, path := range officeInstallPaths[runtime.GOOS] {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", ErrOfficeNotFound
}
