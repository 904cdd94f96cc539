package qup

import (
	"errors"

	"github.com/gookit/color"
)

// Global variables
var (
	Debug   bool
	version = "dev" // overridden at build time
)

// Error kinds surfaced to the CLI edge. Wrapped with context at the point of
// failure; classified with errors.Is.
var (
	errPermissionDenied = errors.New("permission denied")
	errRecipeRead       = errors.New("could not read PKGBUILD")
	errRecipeWrite      = errors.New("could not write to PKGBUILD")
	errBuildFailed      = errors.New("build failed")
	errInstallFailed    = errors.New("install failed")
	errRestartFailed    = errors.New("restart failed")
	errNoPackage        = errors.New("no built package found")
)

// color helpers
var (
	colInfo    = color.Info // style provided by gookit/color
	colWarn    = color.Warn
	colError   = color.Error
	colSuccess = color.HEX("#1976D2")
	colArrow   = color.HEX("#FFEB3B")
	colNote    = color.Tag("notice")
)
