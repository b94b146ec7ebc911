// CaseForge viewer: the furniture schematic and quote of a configuration.
//
// Build:
//   go build -o caseforge-view ./cmd/caseforge-view
//
// Using fyne-cross (recommended for proper packaging):
//   go install github.com/fyne-io/fyne-cross@latest
//   fyne-cross windows -arch=amd64
//   fyne-cross darwin  -arch=amd64,arm64

package main

import (
	"log/slog"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"

	"github.com/piwi3910/CaseForge/internal/ui"
)

func main() {
	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	application := app.NewWithID("com.piwi3910.caseforge")
	window := application.NewWindow("CaseForge")

	appUI := ui.NewApp(application, window, log)
	appUI.SetupMenus()
	window.SetContent(appUI.Build())
	window.Resize(fyne.NewSize(1200, 760))
	window.CenterOnScreen()

	if len(os.Args) > 1 {
		appUI.Open(os.Args[1])
	}
	window.ShowAndRun()
}
