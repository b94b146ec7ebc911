package ui

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/CaseForge/internal/export"
	"github.com/piwi3910/CaseForge/internal/model"
	"github.com/piwi3910/CaseForge/internal/pricing"
	"github.com/piwi3910/CaseForge/internal/project"
	"github.com/piwi3910/CaseForge/internal/session"
	"github.com/piwi3910/CaseForge/internal/ui/widgets"
)

// App holds all application state and UI references.
type App struct {
	app    fyne.App
	window fyne.Window
	log    *slog.Logger

	config        model.AppConfig
	rates         pricing.RateTable
	inventory     model.Inventory
	inventoryPath string
	editor        *session.Editor

	// UI references for dynamic updates
	schematic *widgets.Schematic
	shapes    []export.Shape
	selected  string
	panelList *widget.List
	quoteBox  *fyne.Container
	status    *widget.Label
	widthE    *widget.Entry
	heightE   *widget.Entry
	depthE    *widget.Entry
	material  *widget.Select
}

// NewApp loads the user's preferences, rates and materials. Missing files
// fall back to defaults; unreadable ones are logged and replaced by defaults.
func NewApp(application fyne.App, window fyne.Window, log *slog.Logger) *App {
	a := &App{app: application, window: window, log: log}

	cfg, err := project.LoadAppConfig(project.DefaultConfigPath())
	if err != nil {
		log.Warn("using default preferences", "error", err)
		cfg = model.DefaultAppConfig()
	}
	a.config = cfg

	inv, path, err := project.LoadOrCreateInventory()
	if err != nil {
		log.Warn("using default materials", "error", err)
		inv = model.DefaultInventory()
	}
	a.inventory, a.inventoryPath = inv, path

	rates, err := project.LoadRates(project.DefaultRatesPath())
	if err != nil {
		log.Warn("using default rates", "error", err)
		rates = pricing.DefaultRateTable()
	}
	a.rates = rates.WithInventory(a.inventory)

	a.applyTheme()
	return a
}

// SetupMenus creates the native menu bar for the application.
func (a *App) SetupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("New Configuration", a.newConfiguration),
		fyne.NewMenuItem("Open...", a.openDialog),
		fyne.NewMenuItem("Save", a.save),
		fyne.NewMenuItem("Save As...", a.saveAs),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export PDF...", func() { a.exportTo("PDF", ".pdf", export.ExportPDF) }),
		fyne.NewMenuItem("Export Labels...", func() { a.exportTo("labels", "-labels.pdf", export.ExportLabels) }),
		fyne.NewMenuItem("Export Bill of Materials...", func() { a.exportTo("bill of materials", ".xlsx", export.ExportBOM) }),
		fyne.NewMenuItem("Export DXF...", func() { a.exportTo("DXF", ".dxf", export.ExportDXF) }),
		fyne.NewMenuItem("Export SVG...", func() { a.exportTo("SVG", ".svg", export.ExportSVG) }),
	)
	a.addRecentItems(fileMenu)

	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Undo", a.undo),
		fyne.NewMenuItem("Redo", a.redo),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Restore All Panels", a.restoreAll),
	)

	toolsMenu := fyne.NewMenu("Tools",
		fyne.NewMenuItem("Materials...", a.showMaterialsDialog),
		fyne.NewMenuItem("Settings...", a.showSettingsDialog),
		fyne.NewMenuItem("Import / Export Data...", a.showImportExportDialog),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", a.showAboutDialog),
	)

	a.window.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu, toolsMenu, helpMenu))

	a.window.Canvas().AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyZ, Modifier: fyne.KeyModifierShortcutDefault},
		func(fyne.Shortcut) { a.undo() })
	a.window.Canvas().AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyY, Modifier: fyne.KeyModifierShortcutDefault},
		func(fyne.Shortcut) { a.redo() })
	a.window.Canvas().AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyS, Modifier: fyne.KeyModifierShortcutDefault},
		func(fyne.Shortcut) { a.save() })
}

func (a *App) addRecentItems(menu *fyne.Menu) {
	if len(a.config.RecentConfigurations) == 0 {
		return
	}
	menu.Items = append(menu.Items, fyne.NewMenuItemSeparator())
	for _, p := range a.config.RecentConfigurations {
		path := p
		menu.Items = append(menu.Items, fyne.NewMenuItem(filepath.Base(path), func() { a.Open(path) }))
	}
}

func (a *App) showAboutDialog() {
	dialog.ShowInformation(
		"About CaseForge",
		"CaseForge: modular furniture configurator\n\n"+
			"Splits a cabinet into zones, derives the panels to cut\n"+
			"and prices the result.\n\n"+
			"Version 1.0.0",
		a.window,
	)
}

// Build constructs the full UI and returns the root container.
func (a *App) Build() fyne.CanvasObject {
	a.schematic = widgets.NewSchematic(export.Scene{}, 800, 560)
	a.schematic.OnPanelTapped = func(id string) {
		a.selectPanel(id)
		a.editor.TogglePanel(id)
	}

	a.panelList = widget.NewList(
		func() int { return len(a.shapes) },
		func() fyne.CanvasObject { return widget.NewLabel("panel-sep-v0-s0 (separator)") },
		func(i widget.ListItemID, o fyne.CanvasObject) {
			s := a.shapes[i]
			text := fmt.Sprintf("%s (%s)", s.SegmentID, s.Kind)
			if s.Deleted {
				text += " removed"
			}
			o.(*widget.Label).SetText(text)
		},
	)
	a.panelList.OnSelected = func(i widget.ListItemID) {
		if i < len(a.shapes) {
			a.selectPanel(a.shapes[i].SegmentID)
		}
	}
	toggle := widget.NewButton("Remove / Restore", func() {
		if a.selected != "" {
			a.editor.TogglePanel(a.selected)
		}
	})

	a.quoteBox = container.NewVBox()
	a.status = widget.NewLabel("")

	toolbar := container.NewHBox(
		newIconButtonWithTooltip(theme.DocumentSaveIcon(), "Save", a.save),
		newIconButtonWithTooltip(theme.ContentUndoIcon(), "Undo", a.undo),
		newIconButtonWithTooltip(theme.ContentRedoIcon(), "Redo", a.redo),
		newIconButtonWithTooltip(theme.DocumentPrintIcon(), "Export PDF", func() { a.exportTo("PDF", ".pdf", export.ExportPDF) }),
		widget.NewSeparator(),
		a.buildDimensionsForm(),
		widget.NewSeparator(),
		a.buildMaterialSelect(),
	)

	side := container.NewVSplit(
		container.NewBorder(widget.NewLabelWithStyle("Quote", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}), nil, nil, nil,
			container.NewVScroll(a.quoteBox)),
		container.NewBorder(widget.NewLabelWithStyle("Panels", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}), toggle, nil, nil,
			a.panelList),
	)
	split := container.NewHSplit(container.NewScroll(a.schematic), side)
	split.Offset = 0.68

	if a.editor == nil {
		a.newConfiguration()
	}
	return container.NewBorder(toolbar, a.status, nil, nil, split)
}

func (a *App) buildDimensionsForm() fyne.CanvasObject {
	a.widthE, a.heightE, a.depthE = widget.NewEntry(), widget.NewEntry(), widget.NewEntry()
	apply := widget.NewButton("Resize", func() {
		d, err := parseDimensions(a.widthE.Text, a.heightE.Text, a.depthE.Text)
		if err == nil {
			err = a.editor.SetDimensions(d)
		}
		if err != nil {
			dialog.ShowError(err, a.window)
		}
	})
	return container.NewHBox(
		widget.NewLabel("W"), a.widthE,
		widget.NewLabel("H"), a.heightE,
		widget.NewLabel("D"), a.depthE,
		apply,
	)
}

func (a *App) buildMaterialSelect() fyne.CanvasObject {
	a.material = widget.NewSelect(a.inventory.Names(), func(name string) {
		if a.editor == nil {
			return
		}
		m := a.editor.Configuration().MaterialSelection
		m.Structure = name
		a.editor.SetMaterials(m)
	})
	a.material.PlaceHolder = "Material"
	return container.NewHBox(widget.NewLabel("Material"), a.material)
}

// ─── Session ───────────────────────────────────────────────

func (a *App) newConfiguration() {
	cfg := a.config.NewConfiguration("Untitled")
	a.attach(&cfg, "")
}

// Open loads a configuration file into the window.
func (a *App) Open(path string) {
	cfg, err := project.LoadConfiguration(path)
	if err != nil {
		dialog.ShowError(err, a.window)
		return
	}
	a.attach(cfg, path)
	a.config.AddRecent(path)
	if err := a.saveConfig(); err != nil {
		a.log.Warn("could not record recent configuration", "error", err)
	}
}

func (a *App) attach(cfg *model.Configuration, path string) {
	if a.editor != nil {
		a.editor.Close()
	}
	ed, err := session.New(cfg, session.Options{
		App:    &a.config,
		Rates:  &a.rates,
		Logger: a.log,
		Path:   path,
		OnChange: func(res session.Result) {
			fyne.Do(func() { a.refresh(res) })
		},
	})
	if err != nil {
		dialog.ShowError(err, a.window)
		return
	}
	a.editor = ed
	a.selected = ""
	a.setDimensionEntries(cfg.Dimensions)
	a.refresh(a.editor.Recompute())
}

func (a *App) setDimensionEntries(d model.Dimensions) {
	if a.widthE == nil {
		return
	}
	a.widthE.SetText(fmt.Sprintf("%.0f", d.Width))
	a.heightE.SetText(fmt.Sprintf("%.0f", d.Height))
	a.depthE.SetText(fmt.Sprintf("%.0f", d.Depth))
}

// refresh redraws everything from one recompute. It runs on the UI goroutine.
func (a *App) refresh(res session.Result) {
	if a.schematic == nil {
		return
	}
	cfg := a.editor.Configuration()
	a.window.SetTitle(a.title(cfg))
	a.setDimensionEntries(cfg.Dimensions)
	if a.material != nil && a.material.Selected != cfg.MaterialSelection.Structure {
		a.material.SetSelected(cfg.MaterialSelection.Structure)
	}

	if res.Err != nil {
		a.status.SetText("Error: " + res.Err.Error())
		return
	}
	scene := export.BuildScene(res.Layout, cfg.Tree(), cfg.Deletions())
	a.shapes = scene.Shapes
	a.schematic.SetScene(scene)
	a.panelList.Refresh()
	a.refreshQuote(res)

	msg := fmt.Sprintf("%d panels, %d removed", len(scene.Shapes), cfg.Deletions().Len())
	if n := len(res.Issues); n > 0 {
		msg += fmt.Sprintf(" | %d zone tree repairs", n)
	}
	if n := len(res.Pruned); n > 0 {
		msg += fmt.Sprintf(" | %d stale removals dropped", n)
	}
	a.status.SetText(msg)
}

func (a *App) refreshQuote(res session.Result) {
	a.quoteBox.RemoveAll()
	if res.Quote == nil {
		a.quoteBox.Add(widget.NewLabel("No quote."))
		return
	}
	doc, err := a.editor.Document()
	if err != nil {
		a.quoteBox.Add(widget.NewLabel(err.Error()))
		return
	}
	format := func(v float64) string {
		if doc.Money != nil {
			return doc.Money.Format(v)
		}
		return fmt.Sprintf("%.2f %s", v, res.Quote.Currency)
	}

	b := res.Quote.Breakdown
	rows := []struct {
		name string
		v    float64
	}{
		{"Casing", b.Casing},
		{"Back", b.Back},
		{"Socle", b.Socle},
		{"Separators", b.Separators},
		{"Doors", b.Doors},
		{"Equipment", b.Equipment},
	}
	form := widget.NewForm()
	for _, r := range rows {
		form.Append(r.name, widget.NewLabel(format(r.v)))
	}
	total := widget.NewLabelWithStyle(format(res.Quote.Total), fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	form.Append("Total", total)
	a.quoteBox.Add(form)

	if n := len(res.Quote.Anomalies); n > 0 {
		warning := widget.NewLabel(fmt.Sprintf("WARNING: %d amounts could not be computed and were priced as zero.", n))
		warning.Importance = widget.DangerImportance
		a.quoteBox.Add(warning)
	}
	a.quoteBox.Refresh()
}

func (a *App) title(cfg model.Configuration) string {
	t := "CaseForge: " + cfg.Name
	if a.editor.Dirty() {
		t += " *"
	}
	return t
}

func (a *App) selectPanel(id string) {
	a.selected = id
	a.schematic.Select(id)
}

// ─── Actions ───────────────────────────────────────────────

func (a *App) undo() {
	if !a.editor.Undo() {
		a.status.SetText("Nothing to undo")
	}
}

func (a *App) redo() {
	if !a.editor.Redo() {
		a.status.SetText("Nothing to redo")
	}
}

func (a *App) restoreAll() {
	if a.editor.RestoreAll() == 0 {
		a.status.SetText("No removed panels")
	}
}

func (a *App) save() {
	if a.editor.Path() == "" {
		a.saveAs()
		return
	}
	if err := a.editor.Save(""); err != nil {
		dialog.ShowError(err, a.window)
		return
	}
	a.window.SetTitle(a.title(a.editor.Configuration()))
}

func (a *App) saveAs() {
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		defer writer.Close()
		path := writer.URI().Path()
		if err := a.editor.Save(path); err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		a.config.AddRecent(path)
		if err := a.saveConfig(); err != nil {
			a.log.Warn("could not record recent configuration", "error", err)
		}
		a.window.SetTitle(a.title(a.editor.Configuration()))
	}, a.window)
	d.SetFileName(fileStem(a.editor.Configuration().Name) + project.FileExtension)
	d.Show()
}

func (a *App) openDialog() {
	d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()
		a.Open(reader.URI().Path())
	}, a.window)
	d.Show()
}

// exportTo asks for a file name and writes the current document with fn.
func (a *App) exportTo(what, suffix string, fn func(string, export.Document) error) {
	a.editor.Flush()
	doc, err := a.editor.Document()
	if err != nil {
		dialog.ShowError(err, a.window)
		return
	}
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		path := writer.URI().Path()
		// The exporters write the file themselves.
		writer.Close()
		if err := fn(path, doc); err != nil {
			dialog.ShowError(fmt.Errorf("failed to export %s: %w", what, err), a.window)
			return
		}
		a.log.Info("exported", "format", what, "path", path)
		dialog.ShowInformation("Export Complete", fmt.Sprintf("%s saved to %s", strings.ToUpper(what[:1])+what[1:], path), a.window)
	}, a.window)
	d.SetFileName(fileStem(doc.Name) + suffix)
	d.Show()
}

// fileStem turns a configuration name into a file name.
func fileStem(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "configuration"
	}
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', ' ':
			return '-'
		}
		return r
	}, name)
}
