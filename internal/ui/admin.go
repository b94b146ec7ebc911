package ui

import (
	"fmt"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/CaseForge/internal/model"
	"github.com/piwi3910/CaseForge/internal/project"
)

// showSettingsDialog displays the application settings editor.
func (a *App) showSettingsDialog() {
	cfg := a.config

	// Helper to create a float entry bound to a pointer
	floatEntry := func(val *float64) *widget.Entry {
		e := widget.NewEntry()
		e.SetText(strconv.FormatFloat(*val, 'f', -1, 64))
		e.OnChanged = func(text string) {
			if v, err := strconv.ParseFloat(text, 64); err == nil {
				*val = v
			}
		}
		return e
	}

	intEntry := func(val *int) *widget.Entry {
		e := widget.NewEntry()
		e.SetText(fmt.Sprintf("%d", *val))
		e.OnChanged = func(text string) {
			if v, err := strconv.Atoi(text); err == nil {
				*val = v
			}
		}
		return e
	}

	textEntry := func(val *string) *widget.Entry {
		e := widget.NewEntry()
		e.SetText(*val)
		e.OnChanged = func(text string) { *val = strings.TrimSpace(text) }
		return e
	}

	themeSelect := widget.NewSelect([]string{"system", "light", "dark"}, func(selected string) {
		cfg.Theme = selected
	})
	themeSelect.SetSelected(cfg.Theme)

	materialSelect := widget.NewSelect(a.inventory.Names(), func(selected string) {
		cfg.DefaultMaterial = selected
	})
	materialSelect.SetSelected(cfg.DefaultMaterial)

	socleSelect := widget.NewSelect([]string{string(model.SocleNone), string(model.SocleMetalFeet), string(model.SocleWood)}, func(selected string) {
		cfg.DefaultSocle.Kind = model.SocleKind(selected)
	})
	socleSelect.SetSelected(string(cfg.DefaultSocle.Kind))

	formItems := []*widget.FormItem{
		widget.NewFormItem("Theme", themeSelect),
		widget.NewFormItem("Currency (ISO 4217)", textEntry(&cfg.Currency)),
		widget.NewFormItem("Language (BCP 47)", textEntry(&cfg.Language)),
		widget.NewFormItem("", widget.NewSeparator()),
		widget.NewFormItem("Default Width (mm)", floatEntry(&cfg.DefaultDimensions.Width)),
		widget.NewFormItem("Default Height (mm)", floatEntry(&cfg.DefaultDimensions.Height)),
		widget.NewFormItem("Default Depth (mm)", floatEntry(&cfg.DefaultDimensions.Depth)),
		widget.NewFormItem("Board Thickness (mm)", floatEntry(&cfg.DefaultThickness)),
		widget.NewFormItem("Back Thickness (mm)", floatEntry(&cfg.DefaultBackThickness)),
		widget.NewFormItem("Socle", socleSelect),
		widget.NewFormItem("Socle Height (mm)", floatEntry(&cfg.DefaultSocle.Height)),
		widget.NewFormItem("Structure Material", materialSelect),
		widget.NewFormItem("", widget.NewSeparator()),
		widget.NewFormItem("Stock Sheet Width (mm)", floatEntry(&cfg.Stock.Width)),
		widget.NewFormItem("Stock Sheet Height (mm)", floatEntry(&cfg.Stock.Height)),
		widget.NewFormItem("Saw Kerf (mm)", floatEntry(&cfg.Stock.Kerf)),
		widget.NewFormItem("Edge Trim (mm)", floatEntry(&cfg.Stock.EdgeTrim)),
		widget.NewFormItem("", widget.NewSeparator()),
		widget.NewFormItem("Tolerance (mm)", floatEntry(&cfg.Tolerance)),
		widget.NewFormItem("Recompute Delay (ms)", intEntry(&cfg.DebounceMS)),
		widget.NewFormItem("Undo Steps", intEntry(&cfg.HistoryDepth)),
		widget.NewFormItem("Cached Layouts", intEntry(&cfg.CacheSize)),
	}

	d := dialog.NewForm("Settings", "Save", "Cancel", formItems,
		func(ok bool) {
			if !ok {
				return
			}
			if err := cfg.DefaultDimensions.Validate(); err != nil {
				dialog.ShowError(fmt.Errorf("default dimensions: %w", err), a.window)
				return
			}
			a.config = cfg
			a.rates.Currency = cfg.Currency
			a.applyTheme()
			if err := a.saveConfig(); err != nil {
				dialog.ShowError(fmt.Errorf("failed to save settings: %w", err), a.window)
			} else {
				dialog.ShowInformation("Settings Saved", "Engine settings apply to the next configuration you open.", a.window)
			}
		},
		a.window,
	)
	d.Resize(fyne.NewSize(500, 650))
	d.Show()
}

// showImportExportDialog displays the import/export data dialog.
func (a *App) showImportExportDialog() {
	exportBtn := widget.NewButton("Export All Data...", func() {
		d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
			if err != nil || writer == nil {
				return
			}
			defer writer.Close()
			path := writer.URI().Path()
			templates, err := project.LoadDefaultTemplates()
			if err != nil {
				a.log.Warn("backup without templates", "error", err)
			}
			rates := a.rates
			backup := project.BackupData{
				Config:    a.config,
				Inventory: a.inventory,
				Templates: templates,
				Rates:     &rates,
			}
			if err := project.ExportAllData(path, backup); err != nil {
				dialog.ShowError(err, a.window)
			} else {
				dialog.ShowInformation("Export Complete",
					fmt.Sprintf("All application data exported to:\n%s", path), a.window)
			}
		}, a.window)
		d.SetFileName("caseforge-backup.json")
		d.Show()
	})

	importBtn := widget.NewButton("Import All Data...", func() {
		dialog.ShowConfirm("Import Data",
			"Importing data will replace your settings, materials, rates and templates.\n\nAre you sure you want to continue?",
			func(ok bool) {
				if !ok {
					return
				}
				d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
					if err != nil || reader == nil {
						return
					}
					defer reader.Close()
					backup, err := project.ImportAllData(reader.URI().Path())
					if err != nil {
						dialog.ShowError(err, a.window)
						return
					}
					if err := a.restoreBackup(backup); err != nil {
						dialog.ShowError(fmt.Errorf("failed to save imported data: %w", err), a.window)
						return
					}
					dialog.ShowInformation("Import Complete",
						fmt.Sprintf("Data imported successfully from backup created at %s.", backup.CreatedAt), a.window)
				}, a.window)
				d.Show()
			},
			a.window,
		)
	})

	content := container.NewVBox(
		widget.NewLabel("Export all application data (settings, materials, rates, templates)\nto a backup file, or import from a previously exported backup."),
		widget.NewSeparator(),
		exportBtn,
		widget.NewSeparator(),
		importBtn,
	)

	d := dialog.NewCustom("Import / Export Data", "Close", content, a.window)
	d.Resize(fyne.NewSize(450, 250))
	d.Show()
}

// restoreBackup replaces the in-memory data and writes every file back.
func (a *App) restoreBackup(b project.BackupData) error {
	a.config = b.Config
	a.inventory = b.Inventory
	if b.Rates != nil {
		a.rates = *b.Rates
		if err := project.SaveRates(project.DefaultRatesPath(), a.rates); err != nil {
			return err
		}
	}
	a.applyTheme()
	if err := a.saveConfig(); err != nil {
		return err
	}
	if err := project.SaveDefaultTemplates(b.Templates); err != nil {
		return err
	}
	return a.materialsChanged()
}

// saveConfig persists the current app config to disk.
func (a *App) saveConfig() error {
	return project.SaveAppConfig(project.DefaultConfigPath(), a.config)
}

// parseDimensions reads three millimetre values.
func parseDimensions(w, h, d string) (model.Dimensions, error) {
	var vals [3]float64
	for i, s := range []string{w, h, d} {
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return model.Dimensions{}, fmt.Errorf("%q is not a number", s)
		}
		vals[i] = v
	}
	dims := model.Dimensions{Width: vals[0], Height: vals[1], Depth: vals[2]}
	return dims, dims.Validate()
}
