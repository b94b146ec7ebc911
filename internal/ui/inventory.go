package ui

import (
	"fmt"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/CaseForge/internal/importer"
	"github.com/piwi3910/CaseForge/internal/model"
	"github.com/piwi3910/CaseForge/internal/project"
)

// ─── Materials Dialog ──────────────────────────────────────

func (a *App) showMaterialsDialog() {
	list := container.NewVBox()
	var refreshList func()

	refreshList = func() {
		list.RemoveAll()

		if len(a.inventory.Materials) == 0 {
			list.Add(widget.NewLabel("No materials defined."))
			return
		}

		header := container.NewGridWithColumns(6,
			widget.NewLabelWithStyle("Name", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
			widget.NewLabelWithStyle("Board / m²", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
			widget.NewLabelWithStyle("Facade / m²", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
			widget.NewLabelWithStyle("Colour", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
			widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{}),
			widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{}),
		)
		list.Add(header)
		list.Add(widget.NewSeparator())

		for i := range a.inventory.Materials {
			m := a.inventory.Materials[i]
			row := container.NewGridWithColumns(6,
				widget.NewLabel(m.Name),
				widget.NewLabel(fmt.Sprintf("%.2f", m.PricePerM2)),
				widget.NewLabel(fmt.Sprintf("%.2f", m.SampleRate)),
				widget.NewLabel(m.Color),
				widget.NewButtonWithIcon("", theme.DocumentCreateIcon(), func() {
					a.showMaterialForm(m, refreshList)
				}),
				widget.NewButtonWithIcon("", theme.DeleteIcon(), func() {
					a.inventory.Remove(m.ID)
					a.afterInventoryEdit()
					refreshList()
				}),
			)
			list.Add(row)
		}
	}

	refreshList()

	addBtn := widget.NewButtonWithIcon("Add Material", theme.ContentAddIcon(), func() {
		a.showMaterialForm(model.Material{}, refreshList)
	})
	priceListBtn := widget.NewButtonWithIcon("Import Price List...", theme.FolderOpenIcon(), func() {
		a.importPriceList(refreshList)
	})
	importBtn := widget.NewButtonWithIcon("Import...", theme.FolderOpenIcon(), func() {
		a.importInventory(refreshList)
	})
	exportBtn := widget.NewButtonWithIcon("Export...", theme.DocumentSaveIcon(), a.exportInventory)

	toolbar := container.NewHBox(addBtn, layout.NewSpacer(), priceListBtn, importBtn, exportBtn)

	content := container.NewBorder(
		toolbar,
		nil, nil, nil,
		container.NewVScroll(list),
	)

	d := dialog.NewCustom("Materials", "Close", content, a.window)
	d.Resize(fyne.NewSize(760, 500))
	d.Show()
}

// showMaterialForm edits m, or adds a new material when m has no name.
func (a *App) showMaterialForm(m model.Material, onDone func()) {
	title := "Edit Material"
	if m.Name == "" {
		title = "Add Material"
	}
	original := m.Name

	nameEntry := widget.NewEntry()
	nameEntry.SetText(m.Name)
	priceEntry := widget.NewEntry()
	priceEntry.SetText(strconv.FormatFloat(m.PricePerM2, 'f', -1, 64))
	sampleEntry := widget.NewEntry()
	sampleEntry.SetText(strconv.FormatFloat(m.SampleRate, 'f', -1, 64))
	colorEntry := widget.NewEntry()
	colorEntry.SetText(m.Color)
	colorEntry.SetPlaceHolder("#c8a165")

	form := dialog.NewForm(title, "Save", "Cancel", []*widget.FormItem{
		widget.NewFormItem("Name", nameEntry),
		widget.NewFormItem("Board price / m²", priceEntry),
		widget.NewFormItem("Facade price / m²", sampleEntry),
		widget.NewFormItem("Colour", colorEntry),
	}, func(ok bool) {
		if !ok {
			return
		}
		name := strings.TrimSpace(nameEntry.Text)
		price, err1 := strconv.ParseFloat(strings.TrimSpace(priceEntry.Text), 64)
		sample, err2 := strconv.ParseFloat(strings.TrimSpace(sampleEntry.Text), 64)
		if name == "" || err1 != nil || err2 != nil || price < 0 || sample < 0 {
			dialog.ShowError(fmt.Errorf("a material needs a name and non-negative prices"), a.window)
			return
		}
		if original != "" && original != name {
			a.inventory.Remove(m.ID)
		}
		m.Name, m.PricePerM2, m.SampleRate, m.Color = name, price, sample, strings.TrimSpace(colorEntry.Text)
		a.inventory.Upsert(m)
		a.afterInventoryEdit()
		onDone()
	}, a.window)
	form.Resize(fyne.NewSize(420, 300))
	form.Show()
}

// ─── Import / Export ───────────────────────────────────────

func (a *App) importPriceList(onDone func()) {
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()

		result := importer.ImportFile(reader.URI().Path())
		for _, w := range result.Warnings {
			a.log.Info("price list import", "warning", w)
		}
		if len(result.Errors) > 0 {
			dialog.ShowError(fmt.Errorf("errors encountered during import:\n\n%s", strings.Join(result.Errors, "\n")), a.window)
		}
		if len(result.Materials) == 0 {
			return
		}

		before := len(a.inventory.Materials)
		a.inventory = project.MergeInventory(a.inventory, result.Materials)
		a.afterInventoryEdit()
		onDone()

		msg := fmt.Sprintf("Added %d of %d materials.", len(a.inventory.Materials)-before, len(result.Materials))
		if len(result.Errors) > 0 {
			msg += fmt.Sprintf("\n\nHowever, %d rows had errors and were skipped.", len(result.Errors))
		}
		dialog.ShowInformation("Import Complete", msg, a.window)
	}, a.window)
}

func (a *App) importInventory(onDone func()) {
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()

		merged, err := project.ImportInventory(reader.URI().Path(), a.inventory)
		if err != nil {
			dialog.ShowError(err, a.window)
			return
		}

		a.inventory = merged
		a.afterInventoryEdit()
		onDone()
		dialog.ShowInformation("Import Complete",
			fmt.Sprintf("Inventory now contains %d materials.", len(a.inventory.Materials)),
			a.window)
	}, a.window)
}

func (a *App) exportInventory() {
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		defer writer.Close()

		if err := project.SaveInventory(writer.URI().Path(), a.inventory); err != nil {
			dialog.ShowError(err, a.window)
		} else {
			dialog.ShowInformation("Export Complete",
				fmt.Sprintf("Inventory exported to %s", writer.URI().Path()),
				a.window)
		}
	}, a.window)
	d.SetFileName("materials.json")
	d.Show()
}

func (a *App) afterInventoryEdit() {
	if err := a.materialsChanged(); err != nil {
		dialog.ShowError(err, a.window)
	}
}

// materialsChanged saves the inventory and reprices with it.
func (a *App) materialsChanged() error {
	if a.inventoryPath != "" {
		if err := project.SaveInventory(a.inventoryPath, a.inventory); err != nil {
			return fmt.Errorf("failed to save inventory: %w", err)
		}
	}
	a.rates = a.rates.WithInventory(a.inventory)
	if a.material != nil {
		a.material.Options = a.inventory.Names()
		a.material.Refresh()
	}
	if a.editor != nil {
		return a.editor.SetRates(a.rates)
	}
	return nil
}
