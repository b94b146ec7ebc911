// CaseForge: resolve a furniture configuration, price it, export it.
//
// Usage:
//
//	caseforge [flags] cabinet.caseforge.json
//
// Examples:
//
//	caseforge -export pdf,bom -out build/ cabinet.caseforge.json
//	caseforge -import-prices suppliers.xlsx
//	caseforge -template "Hall cabinet" cabinet.caseforge.json
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/piwi3910/CaseForge/internal/engine"
	"github.com/piwi3910/CaseForge/internal/export"
	"github.com/piwi3910/CaseForge/internal/importer"
	"github.com/piwi3910/CaseForge/internal/model"
	"github.com/piwi3910/CaseForge/internal/pricing"
	"github.com/piwi3910/CaseForge/internal/project"
)

var exporters = map[string]struct {
	suffix string
	write  func(string, export.Document) error
}{
	"pdf":    {".pdf", export.ExportPDF},
	"labels": {"-labels.pdf", export.ExportLabels},
	"bom":    {".xlsx", export.ExportBOM},
	"dxf":    {".dxf", export.ExportDXF},
	"svg":    {".svg", export.ExportSVG},
}

type options struct {
	configPath    string
	ratesPath     string
	inventoryPath string
	exportKinds   string
	outDir        string
	importPrices  string
	template      string
	backup        string
	jsonOut       bool
	verbose       bool
}

func main() {
	var o options
	flag.StringVar(&o.configPath, "config", project.DefaultConfigPath(), "application preferences file")
	flag.StringVar(&o.ratesPath, "rates", project.DefaultRatesPath(), "rate table (YAML or JSON)")
	flag.StringVar(&o.inventoryPath, "inventory", project.DefaultInventoryPath(), "material inventory file")
	flag.StringVar(&o.exportKinds, "export", "", "comma-separated exports: pdf, labels, bom, dxf, svg")
	flag.StringVar(&o.outDir, "out", ".", "directory for exported files")
	flag.StringVar(&o.importPrices, "import-prices", "", "merge a CSV or XLSX price list into the inventory")
	flag.StringVar(&o.template, "template", "", "save the configuration as a template with this name")
	flag.StringVar(&o.backup, "backup", "", "write a backup of preferences, inventory, templates and rates")
	flag.BoolVar(&o.jsonOut, "json", false, "print the quote as JSON")
	flag.BoolVar(&o.verbose, "v", false, "verbose logging")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] [configuration]\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	level := slog.LevelInfo
	if o.verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(log)

	if err := run(o, flag.Args(), log); err != nil {
		die(log, err)
	}
}

func die(log *slog.Logger, err error) {
	log.Error("caseforge failed", "error", err)
	os.Exit(1)
}

func run(o options, args []string, log *slog.Logger) error {
	app, err := project.LoadAppConfig(o.configPath)
	if err != nil {
		return fmt.Errorf("failed to load preferences: %w", err)
	}
	rates, err := project.LoadRates(o.ratesPath)
	if err != nil {
		return fmt.Errorf("failed to load rates: %w", err)
	}
	inventory, err := project.LoadInventory(o.inventoryPath)
	if err != nil {
		return fmt.Errorf("failed to load inventory: %w", err)
	}

	if o.importPrices != "" {
		if inventory, err = importPrices(o.importPrices, o.inventoryPath, inventory, log); err != nil {
			return err
		}
	}
	rates = rates.WithInventory(inventory)

	if o.backup != "" {
		templates, err := project.LoadDefaultTemplates()
		if err != nil {
			return fmt.Errorf("failed to load templates: %w", err)
		}
		err = project.ExportAllData(o.backup, project.BackupData{
			Config:    app,
			Inventory: inventory,
			Templates: templates,
			Rates:     &rates,
		})
		if err != nil {
			return err
		}
		log.Info("backup written", "path", o.backup)
	}

	if len(args) == 0 {
		if o.importPrices == "" && o.backup == "" {
			flag.Usage()
			return errors.New("no configuration given")
		}
		return nil
	}
	if len(args) > 1 {
		return fmt.Errorf("expected one configuration, got %d", len(args))
	}
	return process(o, args[0], app, rates, log)
}

func process(o options, path string, app model.AppConfig, rates pricing.RateTable, log *slog.Logger) error {
	cfg, err := project.LoadConfiguration(path)
	if err != nil {
		return err
	}

	start := time.Now()
	eopts := engine.Options{Tolerance: app.Tolerance, Logger: log}
	res, err := engine.ResolveConfiguration(cfg, eopts)
	if err != nil {
		return fmt.Errorf("configuration %q does not resolve: %w", cfg.Name, err)
	}
	quote, err := pricing.PriceConfiguration(cfg, rates, pricing.Options{Logger: log, Engine: eopts})
	if err != nil {
		return err
	}
	log.Debug("resolved", "segments", len(res.Segments), "took", time.Since(start))

	if len(res.Pruned) > 0 || needsSave(res) {
		log.Info("configuration repaired", "pruned", len(res.Pruned), "issues", len(res.Issues))
	}

	money, err := pricing.NewFormatter(rates.Currency, app.Language)
	if err != nil {
		log.Warn("falling back to plain amounts", "error", err)
		money = nil
	}

	if o.jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(quote); err != nil {
			return err
		}
	} else {
		printQuote(cfg.Name, quote, money)
	}

	doc := export.NewDocument(cfg, res.Layout, quote, money)
	doc.Stock = app.Stock
	if !o.jsonOut {
		plan := doc.CutPlan()
		fmt.Printf("  %-12s %14d  (%.0f x %.0f mm, %.0f%% used)\n", "Sheets", len(plan.Sheets), app.Stock.Width, app.Stock.Height, plan.Efficiency())
		for _, p := range plan.Unplaced {
			log.Warn("panel larger than a stock sheet", "panel", p.SegmentID, "length", p.Length, "width", p.Width)
		}
	}
	if err := exportAll(o, path, doc, log); err != nil {
		return err
	}

	if o.template != "" {
		store, err := project.LoadDefaultTemplates()
		if err != nil {
			return fmt.Errorf("failed to load templates: %w", err)
		}
		if existing := store.FindByName(o.template); existing != nil {
			store.Remove(existing.ID)
		}
		store.Add(model.NewConfigurationTemplate(o.template, cfg.Name, *cfg))
		if err := project.SaveDefaultTemplates(store); err != nil {
			return err
		}
		log.Info("template saved", "name", o.template)
	}
	return nil
}

func needsSave(res *engine.Resolution) bool {
	for _, is := range res.Issues {
		if is.NeedsSave() {
			return true
		}
	}
	return false
}

func exportAll(o options, path string, doc export.Document, log *slog.Logger) error {
	if o.exportKinds == "" {
		return nil
	}
	if err := os.MkdirAll(o.outDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	stem := strings.TrimSuffix(filepath.Base(path), project.FileExtension)
	stem = strings.TrimSuffix(stem, filepath.Ext(stem))
	for _, kind := range strings.Split(o.exportKinds, ",") {
		kind = strings.ToLower(strings.TrimSpace(kind))
		e, ok := exporters[kind]
		if !ok {
			return fmt.Errorf("unknown export %q", kind)
		}
		out := filepath.Join(o.outDir, stem+e.suffix)
		if err := e.write(out, doc); err != nil {
			return fmt.Errorf("%s export: %w", kind, err)
		}
		log.Info("exported", "kind", kind, "path", out)
	}
	return nil
}

func importPrices(path, inventoryPath string, inv model.Inventory, log *slog.Logger) (model.Inventory, error) {
	result := importer.ImportFile(path)
	for _, w := range result.Warnings {
		log.Warn("price list", "warning", w)
	}
	for _, e := range result.Errors {
		log.Error("price list", "error", e)
	}
	if len(result.Materials) == 0 {
		return inv, fmt.Errorf("no materials imported from %s", path)
	}
	before := len(inv.Materials)
	inv = project.MergeInventory(inv, result.Materials)
	if err := project.SaveInventory(inventoryPath, inv); err != nil {
		return inv, fmt.Errorf("failed to save inventory: %w", err)
	}
	log.Info("price list imported", "added", len(inv.Materials)-before, "read", len(result.Materials))
	return inv, nil
}

func printQuote(name string, q *pricing.Quote, money *pricing.Formatter) {
	amount := func(v float64) string {
		if money != nil {
			return money.Format(v)
		}
		return fmt.Sprintf("%.2f %s", v, q.Currency)
	}
	b := q.Breakdown
	fmt.Printf("%s\n", name)
	for _, row := range []struct {
		label string
		v     float64
	}{
		{"Casing", b.Casing},
		{"Back", b.Back},
		{"Socle", b.Socle},
		{"Equipment", b.Equipment},
		{"Separators", b.Separators},
		{"Doors", b.Doors},
	} {
		fmt.Printf("  %-12s %14s\n", row.label, amount(row.v))
	}
	fmt.Printf("  %-12s %14s\n", "Total", amount(q.Total))
	for _, a := range q.Anomalies {
		fmt.Printf("  ! %s %s: %s\n", a.Component, a.Label, a.Detail)
	}
}
