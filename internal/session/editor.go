// Package session holds one open configuration while it is being edited:
// every edit is recorded for undo, and geometry and price are recomputed
// once a burst of edits has settled.
package session

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/piwi3910/CaseForge/internal/engine"
	"github.com/piwi3910/CaseForge/internal/export"
	"github.com/piwi3910/CaseForge/internal/history"
	"github.com/piwi3910/CaseForge/internal/model"
	"github.com/piwi3910/CaseForge/internal/pricing"
	"github.com/piwi3910/CaseForge/internal/project"
	"github.com/piwi3910/CaseForge/internal/zonetree"
)

// Result is the outcome of one recompute.
type Result struct {
	Layout *engine.Layout
	Quote  *pricing.Quote
	Issues []zonetree.Issue
	Pruned []string
	Err    error
}

// Options configure an Editor. Zero values fall back to model.DefaultAppConfig
// and pricing.DefaultRateTable.
type Options struct {
	App    *model.AppConfig
	Rates  *pricing.RateTable
	Logger *slog.Logger
	// Path is the file the configuration was loaded from, used by Save("").
	Path string
	// OnChange is called after every recompute, on the goroutine that ran it.
	OnChange func(Result)
}

// Editor owns a configuration. It is safe for concurrent use.
type Editor struct {
	log      *slog.Logger
	rates    pricing.RateTable
	money    *pricing.Formatter
	stock    model.StockSheet
	resolver *engine.Resolver
	debounce *engine.Debouncer
	onChange func(Result)

	mu      sync.Mutex
	cfg     *model.Configuration
	history *history.History
	last    Result
	dirty   bool
	path    string
}

// New opens cfg for editing. The editor keeps the pointer; callers must not
// modify cfg afterwards except through the editor.
func New(cfg *model.Configuration, opts Options) (*Editor, error) {
	app := model.DefaultAppConfig()
	if opts.App != nil {
		app = *opts.App
	}
	rates := pricing.DefaultRateTable()
	if opts.Rates != nil {
		rates = *opts.Rates
	}
	if err := rates.Validate(); err != nil {
		return nil, err
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	money, err := pricing.NewFormatter(rates.Currency, app.Language)
	if err != nil {
		log.Warn("falling back to plain amounts", "error", err)
		money = nil
	}

	cfg.Deletions()
	return &Editor{
		log:      log,
		rates:    rates,
		money:    money,
		stock:    app.Stock,
		resolver: engine.NewResolver(app.CacheSize, engine.Options{Tolerance: app.Tolerance, Logger: log}),
		debounce: engine.NewDebouncer(time.Duration(app.DebounceMS) * time.Millisecond),
		onChange: opts.OnChange,
		cfg:      cfg,
		history:  history.New(app.HistoryDepth),
		path:     opts.Path,
	}, nil
}

// Open loads a configuration file and opens it for editing.
func Open(path string, opts Options) (*Editor, error) {
	cfg, err := project.LoadConfiguration(path)
	if err != nil {
		return nil, err
	}
	opts.Path = path
	return New(cfg, opts)
}

// Configuration returns a copy of the edited configuration. The zone tree is
// shared; trees are never modified in place.
func (e *Editor) Configuration() model.Configuration {
	e.mu.Lock()
	defer e.mu.Unlock()
	c := *e.cfg
	c.DeletedPanelIDs = e.cfg.Deletions().Clone()
	return c
}

// Edit applies a tree operator. Operators return the input tree unchanged
// when they are no-ops, in which case nothing is recorded.
func (e *Editor) Edit(label string, op func(*model.Zone) *model.Zone) bool {
	e.mu.Lock()
	before := e.cfg.Tree()
	next := op(before)
	if next == before {
		e.mu.Unlock()
		return false
	}
	e.history.Push(history.MakeSnapshot(e.cfg, label))
	e.cfg.ZoneTree = next
	e.mu.Unlock()

	e.changed()
	return true
}

// Group wraps consecutive sibling zones into a container, optionally behind
// one door. A refused selection leaves the tree and history untouched.
func (e *Editor) Group(ids []string, door model.ContentKind) error {
	e.mu.Lock()
	next, err := zonetree.Group(e.cfg.Tree(), ids, door)
	if err != nil {
		e.mu.Unlock()
		return err
	}
	e.history.Push(history.MakeSnapshot(e.cfg, "Group zones"))
	e.cfg.ZoneTree = next
	e.mu.Unlock()

	e.changed()
	return nil
}

// SetDimensions resizes the envelope. Invalid dimensions are refused.
func (e *Editor) SetDimensions(d model.Dimensions) error {
	if err := d.Validate(); err != nil {
		return err
	}
	e.mu.Lock()
	if e.cfg.Dimensions == d {
		e.mu.Unlock()
		return nil
	}
	e.history.Push(history.MakeSnapshot(e.cfg, "Resize"))
	e.cfg.Dimensions = d
	e.mu.Unlock()

	e.changed()
	return nil
}

// TogglePanel deletes or restores one panel and returns whether it is now
// deleted.
func (e *Editor) TogglePanel(id string) bool {
	e.mu.Lock()
	e.history.Push(history.MakeSnapshot(e.cfg, "Toggle "+id))
	deleted := e.cfg.Deletions().Toggle(id)
	e.mu.Unlock()

	e.changed()
	return deleted
}

// RestoreAll brings every deleted panel back as one undoable edit and
// returns how many were restored.
func (e *Editor) RestoreAll() int {
	e.mu.Lock()
	ids := e.cfg.Deletions().IDs()
	if len(ids) == 0 {
		e.mu.Unlock()
		return 0
	}
	e.history.Push(history.MakeSnapshot(e.cfg, "Restore all panels"))
	e.cfg.Deletions().BulkRestore(ids)
	e.mu.Unlock()

	e.changed()
	return len(ids)
}

// SetMaterials changes the material selection. It is not recorded for undo.
func (e *Editor) SetMaterials(m model.MaterialSelection) {
	e.mu.Lock()
	if e.cfg.MaterialSelection == m {
		e.mu.Unlock()
		return
	}
	e.cfg.MaterialSelection = m
	e.mu.Unlock()

	e.changed()
}

// SetRates replaces the rate table used for quotes. Invalid tables are
// refused and the current one is kept.
func (e *Editor) SetRates(rates pricing.RateTable) error {
	if err := rates.Validate(); err != nil {
		return err
	}
	e.mu.Lock()
	e.rates = rates
	e.mu.Unlock()

	e.debounce.Trigger(func() { e.run() })
	return nil
}

// Undo restores the previous state.
func (e *Editor) Undo() bool {
	e.mu.Lock()
	s, ok := e.history.Undo(history.MakeSnapshot(e.cfg, "Undo"))
	if ok {
		s.Restore(e.cfg)
	}
	e.mu.Unlock()

	if ok {
		e.changed()
	}
	return ok
}

// Redo reapplies the last undone edit.
func (e *Editor) Redo() bool {
	e.mu.Lock()
	s, ok := e.history.Redo(history.MakeSnapshot(e.cfg, "Redo"))
	if ok {
		s.Restore(e.cfg)
	}
	e.mu.Unlock()

	if ok {
		e.changed()
	}
	return ok
}

// CanUndo and CanRedo report whether Undo and Redo would do anything.
func (e *Editor) CanUndo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.CanUndo()
}

func (e *Editor) CanRedo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.CanRedo()
}

// UndoLabels lists the undoable edits, most recent first.
func (e *Editor) UndoLabels() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.Labels()
}

func (e *Editor) changed() {
	e.mu.Lock()
	e.dirty = true
	e.mu.Unlock()
	e.debounce.Trigger(func() { e.run() })
}

// Recompute resolves and prices the configuration now, drops any pending
// debounced recompute, and notifies OnChange.
func (e *Editor) Recompute() Result {
	e.debounce.Stop()
	return e.run()
}

func (e *Editor) run() Result {
	e.mu.Lock()
	res := e.recompute()
	e.last = res
	e.mu.Unlock()

	if e.onChange != nil {
		e.onChange(res)
	}
	return res
}

func (e *Editor) recompute() Result {
	start := time.Now()
	r, err := e.resolver.ResolveConfiguration(e.cfg)
	if err != nil {
		e.log.Warn("configuration does not resolve", "configuration", e.cfg.ID, "error", err)
		return Result{Err: err}
	}
	if len(r.Pruned) > 0 {
		e.dirty = true
	}
	for _, is := range r.Issues {
		if is.NeedsSave() {
			e.dirty = true
		}
	}

	q, err := pricing.Price(pricing.InputFrom(e.cfg), e.rates, pricing.Options{Logger: e.log, Resolver: e.resolver})
	if err != nil {
		return Result{Layout: r.Layout, Issues: r.Issues, Pruned: r.Pruned, Err: err}
	}
	e.log.Debug("recomputed", "configuration", e.cfg.ID, "segments", len(r.Segments), "total", q.Total, "took", time.Since(start))
	return Result{Layout: r.Layout, Quote: q, Issues: r.Issues, Pruned: r.Pruned}
}

// Flush runs a pending recompute immediately.
func (e *Editor) Flush() {
	e.debounce.Flush()
}

// Last returns the most recent recompute.
func (e *Editor) Last() Result {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.last
}

// Document bundles the last recompute for the exporters.
func (e *Editor) Document() (export.Document, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.last.Layout == nil {
		if e.last.Err != nil {
			return export.Document{}, e.last.Err
		}
		return export.Document{}, fmt.Errorf("configuration has not been computed")
	}
	doc := export.NewDocument(e.cfg, e.last.Layout, e.last.Quote, e.money)
	doc.Deleted = doc.Deleted.Clone()
	doc.Stock = e.stock
	return doc, nil
}

// Dirty reports unsaved changes.
func (e *Editor) Dirty() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dirty
}

// Path returns the file the configuration was opened from or last saved to.
func (e *Editor) Path() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.path
}

// Save writes the configuration to path, or to the file it was opened from
// when path is empty.
func (e *Editor) Save(path string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if path == "" {
		path = e.path
	}
	if path == "" {
		return fmt.Errorf("no file to save to")
	}
	if err := project.SaveConfiguration(path, e.cfg); err != nil {
		return err
	}
	e.path = path
	e.dirty = false
	return nil
}

// Close drops any pending recompute.
func (e *Editor) Close() {
	e.debounce.Stop()
}
