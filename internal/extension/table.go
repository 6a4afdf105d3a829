package extension

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/dshills/vimcore/internal/owner"
)

// Extension errors.
var (
	ErrNoKeys        = errors.New("no keys")
	ErrAlreadyLoaded = errors.New("extension already loaded")
	ErrNotLoaded     = errors.New("extension not loaded")
)

// Extension is one entry of the static registration table.
type Extension struct {
	Name string

	// Setup registers the extension's commands and mappings under id.
	Setup func(f Facade, id owner.ID) error
}

// Table loads extensions and remembers the owner each one registered
// under.
type Table struct {
	facade Facade
	log    *slog.Logger
	owners map[string]owner.ID
	order  []string
}

// NewTable creates an empty table registering through f.
func NewTable(f Facade, log *slog.Logger) *Table {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Table{
		facade: f,
		log:    log.With("component", "extension"),
		owners: make(map[string]owner.ID),
	}
}

// Facade returns the facade extensions register through.
func (t *Table) Facade() Facade { return t.facade }

// Load sets up each extension in order. An extension whose Setup fails
// has whatever it registered removed; the others still load. The errors
// are joined.
func (t *Table) Load(exts ...Extension) error {
	var errs []error
	for _, ext := range exts {
		if _, err := t.Register(ext.Name, ext.Setup); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Register sets up one extension and returns its owner.
func (t *Table) Register(name string, setup func(Facade, owner.ID) error) (owner.ID, error) {
	if _, ok := t.owners[name]; ok {
		return "", fmt.Errorf("%s: %w", name, ErrAlreadyLoaded)
	}
	id := owner.New(name)
	if setup != nil {
		if err := setup(t.facade, id); err != nil {
			n := t.facade.Unregister(id)
			t.log.Warn("extension setup failed", "name", name, "error", err, "rolled_back", n)
			return "", fmt.Errorf("extension %s: %w", name, err)
		}
	}
	t.owners[name] = id
	t.order = append(t.order, name)
	t.log.Debug("extension loaded", "name", name, "owner", id)
	return id, nil
}

// Unload removes everything the extension registered and returns how
// many commands, mappings and operator functions went.
func (t *Table) Unload(name string) (int, error) {
	id, ok := t.owners[name]
	if !ok {
		return 0, fmt.Errorf("%s: %w", name, ErrNotLoaded)
	}
	n := t.facade.Unregister(id)
	delete(t.owners, name)
	t.order = slices.DeleteFunc(t.order, func(s string) bool { return s == name })
	t.log.Debug("extension unloaded", "name", name, "removed", n)
	return n, nil
}

// Owner returns the identity a loaded extension registered under.
func (t *Table) Owner(name string) (owner.ID, bool) {
	id, ok := t.owners[name]
	return id, ok
}

// Loaded returns the loaded extensions in load order.
func (t *Table) Loaded() []string {
	return slices.Clone(t.order)
}
