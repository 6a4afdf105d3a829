package lua

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"slices"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/vimcore/internal/extension"
	"github.com/dshills/vimcore/internal/owner"
)

// Plugin is a loaded Lua plugin.
type Plugin struct {
	Name     string
	Owner    owner.ID
	Manifest *Manifest
	state    *State
}

// Capabilities returns what the plugin was granted.
func (p *Plugin) Capabilities() []Capability {
	return p.state.Sandbox().Capabilities()
}

// Host runs Lua plugins as extensions. Each plugin gets its own state and
// owner, so unloading one removes exactly what it registered.
type Host struct {
	table   *extension.Table
	log     *slog.Logger
	timeout time.Duration
	plugins map[string]*Plugin
}

// HostOption configures a Host.
type HostOption func(*Host)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) HostOption {
	return func(h *Host) { h.log = l }
}

// WithTimeout bounds each chunk and callback of every plugin.
func WithTimeout(d time.Duration) HostOption {
	return func(h *Host) { h.timeout = d }
}

// NewHost creates a host registering plugins into t.
func NewHost(t *extension.Table, opts ...HostOption) *Host {
	h := &Host{
		table:   t,
		log:     slog.New(slog.DiscardHandler),
		timeout: DefaultExecutionTimeout,
		plugins: make(map[string]*Plugin),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.log = h.log.With("component", "lua")
	return h
}

// Load runs source as the plugin name with every capability.
func (h *Host) Load(name, source string) error {
	return h.LoadWith(name, source, AllCapabilities()...)
}

// LoadWith runs source as the plugin name with only caps granted. When
// the chunk fails, whatever it registered is removed and its state
// closed.
func (h *Host) LoadWith(name, source string, caps ...Capability) error {
	m := minimalManifest(name, name+".lua")
	m.Capabilities = caps
	return h.load(m, source)
}

func (h *Host) load(m *Manifest, source string) error {
	var st *State
	id, err := h.table.Register(m.Name, func(f extension.Facade, id owner.ID) error {
		st = NewState(WithExecutionTimeout(h.timeout))
		sb := st.Sandbox()
		sb.Grant(m.Capabilities...)
		sb.SetPrinter(f.Message)
		vim := (&module{st: st, f: f, id: id, name: m.Name}).table()
		sb.Provide("vim", vim)
		st.SetGlobal("vim", vim)
		return st.DoString(m.Name, source)
	})
	if err != nil {
		if st != nil {
			st.Close()
		}
		return err
	}
	h.plugins[m.Name] = &Plugin{Name: m.Name, Owner: id, Manifest: m, state: st}
	h.log.Info("plugin loaded", "plugin", m.String(), "owner", id, "capabilities", m.Capabilities)
	return nil
}

// LoadFS loads every plugin at the top of fsys: a file name.lua, or a
// directory with a plugin.json manifest or an init.lua. Dependencies load
// first. A failing plugin does not stop the others and the errors are
// joined.
func (h *Host) LoadFS(fsys fs.FS) error {
	found, errs := discover(fsys)
	ordered, orderErrs := loadOrder(found)
	errs = append(errs, orderErrs...)
	for _, src := range ordered {
		if err := h.loadSource(fsys, src); err != nil {
			h.log.Warn("plugin failed to load", "name", src.manifest.Name, "error", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (h *Host) loadSource(fsys fs.FS, src pluginSource) error {
	m := src.manifest
	for _, dep := range m.Dependencies {
		if _, ok := h.plugins[dep]; !ok {
			return fmt.Errorf("%s: %w %s", m.Name, ErrMissingDependency, dep)
		}
	}
	code, err := fs.ReadFile(fsys, src.mainPath())
	if err != nil {
		return err
	}
	return h.load(m, string(code))
}

// Unload removes everything the plugin registered, closes its state and
// returns how many registrations went.
func (h *Host) Unload(name string) (int, error) {
	p, ok := h.plugins[name]
	if !ok {
		return 0, fmt.Errorf("%s: %w", name, extension.ErrNotLoaded)
	}
	n, err := h.table.Unload(name)
	delete(h.plugins, name)
	p.state.Close()
	h.log.Info("plugin unloaded", "name", name, "removed", n)
	return n, err
}

// Get returns a loaded plugin.
func (h *Host) Get(name string) (*Plugin, bool) {
	p, ok := h.plugins[name]
	return p, ok
}

// Plugins returns the names of the loaded plugins, sorted.
func (h *Host) Plugins() []string {
	names := make([]string, 0, len(h.plugins))
	for name := range h.plugins {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Call calls the global function fn of a plugin with Go arguments and
// returns its results as Go values.
func (h *Host) Call(name, fn string, args ...any) ([]any, error) {
	p, ok := h.plugins[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, extension.ErrNotLoaded)
	}
	largs := make([]lua.LValue, len(args))
	for i, a := range args {
		largs[i] = ToLuaValue(p.state.L, a)
	}
	res, err := p.state.Call(fn, largs...)
	if err != nil {
		return nil, err
	}
	out := make([]any, len(res))
	for i, v := range res {
		out[i] = ToGoValue(v)
	}
	return out, nil
}

// Close unloads every plugin.
func (h *Host) Close() error {
	var errs []error
	for _, name := range h.Plugins() {
		if _, err := h.Unload(name); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
